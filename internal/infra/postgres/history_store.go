package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"ai-quiz-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// HistoryStore keeps results as JSONB rows in quiz_results. Insertion order is the
// seq column; each write prunes everything but the newest domain.HistoryLimit rows
// in the same transaction.
type HistoryStore struct {
	pool *pgxpool.Pool
}

func NewHistoryStore(pool *pgxpool.Pool) *HistoryStore {
	return &HistoryStore{pool: pool}
}

func (s *HistoryStore) Record(ctx context.Context, result domain.QuizResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	err = s.pool.BeginFunc(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO quiz_results (id, quiz_id, score, data) VALUES ($1, $2, $3, $4)`,
			result.ID, result.QuizID, result.Score, data); err != nil {
			return err
		}
		_, err := tx.Exec(ctx,
			`DELETE FROM quiz_results WHERE seq NOT IN (SELECT seq FROM quiz_results ORDER BY seq DESC LIMIT $1)`,
			domain.HistoryLimit)
		return err
	})
	if err != nil {
		return fmt.Errorf("record result: %w", err)
	}
	return nil
}

func (s *HistoryStore) List(ctx context.Context) ([]domain.QuizResult, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT data FROM quiz_results ORDER BY seq DESC LIMIT $1`, domain.HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	defer rows.Close()

	results := make([]domain.QuizResult, 0, domain.HistoryLimit)
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		var r domain.QuizResult
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, fmt.Errorf("unmarshal result: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	return results, nil
}
