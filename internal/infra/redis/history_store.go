package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"ai-quiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

// HistoryStore keeps results in a Redis list, newest at the head:
//
//	LPUSH {key} {result json}
//	LTRIM {key} 0 49
//
// Both commands run in one MULTI block so readers never see more than the limit.
type HistoryStore struct {
	client *redis.Client
	key    string
}

func NewHistoryStore(client *redis.Client, key string) *HistoryStore {
	if key == "" {
		key = "quiz:history"
	}
	return &HistoryStore{client: client, key: key}
}

func (s *HistoryStore) Record(ctx context.Context, result domain.QuizResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.LPush(ctx, s.key, data)
		pipe.LTrim(ctx, s.key, 0, domain.HistoryLimit-1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("record result: %w", err)
	}
	return nil
}

func (s *HistoryStore) List(ctx context.Context) ([]domain.QuizResult, error) {
	raw, err := s.client.LRange(ctx, s.key, 0, domain.HistoryLimit-1).Result()
	if err != nil {
		return nil, fmt.Errorf("list results: %w", err)
	}
	results := make([]domain.QuizResult, 0, len(raw))
	for _, item := range raw {
		var r domain.QuizResult
		if err := json.Unmarshal([]byte(item), &r); err != nil {
			return nil, fmt.Errorf("unmarshal result: %w", err)
		}
		results = append(results, r)
	}
	return results, nil
}
