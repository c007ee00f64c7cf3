package memory

import (
	"context"
	"sync"

	"ai-quiz-service/internal/domain"
)

// HistoryStore is an in-memory implementation of app.HistoryRepository.
type HistoryStore struct {
	mu      sync.RWMutex
	results []domain.QuizResult
}

func NewHistoryStore() *HistoryStore {
	return &HistoryStore{}
}

// NewHistoryStoreFrom seeds the store, e.g. with results loaded at startup.
// Seeds are expected most recent first and are capped like any other write.
func NewHistoryStoreFrom(results []domain.QuizResult) *HistoryStore {
	if len(results) > domain.HistoryLimit {
		results = results[:domain.HistoryLimit]
	}
	return &HistoryStore{results: append([]domain.QuizResult{}, results...)}
}

func (s *HistoryStore) Record(_ context.Context, result domain.QuizResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]domain.QuizResult, 0, min(len(s.results)+1, domain.HistoryLimit))
	next = append(next, result)
	next = append(next, s.results...)
	if len(next) > domain.HistoryLimit {
		next = next[:domain.HistoryLimit]
	}
	s.results = next
	return nil
}

func (s *HistoryStore) List(_ context.Context) ([]domain.QuizResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.QuizResult{}, s.results...), nil
}
