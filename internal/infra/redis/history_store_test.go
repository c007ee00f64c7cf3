package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"ai-quiz-service/internal/domain"
	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestHistoryStoreCapsAndOrders(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	store := NewHistoryStore(newClient(mr), "")

	for i := 0; i < 55; i++ {
		if err := store.Record(ctx, domain.QuizResult{ID: fmt.Sprintf("r%d", i), Score: float64(i)}); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	results, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(results) != domain.HistoryLimit {
		t.Fatalf("expected %d results, got %d", domain.HistoryLimit, len(results))
	}
	if results[0].ID != "r54" || results[len(results)-1].ID != "r5" {
		t.Fatalf("expected newest first, got head=%s tail=%s", results[0].ID, results[len(results)-1].ID)
	}

	items, err := mr.List("quiz:history")
	if err != nil {
		t.Fatalf("read list: %v", err)
	}
	if len(items) != domain.HistoryLimit {
		t.Fatalf("expected redis list trimmed to %d, got %d", domain.HistoryLimit, len(items))
	}
}

func TestHistoryStoreRoundTripsResult(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	ctx := context.Background()
	store := NewHistoryStore(newClient(mr), "quiz:history:test")
	want := sampleResult()
	if err := store.Record(ctx, want); err != nil {
		t.Fatalf("record: %v", err)
	}

	results, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected one result, got %d", len(results))
	}
	got := results[0]
	if got.ID != want.ID || got.Score != want.Score || !got.Date.Equal(want.Date) ||
		len(got.Questions) != 1 || len(got.Answers) != 1 || got.Answers[0].IsCorrect != true {
		t.Fatalf("result changed in storage: %+v", got)
	}
}

func TestHistoryStoreListEmpty(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("run miniredis: %v", err)
	}
	defer mr.Close()

	results, err := NewHistoryStore(newClient(mr), "").List(context.Background())
	if err != nil || len(results) != 0 {
		t.Fatalf("expected empty history, got %v, %v", results, err)
	}
}

func sampleResult() domain.QuizResult {
	return domain.QuizResult{
		ID:             "result-1",
		QuizID:         "quiz-1",
		QuizTitle:      "Arithmetic",
		Topic:          "Math",
		Difficulty:     domain.DifficultyEasy,
		Score:          100,
		TotalQuestions: 1,
		CorrectAnswers: 1,
		TimeTaken:      12,
		Date:           time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		Questions: []domain.Question{
			{
				ID:   "q1",
				Text: "What is 2 + 2?",
				Type: domain.QuestionMultiple,
				Answers: []domain.Answer{
					{Text: "3"},
					{Text: "4", IsCorrect: true},
				},
				Explanation: "Basic addition.",
			},
		},
		Answers: []domain.GradedAnswer{{QuestionID: "q1", SelectedAnswer: "4", IsCorrect: true}},
	}
}

func newClient(mr *miniredis.Miniredis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
}
