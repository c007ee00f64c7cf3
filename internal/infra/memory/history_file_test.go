package memory

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"ai-quiz-service/internal/domain"
)

func TestFileHistoryStoreSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data", "history.json")

	store, err := OpenFileHistoryStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if results, _ := store.List(ctx); len(results) != 0 {
		t.Fatalf("expected empty history for a missing file, got %d", len(results))
	}
	recorded := domain.QuizResult{
		ID:             "r1",
		QuizID:         "quiz-1",
		QuizTitle:      "Capitals",
		Difficulty:     domain.DifficultyEasy,
		Score:          50,
		TotalQuestions: 2,
		CorrectAnswers: 1,
		Date:           time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC),
		Answers:        []domain.GradedAnswer{{QuestionID: "q1", SelectedAnswer: "Paris", IsCorrect: true}},
	}
	if err := store.Record(ctx, recorded); err != nil {
		t.Fatalf("record: %v", err)
	}

	reopened, err := OpenFileHistoryStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	results, err := reopened.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected one result after reopen, got %d", len(results))
	}
	got := results[0]
	if got.ID != "r1" || got.QuizTitle != "Capitals" || got.Score != 50 || !got.Date.Equal(recorded.Date) {
		t.Fatalf("unexpected result after reopen: %+v", got)
	}
	if len(got.Answers) != 1 || !got.Answers[0].IsCorrect {
		t.Fatalf("expected graded answers to survive, got %+v", got.Answers)
	}
}

func TestFileHistoryStoreCapSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "history.json")

	store, err := OpenFileHistoryStore(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	for i := 0; i < 55; i++ {
		if err := store.Record(ctx, domain.QuizResult{ID: fmt.Sprintf("r%d", i)}); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	reopened, err := OpenFileHistoryStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	results, _ := reopened.List(ctx)
	if len(results) != domain.HistoryLimit {
		t.Fatalf("expected %d results, got %d", domain.HistoryLimit, len(results))
	}
	if results[0].ID != "r54" || results[len(results)-1].ID != "r5" {
		t.Fatalf("expected r54..r5, got %s..%s", results[0].ID, results[len(results)-1].ID)
	}
}

func TestOpenFileHistoryStoreErrors(t *testing.T) {
	dir := t.TempDir()
	corrupt := filepath.Join(dir, "corrupt.json")
	if err := os.WriteFile(corrupt, []byte("{not json"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	empty := filepath.Join(dir, "empty.json")
	if err := os.WriteFile(empty, nil, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	cases := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"corrupt file", corrupt, true},
		{"no path", "", true},
		{"empty file", empty, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := OpenFileHistoryStore(tc.path)
			if (err != nil) != tc.wantErr {
				t.Fatalf("wantErr=%v, got %v", tc.wantErr, err)
			}
		})
	}
}
