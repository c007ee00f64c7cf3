package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestQuizOptionsValidate(t *testing.T) {
	valid := QuizOptions{Topic: "Rivers", Difficulty: DifficultyMedium, QuestionCount: 5, QuestionType: QuestionMultiple}

	tests := []struct {
		name   string
		mutate func(*QuizOptions)
		ok     bool
	}{
		{name: "valid", mutate: func(*QuizOptions) {}, ok: true},
		{name: "blank topic", mutate: func(o *QuizOptions) { o.Topic = " " }},
		{name: "unknown difficulty", mutate: func(o *QuizOptions) { o.Difficulty = "extreme" }},
		{name: "zero questions", mutate: func(o *QuizOptions) { o.QuestionCount = 0 }},
		{name: "unknown type", mutate: func(o *QuizOptions) { o.QuestionType = "essay" }},
		{name: "mixed type", mutate: func(o *QuizOptions) { o.QuestionType = QuestionMixed }, ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := valid
			tt.mutate(&opts)
			err := opts.Validate()
			if tt.ok && err != nil {
				t.Fatalf("expected valid, got %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalidOptions) {
				t.Fatalf("expected invalid options, got %v", err)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(nil); got != "" {
		t.Fatalf("expected empty message, got %q", got)
	}
	if got := UserMessage(fmt.Errorf("request: %w", ErrRateLimit)); got != ErrRateLimit.Error() {
		t.Fatalf("expected rate limit message, got %q", got)
	}
	if got := UserMessage(errors.New("boom")); got != "An error occurred while creating the quiz" {
		t.Fatalf("expected generic message, got %q", got)
	}
}

func TestQuestionCorrectAnswer(t *testing.T) {
	q := Question{Answers: []Answer{{Text: "A"}, {Text: "B", IsCorrect: true}}}
	if a, ok := q.CorrectAnswer(); !ok || a.Text != "B" {
		t.Fatalf("expected B, got %+v", a)
	}
	if _, ok := (Question{}).CorrectAnswer(); ok {
		t.Fatalf("expected no correct answer")
	}
}
