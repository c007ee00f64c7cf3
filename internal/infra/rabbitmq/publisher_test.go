package rabbitmq

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"ai-quiz-service/internal/domain"
)

func TestDisabledPublisherDropsEvents(t *testing.T) {
	p, err := NewPublisher("", "", nil)
	if err != nil {
		t.Fatalf("new publisher: %v", err)
	}
	if err := p.PublishResult(context.Background(), domain.QuizResult{ID: "r1"}); err != nil {
		t.Fatalf("expected disabled publisher to accept events, got %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestResultRecordedEventBody(t *testing.T) {
	result := domain.QuizResult{
		ID:             "r1",
		QuizID:         "quiz-1",
		QuizTitle:      "Rivers",
		Topic:          "Geography",
		Difficulty:     domain.DifficultyHard,
		Score:          75,
		CorrectAnswers: 3,
		TotalQuestions: 4,
		Date:           time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		Questions:      []domain.Question{{ID: "q1"}},
	}

	data, err := json.Marshal(newResultRecordedEvent(result))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var body map[string]any
	if err := json.Unmarshal(data, &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body["eventType"] != RoutingKeyResultRecorded || body["resultId"] != "r1" || body["score"] != 75.0 {
		t.Fatalf("unexpected event body %v", body)
	}
	if _, ok := body["questions"]; ok {
		t.Fatalf("expected question snapshot left out of the event")
	}
}
