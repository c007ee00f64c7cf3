package app

import (
	"reflect"
	"testing"

	"ai-quiz-service/internal/domain"
)

func TestComputeStats(t *testing.T) {
	results := []domain.QuizResult{
		{QuizID: "a", Topic: "Space", Difficulty: domain.DifficultyEasy, Score: 100, TotalQuestions: 5},
		{QuizID: "b", Topic: "History", Difficulty: domain.DifficultyHard, Score: 20, TotalQuestions: 5},
		{QuizID: "c", Topic: "Space", Difficulty: "", Score: 60.4, TotalQuestions: 10},
		{QuizID: "d", Topic: "Music", Difficulty: domain.DifficultyMedium, Score: 80.6, TotalQuestions: 3},
	}

	stats := ComputeStats(results)

	if stats.TotalQuizzes != 4 || stats.TotalQuestions != 23 {
		t.Fatalf("unexpected totals %+v", stats)
	}
	if stats.AverageScore != 65 {
		t.Fatalf("expected rounded average 65, got %d", stats.AverageScore)
	}
	if stats.BestScore != 100 {
		t.Fatalf("expected best 100, got %d", stats.BestScore)
	}
	wantDifficulty := map[domain.Difficulty]int{domain.DifficultyEasy: 1, domain.DifficultyMedium: 2, domain.DifficultyHard: 1}
	if !reflect.DeepEqual(stats.QuizzesByDifficulty, wantDifficulty) {
		t.Fatalf("unexpected difficulty counts %v", stats.QuizzesByDifficulty)
	}
	wantBuckets := []int{1, 0, 1, 0, 2}
	for i, b := range stats.ScoreDistribution {
		if b.Count != wantBuckets[i] {
			t.Fatalf("bucket %s: expected %d, got %d", b.Range, wantBuckets[i], b.Count)
		}
	}
	if !reflect.DeepEqual(stats.TopicsTaken, []string{"Space", "History", "Music"}) {
		t.Fatalf("unexpected topics %v", stats.TopicsTaken)
	}
}

func TestComputeStatsEmpty(t *testing.T) {
	stats := ComputeStats(nil)
	if stats.TotalQuizzes != 0 || stats.AverageScore != 0 || len(stats.ScoreDistribution) != 5 {
		t.Fatalf("unexpected empty stats %+v", stats)
	}
}

func TestFilterHistory(t *testing.T) {
	results := []domain.QuizResult{
		{QuizID: "abc123", QuizTitle: "Planets", Topic: "Space"},
		{QuizID: "def456", QuizTitle: "Empires", Topic: "History"},
	}

	tests := []struct {
		term string
		want int
	}{
		{term: "", want: 2},
		{term: "ABC", want: 1},
		{term: "history", want: 1},
		{term: "planet", want: 1},
		{term: "zzz", want: 0},
	}
	for _, tt := range tests {
		if got := FilterHistory(results, tt.term); len(got) != tt.want {
			t.Fatalf("term %q: expected %d, got %d", tt.term, tt.want, len(got))
		}
	}
}
