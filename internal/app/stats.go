package app

import (
	"math"
	"strings"

	"ai-quiz-service/internal/domain"
)

// ScoreBucket counts results whose rounded score falls in a range.
type ScoreBucket struct {
	Range string `json:"range"`
	Count int    `json:"count"`
}

// Stats aggregates a history.
type Stats struct {
	TotalQuizzes        int                       `json:"totalQuizzes"`
	AverageScore        int                       `json:"averageScore"`
	BestScore           int                       `json:"bestScore"`
	TotalQuestions      int                       `json:"totalQuestions"`
	QuizzesByDifficulty map[domain.Difficulty]int `json:"quizzesByDifficulty"`
	ScoreDistribution   []ScoreBucket             `json:"scoreDistribution"`
	TopicsTaken         []string                  `json:"topicsTaken"`
}

// ComputeStats summarizes results. Averages and the best score are rounded to whole
// percentages; results without a difficulty count as medium.
func ComputeStats(results []domain.QuizResult) Stats {
	stats := Stats{
		QuizzesByDifficulty: map[domain.Difficulty]int{
			domain.DifficultyEasy:   0,
			domain.DifficultyMedium: 0,
			domain.DifficultyHard:   0,
		},
		ScoreDistribution: []ScoreBucket{
			{Range: "0-20%"},
			{Range: "21-40%"},
			{Range: "41-60%"},
			{Range: "61-80%"},
			{Range: "81-100%"},
		},
		TopicsTaken: []string{},
	}
	if len(results) == 0 {
		return stats
	}

	sum, best := 0.0, 0.0
	seenTopics := make(map[string]struct{})
	for _, r := range results {
		sum += r.Score
		best = math.Max(best, r.Score)
		stats.TotalQuestions += r.TotalQuestions

		difficulty := r.Difficulty
		if !difficulty.Valid() {
			difficulty = domain.DifficultyMedium
		}
		stats.QuizzesByDifficulty[difficulty]++

		stats.ScoreDistribution[bucket(math.Round(r.Score))].Count++

		if r.Topic != "" {
			if _, ok := seenTopics[r.Topic]; !ok {
				seenTopics[r.Topic] = struct{}{}
				stats.TopicsTaken = append(stats.TopicsTaken, r.Topic)
			}
		}
	}

	stats.TotalQuizzes = len(results)
	stats.AverageScore = int(math.Round(sum / float64(len(results))))
	stats.BestScore = int(math.Round(best))
	return stats
}

func bucket(score float64) int {
	switch {
	case score <= 20:
		return 0
	case score <= 40:
		return 1
	case score <= 60:
		return 2
	case score <= 80:
		return 3
	}
	return 4
}

// FilterHistory keeps results whose quiz ID, title or topic contains term,
// ignoring case. An empty term keeps everything.
func FilterHistory(results []domain.QuizResult, term string) []domain.QuizResult {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return results
	}
	out := make([]domain.QuizResult, 0, len(results))
	for _, r := range results {
		if strings.Contains(strings.ToLower(r.QuizID), term) ||
			strings.Contains(strings.ToLower(r.QuizTitle), term) ||
			strings.Contains(strings.ToLower(r.Topic), term) {
			out = append(out, r)
		}
	}
	return out
}
