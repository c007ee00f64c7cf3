package app

import (
	"strings"

	"ai-quiz-service/internal/domain"
)

// Grade scores answers against quiz. It is a pure function: the returned result has
// no ID, date or time taken, which the caller stamps.
//
// Every quiz question appears in the result in quiz order. A question without an
// answer record is graded incorrect with an empty selection. Answer records for
// questions outside the quiz are ignored. The selected text matches the correct
// answer when both are equal after trimming surrounding whitespace; case matters.
func Grade(quiz domain.Quiz, answers []domain.AnswerRecord) domain.QuizResult {
	selected := make(map[string]string, len(answers))
	for _, a := range answers {
		selected[a.QuestionID] = a.SelectedAnswer
	}

	graded := make([]domain.GradedAnswer, 0, len(quiz.Questions))
	correct := 0
	for _, q := range quiz.Questions {
		choice, answered := selected[q.ID]
		ok := answered && isCorrect(q, choice)
		if ok {
			correct++
		}
		graded = append(graded, domain.GradedAnswer{
			QuestionID:     q.ID,
			SelectedAnswer: choice,
			IsCorrect:      ok,
		})
	}

	total := len(quiz.Questions)
	score := 0.0
	if total > 0 {
		score = 100 * float64(correct) / float64(total)
	}

	return domain.QuizResult{
		QuizID:         quiz.ID,
		QuizTitle:      quiz.Title,
		Topic:          quiz.Topic,
		Difficulty:     quiz.Difficulty,
		Score:          score,
		TotalQuestions: total,
		CorrectAnswers: correct,
		Questions:      append([]domain.Question{}, quiz.Questions...),
		Answers:        graded,
	}
}

func isCorrect(q domain.Question, choice string) bool {
	answer, ok := q.CorrectAnswer()
	if !ok {
		return false
	}
	return strings.TrimSpace(answer.Text) == strings.TrimSpace(choice)
}
