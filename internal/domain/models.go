package domain

import (
	"fmt"
	"strings"
	"time"
)

// Difficulty is the requested challenge level of a quiz.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is one of the known difficulty levels.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// QuestionType is the kind of question. Mixed is only valid as a request option.
type QuestionType string

const (
	QuestionMultiple QuestionType = "multiple"
	QuestionBoolean  QuestionType = "boolean"
	QuestionMixed    QuestionType = "mixed"
)

// QuizOptions is the input to quiz generation.
type QuizOptions struct {
	Topic         string       `json:"topic"`
	Difficulty    Difficulty   `json:"difficulty"`
	QuestionCount int          `json:"questionCount"`
	QuestionType  QuestionType `json:"questionType"`
}

// Validate checks the options before any outbound call is made.
func (o QuizOptions) Validate() error {
	if strings.TrimSpace(o.Topic) == "" {
		return fmt.Errorf("%w: topic is required", ErrInvalidOptions)
	}
	if !o.Difficulty.Valid() {
		return fmt.Errorf("%w: unknown difficulty %q", ErrInvalidOptions, o.Difficulty)
	}
	if o.QuestionCount <= 0 {
		return fmt.Errorf("%w: question count must be positive, got %d", ErrInvalidOptions, o.QuestionCount)
	}
	switch o.QuestionType {
	case QuestionMultiple, QuestionBoolean, QuestionMixed:
	default:
		return fmt.Errorf("%w: unknown question type %q", ErrInvalidOptions, o.QuestionType)
	}
	return nil
}

// Answer is one option of a question.
type Answer struct {
	Text      string `json:"text"`
	IsCorrect bool   `json:"isCorrect"`
}

// Question is a single quiz question. Boolean questions have exactly two answers;
// every question has exactly one correct answer.
type Question struct {
	ID          string       `json:"id"`
	Text        string       `json:"text"`
	Type        QuestionType `json:"type"`
	Answers     []Answer     `json:"answers"`
	Explanation string       `json:"explanation"`
}

// CorrectAnswer returns the first answer flagged correct.
func (q Question) CorrectAnswer() (Answer, bool) {
	for _, a := range q.Answers {
		if a.IsCorrect {
			return a, true
		}
	}
	return Answer{}, false
}

// Quiz is a validated, immutable set of questions.
type Quiz struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Topic      string     `json:"topic"`
	Difficulty Difficulty `json:"difficulty"`
	Questions  []Question `json:"questions"`
	CreatedAt  time.Time  `json:"createdAt"`
}

// Question looks up a question by ID.
func (q Quiz) Question(id string) (Question, bool) {
	for _, question := range q.Questions {
		if question.ID == id {
			return question, true
		}
	}
	return Question{}, false
}

// AnswerRecord is the in-progress answer to one question.
type AnswerRecord struct {
	QuestionID     string `json:"questionId"`
	SelectedAnswer string `json:"selectedAnswer"`
}

// GradedAnswer is an answer record after grading.
type GradedAnswer struct {
	QuestionID     string `json:"questionId"`
	SelectedAnswer string `json:"selectedAnswer"`
	IsCorrect      bool   `json:"isCorrect"`
}

// QuizResult is the immutable outcome of one submitted quiz.
type QuizResult struct {
	ID             string         `json:"id"`
	QuizID         string         `json:"quizId"`
	QuizTitle      string         `json:"quizTitle"`
	Topic          string         `json:"topic"`
	Difficulty     Difficulty     `json:"difficulty"`
	Score          float64        `json:"score"`
	TotalQuestions int            `json:"totalQuestions"`
	CorrectAnswers int            `json:"correctAnswers"`
	TimeTaken      int64          `json:"timeTaken"` // seconds
	Date           time.Time      `json:"date"`
	Questions      []Question     `json:"questions"`
	Answers        []GradedAnswer `json:"answers"`
}

// HistoryLimit caps the number of results kept in history.
const HistoryLimit = 50
