package quizparse

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"ai-quiz-service/internal/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Parser turns untrusted provider text into a canonical quiz.
//
// Validation policy: a question that breaks an answer invariant (boolean questions
// need exactly two answers, every question needs exactly one correct answer and
// distinct answer texts) rejects the whole quiz. Missing or duplicate question IDs
// are repaired with positional IDs. Extra questions beyond the requested count are
// dropped; a shortfall rejects the quiz.
type Parser struct {
	now    func() time.Time
	newID  func() string
	logger *zap.Logger
}

func NewParser(logger *zap.Logger) *Parser {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Parser{now: time.Now, newID: uuid.NewString, logger: logger}
}

// NewParserWithClock is test-only for deterministic IDs and timestamps.
func NewParserWithClock(now func() time.Time, newID func() string) *Parser {
	return &Parser{now: now, newID: newID, logger: zap.NewNop()}
}

// Parse runs a default parser.
func Parse(raw string, opts domain.QuizOptions) (domain.Quiz, error) {
	return NewParser(nil).Parse(raw, opts)
}

type rawQuiz struct {
	Title      string        `json:"title"`
	Topic      string        `json:"topic"`
	Difficulty string        `json:"difficulty"`
	Questions  []rawQuestion `json:"questions"`
}

type rawQuestion struct {
	ID          any             `json:"id"`
	Text        string          `json:"text"`
	Type        string          `json:"type"`
	Answers     []domain.Answer `json:"answers"`
	Explanation string          `json:"explanation"`
}

// Parse extracts, validates and normalizes a quiz from raw provider text.
func (p *Parser) Parse(raw string, opts domain.QuizOptions) (domain.Quiz, error) {
	doc, err := ExtractJSON(raw)
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}

	questions, present := doc["questions"]
	if !present || questions == nil {
		return domain.Quiz{}, domain.ErrEmptyQuestionSet
	}
	list, ok := questions.([]any)
	if !ok {
		return domain.Quiz{}, fmt.Errorf("%w: questions is not a list", domain.ErrMalformedResponse)
	}
	if len(list) == 0 {
		return domain.Quiz{}, domain.ErrEmptyQuestionSet
	}

	violations, err := validateShape(doc)
	if err != nil {
		return domain.Quiz{}, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	if violations != "" {
		return domain.Quiz{}, fmt.Errorf("%w: %s", domain.ErrMalformedResponse, violations)
	}

	// The document already decoded once, so re-encoding cannot fail.
	data, _ := json.Marshal(doc)
	var payload rawQuiz
	if err := json.Unmarshal(data, &payload); err != nil {
		return domain.Quiz{}, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}

	if len(payload.Questions) < opts.QuestionCount {
		return domain.Quiz{}, fmt.Errorf("%w: expected %d questions, got %d",
			domain.ErrMalformedResponse, opts.QuestionCount, len(payload.Questions))
	}
	if opts.QuestionCount > 0 && len(payload.Questions) > opts.QuestionCount {
		p.logger.Warn("dropping surplus generated questions",
			zap.Int("requested", opts.QuestionCount),
			zap.Int("received", len(payload.Questions)))
		payload.Questions = payload.Questions[:opts.QuestionCount]
	}

	out := make([]domain.Question, 0, len(payload.Questions))
	for i, rq := range payload.Questions {
		q := domain.Question{
			ID:          idString(rq.ID),
			Text:        rq.Text,
			Type:        domain.QuestionType(rq.Type),
			Answers:     rq.Answers,
			Explanation: rq.Explanation,
		}
		if err := checkQuestion(q); err != nil {
			return domain.Quiz{}, fmt.Errorf("%w: question %d: %v", domain.ErrMalformedResponse, i+1, err)
		}
		out = append(out, q)
	}
	assignQuestionIDs(out)

	quiz := domain.Quiz{
		ID:         p.newID(),
		Title:      strings.TrimSpace(payload.Title),
		Topic:      strings.TrimSpace(payload.Topic),
		Difficulty: domain.Difficulty(payload.Difficulty),
		Questions:  out,
		CreatedAt:  p.now().UTC(),
	}
	if quiz.Topic == "" {
		quiz.Topic = opts.Topic
	}
	if quiz.Title == "" {
		quiz.Title = quiz.Topic + " Quiz"
	}
	if !quiz.Difficulty.Valid() {
		quiz.Difficulty = opts.Difficulty
	}
	return quiz, nil
}

// checkQuestion enforces the answer invariants the schema cannot express.
func checkQuestion(q domain.Question) error {
	if q.Type == domain.QuestionBoolean && len(q.Answers) != 2 {
		return fmt.Errorf("boolean question needs exactly 2 answers, got %d", len(q.Answers))
	}

	correct := 0
	seen := make(map[string]struct{}, len(q.Answers))
	for _, a := range q.Answers {
		if a.IsCorrect {
			correct++
		}
		key := strings.TrimSpace(a.Text)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("duplicate answer %q", key)
		}
		seen[key] = struct{}{}
	}
	if correct != 1 {
		return fmt.Errorf("expected exactly one correct answer, got %d", correct)
	}
	return nil
}

// assignQuestionIDs keeps provider IDs that are present and unique and gives the
// rest positional IDs that do not collide with any kept one.
func assignQuestionIDs(questions []domain.Question) {
	taken := make(map[string]int, len(questions))
	for _, q := range questions {
		if q.ID != "" {
			taken[q.ID]++
		}
	}

	used := make(map[string]struct{}, len(questions))
	for i := range questions {
		id := questions[i].ID
		if id != "" && taken[id] == 1 {
			used[id] = struct{}{}
		}
	}
	for i := range questions {
		id := questions[i].ID
		if id != "" && taken[id] == 1 {
			continue
		}
		if id != "" {
			if _, claimed := used[id]; !claimed {
				// First holder of a duplicated ID keeps it.
				used[id] = struct{}{}
				continue
			}
		}
		candidate := fmt.Sprintf("q%d", i+1)
		for n := 2; ; n++ {
			if _, clash := used[candidate]; !clash {
				break
			}
			candidate = fmt.Sprintf("q%d-%d", i+1, n)
		}
		questions[i].ID = candidate
		used[candidate] = struct{}{}
	}
}

func idString(v any) string {
	switch id := v.(type) {
	case string:
		return strings.TrimSpace(id)
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64)
	case json.Number:
		return id.String()
	}
	return ""
}
