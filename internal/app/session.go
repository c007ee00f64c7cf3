package app

import (
	"sync"
	"time"

	"ai-quiz-service/internal/domain"
	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

// Session holds the single active-quiz slot for one user. It is either idle (no
// quiz) or in progress with a quiz, a question pointer and the answers so far.
// A session never writes history; submission hands the result to the caller.
type Session struct {
	now   func() time.Time
	newID func() string

	// generating admits one quiz generation at a time, however many connections
	// share the session.
	generating *semaphore.Weighted

	mu        sync.RWMutex
	quiz      *domain.Quiz
	current   int
	answers   []domain.AnswerRecord
	startedAt time.Time
	touchedAt time.Time
}

// SessionSnapshot is a copy of the session fields safe to hand to readers.
type SessionSnapshot struct {
	Quiz            *domain.Quiz          `json:"currentQuiz"`
	CurrentQuestion int                   `json:"currentQuestion"`
	Answers         []domain.AnswerRecord `json:"answers"`
}

func NewSession() *Session {
	return NewSessionWithClock(time.Now, NewResultID)
}

// NewResultID returns a fresh random result identifier.
func NewResultID() string {
	return uuid.NewString()
}

// NewSessionWithClock is test-only for deterministic timestamps and result IDs.
func NewSessionWithClock(now func() time.Time, newID func() string) *Session {
	return &Session{now: now, newID: newID, generating: semaphore.NewWeighted(1), touchedAt: now()}
}

// Start installs quiz as the active quiz, replacing any quiz in progress.
func (s *Session) Start(quiz domain.Quiz) error {
	if len(quiz.Questions) == 0 {
		return domain.ErrInvalidQuiz
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.quiz = &quiz
	s.current = 0
	s.answers = nil
	s.startedAt = s.now()
	s.touchedAt = s.startedAt
	return nil
}

// Answer records text as the answer to questionID, replacing an earlier answer.
func (s *Session) Answer(questionID, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.quiz == nil {
		return domain.ErrNoActiveQuiz
	}
	if _, ok := s.quiz.Question(questionID); !ok {
		return domain.ErrUnknownQuestion
	}
	s.touchedAt = s.now()

	for i := range s.answers {
		if s.answers[i].QuestionID == questionID {
			s.answers[i].SelectedAnswer = text
			return nil
		}
	}
	s.answers = append(s.answers, domain.AnswerRecord{QuestionID: questionID, SelectedAnswer: text})
	return nil
}

// Advance moves to the next question; it stops at the last one.
func (s *Session) Advance() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.quiz != nil && s.current < len(s.quiz.Questions)-1 {
		s.current++
	}
	s.touchedAt = s.now()
}

// Retreat moves to the previous question; it stops at the first one.
func (s *Session) Retreat() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.quiz != nil && s.current > 0 {
		s.current--
	}
	s.touchedAt = s.now()
}

// TryBeginGeneration claims the session's generation slot. It reports false when a
// generation is already pending; a true result must be paired with EndGeneration.
func (s *Session) TryBeginGeneration() bool {
	return s.generating.TryAcquire(1)
}

func (s *Session) EndGeneration() {
	s.generating.Release(1)
}

// Submit grades the active quiz, returns the session to idle and hands back the result.
func (s *Session) Submit() (domain.QuizResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.quiz == nil {
		return domain.QuizResult{}, domain.ErrNoActiveQuiz
	}

	now := s.now()
	result := Grade(*s.quiz, s.answers)
	result.ID = s.newID()
	result.Date = now.UTC()
	result.TimeTaken = int64(now.Sub(s.startedAt) / time.Second)

	s.resetLocked()
	s.touchedAt = now
	return result, nil
}

// Reset discards the active quiz and its answers without grading.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
}

func (s *Session) resetLocked() {
	s.quiz = nil
	s.current = 0
	s.answers = nil
	s.startedAt = time.Time{}
}

// Active reports whether a quiz is in progress.
func (s *Session) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.quiz != nil
}

// TouchedAt returns when the session last changed.
func (s *Session) TouchedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.touchedAt
}

// Snapshot copies the current state.
func (s *Session) Snapshot() SessionSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := SessionSnapshot{
		CurrentQuestion: s.current,
		Answers:         append([]domain.AnswerRecord{}, s.answers...),
	}
	if s.quiz != nil {
		quiz := *s.quiz
		snap.Quiz = &quiz
	}
	return snap
}
