package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"ai-quiz-service/internal/domain"
	"ai-quiz-service/internal/metrics"
	"go.uber.org/zap"
)

// QuizRequester fetches raw quiz text from a generation provider.
type QuizRequester interface {
	RequestQuizText(ctx context.Context, opts domain.QuizOptions) (string, error)
}

// QuizParser turns raw provider text into a validated quiz.
type QuizParser interface {
	Parse(raw string, opts domain.QuizOptions) (domain.Quiz, error)
}

// HistoryRepository abstracts where results are kept (in-memory, Redis, Postgres).
// Implementations keep at most domain.HistoryLimit results, most recent first.
type HistoryRepository interface {
	Record(ctx context.Context, result domain.QuizResult) error
	List(ctx context.Context) ([]domain.QuizResult, error)
}

// SessionRepository keeps one session per client (in-memory, etc).
type SessionRepository interface {
	GetOrCreate(clientID string) *Session
	Get(clientID string) (*Session, bool)
	DeleteIfIdle(clientID string)
}

// ResultPublisher announces recorded results to other systems.
type ResultPublisher interface {
	PublishResult(ctx context.Context, result domain.QuizResult) error
}

// State is what UI collaborators read after every action.
type State struct {
	SessionSnapshot
	IsLoading bool   `json:"isLoading"`
	Error     string `json:"error,omitempty"`
}

// QuizService is the state surface for one user: it owns that user's session and
// shares the process-wide history repository.
type QuizService struct {
	session   *Session
	requester QuizRequester
	parser    QuizParser
	history   HistoryRepository
	publisher ResultPublisher
	metrics   *metrics.Metrics
	logger    *zap.Logger

	mu      sync.RWMutex
	loading bool
	lastErr string
}

// Option configures optional QuizService collaborators.
type Option func(*QuizService)

func WithSession(session *Session) Option {
	return func(s *QuizService) { s.session = session }
}

func WithPublisher(publisher ResultPublisher) Option {
	return func(s *QuizService) { s.publisher = publisher }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *QuizService) { s.metrics = m }
}

func WithLogger(logger *zap.Logger) Option {
	return func(s *QuizService) { s.logger = logger }
}

func NewQuizService(requester QuizRequester, parser QuizParser, history HistoryRepository, opts ...Option) *QuizService {
	s := &QuizService{
		requester: requester,
		parser:    parser,
		history:   history,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.session == nil {
		s.session = NewSession()
	}
	return s
}

// CreateQuiz generates a quiz for opts and starts it. Any quiz in progress is
// discarded first, so the session stays idle while the provider call is pending and
// on failure. A call made while another generation is pending on the same session
// fails with domain.ErrGenerationInProgress and leaves state untouched, even when
// its options are invalid.
func (s *QuizService) CreateQuiz(ctx context.Context, opts domain.QuizOptions) error {
	if !s.session.TryBeginGeneration() {
		return domain.ErrGenerationInProgress
	}
	defer s.session.EndGeneration()

	if err := opts.Validate(); err != nil {
		s.finishLoading(err)
		s.metrics.ObserveGeneration(outcome(err), 0)
		return err
	}

	s.session.Reset()
	s.mu.Lock()
	s.loading = true
	s.lastErr = ""
	s.mu.Unlock()

	started := time.Now()
	quiz, err := s.generate(ctx, opts)
	s.metrics.ObserveGeneration(outcome(err), time.Since(started))
	if err != nil {
		s.logger.Warn("quiz generation failed", zap.String("topic", opts.Topic), zap.Error(err))
		s.finishLoading(err)
		return err
	}

	if err := s.session.Start(quiz); err != nil {
		s.finishLoading(err)
		return err
	}
	s.logger.Info("quiz started",
		zap.String("quizId", quiz.ID),
		zap.String("topic", quiz.Topic),
		zap.Int("questions", len(quiz.Questions)))
	s.finishLoading(nil)
	return nil
}

func (s *QuizService) generate(ctx context.Context, opts domain.QuizOptions) (domain.Quiz, error) {
	raw, err := s.requester.RequestQuizText(ctx, opts)
	if err != nil {
		return domain.Quiz{}, err
	}
	s.logger.Debug("raw quiz reply", zap.String("raw", raw))
	return s.parser.Parse(raw, opts)
}

func (s *QuizService) finishLoading(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	s.lastErr = domain.UserMessage(err)
}

// AnswerQuestion records an answer for a question of the active quiz.
func (s *QuizService) AnswerQuestion(questionID, answer string) error {
	return s.session.Answer(questionID, answer)
}

func (s *QuizService) NextQuestion() {
	s.session.Advance()
}

func (s *QuizService) PreviousQuestion() {
	s.session.Retreat()
}

// SubmitQuiz grades the active quiz, appends the result to history and returns the
// session to idle. A history failure is returned alongside the result, which is
// still valid.
func (s *QuizService) SubmitQuiz(ctx context.Context) (domain.QuizResult, error) {
	result, err := s.session.Submit()
	if err != nil {
		return domain.QuizResult{}, err
	}
	s.metrics.ObserveSubmission(result.Score)
	s.logger.Info("quiz submitted",
		zap.String("quizId", result.QuizID),
		zap.Float64("score", result.Score),
		zap.Int("correct", result.CorrectAnswers),
		zap.Int("total", result.TotalQuestions))

	if err := s.history.Record(ctx, result); err != nil {
		s.logger.Error("failed to record result", zap.String("resultId", result.ID), zap.Error(err))
		return result, fmt.Errorf("record result: %w", err)
	}
	if s.publisher != nil {
		if err := s.publisher.PublishResult(ctx, result); err != nil {
			s.logger.Warn("failed to publish result", zap.String("resultId", result.ID), zap.Error(err))
		}
	}
	return result, nil
}

// ResetQuiz abandons the active quiz without grading.
func (s *QuizService) ResetQuiz() {
	s.session.Reset()
}

// State returns the current read model.
func (s *QuizService) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{
		SessionSnapshot: s.session.Snapshot(),
		IsLoading:       s.loading,
		Error:           s.lastErr,
	}
}

// History lists recorded results, most recent first.
func (s *QuizService) History(ctx context.Context) ([]domain.QuizResult, error) {
	return s.history.List(ctx)
}

// Stats summarizes the recorded history.
func (s *QuizService) Stats(ctx context.Context) (Stats, error) {
	results, err := s.history.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(results), nil
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrInvalidOptions):
		return "invalid_options"
	case errors.Is(err, domain.ErrAuth):
		return "auth_error"
	case errors.Is(err, domain.ErrRateLimit):
		return "rate_limited"
	case errors.Is(err, domain.ErrService):
		return "service_error"
	case errors.Is(err, domain.ErrNetwork):
		return "network_error"
	case errors.Is(err, domain.ErrEmptyQuestionSet):
		return "empty"
	case errors.Is(err, domain.ErrMalformedResponse):
		return "malformed"
	}
	return "other"
}
