package domain

import "errors"

var (
	// ErrAuth is returned when the provider rejects the credential.
	ErrAuth = errors.New("authentication failed: check your API key")
	// ErrRateLimit is returned when the provider throttles requests.
	ErrRateLimit = errors.New("rate limit exceeded: please wait and try again")
	// ErrService is returned for server-side provider failures.
	ErrService = errors.New("quiz provider is unavailable: try again later")
	// ErrNetwork covers every other transport failure, including no response.
	ErrNetwork = errors.New("could not reach the quiz provider")

	// ErrMalformedResponse indicates the provider reply is not a usable quiz document.
	ErrMalformedResponse = errors.New("the generated quiz could not be read")
	// ErrEmptyQuestionSet indicates the reply contained no questions.
	ErrEmptyQuestionSet = errors.New("the generated quiz has no questions")

	// ErrInvalidQuiz is returned when starting a session with an unusable quiz.
	ErrInvalidQuiz = errors.New("quiz has no questions")
	// ErrUnknownQuestion indicates an answer referenced a question outside the active quiz.
	ErrUnknownQuestion = errors.New("question not found in active quiz")
	// ErrNoActiveQuiz is returned for session operations that need a quiz in progress.
	ErrNoActiveQuiz = errors.New("no active quiz")

	// ErrInvalidOptions indicates the generation options failed validation.
	ErrInvalidOptions = errors.New("invalid quiz options")
	// ErrGenerationInProgress rejects a second generation while one is pending.
	ErrGenerationInProgress = errors.New("a quiz is already being generated")
)

var userFacing = []error{
	ErrAuth, ErrRateLimit, ErrService, ErrNetwork,
	ErrMalformedResponse, ErrEmptyQuestionSet,
	ErrInvalidQuiz, ErrUnknownQuestion, ErrNoActiveQuiz,
	ErrGenerationInProgress,
}

// UserMessage maps err to text suitable for direct display.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrInvalidOptions) {
		return err.Error()
	}
	for _, known := range userFacing {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return "An error occurred while creating the quiz"
}
