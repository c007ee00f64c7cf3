package generator

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"ai-quiz-service/internal/domain"
	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Config describes the chat-completion provider.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Referer string
	Title   string
	Timeout time.Duration
}

// RequestError is a classified provider failure. It unwraps to one of
// domain.ErrAuth, domain.ErrRateLimit, domain.ErrService or domain.ErrNetwork.
type RequestError struct {
	Kind   error
	Status int
	Detail string
}

func (e *RequestError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (status %d)", e.Kind.Error(), e.Status)
	}
	return e.Kind.Error()
}

func (e *RequestError) Unwrap() error {
	return e.Kind
}

// Requester sends one generation prompt per call to an OpenAI-compatible endpoint.
type Requester struct {
	client *openai.Client
	model  string
	hasKey bool
	logger *zap.Logger
}

func NewRequester(cfg Config, logger *zap.Logger) *Requester {
	if logger == nil {
		logger = zap.NewNop()
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{
		Timeout: cfg.Timeout,
		Transport: &headerTransport{
			base: http.DefaultTransport,
			headers: map[string]string{
				"HTTP-Referer": cfg.Referer,
				"X-Title":      cfg.Title,
			},
		},
	}
	return &Requester{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		hasKey: cfg.APIKey != "",
		logger: logger,
	}
}

// RequestQuizText asks the provider for a quiz matching opts and returns the raw reply.
// There is no retry and no streaming.
func (r *Requester) RequestQuizText(ctx context.Context, opts domain.QuizOptions) (string, error) {
	if !r.hasKey {
		return "", &RequestError{Kind: domain.ErrAuth, Detail: "no API key configured"}
	}

	prompt := BuildPrompt(opts)
	r.logger.Debug("sending quiz generation request",
		zap.String("topic", opts.Topic),
		zap.Int("questionCount", opts.QuestionCount),
		zap.String("model", r.model),
		zap.String("prompt", prompt))

	resp, err := r.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: r.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		classified := classify(err)
		r.logger.Warn("quiz generation request failed", zap.Error(err), zap.Int("status", classified.Status))
		return "", classified
	}
	if len(resp.Choices) == 0 {
		return "", &RequestError{Kind: domain.ErrService, Detail: "provider returned no choices"}
	}

	content := resp.Choices[0].Message.Content
	r.logger.Debug("received quiz generation response", zap.Int("length", len(content)))
	return content, nil
}

// classify maps a client error to the requester taxonomy by HTTP status class.
func classify(err error) *RequestError {
	status := 0
	var apiErr *openai.APIError
	var reqErr *openai.RequestError
	switch {
	case errors.As(err, &apiErr):
		status = apiErr.HTTPStatusCode
	case errors.As(err, &reqErr):
		status = reqErr.HTTPStatusCode
	}

	re := &RequestError{Status: status, Detail: err.Error()}
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		re.Kind = domain.ErrAuth
	case status == http.StatusTooManyRequests:
		re.Kind = domain.ErrRateLimit
	case status >= 500:
		re.Kind = domain.ErrService
	default:
		re.Kind = domain.ErrNetwork
	}
	return re
}

type headerTransport struct {
	base    http.RoundTripper
	headers map[string]string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	clone := req.Clone(req.Context())
	for k, v := range t.headers {
		if v != "" {
			clone.Header.Set(k, v)
		}
	}
	return t.base.RoundTrip(clone)
}
