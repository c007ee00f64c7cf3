package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"

	"ai-quiz-service/internal/app"
	"ai-quiz-service/internal/domain"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// ServiceFactory builds the per-connection quiz service around a client's session.
type ServiceFactory func(session *app.Session) *app.QuizService

type WSHandler struct {
	sessions   app.SessionRepository
	newService ServiceFactory
	logger     *zap.Logger
	upgrader   websocket.Upgrader
}

func NewWSHandler(sessions app.SessionRepository, newService ServiceFactory, logger *zap.Logger) *WSHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WSHandler{
		sessions:   sessions,
		newService: newService,
		logger:     logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	QuestionID string `json:"questionId"`
	Answer     string `json:"answer"`
}

type historyPayload struct {
	Search string `json:"search"`
}

type outboundMessage struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

type statePayload struct {
	ClientID string `json:"clientId"`
	app.State
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades the request and runs one quiz flow per connection. A client that
// reconnects with the same clientId resumes its quiz in progress.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	clientID := r.URL.Query().Get("clientId")
	if clientID == "" {
		clientID = uuid.NewString()
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	service := h.newService(h.sessions.GetOrCreate(clientID))
	defer h.sessions.DeleteIfIdle(clientID)

	logger := h.logger.With(zap.String("clientId", clientID))
	logger.Info("client connected")
	defer logger.Info("client disconnected")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	send := make(chan outboundMessage, 16)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				logger.Warn("ws write error", zap.Error(err))
				cancel()
				// keep draining so producers never block on a dead connection
				for range send {
				}
				return
			}
		}
	}()

	c := &connection{
		clientID: clientID,
		service:  service,
		send:     send,
		logger:   logger,
	}
	c.sendState()

	for {
		var inbound inboundMessage
		if err := conn.ReadJSON(&inbound); err != nil {
			break
		}
		c.handle(ctx, inbound)
	}

	cancel()
	c.generations.Wait()
	close(send)
	<-writerDone
}

type connection struct {
	clientID    string
	service     *app.QuizService
	send        chan<- outboundMessage
	logger      *zap.Logger
	generations sync.WaitGroup
}

func (c *connection) handle(ctx context.Context, inbound inboundMessage) {
	switch inbound.Type {
	case "create":
		var opts domain.QuizOptions
		if err := json.Unmarshal(inbound.Payload, &opts); err != nil {
			c.sendError("invalid create payload")
			return
		}
		c.send <- outboundMessage{Type: "loading"}
		c.generations.Add(1)
		go func() {
			defer c.generations.Done()
			c.create(ctx, opts)
		}()
	case "answer":
		var payload answerPayload
		if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
			c.sendError("invalid answer payload")
			return
		}
		if err := c.service.AnswerQuestion(payload.QuestionID, payload.Answer); err != nil {
			c.sendError(domain.UserMessage(err))
			return
		}
		c.sendState()
	case "next":
		c.service.NextQuestion()
		c.sendState()
	case "previous":
		c.service.PreviousQuestion()
		c.sendState()
	case "submit":
		c.submit(ctx)
	case "reset":
		c.service.ResetQuiz()
		c.sendState()
	case "history":
		var payload historyPayload
		if len(inbound.Payload) > 0 {
			if err := json.Unmarshal(inbound.Payload, &payload); err != nil {
				c.sendError("invalid history payload")
				return
			}
		}
		results, err := c.service.History(ctx)
		if err != nil {
			c.logger.Error("list history failed", zap.Error(err))
			c.sendError("history is unavailable")
			return
		}
		c.send <- outboundMessage{Type: "history", Payload: app.FilterHistory(results, payload.Search)}
	case "stats":
		stats, err := c.service.Stats(ctx)
		if err != nil {
			c.logger.Error("compute stats failed", zap.Error(err))
			c.sendError("history is unavailable")
			return
		}
		c.send <- outboundMessage{Type: "stats", Payload: stats}
	default:
		c.sendError("unsupported message type")
	}
}

func (c *connection) create(ctx context.Context, opts domain.QuizOptions) {
	err := c.service.CreateQuiz(ctx, opts)
	if errors.Is(err, domain.ErrGenerationInProgress) {
		c.sendError(domain.UserMessage(err))
		return
	}
	if ctx.Err() != nil {
		return
	}
	c.sendState()
}

func (c *connection) submit(ctx context.Context) {
	result, err := c.service.SubmitQuiz(ctx)
	if err != nil && result.ID == "" {
		c.sendError(domain.UserMessage(err))
		return
	}
	c.send <- outboundMessage{Type: "result", Payload: result}
	if err != nil {
		c.sendError("your result could not be saved to history")
	}
	c.sendState()
}

func (c *connection) sendState() {
	c.send <- outboundMessage{Type: "state", Payload: statePayload{ClientID: c.clientID, State: c.service.State()}}
}

func (c *connection) sendError(message string) {
	c.send <- outboundMessage{Type: "error", Payload: errorPayload{Message: message}}
}
