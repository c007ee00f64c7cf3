package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ai-quiz-service/internal/domain"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// RoutingKeyResultRecorded is used for every recorded quiz result.
const RoutingKeyResultRecorded = "quiz.result.recorded"

// ResultRecordedEvent is the message body published for a recorded result. It
// carries the score summary, not the question snapshot.
type ResultRecordedEvent struct {
	EventType      string            `json:"eventType"`
	ResultID       string            `json:"resultId"`
	QuizID         string            `json:"quizId"`
	QuizTitle      string            `json:"quizTitle"`
	Topic          string            `json:"topic"`
	Difficulty     domain.Difficulty `json:"difficulty"`
	Score          float64           `json:"score"`
	CorrectAnswers int               `json:"correctAnswers"`
	TotalQuestions int               `json:"totalQuestions"`
	TimeTaken      int64             `json:"timeTaken"`
	Date           time.Time         `json:"date"`
}

func newResultRecordedEvent(r domain.QuizResult) ResultRecordedEvent {
	return ResultRecordedEvent{
		EventType:      RoutingKeyResultRecorded,
		ResultID:       r.ID,
		QuizID:         r.QuizID,
		QuizTitle:      r.QuizTitle,
		Topic:          r.Topic,
		Difficulty:     r.Difficulty,
		Score:          r.Score,
		CorrectAnswers: r.CorrectAnswers,
		TotalQuestions: r.TotalQuestions,
		TimeTaken:      r.TimeTaken,
		Date:           r.Date,
	}
}

// Publisher sends result events to a topic exchange. A Publisher built without a
// URL is disabled and drops every event.
type Publisher struct {
	conn     *amqp.Connection
	channel  *amqp.Channel
	exchange string
	enabled  bool
	logger   *zap.Logger
}

func NewPublisher(url, exchange string, logger *zap.Logger) (*Publisher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if url == "" {
		logger.Info("amqp url not configured, result events disabled")
		return &Publisher{logger: logger}, nil
	}
	if exchange == "" {
		exchange = "quiz.events"
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("connect amqp: %w", err)
	}
	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}
	if err := channel.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	return &Publisher{
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		enabled:  true,
		logger:   logger,
	}, nil
}

// PublishResult implements app.ResultPublisher.
func (p *Publisher) PublishResult(ctx context.Context, result domain.QuizResult) error {
	if !p.enabled {
		return nil
	}
	body, err := json.Marshal(newResultRecordedEvent(result))
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	err = p.channel.PublishWithContext(pubCtx, p.exchange, RoutingKeyResultRecorded, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		MessageId:    result.ID,
		Body:         body,
	})
	if err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	p.logger.Debug("published result event", zap.String("resultId", result.ID))
	return nil
}

func (p *Publisher) Close() error {
	if !p.enabled {
		return nil
	}
	if err := p.channel.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}
