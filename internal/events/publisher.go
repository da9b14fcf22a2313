// Package events publishes auth lifecycle events to Kafka. Publishing is
// best-effort from the caller's point of view: login and registration never
// fail because the broker is down.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

const (
	EventUserRegistered = "user.registered"
	EventUserLoggedIn   = "user.logged_in"
)

// AuthEvent is the payload published for each auth lifecycle event.
type AuthEvent struct {
	Type       string    `json:"type"`
	UserID     string    `json:"user_id"`
	Username   string    `json:"username"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher writes auth events to a Kafka topic.
type Publisher struct {
	writer *kafka.Writer
	topic  string
	logger *zap.Logger
}

// NewPublisher creates a Publisher for the given brokers and topic.
func NewPublisher(brokers []string, topic string, logger *zap.Logger) *Publisher {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
	}
	return &Publisher{
		writer: writer,
		topic:  topic,
		logger: logger,
	}
}

// Publish writes one event, keyed by user ID so events for the same user
// stay ordered within a partition.
func (p *Publisher) Publish(ctx context.Context, event AuthEvent) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal auth event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: p.topic,
		Key:   []byte(event.UserID),
		Value: value,
		Time:  time.Now(),
	})
	if err != nil {
		p.logger.Error("Failed to publish auth event",
			zap.String("type", event.Type),
			zap.String("user_id", event.UserID),
			zap.Error(err),
		)
		return fmt.Errorf("failed to publish auth event: %w", err)
	}
	return nil
}

// Close closes the underlying writer.
func (p *Publisher) Close() error {
	return p.writer.Close()
}
