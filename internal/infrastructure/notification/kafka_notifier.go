// Package notification implements the outbound verification-code channel.
// The actual email/SMS rendering and delivery happens in a separate worker;
// this module only hands codes to the notification topic.
package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/matching-platform/user-service/internal/domain/interfaces"
)

type codeMessage struct {
	Type        string    `json:"type"`
	Destination string    `json:"destination"`
	Code        string    `json:"code"`
	RequestedAt time.Time `json:"requested_at"`
}

// KafkaNotifier publishes send-code requests to the notification topic.
type KafkaNotifier struct {
	writer *kafka.Writer
	topic  string
	logger *zap.Logger
}

// NewKafkaNotifier creates a KafkaNotifier.
func NewKafkaNotifier(brokers []string, topic string, logger *zap.Logger) *KafkaNotifier {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
	}
	return &KafkaNotifier{
		writer: writer,
		topic:  topic,
		logger: logger,
	}
}

// SendCode queues a verification code for delivery to the destination.
func (n *KafkaNotifier) SendCode(ctx context.Context, codeType, destination, code string) error {
	value, err := json.Marshal(codeMessage{
		Type:        codeType,
		Destination: destination,
		Code:        code,
		RequestedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal code message: %w", err)
	}

	err = n.writer.WriteMessages(ctx, kafka.Message{
		Topic: n.topic,
		Key:   []byte(destination),
		Value: value,
	})
	if err != nil {
		n.logger.Error("Failed to queue verification code delivery",
			zap.String("type", codeType),
			zap.String("destination", destination),
			zap.Error(err),
		)
		return fmt.Errorf("failed to queue code delivery: %w", err)
	}
	return nil
}

// Close closes the underlying writer.
func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}

// LogNotifier is the development fallback that only logs the destination.
// The code itself is never written to the log.
type LogNotifier struct {
	Logger *zap.Logger
}

func (n *LogNotifier) SendCode(_ context.Context, codeType, destination, _ string) error {
	n.Logger.Info("Verification code delivery skipped (no notification channel configured)",
		zap.String("type", codeType),
		zap.String("destination", destination),
	)
	return nil
}

var (
	_ interfaces.NotificationService = (*KafkaNotifier)(nil)
	_ interfaces.NotificationService = (*LogNotifier)(nil)
)
