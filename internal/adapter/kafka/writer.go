package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/couchcryptid/iris2odim/internal/config"
	"github.com/couchcryptid/iris2odim/pkg/domain"
)

// Notifier publishes conversion events to a Kafka topic.
// It implements pipeline.Notifier.
type Notifier struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewNotifier creates a Kafka producer for the configured topic.
func NewNotifier(cfg *config.Config, logger *slog.Logger) *Notifier {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		WriteTimeout: cfg.ShutdownTimeout,
	}
	return &Notifier{writer: w, logger: logger}
}

// Notify publishes one event, keyed by source so a site's events stay ordered.
func (n *Notifier) Notify(ctx context.Context, event domain.ConversionEvent) error {
	msg, err := serializeToMessage(event)
	if err != nil {
		return err
	}
	if err := n.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish conversion event: %w", err)
	}
	n.logger.Debug("conversion event published", "id", event.ID, "topic", n.writer.Topic)
	return nil
}

func (n *Notifier) Close() error {
	return n.writer.Close()
}

// serializeToMessage marshals a ConversionEvent into a Kafka message.
func serializeToMessage(event domain.ConversionEvent) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize conversion event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.Source),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "event_id", Value: []byte(event.ID)},
			{Key: "object", Value: []byte(event.Object)},
			{Key: "converted_at", Value: []byte(event.ConvertedAt.Format(time.RFC3339))},
		},
	}, nil
}
