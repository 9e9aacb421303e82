// Package kafka publishes newly seen events to a Kafka topic. The emitter is
// optional; the watcher runs with console output alone when Kafka is
// disabled.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/quake-watch/internal/config"
	"github.com/couchcryptid/quake-watch/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// Writer produces event messages to a Kafka topic.
// It implements watch.Emitter.
type Writer struct {
	writer *kafkago.Writer
	logger *slog.Logger
}

// NewWriter creates a Kafka producer for the configured topic.
func NewWriter(cfg *config.Config, logger *slog.Logger) *Writer {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaTopic,
		Balancer:     &kafkago.LeastBytes{},
		RequiredAcks: kafkago.RequireAll,
	}
	return &Writer{writer: w, logger: logger}
}

// Emit serializes and publishes one newly seen event.
func (w *Writer) Emit(ctx context.Context, event domain.Event) error {
	msg, err := serializeToMessage(event)
	if err != nil {
		return err
	}
	return w.writer.WriteMessages(ctx, msg)
}

func (w *Writer) Close() error {
	return w.writer.Close()
}

// serializeToMessage marshals an Event into a Kafka message keyed by its
// fingerprint, so downstream compacted topics retain one record per
// fingerprint.
func serializeToMessage(event domain.Event) (kafkago.Message, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize event: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(event.Fingerprint()),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "occurred_at", Value: []byte(event.OccurredAt.Format(time.RFC3339))},
			{Key: "place", Value: []byte(event.Place)},
		},
	}, nil
}
