package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/riskatlas/platform/pkg/common/config"
	"github.com/riskatlas/platform/pkg/common/logger"
	"github.com/riskatlas/platform/pkg/common/models"
	"github.com/segmentio/kafka-go"
)

type Producer struct {
	writer *kafka.Writer
}

func NewProducer(topic string) *Producer {
	cfg := config.Load()
	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.KafkaBrokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		RequiredAcks: kafka.RequireAll,
		Async:        false,
		BatchSize:    1,
		BatchTimeout: 10 * time.Millisecond,
	}

	return &Producer{writer: writer}
}

// PublishUploadEvent emits an upload lifecycle event. Callers treat failures
// as best-effort; the upload itself has already been persisted.
func (p *Producer) PublishUploadEvent(ctx context.Context, eventType, filename, kind string, rows int) error {
	event := models.UploadEvent{
		ID:        uuid.New().String(),
		Type:      eventType,
		Filename:  filename,
		Kind:      kind,
		Rows:      rows,
		Timestamp: time.Now().UTC(),
	}

	eventBytes, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal upload event: %w", err)
	}

	message := kafka.Message{
		Key:   []byte(event.ID),
		Value: eventBytes,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(eventType)},
			{Key: "kind", Value: []byte(kind)},
		},
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		logger.Log.WithError(err).WithFields(map[string]interface{}{
			"event_id": event.ID,
			"type":     eventType,
		}).Error("failed to publish upload event")
		return fmt.Errorf("failed to publish upload event: %w", err)
	}

	return nil
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
