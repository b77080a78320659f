package facades

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/sbilibin2017/gw-identity/internal/logger"
	"github.com/sbilibin2017/gw-identity/internal/models"
	"github.com/segmentio/kafka-go"
)

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error // Writes messages to Kafka
	Close() error                                                   // Closes the Kafka writer
}

// UserEventsKafkaFacade publishes user lifecycle events to Kafka.
type UserEventsKafkaFacade struct {
	writer KafkaWriter
}

// NewUserEventsKafkaFacade creates a new facade. A nil writer disables publishing.
func NewUserEventsKafkaFacade(writer KafkaWriter) *UserEventsKafkaFacade {
	return &UserEventsKafkaFacade{writer: writer}
}

// Publish writes the events keyed by user id, so events of one user stay ordered.
func (f *UserEventsKafkaFacade) Publish(ctx context.Context, events ...models.UserEvent) error {
	if len(events) == 0 {
		return nil
	}
	if f == nil || f.writer == nil {
		logger.Log.Debugw("Kafka writer not configured, skipping publishing", "count", len(events))
		return nil
	}

	msgs := make([]kafka.Message, 0, len(events))
	for _, ev := range events {
		data, err := json.Marshal(ev)
		if err != nil {
			logger.Log.Errorw("Failed to marshal user event for Kafka", "type", ev.Type, "user_id", ev.UserID, "error", err)
			return err
		}
		msgs = append(msgs, kafka.Message{
			Key:   []byte(strconv.FormatInt(ev.UserID, 10)),
			Value: data,
			Time:  ev.OccurredAt,
		})
	}

	if err := f.writer.WriteMessages(ctx, msgs...); err != nil {
		logger.Log.Errorw("Failed to publish user events to Kafka", "count", len(msgs), "error", err)
		return err
	}

	logger.Log.Infow("User events published to Kafka", "count", len(msgs), "type", events[0].Type)
	return nil
}

// Close closes the underlying writer.
func (f *UserEventsKafkaFacade) Close() error {
	if f == nil || f.writer == nil {
		return nil
	}
	return f.writer.Close()
}
