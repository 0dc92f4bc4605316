package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventHandler processes one decoded event. Returning an error stops the
// consumer.
type EventHandler func(ctx context.Context, event PortalEvent) error

type Consumer struct {
	reader *kafka.Reader
	log    *zap.Logger
}

func NewConsumer(brokers []string, groupID, topic string, log *zap.Logger) *Consumer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Consumer{
		log: log,
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// Consume reads until ctx is cancelled. Undecodable messages are logged and
// skipped.
func (c *Consumer) Consume(ctx context.Context, handle EventHandler) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return err
		}

		event, ok := Decode(msg.Value)
		if !ok {
			c.log.Warn("skipping malformed event", zap.Int64("offset", msg.Offset), zap.ByteString("key", msg.Key))
			continue
		}
		if err := handle(ctx, event); err != nil {
			return err
		}
	}
}

// Decode parses a message body. Messages without a type are rejected.
func Decode(data []byte) (PortalEvent, bool) {
	var event PortalEvent
	if err := json.Unmarshal(data, &event); err != nil || event.Type == "" {
		return PortalEvent{}, false
	}
	return event, true
}
