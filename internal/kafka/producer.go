package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Producer publishes JSON portal events. One writer is shared by all topics;
// the topic travels on each message.
type Producer struct {
	brokers []string
	writer  *kafka.Writer
	log     *zap.Logger
}

func NewProducer(brokers []string, log *zap.Logger) *Producer {
	if log == nil {
		log = zap.NewNop()
	}
	return &Producer{
		brokers: brokers,
		log:     log,
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			BatchTimeout:           50 * time.Millisecond,
			RequiredAcks:           kafka.RequireOne,
			AllowAutoTopicCreation: true,
		},
	}
}

func (p *Producer) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write to %s: %w", topic, err)
	}

	p.log.Debug("event published", zap.String("topic", topic), zap.String("key", key))
	return nil
}

// PublishWithRetry backs off linearly between attempts and gives up early
// when ctx is done.
func (p *Producer) PublishWithRetry(ctx context.Context, topic, key string, payload interface{}, attempts int) error {
	var lastErr error
	for i := 0; i < attempts; i++ {
		if lastErr = p.Publish(ctx, topic, key, payload); lastErr == nil {
			return nil
		}
		p.log.Warn("publish attempt failed", zap.Int("attempt", i+1), zap.Error(lastErr))

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(i+1) * 500 * time.Millisecond):
			}
		}
	}
	return fmt.Errorf("publish failed after %d attempts: %w", attempts, lastErr)
}

func (p *Producer) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}

// CheckConnection dials the first broker and lists its partitions.
func (p *Producer) CheckConnection(ctx context.Context) error {
	if len(p.brokers) == 0 {
		return fmt.Errorf("no kafka brokers configured")
	}
	conn, err := kafka.DialContext(ctx, "tcp", p.brokers[0])
	if err != nil {
		return fmt.Errorf("dial kafka: %w", err)
	}
	defer conn.Close()

	partitions, err := conn.ReadPartitions()
	if err != nil {
		return fmt.Errorf("read partitions: %w", err)
	}
	p.log.Info("connected to kafka", zap.Int("partitions", len(partitions)))
	return nil
}

// Retrying publishes through PublishWithRetry so it can stand in wherever a
// plain Publish is expected.
type Retrying struct {
	Producer *Producer
	Attempts int
}

func (r Retrying) Publish(ctx context.Context, topic, key string, payload interface{}) error {
	attempts := r.Attempts
	if attempts < 1 {
		attempts = 1
	}
	return r.Producer.PublishWithRetry(ctx, topic, key, payload, attempts)
}
