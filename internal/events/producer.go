// Package events mirrors applied webhook events to Kafka for downstream
// consumers.
package events

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/segmentio/kafka-go"

	"example.com/wearsync/internal/domain"
)

// Topic carries every mirrored provider webhook event.
const Topic = "vital_webhook_events"

// KafkaPublisher lazily manages a writer for the webhook mirror topic.
type KafkaPublisher struct {
	brokers []string
	mu      sync.Mutex
	writer  *kafka.Writer
}

// NewKafkaPublisher creates a KafkaPublisher.
func NewKafkaPublisher(brokers []string) *KafkaPublisher {
	return &KafkaPublisher{brokers: brokers}
}

// Publish writes one webhook event, keyed by its correlation id so deliveries
// for the same user stay ordered within a partition.
func (p *KafkaPublisher) Publish(ctx context.Context, event domain.WebhookEvent) error {
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}

	key := event.UserID
	if key == "" {
		key = event.ClientUserID
	}

	return p.getWriter().WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType)},
		},
	})
}

func (p *KafkaPublisher) getWriter() *kafka.Writer {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.writer == nil {
		p.writer = &kafka.Writer{
			Addr:         kafka.TCP(p.brokers...),
			Topic:        Topic,
			RequiredAcks: kafka.RequireAll,
			Compression:  kafka.Snappy,
			Async:        false,
		}
	}
	return p.writer
}

// Close releases the writer.
func (p *KafkaPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.writer == nil {
		return nil
	}
	err := p.writer.Close()
	p.writer = nil
	return err
}
