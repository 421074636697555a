package eventbus

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/core/domain/model/order"

	"github.com/segmentio/kafka-go"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaOrderEventPublisher implements ports.OrderEventPublisher on Kafka.
type KafkaOrderEventPublisher struct {
	writer messageWriter
}

// NewKafkaWriter builds the writer used in production: hash balancing on the
// message key and a leader acknowledgement per batch.
func NewKafkaWriter(brokers []string, topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 50 * time.Millisecond,
	}
}

func NewKafkaOrderEventPublisher(writer messageWriter) *KafkaOrderEventPublisher {
	return &KafkaOrderEventPublisher{writer: writer}
}

// Publish writes all events in one batch.
func (p *KafkaOrderEventPublisher) Publish(ctx context.Context, events ...order.StatusChanged) error {
	if len(events) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(events))
	for _, event := range events {
		payload := newStatusChangedMessage(event)

		value, err := payload.encode()
		if err != nil {
			return fmt.Errorf("encode status change of order %s: %w", payload.OrderID, err)
		}

		msgs = append(msgs, kafka.Message{
			Key:   []byte(payload.OrderID),
			Value: value,
			Headers: []kafka.Header{
				{Key: "event-type", Value: []byte(EventTypeStatusChanged)},
				{Key: "event-id", Value: []byte(payload.EventID)},
			},
			Time: payload.OccurredAt,
		})
	}

	if err := p.writer.WriteMessages(ctx, msgs...); err != nil {
		return fmt.Errorf("write %d order status changes: %w", len(msgs), err)
	}
	return nil
}

func (p *KafkaOrderEventPublisher) Close() error {
	return p.writer.Close()
}
