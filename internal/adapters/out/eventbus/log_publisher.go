package eventbus

import (
	"context"
	"log/slog"

	"storefront/internal/core/domain/model/order"
)

// LogOrderEventPublisher records status changes in the service log only.
type LogOrderEventPublisher struct {
	logger *slog.Logger
}

func NewLogOrderEventPublisher(logger *slog.Logger) *LogOrderEventPublisher {
	return &LogOrderEventPublisher{
		logger: logger.With("component", "order_events"),
	}
}

func (p *LogOrderEventPublisher) Publish(ctx context.Context, events ...order.StatusChanged) error {
	for _, event := range events {
		p.logger.InfoContext(ctx, "order status changed",
			"event_type", EventTypeStatusChanged,
			"order_id", event.OrderID.String(),
			"customer_id", event.CustomerID.String(),
			"from", event.From.String(),
			"to", event.To.String(),
			"occurred_at", event.OccurredAt,
		)
	}
	return nil
}

func (p *LogOrderEventPublisher) Close() error {
	return nil
}
