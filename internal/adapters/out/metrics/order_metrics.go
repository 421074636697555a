// Package metrics exposes Prometheus counters for order status changes.
package metrics

import (
	"context"

	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/ports"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Rejection reasons used as the "reason" label.
const (
	ReasonInvalidStatus     = "invalid_status"
	ReasonIllegalTransition = "illegal_transition"
	ReasonVersionConflict   = "version_conflict"
)

type OrderMetrics struct {
	transitions *prometheus.CounterVec
	rejections  *prometheus.CounterVec
	staleRuns   prometheus.Counter
	staleOrders prometheus.Counter
}

// NewOrderMetrics registers the order counters with reg.
func NewOrderMetrics(reg prometheus.Registerer) *OrderMetrics {
	factory := promauto.With(reg)

	return &OrderMetrics{
		transitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "order_status_transitions_total",
				Help: "Committed order status changes",
			},
			[]string{"from", "to"},
		),
		rejections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "order_status_rejections_total",
				Help: "Status change requests refused by the order status policy",
			},
			[]string{"reason"},
		),
		staleRuns: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "order_stale_pending_runs_total",
				Help: "Runs of the stale pending order cleanup",
			},
		),
		staleOrders: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "order_stale_pending_cancelled_total",
				Help: "Pending orders cancelled for being stale",
			},
		),
	}
}

func (m *OrderMetrics) ObserveTransition(event order.StatusChanged) {
	m.transitions.WithLabelValues(event.From.String(), event.To.String()).Inc()
}

func (m *OrderMetrics) ObserveRejection(reason string) {
	m.rejections.WithLabelValues(reason).Inc()
}

func (m *OrderMetrics) ObserveStaleRun(cancelled int) {
	m.staleRuns.Inc()
	m.staleOrders.Add(float64(cancelled))
}

// InstrumentedPublisher counts every event handed to the wrapped publisher.
// Events reach a publisher only after commit, so the count matches
// persisted transitions even when delivery fails.
type InstrumentedPublisher struct {
	next    ports.OrderEventPublisher
	metrics *OrderMetrics
}

func NewInstrumentedPublisher(next ports.OrderEventPublisher, metrics *OrderMetrics) *InstrumentedPublisher {
	return &InstrumentedPublisher{
		next:    next,
		metrics: metrics,
	}
}

func (p *InstrumentedPublisher) Publish(ctx context.Context, events ...order.StatusChanged) error {
	for _, event := range events {
		p.metrics.ObserveTransition(event)
	}
	return p.next.Publish(ctx, events...)
}
