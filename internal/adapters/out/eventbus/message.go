// Package eventbus delivers order status changes to other services.
//
// KafkaOrderEventPublisher writes one JSON message per change, keyed by order
// id so all changes of an order land on the same partition in order.
// LogOrderEventPublisher is used instead when no broker is configured.
package eventbus

import (
	"encoding/json"
	"time"

	"storefront/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// EventTypeStatusChanged is carried in the "event-type" message header.
const EventTypeStatusChanged = "order.status_changed"

// StatusChangedMessage is the wire form of order.StatusChanged.
type StatusChangedMessage struct {
	EventID    string    `json:"eventId"`
	OrderID    string    `json:"orderId"`
	CustomerID string    `json:"customerId"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	OccurredAt time.Time `json:"occurredAt"`
}

func newStatusChangedMessage(event order.StatusChanged) StatusChangedMessage {
	return StatusChangedMessage{
		EventID:    uuid.NewString(),
		OrderID:    event.OrderID.String(),
		CustomerID: event.CustomerID.String(),
		From:       event.From.String(),
		To:         event.To.String(),
		OccurredAt: event.OccurredAt.UTC(),
	}
}

func (m StatusChangedMessage) encode() ([]byte, error) {
	return json.Marshal(m)
}
