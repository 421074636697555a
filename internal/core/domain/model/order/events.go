package order

import (
	"time"

	"storefront/internal/core/domain/model/kernel"
)

// StatusChanged is recorded by the Order aggregate each time its status moves.
// Command handlers publish the recorded events after the transaction commits.
type StatusChanged struct {
	OrderID    kernel.UUID
	CustomerID kernel.UUID
	From       Status
	To         Status
	OccurredAt time.Time
}
