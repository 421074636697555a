// Package ports defines the contracts between the order domain and the
// infrastructure that stores orders and announces their status changes.
package ports

import (
	"context"
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate with its items.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists the status of an existing order.
	// The write only succeeds when the stored version still equals
	// aggregate.Version(); otherwise *errs.VersionIsInvalidError is returned.
	// A missing order yields *errs.ObjectNotFoundError.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate with its items by identifier.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetAllInStatusCreatedBefore retrieves orders in status that were created
	// strictly before the cutoff, oldest first, at most limit of them.
	GetAllInStatusCreatedBefore(
		ctx context.Context,
		status order.Status,
		before time.Time,
		limit int,
	) ([]*order.Order, error)
}

// OrderEventPublisher delivers status change events to other services once
// the transaction that produced them has committed.
type OrderEventPublisher interface {
	Publish(ctx context.Context, events ...order.StatusChanged) error
}
