// Package commands contains business operations that modify order state.
// Every command follows the same pattern: validate the command, run the
// status policy inside a transaction, commit, then publish the recorded
// status changes.
package commands

import (
	"context"
	"log/slog"

	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// EventSource hands out the status changes written by a committed transaction.
	EventSource interface {
		PendingEvents() []order.StatusChanged
	}

	// OrderUoW manages transactions for order operations.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   o, err := uow.OrderRepository().Get(ctx, id)
	//   // ... change status, Update
	//
	//   err = uow.Commit(ctx)
	//   publisher.Publish(ctx, uow.PendingEvents()...)
	OrderUoW interface {
		TxManager
		OrderRepoFactory
		EventSource
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}
)

// publishCommitted forwards the events of a committed unit of work. The
// status change is already durable at this point, so a delivery failure is
// logged rather than reported to the caller.
func publishCommitted(ctx context.Context, publisher ports.OrderEventPublisher, source EventSource) {
	events := source.PendingEvents()
	if len(events) == 0 || publisher == nil {
		return
	}

	if err := publisher.Publish(ctx, events...); err != nil {
		slog.ErrorContext(ctx, "failed to publish order status changes",
			"events", len(events),
			"error", err,
		)
	}
}
