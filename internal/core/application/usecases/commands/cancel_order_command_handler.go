package commands

import (
	"context"
	"time"

	"storefront/internal/core/ports"
	"storefront/internal/pkg/errs"
)

// CancelOrderCommandHandler cancels a single order.
//
// Example:
//
//	handler := NewCancelOrderCommandHandler(uowFactory, publisher)
//	cmd, _ := NewCustomerCancelOrderCommand(orderID, customerID)
//	if err := handler.Handle(ctx, cmd); errors.Is(err, errs.ErrTransitionIsIllegal) {
//	    // too late, the order has shipped
//	}
type CancelOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.OrderEventPublisher
	now        func() time.Time
}

func NewCancelOrderCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.OrderEventPublisher,
) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		now:        time.Now,
	}
}

// Handle cancels the order when the policy allows it. A customer asking for
// someone else's order gets *errs.ObjectNotFoundError, exactly as if the
// order did not exist.
func (h CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	if customerID, ok := cmd.CustomerID(); ok && !o.IsOwnedBy(customerID) {
		return errs.NewObjectNotFoundError("order", cmd.OrderID())
	}

	if err = o.Cancel(h.now()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return err
	}

	if err = uow.Commit(ctx); err != nil {
		return err
	}

	publishCommitted(ctx, h.publisher, uow)
	return nil
}
