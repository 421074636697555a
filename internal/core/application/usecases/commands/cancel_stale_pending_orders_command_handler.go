package commands

import (
	"context"
	"errors"
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/core/ports"
	"storefront/internal/pkg/errs"
)

var errNoLongerPending = errors.New("order is no longer pending")

// CancelStalePendingOrdersCommandHandler cancels abandoned pending orders.
//
// Candidates are selected first, then each order is cancelled in its own
// transaction. An order that changed in between (version conflict, or it is no
// longer pending) is skipped rather than failing the whole run.
type CancelStalePendingOrdersCommandHandler struct {
	uowFactory OrderUoWFactory
	publisher  ports.OrderEventPublisher
	now        func() time.Time
}

func NewCancelStalePendingOrdersCommandHandler(
	uowFactory OrderUoWFactory,
	publisher ports.OrderEventPublisher,
) CancelStalePendingOrdersCommandHandler {
	return CancelStalePendingOrdersCommandHandler{
		uowFactory: uowFactory,
		publisher:  publisher,
		now:        time.Now,
	}
}

// Handle returns how many orders were cancelled. On error the count still
// reflects the orders cancelled before the failure.
func (h CancelStalePendingOrdersCommandHandler) Handle(
	ctx context.Context,
	cmd CancelStalePendingOrdersCommand,
) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	now := h.now()

	candidates, err := h.findCandidates(ctx, now.Add(-cmd.TTL()), cmd.BatchSize())
	if err != nil {
		return 0, err
	}

	cancelled := 0
	for _, id := range candidates {
		if err = ctx.Err(); err != nil {
			return cancelled, err
		}

		err = h.cancelOne(ctx, id, now)
		switch {
		case err == nil:
			cancelled++
		case errors.Is(err, errNoLongerPending),
			errors.Is(err, errs.ErrVersionIsInvalid),
			errors.Is(err, errs.ErrTransitionIsIllegal),
			errors.Is(err, errs.ErrObjectNotFound):
			continue
		default:
			return cancelled, err
		}
	}

	return cancelled, nil
}

func (h CancelStalePendingOrdersCommandHandler) findCandidates(
	ctx context.Context,
	cutoff time.Time,
	limit int,
) ([]kernel.UUID, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orders, err := uow.OrderRepository().GetAllInStatusCreatedBefore(ctx, order.Pending, cutoff, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID())
	}
	return ids, nil
}

func (h CancelStalePendingOrdersCommandHandler) cancelOne(ctx context.Context, id kernel.UUID, now time.Time) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	o, err := orderRepo.Get(ctx, id)
	if err != nil {
		return err
	}

	if o.Status() != order.Pending {
		return errNoLongerPending
	}

	if err = o.Cancel(now); err != nil {
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
