package commands

import (
	"errors"
	"time"

	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"
)

const (
	// MaxStaleBatchSize bounds how many orders one run may cancel.
	MaxStaleBatchSize = 1000
)

var (
	ErrCancelStalePendingOrdersCommandIsNotConstructed = errors.New(
		"CancelStalePendingOrdersCommand must be created via NewCancelStalePendingOrdersCommand constructor",
	)
)

// CancelStalePendingOrdersCommand cancels orders that have stayed pending for
// longer than a time-to-live, typically abandoned checkouts.
//
// Example:
//
//	cmd, _ := NewCancelStalePendingOrdersCommand(48*time.Hour, 100)
//	cancelled, err := handler.Handle(ctx, cmd)
type CancelStalePendingOrdersCommand struct { //nolint:recvcheck //using for validation
	ttl       time.Duration
	batchSize int

	guard guard.ConstructorGuard
}

func NewCancelStalePendingOrdersCommand(ttl time.Duration, batchSize int) (CancelStalePendingOrdersCommand, error) {
	cmd := CancelStalePendingOrdersCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setTTL(ttl),
		cmd.setBatchSize(batchSize),
	); err != nil {
		return CancelStalePendingOrdersCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CancelStalePendingOrdersCommand) Validate() error {
	return c.guard.Validate(ErrCancelStalePendingOrdersCommandIsNotConstructed)
}

// TTL is how long an order may stay pending.
func (c CancelStalePendingOrdersCommand) TTL() time.Duration {
	return c.ttl
}

func (c CancelStalePendingOrdersCommand) BatchSize() int {
	return c.batchSize
}

func (c *CancelStalePendingOrdersCommand) setTTL(ttl time.Duration) error {
	if ttl <= 0 {
		return errs.NewValueIsOutOfRangeError("ttl", ttl, "1ns", "unbounded")
	}

	c.ttl = ttl
	return nil
}

func (c *CancelStalePendingOrdersCommand) setBatchSize(batchSize int) error {
	if batchSize < 1 || batchSize > MaxStaleBatchSize {
		return errs.NewValueIsOutOfRangeError("batch size", batchSize, 1, MaxStaleBatchSize)
	}

	c.batchSize = batchSize
	return nil
}
