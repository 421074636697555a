package order

import (
	"errors"
	"fmt"
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// Order is the aggregate root of a customer purchase. Its status only moves
// through ChangeStatus and Cancel, which delegate every decision to Status.
//
// Order follows these invariants:
//   - Must have valid order and customer identifiers
//   - Must contain at least one valid item
//   - Status is always one of the five valid statuses
//   - Version grows by one for every persisted change (optimistic locking)
type Order struct {
	id         kernel.UUID
	customerID kernel.UUID
	items      []Item
	status     Status

	// version is the value read from storage; repositories compare it on write.
	version int

	createdAt time.Time
	updatedAt time.Time

	events []StatusChanged

	isConstructed bool
}

// NewOrder creates a pending order at checkout.
//
// Example:
//
//	item, _ := order.NewItem(productID, 2, 1999)
//	o, err := order.NewOrder(kernel.NewUUID(), customerID, []order.Item{item}, time.Now())
//	if err != nil {
//	    // Handle validation error
//	}
func NewOrder(id, customerID kernel.UUID, items []Item, now time.Time) (*Order, error) {
	o := &Order{
		status:        Pending,
		createdAt:     now.UTC(),
		updatedAt:     now.UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerID(customerID),
		o.setItems(items),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder rebuilds an order read from storage. The status is validated
// so a corrupted row cannot produce an Order the policy was never asked about.
func RestoreOrder(
	id, customerID kernel.UUID,
	items []Item,
	status Status,
	version int,
	createdAt, updatedAt time.Time,
) (*Order, error) {
	o := &Order{
		createdAt:     createdAt.UTC(),
		updatedAt:     updatedAt.UTC(),
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerID(customerID),
		o.setItems(items),
		o.setStatus(status),
		o.setVersion(version),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the order was built by NewOrder or RestoreOrder.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

// IsEqual compares two orders by identifier.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

// Items returns a copy of the order lines.
func (o *Order) Items() []Item {
	out := make([]Item, len(o.items))
	copy(out, o.items)
	return out
}

// Total is the sum of all item subtotals in minor currency units.
func (o *Order) Total() int64 {
	var total int64
	for _, item := range o.items {
		total += item.Subtotal()
	}
	return total
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) Version() int {
	return o.version
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

// IsOwnedBy reports whether customerID placed this order.
func (o *Order) IsOwnedBy(customerID kernel.UUID) bool {
	return o.customerID.IsEqual(customerID)
}

// ChangeStatus applies a general status update. See Status.TransitionTo for
// the rules; on error the order is left untouched.
func (o *Order) ChangeStatus(requested Status, now time.Time) error {
	next, err := o.status.TransitionTo(requested)
	if err != nil {
		return err
	}
	o.apply(next, now)
	return nil
}

// Cancel cancels a pending or processing order. See Status.Cancel.
func (o *Order) Cancel(now time.Time) error {
	next, err := o.status.Cancel()
	if err != nil {
		return err
	}
	o.apply(next, now)
	return nil
}

// DomainEvents returns the status changes recorded since the last ClearDomainEvents.
func (o *Order) DomainEvents() []StatusChanged {
	out := make([]StatusChanged, len(o.events))
	copy(out, o.events)
	return out
}

func (o *Order) ClearDomainEvents() {
	o.events = nil
}

func (o *Order) apply(next Status, now time.Time) {
	o.events = append(o.events, StatusChanged{
		OrderID:    o.id,
		CustomerID: o.customerID,
		From:       o.status,
		To:         next,
		OccurredAt: now.UTC(),
	})
	o.status = next
	o.updatedAt = now.UTC()
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customer id", err)
	}
	o.customerID = customerID
	return nil
}

func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return errs.NewValueIsRequiredError("items")
	}
	for i, item := range items {
		if err := item.Validate(); err != nil {
			return errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("items[%d]", i), err)
		}
	}
	o.items = make([]Item, len(items))
	copy(o.items, items)
	return nil
}

func (o *Order) setStatus(status Status) error {
	if err := status.Validate(); err != nil {
		return err
	}
	o.status = status
	return nil
}

func (o *Order) setVersion(version int) error {
	if version < 0 {
		return errs.NewValueIsInvalidErrorWithCause("version", fmt.Errorf("%d is negative", version))
	}
	o.version = version
	return nil
}
