package order

import (
	"errors"
	"fmt"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"
)

// MaxItemQuantity caps the quantity of a single order line.
const MaxItemQuantity = 1000

var ErrItemIsNotConstructed = errors.New("Item must be created via NewItem constructor")

// Item is one order line: a product reference, a quantity and the unit price
// captured at checkout in minor currency units.
type Item struct {
	productID kernel.UUID
	quantity  int
	unitPrice int64

	guard guard.ConstructorGuard
}

// NewItem validates and builds an order line.
func NewItem(productID kernel.UUID, quantity int, unitPrice int64) (Item, error) {
	item := Item{guard: guard.NewConstructorGuard()}

	if err := errors.Join(
		item.setProductID(productID),
		item.setQuantity(quantity),
		item.setUnitPrice(unitPrice),
	); err != nil {
		return Item{}, err
	}

	return item, nil
}

// Validate ensures the item was created through NewItem.
func (i Item) Validate() error {
	return i.guard.Validate(ErrItemIsNotConstructed)
}

func (i Item) ProductID() kernel.UUID {
	return i.productID
}

func (i Item) Quantity() int {
	return i.quantity
}

func (i Item) UnitPrice() int64 {
	return i.unitPrice
}

// Subtotal is quantity times unit price.
func (i Item) Subtotal() int64 {
	return int64(i.quantity) * i.unitPrice
}

func (i *Item) setProductID(productID kernel.UUID) error {
	if err := productID.Validate(); err != nil {
		return err
	}
	i.productID = productID
	return nil
}

func (i *Item) setQuantity(quantity int) error {
	if quantity < 1 || quantity > MaxItemQuantity {
		return errs.NewValueIsOutOfRangeError("quantity", quantity, 1, MaxItemQuantity)
	}
	i.quantity = quantity
	return nil
}

func (i *Item) setUnitPrice(unitPrice int64) error {
	if unitPrice < 0 {
		return errs.NewValueIsInvalidErrorWithCause("unit price", fmt.Errorf("%d is negative", unitPrice))
	}
	i.unitPrice = unitPrice
	return nil
}
