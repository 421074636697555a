package queries

import (
	"errors"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/guard"

	"golang.org/x/text/language"
)

var (
	ErrGetOrderQueryIsNotConstructed = errors.New(
		"GetOrderQuery must be created via NewGetOrderQuery constructor",
	)
)

// GetOrderQuery retrieves a single order with its items.
//
// Example:
//
//	query, err := NewGetOrderQuery(orderID, language.Japanese)
//	view, err := handler.Handle(ctx, query)
//	fmt.Println(view.StatusLabel) // 処理中
type GetOrderQuery struct {
	orderID kernel.UUID
	locale  language.Tag

	guard guard.ConstructorGuard
}

// NewGetOrderQuery creates the query. The locale is matched against the
// supported label locales, so any tag is accepted.
func NewGetOrderQuery(orderID kernel.UUID, locale language.Tag) (GetOrderQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderQuery{}, err
	}

	return GetOrderQuery{
		orderID: orderID,
		locale:  locale,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderQueryIsNotConstructed)
}

func (q GetOrderQuery) OrderID() kernel.UUID {
	return q.orderID
}

func (q GetOrderQuery) Locale() language.Tag {
	return q.locale
}
