package queries

import (
	"errors"

	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/guard"

	"golang.org/x/text/language"
)

var (
	ErrListOrderStatusesQueryIsNotConstructed = errors.New(
		"ListOrderStatusesQuery must be created via NewListOrderStatusesQuery constructor",
	)
)

// ListOrderStatusesQuery describes every order status for a locale. Clients
// use it to fill status dropdowns and to validate input before sending it.
type ListOrderStatusesQuery struct {
	locale language.Tag

	guard guard.ConstructorGuard
}

func NewListOrderStatusesQuery(locale language.Tag) ListOrderStatusesQuery {
	return ListOrderStatusesQuery{
		locale: locale,
		guard:  guard.NewConstructorGuard(),
	}
}

// Validate ensures the query was created through the constructor.
func (q ListOrderStatusesQuery) Validate() error {
	return q.guard.Validate(ErrListOrderStatusesQueryIsNotConstructed)
}

func (q ListOrderStatusesQuery) Locale() language.Tag {
	return q.locale
}

// OrderStatusView is one status as presented to clients.
type OrderStatusView struct {
	Status        order.Status
	Label         string
	IsFinal       bool
	IsCancellable bool
}

// ListOrderStatusesQueryResponse carries the statuses in canonical order and
// the locale their labels were resolved to.
type ListOrderStatusesQueryResponse struct {
	Locale   language.Tag
	Statuses []OrderStatusView
}
