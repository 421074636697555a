package queries

import (
	"errors"
	"fmt"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/errs"
	"storefront/internal/pkg/guard"

	"golang.org/x/text/language"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

var (
	ErrListOrdersQueryIsNotConstructed = errors.New(
		"ListOrdersQuery must be created via NewListOrdersQuery constructor",
	)
)

// ListOrdersFilter narrows a listing. Empty fields do not filter.
type ListOrdersFilter struct {
	// Statuses are raw status tokens; each must be canonical.
	Statuses []string
	// CustomerID limits the listing to one customer when set.
	CustomerID kernel.UUID
}

// ListOrdersQuery pages through orders, newest first.
//
// Example:
//
//	query, err := NewListOrdersQuery(ListOrdersFilter{
//	    Statuses: []string{"pending", "processing"},
//	}, 50, 0, language.English)
type ListOrdersQuery struct {
	statuses   []order.Status
	customerID kernel.UUID
	limit      int
	offset     int
	locale     language.Tag

	guard guard.ConstructorGuard
}

func NewListOrdersQuery(filter ListOrdersFilter, limit, offset int, locale language.Tag) (ListOrdersQuery, error) {
	query := ListOrdersQuery{
		customerID: filter.CustomerID,
		locale:     locale,
		guard:      guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		query.setStatuses(filter.Statuses),
		query.setLimit(limit),
		query.setOffset(offset),
	); err != nil {
		return ListOrdersQuery{}, err
	}

	return query, nil
}

// Validate ensures the query was created through the constructor.
func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

func (q ListOrdersQuery) Statuses() []order.Status {
	out := make([]order.Status, len(q.statuses))
	copy(out, q.statuses)
	return out
}

// CustomerID returns the customer filter and whether it is set.
func (q ListOrdersQuery) CustomerID() (kernel.UUID, bool) {
	return q.customerID, q.customerID.Validate() == nil
}

func (q ListOrdersQuery) Limit() int {
	return q.limit
}

func (q ListOrdersQuery) Offset() int {
	return q.offset
}

func (q ListOrdersQuery) Locale() language.Tag {
	return q.locale
}

func (q *ListOrdersQuery) setStatuses(tokens []string) error {
	statuses := make([]order.Status, 0, len(tokens))
	seen := make(map[order.Status]bool, len(tokens))

	for i, token := range tokens {
		status, err := order.ParseStatus(token)
		if err != nil {
			return errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("statuses[%d]", i), err)
		}
		if !seen[status] {
			seen[status] = true
			statuses = append(statuses, status)
		}
	}

	q.statuses = statuses
	return nil
}

func (q *ListOrdersQuery) setLimit(limit int) error {
	if limit == 0 {
		limit = DefaultListLimit
	}
	if limit < 1 || limit > MaxListLimit {
		return errs.NewValueIsOutOfRangeError("limit", limit, 1, MaxListLimit)
	}

	q.limit = limit
	return nil
}

func (q *ListOrdersQuery) setOffset(offset int) error {
	if offset < 0 {
		return errs.NewValueIsOutOfRangeError("offset", offset, 0, "unbounded")
	}

	q.offset = offset
	return nil
}

// ListOrdersQueryResponse is one page of orders and the number of orders
// matching the filter across all pages.
type ListOrdersQueryResponse struct {
	Orders []OrderView
	Total  int64
}
