package queries

import (
	"context"

	"storefront/internal/core/domain/model/order"
)

// ListOrderStatusesQueryHandler answers from the status policy alone.
type ListOrderStatusesQueryHandler struct{}

func NewListOrderStatusesQueryHandler() ListOrderStatusesQueryHandler {
	return ListOrderStatusesQueryHandler{}
}

func (h ListOrderStatusesQueryHandler) Handle(
	_ context.Context,
	query ListOrderStatusesQuery,
) (ListOrderStatusesQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return ListOrderStatusesQueryResponse{}, err
	}

	statuses := order.Statuses()
	views := make([]OrderStatusView, len(statuses))
	for i, s := range statuses {
		views[i] = OrderStatusView{
			Status:        s,
			Label:         s.Label(query.Locale()),
			IsFinal:       s.IsFinal(),
			IsCancellable: s.IsCancellable(),
		}
	}

	return ListOrderStatusesQueryResponse{
		Locale:   order.MatchLocale(query.Locale()),
		Statuses: views,
	}, nil
}
