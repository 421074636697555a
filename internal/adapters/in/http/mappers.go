package http

import (
	"storefront/internal/core/application/usecases/queries"
	"storefront/internal/generated/servers"
)

func toOrder(view queries.OrderView) servers.Order {
	items := make([]servers.OrderItem, len(view.Items))
	for i, item := range view.Items {
		items[i] = servers.OrderItem{
			ProductId: item.ProductID.Bytes(),
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Subtotal:  item.Subtotal,
		}
	}

	return servers.Order{
		Id:            view.ID.Bytes(),
		CustomerId:    view.CustomerID.Bytes(),
		Status:        servers.OrderStatus(view.Status.String()),
		StatusLabel:   view.StatusLabel,
		IsFinal:       view.IsFinal,
		IsCancellable: view.IsCancellable,
		Total:         view.Total,
		Version:       view.Version,
		CreatedAt:     view.CreatedAt,
		UpdatedAt:     view.UpdatedAt,
		Items:         items,
	}
}
