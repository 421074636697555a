// Package queries contains read-only operations over orders. Handlers read
// straight from the database with raw SQL and return flat views; they never
// load aggregates or open transactions.
package queries

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/text/language"
	"gorm.io/gorm"
)

// OrderView is the read model of an order, with its status already labelled
// for the requested locale.
type OrderView struct {
	ID            kernel.UUID
	CustomerID    kernel.UUID
	Status        order.Status
	StatusLabel   string
	IsFinal       bool
	IsCancellable bool
	Total         int64
	Version       int
	CreatedAt     time.Time
	UpdatedAt     time.Time
	Items         []OrderItemView
}

type OrderItemView struct {
	ProductID kernel.UUID
	Quantity  int
	UnitPrice int64
	Subtotal  int64
}

const orderColumns = `
	id,
	customer_id,
	status,
	total,
	version,
	created_at,
	updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

// scanOrderView reads one row selected with orderColumns. Items are attached
// separately by attachItems.
func scanOrderView(row rowScanner, locale language.Tag) (OrderView, error) {
	var (
		view                 OrderView
		id, customerID       uuid.UUID
		status               string
		createdAt, updatedAt time.Time
	)

	if err := row.Scan(&id, &customerID, &status, &view.Total, &view.Version, &createdAt, &updatedAt); err != nil {
		return OrderView{}, err
	}

	orderID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return OrderView{}, err
	}
	view.ID = orderID

	view.CustomerID, err = kernel.UUIDFromBytes(customerID[:])
	if err != nil {
		return OrderView{}, err
	}

	view.Status, err = order.ParseStatus(status)
	if err != nil {
		return OrderView{}, fmt.Errorf("order %s: %w", orderID, err)
	}

	view.StatusLabel = view.Status.Label(locale)
	view.IsFinal = view.Status.IsFinal()
	view.IsCancellable = view.Status.IsCancellable()
	view.CreatedAt = createdAt.UTC()
	view.UpdatedAt = updatedAt.UTC()
	view.Items = make([]OrderItemView, 0)

	return view, nil
}

// attachItems loads the items of every view in one query, keeping checkout order.
func attachItems(ctx context.Context, db *gorm.DB, views []OrderView) error {
	if len(views) == 0 {
		return nil
	}

	ids := make([]string, len(views))
	byID := make(map[uuid.UUID]*OrderView, len(views))
	for i := range views {
		ids[i] = views[i].ID.String()
		byID[views[i].ID.Bytes()] = &views[i]
	}

	rows, err := db.WithContext(ctx).Raw(`
		SELECT
			order_id,
			product_id,
			quantity,
			unit_price
		FROM order_items
		WHERE order_id = ANY(CAST(? AS uuid[]))
		ORDER BY order_id, position
	`, pq.Array(ids)).Rows()
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID, productID uuid.UUID
			item               OrderItemView
		)

		if err = rows.Scan(&orderID, &productID, &item.Quantity, &item.UnitPrice); err != nil {
			return err
		}

		item.ProductID, err = kernel.UUIDFromBytes(productID[:])
		if err != nil {
			return err
		}
		item.Subtotal = int64(item.Quantity) * item.UnitPrice

		if view, ok := byID[orderID]; ok {
			view.Items = append(view.Items, item)
		}
	}

	return rows.Err()
}
