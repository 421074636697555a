package queries

import (
	"context"
	"database/sql"
	"errors"

	"storefront/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetOrderQueryHandler reads one order view from the database.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle returns *errs.ObjectNotFoundError when the order does not exist.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (OrderView, error) {
	if err := query.Validate(); err != nil {
		return OrderView{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT `+orderColumns+`
		FROM orders
		WHERE id = ?
	`, query.OrderID().String()).Row()
	if err := row.Err(); err != nil {
		return OrderView{}, err
	}

	view, err := scanOrderView(row, query.Locale())
	if errors.Is(err, sql.ErrNoRows) {
		return OrderView{}, errs.NewObjectNotFoundError("order", query.OrderID())
	}
	if err != nil {
		return OrderView{}, err
	}

	views := []OrderView{view}
	if err = attachItems(ctx, h.db, views); err != nil {
		return OrderView{}, err
	}

	return views[0], nil
}
