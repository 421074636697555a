package queries

import (
	"context"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

// ListOrdersQueryHandler reads pages of order views from the database.
//
// Example:
//
//	handler := NewListOrdersQueryHandler(db)
//	page, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("showing %d of %d orders\n", len(page.Orders), page.Total)
type ListOrdersQueryHandler struct {
	db *gorm.DB
}

func NewListOrdersQueryHandler(db *gorm.DB) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{db: db}
}

// Handle returns matching orders sorted by creation time, newest first, with
// id as a tie breaker so paging is stable.
func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) (ListOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return ListOrdersQueryResponse{}, err
	}

	where, args := listConditions(query)

	var total int64
	if err := h.db.WithContext(ctx).Raw(`SELECT COUNT(*) FROM orders`+where, args...).Scan(&total).Error; err != nil {
		return ListOrdersQueryResponse{}, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT `+orderColumns+`
		FROM orders`+where+`
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, append(args, query.Limit(), query.Offset())...).Rows()
	if err != nil {
		return ListOrdersQueryResponse{}, err
	}
	defer rows.Close()

	views := make([]OrderView, 0, query.Limit())
	for rows.Next() {
		view, scanErr := scanOrderView(rows, query.Locale())
		if scanErr != nil {
			return ListOrdersQueryResponse{}, scanErr
		}
		views = append(views, view)
	}
	if err = rows.Err(); err != nil {
		return ListOrdersQueryResponse{}, err
	}

	if err = attachItems(ctx, h.db, views); err != nil {
		return ListOrdersQueryResponse{}, err
	}

	return ListOrdersQueryResponse{
		Orders: views,
		Total:  total,
	}, nil
}

func listConditions(query ListOrdersQuery) (string, []any) {
	var (
		conditions []string
		args       []any
	)

	if statuses := query.Statuses(); len(statuses) > 0 {
		tokens := make([]string, len(statuses))
		for i, s := range statuses {
			tokens[i] = s.String()
		}
		conditions = append(conditions, "status = ANY(?)")
		args = append(args, pq.Array(tokens))
	}

	if customerID, ok := query.CustomerID(); ok {
		conditions = append(conditions, "customer_id = ?")
		args = append(args, customerID.String())
	}

	if len(conditions) == 0 {
		return "", nil
	}
	return "\n\t\tWHERE " + strings.Join(conditions, " AND "), args
}
