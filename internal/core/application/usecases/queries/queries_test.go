package queries_test

import (
	"context"

	"testing"

	"storefront/internal/core/application/usecases/queries"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestNewGetOrderQuery(t *testing.T) {
	id := kernel.NewUUID()

	query, err := queries.NewGetOrderQuery(id, language.Japanese)
	require.NoError(t, err)
	require.NoError(t, query.Validate())
	assert.Equal(t, id, query.OrderID())
	assert.Equal(t, language.Japanese, query.Locale())

	_, err = queries.NewGetOrderQuery(kernel.UUID{}, language.English)
	require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
}

func TestGetOrderQuery_NotConstructedViaConstructor(t *testing.T) {
	query := queries.GetOrderQuery{}
	err := query.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, queries.ErrGetOrderQueryIsNotConstructed)
}

func TestNewListOrdersQuery(t *testing.T) {
	t.Run("should apply defaults", func(t *testing.T) {
		query, err := queries.NewListOrdersQuery(queries.ListOrdersFilter{}, 0, 0, language.English)

		require.NoError(t, err)
		assert.Equal(t, queries.DefaultListLimit, query.Limit())
		assert.Equal(t, 0, query.Offset())
		assert.Empty(t, query.Statuses())
		_, hasCustomer := query.CustomerID()
		assert.False(t, hasCustomer)
	})

	t.Run("should parse and deduplicate statuses", func(t *testing.T) {
		query, err := queries.NewListOrdersQuery(queries.ListOrdersFilter{
			Statuses: []string{"shipped", "pending", "shipped"},
		}, 10, 20, language.English)

		require.NoError(t, err)
		assert.Equal(t, []order.Status{order.Shipped, order.Pending}, query.Statuses())
		assert.Equal(t, 20, query.Offset())
	})

	t.Run("should keep the customer filter", func(t *testing.T) {
		customerID := kernel.NewUUID()

		query, err := queries.NewListOrdersQuery(queries.ListOrdersFilter{CustomerID: customerID}, 10, 0, language.English)

		require.NoError(t, err)
		got, ok := query.CustomerID()
		assert.True(t, ok)
		assert.Equal(t, customerID, got)
	})

	t.Run("should reject non canonical status tokens", func(t *testing.T) {
		_, err := queries.NewListOrdersQuery(queries.ListOrdersFilter{
			Statuses: []string{"pending", "Delivered"},
		}, 10, 0, language.English)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
		assert.Contains(t, err.Error(), "statuses[1]")
	})

	t.Run("should reject out of range paging", func(t *testing.T) {
		for _, tc := range []struct{ limit, offset int }{
			{-1, 0},
			{queries.MaxListLimit + 1, 0},
			{10, -5},
		} {
			_, err := queries.NewListOrdersQuery(queries.ListOrdersFilter{}, tc.limit, tc.offset, language.English)

			require.ErrorIs(t, err, errs.ErrValueIsOutOfRange, "limit=%d offset=%d", tc.limit, tc.offset)
		}
	})

	t.Run("zero value fails validation", func(t *testing.T) {
		require.ErrorIs(t, queries.ListOrdersQuery{}.Validate(), queries.ErrListOrdersQueryIsNotConstructed)
	})
}

func TestListOrderStatusesQueryHandler_Handle(t *testing.T) {
	h := queries.NewListOrderStatusesQueryHandler()

	t.Run("should describe every status in canonical order", func(t *testing.T) {
		resp, err := h.Handle(context.Background(), queries.NewListOrderStatusesQuery(language.English))

		require.NoError(t, err)
		assert.Equal(t, language.English, resp.Locale)
		require.Len(t, resp.Statuses, 5)

		for i, s := range order.Statuses() {
			view := resp.Statuses[i]
			assert.Equal(t, s, view.Status)
			assert.Equal(t, s.IsFinal(), view.IsFinal)
			assert.Equal(t, s.IsCancellable(), view.IsCancellable)
		}
		assert.Equal(t, "Pending", resp.Statuses[0].Label)
		assert.True(t, resp.Statuses[3].IsFinal)
		assert.True(t, resp.Statuses[1].IsCancellable)
	})

	t.Run("should label in the matched locale", func(t *testing.T) {
		resp, err := h.Handle(context.Background(), queries.NewListOrderStatusesQuery(language.MustParse("vi-VN")))

		require.NoError(t, err)
		assert.Equal(t, language.Vietnamese, resp.Locale)
		assert.Equal(t, "Chờ xử lý", resp.Statuses[0].Label)
	})

	t.Run("should fall back to English", func(t *testing.T) {
		resp, err := h.Handle(context.Background(), queries.NewListOrderStatusesQuery(language.Korean))

		require.NoError(t, err)
		assert.Equal(t, language.English, resp.Locale)
		assert.Equal(t, "Cancelled", resp.Statuses[4].Label)
	})

	t.Run("should reject unconstructed query", func(t *testing.T) {
		_, err := h.Handle(context.Background(), queries.ListOrderStatusesQuery{})

		require.ErrorIs(t, err, queries.ErrListOrderStatusesQueryIsNotConstructed)
	})
}
