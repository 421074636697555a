package guard_test

import (
	"errors"
	"testing"
	"time"

	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/application/usecases/queries"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/pkg/guard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

type validator interface {
	Validate() error
}

func TestConstructorGuard_ZeroValueRequests(t *testing.T) {
	tests := []struct {
		name    string
		request validator
		wantErr error
	}{
		{"change order status", commands.ChangeOrderStatusCommand{}, commands.ErrChangeOrderStatusCommandIsNotConstructed},
		{"cancel order", commands.CancelOrderCommand{}, commands.ErrCancelOrderCommandIsNotConstructed},
		{"create order", commands.CreateOrderCommand{}, commands.ErrCreateOrderCommandIsNotConstructed},
		{
			"cancel stale pending orders",
			commands.CancelStalePendingOrdersCommand{},
			commands.ErrCancelStalePendingOrdersCommandIsNotConstructed,
		},
		{"get order", queries.GetOrderQuery{}, queries.ErrGetOrderQueryIsNotConstructed},
		{"list orders", queries.ListOrdersQuery{}, queries.ErrListOrdersQueryIsNotConstructed},
		{"list order statuses", queries.ListOrderStatusesQuery{}, queries.ErrListOrderStatusesQueryIsNotConstructed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.request.Validate()

			require.ErrorIs(t, err, tt.wantErr)
			assert.NotErrorIs(t, err, guard.ErrDefaultConstructorGuard)
		})
	}
}

func TestConstructorGuard_ConstructedRequests(t *testing.T) {
	orderID := kernel.NewUUID()

	changeStatus, err := commands.NewChangeOrderStatusCommand(orderID, "shipped")
	require.NoError(t, err)
	cancel, err := commands.NewCancelOrderCommand(orderID)
	require.NoError(t, err)
	sweep, err := commands.NewCancelStalePendingOrdersCommand(time.Hour, 10)
	require.NoError(t, err)
	listOrders, err := queries.NewListOrdersQuery(queries.ListOrdersFilter{Statuses: []string{"pending"}}, 0, 0, language.Vietnamese)
	require.NoError(t, err)

	for name, request := range map[string]validator{
		"change order status":         changeStatus,
		"cancel order":                cancel,
		"cancel stale pending orders": sweep,
		"list orders":                 listOrders,
		"list order statuses":         queries.NewListOrderStatusesQuery(language.Japanese),
	} {
		t.Run(name, func(t *testing.T) {
			assert.NoError(t, request.Validate())
		})
	}
}

func TestConstructorGuard_DefaultError(t *testing.T) {
	var zero guard.ConstructorGuard

	assert.ErrorIs(t, zero.Validate(nil), guard.ErrDefaultConstructorGuard)

	notBuilt := errors.New("refund request must be created via its constructor")
	assert.Same(t, notBuilt, zero.Validate(notBuilt))

	assert.NoError(t, guard.NewConstructorGuard().Validate(nil))
}
