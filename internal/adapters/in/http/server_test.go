package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"storefront/internal/adapters/out/metrics"
	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/application/usecases/queries"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/core/domain/model/order"
	"storefront/internal/generated/servers"
	"storefront/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

type mockCreateOrderHandler struct{ mock.Mock }

func (m *mockCreateOrderHandler) Handle(ctx context.Context, cmd commands.CreateOrderCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type mockChangeOrderStatusHandler struct{ mock.Mock }

func (m *mockChangeOrderStatusHandler) Handle(ctx context.Context, cmd commands.ChangeOrderStatusCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type mockCancelOrderHandler struct{ mock.Mock }

func (m *mockCancelOrderHandler) Handle(ctx context.Context, cmd commands.CancelOrderCommand) error {
	return m.Called(ctx, cmd).Error(0)
}

type mockGetOrderHandler struct{ mock.Mock }

func (m *mockGetOrderHandler) Handle(ctx context.Context, query queries.GetOrderQuery) (queries.OrderView, error) {
	args := m.Called(ctx, query)
	view, _ := args.Get(0).(queries.OrderView)
	return view, args.Error(1)
}

type mockListOrdersHandler struct{ mock.Mock }

func (m *mockListOrdersHandler) Handle(
	ctx context.Context,
	query queries.ListOrdersQuery,
) (queries.ListOrdersQueryResponse, error) {
	args := m.Called(ctx, query)
	resp, _ := args.Get(0).(queries.ListOrdersQueryResponse)
	return resp, args.Error(1)
}

type serverFixture struct {
	create   *mockCreateOrderHandler
	change   *mockChangeOrderStatusHandler
	cancel   *mockCancelOrderHandler
	get      *mockGetOrderHandler
	list     *mockListOrdersHandler
	registry *prometheus.Registry
	router   *echo.Echo
}

func newServerFixture(t *testing.T) *serverFixture {
	t.Helper()

	f := &serverFixture{
		create:   &mockCreateOrderHandler{},
		change:   &mockChangeOrderStatusHandler{},
		cancel:   &mockCancelOrderHandler{},
		get:      &mockGetOrderHandler{},
		list:     &mockListOrdersHandler{},
		registry: prometheus.NewRegistry(),
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	server := NewServer(
		f.create,
		f.change,
		f.cancel,
		f.get,
		f.list,
		queries.NewListOrderStatusesQueryHandler(),
		metrics.NewOrderMetrics(f.registry),
		logger,
	)

	router, err := NewRouter(server, f.registry, logger)
	require.NoError(t, err)
	f.router = router

	t.Cleanup(func() {
		f.create.AssertExpectations(t)
		f.change.AssertExpectations(t)
		f.cancel.AssertExpectations(t)
		f.get.AssertExpectations(t)
		f.list.AssertExpectations(t)
	})

	return f
}

func (f *serverFixture) do(method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func orderView(id kernel.UUID, status order.Status, label string) queries.OrderView {
	placed := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	productID := kernel.NewUUID()

	return queries.OrderView{
		ID:            id,
		CustomerID:    kernel.NewUUID(),
		Status:        status,
		StatusLabel:   label,
		IsFinal:       status.IsFinal(),
		IsCancellable: status.IsCancellable(),
		Total:         3000,
		Version:       1,
		CreatedAt:     placed,
		UpdatedAt:     placed,
		Items: []queries.OrderItemView{
			{ProductID: productID, Quantity: 2, UnitPrice: 1500, Subtotal: 3000},
		},
	}
}

func forOrder(id kernel.UUID) any {
	return mock.MatchedBy(func(q queries.GetOrderQuery) bool {
		return q.OrderID().IsEqual(id)
	})
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) servers.Error {
	t.Helper()
	var body servers.Error
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestServer_GetHealth(t *testing.T) {
	f := newServerFixture(t)

	rec := f.do(http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Healthy", rec.Body.String())
}

func TestServer_CreateOrder(t *testing.T) {
	t.Run("created order is returned with its location", func(t *testing.T) {
		f := newServerFixture(t)
		customerID := kernel.NewUUID()
		productID := kernel.NewUUID()

		var createdID kernel.UUID
		f.create.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.CreateOrderCommand) bool {
			createdID = cmd.OrderID()
			return cmd.CustomerID().IsEqual(customerID) && len(cmd.Items()) == 1
		})).Return(nil).Once()
		f.get.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetOrderQuery) bool {
			return q.OrderID().IsEqual(createdID) && q.Locale() == language.Japanese
		})).Return(orderView(kernel.NewUUID(), order.Pending, "保留中"), nil).Once()

		body := `{"customerId":"` + customerID.String() + `","items":[{"productId":"` +
			productID.String() + `","quantity":2,"unitPrice":1500}]}`
		rec := f.do(http.MethodPost, "/api/v1/orders", body, map[string]string{"Accept-Language": "ja-JP,en;q=0.5"})

		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
		assert.Equal(t, "/api/v1/orders/"+createdID.String(), rec.Header().Get(echo.HeaderLocation))
		assert.Equal(t, "ja", rec.Header().Get("Content-Language"))

		var got servers.Order
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, servers.OrderStatus("pending"), got.Status)
		assert.True(t, got.IsCancellable)
		assert.False(t, got.IsFinal)
	})

	t.Run("missing items is rejected by the contract", func(t *testing.T) {
		f := newServerFixture(t)

		rec := f.do(http.MethodPost, "/api/v1/orders", `{"customerId":"`+kernel.NewUUID().String()+`"}`, nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, http.StatusBadRequest, decodeError(t, rec).Code)
	})

	t.Run("invalid line is unprocessable", func(t *testing.T) {
		f := newServerFixture(t)

		body := `{"customerId":"` + kernel.NewUUID().String() + `","items":[{"productId":"` +
			kernel.NewUUID().String() + `","quantity":0,"unitPrice":1500}]}`
		rec := f.do(http.MethodPost, "/api/v1/orders", body, nil)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		f.create.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})

	t.Run("unexpected failure hides details", func(t *testing.T) {
		f := newServerFixture(t)
		f.create.On("Handle", mock.Anything, mock.Anything).Return(errors.New("connection reset")).Once()

		body := `{"customerId":"` + kernel.NewUUID().String() + `","items":[{"productId":"` +
			kernel.NewUUID().String() + `","quantity":1,"unitPrice":100}]}`
		rec := f.do(http.MethodPost, "/api/v1/orders", body, nil)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		got := decodeError(t, rec)
		assert.Equal(t, internalErrorMessage, got.Message)
		assert.NotContains(t, rec.Body.String(), "connection reset")
	})
}

func TestServer_GetOrder(t *testing.T) {
	t.Run("lang parameter wins over Accept-Language", func(t *testing.T) {
		f := newServerFixture(t)
		id := kernel.NewUUID()
		f.get.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetOrderQuery) bool {
			return q.OrderID().IsEqual(id) && q.Locale() == language.Vietnamese
		})).Return(orderView(id, order.Shipped, "Đã gửi hàng"), nil).Once()

		rec := f.do(http.MethodGet, "/api/v1/orders/"+id.String()+"?lang=vi", "", map[string]string{"Accept-Language": "ja"})

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "vi", rec.Header().Get("Content-Language"))

		var got servers.Order
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, id.Bytes(), got.Id)
		assert.Equal(t, "Đã gửi hàng", got.StatusLabel)
		require.Len(t, got.Items, 1)
		assert.Equal(t, int64(3000), got.Items[0].Subtotal)
	})

	t.Run("unsupported language falls back to English", func(t *testing.T) {
		f := newServerFixture(t)
		id := kernel.NewUUID()
		f.get.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetOrderQuery) bool {
			return q.Locale() == language.English
		})).Return(orderView(id, order.Pending, "Pending"), nil).Once()

		rec := f.do(http.MethodGet, "/api/v1/orders/"+id.String(), "", map[string]string{"Accept-Language": "ko-KR"})

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "en", rec.Header().Get("Content-Language"))
	})

	t.Run("unknown order is not found", func(t *testing.T) {
		f := newServerFixture(t)
		id := kernel.NewUUID()
		f.get.On("Handle", mock.Anything, forOrder(id)).
			Return(queries.OrderView{}, errs.NewObjectNotFoundError("order", id)).Once()

		rec := f.do(http.MethodGet, "/api/v1/orders/"+id.String(), "", nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, http.StatusNotFound, decodeError(t, rec).Code)
	})

	t.Run("malformed id is a bad request", func(t *testing.T) {
		f := newServerFixture(t)

		rec := f.do(http.MethodGet, "/api/v1/orders/not-a-uuid", "", nil)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestServer_ChangeOrderStatus(t *testing.T) {
	t.Run("accepted change returns the updated order", func(t *testing.T) {
		f := newServerFixture(t)
		id := kernel.NewUUID()
		f.change.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.ChangeOrderStatusCommand) bool {
			return cmd.OrderID().IsEqual(id) && cmd.Status() == order.Shipped
		})).Return(nil).Once()
		f.get.On("Handle", mock.Anything, forOrder(id)).Return(orderView(id, order.Shipped, "Shipped"), nil).Once()

		rec := f.do(http.MethodPut, "/api/v1/orders/"+id.String()+"/status", `{"status":"shipped"}`, nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var got servers.Order
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, servers.OrderStatus("shipped"), got.Status)
	})

	t.Run("final order conflicts and is counted", func(t *testing.T) {
		f := newServerFixture(t)
		id := kernel.NewUUID()
		f.change.On("Handle", mock.Anything, mock.Anything).
			Return(errs.NewTransitionIsIllegalError("status", "delivered", "pending")).Once()

		rec := f.do(http.MethodPut, "/api/v1/orders/"+id.String()+"/status", `{"status":"pending"}`, nil)

		assert.Equal(t, http.StatusConflict, rec.Code)
		count, err := testutil.GatherAndCount(f.registry, "order_status_rejections_total")
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("stale version conflicts", func(t *testing.T) {
		f := newServerFixture(t)
		id := kernel.NewUUID()
		f.change.On("Handle", mock.Anything, mock.Anything).
			Return(errs.NewVersionIsInvalidError("order")).Once()

		rec := f.do(http.MethodPut, "/api/v1/orders/"+id.String()+"/status", `{"status":"processing"}`, nil)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("status tokens are case sensitive", func(t *testing.T) {
		f := newServerFixture(t)
		id := kernel.NewUUID()

		rec := f.do(http.MethodPut, "/api/v1/orders/"+id.String()+"/status", `{"status":"Shipped"}`, nil)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		f.change.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
	})
}

func TestServer_CancelOrder(t *testing.T) {
	t.Run("without body cancels on behalf of the shop", func(t *testing.T) {
		f := newServerFixture(t)
		id := kernel.NewUUID()
		f.cancel.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.CancelOrderCommand) bool {
			_, byCustomer := cmd.CustomerID()
			return cmd.OrderID().IsEqual(id) && !byCustomer
		})).Return(nil).Once()
		f.get.On("Handle", mock.Anything, forOrder(id)).Return(orderView(id, order.Cancelled, "Cancelled"), nil).Once()

		rec := f.do(http.MethodPost, "/api/v1/orders/"+id.String()+"/cancel", "", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		var got servers.Order
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.True(t, got.IsFinal)
	})

	t.Run("customer id is passed through", func(t *testing.T) {
		f := newServerFixture(t)
		id := kernel.NewUUID()
		customerID := kernel.NewUUID()
		f.cancel.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.CancelOrderCommand) bool {
			got, ok := cmd.CustomerID()
			return ok && got.IsEqual(customerID)
		})).Return(nil).Once()
		f.get.On("Handle", mock.Anything, forOrder(id)).Return(orderView(id, order.Cancelled, "Cancelled"), nil).Once()

		rec := f.do(http.MethodPost, "/api/v1/orders/"+id.String()+"/cancel",
			`{"customerId":"`+customerID.String()+`"}`, nil)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("shipped order cannot be cancelled", func(t *testing.T) {
		f := newServerFixture(t)
		id := kernel.NewUUID()
		f.cancel.On("Handle", mock.Anything, mock.Anything).
			Return(errs.NewTransitionIsIllegalError("status", "shipped", "cancelled")).Once()

		rec := f.do(http.MethodPost, "/api/v1/orders/"+id.String()+"/cancel", "", nil)

		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, decodeError(t, rec).Message, "shipped")
	})
}

func TestServer_ListOrders(t *testing.T) {
	t.Run("filters and paging are forwarded", func(t *testing.T) {
		f := newServerFixture(t)
		customerID := kernel.NewUUID()
		first := orderView(kernel.NewUUID(), order.Pending, "Pending")

		f.list.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.ListOrdersQuery) bool {
			id, ok := q.CustomerID()
			return ok && id.IsEqual(customerID) &&
				assert.ObjectsAreEqual([]order.Status{order.Pending, order.Processing}, q.Statuses()) &&
				q.Limit() == 10 && q.Offset() == 20
		})).Return(queries.ListOrdersQueryResponse{Orders: []queries.OrderView{first}, Total: 21}, nil).Once()

		rec := f.do(http.MethodGet,
			"/api/v1/orders?status=pending,processing&customerId="+customerID.String()+"&limit=10&offset=20",
			"", nil)

		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var page servers.OrderPage
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
		assert.Equal(t, int64(21), page.Total)
		assert.Equal(t, 10, page.Limit)
		assert.Equal(t, 20, page.Offset)
		require.Len(t, page.Orders, 1)
		assert.Equal(t, first.ID.Bytes(), page.Orders[0].Id)
	})

	t.Run("default limit applies", func(t *testing.T) {
		f := newServerFixture(t)
		f.list.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.ListOrdersQuery) bool {
			return q.Limit() == queries.DefaultListLimit
		})).Return(queries.ListOrdersQueryResponse{}, nil).Once()

		rec := f.do(http.MethodGet, "/api/v1/orders", "", nil)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"orders":[]`)
	})

	t.Run("unknown status filter is unprocessable", func(t *testing.T) {
		f := newServerFixture(t)

		rec := f.do(http.MethodGet, "/api/v1/orders?status=refunded", "", nil)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})

	t.Run("oversized page is unprocessable", func(t *testing.T) {
		f := newServerFixture(t)

		rec := f.do(http.MethodGet, "/api/v1/orders?limit=500", "", nil)

		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	})
}

func TestServer_ListOrderStatuses(t *testing.T) {
	f := newServerFixture(t)

	rec := f.do(http.MethodGet, "/api/v1/order-statuses?lang=ja", "", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var got servers.OrderStatusList
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "ja", got.Locale)
	require.Len(t, got.Statuses, 5)
	assert.Equal(t, servers.OrderStatus("pending"), got.Statuses[0].Status)
	assert.Equal(t, order.Pending.Label(language.Japanese), got.Statuses[0].Label)
	assert.True(t, got.Statuses[4].IsFinal)
}

func TestRouter_ServesMetricsAndDocs(t *testing.T) {
	f := newServerFixture(t)

	rec := f.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodGet, "/swagger/doc.json", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/v1/orders")
}

func TestRouter_RoutesOutsideTheContract(t *testing.T) {
	t.Run("unknown path is not found", func(t *testing.T) {
		f := newServerFixture(t)

		rec := f.do(http.MethodGet, "/api/v1/refunds", "", nil)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("wrong method on a known path is not allowed", func(t *testing.T) {
		f := newServerFixture(t)

		rec := f.do(http.MethodDelete, "/api/v1/orders", "", nil)

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
		assert.Equal(t, http.StatusMethodNotAllowed, decodeError(t, rec).Code)
	})
}
