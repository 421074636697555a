package http

import (
	"context"
	"log/slog"
	"net/http"

	"storefront/internal/core/application/usecases/commands"
	"storefront/internal/core/application/usecases/queries"
	"storefront/internal/core/domain/model/kernel"
	"storefront/internal/generated/servers"

	"github.com/labstack/echo/v4"
	"golang.org/x/text/language"
)

// Use case handlers the server delegates to.
type (
	CreateOrderHandler interface {
		Handle(ctx context.Context, cmd commands.CreateOrderCommand) error
	}

	ChangeOrderStatusHandler interface {
		Handle(ctx context.Context, cmd commands.ChangeOrderStatusCommand) error
	}

	CancelOrderHandler interface {
		Handle(ctx context.Context, cmd commands.CancelOrderCommand) error
	}

	GetOrderHandler interface {
		Handle(ctx context.Context, query queries.GetOrderQuery) (queries.OrderView, error)
	}

	ListOrdersHandler interface {
		Handle(ctx context.Context, query queries.ListOrdersQuery) (queries.ListOrdersQueryResponse, error)
	}

	ListOrderStatusesHandler interface {
		Handle(ctx context.Context, query queries.ListOrderStatusesQuery) (queries.ListOrderStatusesQueryResponse, error)
	}

	// RejectionRecorder counts status changes refused by the order status policy.
	RejectionRecorder interface {
		ObserveRejection(reason string)
	}
)

// Server implements the ServerInterface for handling HTTP requests.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	createOrderHandler       CreateOrderHandler
	changeOrderStatusHandler ChangeOrderStatusHandler
	cancelOrderHandler       CancelOrderHandler

	// Query handlers
	getOrderHandler          GetOrderHandler
	listOrdersHandler        ListOrdersHandler
	listOrderStatusesHandler ListOrderStatusesHandler

	rejections RejectionRecorder
	logger     *slog.Logger
}

var _ servers.ServerInterface = (*Server)(nil)

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler CreateOrderHandler,
	changeOrderStatusHandler ChangeOrderStatusHandler,
	cancelOrderHandler CancelOrderHandler,
	getOrderHandler GetOrderHandler,
	listOrdersHandler ListOrdersHandler,
	listOrderStatusesHandler ListOrderStatusesHandler,
	rejections RejectionRecorder,
	logger *slog.Logger,
) *Server {
	return &Server{
		createOrderHandler:       createOrderHandler,
		changeOrderStatusHandler: changeOrderStatusHandler,
		cancelOrderHandler:       cancelOrderHandler,
		getOrderHandler:          getOrderHandler,
		listOrdersHandler:        listOrdersHandler,
		listOrderStatusesHandler: listOrderStatusesHandler,
		rejections:               rejections,
		logger:                   logger.With("component", "http"),
	}
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Healthy")
}

// ListOrders handles GET /api/v1/orders.
func (s *Server) ListOrders(ctx echo.Context, params servers.ListOrdersParams) error {
	locale := resolveLocale(ctx, params.Lang)

	var filter queries.ListOrdersFilter
	if params.Status != nil {
		filter.Statuses = *params.Status
	}
	if params.CustomerId != nil {
		customerID, err := kernel.UUIDFromBytes(params.CustomerId[:])
		if err != nil {
			return s.fail(ctx, err)
		}
		filter.CustomerID = customerID
	}

	query, err := queries.NewListOrdersQuery(filter, valueOr(params.Limit, 0), valueOr(params.Offset, 0), locale)
	if err != nil {
		return s.fail(ctx, err)
	}

	page, err := s.listOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	response := servers.OrderPage{
		Orders: make([]servers.Order, len(page.Orders)),
		Total:  page.Total,
		Limit:  query.Limit(),
		Offset: query.Offset(),
	}
	for i, view := range page.Orders {
		response.Orders[i] = toOrder(view)
	}

	return ctx.JSON(http.StatusOK, response)
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(ctx echo.Context, params servers.CreateOrderParams) error {
	locale := resolveLocale(ctx, params.Lang)

	var body servers.NewOrder
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	customerID, err := kernel.UUIDFromBytes(body.CustomerId[:])
	if err != nil {
		return s.fail(ctx, err)
	}

	lines := make([]commands.OrderLine, len(body.Items))
	for i, item := range body.Items {
		productID, idErr := kernel.UUIDFromBytes(item.ProductId[:])
		if idErr != nil {
			return s.fail(ctx, idErr)
		}
		lines[i] = commands.OrderLine{
			ProductID: productID,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
		}
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(orderID, customerID, lines)
	if err != nil {
		return s.fail(ctx, err)
	}

	if err = s.createOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return s.fail(ctx, err)
	}

	ctx.Response().Header().Set(echo.HeaderLocation, "/api/v1/orders/"+orderID.String())
	return s.respondWithOrder(ctx, http.StatusCreated, orderID, locale)
}

// GetOrder handles GET /api/v1/orders/{orderId}.
func (s *Server) GetOrder(ctx echo.Context, id servers.OrderId, params servers.GetOrderParams) error {
	orderID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return s.fail(ctx, err)
	}

	return s.respondWithOrder(ctx, http.StatusOK, orderID, resolveLocale(ctx, params.Lang))
}

// ChangeOrderStatus handles PUT /api/v1/orders/{orderId}/status.
func (s *Server) ChangeOrderStatus(
	ctx echo.Context,
	id servers.OrderId,
	params servers.ChangeOrderStatusParams,
) error {
	locale := resolveLocale(ctx, params.Lang)

	var body servers.StatusChangeRequest
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	orderID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewChangeOrderStatusCommand(orderID, body.Status)
	if err != nil {
		s.recordRejection(err)
		return s.fail(ctx, err)
	}

	if err = s.changeOrderStatusHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		s.recordRejection(err)
		return s.fail(ctx, err)
	}

	return s.respondWithOrder(ctx, http.StatusOK, orderID, locale)
}

// CancelOrder handles POST /api/v1/orders/{orderId}/cancel.
func (s *Server) CancelOrder(
	ctx echo.Context,
	id servers.OrderId,
	params servers.CancelOrderParams,
) error {
	locale := resolveLocale(ctx, params.Lang)

	var body servers.CancelOrderRequest
	if ctx.Request().ContentLength != 0 {
		if err := ctx.Bind(&body); err != nil {
			return badRequest(ctx, "Invalid request body")
		}
	}

	orderID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return s.fail(ctx, err)
	}

	var cmd commands.CancelOrderCommand
	if body.CustomerId != nil {
		customerID, idErr := kernel.UUIDFromBytes(body.CustomerId[:])
		if idErr != nil {
			return s.fail(ctx, idErr)
		}
		cmd, err = commands.NewCustomerCancelOrderCommand(orderID, customerID)
	} else {
		cmd, err = commands.NewCancelOrderCommand(orderID)
	}
	if err != nil {
		return s.fail(ctx, err)
	}

	if err = s.cancelOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		s.recordRejection(err)
		return s.fail(ctx, err)
	}

	return s.respondWithOrder(ctx, http.StatusOK, orderID, locale)
}

// ListOrderStatuses handles GET /api/v1/order-statuses.
func (s *Server) ListOrderStatuses(ctx echo.Context, params servers.ListOrderStatusesParams) error {
	query := queries.NewListOrderStatusesQuery(resolveLocale(ctx, params.Lang))

	resp, err := s.listOrderStatusesHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	response := servers.OrderStatusList{
		Locale:   resp.Locale.String(),
		Statuses: make([]servers.OrderStatusInfo, len(resp.Statuses)),
	}
	for i, view := range resp.Statuses {
		response.Statuses[i] = servers.OrderStatusInfo{
			Status:        servers.OrderStatus(view.Status.String()),
			Label:         view.Label,
			IsFinal:       view.IsFinal,
			IsCancellable: view.IsCancellable,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

func (s *Server) respondWithOrder(ctx echo.Context, status int, orderID kernel.UUID, locale language.Tag) error {
	query, err := queries.NewGetOrderQuery(orderID, locale)
	if err != nil {
		return s.fail(ctx, err)
	}

	view, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}

	return ctx.JSON(status, toOrder(view))
}

func (s *Server) recordRejection(err error) {
	if s.rejections == nil {
		return
	}
	if reason, ok := rejectionReason(err); ok {
		s.rejections.ObserveRejection(reason)
	}
}

func valueOr[T any](v *T, fallback T) T {
	if v == nil {
		return fallback
	}
	return *v
}
