// Package servers provides primitives to interact with the openapi HTTP API.
// It follows the layout of oapi-codegen's echo-server output for
// api/openapi.yml and is kept in step with the contract by hand.
package servers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Defines values for OrderStatus.
const (
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
)

// CancelOrderRequest defines model for CancelOrderRequest.
type CancelOrderRequest struct {
	// CustomerId When set, only this customer's order is cancelled
	CustomerId *openapi_types.UUID `json:"customerId,omitempty"`
}

// Error defines model for Error.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewOrder defines model for NewOrder.
type NewOrder struct {
	CustomerId openapi_types.UUID `json:"customerId"`
	Items      []NewOrderItem     `json:"items"`
}

// NewOrderItem defines model for NewOrderItem.
type NewOrderItem struct {
	ProductId openapi_types.UUID `json:"productId"`
	Quantity  int                `json:"quantity"`

	// UnitPrice Price in minor currency units
	UnitPrice int64 `json:"unitPrice"`
}

// Order defines model for Order.
type Order struct {
	CreatedAt     time.Time          `json:"createdAt"`
	CustomerId    openapi_types.UUID `json:"customerId"`
	Id            openapi_types.UUID `json:"id"`
	IsCancellable bool               `json:"isCancellable"`
	IsFinal       bool               `json:"isFinal"`
	Items         []OrderItem        `json:"items"`
	Status        OrderStatus        `json:"status"`
	StatusLabel   string             `json:"statusLabel"`
	Total         int64              `json:"total"`
	UpdatedAt     time.Time          `json:"updatedAt"`
	Version       int                `json:"version"`
}

// OrderItem defines model for OrderItem.
type OrderItem struct {
	ProductId openapi_types.UUID `json:"productId"`
	Quantity  int                `json:"quantity"`
	Subtotal  int64              `json:"subtotal"`
	UnitPrice int64              `json:"unitPrice"`
}

// OrderPage defines model for OrderPage.
type OrderPage struct {
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
	Orders []Order `json:"orders"`
	Total  int64   `json:"total"`
}

// OrderStatus defines model for OrderStatus.
type OrderStatus string

// OrderStatusInfo defines model for OrderStatusInfo.
type OrderStatusInfo struct {
	IsCancellable bool        `json:"isCancellable"`
	IsFinal       bool        `json:"isFinal"`
	Label         string      `json:"label"`
	Status        OrderStatus `json:"status"`
}

// OrderStatusList defines model for OrderStatusList.
type OrderStatusList struct {
	Locale   string            `json:"locale"`
	Statuses []OrderStatusInfo `json:"statuses"`
}

// StatusChangeRequest defines model for StatusChangeRequest.
type StatusChangeRequest struct {
	// Status Requested status token. Tokens are case sensitive.
	Status string `json:"status"`
}

// Lang defines model for Lang.
type Lang = string

// OrderId defines model for OrderId.
type OrderId = openapi_types.UUID

// BadRequest defines model for BadRequest.
type BadRequest = Error

// Conflict defines model for Conflict.
type Conflict = Error

// NotFound defines model for NotFound.
type NotFound = Error

// Unexpected defines model for Unexpected.
type Unexpected = Error

// Unprocessable defines model for Unprocessable.
type Unprocessable = Error

// ListOrdersParams defines parameters for ListOrders.
type ListOrdersParams struct {
	// Status Only orders in one of these statuses
	Status     *[]string           `form:"status,omitempty" json:"status,omitempty"`
	CustomerId *openapi_types.UUID `form:"customerId,omitempty" json:"customerId,omitempty"`
	Limit      *int                `form:"limit,omitempty" json:"limit,omitempty"`
	Offset     *int                `form:"offset,omitempty" json:"offset,omitempty"`

	// Lang BCP 47 language tag for status labels (en, ja, vi). Falls back to Accept-Language, then English.
	Lang *Lang `form:"lang,omitempty" json:"lang,omitempty"`
}

// CreateOrderParams defines parameters for CreateOrder.
type CreateOrderParams struct {
	// Lang BCP 47 language tag for status labels (en, ja, vi). Falls back to Accept-Language, then English.
	Lang *Lang `form:"lang,omitempty" json:"lang,omitempty"`
}

// GetOrderParams defines parameters for GetOrder.
type GetOrderParams struct {
	// Lang BCP 47 language tag for status labels (en, ja, vi). Falls back to Accept-Language, then English.
	Lang *Lang `form:"lang,omitempty" json:"lang,omitempty"`
}

// CancelOrderParams defines parameters for CancelOrder.
type CancelOrderParams struct {
	// Lang BCP 47 language tag for status labels (en, ja, vi). Falls back to Accept-Language, then English.
	Lang *Lang `form:"lang,omitempty" json:"lang,omitempty"`
}

// ChangeOrderStatusParams defines parameters for ChangeOrderStatus.
type ChangeOrderStatusParams struct {
	// Lang BCP 47 language tag for status labels (en, ja, vi). Falls back to Accept-Language, then English.
	Lang *Lang `form:"lang,omitempty" json:"lang,omitempty"`
}

// ListOrderStatusesParams defines parameters for ListOrderStatuses.
type ListOrderStatusesParams struct {
	// Lang BCP 47 language tag for status labels (en, ja, vi). Falls back to Accept-Language, then English.
	Lang *Lang `form:"lang,omitempty" json:"lang,omitempty"`
}

// CreateOrderJSONRequestBody defines body for CreateOrder for application/json ContentType.
type CreateOrderJSONRequestBody = NewOrder

// CancelOrderJSONRequestBody defines body for CancelOrder for application/json ContentType.
type CancelOrderJSONRequestBody = CancelOrderRequest

// ChangeOrderStatusJSONRequestBody defines body for ChangeOrderStatus for application/json ContentType.
type ChangeOrderStatusJSONRequestBody = StatusChangeRequest

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// List orders, newest first
	// (GET /api/v1/orders)
	ListOrders(ctx echo.Context, params ListOrdersParams) error
	// Place a new order at checkout
	// (POST /api/v1/orders)
	CreateOrder(ctx echo.Context, params CreateOrderParams) error
	// Get one order
	// (GET /api/v1/orders/{orderId})
	GetOrder(ctx echo.Context, orderId OrderId, params GetOrderParams) error
	// Cancel a pending or processing order
	// (POST /api/v1/orders/{orderId}/cancel)
	CancelOrder(ctx echo.Context, orderId OrderId, params CancelOrderParams) error
	// Change the status of an order
	// (PUT /api/v1/orders/{orderId}/status)
	ChangeOrderStatus(ctx echo.Context, orderId OrderId, params ChangeOrderStatusParams) error
	// Describe every order status for a locale
	// (GET /api/v1/order-statuses)
	ListOrderStatuses(ctx echo.Context, params ListOrderStatusesParams) error
	// Liveness probe
	// (GET /health)
	GetHealth(ctx echo.Context) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

// ListOrders converts echo context to params.
func (w *ServerInterfaceWrapper) ListOrders(ctx echo.Context) error {
	var err error

	// Parameter object where we will unmarshal all parameters from the context
	var params ListOrdersParams
	// ------------- Optional query parameter "status" -------------

	err = runtime.BindQueryParameter("form", false, false, "status", ctx.QueryParams(), &params.Status)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter status: %s", err))
	}

	// ------------- Optional query parameter "customerId" -------------

	err = runtime.BindQueryParameter("form", true, false, "customerId", ctx.QueryParams(), &params.CustomerId)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter customerId: %s", err))
	}

	// ------------- Optional query parameter "limit" -------------

	err = runtime.BindQueryParameter("form", true, false, "limit", ctx.QueryParams(), &params.Limit)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter limit: %s", err))
	}

	// ------------- Optional query parameter "offset" -------------

	err = runtime.BindQueryParameter("form", true, false, "offset", ctx.QueryParams(), &params.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter offset: %s", err))
	}

	// ------------- Optional query parameter "lang" -------------

	err = runtime.BindQueryParameter("form", true, false, "lang", ctx.QueryParams(), &params.Lang)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter lang: %s", err))
	}

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.ListOrders(ctx, params)
	return err
}

// CreateOrder converts echo context to params.
func (w *ServerInterfaceWrapper) CreateOrder(ctx echo.Context) error {
	var err error

	// Parameter object where we will unmarshal all parameters from the context
	var params CreateOrderParams
	// ------------- Optional query parameter "lang" -------------

	err = runtime.BindQueryParameter("form", true, false, "lang", ctx.QueryParams(), &params.Lang)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter lang: %s", err))
	}

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.CreateOrder(ctx, params)
	return err
}

// GetOrder converts echo context to params.
func (w *ServerInterfaceWrapper) GetOrder(ctx echo.Context) error {
	var err error
	// ------------- Path parameter "orderId" -------------
	var orderId OrderId

	err = runtime.BindStyledParameterWithOptions("simple", "orderId", ctx.Param("orderId"), &orderId, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter orderId: %s", err))
	}

	// Parameter object where we will unmarshal all parameters from the context
	var params GetOrderParams
	// ------------- Optional query parameter "lang" -------------

	err = runtime.BindQueryParameter("form", true, false, "lang", ctx.QueryParams(), &params.Lang)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter lang: %s", err))
	}

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.GetOrder(ctx, orderId, params)
	return err
}

// CancelOrder converts echo context to params.
func (w *ServerInterfaceWrapper) CancelOrder(ctx echo.Context) error {
	var err error
	// ------------- Path parameter "orderId" -------------
	var orderId OrderId

	err = runtime.BindStyledParameterWithOptions("simple", "orderId", ctx.Param("orderId"), &orderId, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter orderId: %s", err))
	}

	// Parameter object where we will unmarshal all parameters from the context
	var params CancelOrderParams
	// ------------- Optional query parameter "lang" -------------

	err = runtime.BindQueryParameter("form", true, false, "lang", ctx.QueryParams(), &params.Lang)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter lang: %s", err))
	}

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.CancelOrder(ctx, orderId, params)
	return err
}

// ChangeOrderStatus converts echo context to params.
func (w *ServerInterfaceWrapper) ChangeOrderStatus(ctx echo.Context) error {
	var err error
	// ------------- Path parameter "orderId" -------------
	var orderId OrderId

	err = runtime.BindStyledParameterWithOptions("simple", "orderId", ctx.Param("orderId"), &orderId, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter orderId: %s", err))
	}

	// Parameter object where we will unmarshal all parameters from the context
	var params ChangeOrderStatusParams
	// ------------- Optional query parameter "lang" -------------

	err = runtime.BindQueryParameter("form", true, false, "lang", ctx.QueryParams(), &params.Lang)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter lang: %s", err))
	}

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.ChangeOrderStatus(ctx, orderId, params)
	return err
}

// ListOrderStatuses converts echo context to params.
func (w *ServerInterfaceWrapper) ListOrderStatuses(ctx echo.Context) error {
	var err error

	// Parameter object where we will unmarshal all parameters from the context
	var params ListOrderStatusesParams
	// ------------- Optional query parameter "lang" -------------

	err = runtime.BindQueryParameter("form", true, false, "lang", ctx.QueryParams(), &params.Lang)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter lang: %s", err))
	}

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.ListOrderStatuses(ctx, params)
	return err
}

// GetHealth converts echo context to params.
func (w *ServerInterfaceWrapper) GetHealth(ctx echo.Context) error {
	var err error

	// Invoke the callback with all the unmarshaled arguments
	err = w.Handler.GetHealth(ctx)
	return err
}

// This is a simple interface which specifies echo.Route addition functions which
// are present on both echo.Echo and echo.Group, since we want to allow using
// either of them for path registration
type EchoRouter interface {
	CONNECT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	DELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	HEAD(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	OPTIONS(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PATCH(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	TRACE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each server route to the EchoRouter.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	RegisterHandlersWithBaseURL(router, si, "")
}

// Registers handlers, and prepends BaseURL to the paths, so that the paths
// can be served under a prefix.
func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {

	wrapper := ServerInterfaceWrapper{
		Handler: si,
	}

	router.GET(baseURL+"/api/v1/order-statuses", wrapper.ListOrderStatuses)
	router.GET(baseURL+"/api/v1/orders", wrapper.ListOrders)
	router.POST(baseURL+"/api/v1/orders", wrapper.CreateOrder)
	router.GET(baseURL+"/api/v1/orders/:orderId", wrapper.GetOrder)
	router.POST(baseURL+"/api/v1/orders/:orderId/cancel", wrapper.CancelOrder)
	router.PUT(baseURL+"/api/v1/orders/:orderId/status", wrapper.ChangeOrderStatus)
	router.GET(baseURL+"/health", wrapper.GetHealth)

}
