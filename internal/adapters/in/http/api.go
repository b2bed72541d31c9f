package http

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// ListOrdersParams defines parameters for ListOrders.
type ListOrdersParams struct {
	CustomerEmail *string `form:"customerEmail,omitempty" json:"customerEmail,omitempty"`
}

// HandlePaymentWebhookParams defines parameters for HandlePaymentWebhook.
type HandlePaymentWebhookParams struct {
	XRazorpaySignature string `json:"X-Razorpay-Signature"`
}

// ServerInterface lists the operations of openapi.yaml.
type ServerInterface interface {
	// (POST /orders)
	CreateOrder(ctx echo.Context) error
	// (GET /orders)
	ListOrders(ctx echo.Context, params ListOrdersParams) error
	// (GET /orders/{orderId})
	GetOrder(ctx echo.Context, orderID openapi_types.UUID) error
	// (POST /orders/{orderId}/cancel)
	CancelOrder(ctx echo.Context, orderID openapi_types.UUID) error
	// (GET /orders/{orderId}/documents)
	ListDocuments(ctx echo.Context, orderID openapi_types.UUID) error
	// (POST /orders/{orderId}/documents)
	UploadDocument(ctx echo.Context, orderID openapi_types.UUID) error
	// (PUT /orders/{orderId}/documents/{documentId})
	ReplaceDocument(ctx echo.Context, orderID, documentID openapi_types.UUID) error
	// (DELETE /orders/{orderId}/documents/{documentId})
	DeleteDocument(ctx echo.Context, orderID, documentID openapi_types.UUID) error
	// (POST /orders/{orderId}/documents/{documentId}/verify)
	VerifyDocument(ctx echo.Context, orderID, documentID openapi_types.UUID) error
	// (GET /orders/{orderId}/documents/{documentId}/download)
	DownloadDocument(ctx echo.Context, orderID, documentID openapi_types.UUID) error
	// (POST /orders/{orderId}/pay)
	PayOrder(ctx echo.Context, orderID openapi_types.UUID) error
	// (POST /orders/{orderId}/assign)
	AssignOrder(ctx echo.Context, orderID openapi_types.UUID) error
	// (GET /orders/{orderId}/workflow/progress)
	GetWorkflowProgress(ctx echo.Context, orderID openapi_types.UUID) error
	// (GET /orders/{orderId}/workflow/timeline)
	GetWorkflowTimeline(ctx echo.Context, orderID openapi_types.UUID) error
	// (POST /orders/{orderId}/workflow/advance)
	AdvanceWorkflowStage(ctx echo.Context, orderID openapi_types.UUID) error
	// (POST /orders/{orderId}/workflow/complete)
	CompleteWorkflowStage(ctx echo.Context, orderID openapi_types.UUID) error
	// (GET /orders/{orderId}/invoice)
	GetInvoice(ctx echo.Context, orderID openapi_types.UUID) error
	// (POST /payments/order)
	CreatePaymentOrder(ctx echo.Context) error
	// (GET /payments/key)
	GetPaymentKey(ctx echo.Context) error
	// (POST /payments/confirm)
	ConfirmPayment(ctx echo.Context) error
	// (POST /payments/webhook)
	HandlePaymentWebhook(ctx echo.Context, params HandlePaymentWebhookParams) error
	// (POST /employees)
	RegisterEmployee(ctx echo.Context) error
	// (GET /employees)
	ListEmployees(ctx echo.Context) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

func bindPathUUID(ctx echo.Context, name string) (openapi_types.UUID, error) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, ctx.Param(name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return id, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter %s: %s", name, err))
	}
	return id, nil
}

// withOrder adapts an operation taking the order id.
func (w *ServerInterfaceWrapper) withOrder(op func(echo.Context, openapi_types.UUID) error) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		orderID, err := bindPathUUID(ctx, "orderId")
		if err != nil {
			return err
		}
		return op(ctx, orderID)
	}
}

// withDocument adapts an operation taking the order and document ids.
func (w *ServerInterfaceWrapper) withDocument(op func(echo.Context, openapi_types.UUID, openapi_types.UUID) error) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		orderID, err := bindPathUUID(ctx, "orderId")
		if err != nil {
			return err
		}
		documentID, err := bindPathUUID(ctx, "documentId")
		if err != nil {
			return err
		}
		return op(ctx, orderID, documentID)
	}
}

// ListOrders converts echo context to params.
func (w *ServerInterfaceWrapper) ListOrders(ctx echo.Context) error {
	var params ListOrdersParams
	err := runtime.BindQueryParameter("form", true, false, "customerEmail", ctx.QueryParams(), &params.CustomerEmail)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter customerEmail: %s", err))
	}
	return w.Handler.ListOrders(ctx, params)
}

// HandlePaymentWebhook converts echo context to params.
func (w *ServerInterfaceWrapper) HandlePaymentWebhook(ctx echo.Context) error {
	var params HandlePaymentWebhookParams

	headers := ctx.Request().Header
	valueList, found := headers[http.CanonicalHeaderKey("X-Razorpay-Signature")]
	if !found {
		return echo.NewHTTPError(http.StatusBadRequest, "Header parameter X-Razorpay-Signature is required, but not found")
	}
	if n := len(valueList); n != 1 {
		return echo.NewHTTPError(http.StatusBadRequest,
			fmt.Sprintf("Expected one value for X-Razorpay-Signature, got %d", n))
	}
	err := runtime.BindStyledParameterWithOptions("simple", "X-Razorpay-Signature", valueList[0], &params.XRazorpaySignature,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationHeader, Explode: false, Required: true})
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter X-Razorpay-Signature: %s", err))
	}

	return w.Handler.HandlePaymentWebhook(ctx, params)
}

// EchoRouter is satisfied by both *echo.Echo and *echo.Group.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	PUT(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	DELETE(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each server route to the EchoRouter.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	RegisterHandlersWithBaseURL(router, si, "")
}

// RegisterHandlersWithBaseURL registers the routes under baseURL.
func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {
	w := ServerInterfaceWrapper{Handler: si}

	router.POST(baseURL+"/orders", si.CreateOrder)
	router.GET(baseURL+"/orders", w.ListOrders)
	router.GET(baseURL+"/orders/:orderId", w.withOrder(si.GetOrder))
	router.POST(baseURL+"/orders/:orderId/cancel", w.withOrder(si.CancelOrder))
	router.GET(baseURL+"/orders/:orderId/documents", w.withOrder(si.ListDocuments))
	router.POST(baseURL+"/orders/:orderId/documents", w.withOrder(si.UploadDocument))
	router.PUT(baseURL+"/orders/:orderId/documents/:documentId", w.withDocument(si.ReplaceDocument))
	router.DELETE(baseURL+"/orders/:orderId/documents/:documentId", w.withDocument(si.DeleteDocument))
	router.POST(baseURL+"/orders/:orderId/documents/:documentId/verify", w.withDocument(si.VerifyDocument))
	router.GET(baseURL+"/orders/:orderId/documents/:documentId/download", w.withDocument(si.DownloadDocument))
	router.POST(baseURL+"/orders/:orderId/pay", w.withOrder(si.PayOrder))
	router.POST(baseURL+"/orders/:orderId/assign", w.withOrder(si.AssignOrder))
	router.GET(baseURL+"/orders/:orderId/workflow/progress", w.withOrder(si.GetWorkflowProgress))
	router.GET(baseURL+"/orders/:orderId/workflow/timeline", w.withOrder(si.GetWorkflowTimeline))
	router.POST(baseURL+"/orders/:orderId/workflow/advance", w.withOrder(si.AdvanceWorkflowStage))
	router.POST(baseURL+"/orders/:orderId/workflow/complete", w.withOrder(si.CompleteWorkflowStage))
	router.GET(baseURL+"/orders/:orderId/invoice", w.withOrder(si.GetInvoice))
	router.POST(baseURL+"/payments/order", si.CreatePaymentOrder)
	router.GET(baseURL+"/payments/key", si.GetPaymentKey)
	router.POST(baseURL+"/payments/confirm", si.ConfirmPayment)
	router.POST(baseURL+"/payments/webhook", w.HandlePaymentWebhook)
	router.POST(baseURL+"/employees", si.RegisterEmployee)
	router.GET(baseURL+"/employees", si.ListEmployees)
}
