package http

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"

	"compliance/internal/core/application/usecases/commands"
	"compliance/internal/core/application/usecases/queries"
	"compliance/internal/core/domain/model/document"
	"compliance/internal/core/domain/model/kernel"
	"compliance/internal/core/ports"
	"compliance/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// WebhookVerifier authenticates payment provider webhook deliveries.
type WebhookVerifier interface {
	Verify(body []byte, signature string) bool
}

// Handlers groups the use cases the server exposes.
type Handlers struct {
	CreateOrder      commands.CreateOrderCommandHandler
	CancelOrder      commands.CancelOrderCommandHandler
	UploadDocument   commands.UploadDocumentCommandHandler
	ReplaceDocument  commands.ReplaceDocumentCommandHandler
	DeleteDocument   commands.DeleteDocumentCommandHandler
	VerifyDocument   commands.VerifyDocumentCommandHandler
	CreatePayment    commands.CreatePaymentOrderCommandHandler
	ConfirmPayment   commands.ConfirmPaymentCommandHandler
	PayOrder         commands.PayOrderCommandHandler
	AssignOrder      commands.AssignOrderCommandHandler
	AdvanceStage     commands.AdvanceStageCommandHandler
	CompleteStage    commands.CompleteStageCommandHandler
	RegisterEmployee commands.RegisterEmployeeCommandHandler

	GetOrder         queries.GetOrderQueryHandler
	ListOrders       queries.ListOrdersQueryHandler
	ListDocuments    queries.ListDocumentsQueryHandler
	DownloadDocument queries.DownloadDocumentQueryHandler
	GetProgress      queries.GetProgressQueryHandler
	GetTimeline      queries.GetTimelineQueryHandler
	GetInvoice       queries.GetInvoiceQueryHandler
	GetPaymentKey    queries.GetPaymentKeyQueryHandler
	ListEmployees    queries.ListEmployeesQueryHandler
}

// Server implements ServerInterface on top of the command and query handlers.
type Server struct {
	h               Handlers
	webhooks        WebhookVerifier
	defaultCurrency string
	logger          *slog.Logger
}

var _ ServerInterface = &Server{}

// NewServer creates the HTTP server. Orders created without a currency use defaultCurrency.
func NewServer(handlers Handlers, webhooks WebhookVerifier, defaultCurrency string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		h:               handlers,
		webhooks:        webhooks,
		defaultCurrency: defaultCurrency,
		logger:          logger.With("component", "http-server"),
	}
}

func toKernelID(name string, id openapi_types.UUID) (kernel.UUID, error) {
	kid, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(name, err)
	}
	return kid, nil
}

func (s *Server) actorAndOrder(ctx echo.Context, orderID openapi_types.UUID) (kernel.Actor, kernel.UUID, error) {
	actor, err := actorFrom(ctx)
	if err != nil {
		return kernel.Actor{}, kernel.UUID{}, err
	}
	id, err := toKernelID("orderId", orderID)
	if err != nil {
		return kernel.Actor{}, kernel.UUID{}, err
	}
	return actor, id, nil
}

func (s *Server) actorAndDocument(
	ctx echo.Context,
	orderID, documentID openapi_types.UUID,
) (kernel.Actor, kernel.UUID, kernel.UUID, error) {
	actor, oid, err := s.actorAndOrder(ctx, orderID)
	if err != nil {
		return kernel.Actor{}, kernel.UUID{}, kernel.UUID{}, err
	}
	did, err := toKernelID("documentId", documentID)
	if err != nil {
		return kernel.Actor{}, kernel.UUID{}, kernel.UUID{}, err
	}
	return actor, oid, did, nil
}

// CreateOrder handles POST /orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	var body NewOrder
	if err = ctx.Bind(&body); err != nil {
		return err
	}

	orderID := kernel.NewUUID()
	if body.OrderID != nil {
		if orderID, err = toKernelID("orderId", *body.OrderID); err != nil {
			return err
		}
	}
	currency := body.Currency
	if currency == "" {
		currency = s.defaultCurrency
	}

	cmd, err := commands.NewCreateOrderCommand(actor, orderID, body.ServiceName, body.CustomerEmail, body.TotalAmount, currency)
	if err != nil {
		return err
	}
	o, err := s.h.CreateOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, toOrder(o))
}

// ListOrders handles GET /orders.
func (s *Server) ListOrders(ctx echo.Context, params ListOrdersParams) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	customerEmail := ""
	if params.CustomerEmail != nil {
		customerEmail = *params.CustomerEmail
	}

	query, err := queries.NewListOrdersQuery(actor, customerEmail)
	if err != nil {
		return err
	}
	orders, err := s.h.ListOrders.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toOrders(orders))
}

// GetOrder handles GET /orders/{orderId}.
func (s *Server) GetOrder(ctx echo.Context, orderID openapi_types.UUID) error {
	actor, id, err := s.actorAndOrder(ctx, orderID)
	if err != nil {
		return err
	}
	query, err := queries.NewGetOrderQuery(actor, id)
	if err != nil {
		return err
	}
	o, err := s.h.GetOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toOrder(o))
}

// CancelOrder handles POST /orders/{orderId}/cancel. The body is optional.
func (s *Server) CancelOrder(ctx echo.Context, orderID openapi_types.UUID) error {
	actor, id, err := s.actorAndOrder(ctx, orderID)
	if err != nil {
		return err
	}
	var body CancelOrderRequest
	if ctx.Request().ContentLength != 0 {
		if err = ctx.Bind(&body); err != nil {
			return err
		}
	}

	cmd, err := commands.NewCancelOrderCommand(actor, id, body.Reason)
	if err != nil {
		return err
	}
	o, err := s.h.CancelOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toOrder(o))
}

// ListDocuments handles GET /orders/{orderId}/documents.
func (s *Server) ListDocuments(ctx echo.Context, orderID openapi_types.UUID) error {
	actor, id, err := s.actorAndOrder(ctx, orderID)
	if err != nil {
		return err
	}
	query, err := queries.NewListDocumentsQuery(actor, id)
	if err != nil {
		return err
	}
	docs, err := s.h.ListDocuments.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}

	resp := make([]Document, len(docs))
	for i, d := range docs {
		resp[i] = toDocument(d)
	}
	return ctx.JSON(http.StatusOK, resp)
}

// formFile opens the multipart "file" part of the request.
func formFile(ctx echo.Context) (document.File, io.ReadCloser, error) {
	header, err := ctx.FormFile("file")
	if err != nil {
		return document.File{}, nil, errs.NewValueIsRequiredErrorWithCause("file", err)
	}
	content, err := header.Open()
	if err != nil {
		return document.File{}, nil, errs.NewValueIsInvalidErrorWithCause("file", err)
	}
	file := document.File{
		Name:        header.Filename,
		SizeBytes:   header.Size,
		ContentType: header.Header.Get(echo.HeaderContentType),
	}
	return file, content, nil
}

// UploadDocument handles POST /orders/{orderId}/documents.
func (s *Server) UploadDocument(ctx echo.Context, orderID openapi_types.UUID) error {
	actor, id, err := s.actorAndOrder(ctx, orderID)
	if err != nil {
		return err
	}
	file, content, err := formFile(ctx)
	if err != nil {
		return err
	}
	defer content.Close()

	cmd, err := commands.NewUploadDocumentCommand(actor, id, file, content)
	if err != nil {
		return err
	}
	doc, err := s.h.UploadDocument.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, toDocument(doc))
}

// ReplaceDocument handles PUT /orders/{orderId}/documents/{documentId}.
func (s *Server) ReplaceDocument(ctx echo.Context, orderID, documentID openapi_types.UUID) error {
	actor, oid, did, err := s.actorAndDocument(ctx, orderID, documentID)
	if err != nil {
		return err
	}
	file, content, err := formFile(ctx)
	if err != nil {
		return err
	}
	defer content.Close()

	cmd, err := commands.NewReplaceDocumentCommand(actor, oid, did, file, content)
	if err != nil {
		return err
	}
	doc, err := s.h.ReplaceDocument.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toDocument(doc))
}

// DeleteDocument handles DELETE /orders/{orderId}/documents/{documentId}.
func (s *Server) DeleteDocument(ctx echo.Context, orderID, documentID openapi_types.UUID) error {
	actor, oid, did, err := s.actorAndDocument(ctx, orderID, documentID)
	if err != nil {
		return err
	}
	cmd, err := commands.NewDeleteDocumentCommand(actor, oid, did)
	if err != nil {
		return err
	}
	if err = s.h.DeleteDocument.Handle(ctx.Request().Context(), cmd); err != nil {
		return err
	}
	return ctx.NoContent(http.StatusNoContent)
}

// VerifyDocument handles POST /orders/{orderId}/documents/{documentId}/verify.
func (s *Server) VerifyDocument(ctx echo.Context, orderID, documentID openapi_types.UUID) error {
	actor, oid, did, err := s.actorAndDocument(ctx, orderID, documentID)
	if err != nil {
		return err
	}
	cmd, err := commands.NewVerifyDocumentCommand(actor, oid, did)
	if err != nil {
		return err
	}
	doc, err := s.h.VerifyDocument.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toDocument(doc))
}

func attachment(ctx echo.Context, fileName string) {
	ctx.Response().Header().Set(echo.HeaderContentDisposition,
		mime.FormatMediaType("attachment", map[string]string{"filename": fileName}))
}

// DownloadDocument handles GET /orders/{orderId}/documents/{documentId}/download.
func (s *Server) DownloadDocument(ctx echo.Context, orderID, documentID openapi_types.UUID) error {
	actor, oid, did, err := s.actorAndDocument(ctx, orderID, documentID)
	if err != nil {
		return err
	}
	query, err := queries.NewDownloadDocumentQuery(actor, oid, did)
	if err != nil {
		return err
	}
	resp, err := s.h.DownloadDocument.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}
	defer resp.Content.Close()

	attachment(ctx, resp.Document.FileName())
	ctx.Response().Header().Set(echo.HeaderContentLength, strconv.FormatInt(resp.Document.SizeBytes(), 10))
	return ctx.Stream(http.StatusOK, resp.Document.ContentType(), resp.Content)
}

// PayOrder handles POST /orders/{orderId}/pay.
func (s *Server) PayOrder(ctx echo.Context, orderID openapi_types.UUID) error {
	actor, id, err := s.actorAndOrder(ctx, orderID)
	if err != nil {
		return err
	}
	var body PayOrderRequest
	if err = ctx.Bind(&body); err != nil {
		return err
	}

	cmd, err := commands.NewPayOrderCommand(actor, id, body.PaymentID, body.ProviderOrderID)
	if err != nil {
		return err
	}
	o, err := s.h.PayOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toOrder(o))
}

// AssignOrder handles POST /orders/{orderId}/assign.
func (s *Server) AssignOrder(ctx echo.Context, orderID openapi_types.UUID) error {
	actor, id, err := s.actorAndOrder(ctx, orderID)
	if err != nil {
		return err
	}
	var body AssignOrderRequest
	if err = ctx.Bind(&body); err != nil {
		return err
	}

	cmd, err := commands.NewAssignOrderCommand(actor, id, body.AssigneeEmail)
	if err != nil {
		return err
	}
	o, err := s.h.AssignOrder.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toOrder(o))
}

// GetWorkflowProgress handles GET /orders/{orderId}/workflow/progress.
func (s *Server) GetWorkflowProgress(ctx echo.Context, orderID openapi_types.UUID) error {
	actor, id, err := s.actorAndOrder(ctx, orderID)
	if err != nil {
		return err
	}
	query, err := queries.NewGetProgressQuery(actor, id)
	if err != nil {
		return err
	}
	progress, err := s.h.GetProgress.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toProgress(progress))
}

// GetWorkflowTimeline handles GET /orders/{orderId}/workflow/timeline.
func (s *Server) GetWorkflowTimeline(ctx echo.Context, orderID openapi_types.UUID) error {
	actor, id, err := s.actorAndOrder(ctx, orderID)
	if err != nil {
		return err
	}
	query, err := queries.NewGetTimelineQuery(actor, id)
	if err != nil {
		return err
	}
	events, err := s.h.GetTimeline.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toTimeline(events))
}

// AdvanceWorkflowStage handles POST /orders/{orderId}/workflow/advance.
func (s *Server) AdvanceWorkflowStage(ctx echo.Context, orderID openapi_types.UUID) error {
	actor, id, err := s.actorAndOrder(ctx, orderID)
	if err != nil {
		return err
	}
	var body StageRequest
	if err = ctx.Bind(&body); err != nil {
		return err
	}

	cmd, err := commands.NewAdvanceStageCommand(actor, id, body.StageCode, body.Description)
	if err != nil {
		return err
	}
	progress, err := s.h.AdvanceStage.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toProgress(progress))
}

// CompleteWorkflowStage handles POST /orders/{orderId}/workflow/complete.
func (s *Server) CompleteWorkflowStage(ctx echo.Context, orderID openapi_types.UUID) error {
	actor, id, err := s.actorAndOrder(ctx, orderID)
	if err != nil {
		return err
	}
	var body StageRequest
	if err = ctx.Bind(&body); err != nil {
		return err
	}

	cmd, err := commands.NewCompleteStageCommand(actor, id, body.StageCode, body.Description, body.AutoAdvance)
	if err != nil {
		return err
	}
	progress, err := s.h.CompleteStage.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toProgress(progress))
}

// GetInvoice handles GET /orders/{orderId}/invoice.
func (s *Server) GetInvoice(ctx echo.Context, orderID openapi_types.UUID) error {
	actor, id, err := s.actorAndOrder(ctx, orderID)
	if err != nil {
		return err
	}
	query, err := queries.NewGetInvoiceQuery(actor, id)
	if err != nil {
		return err
	}
	invoice, err := s.h.GetInvoice.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}

	attachment(ctx, invoice.FileName)
	return ctx.Blob(http.StatusOK, "application/pdf", invoice.PDF)
}

// CreatePaymentOrder handles POST /payments/order.
func (s *Server) CreatePaymentOrder(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	var body NewPaymentOrder
	if err = ctx.Bind(&body); err != nil {
		return err
	}
	orderID, err := toKernelID("orderId", body.OrderID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewCreatePaymentOrderCommand(actor, orderID, body.Amount, body.Currency, body.Description)
	if err != nil {
		return err
	}
	record, err := s.h.CreatePayment.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusCreated, PaymentOrder{
		ProviderOrderID: record.ProviderOrderID(),
		OrderID:         record.OrderID().Bytes(),
		Amount:          record.Amount(),
		Currency:        record.Currency(),
		Description:     record.Description(),
		Status:          record.Status().String(),
		KeyID:           s.h.GetPaymentKey.Handle(ctx.Request().Context()),
	})
}

// GetPaymentKey handles GET /payments/key.
func (s *Server) GetPaymentKey(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, PaymentKey{KeyID: s.h.GetPaymentKey.Handle(ctx.Request().Context())})
}

// ConfirmPayment handles POST /payments/confirm.
func (s *Server) ConfirmPayment(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	var body ConfirmPaymentRequest
	if err = ctx.Bind(&body); err != nil {
		return err
	}

	var orderID *kernel.UUID
	if body.OrderID != nil {
		id, err := toKernelID("orderId", *body.OrderID)
		if err != nil {
			return err
		}
		orderID = &id
	}

	cmd, err := commands.NewConfirmPaymentCommand(actor, body.ProviderOrderID, body.PaymentID, body.Signature, orderID)
	if err != nil {
		return err
	}
	record, err := s.h.ConfirmPayment.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, toPaymentRecord(record))
}

var confirmingWebhookEvents = map[string]bool{
	"payment.captured": true,
	"order.paid":       true,
}

// HandlePaymentWebhook handles POST /payments/webhook. Deliveries that name a payment this
// service cannot confirm are acknowledged as ignored so the provider stops retrying them;
// provider outages return 502 so it retries.
func (s *Server) HandlePaymentWebhook(ctx echo.Context, params HandlePaymentWebhookParams) error {
	body, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return errs.NewValueIsInvalidErrorWithCause("body", err)
	}
	if !s.webhooks.Verify(body, params.XRazorpaySignature) {
		return errs.NewForbiddenError("payment webhook", "deliver events without a valid signature")
	}

	var event WebhookEvent
	if err = json.Unmarshal(body, &event); err != nil {
		return errs.NewValueIsInvalidErrorWithCause("body", err)
	}
	if !confirmingWebhookEvents[event.Event] {
		return ctx.JSON(http.StatusOK, WebhookResult{Status: "ignored", Reason: "event " + event.Event + " is not handled"})
	}

	entity := event.Payload.Payment.Entity
	cmd, err := commands.NewConfirmPaymentCommand(kernel.SystemActor(), entity.OrderID, entity.ID, "", nil)
	if err != nil {
		return ctx.JSON(http.StatusOK, WebhookResult{Status: "ignored", Reason: err.Error()})
	}

	if _, err = s.h.ConfirmPayment.Handle(ctx.Request().Context(), cmd); err != nil {
		if errors.Is(err, ports.ErrProviderUnavailable) || errs.KindOf(err) == errs.KindInternal {
			return err
		}
		s.logger.WarnContext(ctx.Request().Context(), "webhook delivery ignored",
			"event", event.Event,
			"providerOrderId", entity.OrderID,
			"paymentId", entity.ID,
			"error", err,
		)
		return ctx.JSON(http.StatusOK, WebhookResult{Status: "ignored", Reason: string(errs.KindOf(err))})
	}

	return ctx.JSON(http.StatusOK, WebhookResult{Status: "confirmed"})
}

// RegisterEmployee handles POST /employees.
func (s *Server) RegisterEmployee(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	var body NewEmployee
	if err = ctx.Bind(&body); err != nil {
		return err
	}

	cmd, err := commands.NewRegisterEmployeeCommand(actor, body.Email, body.Name)
	if err != nil {
		return err
	}
	e, err := s.h.RegisterEmployee.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusCreated, toEmployee(e))
}

// ListEmployees handles GET /employees.
func (s *Server) ListEmployees(ctx echo.Context) error {
	actor, err := actorFrom(ctx)
	if err != nil {
		return err
	}
	query, err := queries.NewListEmployeesQuery(actor)
	if err != nil {
		return err
	}
	employees, err := s.h.ListEmployees.Handle(ctx.Request().Context(), query)
	if err != nil {
		return err
	}

	resp := make([]Employee, len(employees))
	for i, e := range employees {
		resp[i] = toEmployee(e)
	}
	return ctx.JSON(http.StatusOK, resp)
}
