package http

import (
	"time"

	"compliance/internal/core/domain/model/document"
	"compliance/internal/core/domain/model/employee"
	"compliance/internal/core/domain/model/kernel"
	"compliance/internal/core/domain/model/order"
	"compliance/internal/core/domain/model/payment"
	"compliance/internal/core/domain/model/workflow"

	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"
)

// Error is the envelope of every failed request.
type Error struct {
	Code    int    `json:"code"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type NewOrder struct {
	OrderID       *openapi_types.UUID `json:"orderId,omitempty"`
	ServiceName   string              `json:"serviceName"`
	CustomerEmail string              `json:"customerEmail"`
	TotalAmount   decimal.Decimal     `json:"totalAmount"`
	Currency      string              `json:"currency,omitempty"`
}

type Order struct {
	ID            openapi_types.UUID `json:"id"`
	ServiceName   string             `json:"serviceName"`
	CustomerEmail string             `json:"customerEmail"`
	TotalAmount   string             `json:"totalAmount"`
	Currency      string             `json:"currency"`
	Status        string             `json:"status"`
	AssigneeEmail *string            `json:"assigneeEmail,omitempty"`
	CreatedAt     time.Time          `json:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt"`
	CancelledAt   *time.Time         `json:"cancelledAt,omitempty"`
	CancelReason  string             `json:"cancelReason,omitempty"`
	Version       int                `json:"version"`
}

type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

type AssignOrderRequest struct {
	AssigneeEmail string `json:"assigneeEmail"`
}

type Document struct {
	ID          openapi_types.UUID `json:"id"`
	OrderID     openapi_types.UUID `json:"orderId"`
	FileName    string             `json:"fileName"`
	SizeBytes   int64              `json:"sizeBytes"`
	ContentType string             `json:"contentType"`
	Verified    bool               `json:"verified"`
	VerifiedBy  string             `json:"verifiedBy,omitempty"`
	VerifiedAt  *time.Time         `json:"verifiedAt,omitempty"`
	UploadedBy  string             `json:"uploadedBy"`
	UploadedAt  time.Time          `json:"uploadedAt"`
}

type NewPaymentOrder struct {
	OrderID     openapi_types.UUID `json:"orderId"`
	Amount      int64              `json:"amount"`
	Currency    string             `json:"currency,omitempty"`
	Description string             `json:"description,omitempty"`
}

type PaymentOrder struct {
	ProviderOrderID string             `json:"providerOrderId"`
	OrderID         openapi_types.UUID `json:"orderId"`
	Amount          int64              `json:"amount"`
	Currency        string             `json:"currency"`
	Description     string             `json:"description,omitempty"`
	Status          string             `json:"status"`
	KeyID           string             `json:"keyId"`
}

type PaymentKey struct {
	KeyID string `json:"keyId"`
}

type ConfirmPaymentRequest struct {
	ProviderOrderID string              `json:"providerOrderId"`
	PaymentID       string              `json:"paymentId"`
	Signature       string              `json:"signature,omitempty"`
	OrderID         *openapi_types.UUID `json:"orderId,omitempty"`
}

type PayOrderRequest struct {
	PaymentID       string `json:"paymentId"`
	ProviderOrderID string `json:"providerOrderId,omitempty"`
}

type PaymentRecord struct {
	ProviderOrderID string             `json:"providerOrderId"`
	OrderID         openapi_types.UUID `json:"orderId"`
	PaymentID       string             `json:"paymentId,omitempty"`
	Amount          int64              `json:"amount"`
	Currency        string             `json:"currency"`
	Description     string             `json:"description,omitempty"`
	Status          string             `json:"status"`
	CreatedAt       time.Time          `json:"createdAt"`
	ConfirmedAt     *time.Time         `json:"confirmedAt,omitempty"`
	FailureReason   string             `json:"failureReason,omitempty"`
}

// WebhookEvent is the part of a provider webhook delivery the service reads.
type WebhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity WebhookPayment `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

type WebhookPayment struct {
	ID       string `json:"id"`
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
}

type WebhookResult struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

type StageRequest struct {
	StageCode   string `json:"stageCode"`
	Description string `json:"description"`
	AutoAdvance bool   `json:"autoAdvance"`
}

type StageState struct {
	Code        string     `json:"code"`
	Label       string     `json:"label"`
	Sequence    int        `json:"sequence"`
	Status      string     `json:"status"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

type Progress struct {
	CurrentStage         string       `json:"currentStage"`
	CurrentStageLabel    string       `json:"currentStageLabel"`
	CompletionPercentage int          `json:"completionPercentage"`
	Stages               []StageState `json:"stages"`
}

type TimelineEvent struct {
	ID          openapi_types.UUID `json:"id"`
	Sequence    int64              `json:"sequence"`
	Kind        string             `json:"kind"`
	Stage       string             `json:"stage,omitempty"`
	Status      string             `json:"status,omitempty"`
	Description string             `json:"description,omitempty"`
	Details     string             `json:"details,omitempty"`
	ActorEmail  string             `json:"actorEmail"`
	CreatedAt   time.Time          `json:"createdAt"`
}

type NewEmployee struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type Employee struct {
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

func toOrder(o *order.Order) Order {
	total := o.TotalAmount()
	resp := Order{
		ID:            o.ID().Bytes(),
		ServiceName:   o.ServiceName(),
		CustomerEmail: o.CustomerEmail().String(),
		TotalAmount:   total.Amount().StringFixed(kernel.CurrencyExponent(total.Currency())),
		Currency:      total.Currency(),
		Status:        o.Status().String(),
		CreatedAt:     o.CreatedAt(),
		UpdatedAt:     o.UpdatedAt(),
		CancelledAt:   o.CancelledAt(),
		CancelReason:  o.CancelReason(),
		Version:       o.Version(),
	}
	if assignee := o.Assignee(); assignee != nil {
		email := assignee.String()
		resp.AssigneeEmail = &email
	}
	return resp
}

func toOrders(orders []*order.Order) []Order {
	resp := make([]Order, len(orders))
	for i, o := range orders {
		resp[i] = toOrder(o)
	}
	return resp
}

func toDocument(d *document.Document) Document {
	return Document{
		ID:          d.ID().Bytes(),
		OrderID:     d.OrderID().Bytes(),
		FileName:    d.FileName(),
		SizeBytes:   d.SizeBytes(),
		ContentType: d.ContentType(),
		Verified:    d.IsVerified(),
		VerifiedBy:  d.VerifiedBy(),
		VerifiedAt:  d.VerifiedAt(),
		UploadedBy:  d.UploadedBy(),
		UploadedAt:  d.UploadedAt(),
	}
}

func toPaymentRecord(r *payment.Record) PaymentRecord {
	return PaymentRecord{
		ProviderOrderID: r.ProviderOrderID(),
		OrderID:         r.OrderID().Bytes(),
		PaymentID:       r.PaymentID(),
		Amount:          r.Amount(),
		Currency:        r.Currency(),
		Description:     r.Description(),
		Status:          r.Status().String(),
		CreatedAt:       r.CreatedAt(),
		ConfirmedAt:     r.ConfirmedAt(),
		FailureReason:   r.FailureReason(),
	}
}

func toProgress(p workflow.Progress) Progress {
	stages := make([]StageState, len(p.Stages))
	for i, s := range p.Stages {
		stages[i] = StageState{
			Code:        s.Stage.String(),
			Label:       s.Stage.Label(),
			Sequence:    s.Stage.Sequence(),
			Status:      s.Status.String(),
			StartedAt:   s.StartedAt,
			CompletedAt: s.CompletedAt,
		}
	}
	return Progress{
		CurrentStage:         p.CurrentStage.String(),
		CurrentStageLabel:    p.CurrentStage.Label(),
		CompletionPercentage: p.CompletionPercentage,
		Stages:               stages,
	}
}

func toTimeline(events []*workflow.Event) []TimelineEvent {
	resp := make([]TimelineEvent, len(events))
	for i, e := range events {
		item := TimelineEvent{
			ID:          e.ID().Bytes(),
			Sequence:    e.Sequence(),
			Kind:        string(e.Kind()),
			Status:      e.Status(),
			Description: e.Description(),
			Details:     e.Details(),
			ActorEmail:  e.ActorEmail(),
			CreatedAt:   e.CreatedAt(),
		}
		if e.Stage() != workflow.StageUnknown {
			item.Stage = e.Stage().String()
		}
		resp[i] = item
	}
	return resp
}

func toEmployee(e *employee.Employee) Employee {
	return Employee{
		Email:     e.Email().String(),
		Name:      e.Name(),
		Active:    e.IsActive(),
		CreatedAt: e.CreatedAt(),
	}
}
