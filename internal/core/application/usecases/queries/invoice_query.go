package queries

import (
	"context"
	"fmt"
	"strings"
	"time"

	"compliance/internal/core/domain/model/kernel"
	"compliance/internal/core/domain/model/order"
	"compliance/internal/core/ports"
	"compliance/internal/pkg/errs"
)

// GetInvoiceQuery renders the invoice of a paid order.
type GetInvoiceQuery struct {
	orderRef
}

func NewGetInvoiceQuery(actor kernel.Actor, orderID kernel.UUID) (GetInvoiceQuery, error) {
	ref, err := newOrderRef(actor, orderID)
	if err != nil {
		return GetInvoiceQuery{}, err
	}
	return GetInvoiceQuery{orderRef: ref}, nil
}

// InvoiceResponse is a rendered invoice.
type InvoiceResponse struct {
	FileName string
	PDF      []byte
}

type GetInvoiceQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
	renderer   ports.InvoiceRenderer
	issuer     string
}

func NewGetInvoiceQueryHandler(
	uowFactory ports.UnitOfWorkFactory,
	renderer ports.InvoiceRenderer,
	issuer string,
) GetInvoiceQueryHandler {
	return GetInvoiceQueryHandler{uowFactory: uowFactory, renderer: renderer, issuer: issuer}
}

// Handle renders the invoice. Invoices exist from PAYMENT_COMPLETED on; cancelled orders and
// unpaid ones get an InvalidStateError.
func (h GetInvoiceQueryHandler) Handle(ctx context.Context, query GetInvoiceQuery) (InvoiceResponse, error) {
	uow := h.uowFactory.Create()
	o, err := readOrder(ctx, uow, query.orderRef)
	if err != nil {
		return InvoiceResponse{}, err
	}
	if o.Status() == order.Cancelled || !o.Status().IsAtLeast(order.PaymentCompleted) {
		return InvoiceResponse{}, errs.NewInvalidStateError(
			"order "+o.ID().String(),
			"no invoice is available in "+o.Status().String(),
		)
	}

	record, err := uow.PaymentRepository().FindConfirmed(ctx, o.ID())
	if err != nil {
		return InvoiceResponse{}, err
	}
	if record == nil {
		return InvoiceResponse{}, errs.NewInvalidStateError("order "+o.ID().String(), "no confirmed payment")
	}

	paidAt := record.CreatedAt()
	if record.ConfirmedAt() != nil {
		paidAt = *record.ConfirmedAt()
	}
	number := invoiceNumber(o.ID(), paidAt)
	total := o.TotalAmount()

	pdf, err := h.renderer.Render(ctx, ports.Invoice{
		Number:        number,
		Issuer:        h.issuer,
		OrderID:       o.ID().String(),
		ServiceName:   o.ServiceName(),
		CustomerEmail: o.CustomerEmail().String(),
		Amount:        total.Amount().StringFixed(kernel.CurrencyExponent(total.Currency())),
		Currency:      total.Currency(),
		PaymentID:     record.PaymentID(),
		PaidAt:        paidAt,
		IssuedAt:      time.Now().UTC(),
	})
	if err != nil {
		return InvoiceResponse{}, fmt.Errorf("render invoice %s: %w", number, err)
	}

	return InvoiceResponse{FileName: "invoice-" + number + ".pdf", PDF: pdf}, nil
}

// invoiceNumber is stable per order: INV-<yyyymmdd of payment>-<first 8 hex of the order id>.
func invoiceNumber(orderID kernel.UUID, paidAt time.Time) string {
	short := strings.ToUpper(strings.ReplaceAll(orderID.String(), "-", "")[:8])
	return "INV-" + paidAt.UTC().Format("20060102") + "-" + short
}
