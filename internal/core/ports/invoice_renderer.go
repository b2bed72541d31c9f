package ports

import (
	"context"
	"time"
)

// Invoice is everything printed on an order's invoice.
type Invoice struct {
	Number        string
	Issuer        string
	OrderID       string
	ServiceName   string
	CustomerEmail string
	Amount        string
	Currency      string
	PaymentID     string
	PaidAt        time.Time
	IssuedAt      time.Time
}

// InvoiceRenderer turns an Invoice into a PDF document.
type InvoiceRenderer interface {
	Render(ctx context.Context, invoice Invoice) ([]byte, error)
}
