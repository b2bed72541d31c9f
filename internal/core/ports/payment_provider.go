package ports

import (
	"context"
	"errors"
)

// ErrProviderUnavailable wraps every failure to reach the payment provider. Callers treat it
// as "not confirmed" and leave records untouched.
var ErrProviderUnavailable = errors.New("payment provider unavailable")

// ProviderOrder is the provider's view of an order created for checkout.
type ProviderOrder struct {
	ID       string
	Amount   int64
	Currency string
	Receipt  string
	Status   string
}

const PaymentCaptured = "captured"

// ProviderPayment is the provider's view of a payment attempt.
type ProviderPayment struct {
	ID       string
	OrderID  string
	Amount   int64
	Currency string
	Status   string
}

func (p ProviderPayment) IsCaptured() bool {
	return p.Status == PaymentCaptured
}

// PaymentProvider is the external payment processor.
type PaymentProvider interface {
	// CreateOrder registers a checkout order for amount minor units.
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (ProviderOrder, error)

	// FetchPayment returns the provider's record of a payment.
	FetchPayment(ctx context.Context, paymentID string) (ProviderPayment, error)

	// FetchOrderPayments lists every payment attempted against a provider order.
	FetchOrderPayments(ctx context.Context, providerOrderID string) ([]ProviderPayment, error)

	// VerifyPaymentSignature checks the checkout callback signature.
	VerifyPaymentSignature(providerOrderID, paymentID, signature string) bool

	// PublicKey is the key id the checkout widget is opened with.
	PublicKey() string
}
