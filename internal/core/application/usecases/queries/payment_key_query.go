package queries

import (
	"context"

	"compliance/internal/core/ports"
)

// GetPaymentKeyQueryHandler returns the public key id the checkout widget needs. It has no
// query object: the key is not secret and the same for everyone.
type GetPaymentKeyQueryHandler struct {
	provider ports.PaymentProvider
}

func NewGetPaymentKeyQueryHandler(provider ports.PaymentProvider) GetPaymentKeyQueryHandler {
	return GetPaymentKeyQueryHandler{provider: provider}
}

func (h GetPaymentKeyQueryHandler) Handle(_ context.Context) string {
	return h.provider.PublicKey()
}
