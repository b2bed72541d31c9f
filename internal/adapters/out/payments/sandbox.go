package payments

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"compliance/internal/core/ports"

	nanoid "github.com/jaevor/go-nanoid"
)

var _ ports.PaymentProvider = &Sandbox{}

// Sandbox is an in-process payment provider. Checkouts are simulated with Capture, which
// returns the payment id and the checkout signature a real widget would hand to the browser.
type Sandbox struct {
	keyID     string
	keySecret string
	newID     func() string

	mu       sync.Mutex
	orders   map[string]ports.ProviderOrder
	payments map[string]ports.ProviderPayment
}

func NewSandbox(keyID, keySecret string) (*Sandbox, error) {
	idGenerator, err := nanoid.Standard(14)
	if err != nil {
		return nil, fmt.Errorf("create sandbox id generator: %w", err)
	}
	if keyID == "" {
		keyID = "rzp_test_sandbox"
	}
	return &Sandbox{
		keyID:     keyID,
		keySecret: keySecret,
		newID:     idGenerator,
		orders:    map[string]ports.ProviderOrder{},
		payments:  map[string]ports.ProviderPayment{},
	}, nil
}

func (s *Sandbox) CreateOrder(_ context.Context, amount int64, currency, receipt string) (ports.ProviderOrder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o := ports.ProviderOrder{
		ID:       "order_" + s.newID(),
		Amount:   amount,
		Currency: strings.ToUpper(currency),
		Receipt:  receipt,
		Status:   "created",
	}
	s.orders[o.ID] = o
	return o, nil
}

// Capture simulates a successful checkout of the provider order and returns the payment id
// with its checkout signature.
func (s *Sandbox) Capture(providerOrderID string) (paymentID, signature string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[providerOrderID]
	if !ok {
		return "", "", fmt.Errorf("sandbox: unknown order %s", providerOrderID)
	}
	p := ports.ProviderPayment{
		ID:       "pay_" + s.newID(),
		OrderID:  o.ID,
		Amount:   o.Amount,
		Currency: o.Currency,
		Status:   ports.PaymentCaptured,
	}
	s.payments[p.ID] = p
	o.Status = "paid"
	s.orders[o.ID] = o

	return p.ID, CheckoutSignature(s.keySecret, o.ID, p.ID), nil
}

func (s *Sandbox) FetchPayment(_ context.Context, paymentID string) (ports.ProviderPayment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.payments[paymentID]
	if !ok {
		return ports.ProviderPayment{}, fmt.Errorf("%w: sandbox: unknown payment %s", ports.ErrProviderUnavailable, paymentID)
	}
	return p, nil
}

func (s *Sandbox) FetchOrderPayments(_ context.Context, providerOrderID string) ([]ports.ProviderPayment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.orders[providerOrderID]; !ok {
		return nil, fmt.Errorf("%w: sandbox: unknown order %s", ports.ErrProviderUnavailable, providerOrderID)
	}
	out := make([]ports.ProviderPayment, 0)
	for _, p := range s.payments {
		if p.OrderID == providerOrderID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (s *Sandbox) VerifyPaymentSignature(providerOrderID, paymentID, signature string) bool {
	return verify(s.keySecret, []byte(providerOrderID+"|"+paymentID), signature)
}

func (s *Sandbox) PublicKey() string {
	return s.keyID
}
