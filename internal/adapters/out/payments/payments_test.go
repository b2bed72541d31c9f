package payments_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"compliance/internal/adapters/out/payments"
	"compliance/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSandbox_CaptureProducesVerifiablePayment(t *testing.T) {
	ctx := t.Context()
	sandbox, err := payments.NewSandbox("rzp_test_key", "secret")
	require.NoError(t, err)

	po, err := sandbox.CreateOrder(ctx, 49900, "inr", "receipt-1")
	require.NoError(t, err)
	assert.Equal(t, int64(49900), po.Amount)
	assert.Equal(t, "INR", po.Currency)

	paymentID, signature, err := sandbox.Capture(po.ID)
	require.NoError(t, err)
	assert.True(t, sandbox.VerifyPaymentSignature(po.ID, paymentID, signature))
	assert.False(t, sandbox.VerifyPaymentSignature(po.ID, paymentID, "deadbeef"))

	p, err := sandbox.FetchPayment(ctx, paymentID)
	require.NoError(t, err)
	assert.True(t, p.IsCaptured())
	assert.Equal(t, po.ID, p.OrderID)

	list, err := sandbox.FetchOrderPayments(ctx, po.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
	assert.Equal(t, "rzp_test_key", sandbox.PublicKey())
}

func TestSandbox_UnknownPaymentIsUnavailable(t *testing.T) {
	sandbox, err := payments.NewSandbox("", "secret")
	require.NoError(t, err)

	_, err = sandbox.FetchPayment(t.Context(), "pay_missing")
	require.ErrorIs(t, err, ports.ErrProviderUnavailable)
}

func TestWebhookVerifier(t *testing.T) {
	body := []byte(`{"event":"payment.captured"}`)
	v := payments.NewWebhookVerifier("whsec")

	assert.True(t, v.Verify(body, payments.Sign("whsec", body)))
	assert.False(t, v.Verify(body, payments.Sign("other", body)))
	assert.False(t, v.Verify(body, "not-hex"))
	assert.False(t, payments.NewWebhookVerifier("").Verify(body, payments.Sign("", body)))
}

func TestClient_RetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "key", user)
		assert.Equal(t, "secret", pass)

		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id": "pay_1", "order_id": "order_1", "amount": 49900, "currency": "INR", "status": "captured",
		})
	}))
	defer srv.Close()

	client, err := payments.NewClient(payments.ClientConfig{BaseURL: srv.URL, KeyID: "key", KeySecret: "secret"}, nil)
	require.NoError(t, err)

	p, err := client.FetchPayment(t.Context(), "pay_1")
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, "order_1", p.OrderID)
	assert.True(t, p.IsCaptured())
}

func TestClient_ClientErrorsAreNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		http.Error(w, `{"error":"bad request"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	client, err := payments.NewClient(payments.ClientConfig{BaseURL: srv.URL, KeyID: "key", KeySecret: "secret"}, nil)
	require.NoError(t, err)

	_, err = client.CreateOrder(t.Context(), 100, "INR", "r")
	require.ErrorIs(t, err, ports.ErrProviderUnavailable)
	assert.Equal(t, int32(1), calls.Load())
}

func TestClient_TimeoutFailsClosed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	client, err := payments.NewClient(payments.ClientConfig{
		BaseURL: srv.URL, KeyID: "key", KeySecret: "secret", Timeout: 20 * time.Millisecond,
	}, nil)
	require.NoError(t, err)

	_, err = client.FetchOrderPayments(t.Context(), "order_1")
	require.ErrorIs(t, err, ports.ErrProviderUnavailable)
}

func TestClient_CheckoutSignature(t *testing.T) {
	client, err := payments.NewClient(payments.ClientConfig{KeyID: "key", KeySecret: "secret"}, nil)
	require.NoError(t, err)

	sig := payments.CheckoutSignature("secret", "order_1", "pay_1")
	assert.True(t, client.VerifyPaymentSignature("order_1", "pay_1", sig))
	assert.False(t, client.VerifyPaymentSignature("order_2", "pay_1", sig))
}
