package invoice

import (
	"bytes"
	"context"
	"testing"
	"time"

	"compliance/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testInvoice() ports.Invoice {
	paid := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	return ports.Invoice{
		Number:        "INV-20240501-1A2B3C4D",
		Issuer:        "Compliance Desk",
		OrderID:       "1a2b3c4d-0000-4000-8000-000000000000",
		ServiceName:   "GST Registration",
		CustomerEmail: "customer@example.com",
		Amount:        "499.00",
		Currency:      "INR",
		PaymentID:     "pay_123",
		PaidAt:        paid,
		IssuedAt:      paid.Add(time.Hour),
	}
}

func TestRenderer_Render_ProducesPDF(t *testing.T) {
	out, err := NewRenderer().Render(t.Context(), testInvoice())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.True(t, bytes.Contains(out, []byte("%%EOF")))
}

func TestRenderer_Render_WritesInvoiceFields(t *testing.T) {
	r := &Renderer{compress: false}
	out, err := r.Render(t.Context(), testInvoice())
	require.NoError(t, err)

	for _, want := range []string{"INV-20240501-1A2B3C4D", "GST Registration", "customer@example.com", "pay_123", "499.00 INR"} {
		assert.True(t, bytes.Contains(out, []byte(want)), "missing %q", want)
	}
}

func TestRenderer_Render_HonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := NewRenderer().Render(ctx, testInvoice())
	require.ErrorIs(t, err, context.Canceled)
}
