package payment_test

import (
	"testing"
	"time"

	"compliance/internal/core/domain/model/kernel"
	"compliance/internal/core/domain/model/payment"
	"compliance/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

func newTestRecord(t *testing.T) *payment.Record {
	t.Helper()
	r, err := payment.NewRecord("order_abc", kernel.NewUUID(), 49900, "inr", "GST Registration", testNow)
	require.NoError(t, err)
	return r
}

func TestNewRecord(t *testing.T) {
	r := newTestRecord(t)

	require.NoError(t, r.Validate())
	assert.Equal(t, payment.StatusCreated, r.Status())
	assert.Equal(t, "INR", r.Currency())
	assert.Equal(t, int64(49900), r.Amount())
	assert.Empty(t, r.PaymentID())

	_, err := payment.NewRecord("", kernel.NewUUID(), 1, "INR", "", testNow)
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = payment.NewRecord("order_x", kernel.NewUUID(), 0, "INR", "", testNow)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}

func TestRecord_Confirm(t *testing.T) {
	t.Run("confirms exactly once", func(t *testing.T) {
		r := newTestRecord(t)

		changed, err := r.Confirm("pay_1", testNow)
		require.NoError(t, err)
		assert.True(t, changed)
		assert.True(t, r.IsConfirmed())
		assert.Equal(t, "pay_1", r.PaymentID())
		require.NotNil(t, r.ConfirmedAt())

		changed, err = r.Confirm("pay_1", testNow.Add(time.Minute))
		require.NoError(t, err)
		assert.False(t, changed)
		assert.Equal(t, testNow, *r.ConfirmedAt())
	})

	t.Run("different payment id is a mismatch", func(t *testing.T) {
		r := newTestRecord(t)
		_, err := r.Confirm("pay_1", testNow)
		require.NoError(t, err)

		changed, err := r.Confirm("pay_2", testNow)

		assert.False(t, changed)
		assert.ErrorIs(t, err, errs.ErrPaymentMismatch)
		assert.Equal(t, "pay_1", r.PaymentID())
	})

	t.Run("failed records cannot be confirmed", func(t *testing.T) {
		r := newTestRecord(t)
		require.NoError(t, r.Fail("expired"))

		_, err := r.Confirm("pay_1", testNow)

		assert.ErrorIs(t, err, errs.ErrInvalidState)
		assert.Equal(t, payment.StatusFailed, r.Status())
		assert.Equal(t, "expired", r.FailureReason())
	})

	t.Run("payment id is required", func(t *testing.T) {
		_, err := newTestRecord(t).Confirm(" ", testNow)

		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestRecord_Fail(t *testing.T) {
	r := newTestRecord(t)
	_, err := r.Confirm("pay_1", testNow)
	require.NoError(t, err)

	assert.ErrorIs(t, r.Fail("expired"), errs.ErrInvalidState)
	assert.True(t, r.IsConfirmed())
}

func TestParseStatus(t *testing.T) {
	for _, s := range []payment.Status{payment.StatusCreated, payment.StatusConfirmed, payment.StatusFailed} {
		parsed, err := payment.ParseStatus(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}
	_, err := payment.ParseStatus("PAID")
	assert.Error(t, err)
}
