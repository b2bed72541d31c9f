package order_test

import (
	"testing"

	"compliance/internal/core/domain/model/order"
	"compliance/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_StringAndParse(t *testing.T) {
	statuses := []order.Status{
		order.Created,
		order.DocumentsPending,
		order.DocumentsVerified,
		order.PaymentCompleted,
		order.Assigned,
		order.InProgress,
		order.Completed,
		order.Cancelled,
	}

	for _, status := range statuses {
		t.Run(status.String(), func(t *testing.T) {
			parsed, err := order.ParseStatus(status.String())

			require.NoError(t, err)
			assert.Equal(t, status, parsed)
			require.NoError(t, status.Validate())
		})
	}

	_, err := order.ParseStatus("UNKNOWN")
	assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	assert.Error(t, order.Unknown.Validate())
	assert.Error(t, order.Status(42).Validate())
}

func TestStatus_Chain(t *testing.T) {
	assert.Equal(t, order.DocumentsPending, order.Created.Next())
	assert.Equal(t, order.Completed, order.InProgress.Next())
	assert.Equal(t, order.Unknown, order.Completed.Next())
	assert.Equal(t, order.Unknown, order.Cancelled.Next())

	assert.True(t, order.Completed.IsTerminal())
	assert.True(t, order.Cancelled.IsTerminal())
	assert.False(t, order.InProgress.IsTerminal())

	assert.True(t, order.Assigned.IsAtLeast(order.PaymentCompleted))
	assert.False(t, order.DocumentsVerified.IsAtLeast(order.PaymentCompleted))
	assert.False(t, order.Cancelled.IsAtLeast(order.PaymentCompleted))
}

func TestDeriveStatus(t *testing.T) {
	testCases := []struct {
		name      string
		facts     order.Facts
		assigned  bool
		cancelled bool
		expected  order.Status
	}{
		{"no facts", order.Facts{}, false, false, order.Created},
		{"documents uploaded", order.Facts{DocumentsUploaded: true}, false, false, order.DocumentsPending},
		{
			"documents verified",
			order.Facts{DocumentsUploaded: true, DocumentsVerified: true},
			false, false, order.DocumentsVerified,
		},
		{"payment confirmed", order.Facts{PaymentConfirmed: true}, false, false, order.PaymentCompleted},
		{"assigned after payment", order.Facts{PaymentConfirmed: true}, true, false, order.Assigned},
		{"assignee without payment is ignored", order.Facts{DocumentsUploaded: true}, true, false, order.DocumentsPending},
		{
			"stage completed",
			order.Facts{PaymentConfirmed: true, AnyStageCompleted: true},
			true, false, order.InProgress,
		},
		{
			"stage completed without assignee",
			order.Facts{PaymentConfirmed: true, AnyStageCompleted: true},
			false, false, order.PaymentCompleted,
		},
		{
			"all stages completed",
			order.Facts{PaymentConfirmed: true, AnyStageCompleted: true, AllStagesCompleted: true},
			true, false, order.Completed,
		},
		{"cancellation wins", order.Facts{PaymentConfirmed: true}, true, true, order.Cancelled},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, order.DeriveStatus(tc.facts, tc.assigned, tc.cancelled))
		})
	}
}
