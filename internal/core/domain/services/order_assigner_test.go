package services_test

import (
	"testing"
	"time"

	"compliance/internal/core/domain/model/employee"
	"compliance/internal/core/domain/model/kernel"
	"compliance/internal/core/domain/model/order"
	"compliance/internal/core/domain/services"
	"compliance/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEmployee(t *testing.T, email string) *employee.Employee {
	t.Helper()
	e, _ := kernel.NewEmail(email)
	emp, err := employee.NewEmployee(e, "Staff", time.Now())
	require.NoError(t, err)
	return emp
}

func paidOrder(t *testing.T) *order.Order {
	t.Helper()
	o := testOrder(t)
	o.Recompute(order.Facts{PaymentConfirmed: true}, time.Now())
	return o
}

func TestOrderAssigner_Assign(t *testing.T) {
	assigner := services.NewOrderAssigner()

	t.Run("assigns and reports the previous assignee", func(t *testing.T) {
		o := paidOrder(t)

		changed, previous, err := assigner.Assign(o, newEmployee(t, "emp@x.com"), time.Now())
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Empty(t, previous)

		changed, previous, err = assigner.Assign(o, newEmployee(t, "other@x.com"), time.Now())
		require.NoError(t, err)
		assert.True(t, changed)
		assert.Equal(t, "emp@x.com", previous)
	})

	t.Run("inactive employees are not found", func(t *testing.T) {
		o := paidOrder(t)
		emp := newEmployee(t, "emp@x.com")
		emp.Deactivate()

		_, _, err := assigner.Assign(o, emp, time.Now())

		assert.ErrorIs(t, err, errs.ErrObjectNotFound)
		assert.Nil(t, o.Assignee())
	})

	t.Run("unpaid orders are rejected", func(t *testing.T) {
		_, _, err := assigner.Assign(testOrder(t), newEmployee(t, "emp@x.com"), time.Now())

		assert.ErrorIs(t, err, errs.ErrInvalidState)
	})
}
