package services_test

import (
	"testing"
	"time"

	"compliance/internal/core/domain/model/kernel"
	"compliance/internal/core/domain/model/order"
	"compliance/internal/core/domain/services"
	"compliance/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func actor(t *testing.T, email string, role kernel.Role) kernel.Actor {
	t.Helper()
	e, err := kernel.NewEmail(email)
	require.NoError(t, err)
	a, err := kernel.NewActor(e, role)
	require.NoError(t, err)
	return a
}

func testOrder(t *testing.T) *order.Order {
	t.Helper()
	email, _ := kernel.NewEmail("c@x.com")
	total, _ := kernel.NewMoney(decimal.RequireFromString("499"), "INR")
	o, err := order.NewOrder(kernel.NewUUID(), "GST Registration", email, total, time.Now())
	require.NoError(t, err)
	return o
}

func TestAccessPolicy_Orders(t *testing.T) {
	policy := services.NewAccessPolicy()
	o := testOrder(t)

	owner := actor(t, "c@x.com", kernel.RoleCustomer)
	stranger := actor(t, "s@x.com", kernel.RoleCustomer)
	employee := actor(t, "emp@x.com", kernel.RoleEmployee)
	admin := actor(t, "admin@x.com", kernel.RoleAdmin)

	require.NoError(t, policy.CanAccessOrder(owner, o))
	require.NoError(t, policy.CanAccessOrder(employee, o))
	require.NoError(t, policy.CanAccessOrder(kernel.SystemActor(), o))
	assert.ErrorIs(t, policy.CanAccessOrder(stranger, o), errs.ErrForbidden)

	require.NoError(t, policy.CanListOrders(owner, "c@x.com"))
	require.NoError(t, policy.CanListOrders(employee, "c@x.com"))
	require.NoError(t, policy.CanListOrders(admin, ""))
	assert.ErrorIs(t, policy.CanListOrders(owner, ""), errs.ErrForbidden)
	assert.ErrorIs(t, policy.CanListOrders(employee, ""), errs.ErrForbidden)
	assert.ErrorIs(t, policy.CanListOrders(stranger, "c@x.com"), errs.ErrForbidden)

	require.NoError(t, policy.CanCreateOrderFor(owner, o.CustomerEmail()))
	assert.ErrorIs(t, policy.CanCreateOrderFor(stranger, o.CustomerEmail()), errs.ErrForbidden)
}

func TestAccessPolicy_Capabilities(t *testing.T) {
	policy := services.NewAccessPolicy()
	customer := actor(t, "c@x.com", kernel.RoleCustomer)
	employee := actor(t, "emp@x.com", kernel.RoleEmployee)
	admin := actor(t, "admin@x.com", kernel.RoleAdmin)

	assert.ErrorIs(t, policy.CanVerifyDocuments(customer), errs.ErrForbidden)
	require.NoError(t, policy.CanVerifyDocuments(employee))

	assert.ErrorIs(t, policy.CanDriveWorkflow(customer), errs.ErrForbidden)
	require.NoError(t, policy.CanDriveWorkflow(admin))

	assert.ErrorIs(t, policy.CanAssignOrders(employee), errs.ErrForbidden)
	require.NoError(t, policy.CanAssignOrders(admin))
	require.NoError(t, policy.CanAssignOrders(kernel.SystemActor()))

	assert.ErrorIs(t, policy.CanManageEmployees(employee), errs.ErrForbidden)
	require.NoError(t, policy.CanManageEmployees(admin))

	assert.ErrorIs(t, policy.CanVerifyDocuments(kernel.Actor{}), kernel.ErrActorIsNotConstructed)
}
