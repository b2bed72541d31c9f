package services

import (
	"compliance/internal/core/domain/model/kernel"
	"compliance/internal/core/domain/model/order"
	"compliance/internal/pkg/errs"
)

// AccessPolicy decides what an actor may do. Authentication happens upstream; the policy only
// sees the email and role forwarded by the gateway.
//
// Rules:
//   - customers act on their own orders only
//   - employees and admins may read and modify any order, verify documents and drive the workflow
//   - only admins assign orders, list every order and manage the employee registry
//   - the system actor (payment webhook, jobs) may do everything
type AccessPolicy struct{}

func NewAccessPolicy() AccessPolicy {
	return AccessPolicy{}
}

// CanAccessOrder allows the owning customer, staff and the system.
func (AccessPolicy) CanAccessOrder(actor kernel.Actor, o *order.Order) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if actor.IsStaff() || actor.IsSystem() || o.IsOwnedBy(actor.Email()) {
		return nil
	}
	return errs.NewForbiddenError(actor.Email(), "access order "+o.ID().String())
}

// CanCreateOrderFor allows customers to create orders for themselves only.
func (AccessPolicy) CanCreateOrderFor(actor kernel.Actor, customer kernel.Email) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if actor.IsStaff() || actor.IsSystem() || actor.Email() == customer.String() {
		return nil
	}
	return errs.NewForbiddenError(actor.Email(), "create orders for "+customer.String())
}

// CanListOrders allows customers to list their own orders and staff to list anyone's.
// An empty customerEmail means every order, which is reserved for admins.
func (AccessPolicy) CanListOrders(actor kernel.Actor, customerEmail string) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	switch {
	case actor.IsAdmin() || actor.IsSystem():
		return nil
	case customerEmail == "":
		return errs.NewForbiddenError(actor.Email(), "list all orders")
	case actor.IsStaff() || actor.Email() == customerEmail:
		return nil
	default:
		return errs.NewForbiddenError(actor.Email(), "list orders of "+customerEmail)
	}
}

func (p AccessPolicy) CanVerifyDocuments(actor kernel.Actor) error {
	return p.requireStaff(actor, "verify documents")
}

func (p AccessPolicy) CanDriveWorkflow(actor kernel.Actor) error {
	return p.requireStaff(actor, "change workflow stages")
}

func (p AccessPolicy) CanAssignOrders(actor kernel.Actor) error {
	return p.requireAdmin(actor, "assign orders")
}

func (p AccessPolicy) CanManageEmployees(actor kernel.Actor) error {
	return p.requireAdmin(actor, "manage employees")
}

func (AccessPolicy) requireStaff(actor kernel.Actor, action string) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if actor.IsStaff() || actor.IsSystem() {
		return nil
	}
	return errs.NewForbiddenError(actor.Email(), action)
}

func (AccessPolicy) requireAdmin(actor kernel.Actor, action string) error {
	if err := actor.Validate(); err != nil {
		return err
	}
	if actor.IsAdmin() || actor.IsSystem() {
		return nil
	}
	return errs.NewForbiddenError(actor.Email(), action)
}
