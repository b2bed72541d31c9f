package queries

import (
	"context"
	"errors"

	"compliance/internal/core/domain/model/employee"
	"compliance/internal/core/domain/model/kernel"
	"compliance/internal/core/ports"
	"compliance/internal/pkg/guard"
)

var ErrListEmployeesQueryIsNotConstructed = errors.New(
	"ListEmployeesQuery must be created via NewListEmployeesQuery constructor",
)

type ListEmployeesQuery struct { //nolint:recvcheck //using for validation
	actor kernel.Actor

	guard guard.ConstructorGuard
}

func NewListEmployeesQuery(actor kernel.Actor) (ListEmployeesQuery, error) {
	if err := actor.Validate(); err != nil {
		return ListEmployeesQuery{}, err
	}
	return ListEmployeesQuery{actor: actor, guard: guard.NewConstructorGuard()}, nil
}

func (q ListEmployeesQuery) Validate() error {
	return q.guard.Validate(ErrListEmployeesQueryIsNotConstructed)
}

type ListEmployeesQueryHandler struct {
	uowFactory ports.UnitOfWorkFactory
}

func NewListEmployeesQueryHandler(uowFactory ports.UnitOfWorkFactory) ListEmployeesQueryHandler {
	return ListEmployeesQueryHandler{uowFactory: uowFactory}
}

// Handle lists the registry ordered by email. Admins only.
func (h ListEmployeesQueryHandler) Handle(ctx context.Context, query ListEmployeesQuery) ([]*employee.Employee, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}
	if err := policy.CanManageEmployees(query.actor); err != nil {
		return nil, err
	}
	return h.uowFactory.Create().EmployeeRepository().List(ctx)
}
