package commands

import (
	"context"
	"errors"

	"compliance/internal/core/domain/model/employee"
	"compliance/internal/pkg/errs"
)

type RegisterEmployeeCommandHandler struct {
	uowFactory EmployeeUoWFactory
}

func NewRegisterEmployeeCommandHandler(uowFactory EmployeeUoWFactory) RegisterEmployeeCommandHandler {
	return RegisterEmployeeCommandHandler{uowFactory: uowFactory}
}

// Handle adds an employee to the registry. An email that is already registered is an
// InvalidStateError.
func (h *RegisterEmployeeCommandHandler) Handle(ctx context.Context, cmd RegisterEmployeeCommand) (*employee.Employee, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}
	if err := policy.CanManageEmployees(cmd.Actor()); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.EmployeeRepository()
	_, err := repo.Get(ctx, cmd.Email())
	switch {
	case err == nil:
		return nil, errs.NewInvalidStateError("employee "+cmd.Email().String(), "already registered")
	case !errors.Is(err, errs.ErrObjectNotFound):
		return nil, err
	}

	emp, err := employee.NewEmployee(cmd.Email(), cmd.Name(), now())
	if err != nil {
		return nil, err
	}
	if err = repo.Add(ctx, emp); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return emp, nil
}
