package commands

import (
	"errors"
	"strings"

	"compliance/internal/core/domain/model/kernel"
	"compliance/internal/pkg/errs"
	"compliance/internal/pkg/guard"
)

var ErrRegisterEmployeeCommandIsNotConstructed = errors.New(
	"RegisterEmployeeCommand must be created via NewRegisterEmployeeCommand constructor",
)

type RegisterEmployeeCommand struct { //nolint:recvcheck //using for validation
	actor kernel.Actor
	email kernel.Email
	name  string

	guard guard.ConstructorGuard
}

func NewRegisterEmployeeCommand(actor kernel.Actor, email, name string) (RegisterEmployeeCommand, error) {
	employeeEmail, emailErr := kernel.NewEmail(email)
	name = strings.TrimSpace(name)
	var nameErr error
	if name == "" {
		nameErr = errs.NewValueIsRequiredError("name")
	}
	if err := errors.Join(actor.Validate(), emailErr, nameErr); err != nil {
		return RegisterEmployeeCommand{}, err
	}

	return RegisterEmployeeCommand{
		actor: actor,
		email: employeeEmail,
		name:  name,
		guard: guard.NewConstructorGuard(),
	}, nil
}

func (c RegisterEmployeeCommand) Validate() error {
	return c.guard.Validate(ErrRegisterEmployeeCommandIsNotConstructed)
}

func (c RegisterEmployeeCommand) Actor() kernel.Actor { return c.actor }
func (c RegisterEmployeeCommand) Email() kernel.Email { return c.email }
func (c RegisterEmployeeCommand) Name() string        { return c.name }
