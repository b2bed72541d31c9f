package commands

import (
	"errors"

	"compliance/internal/core/domain/model/kernel"
	"compliance/internal/pkg/guard"
)

var ErrAssignOrderCommandIsNotConstructed = errors.New(
	"AssignOrderCommand must be created via NewAssignOrderCommand constructor",
)

// AssignOrderCommand hands a paid order to an employee.
type AssignOrderCommand struct { //nolint:recvcheck //using for validation
	actor    kernel.Actor
	orderID  kernel.UUID
	assignee kernel.Email

	guard guard.ConstructorGuard
}

func NewAssignOrderCommand(actor kernel.Actor, orderID kernel.UUID, assigneeEmail string) (AssignOrderCommand, error) {
	assignee, emailErr := kernel.NewEmail(assigneeEmail)
	if err := errors.Join(actor.Validate(), orderID.Validate(), emailErr); err != nil {
		return AssignOrderCommand{}, err
	}

	return AssignOrderCommand{
		actor:    actor,
		orderID:  orderID,
		assignee: assignee,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c AssignOrderCommand) Validate() error {
	return c.guard.Validate(ErrAssignOrderCommandIsNotConstructed)
}

func (c AssignOrderCommand) Actor() kernel.Actor    { return c.actor }
func (c AssignOrderCommand) OrderID() kernel.UUID   { return c.orderID }
func (c AssignOrderCommand) Assignee() kernel.Email { return c.assignee }
