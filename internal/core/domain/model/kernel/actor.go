package kernel

import (
	"errors"
	"fmt"
	"strings"

	"compliance/internal/pkg/errs"
	"compliance/internal/pkg/guard"
)

var ErrActorIsNotConstructed = errors.New("Actor must be created via NewActor or SystemActor")

// SystemEmail identifies the payment webhook and background jobs in audit records.
const SystemEmail = "system"

// Role is the capability class of an actor, forwarded by the authenticating gateway.
type Role int

const (
	RoleUnknown Role = iota
	RoleCustomer
	RoleEmployee
	RoleAdmin
	RoleSystem
)

func getRoleStrings() map[Role]string {
	return map[Role]string{
		RoleUnknown:  "unknown",
		RoleCustomer: "customer",
		RoleEmployee: "employee",
		RoleAdmin:    "admin",
		RoleSystem:   "system",
	}
}

func (r Role) String() string {
	if s, ok := getRoleStrings()[r]; ok {
		return s
	}
	return "unknown"
}

// ParseRole accepts the roles a gateway may forward. The system role is internal only.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "customer":
		return RoleCustomer, nil
	case "employee":
		return RoleEmployee, nil
	case "admin":
		return RoleAdmin, nil
	default:
		return RoleUnknown, errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a known role", s))
	}
}

// Actor is the party performing an operation.
type Actor struct {
	email string
	role  Role
	guard guard.ConstructorGuard
}

func NewActor(email Email, role Role) (Actor, error) {
	if err := email.Validate(); err != nil {
		return Actor{}, err
	}
	if role != RoleCustomer && role != RoleEmployee && role != RoleAdmin {
		return Actor{}, errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%s cannot be assigned to a caller", role))
	}
	return Actor{email: email.String(), role: role, guard: guard.NewConstructorGuard()}, nil
}

// SystemActor is used by the payment webhook and the reconciliation job.
func SystemActor() Actor {
	return Actor{email: SystemEmail, role: RoleSystem, guard: guard.NewConstructorGuard()}
}

func (a Actor) Email() string {
	return a.email
}

func (a Actor) Role() Role {
	return a.role
}

func (a Actor) IsCustomer() bool {
	return a.role == RoleCustomer
}

// IsStaff reports whether the actor is an employee or an admin.
func (a Actor) IsStaff() bool {
	return a.role == RoleEmployee || a.role == RoleAdmin
}

func (a Actor) IsAdmin() bool {
	return a.role == RoleAdmin
}

func (a Actor) IsSystem() bool {
	return a.role == RoleSystem
}

func (a Actor) String() string {
	return a.role.String() + ":" + a.email
}

func (a Actor) Validate() error {
	return a.guard.Validate(ErrActorIsNotConstructed)
}
