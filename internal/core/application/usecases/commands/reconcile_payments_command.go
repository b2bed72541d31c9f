package commands

import (
	"errors"
	"time"

	"compliance/internal/pkg/errs"
	"compliance/internal/pkg/guard"
)

var ErrReconcilePaymentsCommandIsNotConstructed = errors.New(
	"ReconcilePaymentsCommand must be created via NewReconcilePaymentsCommand constructor",
)

// ReconcilePaymentsCommand asks the provider about CREATED records older than Grace.
// Records older than Expiry without a captured payment are failed.
type ReconcilePaymentsCommand struct { //nolint:recvcheck //using for validation
	now    time.Time
	grace  time.Duration
	expiry time.Duration
	limit  int

	guard guard.ConstructorGuard
}

func NewReconcilePaymentsCommand(now time.Time, grace, expiry time.Duration, limit int) (ReconcilePaymentsCommand, error) {
	if grace < 0 {
		return ReconcilePaymentsCommand{}, errs.NewValueIsOutOfRangeError("grace", grace, time.Duration(0), "expiry")
	}
	if expiry < grace {
		return ReconcilePaymentsCommand{}, errs.NewValueIsOutOfRangeError("expiry", expiry, grace, "unbounded")
	}
	if limit <= 0 {
		return ReconcilePaymentsCommand{}, errs.NewValueIsOutOfRangeError("limit", limit, 1, "unbounded")
	}

	return ReconcilePaymentsCommand{
		now:    now.UTC(),
		grace:  grace,
		expiry: expiry,
		limit:  limit,
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (c ReconcilePaymentsCommand) Validate() error {
	return c.guard.Validate(ErrReconcilePaymentsCommandIsNotConstructed)
}

func (c ReconcilePaymentsCommand) Now() time.Time        { return c.now }
func (c ReconcilePaymentsCommand) Grace() time.Duration  { return c.grace }
func (c ReconcilePaymentsCommand) Expiry() time.Duration { return c.expiry }
func (c ReconcilePaymentsCommand) Limit() int            { return c.limit }
