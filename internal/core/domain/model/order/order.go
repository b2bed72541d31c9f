package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"compliance/internal/core/domain/model/kernel"
	"compliance/internal/pkg/errs"
)

const maxServiceNameLength = 200

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// Order is the aggregate root of a customer's compliance service request. It is the single
// shared mutable record per order: documents, payment records, stages and workflow events
// reference it by id only.
//
// Order follows these invariants:
//   - status only moves forward along the chain, or to CANCELLED from a non-terminal status
//   - status is changed by Recompute alone
//   - an assignee exists only once the order is at least PAYMENT_COMPLETED
type Order struct {
	id            kernel.UUID
	serviceName   string
	customerEmail kernel.Email
	total         kernel.Money

	status   Status
	assignee *kernel.Email

	createdAt    time.Time
	updatedAt    time.Time
	cancelledAt  *time.Time
	cancelReason string

	// version is bumped on every change and persisted with the row.
	version int

	events []kernel.DomainEvent

	isConstructed bool
}

// NewOrder creates an order in CREATED status and raises an order.created event.
//
// Example:
//
//	email, _ := kernel.NewEmail("c@x.com")
//	total, _ := kernel.NewMoney(decimal.RequireFromString("499.00"), "INR")
//	o, err := order.NewOrder(kernel.NewUUID(), "GST Registration", email, total, time.Now())
func NewOrder(
	id kernel.UUID,
	serviceName string,
	customerEmail kernel.Email,
	total kernel.Money,
	at time.Time,
) (*Order, error) {
	o := &Order{
		status:        Created,
		createdAt:     at.UTC(),
		updatedAt:     at.UTC(),
		version:       1,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setServiceName(serviceName),
		o.setCustomerEmail(customerEmail),
		o.setTotal(total),
	); err != nil {
		return nil, err
	}

	o.raise(newCreatedEvent(o, o.createdAt))
	return o, nil
}

// RestoreOrder rebuilds an order from persisted state without raising events.
func RestoreOrder(
	id kernel.UUID,
	serviceName string,
	customerEmail kernel.Email,
	total kernel.Money,
	status Status,
	assignee *kernel.Email,
	createdAt, updatedAt time.Time,
	cancelledAt *time.Time,
	cancelReason string,
	version int,
) (*Order, error) {
	o := &Order{
		serviceName:   serviceName,
		assignee:      assignee,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		cancelledAt:   cancelledAt,
		cancelReason:  cancelReason,
		version:       version,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerEmail(customerEmail),
		o.setTotal(total),
		status.Validate(),
	); err != nil {
		return nil, err
	}
	o.status = status

	return o, nil
}

func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) ServiceName() string {
	return o.serviceName
}

func (o *Order) CustomerEmail() kernel.Email {
	return o.customerEmail
}

func (o *Order) TotalAmount() kernel.Money {
	return o.total
}

func (o *Order) Status() Status {
	return o.status
}

// Assignee returns the assigned employee, or nil while unassigned.
func (o *Order) Assignee() *kernel.Email {
	return o.assignee
}

func (o *Order) IsAssigned() bool {
	return o.assignee != nil
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

func (o *Order) CancelledAt() *time.Time {
	return o.cancelledAt
}

func (o *Order) CancelReason() string {
	return o.cancelReason
}

func (o *Order) Version() int {
	return o.version
}

// IsOwnedBy reports whether email is the customer who placed the order.
func (o *Order) IsOwnedBy(email string) bool {
	return o.customerEmail.String() == strings.ToLower(strings.TrimSpace(email))
}

// EnsureNotTerminal returns an AlreadyTerminalError for COMPLETED and CANCELLED orders.
func (o *Order) EnsureNotTerminal() error {
	if o.status.IsTerminal() {
		return errs.NewAlreadyTerminalError("order "+o.id.String(), o.status.String())
	}
	return nil
}

// Cancel records the cancellation fact. The status change itself happens in the next Recompute.
func (o *Order) Cancel(reason string, at time.Time) error {
	if err := o.EnsureNotTerminal(); err != nil {
		return err
	}
	if o.cancelledAt != nil {
		return errs.NewAlreadyTerminalError("order "+o.id.String(), Cancelled.String())
	}

	cancelledAt := at.UTC()
	o.cancelledAt = &cancelledAt
	o.cancelReason = strings.TrimSpace(reason)
	o.raise(CancelledEvent{Event: kernel.NewEvent(EventCancelled, o.id, at), Reason: o.cancelReason})
	o.touch(at)
	return nil
}

// Assign sets or replaces the assignee. It reports false when assignee already holds the order.
//
// Returns:
//   - AlreadyTerminalError for COMPLETED and CANCELLED orders
//   - InvalidStateError when the order has not reached PAYMENT_COMPLETED
func (o *Order) Assign(assignee kernel.Email, at time.Time) (bool, error) {
	if err := assignee.Validate(); err != nil {
		return false, err
	}
	if err := o.EnsureNotTerminal(); err != nil {
		return false, err
	}
	if !o.status.IsAtLeast(PaymentCompleted) {
		return false, errs.NewInvalidStateError(
			"order "+o.id.String(),
			fmt.Sprintf("cannot assign an order in %s, payment must be completed first", o.status),
		)
	}
	if o.assignee != nil && o.assignee.IsEqual(assignee) {
		return false, nil
	}

	previous := ""
	if o.assignee != nil {
		previous = o.assignee.String()
	}
	o.assignee = &assignee
	o.raise(AssignedEvent{
		Event:         kernel.NewEvent(EventAssigned, o.id, at),
		AssigneeEmail: assignee.String(),
		PreviousEmail: previous,
	})
	o.touch(at)
	return true, nil
}

// Recompute derives the target status from facts and walks the chain towards it, one edge at a
// time. It returns the edges taken; an empty result means nothing changed. A target behind the
// current status is ignored, and terminal orders never change.
func (o *Order) Recompute(f Facts, at time.Time) []Transition {
	if o.status.IsTerminal() {
		return nil
	}

	target := DeriveStatus(f, o.assignee != nil, o.cancelledAt != nil)
	if target == o.status {
		return nil
	}

	var transitions []Transition
	if target == Cancelled {
		transitions = append(transitions, Transition{From: o.status, To: Cancelled})
	} else {
		if target < o.status {
			return nil
		}
		for s := o.status; s != target; s = s.Next() {
			transitions = append(transitions, Transition{From: s, To: s.Next()})
		}
	}

	for _, t := range transitions {
		o.raise(newStatusChangedEvent(o.id, t, at))
	}
	o.status = target
	o.touch(at)
	return transitions
}

// DomainEvents returns the events raised since the aggregate was loaded or last cleared.
func (o *Order) DomainEvents() []kernel.DomainEvent {
	return o.events
}

func (o *Order) ClearDomainEvents() {
	o.events = nil
}

func (o *Order) raise(e kernel.DomainEvent) {
	o.events = append(o.events, e)
}

func (o *Order) touch(at time.Time) {
	o.updatedAt = at.UTC()
	o.version++
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setServiceName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errs.NewValueIsRequiredError("serviceName")
	}
	if len(name) > maxServiceNameLength {
		return errs.NewValueIsOutOfRangeError("serviceName length", len(name), 1, maxServiceNameLength)
	}
	o.serviceName = name
	return nil
}

func (o *Order) setCustomerEmail(email kernel.Email) error {
	if err := email.Validate(); err != nil {
		return err
	}
	o.customerEmail = email
	return nil
}

func (o *Order) setTotal(total kernel.Money) error {
	if err := total.Validate(); err != nil {
		return err
	}
	if !total.IsPositive() {
		return errs.NewValueIsInvalidErrorWithCause("totalAmount", fmt.Errorf("%s is not greater than 0", total))
	}
	o.total = total
	return nil
}
