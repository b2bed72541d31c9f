// Package payment holds PaymentRecord, the adapter-owned trace of one provider order from its
// creation to its confirmation. A record is keyed by the provider order id and is confirmed at
// most once.
package payment

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"compliance/internal/core/domain/model/kernel"
	"compliance/internal/pkg/errs"
)

var ErrRecordIsNotConstructed = errors.New("Record must be created via NewRecord constructor")

// Status of a payment record.
type Status int

const (
	StatusUnknown Status = iota
	StatusCreated
	StatusConfirmed
	StatusFailed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:   "UNKNOWN",
		StatusCreated:   "CREATED",
		StatusConfirmed: "CONFIRMED",
		StatusFailed:    "FAILED",
	}
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

func ParseStatus(s string) (Status, error) {
	switch s {
	case "CREATED":
		return StatusCreated, nil
	case "CONFIRMED":
		return StatusConfirmed, nil
	case "FAILED":
		return StatusFailed, nil
	default:
		return StatusUnknown, errs.NewValueIsInvalidErrorWithCause("payment status", fmt.Errorf("%q is not a valid status", s))
	}
}

// Record tracks a provider order created for an Order. Amount is in minor units.
type Record struct {
	providerOrderID string
	orderID         kernel.UUID
	paymentID       string
	amount          int64
	currency        string
	description     string
	status          Status
	createdAt       time.Time
	confirmedAt     *time.Time
	failureReason   string

	isConstructed bool
}

func NewRecord(
	providerOrderID string,
	orderID kernel.UUID,
	amount int64,
	currency, description string,
	at time.Time,
) (*Record, error) {
	providerOrderID = strings.TrimSpace(providerOrderID)
	if providerOrderID == "" {
		return nil, errs.NewValueIsRequiredError("providerOrderId")
	}
	if err := orderID.Validate(); err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%d is not greater than 0", amount))
	}
	code, err := kernel.NormalizeCurrency(currency)
	if err != nil {
		return nil, err
	}

	return &Record{
		providerOrderID: providerOrderID,
		orderID:         orderID,
		amount:          amount,
		currency:        code,
		description:     strings.TrimSpace(description),
		status:          StatusCreated,
		createdAt:       at.UTC(),
		isConstructed:   true,
	}, nil
}

// RestoreRecord rebuilds a record from persisted state.
func RestoreRecord(
	providerOrderID string,
	orderID kernel.UUID,
	paymentID string,
	amount int64,
	currency, description string,
	status Status,
	createdAt time.Time,
	confirmedAt *time.Time,
	failureReason string,
) *Record {
	return &Record{
		providerOrderID: providerOrderID,
		orderID:         orderID,
		paymentID:       paymentID,
		amount:          amount,
		currency:        currency,
		description:     description,
		status:          status,
		createdAt:       createdAt,
		confirmedAt:     confirmedAt,
		failureReason:   failureReason,
		isConstructed:   true,
	}
}

func (r *Record) Validate() error {
	if r == nil || !r.isConstructed {
		return ErrRecordIsNotConstructed
	}
	return nil
}

func (r *Record) ProviderOrderID() string { return r.providerOrderID }
func (r *Record) OrderID() kernel.UUID    { return r.orderID }
func (r *Record) PaymentID() string       { return r.paymentID }
func (r *Record) Amount() int64           { return r.amount }
func (r *Record) Currency() string        { return r.currency }
func (r *Record) Description() string     { return r.description }
func (r *Record) Status() Status          { return r.status }
func (r *Record) CreatedAt() time.Time    { return r.createdAt }
func (r *Record) ConfirmedAt() *time.Time { return r.confirmedAt }
func (r *Record) FailureReason() string   { return r.failureReason }
func (r *Record) IsConfirmed() bool       { return r.status == StatusConfirmed }

// CheckDuplicate classifies a confirmation attempt against an already confirmed record:
// the same payment id is an idempotent repeat, any other id is a PaymentMismatchError.
// It returns false for records that are not confirmed yet.
func (r *Record) CheckDuplicate(paymentID string) (bool, error) {
	if r.status != StatusConfirmed {
		return false, nil
	}
	if r.paymentID != paymentID {
		return true, errs.NewPaymentMismatchError("paymentId", r.paymentID, paymentID)
	}
	return true, nil
}

// Confirm moves the record to CONFIRMED with paymentID. Confirming again with the same
// payment id reports false and changes nothing.
func (r *Record) Confirm(paymentID string, at time.Time) (bool, error) {
	paymentID = strings.TrimSpace(paymentID)
	if paymentID == "" {
		return false, errs.NewValueIsRequiredError("paymentId")
	}
	if duplicate, err := r.CheckDuplicate(paymentID); duplicate || err != nil {
		return false, err
	}
	if r.status != StatusCreated {
		return false, errs.NewInvalidStateError("payment record "+r.providerOrderID, "record is "+r.status.String())
	}

	confirmedAt := at.UTC()
	r.paymentID = paymentID
	r.status = StatusConfirmed
	r.confirmedAt = &confirmedAt
	return true, nil
}

// Fail closes an unconfirmed record, e.g. when it expired without a captured payment.
func (r *Record) Fail(reason string) error {
	if r.status != StatusCreated {
		return errs.NewInvalidStateError("payment record "+r.providerOrderID, "record is "+r.status.String())
	}
	r.status = StatusFailed
	r.failureReason = reason
	return nil
}
