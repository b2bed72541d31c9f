package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrObjectNotFound    = errors.New("object not found")
	ErrValueIsInvalid    = errors.New("value is invalid")
	ErrValueIsOutOfRange = errors.New("value is out of range")
	ErrValueIsRequired   = errors.New("value is required")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidState      = errors.New("invalid state")
	ErrIllegalTransition = errors.New("illegal transition")
	ErrAlreadyTerminal   = errors.New("already terminal")
	ErrNotPaid           = errors.New("order is not paid")
	ErrAlreadyVerified   = errors.New("document is already verified")
	ErrPaymentMismatch   = errors.New("payment mismatch")
)

// sanitize keeps user supplied values on a single log line.
func sanitize(v any) string {
	s := fmt.Sprintf("%s", v)
	return strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ").Replace(s)
}

func withCause(msg string, cause error) string {
	if cause == nil {
		return msg
	}
	return fmt.Sprintf("%s (cause: %s)", msg, cause.Error())
}

// ObjectNotFoundError reports a missing order, document, payment record or employee.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	return withCause(fmt.Sprintf("%s: %s %s", ErrObjectNotFound, e.ParamName, sanitize(e.ID)), e.Cause)
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// ValueIsInvalidError reports a malformed input value.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName), e.Cause)
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ValueIsOutOfRangeError reports a value outside [Min, Max].
type ValueIsOutOfRangeError struct {
	ParamName string
	Value     any
	Min       any
	Max       any
	Cause     error
}

func NewValueIsOutOfRangeError(paramName string, value, minValue, maxValue any) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue}
}

func NewValueIsOutOfRangeErrorWithCause(
	paramName string,
	value, minValue, maxValue any,
	cause error,
) *ValueIsOutOfRangeError {
	return &ValueIsOutOfRangeError{ParamName: paramName, Value: value, Min: minValue, Max: maxValue, Cause: cause}
}

func (e *ValueIsOutOfRangeError) Error() string {
	return withCause(
		fmt.Sprintf("%s: %s is %v, min value is %v, max value is %v",
			ErrValueIsOutOfRange, e.ParamName, sanitize(fmt.Sprint(e.Value)), e.Min, e.Max),
		e.Cause,
	)
}

func (e *ValueIsOutOfRangeError) Unwrap() error {
	return ErrValueIsOutOfRange
}

// ValueIsRequiredError reports a missing input value.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	return withCause(fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName), e.Cause)
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// ForbiddenError reports a failed capability check.
type ForbiddenError struct {
	Actor  string
	Action string
}

func NewForbiddenError(actor, action string) *ForbiddenError {
	return &ForbiddenError{Actor: actor, Action: action}
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("%s: %s may not %s", ErrForbidden, sanitize(e.Actor), e.Action)
}

func (e *ForbiddenError) Unwrap() error {
	return ErrForbidden
}

// InvalidStateError reports an operation that is not legal in the subject's current state.
type InvalidStateError struct {
	Subject string
	Reason  string
}

func NewInvalidStateError(subject, reason string) *InvalidStateError {
	return &InvalidStateError{Subject: subject, Reason: reason}
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrInvalidState, e.Subject, e.Reason)
}

func (e *InvalidStateError) Unwrap() error {
	return ErrInvalidState
}

// IllegalTransitionError reports a workflow stage requested out of the fixed order.
type IllegalTransitionError struct {
	Subject string
	From    string
	To      string
}

func NewIllegalTransitionError(subject, from, to string) *IllegalTransitionError {
	return &IllegalTransitionError{Subject: subject, From: from, To: to}
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("%s: %s cannot move from %s to %s", ErrIllegalTransition, e.Subject, e.From, e.To)
}

func (e *IllegalTransitionError) Unwrap() error {
	return ErrIllegalTransition
}

func (e *IllegalTransitionError) Is(target error) bool {
	return target == ErrInvalidState
}

// AlreadyTerminalError reports a mutation attempted on a COMPLETED or CANCELLED order.
type AlreadyTerminalError struct {
	Subject string
	State   string
}

func NewAlreadyTerminalError(subject, state string) *AlreadyTerminalError {
	return &AlreadyTerminalError{Subject: subject, State: state}
}

func (e *AlreadyTerminalError) Error() string {
	return fmt.Sprintf("%s: %s is %s", ErrAlreadyTerminal, e.Subject, e.State)
}

func (e *AlreadyTerminalError) Unwrap() error {
	return ErrAlreadyTerminal
}

func (e *AlreadyTerminalError) Is(target error) bool {
	return target == ErrInvalidState
}

// NotPaidError reports a workflow operation on an order that has no confirmed payment.
type NotPaidError struct {
	OrderID string
	State   string
}

func NewNotPaidError(orderID, state string) *NotPaidError {
	return &NotPaidError{OrderID: orderID, State: state}
}

func (e *NotPaidError) Error() string {
	return fmt.Sprintf("%s: order %s is %s", ErrNotPaid, e.OrderID, e.State)
}

func (e *NotPaidError) Unwrap() error {
	return ErrNotPaid
}

func (e *NotPaidError) Is(target error) bool {
	return target == ErrInvalidState
}

// AlreadyVerifiedError reports a replace or delete of a verified document.
type AlreadyVerifiedError struct {
	DocumentID string
}

func NewAlreadyVerifiedError(documentID string) *AlreadyVerifiedError {
	return &AlreadyVerifiedError{DocumentID: documentID}
}

func (e *AlreadyVerifiedError) Error() string {
	return fmt.Sprintf("%s: %s", ErrAlreadyVerified, e.DocumentID)
}

func (e *AlreadyVerifiedError) Unwrap() error {
	return ErrAlreadyVerified
}

func (e *AlreadyVerifiedError) Is(target error) bool {
	return target == ErrInvalidState
}

// PaymentMismatchError reports a confirmation whose facts disagree with the payment record.
type PaymentMismatchError struct {
	Field    string
	Expected any
	Actual   any
}

func NewPaymentMismatchError(field string, expected, actual any) *PaymentMismatchError {
	return &PaymentMismatchError{Field: field, Expected: expected, Actual: actual}
}

func (e *PaymentMismatchError) Error() string {
	return fmt.Sprintf("%s: %s expected %s, got %s",
		ErrPaymentMismatch, e.Field, sanitize(fmt.Sprint(e.Expected)), sanitize(fmt.Sprint(e.Actual)))
}

func (e *PaymentMismatchError) Unwrap() error {
	return ErrPaymentMismatch
}
