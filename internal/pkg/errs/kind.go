package errs

import "errors"

// Kind is the machine-readable error class returned to API clients.
type Kind string

const (
	KindInvalidInput      Kind = "INVALID_INPUT"
	KindNotFound          Kind = "NOT_FOUND"
	KindForbidden         Kind = "FORBIDDEN"
	KindInvalidState      Kind = "INVALID_STATE"
	KindIllegalTransition Kind = "ILLEGAL_TRANSITION"
	KindAlreadyTerminal   Kind = "ALREADY_TERMINAL"
	KindNotPaid           Kind = "NOT_PAID"
	KindAlreadyVerified   Kind = "ALREADY_VERIFIED"
	KindPaymentMismatch   Kind = "PAYMENT_MISMATCH"
	KindInternal          Kind = "INTERNAL"
)

// KindOf classifies err. The most specific kind wins, so an AlreadyTerminalError
// reports KindAlreadyTerminal even though it also matches ErrInvalidState.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValueIsRequired),
		errors.Is(err, ErrValueIsInvalid),
		errors.Is(err, ErrValueIsOutOfRange):
		return KindInvalidInput
	case errors.Is(err, ErrObjectNotFound):
		return KindNotFound
	case errors.Is(err, ErrForbidden):
		return KindForbidden
	case errors.Is(err, ErrPaymentMismatch):
		return KindPaymentMismatch
	case errors.Is(err, ErrAlreadyTerminal):
		return KindAlreadyTerminal
	case errors.Is(err, ErrIllegalTransition):
		return KindIllegalTransition
	case errors.Is(err, ErrNotPaid):
		return KindNotPaid
	case errors.Is(err, ErrAlreadyVerified):
		return KindAlreadyVerified
	case errors.Is(err, ErrInvalidState):
		return KindInvalidState
	default:
		return KindInternal
	}
}
