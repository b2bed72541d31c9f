package kernel

import (
	"errors"
	"net/mail"
	"strings"

	"compliance/internal/pkg/errs"
	"compliance/internal/pkg/guard"
)

var ErrEmailIsNotConstructed = errors.New("Email must be created via NewEmail constructor")

// Email is a syntactically valid, lower-cased mail address without a display name.
type Email struct {
	value string
	guard guard.ConstructorGuard
}

// NewEmail trims and lower-cases s and checks it against RFC 5322 address syntax.
// Display-name forms such as "Jane <jane@x.com>" are rejected.
func NewEmail(s string) (Email, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return Email{}, errs.NewValueIsRequiredError("email")
	}

	addr, err := mail.ParseAddress(s)
	if err != nil {
		return Email{}, errs.NewValueIsInvalidErrorWithCause("email", err)
	}
	if addr.Address != s || !strings.Contains(s[strings.LastIndex(s, "@")+1:], ".") {
		return Email{}, errs.NewValueIsInvalidError("email")
	}

	return Email{value: s, guard: guard.NewConstructorGuard()}, nil
}

func (e Email) String() string {
	return e.value
}

func (e Email) IsEqual(other Email) bool {
	return e.value == other.value
}

func (e Email) Validate() error {
	return e.guard.Validate(ErrEmailIsNotConstructed)
}
