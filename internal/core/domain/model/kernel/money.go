package kernel

import (
	"errors"
	"fmt"
	"strings"

	"compliance/internal/pkg/errs"
	"compliance/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var ErrMoneyIsNotConstructed = errors.New("Money must be created via NewMoney or MoneyFromMinorUnits")

// DefaultCurrency is used when an order is created without an explicit currency.
const DefaultCurrency = "INR"

// currencyExponents lists ISO 4217 currencies whose minor unit is not 1/100.
var currencyExponents = map[string]int32{
	"BHD": 3,
	"CLP": 0,
	"IQD": 3,
	"JOD": 3,
	"JPY": 0,
	"KRW": 0,
	"KWD": 3,
	"OMR": 3,
	"TND": 3,
	"VND": 0,
}

// CurrencyExponent returns the number of decimal places of the currency's minor unit.
func CurrencyExponent(currency string) int32 {
	if exp, ok := currencyExponents[currency]; ok {
		return exp
	}
	return 2
}

// NormalizeCurrency upper-cases an ISO 4217 code and checks that it has three letters.
func NormalizeCurrency(currency string) (string, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return "", errs.NewValueIsRequiredError("currency")
	}
	if len(currency) != 3 || strings.Trim(currency, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") != "" {
		return "", errs.NewValueIsInvalidErrorWithCause("currency", fmt.Errorf("%q is not an ISO 4217 code", currency))
	}
	return currency, nil
}

// Money is a non-negative decimal amount in a currency. The amount is rounded half away from
// zero to the currency's minor unit on construction, so MinorUnits is always exact.
//
// Example:
//
//	total, _ := kernel.NewMoney(decimal.RequireFromString("499.00"), "INR")
//	total.MinorUnits() // 49900
type Money struct {
	amount   decimal.Decimal
	currency string
	guard    guard.ConstructorGuard
}

func NewMoney(amount decimal.Decimal, currency string) (Money, error) {
	code, err := NormalizeCurrency(currency)
	if err != nil {
		return Money{}, err
	}
	if amount.IsNegative() {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("amount", fmt.Errorf("%s is negative", amount))
	}

	return Money{
		amount:   amount.Round(CurrencyExponent(code)),
		currency: code,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

// MoneyFromMinorUnits builds Money from an integer count of minor units (paise, cents).
func MoneyFromMinorUnits(minor int64, currency string) (Money, error) {
	code, err := NormalizeCurrency(currency)
	if err != nil {
		return Money{}, err
	}
	return NewMoney(decimal.New(minor, -CurrencyExponent(code)), code)
}

func (m Money) Amount() decimal.Decimal {
	return m.amount
}

func (m Money) Currency() string {
	return m.currency
}

// MinorUnits converts the amount to the integer representation payment providers expect.
func (m Money) MinorUnits() int64 {
	return m.amount.Shift(CurrencyExponent(m.currency)).IntPart()
}

func (m Money) IsPositive() bool {
	return m.amount.IsPositive()
}

func (m Money) IsEqual(other Money) bool {
	return m.currency == other.currency && m.amount.Equal(other.amount)
}

// String renders the amount with the currency's precision, e.g. "499.00 INR".
func (m Money) String() string {
	return m.amount.StringFixed(CurrencyExponent(m.currency)) + " " + m.currency
}

func (m Money) Validate() error {
	return m.guard.Validate(ErrMoneyIsNotConstructed)
}
