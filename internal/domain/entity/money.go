package entity

import (
	"strings"

	errs "github.com/amirhossein-jamali/coaching-wallet/internal/domain/error"
	"github.com/shopspring/decimal"
)

// MaxDecimalPlaces defines the maximum number of decimal places allowed for money amounts
const MaxDecimalPlaces = 2

// MaxAmount caps a single monetary input
var MaxAmount = decimal.NewFromInt(1_000_000_000)

var hundred = decimal.NewFromInt(100)

// ParseAmount validates a decimal string and returns it as an exact decimal.
// Negative values, more than two decimal places and values above MaxAmount are rejected.
func ParseAmount(field, amount string) (decimal.Decimal, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" {
		return decimal.Zero, errs.NewInvalidParameterError(field, "empty value")
	}
	if strings.ContainsAny(amount, "eE") {
		return decimal.Zero, errs.NewInvalidParameterError(field, "exponent notation is not accepted")
	}

	value, err := decimal.NewFromString(amount)
	if err != nil {
		return decimal.Zero, errs.NewInvalidParameterError(field, "not a decimal number")
	}
	if value.IsNegative() {
		return decimal.Zero, errs.NewInvalidParameterError(field, "cannot be negative")
	}
	if value.Exponent() < -MaxDecimalPlaces {
		return decimal.Zero, errs.NewInvalidParameterError(field, "maximum 2 decimal places allowed")
	}
	if value.GreaterThan(MaxAmount) {
		return decimal.Zero, errs.NewInvalidParameterError(field, "amount is too large")
	}

	return value, nil
}

// ParsePositiveAmount is ParseAmount that also rejects zero
func ParsePositiveAmount(field, amount string) (decimal.Decimal, error) {
	value, err := ParseAmount(field, amount)
	if err != nil {
		return decimal.Zero, err
	}
	if !value.IsPositive() {
		return decimal.Zero, errs.NewInvalidParameterError(field, "must be greater than zero")
	}
	return value, nil
}

// RoundAmount rounds half away from zero to two decimal places
func RoundAmount(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(MaxDecimalPlaces)
}

// FormatAmount renders an amount with exactly two decimal places, e.g. "350.00"
func FormatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(MaxDecimalPlaces)
}

// Percentage returns amount * percent / 100 rounded to two places
func Percentage(amount, percent decimal.Decimal) decimal.Decimal {
	return RoundAmount(amount.Mul(percent).Div(hundred))
}

// CheckAmount validates an amount computed inside the service
func CheckAmount(field string, amount decimal.Decimal, allowZero bool) error {
	switch {
	case amount.IsNegative():
		return errs.NewInvalidParameterError(field, "cannot be negative")
	case amount.IsZero() && !allowZero:
		return errs.NewInvalidParameterError(field, "must be greater than zero")
	case amount.Exponent() < -MaxDecimalPlaces && !amount.Equal(RoundAmount(amount)):
		return errs.NewInvalidParameterError(field, "maximum 2 decimal places allowed")
	case amount.GreaterThan(MaxAmount):
		return errs.NewInvalidParameterError(field, "amount is too large")
	}
	return nil
}
