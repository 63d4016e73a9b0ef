// Package core provides money parsing and handling utilities.
//
// Amounts are fixed-point decimals so that totals, balances and percentages
// never accumulate binary floating point error.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money is a decimal amount. Entry amounts are always positive; derived
// values such as a balance may be zero or negative.
type Money struct {
	Amount decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// Entry amounts are bounded so that sums and snapshots stay small numbers.
const (
	MaxAmountIntegerDigits = 15
	MaxAmountDecimalPlaces = 8
)

// NewMoney builds a Money from an integer number of units.
func NewMoney(units int64) Money {
	return Money{Amount: decimal.NewFromInt(units)}
}

// MustMoney parses s and panics on failure. Intended for tests and constants.
func MustMoney(s string) Money {
	return Money{Amount: decimal.RequireFromString(s)}
}

// ParseAmount converts user input into a positive amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators. Empty,
// non-numeric, signed, exponent-notation, zero, negative and out-of-range
// inputs all yield ErrInvalidAmount.
//
// Examples:
//
//	ParseAmount("12.34") -> 12.34, nil
//	ParseAmount("12,34") -> 12.34, nil
//	ParseAmount("0")     -> error
func ParseAmount(s string) (Money, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Money{}, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") || strings.ContainsAny(s, "eE") {
		return Money{}, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, ErrInvalidAmount
	}
	m := Money{Amount: d}
	if err := m.Validate(); err != nil {
		return Money{}, err
	}
	return m, nil
}

// Validate reports ErrInvalidAmount unless the amount is strictly positive
// and within MaxAmountIntegerDigits and MaxAmountDecimalPlaces. The bounds
// are checked on exponent and digit count only, never by rescaling.
func (m Money) Validate() error {
	if !m.IsPositive() {
		return ErrInvalidAmount
	}
	exp := int64(m.Amount.Exponent())
	if exp < -MaxAmountDecimalPlaces {
		return ErrInvalidAmount
	}
	if int64(m.Amount.NumDigits())+exp > MaxAmountIntegerDigits {
		return ErrInvalidAmount
	}
	return nil
}

func (m Money) IsPositive() bool { return m.Amount.IsPositive() }
func (m Money) IsZero() bool     { return m.Amount.IsZero() }
func (m Money) IsNegative() bool { return m.Amount.IsNegative() }

func (m Money) Add(o Money) Money { return Money{Amount: m.Amount.Add(o.Amount)} }
func (m Money) Sub(o Money) Money { return Money{Amount: m.Amount.Sub(o.Amount)} }

// Cmp returns -1, 0 or +1 like decimal.Decimal.Cmp.
func (m Money) Cmp(o Money) int { return m.Amount.Cmp(o.Amount) }

func (m Money) Equal(o Money) bool { return m.Amount.Equal(o.Amount) }

// PercentOf returns m / total * 100, or zero when total is not positive.
func (m Money) PercentOf(total Money) decimal.Decimal {
	if !total.IsPositive() {
		return decimal.Zero
	}
	return m.Amount.Div(total.Amount).Mul(hundred)
}

// String renders the amount with two decimals for display.
func (m Money) String() string {
	return m.Amount.StringFixed(2)
}

// MarshalJSON writes the amount as a bare JSON number without going through float64.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Amount.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (m *Money) UnmarshalJSON(b []byte) error {
	return m.Amount.UnmarshalJSON(b)
}
