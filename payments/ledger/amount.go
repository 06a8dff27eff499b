package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount is a non-negative, arbitrary-precision quantity of funds.
//
// The zero value is the zero amount.
type Amount struct {
	value decimal.Decimal
}

// Zero is the zero amount.
var Zero = Amount{}

// NewAmount creates an Amount from d. Returns ErrNegativeAmount if d is negative.
func NewAmount(d decimal.Decimal) (Amount, error) {
	if d.IsNegative() {
		return Amount{}, ErrNegativeAmount
	}

	return Amount{value: d}, nil
}

// ParseAmount parses a decimal string such as "1.2345" into an Amount.
//
// Example:
//
//	amount, err := ledger.ParseAmount(row.Amount)
//	if err != nil {
//	    return fmt.Errorf("parse amount: %w", err)
//	}
func ParseAmount(s string) (Amount, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Amount{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}

	return NewAmount(d)
}

// Add returns a + other.
func (a Amount) Add(other Amount) Amount {
	return Amount{value: a.value.Add(other.value)}
}

// Sub returns a - other, clipped at zero.
//
// Balance transitions do not use Sub; they check sufficiency first, fail
// instead of clipping, and subtract with minus.
func (a Amount) Sub(other Amount) Amount {
	if a.value.LessThan(other.value) {
		return Zero
	}

	return a.minus(other)
}

// minus returns a - other without clipping. Callers must have checked
// a >= other.
func (a Amount) minus(other Amount) Amount {
	return Amount{value: a.value.Sub(other.value)}
}

// Cmp compares a and other and returns -1, 0 or +1.
func (a Amount) Cmp(other Amount) int {
	return a.value.Cmp(other.value)
}

// GreaterThanOrEqual reports whether a >= other.
func (a Amount) GreaterThanOrEqual(other Amount) bool {
	return a.value.GreaterThanOrEqual(other.value)
}

// Equal reports whether a and other represent the same quantity, regardless of scale.
func (a Amount) Equal(other Amount) bool {
	return a.value.Equal(other.value)
}

// IsZero reports whether a is zero.
func (a Amount) IsZero() bool {
	return a.value.IsZero()
}

// Decimal returns the underlying decimal value.
func (a Amount) Decimal() decimal.Decimal {
	return a.value
}

// String returns the amount with its stored precision.
func (a Amount) String() string {
	return a.value.String()
}

// StringFixed returns the amount truncated to places fractional digits and
// padded with zeros, so 1.23456 renders as "1.2345" for places=4.
func (a Amount) StringFixed(places int32) string {
	return a.value.Truncate(places).StringFixed(places)
}
