// Package money holds fixed-point currency amounts as integer hundredths.
package money

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"github.com/thetanav/trading-system/pkg/errors"
)

// Cents is an amount of currency in hundredths of a unit.
type Cents int64

var (
	// ErrPrecision is returned when an amount has more than two fractional digits.
	ErrPrecision = errors.NewErrorDetails("amount must have at most two decimal places", string(errors.InvalidPriceError), "price")
	// ErrOutOfRange is returned when an amount does not fit in Cents.
	ErrOutOfRange = errors.NewErrorDetails("amount is out of range", string(errors.InvalidPriceError), "price")

	hundred = decimal.NewFromInt(100)
)

// FromDecimal converts d to Cents. Trailing zeros beyond the second decimal are accepted.
func FromDecimal(d decimal.Decimal) (Cents, error) {
	if !d.Equal(d.Round(2)) {
		return 0, ErrPrecision
	}
	scaled := d.Mul(hundred)
	if scaled.GreaterThan(decimal.NewFromInt(math.MaxInt64)) || scaled.LessThan(decimal.NewFromInt(math.MinInt64)) {
		return 0, ErrOutOfRange
	}
	return Cents(scaled.IntPart()), nil
}

// Parse reads a decimal string such as "100.25".
func Parse(s string) (Cents, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, errors.NewErrorDetails(fmt.Sprintf("%q is not a decimal amount", s), string(errors.InvalidPriceError), "price")
	}
	return FromDecimal(d)
}

// MustParse is Parse for constants; it panics on malformed input.
func MustParse(s string) Cents {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// FromUnits returns n whole units.
func FromUnits(n int64) Cents {
	return Cents(n * 100)
}

// Decimal returns the exact decimal value of c.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.New(int64(c), -2)
}

// Mul returns c multiplied by qty.
func (c Cents) Mul(qty int64) Cents {
	return c * Cents(qty)
}

// String formats c with exactly two decimals.
func (c Cents) String() string {
	return c.Decimal().StringFixed(2)
}

// MarshalJSON encodes c as a JSON number with two decimals.
func (c Cents) MarshalJSON() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (c *Cents) UnmarshalJSON(data []byte) error {
	var d decimal.Decimal
	if err := d.UnmarshalJSON(data); err != nil {
		return errors.NewErrorDetails("amount is not a decimal", string(errors.InvalidPriceError), "price")
	}
	v, err := FromDecimal(d)
	if err != nil {
		return err
	}
	*c = v
	return nil
}
