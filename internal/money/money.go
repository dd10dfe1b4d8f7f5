package money

import (
	"errors"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits carried by an Amount.
const Scale = 2

var (
	// ErrMalformed is returned when a string cannot be read as a decimal number.
	ErrMalformed = errors.New("malformed amount")
	// ErrTooPrecise is returned for inputs with more fractional digits than Scale.
	ErrTooPrecise = errors.New("amount has more than two decimal places")
	// ErrOutOfRange is returned for values that do not fit in an Amount.
	ErrOutOfRange = errors.New("amount out of range")
)

var (
	maxCents = decimal.NewFromInt(math.MaxInt64)
	minCents = decimal.NewFromInt(math.MinInt64)
)

// Amount is a currency value expressed in minor units (cents).
type Amount int64

// Max is the largest representable Amount.
const Max Amount = math.MaxInt64

// FromUnits builds an Amount from whole currency units.
func FromUnits(units int64) Amount {
	return Amount(units * 100)
}

// Parse reads a decimal string such as "100", "100.5" or "100,50" into an Amount.
// Negative values are accepted; rule checks decide whether they are valid.
func Parse(s string) (Amount, error) {
	s = strings.TrimSpace(strings.Replace(s, ",", ".", 1))
	if s == "" {
		return 0, ErrMalformed
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrMalformed
	}
	shifted := d.Shift(Scale)
	if !shifted.IsInteger() {
		return 0, ErrTooPrecise
	}
	if shifted.GreaterThan(maxCents) || shifted.LessThan(minCents) {
		return 0, ErrOutOfRange
	}
	return Amount(shifted.IntPart()), nil
}

// MustParse is Parse for constants and tests.
func MustParse(s string) Amount {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// Decimal returns the amount as a decimal in major units.
func (a Amount) Decimal() decimal.Decimal {
	return decimal.New(int64(a), -Scale)
}

// String formats the amount with exactly two decimal places, e.g. "1500.00".
func (a Amount) String() string {
	return a.Decimal().StringFixed(Scale)
}

// IsPositive reports whether a > 0.
func (a Amount) IsPositive() bool {
	return a > 0
}

// MarshalText renders the amount as its decimal string.
func (a Amount) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText parses a decimal string.
func (a *Amount) UnmarshalText(b []byte) error {
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*a = v
	return nil
}
