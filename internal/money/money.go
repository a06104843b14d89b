// Package money provides a fixed-point currency amount with two fractional digits.
//
// Amounts are stored as an integer count of minor units (cents). Every operation
// that can produce a fractional cent rounds half up (toward +Inf) at the cent, so
// the same inputs always reconstitute the same sums.
package money

import (
	"bytes"
	"database/sql/driver"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Scale is the number of fractional digits carried by Money.
const Scale = 2

// ErrInvalidAmount is returned when a string cannot be parsed as an amount.
var ErrInvalidAmount = errors.New("invalid amount")

var (
	half = decimal.New(5, -1)
	one  = decimal.NewFromInt(1)
	two  = decimal.NewFromInt(2)

	maxMinor = decimal.NewFromInt(math.MaxInt64)
	minMinor = decimal.NewFromInt(math.MinInt64)
)

// Money is an amount in minor units. The zero value is 0.00.
type Money int64

// Zero is 0.00.
const Zero Money = 0

// FromMinor returns the amount for the given number of minor units.
func FromMinor(minor int64) Money {
	return Money(minor)
}

// FromDecimal converts an amount in major units (e.g. 12.345) to Money,
// rounding half up at the cent. Amounts that do not fit in int64 minor units
// are rejected with ErrInvalidAmount.
func FromDecimal(d decimal.Decimal) (Money, error) {
	minor := d.Shift(Scale).Add(half).Floor()
	if minor.GreaterThan(maxMinor) || minor.LessThan(minMinor) {
		return Zero, fmt.Errorf("%w: %s is out of range", ErrInvalidAmount, d)
	}
	return Money(minor.IntPart()), nil
}

// Parse reads a decimal string such as "114", "57.5" or "-3.005".
func Parse(s string) (Money, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return Zero, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	return FromDecimal(d)
}

// MustParse is like Parse but panics on malformed input. Intended for tests and constants.
func MustParse(s string) Money {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

// Minor returns the amount as an integer count of minor units.
func (m Money) Minor() int64 {
	return int64(m)
}

// Decimal returns the amount in major units.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -Scale)
}

// String formats the amount with exactly two fractional digits.
func (m Money) String() string {
	return m.Decimal().StringFixed(Scale)
}

func (m Money) Add(o Money) Money { return m + o }

// AddChecked returns m + o, or false if the sum overflows.
func (m Money) AddChecked(o Money) (Money, bool) {
	sum := m + o
	if (o > 0 && sum < m) || (o < 0 && sum > m) {
		return m, false
	}
	return sum, true
}

func (m Money) Sub(o Money) Money { return m - o }

func (m Money) Neg() Money { return -m }

func (m Money) IsPositive() bool { return m > 0 }

func (m Money) IsNegative() bool { return m < 0 }

func (m Money) IsZero() bool { return m == 0 }

// MulPercent returns m × p / 100, rounded half up at the cent.
func (m Money) MulPercent(p decimal.Decimal) Money {
	return roundHalfUp(decimal.NewFromInt(int64(m)).Mul(p).Shift(-2))
}

// MulRatio returns m × num / den, rounded half up at the cent.
// A zero denominator yields zero.
func (m Money) MulRatio(num, den Money) Money {
	if den == 0 {
		return Zero
	}
	n := decimal.NewFromInt(int64(m)).Mul(decimal.NewFromInt(int64(num)))
	return quoHalfUp(n, decimal.NewFromInt(int64(den)))
}

// Quo returns m / d, rounded half up at the cent. A zero divisor yields zero.
func (m Money) Quo(d decimal.Decimal) Money {
	if d.IsZero() {
		return Zero
	}
	return quoHalfUp(decimal.NewFromInt(int64(m)), d)
}

// Div returns m / n, rounded half up at the cent. Use DivideEvenly when the
// parts must add back up to m.
func (m Money) Div(n int) Money {
	if n == 0 {
		return Zero
	}
	return quoHalfUp(decimal.NewFromInt(int64(m)), decimal.NewFromInt(int64(n)))
}

// DivideEvenly splits m into n parts that sum exactly to m. Each part is the
// floor share; the leftover minor units go one each to the first parts, so no
// two parts differ by more than one minor unit. It returns nil when n < 1.
func (m Money) DivideEvenly(n int) []Money {
	if n < 1 {
		return nil
	}
	q := int64(m) / int64(n)
	r := int64(m) % int64(n)
	if r < 0 {
		q--
		r += int64(n)
	}

	parts := make([]Money, n)
	for i := range parts {
		parts[i] = Money(q)
		if int64(i) < r {
			parts[i]++
		}
	}
	return parts
}

// Sum adds up the given amounts.
func Sum(amounts ...Money) Money {
	var total Money
	for _, a := range amounts {
		total += a
	}
	return total
}

// MarshalJSON encodes the amount as a JSON number with two fractional digits.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or a quoted decimal string.
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*m = Zero
		return nil
	}
	parsed, err := Parse(string(bytes.Trim(data, `"`)))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Value stores the amount as integer minor units.
func (m Money) Value() (driver.Value, error) {
	return int64(m), nil
}

// Scan reads integer minor units written by Value.
func (m *Money) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*m = Zero
	case int64:
		*m = Money(v)
	default:
		return fmt.Errorf("cannot scan %T into money.Money", src)
	}
	return nil
}

// roundHalfUp rounds a value already expressed in minor units.
func roundHalfUp(minor decimal.Decimal) Money {
	return Money(minor.Add(half).Floor().IntPart())
}

// quoHalfUp computes n / d in minor units exactly, as floor((2n + d) / 2d).
func quoHalfUp(n, d decimal.Decimal) Money {
	if d.IsNegative() {
		n, d = n.Neg(), d.Neg()
	}
	q, r := n.Mul(two).Add(d).QuoRem(d.Mul(two), 0)
	if r.IsNegative() {
		q = q.Sub(one)
	}
	return Money(q.IntPart())
}
