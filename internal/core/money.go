// Money parsing and fixed-point arithmetic.
//
// Ledger amounts are ISK with two fractional digits, held as scaled int64
// cents. All arithmetic is exact; conversion to float64 is one-way and
// reserved for rendering.
package core

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Money is an exact fixed-point amount (value x 100 stored as int64).
// The zero value is the identity for sums.
type Money struct {
	cents int64
}

// NewMoney builds a Money from a scaled-integer cent count.
func NewMoney(cents int64) Money {
	return Money{cents: cents}
}

// ParseMoney parses a signed decimal string with at most two fractional
// digits. More precision is rejected with ErrPrecisionLoss rather than
// truncated.
func ParseMoney(s string) (Money, error) {
	s = strings.TrimSpace(s)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("parse amount %q: %w", s, err)
	}
	return MoneyFromDecimal(d)
}

// MoneyFromDecimal converts an arbitrary-precision decimal to Money exactly.
func MoneyFromDecimal(d decimal.Decimal) (Money, error) {
	if !d.Equal(d.Round(2)) {
		return Money{}, fmt.Errorf("%w: %s", ErrPrecisionLoss, d)
	}
	scaled := d.Shift(2)
	if !scaled.IsInteger() || !scaled.BigInt().IsInt64() {
		return Money{}, fmt.Errorf("%w: %s", ErrPrecisionLoss, d)
	}
	return Money{cents: scaled.IntPart()}, nil
}

// Cents returns the underlying scaled integer.
func (m Money) Cents() int64 { return m.cents }

// Add returns m + x, failing on int64 overflow instead of wrapping.
func (m Money) Add(x Money) (Money, error) {
	sum := m.cents + x.cents
	if (m.cents > 0 && x.cents > 0 && sum < 0) || (m.cents < 0 && x.cents < 0 && sum >= 0) {
		return Money{}, fmt.Errorf("%w: %d + %d", ErrOverflow, m.cents, x.cents)
	}
	return Money{cents: sum}, nil
}

// Sub returns m - x, failing on int64 overflow.
func (m Money) Sub(x Money) (Money, error) {
	if x.cents == math.MinInt64 {
		return Money{}, fmt.Errorf("%w: negating %d", ErrOverflow, x.cents)
	}
	return m.Add(Money{cents: -x.cents})
}

// MulRate multiplies by a non-negative rate, rounding half-up to two digits.
func (m Money) MulRate(rate decimal.Decimal) (Money, error) {
	if rate.IsNegative() {
		return Money{}, fmt.Errorf("%w: %s", ErrInvalidRate, rate)
	}
	product := decimal.New(m.cents, -2).Mul(rate).Round(2).Shift(2)
	if !product.BigInt().IsInt64() {
		return Money{}, fmt.Errorf("%w: %s * %s", ErrOverflow, m, rate)
	}
	return Money{cents: product.IntPart()}, nil
}

// MulInt64 multiplies by an integer count (e.g. a rate applied per
// participation point), failing on overflow.
func (m Money) MulInt64(n int64) (Money, error) {
	if m.cents != 0 && n != 0 {
		if m.cents == math.MinInt64 && n == -1 {
			return Money{}, fmt.Errorf("%w: %d * %d", ErrOverflow, m.cents, n)
		}
		if (m.cents*n)/n != m.cents {
			return Money{}, fmt.Errorf("%w: %d * %d", ErrOverflow, m.cents, n)
		}
	}
	return Money{cents: m.cents * n}, nil
}

// Neg returns -m.
func (m Money) Neg() Money { return Money{cents: -m.cents} }

func (m Money) IsZero() bool     { return m.cents == 0 }
func (m Money) IsPositive() bool { return m.cents > 0 }
func (m Money) IsNegative() bool { return m.cents < 0 }

// Cmp compares two amounts: -1 if m < x, 0 if equal, +1 if m > x.
func (m Money) Cmp(x Money) int {
	switch {
	case m.cents < x.cents:
		return -1
	case m.cents > x.cents:
		return 1
	default:
		return 0
	}
}

// String renders the exact decimal form, e.g. NewMoney(12723) -> "127.23".
func (m Money) String() string {
	return decimal.New(m.cents, -2).StringFixed(2)
}

// Float64 is the lossy display conversion. Never feed the result back into
// arithmetic.
func (m Money) Float64() float64 {
	return float64(m.cents) / 100.0
}
