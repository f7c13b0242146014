// Package types provides common numeric and calendar types used across the ledger.
package types

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

// Rounding scales used when values leave the engine.
const (
	// QuantityPlaces is applied to masses, volumes and percentages in reports.
	QuantityPlaces int32 = 3
	// RatePlaces is applied to per-unit prices.
	RatePlaces int32 = 3
	// AmountPlaces is applied to line totals.
	AmountPlaces int32 = 2
)

// NewMoney creates a Money value from a float.
// WARNING: Use NewMoneyFromString for precise values.
func NewMoney(f float64) Money {
	return decimal.NewFromFloat(f)
}

// NewMoneyFromString creates a Money value from a string.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustDecimal creates a decimal from a string, panics on error.
// Use only for constants and tests.
func MustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Zero returns zero Money value.
func Zero() Money {
	return decimal.Zero
}

// Hundred is the percent divisor.
var Hundred = decimal.NewFromInt(100)

// PercentOf returns pct% of base.
func PercentOf(pct, base decimal.Decimal) decimal.Decimal {
	return pct.Div(Hundred).Mul(base)
}

// RoundQty rounds a mass, volume or percentage for display.
func RoundQty(d decimal.Decimal) decimal.Decimal {
	return d.Round(QuantityPlaces)
}

// Quantity is a fixed-point quantity with 4 decimal places (scale = 1e4).
// Stored as BIGINT in the stock register.
type Quantity int64

const QuantityScale int64 = 10_000

// NewQuantityFromDecimal scales d to 4 places, rounding half away from zero.
func NewQuantityFromDecimal(d decimal.Decimal) Quantity {
	return Quantity(d.Shift(4).Round(0).IntPart())
}

func NewQuantityFromInt64Scaled(v int64) Quantity { return Quantity(v) }

func (q Quantity) Int64Scaled() int64 { return int64(q) }

// Decimal converts q back to an exact decimal.
func (q Quantity) Decimal() decimal.Decimal { return decimal.New(int64(q), -4) }

func (q Quantity) IsZero() bool { return q == 0 }

func (q Quantity) IsPositive() bool { return q > 0 }

func (q Quantity) Neg() Quantity { return -q }

// String returns a decimal string with 4 fractional digits.
func (q Quantity) String() string {
	v := q
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%04d", sign, int64(v)/QuantityScale, int64(v)%QuantityScale)
}
