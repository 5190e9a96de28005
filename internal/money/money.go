// Package money rounds monetary amounts to cents.
package money

import (
	"errors"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrNotNumeric = errors.New("not a numeric value")
	ErrOutOfRange = errors.New("amount out of range")
)

const places = 2

// Parse reads a decimal string such as "12.5" without rounding it.
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, ErrNotNumeric
	}
	return d, nil
}

// Amount rounds d half away from zero to two decimals (9.999 -> 10.00,
// 10.005 -> 10.01) and returns it as stored. Amounts a float64 cannot hold
// are rejected with ErrOutOfRange.
func Amount(d decimal.Decimal) (float64, error) {
	v := d.Round(places).InexactFloat64()
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, ErrOutOfRange
	}
	return v, nil
}

// Line is one priced line of an order.
type Line struct {
	Price    float64
	Quantity int
}

// Total returns round2(Σ price × quantity). Summation is exact; rounding
// happens once at the end.
func Total(lines []Line) (float64, error) {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(decimal.NewFromFloat(l.Price).Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return Amount(sum)
}
