// Package types provides common value types shared by the domain packages.
package types

import (
	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
type Money = decimal.Decimal

// MoneyScale is the number of fractional digits stored and printed for amounts.
const MoneyScale int32 = 2

var hundred = decimal.NewFromInt(100)

// NewMoneyFromString creates a Money value from a string.
func NewMoneyFromString(s string) (Money, error) {
	return decimal.NewFromString(s)
}

// MustMoney creates a Money value from a string, panics on error.
// Use only for constants and tests.
func MustMoney(s string) Money {
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

// LineAmount returns quantity × unit price rounded to cents.
func LineAmount(quantity int, unitPrice Money) Money {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(MoneyScale)
}

// Sum adds up all values.
func Sum(values ...Money) Money {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

// Percent returns 100 × part / whole, or zero when whole is not positive.
func Percent(part, whole Money) decimal.Decimal {
	if !whole.IsPositive() {
		return decimal.Zero
	}
	return part.Mul(hundred).Div(whole)
}

// FormatMoney prints an amount with exactly two decimals.
func FormatMoney(m Money) string {
	return m.StringFixed(MoneyScale)
}
