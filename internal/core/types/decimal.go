// Package types provides common type aliases and utilities.
package types

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money represents a monetary value with full precision.
// Uses decimal.Decimal to avoid floating-point errors.
type Money = decimal.Decimal

// NewMoneyFromInt creates a Money value from a whole amount.
func NewMoneyFromInt(v int64) Money {
	return decimal.NewFromInt(v)
}

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

// LineTotal returns quantity × price.
func LineTotal(quantity int, price Money) Money {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}

// ParseLooseMoney parses free-text amounts such as "1,250.50" or " 300 ".
// ok is false when the text holds no number.
func ParseLooseMoney(s string) (Money, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
