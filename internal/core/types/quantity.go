// Package types provides common type aliases and utilities.
package types

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Quantity represents a stock or exchange quantity with full precision.
// Uses decimal.Decimal to avoid floating-point errors in day-weighted sums.
type Quantity = decimal.Decimal

// Zero returns a zero Quantity.
func Zero() Quantity {
	return decimal.Zero
}

// NewQuantity creates a Quantity from an integer count.
func NewQuantity(n int64) Quantity {
	return decimal.NewFromInt(n)
}

// MustQuantity creates a Quantity from a string, panics on error.
// Use only for constants and tests.
func MustQuantity(s string) Quantity {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// placeholders that source spreadsheets use for "no value".
var emptyMarkers = map[string]bool{"": true, "-": true, "–": true, "—": true}

// ParseQuantity converts a raw cell value to a Quantity. Decimal commas are
// accepted; empty strings and dash placeholders parse to zero, matching the
// source data's convention for absent readings.
func ParseQuantity(raw string) (Quantity, error) {
	s := strings.TrimSpace(raw)
	if emptyMarkers[s] {
		return decimal.Zero, nil
	}
	s = strings.ReplaceAll(s, ",", ".")
	return decimal.NewFromString(s)
}

// MaxZero clamps negative values to zero.
func MaxZero(q Quantity) Quantity {
	if q.IsNegative() {
		return decimal.Zero
	}
	return q
}
