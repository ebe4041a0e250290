// Package core holds the domain model and the dashboard aggregation engine.
//
// All money amounts are carried as int64 cents so that sums stay exact;
// float64 appears only at the JSON boundary and inside the single division
// of a percentage helper.
package core

import "math"

// Money is a fixed-point amount in cents.
type Money struct {
	Cents int64
}

// CentsFromFloat converts a decimal amount (as received in JSON) to cents
// with half-up rounding. NaN and infinities map to zero.
func CentsFromFloat(v float64) int64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int64(math.Round(v * 100))
}

// MoneyFromFloat builds a Money value from a decimal amount.
func MoneyFromFloat(v float64) Money {
	return Money{Cents: CentsFromFloat(v)}
}

// Yuan returns the decimal value for display and JSON serialization.
// Use Cents for arithmetic.
func (m Money) Yuan() float64 {
	return float64(m.Cents) / 100.0
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return Money{Cents: m.Cents + other.Cents}
}

// Sub returns m - other. The result may be negative.
func (m Money) Sub(other Money) Money {
	return Money{Cents: m.Cents - other.Cents}
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m.Cents < 0
}

// Abs returns the absolute amount.
func (m Money) Abs() Money {
	if m.Cents < 0 {
		return Money{Cents: -m.Cents}
	}
	return m
}

// Validate rejects non-positive amounts. Ledger entries and debt principals
// must be strictly positive.
func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Percent1 computes num/den as a percentage rounded to one decimal place.
// A zero or negative denominator yields 0; a zero target or zero principal
// is a valid degenerate state, not an error. Every percentage in the engine
// goes through this helper so the divide guard lives in exactly one place.
func Percent1(num, den int64) float64 {
	if den <= 0 {
		return 0
	}
	return math.Round(float64(num)/float64(den)*1000) / 10
}

// PercentInt computes num/den as a truncated integer percentage, guarding
// the denominator the same way as Percent1.
func PercentInt(num, den int64) int {
	if den <= 0 {
		return 0
	}
	return int(float64(num) / float64(den) * 100)
}
