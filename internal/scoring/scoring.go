// Package scoring holds the numeric building blocks shared by the trade score,
// complexity and match engines. Everything here is pure and goroutine-safe.
package scoring

import (
	"errors"
	"fmt"
	"math"
)

// Term is one weighted contribution to a composite score.
type Term struct {
	Value  float64
	Weight float64
}

// Clamp bounds value to [lo, hi].
func Clamp(value, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, value))
}

// WeightedSum returns the sum of value*weight over all terms.
func WeightedSum(terms []Term) float64 {
	total := 0.0
	for _, t := range terms {
		total += t.Value * t.Weight
	}
	return total
}

// Round1 rounds to one decimal place, half away from zero.
func Round1(value float64) float64 {
	return math.Round(value*10) / 10
}

// InvalidRangeError reports malformed numeric input. Engines return it before
// computing anything; inputs are never clamped into range.
type InvalidRangeError struct {
	Field string
	Value float64
	Min   float64
	Max   float64
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("%s must be between %g and %g, got %g", e.Field, e.Min, e.Max, e.Value)
}

// CheckRange returns an *InvalidRangeError when value is NaN or outside [lo, hi].
func CheckRange(field string, value, lo, hi float64) error {
	if math.IsNaN(value) || value < lo || value > hi {
		return &InvalidRangeError{Field: field, Value: value, Min: lo, Max: hi}
	}
	return nil
}

// CheckOrdered rejects a range whose upper bound is below its lower bound.
func CheckOrdered(field string, lo, hi float64) error {
	if math.IsNaN(lo) || math.IsNaN(hi) || hi < lo {
		return &InvalidRangeError{Field: field + ".max", Value: hi, Min: lo, Max: math.Inf(1)}
	}
	return nil
}

// IsInvalidRange reports whether err carries an *InvalidRangeError.
func IsInvalidRange(err error) bool {
	var target *InvalidRangeError
	return errors.As(err, &target)
}
