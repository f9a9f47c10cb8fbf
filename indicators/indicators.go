// Package indicators computes technical indicator series over daily bars.
//
// Every function returns a slice aligned with its input. Positions where a
// value cannot be computed yet hold NaN (see pricing.Undefined); NaN never
// turns into zero and any window containing NaN produces NaN.
package indicators

import (
	"fmt"

	"github.com/rustyeddy/swing/pricing"
)

func undefinedSeries(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = pricing.Undefined()
	}
	return out
}

func checkPeriod(period int) error {
	if period <= 0 {
		return fmt.Errorf("period must be positive, got %d", period)
	}
	return nil
}

// Closes extracts the close column.
func Closes(bars []pricing.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// Highs extracts the high column.
func Highs(bars []pricing.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.High
	}
	return out
}

// Lows extracts the low column.
func Lows(bars []pricing.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Low
	}
	return out
}

// Volumes extracts the volume column.
func Volumes(bars []pricing.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Volume
	}
	return out
}
