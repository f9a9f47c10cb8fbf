package indicators

import (
	"fmt"

	"github.com/rustyeddy/swing/pricing"
)

// RollingMax returns the highest value in each trailing window of period
// values, current value included.
func RollingMax(values []float64, period int) ([]float64, error) {
	return rollingExtreme(values, period, func(a, b float64) bool { return a > b })
}

// RollingMin returns the lowest value in each trailing window of period
// values, current value included.
func RollingMin(values []float64, period int) ([]float64, error) {
	return rollingExtreme(values, period, func(a, b float64) bool { return a < b })
}

func rollingExtreme(values []float64, period int, better func(a, b float64) bool) ([]float64, error) {
	if err := checkPeriod(period); err != nil {
		return nil, err
	}

	out := undefinedSeries(len(values))
	for i := period - 1; i < len(values); i++ {
		best := values[i-period+1]
		ok := pricing.Defined(best)
		for _, x := range values[i-period+2 : i+1] {
			if !ok {
				break
			}
			if !pricing.Defined(x) {
				ok = false
				break
			}
			if better(x, best) {
				best = x
			}
		}
		if ok {
			out[i] = best
		}
	}
	return out, nil
}

// Shift moves values k bars forward: out[i] = values[i-k]. The first k
// positions are undefined. Shifting a rolling window by one makes it cover
// prior bars only.
func Shift(values []float64, k int) ([]float64, error) {
	if k < 0 {
		return nil, fmt.Errorf("shift must be non-negative, got %d", k)
	}
	out := undefinedSeries(len(values))
	for i := k; i < len(values); i++ {
		out[i] = values[i-k]
	}
	return out, nil
}

// PriorMax is RollingMax over the period bars before each position.
func PriorMax(values []float64, period int) ([]float64, error) {
	m, err := RollingMax(values, period)
	if err != nil {
		return nil, err
	}
	return Shift(m, 1)
}

// PriorMin is RollingMin over the period bars before each position.
func PriorMin(values []float64, period int) ([]float64, error) {
	m, err := RollingMin(values, period)
	if err != nil {
		return nil, err
	}
	return Shift(m, 1)
}
