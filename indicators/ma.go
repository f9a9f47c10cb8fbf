package indicators

import (
	"github.com/rustyeddy/swing/pricing"
)

// EWM returns the exponentially weighted mean of values with the given span
// (alpha = 2/(span+1)).
//
// Weights are adjusted for the short history at the start of the series, so
// the first value equals the first observation and the series is defined
// from bar zero:
//
//	ewm[t] = sum((1-a)^i * x[t-i]) / sum((1-a)^i)
//
// A NaN observation is skipped: it contributes no weight and the previous
// mean carries forward, while older weights keep decaying.
func EWM(values []float64, span int) ([]float64, error) {
	if err := checkPeriod(span); err != nil {
		return nil, err
	}

	alpha := 2.0 / float64(span+1)
	decay := 1 - alpha

	out := undefinedSeries(len(values))
	num, den := 0.0, 0.0
	for i, x := range values {
		num *= decay
		den *= decay
		if pricing.Defined(x) {
			num += x
			den++
		}
		if den > 0 {
			out[i] = num / den
		}
	}
	return out, nil
}

// RollingMean returns the mean of each trailing window of period values,
// current value included. Undefined until period values exist.
func RollingMean(values []float64, period int) ([]float64, error) {
	if err := checkPeriod(period); err != nil {
		return nil, err
	}

	out := undefinedSeries(len(values))
	for i := period - 1; i < len(values); i++ {
		sum := 0.0
		ok := true
		for _, x := range values[i-period+1 : i+1] {
			if !pricing.Defined(x) {
				ok = false
				break
			}
			sum += x
		}
		if ok {
			out[i] = sum / float64(period)
		}
	}
	return out, nil
}
