package indicators

import (
	"math"

	"github.com/rustyeddy/swing/pricing"
)

// TrueRange returns max(high-low, |high-prevClose|, |low-prevClose|) for each
// bar. The first bar has no previous close and is undefined.
func TrueRange(bars []pricing.Bar) []float64 {
	out := undefinedSeries(len(bars))
	for i := 1; i < len(bars); i++ {
		out[i] = trueRange(bars[i], bars[i-1])
	}
	return out
}

// ATR is the simple rolling mean of the true range over period bars.
func ATR(bars []pricing.Bar, period int) ([]float64, error) {
	return RollingMean(TrueRange(bars), period)
}

func trueRange(current, previous pricing.Bar) float64 {
	highLow := current.High - current.Low
	highClose := math.Abs(current.High - previous.Close)
	lowClose := math.Abs(current.Low - previous.Close)

	return math.Max(highLow, math.Max(highClose, lowClose))
}
