package pricing

import (
	"math"
	"time"
)

// DateLayout is the calendar-date format used by CSV files, configs and the CLI.
const DateLayout = "2006-01-02"

// Bar is one daily OHLCV row for a symbol plus the indicator values derived
// from that symbol's history. Derived fields are NaN while undefined; use
// Defined before comparing against them.
type Bar struct {
	Date   time.Time
	Symbol string

	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64

	TrendLong      float64 // long EWM of close
	TrendShort     float64 // short EWM of close
	TrendShortPrev float64 // TrendShort a few bars back (slope check)
	BreakoutHigh   float64 // highest high of the prior N bars
	BreakdownLow   float64 // lowest low of the prior M bars
	VolumeAvg      float64 // rolling mean volume, current bar included
	Volatility     float64 // rolling mean true range
	VolatilityAvg  float64 // rolling mean of Volatility

	MarketOK bool
}

// Regime is the benchmark trend flag for one date.
type Regime struct {
	Date time.Time
	OK   bool
}

// Undefined is the sentinel for an indicator value that cannot be computed yet.
func Undefined() float64 { return math.NaN() }

// Defined reports whether x holds a usable value.
func Defined(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// Day normalizes t to midnight UTC of its calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string. The empty string yields the zero time.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}

// InRange reports whether t falls in [from, to]; zero bounds are open.
func InRange(t, from, to time.Time) bool {
	if !from.IsZero() && t.Before(from) {
		return false
	}
	if !to.IsZero() && t.After(to) {
		return false
	}
	return true
}
