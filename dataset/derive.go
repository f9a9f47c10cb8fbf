package dataset

import (
	"fmt"
	"time"

	"github.com/rustyeddy/swing/indicators"
	"github.com/rustyeddy/swing/pricing"
)

// Periods are the look-back windows of the derived bar fields.
type Periods struct {
	TrendLong     int `yaml:"trend_long" json:"trend_long"`
	TrendShort    int `yaml:"trend_short" json:"trend_short"`
	SlopeLookback int `yaml:"slope_lookback" json:"slope_lookback"`
	BreakoutHigh  int `yaml:"breakout_high" json:"breakout_high"`
	BreakdownLow  int `yaml:"breakdown_low" json:"breakdown_low"`
	VolumeAvg     int `yaml:"volume_avg" json:"volume_avg"`
	Volatility    int `yaml:"volatility" json:"volatility"`
	VolatilityAvg int `yaml:"volatility_avg" json:"volatility_avg"`
	RegimeTrend   int `yaml:"regime_trend" json:"regime_trend"`
}

func DefaultPeriods() Periods {
	return Periods{
		TrendLong:     200,
		TrendShort:    50,
		SlopeLookback: 5,
		BreakoutHigh:  20,
		BreakdownLow:  10,
		VolumeAvg:     20,
		Volatility:    14,
		VolatilityAvg: 50,
		RegimeTrend:   200,
	}
}

// withDefaults fills zero periods.
func (p Periods) withDefaults() Periods {
	d := DefaultPeriods()
	set := func(v *int, def int) {
		if *v <= 0 {
			*v = def
		}
	}
	set(&p.TrendLong, d.TrendLong)
	set(&p.TrendShort, d.TrendShort)
	set(&p.SlopeLookback, d.SlopeLookback)
	set(&p.BreakoutHigh, d.BreakoutHigh)
	set(&p.BreakdownLow, d.BreakdownLow)
	set(&p.VolumeAvg, d.VolumeAvg)
	set(&p.Volatility, d.Volatility)
	set(&p.VolatilityAvg, d.VolatilityAvg)
	set(&p.RegimeTrend, d.RegimeTrend)
	return p
}

// Derive returns a copy of bars with every derived field filled in.
// Breakout and breakdown levels only look at prior bars. MarketOK is left
// false; the builder merges the regime afterwards.
func Derive(bars []pricing.Bar, p Periods) ([]pricing.Bar, error) {
	p = p.withDefaults()

	closes := indicators.Closes(bars)

	trendLong, err := indicators.EWM(closes, p.TrendLong)
	if err != nil {
		return nil, fmt.Errorf("trend long: %w", err)
	}
	trendShort, err := indicators.EWM(closes, p.TrendShort)
	if err != nil {
		return nil, fmt.Errorf("trend short: %w", err)
	}
	trendShortPrev, err := indicators.Shift(trendShort, p.SlopeLookback)
	if err != nil {
		return nil, fmt.Errorf("trend slope: %w", err)
	}
	hi, err := indicators.PriorMax(indicators.Highs(bars), p.BreakoutHigh)
	if err != nil {
		return nil, fmt.Errorf("breakout high: %w", err)
	}
	lo, err := indicators.PriorMin(indicators.Lows(bars), p.BreakdownLow)
	if err != nil {
		return nil, fmt.Errorf("breakdown low: %w", err)
	}
	vol, err := indicators.RollingMean(indicators.Volumes(bars), p.VolumeAvg)
	if err != nil {
		return nil, fmt.Errorf("volume avg: %w", err)
	}
	atr, err := indicators.ATR(bars, p.Volatility)
	if err != nil {
		return nil, fmt.Errorf("volatility: %w", err)
	}
	atrAvg, err := indicators.RollingMean(atr, p.VolatilityAvg)
	if err != nil {
		return nil, fmt.Errorf("volatility avg: %w", err)
	}

	out := make([]pricing.Bar, len(bars))
	for i, b := range bars {
		b.TrendLong = trendLong[i]
		b.TrendShort = trendShort[i]
		b.TrendShortPrev = trendShortPrev[i]
		b.BreakoutHigh = hi[i]
		b.BreakdownLow = lo[i]
		b.VolumeAvg = vol[i]
		b.Volatility = atr[i]
		b.VolatilityAvg = atrAvg[i]
		b.MarketOK = false
		out[i] = b
	}
	return out, nil
}

// Regime flags each benchmark date whose close is above the benchmark's
// long trend average.
func Regime(bench []pricing.Bar, period int) ([]pricing.Regime, error) {
	trend, err := indicators.EWM(indicators.Closes(bench), period)
	if err != nil {
		return nil, fmt.Errorf("regime trend: %w", err)
	}
	out := make([]pricing.Regime, len(bench))
	for i, b := range bench {
		out[i] = pricing.Regime{
			Date: pricing.Day(b.Date),
			OK:   pricing.Defined(trend[i]) && b.Close > trend[i],
		}
	}
	return out, nil
}

// regimeIndex is a date keyed view of a regime series. A nil index means
// no benchmark was configured and every date is ok.
type regimeIndex map[time.Time]bool

func newRegimeIndex(rs []pricing.Regime) regimeIndex {
	idx := make(regimeIndex, len(rs))
	for _, r := range rs {
		idx[pricing.Day(r.Date)] = r.OK
	}
	return idx
}

func (idx regimeIndex) apply(bars []pricing.Bar) {
	for i := range bars {
		if idx == nil {
			bars[i].MarketOK = true
			continue
		}
		bars[i].MarketOK = idx[pricing.Day(bars[i].Date)]
	}
}
