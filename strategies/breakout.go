package strategies

import (
	"fmt"

	"github.com/rustyeddy/swing/pricing"
	"github.com/rustyeddy/swing/sim"
)

const BreakoutTrendName = "breakout-trend"

// BreakoutTrend buys a close above the prior high in an uptrend on heavy
// volume. The stop is the prior breakdown low and there is no target.
type BreakoutTrend struct {
	BreakoutMargin float64 `yaml:"breakout_margin" json:"breakout_margin"`
	VolumeMultiple float64 `yaml:"volume_multiple" json:"volume_multiple"`
	RequireRegime  bool    `yaml:"require_regime" json:"require_regime"`
}

func DefaultBreakoutTrend() BreakoutTrend {
	return BreakoutTrend{
		BreakoutMargin: 0.005,
		VolumeMultiple: 1.5,
		RequireRegime:  true,
	}
}

func (r *BreakoutTrend) validate() error {
	if r.BreakoutMargin < 0 {
		return fmt.Errorf("%s: breakout_margin must be >= 0", BreakoutTrendName)
	}
	if r.VolumeMultiple < 0 {
		return fmt.Errorf("%s: volume_multiple must be >= 0", BreakoutTrendName)
	}
	return nil
}

func (r *BreakoutTrend) Name() string { return BreakoutTrendName }

func (r *BreakoutTrend) EvaluateEntry(b pricing.Bar) Signal {
	if r.RequireRegime && !b.MarketOK {
		return noSignal()
	}
	if !allDefined(b.Close, b.TrendLong, b.BreakoutHigh, b.VolumeAvg, b.BreakdownLow) {
		return noSignal()
	}

	trend := b.Close > b.TrendLong
	breakout := b.Close > b.BreakoutHigh*(1+r.BreakoutMargin)
	volume := b.Volume > r.VolumeMultiple*b.VolumeAvg
	if !trend || !breakout || !volume {
		return noSignal()
	}

	return Signal{
		Triggered: true,
		Entry:     b.Close,
		Stop:      b.BreakdownLow,
		Target:    pricing.Undefined(),
		Reason:    BreakoutTrendName,
	}
}

func (r *BreakoutTrend) EvaluateExit(p sim.Position, b pricing.Bar) (float64, string, bool) {
	if price, reason, ok := stopExit(p, b); ok {
		return price, reason, true
	}
	if pricing.Defined(b.BreakdownLow) && b.Close < b.BreakdownLow {
		return b.Close, ReasonBreakdown, true
	}
	return 0, "", false
}
