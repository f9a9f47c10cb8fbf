package strategies

import (
	"fmt"

	"github.com/rustyeddy/swing/pricing"
	"github.com/rustyeddy/swing/sim"
)

const VCPName = "vcp"

// VCP buys a breakout out of a volatility contraction inside an established
// uptrend, with a fixed target at RewardMultiple times the initial risk.
//
// SlopeLookback is applied when the dataset derives TrendShortPrev.
type VCP struct {
	ContractionRatio float64 `yaml:"contraction_ratio" json:"contraction_ratio"`
	VolumeMultiple   float64 `yaml:"volume_multiple" json:"volume_multiple"`
	RewardMultiple   float64 `yaml:"reward_multiple" json:"reward_multiple"`
	SlopeLookback    int     `yaml:"slope_lookback" json:"slope_lookback"`
	RequireRegime    bool    `yaml:"require_regime" json:"require_regime"`
}

func DefaultVCP() VCP {
	return VCP{
		ContractionRatio: 0.8,
		VolumeMultiple:   1.5,
		RewardMultiple:   2,
		SlopeLookback:    5,
	}
}

func (r *VCP) validate() error {
	if r.ContractionRatio <= 0 {
		return fmt.Errorf("%s: contraction_ratio must be > 0", VCPName)
	}
	if r.RewardMultiple <= 0 {
		return fmt.Errorf("%s: reward_multiple must be > 0", VCPName)
	}
	if r.VolumeMultiple < 0 {
		return fmt.Errorf("%s: volume_multiple must be >= 0", VCPName)
	}
	return nil
}

func (r *VCP) Name() string { return VCPName }

func (r *VCP) EvaluateEntry(b pricing.Bar) Signal {
	if r.RequireRegime && !b.MarketOK {
		return noSignal()
	}
	if !allDefined(b.Close, b.TrendLong, b.TrendShort, b.TrendShortPrev,
		b.Volatility, b.VolatilityAvg, b.BreakoutHigh, b.VolumeAvg, b.BreakdownLow) {
		return noSignal()
	}

	trend := b.Close > b.TrendLong && b.TrendShort > b.TrendLong && b.TrendShort > b.TrendShortPrev
	contraction := b.Volatility < r.ContractionRatio*b.VolatilityAvg
	breakout := b.Close > b.BreakoutHigh && b.Volume >= r.VolumeMultiple*b.VolumeAvg
	if !trend || !contraction || !breakout {
		return noSignal()
	}

	stop := b.BreakdownLow
	return Signal{
		Triggered: true,
		Entry:     b.Close,
		Stop:      stop,
		Target:    b.Close + r.RewardMultiple*(b.Close-stop),
		Reason:    VCPName,
	}
}

func (r *VCP) EvaluateExit(p sim.Position, b pricing.Bar) (float64, string, bool) {
	if price, reason, ok := stopExit(p, b); ok {
		return price, reason, true
	}
	if p.TargetHit(b) {
		return p.Target, ReasonTarget, true
	}
	return 0, "", false
}
