// Package strategies holds the entry and exit rules the backtest engine and
// scanner evaluate bar by bar.
package strategies

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/swing/pricing"
	"github.com/rustyeddy/swing/sim"
)

// Exit reasons recorded on closed trades.
const (
	ReasonStop      = "STOP"
	ReasonBreakdown = "BREAKDOWN"
	ReasonTarget    = "TARGET"
)

// Signal is the outcome of an entry evaluation. Entries fill at the bar
// close. Target is NaN when the rule has no fixed target.
type Signal struct {
	Triggered bool
	Entry     float64
	Stop      float64
	Target    float64
	Reason    string
}

func noSignal() Signal {
	return Signal{Entry: pricing.Undefined(), Stop: pricing.Undefined(), Target: pricing.Undefined()}
}

// Rule decides entries and exits. Implementations are pure functions of
// their inputs and safe to share.
type Rule interface {
	Name() string
	EvaluateEntry(b pricing.Bar) Signal
	// EvaluateExit returns the fill price when p should close on b.
	EvaluateExit(p sim.Position, b pricing.Bar) (price float64, reason string, ok bool)
}

// Config selects and parameterises a rule.
type Config struct {
	Name     string        `yaml:"name" json:"name"`
	Breakout BreakoutTrend `yaml:"breakout" json:"breakout"`
	VCP      VCP           `yaml:"vcp" json:"vcp"`
}

func DefaultConfig() Config {
	return Config{
		Name:     BreakoutTrendName,
		Breakout: DefaultBreakoutTrend(),
		VCP:      DefaultVCP(),
	}
}

// Names lists the rules ByName accepts.
func Names() []string {
	return []string{BreakoutTrendName, VCPName, NoopName}
}

// ByName builds the rule called name from cfg.
func ByName(name string, cfg Config) (Rule, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case BreakoutTrendName, "breakout", "breakout_trend":
		r := cfg.Breakout
		if err := r.validate(); err != nil {
			return nil, err
		}
		return &r, nil
	case VCPName, "volatility-contraction":
		r := cfg.VCP
		if err := r.validate(); err != nil {
			return nil, err
		}
		return &r, nil
	case NoopName, "none":
		return Noop{}, nil
	default:
		return nil, fmt.Errorf("unknown strategy %q (supported: %s)", name, strings.Join(Names(), ", "))
	}
}

// stopExit is the shared first exit check: a bar trading through the stop
// fills at the stop even when it gaps below it.
func stopExit(p sim.Position, b pricing.Bar) (float64, string, bool) {
	if p.StopHit(b) {
		return p.Stop, ReasonStop, true
	}
	return 0, "", false
}

func allDefined(xs ...float64) bool {
	for _, x := range xs {
		if !pricing.Defined(x) {
			return false
		}
	}
	return true
}
