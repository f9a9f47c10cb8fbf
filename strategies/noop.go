package strategies

import (
	"github.com/rustyeddy/swing/pricing"
	"github.com/rustyeddy/swing/sim"
)

const NoopName = "noop"

// Noop never enters. Open positions still honour their stop.
type Noop struct{}

func (Noop) Name() string { return NoopName }

func (Noop) EvaluateEntry(pricing.Bar) Signal { return noSignal() }

func (Noop) EvaluateExit(p sim.Position, b pricing.Bar) (float64, string, bool) {
	return stopExit(p, b)
}
