package sim

import (
	"time"

	"github.com/rustyeddy/swing/pricing"
)

// Position is an open long holding in one symbol. It is created by a
// successful entry and is never mutated afterwards.
//
// Quantity * RiskPerShare == RiskAmount within floating tolerance.
type Position struct {
	ID         string
	Symbol     string
	EntryPrice float64
	Stop       float64
	Target     float64 // NaN when the rule has no fixed target

	Quantity     float64
	RiskAmount   float64
	RiskPerShare float64

	OpenDate time.Time
	Reason   string
}

// HasTarget reports whether the position carries a fixed profit target.
func (p Position) HasTarget() bool {
	return pricing.Defined(p.Target)
}

// StopHit reports whether bar b trades through the stop. A stop touch always
// wins over any other exit on the same bar.
func (p Position) StopHit(b pricing.Bar) bool {
	return pricing.Defined(p.Stop) && b.Low <= p.Stop
}

// TargetHit reports whether bar b reaches the fixed target.
func (p Position) TargetHit(b pricing.Bar) bool {
	return p.HasTarget() && b.High >= p.Target
}
