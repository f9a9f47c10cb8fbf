package risk

import (
	"errors"
	"fmt"

	"github.com/rustyeddy/swing/pricing"
)

var (
	// ErrInvalidRisk means the stop is missing or not below the entry.
	ErrInvalidRisk = errors.New("invalid risk per share")
	// ErrNoCapital means there is no capital left to risk.
	ErrNoCapital = errors.New("no capital to risk")
)

// Sizing is the outcome of fixed-fractional position sizing.
type Sizing struct {
	RiskAmount   float64
	RiskPerShare float64
	Quantity     float64
}

// Size risks riskPct of capital on a long entry with the given stop:
//
//	RiskAmount   = capital * riskPct
//	RiskPerShare = entry - stop
//	Quantity     = RiskAmount / RiskPerShare
//
// Quantities are fractional so that Quantity*RiskPerShare == RiskAmount.
func Size(capital, riskPct, entry, stop float64) (Sizing, error) {
	if !pricing.Defined(entry) || !pricing.Defined(stop) {
		return Sizing{}, fmt.Errorf("entry %v stop %v: %w", entry, stop, ErrInvalidRisk)
	}
	rps := entry - stop
	if rps <= 0 {
		return Sizing{}, fmt.Errorf("entry %.4f stop %.4f: %w", entry, stop, ErrInvalidRisk)
	}
	riskAmt := capital * riskPct
	if riskAmt <= 0 {
		return Sizing{}, fmt.Errorf("capital %.2f: %w", capital, ErrNoCapital)
	}

	return Sizing{
		RiskAmount:   riskAmt,
		RiskPerShare: rps,
		Quantity:     riskAmt / rps,
	}, nil
}
