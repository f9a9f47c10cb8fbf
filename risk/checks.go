package risk

import "fmt"

type Violation struct {
	Code string
	Msg  string
}

type Decision struct {
	Allowed    bool
	Violations []Violation

	OpenRisk  float64
	NewRisk   float64
	RiskLimit float64 // 0 when the cap is disabled
}

func (d *Decision) add(code, msg string) {
	d.Violations = append(d.Violations, Violation{Code: code, Msg: msg})
	d.Allowed = false
}

// capTolerance absorbs float error when a sum of equal risk amounts lands
// exactly on the limit.
const capTolerance = 1e-9

// Allow decides whether a new position risking newRisk may open while
// openRisk is already committed and capital is the current capital.
func (p Policy) Allow(openRisk, newRisk, capital float64) Decision {
	d := Decision{Allowed: true, OpenRisk: openRisk, NewRisk: newRisk}

	if newRisk <= 0 {
		d.add("NO_RISK", fmt.Sprintf("risk amount %.2f must be positive", newRisk))
		return d
	}

	if !p.EnforcePortfolioCap {
		return d
	}

	d.RiskLimit = capital * p.MaxPortfolioRisk
	total := openRisk + newRisk
	if total > d.RiskLimit+capTolerance*max(1, d.RiskLimit) {
		d.add("PORTFOLIO_RISK_CAP",
			fmt.Sprintf("open risk %.2f + new %.2f exceeds limit %.2f (%.2f%% of %.2f)",
				openRisk, newRisk, d.RiskLimit, 100*p.MaxPortfolioRisk, capital))
	}
	return d
}
