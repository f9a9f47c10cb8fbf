package risk

import "fmt"

// Policy holds the portfolio risk limits.
type Policy struct {
	RiskPerTrade float64 // 0.01

	// The aggregate cap is only applied when EnforcePortfolioCap is set.
	MaxPortfolioRisk    float64 // 0.04
	EnforcePortfolioCap bool
}

func (p Policy) Validate() error {
	if p.RiskPerTrade <= 0 || p.RiskPerTrade > 1 {
		return fmt.Errorf("risk per trade must be in (0, 1], got %v", p.RiskPerTrade)
	}
	if p.EnforcePortfolioCap && (p.MaxPortfolioRisk <= 0 || p.MaxPortfolioRisk > 1) {
		return fmt.Errorf("max portfolio risk must be in (0, 1] when the cap is enforced, got %v", p.MaxPortfolioRisk)
	}
	return nil
}
