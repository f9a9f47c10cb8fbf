package risk

import "math"

// RR is the reward-to-risk ratio of a long entry with a stop and target.
func RR(entry, stop, target float64) float64 {
	risk := math.Abs(entry - stop)
	reward := math.Abs(target - entry)
	if risk == 0 {
		return 0
	}
	return reward / risk
}

// RiskPct is the share of capital a risk amount represents.
func RiskPct(riskAmount, capital float64) float64 {
	if capital <= 0 {
		return math.Inf(1)
	}
	return riskAmount / capital
}
