package sim

// RealizedPL is the long-only profit or loss of closing p at exitPrice.
func RealizedPL(p Position, exitPrice float64) float64 {
	return (exitPrice - p.EntryPrice) * p.Quantity
}

// RMultiple expresses pnl in units of the capital risked.
func RMultiple(pnl, riskAmount float64) float64 {
	if riskAmount == 0 {
		return 0
	}
	return pnl / riskAmount
}
