package sim

import "time"

// ClosedTrade is the ledger record produced exactly once when a Position is
// released.
type ClosedTrade struct {
	ID         string
	Symbol     string
	EntryPrice float64
	ExitPrice  float64
	Quantity   float64
	RiskAmount float64

	PnL float64
	R   float64 // PnL / RiskAmount

	OpenDate  time.Time
	CloseDate time.Time
	Reason    string
}

// EquityPoint is the realized capital at the end of one simulated date.
type EquityPoint struct {
	Date    time.Time
	Capital float64
}

// Close turns p into a ClosedTrade filled at exitPrice.
func Close(p Position, exitPrice float64, closeDate time.Time, reason string) ClosedTrade {
	pnl := RealizedPL(p, exitPrice)
	return ClosedTrade{
		ID:         p.ID,
		Symbol:     p.Symbol,
		EntryPrice: p.EntryPrice,
		ExitPrice:  exitPrice,
		Quantity:   p.Quantity,
		RiskAmount: p.RiskAmount,
		PnL:        pnl,
		R:          RMultiple(pnl, p.RiskAmount),
		OpenDate:   p.OpenDate,
		CloseDate:  closeDate,
		Reason:     reason,
	}
}
