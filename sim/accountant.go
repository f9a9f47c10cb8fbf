package sim

import "fmt"

// Accountant owns the portfolio capital and the aggregate risk committed to
// open positions. Capital only changes through Realize, once per close.
type Accountant struct {
	initial  float64
	capital  float64
	openRisk float64
}

func NewAccountant(initialCapital float64) *Accountant {
	return &Accountant{initial: initialCapital, capital: initialCapital}
}

func (a *Accountant) Initial() float64  { return a.initial }
func (a *Accountant) Capital() float64  { return a.capital }
func (a *Accountant) OpenRisk() float64 { return a.openRisk }

// Reserve adds the risk of a newly opened position.
func (a *Accountant) Reserve(risk float64) error {
	if risk < 0 {
		return fmt.Errorf("reserve: negative risk %f", risk)
	}
	a.openRisk += risk
	return nil
}

// Realize books the pnl of a closed position and releases its risk.
func (a *Accountant) Realize(pnl, risk float64) {
	a.capital += pnl
	a.openRisk -= risk
	if a.openRisk < 1e-9 {
		// float residue from repeated add/subtract
		a.openRisk = 0
	}
}

// Depleted reports whether there is no capital left to size trades with.
func (a *Accountant) Depleted() bool {
	return a.capital <= 0
}
