package backtest

import (
	"math"

	"github.com/rustyeddy/swing/sim"
)

// Metrics summarises a run. Ratios that cannot be computed are NaN rather
// than zero so that "no trades" never reads as a flat result.
type Metrics struct {
	TradeCount int
	NoTrades   bool
	Wins       int
	Losses     int

	WinRate      float64 // fraction of trades with R > 0
	ProfitFactor float64 // sum(R>0) / |sum(R<0)|; +Inf without losses
	AvgR         float64
	AvgWinR      float64
	AvgLossR     float64
	Expectancy   float64 // WinRate*AvgWinR + LossRate*AvgLossR, in R

	TotalReturnPct float64
	MaxDrawdownPct float64 // <= 0
}

// ComputeMetrics is a pure function of the run output.
func ComputeMetrics(initial, final float64, rs []float64, equity []sim.EquityPoint) Metrics {
	m := Metrics{
		TradeCount:     len(rs),
		NoTrades:       len(rs) == 0,
		TotalReturnPct: totalReturnPct(initial, final),
		MaxDrawdownPct: maxDrawdownPct(equity),
	}

	if m.NoTrades {
		nan := math.NaN()
		m.WinRate, m.ProfitFactor, m.AvgR = nan, nan, nan
		m.AvgWinR, m.AvgLossR, m.Expectancy = nan, nan, nan
		return m
	}

	var gain, loss, sum float64
	for _, r := range rs {
		sum += r
		switch {
		case r > 0:
			m.Wins++
			gain += r
		case r < 0:
			m.Losses++
			loss += r
		}
	}

	n := float64(len(rs))
	m.WinRate = float64(m.Wins) / n
	m.AvgR = sum / n
	m.ProfitFactor = profitFactor(gain, loss)

	m.AvgWinR, m.AvgLossR = math.NaN(), math.NaN()
	m.Expectancy = 0
	if m.Wins > 0 {
		m.AvgWinR = gain / float64(m.Wins)
		m.Expectancy += m.WinRate * m.AvgWinR
	}
	if m.Losses > 0 {
		m.AvgLossR = loss / float64(m.Losses)
		m.Expectancy += float64(m.Losses) / n * m.AvgLossR
	}
	return m
}

// profitFactor is +Inf with gains and no losses, NaN with neither.
func profitFactor(gain, loss float64) float64 {
	if loss == 0 {
		if gain > 0 {
			return math.Inf(1)
		}
		return math.NaN()
	}
	return gain / -loss
}

func totalReturnPct(initial, final float64) float64 {
	if initial <= 0 {
		return math.NaN()
	}
	return (final/initial - 1) * 100
}

// maxDrawdownPct is the deepest fall from a running peak of the curve.
func maxDrawdownPct(equity []sim.EquityPoint) float64 {
	var (
		peak  = math.Inf(-1)
		worst float64
	)
	for _, pt := range equity {
		if pt.Capital > peak {
			peak = pt.Capital
		}
		if peak <= 0 {
			continue
		}
		if dd := (pt.Capital - peak) / peak; dd < worst {
			worst = dd
		}
	}
	return worst * 100
}
