package backtest

import (
	"fmt"
	"io"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/swing/journal"
	"github.com/rustyeddy/swing/risk"
	"github.com/rustyeddy/swing/sim"
)

type Result struct {
	RunID    string
	Strategy string

	InitialCapital float64
	FinalCapital   float64

	Trades []sim.ClosedTrade
	Equity []sim.EquityPoint
	Open   []sim.Position

	// Rejected counts entry signals that did not open, by reason code.
	Rejected map[string]int
	Halted   bool

	Start time.Time
	End   time.Time

	Metrics Metrics
}

// RMultiples returns the R of every closed trade in ledger order.
func (r *Result) RMultiples() []float64 {
	out := make([]float64, len(r.Trades))
	for i, t := range r.Trades {
		out[i] = t.R
	}
	return out
}

// BacktestRun converts the result into the journal's run summary.
func (r *Result) BacktestRun(created time.Time, policy risk.Policy, universe []string) journal.BacktestRun {
	m := r.Metrics
	winRate := m.WinRate
	avgR := m.AvgR
	if m.NoTrades {
		winRate, avgR = 0, 0
	}
	return journal.BacktestRun{
		RunID:            r.RunID,
		Created:          created,
		Strategy:         r.Strategy,
		Universe:         universe,
		RiskPct:          policy.RiskPerTrade,
		MaxPortfolioRisk: policy.MaxPortfolioRisk,
		CapEnforced:      policy.EnforcePortfolioCap,
		Start:            r.Start,
		End:              r.End,
		Trades:           m.TradeCount,
		Wins:             m.Wins,
		Losses:           m.Losses,
		StartBalance:     r.InitialCapital,
		EndBalance:       r.FinalCapital,
		NetPL:            r.FinalCapital - r.InitialCapital,
		ReturnPct:        m.TotalReturnPct,
		WinRate:          winRate,
		ProfitFactor:     m.ProfitFactor,
		MaxDDPct:         m.MaxDrawdownPct,
		AvgR:             avgR,
		Halted:           r.Halted,
	}
}

func money(x float64) string {
	return decimal.NewFromFloat(x).StringFixed(2)
}

func pct(x float64) string {
	if math.IsNaN(x) {
		return "n/a"
	}
	return decimal.NewFromFloat(x).StringFixed(2) + "%"
}

func ratio(x float64) string {
	switch {
	case math.IsNaN(x):
		return "n/a"
	case math.IsInf(x, 1):
		return "inf"
	default:
		return decimal.NewFromFloat(x).StringFixed(2)
	}
}

func PrintResult(w io.Writer, r *Result) {
	m := r.Metrics

	fmt.Fprintln(w, "==================================================")
	fmt.Fprintln(w, " Backtest Result")
	fmt.Fprintln(w, "==================================================")

	fmt.Fprintf(w, "Run ID:        %s\n", r.RunID)
	fmt.Fprintf(w, "Strategy:      %s\n", r.Strategy)
	if !r.Start.IsZero() {
		fmt.Fprintf(w, "Period:        %s .. %s\n", r.Start.Format(time.DateOnly), r.End.Format(time.DateOnly))
	}
	fmt.Fprintf(w, "Days:          %d\n", len(r.Equity))
	if r.Halted {
		fmt.Fprintln(w, "Halted:        capital depleted")
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Trade Statistics")
	fmt.Fprintln(w, "--------------------------------------------------")
	if m.NoTrades {
		fmt.Fprintln(w, "No trades.")
	} else {
		fmt.Fprintf(w, "Trades:        %d\n", m.TradeCount)
		fmt.Fprintf(w, "Wins:          %d\n", m.Wins)
		fmt.Fprintf(w, "Losses:        %d\n", m.Losses)
		fmt.Fprintf(w, "Win Rate:      %s\n", pct(m.WinRate*100))
		fmt.Fprintf(w, "Profit Factor: %s\n", ratio(m.ProfitFactor))
		fmt.Fprintf(w, "Average R:     %s\n", ratio(m.AvgR))
		fmt.Fprintf(w, "Expectancy:    %sR\n", ratio(m.Expectancy))
	}
	if len(r.Open) > 0 {
		fmt.Fprintf(w, "Still Open:    %d\n", len(r.Open))
	}
	if len(r.Rejected) > 0 {
		codes := make([]string, 0, len(r.Rejected))
		for c := range r.Rejected {
			codes = append(codes, c)
		}
		sort.Strings(codes)
		for _, c := range codes {
			fmt.Fprintf(w, "Rejected:      %s x%d\n", c, r.Rejected[c])
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Account Performance")
	fmt.Fprintln(w, "--------------------------------------------------")
	fmt.Fprintf(w, "Start Balance: %s\n", money(r.InitialCapital))
	fmt.Fprintf(w, "End Balance:   %s\n", money(r.FinalCapital))
	fmt.Fprintf(w, "Net P/L:       %s\n", money(r.FinalCapital-r.InitialCapital))
	fmt.Fprintf(w, "Return:        %s\n", pct(m.TotalReturnPct))
	fmt.Fprintf(w, "Max Drawdown:  %s\n", pct(m.MaxDrawdownPct))

	fmt.Fprintln(w)
}

// PrintTrades lists the closed trades one per line.
func PrintTrades(w io.Writer, trades []sim.ClosedTrade) {
	for _, t := range trades {
		fmt.Fprintf(w, "%s %s  %-12s %10s -> %10s  pnl %12s  R %6s  %s\n",
			t.OpenDate.Format(time.DateOnly), t.CloseDate.Format(time.DateOnly), t.Symbol,
			money(t.EntryPrice), money(t.ExitPrice), money(t.PnL), ratio(t.R), t.Reason)
	}
}
