package backtest

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rustyeddy/swing/risk"
	"github.com/rustyeddy/swing/sim"
)

func sampleResult() *Result {
	trades := []sim.ClosedTrade{
		{ID: "T1", Symbol: "A", EntryPrice: 100, ExitPrice: 90, Quantity: 100, RiskAmount: 1000, PnL: -1000, R: -1,
			OpenDate: day(5), CloseDate: day(10), Reason: "STOP"},
	}
	r := &Result{
		RunID:          "R1",
		Strategy:       "breakout-trend",
		InitialCapital: 100000,
		FinalCapital:   99000,
		Trades:         trades,
		Equity:         curve(100000, 99000),
		Rejected:       map[string]int{"PORTFOLIO_RISK_CAP": 2},
		Start:          day(1),
		End:            day(12),
	}
	r.Metrics = ComputeMetrics(r.InitialCapital, r.FinalCapital, r.RMultiples(), r.Equity)
	return r
}

func TestPrintResult(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	PrintResult(&buf, sampleResult())
	out := buf.String()

	assert.Contains(t, out, "Run ID:        R1")
	assert.Contains(t, out, "Period:        2024-01-01 .. 2024-01-12")
	assert.Contains(t, out, "Trades:        1")
	assert.Contains(t, out, "Profit Factor: 0.00")
	assert.Contains(t, out, "Rejected:      PORTFOLIO_RISK_CAP x2")
	assert.Contains(t, out, "End Balance:   99000.00")
	assert.Contains(t, out, "Net P/L:       -1000.00")
	assert.Contains(t, out, "Return:        -1.00%")
	assert.Contains(t, out, "Max Drawdown:  -1.00%")
	assert.NotContains(t, out, "No trades.")
}

func TestPrintResultNoTrades(t *testing.T) {
	t.Parallel()

	r := &Result{RunID: "R2", InitialCapital: 100, FinalCapital: 100}
	r.Metrics = ComputeMetrics(100, 100, nil, nil)

	var buf bytes.Buffer
	PrintResult(&buf, r)
	assert.Contains(t, buf.String(), "No trades.")
	assert.Contains(t, buf.String(), "Return:        0.00%")
}

func TestPrintTrades(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	PrintTrades(&buf, sampleResult().Trades)
	out := buf.String()
	assert.Contains(t, out, "2024-01-05 2024-01-10  A")
	assert.Contains(t, out, "-1.00")
	assert.Contains(t, out, "STOP")
}

func TestResultBacktestRun(t *testing.T) {
	t.Parallel()

	created := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	run := sampleResult().BacktestRun(created, risk.Policy{RiskPerTrade: 0.01, MaxPortfolioRisk: 0.04, EnforcePortfolioCap: true}, []string{"A", "B"})

	assert.Equal(t, "R1", run.RunID)
	assert.Equal(t, created, run.Created)
	assert.Equal(t, 1, run.Trades)
	assert.Equal(t, 1, run.Losses)
	assert.Equal(t, -1000.0, run.NetPL)
	assert.True(t, run.CapEnforced)
	assert.Equal(t, 0.0, run.ProfitFactor)
	assert.Equal(t, []string{"A", "B"}, run.Universe)

	empty := &Result{InitialCapital: 1, FinalCapital: 1}
	empty.Metrics = ComputeMetrics(1, 1, nil, nil)
	run = empty.BacktestRun(created, risk.Policy{}, nil)
	assert.Equal(t, 0.0, run.WinRate)
	assert.Equal(t, 0.0, run.AvgR)
}
