package journal

import (
	"context"
	"database/sql"
	"math"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) (*SQLite, string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "test.db")

	j, err := NewSQLite(path)
	require.NoError(t, err)

	return j, path
}

func day(d int) time.Time {
	return time.Date(2024, 1, d, 0, 0, 0, 0, time.UTC)
}

func sampleTrade(runID, tradeID, symbol string, open, close int, pl float64) TradeRecord {
	return TradeRecord{
		RunID:      runID,
		TradeID:    tradeID,
		Symbol:     symbol,
		Quantity:   100,
		EntryPrice: 100,
		ExitPrice:  100 + pl/100,
		RiskAmount: 1000,
		OpenTime:   day(open),
		CloseTime:  day(close),
		RealizedPL: pl,
		R:          pl / 1000,
		Reason:     "STOP",
	}
}

func TestSQLiteSchemaCreated(t *testing.T) {
	t.Parallel()

	j, path := newTestSQLite(t)
	require.NoError(t, j.Close())

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table'`)
	require.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	require.NoError(t, rows.Err())

	assert.True(t, found["trades"])
	assert.True(t, found["equity"])
	assert.True(t, found["backtest_runs"])
}

func TestSQLiteTradesByRun(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	require.NoError(t, j.RecordTrade(sampleTrade("R1", "T2", "B", 3, 9, 500)))
	require.NoError(t, j.RecordTrade(sampleTrade("R1", "T1", "A", 2, 5, -1000)))
	require.NoError(t, j.RecordTrade(sampleTrade("R2", "T3", "A", 2, 5, 10)))

	// trade IDs are unique
	assert.Error(t, j.RecordTrade(sampleTrade("R1", "T1", "A", 2, 5, -1000)))

	recs, err := j.ListTradesByRunID(ctx, "R1")
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "T1", recs[0].TradeID)
	assert.Equal(t, "A", recs[0].Symbol)
	assert.Equal(t, -1.0, recs[0].R)
	assert.True(t, recs[0].CloseTime.Equal(day(5)))
	assert.Equal(t, "T2", recs[1].TradeID)

	got, err := j.GetTrade(ctx, "T3")
	require.NoError(t, err)
	assert.Equal(t, "R2", got.RunID)

	_, err = j.GetTrade(ctx, "missing")
	assert.Error(t, err)
}

func TestSQLiteEquityByRun(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	require.NoError(t, j.RecordEquity(EquitySnapshot{RunID: "R1", Time: day(2), Capital: 99000}))
	require.NoError(t, j.RecordEquity(EquitySnapshot{RunID: "R1", Time: day(1), Capital: 100000}))
	require.NoError(t, j.RecordEquity(EquitySnapshot{RunID: "R2", Time: day(1), Capital: 5}))

	eq, err := j.ListEquityByRunID(ctx, "R1")
	require.NoError(t, err)
	require.Len(t, eq, 2)
	assert.True(t, eq[0].Time.Equal(day(1)))
	assert.Equal(t, 100000.0, eq[0].Capital)
	assert.Equal(t, 99000.0, eq[1].Capital)
}

func TestSQLiteBacktestRuns(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	first := BacktestRun{
		RunID:        "R1",
		Created:      time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		Strategy:     "breakout-trend",
		Universe:     []string{"A", "B"},
		Dataset:      "sqlite:prices.db",
		Config:       []byte("breakout_margin: 0.005\n"),
		RiskPct:      0.01,
		Start:        day(1),
		End:          day(20),
		Trades:       1,
		Losses:       1,
		StartBalance: 100000,
		EndBalance:   99000,
		NetPL:        -1000,
		ReturnPct:    -1,
		ProfitFactor: 0,
		MaxDDPct:     -1,
		AvgR:         -1,
	}
	second := first
	second.RunID = "R2"
	second.Created = first.Created.Add(time.Hour)
	second.Trades, second.Losses = 0, 0
	second.ProfitFactor = math.NaN()
	second.Halted = true

	require.NoError(t, j.RecordBacktest(ctx, first))
	require.NoError(t, j.RecordBacktest(ctx, second))

	got, err := j.GetBacktestRun(ctx, "R1")
	require.NoError(t, err)
	assert.Equal(t, "breakout-trend", got.Strategy)
	assert.Equal(t, []string{"A", "B"}, got.Universe)
	assert.Equal(t, first.Config, got.Config)
	assert.Equal(t, 99000.0, got.EndBalance)
	assert.True(t, got.Start.Equal(day(1)))
	assert.False(t, got.Halted)

	got, err = j.GetBacktestRun(ctx, "R2")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(got.ProfitFactor))
	assert.True(t, got.Halted)

	_, err = j.GetBacktestRun(ctx, "nope")
	assert.ErrorIs(t, err, ErrRunNotFound)

	runs, err := j.ListBacktestRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "R2", runs[0].RunID)

	runs, err = j.ListBacktestRuns(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}

func TestSQLiteExportBacktestOrg(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	j, _ := newTestSQLite(t)
	t.Cleanup(func() { _ = j.Close() })

	require.NoError(t, j.RecordBacktest(ctx, BacktestRun{
		RunID:        "R1",
		Created:      day(21),
		Strategy:     "vcp",
		Start:        day(1),
		End:          day(20),
		Trades:       1,
		Wins:         1,
		WinRate:      1,
		ProfitFactor: math.Inf(1),
		StartBalance: 100000,
		EndBalance:   102000,
	}))
	require.NoError(t, j.RecordTrade(sampleTrade("R1", "01HXYZTRADE0001", "A", 2, 5, 2000)))

	org, err := j.ExportBacktestOrg(ctx, "R1")
	require.NoError(t, err)
	assert.Contains(t, org, "* BACKTEST: vcp 2024-01-01..2024-01-20")
	assert.Contains(t, org, ":RUN_ID:      R1")
	assert.Contains(t, org, "** Trades")
	assert.Contains(t, org, "*** Trade: A (RADE0001)")

	_, err = j.ExportBacktestOrg(ctx, "nope")
	assert.ErrorIs(t, err, ErrRunNotFound)
}
