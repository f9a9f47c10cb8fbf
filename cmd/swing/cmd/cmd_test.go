package cmd

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rustyeddy/swing/config"
	"github.com/rustyeddy/swing/dataset"
	"github.com/rustyeddy/swing/market"
	"github.com/rustyeddy/swing/pricing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func genBars(sym string, from, n int) []pricing.Bar {
	out := make([]pricing.Bar, 0, n)
	for i := from; i < from+n; i++ {
		c := 100 + float64(i)
		out = append(out, pricing.Bar{
			Date:   day0.AddDate(0, 0, i),
			Symbol: sym,
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 1000,
		})
	}
	return out
}

func writeCSV(t *testing.T, dir, sym string, bars []pricing.Bar) {
	t.Helper()
	f, err := os.Create(filepath.Join(dir, sym+".csv"))
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, market.WriteBarsCSV(f, bars))
}

func TestImportSymbolIncremental(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	st, err := market.OpenSQLiteStore(filepath.Join(dir, "prices.sqlite"))
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	src := market.CSVDir{Dir: dir}

	writeCSV(t, dir, "AAA", genBars("AAA", 0, 10))
	n, err := importSymbol(ctx, st, src, "AAA")
	require.NoError(t, err)
	assert.Equal(t, 10, n)

	writeCSV(t, dir, "AAA", genBars("AAA", 0, 15))
	n, err = importSymbol(ctx, st, src, "AAA")
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	last, err := st.LastDate(ctx, "AAA")
	require.NoError(t, err)
	assert.Equal(t, day0.AddDate(0, 0, 14), last)
}

func TestBuildPanelFromCSV(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeCSV(t, dir, "AAA", genBars("AAA", 0, 30))

	cfg := config.Default()
	cfg.Data = config.DataConfig{Type: "csv", CSVDir: dir}
	cfg.Simulation.Universe = []string{"AAA", "BBB"}
	cfg.Simulation.Benchmark = ""
	cfg.Simulation.MinHistoryBars = 20

	panel, syms, err := buildPanel(context.Background(), cfg, day0.AddDate(0, 0, 24))
	require.NoError(t, err)
	assert.Equal(t, []string{"AAA", "BBB"}, syms)
	assert.Equal(t, 25, panel.Len())
	require.Len(t, panel.Skipped, 1)
	assert.Equal(t, "BBB", panel.Skipped[0].Symbol)
	assert.Equal(t, dataset.NoData, panel.Skipped[0].Reason)
}

func TestOpenJournalNone(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Journal = config.JournalConfig{Type: "none"}
	j, db, err := openJournal(cfg)
	require.NoError(t, err)
	assert.Nil(t, j)
	assert.Nil(t, db)

	cfg.Journal = config.JournalConfig{Type: "sqlite", DBPath: filepath.Join(t.TempDir(), "j.sqlite")}
	j, db, err = openJournal(cfg)
	require.NoError(t, err)
	require.NotNil(t, db)
	assert.NotNil(t, j)
	assert.NoError(t, db.Close())
}

func TestApplyBacktestFlags(t *testing.T) {
	flags := backtestCmd.Flags()
	require.NoError(t, flags.Set("strategy", "vcp"))
	require.NoError(t, flags.Set("cap", "false"))
	require.NoError(t, flags.Set("halt", "true"))

	cfg := config.Default()
	require.NoError(t, applyBacktestFlags(backtestCmd, cfg))
	assert.Equal(t, "vcp", cfg.Strategy.Name)
	assert.False(t, cfg.Risk.EnforcePortfolioCap)
	assert.True(t, cfg.Risk.HaltOnDepletion)
	assert.Equal(t, 0.01, cfg.Risk.RiskPerTrade)

	require.NoError(t, flags.Set("risk", "3"))
	assert.Error(t, applyBacktestFlags(backtestCmd, config.Default()))
}
