package journal

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strings"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("journal schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordTrade(t TradeRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, run_id, symbol, quantity, entry_price, exit_price, risk_amount,
		 open_time, close_time, realized_pl, r_multiple, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.TradeID, t.RunID, t.Symbol, t.Quantity, t.EntryPrice, t.ExitPrice, t.RiskAmount,
		t.OpenTime.UTC(), t.CloseTime.UTC(), t.RealizedPL, t.R, t.Reason,
	)
	return err
}

func (j *SQLite) RecordEquity(e EquitySnapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO equity (run_id, time, capital)
		VALUES (?, ?, ?)`,
		e.RunID, e.Time.UTC(), e.Capital,
	)
	return err
}

// RecordBacktest stores the run summary. Recording the same run ID twice
// replaces the earlier summary.
func (j *SQLite) RecordBacktest(ctx context.Context, r BacktestRun) error {
	_, err := j.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO backtest_runs
		(run_id, created, strategy, universe, dataset, config, risk_pct, max_portfolio_risk,
		 cap_enforced, start_date, end_date, trades, wins, losses, start_balance, end_balance,
		 net_pl, return_pct, win_rate, profit_factor, max_dd_pct, avg_r, halted, org_path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Created.UTC(), r.Strategy, strings.Join(r.Universe, ","), r.Dataset, string(r.Config),
		r.RiskPct, r.MaxPortfolioRisk, r.CapEnforced, r.Start.UTC(), r.End.UTC(),
		r.Trades, r.Wins, r.Losses, r.StartBalance, r.EndBalance,
		r.NetPL, r.ReturnPct, r.WinRate, nullableFloat(r.ProfitFactor), r.MaxDDPct, r.AvgR,
		r.Halted, r.OrgPath,
	)
	return err
}

// ExportBacktestOrg loads a run with its trades and returns the Org block.
func (j *SQLite) ExportBacktestOrg(ctx context.Context, runID string) (string, error) {
	run, err := j.GetBacktestRun(ctx, runID)
	if err != nil {
		return "", err
	}
	trades, err := j.ListTradesByRunID(ctx, runID)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	if err := run.RenderOrg(&b); err != nil {
		return "", err
	}
	if len(trades) > 0 {
		b.WriteString("\n** Trades\n")
		b.WriteString(FormatTradesOrg(trades))
		b.WriteString("\n")
	}
	return b.String(), nil
}

func (j *SQLite) Close() error {
	return j.db.Close()
}

// nullableFloat stores NaN as NULL.
func nullableFloat(x float64) sql.NullFloat64 {
	if math.IsNaN(x) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: x, Valid: true}
}
