package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"
)

var ErrRunNotFound = errors.New("backtest run not found")

const tradeColumns = `trade_id, run_id, symbol, quantity, entry_price, exit_price, risk_amount,
	open_time, close_time, realized_pl, r_multiple, reason`

type scanner interface {
	Scan(dest ...any) error
}

func scanTrade(s scanner) (TradeRecord, error) {
	var rec TradeRecord
	err := s.Scan(
		&rec.TradeID,
		&rec.RunID,
		&rec.Symbol,
		&rec.Quantity,
		&rec.EntryPrice,
		&rec.ExitPrice,
		&rec.RiskAmount,
		&rec.OpenTime,
		&rec.CloseTime,
		&rec.RealizedPL,
		&rec.R,
		&rec.Reason,
	)
	return rec, err
}

// GetTrade returns a single trade record by ID.
func (j *SQLite) GetTrade(ctx context.Context, tradeID string) (TradeRecord, error) {
	row := j.db.QueryRowContext(ctx, `SELECT `+tradeColumns+` FROM trades WHERE trade_id = ?`, tradeID)
	rec, err := scanTrade(row)
	if errors.Is(err, sql.ErrNoRows) {
		return TradeRecord{}, fmt.Errorf("trade %q not found", tradeID)
	}
	return rec, err
}

// ListTradesByRunID returns the trades of a run in close order.
func (j *SQLite) ListTradesByRunID(ctx context.Context, runID string) ([]TradeRecord, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT `+tradeColumns+`
		FROM trades
		WHERE run_id = ?
		ORDER BY close_time ASC, symbol ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		rec, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (j *SQLite) ListEquityByRunID(ctx context.Context, runID string) ([]EquitySnapshot, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT run_id, time, capital
		FROM equity
		WHERE run_id = ?
		ORDER BY time ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EquitySnapshot
	for rows.Next() {
		var e EquitySnapshot
		if err := rows.Scan(&e.RunID, &e.Time, &e.Capital); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

const runColumns = `run_id, created, strategy, universe, dataset, config, risk_pct, max_portfolio_risk,
	cap_enforced, start_date, end_date, trades, wins, losses, start_balance, end_balance,
	net_pl, return_pct, win_rate, profit_factor, max_dd_pct, avg_r, halted, org_path`

func scanRun(s scanner) (BacktestRun, error) {
	var (
		r        BacktestRun
		universe string
		config   string
		pf       sql.NullFloat64
	)
	err := s.Scan(
		&r.RunID, &r.Created, &r.Strategy, &universe, &r.Dataset, &config,
		&r.RiskPct, &r.MaxPortfolioRisk, &r.CapEnforced, &r.Start, &r.End,
		&r.Trades, &r.Wins, &r.Losses, &r.StartBalance, &r.EndBalance,
		&r.NetPL, &r.ReturnPct, &r.WinRate, &pf, &r.MaxDDPct, &r.AvgR,
		&r.Halted, &r.OrgPath,
	)
	if err != nil {
		return BacktestRun{}, err
	}
	if universe != "" {
		r.Universe = strings.Split(universe, ",")
	}
	r.Config = []byte(config)
	r.ProfitFactor = math.NaN()
	if pf.Valid {
		r.ProfitFactor = pf.Float64
	}
	return r, nil
}

func (j *SQLite) GetBacktestRun(ctx context.Context, runID string) (BacktestRun, error) {
	row := j.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM backtest_runs WHERE run_id = ?`, runID)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return BacktestRun{}, fmt.Errorf("%s: %w", runID, ErrRunNotFound)
	}
	return r, err
}

// ListBacktestRuns returns the most recent runs first. limit <= 0 returns
// every run.
func (j *SQLite) ListBacktestRuns(ctx context.Context, limit int) ([]BacktestRun, error) {
	q := `SELECT ` + runColumns + ` FROM backtest_runs ORDER BY created DESC, run_id DESC`
	var args []any
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := j.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []BacktestRun
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
