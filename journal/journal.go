// Package journal persists backtest output: closed trades, the equity curve
// and a per-run summary, in SQLite or CSV, with Org-mode export.
package journal

import "time"

// TradeRecord is one closed trade of a run.
type TradeRecord struct {
	RunID      string
	TradeID    string
	Symbol     string
	Quantity   float64
	EntryPrice float64
	ExitPrice  float64
	RiskAmount float64
	OpenTime   time.Time
	CloseTime  time.Time
	RealizedPL float64
	R          float64
	Reason     string
}

// EquitySnapshot is the realized capital at the end of one simulated day.
type EquitySnapshot struct {
	RunID   string
	Time    time.Time
	Capital float64
}

type Journal interface {
	RecordTrade(TradeRecord) error
	RecordEquity(EquitySnapshot) error
	Close() error
}
