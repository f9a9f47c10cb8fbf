// Package backtest replays a dataset panel day by day against a strategy
// rule, sizing entries from current capital and recording every closed trade
// and the end-of-day equity.
package backtest

import (
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/rustyeddy/swing/dataset"
	"github.com/rustyeddy/swing/internal/id"
	"github.com/rustyeddy/swing/journal"
	"github.com/rustyeddy/swing/pricing"
	"github.com/rustyeddy/swing/risk"
	"github.com/rustyeddy/swing/sim"
	"github.com/rustyeddy/swing/strategies"
)

// Rejection codes counted in Result.Rejected besides the risk policy codes.
const (
	RejectInvalidRisk = "INVALID_RISK"
	RejectNoCapital   = "NO_CAPITAL"
)

type Config struct {
	InitialCapital  float64
	Policy          risk.Policy
	HaltOnDepletion bool
}

func (c Config) Validate() error {
	if c.InitialCapital <= 0 {
		return fmt.Errorf("initial capital must be > 0, got %v", c.InitialCapital)
	}
	return c.Policy.Validate()
}

type Option func(*Engine)

// WithJournal records every closed trade and equity point. A journal error
// aborts the run.
func WithJournal(j journal.Journal) Option {
	return func(e *Engine) { e.journal = j }
}

func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// WithRunID fixes the run ID instead of generating one.
func WithRunID(runID string) Option {
	return func(e *Engine) { e.runID = runID }
}

// Engine is single threaded. Capital, open risk and the position book are
// only touched from Run.
type Engine struct {
	cfg     Config
	rule    strategies.Rule
	journal journal.Journal
	log     *log.Logger
	runID   string

	book   *sim.PositionBook
	acct   *sim.Accountant
	trades []sim.ClosedTrade
	equity []sim.EquityPoint
	reject map[string]int
}

func NewEngine(cfg Config, rule strategies.Rule, opts ...Option) *Engine {
	e := &Engine{
		cfg:  cfg,
		rule: rule,
		log:  log.New(io.Discard, "", 0),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run simulates every panel day in order. Each day runs the exit pass, then
// the entry pass, then appends one equity point. Positions still open at the
// end are reported in Result.Open and are not closed.
func (e *Engine) Run(panel *dataset.Panel) (*Result, error) {
	if e.rule == nil {
		return nil, errors.New("backtest: rule is required")
	}
	if panel == nil {
		return nil, errors.New("backtest: panel is required")
	}
	if err := e.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("backtest: %w", err)
	}

	runID := e.runID
	if runID == "" {
		runID = id.New()
	}
	e.book = sim.NewPositionBook()
	e.acct = sim.NewAccountant(e.cfg.InitialCapital)
	e.trades = nil
	e.equity = make([]sim.EquityPoint, 0, panel.Len())
	e.reject = make(map[string]int)

	res := &Result{
		RunID:          runID,
		Strategy:       e.rule.Name(),
		InitialCapital: e.cfg.InitialCapital,
		Start:          panel.Start(),
		End:            panel.End(),
	}

	for _, day := range panel.Days {
		if err := e.exitPass(runID, day); err != nil {
			return nil, err
		}
		if err := e.entryPass(day); err != nil {
			return nil, err
		}

		pt := sim.EquityPoint{Date: day.Date, Capital: e.acct.Capital()}
		e.equity = append(e.equity, pt)
		if e.journal != nil {
			snap := journal.EquitySnapshot{RunID: runID, Time: pt.Date, Capital: pt.Capital}
			if err := e.journal.RecordEquity(snap); err != nil {
				return nil, fmt.Errorf("journal equity %s: %w", pt.Date.Format(pricing.DateLayout), err)
			}
		}

		if e.cfg.HaltOnDepletion && e.acct.Depleted() {
			e.log.Printf("[WARN] capital depleted (%.2f) on %s, halting", e.acct.Capital(), day.Date.Format(pricing.DateLayout))
			res.Halted = true
			res.End = day.Date
			break
		}
	}

	res.FinalCapital = e.acct.Capital()
	res.Trades = e.trades
	res.Equity = e.equity
	res.Open = e.book.Positions()
	res.Rejected = e.reject
	res.Metrics = ComputeMetrics(res.InitialCapital, res.FinalCapital, res.RMultiples(), res.Equity)

	e.log.Printf("[INFO] run %s: %d trades, %d open, final capital %.2f", runID, len(res.Trades), len(res.Open), res.FinalCapital)
	return res, nil
}

// exitPass checks every open symbol that has a bar today. Symbols without a
// bar are left alone.
func (e *Engine) exitPass(runID string, day dataset.Day) error {
	for _, sym := range e.book.Symbols() {
		bar, ok := day.Lookup(sym)
		if !ok {
			continue
		}
		pos, _ := e.book.Get(sym)

		price, reason, hit := e.rule.EvaluateExit(pos, bar)
		if !hit || !pricing.Defined(price) {
			continue
		}
		if err := e.closePosition(runID, pos, price, day.Date, reason); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) closePosition(runID string, pos sim.Position, price float64, date time.Time, reason string) error {
	if _, err := e.book.Close(pos.Symbol); err != nil {
		return err
	}
	ct := sim.Close(pos, price, date, reason)
	e.acct.Realize(ct.PnL, pos.RiskAmount)
	e.trades = append(e.trades, ct)

	e.log.Printf("[INFO] %s close %s @ %.2f %s pnl=%.2f R=%.2f",
		date.Format(pricing.DateLayout), ct.Symbol, ct.ExitPrice, reason, ct.PnL, ct.R)

	if e.journal == nil {
		return nil
	}
	err := e.journal.RecordTrade(journal.TradeRecord{
		RunID:      runID,
		TradeID:    ct.ID,
		Symbol:     ct.Symbol,
		Quantity:   ct.Quantity,
		EntryPrice: ct.EntryPrice,
		ExitPrice:  ct.ExitPrice,
		RiskAmount: ct.RiskAmount,
		OpenTime:   ct.OpenDate,
		CloseTime:  ct.CloseDate,
		RealizedPL: ct.PnL,
		R:          ct.R,
		Reason:     ct.Reason,
	})
	if err != nil {
		return fmt.Errorf("journal trade %s: %w", ct.ID, err)
	}
	return nil
}

// entryPass walks today's bars in symbol order. Entries fill at the close and
// are sized from capital as it stands after today's exits.
func (e *Engine) entryPass(day dataset.Day) error {
	for _, bar := range day.Bars {
		if e.book.Has(bar.Symbol) {
			continue
		}
		sig := e.rule.EvaluateEntry(bar)
		if !sig.Triggered {
			continue
		}
		entry := bar.Close

		sz, err := risk.Size(e.acct.Capital(), e.cfg.Policy.RiskPerTrade, entry, sig.Stop)
		switch {
		case errors.Is(err, risk.ErrInvalidRisk):
			e.reject[RejectInvalidRisk]++
			continue
		case errors.Is(err, risk.ErrNoCapital):
			e.reject[RejectNoCapital]++
			continue
		case err != nil:
			return err
		}

		dec := e.cfg.Policy.Allow(e.acct.OpenRisk(), sz.RiskAmount, e.acct.Capital())
		if !dec.Allowed {
			for _, v := range dec.Violations {
				e.reject[v.Code]++
			}
			continue
		}

		if err := e.openPosition(bar, sig, entry, sz); err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) openPosition(bar pricing.Bar, sig strategies.Signal, entry float64, sz risk.Sizing) error {
	pos := sim.Position{
		ID:           id.At(bar.Date),
		Symbol:       bar.Symbol,
		EntryPrice:   entry,
		Stop:         sig.Stop,
		Target:       sig.Target,
		Quantity:     sz.Quantity,
		RiskAmount:   sz.RiskAmount,
		RiskPerShare: sz.RiskPerShare,
		OpenDate:     bar.Date,
		Reason:       sig.Reason,
	}
	if err := e.book.Open(pos); err != nil {
		return err
	}
	if err := e.acct.Reserve(sz.RiskAmount); err != nil {
		return err
	}

	e.log.Printf("[INFO] %s open %s @ %.2f stop=%.2f qty=%.4f risk=%.2f",
		bar.Date.Format(pricing.DateLayout), pos.Symbol, entry, pos.Stop, pos.Quantity, pos.RiskAmount)
	return nil
}
