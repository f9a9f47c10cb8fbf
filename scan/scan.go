// Package scan evaluates a strategy rule on the most recent bar of each
// symbol and lists today's entry and exit candidates.
package scan

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rustyeddy/swing/dataset"
	"github.com/rustyeddy/swing/pricing"
	"github.com/rustyeddy/swing/risk"
	"github.com/rustyeddy/swing/strategies"
)

// Entry is a sized entry candidate in whole shares.
type Entry struct {
	Symbol     string
	Date       time.Time
	Entry      float64
	Stop       float64
	Target     float64 // NaN without a fixed target
	Quantity   int64
	RiskAmount float64
	RR         float64 // NaN without a fixed target
	Reason     string
}

// Exit is a symbol whose close fell under its breakdown level.
type Exit struct {
	Symbol       string
	Date         time.Time
	Close        float64
	BreakdownLow float64
}

type Report struct {
	Date     time.Time
	Strategy string
	Entries  []Entry
	Exits    []Exit
}

type Scanner struct {
	rule    strategies.Rule
	capital float64
	riskPct float64
}

func NewScanner(rule strategies.Rule, capital, riskPct float64) *Scanner {
	return &Scanner{rule: rule, capital: capital, riskPct: riskPct}
}

// Scan evaluates every panel symbol. With a zero date each symbol's latest
// bar is used; otherwise only symbols with a bar on that exact date are
// considered.
func (s *Scanner) Scan(panel *dataset.Panel, date time.Time) Report {
	rep := Report{Date: date, Strategy: s.rule.Name()}
	if date.IsZero() {
		rep.Date = panel.End()
	}
	date = pricing.Day(date)

	for _, sym := range panel.Symbols {
		b, ok := s.bar(panel, sym, date)
		if !ok {
			continue
		}

		if e, ok := s.entry(b); ok {
			rep.Entries = append(rep.Entries, e)
		}
		if pricing.Defined(b.BreakdownLow) && b.Close < b.BreakdownLow {
			rep.Exits = append(rep.Exits, Exit{Symbol: sym, Date: b.Date, Close: b.Close, BreakdownLow: b.BreakdownLow})
		}
	}
	return rep
}

func (s *Scanner) bar(panel *dataset.Panel, sym string, date time.Time) (pricing.Bar, bool) {
	if date.IsZero() {
		return panel.Latest(sym, time.Time{})
	}
	b, ok := panel.Latest(sym, date)
	if !ok || !b.Date.Equal(date) {
		return pricing.Bar{}, false
	}
	return b, true
}

func (s *Scanner) entry(b pricing.Bar) (Entry, bool) {
	sig := s.rule.EvaluateEntry(b)
	if !sig.Triggered {
		return Entry{}, false
	}

	sz, err := risk.Size(s.capital, s.riskPct, b.Close, sig.Stop)
	if err != nil {
		return Entry{}, false
	}
	qty := wholeShares(sz.RiskAmount, sz.RiskPerShare)
	if qty <= 0 {
		return Entry{}, false
	}

	return Entry{
		Symbol:     b.Symbol,
		Date:       b.Date,
		Entry:      b.Close,
		Stop:       sig.Stop,
		Target:     sig.Target,
		Quantity:   qty,
		RiskAmount: sz.RiskAmount,
		RR:         risk.RR(b.Close, sig.Stop, sig.Target),
		Reason:     sig.Reason,
	}, true
}

// wholeShares floors riskAmount/riskPerShare.
func wholeShares(riskAmount, riskPerShare float64) int64 {
	if riskPerShare <= 0 {
		return 0
	}
	q := decimal.NewFromFloat(riskAmount).Div(decimal.NewFromFloat(riskPerShare))
	return q.Floor().IntPart()
}
