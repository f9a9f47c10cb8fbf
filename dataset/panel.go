package dataset

import (
	"sort"
	"time"

	"github.com/rustyeddy/swing/pricing"
)

// Day holds every retained symbol's bar for one date, sorted by symbol.
type Day struct {
	Date time.Time
	Bars []pricing.Bar
}

// Lookup returns the bar of symbol on this day.
func (d Day) Lookup(symbol string) (pricing.Bar, bool) {
	i := sort.Search(len(d.Bars), func(i int) bool { return d.Bars[i].Symbol >= symbol })
	if i < len(d.Bars) && d.Bars[i].Symbol == symbol {
		return d.Bars[i], true
	}
	return pricing.Bar{}, false
}

// SkipReason says why a symbol was left out of a panel.
type SkipReason string

const (
	NoInstrument        SkipReason = "NO_INSTRUMENT"
	NoData              SkipReason = "NO_DATA"
	InsufficientHistory SkipReason = "INSUFFICIENT_HISTORY"
)

type Skip struct {
	Symbol string
	Reason SkipReason
	Bars   int
}

// Panel is the date ordered multi-symbol dataset the engine replays.
type Panel struct {
	Days    []Day
	Symbols []string
	Skipped []Skip
}

// NewPanel groups bars by date. Bars of the same symbol and date after the
// first are dropped.
func NewPanel(bars []pricing.Bar) *Panel {
	byDate := make(map[time.Time][]pricing.Bar)
	seen := make(map[string]struct{})
	for _, b := range bars {
		d := pricing.Day(b.Date)
		b.Date = d
		byDate[d] = append(byDate[d], b)
		seen[b.Symbol] = struct{}{}
	}

	p := &Panel{Days: make([]Day, 0, len(byDate))}
	for d, bs := range byDate {
		sort.SliceStable(bs, func(i, j int) bool { return bs[i].Symbol < bs[j].Symbol })
		uniq := bs[:0]
		for _, b := range bs {
			if len(uniq) > 0 && uniq[len(uniq)-1].Symbol == b.Symbol {
				continue
			}
			uniq = append(uniq, b)
		}
		p.Days = append(p.Days, Day{Date: d, Bars: uniq})
	}
	sort.Slice(p.Days, func(i, j int) bool { return p.Days[i].Date.Before(p.Days[j].Date) })

	for s := range seen {
		p.Symbols = append(p.Symbols, s)
	}
	sort.Strings(p.Symbols)
	return p
}

func (p *Panel) Len() int { return len(p.Days) }

func (p *Panel) Dates() []time.Time {
	out := make([]time.Time, len(p.Days))
	for i, d := range p.Days {
		out[i] = d.Date
	}
	return out
}

// Start and End return the first and last panel dates, or zero times for
// an empty panel.
func (p *Panel) Start() time.Time {
	if len(p.Days) == 0 {
		return time.Time{}
	}
	return p.Days[0].Date
}

func (p *Panel) End() time.Time {
	if len(p.Days) == 0 {
		return time.Time{}
	}
	return p.Days[len(p.Days)-1].Date
}

// Latest returns the most recent bar of symbol on or before date. A zero
// date means the last panel day.
func (p *Panel) Latest(symbol string, date time.Time) (pricing.Bar, bool) {
	for i := len(p.Days) - 1; i >= 0; i-- {
		d := p.Days[i]
		if !date.IsZero() && d.Date.After(date) {
			continue
		}
		if b, ok := d.Lookup(symbol); ok {
			return b, true
		}
	}
	return pricing.Bar{}, false
}
