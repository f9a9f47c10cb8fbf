// Package market loads daily price bars for the backtester.
//
// Bars handed to callers are ascending by date with no duplicate dates;
// de-duplication happens here, not in the engine.
package market

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/rustyeddy/swing/pricing"
)

var ErrNotFound = errors.New("not found")

// Provider loads the daily bars of one instrument between start and end
// inclusive. Zero bounds are open. A nil slice with a nil error means the
// instrument has no data.
type Provider interface {
	Load(ctx context.Context, identifier string, start, end time.Time) ([]pricing.Bar, error)
}

// MemoryProvider serves bars from memory. Tests and the scanner use it to
// replay already loaded data.
type MemoryProvider map[string][]pricing.Bar

func (m MemoryProvider) Load(ctx context.Context, identifier string, start, end time.Time) ([]pricing.Bar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	src, ok := m[identifier]
	if !ok {
		return nil, nil
	}
	var out []pricing.Bar
	for _, b := range src {
		if pricing.InRange(b.Date, start, end) {
			out = append(out, b)
		}
	}
	return Normalize(out), nil
}

// Normalize sorts bars by date and drops later bars that repeat a date.
func Normalize(bars []pricing.Bar) []pricing.Bar {
	if len(bars) == 0 {
		return nil
	}
	for i := range bars {
		bars[i].Date = pricing.Day(bars[i].Date)
	}
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })

	out := bars[:1]
	for _, b := range bars[1:] {
		if b.Date.Equal(out[len(out)-1].Date) {
			continue
		}
		out = append(out, b)
	}
	return out
}
