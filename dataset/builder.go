// Package dataset turns raw per-symbol bars into the panel the backtest
// engine consumes: derived indicator fields, the benchmark regime flag and
// a date ordered view across symbols.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rustyeddy/swing/market"
	"github.com/rustyeddy/swing/pricing"
)

var ErrNoBenchmark = errors.New("benchmark has no data")

const DefaultMinHistory = 300

type Options struct {
	Start      time.Time
	End        time.Time
	MinHistory int
	Periods    Periods
	Workers    int
	Logger     *log.Logger
}

func DefaultOptions() Options {
	return Options{
		MinHistory: DefaultMinHistory,
		Periods:    DefaultPeriods(),
		Workers:    4,
	}
}

type Builder struct {
	provider    market.Provider
	instruments *market.Instruments
	opts        Options
	log         *log.Logger
}

// NewBuilder returns a builder loading bars from provider. A nil
// instruments map resolves each symbol to itself.
func NewBuilder(provider market.Provider, instruments *market.Instruments, opts Options) *Builder {
	if opts.MinHistory <= 0 {
		opts.MinHistory = DefaultMinHistory
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	opts.Periods = opts.Periods.withDefaults()

	lg := opts.Logger
	if lg == nil {
		lg = log.New(io.Discard, "", 0)
	}
	return &Builder{provider: provider, instruments: instruments, opts: opts, log: lg}
}

type symbolResult struct {
	bars []pricing.Bar
	skip *Skip
}

// Build loads and prepares every symbol of universe. An empty universe
// means every symbol of the instrument map. benchmark is a provider
// identifier; when empty, every bar is treated as regime ok.
func (b *Builder) Build(ctx context.Context, universe []string, benchmark string) (*Panel, error) {
	if len(universe) == 0 {
		universe = b.instruments.Symbols()
	}
	universe = uniqueSorted(universe)

	var regime regimeIndex
	if benchmark != "" {
		bench, err := b.provider.Load(ctx, benchmark, b.opts.Start, b.opts.End)
		if err != nil {
			return nil, fmt.Errorf("load benchmark %s: %w", benchmark, err)
		}
		if len(bench) == 0 {
			return nil, fmt.Errorf("%s: %w", benchmark, ErrNoBenchmark)
		}
		rs, err := Regime(bench, b.opts.Periods.RegimeTrend)
		if err != nil {
			return nil, err
		}
		regime = newRegimeIndex(rs)
	}

	results := make([]symbolResult, len(universe))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(b.opts.Workers)
	for i, sym := range universe {
		i, sym := i, sym
		g.Go(func() error {
			r, err := b.buildSymbol(gctx, sym, regime)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var (
		all     []pricing.Bar
		skipped []Skip
	)
	for _, r := range results {
		if r.skip != nil {
			b.log.Printf("[INFO] skip %s: %s (%d bars)", r.skip.Symbol, r.skip.Reason, r.skip.Bars)
			skipped = append(skipped, *r.skip)
			continue
		}
		all = append(all, r.bars...)
	}

	p := NewPanel(all)
	p.Skipped = skipped
	b.log.Printf("[INFO] dataset: %d symbols, %d days, %d skipped", len(p.Symbols), p.Len(), len(skipped))
	return p, nil
}

func (b *Builder) buildSymbol(ctx context.Context, sym string, regime regimeIndex) (symbolResult, error) {
	id, ok := b.instruments.Resolve(sym)
	if !ok {
		return symbolResult{skip: &Skip{Symbol: sym, Reason: NoInstrument}}, nil
	}

	raw, err := b.provider.Load(ctx, id, b.opts.Start, b.opts.End)
	if err != nil {
		return symbolResult{}, fmt.Errorf("load %s: %w", sym, err)
	}
	if len(raw) == 0 {
		return symbolResult{skip: &Skip{Symbol: sym, Reason: NoData}}, nil
	}
	if len(raw) < b.opts.MinHistory {
		return symbolResult{skip: &Skip{Symbol: sym, Reason: InsufficientHistory, Bars: len(raw)}}, nil
	}

	bars, err := Derive(raw, b.opts.Periods)
	if err != nil {
		return symbolResult{}, fmt.Errorf("derive %s: %w", sym, err)
	}
	for i := range bars {
		bars[i].Symbol = sym
	}
	regime.apply(bars)
	return symbolResult{bars: bars}, nil
}

func uniqueSorted(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
