package cmd

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/rustyeddy/swing/config"
	"github.com/rustyeddy/swing/dataset"
	"github.com/rustyeddy/swing/journal"
	"github.com/rustyeddy/swing/market"
)

func newLogger() *log.Logger {
	if !verbose {
		return log.New(io.Discard, "", 0)
	}
	return log.New(os.Stderr, "", log.LstdFlags)
}

// openProvider returns the configured bar source and a close func.
func openProvider(cfg *config.Config) (market.Provider, func() error, error) {
	switch cfg.Data.Type {
	case "sqlite":
		st, err := market.OpenSQLiteStore(cfg.Data.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open price db: %w", err)
		}
		return st, st.Close, nil
	case "csv":
		return market.CSVDir{Dir: cfg.Data.CSVDir}, func() error { return nil }, nil
	default:
		return nil, nil, fmt.Errorf("unknown data type %q", cfg.Data.Type)
	}
}

func dataSource(cfg *config.Config) string {
	if cfg.Data.Type == "sqlite" {
		return cfg.Data.DBPath
	}
	return cfg.Data.CSVDir
}

// loadInstruments returns nil when no instruments file is configured.
func loadInstruments(cfg *config.Config) (*market.Instruments, error) {
	if cfg.Simulation.InstrumentsFile == "" {
		return nil, nil
	}
	in, err := market.LoadInstruments(cfg.Simulation.InstrumentsFile)
	if err != nil {
		return nil, fmt.Errorf("instruments: %w", err)
	}
	return in, nil
}

// universe is the configured symbol list, or every instrument when none is given.
func universe(cfg *config.Config, in *market.Instruments) []string {
	if len(cfg.Simulation.Universe) > 0 {
		return cfg.Simulation.Universe
	}
	return in.Symbols()
}

// buildPanel loads and derives the dataset. A non-zero end overrides the
// configured window end.
func buildPanel(ctx context.Context, cfg *config.Config, end time.Time) (*dataset.Panel, []string, error) {
	opts, err := cfg.DatasetOptions()
	if err != nil {
		return nil, nil, err
	}
	if !end.IsZero() {
		opts.End = end
	}
	opts.Logger = newLogger()

	provider, closeFn, err := openProvider(cfg)
	if err != nil {
		return nil, nil, err
	}
	defer closeFn()

	in, err := loadInstruments(cfg)
	if err != nil {
		return nil, nil, err
	}
	syms := universe(cfg, in)
	if len(syms) == 0 {
		return nil, nil, fmt.Errorf("empty universe")
	}

	panel, err := dataset.NewBuilder(provider, in, opts).Build(ctx, syms, cfg.Simulation.Benchmark)
	if err != nil {
		return nil, nil, fmt.Errorf("build dataset: %w", err)
	}
	return panel, syms, nil
}

// openJournal returns the configured journal. The SQLite journal is also
// returned on its own for run summaries; both are nil for type none.
func openJournal(cfg *config.Config) (journal.Journal, *journal.SQLite, error) {
	switch cfg.Journal.Type {
	case "", "none":
		return nil, nil, nil
	case "csv":
		j, err := journal.NewCSV(cfg.Journal.TradesFile, cfg.Journal.EquityFile)
		if err != nil {
			return nil, nil, fmt.Errorf("open csv journal: %w", err)
		}
		return j, nil, nil
	case "sqlite":
		j, err := journal.NewSQLite(cfg.Journal.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open db: %w", err)
		}
		return j, j, nil
	default:
		return nil, nil, fmt.Errorf("unknown journal type %q", cfg.Journal.Type)
	}
}
