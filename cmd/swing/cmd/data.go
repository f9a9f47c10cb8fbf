package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rustyeddy/swing/market"
	"github.com/rustyeddy/swing/pricing"
	"github.com/spf13/cobra"
)

var dataCmd = &cobra.Command{
	Use:   "data",
	Short: "Import and export daily bars",
	Long: `Manage the SQLite price store.

Subcommands:
  import  - Load <symbol>.csv files from a directory into the store
  export  - Write one symbol from the store as CSV
  symbols - List the symbols in the store

Examples:
  swing data import --dir ./bars --db prices.sqlite
  swing data export --db prices.sqlite --symbol AAPL -o aapl.csv`,
}

var dataImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import CSV bars into the price store",
	Args:  cobra.NoArgs,
	RunE:  runDataImport,
}

var dataExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export one symbol as CSV",
	Args:  cobra.NoArgs,
	RunE:  runDataExport,
}

var dataSymbolsCmd = &cobra.Command{
	Use:   "symbols",
	Short: "List symbols in the price store",
	Args:  cobra.NoArgs,
	RunE:  runDataSymbols,
}

var (
	dataDir    string
	dataDBPath string
	dataSymbol string
	dataOutput string
)

func init() {
	rootCmd.AddCommand(dataCmd)
	dataCmd.AddCommand(dataImportCmd)
	dataCmd.AddCommand(dataExportCmd)
	dataCmd.AddCommand(dataSymbolsCmd)

	dataCmd.PersistentFlags().StringVarP(&dataDBPath, "db", "d", "./prices.sqlite", "path to SQLite price DB")
	dataImportCmd.Flags().StringVar(&dataDir, "dir", "", "directory of <symbol>.csv files (required)")
	dataImportCmd.MarkFlagRequired("dir")
	dataExportCmd.Flags().StringVar(&dataSymbol, "symbol", "", "symbol to export (required)")
	dataExportCmd.Flags().StringVarP(&dataOutput, "output", "o", "", "output file (stdout when empty)")
	dataExportCmd.MarkFlagRequired("symbol")
}

func runDataImport(cmd *cobra.Command, args []string) error {
	files, err := filepath.Glob(filepath.Join(dataDir, "*.csv"))
	if err != nil {
		return err
	}
	sort.Strings(files)
	if len(files) == 0 {
		return fmt.Errorf("no csv files in %s", dataDir)
	}

	st, err := market.OpenSQLiteStore(dataDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	src := market.CSVDir{Dir: dataDir}
	total := 0
	for _, path := range files {
		sym := strings.TrimSuffix(filepath.Base(path), ".csv")
		n, err := importSymbol(ctx, st, src, sym)
		if err != nil {
			return fmt.Errorf("import %s: %w", sym, err)
		}
		total += n
	}
	fmt.Printf("✓ Imported %d bars from %d files into %s\n", total, len(files), dataDBPath)
	return nil
}

// importSymbol stores the bars newer than the last stored date.
func importSymbol(ctx context.Context, st *market.SQLiteStore, src market.CSVDir, sym string) (int, error) {
	var from time.Time
	last, err := st.LastDate(ctx, sym)
	switch {
	case err == nil:
		from = last.AddDate(0, 0, 1)
	case errors.Is(err, market.ErrNotFound):
	default:
		return 0, err
	}

	bars, err := src.Load(ctx, sym, from, time.Time{})
	if err != nil {
		return 0, err
	}
	n, err := st.Store(ctx, sym, bars)
	if err != nil {
		return 0, err
	}
	if from.IsZero() {
		fmt.Printf("  %-10s %5d new bars\n", sym, n)
	} else {
		fmt.Printf("  %-10s %5d new bars after %s\n", sym, n, last.Format(pricing.DateLayout))
	}
	return n, nil
}

func runDataExport(cmd *cobra.Command, args []string) error {
	st, err := market.OpenSQLiteStore(dataDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer st.Close()

	bars, err := st.Load(context.Background(), dataSymbol, time.Time{}, time.Time{})
	if err != nil {
		return err
	}
	if len(bars) == 0 {
		return fmt.Errorf("no bars for %s", dataSymbol)
	}

	out := os.Stdout
	if dataOutput != "" {
		f, err := os.Create(dataOutput)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}
	return market.WriteBarsCSV(out, bars)
}

func runDataSymbols(cmd *cobra.Command, args []string) error {
	st, err := market.OpenSQLiteStore(dataDBPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer st.Close()

	ctx := context.Background()
	syms, err := st.Symbols(ctx)
	if err != nil {
		return err
	}
	for _, s := range syms {
		last, err := st.LastDate(ctx, s)
		if err != nil {
			return err
		}
		fmt.Printf("%-10s %s\n", s, last.Format(pricing.DateLayout))
	}
	return nil
}
