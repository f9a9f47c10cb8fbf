package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rustyeddy/swing/config"
	"github.com/rustyeddy/swing/pricing"
	"github.com/rustyeddy/swing/scan"
	"github.com/spf13/cobra"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the universe for entry and exit signals",
	Long: `Scan evaluates the configured strategy on the latest bar of every symbol
(or on a given date) and lists entries sized against the account capital,
plus symbols that closed under their breakdown level.

Example:
  swing scan -c swing.yaml --date 2024-03-15`,
	RunE: runScan,
}

var scanDate string

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVar(&scanDate, "date", "", "scan date (YYYY-MM-DD); latest bar when empty")
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(cfgPath)
	if err != nil {
		return err
	}
	date, err := pricing.ParseDate(scanDate)
	if err != nil {
		return fmt.Errorf("date: %w", err)
	}

	rep, err := scanOnce(context.Background(), cfg, date)
	if err != nil {
		return err
	}
	scan.Print(os.Stdout, rep)
	return nil
}

// scanOnce rebuilds the dataset and scans it.
func scanOnce(ctx context.Context, cfg *config.Config, date time.Time) (scan.Report, error) {
	rule, err := cfg.Rule()
	if err != nil {
		return scan.Report{}, fmt.Errorf("strategy: %w", err)
	}
	panel, _, err := buildPanel(ctx, cfg, date)
	if err != nil {
		return scan.Report{}, err
	}
	s := scan.NewScanner(rule, cfg.Account.InitialCapital, cfg.Risk.RiskPerTrade)
	return s.Scan(panel, date), nil
}
