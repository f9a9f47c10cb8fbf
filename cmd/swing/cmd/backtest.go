package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/rustyeddy/swing/backtest"
	"github.com/rustyeddy/swing/config"
	"github.com/rustyeddy/swing/journal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run a portfolio backtest over the configured universe",
	Long: `Backtest replays daily bars for every symbol in the universe through a
single strategy, sizing each entry by risk and sharing one capital pool.

Supported strategies:
  - breakout-trend: 20-day breakout above a rising trend on volume
  - vcp: volatility contraction with a volume surge and a fixed R target
  - noop: never enters (baseline test)

Example:
  swing backtest -c swing.yaml --strategy vcp --risk 0.005 --cap=false`,
	RunE: runBacktest,
}

var (
	btStrategy   string
	btRiskPct    float64
	btCap        bool
	btMaxRisk    float64
	btHalt       bool
	btShowTrades bool
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVarP(&btStrategy, "strategy", "s", "", "strategy name (breakout-trend, vcp, noop)")
	backtestCmd.Flags().Float64Var(&btRiskPct, "risk", 0, "risk fraction per trade (0.01 = 1%)")
	backtestCmd.Flags().BoolVar(&btCap, "cap", true, "enforce the portfolio risk cap")
	backtestCmd.Flags().Float64Var(&btMaxRisk, "max-risk", 0, "portfolio risk cap as a fraction of capital")
	backtestCmd.Flags().BoolVar(&btHalt, "halt", false, "stop the run when capital is depleted")
	backtestCmd.Flags().BoolVar(&btShowTrades, "trades", false, "print every closed trade")
}

// applyBacktestFlags overrides config values with flags set on the command line.
func applyBacktestFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	if flags.Changed("strategy") {
		cfg.Strategy.Name = btStrategy
	}
	if flags.Changed("risk") {
		cfg.Risk.RiskPerTrade = btRiskPct
	}
	if flags.Changed("cap") {
		cfg.Risk.EnforcePortfolioCap = btCap
	}
	if flags.Changed("max-risk") {
		cfg.Risk.MaxPortfolioRisk = btMaxRisk
	}
	if flags.Changed("halt") {
		cfg.Risk.HaltOnDepletion = btHalt
	}
	return cfg.Validate()
}

func runBacktest(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(cfgPath)
	if err != nil {
		return err
	}
	if err := applyBacktestFlags(cmd, cfg); err != nil {
		return fmt.Errorf("flags: %w", err)
	}

	rule, err := cfg.Rule()
	if err != nil {
		return fmt.Errorf("strategy: %w", err)
	}

	ctx := context.Background()
	fmt.Printf("Running backtest with strategy: %s\n", rule.Name())
	fmt.Printf("  Data: %s (%s)\n", dataSource(cfg), cfg.Data.Type)

	panel, syms, err := buildPanel(ctx, cfg, time.Time{})
	if err != nil {
		return err
	}
	fmt.Printf("  Universe: %d symbols, %d skipped, %d days\n", len(syms), len(panel.Skipped), panel.Len())

	j, db, err := openJournal(cfg)
	if err != nil {
		return err
	}
	opts := []backtest.Option{backtest.WithLogger(newLogger())}
	if j != nil {
		defer j.Close()
		opts = append(opts, backtest.WithJournal(j))
		fmt.Printf("  Journal: %s\n", cfg.Journal.Type)
	}
	fmt.Println()

	res, err := backtest.NewEngine(cfg.EngineConfig(), rule, opts...).Run(panel)
	if err != nil {
		return fmt.Errorf("backtest: %w", err)
	}

	backtest.PrintResult(os.Stdout, res)
	if btShowTrades {
		backtest.PrintTrades(os.Stdout, res.Trades)
	}

	run := res.BacktestRun(time.Now(), cfg.Policy(), syms)
	run.Dataset = dataSource(cfg)
	run.OrgPath = cfg.Journal.OrgPath
	if b, err := yaml.Marshal(cfg.Strategy); err == nil {
		run.Config = b
	}
	return saveRun(ctx, db, run)
}

// saveRun records the run summary and writes the Org report when configured.
func saveRun(ctx context.Context, db *journal.SQLite, run journal.BacktestRun) error {
	if db != nil {
		if err := db.RecordBacktest(ctx, run); err != nil {
			return fmt.Errorf("record run: %w", err)
		}
		fmt.Printf("\nRun %s recorded\n", run.RunID)
	}
	if run.OrgPath == "" {
		return nil
	}

	if db != nil {
		org, err := db.ExportBacktestOrg(ctx, run.RunID)
		if err != nil {
			return fmt.Errorf("export org: %w", err)
		}
		if err := os.WriteFile(run.OrgPath, []byte(org), 0644); err != nil {
			return fmt.Errorf("write org: %w", err)
		}
	} else if err := run.WriteBacktestOrg(); err != nil {
		return fmt.Errorf("write org: %w", err)
	}
	fmt.Printf("Org report: %s\n", run.OrgPath)
	return nil
}
