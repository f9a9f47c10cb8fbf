package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "swing",
	Short: "A portfolio backtester for rule-based swing trading strategies",
	Long: `Swing replays daily bars for a universe of equities through a
rule-based entry/exit strategy with risk-based position sizing.

It provides tools for:
  - Backtesting breakout and VCP strategies on a shared capital pool
  - Daily scans for entry and exit signals
  - Importing daily bars into a SQLite price store
  - Journaling trades, equity curves and run summaries`,
	SilenceUsage: true,
}

var (
	cfgPath string
	verbose bool
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "swing.yaml", "config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log dataset and engine progress to stderr")
}
