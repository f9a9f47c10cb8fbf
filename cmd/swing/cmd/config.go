package cmd

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/swing/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Generate or validate configuration files",
	Long: `Manage configuration files for backtests and scans.

Subcommands:
  init     - Generate a default configuration file
  validate - Validate an existing configuration file

Examples:
  swing config init -o swing.yaml
  swing config validate -f swing.yaml`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default configuration file",
	Long: `Create a new configuration file with default settings.

Example:
  swing config init -o swing.yaml`,
	RunE: runConfigInit,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a configuration file",
	Long: `Check if a configuration file is valid and can be loaded.

Example:
  swing config validate -f swing.yaml`,
	RunE: runConfigValidate,
}

var (
	configInitOutput   string
	configValidatePath string
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configValidateCmd)

	configInitCmd.Flags().StringVarP(&configInitOutput, "output", "o", "swing.yaml", "output config file path")
	configValidateCmd.Flags().StringVarP(&configValidatePath, "file", "f", "", "path to config file (defaults to --config)")
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if err := cfg.SaveToFile(configInitOutput); err != nil {
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Printf("✓ Created default configuration: %s\n", configInitOutput)
	fmt.Println("\nEdit the file and run with:")
	fmt.Printf("  swing backtest -c %s\n", configInitOutput)
	return nil
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	path := configValidatePath
	if path == "" {
		path = cfgPath
	}
	cfg, err := config.LoadFromFile(path)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	capLabel := "off"
	if cfg.Risk.EnforcePortfolioCap {
		capLabel = fmt.Sprintf("%.1f%%", cfg.Risk.MaxPortfolioRisk*100)
	}
	universe := strings.Join(cfg.Simulation.Universe, " ")
	if universe == "" {
		universe = cfg.Simulation.InstrumentsFile
	}

	fmt.Printf("✓ Configuration valid: %s\n", path)
	fmt.Printf("  Account: %s ($%.2f %s)\n", cfg.Account.ID, cfg.Account.InitialCapital, cfg.Account.Currency)
	fmt.Printf("  Strategy: %s (Risk: %.1f%%, Cap: %s)\n", cfg.Strategy.Name, cfg.Risk.RiskPerTrade*100, capLabel)
	fmt.Printf("  Universe: %s\n", universe)
	fmt.Printf("  Data: %s\n", cfg.Data.Type)
	fmt.Printf("  Journal: %s\n", cfg.Journal.Type)
	return nil
}
