package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rustyeddy/swing/backtest"
	"github.com/rustyeddy/swing/dataset"
	"github.com/rustyeddy/swing/pricing"
	"github.com/rustyeddy/swing/risk"
	"github.com/rustyeddy/swing/strategies"
	"gopkg.in/yaml.v3"
)

// Config represents the complete backtest configuration
type Config struct {
	Account    AccountConfig     `json:"account" yaml:"account"`
	Risk       RiskConfig        `json:"risk" yaml:"risk"`
	Strategy   strategies.Config `json:"strategy" yaml:"strategy"`
	Simulation SimulationConfig  `json:"simulation" yaml:"simulation"`
	Data       DataConfig        `json:"data" yaml:"data"`
	Journal    JournalConfig     `json:"journal" yaml:"journal"`
	Schedule   ScheduleConfig    `json:"schedule" yaml:"schedule"`
}

// AccountConfig contains account initialization parameters
type AccountConfig struct {
	ID             string  `json:"id" yaml:"id"`
	Currency       string  `json:"currency" yaml:"currency"`
	InitialCapital float64 `json:"initial_capital" yaml:"initial_capital"`
}

// RiskConfig contains the sizing and portfolio limits
type RiskConfig struct {
	RiskPerTrade        float64 `json:"risk_per_trade" yaml:"risk_per_trade"`
	MaxPortfolioRisk    float64 `json:"max_portfolio_risk" yaml:"max_portfolio_risk"`
	EnforcePortfolioCap bool    `json:"enforce_portfolio_cap" yaml:"enforce_portfolio_cap"`
	HaltOnDepletion     bool    `json:"halt_on_depletion" yaml:"halt_on_depletion"`
}

// SimulationConfig selects the universe and the date window
type SimulationConfig struct {
	Start           string          `json:"start,omitempty" yaml:"start,omitempty"` // YYYY-MM-DD
	End             string          `json:"end,omitempty" yaml:"end,omitempty"`
	MinHistoryBars  int             `json:"min_history_bars" yaml:"min_history_bars"`
	Benchmark       string          `json:"benchmark" yaml:"benchmark"`
	Universe        []string        `json:"universe" yaml:"universe"`
	InstrumentsFile string          `json:"instruments_file,omitempty" yaml:"instruments_file,omitempty"`
	Workers         int             `json:"workers" yaml:"workers"`
	Periods         dataset.Periods `json:"periods" yaml:"periods"`
}

// DataConfig says where daily bars are read from
type DataConfig struct {
	Type   string `json:"type" yaml:"type"` // "sqlite" or "csv"
	DBPath string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	CSVDir string `json:"csv_dir,omitempty" yaml:"csv_dir,omitempty"`
}

// JournalConfig contains journaling parameters
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "none", "csv" or "sqlite"
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	OrgPath    string `json:"org_path,omitempty" yaml:"org_path,omitempty"`
}

// ScheduleConfig holds the cron spec for the daily scan
type ScheduleConfig struct {
	ScanCron string `json:"scan_cron,omitempty" yaml:"scan_cron,omitempty"`
}

// LoadFromFile loads configuration from a file (YAML or JSON). Fields
// missing from the file keep their Default values.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		cfg = Default()
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// applyEnv lets the environment override storage paths.
func (c *Config) applyEnv() {
	if v := os.Getenv("SWING_DB_PATH"); v != "" {
		c.Data.DBPath = v
	}
	if v := os.Getenv("SWING_CSV_DIR"); v != "" {
		c.Data.CSVDir = v
	}
	if v := os.Getenv("SWING_JOURNAL_DB"); v != "" {
		c.Journal.DBPath = v
	}
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension)
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}

	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Account.Currency == "" {
		return fmt.Errorf("account.currency is required")
	}
	if c.Account.InitialCapital <= 0 {
		return fmt.Errorf("account.initial_capital must be positive")
	}
	if c.Risk.RiskPerTrade <= 0 || c.Risk.RiskPerTrade > 1 {
		return fmt.Errorf("risk.risk_per_trade must be between 0 and 1")
	}
	if c.Risk.EnforcePortfolioCap && (c.Risk.MaxPortfolioRisk <= 0 || c.Risk.MaxPortfolioRisk > 1) {
		return fmt.Errorf("risk.max_portfolio_risk must be between 0 and 1 when the cap is enforced")
	}
	if _, err := c.Rule(); err != nil {
		return fmt.Errorf("strategy: %w", err)
	}
	start, err := pricing.ParseDate(c.Simulation.Start)
	if err != nil {
		return fmt.Errorf("simulation.start: %w", err)
	}
	end, err := pricing.ParseDate(c.Simulation.End)
	if err != nil {
		return fmt.Errorf("simulation.end: %w", err)
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return fmt.Errorf("simulation.end must not be before simulation.start")
	}
	if c.Simulation.MinHistoryBars < 0 {
		return fmt.Errorf("simulation.min_history_bars must not be negative")
	}
	if len(c.Simulation.Universe) == 0 && c.Simulation.InstrumentsFile == "" {
		return fmt.Errorf("simulation.universe or simulation.instruments_file is required")
	}
	switch c.Data.Type {
	case "sqlite":
		if c.Data.DBPath == "" {
			return fmt.Errorf("data db_path required for SQLite type")
		}
	case "csv":
		if c.Data.CSVDir == "" {
			return fmt.Errorf("data csv_dir required for CSV type")
		}
	default:
		return fmt.Errorf("data.type must be 'sqlite' or 'csv'")
	}
	switch c.Journal.Type {
	case "", "none":
	case "csv":
		if c.Journal.TradesFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal trades_file and equity_file required for CSV type")
		}
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal db_path required for SQLite type")
		}
	default:
		return fmt.Errorf("journal.type must be 'none', 'csv' or 'sqlite'")
	}
	return nil
}

// Policy returns the portfolio risk limits.
func (c *Config) Policy() risk.Policy {
	return risk.Policy{
		RiskPerTrade:        c.Risk.RiskPerTrade,
		MaxPortfolioRisk:    c.Risk.MaxPortfolioRisk,
		EnforcePortfolioCap: c.Risk.EnforcePortfolioCap,
	}
}

// EngineConfig returns the simulation settings for backtest.NewEngine.
func (c *Config) EngineConfig() backtest.Config {
	return backtest.Config{
		InitialCapital:  c.Account.InitialCapital,
		Policy:          c.Policy(),
		HaltOnDepletion: c.Risk.HaltOnDepletion,
	}
}

// Rule builds the configured strategy.
func (c *Config) Rule() (strategies.Rule, error) {
	return strategies.ByName(c.Strategy.Name, c.Strategy)
}

// DatasetOptions returns the builder options. When the VCP rule is
// selected its slope lookback sets the TrendShortPrev shift.
func (c *Config) DatasetOptions() (dataset.Options, error) {
	opts := dataset.DefaultOptions()

	start, err := pricing.ParseDate(c.Simulation.Start)
	if err != nil {
		return opts, fmt.Errorf("simulation.start: %w", err)
	}
	end, err := pricing.ParseDate(c.Simulation.End)
	if err != nil {
		return opts, fmt.Errorf("simulation.end: %w", err)
	}
	opts.Start, opts.End = start, end

	if c.Simulation.MinHistoryBars > 0 {
		opts.MinHistory = c.Simulation.MinHistoryBars
	}
	if c.Simulation.Workers > 0 {
		opts.Workers = c.Simulation.Workers
	}
	opts.Periods = c.Simulation.Periods
	if r, err := c.Rule(); err == nil {
		if v, ok := r.(*strategies.VCP); ok && v.SlopeLookback > 0 {
			opts.Periods.SlopeLookback = v.SlopeLookback
		}
	}
	return opts, nil
}

// Default returns a configuration with sensible defaults
func Default() *Config {
	return &Config{
		Account: AccountConfig{
			ID:             "SIM-001",
			Currency:       "USD",
			InitialCapital: 100000,
		},
		Risk: RiskConfig{
			RiskPerTrade:        0.01,
			MaxPortfolioRisk:    0.04,
			EnforcePortfolioCap: true,
		},
		Strategy: strategies.DefaultConfig(),
		Simulation: SimulationConfig{
			MinHistoryBars: dataset.DefaultMinHistory,
			Benchmark:      "SPY",
			Universe:       []string{"AAPL", "MSFT", "NVDA"},
			Workers:        4,
			Periods:        dataset.DefaultPeriods(),
		},
		Data: DataConfig{
			Type:   "csv",
			CSVDir: "./data",
		},
		Journal: JournalConfig{
			Type:       "csv",
			TradesFile: "./trades.csv",
			EquityFile: "./equity.csv",
		},
		Schedule: ScheduleConfig{
			ScanCron: "0 30 16 * * 1-5",
		},
	}
}
