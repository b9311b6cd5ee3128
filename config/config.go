// Package config centralizes tunables for the optimization engine: genetic
// search parameters, portfolio and risk limits, execution thresholds, and
// journaling. Files load as YAML or JSON; defects are fatal at load time,
// never mid-cycle.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the complete engine configuration.
type Config struct {
	Optimization OptimizationConfig `json:"optimization" yaml:"optimization"`
	Portfolio    PortfolioConfig    `json:"portfolio" yaml:"portfolio"`
	Risk         RiskConfig         `json:"risk" yaml:"risk"`
	Execution    ExecutionConfig    `json:"execution" yaml:"execution"`
	Journal      JournalConfig      `json:"journal" yaml:"journal"`
}

// OptimizationConfig controls the belief update and genetic search.
type OptimizationConfig struct {
	LearningRate      float64 `json:"learning_rate" yaml:"learning_rate"`
	PopulationSize    int     `json:"population_size" yaml:"population_size"`
	NumGenerations    int     `json:"num_generations" yaml:"num_generations"`
	MutationRate      float64 `json:"mutation_rate" yaml:"mutation_rate"`
	ExplorationFactor float64 `json:"exploration_factor" yaml:"exploration_factor"`
	TournamentSize    int     `json:"tournament_size" yaml:"tournament_size"`
	EliteSize         int     `json:"elite_size" yaml:"elite_size"`
}

// PortfolioConfig bounds position sizing and allocation.
type PortfolioConfig struct {
	MaxPositionSize    float64 `json:"max_position_size" yaml:"max_position_size"`
	MaxConcentration   float64 `json:"max_concentration" yaml:"max_concentration"`
	MinPositionSize    float64 `json:"min_position_size" yaml:"min_position_size"`
	CashBuffer         float64 `json:"cash_buffer" yaml:"cash_buffer"`
	RebalanceThreshold float64 `json:"rebalance_threshold" yaml:"rebalance_threshold"`
}

// RiskConfig bounds portfolio risk exposure.
type RiskConfig struct {
	VaRLimit         float64 `json:"var_limit" yaml:"var_limit"`
	PositionVaRLimit float64 `json:"position_var_limit" yaml:"position_var_limit"`
	MaxDrawdown      float64 `json:"max_drawdown" yaml:"max_drawdown"`
	MaxHeat          float64 `json:"max_heat" yaml:"max_heat"`
	RiskFreeRate     float64 `json:"risk_free_rate" yaml:"risk_free_rate"`
}

// ExecutionConfig bounds acceptable execution costs.
type ExecutionConfig struct {
	MaxSlippage           float64 `json:"max_slippage" yaml:"max_slippage"`
	MarketImpactThreshold float64 `json:"market_impact_threshold" yaml:"market_impact_threshold"`
	SpreadThreshold       float64 `json:"spread_threshold" yaml:"spread_threshold"`
	DefaultStyle          string  `json:"default_style" yaml:"default_style"`
}

// JournalConfig selects the decision journal backend.
type JournalConfig struct {
	Type       string `json:"type" yaml:"type"` // "sqlite", "csv", or "none"
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	CyclesFile string `json:"cycles_file,omitempty" yaml:"cycles_file,omitempty"`
}

// Default returns the standard configuration: 1% learning rate, population of
// 100 over 10 generations, 10% mutation, tournament of 5 with a single elite,
// 10%/30% position/concentration caps, 2% VaR limit, 80% heat capacity.
func Default() *Config {
	return &Config{
		Optimization: OptimizationConfig{
			LearningRate:      0.01,
			PopulationSize:    100,
			NumGenerations:    10,
			MutationRate:      0.1,
			ExplorationFactor: 0.1,
			TournamentSize:    5,
			EliteSize:         1,
		},
		Portfolio: PortfolioConfig{
			MaxPositionSize:    0.1,
			MaxConcentration:   0.3,
			MinPositionSize:    0.01,
			CashBuffer:         0.05,
			RebalanceThreshold: 0.05,
		},
		Risk: RiskConfig{
			VaRLimit:         0.02,
			PositionVaRLimit: 0.01,
			MaxDrawdown:      0.15,
			MaxHeat:          0.8,
			RiskFreeRate:     0.02,
		},
		Execution: ExecutionConfig{
			MaxSlippage:           0.002,
			MarketImpactThreshold: 0.001,
			SpreadThreshold:       0.0005,
			DefaultStyle:          "market",
		},
		Journal: JournalConfig{
			Type: "none",
		},
	}
}

// LoadFromFile loads a YAML or JSON configuration on top of defaults, then
// validates it.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	// Try YAML first, fall back to JSON.
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes the configuration as YAML (.yaml/.yml) or indented JSON.
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

// Validate rejects defective configurations. Called at engine construction;
// a failure here is fatal, not a per-cycle fallback.
func (c *Config) Validate() error {
	o := c.Optimization
	if o.LearningRate < 0 || o.LearningRate >= 1 {
		return fmt.Errorf("optimization.learning_rate must be in [0, 1)")
	}
	if o.PopulationSize < 0 {
		return fmt.Errorf("optimization.population_size must be non-negative")
	}
	if o.NumGenerations <= 0 {
		return fmt.Errorf("optimization.num_generations must be positive")
	}
	if o.MutationRate < 0 || o.MutationRate > 1 {
		return fmt.Errorf("optimization.mutation_rate must be in [0, 1]")
	}
	if o.ExplorationFactor < 0 {
		return fmt.Errorf("optimization.exploration_factor must be non-negative")
	}
	if o.TournamentSize <= 0 {
		return fmt.Errorf("optimization.tournament_size must be positive")
	}
	if o.EliteSize < 0 || (o.PopulationSize > 0 && o.EliteSize >= o.PopulationSize) {
		return fmt.Errorf("optimization.elite_size must be in [0, population_size)")
	}

	p := c.Portfolio
	if p.MaxPositionSize <= 0 || p.MaxPositionSize > 1 {
		return fmt.Errorf("portfolio.max_position_size must be in (0, 1]")
	}
	if p.MaxConcentration <= 0 || p.MaxConcentration > 1 {
		return fmt.Errorf("portfolio.max_concentration must be in (0, 1]")
	}
	if p.MinPositionSize <= 0 || p.MinPositionSize > p.MaxPositionSize {
		return fmt.Errorf("portfolio.min_position_size must be in (0, max_position_size]")
	}
	if p.CashBuffer < 0 || p.CashBuffer >= 1 {
		return fmt.Errorf("portfolio.cash_buffer must be in [0, 1)")
	}
	if p.RebalanceThreshold <= 0 || p.RebalanceThreshold > 1 {
		return fmt.Errorf("portfolio.rebalance_threshold must be in (0, 1]")
	}

	r := c.Risk
	if r.VaRLimit <= 0 || r.VaRLimit > 0.1 {
		return fmt.Errorf("risk.var_limit must be in (0, 0.1]")
	}
	if r.PositionVaRLimit <= 0 || r.PositionVaRLimit > r.VaRLimit {
		return fmt.Errorf("risk.position_var_limit must be in (0, var_limit]")
	}
	if r.MaxDrawdown <= 0 || r.MaxDrawdown > 1 {
		return fmt.Errorf("risk.max_drawdown must be in (0, 1]")
	}
	if r.MaxHeat <= 0 || r.MaxHeat > 1 {
		return fmt.Errorf("risk.max_heat must be in (0, 1]")
	}
	if r.RiskFreeRate < 0 || r.RiskFreeRate > 1 {
		return fmt.Errorf("risk.risk_free_rate must be in [0, 1]")
	}

	e := c.Execution
	if e.MaxSlippage <= 0 || e.MaxSlippage > 0.05 {
		return fmt.Errorf("execution.max_slippage must be in (0, 0.05]")
	}
	if e.MarketImpactThreshold <= 0 {
		return fmt.Errorf("execution.market_impact_threshold must be positive")
	}
	if e.SpreadThreshold <= 0 {
		return fmt.Errorf("execution.spread_threshold must be positive")
	}
	switch e.DefaultStyle {
	case "market", "limit", "twap", "vwap":
	default:
		return fmt.Errorf("execution.default_style must be one of market, limit, twap, vwap")
	}

	switch c.Journal.Type {
	case "none":
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal.db_path required for sqlite type")
		}
	case "csv":
		if c.Journal.CyclesFile == "" {
			return fmt.Errorf("journal.cycles_file required for csv type")
		}
	default:
		return fmt.Errorf("journal.type must be 'sqlite', 'csv', or 'none'")
	}

	return nil
}
