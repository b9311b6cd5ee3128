package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/mprestonsparks/trade-manager/market"
	"github.com/mprestonsparks/trade-manager/state"
)

// Scenario is the file format for a portfolio snapshot plus market signal,
// used to drive an optimization cycle from the command line.
type Scenario struct {
	Time       time.Time          `yaml:"time"`
	Cash       float64            `yaml:"cash"`
	TotalValue float64            `yaml:"total_value"`
	Positions  []ScenarioPosition `yaml:"positions"`

	Risk struct {
		PortfolioVaR        float64            `yaml:"portfolio_var"`
		PortfolioVolatility float64            `yaml:"portfolio_volatility"`
		CurrentHeat         float64            `yaml:"current_heat"`
		PositionVaR         map[string]float64 `yaml:"position_var"`
		PositionVolatility  map[string]float64 `yaml:"position_volatility"`
	} `yaml:"risk"`

	Execution struct {
		LatencyMS    int                `yaml:"latency_ms"`
		SpreadCosts  map[string]float64 `yaml:"spread_costs"`
		MarketImpact map[string]float64 `yaml:"market_impact"`
	} `yaml:"execution"`

	Performance struct {
		TotalReturn    float64 `yaml:"total_return"`
		SharpeRatio    float64 `yaml:"sharpe_ratio"`
		RecoveryFactor float64 `yaml:"recovery_factor"`
		MaxDrawdown    float64 `yaml:"max_drawdown"`
	} `yaml:"performance"`

	Signal struct {
		Symbol     string  `yaml:"symbol"`
		Trend      float64 `yaml:"trend"`
		Volatility float64 `yaml:"volatility"`
		Momentum   float64 `yaml:"momentum"`
		Confidence float64 `yaml:"confidence"`
	} `yaml:"signal"`
}

type ScenarioPosition struct {
	Symbol       string   `yaml:"symbol"`
	Size         float64  `yaml:"size"`
	EntryPrice   float64  `yaml:"entry_price"`
	CurrentPrice float64  `yaml:"current_price"`
	StopLoss     *float64 `yaml:"stop_loss,omitempty"`
	TakeProfit   *float64 `yaml:"take_profit,omitempty"`
}

// LoadScenario parses a scenario file and checks it is internally consistent.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario file: %w", err)
	}

	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}

	if sc.TotalValue <= 0 {
		return nil, fmt.Errorf("scenario total_value must be positive")
	}
	snap := sc.Snapshot()
	if err := snap.CheckConsistency(decimal.NewFromFloat(1.0)); err != nil {
		return nil, err
	}
	return &sc, nil
}

// Snapshot converts the scenario into the engine's snapshot form.
func (sc *Scenario) Snapshot() *state.Snapshot {
	ts := sc.Time
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	positions := make(map[string]state.Position, len(sc.Positions))
	for _, p := range sc.Positions {
		pos := state.Position{
			Symbol:       p.Symbol,
			Size:         decimal.NewFromFloat(p.Size),
			EntryPrice:   decimal.NewFromFloat(p.EntryPrice),
			CurrentPrice: decimal.NewFromFloat(p.CurrentPrice),
		}
		if p.StopLoss != nil {
			sl := decimal.NewFromFloat(*p.StopLoss)
			pos.StopLoss = &sl
		}
		if p.TakeProfit != nil {
			tp := decimal.NewFromFloat(*p.TakeProfit)
			pos.TakeProfit = &tp
		}
		positions[p.Symbol] = pos
	}

	return &state.Snapshot{
		Time:        ts,
		Positions:   positions,
		TotalValue:  decimal.NewFromFloat(sc.TotalValue),
		CashBalance: decimal.NewFromFloat(sc.Cash),
		Risk: state.RiskMetrics{
			PortfolioVaR:        sc.Risk.PortfolioVaR,
			PortfolioVolatility: sc.Risk.PortfolioVolatility,
			CurrentHeat:         sc.Risk.CurrentHeat,
			PositionVaR:         sc.Risk.PositionVaR,
			PositionVolatility:  sc.Risk.PositionVolatility,
		},
		Execution: state.ExecutionMetrics{
			Latency:      time.Duration(sc.Execution.LatencyMS) * time.Millisecond,
			SpreadCosts:  sc.Execution.SpreadCosts,
			MarketImpact: sc.Execution.MarketImpact,
		},
		Performance: state.PerformanceMetrics{
			TotalReturn:    sc.Performance.TotalReturn,
			SharpeRatio:    sc.Performance.SharpeRatio,
			RecoveryFactor: sc.Performance.RecoveryFactor,
			MaxDrawdown:    sc.Performance.MaxDrawdown,
		},
	}
}

// MarketSignal converts the scenario's signal block, inferring the regime
// from its scalars.
func (sc *Scenario) MarketSignal() market.Signal {
	sig := market.Signal{
		Symbol:     sc.Signal.Symbol,
		Trend:      sc.Signal.Trend,
		Volatility: sc.Signal.Volatility,
		Momentum:   sc.Signal.Momentum,
		Confidence: sc.Signal.Confidence,
		Time:       sc.Time,
	}
	sig.Regime = sig.InferRegime()
	return sig
}
