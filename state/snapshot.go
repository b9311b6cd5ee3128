// Package state holds the immutable per-cycle view of portfolio, risk,
// execution, and performance conditions that the optimizer consumes. A
// Snapshot is built once per decision cycle from broker data and treated as
// read-only for the rest of the cycle.
package state

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Position is one open holding. Sizes and prices are decimal; derived ratios
// elsewhere are float64.
type Position struct {
	Symbol       string
	Size         decimal.Decimal
	EntryPrice   decimal.Decimal
	CurrentPrice decimal.Decimal
	UnrealizedPL decimal.Decimal
	RealizedPL   decimal.Decimal

	// Optional protective levels carried on the position.
	StopLoss   *decimal.Decimal
	TakeProfit *decimal.Decimal
}

// MarketValue returns Size * CurrentPrice.
func (p Position) MarketValue() decimal.Decimal {
	return p.Size.Mul(p.CurrentPrice)
}

// RiskMetrics are portfolio-level risk figures supplied by the risk
// bookkeeping layer. Volatility and correlations are injected inputs; the
// optimizer never re-estimates them.
type RiskMetrics struct {
	PortfolioVaR        float64
	PortfolioVolatility float64
	PositionVaR         map[string]float64
	PositionVolatility  map[string]float64
	Correlations        map[string]map[string]float64
	MaxDrawdown         float64
	CurrentHeat         float64
}

// ExecutionMetrics describe current execution conditions.
type ExecutionMetrics struct {
	PendingOrders int
	Latency       time.Duration
	SpreadCosts   map[string]float64
	MarketImpact  map[string]float64
}

// PerformanceMetrics summarize realized performance to date.
type PerformanceMetrics struct {
	TotalReturn      float64
	SharpeRatio      float64
	SortinoRatio     float64
	MaxDrawdown      float64
	RecoveryFactor   float64
	WinRate          float64
	ProfitFactor     float64
	TransactionCosts float64
}

// Snapshot is the complete system view at decision time.
type Snapshot struct {
	Time            time.Time
	Positions       map[string]Position
	TotalValue      decimal.Decimal
	CashBalance     decimal.Decimal
	MarginUsed      decimal.Decimal
	MarginAvailable decimal.Decimal
	Risk            RiskMetrics
	Execution       ExecutionMetrics
	Performance     PerformanceMetrics
}

// Allocation returns each position's share of total portfolio value.
// Empty when total value is zero.
func (s *Snapshot) Allocation() map[string]float64 {
	alloc := make(map[string]float64, len(s.Positions))
	if s.TotalValue.IsZero() {
		return alloc
	}
	for sym, pos := range s.Positions {
		alloc[sym] = pos.MarketValue().Div(s.TotalValue).InexactFloat64()
	}
	return alloc
}

// Concentration returns the largest single-asset allocation, 0 if flat.
func (s *Snapshot) Concentration() float64 {
	max := 0.0
	for _, a := range s.Allocation() {
		if a > max {
			max = a
		}
	}
	return max
}

// CashRatio returns cash balance over total value, 0 if total is zero.
func (s *Snapshot) CashRatio() float64 {
	if s.TotalValue.IsZero() {
		return 0
	}
	return s.CashBalance.Div(s.TotalValue).InexactFloat64()
}

// MarginUtilization returns used margin over total margin, 0 when no margin
// is in play.
func (s *Snapshot) MarginUtilization() float64 {
	total := s.MarginUsed.Add(s.MarginAvailable)
	if total.IsZero() {
		return 0
	}
	return s.MarginUsed.Div(total).InexactFloat64()
}

// AvgSpreadCost averages per-symbol spread costs, 0 when none are reported.
func (s *Snapshot) AvgSpreadCost() float64 {
	return mean(s.Execution.SpreadCosts)
}

// AvgMarketImpact averages per-symbol impact costs, 0 when none are reported.
func (s *Snapshot) AvgMarketImpact() float64 {
	return mean(s.Execution.MarketImpact)
}

// RiskAdjustedReturn is total return over portfolio volatility, 0 when
// volatility is zero.
func (s *Snapshot) RiskAdjustedReturn() float64 {
	if s.Risk.PortfolioVolatility == 0 {
		return 0
	}
	return s.Performance.TotalReturn / s.Risk.PortfolioVolatility
}

// CheckConsistency verifies that position market values plus cash add up to
// the reported total value, within tol (an absolute currency amount covering
// broker rounding).
func (s *Snapshot) CheckConsistency(tol decimal.Decimal) error {
	sum := s.CashBalance
	for _, pos := range s.Positions {
		sum = sum.Add(pos.MarketValue())
	}
	diff := sum.Sub(s.TotalValue).Abs()
	if diff.GreaterThan(tol) {
		return fmt.Errorf("snapshot inconsistent: positions+cash %s vs total %s (diff %s)",
			sum, s.TotalValue, diff)
	}
	return nil
}

// Clone deep-copies the snapshot so fitness simulation can project forward
// without touching the cycle's read-only view.
func (s *Snapshot) Clone() *Snapshot {
	c := *s
	c.Positions = make(map[string]Position, len(s.Positions))
	for sym, pos := range s.Positions {
		if pos.StopLoss != nil {
			sl := *pos.StopLoss
			pos.StopLoss = &sl
		}
		if pos.TakeProfit != nil {
			tp := *pos.TakeProfit
			pos.TakeProfit = &tp
		}
		c.Positions[sym] = pos
	}
	c.Risk.PositionVaR = copyMap(s.Risk.PositionVaR)
	c.Risk.PositionVolatility = copyMap(s.Risk.PositionVolatility)
	c.Risk.Correlations = make(map[string]map[string]float64, len(s.Risk.Correlations))
	for sym, row := range s.Risk.Correlations {
		c.Risk.Correlations[sym] = copyMap(row)
	}
	c.Execution.SpreadCosts = copyMap(s.Execution.SpreadCosts)
	c.Execution.MarketImpact = copyMap(s.Execution.MarketImpact)
	return &c
}

func mean(m map[string]float64) float64 {
	if len(m) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range m {
		sum += v
	}
	return sum / float64(len(m))
}

func copyMap(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
