package state

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func testSnapshot() *Snapshot {
	// 100 AAPL @ 150 = 15000, 50 MSFT @ 300 = 15000, cash 70000 => total 100000
	return &Snapshot{
		Time: time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC),
		Positions: map[string]Position{
			"AAPL": {Symbol: "AAPL", Size: dec(100), EntryPrice: dec(140), CurrentPrice: dec(150)},
			"MSFT": {Symbol: "MSFT", Size: dec(50), EntryPrice: dec(310), CurrentPrice: dec(300)},
		},
		TotalValue:      dec(100000),
		CashBalance:     dec(70000),
		MarginUsed:      dec(20000),
		MarginAvailable: dec(80000),
		Risk: RiskMetrics{
			PortfolioVaR:        0.015,
			PortfolioVolatility: 0.02,
			PositionVaR:         map[string]float64{"AAPL": 0.01, "MSFT": 0.008},
			CurrentHeat:         0.3,
		},
		Execution: ExecutionMetrics{
			SpreadCosts:  map[string]float64{"AAPL": 0.0004, "MSFT": 0.0006},
			MarketImpact: map[string]float64{"AAPL": 0.001, "MSFT": 0.003},
		},
		Performance: PerformanceMetrics{
			TotalReturn: 0.08,
			SharpeRatio: 1.2,
		},
	}
}

func TestAllocation(t *testing.T) {
	t.Parallel()

	s := testSnapshot()
	alloc := s.Allocation()
	assert.InDelta(t, 0.15, alloc["AAPL"], 1e-9)
	assert.InDelta(t, 0.15, alloc["MSFT"], 1e-9)
	assert.InDelta(t, 0.15, s.Concentration(), 1e-9)
	assert.InDelta(t, 0.70, s.CashRatio(), 1e-9)
	assert.InDelta(t, 0.20, s.MarginUtilization(), 1e-9)
}

func TestAllocationZeroTotal(t *testing.T) {
	t.Parallel()

	s := &Snapshot{Positions: map[string]Position{
		"AAPL": {Size: dec(100), CurrentPrice: dec(150)},
	}}
	assert.Empty(t, s.Allocation())
	assert.Equal(t, 0.0, s.Concentration())
	assert.Equal(t, 0.0, s.CashRatio())
}

func TestRiskAdjustedReturn(t *testing.T) {
	t.Parallel()

	s := testSnapshot()
	assert.InDelta(t, 4.0, s.RiskAdjustedReturn(), 1e-9) // 0.08 / 0.02

	s.Risk.PortfolioVolatility = 0
	assert.Equal(t, 0.0, s.RiskAdjustedReturn())
}

func TestCheckConsistency(t *testing.T) {
	t.Parallel()

	s := testSnapshot()
	assert.NoError(t, s.CheckConsistency(dec(0.01)))

	s.TotalValue = dec(105000)
	err := s.CheckConsistency(dec(0.01))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "snapshot inconsistent")
}

func TestExecutionAverages(t *testing.T) {
	t.Parallel()

	s := testSnapshot()
	assert.InDelta(t, 0.0005, s.AvgSpreadCost(), 1e-12)
	assert.InDelta(t, 0.002, s.AvgMarketImpact(), 1e-12)

	s.Execution.SpreadCosts = nil
	assert.Equal(t, 0.0, s.AvgSpreadCost())
}

func TestClone(t *testing.T) {
	t.Parallel()

	s := testSnapshot()
	sl := dec(145)
	p := s.Positions["AAPL"]
	p.StopLoss = &sl
	s.Positions["AAPL"] = p

	c := s.Clone()
	cp := c.Positions["AAPL"]
	cp.Size = dec(999)
	*cp.StopLoss = dec(1)
	c.Positions["AAPL"] = cp
	c.Risk.PositionVaR["AAPL"] = 0.5
	c.Execution.SpreadCosts["AAPL"] = 0.5

	assert.True(t, s.Positions["AAPL"].Size.Equal(dec(100)))
	assert.True(t, s.Positions["AAPL"].StopLoss.Equal(dec(145)))
	assert.Equal(t, 0.01, s.Risk.PositionVaR["AAPL"])
	assert.Equal(t, 0.0004, s.Execution.SpreadCosts["AAPL"])
}

func TestBuild(t *testing.T) {
	t.Parallel()

	snap := Build(
		time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC),
		70000, 0, 0,
		[]BrokerPosition{
			{Symbol: "AAPL", Units: 100, AvgCost: 140, MarketPrice: 150, UnrealizedPL: 1000},
			{Symbol: "MSFT", Units: 50, AvgCost: 310, MarketPrice: 300, UnrealizedPL: -500},
		},
		RiskMetrics{}, ExecutionMetrics{}, PerformanceMetrics{},
	)

	assert.True(t, snap.TotalValue.Equal(dec(100000)), "got %s", snap.TotalValue)
	assert.NoError(t, snap.CheckConsistency(dec(0.01)))
	assert.Len(t, snap.Positions, 2)
}

func TestFeatures(t *testing.T) {
	t.Parallel()

	f := testSnapshot().Features()
	assert.InDelta(t, 0.15, f.Concentration, 1e-9)
	assert.InDelta(t, 0.01, f.MaxPositionVaR, 1e-12)
	assert.InDelta(t, 0.3, f.PortfolioHeat, 1e-12)
	assert.InDelta(t, 1.2, f.SharpeRatio, 1e-12)
}
