package risk

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/mprestonsparks/trade-manager/state"
)

func dec(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func snapWithAlloc(allocAAPL, allocMSFT float64) *state.Snapshot {
	total := 100000.0
	return &state.Snapshot{
		Positions: map[string]state.Position{
			"AAPL": {Symbol: "AAPL", Size: dec(allocAAPL * total / 150), CurrentPrice: dec(150)},
			"MSFT": {Symbol: "MSFT", Size: dec(allocMSFT * total / 300), CurrentPrice: dec(300)},
		},
		TotalValue: dec(total),
	}
}

func defaultLimits() Limits {
	return Limits{
		MaxPositionSize:  0.1,
		MaxConcentration: 0.3,
		VaRLimit:         0.02,
		MaxHeat:          0.8,
		ImpactThreshold:  0.001,
		SpreadThreshold:  0.0005,
	}
}

func TestConcentrationPenalty(t *testing.T) {
	t.Parallel()

	lim := defaultLimits()

	// Both positions inside per-position and concentration caps.
	assert.Equal(t, 0.0, ConcentrationPenalty(snapWithAlloc(0.05, 0.08), lim))

	// 15% position breaches the 10% per-position cap by 5%.
	p := ConcentrationPenalty(snapWithAlloc(0.15, 0.05), lim)
	assert.InDelta(t, 0.05, p, 1e-9)

	// 40% position breaches both the per-position and concentration caps.
	p = ConcentrationPenalty(snapWithAlloc(0.40, 0.05), lim)
	assert.InDelta(t, (0.40-0.30)+(0.40-0.10), p, 1e-9)
}

func TestRiskPenalty(t *testing.T) {
	t.Parallel()

	lim := defaultLimits()
	snap := &state.Snapshot{Risk: state.RiskMetrics{PortfolioVaR: 0.01, CurrentHeat: 0.5}}
	assert.Equal(t, 0.0, RiskPenalty(snap, lim))

	snap.Risk.PortfolioVaR = 0.05
	snap.Risk.CurrentHeat = 0.9
	assert.InDelta(t, (0.05-0.02)+(0.9-0.8), RiskPenalty(snap, lim), 1e-12)
}

func TestExecutionPenalty(t *testing.T) {
	t.Parallel()

	lim := defaultLimits()
	snap := &state.Snapshot{Execution: state.ExecutionMetrics{
		SpreadCosts:  map[string]float64{"AAPL": 0.0004},
		MarketImpact: map[string]float64{"AAPL": 0.0008},
	}}
	assert.Equal(t, 0.0, ExecutionPenalty(snap, lim))

	snap.Execution.SpreadCosts["AAPL"] = 0.002
	snap.Execution.MarketImpact["AAPL"] = 0.003
	assert.InDelta(t, (0.003-0.001)+(0.002-0.0005), ExecutionPenalty(snap, lim), 1e-12)
}

func TestExitLevels(t *testing.T) {
	t.Parallel()

	stop, take := ExitLevels(dec(100), 0.02)
	assert.True(t, stop.Equal(dec(98)), "stop %s", stop)
	assert.True(t, take.Equal(dec(104)), "take %s", take)

	assert.InDelta(t, 2.0, RewardRisk(dec(100), stop, take), 1e-9)
}

func TestRewardRiskZeroStop(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 0.0, RewardRisk(dec(100), dec(100), dec(110)))
}

func TestTrailStop(t *testing.T) {
	t.Parallel()

	// Price above stop: trail up to price - vol*price.
	got := TrailStop(dec(95), dec(110), 0.02)
	assert.True(t, got.Equal(dec(107.8)), "got %s", got)

	// Price below stop: never loosen.
	got = TrailStop(dec(95), dec(90), 0.02)
	assert.True(t, got.Equal(dec(95)))

	// Trailed level below current stop: keep current.
	got = TrailStop(dec(99.5), dec(100), 0.02)
	assert.True(t, got.Equal(dec(99.5)))
}

func TestSizeForVolatility(t *testing.T) {
	t.Parallel()

	got := SizeForVolatility(dec(100), 0.25)
	assert.True(t, got.Equal(dec(80)), "got %s", got)

	// Zero volatility leaves the size unchanged.
	got = SizeForVolatility(dec(100), 0)
	assert.True(t, got.Equal(dec(100)))
}
