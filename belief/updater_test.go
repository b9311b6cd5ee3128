package belief

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mprestonsparks/trade-manager/market"
	"github.com/mprestonsparks/trade-manager/state"
)

func dec(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func heatOnlySnapshot(heat float64) *state.Snapshot {
	return &state.Snapshot{
		Positions: map[string]state.Position{},
		Risk:      state.RiskMetrics{CurrentHeat: heat},
	}
}

func TestRiskBeliefCorrection(t *testing.T) {
	t.Parallel()

	// Observed heat 0.05 against prior 0.02 with lr 0.01 moves the belief to
	// 0.02 + 0.01*(0.05-0.02) = 0.0203.
	st := NewState()
	st.Risk[KeyHeatCapacity] = 0.02

	u := Updater{LearningRate: 0.01}
	rep := u.Update(st, heatOnlySnapshot(0.05), market.Signal{})

	assert.InDelta(t, 0.0203, st.Risk[KeyHeatCapacity], 1e-12)
	assert.InDelta(t, 0.03, rep.Errors[KeyHeatCapacity], 1e-12)
}

func TestDegradedDomainsDoNotBlockOthers(t *testing.T) {
	t.Parallel()

	st := NewState()
	prior := st.Risk[KeyHeatCapacity]

	u := Updater{LearningRate: 0.05}
	rep := u.Update(st, heatOnlySnapshot(0.4), market.Signal{})

	// Heat updated even though every other key degraded.
	assert.NotEqual(t, prior, st.Risk[KeyHeatCapacity])
	assert.Contains(t, rep.Degraded, KeyPositionSize)
	assert.Contains(t, rep.Degraded, KeySpreadThreshold)
	assert.NotContains(t, rep.Degraded, KeyHeatCapacity)

	// Degraded keys carry a zero error and an unchanged belief.
	assert.Equal(t, 0.0, rep.Errors[KeyPositionSize])
	assert.Equal(t, 0.1, st.Portfolio[KeyPositionSize])
}

func TestNilSnapshotDegradesEverything(t *testing.T) {
	t.Parallel()

	st := NewState()
	u := Updater{LearningRate: 0.05}
	rep := u.Update(st, nil, market.Signal{})

	assert.Len(t, rep.Degraded, 9)
	for _, e := range rep.Errors {
		assert.Equal(t, 0.0, e)
	}
	assert.InDelta(t, 0.5, st.Confidence, 1e-12)
}

func TestConfidenceBounds(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		heat float64
	}{
		{name: "huge_positive_error", heat: 1e6},
		{name: "tiny_error", heat: 0.800001},
		{name: "moderate", heat: 0.5},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			st := NewState()
			u := Updater{LearningRate: 0.01}
			rep := u.Update(st, heatOnlySnapshot(tt.heat), market.Signal{})
			assert.GreaterOrEqual(t, rep.Confidence, 0.0)
			assert.LessOrEqual(t, rep.Confidence, 1.0)
			assert.Equal(t, rep.Confidence, st.Confidence)
		})
	}
}

func TestConfidenceDirection(t *testing.T) {
	t.Parallel()

	// Signed-mean sigmoid: under-estimates (positive error) depress
	// confidence below 0.5, over-estimates raise it.
	st := NewState()
	u := Updater{LearningRate: 0.01}
	u.Update(st, heatOnlySnapshot(5.0), market.Signal{})
	assert.Less(t, st.Confidence, 0.5)

	st2 := NewState()
	st2.Risk[KeyHeatCapacity] = 5.0
	u.Update(st2, heatOnlySnapshot(0.1), market.Signal{})
	assert.Greater(t, st2.Confidence, 0.5)
}

func TestFullSnapshotUpdate(t *testing.T) {
	t.Parallel()

	sl := dec(147)
	snap := &state.Snapshot{
		Time: time.Now(),
		Positions: map[string]state.Position{
			"AAPL": {Symbol: "AAPL", Size: dec(100), CurrentPrice: dec(150), StopLoss: &sl},
		},
		TotalValue:  dec(100000),
		CashBalance: dec(85000),
		Risk: state.RiskMetrics{
			PortfolioVaR: 0.018,
			CurrentHeat:  0.4,
		},
		Execution: state.ExecutionMetrics{
			Latency:      250 * time.Millisecond,
			SpreadCosts:  map[string]float64{"AAPL": 0.0006},
			MarketImpact: map[string]float64{"AAPL": 0.002},
		},
	}

	st := NewState()
	u := Updater{LearningRate: 0.01}
	rep := u.Update(st, snap, market.Signal{Symbol: "AAPL", Regime: market.RegimeRanging})

	require.Empty(t, rep.Degraded)

	// Spot-check a few corrections.
	assert.InDelta(t, 0.1+0.01*(0.15-0.1), st.Portfolio[KeyPositionSize], 1e-12)
	assert.InDelta(t, 0.02+0.01*(0.018-0.02), st.Risk[KeyVaRLimit], 1e-12)
	assert.InDelta(t, 0.02+0.01*(0.02-0.02), st.Risk[KeyStopLoss], 1e-12)
	assert.InDelta(t, 0.5+0.01*(0.25-0.5), st.Execution[KeyTimingSensitivity], 1e-12)
	assert.False(t, math.IsNaN(st.Confidence))
}

func TestUncertaintyLookup(t *testing.T) {
	t.Parallel()

	st := NewState()
	assert.Equal(t, 0.2, st.Uncertainty(KeyPositionSize))
	assert.Equal(t, 0.2, st.Uncertainty("no_such_key"))

	st.RiskUncertainty[KeyVaRLimit] = 0.05
	assert.Equal(t, 0.05, st.Uncertainty(KeyVaRLimit))
}
