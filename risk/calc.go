// Package risk provides the snapshot-level risk arithmetic shared by the
// belief updater and the fitness evaluator: constraint penalties, volatility
// sizing, and protective exit levels.
package risk

import (
	"github.com/mprestonsparks/trade-manager/state"
)

// Limits are the hard constraints a candidate parameter set is scored
// against. Each penalty below is zero while the snapshot stays inside them.
type Limits struct {
	MaxPositionSize  float64 // max single-position allocation fraction
	MaxConcentration float64 // max largest-position allocation fraction
	VaRLimit         float64 // portfolio VaR cap
	MaxHeat          float64 // portfolio heat cap
	ImpactThreshold  float64 // acceptable avg market impact
	SpreadThreshold  float64 // acceptable avg spread cost
}

// ConcentrationPenalty measures allocation excess: the largest position's
// overshoot of MaxConcentration plus every position's overshoot of
// MaxPositionSize. Non-negative, zero when within limits.
func ConcentrationPenalty(snap *state.Snapshot, lim Limits) float64 {
	penalty := excess(snap.Concentration(), lim.MaxConcentration)
	for _, alloc := range snap.Allocation() {
		penalty += excess(alloc, lim.MaxPositionSize)
	}
	return penalty
}

// RiskPenalty measures VaR and heat excess over their caps.
func RiskPenalty(snap *state.Snapshot, lim Limits) float64 {
	return excess(snap.Risk.PortfolioVaR, lim.VaRLimit) +
		excess(snap.Risk.CurrentHeat, lim.MaxHeat)
}

// ExecutionPenalty measures spread and impact cost excess over thresholds.
func ExecutionPenalty(snap *state.Snapshot, lim Limits) float64 {
	return excess(snap.AvgMarketImpact(), lim.ImpactThreshold) +
		excess(snap.AvgSpreadCost(), lim.SpreadThreshold)
}

func excess(value, limit float64) float64 {
	if value > limit {
		return value - limit
	}
	return 0
}
