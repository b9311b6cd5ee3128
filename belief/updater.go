package belief

import (
	"math"
	"sort"
	"time"

	"github.com/mprestonsparks/trade-manager/market"
	"github.com/mprestonsparks/trade-manager/state"
)

// latencyRef normalizes execution latency into a [0, 1] timing pressure.
const latencyRef = time.Second

// Updater applies precision-weighted corrections to a belief State from one
// snapshot and market signal. The learning rate must lie in [0, 1).
type Updater struct {
	LearningRate float64
}

// Report is the inspectable outcome of one update: signed per-key prediction
// errors, the keys that degraded to a zero error because the snapshot lacked
// the data, and the recomputed confidence.
type Report struct {
	Errors     map[string]float64
	Degraded   []string
	Confidence float64
}

// Update mutates st in place. A key whose observation cannot be derived from
// the snapshot contributes a zero error (no belief change) but never blocks
// the other domains.
func (u Updater) Update(st *State, snap *state.Snapshot, sig market.Signal) Report {
	rep := Report{Errors: make(map[string]float64)}

	observe := func(beliefs map[string]float64, key string, observed float64, ok bool) {
		if !ok {
			rep.Errors[key] = 0
			rep.Degraded = append(rep.Degraded, key)
			return
		}
		err := observed - beliefs[key]
		beliefs[key] = beliefs[key] + u.LearningRate*err
		rep.Errors[key] = err
	}

	feats := state.Features{}
	hasSnapshot := snap != nil
	if hasSnapshot {
		feats = snap.Features()
	}
	hasPositions := hasSnapshot && len(snap.Positions) > 0

	// Portfolio domain: pressures read off current allocations.
	observe(st.Portfolio, KeyPositionSize, meanAllocation(snap), hasPositions)
	observe(st.Portfolio, KeyMaxConcentration, feats.Concentration, hasPositions)
	observe(st.Portfolio, KeyCashBuffer, feats.CashRatio, hasSnapshot && !snap.TotalValue.IsZero())

	// Risk domain.
	observe(st.Risk, KeyVaRLimit, feats.PortfolioVaR, hasSnapshot && feats.PortfolioVaR > 0)
	stopDist, stopOK := meanStopDistance(snap)
	observe(st.Risk, KeyStopLoss, stopDist, stopOK)
	observe(st.Risk, KeyHeatCapacity, feats.PortfolioHeat, hasSnapshot && feats.PortfolioHeat > 0)

	// Execution domain.
	observe(st.Execution, KeyMarketImpact, feats.AvgMarketImpact, hasSnapshot && len(snap.Execution.MarketImpact) > 0)
	observe(st.Execution, KeySpreadThreshold, feats.AvgSpreadCost, hasSnapshot && len(snap.Execution.SpreadCosts) > 0)
	observe(st.Execution, KeyTimingSensitivity, timingPressure(feats.Latency), hasSnapshot && feats.Latency > 0)

	st.Confidence = confidence(rep.Errors)
	rep.Confidence = st.Confidence

	sort.Strings(rep.Degraded)
	_ = sig // regime/confidence feed candidate initialization, not belief values
	return rep
}

// confidence maps the mean signed prediction error through 1/(1+e^x):
// persistent positive surprises push confidence toward 0, overestimates
// toward 1, zero error lands at 0.5. Clamped to [0, 1] against float spill.
func confidence(errors map[string]float64) float64 {
	if len(errors) == 0 {
		return 0.5
	}
	sum := 0.0
	for _, e := range errors {
		sum += e
	}
	m := sum / float64(len(errors))
	c := 1.0 / (1.0 + math.Exp(m))
	return math.Max(0, math.Min(1, c))
}

// meanAllocation is the average per-position share of portfolio value, the
// observed position-size pressure.
func meanAllocation(snap *state.Snapshot) float64 {
	if snap == nil || len(snap.Positions) == 0 {
		return 0
	}
	sum := 0.0
	alloc := snap.Allocation()
	for _, a := range alloc {
		sum += a
	}
	return sum / float64(len(snap.Positions))
}

// meanStopDistance averages each stopped position's relative stop distance
// |price - stop| / price. ok is false when no position carries a stop.
func meanStopDistance(snap *state.Snapshot) (float64, bool) {
	if snap == nil {
		return 0, false
	}
	sum := 0.0
	n := 0
	for _, pos := range snap.Positions {
		if pos.StopLoss == nil || pos.CurrentPrice.IsZero() {
			continue
		}
		d := pos.CurrentPrice.Sub(*pos.StopLoss).Abs().Div(pos.CurrentPrice).InexactFloat64()
		sum += d
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

func timingPressure(latency time.Duration) float64 {
	p := float64(latency) / float64(latencyRef)
	return math.Min(1, p)
}
