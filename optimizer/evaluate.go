package optimizer

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/mprestonsparks/trade-manager/risk"
	"github.com/mprestonsparks/trade-manager/state"
)

// ErrDegenerateSnapshot marks a snapshot that cannot support simulation.
var ErrDegenerateSnapshot = errors.New("degenerate snapshot")

// transactionCostRate estimates round-trip cost as a fraction of traded
// notional.
const transactionCostRate = 0.001

// Fitness weights.
const (
	weightRiskAdjReturn = 0.4
	weightSharpe        = 0.3
	weightRecovery      = 0.2
	weightPenalty       = 0.1
)

// Evaluator scores candidates against the portfolio limits.
type Evaluator struct {
	Limits risk.Limits
}

// Simulate projects the candidate onto a copy of the snapshot: target sizes
// replace current sizes, estimated transaction costs come out of cash, total
// value, and the return figures, and the candidate's protective levels are
// carried onto the positions. The input snapshot is never modified.
func Simulate(p Parameters, snap *state.Snapshot) (*state.Snapshot, error) {
	if snap == nil || snap.TotalValue.IsZero() {
		return nil, ErrDegenerateSnapshot
	}

	sim := snap.Clone()
	cost := decimal.Zero
	for _, sym := range p.Symbols() {
		pos, ok := sim.Positions[sym]
		if !ok {
			continue
		}
		target := p.PositionSizes[sym]
		if target.IsNegative() {
			return nil, errors.New("negative target size for " + sym)
		}

		delta := target.Sub(pos.Size).Abs()
		cost = cost.Add(delta.Mul(pos.CurrentPrice).Mul(decimal.NewFromFloat(transactionCostRate)))
		pos.Size = target

		if stop, ok := p.StopLoss[sym]; ok {
			s := stop
			pos.StopLoss = &s
		}
		if take, ok := p.TakeProfit[sym]; ok {
			t := take
			pos.TakeProfit = &t
		}
		sim.Positions[sym] = pos
	}

	sim.CashBalance = sim.CashBalance.Sub(cost)
	sim.TotalValue = sim.TotalValue.Sub(cost)
	costFrac := cost.Div(snap.TotalValue).InexactFloat64()
	sim.Performance.TotalReturn -= costFrac
	sim.Performance.TransactionCosts += cost.InexactFloat64()
	return sim, nil
}

// Evaluate scores one candidate: weighted risk-adjusted return, Sharpe ratio,
// and recovery factor of the simulated snapshot, minus weighted limit
// penalties, floored at 0. A simulation failure returns fitness 0 with the
// cause; the caller isolates it to this candidate.
func (e Evaluator) Evaluate(p Parameters, snap *state.Snapshot) (float64, error) {
	sim, err := Simulate(p, snap)
	if err != nil {
		return 0, err
	}

	penalties := risk.ConcentrationPenalty(sim, e.Limits) +
		risk.RiskPenalty(sim, e.Limits) +
		risk.ExecutionPenalty(sim, e.Limits)

	score := weightRiskAdjReturn*sim.RiskAdjustedReturn() +
		weightSharpe*sim.Performance.SharpeRatio +
		weightRecovery*sim.Performance.RecoveryFactor -
		weightPenalty*penalties
	if score < 0 {
		return 0, nil
	}
	return score, nil
}
