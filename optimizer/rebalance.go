package optimizer

import (
	"github.com/shopspring/decimal"

	"github.com/mprestonsparks/trade-manager/state"
)

// Side is the direction of a rebalance instruction.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Instruction is one concrete order derived from diffing an optimized
// candidate against the current snapshot.
type Instruction struct {
	Symbol   string
	Side     Side
	Quantity decimal.Decimal
	Style    ExecutionStyle
}

// Rebalance diffs the candidate's target sizes against the snapshot's current
// sizes and emits buy/sell instructions for moves whose notional exceeds the
// per-symbol rebalance threshold. Output is sorted by symbol.
func Rebalance(p Parameters, snap *state.Snapshot) []Instruction {
	if snap == nil || snap.TotalValue.IsZero() {
		return nil
	}

	var out []Instruction
	for _, sym := range p.Symbols() {
		pos, ok := snap.Positions[sym]
		if !ok || pos.CurrentPrice.IsZero() {
			continue
		}

		delta := p.PositionSizes[sym].Sub(pos.Size)
		if delta.IsZero() {
			continue
		}

		notionalFrac := delta.Abs().Mul(pos.CurrentPrice).Div(snap.TotalValue).InexactFloat64()
		if notionalFrac < p.RebalanceThresholds[sym] {
			continue
		}

		side := SideBuy
		if delta.IsNegative() {
			side = SideSell
		}
		style := p.ExecutionStyles[sym]
		if style == "" {
			style = StyleMarket
		}
		out = append(out, Instruction{
			Symbol:   sym,
			Side:     side,
			Quantity: delta.Abs(),
			Style:    style,
		})
	}
	return out
}
