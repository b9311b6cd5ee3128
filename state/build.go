package state

import (
	"time"

	"github.com/shopspring/decimal"
)

// BrokerPosition is the flat position row a broker gateway reports.
type BrokerPosition struct {
	Symbol       string
	Units        float64
	AvgCost      float64
	MarketPrice  float64
	UnrealizedPL float64
	RealizedPL   float64
}

// Build assembles a snapshot from broker rows and bookkeeping metrics.
// TotalValue is derived as cash plus the sum of position market values, so a
// built snapshot always passes CheckConsistency.
func Build(
	t time.Time,
	cash float64,
	marginUsed, marginAvailable float64,
	positions []BrokerPosition,
	risk RiskMetrics,
	exec ExecutionMetrics,
	perf PerformanceMetrics,
) *Snapshot {
	snap := &Snapshot{
		Time:            t,
		Positions:       make(map[string]Position, len(positions)),
		CashBalance:     decimal.NewFromFloat(cash),
		MarginUsed:      decimal.NewFromFloat(marginUsed),
		MarginAvailable: decimal.NewFromFloat(marginAvailable),
		Risk:            risk,
		Execution:       exec,
		Performance:     perf,
	}

	total := snap.CashBalance
	for _, bp := range positions {
		pos := Position{
			Symbol:       bp.Symbol,
			Size:         decimal.NewFromFloat(bp.Units),
			EntryPrice:   decimal.NewFromFloat(bp.AvgCost),
			CurrentPrice: decimal.NewFromFloat(bp.MarketPrice),
			UnrealizedPL: decimal.NewFromFloat(bp.UnrealizedPL),
			RealizedPL:   decimal.NewFromFloat(bp.RealizedPL),
		}
		snap.Positions[bp.Symbol] = pos
		total = total.Add(pos.MarketValue())
	}
	snap.TotalValue = total

	return snap
}
