package state

import "time"

// Features is the fixed-shape summary of a snapshot used for belief updates
// and cycle reporting.
type Features struct {
	// Portfolio
	Concentration     float64
	CashRatio         float64
	MarginUtilization float64

	// Risk
	PortfolioVaR   float64
	PortfolioHeat  float64
	MaxPositionVaR float64

	// Performance
	SharpeRatio    float64
	SortinoRatio   float64
	RecoveryFactor float64

	// Execution
	AvgSpreadCost   float64
	AvgMarketImpact float64
	Latency         time.Duration
}

// Features computes the optimization feature summary.
func (s *Snapshot) Features() Features {
	maxVaR := 0.0
	for _, v := range s.Risk.PositionVaR {
		if v > maxVaR {
			maxVaR = v
		}
	}
	return Features{
		Concentration:     s.Concentration(),
		CashRatio:         s.CashRatio(),
		MarginUtilization: s.MarginUtilization(),
		PortfolioVaR:      s.Risk.PortfolioVaR,
		PortfolioHeat:     s.Risk.CurrentHeat,
		MaxPositionVaR:    maxVaR,
		SharpeRatio:       s.Performance.SharpeRatio,
		SortinoRatio:      s.Performance.SortinoRatio,
		RecoveryFactor:    s.Performance.RecoveryFactor,
		AvgSpreadCost:     s.AvgSpreadCost(),
		AvgMarketImpact:   s.AvgMarketImpact(),
		Latency:           s.Execution.Latency,
	}
}
