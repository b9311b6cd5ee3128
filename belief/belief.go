// Package belief tracks the optimizer's point estimates of optimal trading
// parameters across the portfolio, risk, and execution domains, along with
// per-parameter uncertainty and an overall confidence scalar.
//
// A State is owned by exactly one optimization engine and carries over
// between cycles. It is not safe for concurrent use; the caller serializes
// cycles (single-writer discipline).
package belief

// Parameter keys per domain.
const (
	// Portfolio
	KeyPositionSize     = "position_size"
	KeyMaxConcentration = "max_concentration"
	KeyCashBuffer       = "cash_buffer"

	// Risk
	KeyVaRLimit     = "var_limit"
	KeyStopLoss     = "stop_loss"
	KeyHeatCapacity = "heat_capacity"

	// Execution
	KeyMarketImpact      = "market_impact_threshold"
	KeySpreadThreshold   = "spread_threshold"
	KeyTimingSensitivity = "timing_sensitivity"
)

// State holds believed optimal values and their uncertainties per domain,
// plus overall confidence in [0, 1].
type State struct {
	Portfolio map[string]float64
	Risk      map[string]float64
	Execution map[string]float64

	PortfolioUncertainty map[string]float64
	RiskUncertainty      map[string]float64
	ExecutionUncertainty map[string]float64

	Confidence float64
}

// NewState returns priors: 10% position sizing, 30% concentration cap, 10%
// cash buffer, 2% VaR and stop-loss, 80% heat capacity, 0.1% impact and
// 0.05% spread thresholds, medium timing sensitivity. All uncertainties start
// at 0.2 and confidence at 0.5.
func NewState() *State {
	return &State{
		Portfolio: map[string]float64{
			KeyPositionSize:     0.1,
			KeyMaxConcentration: 0.3,
			KeyCashBuffer:       0.1,
		},
		Risk: map[string]float64{
			KeyVaRLimit:     0.02,
			KeyStopLoss:     0.02,
			KeyHeatCapacity: 0.8,
		},
		Execution: map[string]float64{
			KeyMarketImpact:      0.001,
			KeySpreadThreshold:   0.0005,
			KeyTimingSensitivity: 0.5,
		},
		PortfolioUncertainty: map[string]float64{
			KeyPositionSize:     0.2,
			KeyMaxConcentration: 0.2,
			KeyCashBuffer:       0.2,
		},
		RiskUncertainty: map[string]float64{
			KeyVaRLimit:     0.2,
			KeyStopLoss:     0.2,
			KeyHeatCapacity: 0.2,
		},
		ExecutionUncertainty: map[string]float64{
			KeyMarketImpact:      0.2,
			KeySpreadThreshold:   0.2,
			KeyTimingSensitivity: 0.2,
		},
		Confidence: 0.5,
	}
}

// Uncertainty returns the configured uncertainty for a key, searching all
// three domains. Unknown keys report the default prior of 0.2.
func (s *State) Uncertainty(key string) float64 {
	if u, ok := s.PortfolioUncertainty[key]; ok {
		return u
	}
	if u, ok := s.RiskUncertainty[key]; ok {
		return u
	}
	if u, ok := s.ExecutionUncertainty[key]; ok {
		return u
	}
	return 0.2
}
