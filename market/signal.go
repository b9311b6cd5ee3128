package market

import (
	"time"
)

// Regime classifies the prevailing market condition reported by the
// market-analysis service. It feeds candidate initialization: low-confidence
// regimes widen the optimizer's sampling spread.
type Regime string

const (
	RegimeHighVolatility Regime = "high_volatility"
	RegimeTrending       Regime = "trending"
	RegimeMomentum       Regime = "momentum"
	RegimeRanging        Regime = "ranging"
	RegimeUnknown        Regime = "unknown"
)

// Signal is one observation from the market-analysis service: technical
// scalars plus a regime classification with its confidence.
type Signal struct {
	Symbol     string
	Trend      float64 // trend strength, roughly [-1, 1]
	Volatility float64 // non-negative, normalized
	Momentum   float64 // roughly [-1, 1]
	Regime     Regime
	Confidence float64 // regime confidence in [0, 1]
	Time       time.Time
}

// InferRegime classifies the signal from its own scalars. Used when the
// upstream service supplies indicators but no regime label.
func (s Signal) InferRegime() Regime {
	switch {
	case s.Volatility > 0.8:
		return RegimeHighVolatility
	case abs(s.Trend) > 0.7:
		return RegimeTrending
	case abs(s.Momentum) > 0.7:
		return RegimeMomentum
	default:
		return RegimeRanging
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
