package risk

import (
	"github.com/shopspring/decimal"
)

var two = decimal.NewFromInt(2)

// ExitLevels derives protective levels from entry price and volatility: the
// stop sits one volatility-move below entry, the target two moves above
// (2:1 reward-to-risk).
func ExitLevels(entry decimal.Decimal, volatility float64) (stop, take decimal.Decimal) {
	dist := entry.Mul(decimal.NewFromFloat(volatility))
	stop = entry.Sub(dist)
	take = entry.Add(dist.Mul(two))
	return stop, take
}

// TrailStop ratchets a stop upward as price moves favorably. The stop never
// moves down.
func TrailStop(current, price decimal.Decimal, volatility float64) decimal.Decimal {
	if price.LessThanOrEqual(current) {
		return current
	}
	trailed := price.Sub(price.Mul(decimal.NewFromFloat(volatility)))
	if trailed.GreaterThan(current) {
		return trailed
	}
	return current
}

// RewardRisk returns (take-entry)/(entry-stop), 0 when the stop distance is
// zero.
func RewardRisk(entry, stop, take decimal.Decimal) float64 {
	riskDist := entry.Sub(stop).Abs()
	if riskDist.IsZero() {
		return 0
	}
	return take.Sub(entry).Abs().Div(riskDist).InexactFloat64()
}

// SizeForVolatility shrinks a base size as volatility rises: size/(1+vol).
func SizeForVolatility(base decimal.Decimal, volatility float64) decimal.Decimal {
	return base.Div(decimal.NewFromFloat(1 + volatility))
}
