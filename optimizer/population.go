package optimizer

import (
	"math"
	"math/rand"

	"github.com/shopspring/decimal"

	"github.com/mprestonsparks/trade-manager/belief"
	"github.com/mprestonsparks/trade-manager/config"
	"github.com/mprestonsparks/trade-manager/market"
	"github.com/mprestonsparks/trade-manager/risk"
	"github.com/mprestonsparks/trade-manager/state"
)

// NewPopulation samples the initial gene pool. Index 0 is always the identity
// candidate; the rest are drawn around the belief priors, with the sampling
// spread widened by the exploration factor when confidence (belief or signal)
// is low. Returns nil when the configured population size is 0.
func NewPopulation(snap *state.Snapshot, beliefs *belief.State, sig market.Signal, cfg *config.Config, rng *rand.Rand) []Parameters {
	n := cfg.Optimization.PopulationSize
	if n <= 0 || snap == nil {
		return nil
	}

	conf := math.Min(beliefs.Confidence, sig.Confidence)
	widen := 1 + cfg.Optimization.ExplorationFactor*(1-conf)

	pop := make([]Parameters, 0, n)
	pop = append(pop, Identity(snap, cfg))
	for len(pop) < n {
		pop = append(pop, sample(snap, beliefs, cfg, rng, widen))
	}
	return pop
}

// sample draws one candidate: sizes centered on the believed position-size
// fraction of total value, stops and targets around volatility-scaled exit
// levels, risk scalars around the belief priors.
func sample(snap *state.Snapshot, beliefs *belief.State, cfg *config.Config, rng *rand.Rand, widen float64) Parameters {
	p := Identity(snap, cfg)

	sizeFrac := beliefs.Portfolio[belief.KeyPositionSize]
	sizeSpread := beliefs.Uncertainty(belief.KeyPositionSize) * widen
	stopSpread := beliefs.Uncertainty(belief.KeyStopLoss) * widen
	varSpread := beliefs.Uncertainty(belief.KeyVaRLimit) * widen
	heatSpread := beliefs.Uncertainty(belief.KeyHeatCapacity) * widen

	total := snap.TotalValue
	for _, sym := range p.Symbols() {
		pos := snap.Positions[sym]
		if pos.CurrentPrice.IsZero() || total.IsZero() {
			continue
		}

		center := total.Mul(decimal.NewFromFloat(sizeFrac)).Div(pos.CurrentPrice)
		size := center.Mul(decimal.NewFromFloat(1 + uniform(rng, sizeSpread)))
		if size.IsNegative() {
			size = decimal.Zero
		}
		p.PositionSizes[sym] = size
		p.TargetAllocations[sym] = size.Mul(pos.CurrentPrice).Div(total).InexactFloat64()

		vol := snap.Risk.PositionVolatility[sym]
		if vol == 0 {
			vol = beliefs.Risk[belief.KeyStopLoss]
		}
		stop, take := risk.ExitLevels(pos.CurrentPrice, vol)
		p.StopLoss[sym] = stop.Mul(decimal.NewFromFloat(1 + uniform(rng, stopSpread)))
		p.TakeProfit[sym] = take.Mul(decimal.NewFromFloat(1 + uniform(rng, stopSpread)))

		p.VaRLimits[sym] = beliefs.Risk[belief.KeyVaRLimit] * (1 + uniform(rng, varSpread))

		if rng.Float64() < cfg.Optimization.ExplorationFactor {
			p.ExecutionStyles[sym] = Styles[rng.Intn(len(Styles))]
		}
	}

	heat := beliefs.Risk[belief.KeyHeatCapacity] * (1 + uniform(rng, heatSpread))
	p.HeatCapacity = clampHeat(heat)
	return p
}

// uniform draws from U(-spread, spread).
func uniform(rng *rand.Rand, spread float64) float64 {
	return (rng.Float64()*2 - 1) * spread
}

func clampHeat(h float64) float64 {
	return math.Min(1.0, math.Max(0.1, h))
}
