package optimizer

import (
	"math/rand"

	"github.com/shopspring/decimal"
)

// Mutation bounds. Sizes and heat move by up to 10%, protective levels by up
// to 5%; heat capacity stays within [0.1, 1.0] after every draw.
const (
	sizeMutationSpread = 0.10
	stopMutationSpread = 0.05
	heatMutationSpread = 0.10
)

// tournament picks one parent index: sample k candidates without replacement,
// keep the fittest. Ties go to the candidate seen first in the draw.
func tournament(rng *rand.Rand, fitness []float64, k int) int {
	if k > len(fitness) {
		k = len(fitness)
	}
	drawn := rng.Perm(len(fitness))[:k]
	best := drawn[0]
	for _, idx := range drawn[1:] {
		if fitness[idx] > fitness[best] {
			best = idx
		}
	}
	return best
}

// selectParents runs tournaments until n parents are chosen. Parents may
// repeat across tournaments; each individual tournament is without
// replacement.
func selectParents(rng *rand.Rand, fitness []float64, k, n int) []int {
	parents := make([]int, 0, n)
	for len(parents) < n {
		parents = append(parents, tournament(rng, fitness, k))
	}
	return parents
}

// crossover mates two parents with uniform crossover at gene-group
// granularity: position targets, protective levels plus VaR limits, heat
// capacity, and execution styles each flip one fair coin deciding which
// parent feeds which child.
func crossover(rng *rand.Rand, a, b Parameters) (Parameters, Parameters) {
	c1, c2 := a.Clone(), b.Clone()

	if rng.Intn(2) == 1 {
		c1.PositionSizes, c2.PositionSizes = c2.PositionSizes, c1.PositionSizes
		c1.TargetAllocations, c2.TargetAllocations = c2.TargetAllocations, c1.TargetAllocations
		c1.RebalanceThresholds, c2.RebalanceThresholds = c2.RebalanceThresholds, c1.RebalanceThresholds
	}
	if rng.Intn(2) == 1 {
		c1.StopLoss, c2.StopLoss = c2.StopLoss, c1.StopLoss
		c1.TakeProfit, c2.TakeProfit = c2.TakeProfit, c1.TakeProfit
		c1.VaRLimits, c2.VaRLimits = c2.VaRLimits, c1.VaRLimits
	}
	if rng.Intn(2) == 1 {
		c1.HeatCapacity, c2.HeatCapacity = c2.HeatCapacity, c1.HeatCapacity
	}
	if rng.Intn(2) == 1 {
		c1.ExecutionStyles, c2.ExecutionStyles = c2.ExecutionStyles, c1.ExecutionStyles
	}
	return c1, c2
}

// mutate perturbs each mutable gene with probability rate, in place.
func mutate(rng *rand.Rand, p *Parameters, rate float64) {
	for _, sym := range p.Symbols() {
		if rng.Float64() < rate {
			f := 1 + uniform(rng, sizeMutationSpread)
			p.PositionSizes[sym] = p.PositionSizes[sym].Mul(decimal.NewFromFloat(f))
			p.TargetAllocations[sym] *= f
		}
		if stop, ok := p.StopLoss[sym]; ok && rng.Float64() < rate {
			p.StopLoss[sym] = stop.Mul(decimal.NewFromFloat(1 + uniform(rng, stopMutationSpread)))
		}
		if take, ok := p.TakeProfit[sym]; ok && rng.Float64() < rate {
			p.TakeProfit[sym] = take.Mul(decimal.NewFromFloat(1 + uniform(rng, stopMutationSpread)))
		}
		if rng.Float64() < rate {
			p.ExecutionStyles[sym] = Styles[rng.Intn(len(Styles))]
		}
	}
	if rng.Float64() < rate {
		p.HeatCapacity = clampHeat(p.HeatCapacity * (1 + uniform(rng, heatMutationSpread)))
	}
}
