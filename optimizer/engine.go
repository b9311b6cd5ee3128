package optimizer

import (
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/mprestonsparks/trade-manager/belief"
	"github.com/mprestonsparks/trade-manager/config"
	"github.com/mprestonsparks/trade-manager/market"
	"github.com/mprestonsparks/trade-manager/pkg/id"
	"github.com/mprestonsparks/trade-manager/risk"
	"github.com/mprestonsparks/trade-manager/state"
)

// ErrInvalidConfig wraps configuration defects found at engine construction.
var ErrInvalidConfig = errors.New("invalid engine config")

// Engine owns one belief store and runs one optimization cycle at a time.
// Not safe for concurrent cycles; the trading loop serializes calls.
type Engine struct {
	cfg     *config.Config
	beliefs *belief.State
	updater belief.Updater
	eval    Evaluator
	log     zerolog.Logger

	seed   int64
	seeded bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithSeed pins the per-cycle random source so results replay exactly.
func WithSeed(seed int64) Option {
	return func(e *Engine) {
		e.seed = seed
		e.seeded = true
	}
}

// WithLogger sets the structured logger. Default is a no-op logger.
func WithLogger(log zerolog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// NewEngine validates the configuration and builds an engine with fresh
// belief priors. Configuration defects are fatal here, never at cycle time.
func NewEngine(cfg *config.Config, opts ...Option) (*Engine, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: nil config", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	e := &Engine{
		cfg:     cfg,
		beliefs: belief.NewState(),
		updater: belief.Updater{LearningRate: cfg.Optimization.LearningRate},
		eval: Evaluator{Limits: risk.Limits{
			MaxPositionSize:  cfg.Portfolio.MaxPositionSize,
			MaxConcentration: cfg.Portfolio.MaxConcentration,
			VaRLimit:         cfg.Risk.VaRLimit,
			MaxHeat:          cfg.Risk.MaxHeat,
			ImpactThreshold:  cfg.Execution.MarketImpactThreshold,
			SpreadThreshold:  cfg.Execution.SpreadThreshold,
		}},
		log: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Beliefs exposes the engine's belief store for inspection and journaling.
func (e *Engine) Beliefs() *belief.State { return e.beliefs }

// UpdateBeliefs runs one belief update against the snapshot and signal,
// mutating the store in place. Missing snapshot data degrades per key.
func (e *Engine) UpdateBeliefs(snap *state.Snapshot, sig market.Signal) belief.Report {
	rep := e.updater.Update(e.beliefs, snap, sig)
	if len(rep.Degraded) > 0 {
		e.log.Debug().
			Strs("degraded", rep.Degraded).
			Float64("confidence", rep.Confidence).
			Msg("belief update degraded for some keys")
	}
	return rep
}

// Result is the outcome of one optimization cycle.
type Result struct {
	CycleID     string
	Best        Parameters
	BestFitness float64
	Generations int
	Evaluations int

	// History holds the best fitness after each generation plus the final
	// re-evaluation. Non-decreasing under elitism.
	History []float64

	Fallback       bool
	FallbackReason string
	Elapsed        time.Duration
}

// Optimize runs the genetic search seeded from the current beliefs and
// returns the terminal best candidate. An empty population or a population
// where every evaluation fails falls back to the identity parameters; the
// caller never sees a crash from a degenerate cycle.
func (e *Engine) Optimize(snap *state.Snapshot, sig market.Signal) (Result, error) {
	start := time.Now()
	res := Result{CycleID: id.New()}

	seed := e.seed
	if !e.seeded {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	pop := NewPopulation(snap, e.beliefs, sig, e.cfg, rng)
	if len(pop) == 0 {
		res.Best = Identity(snap, e.cfg)
		res.Fallback = true
		res.FallbackReason = "empty population"
		res.Elapsed = time.Since(start)
		e.log.Warn().
			Str("cycle", res.CycleID).
			Str("reason", res.FallbackReason).
			Msg("optimization fell back to identity parameters")
		return res, nil
	}

	gens := e.cfg.Optimization.NumGenerations
	for g := 0; g < gens; g++ {
		fitness, failed := e.evaluateAll(pop, snap)
		res.Evaluations += len(pop)
		if failed == len(pop) {
			res.Best = Identity(snap, e.cfg)
			res.Fallback = true
			res.FallbackReason = "all evaluations failed"
			res.Elapsed = time.Since(start)
			e.log.Warn().
				Str("cycle", res.CycleID).
				Int("generation", g).
				Str("reason", res.FallbackReason).
				Msg("optimization fell back to identity parameters")
			return res, nil
		}

		eliteIdx := bestIndex(fitness)
		res.History = append(res.History, fitness[eliteIdx])
		res.Generations = g + 1

		e.log.Debug().
			Str("cycle", res.CycleID).
			Int("generation", g).
			Float64("best_fitness", fitness[eliteIdx]).
			Msg("generation evaluated")

		pop = e.nextGeneration(rng, pop, fitness)
	}

	fitness, failed := e.evaluateAll(pop, snap)
	res.Evaluations += len(pop)
	if failed == len(pop) {
		res.Best = Identity(snap, e.cfg)
		res.Fallback = true
		res.FallbackReason = "all evaluations failed"
		res.Elapsed = time.Since(start)
		return res, nil
	}

	best := bestIndex(fitness)
	res.Best = pop[best]
	res.BestFitness = fitness[best]
	res.History = append(res.History, fitness[best])
	res.Elapsed = time.Since(start)

	e.log.Info().
		Str("cycle", res.CycleID).
		Int("generations", res.Generations).
		Int("evaluations", res.Evaluations).
		Float64("best_fitness", res.BestFitness).
		Dur("elapsed", res.Elapsed).
		Msg("optimization cycle complete")
	return res, nil
}

// evaluateAll scores the population sequentially. A failed evaluation scores
// 0 and counts toward failed; it never aborts the generation.
func (e *Engine) evaluateAll(pop []Parameters, snap *state.Snapshot) (fitness []float64, failed int) {
	fitness = make([]float64, len(pop))
	for i, cand := range pop {
		score, err := e.eval.Evaluate(cand, snap)
		if err != nil {
			e.log.Debug().Int("candidate", i).Err(err).Msg("candidate evaluation failed")
			failed++
			continue
		}
		fitness[i] = score
	}
	return fitness, failed
}

// nextGeneration builds the successor population: the configured number of
// elites carried over unchanged at the front (fittest first, so index 0 is
// always the generation's best), the rest bred from tournament-selected
// parents by crossover and mutation.
func (e *Engine) nextGeneration(rng *rand.Rand, pop []Parameters, fitness []float64) []Parameters {
	o := e.cfg.Optimization

	nParents := len(pop) / 2
	if nParents < 2 {
		nParents = len(pop)
	}
	parents := selectParents(rng, fitness, o.TournamentSize, nParents)

	nElite := o.EliteSize
	if nElite < 1 {
		nElite = 1
	}
	if nElite > len(pop) {
		nElite = len(pop)
	}

	next := make([]Parameters, 0, len(pop))
	for _, idx := range topIndices(fitness, nElite) {
		next = append(next, pop[idx].Clone())
	}

	for i := 0; len(next) < len(pop); i += 2 {
		a := pop[parents[i%len(parents)]]
		b := pop[parents[(i+1)%len(parents)]]
		c1, c2 := crossover(rng, a, b)
		mutate(rng, &c1, o.MutationRate)
		mutate(rng, &c2, o.MutationRate)
		next = append(next, c1)
		if len(next) < len(pop) {
			next = append(next, c2)
		}
	}
	return next
}

// bestIndex returns the index of the highest fitness, earliest index on ties.
func bestIndex(fitness []float64) int {
	best := 0
	for i := 1; i < len(fitness); i++ {
		if fitness[i] > fitness[best] {
			best = i
		}
	}
	return best
}

// topIndices returns the n highest-fitness indices, fittest first, earliest
// index winning ties.
func topIndices(fitness []float64, n int) []int {
	idx := make([]int, len(fitness))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return fitness[idx[a]] > fitness[idx[b]]
	})
	return idx[:n]
}
