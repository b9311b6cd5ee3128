// Package optimizer evolves trading parameter candidates with a genetic
// search seeded from the belief store and scored by simulating each candidate
// onto the current portfolio snapshot.
package optimizer

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mprestonsparks/trade-manager/config"
	"github.com/mprestonsparks/trade-manager/state"
)

// ExecutionStyle is the order placement strategy for a symbol.
type ExecutionStyle string

const (
	StyleMarket ExecutionStyle = "market"
	StyleLimit  ExecutionStyle = "limit"
	StyleTWAP   ExecutionStyle = "twap"
	StyleVWAP   ExecutionStyle = "vwap"
)

// Styles lists every selectable execution style.
var Styles = []ExecutionStyle{StyleMarket, StyleLimit, StyleTWAP, StyleVWAP}

// Parameters is one candidate gene bundle: per-symbol targets plus
// portfolio-wide scalars. One instance survives each cycle as the output.
type Parameters struct {
	PositionSizes       map[string]decimal.Decimal
	TargetAllocations   map[string]float64
	RebalanceThresholds map[string]float64
	VaRLimits           map[string]float64
	StopLoss            map[string]decimal.Decimal
	TakeProfit          map[string]decimal.Decimal
	HeatCapacity        float64
	ExecutionStyles     map[string]ExecutionStyle
}

// Identity returns the no-change candidate: current sizes and allocations,
// configured limits, existing protective levels carried as-is. Seeded into
// every population and used as the facade's fallback output.
func Identity(snap *state.Snapshot, cfg *config.Config) Parameters {
	p := Parameters{
		PositionSizes:       make(map[string]decimal.Decimal),
		TargetAllocations:   make(map[string]float64),
		RebalanceThresholds: make(map[string]float64),
		VaRLimits:           make(map[string]float64),
		StopLoss:            make(map[string]decimal.Decimal),
		TakeProfit:          make(map[string]decimal.Decimal),
		HeatCapacity:        cfg.Risk.MaxHeat,
		ExecutionStyles:     make(map[string]ExecutionStyle),
	}
	if snap == nil {
		return p
	}
	alloc := snap.Allocation()
	for sym, pos := range snap.Positions {
		p.PositionSizes[sym] = pos.Size
		p.TargetAllocations[sym] = alloc[sym]
		p.RebalanceThresholds[sym] = cfg.Portfolio.RebalanceThreshold
		p.VaRLimits[sym] = cfg.Risk.PositionVaRLimit
		if pos.StopLoss != nil {
			p.StopLoss[sym] = *pos.StopLoss
		}
		if pos.TakeProfit != nil {
			p.TakeProfit[sym] = *pos.TakeProfit
		}
		p.ExecutionStyles[sym] = ExecutionStyle(cfg.Execution.DefaultStyle)
	}
	return p
}

// Clone deep-copies the candidate so genetic operators never alias gene maps.
func (p Parameters) Clone() Parameters {
	c := p
	c.PositionSizes = copyDecMap(p.PositionSizes)
	c.TargetAllocations = copyFloatMap(p.TargetAllocations)
	c.RebalanceThresholds = copyFloatMap(p.RebalanceThresholds)
	c.VaRLimits = copyFloatMap(p.VaRLimits)
	c.StopLoss = copyDecMap(p.StopLoss)
	c.TakeProfit = copyDecMap(p.TakeProfit)
	c.ExecutionStyles = make(map[string]ExecutionStyle, len(p.ExecutionStyles))
	for k, v := range p.ExecutionStyles {
		c.ExecutionStyles[k] = v
	}
	return c
}

// Symbols returns the candidate's symbols in sorted order. Genetic operators
// iterate this instead of ranging maps so a fixed seed replays identically.
func (p Parameters) Symbols() []string {
	syms := make([]string, 0, len(p.PositionSizes))
	for sym := range p.PositionSizes {
		syms = append(syms, sym)
	}
	sort.Strings(syms)
	return syms
}

func copyDecMap(m map[string]decimal.Decimal) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyFloatMap(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
