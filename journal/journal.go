// Package journal persists one record per optimization cycle, with the
// chosen per-symbol parameters, so decisions can be audited after the fact.
package journal

import (
	"fmt"
	"time"

	"github.com/mprestonsparks/trade-manager/config"
)

// CycleRecord is the audit row for one optimization cycle.
type CycleRecord struct {
	CycleID        string
	Time           time.Time
	BestFitness    float64
	Generations    int
	Evaluations    int
	Confidence     float64
	HeatCapacity   float64
	Fallback       bool
	FallbackReason string
	Elapsed        time.Duration

	Params []ParameterRecord
}

// ParameterRecord is one symbol's slice of the winning candidate.
type ParameterRecord struct {
	Symbol           string
	TargetSize       float64
	TargetAllocation float64
	StopLoss         float64
	TakeProfit       float64
	VaRLimit         float64
	Style            string
}

type Journal interface {
	RecordCycle(CycleRecord) error
	Close() error
}

// Open builds the journal backend named by the config. "none" returns a
// journal that discards everything.
func Open(cfg config.JournalConfig) (Journal, error) {
	switch cfg.Type {
	case "sqlite":
		return NewSQLite(cfg.DBPath)
	case "csv":
		return NewCSV(cfg.CyclesFile)
	case "none":
		return Nop{}, nil
	default:
		return nil, fmt.Errorf("unknown journal type %q", cfg.Type)
	}
}

// Nop discards all records.
type Nop struct{}

func (Nop) RecordCycle(CycleRecord) error { return nil }
func (Nop) Close() error                  { return nil }
