package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

type CSVJournal struct {
	cycles *csv.Writer
	cf     *os.File
}

// NewCSV writes cycle records to a single flat file, one row per
// cycle/symbol pair; cycle-level columns repeat across a cycle's rows.
func NewCSV(cyclesPath string) (*CSVJournal, error) {
	cf, err := os.Create(cyclesPath)
	if err != nil {
		return nil, err
	}

	cw := csv.NewWriter(cf)
	if err := cw.Write([]string{
		"cycle_id", "time", "best_fitness", "generations", "evaluations",
		"confidence", "heat_capacity", "fallback", "fallback_reason", "elapsed_ms",
		"symbol", "target_size", "target_allocation", "stop_loss", "take_profit",
		"var_limit", "style",
	}); err != nil {
		return nil, err
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, err
	}

	return &CSVJournal{cw, cf}, nil
}

func (j *CSVJournal) RecordCycle(c CycleRecord) error {
	head := []string{
		c.CycleID,
		c.Time.Format(time.RFC3339),
		f(c.BestFitness),
		strconv.Itoa(c.Generations),
		strconv.Itoa(c.Evaluations),
		f(c.Confidence),
		f(c.HeatCapacity),
		strconv.FormatBool(c.Fallback),
		c.FallbackReason,
		strconv.FormatInt(c.Elapsed.Milliseconds(), 10),
	}

	if len(c.Params) == 0 {
		if err := j.cycles.Write(append(head, "", "", "", "", "", "", "")); err != nil {
			return err
		}
	}
	for _, p := range c.Params {
		row := append(append([]string{}, head...),
			p.Symbol,
			f(p.TargetSize),
			f(p.TargetAllocation),
			f(p.StopLoss),
			f(p.TakeProfit),
			f(p.VaRLimit),
			p.Style,
		)
		if err := j.cycles.Write(row); err != nil {
			return err
		}
	}

	j.cycles.Flush()
	return j.cycles.Error()
}

func (j *CSVJournal) Close() error {
	j.cycles.Flush()
	if err := j.cycles.Error(); err != nil {
		return err
	}
	return j.cf.Close()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
