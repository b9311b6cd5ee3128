package journal

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		return nil, err
	}

	return &SQLite{db: db}, nil
}

// RecordCycle writes the cycle row and its per-symbol parameter rows in one
// transaction.
func (j *SQLite) RecordCycle(c CycleRecord) error {
	tx, err := j.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.Exec(`
		INSERT INTO cycles
		(cycle_id, time, best_fitness, generations, evaluations, confidence, heat_capacity, fallback, fallback_reason, elapsed_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.CycleID, c.Time, c.BestFitness, c.Generations, c.Evaluations,
		c.Confidence, c.HeatCapacity, c.Fallback, c.FallbackReason,
		c.Elapsed.Milliseconds(),
	)
	if err != nil {
		return fmt.Errorf("insert cycle %s: %w", c.CycleID, err)
	}

	for _, p := range c.Params {
		_, err = tx.Exec(`
			INSERT INTO cycle_params
			(cycle_id, symbol, target_size, target_allocation, stop_loss, take_profit, var_limit, style)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			c.CycleID, p.Symbol, p.TargetSize, p.TargetAllocation,
			p.StopLoss, p.TakeProfit, p.VaRLimit, p.Style,
		)
		if err != nil {
			return fmt.Errorf("insert params %s/%s: %w", c.CycleID, p.Symbol, err)
		}
	}

	return tx.Commit()
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
