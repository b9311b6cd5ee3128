package journal

import (
	"database/sql"
	"fmt"
	"time"
)

// GetCycle returns one cycle with its parameter rows.
func (j *SQLite) GetCycle(cycleID string) (CycleRecord, error) {
	var rec CycleRecord
	var elapsedMS int64

	row := j.db.QueryRow(`
		SELECT cycle_id, time, best_fitness, generations, evaluations, confidence, heat_capacity, fallback, fallback_reason, elapsed_ms
		FROM cycles
		WHERE cycle_id = ?`, cycleID)

	err := row.Scan(
		&rec.CycleID,
		&rec.Time,
		&rec.BestFitness,
		&rec.Generations,
		&rec.Evaluations,
		&rec.Confidence,
		&rec.HeatCapacity,
		&rec.Fallback,
		&rec.FallbackReason,
		&elapsedMS,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return CycleRecord{}, fmt.Errorf("cycle %q not found", cycleID)
		}
		return CycleRecord{}, err
	}
	rec.Elapsed = time.Duration(elapsedMS) * time.Millisecond

	rows, err := j.db.Query(`
		SELECT symbol, target_size, target_allocation, stop_loss, take_profit, var_limit, style
		FROM cycle_params
		WHERE cycle_id = ?
		ORDER BY symbol ASC`, cycleID)
	if err != nil {
		return CycleRecord{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var p ParameterRecord
		if err := rows.Scan(
			&p.Symbol,
			&p.TargetSize,
			&p.TargetAllocation,
			&p.StopLoss,
			&p.TakeProfit,
			&p.VaRLimit,
			&p.Style,
		); err != nil {
			return CycleRecord{}, err
		}
		rec.Params = append(rec.Params, p)
	}
	if err := rows.Err(); err != nil {
		return CycleRecord{}, err
	}
	return rec, nil
}

// ListCyclesBetween returns cycles whose time is within [start, end), oldest
// first, without parameter rows.
func (j *SQLite) ListCyclesBetween(start, end time.Time) ([]CycleRecord, error) {
	rows, err := j.db.Query(`
		SELECT cycle_id, time, best_fitness, generations, evaluations, confidence, heat_capacity, fallback, fallback_reason, elapsed_ms
		FROM cycles
		WHERE time >= ? AND time < ?
		ORDER BY time ASC`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CycleRecord
	for rows.Next() {
		var rec CycleRecord
		var elapsedMS int64
		if err := rows.Scan(
			&rec.CycleID,
			&rec.Time,
			&rec.BestFitness,
			&rec.Generations,
			&rec.Evaluations,
			&rec.Confidence,
			&rec.HeatCapacity,
			&rec.Fallback,
			&rec.FallbackReason,
			&elapsedMS,
		); err != nil {
			return nil, err
		}
		rec.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
