package journal

const Schema = `
CREATE TABLE IF NOT EXISTS cycles (
	cycle_id TEXT PRIMARY KEY,
	time DATETIME NOT NULL,
	best_fitness REAL NOT NULL,
	generations INTEGER NOT NULL,
	evaluations INTEGER NOT NULL,
	confidence REAL NOT NULL,
	heat_capacity REAL NOT NULL,
	fallback INTEGER NOT NULL,
	fallback_reason TEXT NOT NULL,
	elapsed_ms INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS cycle_params (
	cycle_id TEXT NOT NULL,
	symbol TEXT NOT NULL,
	target_size REAL NOT NULL,
	target_allocation REAL NOT NULL,
	stop_loss REAL NOT NULL,
	take_profit REAL NOT NULL,
	var_limit REAL NOT NULL,
	style TEXT NOT NULL,
	PRIMARY KEY (cycle_id, symbol)
);

CREATE INDEX IF NOT EXISTS idx_cycles_time ON cycles(time);
`
