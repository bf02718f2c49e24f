package database

import (
	"context"
	"fmt"

	"github.com/yourusername/stockcast/internal/config"
)

// schema holds the tables backing bar storage and backtest persistence
var schema = []string{
	`CREATE TABLE IF NOT EXISTS daily_bars (
		symbol TEXT NOT NULL,
		bar_date DATE NOT NULL,
		open NUMERIC(18,6) NOT NULL,
		high NUMERIC(18,6) NOT NULL,
		low NUMERIC(18,6) NOT NULL,
		close NUMERIC(18,6) NOT NULL,
		volume BIGINT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (symbol, bar_date)
	)`,
	`CREATE TABLE IF NOT EXISTS backtest_runs (
		id UUID PRIMARY KEY,
		symbol TEXT NOT NULL,
		run_date TIMESTAMPTZ NOT NULL,
		start_offset INT NOT NULL,
		step_size INT NOT NULL,
		threshold DOUBLE PRECISION NOT NULL,
		total_rows INT NOT NULL,
		predicted_rows INT NOT NULL,
		"precision" DOUBLE PRECISION NOT NULL,
		accuracy DOUBLE PRECISION NOT NULL,
		sentiment_applied INT NOT NULL,
		sentiment_stats JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS direction_predictions (
		id UUID PRIMARY KEY,
		run_id UUID NOT NULL REFERENCES backtest_runs(id) ON DELETE CASCADE,
		symbol TEXT NOT NULL,
		prediction_date DATE NOT NULL,
		target INT NOT NULL,
		prediction INT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_direction_predictions_run
		ON direction_predictions (run_id, prediction_date)`,
	`CREATE INDEX IF NOT EXISTS idx_daily_bars_symbol_date
		ON daily_bars (symbol, bar_date)`,
}

// Initialize creates a database connection pool and ensures the schema exists
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	for _, stmt := range schema {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	return db, nil
}
