package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/stockcast/internal/database"
	"github.com/yourusername/stockcast/internal/models"
)

const errScanRun = "failed to scan backtest run: %w"

const runColumns = `id, symbol, run_date, start_offset, step_size, threshold,
	total_rows, predicted_rows, "precision", accuracy, sentiment_applied,
	sentiment_stats, created_at`

// PostgresBacktestRunRepository implements BacktestRunRepository for PostgreSQL
type PostgresBacktestRunRepository struct {
	db *database.DB
}

// NewPostgresBacktestRunRepository creates a new backtest run repository
func NewPostgresBacktestRunRepository(db *database.DB) BacktestRunRepository {
	return &PostgresBacktestRunRepository{db: db}
}

// Create inserts a new backtest run
func (r *PostgresBacktestRunRepository) Create(ctx context.Context, run *models.BacktestRun) error {
	query := `
		INSERT INTO backtest_runs (id, symbol, run_date, start_offset, step_size,
			threshold, total_rows, predicted_rows, "precision", accuracy,
			sentiment_applied, sentiment_stats)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		run.ID, run.Symbol, run.RunDate, run.StartOffset, run.StepSize,
		run.Threshold, run.TotalRows, run.PredictedRows, run.Precision,
		run.Accuracy, run.SentimentApplied, run.SentimentStats,
	)
	if err != nil {
		return fmt.Errorf("failed to create backtest run: %w", err)
	}

	return nil
}

// GetByID retrieves a backtest run by ID
func (r *PostgresBacktestRunRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.BacktestRun, error) {
	query := fmt.Sprintf(`SELECT %s FROM backtest_runs WHERE id = $1`, runColumns)

	run := &models.BacktestRun{}
	err := r.db.GetPool().QueryRow(ctx, query, id).Scan(
		&run.ID, &run.Symbol, &run.RunDate, &run.StartOffset, &run.StepSize,
		&run.Threshold, &run.TotalRows, &run.PredictedRows, &run.Precision,
		&run.Accuracy, &run.SentimentApplied, &run.SentimentStats, &run.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get backtest run: %w", err)
	}

	return run, nil
}

// GetLatestBySymbol retrieves the most recent run for a symbol
func (r *PostgresBacktestRunRepository) GetLatestBySymbol(ctx context.Context, symbol string) (*models.BacktestRun, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM backtest_runs
		WHERE symbol = $1
		ORDER BY run_date DESC
		LIMIT 1
	`, runColumns)

	run := &models.BacktestRun{}
	err := r.db.GetPool().QueryRow(ctx, query, symbol).Scan(
		&run.ID, &run.Symbol, &run.RunDate, &run.StartOffset, &run.StepSize,
		&run.Threshold, &run.TotalRows, &run.PredictedRows, &run.Precision,
		&run.Accuracy, &run.SentimentApplied, &run.SentimentStats, &run.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest backtest run: %w", err)
	}

	return run, nil
}

// ListBySymbol retrieves recent runs for a symbol, newest first
func (r *PostgresBacktestRunRepository) ListBySymbol(ctx context.Context, symbol string, limit int) ([]*models.BacktestRun, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM backtest_runs
		WHERE symbol = $1
		ORDER BY run_date DESC
		LIMIT $2
	`, runColumns)

	rows, err := r.db.GetPool().Query(ctx, query, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query backtest runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.BacktestRun
	for rows.Next() {
		run := &models.BacktestRun{}
		err := rows.Scan(
			&run.ID, &run.Symbol, &run.RunDate, &run.StartOffset, &run.StepSize,
			&run.Threshold, &run.TotalRows, &run.PredictedRows, &run.Precision,
			&run.Accuracy, &run.SentimentApplied, &run.SentimentStats, &run.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanRun, err)
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}
