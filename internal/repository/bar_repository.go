package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/stockcast/internal/database"
	"github.com/yourusername/stockcast/internal/models"
)

const errScanBar = "failed to scan bar: %w"

// PostgresBarRepository implements BarRepository for PostgreSQL
type PostgresBarRepository struct {
	db *database.DB
}

// NewPostgresBarRepository creates a new bar repository
func NewPostgresBarRepository(db *database.DB) BarRepository {
	return &PostgresBarRepository{db: db}
}

// UpsertBatch inserts bars, overwriting rows that already exist for the
// same symbol and date. Returns the number of rows written.
func (r *PostgresBarRepository) UpsertBatch(ctx context.Context, bars []models.Bar) (int, error) {
	if len(bars) == 0 {
		return 0, nil
	}

	query := `
		INSERT INTO daily_bars (symbol, bar_date, open, high, low, close, volume)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (symbol, bar_date) DO UPDATE SET
			open = EXCLUDED.open, high = EXCLUDED.high,
			low = EXCLUDED.low, close = EXCLUDED.close,
			volume = EXCLUDED.volume
	`

	written := 0
	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		for _, bar := range bars {
			if _, err := tx.Exec(ctx, query,
				bar.Symbol, bar.Date, bar.Open, bar.High, bar.Low, bar.Close, bar.Volume,
			); err != nil {
				return fmt.Errorf("failed to upsert bar %s %s: %w",
					bar.Symbol, bar.Date.Format("2006-01-02"), err)
			}
			written++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return written, nil
}

// GetBySymbol retrieves every bar for a symbol ordered by date
func (r *PostgresBarRepository) GetBySymbol(ctx context.Context, symbol string) ([]models.Bar, error) {
	query := `
		SELECT symbol, bar_date, open, high, low, close, volume, created_at
		FROM daily_bars
		WHERE symbol = $1
		ORDER BY bar_date ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to query bars: %w", err)
	}
	defer rows.Close()

	return scanBars(rows)
}

// GetBySymbolRange retrieves bars for a symbol within [from, to]
func (r *PostgresBarRepository) GetBySymbolRange(ctx context.Context, symbol string, from, to time.Time) ([]models.Bar, error) {
	query := `
		SELECT symbol, bar_date, open, high, low, close, volume, created_at
		FROM daily_bars
		WHERE symbol = $1 AND bar_date >= $2 AND bar_date <= $3
		ORDER BY bar_date ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, symbol, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query bars by range: %w", err)
	}
	defer rows.Close()

	return scanBars(rows)
}

// LatestDate returns the most recent bar date stored for a symbol
func (r *PostgresBarRepository) LatestDate(ctx context.Context, symbol string) (time.Time, error) {
	query := `SELECT MAX(bar_date) FROM daily_bars WHERE symbol = $1`

	var latest *time.Time
	if err := r.db.GetPool().QueryRow(ctx, query, symbol).Scan(&latest); err != nil {
		return time.Time{}, fmt.Errorf("failed to query latest bar date: %w", err)
	}
	if latest == nil {
		return time.Time{}, models.ErrNotFound
	}
	return *latest, nil
}

// CountBySymbol returns the number of stored bars for a symbol
func (r *PostgresBarRepository) CountBySymbol(ctx context.Context, symbol string) (int, error) {
	query := `SELECT COUNT(*) FROM daily_bars WHERE symbol = $1`

	var count int
	if err := r.db.GetPool().QueryRow(ctx, query, symbol).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count bars: %w", err)
	}
	return count, nil
}

func scanBars(rows pgx.Rows) ([]models.Bar, error) {
	var bars []models.Bar
	for rows.Next() {
		var bar models.Bar
		err := rows.Scan(
			&bar.Symbol, &bar.Date, &bar.Open, &bar.High, &bar.Low,
			&bar.Close, &bar.Volume, &bar.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf(errScanBar, err)
		}
		bars = append(bars, bar)
	}
	return bars, rows.Err()
}
