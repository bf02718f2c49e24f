package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/stockcast/internal/database"
	"github.com/yourusername/stockcast/internal/models"
)

// PostgresPredictionRepository implements PredictionRepository for PostgreSQL
type PostgresPredictionRepository struct {
	db *database.DB
}

// NewPostgresPredictionRepository creates a new prediction repository
func NewPostgresPredictionRepository(db *database.DB) PredictionRepository {
	return &PostgresPredictionRepository{db: db}
}

// InsertBatch inserts all predictions of one run in a single transaction
func (r *PostgresPredictionRepository) InsertBatch(ctx context.Context, predictions []*models.DirectionPrediction) error {
	if len(predictions) == 0 {
		return nil
	}

	query := `
		INSERT INTO direction_predictions (id, run_id, symbol, prediction_date, target, prediction)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	return r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, p := range predictions {
			batch.Queue(query, p.ID, p.RunID, p.Symbol, p.Date, p.Target, p.Prediction)
		}
		results := tx.SendBatch(ctx, batch)
		defer results.Close()

		for range predictions {
			if _, err := results.Exec(); err != nil {
				return fmt.Errorf("failed to insert prediction: %w", err)
			}
		}
		return nil
	})
}

// GetByRunID retrieves every prediction of a run ordered by date
func (r *PostgresPredictionRepository) GetByRunID(ctx context.Context, runID uuid.UUID) ([]*models.DirectionPrediction, error) {
	query := `
		SELECT id, run_id, symbol, prediction_date, target, prediction, created_at
		FROM direction_predictions
		WHERE run_id = $1
		ORDER BY prediction_date ASC
	`

	rows, err := r.db.GetPool().Query(ctx, query, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query predictions: %w", err)
	}
	defer rows.Close()

	var predictions []*models.DirectionPrediction
	for rows.Next() {
		p := &models.DirectionPrediction{}
		err := rows.Scan(&p.ID, &p.RunID, &p.Symbol, &p.Date, &p.Target, &p.Prediction, &p.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan prediction: %w", err)
		}
		predictions = append(predictions, p)
	}

	return predictions, rows.Err()
}
