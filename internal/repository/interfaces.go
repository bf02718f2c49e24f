// Package repository provides data access for bars and backtest results.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/stockcast/internal/models"
)

// BarRepository stores and retrieves daily OHLCV bars
type BarRepository interface {
	UpsertBatch(ctx context.Context, bars []models.Bar) (int, error)
	GetBySymbol(ctx context.Context, symbol string) ([]models.Bar, error)
	GetBySymbolRange(ctx context.Context, symbol string, from, to time.Time) ([]models.Bar, error)
	LatestDate(ctx context.Context, symbol string) (time.Time, error)
	CountBySymbol(ctx context.Context, symbol string) (int, error)
}

// BacktestRunRepository persists finished backtest runs
type BacktestRunRepository interface {
	Create(ctx context.Context, run *models.BacktestRun) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.BacktestRun, error)
	GetLatestBySymbol(ctx context.Context, symbol string) (*models.BacktestRun, error)
	ListBySymbol(ctx context.Context, symbol string, limit int) ([]*models.BacktestRun, error)
}

// PredictionRepository persists per-day out-of-sample predictions
type PredictionRepository interface {
	InsertBatch(ctx context.Context, predictions []*models.DirectionPrediction) error
	GetByRunID(ctx context.Context, runID uuid.UUID) ([]*models.DirectionPrediction, error)
}
