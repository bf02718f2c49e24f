package repository

import (
	"fmt"

	"github.com/yourusername/stockcast/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Bar         BarRepository
	BacktestRun BacktestRunRepository
	Prediction  PredictionRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Bar:         NewPostgresBarRepository(db),
		BacktestRun: NewPostgresBacktestRunRepository(db),
		Prediction:  NewPostgresPredictionRepository(db),
	}, nil
}
