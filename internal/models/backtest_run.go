package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// BacktestRun represents one persisted walk-forward backtest run
type BacktestRun struct {
	ID               uuid.UUID       `db:"id" json:"id" validate:"required,uuid4"`
	Symbol           string          `db:"symbol" json:"symbol" validate:"required"`
	RunDate          time.Time       `db:"run_date" json:"run_date"`
	StartOffset      int             `db:"start_offset" json:"start_offset"`
	StepSize         int             `db:"step_size" json:"step_size"`
	Threshold        float64         `db:"threshold" json:"threshold"`
	TotalRows        int             `db:"total_rows" json:"total_rows"`
	PredictedRows    int             `db:"predicted_rows" json:"predicted_rows"`
	Precision        float64         `db:"precision" json:"precision"`
	Accuracy         float64         `db:"accuracy" json:"accuracy"`
	SentimentApplied int             `db:"sentiment_applied" json:"sentiment_applied"`
	SentimentStats   json.RawMessage `db:"sentiment_stats" json:"sentiment_stats"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
}

// DirectionPrediction represents one persisted out-of-sample prediction
type DirectionPrediction struct {
	ID         uuid.UUID `db:"id" json:"id"`
	RunID      uuid.UUID `db:"run_id" json:"run_id"`
	Symbol     string    `db:"symbol" json:"symbol"`
	Date       time.Time `db:"prediction_date" json:"date"`
	Target     int       `db:"target" json:"target" validate:"oneof=0 1"`
	Prediction int       `db:"prediction" json:"prediction" validate:"oneof=0 1"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
