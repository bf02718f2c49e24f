package backtest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/stockcast/internal/models"
)

// GenerateConsoleReport formats a run summary for terminal output
func GenerateConsoleReport(cfg Config, result *Result, m Metrics) string {
	var builder strings.Builder
	builder.WriteString("Backtest Report\n")
	builder.WriteString("================\n")
	builder.WriteString(fmt.Sprintf("Symbol: %s\n", cfg.Symbol))
	builder.WriteString(fmt.Sprintf("Folds: %d (%d skipped)\n", result.Folds, result.SkippedFolds))
	builder.WriteString(fmt.Sprintf("Predicted Rows: %d\n", m.TotalRows))
	builder.WriteString(fmt.Sprintf("Precision: %.4f\n", m.Precision))
	builder.WriteString(fmt.Sprintf("Accuracy: %.4f\n", m.Accuracy))
	builder.WriteString(fmt.Sprintf("Predicted Up: %d  Predicted Down: %d\n", m.PredictedPositive, m.PredictedNegative))
	builder.WriteString(fmt.Sprintf("Sentiment Applied: %d/%d (%.1f%%)\n",
		result.Stats.Applied, result.Stats.TotalRows, result.Stats.AppliedPercent()))
	builder.WriteString(fmt.Sprintf("Skipped: %d old, %d future, %d other\n",
		result.Stats.SkippedOld, result.Stats.SkippedFuture, result.Stats.SkippedOther))
	return builder.String()
}

// GenerateCSVExport writes every prediction row for spreadsheet analysis
func GenerateCSVExport(frame *PredictionFrame, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}

	var builder strings.Builder
	builder.WriteString("date,target,prediction\n")
	for _, row := range frame.Rows() {
		builder.WriteString(fmt.Sprintf("%s,%d,%d\n", row.Date.Format("2006-01-02"), row.Target, row.Prediction))
	}
	return os.WriteFile(outputPath, []byte(builder.String()), 0o644)
}

// BuildRun converts a finished backtest into its persistable record
func BuildRun(cfg Config, result *Result, m Metrics) (*models.BacktestRun, error) {
	statsJSON, err := json.Marshal(result.Stats)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sentiment stats: %w", err)
	}

	now := time.Now().UTC()
	return &models.BacktestRun{
		ID:               uuid.New(),
		Symbol:           cfg.Symbol,
		RunDate:          now,
		StartOffset:      cfg.StartOffset,
		StepSize:         cfg.StepSize,
		Threshold:        cfg.DecisionThreshold,
		TotalRows:        result.Stats.TotalRows,
		PredictedRows:    m.TotalRows,
		Precision:        m.Precision,
		Accuracy:         m.Accuracy,
		SentimentApplied: result.Stats.Applied,
		SentimentStats:   statsJSON,
		CreatedAt:        now,
	}, nil
}

// BuildPredictions converts frame rows to persistable prediction records
func BuildPredictions(runID uuid.UUID, symbol string, frame *PredictionFrame) []*models.DirectionPrediction {
	now := time.Now().UTC()
	predictions := make([]*models.DirectionPrediction, 0, frame.Len())
	for _, row := range frame.Rows() {
		predictions = append(predictions, &models.DirectionPrediction{
			ID:         uuid.New(),
			RunID:      runID,
			Symbol:     symbol,
			Date:       row.Date,
			Target:     row.Target,
			Prediction: row.Prediction,
			CreatedAt:  now,
		})
	}
	return predictions
}
