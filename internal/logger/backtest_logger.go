// Package logger provides backtest-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"
)

// BacktestLogger provides dedicated logging for backtest runs.
type BacktestLogger struct {
	*logrus.Entry
}

// NewBacktestLogger creates a new backtest logger.
func NewBacktestLogger(baseLogger *logrus.Logger) *BacktestLogger {
	return &BacktestLogger{
		Entry: baseLogger.WithField("component", "backtest"),
	}
}

// LogFoldCompleted logs one completed walk-forward fold.
func (b *BacktestLogger) LogFoldCompleted(symbol string, splitIndex, trainRows, testRows, predicted int) {
	b.WithFields(logrus.Fields{
		"symbol":      symbol,
		"split_index": splitIndex,
		"train_rows":  trainRows,
		"test_rows":   testRows,
		"predicted":   predicted,
	}).Info("Fold completed")
}

// LogFoldSkipped logs a fold that produced no predictions.
func (b *BacktestLogger) LogFoldSkipped(symbol string, splitIndex int, reason string) {
	b.WithFields(logrus.Fields{
		"symbol":      symbol,
		"split_index": splitIndex,
		"reason":      reason,
	}).Warn("Fold skipped")
}

// LogRunCompleted logs a finished backtest run.
func (b *BacktestLogger) LogRunCompleted(symbol string, folds, totalRows int, sentimentApplied int, appliedPct float64) {
	b.WithFields(logrus.Fields{
		"symbol":            symbol,
		"folds":             folds,
		"predicted_rows":    totalRows,
		"sentiment_applied": sentimentApplied,
		"applied_pct":       appliedPct,
	}).Info("Backtest run completed")
}

// LogOracleLookupError logs a sentiment lookup failure.
func (b *BacktestLogger) LogOracleLookupError(symbol string, date string, errorReason string) {
	b.WithFields(logrus.Fields{
		"symbol":       symbol,
		"date":         date,
		"error_reason": errorReason,
	}).Error("Sentiment lookup failed")
}
