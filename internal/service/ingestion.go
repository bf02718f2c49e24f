package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/stockcast/internal/marketdata"
	"github.com/yourusername/stockcast/internal/metrics"
	"github.com/yourusername/stockcast/internal/models"
	"github.com/yourusername/stockcast/internal/repository"
)

// IngestionService fetches daily bar history from a market data source,
// validates it and persists it
type IngestionService struct {
	source    marketdata.BarSource
	barRepo   repository.BarRepository
	validator *BarValidator
	metrics   *IngestionMetrics
	logger    *logrus.Logger
}

// NewIngestionService creates a new ingestion service
func NewIngestionService(
	source marketdata.BarSource,
	barRepo repository.BarRepository,
	logger *logrus.Logger,
) *IngestionService {
	if logger == nil {
		logger = logrus.New()
	}
	return &IngestionService{
		source:    source,
		barRepo:   barRepo,
		validator: NewBarValidator(),
		metrics:   &IngestionMetrics{},
		logger:    logger,
	}
}

// IngestHistory fetches the full daily history for a symbol and upserts it
func (s *IngestionService) IngestHistory(ctx context.Context, symbol, period string) (*IngestionMetrics, error) {
	s.metrics.Reset()
	startTime := time.Now()

	if !s.source.IsEnabled() {
		return s.metrics, fmt.Errorf("data source %s is disabled", s.source.Name())
	}

	s.logger.WithFields(logrus.Fields{
		"symbol": symbol,
		"period": period,
		"source": s.source.Name(),
	}).Info("Starting bar ingestion")

	fetchStart := time.Now()
	bars, err := s.source.FetchDailyBars(ctx, symbol, period)
	metrics.BarFetchDuration.WithLabelValues(s.source.Name()).Observe(time.Since(fetchStart).Seconds())
	if err != nil {
		s.metrics.Errors++
		return s.metrics, fmt.Errorf("failed to fetch bars for %s: %w", symbol, err)
	}
	s.metrics.TotalBars = len(bars)

	if problems := s.validator.ValidateSeries(bars); len(problems) > 0 {
		s.metrics.ValidationErrors += len(problems)
		return s.metrics, fmt.Errorf("bar series for %s failed validation: %v", symbol, problems)
	}

	valid := make([]models.Bar, 0, len(bars))
	for i := range bars {
		if problems := s.validator.ValidateBar(&bars[i]); len(problems) > 0 {
			s.metrics.ValidationErrors++
			s.logger.WithFields(logrus.Fields{
				"symbol":   symbol,
				"date":     bars[i].Date.Format("2006-01-02"),
				"problems": problems,
			}).Warn("Dropping invalid bar")
			continue
		}
		valid = append(valid, bars[i])
	}

	stored, err := s.barRepo.UpsertBatch(ctx, valid)
	if err != nil {
		s.metrics.Errors++
		return s.metrics, fmt.Errorf("failed to store bars for %s: %w", symbol, err)
	}
	s.metrics.StoredBars = stored
	s.metrics.Duration = time.Since(startTime)
	metrics.RecordBarsIngested(symbol, stored)

	s.logger.WithFields(logrus.Fields{
		"symbol":            symbol,
		"fetched":           s.metrics.TotalBars,
		"stored":            stored,
		"validation_errors": s.metrics.ValidationErrors,
		"duration":          s.metrics.Duration,
	}).Info("Bar ingestion complete")

	return s.metrics, nil
}

// SyncSymbols ingests the full history for each symbol in turn, continuing
// past per-symbol failures
func (s *IngestionService) SyncSymbols(ctx context.Context, symbols []string, period string) error {
	var failed int
	for _, symbol := range symbols {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := s.IngestHistory(ctx, symbol, period); err != nil {
			failed++
			s.logger.WithFields(logrus.Fields{
				"symbol": symbol,
				"error":  err.Error(),
			}).Error("Symbol sync failed")
		}
	}
	if failed == len(symbols) && len(symbols) > 0 {
		return fmt.Errorf("all %d symbol syncs failed", failed)
	}
	return nil
}

// GetMetrics returns current ingestion metrics
func (s *IngestionService) GetMetrics() *IngestionMetrics {
	return s.metrics
}
