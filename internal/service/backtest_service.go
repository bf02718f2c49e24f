package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/stockcast/internal/backtest"
	"github.com/yourusername/stockcast/internal/classifier"
	"github.com/yourusername/stockcast/internal/config"
	"github.com/yourusername/stockcast/internal/dataset"
	"github.com/yourusername/stockcast/internal/metrics"
	"github.com/yourusername/stockcast/internal/models"
	"github.com/yourusername/stockcast/internal/repository"
)

// BacktestOutcome bundles everything one backtest run produced
type BacktestOutcome struct {
	Run     *models.BacktestRun
	Result  *backtest.Result
	Metrics backtest.Metrics
	Empty   bool
}

// BacktestService runs the full workflow from stored bars to a persisted
// backtest run: feature building, walk-forward evaluation, reporting.
type BacktestService struct {
	repos  *repository.Repositories
	oracle backtest.Oracle
	cfg    *config.Config
	logger *logrus.Logger
}

// NewBacktestService creates a new backtest service
func NewBacktestService(repos *repository.Repositories, oracle backtest.Oracle, cfg *config.Config, logger *logrus.Logger) (*BacktestService, error) {
	if repos == nil {
		return nil, fmt.Errorf("repositories are required")
	}
	if oracle == nil {
		return nil, fmt.Errorf("sentiment oracle is required")
	}
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &BacktestService{repos: repos, oracle: oracle, cfg: cfg, logger: logger}, nil
}

// Run executes a walk-forward backtest for a symbol using stored bars.
// An empty outcome means too little history or no surviving fold; it is
// not an error.
func (s *BacktestService) Run(ctx context.Context, symbol, name string) (*BacktestOutcome, error) {
	started := time.Now()

	bars, err := s.repos.Bar.GetBySymbol(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("failed to load bars for %s: %w", symbol, err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("no bars stored for %s: %w", symbol, models.ErrNotFound)
	}

	table, predictors, err := s.buildFeatures(bars)
	if err != nil {
		metrics.RecordBacktestRun(symbol, "failure")
		return nil, err
	}

	runCfg, err := backtest.FromConfig(&s.cfg.Backtest, symbol, name)
	if err != nil {
		return nil, err
	}

	model := classifier.NewNeuralClassifier(classifier.NeuralConfig{
		HiddenUnits:  s.cfg.Model.HiddenUnits,
		Epochs:       s.cfg.Model.Epochs,
		LearningRate: s.cfg.Model.LearningRate,
		Seed:         s.cfg.Model.Seed,
	}, s.logger)

	engine, err := backtest.NewEngine(runCfg, model, s.oracle, s.logger)
	if err != nil {
		return nil, err
	}

	result, err := engine.Run(ctx, table, predictors)
	if err != nil {
		metrics.RecordBacktestRun(symbol, "failure")
		return nil, err
	}
	metrics.RecordBacktestDuration(time.Since(started).Seconds())

	if result.Frame.Empty() {
		metrics.RecordBacktestRun(symbol, "empty")
		s.logger.WithField("symbol", symbol).Warn("Backtest produced no predictions")
		return &BacktestOutcome{Result: result, Empty: true}, nil
	}

	m, err := backtest.CalculateMetrics(result.Frame)
	if err != nil {
		return nil, err
	}
	metrics.RecordBacktestRun(symbol, "success")
	metrics.RecordBacktestQuality(symbol, m.Precision, m.Accuracy)

	run, err := backtest.BuildRun(runCfg, result, m)
	if err != nil {
		return nil, err
	}

	if runCfg.OutputPath != "" {
		if err := backtest.GenerateCSVExport(result.Frame, runCfg.OutputPath); err != nil {
			s.logger.WithField("error", err.Error()).Warn("Failed to write CSV export")
		}
	}

	if runCfg.PersistEnabled {
		if err := s.persist(ctx, run, result); err != nil {
			return nil, err
		}
	}

	return &BacktestOutcome{Run: run, Result: result, Metrics: m}, nil
}

func (s *BacktestService) buildFeatures(bars []models.Bar) (*dataset.Table, []string, error) {
	minHistory, err := time.Parse("2006-01-02", s.cfg.Backtest.MinHistoryDate)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid min history date: %w", err)
	}
	builder := dataset.NewBuilder(dataset.BuilderConfig{
		TendencyDays:   s.cfg.Backtest.TendencyDays,
		MinHistoryDate: minHistory,
	}, s.logger)
	return builder.Build(bars)
}

func (s *BacktestService) persist(ctx context.Context, run *models.BacktestRun, result *backtest.Result) error {
	if err := s.repos.BacktestRun.Create(ctx, run); err != nil {
		return fmt.Errorf("failed to persist backtest run: %w", err)
	}
	predictions := backtest.BuildPredictions(run.ID, run.Symbol, result.Frame)
	if err := s.repos.Prediction.InsertBatch(ctx, predictions); err != nil {
		return fmt.Errorf("failed to persist predictions: %w", err)
	}
	return nil
}
