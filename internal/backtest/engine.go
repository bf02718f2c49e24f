package backtest

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/stockcast/internal/classifier"
	"github.com/yourusername/stockcast/internal/dataset"
	"github.com/yourusername/stockcast/internal/logger"
	"github.com/yourusername/stockcast/internal/metrics"
)

// Result is the aggregate output of one backtest run
type Result struct {
	Frame        *PredictionFrame
	Stats        SentimentStats
	Folds        int
	SkippedFolds int
}

// Engine orchestrates one walk-forward backtest run: splitter, sentiment
// enrichment, and fold prediction, strictly in fold order. An Engine owns
// its classifier and stats for the duration of one run and must not be
// shared across concurrent runs.
type Engine struct {
	config   Config
	model    classifier.Classifier
	enricher *Enricher
	logger   *logger.BacktestLogger
}

// Option customizes engine construction
type Option func(*engineOptions)

type engineOptions struct {
	clock func() time.Time
}

// WithClock injects the time source used for the oracle coverage window
func WithClock(clock func() time.Time) Option {
	return func(o *engineOptions) {
		o.clock = clock
	}
}

// NewEngine creates a backtesting engine
func NewEngine(cfg Config, model classifier.Classifier, oracle Oracle, baseLogger *logrus.Logger, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if model == nil {
		return nil, fmt.Errorf("classifier is required")
	}
	if oracle == nil {
		return nil, fmt.Errorf("sentiment oracle is required")
	}
	if baseLogger == nil {
		baseLogger = logrus.New()
	}

	options := engineOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	btLogger := logger.NewBacktestLogger(baseLogger)
	return &Engine{
		config:   cfg,
		model:    model,
		enricher: NewEnricher(oracle, options.clock, btLogger),
		logger:   btLogger,
	}, nil
}

// Config returns the run configuration
func (e *Engine) Config() Config {
	return e.config
}

// Run executes the walk-forward backtest over a finalized feature table.
// The returned frame is empty when the table has too few rows for a single
// fold or every fold failed; callers must branch on emptiness before
// computing metrics. Fold failures skip that fold only; the sole fatal
// input condition is invalid splitter parameters. Cancellation is honored
// between folds and returns the partial result alongside the context error.
func (e *Engine) Run(ctx context.Context, table *dataset.Table, predictors []string) (*Result, error) {
	folds, err := Splits(table.Len(), e.config.StartOffset, e.config.StepSize)
	if err != nil {
		return nil, err
	}

	result := &Result{Frame: &PredictionFrame{}}
	predictor := NewFoldPredictor(e.model, predictors, e.config.DecisionThreshold)

	lastSplit := -1
	for _, fold := range folds {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if fold.SplitIndex <= lastSplit {
			return result, fmt.Errorf("split indices not strictly increasing: %d after %d", fold.SplitIndex, lastSplit)
		}
		lastSplit = fold.SplitIndex
		result.Folds++

		train := table.Slice(0, fold.SplitIndex)
		test := table.Slice(fold.SplitIndex, fold.TestEnd)

		e.enricher.EnrichFold(ctx, test, e.config.Symbol, e.config.Name, &result.Stats)

		rows, err := predictor.Predict(train, test)
		if err != nil {
			result.SkippedFolds++
			e.logger.LogFoldSkipped(e.config.Symbol, fold.SplitIndex, err.Error())
			metrics.BacktestFoldsTotal.WithLabelValues(e.config.Symbol, "skipped").Inc()
			continue
		}
		if err := result.Frame.Append(rows...); err != nil {
			return result, err
		}

		e.logger.LogFoldCompleted(e.config.Symbol, fold.SplitIndex, fold.TrainSize(), fold.TestSize(), len(rows))
		metrics.BacktestFoldsTotal.WithLabelValues(e.config.Symbol, "completed").Inc()
	}

	e.logger.LogRunCompleted(e.config.Symbol, result.Folds, result.Frame.Len(), result.Stats.Applied, result.Stats.AppliedPercent())
	metrics.SentimentRowsApplied.Add(float64(result.Stats.Applied))
	metrics.SentimentRowsSkipped.WithLabelValues("old").Add(float64(result.Stats.SkippedOld))
	metrics.SentimentRowsSkipped.WithLabelValues("future").Add(float64(result.Stats.SkippedFuture))
	metrics.SentimentRowsSkipped.WithLabelValues("other").Add(float64(result.Stats.SkippedOther))

	return result, nil
}
