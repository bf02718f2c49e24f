// Package metrics provides the centralized Prometheus metrics registry.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	BacktestRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stockcast",
		Name:      "backtest_runs_total",
		Help:      "Total number of backtest runs by symbol and status",
	}, []string{"symbol", "status"})
	BacktestFoldsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stockcast",
		Name:      "backtest_folds_total",
		Help:      "Total number of walk-forward folds by symbol and outcome",
	}, []string{"symbol", "outcome"})
	SentimentRowsApplied = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "stockcast",
		Name:      "sentiment_rows_applied_total",
		Help:      "Total number of test rows that received oracle sentiment",
	})
	SentimentRowsSkipped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stockcast",
		Name:      "sentiment_rows_skipped_total",
		Help:      "Total number of test rows skipped by enrichment, by reason",
	}, []string{"reason"})
	BarsIngestedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stockcast",
		Name:      "bars_ingested_total",
		Help:      "Total number of daily bars ingested by symbol",
	}, []string{"symbol"})
	MarketDataErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "stockcast",
		Name:      "market_data_errors_total",
		Help:      "Total number of market data fetch errors by source and code",
	}, []string{"source", "code"})
)

// Gauge metrics
var (
	SentimentCacheHitRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "stockcast",
		Name:      "sentiment_cache_hit_ratio",
		Help:      "Hit ratio of the sentiment score cache",
	})
	LastBacktestAccuracy = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "stockcast",
		Name:      "last_backtest_accuracy",
		Help:      "Accuracy of the most recent backtest run per symbol",
	}, []string{"symbol"})
	LastBacktestPrecision = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "stockcast",
		Name:      "last_backtest_precision",
		Help:      "Precision of the most recent backtest run per symbol",
	}, []string{"symbol"})
)

// Histogram metrics
var (
	BacktestDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "stockcast",
		Name:      "backtest_duration_seconds",
		Help:      "Duration of full backtest runs",
		Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
	})
	OracleLookupDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "stockcast",
		Name:      "oracle_lookup_duration_seconds",
		Help:      "Duration of sentiment oracle lookups",
		Buckets:   prometheus.DefBuckets,
	})
	BarFetchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "stockcast",
		Name:      "bar_fetch_duration_seconds",
		Help:      "Duration of market data fetches by source",
		Buckets:   prometheus.DefBuckets,
	}, []string{"source"})
)

// InitRegistry initializes and returns the global Prometheus registry
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(BacktestRunsTotal)
		registry.MustRegister(BacktestFoldsTotal)
		registry.MustRegister(SentimentRowsApplied)
		registry.MustRegister(SentimentRowsSkipped)
		registry.MustRegister(BarsIngestedTotal)
		registry.MustRegister(MarketDataErrorsTotal)

		// Register gauge metrics
		registry.MustRegister(SentimentCacheHitRatio)
		registry.MustRegister(LastBacktestAccuracy)
		registry.MustRegister(LastBacktestPrecision)

		// Register histogram metrics
		registry.MustRegister(BacktestDuration)
		registry.MustRegister(OracleLookupDuration)
		registry.MustRegister(BarFetchDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordBacktestRun records a finished backtest run.
// status should be one of: "success", "failure", "empty"
func RecordBacktestRun(symbol, status string) {
	BacktestRunsTotal.WithLabelValues(symbol, status).Inc()
}

// RecordBacktestQuality updates the per-symbol quality gauges.
func RecordBacktestQuality(symbol string, precision, accuracy float64) {
	LastBacktestPrecision.WithLabelValues(symbol).Set(precision)
	LastBacktestAccuracy.WithLabelValues(symbol).Set(accuracy)
}

// RecordBacktestDuration records backtest duration.
func RecordBacktestDuration(durationSeconds float64) {
	BacktestDuration.Observe(durationSeconds)
}

// RecordBarsIngested records ingested bar counts.
func RecordBarsIngested(symbol string, count int) {
	BarsIngestedTotal.WithLabelValues(symbol).Add(float64(count))
}

// RecordMarketDataError records a market data fetch failure.
func RecordMarketDataError(source, code string) {
	MarketDataErrorsTotal.WithLabelValues(source, code).Inc()
}
