package metrics

import (
	"net/http"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
)

func TestMetricsRegistry(t *testing.T) {
	InitRegistry()
	registry := GetRegistry()

	assert.NotNil(t, registry)
	assert.IsType(t, &prometheus.Registry{}, registry)
}

func TestRecordBacktestRun(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordBacktestRun("AAPL", "success")
		RecordBacktestRun("AAPL", "empty")
	})
}

func TestRecordBacktestQuality(t *testing.T) {
	InitRegistry()

	tests := []struct {
		name      string
		precision float64
		accuracy  float64
	}{
		{
			name:      "typical run",
			precision: 0.54,
			accuracy:  0.51,
		},
		{
			name:      "all predictions wrong",
			precision: 0,
			accuracy:  0,
		},
		{
			name:      "perfect run",
			precision: 1,
			accuracy:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				RecordBacktestQuality("AAPL", tt.precision, tt.accuracy)
			})
		})
	}
}

func TestSentimentCounters(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		SentimentRowsApplied.Add(12)
		SentimentRowsSkipped.WithLabelValues("old").Add(3)
		SentimentRowsSkipped.WithLabelValues("future").Add(1)
		SentimentRowsSkipped.WithLabelValues("other").Inc()
		SentimentCacheHitRatio.Set(0.87)
	})
}

func TestRecordBarsIngested(t *testing.T) {
	InitRegistry()

	assert.NotPanics(t, func() {
		RecordBarsIngested("AAPL", 2500)
		RecordMarketDataError("chart", "rate_limited")
	})
}

func TestMetricsHandler(t *testing.T) {
	InitRegistry()

	handler := Handler()
	assert.NotNil(t, handler)
	assert.Implements(t, (*http.Handler)(nil), handler)
}

func BenchmarkRecordBacktestRun(b *testing.B) {
	InitRegistry()

	for i := 0; i < b.N; i++ {
		RecordBacktestRun("AAPL", "success")
	}
}
