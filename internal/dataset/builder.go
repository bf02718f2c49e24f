package dataset

import (
	"fmt"
	"math"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/stockcast/internal/models"
)

// DefaultTendencyDays are the rolling windows used for ratio and trend predictors
var DefaultTendencyDays = []int{2, 5, 60, 250, 1000}

// BuilderConfig configures feature table construction
type BuilderConfig struct {
	TendencyDays   []int
	MinHistoryDate time.Time
}

// Builder turns an ordered daily bar series into a finalized feature table
type Builder struct {
	config BuilderConfig
	logger *logrus.Logger
}

// NewBuilder creates a feature table builder
func NewBuilder(cfg BuilderConfig, logger *logrus.Logger) *Builder {
	if len(cfg.TendencyDays) == 0 {
		cfg.TendencyDays = DefaultTendencyDays
	}
	if logger == nil {
		logger = logrus.New()
	}
	return &Builder{config: cfg, logger: logger}
}

// Build constructs the feature table and the predictor column list from bars.
// Bars must be sorted ascending by date with no duplicates. Rows lacking the
// history required by any rolling window are dropped, as is the final row
// whose next-day close is unknown.
func (b *Builder) Build(bars []models.Bar) (*Table, []string, error) {
	if len(bars) == 0 {
		return nil, nil, fmt.Errorf("no bars to build features from")
	}

	filtered := make([]models.Bar, 0, len(bars))
	for _, bar := range bars {
		if !b.config.MinHistoryDate.IsZero() && NormalizeDay(bar.Date).Before(NormalizeDay(b.config.MinHistoryDate)) {
			continue
		}
		filtered = append(filtered, bar)
	}
	if len(filtered) == 0 {
		return nil, nil, fmt.Errorf("no bars on or after %s", b.config.MinHistoryDate.Format("2006-01-02"))
	}
	for i := 1; i < len(filtered); i++ {
		if !NormalizeDay(filtered[i-1].Date).Before(NormalizeDay(filtered[i].Date)) {
			return nil, nil, fmt.Errorf("bars are not strictly ascending at %s", filtered[i].Date.Format("2006-01-02"))
		}
	}

	n := len(filtered)
	closes := make([]float64, n)
	open := make([]float64, n)
	high := make([]float64, n)
	low := make([]float64, n)
	volume := make([]float64, n)
	for i, bar := range filtered {
		closes[i] = bar.CloseFloat()
		open[i] = bar.OpenFloat()
		high[i] = bar.HighFloat()
		low[i] = bar.LowFloat()
		volume[i] = float64(bar.Volume)
	}

	tomorrow := make([]float64, n)
	target := make([]float64, n)
	for i := 0; i < n; i++ {
		if i == n-1 {
			tomorrow[i] = math.NaN()
			target[i] = math.NaN()
			continue
		}
		tomorrow[i] = closes[i+1]
		if closes[i+1] > closes[i] {
			target[i] = 1
		} else {
			target[i] = 0
		}
	}

	predictors := []string{ColOpen, ColHigh, ColLow, ColClose, ColVolume}
	order := []string{ColOpen, ColHigh, ColLow, ColClose, ColVolume, ColTomorrow, ColTarget}
	extra := map[string][]float64{}

	for _, days := range b.config.TendencyDays {
		ratioCol := RatioColumn(days)
		trendCol := TrendColumn(days)
		extra[ratioCol] = closeRatio(closes, days)
		extra[trendCol] = shiftedRollingSum(target, days)
		order = append(order, ratioCol, trendCol)
		predictors = append(predictors, ratioCol, trendCol)
	}

	// Sentiment placeholders; the backtester overwrites them per test row
	// when real news sentiment is available.
	for _, col := range SentimentColumns {
		predictors = append(predictors, col)
		order = append(order, col)
	}

	table := NewTable(order)
	table.dates = make([]time.Time, n)
	for i, bar := range filtered {
		table.dates[i] = NormalizeDay(bar.Date)
	}
	table.columns[ColOpen] = open
	table.columns[ColHigh] = high
	table.columns[ColLow] = low
	table.columns[ColClose] = closes
	table.columns[ColVolume] = volume
	table.columns[ColTomorrow] = tomorrow
	table.columns[ColTarget] = target
	for name, col := range extra {
		table.columns[name] = col
	}
	neutral := models.NeutralSentiment()
	fills := map[string]float64{
		ColSentPositive: neutral.Positive,
		ColSentNegative: neutral.Negative,
		ColSentNeutral:  neutral.Neutral,
	}
	for _, col := range SentimentColumns {
		filled := make([]float64, n)
		for i := range filled {
			filled[i] = fills[col]
		}
		table.columns[col] = filled
	}

	before := table.Len()
	table.dropNaNRows()
	b.logger.WithFields(logrus.Fields{
		"bars":       len(filtered),
		"rows":       table.Len(),
		"dropped":    before - table.Len(),
		"predictors": len(predictors),
	}).Debug("Feature table built")

	if table.Len() == 0 {
		return nil, nil, fmt.Errorf("all rows dropped: need more history than the largest rolling window")
	}
	return table, predictors, nil
}

// RatioColumn returns the close-to-rolling-average ratio column name
func RatioColumn(days int) string {
	return fmt.Sprintf("Close_Ratio_%d", days)
}

// TrendColumn returns the trend column name for a rolling window
func TrendColumn(days int) string {
	return fmt.Sprintf("Trend_%d", days)
}

// closeRatio computes close / rolling mean(close, days); NaN until the
// window is full.
func closeRatio(closes []float64, days int) []float64 {
	out := make([]float64, len(closes))
	sum := 0.0
	for i := range closes {
		sum += closes[i]
		if i >= days {
			sum -= closes[i-days]
		}
		if i < days-1 {
			out[i] = math.NaN()
			continue
		}
		mean := sum / float64(days)
		if mean == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = closes[i] / mean
	}
	return out
}

// shiftedRollingSum computes the rolling sum of the previous `days` values,
// excluding the current row. Row i sums values[i-days .. i-1], so the trend
// predictor never sees the row's own label.
func shiftedRollingSum(values []float64, days int) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		if i < days {
			out[i] = math.NaN()
			continue
		}
		sum := 0.0
		for j := i - days; j < i; j++ {
			sum += values[j]
		}
		out[i] = sum
	}
	return out
}
