package backtest

import (
	"context"
	"testing"
	"time"

	"github.com/yourusername/stockcast/internal/dataset"
	"github.com/yourusername/stockcast/internal/models"
)

var testPredictors = []string{
	"Close_Ratio_2",
	dataset.ColSentPositive,
	dataset.ColSentNegative,
	dataset.ColSentNeutral,
}

// buildFeatureTable creates a finalized n-row feature table with daily
// dates starting at base, alternating targets and placeholder sentiment
func buildFeatureTable(t *testing.T, n int, base time.Time) *dataset.Table {
	t.Helper()
	columns := append([]string{dataset.ColTarget}, testPredictors...)
	table := dataset.NewTable(columns)
	for i := 0; i < n; i++ {
		err := table.AppendRow(base.AddDate(0, 0, i), map[string]float64{
			dataset.ColTarget:       float64(i % 2),
			"Close_Ratio_2":         1 + float64(i%10)/100,
			dataset.ColSentPositive: models.NeutralPositive,
			dataset.ColSentNegative: models.NeutralNegative,
			dataset.ColSentNeutral:  models.NeutralNeutral,
		})
		if err != nil {
			t.Fatalf("AppendRow failed at row %d: %v", i, err)
		}
	}
	return table
}

// fixedProbClassifier predicts the same probability for every row
type fixedProbClassifier struct {
	prob       float64
	fitErr     error
	predictErr error
	fits       int
}

func (c *fixedProbClassifier) Fit(x [][]float64, y []int) error {
	c.fits++
	return c.fitErr
}

func (c *fixedProbClassifier) PredictProbability(x [][]float64) ([]float64, error) {
	if c.predictErr != nil {
		return nil, c.predictErr
	}
	probs := make([]float64, len(x))
	for i := range probs {
		probs[i] = c.prob
	}
	return probs, nil
}

// failNthFitClassifier fails exactly one Fit call, by 1-based index
type failNthFitClassifier struct {
	fixedProbClassifier
	failOn int
	err    error
}

func (c *failNthFitClassifier) Fit(x [][]float64, y []int) error {
	c.fits++
	if c.fits == c.failOn {
		return c.err
	}
	return nil
}

// recordingOracle records every asOf it is asked for
type recordingOracle struct {
	score models.SentimentScore
	err   error
	asOfs []time.Time
}

func (o *recordingOracle) Lookup(_ context.Context, _, _ string, asOf time.Time) (models.SentimentScore, error) {
	o.asOfs = append(o.asOfs, asOf)
	if o.err != nil {
		return models.SentimentScore{}, o.err
	}
	return o.score, nil
}

func resolvedScore(positive, negative, neutral float64, day time.Time) models.SentimentScore {
	resolved := day
	return models.SentimentScore{
		Positive:     positive,
		Negative:     negative,
		Neutral:      neutral,
		ResolvedDate: &resolved,
		ArticleCount: 1,
	}
}

func fixedClock(day time.Time) func() time.Time {
	return func() time.Time { return day }
}

func testConfig(symbol string) Config {
	return Config{
		Symbol:            symbol,
		Name:              "Test Corp",
		StartOffset:       DefaultStartOffset,
		StepSize:          DefaultStepSize,
		DecisionThreshold: DefaultDecisionThreshold,
	}
}
