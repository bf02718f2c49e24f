package backtest

import (
	"fmt"

	"github.com/yourusername/stockcast/internal/classifier"
	"github.com/yourusername/stockcast/internal/dataset"
	"github.com/yourusername/stockcast/internal/models"
)

// neutralFill maps sentiment columns to their placeholder values, used to
// backfill a test partition that predates sentiment support
var neutralFill = map[string]float64{
	dataset.ColSentPositive: models.NeutralPositive,
	dataset.ColSentNegative: models.NeutralNegative,
	dataset.ColSentNeutral:  models.NeutralNeutral,
}

// FoldPredictor fits the classifier on a train partition and scores the
// test partition, binarizing probabilities at the decision threshold
type FoldPredictor struct {
	model      classifier.Classifier
	predictors []string
	threshold  float64
}

// NewFoldPredictor creates a fold predictor over a fixed predictor set
func NewFoldPredictor(model classifier.Classifier, predictors []string, threshold float64) *FoldPredictor {
	return &FoldPredictor{model: model, predictors: predictors, threshold: threshold}
}

// Predict fits on train and scores test. A missing non-sentiment predictor
// column or a model failure returns an error so the driver can skip the
// fold; missing sentiment columns are backfilled with neutral placeholders.
func (p *FoldPredictor) Predict(train, test *dataset.Table) ([]PredictionRow, error) {
	for _, column := range p.predictors {
		if test.HasColumn(column) {
			continue
		}
		fill, isSentiment := neutralFill[column]
		if !isSentiment {
			return nil, fmt.Errorf("predictor column %q missing from test partition", column)
		}
		test.AddColumn(column, fill)
	}

	trainX, err := train.Matrix(p.predictors)
	if err != nil {
		return nil, fmt.Errorf("train features: %w", err)
	}
	trainY, err := train.IntColumn(dataset.ColTarget)
	if err != nil {
		return nil, fmt.Errorf("train labels: %w", err)
	}
	if err := p.model.Fit(trainX, trainY); err != nil {
		return nil, fmt.Errorf("model fit: %w", err)
	}

	testX, err := test.Matrix(p.predictors)
	if err != nil {
		return nil, fmt.Errorf("test features: %w", err)
	}
	probabilities, err := p.model.PredictProbability(testX)
	if err != nil {
		return nil, fmt.Errorf("model predict: %w", err)
	}
	if len(probabilities) != test.Len() {
		return nil, fmt.Errorf("model returned %d probabilities for %d rows", len(probabilities), test.Len())
	}

	targets, err := test.IntColumn(dataset.ColTarget)
	if err != nil {
		return nil, fmt.Errorf("test labels: %w", err)
	}

	rows := make([]PredictionRow, test.Len())
	for i := 0; i < test.Len(); i++ {
		prediction := 0
		if probabilities[i] >= p.threshold {
			prediction = 1
		}
		rows[i] = PredictionRow{
			Date:       test.Date(i),
			Target:     targets[i],
			Prediction: prediction,
		}
	}
	return rows, nil
}
