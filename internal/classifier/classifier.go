// Package classifier provides the binary direction classifier used by the
// walk-forward backtester.
package classifier

import "errors"

// Custom errors
var (
	ErrNotFitted        = errors.New("classifier has not been fitted")
	ErrNoTrainingData   = errors.New("no training data")
	ErrShapeMismatch    = errors.New("feature vector shape mismatch")
	ErrLabelOutOfRange  = errors.New("label must be 0 or 1")
	ErrInconsistentRows = errors.New("features and labels have different lengths")
)

// Classifier fits on labeled feature vectors and scores the probability of
// the positive class (next-day close higher than today's) per row.
type Classifier interface {
	Fit(features [][]float64, labels []int) error
	PredictProbability(features [][]float64) ([]float64, error)
}
