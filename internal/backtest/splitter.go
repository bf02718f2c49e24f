package backtest

import "fmt"

// Fold is one train/test split of an expanding-window backtest. Training
// rows are [0, SplitIndex), test rows are [SplitIndex, TestEnd).
type Fold struct {
	SplitIndex int
	TestEnd    int
}

// TrainSize returns the number of training rows
func (f Fold) TrainSize() int {
	return f.SplitIndex
}

// TestSize returns the number of test rows
func (f Fold) TestSize() int {
	return f.TestEnd - f.SplitIndex
}

// Splits produces the ordered fold boundaries for a table of n rows.
// Split indices run start, start+step, ... while they stay below n; the
// final fold's test range may be shorter than step. A table with no more
// than start rows yields no folds, which is a valid empty outcome.
// Splits is a pure function of its inputs.
func Splits(n, start, step int) ([]Fold, error) {
	if start < 0 {
		return nil, fmt.Errorf("start offset cannot be negative: %d", start)
	}
	if step <= 0 {
		return nil, fmt.Errorf("step size must be positive: %d", step)
	}

	var folds []Fold
	for i := start; i < n; i += step {
		end := i + step
		if end > n {
			end = n
		}
		folds = append(folds, Fold{SplitIndex: i, TestEnd: end})
	}
	return folds, nil
}
