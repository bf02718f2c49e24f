package backtest

import (
	"fmt"
	"time"
)

// PredictionRow pairs one day's ground truth with the model's call
type PredictionRow struct {
	Date       time.Time
	Target     int
	Prediction int
}

// PredictionFrame is the ordered output of a backtest run: every test row
// of every successful fold, in chronological order. Row dates are strictly
// increasing; Append enforces the invariant instead of relying on callers
// iterating folds in order.
type PredictionFrame struct {
	rows []PredictionRow
}

// Append adds rows to the frame, rejecting any date that does not extend
// the strictly increasing sequence
func (f *PredictionFrame) Append(rows ...PredictionRow) error {
	for _, row := range rows {
		if n := len(f.rows); n > 0 && !f.rows[n-1].Date.Before(row.Date) {
			return fmt.Errorf("out-of-order prediction row: %s does not follow %s",
				row.Date.Format("2006-01-02"), f.rows[n-1].Date.Format("2006-01-02"))
		}
		f.rows = append(f.rows, row)
	}
	return nil
}

// Len returns the number of rows
func (f *PredictionFrame) Len() int {
	return len(f.rows)
}

// Empty reports whether the frame holds no predictions
func (f *PredictionFrame) Empty() bool {
	return len(f.rows) == 0
}

// Rows returns the frame's rows in order
func (f *PredictionFrame) Rows() []PredictionRow {
	return f.rows
}
