package backtest

import "fmt"

// Metrics summarizes the predictive quality of one backtest run
type Metrics struct {
	TotalRows         int     `json:"total_rows"`
	PredictedPositive int     `json:"predicted_positive"`
	PredictedNegative int     `json:"predicted_negative"`
	TruePositives     int     `json:"true_positives"`
	Correct           int     `json:"correct"`
	Precision         float64 `json:"precision"`
	Accuracy          float64 `json:"accuracy"`
}

// CalculateMetrics computes precision and accuracy over a prediction
// frame. Metrics are undefined on an empty frame, so that is an error.
func CalculateMetrics(frame *PredictionFrame) (Metrics, error) {
	if frame == nil || frame.Empty() {
		return Metrics{}, fmt.Errorf("no predictions to evaluate")
	}

	m := Metrics{TotalRows: frame.Len()}
	for _, row := range frame.Rows() {
		if row.Prediction == 1 {
			m.PredictedPositive++
			if row.Target == 1 {
				m.TruePositives++
			}
		} else {
			m.PredictedNegative++
		}
		if row.Prediction == row.Target {
			m.Correct++
		}
	}

	if m.PredictedPositive > 0 {
		m.Precision = float64(m.TruePositives) / float64(m.PredictedPositive)
	}
	m.Accuracy = float64(m.Correct) / float64(m.TotalRows)
	return m, nil
}
