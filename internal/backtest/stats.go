package backtest

// SentimentStats counts what the enrichment step did with every test row
// across one backtest run
type SentimentStats struct {
	TotalRows     int `json:"total_rows"`
	Applied       int `json:"sentiment_applied"`
	SkippedOld    int `json:"skipped_old"`
	SkippedFuture int `json:"skipped_future"`
	SkippedOther  int `json:"skipped_other"`
}

// AppliedPercent returns the share of test rows that received real
// sentiment, as a percentage
func (s SentimentStats) AppliedPercent() float64 {
	if s.TotalRows == 0 {
		return 0
	}
	return float64(s.Applied) / float64(s.TotalRows) * 100
}
