package service

import "time"

// IngestionMetrics tracks the outcome of one ingestion pass
type IngestionMetrics struct {
	TotalBars        int
	StoredBars       int
	ValidationErrors int
	Errors           int
	Duration         time.Duration
}

// Reset clears all counters
func (m *IngestionMetrics) Reset() {
	*m = IngestionMetrics{}
}
