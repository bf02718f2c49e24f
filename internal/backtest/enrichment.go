package backtest

import (
	"context"
	"time"

	"github.com/yourusername/stockcast/internal/dataset"
	"github.com/yourusername/stockcast/internal/logger"
	"github.com/yourusername/stockcast/internal/models"
)

// Oracle resolves news sentiment for a symbol as of a given day
type Oracle interface {
	Lookup(ctx context.Context, symbol, name string, asOf time.Time) (models.SentimentScore, error)
}

// Enricher overwrites a test partition's placeholder sentiment columns
// with oracle values, querying only dates strictly before the row being
// predicted. Rows outside the oracle's coverage window keep their
// placeholders and are counted, never failed.
type Enricher struct {
	oracle Oracle
	now    func() time.Time
	logger *logger.BacktestLogger
}

// NewEnricher creates an enrichment step. The clock is injectable for
// deterministic coverage-window tests.
func NewEnricher(oracle Oracle, now func() time.Time, log *logger.BacktestLogger) *Enricher {
	if now == nil {
		now = time.Now
	}
	return &Enricher{oracle: oracle, now: now, logger: log}
}

// EnrichFold walks every row of the test partition and substitutes oracle
// sentiment where the row's date allows it, accumulating counters in stats.
// Oracle failures are recorded per row and never abort the fold.
func (e *Enricher) EnrichFold(ctx context.Context, test *dataset.Table, symbol, name string, stats *SentimentStats) {
	today := dataset.NormalizeDay(e.now())
	oldest := today.AddDate(0, 0, -oracleLookbackDays)
	latest := today.AddDate(0, 0, -1)

	for i := 0; i < test.Len(); i++ {
		stats.TotalRows++

		day := dataset.NormalizeDay(test.Date(i))
		if day.Before(oldest) {
			stats.SkippedOld++
			continue
		}
		if !day.Before(latest) {
			stats.SkippedFuture++
			continue
		}

		// never query for information dated on or after the day being
		// predicted
		asOf := day.AddDate(0, 0, -1)
		if !asOf.Before(latest) {
			stats.SkippedFuture++
			continue
		}

		score, err := e.oracle.Lookup(ctx, symbol, name, asOf)
		if err != nil {
			stats.SkippedOther++
			if e.logger != nil {
				e.logger.LogOracleLookupError(symbol, asOf.Format("2006-01-02"), err.Error())
			}
			continue
		}

		// the oracle signals "no data" with a zero positive score or an
		// unresolved date; neither replaces the placeholders
		if !score.HasData() {
			continue
		}

		if err := applySentiment(test, i, score); err != nil {
			stats.SkippedOther++
			continue
		}
		stats.Applied++
	}
}

func applySentiment(test *dataset.Table, i int, score models.SentimentScore) error {
	if err := test.SetValue(i, dataset.ColSentPositive, score.Positive); err != nil {
		return err
	}
	if err := test.SetValue(i, dataset.ColSentNegative, score.Negative); err != nil {
		return err
	}
	return test.SetValue(i, dataset.ColSentNeutral, score.Neutral)
}
