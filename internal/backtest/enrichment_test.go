package backtest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yourusername/stockcast/internal/dataset"
	"github.com/yourusername/stockcast/internal/models"
)

func TestEnrichFoldAppliesOracleSentiment(t *testing.T) {
	now := time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC)
	// 10 rows ending 5 days before now, all inside the coverage window
	base := time.Date(2024, 5, 27, 0, 0, 0, 0, time.UTC)
	test := buildFeatureTable(t, 10, base)

	oracle := &recordingOracle{score: resolvedScore(0.7, 0.2, 0.1, base)}
	enricher := NewEnricher(oracle, fixedClock(now), nil)

	stats := SentimentStats{}
	enricher.EnrichFold(context.Background(), test, "AAPL", "Apple", &stats)

	if stats.Applied != 10 || stats.TotalRows != 10 {
		t.Fatalf("stats = %+v, want 10 applied of 10", stats)
	}
	for i := 0; i < test.Len(); i++ {
		positive, _ := test.Value(i, dataset.ColSentPositive)
		if positive != 0.7 {
			t.Fatalf("row %d positive = %v, want 0.7", i, positive)
		}
	}
}

func TestEnrichFoldQueriesStrictlyBeforeRowDate(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	base := time.Date(2024, 5, 27, 0, 0, 0, 0, time.UTC)
	test := buildFeatureTable(t, 10, base)

	oracle := &recordingOracle{score: resolvedScore(0.6, 0.3, 0.1, base)}
	enricher := NewEnricher(oracle, fixedClock(now), nil)
	enricher.EnrichFold(context.Background(), test, "AAPL", "Apple", &SentimentStats{})

	if len(oracle.asOfs) != test.Len() {
		t.Fatalf("oracle calls = %d, want %d", len(oracle.asOfs), test.Len())
	}
	for i, asOf := range oracle.asOfs {
		rowDate := test.Date(i)
		if !asOf.Equal(rowDate.AddDate(0, 0, -1)) {
			t.Fatalf("row %s queried asOf %s, want the day before",
				rowDate.Format("2006-01-02"), asOf.Format("2006-01-02"))
		}
		if !rowDate.Before(now) {
			t.Fatalf("queried for row %s on or after now", rowDate.Format("2006-01-02"))
		}
	}
}

func TestEnrichFoldSkipsOldRows(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	// one row dated 45 days before now
	test := buildFeatureTable(t, 1, now.AddDate(0, 0, -45))

	oracle := &recordingOracle{score: resolvedScore(0.9, 0.05, 0.05, now)}
	enricher := NewEnricher(oracle, fixedClock(now), nil)

	stats := SentimentStats{}
	enricher.EnrichFold(context.Background(), test, "AAPL", "Apple", &stats)

	if stats.SkippedOld != 1 || stats.Applied != 0 {
		t.Fatalf("stats = %+v, want 1 skipped_old", stats)
	}
	if len(oracle.asOfs) != 0 {
		t.Fatal("oracle must not be queried for rows outside the window")
	}
	positive, _ := test.Value(0, dataset.ColSentPositive)
	if positive != models.NeutralPositive {
		t.Fatalf("placeholder overwritten: %v", positive)
	}
}

func TestEnrichFoldSkipsTodayAndFutureRows(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	// three rows: yesterday, today, tomorrow
	test := buildFeatureTable(t, 3, now.AddDate(0, 0, -1))

	oracle := &recordingOracle{score: resolvedScore(0.9, 0.05, 0.05, now)}
	enricher := NewEnricher(oracle, fixedClock(now), nil)

	stats := SentimentStats{}
	enricher.EnrichFold(context.Background(), test, "AAPL", "Apple", &stats)

	if stats.SkippedFuture != 3 {
		t.Fatalf("stats = %+v, want 3 skipped_future", stats)
	}
	if len(oracle.asOfs) != 0 {
		t.Fatal("oracle must never see a date at or beyond now-1")
	}
}

func TestEnrichFoldNoDataOracleLeavesPlaceholders(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	base := time.Date(2024, 5, 27, 0, 0, 0, 0, time.UTC)
	test := buildFeatureTable(t, 10, base)

	// a bare (0,0,1) triple with no resolved date is the oracle's own
	// "no data" answer
	oracle := &recordingOracle{score: models.SentimentScore{Neutral: 1}}
	enricher := NewEnricher(oracle, fixedClock(now), nil)

	stats := SentimentStats{}
	enricher.EnrichFold(context.Background(), test, "AAPL", "Apple", &stats)

	if stats.Applied != 0 {
		t.Fatalf("applied = %d, want 0", stats.Applied)
	}
	if stats.SkippedOther != 0 {
		t.Fatalf("no-data must not count as an error, got %d skipped_other", stats.SkippedOther)
	}
	for i := 0; i < test.Len(); i++ {
		positive, _ := test.Value(i, dataset.ColSentPositive)
		neutral, _ := test.Value(i, dataset.ColSentNeutral)
		if positive != models.NeutralPositive || neutral != models.NeutralNeutral {
			t.Fatalf("row %d lost its placeholders", i)
		}
	}
}

func TestEnrichFoldOracleFailureNeverAborts(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	base := time.Date(2024, 5, 27, 0, 0, 0, 0, time.UTC)
	test := buildFeatureTable(t, 5, base)

	oracle := &recordingOracle{err: errors.New("connection refused")}
	enricher := NewEnricher(oracle, fixedClock(now), nil)

	stats := SentimentStats{}
	enricher.EnrichFold(context.Background(), test, "AAPL", "Apple", &stats)

	if stats.SkippedOther != 5 || stats.Applied != 0 {
		t.Fatalf("stats = %+v, want 5 skipped_other", stats)
	}
}

func TestEnrichFoldMixedWindow(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	// 60 daily rows ending on now: old tail, covered middle, future edge
	test := buildFeatureTable(t, 60, now.AddDate(0, 0, -59))

	oracle := &recordingOracle{score: resolvedScore(0.8, 0.1, 0.1, now)}
	enricher := NewEnricher(oracle, fixedClock(now), nil)

	stats := SentimentStats{}
	enricher.EnrichFold(context.Background(), test, "AAPL", "Apple", &stats)

	// rows older than now-30 are skipped old; now-1 and now are future
	if stats.SkippedOld != 29 {
		t.Fatalf("skipped_old = %d, want 29", stats.SkippedOld)
	}
	if stats.SkippedFuture != 2 {
		t.Fatalf("skipped_future = %d, want 2", stats.SkippedFuture)
	}
	if stats.Applied != 29 {
		t.Fatalf("applied = %d, want 29", stats.Applied)
	}
	if stats.TotalRows != 60 {
		t.Fatalf("total_rows = %d, want 60", stats.TotalRows)
	}
}

func TestEnrichFoldStatsPercent(t *testing.T) {
	stats := SentimentStats{TotalRows: 200, Applied: 50}
	if pct := stats.AppliedPercent(); pct != 25 {
		t.Fatalf("AppliedPercent = %v, want 25", pct)
	}
	empty := SentimentStats{}
	if pct := empty.AppliedPercent(); pct != 0 {
		t.Fatalf("AppliedPercent on empty stats = %v, want 0", pct)
	}
}
