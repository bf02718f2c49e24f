package repository

import (
	"testing"
)

const skipIntegrationMsg = "Integration test - requires database setup"

// TestBarRepositoryUpsert tests bar upsert round-trips
func TestBarRepositoryUpsert(t *testing.T) {
	// db := database.SetupTestDB(t)
	// defer database.TeardownTestDB(t, db)

	// repos, err := NewRepositories(db)
	// if err != nil {
	// 	t.Fatalf("failed to create repositories: %v", err)
	// }

	// ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	// defer cancel()

	// bars := []models.Bar{
	// 	{
	// 		Symbol: "AAPL",
	// 		Date:   time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC),
	// 		Open:   decimal.NewFromFloat(170.10),
	// 		High:   decimal.NewFromFloat(172.50),
	// 		Low:    decimal.NewFromFloat(169.80),
	// 		Close:  decimal.NewFromFloat(171.95),
	// 		Volume: 52_000_000,
	// 	},
	// }

	// written, err := repos.Bar.UpsertBatch(ctx, bars)
	// if err != nil {
	// 	t.Fatalf("failed to upsert bars: %v", err)
	// }
	// if written != 1 {
	// 	t.Errorf("expected 1 bar written, got %d", written)
	// }

	// retrieved, err := repos.Bar.GetBySymbol(ctx, "AAPL")
	// if err != nil {
	// 	t.Fatalf("failed to retrieve bars: %v", err)
	// }
	// if len(retrieved) != 1 || !retrieved[0].Close.Equal(bars[0].Close) {
	// 	t.Errorf("round-trip mismatch: %+v", retrieved)
	// }
	t.Skip(skipIntegrationMsg)
}

// TestBacktestRunPersistence tests run and prediction round-trips
func TestBacktestRunPersistence(t *testing.T) {
	// db := database.SetupTestDB(t)
	// defer database.TeardownTestDB(t, db)

	// repos, err := NewRepositories(db)
	// if err != nil {
	// 	t.Fatalf("failed to create repositories: %v", err)
	// }

	// ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	// defer cancel()

	// run := &models.BacktestRun{
	// 	ID:             uuid.New(),
	// 	Symbol:         "AAPL",
	// 	RunDate:        time.Now().UTC(),
	// 	StartOffset:    2500,
	// 	StepSize:       250,
	// 	Threshold:      0.5,
	// 	TotalRows:      500,
	// 	PredictedRows:  500,
	// 	Precision:      0.54,
	// 	Accuracy:       0.51,
	// 	SentimentStats: json.RawMessage(`{"total_rows":500}`),
	// }

	// if err := repos.BacktestRun.Create(ctx, run); err != nil {
	// 	t.Fatalf("failed to create run: %v", err)
	// }

	// latest, err := repos.BacktestRun.GetLatestBySymbol(ctx, "AAPL")
	// if err != nil {
	// 	t.Fatalf("failed to get latest run: %v", err)
	// }
	// if latest.ID != run.ID {
	// 	t.Errorf("expected run ID %v, got %v", run.ID, latest.ID)
	// }
	t.Skip(skipIntegrationMsg)
}

func TestNewRepositoriesRequiresDatabase(t *testing.T) {
	if _, err := NewRepositories(nil); err == nil {
		t.Fatal("expected error for nil database")
	}
}
