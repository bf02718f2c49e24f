package dataset

import (
	"testing"
	"time"
)

func buildSmallTable(t *testing.T, n int) *Table {
	t.Helper()
	table := NewTable([]string{ColClose, ColTarget})
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		err := table.AppendRow(start.AddDate(0, 0, i), map[string]float64{
			ColClose:  float64(100 + i),
			ColTarget: float64(i % 2),
		})
		if err != nil {
			t.Fatalf("AppendRow failed: %v", err)
		}
	}
	return table
}

func TestAppendRowRejectsOutOfOrderDates(t *testing.T) {
	table := buildSmallTable(t, 3)
	err := table.AppendRow(table.Date(0), map[string]float64{ColClose: 1, ColTarget: 0})
	if err == nil {
		t.Fatal("expected error for non-increasing date")
	}
}

func TestNormalizeDayStripsTimeAndZone(t *testing.T) {
	loc := time.FixedZone("EST", -5*3600)
	aware := time.Date(2024, 3, 1, 18, 30, 0, 0, loc)
	naive := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	if !NormalizeDay(aware).Equal(NormalizeDay(naive)) {
		t.Fatalf("expected %v and %v to normalize equal", aware, naive)
	}
}

func TestSliceIsDeepCopy(t *testing.T) {
	table := buildSmallTable(t, 5)
	slice := table.Slice(1, 4)

	if slice.Len() != 3 {
		t.Fatalf("expected 3 rows, got %d", slice.Len())
	}
	if err := slice.SetValue(0, ColClose, 999); err != nil {
		t.Fatalf("SetValue failed: %v", err)
	}

	orig, _ := table.Value(1, ColClose)
	if orig == 999 {
		t.Fatal("mutating a slice must not touch the parent table")
	}
}

func TestSliceClampsBounds(t *testing.T) {
	table := buildSmallTable(t, 5)
	if got := table.Slice(-3, 100).Len(); got != 5 {
		t.Errorf("expected clamped full slice of 5 rows, got %d", got)
	}
	if got := table.Slice(4, 2).Len(); got != 0 {
		t.Errorf("expected empty slice for inverted range, got %d rows", got)
	}
}

func TestMatrixPreservesColumnOrder(t *testing.T) {
	table := buildSmallTable(t, 2)
	rows, err := table.Matrix([]string{ColTarget, ColClose})
	if err != nil {
		t.Fatalf("Matrix failed: %v", err)
	}
	if rows[0][0] != 0 || rows[0][1] != 100 {
		t.Errorf("unexpected first row: %v", rows[0])
	}
	if rows[1][0] != 1 || rows[1][1] != 101 {
		t.Errorf("unexpected second row: %v", rows[1])
	}
}

func TestMatrixUnknownColumn(t *testing.T) {
	table := buildSmallTable(t, 2)
	if _, err := table.Matrix([]string{"Nope"}); err == nil {
		t.Fatal("expected error for unknown column")
	}
}

func TestAddColumnFills(t *testing.T) {
	table := buildSmallTable(t, 3)
	table.AddColumn(ColSentPositive, 0.33)
	v, err := table.Value(2, ColSentPositive)
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}
	if v != 0.33 {
		t.Errorf("expected fill 0.33, got %v", v)
	}
}
