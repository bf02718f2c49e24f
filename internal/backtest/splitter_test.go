package backtest

import (
	"reflect"
	"testing"
)

func TestSplitsExpandingWindow(t *testing.T) {
	folds, err := Splits(3000, 2500, 250)
	if err != nil {
		t.Fatalf("Splits failed: %v", err)
	}

	want := []Fold{
		{SplitIndex: 2500, TestEnd: 2750},
		{SplitIndex: 2750, TestEnd: 3000},
	}
	if !reflect.DeepEqual(folds, want) {
		t.Fatalf("folds = %v, want %v", folds, want)
	}

	total := 0
	for _, f := range folds {
		total += f.TestSize()
	}
	if total != 500 {
		t.Fatalf("total test rows = %d, want 500", total)
	}
}

func TestSplitsFinalFoldMayBeShort(t *testing.T) {
	folds, err := Splits(2900, 2500, 250)
	if err != nil {
		t.Fatalf("Splits failed: %v", err)
	}
	if len(folds) != 2 {
		t.Fatalf("len(folds) = %d, want 2", len(folds))
	}
	if folds[1].SplitIndex != 2750 || folds[1].TestEnd != 2900 {
		t.Fatalf("final fold = %v, want [2750,2900)", folds[1])
	}
	if folds[1].TestSize() != 150 {
		t.Fatalf("final fold size = %d, want 150", folds[1].TestSize())
	}
}

func TestSplitsTooFewRowsIsEmptyNotError(t *testing.T) {
	folds, err := Splits(2500, 2500, 250)
	if err != nil {
		t.Fatalf("Splits failed: %v", err)
	}
	if len(folds) != 0 {
		t.Fatalf("expected no folds, got %d", len(folds))
	}

	folds, err = Splits(100, 2500, 250)
	if err != nil {
		t.Fatalf("Splits failed: %v", err)
	}
	if len(folds) != 0 {
		t.Fatalf("expected no folds, got %d", len(folds))
	}
}

func TestSplitsInvalidInputIsFatal(t *testing.T) {
	if _, err := Splits(3000, 2500, 0); err == nil {
		t.Fatal("expected error for zero step")
	}
	if _, err := Splits(3000, 2500, -1); err == nil {
		t.Fatal("expected error for negative step")
	}
	if _, err := Splits(3000, -1, 250); err == nil {
		t.Fatal("expected error for negative start")
	}
}

func TestSplitsIdempotent(t *testing.T) {
	first, err := Splits(4123, 2500, 250)
	if err != nil {
		t.Fatalf("Splits failed: %v", err)
	}
	second, err := Splits(4123, 2500, 250)
	if err != nil {
		t.Fatalf("Splits failed: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("identical inputs produced different folds")
	}
}

func TestSplitsAreStrictlyIncreasingAndCoverTail(t *testing.T) {
	n := 3777
	folds, err := Splits(n, 2500, 250)
	if err != nil {
		t.Fatalf("Splits failed: %v", err)
	}

	prevEnd := 2500
	for i, f := range folds {
		if f.SplitIndex != prevEnd {
			t.Fatalf("fold %d starts at %d, want %d", i, f.SplitIndex, prevEnd)
		}
		if f.TestEnd <= f.SplitIndex {
			t.Fatalf("fold %d has empty test range", i)
		}
		prevEnd = f.TestEnd
	}
	if prevEnd != n {
		t.Fatalf("folds end at %d, want %d", prevEnd, n)
	}
}
