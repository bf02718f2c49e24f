// Package dataset builds and holds the date-indexed feature table used
// for training and walk-forward backtesting.
package dataset

import (
	"fmt"
	"math"
	"time"
)

// Column names shared between the builder, the backtester and reporting
const (
	ColOpen     = "Open"
	ColHigh     = "High"
	ColLow      = "Low"
	ColClose    = "Close"
	ColVolume   = "Volume"
	ColTomorrow = "Tomorrow"
	ColTarget   = "Target"

	ColSentPositive = "Sent_Positive"
	ColSentNegative = "Sent_Negative"
	ColSentNeutral  = "Sent_Neutral"
)

// SentimentColumns lists the three sentiment predictor columns in order
var SentimentColumns = []string{ColSentPositive, ColSentNegative, ColSentNeutral}

// NormalizeDay strips the intraday component and timezone from a timestamp.
// Every date comparison in the backtester goes through this so that
// timezone-aware bar timestamps and naive news dates compare equal.
func NormalizeDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Table is a date-indexed table of named float64 columns. Rows are sorted
// strictly ascending by calendar date. A finalized table contains no NaN.
type Table struct {
	dates   []time.Time
	order   []string
	columns map[string][]float64
}

// NewTable creates an empty table with the given column order
func NewTable(columnOrder []string) *Table {
	t := &Table{
		order:   append([]string{}, columnOrder...),
		columns: make(map[string][]float64, len(columnOrder)),
	}
	for _, name := range columnOrder {
		t.columns[name] = []float64{}
	}
	return t
}

// AppendRow appends one row. The date must be strictly after the last row's
// date and values must cover every column.
func (t *Table) AppendRow(date time.Time, values map[string]float64) error {
	day := NormalizeDay(date)
	if n := len(t.dates); n > 0 && !t.dates[n-1].Before(day) {
		return fmt.Errorf("row date %s is not after previous row %s",
			day.Format("2006-01-02"), t.dates[n-1].Format("2006-01-02"))
	}
	for _, name := range t.order {
		v, ok := values[name]
		if !ok {
			return fmt.Errorf("missing value for column %s", name)
		}
		t.columns[name] = append(t.columns[name], v)
	}
	t.dates = append(t.dates, day)
	return nil
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.dates)
}

// Columns returns the ordered column names
func (t *Table) Columns() []string {
	return append([]string{}, t.order...)
}

// HasColumn reports whether the table carries the named column
func (t *Table) HasColumn(name string) bool {
	_, ok := t.columns[name]
	return ok
}

// Date returns the calendar date of row i
func (t *Table) Date(i int) time.Time {
	return t.dates[i]
}

// Dates returns a copy of the row index
func (t *Table) Dates() []time.Time {
	return append([]time.Time{}, t.dates...)
}

// Value returns the value of the named column at row i
func (t *Table) Value(i int, name string) (float64, error) {
	col, ok := t.columns[name]
	if !ok {
		return 0, fmt.Errorf("unknown column %s", name)
	}
	return col[i], nil
}

// SetValue overwrites the value of the named column at row i
func (t *Table) SetValue(i int, name string, v float64) error {
	col, ok := t.columns[name]
	if !ok {
		return fmt.Errorf("unknown column %s", name)
	}
	col[i] = v
	return nil
}

// AddColumn attaches a new column filled with the given default value
func (t *Table) AddColumn(name string, fill float64) {
	if t.HasColumn(name) {
		return
	}
	col := make([]float64, len(t.dates))
	for i := range col {
		col[i] = fill
	}
	t.order = append(t.order, name)
	t.columns[name] = col
}

// Slice returns a deep copy of rows [i0, i1). Mutating the slice never
// touches the parent table, which keeps per-fold sentiment enrichment
// from leaking into later training windows.
func (t *Table) Slice(i0, i1 int) *Table {
	if i0 < 0 {
		i0 = 0
	}
	if i1 > len(t.dates) {
		i1 = len(t.dates)
	}
	out := NewTable(t.order)
	if i0 >= i1 {
		return out
	}
	out.dates = append(out.dates, t.dates[i0:i1]...)
	for _, name := range t.order {
		out.columns[name] = append([]float64{}, t.columns[name][i0:i1]...)
	}
	return out
}

// Matrix extracts the named columns as row-major feature vectors
func (t *Table) Matrix(names []string) ([][]float64, error) {
	cols := make([][]float64, len(names))
	for j, name := range names {
		col, ok := t.columns[name]
		if !ok {
			return nil, fmt.Errorf("unknown column %s", name)
		}
		cols[j] = col
	}
	rows := make([][]float64, len(t.dates))
	for i := range t.dates {
		row := make([]float64, len(names))
		for j := range names {
			row[j] = cols[j][i]
		}
		rows[i] = row
	}
	return rows, nil
}

// IntColumn returns the named column rounded to integers, used for labels
func (t *Table) IntColumn(name string) ([]int, error) {
	col, ok := t.columns[name]
	if !ok {
		return nil, fmt.Errorf("unknown column %s", name)
	}
	out := make([]int, len(col))
	for i, v := range col {
		out[i] = int(math.Round(v))
	}
	return out, nil
}

// dropNaNRows removes every row containing at least one NaN value
func (t *Table) dropNaNRows() {
	keep := make([]int, 0, len(t.dates))
	for i := range t.dates {
		clean := true
		for _, name := range t.order {
			if math.IsNaN(t.columns[name][i]) {
				clean = false
				break
			}
		}
		if clean {
			keep = append(keep, i)
		}
	}
	if len(keep) == len(t.dates) {
		return
	}
	dates := make([]time.Time, 0, len(keep))
	for _, i := range keep {
		dates = append(dates, t.dates[i])
	}
	for _, name := range t.order {
		col := t.columns[name]
		compact := make([]float64, 0, len(keep))
		for _, i := range keep {
			compact = append(compact, col[i])
		}
		t.columns[name] = compact
	}
	t.dates = dates
}
