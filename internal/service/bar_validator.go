// Package service wires market data, feature building and backtesting into
// the application workflows.
package service

import (
	"fmt"

	"github.com/yourusername/stockcast/internal/models"
)

// BarValidator performs sanity checks on ingested bars before persistence
type BarValidator struct{}

// NewBarValidator creates a new bar validator
func NewBarValidator() *BarValidator {
	return &BarValidator{}
}

// ValidateBar returns every problem found with a single bar
func (v *BarValidator) ValidateBar(bar *models.Bar) []string {
	var problems []string

	if bar.Symbol == "" {
		problems = append(problems, "symbol is empty")
	}
	if bar.Date.IsZero() {
		problems = append(problems, "date is zero")
	}
	if bar.Open.IsNegative() || bar.Open.IsZero() {
		problems = append(problems, "open is not positive")
	}
	if bar.High.IsNegative() || bar.High.IsZero() {
		problems = append(problems, "high is not positive")
	}
	if bar.Low.IsNegative() || bar.Low.IsZero() {
		problems = append(problems, "low is not positive")
	}
	if bar.Close.IsNegative() || bar.Close.IsZero() {
		problems = append(problems, "close is not positive")
	}
	if bar.High.LessThan(bar.Low) {
		problems = append(problems, "high is below low")
	}
	if bar.Close.GreaterThan(bar.High) || bar.Close.LessThan(bar.Low) {
		problems = append(problems, "close is outside the high/low range")
	}
	if bar.Volume < 0 {
		problems = append(problems, "volume is negative")
	}

	return problems
}

// ValidateSeries checks ordering across a bar series
func (v *BarValidator) ValidateSeries(bars []models.Bar) []string {
	var problems []string
	for i := 1; i < len(bars); i++ {
		if !bars[i-1].Date.Before(bars[i].Date) {
			problems = append(problems, fmt.Sprintf(
				"bars out of order at %s", bars[i].Date.Format("2006-01-02")))
		}
	}
	return problems
}
