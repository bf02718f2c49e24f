package backtest

import (
	"fmt"

	"github.com/yourusername/stockcast/internal/config"
)

// Defaults for the walk-forward scheme. The decision threshold is a named
// constant rather than an implicit literal inside the predictor.
const (
	DefaultStartOffset       = 2500
	DefaultStepSize          = 250
	DefaultDecisionThreshold = 0.5

	// oracleLookbackDays bounds how far back the sentiment oracle can
	// plausibly have coverage relative to the current date
	oracleLookbackDays = 30
)

// Config holds the parameters of one backtest run
type Config struct {
	Symbol            string
	Name              string
	StartOffset       int
	StepSize          int
	DecisionThreshold float64
	OutputPath        string
	PersistEnabled    bool
}

// FromConfig converts app config to a backtest run config
func FromConfig(cfg *config.BacktestConfig, symbol, name string) (Config, error) {
	if cfg == nil {
		return Config{}, fmt.Errorf("backtest config is required")
	}

	bt := Config{
		Symbol:            symbol,
		Name:              name,
		StartOffset:       cfg.StartOffset,
		StepSize:          cfg.StepSize,
		DecisionThreshold: cfg.DecisionThreshold,
		OutputPath:        cfg.OutputPath,
		PersistEnabled:    cfg.PersistEnabled,
	}
	if bt.StartOffset == 0 {
		bt.StartOffset = DefaultStartOffset
	}
	if bt.StepSize == 0 {
		bt.StepSize = DefaultStepSize
	}
	if bt.DecisionThreshold == 0 {
		bt.DecisionThreshold = DefaultDecisionThreshold
	}

	return bt, bt.Validate()
}

// Validate validates backtest run parameters
func (c Config) Validate() error {
	if c.Symbol == "" {
		return fmt.Errorf("symbol is required")
	}
	if c.StartOffset < 0 {
		return fmt.Errorf("start offset cannot be negative")
	}
	if c.StepSize <= 0 {
		return fmt.Errorf("step size must be positive")
	}
	if c.DecisionThreshold <= 0 || c.DecisionThreshold >= 1 {
		return fmt.Errorf("decision threshold must be between 0 and 1")
	}
	return nil
}
