// Package config provides configuration management for the Stockcast application.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database" validate:"required"`
	MarketData MarketDataConfig `mapstructure:"market_data" validate:"required"`
	News       NewsConfig       `mapstructure:"news" validate:"required"`
	Sentiment  SentimentConfig  `mapstructure:"sentiment" validate:"required"`
	Model      ModelConfig      `mapstructure:"model" validate:"required"`
	Backtest   BacktestConfig   `mapstructure:"backtest" validate:"required"`
	Schedule   ScheduleConfig   `mapstructure:"schedule" validate:"required"`
	Metrics    MetricsConfig    `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// MarketDataConfig represents the market data provider configuration
type MarketDataConfig struct {
	BaseURL        string  `mapstructure:"base_url" validate:"required,url"`
	DefaultPeriod  string  `mapstructure:"default_period" validate:"required"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	RetryAttempts  int     `mapstructure:"retry_attempts" validate:"required,gte=0"`
	RateLimit      float64 `mapstructure:"rate_limit" validate:"required,gt=0"`
}

// NewsConfig represents the news API configuration
type NewsConfig struct {
	BaseURL      string   `mapstructure:"base_url" validate:"required,url"`
	APIKey       string   `mapstructure:"api_key"`
	Language     string   `mapstructure:"language" validate:"required"`
	Domains      []string `mapstructure:"domains" validate:"required,min=1"`
	PageSize     int      `mapstructure:"page_size" validate:"required,gt=0,lte=100"`
	LookbackDays int      `mapstructure:"lookback_days" validate:"required,gt=0"`
	RateLimit    float64  `mapstructure:"rate_limit" validate:"required,gt=0"`
}

// SentimentConfig represents the sentiment scoring service configuration
type SentimentConfig struct {
	ScoringURL            string `mapstructure:"scoring_url" validate:"required,url"`
	RequestTimeoutSeconds int    `mapstructure:"request_timeout_seconds" validate:"required,gt=0"`
	CacheTTLSeconds       int    `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
	CacheMaxSize          int    `mapstructure:"cache_max_size" validate:"required,gt=0"`
}

// ModelConfig represents classifier training configuration
type ModelConfig struct {
	HiddenUnits  int     `mapstructure:"hidden_units" validate:"required,gt=0"`
	Epochs       int     `mapstructure:"epochs" validate:"required,gt=0"`
	LearningRate float64 `mapstructure:"learning_rate" validate:"required,gt=0"`
	Seed         int64   `mapstructure:"seed"`
}

// BacktestConfig represents walk-forward backtesting configuration
type BacktestConfig struct {
	StartOffset       int     `mapstructure:"start_offset" validate:"required,gt=0"`
	StepSize          int     `mapstructure:"step_size" validate:"required,gt=0"`
	DecisionThreshold float64 `mapstructure:"decision_threshold" validate:"required,gt=0,lt=1"`
	TendencyDays      []int   `mapstructure:"tendency_days" validate:"required,min=1"`
	MinHistoryDate    string  `mapstructure:"min_history_date" validate:"required,datetime=2006-01-02"`
	OutputPath        string  `mapstructure:"output_path" validate:"required"`
	PersistEnabled    bool    `mapstructure:"persist_enabled"`
}

// ScheduleConfig represents scheduled ingestion configuration
type ScheduleConfig struct {
	BarSync                    string `mapstructure:"bar_sync" validate:"required"`
	LivePollingIntervalSeconds int    `mapstructure:"live_polling_interval_seconds" validate:"required,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
