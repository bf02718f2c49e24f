package marketdata

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/stockcast/internal/metrics"
	"github.com/yourusername/stockcast/internal/models"
)

const chartSourceName = "chart_api"

// ChartClient implements BarSource against a Yahoo-style v8 chart endpoint
type ChartClient struct {
	httpClient *RateLimitedHTTPClient
	baseURL    string
	enabled    bool
	logger     *logrus.Logger
}

// chartResponse mirrors the chart API JSON envelope
type chartResponse struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []*float64 `json:"open"`
					High   []*float64 `json:"high"`
					Low    []*float64 `json:"low"`
					Close  []*float64 `json:"close"`
					Volume []*int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// NewChartClient creates a new chart API client
func NewChartClient(httpClient *RateLimitedHTTPClient, baseURL string, enabled bool, logger *logrus.Logger) *ChartClient {
	if logger == nil {
		logger = logrus.New()
	}
	return &ChartClient{
		httpClient: httpClient,
		baseURL:    baseURL,
		enabled:    enabled,
		logger:     logger,
	}
}

// Name returns the data source name
func (c *ChartClient) Name() string {
	return chartSourceName
}

// IsEnabled returns whether this data source is currently enabled
func (c *ChartClient) IsEnabled() bool {
	return c.enabled
}

// fail counts the provider failure and wraps it in a typed source error
func (c *ChartClient) fail(code, message string, err error) error {
	metrics.RecordMarketDataError(chartSourceName, code)
	return NewSourceError(chartSourceName, code, message, err)
}

// FetchDailyBars retrieves daily OHLCV bars for a symbol over the given period
func (c *ChartClient) FetchDailyBars(ctx context.Context, symbol, period string) ([]models.Bar, error) {
	if !c.enabled {
		return nil, NewSourceError(chartSourceName, ErrCodeNetworkError, "data source is disabled", nil)
	}
	if symbol == "" {
		return nil, NewSourceError(chartSourceName, ErrCodeInvalidData, "symbol is required", models.ErrSymbolRequired)
	}
	if period == "" {
		period = "max"
	}

	url := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=%s", c.baseURL, symbol, period)

	resp, err := c.httpClient.Get(ctx, url)
	if err != nil {
		return nil, c.fail(ErrCodeNetworkError, "request failed", err)
	}
	defer drainAndClose(resp.Body)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, c.fail(ErrCodeNotFound, fmt.Sprintf("no data for symbol %s", symbol), ErrNotFound)
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, c.fail(ErrCodeRateLimitExceeded, "rate limited by provider", ErrRateLimitExceeded)
	case resp.StatusCode >= 500:
		return nil, c.fail(ErrCodeServerError, fmt.Sprintf("provider returned %d", resp.StatusCode), ErrServerError)
	case resp.StatusCode != http.StatusOK:
		return nil, c.fail(ErrCodeNetworkError, fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	var payload chartResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, c.fail(ErrCodeInvalidData, "failed to decode chart response", err)
	}
	if payload.Chart.Error != nil {
		return nil, c.fail(ErrCodeInvalidData, payload.Chart.Error.Description, ErrInvalidData)
	}
	if len(payload.Chart.Result) == 0 || len(payload.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, c.fail(ErrCodeNotFound, fmt.Sprintf("empty result for symbol %s", symbol), ErrNotFound)
	}

	result := payload.Chart.Result[0]
	quote := result.Indicators.Quote[0]
	bars := make([]models.Bar, 0, len(result.Timestamp))
	now := time.Now().UTC()

	for i, ts := range result.Timestamp {
		// Providers emit null entries for halted or partial sessions, and
		// truncated quote arrays shorter than the timestamp list; skip both
		if i >= len(quote.Open) || i >= len(quote.High) || i >= len(quote.Low) || i >= len(quote.Close) {
			continue
		}
		if quote.Close[i] == nil || quote.Open[i] == nil || quote.High[i] == nil || quote.Low[i] == nil {
			continue
		}
		var volume int64
		if i < len(quote.Volume) && quote.Volume[i] != nil {
			volume = *quote.Volume[i]
		}
		bars = append(bars, models.Bar{
			Symbol:    symbol,
			Date:      time.Unix(ts, 0).UTC(),
			Open:      decimal.NewFromFloat(*quote.Open[i]),
			High:      decimal.NewFromFloat(*quote.High[i]),
			Low:       decimal.NewFromFloat(*quote.Low[i]),
			Close:     decimal.NewFromFloat(*quote.Close[i]),
			Volume:    volume,
			CreatedAt: now,
		})
	}

	if len(bars) == 0 {
		return nil, c.fail(ErrCodeNotFound, fmt.Sprintf("no usable bars for symbol %s", symbol), ErrNotFound)
	}

	c.logger.WithFields(logrus.Fields{
		"symbol": symbol,
		"period": period,
		"bars":   len(bars),
	}).Debug("Fetched daily bars")

	return bars, nil
}
