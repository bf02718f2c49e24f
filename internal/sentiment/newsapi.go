package sentiment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/yourusername/stockcast/internal/config"
)

// financialTerms narrow the news query to finance coverage
var financialTerms = []string{"stock", "earnings", "revenue", "shares", "financial"}

// Article represents one news article returned by the news API
type Article struct {
	Source      string    `json:"source"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	PublishedAt time.Time `json:"published_at"`
}

// NewsClient fetches articles from a NewsAPI-style /everything endpoint
type NewsClient struct {
	client  *retryablehttp.Client
	limiter *rate.Limiter
	baseURL string
	apiKey  string
	cfg     config.NewsConfig
	logger  *logrus.Logger
}

// newsEnvelope mirrors the news API response
type newsEnvelope struct {
	Status       string `json:"status"`
	TotalResults int    `json:"totalResults"`
	Articles     []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Content     string `json:"content"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

// NewNewsClient creates a news API client
func NewNewsClient(cfg config.NewsConfig, logger *logrus.Logger) *NewsClient {
	if logger == nil {
		logger = logrus.New()
	}
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 3
	retryClient.Logger = nil

	return &NewsClient{
		client:  retryClient,
		limiter: rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		cfg:     cfg,
		logger:  logger,
	}
}

// FetchPeriod fetches every article about a symbol published in [from, to]
func (c *NewsClient) FetchPeriod(ctx context.Context, symbol, name string, from, to time.Time) ([]Article, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	endpoint := fmt.Sprintf("%s/everything?%s", c.baseURL, c.buildQuery(symbol, name, from, to))
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNewsUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrNewsUnavailable, resp.StatusCode)
	}

	var envelope newsEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("failed to decode news response: %w", err)
	}

	articles := make([]Article, 0, len(envelope.Articles))
	for _, raw := range envelope.Articles {
		published, err := time.Parse(time.RFC3339, raw.PublishedAt)
		if err != nil {
			continue
		}
		content := raw.Content
		if content == "" {
			content = raw.Description
		}
		if len(strings.TrimSpace(content)) <= 10 {
			continue
		}
		articles = append(articles, Article{
			Source:      raw.Source.Name,
			Title:       raw.Title,
			Content:     content,
			PublishedAt: published,
		})
	}

	c.logger.WithFields(logrus.Fields{
		"symbol":   symbol,
		"from":     from.Format("2006-01-02"),
		"to":       to.Format("2006-01-02"),
		"returned": len(envelope.Articles),
		"usable":   len(articles),
	}).Debug("Fetched news articles")

	return articles, nil
}

// buildQuery constructs the search query string for the news API
func (c *NewsClient) buildQuery(symbol, name string, from, to time.Time) string {
	var subject string
	if name != "" {
		subject = fmt.Sprintf("(%q OR %q)", symbol, name)
	} else {
		subject = fmt.Sprintf("%q", symbol)
	}
	search := fmt.Sprintf("%s AND (%s)", subject, strings.Join(financialTerms, " OR "))

	params := url.Values{}
	params.Set("q", search)
	params.Set("apiKey", c.apiKey)
	params.Set("language", c.cfg.Language)
	params.Set("from", from.Format("2006-01-02"))
	params.Set("to", to.Format("2006-01-02"))
	params.Set("domains", strings.Join(c.cfg.Domains, ","))
	params.Set("sortBy", "relevancy")
	params.Set("pageSize", fmt.Sprintf("%d", c.cfg.PageSize))
	return params.Encode()
}
