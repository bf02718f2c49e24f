package sentiment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/stockcast/internal/config"
)

// ScoredArticle carries an article's sentiment distribution and model confidence
type ScoredArticle struct {
	Article    Article
	Positive   float64
	Negative   float64
	Neutral    float64
	Label      string
	Confidence float64
}

// Scorer assigns a sentiment distribution to a single article
type Scorer interface {
	Score(ctx context.Context, article Article) (ScoredArticle, error)
	HealthCheck(ctx context.Context) error
}

// HTTPScorer scores articles against an external scoring service
type HTTPScorer struct {
	client  *http.Client
	baseURL string
	logger  *logrus.Logger
}

// NewHTTPScorer creates a new scoring service client
func NewHTTPScorer(cfg *config.SentimentConfig, logger *logrus.Logger) *HTTPScorer {
	return &HTTPScorer{
		client: &http.Client{
			Timeout: time.Duration(cfg.RequestTimeoutSeconds) * time.Second,
		},
		baseURL: cfg.ScoringURL,
		logger:  logger,
	}
}

// scoreRequest represents the scoring request payload
type scoreRequest struct {
	Text string `json:"text"`
}

// scoreResponse represents the scoring service response
type scoreResponse struct {
	Positive   float64 `json:"positive"`
	Negative   float64 `json:"negative"`
	Neutral    float64 `json:"neutral"`
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Score sends the article text to the scoring service
func (s *HTTPScorer) Score(ctx context.Context, article Article) (ScoredArticle, error) {
	start := time.Now()

	text := article.Title + ". " + article.Content
	jsonData, err := json.Marshal(scoreRequest{Text: text})
	if err != nil {
		return ScoredArticle{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL+"/api/v1/sentiment/score", bytes.NewBuffer(jsonData))
	if err != nil {
		return ScoredArticle{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return ScoredArticle{}, fmt.Errorf("%w: %v", ErrScoringUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return ScoredArticle{}, fmt.Errorf("%w: status %d: %s", ErrScoringUnavailable, resp.StatusCode, string(body))
	}

	var scored scoreResponse
	if err := json.NewDecoder(resp.Body).Decode(&scored); err != nil {
		return ScoredArticle{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	if scored.Positive < 0 || scored.Negative < 0 || scored.Neutral < 0 {
		return ScoredArticle{}, fmt.Errorf("%w: negative probability", ErrInvalidResponse)
	}

	s.logger.WithFields(logrus.Fields{
		"label":    scored.Label,
		"duration": time.Since(start),
	}).Debug("Article scored")

	return ScoredArticle{
		Article:    article,
		Positive:   scored.Positive,
		Negative:   scored.Negative,
		Neutral:    scored.Neutral,
		Label:      scored.Label,
		Confidence: scored.Confidence,
	}, nil
}

// HealthCheck checks scoring service health
func (s *HTTPScorer) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", s.baseURL+"/health", nil)
	if err != nil {
		return err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrScoringUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrScoringUnavailable, resp.StatusCode)
	}

	return nil
}
