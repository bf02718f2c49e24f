package sentiment

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/stockcast/internal/config"
	"github.com/yourusername/stockcast/internal/dataset"
	"github.com/yourusername/stockcast/internal/metrics"
	"github.com/yourusername/stockcast/internal/models"
)

// ArticleSource provides news articles for a symbol over a date range
type ArticleSource interface {
	FetchPeriod(ctx context.Context, symbol, name string, from, to time.Time) ([]Article, error)
}

// Service resolves news sentiment as of a given day. A cache miss fetches
// the full lookback window in one request, scores every article, and
// caches one score per day so neighboring lookups hit the cache.
type Service struct {
	source       ArticleSource
	scorer       Scorer
	cache        *ScoreCache
	lookbackDays int
	logger       *logrus.Logger
}

// NewService creates a new sentiment service
func NewService(source ArticleSource, scorer Scorer, cfg *config.SentimentConfig, lookbackDays int, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.New()
	}
	return &Service{
		source:       source,
		scorer:       scorer,
		cache:        NewScoreCache(time.Duration(cfg.CacheTTLSeconds)*time.Second, cfg.CacheMaxSize),
		lookbackDays: lookbackDays,
		logger:       logger,
	}
}

// Lookup returns the aggregated sentiment for articles published on the
// asOf day. Days with no coverage resolve to the neutral default.
func (s *Service) Lookup(ctx context.Context, symbol, name string, asOf time.Time) (models.SentimentScore, error) {
	if symbol == "" {
		return models.NeutralSentiment(), models.ErrSymbolRequired
	}

	started := time.Now()
	defer func() {
		metrics.OracleLookupDuration.Observe(time.Since(started).Seconds())
		_, _, ratio := s.cache.Stats()
		metrics.SentimentCacheHitRatio.Set(ratio)
	}()

	day := dataset.NormalizeDay(asOf)
	key := CacheKey{Symbol: symbol, AsOf: day}
	if score, found := s.cache.Get(key); found {
		return score, nil
	}

	if err := s.fillWindow(ctx, symbol, name, day); err != nil {
		return models.NeutralSentiment(), err
	}

	score, found := s.cache.Get(key)
	if !found {
		score = models.NeutralSentiment()
	}
	return score, nil
}

// Clear drops every cached score
func (s *Service) Clear() {
	s.cache.Clear()
}

// CacheStats exposes hit/miss counters from the underlying cache
func (s *Service) CacheStats() (hits, misses uint64, ratio float64) {
	return s.cache.Stats()
}

// fillWindow fetches and scores the lookback window ending on day, then
// caches a score for every day so the whole window is resolved at once
func (s *Service) fillWindow(ctx context.Context, symbol, name string, day time.Time) error {
	from := day.AddDate(0, 0, -(s.lookbackDays - 1))
	articles, err := s.source.FetchPeriod(ctx, symbol, name, from, day)
	if err != nil {
		return fmt.Errorf("news fetch for %s: %w", symbol, err)
	}

	scored := make([]ScoredArticle, 0, len(articles))
	failures := 0
	for _, article := range articles {
		result, err := s.scorer.Score(ctx, article)
		if err != nil {
			failures++
			s.logger.WithFields(logrus.Fields{
				"symbol": symbol,
				"title":  article.Title,
				"error":  err.Error(),
			}).Warn("Failed to score article")
			continue
		}
		scored = append(scored, result)
	}
	if len(articles) > 0 && len(scored) == 0 {
		return fmt.Errorf("scoring %d articles for %s: %w", len(articles), symbol, ErrScoringUnavailable)
	}

	byDate := AggregateByDate(scored)
	for d := from; !d.After(day); d = d.AddDate(0, 0, 1) {
		score, ok := byDate[d]
		if !ok {
			score = models.NeutralSentiment()
		}
		s.cache.Set(CacheKey{Symbol: symbol, AsOf: d}, score)
	}

	s.logger.WithFields(logrus.Fields{
		"symbol":             symbol,
		"from":               from.Format("2006-01-02"),
		"to":                 day.Format("2006-01-02"),
		"articles":           len(articles),
		"scored":             len(scored),
		"score_failures":     failures,
		"days_with_coverage": len(byDate),
	}).Info("Resolved sentiment window")

	return nil
}
