package sentiment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/stockcast/internal/config"
)

func newTestScorer(t *testing.T, handler http.HandlerFunc) (*HTTPScorer, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	scorer := NewHTTPScorer(&config.SentimentConfig{
		ScoringURL:            server.URL,
		RequestTimeoutSeconds: 2,
		CacheTTLSeconds:       60,
		CacheMaxSize:          100,
	}, logger)
	return scorer, server
}

func TestHTTPScorer_Score(t *testing.T) {
	var gotPath string
	var gotBody scoreRequest
	scorer, _ := newTestScorer(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(scoreResponse{
			Positive:   0.82,
			Negative:   0.06,
			Neutral:    0.12,
			Label:      "positive",
			Confidence: 0.82,
		})
	})

	article := Article{
		Title:       "Revenue climbs",
		Content:     "The company reported record revenue.",
		PublishedAt: time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC),
	}
	scored, err := scorer.Score(context.Background(), article)
	require.NoError(t, err)

	assert.Equal(t, "/api/v1/sentiment/score", gotPath)
	assert.Contains(t, gotBody.Text, "Revenue climbs")
	assert.Contains(t, gotBody.Text, "record revenue")
	assert.InDelta(t, 0.82, scored.Positive, 1e-9)
	assert.Equal(t, "positive", scored.Label)
	assert.Equal(t, article, scored.Article)
}

func TestHTTPScorer_ServerError(t *testing.T) {
	scorer, _ := newTestScorer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := scorer.Score(context.Background(), Article{Title: "x", Content: "y"})
	assert.True(t, errors.Is(err, ErrScoringUnavailable))
}

func TestHTTPScorer_MalformedResponse(t *testing.T) {
	scorer, _ := newTestScorer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	})

	_, err := scorer.Score(context.Background(), Article{Title: "x", Content: "y"})
	assert.True(t, errors.Is(err, ErrInvalidResponse))
}

func TestHTTPScorer_NegativeProbabilityRejected(t *testing.T) {
	scorer, _ := newTestScorer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(scoreResponse{Positive: -0.1, Negative: 0.5, Neutral: 0.6})
	})

	_, err := scorer.Score(context.Background(), Article{Title: "x", Content: "y"})
	assert.True(t, errors.Is(err, ErrInvalidResponse))
}

func TestHTTPScorer_HealthCheck(t *testing.T) {
	scorer, _ := newTestScorer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	})

	assert.NoError(t, scorer.HealthCheck(context.Background()))
}
