// Package sentiment provides news-based sentiment lookup for a symbol as of
// a given date, backed by a bulk news fetch, an external scoring service and
// an in-memory cache.
package sentiment

import "errors"

// Custom errors
var (
	ErrNewsUnavailable    = errors.New("news api unavailable")
	ErrScoringUnavailable = errors.New("scoring service unavailable")
	ErrInvalidResponse    = errors.New("invalid response from scoring service")
	ErrNoArticles         = errors.New("no articles returned")
)
