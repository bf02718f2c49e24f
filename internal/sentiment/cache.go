package sentiment

import (
	"fmt"
	"sync"
	"time"

	cache "github.com/patrickmn/go-cache"

	"github.com/yourusername/stockcast/internal/models"
)

// CacheKey represents a unique key for caching sentiment lookups
type CacheKey struct {
	Symbol string
	AsOf   time.Time
}

// String returns string representation of cache key
func (k CacheKey) String() string {
	return fmt.Sprintf("%s:%s", k.Symbol, k.AsOf.Format("2006-01-02"))
}

// ScoreCache provides in-memory caching for per-day sentiment scores
type ScoreCache struct {
	cache     *cache.Cache
	ttl       time.Duration
	maxSize   int
	mu        sync.Mutex
	hitCount  uint64
	missCount uint64
}

// NewScoreCache creates a new sentiment score cache
func NewScoreCache(ttl time.Duration, maxSize int) *ScoreCache {
	return &ScoreCache{
		cache:   cache.New(ttl, ttl*2),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Get retrieves a cached score
func (sc *ScoreCache) Get(key CacheKey) (models.SentimentScore, bool) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if result, found := sc.cache.Get(key.String()); found {
		if score, ok := result.(models.SentimentScore); ok {
			sc.hitCount++
			return score, true
		}
	}

	sc.missCount++
	return models.SentimentScore{}, false
}

// Set stores a score in cache
func (sc *ScoreCache) Set(key CacheKey, score models.SentimentScore) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.cache.ItemCount() >= sc.maxSize {
		sc.cache.DeleteExpired()
	}

	sc.cache.Set(key.String(), score, sc.ttl)
}

// InvalidateSymbol removes all cache entries for a symbol
func (sc *ScoreCache) InvalidateSymbol(symbol string) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	prefix := symbol + ":"
	for k := range sc.cache.Items() {
		if len(k) > len(prefix) && k[:len(prefix)] == prefix {
			sc.cache.Delete(k)
		}
	}
}

// Clear flushes the entire cache
func (sc *ScoreCache) Clear() {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	sc.cache.Flush()
	sc.hitCount = 0
	sc.missCount = 0
}

// Stats returns cache statistics
func (sc *ScoreCache) Stats() (hits, misses uint64, ratio float64) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	hits = sc.hitCount
	misses = sc.missCount
	total := hits + misses
	if total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// ItemCount returns the number of items in cache
func (sc *ScoreCache) ItemCount() int {
	return sc.cache.ItemCount()
}
