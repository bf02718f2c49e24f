package sentiment

import (
	"time"

	"github.com/yourusername/stockcast/internal/dataset"
	"github.com/yourusername/stockcast/internal/models"
)

// AggregateByDate collapses scored articles into one sentiment score per
// publication day, weighting each article by model confidence. Articles
// with a non-positive confidence count with weight 1.
func AggregateByDate(articles []ScoredArticle) map[time.Time]models.SentimentScore {
	type accumulator struct {
		positive float64
		negative float64
		neutral  float64
		weight   float64
		count    int
	}

	buckets := make(map[time.Time]*accumulator)
	for _, scored := range articles {
		day := dataset.NormalizeDay(scored.Article.PublishedAt)
		acc, ok := buckets[day]
		if !ok {
			acc = &accumulator{}
			buckets[day] = acc
		}
		weight := scored.Confidence
		if weight <= 0 {
			weight = 1
		}
		acc.positive += scored.Positive * weight
		acc.negative += scored.Negative * weight
		acc.neutral += scored.Neutral * weight
		acc.weight += weight
		acc.count++
	}

	scores := make(map[time.Time]models.SentimentScore, len(buckets))
	for day, acc := range buckets {
		resolved := day
		scores[day] = models.SentimentScore{
			Positive:     acc.positive / acc.weight,
			Negative:     acc.negative / acc.weight,
			Neutral:      acc.neutral / acc.weight,
			ResolvedDate: &resolved,
			ArticleCount: acc.count,
		}
	}
	return scores
}
