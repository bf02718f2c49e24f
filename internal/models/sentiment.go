package models

import "time"

// Neutral sentiment defaults used when no news data is available for a date
const (
	NeutralPositive = 0.33
	NeutralNegative = 0.33
	NeutralNeutral  = 0.34
)

// SentimentScore holds the probability triple returned by sentiment analysis.
// Positive, Negative and Neutral are each in [0,1] and sum to 1.
// ResolvedDate is nil when the score is the neutral default.
type SentimentScore struct {
	Positive     float64    `json:"positive"`
	Negative     float64    `json:"negative"`
	Neutral      float64    `json:"neutral"`
	ResolvedDate *time.Time `json:"resolved_date,omitempty"`
	ArticleCount int        `json:"article_count"`
}

// NeutralSentiment returns the placeholder score used when no data exists
func NeutralSentiment() SentimentScore {
	return SentimentScore{
		Positive: NeutralPositive,
		Negative: NeutralNegative,
		Neutral:  NeutralNeutral,
	}
}

// HasData reports whether the score came from real articles rather than
// the neutral default. A zero positive score signals "no data".
func (s SentimentScore) HasData() bool {
	return s.Positive > 0 && s.ResolvedDate != nil
}
