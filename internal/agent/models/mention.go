package models

import "time"

// Sentiment is the classified tone of a mention.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// Mention is a recorded occurrence of a tracked keyword in an external
// source. Excerpt may contain markup and URL is attacker-controlled; both
// must pass through the sanitize package before rendering.
type Mention struct {
	ID          string    `json:"id"`
	Keyword     string    `json:"keyword"`
	Source      string    `json:"source"`
	URL         string    `json:"url"`
	Excerpt     string    `json:"excerpt"`
	Sentiment   Sentiment `json:"sentiment"`
	Topics      []string  `json:"topics,omitempty"`
	PublishedAt time.Time `json:"publishedAt"`
}
