package domain

import "time"

// Well-known source tags. Market-feed records may carry a per-symbol
// variant such as "Finnhub-NVDA"; downstream code treats the tag as opaque.
const (
	SourceGNews        = "GNews"
	SourceReddit       = "Reddit"
	SourceHackerNews   = "HackerNews"
	SourceArxiv        = "arXiv"
	SourceTwitter      = "Twitter"
	SourceFinnhub      = "Finnhub"
	SourceAlphaVantage = "AlphaVantage"
)

// Label classifies a sentiment score into a display bucket.
type Label string

const (
	LabelPositive Label = "positive"
	LabelNeutral  Label = "neutral"
	LabelNegative Label = "negative"
)

// Sentiment label thresholds. A score exactly on a boundary is neutral.
const (
	positiveThreshold = 0.2
	negativeThreshold = -0.2
)

// LabelFor maps a sentiment score in [-1, 1] to its label.
func LabelFor(score float64) Label {
	switch {
	case score > positiveThreshold:
		return LabelPositive
	case score < negativeThreshold:
		return LabelNegative
	default:
		return LabelNeutral
	}
}

// Record is one normalized ingested item (article, post, paper).
type Record struct {
	Source      string
	Title       string
	Text        string
	Clean       string
	URL         string
	Author      string
	PublishedAt time.Time

	// Score is the source-native engagement number (upvotes, likes).
	// Semantics vary by source; never compared across sources.
	Score *float64

	// UpstreamSentiment carries a pre-computed score provided by the
	// source itself (e.g. AlphaVantage); the annotator prefers it over
	// recomputing.
	UpstreamSentiment *float64

	SentimentScore float64
	Sentiment      Label

	// Raw retains the source payload for audit, never interpreted.
	Raw map[string]any
}

// Day returns the UTC calendar day the record was published on.
func (r Record) Day() time.Time {
	return r.PublishedAt.UTC().Truncate(24 * time.Hour)
}
