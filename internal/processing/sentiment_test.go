package processing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"insightiq/internal/domain"
)

func TestLabelThresholdBoundaries(t *testing.T) {
	t.Parallel()

	assert.Equal(t, domain.LabelNeutral, domain.LabelFor(0.2))
	assert.Equal(t, domain.LabelPositive, domain.LabelFor(0.20001))
	assert.Equal(t, domain.LabelNeutral, domain.LabelFor(-0.2))
	assert.Equal(t, domain.LabelNegative, domain.LabelFor(-0.20001))
	assert.Equal(t, domain.LabelNeutral, domain.LabelFor(0))
}

func TestAnnotateUpstreamScorePassesThrough(t *testing.T) {
	t.Parallel()

	upstream := 0.9
	a := NewAnnotator()
	rec, outcome := a.Annotate(domain.Record{
		Clean:             "this text would not score 0.9 on its own",
		UpstreamSentiment: &upstream,
	})

	assert.Equal(t, OutcomeComputed, outcome)
	assert.Equal(t, 0.9, rec.SentimentScore)
	assert.Equal(t, domain.LabelPositive, rec.Sentiment)
}

func TestAnnotateUpstreamScoreClamped(t *testing.T) {
	t.Parallel()

	upstream := 1.7
	a := NewAnnotator()
	rec, _ := a.Annotate(domain.Record{UpstreamSentiment: &upstream})

	assert.Equal(t, 1.0, rec.SentimentScore)
}

func TestAnnotateEmptyTextDefaultsNeutral(t *testing.T) {
	t.Parallel()

	a := NewAnnotator()
	rec, outcome := a.Annotate(domain.Record{})

	assert.Equal(t, OutcomeDefaulted, outcome)
	assert.Zero(t, rec.SentimentScore)
	assert.Equal(t, domain.LabelNeutral, rec.Sentiment)
}

func TestAnnotateScoresText(t *testing.T) {
	t.Parallel()

	a := NewAnnotator()

	positive, outcome := a.Annotate(domain.Record{
		Clean: "This release is excellent, a wonderful and amazing improvement.",
	})
	assert.Equal(t, OutcomeComputed, outcome)
	assert.Greater(t, positive.SentimentScore, 0.2)
	assert.Equal(t, domain.LabelPositive, positive.Sentiment)

	negative, _ := a.Annotate(domain.Record{
		Clean: "A terrible, horrible failure and an awful disaster.",
	})
	assert.Less(t, negative.SentimentScore, -0.2)
	assert.Equal(t, domain.LabelNegative, negative.Sentiment)

	assert.GreaterOrEqual(t, positive.SentimentScore, -1.0)
	assert.LessOrEqual(t, positive.SentimentScore, 1.0)
}

func TestAnnotateFallsBackToTitleAndText(t *testing.T) {
	t.Parallel()

	// Records that skipped the cleaner still get scored.
	a := NewAnnotator()
	rec, outcome := a.Annotate(domain.Record{Title: "great news", Text: "everyone is happy"})

	assert.Equal(t, OutcomeComputed, outcome)
	assert.NotZero(t, rec.SentimentScore)
}
