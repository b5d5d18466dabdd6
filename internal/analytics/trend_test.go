package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insightiq/internal/domain"
)

func day(n int) time.Time {
	return time.Date(2025, 6, n, 0, 0, 0, 0, time.UTC)
}

// recordsFor builds count records on the given day, each carrying the
// same sentiment score.
func recordsFor(n, count int, sentiment float64) []domain.Record {
	out := make([]domain.Record, count)
	for i := range out {
		out[i] = domain.Record{
			PublishedAt:    day(n).Add(time.Duration(i) * time.Minute),
			SentimentScore: sentiment,
		}
	}
	return out
}

func TestAggregateGroupsByUTCDay(t *testing.T) {
	t.Parallel()

	records := []domain.Record{
		{PublishedAt: time.Date(2025, 6, 1, 23, 59, 0, 0, time.UTC), SentimentScore: 0.4},
		{PublishedAt: time.Date(2025, 6, 2, 0, 1, 0, 0, time.UTC), SentimentScore: -0.4},
	}

	trends, lowConfidence := NewAggregator(7).Aggregate(records)

	require.Len(t, trends, 2)
	assert.True(t, lowConfidence)
	assert.Equal(t, day(1), trends[0].Date)
	assert.Equal(t, 1, trends[0].ItemCount)
	assert.InDelta(t, 0.4, trends[0].MeanSentiment, 1e-9)
	assert.Equal(t, day(2), trends[1].Date)
}

func TestAggregateMovingAverageShortSeries(t *testing.T) {
	t.Parallel()

	// min_periods=1 semantics: the early averages use however many days
	// exist, so the start of the series is defined.
	var records []domain.Record
	records = append(records, recordsFor(1, 1, 0.3)...)
	records = append(records, recordsFor(2, 2, 0.6)...)
	records = append(records, recordsFor(3, 3, 0.9)...)

	trends, lowConfidence := NewAggregator(7).Aggregate(records)

	require.Len(t, trends, 3)
	assert.True(t, lowConfidence)

	assert.InDelta(t, 1.0, trends[0].MovingAvgCount, 1e-9)
	assert.InDelta(t, 1.5, trends[1].MovingAvgCount, 1e-9)
	assert.InDelta(t, 2.0, trends[2].MovingAvgCount, 1e-9)

	assert.InDelta(t, 0.3, trends[0].MovingAvgSentiment, 1e-9)
	assert.InDelta(t, 0.45, trends[1].MovingAvgSentiment, 1e-9)
	assert.InDelta(t, 0.6, trends[2].MovingAvgSentiment, 1e-9)
}

func TestAggregateTrailingWindow(t *testing.T) {
	t.Parallel()

	var records []domain.Record
	for n := 1; n <= 9; n++ {
		records = append(records, recordsFor(n, n, 0)...)
	}

	trends, lowConfidence := NewAggregator(7).Aggregate(records)

	require.Len(t, trends, 9)
	assert.False(t, lowConfidence)

	// Day 9 averages days 3..9 only.
	assert.InDelta(t, 6.0, trends[8].MovingAvgCount, 1e-9)
	// Day 7 averages days 1..7.
	assert.InDelta(t, 4.0, trends[6].MovingAvgCount, 1e-9)
}

func TestAggregateEmptyInput(t *testing.T) {
	t.Parallel()

	trends, lowConfidence := NewAggregator(7).Aggregate(nil)
	assert.Empty(t, trends)
	assert.True(t, lowConfidence)
}
