package analytics

import (
	"sort"
	"time"

	"insightiq/internal/domain"
)

// DefaultWindow is the trailing moving-average window in days.
const DefaultWindow = 7

// Aggregator rolls records into one trend point per UTC calendar day.
type Aggregator struct {
	window int
}

// NewAggregator builds an aggregator; a non-positive window falls back to
// the default.
func NewAggregator(window int) *Aggregator {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Aggregator{window: window}
}

// Aggregate groups records by publication day and computes per-day volume
// and mean sentiment plus trailing moving averages. Early days average
// over however many days exist so the start of the series is defined
// rather than missing. The second return value is true when the series
// spans fewer distinct days than the window, signalling low-confidence
// output; the series is still produced.
func (a *Aggregator) Aggregate(records []domain.Record) ([]domain.DailyTrend, bool) {
	type bucket struct {
		count int
		sum   float64
	}

	buckets := make(map[time.Time]*bucket)
	for _, rec := range records {
		day := rec.Day()
		b, ok := buckets[day]
		if !ok {
			b = &bucket{}
			buckets[day] = b
		}
		b.count++
		b.sum += rec.SentimentScore
	}

	days := make([]time.Time, 0, len(buckets))
	for day := range buckets {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	trends := make([]domain.DailyTrend, 0, len(days))
	for _, day := range days {
		b := buckets[day]
		trends = append(trends, domain.DailyTrend{
			Date:          day,
			ItemCount:     b.count,
			MeanSentiment: b.sum / float64(b.count),
		})
	}

	for i := range trends {
		start := i - a.window + 1
		if start < 0 {
			start = 0
		}
		var countSum, sentimentSum float64
		for j := start; j <= i; j++ {
			countSum += float64(trends[j].ItemCount)
			sentimentSum += trends[j].MeanSentiment
		}
		span := float64(i - start + 1)
		trends[i].MovingAvgCount = countSum / span
		trends[i].MovingAvgSentiment = sentimentSum / span
	}

	return trends, len(trends) < a.window
}
