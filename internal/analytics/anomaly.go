package analytics

import (
	"fmt"

	"insightiq/internal/domain"
)

// Default detection policy. These are tunable parameters, not fixed law;
// the defaults are the values the feed has been operated with.
const (
	DefaultVolumeRatio   = 1.5
	DefaultSentimentDrop = 0.2
	DefaultMinDays       = 7
)

// Detector flags days whose volume or sentiment deviates materially from
// the trailing baseline. Stateless; both conditions are checked
// independently, so a day can yield zero, one, or two anomalies.
type Detector struct {
	volumeRatio   float64
	sentimentDrop float64
	minDays       int
}

// NewDetector builds a detector; non-positive parameters fall back to the
// defaults.
func NewDetector(volumeRatio, sentimentDrop float64, minDays int) *Detector {
	if volumeRatio <= 0 {
		volumeRatio = DefaultVolumeRatio
	}
	if sentimentDrop <= 0 {
		sentimentDrop = DefaultSentimentDrop
	}
	if minDays <= 0 {
		minDays = DefaultMinDays
	}
	return &Detector{
		volumeRatio:   volumeRatio,
		sentimentDrop: sentimentDrop,
		minDays:       minDays,
	}
}

// Detect scans the trend series. Fewer than the minimum number of data
// points yields an empty result, not an error.
func (d *Detector) Detect(trends []domain.DailyTrend) []domain.Anomaly {
	if len(trends) < d.minDays {
		return nil
	}

	var anomalies []domain.Anomaly
	for _, t := range trends {
		day := t.Date.UTC().Format("2006-01-02")

		if float64(t.ItemCount) > d.volumeRatio*t.MovingAvgCount {
			anomalies = append(anomalies, domain.Anomaly{
				Kind:     domain.AnomalyVolumeSurge,
				Date:     t.Date,
				Observed: float64(t.ItemCount),
				Baseline: t.MovingAvgCount,
				Message: fmt.Sprintf("🚨 Keyword Surge Detected on %s | Count: %d (MA: %.1f)",
					day, t.ItemCount, t.MovingAvgCount),
			})
		}

		if t.MeanSentiment < t.MovingAvgSentiment-d.sentimentDrop {
			anomalies = append(anomalies, domain.Anomaly{
				Kind:     domain.AnomalySentimentDrop,
				Date:     t.Date,
				Observed: t.MeanSentiment,
				Baseline: t.MovingAvgSentiment,
				Message: fmt.Sprintf("⚠️ Sentiment Drop on %s | Score: %.2f (MA: %.2f)",
					day, t.MeanSentiment, t.MovingAvgSentiment),
			})
		}
	}

	return anomalies
}
