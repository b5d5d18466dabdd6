package domain

import "time"

// DailyTrend aggregates all records published on one UTC calendar day.
// Moving averages are trailing simple means over the detector window,
// using however many days are available at the start of the series.
type DailyTrend struct {
	Date               time.Time
	ItemCount          int
	MeanSentiment      float64
	MovingAvgCount     float64
	MovingAvgSentiment float64
}
