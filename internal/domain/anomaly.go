package domain

import (
	"fmt"
	"time"
)

// AnomalyKind identifies the deviation a detector flagged.
type AnomalyKind string

const (
	AnomalyVolumeSurge   AnomalyKind = "volume_surge"
	AnomalySentimentDrop AnomalyKind = "sentiment_drop"
)

// Anomaly is a detected deviation from the trailing baseline.
type Anomaly struct {
	Kind     AnomalyKind
	Date     time.Time
	Observed float64
	Baseline float64
	Message  string
}

// Fingerprint returns the deterministic key used to deduplicate alerts
// across runs. Values are rounded to two decimals so re-running on the
// same data reproduces identical fingerprints even when floating-point
// noise differs below that precision.
func (a Anomaly) Fingerprint() string {
	return fmt.Sprintf("%s|%s|%.2f|%.2f",
		a.Kind, a.Date.UTC().Format("2006-01-02"), a.Observed, a.Baseline)
}
