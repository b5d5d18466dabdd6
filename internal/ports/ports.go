package ports

import (
	"context"
	"time"

	"insightiq/internal/collector"
	"insightiq/internal/domain"
)

// SignalSource pulls raw rows from all configured collectors. A failing
// collector contributes zero rows; the source never aborts the run for a
// single upstream failure.
type SignalSource interface {
	FetchWindow(ctx context.Context, now time.Time) ([]collector.Row, error)
}

// RecordWriter rewrites the cleaned record table each run.
type RecordWriter interface {
	Write(ctx context.Context, records []domain.Record) error
}

// RecordRepository persists cleaned records for the dashboard read path.
type RecordRepository interface {
	SaveRecords(ctx context.Context, records []domain.Record) error
}

// AlertLedger is the persisted set of already-dispatched alert
// fingerprints. Call order is Load, FilterNew, dispatch, Commit; Commit
// receives only the anomalies that were actually delivered, so a failed
// dispatch is retried on the next run.
type AlertLedger interface {
	Load(ctx context.Context) error
	FilterNew(anomalies []domain.Anomaly) []domain.Anomaly
	Commit(ctx context.Context, anomalies []domain.Anomaly) error
}

// Notifier delivers one alert message to the configured channel.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// Scheduler controls when pipeline runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
