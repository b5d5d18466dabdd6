package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"insightiq/internal/analytics"
	"insightiq/internal/domain"
	"insightiq/internal/ports"
	"insightiq/internal/processing"
)

// PipelineDeps wires all stages and driven adapters into the
// orchestration pipeline. Repository and Notifier are optional; a nil
// notifier disables dispatch (and therefore ledger commits) entirely.
type PipelineDeps struct {
	Source     ports.SignalSource
	Normalizer *processing.Normalizer
	Filter     *processing.KeywordFilter
	Annotator  *processing.Annotator
	Trends     *analytics.Aggregator
	Detector   *analytics.Detector
	Writer     ports.RecordWriter
	Repository ports.RecordRepository
	Ledger     ports.AlertLedger
	Notifier   ports.Notifier
	Logger     *slog.Logger
}

// Pipeline implements one end-to-end collection, aggregation, and
// alerting run. It owns the record collection for the duration of a run;
// the ledger is the only state that outlives it.
type Pipeline struct {
	source     ports.SignalSource
	normalizer *processing.Normalizer
	filter     *processing.KeywordFilter
	annotator  *processing.Annotator
	trends     *analytics.Aggregator
	detector   *analytics.Detector
	writer     ports.RecordWriter
	repository ports.RecordRepository
	ledger     ports.AlertLedger
	notifier   ports.Notifier
	logger     *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		source:     deps.Source,
		normalizer: deps.Normalizer,
		filter:     deps.Filter,
		annotator:  deps.Annotator,
		trends:     deps.Trends,
		detector:   deps.Detector,
		writer:     deps.Writer,
		repository: deps.Repository,
		ledger:     deps.Ledger,
		notifier:   deps.Notifier,
		logger:     logger,
	}
}

// Run executes one batch cycle: collect, normalize, clean, filter, dedup,
// annotate, persist, aggregate, detect, and dispatch new alerts. An
// empty collection result is a valid terminal state, not an error; the
// only errors surfaced are persistence failures and cancellation.
func (p *Pipeline) Run(ctx context.Context, now time.Time) error {
	log := p.logger.With("run_id", uuid.NewString())
	started := time.Now()

	rows, err := p.source.FetchWindow(ctx, now)
	if err != nil {
		return fmt.Errorf("fetch window: %w", err)
	}
	log.Info("collection finished", "rows", len(rows))

	records := make([]domain.Record, 0, len(rows))
	defaultedDates := 0
	for _, row := range rows {
		rec, outcome := p.normalizer.Normalize(row)
		if outcome == processing.OutcomeDefaulted {
			defaultedDates++
		}
		records = append(records, rec)
	}
	if defaultedDates > 0 {
		log.Warn("records with unparseable timestamps kept with ingestion time", "count", defaultedDates)
	}

	records = processing.CleanRecords(records)

	records, removed := p.filter.Apply(records)
	log.Info("keyword filter applied", "kept", len(records), "removed", removed)

	records, duplicates := processing.Dedup(records)
	if duplicates > 0 {
		log.Info("duplicates removed", "count", duplicates)
	}

	defaultedSentiment := 0
	for i := range records {
		rec, outcome := p.annotator.Annotate(records[i])
		if outcome == processing.OutcomeDefaulted {
			defaultedSentiment++
		}
		records[i] = rec
	}
	if defaultedSentiment > 0 {
		log.Warn("records defaulted to neutral sentiment", "count", defaultedSentiment)
	}

	if err := p.persist(ctx, records); err != nil {
		return err
	}

	if len(records) == 0 {
		log.Warn("no records collected; run complete with empty output")
		return nil
	}

	trends, lowConfidence := p.trends.Aggregate(records)
	if lowConfidence {
		log.Warn("trend series spans fewer days than the moving-average window; anomaly signal is low-confidence",
			"days", len(trends))
	}

	anomalies := p.detector.Detect(trends)
	log.Info("anomaly detection finished", "anomalies", len(anomalies))

	if err := p.dispatch(ctx, log, anomalies); err != nil {
		return err
	}

	log.Info("run complete", "records", len(records), "elapsed", time.Since(started))
	return nil
}

// persist writes the cleaned record table. A failure here means the run
// did not complete cleanly; the ledger has not been touched yet, so prior
// alert state stays intact.
func (p *Pipeline) persist(ctx context.Context, records []domain.Record) error {
	if err := p.writer.Write(ctx, records); err != nil {
		return fmt.Errorf("persist records: %w", err)
	}
	if p.repository != nil {
		if err := p.repository.SaveRecords(ctx, records); err != nil {
			return fmt.Errorf("save records to repository: %w", err)
		}
	}
	return nil
}

// dispatch sends each newly-surfaced anomaly individually and commits
// only the ones that were delivered, so an unreachable endpoint leaves
// them uncommitted and retried on the next run.
func (p *Pipeline) dispatch(ctx context.Context, log *slog.Logger, anomalies []domain.Anomaly) error {
	if p.notifier == nil || len(anomalies) == 0 {
		return nil
	}

	if err := p.ledger.Load(ctx); err != nil {
		// Proceeding with an empty set only risks re-sending alerts.
		log.Warn("alert ledger unreadable; treating as empty", "error", err)
	}

	fresh := p.ledger.FilterNew(anomalies)
	log.Info("alert dedup applied", "detected", len(anomalies), "new", len(fresh))

	delivered := make([]domain.Anomaly, 0, len(fresh))
	for _, anomaly := range fresh {
		if err := p.notifier.Notify(ctx, anomaly.Message); err != nil {
			log.Warn("alert dispatch failed; will retry next run",
				"fingerprint", anomaly.Fingerprint(), "error", err)
			continue
		}
		delivered = append(delivered, anomaly)
	}

	if len(delivered) == 0 {
		return nil
	}
	if err := p.ledger.Commit(ctx, delivered); err != nil {
		return fmt.Errorf("commit alert ledger: %w", err)
	}
	return nil
}
