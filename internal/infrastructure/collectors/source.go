package collectors

import (
	"context"
	"log/slog"
	"time"

	"insightiq/internal/collector"
	"insightiq/internal/ports"
)

// Source implements SignalSource over the collector registry. Every
// collector call is isolated: an error or panic logs a warning and
// contributes zero rows, so one unreliable external API never aborts the
// run. Collectors execute sequentially in registration order; results
// are therefore stable run to run.
type Source struct {
	registry *collector.Registry
	query    string
	lookback time.Duration
	logger   *slog.Logger
}

var _ ports.SignalSource = (*Source)(nil)

// NewSource wires the registry with the shared query parameters.
func NewSource(registry *collector.Registry, query string, lookback time.Duration, logger *slog.Logger) *Source {
	return &Source{
		registry: registry,
		query:    query,
		lookback: lookback,
		logger:   logger,
	}
}

// FetchWindow runs every registered collector and merges their rows. The
// only error it returns is context cancellation.
func (s *Source) FetchWindow(ctx context.Context, now time.Time) ([]collector.Row, error) {
	req := collector.Request{Query: s.query, Now: now, Lookback: s.lookback}

	var merged []collector.Row
	for _, name := range s.registry.Names() {
		if err := ctx.Err(); err != nil {
			return merged, err
		}

		c, err := s.registry.Resolve(name)
		if err != nil {
			s.warn("collector missing", "collector", name, "error", err)
			continue
		}

		rows := s.collect(ctx, c, req)
		s.debug("collector finished", "collector", name, "rows", len(rows))
		merged = append(merged, rows...)
	}

	s.debug("collection done", "total_rows", len(merged))
	return merged, nil
}

// collect shields the run from a misbehaving adapter.
func (s *Source) collect(ctx context.Context, c collector.Collector, req collector.Request) (rows []collector.Row) {
	defer func() {
		if r := recover(); r != nil {
			s.warn("collector panicked", "collector", c.Name(), "panic", r)
			rows = nil
		}
	}()

	rows, err := c.Collect(ctx, req)
	if err != nil {
		s.warn("collector failed", "collector", c.Name(), "error", err)
		return nil
	}
	return rows
}

func (s *Source) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}

func (s *Source) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
