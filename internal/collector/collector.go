package collector

import (
	"context"
	"fmt"
	"time"
)

// Family selects which candidate field names the normalizer tries when
// reconciling a row into a record.
type Family string

const (
	// FamilyNews covers feeds shaped like articles:
	// title/summary/url/author/published-time.
	FamilyNews Family = "news"
	// FamilySocial covers feeds shaped like posts:
	// text/url/author/timestamp/engagement-score.
	FamilySocial Family = "social"
)

// Row is one raw item as returned by a collector, before normalization.
// Fields holds the source payload under source-specific keys; it is also
// retained verbatim on the resulting record for audit.
type Row struct {
	Source string
	Family Family
	Fields map[string]any
}

// Request carries the query parameters shared by all collectors.
type Request struct {
	Query    string
	Now      time.Time
	Lookback time.Duration
}

// From returns the start of the lookback window.
func (r Request) From() time.Time {
	return r.Now.Add(-r.Lookback)
}

// Collector fetches raw rows from one external API. Implementations must
// not panic past this boundary; any failure is an error return, which the
// source wrapper logs and treats as zero rows.
type Collector interface {
	Name() string
	Collect(ctx context.Context, req Request) ([]Row, error)
}

// Registry keeps a mapping from collector names to their implementations.
type Registry struct {
	collectors map[string]Collector
	order      []string
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{collectors: map[string]Collector{}}
}

// Register adds or replaces a collector; registration order is preserved
// so merged results are stable across runs.
func (r *Registry) Register(c Collector) {
	if r.collectors == nil {
		r.collectors = map[string]Collector{}
	}
	if _, ok := r.collectors[c.Name()]; !ok {
		r.order = append(r.order, c.Name())
	}
	r.collectors[c.Name()] = c
}

// Resolve returns a collector by name or an error if it is absent.
func (r *Registry) Resolve(name string) (Collector, error) {
	if c, ok := r.collectors[name]; ok {
		return c, nil
	}
	return nil, fmt.Errorf("collector %s is not registered", name)
}

// Names lists registered collectors in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}
