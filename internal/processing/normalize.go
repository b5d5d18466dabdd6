package processing

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"insightiq/internal/collector"
	"insightiq/internal/domain"
)

const derivedTitleLimit = 80

// Candidate field names per target field, in priority order. Resolution
// picks the first present non-empty candidate; the table is the whole
// schema-dispatch policy, there is no reflection at run time.
var (
	titleCandidates = map[collector.Family][]string{
		collector.FamilyNews:   {"title", "headline"},
		collector.FamilySocial: {"title"},
	}
	textCandidates = map[collector.Family][]string{
		collector.FamilyNews:   {"summary", "description", "content", "text"},
		collector.FamilySocial: {"text", "story_text", "selftext"},
	}
	timeCandidates = map[collector.Family][]string{
		collector.FamilyNews:   {"published_at", "publishedAt", "time_published", "date"},
		collector.FamilySocial: {"timestamp", "created_at", "created_at_i", "created_utc", "published_at"},
	}
	urlCandidates = map[collector.Family][]string{
		collector.FamilyNews:   {"url", "link"},
		collector.FamilySocial: {"url", "permalink"},
	}
	authorCandidates = map[collector.Family][]string{
		collector.FamilyNews:   {"author", "source"},
		collector.FamilySocial: {"author", "username"},
	}
	scoreCandidates = map[collector.Family][]string{
		collector.FamilyNews:   {"score"},
		collector.FamilySocial: {"score", "points", "likes"},
	}
	sentimentCandidates = map[collector.Family][]string{
		collector.FamilyNews:   {"sentiment", "overall_sentiment_score"},
		collector.FamilySocial: {"sentiment"},
	}
)

// Timestamp layouts tried in order; the compact form is what
// AlphaVantage emits.
var timeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"20060102T150405",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Normalizer reconciles heterogeneous collector rows into records. It is
// a pure transform; an unparseable timestamp is defaulted to ingestion
// time, never dropped.
type Normalizer struct {
	now func() time.Time
}

// NewNormalizer builds a normalizer using the wall clock for defaults.
func NewNormalizer() *Normalizer {
	return &Normalizer{now: time.Now}
}

// Normalize maps one raw row into a record. The outcome is Defaulted when
// the published time could not be resolved and ingestion time was used.
func (n *Normalizer) Normalize(row collector.Row) (domain.Record, Outcome) {
	family := row.Family
	if family == "" {
		family = collector.FamilyNews
	}

	rec := domain.Record{
		Source: strings.TrimSpace(row.Source),
		Title:  resolveString(row.Fields, titleCandidates[family]),
		Text:   resolveString(row.Fields, textCandidates[family]),
		URL:    resolveString(row.Fields, urlCandidates[family]),
		Author: resolveString(row.Fields, authorCandidates[family]),
		Raw:    row.Fields,
	}

	if rec.Title == "" && rec.Text != "" {
		rec.Title = deriveTitle(rec.Text)
	}

	rec.Score = resolveNumber(row.Fields, scoreCandidates[family])
	rec.UpstreamSentiment = resolveNumber(row.Fields, sentimentCandidates[family])

	outcome := OutcomeComputed
	published, ok := resolveTime(row.Fields, timeCandidates[family])
	if !ok {
		published = n.now().UTC()
		outcome = OutcomeDefaulted
	}
	rec.PublishedAt = published.UTC()

	return rec, outcome
}

func resolveString(fields map[string]any, candidates []string) string {
	for _, key := range candidates {
		if v, ok := fields[key]; ok {
			if s := asString(v); s != "" {
				return s
			}
		}
	}
	return ""
}

func resolveNumber(fields map[string]any, candidates []string) *float64 {
	for _, key := range candidates {
		v, ok := fields[key]
		if !ok {
			continue
		}
		if f, ok := asFloat(v); ok {
			return &f
		}
	}
	return nil
}

func resolveTime(fields map[string]any, candidates []string) (time.Time, bool) {
	for _, key := range candidates {
		v, ok := fields[key]
		if !ok {
			continue
		}
		if t, ok := asTime(v); ok {
			return t, true
		}
	}
	return time.Time{}, false
}

// asString renders a field value for text use; nil becomes the empty
// string so nulls never reach downstream string operations.
func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// asTime accepts time values, textual layouts, and Unix seconds (JSON
// numbers arrive as float64).
func asTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, !t.IsZero()
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, false
		}
		for _, layout := range timeLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed, true
			}
		}
		if secs, err := strconv.ParseFloat(s, 64); err == nil {
			return unixTime(secs)
		}
		return time.Time{}, false
	case float64:
		return unixTime(t)
	case int:
		return unixTime(float64(t))
	case int64:
		return unixTime(float64(t))
	default:
		return time.Time{}, false
	}
}

func unixTime(secs float64) (time.Time, bool) {
	if secs <= 0 || math.IsNaN(secs) || math.IsInf(secs, 0) {
		return time.Time{}, false
	}
	return time.Unix(int64(secs), 0).UTC(), true
}

func deriveTitle(text string) string {
	runes := []rune(text)
	if len(runes) <= derivedTitleLimit {
		return text
	}
	return string(runes[:derivedTitleLimit]) + "..."
}
