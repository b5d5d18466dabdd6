package processing

import (
	"strings"

	"insightiq/internal/domain"
)

// KeywordFilter retains only records that mention at least one domain
// keyword. Matching is case-insensitive substring, not tokenized: a
// cheap high-recall gate where false positives are acceptable.
type KeywordFilter struct {
	keywords []string
}

// NewKeywordFilter lowercases the keyword set once up front.
func NewKeywordFilter(keywords []string) *KeywordFilter {
	lowered := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			lowered = append(lowered, kw)
		}
	}
	return &KeywordFilter{keywords: lowered}
}

// Apply returns the retained records and the number removed.
func (f *KeywordFilter) Apply(records []domain.Record) ([]domain.Record, int) {
	kept := make([]domain.Record, 0, len(records))
	for _, rec := range records {
		if f.matches(rec) {
			kept = append(kept, rec)
		}
	}
	return kept, len(records) - len(kept)
}

func (f *KeywordFilter) matches(rec domain.Record) bool {
	haystack := strings.ToLower(rec.Title + " " + rec.Text)
	for _, kw := range f.keywords {
		if strings.Contains(haystack, kw) {
			return true
		}
	}
	return false
}
