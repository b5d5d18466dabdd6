package processing

import "insightiq/internal/domain"

// Dedup removes records whose (title, url) pair was already seen, keeping
// the first occurrence in collection order. Multiple collectors can
// independently surface the same externally-published item; this is the
// only cross-source identity we trust. Idempotent.
func Dedup(records []domain.Record) ([]domain.Record, int) {
	type key struct {
		title string
		url   string
	}

	seen := make(map[key]struct{}, len(records))
	kept := make([]domain.Record, 0, len(records))
	for _, rec := range records {
		k := key{title: rec.Title, url: rec.URL}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		kept = append(kept, rec)
	}
	return kept, len(records) - len(kept)
}
