package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"insightiq/internal/domain"
	"insightiq/internal/ports"
)

// FileLedger persists dispatched alert fingerprints as a JSON array at a
// fixed path. Fingerprints accumulate and are never pruned; they are
// short strings and alert volume is low. The file is rewritten whole via
// a temp file and rename so a crash mid-write leaves the prior state
// intact.
type FileLedger struct {
	path string
	seen map[string]struct{}
}

var _ ports.AlertLedger = (*FileLedger)(nil)

// NewFileLedger wires the storage path; Load must be called before
// FilterNew or Commit.
func NewFileLedger(path string) *FileLedger {
	return &FileLedger{path: path, seen: map[string]struct{}{}}
}

// Load reads the persisted fingerprint set. A missing file is an empty
// set. A corrupt file returns an error; the caller may continue with an
// empty set, which only risks re-sending alerts (at-least-once delivery).
func (l *FileLedger) Load(_ context.Context) error {
	l.seen = map[string]struct{}{}

	raw, err := os.ReadFile(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read ledger %s: %w", l.path, err)
	}

	var fingerprints []string
	if err := json.Unmarshal(raw, &fingerprints); err != nil {
		return fmt.Errorf("parse ledger %s: %w", l.path, err)
	}

	for _, fp := range fingerprints {
		l.seen[fp] = struct{}{}
	}
	return nil
}

// FilterNew returns only the anomalies whose fingerprint has not been
// dispatched before.
func (l *FileLedger) FilterNew(anomalies []domain.Anomaly) []domain.Anomaly {
	fresh := make([]domain.Anomaly, 0, len(anomalies))
	for _, a := range anomalies {
		if _, ok := l.seen[a.Fingerprint()]; !ok {
			fresh = append(fresh, a)
		}
	}
	return fresh
}

// Commit adds the fingerprints of the given anomalies to the set and
// persists the whole set. Call it only with anomalies that were actually
// delivered, so a failed dispatch stays uncommitted and retries next run.
func (l *FileLedger) Commit(_ context.Context, anomalies []domain.Anomaly) error {
	for _, a := range anomalies {
		l.seen[a.Fingerprint()] = struct{}{}
	}

	fingerprints := make([]string, 0, len(l.seen))
	for fp := range l.seen {
		fingerprints = append(fingerprints, fp)
	}
	sort.Strings(fingerprints)

	raw, err := json.Marshal(fingerprints)
	if err != nil {
		return fmt.Errorf("marshal ledger: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(l.path), ".ledger-*.json")
	if err != nil {
		return fmt.Errorf("create ledger temp file: %w", err)
	}

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close ledger temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), l.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace ledger %s: %w", l.path, err)
	}
	return nil
}
