package storage

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"insightiq/internal/domain"
	"insightiq/internal/ports"
)

// Columns of the cleaned record table. The order is the contract the
// dashboard projections read; do not reorder.
var csvColumns = []string{
	"source", "published_at", "date", "title", "text", "clean",
	"url", "author", "sentiment", "sentiment_score", "score",
}

// CSVWriter rewrites the cleaned record table each run (overwrite, not
// append) via a temp file and rename.
type CSVWriter struct {
	path string
}

var _ ports.RecordWriter = (*CSVWriter)(nil)

// NewCSVWriter wires the output path.
func NewCSVWriter(path string) *CSVWriter {
	return &CSVWriter{path: path}
}

// Write persists all records. An empty run still produces a valid file
// with just the header.
func (w *CSVWriter) Write(_ context.Context, records []domain.Record) error {
	tmp, err := os.CreateTemp(filepath.Dir(w.path), ".records-*.csv")
	if err != nil {
		return fmt.Errorf("create csv temp file: %w", err)
	}

	writer := csv.NewWriter(tmp)
	if err := writer.Write(csvColumns); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, rec := range records {
		if err := writer.Write(csvRow(rec)); err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("flush csv: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close csv temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), w.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace csv %s: %w", w.path, err)
	}
	return nil
}

func csvRow(rec domain.Record) []string {
	score := ""
	if rec.Score != nil {
		score = strconv.FormatFloat(*rec.Score, 'f', -1, 64)
	}

	return []string{
		rec.Source,
		rec.PublishedAt.UTC().Format(time.RFC3339),
		rec.Day().Format("2006-01-02"),
		rec.Title,
		rec.Text,
		rec.Clean,
		rec.URL,
		rec.Author,
		string(rec.Sentiment),
		strconv.FormatFloat(rec.SentimentScore, 'f', -1, 64),
		score,
	}
}
