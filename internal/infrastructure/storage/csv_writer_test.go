package storage

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"insightiq/internal/domain"
)

func readAll(t *testing.T, path string) [][]string {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteColumnsAndRows(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ai_intel_clean.csv")
	score := 120.0
	records := []domain.Record{
		{
			Source:         "hackernews",
			Title:          "New AI framework",
			Text:           "details",
			Clean:          "New AI framework. details",
			URL:            "https://example.org/framework",
			Author:         "alice",
			PublishedAt:    time.Date(2025, 6, 8, 14, 30, 0, 0, time.UTC),
			Score:          &score,
			SentimentScore: 0.42,
			Sentiment:      domain.LabelPositive,
		},
	}

	require.NoError(t, NewCSVWriter(path).Write(context.Background(), records))

	rows := readAll(t, path)
	require.Len(t, rows, 2)

	assert.Equal(t, []string{
		"source", "published_at", "date", "title", "text", "clean",
		"url", "author", "sentiment", "sentiment_score", "score",
	}, rows[0])

	assert.Equal(t, []string{
		"hackernews",
		"2025-06-08T14:30:00Z",
		"2025-06-08",
		"New AI framework",
		"details",
		"New AI framework. details",
		"https://example.org/framework",
		"alice",
		"positive",
		"0.42",
		"120",
	}, rows[1])
}

func TestWriteEmptyRunKeepsHeader(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ai_intel_clean.csv")
	require.NoError(t, NewCSVWriter(path).Write(context.Background(), nil))

	rows := readAll(t, path)
	require.Len(t, rows, 1)
	assert.Equal(t, "source", rows[0][0])
}

func TestWriteOverwritesPreviousRun(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ai_intel_clean.csv")
	w := NewCSVWriter(path)
	ctx := context.Background()

	require.NoError(t, w.Write(ctx, []domain.Record{
		{Title: "first", PublishedAt: time.Now()},
		{Title: "second", PublishedAt: time.Now()},
	}))
	require.NoError(t, w.Write(ctx, []domain.Record{
		{Title: "third", PublishedAt: time.Now()},
	}))

	rows := readAll(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, "third", rows[1][3])
}

func TestWriteMissingScoreIsEmptyCell(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "ai_intel_clean.csv")
	require.NoError(t, NewCSVWriter(path).Write(context.Background(), []domain.Record{
		{Title: "no score", PublishedAt: time.Now()},
	}))

	rows := readAll(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, "", rows[1][10])
}
