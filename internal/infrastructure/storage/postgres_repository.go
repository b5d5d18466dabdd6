package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"insightiq/internal/domain"
	"insightiq/internal/ports"
)

// PostgresRepository upserts cleaned records into Postgres so the
// dashboard read path can project them without re-deriving sentiment or
// dedup. Keyed on (title, url), the same identity the deduplicator uses.
type PostgresRepository struct {
	db      *sql.DB
	builder sq.StatementBuilderType
}

var _ ports.RecordRepository = (*PostgresRepository)(nil)

// NewPostgresRepository wires a sql.DB implementation.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{
		db:      db,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// SaveRecords upserts the run's cleaned records.
func (r *PostgresRepository) SaveRecords(ctx context.Context, records []domain.Record) error {
	if r.db == nil || len(records) == 0 {
		return nil
	}

	for _, rec := range records {
		var score any
		if rec.Score != nil {
			score = *rec.Score
		}

		query := r.builder.
			Insert("records").
			Columns("source", "published_at", "title", "text", "clean",
				"url", "author", "sentiment", "sentiment_score", "score").
			Values(rec.Source, rec.PublishedAt.UTC(), rec.Title, rec.Text, rec.Clean,
				rec.URL, rec.Author, string(rec.Sentiment), rec.SentimentScore, score).
			Suffix(`ON CONFLICT (title, url) DO UPDATE
                SET text = EXCLUDED.text,
                    clean = EXCLUDED.clean,
                    sentiment = EXCLUDED.sentiment,
                    sentiment_score = EXCLUDED.sentiment_score,
                    score = EXCLUDED.score,
                    updated_at = NOW()`)

		if _, err := query.RunWith(r.db).ExecContext(ctx); err != nil {
			return fmt.Errorf("upsert record %s: %w", rec.URL, err)
		}
	}

	return nil
}
