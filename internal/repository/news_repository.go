package repository

import (
	"context"
	"time"

	"stock-report-engine/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

type NewsRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewNewsRepository(pool PgxPool, tracer trace.Tracer) *NewsRepository {
	return &NewsRepository{pool: pool, tracer: tracer}
}

const newsColumns = `id, ticker, headline, summary, published_at, url, source, sentiment, relevance_score, fingerprint`

// InsertIfAbsent stores an article unless its (ticker, fingerprint) pair
// already exists. Returns whether a row was actually inserted, so callers
// can count duplicates.
func (r *NewsRepository) InsertIfAbsent(ctx context.Context, item domain.NewsItem) (bool, error) {
	_, span := r.tracer.Start(ctx, "news-repo.insert-if-absent")
	defer span.End()

	tag, err := r.pool.Exec(ctx,
		`INSERT INTO news_items (ticker, headline, summary, published_at, url, source, sentiment, relevance_score, fingerprint)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (ticker, fingerprint) DO NOTHING`,
		item.Ticker, item.Headline, item.Summary, item.PublishedAt.UTC(),
		item.URL, item.Source, item.Sentiment, item.RelevanceScore, item.Fingerprint,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func (r *NewsRepository) ListByTicker(ctx context.Context, ticker string, limit int) ([]domain.NewsItem, error) {
	_, span := r.tracer.Start(ctx, "news-repo.list-by-ticker")
	defer span.End()

	if limit <= 0 {
		limit = 10
	}
	return r.queryItems(ctx,
		`SELECT `+newsColumns+` FROM news_items
		 WHERE ticker = $1 ORDER BY published_at DESC LIMIT $2`,
		ticker, limit)
}

// ListAfterCursor returns articles strictly newer than the cursor watermark.
func (r *NewsRepository) ListAfterCursor(ctx context.Context, ticker string, cursor time.Time) ([]domain.NewsItem, error) {
	_, span := r.tracer.Start(ctx, "news-repo.list-after-cursor")
	defer span.End()

	return r.queryItems(ctx,
		`SELECT `+newsColumns+` FROM news_items
		 WHERE ticker = $1 AND published_at > $2 ORDER BY published_at DESC`,
		ticker, cursor.UTC())
}

func (r *NewsRepository) queryItems(ctx context.Context, sql string, args ...any) ([]domain.NewsItem, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.NewsItem
	for rows.Next() {
		var item domain.NewsItem
		if err := rows.Scan(&item.ID, &item.Ticker, &item.Headline, &item.Summary, &item.PublishedAt,
			&item.URL, &item.Source, &item.Sentiment, &item.RelevanceScore, &item.Fingerprint); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}
