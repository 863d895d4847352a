package repository

import (
	"context"
	"errors"
	"time"

	"stock-report-engine/internal/domain"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/trace"
)

type ReportBaseRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewReportBaseRepository(pool PgxPool, tracer trace.Tracer) *ReportBaseRepository {
	return &ReportBaseRepository{pool: pool, tracer: tracer}
}

func (r *ReportBaseRepository) Get(ctx context.Context, ticker string) (*domain.ReportBase, error) {
	_, span := r.tracer.Start(ctx, "report-base-repo.get")
	defer span.End()

	var base domain.ReportBase
	var staticJSON *string
	err := r.pool.QueryRow(ctx,
		`SELECT ticker, static_json::text, last_full_generated_at, news_cursor
		 FROM report_base WHERE ticker = $1`,
		ticker,
	).Scan(&base.Ticker, &staticJSON, &base.LastFullGeneratedAt, &base.NewsCursor)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if staticJSON != nil {
		base.StaticJSON = *staticJSON
	}
	return &base, nil
}

func (r *ReportBaseRepository) Upsert(ctx context.Context, base domain.ReportBase) error {
	_, span := r.tracer.Start(ctx, "report-base-repo.upsert")
	defer span.End()

	var staticJSON any
	if base.StaticJSON != "" {
		staticJSON = base.StaticJSON
	}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO report_base (ticker, static_json, last_full_generated_at, news_cursor)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (ticker) DO UPDATE SET
		     static_json = COALESCE(EXCLUDED.static_json, report_base.static_json),
		     last_full_generated_at = COALESCE(EXCLUDED.last_full_generated_at, report_base.last_full_generated_at),
		     news_cursor = COALESCE(EXCLUDED.news_cursor, report_base.news_cursor)`,
		base.Ticker, staticJSON, base.LastFullGeneratedAt, base.NewsCursor,
	)
	return err
}

// AdvanceNewsCursor moves the per-ticker watermark forward, never backward.
func (r *ReportBaseRepository) AdvanceNewsCursor(ctx context.Context, ticker string, cursor time.Time) error {
	_, span := r.tracer.Start(ctx, "report-base-repo.advance-news-cursor")
	defer span.End()

	_, err := r.pool.Exec(ctx,
		`INSERT INTO report_base (ticker, news_cursor) VALUES ($1, $2)
		 ON CONFLICT (ticker) DO UPDATE SET
		     news_cursor = GREATEST(COALESCE(report_base.news_cursor, 'epoch'::timestamptz), EXCLUDED.news_cursor)`,
		ticker, cursor.UTC(),
	)
	return err
}

// ListTickers returns every ticker with a report_base row, i.e. the set the
// background news poller refreshes.
func (r *ReportBaseRepository) ListTickers(ctx context.Context) ([]string, error) {
	_, span := r.tracer.Start(ctx, "report-base-repo.list-tickers")
	defer span.End()

	rows, err := r.pool.Query(ctx, `SELECT ticker FROM report_base ORDER BY ticker`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickers []string
	for rows.Next() {
		var ticker string
		if err := rows.Scan(&ticker); err != nil {
			return nil, err
		}
		tickers = append(tickers, ticker)
	}
	return tickers, rows.Err()
}
