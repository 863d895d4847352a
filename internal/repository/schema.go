package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgxPool is the subset of pgxpool.Pool the repositories use.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

const createSchema = `
CREATE TABLE IF NOT EXISTS users (
    id          UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    email       TEXT UNIQUE NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS reports (
    id            UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    user_id       UUID REFERENCES users (id),
    ticker        TEXT NOT NULL,
    status        TEXT NOT NULL DEFAULT 'queued',
    generated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    pdf_url       TEXT
);

CREATE INDEX IF NOT EXISTS idx_reports_user_time
    ON reports (user_id, generated_at DESC);
CREATE INDEX IF NOT EXISTS idx_reports_ticker_time
    ON reports (ticker, generated_at DESC);

CREATE TABLE IF NOT EXISTS report_base (
    ticker                  TEXT PRIMARY KEY,
    static_json             JSONB,
    last_full_generated_at  TIMESTAMPTZ,
    news_cursor             TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS news_items (
    id               BIGSERIAL PRIMARY KEY,
    ticker           TEXT NOT NULL,
    headline         TEXT NOT NULL,
    summary          TEXT NOT NULL,
    published_at     TIMESTAMPTZ NOT NULL,
    url              TEXT NOT NULL DEFAULT '',
    source           TEXT NOT NULL DEFAULT '',
    sentiment        TEXT NOT NULL DEFAULT 'neutral',
    relevance_score  DOUBLE PRECISION NOT NULL DEFAULT 0,
    fingerprint      TEXT NOT NULL,
    UNIQUE (ticker, fingerprint)
);

CREATE INDEX IF NOT EXISTS idx_news_items_ticker_time
    ON news_items (ticker, published_at DESC);

CREATE TABLE IF NOT EXISTS filings (
    id           UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    company_id   UUID,
    filing_type  TEXT,
    filing_date  TIMESTAMPTZ,
    file_url     TEXT,
    embedded     BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE INDEX IF NOT EXISTS idx_filings_company_date
    ON filings (company_id, filing_date DESC);
`

// RunMigrations applies the idempotent base schema.
func RunMigrations(ctx context.Context, pool PgxPool) error {
	_, err := pool.Exec(ctx, createSchema)
	return err
}
