package domain

import "time"

// NewsArticle is a raw article as produced by an ingestion source.
// PublishedAt stays a string until processing parses it; upstream feeds
// deliver RFC3339 but malformed values must survive until Process decides
// what to do with the batch.
type NewsArticle struct {
	Headline    string `json:"headline"`
	Summary     string `json:"summary"`
	PublishedAt string `json:"published_at"`
	URL         string `json:"url"`
	Source      string `json:"source"`
	Sentiment   string `json:"sentiment"`
}

// ProcessedNewsArticle is a raw article enriched with the ticker it was
// fetched for, its dedup fingerprint, and a relevance score in [0,1].
type ProcessedNewsArticle struct {
	NewsArticle
	Ticker         string    `json:"ticker"`
	Fingerprint    string    `json:"fingerprint"`
	RelevanceScore float64   `json:"relevance_score"`
	PublishedTime  time.Time `json:"-"`
}

// PriceQuote is the result of a price resolution run. A quote with a
// non-empty Err is a degraded/mock result, not a failure: LastTradedPrice
// still carries a positive placeholder and Source identifies provenance.
type PriceQuote struct {
	Ticker          string    `json:"ticker"`
	LastTradedPrice float64   `json:"last_traded_price"`
	ChangeAbs       string    `json:"change_abs"`
	ChangePct       string    `json:"change_pct"`
	Currency        string    `json:"currency"`
	Timestamp       time.Time `json:"timestamp"`
	Source          string    `json:"source"`
	Err             string    `json:"error,omitempty"`
	Note            string    `json:"note,omitempty"`
}

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type ReportStatus string

const (
	ReportQueued  ReportStatus = "queued"
	ReportRunning ReportStatus = "running"
	ReportDone    ReportStatus = "done"
	ReportFailed  ReportStatus = "failed"
)

func (s ReportStatus) IsValid() bool {
	switch s {
	case ReportQueued, ReportRunning, ReportDone, ReportFailed:
		return true
	}
	return false
}

type Report struct {
	ID          string       `json:"id"`
	UserID      string       `json:"user_id"`
	Ticker      string       `json:"ticker"`
	Status      ReportStatus `json:"status"`
	GeneratedAt time.Time    `json:"generated_at"`
	PDFURL      string       `json:"pdf_url,omitempty"`
}

// ReportBase is the per-ticker cache row. NewsCursor is the high-water mark
// of the newest already-ingested article; nil means nothing ingested yet.
type ReportBase struct {
	Ticker              string     `json:"ticker"`
	StaticJSON          string     `json:"static_json,omitempty"`
	LastFullGeneratedAt *time.Time `json:"last_full_generated_at,omitempty"`
	NewsCursor          *time.Time `json:"news_cursor,omitempty"`
}

// NewsItem is a persisted processed article.
type NewsItem struct {
	ID             int64     `json:"id"`
	Ticker         string    `json:"ticker"`
	Headline       string    `json:"headline"`
	Summary        string    `json:"summary"`
	PublishedAt    time.Time `json:"published_at"`
	URL            string    `json:"url"`
	Source         string    `json:"source"`
	Sentiment      string    `json:"sentiment"`
	RelevanceScore float64   `json:"relevance_score"`
	Fingerprint    string    `json:"fingerprint"`
}

type Filing struct {
	ID         string     `json:"id"`
	CompanyID  string     `json:"company_id"`
	FilingType string     `json:"filing_type"`
	FilingDate *time.Time `json:"filing_date,omitempty"`
	FileURL    string     `json:"file_url"`
	Embedded   bool       `json:"embedded"`
}
