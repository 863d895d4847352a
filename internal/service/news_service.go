package service

import (
	"context"
	"log"
	"time"

	"stock-report-engine/internal/domain"
	"stock-report-engine/internal/newsfeed"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// NewsFetcher is the fetch/process pipeline behind the service.
type NewsFetcher interface {
	Fetch(ctx context.Context, ticker string, opts newsfeed.Options) newsfeed.FetchResult
	Process(articles []domain.NewsArticle, ticker string) []domain.ProcessedNewsArticle
}

type NewsStore interface {
	InsertIfAbsent(ctx context.Context, item domain.NewsItem) (bool, error)
	ListByTicker(ctx context.Context, ticker string, limit int) ([]domain.NewsItem, error)
	ListAfterCursor(ctx context.Context, ticker string, cursor time.Time) ([]domain.NewsItem, error)
}

type CursorStore interface {
	Get(ctx context.Context, ticker string) (*domain.ReportBase, error)
	AdvanceNewsCursor(ctx context.Context, ticker string, cursor time.Time) error
}

// IngestResult summarizes one ingest run for a ticker.
type IngestResult struct {
	Ticker     string `json:"ticker"`
	Origin     string `json:"origin"`
	Fetched    int    `json:"fetched"`
	Inserted   int    `json:"inserted"`
	Duplicates int    `json:"duplicates"`
}

// NewsService runs the fetch/process pipeline and persists the survivors,
// advancing the per-ticker cursor to the newest article seen.
type NewsService struct {
	tracer  trace.Tracer
	fetcher NewsFetcher
	store   NewsStore
	cursors CursorStore
	opts    newsfeed.Options
}

func NewNewsService(
	tracer trace.Tracer,
	fetcher NewsFetcher,
	store NewsStore,
	cursors CursorStore,
	opts newsfeed.Options,
) *NewsService {
	return &NewsService{
		tracer:  tracer,
		fetcher: fetcher,
		store:   store,
		cursors: cursors,
		opts:    opts,
	}
}

// Ingest fetches, processes, and stores fresh news for a ticker. Already-seen
// articles count as duplicates thanks to the fingerprint uniqueness in the
// store. The cursor only advances, never rewinds.
func (s *NewsService) Ingest(ctx context.Context, ticker string) (*IngestResult, error) {
	ctx, span := s.tracer.Start(ctx, "news-service.ingest")
	defer span.End()
	span.SetAttributes(attribute.String("ticker", ticker))

	fetched := s.fetcher.Fetch(ctx, ticker, s.opts)
	processed := s.fetcher.Process(fetched.Articles, ticker)

	result := &IngestResult{
		Ticker:  ticker,
		Origin:  fetched.Origin.String(),
		Fetched: len(processed),
	}

	var newest time.Time
	for _, article := range processed {
		inserted, err := s.store.InsertIfAbsent(ctx, domain.NewsItem{
			Ticker:         article.Ticker,
			Headline:       article.Headline,
			Summary:        article.Summary,
			PublishedAt:    article.PublishedTime,
			URL:            article.URL,
			Source:         article.Source,
			Sentiment:      article.Sentiment,
			RelevanceScore: article.RelevanceScore,
			Fingerprint:    article.Fingerprint,
		})
		if err != nil {
			return nil, err
		}
		if inserted {
			result.Inserted++
		} else {
			result.Duplicates++
		}
		if article.PublishedTime.After(newest) {
			newest = article.PublishedTime
		}
	}

	if !newest.IsZero() {
		if err := s.cursors.AdvanceNewsCursor(ctx, ticker, newest); err != nil {
			log.Printf("advance news cursor for %s: %v", ticker, err)
		}
	}

	span.SetAttributes(
		attribute.Int("fetched", result.Fetched),
		attribute.Int("inserted", result.Inserted),
		attribute.Int("duplicates", result.Duplicates),
	)
	return result, nil
}

// Latest returns the most recent stored articles for a ticker.
func (s *NewsService) Latest(ctx context.Context, ticker string, limit int) ([]domain.NewsItem, error) {
	_, span := s.tracer.Start(ctx, "news-service.latest")
	defer span.End()

	return s.store.ListByTicker(ctx, ticker, limit)
}

// Fresh returns stored articles strictly newer than the ticker's cursor,
// or the latest batch when no cursor exists yet.
func (s *NewsService) Fresh(ctx context.Context, ticker string, limit int) ([]domain.NewsItem, error) {
	ctx, span := s.tracer.Start(ctx, "news-service.fresh")
	defer span.End()

	base, err := s.cursors.Get(ctx, ticker)
	if err != nil {
		return nil, err
	}
	if base == nil || base.NewsCursor == nil {
		return s.store.ListByTicker(ctx, ticker, limit)
	}
	return s.store.ListAfterCursor(ctx, ticker, *base.NewsCursor)
}
