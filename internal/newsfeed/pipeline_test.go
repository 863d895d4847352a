package newsfeed

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"stock-report-engine/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

var testTracer = trace.NewNoopTracerProvider().Tracer("test")

type stubSearcher struct {
	articles  []domain.NewsArticle
	err       error
	lastQuery string
	calls     int
}

func (s *stubSearcher) Search(ctx context.Context, query string, limit int) ([]domain.NewsArticle, error) {
	s.calls++
	s.lastQuery = query
	return s.articles, s.err
}

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestFetchSyntheticWhenRequested(t *testing.T) {
	t.Parallel()

	search := &stubSearcher{}
	p := NewPipeline(testTracer, search)

	result := p.Fetch(context.Background(), "AAPL", Options{UseSyntheticData: true})
	if result.Origin != OriginSynthetic {
		t.Fatalf("expected synthetic origin, got %v", result.Origin)
	}
	if search.calls != 0 {
		t.Fatal("live search must not run when synthetic data is requested")
	}
	if len(result.Articles) != 4 {
		t.Fatalf("expected 4 synthetic articles, got %d", len(result.Articles))
	}
}

func TestFetchDeterministicSyntheticReproducible(t *testing.T) {
	t.Parallel()

	p := NewPipeline(testTracer, nil)
	opts := Options{UseSyntheticData: true, UseDeterministicTimestamps: true}

	a := p.Fetch(context.Background(), "AAPL", opts)
	b := p.Fetch(context.Background(), "AAPL", opts)
	if !reflect.DeepEqual(a.Articles, b.Articles) {
		t.Fatal("deterministic synthetic batches must be identical across runs")
	}
	if a.Articles[0].Source != "Financial Times" || a.Articles[3].Sentiment != "neutral" {
		t.Fatalf("unexpected template content: %+v", a.Articles)
	}
}

func TestFetchFallsBackOnSearchError(t *testing.T) {
	t.Parallel()

	search := &stubSearcher{err: errors.New("upstream 503")}
	p := NewPipeline(testTracer, search)

	result := p.Fetch(context.Background(), "AAPL", Options{})
	if result.Origin != OriginSynthetic {
		t.Fatalf("expected synthetic fallback, got %v", result.Origin)
	}
	if result.Reason != "upstream 503" {
		t.Fatalf("expected fallback reason, got %q", result.Reason)
	}
	if len(result.Articles) != 4 {
		t.Fatalf("expected 4 fallback articles, got %d", len(result.Articles))
	}
}

func TestFetchLiveUsesCleanedTicker(t *testing.T) {
	t.Parallel()

	search := &stubSearcher{articles: []domain.NewsArticle{
		{Headline: "BIRLACORP update", Summary: "ok", PublishedAt: "2025-09-06T10:00:00Z"},
	}}
	p := NewPipeline(testTracer, search)

	result := p.Fetch(context.Background(), "BIRLACORP.NS", Options{})
	if result.Origin != OriginLive {
		t.Fatalf("expected live origin, got %v", result.Origin)
	}
	if search.lastQuery != "BIRLACORP" {
		t.Fatalf("expected exchange suffix stripped from query, got %q", search.lastQuery)
	}
}

func TestFetchSyntheticWhenNoSearcher(t *testing.T) {
	t.Parallel()

	p := NewPipeline(testTracer, nil)
	result := p.Fetch(context.Background(), "AAPL", Options{})
	if result.Origin != OriginSynthetic {
		t.Fatalf("expected synthetic origin without a searcher, got %v", result.Origin)
	}
	if result.Reason == "" {
		t.Fatal("expected a reason explaining the fallback")
	}
}

func TestProcessScoresAndSortsNewestFirst(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.September, 6, 12, 0, 0, 0, time.UTC)
	p := NewPipeline(testTracer, nil)
	p.now = fixedClock(now)

	articles := []domain.NewsArticle{
		{Headline: "Old partnership news", Summary: "stale", PublishedAt: "2025-09-04T12:00:00Z"},
		{Headline: "AAPL Reports Strong Quarterly Earnings", Summary: "AAPL beat estimates", PublishedAt: "2025-09-06T10:00:00Z"},
		{Headline: "Midday momentum", Summary: "sector rotation", PublishedAt: "2025-09-06T06:00:00Z"},
	}

	processed := p.Process(articles, "AAPL")
	if len(processed) != 3 {
		t.Fatalf("expected all 3 articles kept, got %d", len(processed))
	}
	if processed[0].Headline != "AAPL Reports Strong Quarterly Earnings" {
		t.Fatalf("expected newest first, got %q", processed[0].Headline)
	}
	if processed[2].Headline != "Old partnership news" {
		t.Fatalf("expected oldest last, got %q", processed[2].Headline)
	}
	if processed[0].RelevanceScore != 1.0 {
		t.Fatalf("expected top article capped at 1.0, got %v", processed[0].RelevanceScore)
	}
	if processed[2].RelevanceScore != 0.5 {
		t.Fatalf("expected stale irrelevant article at base 0.5, got %v", processed[2].RelevanceScore)
	}
	for _, article := range processed {
		if article.Ticker != "AAPL" {
			t.Fatalf("ticker not stamped on %q", article.Headline)
		}
		if article.Fingerprint == "" {
			t.Fatalf("fingerprint missing on %q", article.Headline)
		}
	}
}

func TestProcessMalformedTimestampDiscardsBatch(t *testing.T) {
	t.Parallel()

	p := NewPipeline(testTracer, nil)
	articles := []domain.NewsArticle{
		{Headline: "Fine article", Summary: "ok", PublishedAt: "2025-09-06T10:00:00Z"},
		{Headline: "Broken article", Summary: "bad", PublishedAt: "yesterday"},
	}

	processed := p.Process(articles, "AAPL")
	if len(processed) != 0 {
		t.Fatalf("expected empty batch on malformed timestamp, got %d articles", len(processed))
	}
}

func TestProcessIdempotentFingerprints(t *testing.T) {
	t.Parallel()

	p := NewPipeline(testTracer, nil)
	articles := []domain.NewsArticle{
		{Headline: "AAPL Reports Strong Quarterly Earnings", Summary: "details", PublishedAt: "2025-09-06T10:00:00Z"},
	}

	first := p.Process(articles, "AAPL")
	second := p.Process(articles, "AAPL")
	if first[0].Fingerprint != second[0].Fingerprint {
		t.Fatalf("reprocessing must yield identical fingerprints: %q vs %q", first[0].Fingerprint, second[0].Fingerprint)
	}
}

func TestProcessEmptyInput(t *testing.T) {
	t.Parallel()

	p := NewPipeline(testTracer, nil)
	if got := p.Process(nil, "AAPL"); len(got) != 0 {
		t.Fatalf("expected empty result for empty input, got %d", len(got))
	}
}

func TestSyntheticArticleTimestamps(t *testing.T) {
	t.Parallel()

	base := time.Date(2025, time.September, 6, 12, 0, 0, 0, time.UTC)
	articles := syntheticArticles("AAPL", base)

	wantOffsets := []time.Duration{2 * time.Hour, 6 * time.Hour, 24 * time.Hour, 36 * time.Hour}
	for i, article := range articles {
		got, err := time.Parse(time.RFC3339Nano, article.PublishedAt)
		if err != nil {
			t.Fatalf("article %d timestamp unparseable: %v", i, err)
		}
		if want := base.Add(-wantOffsets[i]); !got.Equal(want) {
			t.Fatalf("article %d: expected %v, got %v", i, want, got)
		}
	}
}
