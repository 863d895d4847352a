package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"stock-report-engine/internal/domain"
	"stock-report-engine/internal/pricer"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
)

var testTracer = trace.NewNoopTracerProvider().Tracer("test")

type fakeRedis struct {
	data   map[string][]byte
	setErr error
	getErr error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: make(map[string][]byte)}
}

func (f *fakeRedis) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	if f.setErr != nil {
		return redis.NewStatusResult("", f.setErr)
	}
	switch v := value.(type) {
	case []byte:
		f.data[key] = append([]byte(nil), v...)
	case string:
		f.data[key] = []byte(v)
	default:
		bytes, _ := json.Marshal(v)
		f.data[key] = bytes
	}
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.getErr != nil {
		return redis.NewStringResult("", f.getErr)
	}
	if v, ok := f.data[key]; ok {
		return redis.NewStringResult(string(v), nil)
	}
	return redis.NewStringResult("", redis.Nil)
}

type fakeFetcher struct {
	quote   domain.PriceQuote
	outcome pricer.Outcome
	calls   int
}

func (f *fakeFetcher) Fetch(ctx context.Context, ticker string) (domain.PriceQuote, pricer.Outcome) {
	f.calls++
	return f.quote, f.outcome
}

func healthyQuote(ticker string) domain.PriceQuote {
	return domain.PriceQuote{
		Ticker:          ticker,
		LastTradedPrice: 189.43,
		ChangeAbs:       "+1.20",
		ChangePct:       "+0.64%",
		Currency:        "USD",
		Timestamp:       time.Now().UTC(),
		Source:          "Yahoo Finance",
	}
}

func TestPriceService_GetQuoteCacheHit(t *testing.T) {
	t.Parallel()

	cache := newFakeRedis()
	cached := healthyQuote("AAPL")
	data, _ := json.Marshal(cached)
	_ = cache.Set(context.Background(), "quote:AAPL", data, 0)

	fetcher := &fakeFetcher{}
	svc := NewPriceService(testTracer, fetcher, cache)

	got, _ := svc.GetQuote(context.Background(), "AAPL")
	if got.LastTradedPrice != cached.LastTradedPrice {
		t.Fatalf("expected cached quote, got %+v", got)
	}
	if fetcher.calls != 0 {
		t.Fatalf("fetcher must not run on cache hit, got %d calls", fetcher.calls)
	}
}

func TestPriceService_GetQuoteFetchesAndCachesOnMiss(t *testing.T) {
	t.Parallel()

	cache := newFakeRedis()
	fetcher := &fakeFetcher{quote: healthyQuote("AAPL"), outcome: pricer.OutcomePrimary}
	svc := NewPriceService(testTracer, fetcher, cache)

	got, outcome := svc.GetQuote(context.Background(), "AAPL")
	if got.Ticker != "AAPL" || outcome != pricer.OutcomePrimary {
		t.Fatalf("unexpected quote: %+v outcome %v", got, outcome)
	}
	if fetcher.calls != 1 {
		t.Fatalf("expected one fetch, got %d", fetcher.calls)
	}
	if _, ok := cache.data["quote:AAPL"]; !ok {
		t.Fatal("healthy quote not cached")
	}
}

func TestPriceService_DegradedQuoteNotCached(t *testing.T) {
	t.Parallel()

	cache := newFakeRedis()
	degraded := healthyQuote("AAPL")
	degraded.Source = "Mock Data (Error Fallback)"
	degraded.Err = "both providers failed"
	fetcher := &fakeFetcher{quote: degraded, outcome: pricer.OutcomeDegraded}
	svc := NewPriceService(testTracer, fetcher, cache)

	got, outcome := svc.GetQuote(context.Background(), "AAPL")
	if outcome != pricer.OutcomeDegraded {
		t.Fatalf("expected degraded outcome, got %v", outcome)
	}
	if got.Err == "" {
		t.Fatal("degraded quote must be served with its error")
	}
	if _, ok := cache.data["quote:AAPL"]; ok {
		t.Fatal("degraded quote must not be cached")
	}
}

func TestPriceService_NilRedisFetchesDirectly(t *testing.T) {
	t.Parallel()

	fetcher := &fakeFetcher{quote: healthyQuote("AAPL"), outcome: pricer.OutcomeSecondary}
	svc := NewPriceService(testTracer, fetcher, nil)

	_, outcome := svc.GetQuote(context.Background(), "AAPL")
	if outcome != pricer.OutcomeSecondary {
		t.Fatalf("expected secondary outcome, got %v", outcome)
	}
	if fetcher.calls != 1 {
		t.Fatalf("expected one fetch, got %d", fetcher.calls)
	}
}
