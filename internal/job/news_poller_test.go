package job

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"stock-report-engine/internal/service"

	"go.opentelemetry.io/otel/trace"
)

var testTracer = trace.NewNoopTracerProvider().Tracer("test")

type stubIngester struct {
	mu      sync.Mutex
	tickers []string
	err     error
}

func (s *stubIngester) Ingest(ctx context.Context, ticker string) (*service.IngestResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickers = append(s.tickers, ticker)
	if s.err != nil {
		return nil, s.err
	}
	return &service.IngestResult{Ticker: ticker, Fetched: 4, Inserted: 2, Duplicates: 2}, nil
}

func (s *stubIngester) calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.tickers...)
}

type stubTickerLister struct {
	tickers []string
	err     error
}

func (s *stubTickerLister) ListTickers(ctx context.Context) ([]string, error) {
	return s.tickers, s.err
}

func TestNewNewsPollerInterval(t *testing.T) {
	poller := NewNewsPoller(testTracer, &stubIngester{}, &stubTickerLister{}, 2)
	if poller.pollInterval != 2*time.Second {
		t.Fatalf("expected 2s interval, got %v", poller.pollInterval)
	}
}

func TestNewsPollerIngestsEveryTicker(t *testing.T) {
	t.Parallel()

	ingester := &stubIngester{}
	lister := &stubTickerLister{tickers: []string{"AAPL", "MSFT"}}
	poller := NewNewsPoller(testTracer, ingester, lister, 60)

	ctx, cancel := context.WithCancel(context.Background())
	go poller.Start(ctx)

	eventually(t, func() bool { return len(ingester.calls()) == 2 })
	cancel()

	calls := ingester.calls()
	if calls[0] != "AAPL" || calls[1] != "MSFT" {
		t.Fatalf("unexpected ingest order: %v", calls)
	}
}

func TestNewsPollerContinuesPastIngestErrors(t *testing.T) {
	t.Parallel()

	ingester := &stubIngester{err: errors.New("db unavailable")}
	lister := &stubTickerLister{tickers: []string{"AAPL", "MSFT"}}
	poller := NewNewsPoller(testTracer, ingester, lister, 60)

	ctx, cancel := context.WithCancel(context.Background())
	go poller.Start(ctx)

	eventually(t, func() bool { return len(ingester.calls()) == 2 })
	cancel()
}

func TestNewsPollerListErrorSkipsRun(t *testing.T) {
	ingester := &stubIngester{}
	lister := &stubTickerLister{err: errors.New("connection refused")}
	poller := NewNewsPoller(testTracer, ingester, lister, 60)

	poller.pollOnce(context.Background())
	if len(ingester.calls()) != 0 {
		t.Fatalf("expected no ingests when listing fails, got %v", ingester.calls())
	}
}

func eventually(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met")
}
