package job

import (
	"context"
	"log"
	"time"

	"stock-report-engine/internal/service"

	"go.opentelemetry.io/otel/trace"
)

// NewsPoller periodically re-ingests news for every tracked ticker.
type NewsPoller struct {
	tracer       trace.Tracer
	ingester     NewsIngester
	tickers      TickerLister
	pollInterval time.Duration
}

type NewsIngester interface {
	Ingest(ctx context.Context, ticker string) (*service.IngestResult, error)
}

type TickerLister interface {
	ListTickers(ctx context.Context) ([]string, error)
}

func NewNewsPoller(tracer trace.Tracer, ingester NewsIngester, tickers TickerLister, pollIntervalSecs int) *NewsPoller {
	return &NewsPoller{
		tracer:       tracer,
		ingester:     ingester,
		tickers:      tickers,
		pollInterval: time.Duration(pollIntervalSecs) * time.Second,
	}
}

// Start launches the polling loop. Blocks until ctx is cancelled.
func (p *NewsPoller) Start(ctx context.Context) {
	log.Println("News poller starting...")

	// Run immediately on start
	p.pollOnce(ctx)

	ticker := time.NewTicker(p.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("News poller stopped")
			return
		case <-ticker.C:
			p.pollOnce(ctx)
		}
	}
}

func (p *NewsPoller) pollOnce(ctx context.Context) {
	ctx, span := p.tracer.Start(ctx, "news-poller.poll")
	defer span.End()

	tickers, err := p.tickers.ListTickers(ctx)
	if err != nil {
		log.Printf("news poller: list tickers error: %v", err)
		return
	}

	for _, symbol := range tickers {
		select {
		case <-ctx.Done():
			return
		default:
		}
		result, err := p.ingester.Ingest(ctx, symbol)
		if err != nil {
			log.Printf("news poller: ingest error for %s: %v", symbol, err)
			continue
		}
		log.Printf("news poller: %s fetched %d, inserted %d, duplicates %d",
			symbol, result.Fetched, result.Inserted, result.Duplicates)
	}
}
