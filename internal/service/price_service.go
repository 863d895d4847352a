package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"stock-report-engine/internal/domain"
	"stock-report-engine/internal/pricer"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
)

const quoteCacheTTL = 90 * time.Second

// QuoteFetcher is the price resolution engine behind the service.
type QuoteFetcher interface {
	Fetch(ctx context.Context, ticker string) (domain.PriceQuote, pricer.Outcome)
}

type RedisClient interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Get(ctx context.Context, key string) *redis.StringCmd
}

// PriceService fronts the scrape engine with a short-lived Redis cache.
// Degraded (mock) quotes are served to callers but never cached, so the next
// request retries the real providers.
type PriceService struct {
	tracer  trace.Tracer
	fetcher QuoteFetcher
	redis   RedisClient
}

func NewPriceService(tracer trace.Tracer, fetcher QuoteFetcher, redisClient RedisClient) *PriceService {
	return &PriceService{
		tracer:  tracer,
		fetcher: fetcher,
		redis:   redisClient,
	}
}

// GetQuote returns the current quote for a ticker, from cache when fresh.
func (s *PriceService) GetQuote(ctx context.Context, ticker string) (domain.PriceQuote, pricer.Outcome) {
	ctx, span := s.tracer.Start(ctx, "price-service.get-quote")
	defer span.End()

	if s.redis != nil {
		cached, err := s.getQuoteCache(ctx, ticker)
		if err != nil {
			log.Printf("redis cache read error: %v", err)
		}
		if cached != nil {
			return *cached, pricer.OutcomePrimary
		}
	}

	quote, outcome := s.fetcher.Fetch(ctx, ticker)
	if s.redis != nil && outcome != pricer.OutcomeDegraded && pricer.Validate(quote) {
		if err := s.setQuoteCache(ctx, quote); err != nil {
			log.Printf("redis cache write error for %s: %v", ticker, err)
		}
	}
	return quote, outcome
}

func (s *PriceService) setQuoteCache(ctx context.Context, quote domain.PriceQuote) error {
	data, err := json.Marshal(quote)
	if err != nil {
		return err
	}
	return s.redis.Set(ctx, "quote:"+quote.Ticker, data, quoteCacheTTL).Err()
}

func (s *PriceService) getQuoteCache(ctx context.Context, ticker string) (*domain.PriceQuote, error) {
	data, err := s.redis.Get(ctx, "quote:"+ticker).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var quote domain.PriceQuote
	if err := json.Unmarshal(data, &quote); err != nil {
		return nil, err
	}
	return &quote, nil
}
