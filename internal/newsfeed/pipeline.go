package newsfeed

import (
	"context"
	"log"
	"sort"
	"time"

	"stock-report-engine/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const maxLiveResults = 10

// Searcher is the external news-search collaborator.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]domain.NewsArticle, error)
}

// Options controls a single fetch run.
type Options struct {
	UseSyntheticData           bool
	UseDeterministicTimestamps bool
}

// Origin reports which branch produced a batch, so callers and tests can
// assert on provenance instead of re-catching errors.
type Origin int

const (
	OriginLive Origin = iota
	OriginSynthetic
)

func (o Origin) String() string {
	if o == OriginLive {
		return "live"
	}
	return "synthetic"
}

// FetchResult is a batch of raw articles plus its provenance. Reason carries
// the cause when a live fetch degraded to synthetic data.
type FetchResult struct {
	Articles []domain.NewsArticle
	Origin   Origin
	Reason   string
}

// Pipeline fetches, deduplicates, scores and orders news per ticker. It is
// stateless per call and owns no persistence.
type Pipeline struct {
	tracer trace.Tracer
	search Searcher
	now    func() time.Time
}

func NewPipeline(tracer trace.Tracer, search Searcher) *Pipeline {
	return &Pipeline{tracer: tracer, search: search, now: time.Now}
}

// Fetch produces a batch of raw articles for the ticker. Live fetch failures
// of any kind (missing credential, transport error, malformed payload) fall
// back to synthetic data rather than propagating; availability wins over
// correctness here. Output order is not guaranteed; call Process to rank.
func (p *Pipeline) Fetch(ctx context.Context, ticker string, opts Options) FetchResult {
	ctx, span := p.tracer.Start(ctx, "newsfeed.fetch")
	defer span.End()
	span.SetAttributes(attribute.String("ticker", ticker))

	if opts.UseSyntheticData {
		return p.synthetic(ticker, opts, "")
	}
	if p.search == nil {
		return p.synthetic(ticker, opts, "no news search collaborator configured")
	}

	articles, err := p.search.Search(ctx, CleanTicker(ticker), maxLiveResults)
	if err != nil {
		log.Printf("news fetch for %s failed, falling back to synthetic data: %v", ticker, err)
		span.RecordError(err)
		return p.synthetic(ticker, opts, err.Error())
	}

	span.SetAttributes(attribute.Int("articles", len(articles)))
	return FetchResult{Articles: articles, Origin: OriginLive}
}

func (p *Pipeline) synthetic(ticker string, opts Options, reason string) FetchResult {
	base := p.now()
	if opts.UseDeterministicTimestamps {
		base = deterministicBase
	}
	return FetchResult{
		Articles: syntheticArticles(ticker, base),
		Origin:   OriginSynthetic,
		Reason:   reason,
	}
}

// Process computes fingerprints and relevance scores, drops low-relevance
// articles, and sorts the survivors newest first. If any article in the
// batch carries an unparseable timestamp the whole batch fails safe to an
// empty result; a partial ranking would be worse than none.
func (p *Pipeline) Process(articles []domain.NewsArticle, ticker string) []domain.ProcessedNewsArticle {
	now := p.now()
	processed := make([]domain.ProcessedNewsArticle, 0, len(articles))
	for _, article := range articles {
		publishedAt, err := parseTimestamp(article.PublishedAt)
		if err != nil {
			log.Printf("discarding news batch for %s: bad timestamp %q: %v", ticker, article.PublishedAt, err)
			return []domain.ProcessedNewsArticle{}
		}
		score := relevanceScore(article, ticker, publishedAt, now)
		if score <= relevanceFloor {
			continue
		}
		processed = append(processed, domain.ProcessedNewsArticle{
			NewsArticle:    article,
			Ticker:         ticker,
			Fingerprint:    Fingerprint(ticker, article.Headline, publishedAt),
			RelevanceScore: score,
			PublishedTime:  publishedAt,
		})
	}

	sort.SliceStable(processed, func(i, j int) bool {
		return processed[i].PublishedTime.After(processed[j].PublishedTime)
	})
	return processed
}

func parseTimestamp(v string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
