package pricer

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"time"

	"stock-report-engine/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	sourceYahoo  = "Yahoo Finance"
	sourceGoogle = "Google Finance"
	sourceMock   = "Mock Data (Error Fallback)"

	mockPrice     = 150.75
	mockChangeAbs = "+2.35"
	mockChangePct = "+1.58%"

	defaultSelectorTimeout = 5 * time.Second
	defaultPageTimeout     = 30 * time.Second

	changeAbsSelector = `[data-field="regularMarketChange"]`
	changePctSelector = `[data-field="regularMarketChangePercent"]`
)

// Outcome reports which stage of the fallback chain produced the quote.
type Outcome int

const (
	OutcomePrimary Outcome = iota
	OutcomeSecondary
	OutcomeDegraded
)

func (o Outcome) String() string {
	switch o {
	case OutcomePrimary:
		return "primary"
	case OutcomeSecondary:
		return "secondary"
	default:
		return "degraded"
	}
}

// Engine resolves a price quote via primary scrape, secondary scrape, then
// mock degradation. Every call gets its own browser session, torn down on
// all exit paths. Fetch never fails: callers always receive a structurally
// valid quote and an Outcome saying how authoritative it is.
type Engine struct {
	tracer          trace.Tracer
	sessions        SessionFactory
	selectorTimeout time.Duration
	now             func() time.Time
}

func NewEngine(tracer trace.Tracer, sessions SessionFactory, selectorTimeout time.Duration) *Engine {
	if selectorTimeout <= 0 {
		selectorTimeout = defaultSelectorTimeout
	}
	return &Engine{
		tracer:          tracer,
		sessions:        sessions,
		selectorTimeout: selectorTimeout,
		now:             time.Now,
	}
}

type stage struct {
	source     string
	url        string
	strategies []selectorStrategy
	withChange bool
}

func yahooStage(ticker string) stage {
	return stage{
		source: sourceYahoo,
		url:    "https://finance.yahoo.com/quote/" + url.PathEscape(ticker),
		strategies: []selectorStrategy{
			{selector: `[data-testid="qsp-price"]`},
			{selector: `[data-field="regularMarketPrice"]`},
			{selector: `fin-streamer[data-field="regularMarketPrice"]`},
			{selector: `[data-symbol="` + ticker + `"] [data-field="regularMarketPrice"]`},
		},
		withChange: true,
	}
}

func googleStage(ticker string) stage {
	return stage{
		source: sourceGoogle,
		url:    "https://www.google.com/search?q=" + url.QueryEscape(ticker+" share price"),
		strategies: []selectorStrategy{
			{selector: `[jsname='vWLAgc']`},
			{selector: `[data-attrid='Price'] .notranslate`},
			{selector: `.XcVN5d`},
			{selector: `.IsqQVc`},
		},
	}
}

// Fetch walks the fallback chain for the ticker. The returned quote is
// always structurally valid; a degraded quote carries the last failure in
// its Err field and a mock placeholder price.
func (e *Engine) Fetch(ctx context.Context, ticker string) (domain.PriceQuote, Outcome) {
	ctx, span := e.tracer.Start(ctx, "pricer.fetch")
	defer span.End()
	span.SetAttributes(attribute.String("ticker", ticker))

	session, err := e.sessions(ctx)
	if err != nil {
		span.RecordError(err)
		return e.mockQuote(ticker, fmt.Errorf("launch browser: %w", err)), OutcomeDegraded
	}
	defer session.Close()

	quote, primaryErr := e.runStage(ctx, session, ticker, yahooStage(ticker))
	if primaryErr == nil {
		span.SetAttributes(attribute.String("outcome", OutcomePrimary.String()))
		return quote, OutcomePrimary
	}
	log.Printf("primary price fetch for %s failed: %v", ticker, primaryErr)

	quote, secondaryErr := e.runStage(ctx, session, ticker, googleStage(ticker))
	if secondaryErr == nil {
		span.SetAttributes(attribute.String("outcome", OutcomeSecondary.String()))
		return quote, OutcomeSecondary
	}
	log.Printf("secondary price fetch for %s failed: %v", ticker, secondaryErr)

	span.SetAttributes(attribute.String("outcome", OutcomeDegraded.String()))
	return e.mockQuote(ticker, fmt.Errorf("both %s and %s failed: %v", sourceYahoo, sourceGoogle, secondaryErr)), OutcomeDegraded
}

func (e *Engine) runStage(ctx context.Context, session Session, ticker string, st stage) (domain.PriceQuote, error) {
	ctx, span := e.tracer.Start(ctx, "pricer.stage")
	defer span.End()
	span.SetAttributes(attribute.String("source", st.source))

	if err := session.Navigate(ctx, st.url); err != nil {
		return domain.PriceQuote{}, fmt.Errorf("navigate %s: %w", st.url, err)
	}

	var priceText string
	var price float64
	found := false
	for _, strat := range st.strategies {
		if text, value, ok := strat.Attempt(ctx, session, e.selectorTimeout); ok {
			priceText, price = text, value
			found = true
			break
		}
	}
	if !found {
		return domain.PriceQuote{}, fmt.Errorf("could not find price on %s", st.source)
	}

	changeAbs, changePct := "N/A", "N/A"
	if st.withChange {
		if text, err := session.Text(ctx, changeAbsSelector, e.selectorTimeout); err == nil && text != "" {
			changeAbs = text
		}
		if text, err := session.Text(ctx, changePctSelector, e.selectorTimeout); err == nil && text != "" {
			changePct = text
		}
	}

	return domain.PriceQuote{
		Ticker:          ticker,
		LastTradedPrice: price,
		ChangeAbs:       changeAbs,
		ChangePct:       changePct,
		Currency:        DetermineCurrency(ticker, priceText),
		Timestamp:       e.now().UTC(),
		Source:          st.source,
	}, nil
}

func (e *Engine) mockQuote(ticker string, cause error) domain.PriceQuote {
	return domain.PriceQuote{
		Ticker:          ticker,
		LastTradedPrice: mockPrice,
		ChangeAbs:       mockChangeAbs,
		ChangePct:       mockChangePct,
		Currency:        DetermineCurrency(ticker, ""),
		Timestamp:       e.now().UTC(),
		Source:          sourceMock,
		Err:             cause.Error(),
		Note:            "Price fetching encountered an error, using mock data",
	}
}
