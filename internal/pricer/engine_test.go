package pricer

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace"
)

var testTracer = trace.NewNoopTracerProvider().Tracer("test")

type fakeSession struct {
	texts  map[string]string
	navErr error
	urls   []string
	closed int
}

func (s *fakeSession) Navigate(ctx context.Context, url string) error {
	s.urls = append(s.urls, url)
	return s.navErr
}

func (s *fakeSession) Text(ctx context.Context, selector string, timeout time.Duration) (string, error) {
	if v, ok := s.texts[selector]; ok {
		return v, nil
	}
	return "", errors.New("selector timeout")
}

func (s *fakeSession) Close() { s.closed++ }

func factoryFor(session Session, err error) SessionFactory {
	return func(ctx context.Context) (Session, error) {
		if err != nil {
			return nil, err
		}
		return session, nil
	}
}

func TestFetchPrimarySuccess(t *testing.T) {
	t.Parallel()

	session := &fakeSession{texts: map[string]string{
		`[data-testid="qsp-price"]`:                 "189.43",
		`[data-field="regularMarketChange"]`:        "+1.20",
		`[data-field="regularMarketChangePercent"]`: "+0.64%",
	}}
	e := NewEngine(testTracer, factoryFor(session, nil), time.Second)

	quote, outcome := e.Fetch(context.Background(), "AAPL")
	if outcome != OutcomePrimary {
		t.Fatalf("expected primary outcome, got %v", outcome)
	}
	if quote.Source != "Yahoo Finance" {
		t.Fatalf("unexpected source %q", quote.Source)
	}
	if quote.LastTradedPrice != 189.43 {
		t.Fatalf("unexpected price %v", quote.LastTradedPrice)
	}
	if quote.ChangeAbs != "+1.20" || quote.ChangePct != "+0.64%" {
		t.Fatalf("unexpected change fields: %q %q", quote.ChangeAbs, quote.ChangePct)
	}
	if quote.Err != "" {
		t.Fatalf("healthy quote must not carry an error, got %q", quote.Err)
	}
	if session.closed != 1 {
		t.Fatalf("expected session closed once, got %d", session.closed)
	}
}

func TestFetchSecondaryFallback(t *testing.T) {
	t.Parallel()

	session := &fakeSession{texts: map[string]string{
		`[jsname='vWLAgc']`: "1,234.50",
	}}
	e := NewEngine(testTracer, factoryFor(session, nil), time.Second)

	quote, outcome := e.Fetch(context.Background(), "AAPL")
	if outcome != OutcomeSecondary {
		t.Fatalf("expected secondary outcome, got %v", outcome)
	}
	if quote.Source != "Google Finance" {
		t.Fatalf("unexpected source %q", quote.Source)
	}
	if quote.LastTradedPrice != 1234.50 {
		t.Fatalf("unexpected price %v", quote.LastTradedPrice)
	}
	if quote.ChangeAbs != "N/A" || quote.ChangePct != "N/A" {
		t.Fatalf("secondary source has no change data, got %q %q", quote.ChangeAbs, quote.ChangePct)
	}
	if len(session.urls) != 2 {
		t.Fatalf("expected yahoo then google navigation, got %v", session.urls)
	}
	if !strings.Contains(session.urls[0], "finance.yahoo.com") || !strings.Contains(session.urls[1], "google.com") {
		t.Fatalf("unexpected navigation order: %v", session.urls)
	}
	if session.closed != 1 {
		t.Fatalf("expected session closed once, got %d", session.closed)
	}
}

func TestFetchDegradedWhenBothFail(t *testing.T) {
	t.Parallel()

	session := &fakeSession{}
	e := NewEngine(testTracer, factoryFor(session, nil), time.Second)

	quote, outcome := e.Fetch(context.Background(), "AAPL")
	if outcome != OutcomeDegraded {
		t.Fatalf("expected degraded outcome, got %v", outcome)
	}
	if quote.Source != "Mock Data (Error Fallback)" {
		t.Fatalf("unexpected source %q", quote.Source)
	}
	if quote.LastTradedPrice != 150.75 {
		t.Fatalf("unexpected placeholder price %v", quote.LastTradedPrice)
	}
	if quote.ChangeAbs != "+2.35" || quote.ChangePct != "+1.58%" {
		t.Fatalf("unexpected placeholder change: %q %q", quote.ChangeAbs, quote.ChangePct)
	}
	if quote.Err == "" {
		t.Fatal("degraded quote must carry the failure cause")
	}
	if quote.Note == "" {
		t.Fatal("degraded quote must carry the mock-data note")
	}
	if !Validate(quote) {
		t.Fatal("degraded quote must still be structurally valid")
	}
	if session.closed != 1 {
		t.Fatalf("expected session closed once, got %d", session.closed)
	}
}

func TestFetchDegradedWhenBrowserLaunchFails(t *testing.T) {
	t.Parallel()

	e := NewEngine(testTracer, factoryFor(nil, errors.New("no chrome binary")), time.Second)

	quote, outcome := e.Fetch(context.Background(), "AAPL")
	if outcome != OutcomeDegraded {
		t.Fatalf("expected degraded outcome, got %v", outcome)
	}
	if !strings.Contains(quote.Err, "launch browser") {
		t.Fatalf("expected launch error surfaced, got %q", quote.Err)
	}
}

func TestFetchDegradedCurrencyFromSuffix(t *testing.T) {
	t.Parallel()

	session := &fakeSession{navErr: errors.New("net::ERR_TIMED_OUT")}
	e := NewEngine(testTracer, factoryFor(session, nil), time.Second)

	quote, _ := e.Fetch(context.Background(), "BIRLACORP.NS")
	if quote.Currency != "INR" {
		t.Fatalf("expected INR from .NS suffix, got %q", quote.Currency)
	}
	if quote.Ticker != "BIRLACORP.NS" {
		t.Fatalf("ticker must stay unmodified, got %q", quote.Ticker)
	}
}
