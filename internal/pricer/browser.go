package pricer

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
)

const browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Page is the slice of browser behavior the engine needs: navigate and
// extract text behind a selector, each with its own deadline.
type Page interface {
	Navigate(ctx context.Context, url string) error
	Text(ctx context.Context, selector string, timeout time.Duration) (string, error)
}

// Session is a scoped browser resource. Close must be safe to call exactly
// once on every exit path; the engine defers it unconditionally.
type Session interface {
	Page
	Close()
}

// SessionFactory constructs a fresh session per price-fetch call.
type SessionFactory func(ctx context.Context) (Session, error)

type chromeSession struct {
	ctx         context.Context
	cancels     []context.CancelFunc
	pageTimeout time.Duration
}

// NewChromeSessionFactory returns a factory that launches a headless Chrome
// tab per call. pageTimeout bounds each navigation.
func NewChromeSessionFactory(pageTimeout time.Duration) SessionFactory {
	return func(ctx context.Context) (Session, error) {
		opts := append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.Flag("disable-blink-features", "AutomationControlled"),
			chromedp.UserAgent(browserUserAgent),
			chromedp.WindowSize(1920, 1080),
		)

		allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
		tabCtx, cancelTab := chromedp.NewContext(allocCtx)

		return &chromeSession{
			ctx:         tabCtx,
			cancels:     []context.CancelFunc{cancelTab, cancelAlloc},
			pageTimeout: pageTimeout,
		}, nil
	}
}

func (s *chromeSession) Navigate(ctx context.Context, url string) error {
	runCtx, cancel := context.WithTimeout(s.ctx, s.pageTimeout)
	defer cancel()
	return chromedp.Run(runCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
}

func (s *chromeSession) Text(ctx context.Context, selector string, timeout time.Duration) (string, error) {
	runCtx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()
	var out string
	if err := chromedp.Run(runCtx, chromedp.Text(selector, &out, chromedp.ByQuery)); err != nil {
		return "", err
	}
	return out, nil
}

// Close tears down the tab and the underlying browser process. Cancels run
// innermost first.
func (s *chromeSession) Close() {
	for _, cancel := range s.cancels {
		cancel()
	}
}
