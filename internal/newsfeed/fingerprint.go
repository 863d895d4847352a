package newsfeed

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Fingerprint derives the dedup key for an article: ticker plus the
// normalized headline plus the publish instant in unix millis. Two articles
// with the same ticker, headline text, and publish instant collide; that is
// the sole duplicate-detection mechanism, independent of any DB constraint.
func Fingerprint(ticker, headline string, publishedAt time.Time) string {
	return fmt.Sprintf("%s-%s:%d", ticker, normalizeHeadline(headline), publishedAt.UnixMilli())
}

// normalizeHeadline lower-cases the headline and collapses whitespace runs
// to single hyphens.
func normalizeHeadline(headline string) string {
	return strings.ToLower(whitespaceRun.ReplaceAllString(strings.TrimSpace(headline), "-"))
}

// CleanTicker strips trailing exchange suffixes (.NS, .BO, .L, .TO, .HK, .SI)
// so search queries hit the bare symbol.
func CleanTicker(ticker string) string {
	for _, suffix := range []string{".NS", ".BO", ".L", ".TO", ".HK", ".SI"} {
		if strings.HasSuffix(ticker, suffix) {
			return strings.TrimSuffix(ticker, suffix)
		}
	}
	return ticker
}
