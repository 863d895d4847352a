package pricer

import (
	"context"
	"log"
	"strconv"
	"strings"
	"time"
)

// selectorStrategy is one extraction attempt: wait for a selector, read its
// text, accept it only if it parses to a positive price. Stages hold an
// ordered list of these and take the first match.
type selectorStrategy struct {
	selector string
}

// Attempt returns the raw price text and parsed value, or ok=false if the
// selector did not match within timeout or its text is not a usable price.
func (s selectorStrategy) Attempt(ctx context.Context, page Page, timeout time.Duration) (string, float64, bool) {
	text, err := page.Text(ctx, s.selector, timeout)
	if err != nil {
		log.Printf("price selector %s failed: %v", s.selector, err)
		return "", 0, false
	}
	price, ok := parsePrice(text)
	if !ok {
		return "", 0, false
	}
	return text, price, true
}

// parsePrice strips every character except digits, dot, and minus before
// parsing. Zero, negative, and unparseable values are rejected.
func parsePrice(text string) (float64, bool) {
	var b strings.Builder
	for _, r := range text {
		if (r >= '0' && r <= '9') || r == '.' || r == '-' {
			b.WriteRune(r)
		}
	}
	price, err := strconv.ParseFloat(b.String(), 64)
	if err != nil || price <= 0 {
		return 0, false
	}
	return price, true
}
