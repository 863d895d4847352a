package pricer

import "stock-report-engine/internal/domain"

// Validate reports whether a quote is structurally trustworthy: all required
// fields present and a positive last traded price. It deliberately ignores
// Err and Source, so a degraded mock quote with a positive placeholder price
// passes; callers must check provenance separately.
func Validate(quote domain.PriceQuote) bool {
	if quote.Ticker == "" || quote.Currency == "" {
		return false
	}
	if quote.ChangeAbs == "" || quote.ChangePct == "" {
		return false
	}
	return quote.LastTradedPrice > 0
}
