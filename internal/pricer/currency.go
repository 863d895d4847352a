package pricer

import "strings"

// suffixCurrency maps exchange suffixes to their trading currency.
var suffixCurrency = map[string]string{
	".NS": "INR",
	".BO": "INR",
	".L":  "GBP",
	".TO": "CAD",
	".HK": "HKD",
	".SI": "SGD",
}

// DetermineCurrency infers an ISO 4217 code from the ticker suffix, then
// from currency symbols in the raw price text, defaulting to USD. Best
// effort, not authoritative.
func DetermineCurrency(ticker, priceText string) string {
	for suffix, currency := range suffixCurrency {
		if strings.HasSuffix(ticker, suffix) {
			return currency
		}
	}

	if priceText != "" {
		switch {
		case strings.Contains(priceText, "₹"):
			return "INR"
		case strings.Contains(priceText, "£"):
			return "GBP"
		case strings.Contains(priceText, "€"):
			return "EUR"
		case strings.Contains(priceText, "¥"):
			return "JPY"
		case strings.Contains(priceText, "$") && strings.HasSuffix(ticker, ".TO"):
			return "CAD"
		case strings.Contains(priceText, "$"):
			return "USD"
		}
	}

	return "USD"
}
