package newsfeed

import (
	"fmt"
	"strings"
	"time"

	"stock-report-engine/internal/domain"
)

// deterministicBase is the fixed base time used when callers need
// reproducible timestamps (duplicate-detection tests depend on it).
var deterministicBase = time.Date(2025, time.September, 6, 12, 0, 0, 0, time.UTC)

type mockTemplate struct {
	headline  string
	summary   string
	ageOffset time.Duration
	urlPath   string
	source    string
	sentiment string
}

var mockTemplates = []mockTemplate{
	{
		headline:  "%s Reports Strong Quarterly Earnings",
		summary:   "%s exceeded expectations with strong quarterly results, showing robust growth in key business segments.",
		ageOffset: 2 * time.Hour,
		urlPath:   "news/%s-earnings",
		source:    "Financial Times",
		sentiment: "positive",
	},
	{
		headline:  "Market Analysis: %s Shows Bullish Momentum",
		summary:   "Technical indicators suggest %s is positioned for continued growth with strong support levels.",
		ageOffset: 6 * time.Hour,
		urlPath:   "analysis/%s-momentum",
		source:    "MarketWatch",
		sentiment: "positive",
	},
	{
		headline:  "%s Announces Strategic Partnership",
		summary:   "%s has entered into a strategic partnership to expand its market presence and technological capabilities.",
		ageOffset: 24 * time.Hour,
		urlPath:   "news/%s-partnership",
		source:    "Reuters",
		sentiment: "positive",
	},
	{
		headline:  "Industry Outlook: Challenges and Opportunities for %s",
		summary:   "Analysts discuss the current market conditions and their potential impact on %s's future performance.",
		ageOffset: 36 * time.Hour,
		urlPath:   "outlook/%s-industry",
		source:    "Bloomberg",
		sentiment: "neutral",
	},
}

// syntheticArticles produces the fixed template set for a ticker with
// timestamps offset backward from base.
func syntheticArticles(ticker string, base time.Time) []domain.NewsArticle {
	slug := strings.ToLower(ticker)
	articles := make([]domain.NewsArticle, 0, len(mockTemplates))
	for _, tpl := range mockTemplates {
		articles = append(articles, domain.NewsArticle{
			Headline:    fmt.Sprintf(tpl.headline, ticker),
			Summary:     fmt.Sprintf(tpl.summary, ticker),
			PublishedAt: base.Add(-tpl.ageOffset).UTC().Format(time.RFC3339Nano),
			URL:         "https://example.com/" + fmt.Sprintf(tpl.urlPath, slug),
			Source:      tpl.source,
			Sentiment:   tpl.sentiment,
		})
	}
	return articles
}
