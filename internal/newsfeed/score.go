package newsfeed

import (
	"strings"
	"time"

	"stock-report-engine/internal/domain"
)

const (
	baseScore     = 0.5
	headlineBonus = 0.3
	summaryBonus  = 0.2
	recencyBonus  = 0.1
	recencyWindow = 24 * time.Hour
	maxScore      = 1.0
	// relevanceFloor is kept at its historical value even though the base
	// score makes it unreachable today. Do not "fix" the scoring formula
	// around it without confirming intended behavior.
	relevanceFloor = 0.3
)

// relevanceScore rates an article's pertinence to a ticker: 0.5 base, +0.3
// if the ticker appears verbatim in the headline, +0.2 if in the summary,
// +0.1 if published within the last 24 hours, capped at 1.0.
func relevanceScore(article domain.NewsArticle, ticker string, publishedAt, now time.Time) float64 {
	score := baseScore
	if strings.Contains(article.Headline, ticker) {
		score += headlineBonus
	}
	if strings.Contains(article.Summary, ticker) {
		score += summaryBonus
	}
	if now.Sub(publishedAt) < recencyWindow {
		score += recencyBonus
	}
	if score > maxScore {
		score = maxScore
	}
	return score
}
