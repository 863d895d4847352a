package report

import "fmt"

// BuildPrompt renders the analyst prompt for a ticker.
func BuildPrompt(ticker string) string {
	return fmt.Sprintf(`Generate a comprehensive stock analysis report for %s. Include:
  1. Company Overview
  2. Financial Performance Analysis
  3. Market Position and Competitive Analysis
  4. Risk Assessment
  5. Investment Recommendation

  Format the report in a professional, structured manner suitable for PDF generation.`, ticker)
}
