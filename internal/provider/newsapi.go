package provider

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"stock-report-engine/internal/domain"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"go.opentelemetry.io/otel/trace"
)

const newsAPIBaseURL = "https://newsapi.org"

// ErrMissingAPIKey is returned when the NewsAPI credential is absent.
// Callers treat it as a configuration error and fall back to synthetic data.
var ErrMissingAPIKey = errors.New("NEWS_API_KEY not configured")

const removedMarker = "[Removed]"

// NewsAPIClient searches newsapi.org /v2/everything for ticker mentions.
type NewsAPIClient struct {
	client *resty.Client
	apiKey string
	tracer trace.Tracer
}

func NewNewsAPIClient(apiKey string, tracer trace.Tracer) *NewsAPIClient {
	client := resty.New().
		SetBaseURL(newsAPIBaseURL).
		SetTimeout(20 * time.Second).
		SetHeader("User-Agent", "Stock-Report-Engine/1.0")
	return &NewsAPIClient{client: client, apiKey: apiKey, tracer: tracer}
}

// SetBaseURL overrides the API endpoint, used by tests.
func (c *NewsAPIClient) SetBaseURL(url string) {
	c.client.SetBaseURL(url)
}

type newsAPIResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Content     string `json:"content"`
		URL         string `json:"url"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

// Search returns up to limit articles matching the query, sorted by recency
// upstream. Entries with an empty or "[Removed]" headline/summary are dropped.
func (c *NewsAPIClient) Search(ctx context.Context, query string, limit int) ([]domain.NewsArticle, error) {
	_, span := c.tracer.Start(ctx, "newsapi.search")
	defer span.End()

	if strings.TrimSpace(c.apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if limit <= 0 {
		limit = 10
	}

	var payload newsAPIResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":        query,
			"language": "en",
			"sortBy":   "publishedAt",
			"pageSize": strconv.Itoa(limit),
			"apiKey":   c.apiKey,
		}).
		SetResult(&payload).
		Get("/v2/everything")
	if err != nil {
		return nil, fmt.Errorf("newsapi request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("newsapi request failed: %s", resp.Status())
	}
	if payload.Status != "ok" {
		msg := payload.Message
		if msg == "" {
			msg = "unknown error"
		}
		return nil, fmt.Errorf("newsapi error: %s", msg)
	}

	articles := make([]domain.NewsArticle, 0, len(payload.Articles))
	for _, row := range payload.Articles {
		headline := strings.TrimSpace(row.Title)
		summary := htmlToText(row.Description)
		if summary == "" && row.Content != "" {
			content := htmlToText(row.Content)
			if len(content) > 200 {
				content = content[:200] + "..."
			}
			summary = content
		}
		if headline == "" || headline == removedMarker || summary == "" || summary == removedMarker {
			continue
		}

		publishedAt := strings.TrimSpace(row.PublishedAt)
		if publishedAt == "" {
			publishedAt = time.Now().UTC().Format(time.RFC3339)
		}
		source := row.Source.Name
		if source == "" {
			source = "Unknown"
		}
		url := row.URL
		if url == "" {
			url = "#"
		}

		articles = append(articles, domain.NewsArticle{
			Headline:    headline,
			Summary:     summary,
			PublishedAt: publishedAt,
			URL:         url,
			Source:      source,
			Sentiment:   "neutral",
		})
	}

	return articles, nil
}

// htmlToText flattens any HTML markup in upstream descriptions to plain text.
func htmlToText(in string) string {
	in = strings.TrimSpace(in)
	if in == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(in))
	if err != nil {
		return in
	}
	return strings.TrimSpace(doc.Text())
}
