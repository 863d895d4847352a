package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// GetNews godoc
// @Summary      Get stored news for a ticker
// @Description  Returns the most recent stored articles, newest first
// @Tags         news
// @Produce      json
// @Param        ticker  path   string  true   "Stock ticker (e.g., AAPL, RELIANCE.NS)"
// @Param        limit   query  int     false  "Number of articles (default 10, max 100)"  default(10)
// @Success      200  {object}  map[string]interface{}
// @Router       /api/news/{ticker} [get]
func (h *Handler) GetNews(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-news")
	defer span.End()

	ticker := strings.ToUpper(c.Param("ticker"))
	span.SetAttributes(attribute.String("ticker", ticker))

	limit := 10
	if l := c.Query("limit"); l != "" {
		if n, err := strconv.Atoi(l); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	items, err := h.newsService.Latest(ctx, ticker, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"ticker": ticker,
		"count":  len(items),
		"items":  items,
	})
}

// RefreshNews godoc
// @Summary      Refresh news for a ticker
// @Description  Fetches, scores, and stores fresh articles; reports insert and duplicate counts
// @Tags         news
// @Produce      json
// @Param        ticker  path  string  true  "Stock ticker (e.g., AAPL, RELIANCE.NS)"
// @Success      200  {object}  service.IngestResult
// @Failure      500  {object}  map[string]string
// @Router       /api/news/{ticker}/refresh [post]
func (h *Handler) RefreshNews(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.refresh-news")
	defer span.End()

	ticker := strings.ToUpper(c.Param("ticker"))
	span.SetAttributes(attribute.String("ticker", ticker))

	result, err := h.newsService.Ingest(ctx, ticker)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}
