package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// GetPrice godoc
// @Summary      Get current price for a ticker
// @Description  Returns the latest quote; a degraded quote carries an error field and mock values
// @Tags         prices
// @Produce      json
// @Param        ticker  path  string  true  "Stock ticker (e.g., AAPL, RELIANCE.NS)"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/prices/{ticker} [get]
func (h *Handler) GetPrice(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-price")
	defer span.End()

	ticker := strings.ToUpper(c.Param("ticker"))
	span.SetAttributes(attribute.String("ticker", ticker))

	quote, outcome := h.priceService.GetQuote(ctx, ticker)
	c.JSON(http.StatusOK, gin.H{
		"quote":   quote,
		"outcome": outcome.String(),
	})
}
