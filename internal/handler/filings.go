package handler

import (
	"net/http"
	"time"

	"stock-report-engine/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

type addFilingRequest struct {
	CompanyID  string     `json:"company_id" binding:"required"`
	FilingType string     `json:"filing_type" binding:"required"`
	FilingDate *time.Time `json:"filing_date"`
	FileURL    string     `json:"file_url"`
}

// AddFiling godoc
// @Summary      Record a company filing
// @Description  Stores a filing reference for later embedding
// @Tags         filings
// @Accept       json
// @Produce      json
// @Param        filing  body  addFilingRequest  true  "Filing details"
// @Success      201  {object}  domain.Filing
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/filings [post]
func (h *Handler) AddFiling(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.add-filing")
	defer span.End()

	var req addFilingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "company_id and filing_type are required"})
		return
	}
	span.SetAttributes(attribute.String("company_id", req.CompanyID))

	filing, err := h.filings.AddFiling(ctx, domain.Filing{
		CompanyID:  req.CompanyID,
		FilingType: req.FilingType,
		FilingDate: req.FilingDate,
		FileURL:    req.FileURL,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, filing)
}

// ListFilings godoc
// @Summary      List filings for a company
// @Tags         filings
// @Produce      json
// @Param        id  path  string  true  "Company ID"
// @Success      200  {array}  domain.Filing
// @Failure      500  {object}  map[string]string
// @Router       /api/companies/{id}/filings [get]
func (h *Handler) ListFilings(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.list-filings")
	defer span.End()

	filings, err := h.filings.GetFilingsByCompany(ctx, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if filings == nil {
		filings = []domain.Filing{}
	}
	c.JSON(http.StatusOK, filings)
}

// MarkFilingEmbedded godoc
// @Summary      Mark a filing as embedded
// @Tags         filings
// @Produce      json
// @Param        id  path  string  true  "Filing ID"
// @Success      200  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/filings/{id}/embedded [post]
func (h *Handler) MarkFilingEmbedded(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.mark-filing-embedded")
	defer span.End()

	if err := h.filings.MarkFilingEmbedded(ctx, c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "embedded"})
}
