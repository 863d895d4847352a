package handler

import (
	"net/http"
	"strings"

	"stock-report-engine/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

type generateReportRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Ticker string `json:"ticker" binding:"required"`
}

// GenerateReport godoc
// @Summary      Generate a stock report
// @Description  Runs the full report pipeline (price, news, LLM analysis, PDF) for a ticker
// @Tags         reports
// @Accept       json
// @Produce      json
// @Param        report  body  generateReportRequest  true  "User and ticker"
// @Success      201  {object}  domain.Report
// @Failure      400  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/reports [post]
func (h *Handler) GenerateReport(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.generate-report")
	defer span.End()

	var req generateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id and ticker are required"})
		return
	}
	span.SetAttributes(attribute.String("ticker", req.Ticker))

	report, err := h.reportService.Generate(ctx, req.UserID, req.Ticker)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, report)
}

// ListReports godoc
// @Summary      List reports
// @Description  Lists reports for a user or a ticker, newest first
// @Tags         reports
// @Produce      json
// @Param        user_id  query  string  false  "User ID"
// @Param        ticker   query  string  false  "Ticker symbol"
// @Success      200  {array}  domain.Report
// @Failure      400  {object}  map[string]string
// @Router       /api/reports [get]
func (h *Handler) ListReports(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.list-reports")
	defer span.End()

	userID := c.Query("user_id")
	ticker := strings.ToUpper(strings.TrimSpace(c.Query("ticker")))

	var (
		reports []domain.Report
		err     error
	)
	switch {
	case userID != "":
		reports, err = h.reportService.GetReportsByUser(ctx, userID)
	case ticker != "":
		reports, err = h.reportService.GetReportsByTicker(ctx, ticker)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id or ticker query parameter is required"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if reports == nil {
		reports = []domain.Report{}
	}
	c.JSON(http.StatusOK, reports)
}

// GetReport godoc
// @Summary      Get a report
// @Description  Returns a single report with its lifecycle status
// @Tags         reports
// @Produce      json
// @Param        id  path  string  true  "Report ID"
// @Success      200  {object}  domain.Report
// @Failure      404  {object}  map[string]string
// @Router       /api/reports/{id} [get]
func (h *Handler) GetReport(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-report")
	defer span.End()

	report, err := h.reportService.GetReport(ctx, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if report == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
		return
	}
	c.JSON(http.StatusOK, report)
}

// GetReportPDF godoc
// @Summary      Download a report PDF
// @Description  Streams the generated PDF for a completed report
// @Tags         reports
// @Produce      application/pdf
// @Param        id  path  string  true  "Report ID"
// @Success      200  {file}  binary
// @Failure      404  {object}  map[string]string
// @Router       /api/reports/{id}/pdf [get]
func (h *Handler) GetReportPDF(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.get-report-pdf")
	defer span.End()

	reportID := c.Param("id")
	report, err := h.reportService.GetReport(ctx, reportID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if report == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
		return
	}

	pdfBytes, err := h.reportService.GetPDF(ctx, reportID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if pdfBytes == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "pdf not available, regenerate the report"})
		return
	}

	filename := strings.ToLower(report.Ticker) + "-report.pdf"
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", pdfBytes)
}
