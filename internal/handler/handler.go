package handler

import (
	"context"

	"stock-report-engine/internal/domain"
	"stock-report-engine/internal/service"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
)

// UserStore is the slice of the user repository the handlers need.
type UserStore interface {
	CreateUser(ctx context.Context, email string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
}

// FilingStore is the slice of the filing repository the handlers need.
type FilingStore interface {
	AddFiling(ctx context.Context, filing domain.Filing) (*domain.Filing, error)
	GetFilingsByCompany(ctx context.Context, companyID string) ([]domain.Filing, error)
	MarkFilingEmbedded(ctx context.Context, filingID string) error
}

type Handler struct {
	tracer        trace.Tracer
	users         UserStore
	filings       FilingStore
	reportService *service.ReportService
	newsService   *service.NewsService
	priceService  *service.PriceService
}

func New(
	tracer trace.Tracer,
	users UserStore,
	filings FilingStore,
	reportService *service.ReportService,
	newsService *service.NewsService,
	priceService *service.PriceService,
) *Handler {
	return &Handler{
		tracer:        tracer,
		users:         users,
		filings:       filings,
		reportService: reportService,
		newsService:   newsService,
		priceService:  priceService,
	}
}

// RegisterRoutes wires all endpoints. Health stays open; everything under
// /api is behind the API key when one is configured.
func (h *Handler) RegisterRoutes(r *gin.Engine, apiKey string) {
	r.GET("/health", h.Health)

	api := r.Group("/api", APIKeyAuth(apiKey))
	api.POST("/users", h.CreateUser)
	api.POST("/reports", h.GenerateReport)
	api.GET("/reports", h.ListReports)
	api.GET("/reports/:id", h.GetReport)
	api.GET("/reports/:id/pdf", h.GetReportPDF)
	api.POST("/filings", h.AddFiling)
	api.GET("/companies/:id/filings", h.ListFilings)
	api.POST("/filings/:id/embedded", h.MarkFilingEmbedded)
	api.GET("/news/:ticker", h.GetNews)
	api.POST("/news/:ticker/refresh", h.RefreshNews)
	api.GET("/prices/:ticker", h.GetPrice)
}
