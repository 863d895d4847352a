package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"stock-report-engine/internal/domain"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const pdfCacheTTL = 24 * time.Hour

// ReportGenerator produces the analyst report text for a ticker.
type ReportGenerator interface {
	Generate(ctx context.Context, ticker string) (string, error)
}

// PDFRenderer turns report text into PDF bytes.
type PDFRenderer func(ticker, content string, generatedAt time.Time) ([]byte, error)

type ReportStore interface {
	CreateReport(ctx context.Context, userID, ticker string) (*domain.Report, error)
	UpdateReportStatus(ctx context.Context, reportID string, status domain.ReportStatus, pdfURL string) (*domain.Report, error)
	GetReport(ctx context.Context, reportID string) (*domain.Report, error)
	GetReportsByUser(ctx context.Context, userID string) ([]domain.Report, error)
	GetReportsByTicker(ctx context.Context, ticker string) ([]domain.Report, error)
}

// ReportService drives the report lifecycle: queued on creation, running
// while the LLM and renderer work, then done with a PDF or failed with the
// generation error propagated.
type ReportService struct {
	tracer    trace.Tracer
	reports   ReportStore
	generator ReportGenerator
	render    PDFRenderer
	news      *NewsService
	prices    *PriceService
	redis     RedisClient
	now       func() time.Time
}

func NewReportService(
	tracer trace.Tracer,
	reports ReportStore,
	generator ReportGenerator,
	render PDFRenderer,
	news *NewsService,
	prices *PriceService,
	redisClient RedisClient,
) *ReportService {
	return &ReportService{
		tracer:    tracer,
		reports:   reports,
		generator: generator,
		render:    render,
		news:      news,
		prices:    prices,
		redis:     redisClient,
		now:       time.Now,
	}
}

// Generate runs a full report for the user and ticker. The price quote and
// news ingest are best-effort context gathering; only LLM or PDF failures
// mark the report failed.
func (s *ReportService) Generate(ctx context.Context, userID, ticker string) (*domain.Report, error) {
	ctx, span := s.tracer.Start(ctx, "report-service.generate")
	defer span.End()
	span.SetAttributes(attribute.String("ticker", ticker))

	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return nil, fmt.Errorf("ticker is required")
	}
	if s.generator == nil {
		return nil, fmt.Errorf("report generation disabled: no LLM configured")
	}

	report, err := s.reports.CreateReport(ctx, userID, ticker)
	if err != nil {
		return nil, fmt.Errorf("create report: %w", err)
	}

	report, err = s.reports.UpdateReportStatus(ctx, report.ID, domain.ReportRunning, "")
	if err != nil {
		return nil, fmt.Errorf("mark report running: %w", err)
	}

	if s.prices != nil {
		quote, outcome := s.prices.GetQuote(ctx, ticker)
		log.Printf("report %s: price for %s via %s: %.2f %s", report.ID, ticker, outcome, quote.LastTradedPrice, quote.Currency)
	}
	if s.news != nil {
		if ingest, err := s.news.Ingest(ctx, ticker); err != nil {
			log.Printf("report %s: news ingest for %s failed: %v", report.ID, ticker, err)
		} else {
			log.Printf("report %s: news ingest for %s: %d fetched, %d new", report.ID, ticker, ingest.Fetched, ingest.Inserted)
		}
	}

	content, err := s.generator.Generate(ctx, ticker)
	if err != nil {
		span.RecordError(err)
		s.markFailed(ctx, report.ID)
		return nil, err
	}

	pdfBytes, err := s.render(ticker, content, s.now().UTC())
	if err != nil {
		span.RecordError(err)
		s.markFailed(ctx, report.ID)
		return nil, err
	}

	if s.redis != nil {
		if err := s.redis.Set(ctx, pdfCacheKey(report.ID), pdfBytes, pdfCacheTTL).Err(); err != nil {
			log.Printf("report %s: pdf cache write failed: %v", report.ID, err)
		}
	}

	report, err = s.reports.UpdateReportStatus(ctx, report.ID, domain.ReportDone, "/api/reports/"+report.ID+"/pdf")
	if err != nil {
		return nil, fmt.Errorf("mark report done: %w", err)
	}
	return report, nil
}

// GetReport returns a single report, nil when not found.
func (s *ReportService) GetReport(ctx context.Context, reportID string) (*domain.Report, error) {
	return s.reports.GetReport(ctx, reportID)
}

func (s *ReportService) GetReportsByUser(ctx context.Context, userID string) ([]domain.Report, error) {
	return s.reports.GetReportsByUser(ctx, userID)
}

func (s *ReportService) GetReportsByTicker(ctx context.Context, ticker string) ([]domain.Report, error) {
	return s.reports.GetReportsByTicker(ctx, ticker)
}

// GetPDF returns the cached PDF bytes for a report, nil when expired or
// never generated.
func (s *ReportService) GetPDF(ctx context.Context, reportID string) ([]byte, error) {
	_, span := s.tracer.Start(ctx, "report-service.get-pdf")
	defer span.End()

	if s.redis == nil {
		return nil, nil
	}
	data, err := s.redis.Get(ctx, pdfCacheKey(reportID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (s *ReportService) markFailed(ctx context.Context, reportID string) {
	if _, err := s.reports.UpdateReportStatus(ctx, reportID, domain.ReportFailed, ""); err != nil {
		log.Printf("mark report %s failed: %v", reportID, err)
	}
}

func pdfCacheKey(reportID string) string {
	return "report-pdf:" + reportID
}
