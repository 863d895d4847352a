package repository

import (
	"context"
	"errors"

	"stock-report-engine/internal/domain"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel/trace"
)

type ReportRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewReportRepository(pool PgxPool, tracer trace.Tracer) *ReportRepository {
	return &ReportRepository{pool: pool, tracer: tracer}
}

const reportColumns = `id, user_id, ticker, status, generated_at, COALESCE(pdf_url, '')`

func (r *ReportRepository) CreateReport(ctx context.Context, userID, ticker string) (*domain.Report, error) {
	_, span := r.tracer.Start(ctx, "report-repo.create-report")
	defer span.End()

	var report domain.Report
	err := r.pool.QueryRow(ctx,
		`INSERT INTO reports (user_id, ticker, status) VALUES ($1, $2, 'queued')
		 RETURNING `+reportColumns,
		userID, ticker,
	).Scan(&report.ID, &report.UserID, &report.Ticker, &report.Status, &report.GeneratedAt, &report.PDFURL)
	if err != nil {
		return nil, err
	}
	return &report, nil
}

// UpdateReportStatus moves a report through its lifecycle; pdfURL is only
// written when non-empty.
func (r *ReportRepository) UpdateReportStatus(ctx context.Context, reportID string, status domain.ReportStatus, pdfURL string) (*domain.Report, error) {
	_, span := r.tracer.Start(ctx, "report-repo.update-report-status")
	defer span.End()

	var report domain.Report
	err := r.pool.QueryRow(ctx,
		`UPDATE reports
		 SET status = $2, pdf_url = COALESCE(NULLIF($3, ''), pdf_url)
		 WHERE id = $1
		 RETURNING `+reportColumns,
		reportID, string(status), pdfURL,
	).Scan(&report.ID, &report.UserID, &report.Ticker, &report.Status, &report.GeneratedAt, &report.PDFURL)
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *ReportRepository) GetReport(ctx context.Context, reportID string) (*domain.Report, error) {
	_, span := r.tracer.Start(ctx, "report-repo.get-report")
	defer span.End()

	var report domain.Report
	err := r.pool.QueryRow(ctx,
		`SELECT `+reportColumns+` FROM reports WHERE id = $1`,
		reportID,
	).Scan(&report.ID, &report.UserID, &report.Ticker, &report.Status, &report.GeneratedAt, &report.PDFURL)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (r *ReportRepository) GetReportsByUser(ctx context.Context, userID string) ([]domain.Report, error) {
	_, span := r.tracer.Start(ctx, "report-repo.get-reports-by-user")
	defer span.End()

	return r.queryReports(ctx,
		`SELECT `+reportColumns+` FROM reports WHERE user_id = $1 ORDER BY generated_at DESC`,
		userID)
}

func (r *ReportRepository) GetReportsByTicker(ctx context.Context, ticker string) ([]domain.Report, error) {
	_, span := r.tracer.Start(ctx, "report-repo.get-reports-by-ticker")
	defer span.End()

	return r.queryReports(ctx,
		`SELECT `+reportColumns+` FROM reports WHERE ticker = $1 ORDER BY generated_at DESC`,
		ticker)
}

func (r *ReportRepository) queryReports(ctx context.Context, sql string, args ...any) ([]domain.Report, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []domain.Report
	for rows.Next() {
		var report domain.Report
		if err := rows.Scan(&report.ID, &report.UserID, &report.Ticker, &report.Status, &report.GeneratedAt, &report.PDFURL); err != nil {
			return nil, err
		}
		reports = append(reports, report)
	}
	return reports, rows.Err()
}
