package repository

import (
	"context"

	"stock-report-engine/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

type FilingRepository struct {
	pool   PgxPool
	tracer trace.Tracer
}

func NewFilingRepository(pool PgxPool, tracer trace.Tracer) *FilingRepository {
	return &FilingRepository{pool: pool, tracer: tracer}
}

const filingColumns = `id, company_id, filing_type, filing_date, COALESCE(file_url, ''), embedded`

func (r *FilingRepository) AddFiling(ctx context.Context, filing domain.Filing) (*domain.Filing, error) {
	_, span := r.tracer.Start(ctx, "filing-repo.add-filing")
	defer span.End()

	var out domain.Filing
	err := r.pool.QueryRow(ctx,
		`INSERT INTO filings (company_id, filing_type, filing_date, file_url)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+filingColumns,
		filing.CompanyID, filing.FilingType, filing.FilingDate, filing.FileURL,
	).Scan(&out.ID, &out.CompanyID, &out.FilingType, &out.FilingDate, &out.FileURL, &out.Embedded)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *FilingRepository) GetFilingsByCompany(ctx context.Context, companyID string) ([]domain.Filing, error) {
	_, span := r.tracer.Start(ctx, "filing-repo.get-filings-by-company")
	defer span.End()

	rows, err := r.pool.Query(ctx,
		`SELECT `+filingColumns+` FROM filings
		 WHERE company_id = $1 ORDER BY filing_date DESC`,
		companyID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var filings []domain.Filing
	for rows.Next() {
		var filing domain.Filing
		if err := rows.Scan(&filing.ID, &filing.CompanyID, &filing.FilingType, &filing.FilingDate, &filing.FileURL, &filing.Embedded); err != nil {
			return nil, err
		}
		filings = append(filings, filing)
	}
	return filings, rows.Err()
}

func (r *FilingRepository) MarkFilingEmbedded(ctx context.Context, filingID string) error {
	_, span := r.tracer.Start(ctx, "filing-repo.mark-filing-embedded")
	defer span.End()

	_, err := r.pool.Exec(ctx,
		`UPDATE filings SET embedded = TRUE WHERE id = $1`,
		filingID,
	)
	return err
}
