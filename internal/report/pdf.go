package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
)

// RenderPDF lays out the generated report text as a downloadable PDF:
// bold title, generation date, then the wrapped body with automatic paging.
func RenderPDF(ticker, content string, generatedAt time.Time) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	translate := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 10, translate(fmt.Sprintf("Stock Analysis Report: %s", ticker)), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 8, translate(fmt.Sprintf("Generated on: %s", generatedAt.Format("January 2, 2006"))), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	pdf.MultiCell(0, 6, translate(content), "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
