package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"attendance-tracker/models"
)

// PDFExporter renders the attendance summary into a tabular PDF.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

var summaryHeaders = []string{"Name", "ID", "Attendance", "Flag"}

// RenderSummary creates a PDF document with the class title and one row per student.
func (e *PDFExporter) RenderSummary(sum models.Summary) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, strings.ToUpper("Attendance Summary - "+sum.ClassName), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 10)
	colWidth := 190.0 / float64(len(summaryHeaders))
	for _, header := range summaryHeaders {
		pdf.CellFormat(colWidth, 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range sum.Rows {
		pct := "N/A"
		if row.Percentage != nil {
			pct = FormatPercent(*row.Percentage)
		}
		flag := ""
		if row.BelowThreshold {
			flag = "below threshold"
		}
		for _, value := range []string{row.Student.Name, row.Student.ID, pct, flag} {
			pdf.CellFormat(colWidth, 7, value, "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Arial", "I", 8)
	pdf.CellFormat(0, 6, fmt.Sprintf("Threshold: %s", FormatPercent(sum.Threshold)), "", 1, "", false, 0, "")

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
