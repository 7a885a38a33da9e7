package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// Metric is a labelled headline figure printed above the report tables.
type Metric struct {
	Label string
	Value string
}

// Report is a multi-section PDF document.
type Report struct {
	Title    string
	Subtitle string
	Metrics  []Metric
	Sections []Table
}

// PDFExporter renders reports into a basic tabular PDF.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF document with a title block, metrics and one table per section.
func (e *PDFExporter) Render(report Report) ([]byte, error) {
	if report.Title == "" {
		return nil, fmt.Errorf("pdf requires a title")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(0, 10, tr(report.Title), "", 1, "C", false, 0, "")
	if report.Subtitle != "" {
		pdf.SetFont("Arial", "", 10)
		pdf.CellFormat(0, 6, tr(report.Subtitle), "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	if len(report.Metrics) > 0 {
		pdf.SetFont("Arial", "", 10)
		for _, metric := range report.Metrics {
			pdf.SetFont("Arial", "B", 10)
			pdf.CellFormat(60, 7, tr(metric.Label), "1", 0, "", false, 0, "")
			pdf.SetFont("Arial", "", 10)
			pdf.CellFormat(0, 7, tr(metric.Value), "1", 1, "", false, 0, "")
		}
		pdf.Ln(4)
	}

	for _, section := range report.Sections {
		if len(section.Headers) == 0 {
			continue
		}
		if section.Title != "" {
			pdf.SetFont("Arial", "B", 12)
			pdf.CellFormat(0, 8, tr(section.Title), "", 1, "", false, 0, "")
		}
		colWidth := 190.0 / float64(len(section.Headers))
		pdf.SetFont("Arial", "B", 9)
		for _, header := range section.Headers {
			pdf.CellFormat(colWidth, 7, tr(header), "1", 0, "C", false, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 9)
		for _, row := range section.Rows {
			for i := range section.Headers {
				value := ""
				if i < len(row) {
					value = row[i]
				}
				pdf.CellFormat(colWidth, 6, tr(value), "1", 0, "", false, 0, "")
			}
			pdf.Ln(-1)
		}
		pdf.Ln(4)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
