package export

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter renders a RegisterSheet into a landscape register grid.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a one-page-per-overflow PDF of the month register.
func (e *PDFExporter) Render(sheet RegisterSheet) ([]byte, error) {
	if len(sheet.Days) == 0 {
		return nil, fmt.Errorf("pdf requires at least one day column")
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(8, 12, 8)
	pdf.AddPage()

	if sheet.Title != "" {
		pdf.SetFont("Arial", "B", 13)
		pdf.CellFormat(0, 9, sheet.Title, "", 1, "C", false, 0, "")
		pdf.Ln(2)
	}

	const rollWidth, nameWidth, totalWidth = 12.0, 48.0, 14.0
	dayWidth := (281.0 - rollWidth - nameWidth - 2*totalWidth) / float64(len(sheet.Days))

	drawHeader := func() {
		pdf.SetFont("Arial", "B", 7)
		pdf.CellFormat(rollWidth, 7, "Roll", "1", 0, "C", false, 0, "")
		pdf.CellFormat(nameWidth, 7, "Name", "1", 0, "C", false, 0, "")
		for _, day := range sheet.Days {
			pdf.SetFillColor(235, 235, 235)
			pdf.CellFormat(dayWidth, 7, strconv.Itoa(day.Day), "1", 0, "C", day.Holiday, 0, "")
		}
		pdf.CellFormat(totalWidth, 7, "P", "1", 0, "C", false, 0, "")
		pdf.CellFormat(totalWidth, 7, "A", "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	drawHeader()
	pdf.SetFont("Arial", "", 7)
	for _, row := range sheet.Rows {
		if pdf.GetY() > 190 {
			pdf.AddPage()
			drawHeader()
			pdf.SetFont("Arial", "", 7)
		}
		pdf.CellFormat(rollWidth, 6, row.Roll, "1", 0, "C", false, 0, "")
		pdf.CellFormat(nameWidth, 6, row.Name, "1", 0, "L", false, 0, "")
		for _, day := range sheet.Days {
			pdf.SetFillColor(245, 245, 245)
			pdf.CellFormat(dayWidth, 6, cellMark(row, day), "1", 0, "C", day.Holiday, 0, "")
		}
		pdf.CellFormat(totalWidth, 6, strconv.Itoa(row.Presents), "1", 0, "C", false, 0, "")
		pdf.CellFormat(totalWidth, 6, strconv.Itoa(row.Absents), "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
