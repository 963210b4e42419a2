package report

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"

	"github.com/go-pdf/fpdf"

	"github.com/logicmart/analytics/internal/core/domain"
)

// PDF tables are previews, not data dumps: wide or long tables are clipped
// and the full data lives in the XLSX rendition.
const (
	pdfMaxColumns = 6
	pdfMaxRows    = 20

	pageWidth   = 210.0 // A4 portrait, mm
	pageHeight  = 297.0
	pageMargin  = 10.0
	chartWidth  = 150.0
	chartHeight = 90.0
)

// PDFWriter renders a report as a paginated PDF: title block, one clipped
// table per section, then the section charts.
type PDFWriter struct {
	charts *ChartRenderer
	logger *slog.Logger
}

func NewPDFWriter(charts *ChartRenderer, logger *slog.Logger) *PDFWriter {
	return &PDFWriter{charts: charts, logger: logger}
}

func (w *PDFWriter) Write(rep *domain.Report, out io.Writer) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(rep.Title, true)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr(rep.Title), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Generated on "+rep.GeneratedAt.Format("2006-01-02 15:04:05"), "", 1, "C", false, 0, "")
	pdf.Ln(8)

	for _, sec := range rep.Sections {
		w.writeSection(pdf, tr, sec)
	}
	w.writeCharts(pdf, tr, rep)

	if err := pdf.Output(out); err != nil {
		return fmt.Errorf("writing pdf: %w", err)
	}
	return nil
}

func (w *PDFWriter) writeSection(pdf *fpdf.Fpdf, tr func(string) string, sec domain.Section) {
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, tr(sec.Title), "", 1, "L", false, 0, "")
	pdf.Ln(1)

	if len(sec.Data.Columns) == 0 || sec.Data.Empty() {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.CellFormat(0, 6, "No data available", "", 1, "L", false, 0, "")
		pdf.Ln(6)
		return
	}

	cols := sec.Data.Columns
	if len(cols) > pdfMaxColumns {
		cols = cols[:pdfMaxColumns]
	}
	rows := sec.Data.Rows
	if len(rows) > pdfMaxRows {
		rows = rows[:pdfMaxRows]
	}
	colW := (pageWidth - 2*pageMargin) / float64(len(cols))

	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(128, 128, 128)
	pdf.SetTextColor(255, 255, 255)
	for _, col := range cols {
		pdf.CellFormat(colW, 7, fitCell(pdf, tr(col), colW), "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	pdf.SetFillColor(245, 245, 220)
	pdf.SetTextColor(0, 0, 0)
	for _, row := range rows {
		for i := range cols {
			var txt string
			if i < len(row) {
				txt = cellLabel(row[i])
			}
			pdf.CellFormat(colW, 6, fitCell(pdf, tr(txt), colW), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	}
	pdf.Ln(8)
}

func (w *PDFWriter) writeCharts(pdf *fpdf.Fpdf, tr func(string) string, rep *domain.Report) {
	opts := fpdf.ImageOptions{ImageType: "PNG"}

	for _, sec := range rep.Sections {
		if sec.Chart == nil || sec.Data.Empty() {
			continue
		}

		var buf bytes.Buffer
		if err := w.charts.Render(sec.Title, *sec.Chart, sec.Data, &buf); err != nil {
			w.logger.Warn("skipping report chart",
				slog.String("section", sec.Title),
				slog.String("error", err.Error()),
			)
			continue
		}

		if pdf.GetY()+chartHeight+20 > pageHeight-15 {
			pdf.AddPage()
		}

		pdf.SetFont("Helvetica", "B", 13)
		pdf.CellFormat(0, 8, tr(sec.Title+" Chart"), "", 1, "L", false, 0, "")
		pdf.Ln(2)

		name := "chart-" + sec.Title
		pdf.RegisterImageOptionsReader(name, opts, &buf)
		pdf.ImageOptions(name, (pageWidth-chartWidth)/2, pdf.GetY(), chartWidth, chartHeight, true, opts, 0, "")
		pdf.Ln(8)
	}
}

// fitCell trims text until it fits the column, dropping one trailing rune at
// a time. Widths depend on the font set by the caller.
func fitCell(pdf *fpdf.Fpdf, text string, colW float64) string {
	const pad = 2.0
	for len(text) > 0 && pdf.GetStringWidth(text) > colW-pad {
		r := []rune(text)
		text = string(r[:len(r)-1])
	}
	return text
}
