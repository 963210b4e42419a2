package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/logicmart/analytics/internal/core/domain"
)

// XLSXWriter renders a report as a workbook: a Summary sheet followed by one
// sheet per section.
type XLSXWriter struct{}

func NewXLSXWriter() *XLSXWriter {
	return &XLSXWriter{}
}

func (w *XLSXWriter) Write(rep *domain.Report, out io.Writer) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const summary = "Summary"
	if err := f.SetSheetName("Sheet1", summary); err != nil {
		return fmt.Errorf("naming summary sheet: %w", err)
	}

	titles := make([]string, 0, len(rep.Sections))
	for _, sec := range rep.Sections {
		titles = append(titles, sec.Title)
	}
	header := []any{"Report Title", "Generated On", "Sections"}
	values := []any{rep.Title, rep.GeneratedAt.Format("2006-01-02 15:04:05"), strings.Join(titles, ", ")}
	if err := f.SetSheetRow(summary, "A1", &header); err != nil {
		return fmt.Errorf("writing summary header: %w", err)
	}
	if err := f.SetSheetRow(summary, "A2", &values); err != nil {
		return fmt.Errorf("writing summary row: %w", err)
	}

	for _, sec := range rep.Sections {
		if err := w.writeSection(f, sec); err != nil {
			return fmt.Errorf("writing sheet for %q: %w", sec.Title, err)
		}
	}

	if err := f.Write(out); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}

func (w *XLSXWriter) writeSection(f *excelize.File, sec domain.Section) error {
	name := sheetName(sec.Title)
	if _, err := f.NewSheet(name); err != nil {
		return err
	}

	// A section that failed upstream has no columns at all; mark it rather
	// than leaving a blank sheet.
	if len(sec.Data.Columns) == 0 {
		return f.SetCellValue(name, "A1", "No data available")
	}

	header := make([]any, len(sec.Data.Columns))
	for i, c := range sec.Data.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(name, "A1", &header); err != nil {
		return err
	}

	for i, row := range sec.Data.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(name, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

// sheetName sanitizes a section title into a legal sheet name: path
// separators replaced, length capped at Excel's 31-character limit.
func sheetName(title string) string {
	name := strings.NewReplacer("/", "_", "\\", "_").Replace(title)
	if len(name) > 31 {
		name = name[:31]
	}
	return name
}
