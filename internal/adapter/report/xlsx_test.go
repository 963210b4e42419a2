package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/logicmart/analytics/internal/core/domain"
	"github.com/logicmart/analytics/internal/core/port"
)

var (
	_ port.ReportWriter = (*XLSXWriter)(nil)
	_ port.ReportWriter = (*PDFWriter)(nil)
)

func sampleReport() *domain.Report {
	return &domain.Report{
		Title:       "Inventory Management Report",
		Audience:    domain.RoleRestocker,
		GeneratedAt: time.Date(2025, 3, 15, 9, 30, 0, 0, time.UTC),
		Sections: []domain.Section{
			{
				Title: "Low Stock Products",
				Data: domain.Table{
					Columns: []string{"product_name", "stock_quantity"},
					Rows: [][]any{
						{"Milk", int32(4)},
						{"Bread", int32(7)},
					},
				},
			},
			{
				Title: "Predicted High Demand Products",
				Data:  domain.Table{}, // failed section: placeholder
			},
		},
	}
}

func TestXLSXWriter_Workbook(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewXLSXWriter().Write(sampleReport(), &buf))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Summary", "Low Stock Products", "Predicted High Demand Products"}, f.GetSheetList())

	title, err := f.GetCellValue("Summary", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Inventory Management Report", title)

	generated, err := f.GetCellValue("Summary", "B2")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-15 09:30:00", generated)

	sections, err := f.GetCellValue("Summary", "C2")
	require.NoError(t, err)
	assert.Equal(t, "Low Stock Products, Predicted High Demand Products", sections)
}

func TestXLSXWriter_SectionSheet(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewXLSXWriter().Write(sampleReport(), &buf))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue("Low Stock Products", "A1")
	require.NoError(t, err)
	assert.Equal(t, "product_name", header)

	name, err := f.GetCellValue("Low Stock Products", "A2")
	require.NoError(t, err)
	assert.Equal(t, "Milk", name)

	qty, err := f.GetCellValue("Low Stock Products", "B3")
	require.NoError(t, err)
	assert.Equal(t, "7", qty)
}

func TestXLSXWriter_PlaceholderSheet(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewXLSXWriter().Write(sampleReport(), &buf))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	note, err := f.GetCellValue("Predicted High Demand Products", "A1")
	require.NoError(t, err)
	assert.Equal(t, "No data available", note)
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "Low Stock Products", sheetName("Low Stock Products"))
	assert.Equal(t, "Sales_Returns", sheetName("Sales/Returns"))
	assert.Len(t, sheetName("An Extremely Long Section Title That Keeps Going"), 31)
}
