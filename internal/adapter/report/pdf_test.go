package report

import (
	"bytes"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logicmart/analytics/internal/core/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestPDFWriter_Document(t *testing.T) {
	rep := sampleReport()
	rep.Sections[0].Chart = &domain.ChartSpec{Kind: domain.ChartBar, XColumn: "product_name", YColumn: "stock_quantity"}

	var buf bytes.Buffer
	err := NewPDFWriter(NewChartRenderer(), discardLogger()).Write(rep, &buf)
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")), "output should be a PDF")
	assert.Greater(t, buf.Len(), 1000)
}

func TestPDFWriter_SkipsUnrenderableChart(t *testing.T) {
	rep := &domain.Report{
		Title:       "Manager Analytics Report",
		Audience:    domain.RoleManager,
		GeneratedAt: time.Date(2025, 3, 15, 9, 30, 0, 0, time.UTC),
		Sections: []domain.Section{
			{
				Title: "Sales Trend Analysis",
				Data: domain.Table{
					Columns: []string{"date", "daily_revenue"},
					Rows:    [][]any{{time.Now(), float64(100)}}, // one point: not chartable
				},
				Chart: &domain.ChartSpec{Kind: domain.ChartLine, XColumn: "date", YColumn: "daily_revenue"},
			},
		},
	}

	var buf bytes.Buffer
	err := NewPDFWriter(NewChartRenderer(), discardLogger()).Write(rep, &buf)
	require.NoError(t, err, "an unchartable section must not fail the document")
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestPDFWriter_WideTableClipped(t *testing.T) {
	cols := make([]string, 9)
	row := make([]any, 9)
	for i := range cols {
		cols[i] = string(rune('a' + i))
		row[i] = i
	}
	rep := &domain.Report{
		Title:       "Wide",
		GeneratedAt: time.Now(),
		Sections:    []domain.Section{{Title: "Wide Section", Data: domain.Table{Columns: cols, Rows: [][]any{row}}}},
	}

	var buf bytes.Buffer
	err := NewPDFWriter(NewChartRenderer(), discardLogger()).Write(rep, &buf)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestPDFWriter_PlaceholderSection(t *testing.T) {
	rep := &domain.Report{
		Title:       "Sales Manager Analytics Report",
		GeneratedAt: time.Now(),
		Sections:    []domain.Section{{Title: "Seasonal Sales Trends", Data: domain.Table{}}},
	}

	var buf bytes.Buffer
	err := NewPDFWriter(NewChartRenderer(), discardLogger()).Write(rep, &buf)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}
