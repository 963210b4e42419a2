package report

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logicmart/analytics/internal/core/domain"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

func day(n int) time.Time {
	return time.Date(2025, 3, n, 0, 0, 0, 0, time.UTC)
}

func trendTable(rows int) domain.Table {
	tbl := domain.Table{Columns: []string{"date", "daily_revenue"}}
	for i := 1; i <= rows; i++ {
		tbl.Rows = append(tbl.Rows, []any{day(i), float64(100 * i)})
	}
	return tbl
}

func TestChartRenderer_LineTimeSeries(t *testing.T) {
	var buf bytes.Buffer
	r := NewChartRenderer()

	err := r.Render("Daily Revenue", domain.ChartSpec{Kind: domain.ChartLine, XColumn: "date", YColumn: "daily_revenue"}, trendTable(5), &buf)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic), "output should be a PNG")
}

func TestChartRenderer_LineLabelAxis(t *testing.T) {
	tbl := domain.Table{
		Columns: []string{"month", "monthly_revenue"},
		Rows: [][]any{
			{"2025-01", float64(900)},
			{"2025-02", float64(1200)},
			{"2025-03", float64(800)},
		},
	}

	var buf bytes.Buffer
	err := NewChartRenderer().Render("Seasonal", domain.ChartSpec{Kind: domain.ChartLine, XColumn: "month", YColumn: "monthly_revenue"}, tbl, &buf)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestChartRenderer_LineTooFewPoints(t *testing.T) {
	var buf bytes.Buffer
	err := NewChartRenderer().Render("Daily Revenue", domain.ChartSpec{Kind: domain.ChartLine, XColumn: "date", YColumn: "daily_revenue"}, trendTable(1), &buf)
	assert.ErrorIs(t, err, ErrNoChartData)
}

func TestChartRenderer_Bar(t *testing.T) {
	tbl := domain.Table{
		Columns: []string{"product_name", "total_quantity_sold"},
		Rows: [][]any{
			{"Milk", int64(420)},
			{"Bread", int64(317)},
			{"Eggs", int64(289)},
		},
	}

	var buf bytes.Buffer
	err := NewChartRenderer().Render("Top Products", domain.ChartSpec{Kind: domain.ChartBar, XColumn: "product_name", YColumn: "total_quantity_sold"}, tbl, &buf)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestChartRenderer_BarEmptyTable(t *testing.T) {
	tbl := domain.Table{Columns: []string{"product_name", "total_quantity_sold"}}

	var buf bytes.Buffer
	err := NewChartRenderer().Render("Top Products", domain.ChartSpec{Kind: domain.ChartBar, XColumn: "product_name", YColumn: "total_quantity_sold"}, tbl, &buf)
	assert.ErrorIs(t, err, ErrNoChartData)
}

func TestChartRenderer_PieDropsNonPositiveSlices(t *testing.T) {
	tbl := domain.Table{
		Columns: []string{"membership_type", "total_spent"},
		Rows: [][]any{
			{"Premium", float64(5200)},
			{"Basic", float64(0)},
			{"None", float64(-10)},
		},
	}

	var buf bytes.Buffer
	err := NewChartRenderer().Render("Customer Behavior", domain.ChartSpec{Kind: domain.ChartPie, XColumn: "membership_type", YColumn: "total_spent"}, tbl, &buf)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), pngMagic))
}

func TestChartRenderer_PieAllZero(t *testing.T) {
	tbl := domain.Table{
		Columns: []string{"membership_type", "total_spent"},
		Rows:    [][]any{{"Premium", float64(0)}},
	}

	var buf bytes.Buffer
	err := NewChartRenderer().Render("Customer Behavior", domain.ChartSpec{Kind: domain.ChartPie, XColumn: "membership_type", YColumn: "total_spent"}, tbl, &buf)
	assert.ErrorIs(t, err, ErrNoChartData)
}

func TestChartRenderer_MissingColumn(t *testing.T) {
	var buf bytes.Buffer
	err := NewChartRenderer().Render("Daily Revenue", domain.ChartSpec{Kind: domain.ChartLine, XColumn: "nope", YColumn: "daily_revenue"}, trendTable(3), &buf)
	assert.ErrorIs(t, err, ErrNoChartData)
}

func TestChartRenderer_UnknownKind(t *testing.T) {
	var buf bytes.Buffer
	err := NewChartRenderer().Render("x", domain.ChartSpec{Kind: domain.ChartKind("radar")}, trendTable(3), &buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown chart kind")
}
