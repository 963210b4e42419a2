// Package report renders assembled reports into portable documents: XLSX
// workbooks, PDF files, and the chart PNGs embedded in them.
package report

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/logicmart/analytics/internal/core/domain"
)

// ErrNoChartData is returned when a section's table cannot support its chart
// spec: too few points, missing columns, or no positive values for a pie.
var ErrNoChartData = errors.New("not enough data to chart")

const maxBars = 10

// ChartRenderer draws section charts as PNGs sized to match the report page.
type ChartRenderer struct {
	width  int
	height int
}

func NewChartRenderer() *ChartRenderer {
	return &ChartRenderer{width: 1000, height: 600}
}

// Render draws the chart described by spec over the section table.
func (r *ChartRenderer) Render(title string, spec domain.ChartSpec, tbl domain.Table, out io.Writer) error {
	switch spec.Kind {
	case domain.ChartLine:
		return r.renderLine(title, spec, tbl, out)
	case domain.ChartBar:
		return r.renderBar(title, spec, tbl, out)
	case domain.ChartPie:
		return r.renderPie(spec, tbl, out)
	default:
		return fmt.Errorf("unknown chart kind %q", spec.Kind)
	}
}

func (r *ChartRenderer) renderLine(title string, spec domain.ChartSpec, tbl domain.Table, out io.Writer) error {
	labels, times, ys, timeAxis, err := seriesFrom(tbl, spec.XColumn, spec.YColumn)
	if err != nil {
		return err
	}
	if len(ys) < 2 {
		return fmt.Errorf("%w: line needs at least 2 points", ErrNoChartData)
	}

	graph := chart.Chart{
		Title:  title,
		Width:  r.width,
		Height: r.height,
	}
	if timeAxis {
		graph.Series = []chart.Series{chart.TimeSeries{XValues: times, YValues: ys}}
	} else {
		xs := make([]float64, len(ys))
		for i := range xs {
			xs[i] = float64(i)
		}
		graph.XAxis = chart.XAxis{
			ValueFormatter: func(v any) string {
				f, ok := v.(float64)
				if !ok {
					return ""
				}
				i := int(f)
				if i < 0 || i >= len(labels) || float64(i) != f {
					return ""
				}
				return labels[i]
			},
		}
		graph.Series = []chart.Series{chart.ContinuousSeries{XValues: xs, YValues: ys}}
	}
	return graph.Render(chart.PNG, out)
}

func (r *ChartRenderer) renderBar(title string, spec domain.ChartSpec, tbl domain.Table, out io.Writer) error {
	labels, _, ys, _, err := seriesFrom(tbl, spec.XColumn, spec.YColumn)
	if err != nil {
		return err
	}
	if len(ys) == 0 {
		return fmt.Errorf("%w: bar needs at least 1 value", ErrNoChartData)
	}
	if len(ys) > maxBars {
		labels, ys = labels[:maxBars], ys[:maxBars]
	}

	bars := make([]chart.Value, 0, len(ys))
	for i := range ys {
		bars = append(bars, chart.Value{Label: labels[i], Value: ys[i]})
	}

	graph := chart.BarChart{
		Title:    title,
		Width:    r.width,
		Height:   r.height,
		BarWidth: 40,
		Bars:     bars,
	}
	return graph.Render(chart.PNG, out)
}

func (r *ChartRenderer) renderPie(spec domain.ChartSpec, tbl domain.Table, out io.Writer) error {
	labels, _, ys, _, err := seriesFrom(tbl, spec.XColumn, spec.YColumn)
	if err != nil {
		return err
	}

	// A pie slice must be positive to render.
	values := make([]chart.Value, 0, len(ys))
	for i, y := range ys {
		if y > 0 {
			values = append(values, chart.Value{Label: labels[i], Value: y})
		}
	}
	if len(values) == 0 {
		return fmt.Errorf("%w: pie needs at least 1 positive value", ErrNoChartData)
	}

	graph := chart.PieChart{
		Width:  r.height,
		Height: r.height,
		Values: values,
	}
	return graph.Render(chart.PNG, out)
}

// seriesFrom pulls the X and Y columns out of a table. When every X cell is a
// time.Time the series is time-keyed; otherwise X cells become tick labels.
// Rows whose Y cell is not numeric are skipped.
func seriesFrom(tbl domain.Table, xcol, ycol string) (labels []string, times []time.Time, ys []float64, timeAxis bool, err error) {
	xi := tbl.ColumnIndex(xcol)
	yi := tbl.ColumnIndex(ycol)
	if xi < 0 || yi < 0 {
		return nil, nil, nil, false, fmt.Errorf("%w: missing column %q or %q", ErrNoChartData, xcol, ycol)
	}

	timeAxis = len(tbl.Rows) > 0
	for _, row := range tbl.Rows {
		if _, ok := row[xi].(time.Time); !ok {
			timeAxis = false
			break
		}
	}

	for _, row := range tbl.Rows {
		y, ok := cellFloat(row[yi])
		if !ok {
			continue
		}
		ys = append(ys, y)
		if timeAxis {
			times = append(times, row[xi].(time.Time))
		} else {
			labels = append(labels, cellLabel(row[xi]))
		}
	}
	return labels, times, ys, timeAxis, nil
}

func cellFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	case int16:
		return float64(n), true
	case int:
		return float64(n), true
	}
	return 0, false
}

func cellLabel(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case time.Time:
		return x.Format("2006-01-02")
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return fmt.Sprint(x)
	}
}
