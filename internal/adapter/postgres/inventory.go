package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/logicmart/analytics/internal/core/domain"
	"github.com/logicmart/analytics/internal/core/port"
)

// InventoryAnalytics serves the restocking view: stock levels, demand risk,
// and movement history.
type InventoryAnalytics struct {
	exec port.QueryExecutor
}

func NewInventoryAnalytics(exec port.QueryExecutor) *InventoryAnalytics {
	return &InventoryAnalytics{exec: exec}
}

func (a *InventoryAnalytics) LowStock(ctx context.Context) (domain.Table, error) {
	return a.exec.Query(ctx, queryLowStock)
}

// HighDemand flags products whose stock would run out within two weeks at
// the recent sales rate.
func (a *InventoryAnalytics) HighDemand(ctx context.Context, days int) (domain.Table, error) {
	if days <= 0 {
		days = 30
	}
	return a.exec.Query(ctx, queryHighDemand, daysAgo(7), daysAgo(days))
}

func (a *InventoryAnalytics) MovementTrends(ctx context.Context, days int) (domain.Table, error) {
	return a.exec.Query(ctx, queryMovementTrends, daysAgo(days))
}

// SalesTrends charts sales bucketed by the period in opts, optionally
// narrowed to one product or category.
func (a *InventoryAnalytics) SalesTrends(ctx context.Context, opts port.SalesTrendOptions) (domain.Table, error) {
	base, err := trendQuery(opts.Period)
	if err != nil {
		return domain.Table{}, err
	}

	days := opts.Days
	if days <= 0 {
		days = defaultTrendWindow(opts.Period)
	}
	now := time.Now()
	from := startOfDay(now.AddDate(0, 0, -(days - 1)))
	to := endOfDay(now)

	filter := ""
	args := []any{from, to}
	switch {
	case opts.ProductID > 0:
		filter = " AND sti.product_id = $3"
		args = append(args, opts.ProductID)
	case opts.CategoryID > 0:
		filter = " AND p.category_id = $3"
		args = append(args, opts.CategoryID)
	}
	return a.exec.Query(ctx, fmt.Sprintf(base, filter), args...)
}

// SalesSummary aggregates the window and compares it against the equally
// long period directly before it.
func (a *InventoryAnalytics) SalesSummary(ctx context.Context, days int) (domain.Table, error) {
	if days <= 0 {
		days = 30
	}
	now := time.Now()
	from := startOfDay(now.AddDate(0, 0, -days))
	to := endOfDay(now)
	prev := from.Add(-to.Sub(from))
	return a.exec.Query(ctx, querySalesSummary, from, to, prev)
}

// CategoryTrends charts the top categories over the window. Granularity
// follows the window length: daily up to a month, weekly up to a quarter,
// monthly beyond.
func (a *InventoryAnalytics) CategoryTrends(ctx context.Context, days, topN int) (domain.Table, error) {
	if days <= 0 {
		days = 30
	}
	if topN <= 0 {
		topN = 5
	}

	trunc, label := "day", "Mon DD"
	switch {
	case days > 120:
		trunc, label = "month", "Mon YYYY"
	case days > 31:
		trunc, label = "week", "Week of Mon DD"
	}

	now := time.Now()
	query := fmt.Sprintf(queryCategoryTrends, trunc, label)
	return a.exec.Query(ctx, query, startOfDay(now.AddDate(0, 0, -days)), endOfDay(now), topN)
}

// ProductComparison ranks the top products of the current window and sets
// them against a comparison period: the preceding window, or the same window
// a year earlier when mode is "year_over_year".
func (a *InventoryAnalytics) ProductComparison(ctx context.Context, mode string, days int) (domain.Table, error) {
	if days <= 0 {
		days = 30
	}
	now := time.Now()
	curFrom := startOfDay(now.AddDate(0, 0, -(days - 1)))
	curTo := endOfDay(now)

	var cmpFrom, cmpTo time.Time
	if mode == "year_over_year" {
		cmpFrom = curFrom.AddDate(-1, 0, 0)
		cmpTo = curTo.AddDate(-1, 0, 0)
	} else {
		cmpFrom = curFrom.Add(-curTo.Sub(curFrom))
		cmpTo = curFrom.Add(-time.Second)
	}
	return a.exec.Query(ctx, queryProductComparison, curFrom, curTo, 10, cmpFrom, cmpTo)
}

func trendQuery(period string) (string, error) {
	switch period {
	case "", "daily":
		return queryTrendDaily, nil
	case "weekly":
		return queryTrendWeekly, nil
	case "monthly":
		return queryTrendMonthly, nil
	case "quarterly":
		return queryTrendQuarterly, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownPeriod, period)
	}
}

func defaultTrendWindow(period string) int {
	switch period {
	case "weekly":
		return 56
	case "monthly", "quarterly":
		return 365
	default:
		return 7
	}
}
