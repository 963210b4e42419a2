package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/logicmart/analytics/internal/core/domain"
	"github.com/logicmart/analytics/internal/core/port"
)

// ManagerAnalytics serves the store-wide manager dashboard from the shared
// query executor.
type ManagerAnalytics struct {
	exec port.QueryExecutor
}

func NewManagerAnalytics(exec port.QueryExecutor) *ManagerAnalytics {
	return &ManagerAnalytics{exec: exec}
}

func (a *ManagerAnalytics) SalesTrend(ctx context.Context, from, to time.Time) (domain.Table, error) {
	return a.exec.Query(ctx, querySalesTrend, from, to)
}

func (a *ManagerAnalytics) PeakHours(ctx context.Context, from, to time.Time) (domain.Table, error) {
	return a.exec.Query(ctx, queryPeakHours, from, to)
}

func (a *ManagerAnalytics) TopProducts(ctx context.Context, limit, days int) (domain.Table, error) {
	return a.exec.Query(ctx, queryTopProducts, daysAgo(days), limit)
}

func (a *ManagerAnalytics) InventoryUsage(ctx context.Context) (domain.Table, error) {
	return a.exec.Query(ctx, queryInventoryUsage, daysAgo(7))
}

func (a *ManagerAnalytics) PromotionEffectiveness(ctx context.Context) (domain.Table, error) {
	return a.exec.Query(ctx, queryPromotionEffectiveness, daysAgo(30))
}

func (a *ManagerAnalytics) ForecastData(ctx context.Context, days int) (domain.Table, error) {
	return a.exec.Query(ctx, queryForecastData, daysAgo(days))
}

func (a *ManagerAnalytics) ProductSalesTrends(ctx context.Context, days int) (domain.Table, error) {
	return a.exec.Query(ctx, queryProductSalesTrends, daysAgo(days), 10)
}

// CustomerTraffic buckets traffic by the requested period: "hour" covers
// today's store hours, "day" the last 7 days, "week" the last 4 weeks, and
// "month" the last 8 Monday-aligned weeks.
func (a *ManagerAnalytics) CustomerTraffic(ctx context.Context, period string) (domain.Table, error) {
	now := time.Now()
	switch period {
	case "hour":
		return a.exec.Query(ctx, queryTrafficHourly, startOfDay(now), endOfDay(now))
	case "day":
		return a.exec.Query(ctx, queryTrafficDaily, startOfDay(now.AddDate(0, 0, -6)), endOfDay(now))
	case "week":
		return a.exec.Query(ctx, queryTrafficWeekly, startOfDay(now.AddDate(0, 0, -27)), endOfDay(now))
	case "month":
		monday := startOfWeek(now)
		return a.exec.Query(ctx, queryTrafficEightWeek, monday.AddDate(0, 0, -49), endOfDay(monday.AddDate(0, 0, 6)))
	default:
		return domain.Table{}, fmt.Errorf("%w: %q", domain.ErrUnknownPeriod, period)
	}
}

func daysAgo(n int) time.Time {
	return time.Now().AddDate(0, 0, -n)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Microsecond)
}

// startOfWeek returns midnight on the Monday of t's week.
func startOfWeek(t time.Time) time.Time {
	back := (int(t.Weekday()) + 6) % 7
	return startOfDay(t.AddDate(0, 0, -back))
}
