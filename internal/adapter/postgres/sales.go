package postgres

import (
	"context"

	"github.com/logicmart/analytics/internal/core/domain"
	"github.com/logicmart/analytics/internal/core/port"
)

// SalesAnalytics serves the sales-floor view: live activity for today plus
// customer and promotion insight over recent windows.
type SalesAnalytics struct {
	exec port.QueryExecutor
}

func NewSalesAnalytics(exec port.QueryExecutor) *SalesAnalytics {
	return &SalesAnalytics{exec: exec}
}

func (a *SalesAnalytics) TodayDashboard(ctx context.Context) (domain.Table, error) {
	return a.exec.Query(ctx, queryTodayDashboard)
}

func (a *SalesAnalytics) HourlySalesToday(ctx context.Context) (domain.Table, error) {
	return a.exec.Query(ctx, queryHourlySalesToday)
}

func (a *SalesAnalytics) TodayTopProducts(ctx context.Context, limit int) (domain.Table, error) {
	return a.exec.Query(ctx, queryTodayTopProducts, limit)
}

func (a *SalesAnalytics) RecentTransactions(ctx context.Context, limit int) (domain.Table, error) {
	return a.exec.Query(ctx, queryRecentTransactions, limit)
}

func (a *SalesAnalytics) CustomerBehavior(ctx context.Context) (domain.Table, error) {
	return a.exec.Query(ctx, queryCustomerBehavior, daysAgo(30))
}

func (a *SalesAnalytics) PopularProducts(ctx context.Context, days int) (domain.Table, error) {
	return a.exec.Query(ctx, queryPopularProducts, daysAgo(days), 10)
}

func (a *SalesAnalytics) ActivePromotions(ctx context.Context) (domain.Table, error) {
	return a.exec.Query(ctx, queryActivePromotions)
}

// PromotionImpact compares product sales in the 30 days before a promotion
// with sales during it.
func (a *SalesAnalytics) PromotionImpact(ctx context.Context, promotionID int) (domain.Table, error) {
	return a.exec.Query(ctx, queryPromotionImpact, promotionID)
}

func (a *SalesAnalytics) SeasonalTrends(ctx context.Context) (domain.Table, error) {
	return a.exec.Query(ctx, querySeasonalTrends, daysAgo(365))
}

// BasketPairs runs a market-basket pass over the last 30 days and keeps
// pairs bought together at least minCount times.
func (a *SalesAnalytics) BasketPairs(ctx context.Context, minCount int) (domain.Table, error) {
	if minCount < 1 {
		minCount = 1
	}
	return a.exec.Query(ctx, queryBasketPairs, daysAgo(30), minCount)
}

func (a *SalesAnalytics) CategoryPerformance(ctx context.Context, days int) (domain.Table, error) {
	return a.exec.Query(ctx, queryCategoryPerformance, daysAgo(days))
}

func (a *SalesAnalytics) AvgBasketSize(ctx context.Context, days int) (domain.Table, error) {
	return a.exec.Query(ctx, queryAvgBasketSize, daysAgo(days))
}
