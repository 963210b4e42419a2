package port

import (
	"context"
	"time"

	"github.com/logicmart/analytics/internal/core/domain"
)

// ManagerAnalytics answers the store-wide questions the manager dashboard asks.
type ManagerAnalytics interface {
	SalesTrend(ctx context.Context, from, to time.Time) (domain.Table, error)
	PeakHours(ctx context.Context, from, to time.Time) (domain.Table, error)
	TopProducts(ctx context.Context, limit, days int) (domain.Table, error)
	InventoryUsage(ctx context.Context) (domain.Table, error)
	PromotionEffectiveness(ctx context.Context) (domain.Table, error)
	ForecastData(ctx context.Context, days int) (domain.Table, error)
	ProductSalesTrends(ctx context.Context, days int) (domain.Table, error)
	CustomerTraffic(ctx context.Context, period string) (domain.Table, error)
}

// SalesAnalytics covers the sales-floor view: today's activity, customer
// behaviour, and promotion performance.
type SalesAnalytics interface {
	TodayDashboard(ctx context.Context) (domain.Table, error)
	HourlySalesToday(ctx context.Context) (domain.Table, error)
	TodayTopProducts(ctx context.Context, limit int) (domain.Table, error)
	RecentTransactions(ctx context.Context, limit int) (domain.Table, error)
	CustomerBehavior(ctx context.Context) (domain.Table, error)
	PopularProducts(ctx context.Context, days int) (domain.Table, error)
	ActivePromotions(ctx context.Context) (domain.Table, error)
	PromotionImpact(ctx context.Context, promotionID int) (domain.Table, error)
	SeasonalTrends(ctx context.Context) (domain.Table, error)
	BasketPairs(ctx context.Context, minCount int) (domain.Table, error)
	CategoryPerformance(ctx context.Context, days int) (domain.Table, error)
	AvgBasketSize(ctx context.Context, days int) (domain.Table, error)
}

// SalesTrendOptions narrows the restocker sales-trend view. Zero ProductID or
// CategoryID means no filter.
type SalesTrendOptions struct {
	Period     string // daily, weekly, monthly, quarterly
	Days       int
	ProductID  int
	CategoryID int
}

// InventoryAnalytics serves the restocking view: stock levels, demand, and
// movement history.
type InventoryAnalytics interface {
	LowStock(ctx context.Context) (domain.Table, error)
	HighDemand(ctx context.Context, days int) (domain.Table, error)
	MovementTrends(ctx context.Context, days int) (domain.Table, error)
	SalesTrends(ctx context.Context, opts SalesTrendOptions) (domain.Table, error)
	SalesSummary(ctx context.Context, days int) (domain.Table, error)
	CategoryTrends(ctx context.Context, days, topN int) (domain.Table, error)
	ProductComparison(ctx context.Context, mode string, days int) (domain.Table, error)
}
