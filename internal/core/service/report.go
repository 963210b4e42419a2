package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jonboulle/clockwork"

	"github.com/logicmart/analytics/internal/core/domain"
	"github.com/logicmart/analytics/internal/core/port"
)

// reportWindowDays is the default lookback for windowed report sections.
const reportWindowDays = 30

// ReportService assembles audience-specific reports from the analytics
// catalog. A section whose query fails is logged and kept as an empty
// placeholder; one broken panel does not sink the document.
type ReportService struct {
	manager   port.ManagerAnalytics
	sales     port.SalesAnalytics
	inventory port.InventoryAnalytics
	clock     clockwork.Clock
	logger    *slog.Logger
}

func NewReportService(manager port.ManagerAnalytics, sales port.SalesAnalytics, inventory port.InventoryAnalytics, logger *slog.Logger) *ReportService {
	return newReportService(manager, sales, inventory, logger, clockwork.NewRealClock())
}

func newReportService(manager port.ManagerAnalytics, sales port.SalesAnalytics, inventory port.InventoryAnalytics, logger *slog.Logger, clock clockwork.Clock) *ReportService {
	return &ReportService{
		manager:   manager,
		sales:     sales,
		inventory: inventory,
		clock:     clock,
		logger:    logger,
	}
}

// Assemble builds the report for one audience.
func (s *ReportService) Assemble(ctx context.Context, audience domain.Role) (*domain.Report, error) {
	switch audience {
	case domain.RoleManager:
		return s.managerReport(ctx), nil
	case domain.RoleSales:
		return s.salesReport(ctx), nil
	case domain.RoleRestocker:
		return s.inventoryReport(ctx), nil
	default:
		return nil, fmt.Errorf("unknown report audience %q", audience)
	}
}

func (s *ReportService) managerReport(ctx context.Context) *domain.Report {
	now := s.clock.Now()
	from := now.AddDate(0, 0, -reportWindowDays)

	return &domain.Report{
		Title:       "Manager Analytics Report",
		Audience:    domain.RoleManager,
		GeneratedAt: now,
		Sections: []domain.Section{
			s.section("Sales Trend Analysis", lineChart("date", "daily_revenue"), func() (domain.Table, error) {
				return s.manager.SalesTrend(ctx, from, now)
			}),
			s.section("Top Selling Products", barChart("product_name", "total_quantity_sold"), func() (domain.Table, error) {
				return s.manager.TopProducts(ctx, 10, reportWindowDays)
			}),
			s.section("Peak Shopping Hours", lineChart("hour", "transaction_count"), func() (domain.Table, error) {
				return s.manager.PeakHours(ctx, from, now)
			}),
			s.section("Inventory Usage Insights", nil, func() (domain.Table, error) {
				return s.manager.InventoryUsage(ctx)
			}),
			s.section("Promotion Effectiveness", nil, func() (domain.Table, error) {
				return s.manager.PromotionEffectiveness(ctx)
			}),
		},
	}
}

func (s *ReportService) salesReport(ctx context.Context) *domain.Report {
	return &domain.Report{
		Title:       "Sales Manager Analytics Report",
		Audience:    domain.RoleSales,
		GeneratedAt: s.clock.Now(),
		Sections: []domain.Section{
			s.section("Today's Sales Dashboard", nil, func() (domain.Table, error) {
				return s.sales.TodayDashboard(ctx)
			}),
			s.section("Customer Buying Behavior", pieChart("membership_type", "total_spent"), func() (domain.Table, error) {
				return s.sales.CustomerBehavior(ctx)
			}),
			s.section("Popular Products for Promotion", nil, func() (domain.Table, error) {
				return s.sales.PopularProducts(ctx, reportWindowDays)
			}),
			s.section("Seasonal Sales Trends", lineChart("month", "monthly_revenue"), func() (domain.Table, error) {
				return s.sales.SeasonalTrends(ctx)
			}),
		},
	}
}

func (s *ReportService) inventoryReport(ctx context.Context) *domain.Report {
	return &domain.Report{
		Title:       "Inventory Management Report",
		Audience:    domain.RoleRestocker,
		GeneratedAt: s.clock.Now(),
		Sections: []domain.Section{
			s.section("Low Stock Products", nil, func() (domain.Table, error) {
				return s.inventory.LowStock(ctx)
			}),
			s.section("Predicted High Demand Products", nil, func() (domain.Table, error) {
				return s.inventory.HighDemand(ctx, reportWindowDays)
			}),
			s.section("Inventory Movement by Category", barChart("category", "total_outbound"), func() (domain.Table, error) {
				return s.inventory.MovementTrends(ctx, reportWindowDays)
			}),
		},
	}
}

func (s *ReportService) section(title string, chart *domain.ChartSpec, fetch func() (domain.Table, error)) domain.Section {
	tbl, err := fetch()
	if err != nil {
		s.logger.Warn("report section failed",
			slog.String("section", title),
			slog.String("error", err.Error()),
		)
		tbl = domain.Table{}
	}
	return domain.Section{Title: title, Data: tbl, Chart: chart}
}

func lineChart(x, y string) *domain.ChartSpec {
	return &domain.ChartSpec{Kind: domain.ChartLine, XColumn: x, YColumn: y}
}

func barChart(x, y string) *domain.ChartSpec {
	return &domain.ChartSpec{Kind: domain.ChartBar, XColumn: x, YColumn: y}
}

func pieChart(x, y string) *domain.ChartSpec {
	return &domain.ChartSpec{Kind: domain.ChartPie, XColumn: x, YColumn: y}
}
