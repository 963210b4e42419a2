package httpserver

import (
	"context"
	"net/http"

	"github.com/logicmart/analytics/internal/core/domain"
	"github.com/logicmart/analytics/internal/core/port"
)

func (s *Server) handleLowStock() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.respondTable(w, r, "inventory/low-stock", func(ctx context.Context) (domain.Table, error) {
			return s.deps.Inventory.LowStock(ctx)
		})
	}
}

func (s *Server) handleHighDemand() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days := queryInt(r, "days", defaultWindowDays)
		s.respondTable(w, r, "inventory/high-demand", func(ctx context.Context) (domain.Table, error) {
			return s.deps.Inventory.HighDemand(ctx, days)
		})
	}
}

func (s *Server) handleMovementTrends() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days := queryInt(r, "days", defaultWindowDays)
		s.respondTable(w, r, "inventory/movement-trends", func(ctx context.Context) (domain.Table, error) {
			return s.deps.Inventory.MovementTrends(ctx, days)
		})
	}
}

func (s *Server) handleInventorySalesTrends() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		opts := port.SalesTrendOptions{
			Period:     r.URL.Query().Get("period"),
			Days:       queryInt(r, "days", defaultWindowDays),
			ProductID:  queryInt(r, "product_id", 0),
			CategoryID: queryInt(r, "category_id", 0),
		}
		if opts.Period == "" {
			opts.Period = "daily"
		}
		s.respondTable(w, r, "inventory/sales-trends", func(ctx context.Context) (domain.Table, error) {
			return s.deps.Inventory.SalesTrends(ctx, opts)
		})
	}
}

func (s *Server) handleSalesSummary() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days := queryInt(r, "days", defaultWindowDays)
		s.respondTable(w, r, "inventory/sales-summary", func(ctx context.Context) (domain.Table, error) {
			return s.deps.Inventory.SalesSummary(ctx, days)
		})
	}
}

func (s *Server) handleCategoryTrends() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days := queryInt(r, "days", defaultWindowDays)
		topN := queryInt(r, "top_n", 5)
		s.respondTable(w, r, "inventory/category-trends", func(ctx context.Context) (domain.Table, error) {
			return s.deps.Inventory.CategoryTrends(ctx, days, topN)
		})
	}
}

func (s *Server) handleProductComparison() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		mode := r.URL.Query().Get("mode")
		days := queryInt(r, "days", defaultWindowDays)
		s.respondTable(w, r, "inventory/product-comparison", func(ctx context.Context) (domain.Table, error) {
			return s.deps.Inventory.ProductComparison(ctx, mode, days)
		})
	}
}
