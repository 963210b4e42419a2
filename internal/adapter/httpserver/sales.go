package httpserver

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/logicmart/analytics/internal/core/domain"
)

func (s *Server) handleTodayDashboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.respondTable(w, r, "sales/today", func(ctx context.Context) (domain.Table, error) {
			return s.deps.Sales.TodayDashboard(ctx)
		})
	}
}

func (s *Server) handleHourlySales() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.respondTable(w, r, "sales/hourly", func(ctx context.Context) (domain.Table, error) {
			return s.deps.Sales.HourlySalesToday(ctx)
		})
	}
}

func (s *Server) handleTodayTopProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := queryInt(r, "limit", 10)
		s.respondTable(w, r, "sales/top-products", func(ctx context.Context) (domain.Table, error) {
			return s.deps.Sales.TodayTopProducts(ctx, limit)
		})
	}
}

func (s *Server) handleRecentTransactions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := queryInt(r, "limit", 20)
		s.respondTable(w, r, "sales/recent-transactions", func(ctx context.Context) (domain.Table, error) {
			return s.deps.Sales.RecentTransactions(ctx, limit)
		})
	}
}

func (s *Server) handleCustomerBehavior() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.respondTable(w, r, "sales/customer-behavior", func(ctx context.Context) (domain.Table, error) {
			return s.deps.Sales.CustomerBehavior(ctx)
		})
	}
}

func (s *Server) handlePopularProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days := queryInt(r, "days", defaultWindowDays)
		s.respondTable(w, r, "sales/popular-products", func(ctx context.Context) (domain.Table, error) {
			return s.deps.Sales.PopularProducts(ctx, days)
		})
	}
}

func (s *Server) handleActivePromotions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.respondTable(w, r, "sales/promotions", func(ctx context.Context) (domain.Table, error) {
			return s.deps.Sales.ActivePromotions(ctx)
		})
	}
}

func (s *Server) handlePromotionImpact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil || id < 1 {
			http.Error(w, `{"error":"invalid promotion id"}`, http.StatusBadRequest)
			return
		}
		s.respondTable(w, r, "sales/promotion-impact", func(ctx context.Context) (domain.Table, error) {
			return s.deps.Sales.PromotionImpact(ctx, id)
		})
	}
}

func (s *Server) handleSeasonalTrends() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.respondTable(w, r, "sales/seasonal-trends", func(ctx context.Context) (domain.Table, error) {
			return s.deps.Sales.SeasonalTrends(ctx)
		})
	}
}

func (s *Server) handleBasketPairs() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		minCount := queryInt(r, "min_count", 3)
		s.respondTable(w, r, "sales/basket-pairs", func(ctx context.Context) (domain.Table, error) {
			return s.deps.Sales.BasketPairs(ctx, minCount)
		})
	}
}

func (s *Server) handleCategoryPerformance() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days := queryInt(r, "days", defaultWindowDays)
		s.respondTable(w, r, "sales/category-performance", func(ctx context.Context) (domain.Table, error) {
			return s.deps.Sales.CategoryPerformance(ctx, days)
		})
	}
}

func (s *Server) handleAvgBasketSize() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days := queryInt(r, "days", defaultWindowDays)
		s.respondTable(w, r, "sales/basket-size", func(ctx context.Context) (domain.Table, error) {
			return s.deps.Sales.AvgBasketSize(ctx, days)
		})
	}
}
