package httpserver

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/logicmart/analytics/internal/core/domain"
)

func (s *Server) setupRoutes() {
	r := chi.NewRouter()

	// Global middleware stack
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(s.requestLogger)
	r.Use(chimw.Recoverer)

	// Health probe
	r.Get("/health", s.handleHealth())

	r.Route("/api", func(api chi.Router) {
		if s.cfg.CORSOrigin != "" {
			api.Use(cors.Handler(cors.Options{
				AllowedOrigins:   []string{s.cfg.CORSOrigin},
				AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
				AllowedHeaders:   []string{"Authorization", "Content-Type"},
				AllowCredentials: false,
				MaxAge:           300,
			}))
		}
		if s.limiter != nil {
			api.Use(s.limiter.Middleware)
		}

		api.Post("/login", s.handleLogin())

		api.Group(func(authed chi.Router) {
			authed.Use(s.sessionAuth)
			authed.Post("/logout", s.handleLogout())

			authed.Route("/manager", func(mgr chi.Router) {
				mgr.Use(s.requireRole(domain.RoleManager))
				mgr.Get("/sales-trend", s.handleSalesTrend())
				mgr.Get("/peak-hours", s.handlePeakHours())
				mgr.Get("/top-products", s.handleTopProducts())
				mgr.Get("/inventory-usage", s.handleInventoryUsage())
				mgr.Get("/promotion-effectiveness", s.handlePromotionEffectiveness())
				mgr.Get("/forecast", s.handleForecast())
				mgr.Get("/product-trends", s.handleProductTrends())
				mgr.Get("/customer-traffic", s.handleCustomerTraffic())
				mgr.Get("/schema", s.handleListTables())
				mgr.Get("/schema/{table}", s.handleDescribeTable())
				mgr.Get("/query-log", s.handleQueryLog())
			})

			authed.Route("/sales", func(sl chi.Router) {
				sl.Use(s.requireRole(domain.RoleSales))
				sl.Get("/today", s.handleTodayDashboard())
				sl.Get("/hourly", s.handleHourlySales())
				sl.Get("/top-products", s.handleTodayTopProducts())
				sl.Get("/recent-transactions", s.handleRecentTransactions())
				sl.Get("/customer-behavior", s.handleCustomerBehavior())
				sl.Get("/popular-products", s.handlePopularProducts())
				sl.Get("/promotions", s.handleActivePromotions())
				sl.Get("/promotions/{id}/impact", s.handlePromotionImpact())
				sl.Get("/seasonal-trends", s.handleSeasonalTrends())
				sl.Get("/basket-pairs", s.handleBasketPairs())
				sl.Get("/category-performance", s.handleCategoryPerformance())
				sl.Get("/basket-size", s.handleAvgBasketSize())
			})

			authed.Route("/inventory", func(inv chi.Router) {
				inv.Use(s.requireRole(domain.RoleRestocker))
				inv.Get("/low-stock", s.handleLowStock())
				inv.Get("/high-demand", s.handleHighDemand())
				inv.Get("/movement-trends", s.handleMovementTrends())
				inv.Get("/sales-trends", s.handleInventorySalesTrends())
				inv.Get("/sales-summary", s.handleSalesSummary())
				inv.Get("/category-trends", s.handleCategoryTrends())
				inv.Get("/product-comparison", s.handleProductComparison())
			})

			authed.Get("/reports/{audience}", s.handleReport())
		})
	})

	s.router = r
}
