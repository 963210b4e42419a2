package httpserver

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/logicmart/analytics/internal/core/domain"
)

const defaultWindowDays = 30

func (s *Server) handleSalesTrend() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, to := queryDateRange(r, defaultWindowDays)
		s.respondTable(w, r, "manager/sales-trend", func(ctx context.Context) (domain.Table, error) {
			return s.deps.Manager.SalesTrend(ctx, from, to)
		})
	}
}

func (s *Server) handlePeakHours() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		from, to := queryDateRange(r, defaultWindowDays)
		s.respondTable(w, r, "manager/peak-hours", func(ctx context.Context) (domain.Table, error) {
			return s.deps.Manager.PeakHours(ctx, from, to)
		})
	}
}

func (s *Server) handleTopProducts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := queryInt(r, "limit", 10)
		days := queryInt(r, "days", defaultWindowDays)
		s.respondTable(w, r, "manager/top-products", func(ctx context.Context) (domain.Table, error) {
			return s.deps.Manager.TopProducts(ctx, limit, days)
		})
	}
}

func (s *Server) handleInventoryUsage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.respondTable(w, r, "manager/inventory-usage", func(ctx context.Context) (domain.Table, error) {
			return s.deps.Manager.InventoryUsage(ctx)
		})
	}
}

func (s *Server) handlePromotionEffectiveness() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.respondTable(w, r, "manager/promotion-effectiveness", func(ctx context.Context) (domain.Table, error) {
			return s.deps.Manager.PromotionEffectiveness(ctx)
		})
	}
}

func (s *Server) handleForecast() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days := queryInt(r, "days", defaultWindowDays)
		s.respondTable(w, r, "manager/forecast", func(ctx context.Context) (domain.Table, error) {
			return s.deps.Manager.ForecastData(ctx, days)
		})
	}
}

func (s *Server) handleProductTrends() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		days := queryInt(r, "days", defaultWindowDays)
		s.respondTable(w, r, "manager/product-trends", func(ctx context.Context) (domain.Table, error) {
			return s.deps.Manager.ProductSalesTrends(ctx, days)
		})
	}
}

func (s *Server) handleCustomerTraffic() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		period := r.URL.Query().Get("period")
		if period == "" {
			period = "day"
		}
		s.respondTable(w, r, "manager/customer-traffic", func(ctx context.Context) (domain.Table, error) {
			return s.deps.Manager.CustomerTraffic(ctx, period)
		})
	}
}

func (s *Server) handleListTables() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.respondTable(w, r, "manager/schema", func(ctx context.Context) (domain.Table, error) {
			return s.deps.Explorer.ListTables(ctx)
		})
	}
}

func (s *Server) handleDescribeTable() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		table := chi.URLParam(r, "table")
		s.respondTable(w, r, "manager/schema/"+table, func(ctx context.Context) (domain.Table, error) {
			return s.deps.Explorer.DescribeTable(ctx, table)
		})
	}
}

type auditRecordResponse struct {
	ID          int64  `json:"id"`
	Actor       string `json:"actor"`
	Surface     string `json:"surface"`
	Operation   string `json:"operation"`
	DurationMs  int    `json:"duration_ms"`
	RowCount    int    `json:"row_count"`
	FailureKind string `json:"failure_kind,omitempty"`
	CreatedAt   string `json:"created_at"`
}

func (s *Server) handleQueryLog() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := queryInt(r, "limit", 50)
		if limit > 500 {
			limit = 500
		}

		records, err := s.deps.AuditLog.Recent(r.Context(), limit)
		if err != nil {
			s.logger.Error("reading query log", slog.String("error", err.Error()))
			s.renderQueryError(w, err)
			return
		}

		resp := make([]auditRecordResponse, 0, len(records))
		for _, rec := range records {
			resp = append(resp, auditRecordResponse{
				ID:          rec.ID,
				Actor:       rec.Actor,
				Surface:     rec.Surface,
				Operation:   rec.Operation,
				DurationMs:  rec.DurationMs,
				RowCount:    rec.RowCount,
				FailureKind: rec.FailureKind,
				CreatedAt:   rec.CreatedAt.Format(time.RFC3339),
			})
		}
		respondJSON(w, http.StatusOK, resp)
	}
}
