package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/logicmart/analytics/internal/core/domain"
	"github.com/logicmart/analytics/internal/core/port"
)

// handleHealth returns a liveness probe handler. Always responds 200 if the
// server process is running.
func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// renderQueryError translates a catalog failure into an HTTP response. The
// executor has already absorbed individual transient faults, so anything
// arriving here is meant for the caller.
func (s *Server) renderQueryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrUnknownPeriod):
		http.Error(w, `{"error":"unknown period"}`, http.StatusBadRequest)
	case domain.FailureKindOf(err) == domain.FailureNonRetryable:
		http.Error(w, `{"error":"query rejected"}`, http.StatusBadRequest)
	case domain.FailureKindOf(err) != "":
		// Unavailable and exhausted-transient both mean the database cannot
		// serve right now.
		http.Error(w, `{"error":"database unavailable","hint":"check database connectivity"}`, http.StatusServiceUnavailable)
	default:
		http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
	}
}

// respondTable runs one catalog operation, records it in the audit trail, and
// renders the resulting table as JSON.
func (s *Server) respondTable(w http.ResponseWriter, r *http.Request, operation string, fetch func(ctx context.Context) (domain.Table, error)) {
	start := time.Now()
	tbl, err := fetch(r.Context())

	actor := "system"
	if session, ok := port.SessionFromContext(r.Context()); ok {
		actor = session.Username
	}
	s.deps.Audit.Log(port.AuditEntry{
		Actor:       actor,
		Surface:     "http",
		Operation:   operation,
		DurationMs:  int(time.Since(start).Milliseconds()),
		RowCount:    tbl.RowCount(),
		FailureKind: string(domain.FailureKindOf(err)),
	})

	if err != nil {
		s.logger.Error("catalog query failed",
			slog.String("operation", operation),
			slog.String("error", err.Error()),
		)
		s.renderQueryError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, tbl)
}

// queryInt reads a non-negative integer query parameter, falling back to def
// when the parameter is absent or malformed.
func queryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return def
	}
	return n
}

// queryDateRange reads from/to date parameters (2006-01-02), defaulting to
// the trailing defaultDays window. Malformed dates fall back silently, same
// as queryInt.
func queryDateRange(r *http.Request, defaultDays int) (time.Time, time.Time) {
	to := time.Now()
	from := to.AddDate(0, 0, -defaultDays)

	if raw := r.URL.Query().Get("from"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			from = t
		}
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		if t, err := time.Parse("2006-01-02", raw); err == nil {
			to = t
		}
	}
	return from, to
}
