package httpserver

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/logicmart/analytics/internal/core/domain"
	"github.com/logicmart/analytics/internal/core/port"
)

// reportAudiences maps the URL segment to the role whose report it names.
var reportAudiences = map[string]domain.Role{
	"manager":   domain.RoleManager,
	"sales":     domain.RoleSales,
	"inventory": domain.RoleRestocker,
}

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
)

// handleReport assembles and streams the caller's report. Each role can only
// download its own audience; the document is rendered into memory first so a
// writer failure still produces a clean error response.
func (s *Server) handleReport() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "audience")
		audience, ok := reportAudiences[slug]
		if !ok {
			http.Error(w, `{"error":"unknown audience"}`, http.StatusNotFound)
			return
		}

		session, _ := port.SessionFromContext(r.Context())
		if session.Role != audience {
			http.Error(w, `{"error":"forbidden"}`, http.StatusForbidden)
			return
		}

		var writer port.ReportWriter
		var contentType, ext string
		switch format := r.URL.Query().Get("format"); format {
		case "", "xlsx":
			writer, contentType, ext = s.deps.XLSX, contentTypeXLSX, "xlsx"
		case "pdf":
			writer, contentType, ext = s.deps.PDF, contentTypePDF, "pdf"
		default:
			http.Error(w, `{"error":"unknown format"}`, http.StatusBadRequest)
			return
		}

		start := time.Now()
		rep, err := s.deps.Reports.Assemble(r.Context(), audience)
		if err != nil {
			s.logger.Error("assembling report",
				slog.String("audience", slug),
				slog.String("error", err.Error()),
			)
			http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
			return
		}

		rows := 0
		for _, section := range rep.Sections {
			rows += section.Data.RowCount()
		}
		s.deps.Audit.Log(port.AuditEntry{
			Actor:      session.Username,
			Surface:    "http",
			Operation:  "reports/" + slug,
			DurationMs: int(time.Since(start).Milliseconds()),
			RowCount:   rows,
		})

		var buf bytes.Buffer
		if err := writer.Write(rep, &buf); err != nil {
			s.logger.Error("rendering report",
				slog.String("audience", slug),
				slog.String("format", ext),
				slog.String("error", err.Error()),
			)
			http.Error(w, `{"error":"internal error"}`, http.StatusInternalServerError)
			return
		}

		filename := fmt.Sprintf("%s_report_%s.%s", slug, rep.GeneratedAt.Format("20060102_150405"), ext)
		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
		_, _ = buf.WriteTo(w)
	}
}
