package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/logicmart/analytics/internal/core/domain"
	"github.com/logicmart/analytics/internal/core/port"
)

// AdHocService runs operator-supplied SQL with guard rails: statements are
// parsed and gated by the validator, capped to maxRows via a subquery LIMIT,
// and bounded by a per-query timeout. The fixed analytics catalog does not
// pass through here.
type AdHocService struct {
	validator *domain.QueryValidator
	exec      port.QueryExecutor
	maxRows   int
	timeout   time.Duration
	logger    *slog.Logger
}

func NewAdHocService(validator *domain.QueryValidator, exec port.QueryExecutor, maxRows int, timeout time.Duration, logger *slog.Logger) *AdHocService {
	return &AdHocService{
		validator: validator,
		exec:      exec,
		maxRows:   maxRows,
		timeout:   timeout,
		logger:    logger,
	}
}

// Execute validates the statement and, if allowed, delegates to the executor.
func (s *AdHocService) Execute(ctx context.Context, sql string) (domain.Table, error) {
	if err := s.validator.Validate(sql); err != nil {
		s.logger.Warn("ad-hoc query rejected", slog.String("error", err.Error()))
		return domain.Table{}, err
	}

	// EXPLAIN statements cannot be wrapped in a subquery.
	wrapped := sql
	if !isExplain(sql) {
		wrapped = fmt.Sprintf("SELECT * FROM (%s) AS _q LIMIT %d", sql, s.maxRows)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	return s.exec.Query(ctx, wrapped)
}

func isExplain(sql string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(sql)), "EXPLAIN")
}
