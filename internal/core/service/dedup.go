package service

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/logicmart/analytics/internal/core/domain"
	"github.com/logicmart/analytics/internal/core/port"
)

// SharedQueries deduplicates identical concurrent reads. Behind the executor
// sits a single physical connection, so N dashboards refreshing the same
// panel would otherwise queue N copies of the same statement; callers that
// arrive while an identical (sql, args) pair is in flight share its result
// instead.
type SharedQueries struct {
	next     port.QueryExecutor
	inflight singleflight.Group
}

var _ port.QueryExecutor = (*SharedQueries)(nil)

func NewSharedQueries(next port.QueryExecutor) *SharedQueries {
	return &SharedQueries{next: next}
}

// Query coalesces concurrent identical calls. The first caller's context
// drives the execution; later joiners only wait for its result.
func (s *SharedQueries) Query(ctx context.Context, sql string, args ...any) (domain.Table, error) {
	key := fmt.Sprintf("%s|%v", sql, args)
	result, err, _ := s.inflight.Do(key, func() (any, error) {
		tbl, err := s.next.Query(ctx, sql, args...)
		if err != nil {
			return nil, err
		}
		return tbl, nil
	})
	if err != nil {
		return domain.Table{}, err
	}
	return result.(domain.Table), nil
}

// Exec passes writes straight through; they are never deduplicated.
func (s *SharedQueries) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	return s.next.Exec(ctx, sql, args...)
}
