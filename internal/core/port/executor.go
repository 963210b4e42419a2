package port

import (
	"context"

	"github.com/logicmart/analytics/internal/core/domain"
)

// QueryExecutor runs statements against the backing store. Query materializes
// the full result and retries transient faults internally; callers receive
// either data or a typed failure, never a raw driver error. Exec acquires a
// connection under the same retry budget but attempts the statement once,
// since writes are not idempotent.
type QueryExecutor interface {
	Query(ctx context.Context, sql string, args ...any) (domain.Table, error)
	Exec(ctx context.Context, sql string, args ...any) (int64, error)
}
