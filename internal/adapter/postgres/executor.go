package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jonboulle/clockwork"

	"github.com/logicmart/analytics/internal/core/domain"
)

// Executor runs parameterized statements over the single managed connection,
// layering its own statement-level retry on top of ConnManager's reconnect
// retry. A forced reconnect lets it recover from a socket that broke mid-query
// without the caller seeing either failure layer.
//
// Statements are serialized: the one physical connection is borrowed
// exclusively per statement.
type Executor struct {
	conns  *ConnManager
	policy RetryPolicy
	clock  clockwork.Clock
	logger *slog.Logger

	mu sync.Mutex
}

func NewExecutor(conns *ConnManager, policy RetryPolicy, logger *slog.Logger) *Executor {
	return &Executor{
		conns:  conns,
		policy: policy.normalized(),
		clock:  clockwork.NewRealClock(),
		logger: logger,
	}
}

// Query runs a read statement with bound parameters and materializes every row.
// Transient driver failures tear down the connection and retry up to the policy
// ceiling; a statement at fault fails fast. The returned error is always a
// *domain.QueryError (or a context error): raw driver errors never escape, and
// an empty table with a nil error means the query genuinely matched no rows.
func (e *Executor) Query(ctx context.Context, sql string, args ...any) (domain.Table, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	var lastErr error
	for attempt := 1; attempt <= e.policy.MaxAttempts; attempt++ {
		conn, err := e.conns.Get(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return domain.Table{}, fmt.Errorf("query aborted: %w", ctx.Err())
			}
			lastErr = err
			e.logger.Warn("query attempt without connection",
				slog.Int("attempt", attempt),
				slog.Int("max_attempts", e.policy.MaxAttempts),
			)
			if attempt < e.policy.MaxAttempts {
				if werr := e.policy.wait(ctx, e.clock); werr != nil {
					return domain.Table{}, fmt.Errorf("query aborted: %w", werr)
				}
				continue
			}
			return domain.Table{}, &domain.QueryError{Kind: domain.FailureUnavailable, Err: err}
		}

		table, qerr := queryOnce(ctx, conn, sql, args)
		if qerr == nil {
			e.logger.Debug("query succeeded",
				slog.Int("attempt", attempt),
				slog.Int("rows", table.RowCount()),
			)
			return table, nil
		}
		if ctx.Err() != nil {
			return domain.Table{}, fmt.Errorf("query aborted: %w", ctx.Err())
		}
		if !transient(qerr) {
			e.logger.Error("query failed",
				slog.Int("attempt", attempt),
				slog.String("error", qerr.Error()),
			)
			return domain.Table{}, &domain.QueryError{Kind: domain.FailureNonRetryable, Err: qerr}
		}

		lastErr = qerr
		e.logger.Warn("transient query failure, forcing reconnect",
			slog.Int("attempt", attempt),
			slog.Int("max_attempts", e.policy.MaxAttempts),
			slog.String("error", qerr.Error()),
		)
		e.conns.Close(ctx)
		if attempt < e.policy.MaxAttempts {
			if werr := e.policy.wait(ctx, e.clock); werr != nil {
				return domain.Table{}, fmt.Errorf("query aborted: %w", werr)
			}
		}
	}

	return domain.Table{}, &domain.QueryError{Kind: domain.FailureTransient, Err: lastErr}
}

// Exec runs a write statement. Obtaining the connection gets the full
// reconnect budget, but the statement itself runs once: inserts and updates
// are not safe to repeat blindly.
func (e *Executor) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	conn, err := e.conns.Get(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return 0, fmt.Errorf("exec aborted: %w", ctx.Err())
		}
		return 0, &domain.QueryError{Kind: domain.FailureUnavailable, Err: err}
	}

	tag, err := conn.Exec(ctx, sql, args...)
	if err != nil {
		kind := domain.FailureNonRetryable
		if transient(err) {
			kind = domain.FailureTransient
			e.conns.Close(ctx)
		}
		e.logger.Error("exec failed", slog.String("error", err.Error()))
		return 0, &domain.QueryError{Kind: kind, Err: err}
	}
	return tag.RowsAffected(), nil
}

// queryOnce performs a single attempt and materializes the rows.
func queryOnce(ctx context.Context, conn dbconn, sql string, args []any) (domain.Table, error) {
	rows, err := conn.Query(ctx, sql, args...)
	if err != nil {
		return domain.Table{}, fmt.Errorf("executing query: %w", err)
	}
	defer rows.Close()

	fieldDescs := rows.FieldDescriptions()
	cols := make([]string, len(fieldDescs))
	for i, fd := range fieldDescs {
		cols[i] = fd.Name
	}

	var out [][]any
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return domain.Table{}, fmt.Errorf("reading row values: %w", err)
		}
		for i, v := range values {
			values[i] = normalizeValue(v)
		}
		out = append(out, values)
	}
	if err := rows.Err(); err != nil {
		return domain.Table{}, fmt.Errorf("iterating rows: %w", err)
	}

	return domain.Table{Columns: cols, Rows: out}, nil
}

// normalizeValue flattens driver-specific cell types so downstream consumers
// (JSON encoding, report writers, chart rendering) only ever see plain Go
// values. NUMERIC columns are everywhere in the schema, and pgtype.Numeric is
// awkward for all three.
func normalizeValue(v any) any {
	switch n := v.(type) {
	case pgtype.Numeric:
		f, err := n.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	default:
		return v
	}
}
