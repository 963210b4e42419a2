package store

import (
	"context"
	"fmt"

	"github.com/logicmart/analytics/internal/core/port"
)

const (
	stmtInsertAudit = `
	INSERT INTO query_audit (actor, surface, operation, duration_ms, row_count, failure_kind)
	VALUES ($1, $2, $3, $4, $5, $6)`

	queryRecentAudit = `
	SELECT id, actor, surface, operation, duration_ms, row_count, failure_kind, created_at
	FROM query_audit
	ORDER BY id DESC
	LIMIT $1`
)

// AuditRepositoryAdapter implements port.AuditRepository on the query_audit
// table.
type AuditRepositoryAdapter struct {
	exec port.QueryExecutor
}

// NewAuditRepository creates a new AuditRepositoryAdapter.
func NewAuditRepository(exec port.QueryExecutor) *AuditRepositoryAdapter {
	return &AuditRepositoryAdapter{exec: exec}
}

func (a *AuditRepositoryAdapter) InsertBatch(ctx context.Context, entries []port.AuditEntry) error {
	for _, entry := range entries {
		_, err := a.exec.Exec(ctx, stmtInsertAudit,
			entry.Actor, entry.Surface, entry.Operation,
			entry.DurationMs, entry.RowCount, entry.FailureKind)
		if err != nil {
			return fmt.Errorf("inserting audit entry: %w", err)
		}
	}
	return nil
}

func (a *AuditRepositoryAdapter) Recent(ctx context.Context, limit int) ([]port.AuditRecord, error) {
	tbl, err := a.exec.Query(ctx, queryRecentAudit, limit)
	if err != nil {
		return nil, fmt.Errorf("listing audit entries: %w", err)
	}

	records := make([]port.AuditRecord, 0, tbl.RowCount())
	for i := range tbl.Rows {
		records = append(records, port.AuditRecord{
			ID:          int64At(tbl, i, "id"),
			Actor:       stringAt(tbl, i, "actor"),
			Surface:     stringAt(tbl, i, "surface"),
			Operation:   stringAt(tbl, i, "operation"),
			DurationMs:  int(int64At(tbl, i, "duration_ms")),
			RowCount:    int(int64At(tbl, i, "row_count")),
			FailureKind: stringAt(tbl, i, "failure_kind"),
			CreatedAt:   timeAt(tbl, i, "created_at"),
		})
	}
	return records, nil
}
