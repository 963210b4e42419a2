package postgres

import (
	"context"

	"github.com/logicmart/analytics/internal/core/domain"
	"github.com/logicmart/analytics/internal/core/port"
)

// SchemaExplorer lets the ad-hoc query surface discover what it can query.
// Results come back as plain tables so every caller renders them the same
// way as analytics output.
type SchemaExplorer struct {
	exec port.QueryExecutor
}

func NewSchemaExplorer(exec port.QueryExecutor) *SchemaExplorer {
	return &SchemaExplorer{exec: exec}
}

// ListTables returns the public tables with row estimates and comments.
func (e *SchemaExplorer) ListTables(ctx context.Context) (domain.Table, error) {
	return e.exec.Query(ctx, queryListUserTables)
}

// DescribeTable returns the column layout of one public table, primary key
// membership included. An unknown table yields an empty table, not an error.
func (e *SchemaExplorer) DescribeTable(ctx context.Context, table string) (domain.Table, error) {
	return e.exec.Query(ctx, queryTableColumns, table)
}
