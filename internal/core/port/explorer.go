package port

import (
	"context"

	"github.com/logicmart/analytics/internal/core/domain"
)

// SchemaExplorer introspects the analytics schema. Results come back as
// plain tables so every surface renders them the way it renders query
// results.
type SchemaExplorer interface {
	ListTables(ctx context.Context) (domain.Table, error)
	DescribeTable(ctx context.Context, table string) (domain.Table, error)
}
