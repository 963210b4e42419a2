package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaExplorerListTables(t *testing.T) {
	rec := &recordingExecutor{}
	ex := NewSchemaExplorer(rec)

	_, err := ex.ListTables(context.Background())

	require.NoError(t, err)
	assert.Contains(t, rec.sql, "information_schema.tables")
	assert.Contains(t, rec.sql, "table_schema = 'public'")
	assert.Empty(t, rec.args)
}

func TestSchemaExplorerDescribeTable(t *testing.T) {
	rec := &recordingExecutor{}
	ex := NewSchemaExplorer(rec)

	_, err := ex.DescribeTable(context.Background(), "products")

	require.NoError(t, err)
	assert.Contains(t, rec.sql, "is_primary_key")
	assert.Equal(t, []any{"products"}, rec.args)
}
