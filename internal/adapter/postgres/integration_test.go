package postgres_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/logicmart/analytics/internal/adapter/postgres"
	"github.com/logicmart/analytics/internal/adapter/store"
	"github.com/logicmart/analytics/internal/core/domain"
	"github.com/logicmart/analytics/internal/core/port"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// setupDatabase starts a disposable PostgreSQL container and applies the
// embedded migrations, returning a connection string.
func setupDatabase(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("logicmart"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	require.NoError(t, store.Migrate(connStr))
	return connStr
}

func newTestExecutor(t *testing.T, url string) *postgres.Executor {
	t.Helper()

	policy := postgres.RetryPolicy{MaxAttempts: 3, Backoff: 100 * time.Millisecond}
	conns, err := postgres.NewConnManager(postgres.ConnConfig{
		URL:               url,
		ConnectTimeout:    10 * time.Second,
		KeepaliveIdle:     30 * time.Second,
		KeepaliveInterval: 10 * time.Second,
		KeepaliveCount:    3,
	}, policy, discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { conns.Close(context.Background()) })

	return postgres.NewExecutor(conns, policy, discardLogger())
}

// seedSale inserts one product and one completed transaction selling it,
// using server-side timestamps so date-bucketed queries see it as today.
func seedSale(t *testing.T, exec *postgres.Executor, sku, name string, qty int, price float64) {
	t.Helper()
	ctx := context.Background()

	_, err := exec.Exec(ctx, `
		INSERT INTO products (sku, name, category_id, cost_price, selling_price, current_stock, reorder_level)
		VALUES ($1, $2, (SELECT id FROM categories WHERE name = 'Bakery'), $3, $4, 50, 10)
		ON CONFLICT (sku) DO NOTHING`,
		sku, name, price/2, price)
	require.NoError(t, err)

	code := "TXN-IT-" + sku
	_, err = exec.Exec(ctx, `
		INSERT INTO sales_transactions (transaction_id, total_amount, tax_amount, payment_method)
		VALUES ($1, $2, $3, 'card')`,
		code, float64(qty)*price*1.05, float64(qty)*price*0.05)
	require.NoError(t, err)

	_, err = exec.Exec(ctx, `
		INSERT INTO sales_transaction_items (transaction_id, product_id, quantity, unit_price, total_price)
		VALUES (
			(SELECT id FROM sales_transactions WHERE transaction_id = $1),
			(SELECT id FROM products WHERE sku = $2),
			$3, $4, $5)`,
		code, sku, qty, price, float64(qty)*price)
	require.NoError(t, err)
}

func TestIntegration_CountOnEmptyTableReturnsOneRow(t *testing.T) {
	exec := newTestExecutor(t, setupDatabase(t))

	tbl, err := exec.Query(context.Background(), `SELECT COUNT(*) AS n FROM sales_transactions`)
	require.NoError(t, err)

	require.Equal(t, 1, tbl.RowCount())
	v, ok := tbl.Value(0, "n")
	require.True(t, ok)
	assert.EqualValues(t, 0, v)
}

func TestIntegration_ExecWritesQueryReadsBack(t *testing.T) {
	exec := newTestExecutor(t, setupDatabase(t))
	ctx := context.Background()

	affected, err := exec.Exec(ctx,
		`INSERT INTO customers (customer_code, name, membership_type) VALUES ($1, $2, 'gold')`,
		"CUST-001", "Ada Lovelace")
	require.NoError(t, err)
	assert.EqualValues(t, 1, affected)

	tbl, err := exec.Query(ctx, `SELECT name, membership_type FROM customers WHERE customer_code = $1`, "CUST-001")
	require.NoError(t, err)
	require.Equal(t, 1, tbl.RowCount())

	name, _ := tbl.Value(0, "name")
	assert.Equal(t, "Ada Lovelace", name)
	tier, _ := tbl.Value(0, "membership_type")
	assert.Equal(t, "gold", tier)
}

func TestIntegration_BadStatementFailsWithoutRetry(t *testing.T) {
	exec := newTestExecutor(t, setupDatabase(t))

	tbl, err := exec.Query(context.Background(), `SELECT no_such_column FROM users`)
	require.Error(t, err)
	assert.True(t, tbl.Empty())
	assert.Equal(t, domain.FailureNonRetryable, domain.FailureKindOf(err))
}

func TestIntegration_MigrationsAreIdempotent(t *testing.T) {
	url := setupDatabase(t)
	require.NoError(t, store.Migrate(url))
}

func TestIntegration_SeededAccountsAuthenticate(t *testing.T) {
	exec := newTestExecutor(t, setupDatabase(t))
	users := store.NewUserStore(exec)
	ctx := context.Background()

	user, err := users.Authenticate(ctx, "manager", "123")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleManager, user.Role)

	_, err = users.Authenticate(ctx, "manager", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	// last_login was stamped by the successful login above.
	again, err := users.GetByUsername(ctx, "manager")
	require.NoError(t, err)
	assert.NotNil(t, again.LastLogin)

	created, err := users.Create(ctx, "casher01", "secret", domain.RoleSales)
	require.NoError(t, err)
	assert.Equal(t, "casher01", created.Username)

	_, err = users.Create(ctx, "casher01", "other", domain.RoleSales)
	assert.ErrorIs(t, err, domain.ErrUsernameTaken)
}

func TestIntegration_AuditTrailRoundtrip(t *testing.T) {
	exec := newTestExecutor(t, setupDatabase(t))
	repo := store.NewAuditRepository(exec)
	ctx := context.Background()

	err := repo.InsertBatch(ctx, []port.AuditEntry{
		{Actor: "manager", Surface: "http", Operation: "manager/sales-trend", DurationMs: 12, RowCount: 30},
		{Actor: "system", Surface: "mcp", Operation: "low_stock", DurationMs: 7, RowCount: 4, FailureKind: "unavailable"},
	})
	require.NoError(t, err)

	records, err := repo.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Newest first.
	assert.Equal(t, "low_stock", records[0].Operation)
	assert.Equal(t, "unavailable", records[0].FailureKind)
	assert.Equal(t, "manager/sales-trend", records[1].Operation)
	assert.Equal(t, 30, records[1].RowCount)
	assert.False(t, records[0].CreatedAt.IsZero())
}

func TestIntegration_AnalyticsOverSeededSales(t *testing.T) {
	exec := newTestExecutor(t, setupDatabase(t))
	seedSale(t, exec, "IT-001", "Rye Loaf", 3, 3.50)
	ctx := context.Background()

	manager := postgres.NewManagerAnalytics(exec)
	now := time.Now()

	trend, err := manager.SalesTrend(ctx, now.AddDate(0, 0, -2), now.AddDate(0, 0, 2))
	require.NoError(t, err)
	require.Equal(t, 1, trend.RowCount())
	revenue, ok := trend.Value(0, "daily_revenue")
	require.True(t, ok)
	assert.InDelta(t, 3*3.50*1.05, revenue, 0.01)

	top, err := manager.TopProducts(ctx, 5, 30)
	require.NoError(t, err)
	require.Equal(t, 1, top.RowCount())
	name, _ := top.Value(0, "product_name")
	assert.Equal(t, "Rye Loaf", name)
	sold, _ := top.Value(0, "total_quantity_sold")
	assert.EqualValues(t, 3, sold)

	sales := postgres.NewSalesAnalytics(exec)
	today, err := sales.TodayDashboard(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, today.RowCount())

	inventory := postgres.NewInventoryAnalytics(exec)
	summary, err := inventory.SalesSummary(ctx, 7)
	require.NoError(t, err)
	assert.False(t, summary.Empty())
}

func TestIntegration_SchemaExplorer(t *testing.T) {
	exec := newTestExecutor(t, setupDatabase(t))
	explorer := postgres.NewSchemaExplorer(exec)
	ctx := context.Background()

	tables, err := explorer.ListTables(ctx)
	require.NoError(t, err)

	names := make(map[string]bool)
	for i := range tables.Rows {
		v, _ := tables.Value(i, "table_name")
		if s, ok := v.(string); ok {
			names[s] = true
		}
	}
	assert.True(t, names["products"])
	assert.True(t, names["users"])
	assert.True(t, names["query_audit"])

	cols, err := explorer.DescribeTable(ctx, "products")
	require.NoError(t, err)
	require.False(t, cols.Empty())

	var sawPrimary bool
	for i := range cols.Rows {
		name, _ := cols.Value(i, "column_name")
		if name == "id" {
			pk, _ := cols.Value(i, "is_primary_key")
			sawPrimary = pk == true
		}
	}
	assert.True(t, sawPrimary)

	missing, err := explorer.DescribeTable(ctx, "no_such_table")
	require.NoError(t, err)
	assert.True(t, missing.Empty())
}
