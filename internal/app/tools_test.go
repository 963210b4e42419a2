package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/logicmart/analytics/internal/core/domain"
	"github.com/logicmart/analytics/internal/core/port"
	"github.com/logicmart/analytics/internal/core/service"
)

// --- stubs ---

type stubManager struct {
	tbl   domain.Table
	err   error
	limit int
	days  int
}

func (s *stubManager) SalesTrend(context.Context, time.Time, time.Time) (domain.Table, error) {
	return s.tbl, s.err
}
func (s *stubManager) PeakHours(context.Context, time.Time, time.Time) (domain.Table, error) {
	return s.tbl, s.err
}
func (s *stubManager) TopProducts(_ context.Context, limit, days int) (domain.Table, error) {
	s.limit, s.days = limit, days
	return s.tbl, s.err
}
func (s *stubManager) InventoryUsage(context.Context) (domain.Table, error) { return s.tbl, s.err }
func (s *stubManager) PromotionEffectiveness(context.Context) (domain.Table, error) {
	return s.tbl, s.err
}
func (s *stubManager) ForecastData(context.Context, int) (domain.Table, error) {
	return s.tbl, s.err
}
func (s *stubManager) ProductSalesTrends(context.Context, int) (domain.Table, error) {
	return s.tbl, s.err
}
func (s *stubManager) CustomerTraffic(context.Context, string) (domain.Table, error) {
	return s.tbl, s.err
}

type stubSales struct {
	tbl domain.Table
	err error
}

func (s *stubSales) TodayDashboard(context.Context) (domain.Table, error)   { return s.tbl, s.err }
func (s *stubSales) HourlySalesToday(context.Context) (domain.Table, error) { return s.tbl, s.err }
func (s *stubSales) TodayTopProducts(context.Context, int) (domain.Table, error) {
	return s.tbl, s.err
}
func (s *stubSales) RecentTransactions(context.Context, int) (domain.Table, error) {
	return s.tbl, s.err
}
func (s *stubSales) CustomerBehavior(context.Context) (domain.Table, error) { return s.tbl, s.err }
func (s *stubSales) PopularProducts(context.Context, int) (domain.Table, error) {
	return s.tbl, s.err
}
func (s *stubSales) ActivePromotions(context.Context) (domain.Table, error) { return s.tbl, s.err }
func (s *stubSales) PromotionImpact(context.Context, int) (domain.Table, error) {
	return s.tbl, s.err
}
func (s *stubSales) SeasonalTrends(context.Context) (domain.Table, error) { return s.tbl, s.err }
func (s *stubSales) BasketPairs(context.Context, int) (domain.Table, error) {
	return s.tbl, s.err
}
func (s *stubSales) CategoryPerformance(context.Context, int) (domain.Table, error) {
	return s.tbl, s.err
}
func (s *stubSales) AvgBasketSize(context.Context, int) (domain.Table, error) {
	return s.tbl, s.err
}

type stubInventory struct {
	tbl domain.Table
	err error
}

func (s *stubInventory) LowStock(context.Context) (domain.Table, error) { return s.tbl, s.err }
func (s *stubInventory) HighDemand(context.Context, int) (domain.Table, error) {
	return s.tbl, s.err
}
func (s *stubInventory) MovementTrends(context.Context, int) (domain.Table, error) {
	return s.tbl, s.err
}
func (s *stubInventory) SalesTrends(context.Context, port.SalesTrendOptions) (domain.Table, error) {
	return s.tbl, s.err
}
func (s *stubInventory) SalesSummary(context.Context, int) (domain.Table, error) {
	return s.tbl, s.err
}
func (s *stubInventory) CategoryTrends(context.Context, int, int) (domain.Table, error) {
	return s.tbl, s.err
}
func (s *stubInventory) ProductComparison(context.Context, string, int) (domain.Table, error) {
	return s.tbl, s.err
}

type stubExplorer struct {
	tbl domain.Table
	err error
}

func (s *stubExplorer) ListTables(context.Context) (domain.Table, error) { return s.tbl, s.err }
func (s *stubExplorer) DescribeTable(context.Context, string) (domain.Table, error) {
	return s.tbl, s.err
}

type stubExecutor struct {
	tbl     domain.Table
	err     error
	lastSQL string
}

func (s *stubExecutor) Query(_ context.Context, sql string, _ ...any) (domain.Table, error) {
	s.lastSQL = sql
	return s.tbl, s.err
}

func (s *stubExecutor) Exec(context.Context, string, ...any) (int64, error) { return 0, nil }

type spyAudit struct {
	mu      sync.Mutex
	entries []port.AuditEntry
}

func (a *spyAudit) Log(entry port.AuditEntry) {
	a.mu.Lock()
	a.entries = append(a.entries, entry)
	a.mu.Unlock()
}

func (a *spyAudit) Close() {}

func (a *spyAudit) all() []port.AuditEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]port.AuditEntry(nil), a.entries...)
}

// --- helpers ---

func callTool(t *testing.T, s *server.MCPServer, toolName string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	session := server.NewInProcessSession("test", nil)
	require.NoError(t, s.RegisterSession(ctx, session))
	sessionCtx := s.WithContext(ctx, session)

	// Initialize session.
	initBytes, _ := json.Marshal(map[string]any{
		"jsonrpc": "2.0", "id": "init", "method": "initialize",
		"params": map[string]any{
			"protocolVersion": "2025-03-26",
			"capabilities":    map[string]any{},
			"clientInfo":      map[string]any{"name": "test", "version": "1.0"},
		},
	})
	s.HandleMessage(sessionCtx, initBytes)

	// Call tool.
	reqBytes, _ := json.Marshal(map[string]any{
		"jsonrpc": "2.0", "id": "call-1", "method": "tools/call",
		"params": map[string]any{
			"name":      toolName,
			"arguments": args,
		},
	})
	resp := s.HandleMessage(sessionCtx, reqBytes)
	respBytes, _ := json.Marshal(resp)

	var rpc struct {
		Result *mcp.CallToolResult       `json:"result"`
		Error  *struct{ Message string } `json:"error,omitempty"`
	}
	require.NoError(t, json.Unmarshal(respBytes, &rpc))
	require.Nil(t, rpc.Error, "unexpected RPC error: %v", rpc.Error)
	require.NotNil(t, rpc.Result)
	return rpc.Result
}

func toolText(result *mcp.CallToolResult) string {
	if len(result.Content) == 0 {
		return ""
	}
	tc, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		return ""
	}
	return tc.Text
}

type toolFixture struct {
	server  *server.MCPServer
	manager *stubManager
	exec    *stubExecutor
	audit   *spyAudit
}

func setupServer(tbl domain.Table, qerr error) *toolFixture {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	manager := &stubManager{tbl: tbl, err: qerr}
	exec := &stubExecutor{tbl: tbl, err: qerr}
	audit := &spyAudit{}

	s := NewServer("0.1.0", Deps{
		Manager:   manager,
		Sales:     &stubSales{tbl: tbl, err: qerr},
		Inventory: &stubInventory{tbl: tbl, err: qerr},
		Explorer:  &stubExplorer{tbl: tbl, err: qerr},
		AdHoc:     service.NewAdHocService(domain.NewQueryValidator(), exec, 500, 30*time.Second, logger),
		Audit:     audit,
	}, logger)

	return &toolFixture{server: s, manager: manager, exec: exec, audit: audit}
}

func trendTable() domain.Table {
	return domain.Table{
		Columns: []string{"date", "daily_revenue"},
		Rows: [][]any{
			{"2025-03-01", 412.50},
			{"2025-03-02", 388.10},
		},
	}
}

// --- tests ---

func TestSalesTrend_HappyPath(t *testing.T) {
	f := setupServer(trendTable(), nil)

	result := callTool(t, f.server, "sales_trend", map[string]any{"days": 7})
	require.False(t, result.IsError, toolText(result))

	var tbl domain.Table
	require.NoError(t, json.Unmarshal([]byte(toolText(result)), &tbl))
	assert.Equal(t, []string{"date", "daily_revenue"}, tbl.Columns)
	assert.Len(t, tbl.Rows, 2)
}

func TestSalesTrend_RecordsAudit(t *testing.T) {
	f := setupServer(trendTable(), nil)

	callTool(t, f.server, "sales_trend", nil)

	entries := f.audit.all()
	require.Len(t, entries, 1)
	assert.Equal(t, "system", entries[0].Actor)
	assert.Equal(t, "mcp", entries[0].Surface)
	assert.Equal(t, "sales_trend", entries[0].Operation)
	assert.Equal(t, 2, entries[0].RowCount)
}

func TestTopProducts_PassesArguments(t *testing.T) {
	f := setupServer(trendTable(), nil)

	result := callTool(t, f.server, "top_products", map[string]any{"limit": 5, "days": 14})
	require.False(t, result.IsError, toolText(result))

	assert.Equal(t, 5, f.manager.limit)
	assert.Equal(t, 14, f.manager.days)
}

func TestTopProducts_DefaultsArguments(t *testing.T) {
	f := setupServer(trendTable(), nil)

	callTool(t, f.server, "top_products", nil)

	assert.Equal(t, 10, f.manager.limit)
	assert.Equal(t, 30, f.manager.days)
}

func TestLowStock_HappyPath(t *testing.T) {
	f := setupServer(domain.Table{
		Columns: []string{"product_name", "stock_quantity", "reorder_level"},
		Rows:    [][]any{{"Milk", int64(4), int64(10)}},
	}, nil)

	result := callTool(t, f.server, "low_stock", nil)
	require.False(t, result.IsError, toolText(result))
	assert.Contains(t, toolText(result), "Milk")
}

func TestTodayDashboard_DatabaseDown(t *testing.T) {
	qerr := &domain.QueryError{Kind: domain.FailureUnavailable, Err: fmt.Errorf("no live connection")}
	f := setupServer(domain.Table{}, qerr)

	result := callTool(t, f.server, "today_dashboard", nil)
	assert.True(t, result.IsError)
	assert.Contains(t, toolText(result), "today_dashboard failed")
	assert.Contains(t, toolText(result), "unavailable")

	entries := f.audit.all()
	require.Len(t, entries, 1)
	assert.Equal(t, "unavailable", entries[0].FailureKind)
}

func TestInventoryMovement_HappyPath(t *testing.T) {
	f := setupServer(domain.Table{
		Columns: []string{"category", "total_inbound", "total_outbound"},
		Rows:    [][]any{{"Dairy", int64(120), int64(95)}},
	}, nil)

	result := callTool(t, f.server, "inventory_movement", map[string]any{"days": 7})
	require.False(t, result.IsError, toolText(result))
	assert.Contains(t, toolText(result), "Dairy")
}

func TestListTables_HappyPath(t *testing.T) {
	f := setupServer(domain.Table{
		Columns: []string{"table_name", "row_estimate"},
		Rows:    [][]any{{"products", int64(42)}, {"sales_transactions", int64(9000)}},
	}, nil)

	result := callTool(t, f.server, "list_tables", nil)
	require.False(t, result.IsError, toolText(result))
	assert.Contains(t, toolText(result), "sales_transactions")
}

func TestDescribeTable_MissingTableName(t *testing.T) {
	f := setupServer(domain.Table{}, nil)

	result := callTool(t, f.server, "describe_table", map[string]any{})
	assert.True(t, result.IsError)
	assert.Contains(t, toolText(result), "table_name is required")
}

func TestQuery_WrapsWithRowCap(t *testing.T) {
	f := setupServer(trendTable(), nil)

	result := callTool(t, f.server, "query", map[string]any{"sql": "SELECT * FROM products"})
	require.False(t, result.IsError, toolText(result))

	assert.Equal(t, "SELECT * FROM (SELECT * FROM products) AS _q LIMIT 500", f.exec.lastSQL)
}

func TestQuery_RejectsWrites(t *testing.T) {
	f := setupServer(trendTable(), nil)

	result := callTool(t, f.server, "query", map[string]any{"sql": "DELETE FROM products"})
	assert.True(t, result.IsError)
	assert.Contains(t, toolText(result), "only SELECT queries are allowed")
	assert.Empty(t, f.exec.lastSQL)
}

func TestQuery_MissingSQL(t *testing.T) {
	f := setupServer(trendTable(), nil)

	result := callTool(t, f.server, "query", map[string]any{})
	assert.True(t, result.IsError)
	assert.Contains(t, toolText(result), "sql is required")
}
