package app

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/logicmart/analytics/internal/core/domain"
	"github.com/logicmart/analytics/internal/core/port"
)

func RegisterTools(s *server.MCPServer, deps Deps) {
	// sales_trend
	s.AddTool(
		mcp.NewTool("sales_trend",
			mcp.WithDescription("Daily revenue, transaction counts, and average transaction value for the last N days"),
			mcp.WithNumber("days",
				mcp.Description("Lookback window in days (default 30)"),
			),
		),
		salesTrendHandler(deps),
	)

	// top_products
	s.AddTool(
		mcp.NewTool("top_products",
			mcp.WithDescription("Best selling products by quantity over the last N days"),
			mcp.WithNumber("limit",
				mcp.Description("Maximum number of products to return (default 10)"),
			),
			mcp.WithNumber("days",
				mcp.Description("Lookback window in days (default 30)"),
			),
		),
		topProductsHandler(deps),
	)

	// low_stock
	s.AddTool(
		mcp.NewTool("low_stock",
			mcp.WithDescription("Products at or below their reorder level, with days-until-stockout estimates"),
		),
		lowStockHandler(deps),
	)

	// today_dashboard
	s.AddTool(
		mcp.NewTool("today_dashboard",
			mcp.WithDescription("Today's sales summary: revenue, transaction count, items sold, and average sale"),
		),
		todayDashboardHandler(deps),
	)

	// inventory_movement
	s.AddTool(
		mcp.NewTool("inventory_movement",
			mcp.WithDescription("Inbound and outbound inventory movement by category over the last N days"),
			mcp.WithNumber("days",
				mcp.Description("Lookback window in days (default 30)"),
			),
		),
		inventoryMovementHandler(deps),
	)

	// list_tables
	s.AddTool(
		mcp.NewTool("list_tables",
			mcp.WithDescription("List the tables of the analytics schema with estimated row counts"),
		),
		listTablesHandler(deps),
	)

	// describe_table
	s.AddTool(
		mcp.NewTool("describe_table",
			mcp.WithDescription("Describe a table's columns, types, and nullability"),
			mcp.WithString("table_name",
				mcp.Required(),
				mcp.Description("Name of the table to describe"),
			),
		),
		describeTableHandler(deps),
	)

	// query
	s.AddTool(
		mcp.NewTool("query",
			mcp.WithDescription("Run an ad-hoc SQL query against the analytics database. Only SELECT and EXPLAIN statements are accepted; results are row-capped and time-bounded server-side."),
			mcp.WithString("sql",
				mcp.Required(),
				mcp.Description("SQL query to execute"),
			),
		),
		queryHandler(deps),
	)
}

func salesTrendHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		days := intArg(request, "days", 30)
		to := time.Now()
		from := to.AddDate(0, 0, -days)
		return tableResult(deps.Audit, "sales_trend", func() (domain.Table, error) {
			return deps.Manager.SalesTrend(ctx, from, to)
		})
	}
}

func topProductsHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		limit := intArg(request, "limit", 10)
		days := intArg(request, "days", 30)
		return tableResult(deps.Audit, "top_products", func() (domain.Table, error) {
			return deps.Manager.TopProducts(ctx, limit, days)
		})
	}
}

func lowStockHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return tableResult(deps.Audit, "low_stock", func() (domain.Table, error) {
			return deps.Inventory.LowStock(ctx)
		})
	}
}

func todayDashboardHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return tableResult(deps.Audit, "today_dashboard", func() (domain.Table, error) {
			return deps.Sales.TodayDashboard(ctx)
		})
	}
}

func inventoryMovementHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		days := intArg(request, "days", 30)
		return tableResult(deps.Audit, "inventory_movement", func() (domain.Table, error) {
			return deps.Inventory.MovementTrends(ctx, days)
		})
	}
}

func listTablesHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return tableResult(deps.Audit, "list_tables", func() (domain.Table, error) {
			return deps.Explorer.ListTables(ctx)
		})
	}
}

func describeTableHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		tableName, ok := request.GetArguments()["table_name"].(string)
		if !ok || tableName == "" {
			return mcp.NewToolResultError("table_name is required"), nil
		}
		return tableResult(deps.Audit, "describe_table", func() (domain.Table, error) {
			return deps.Explorer.DescribeTable(ctx, tableName)
		})
	}
}

func queryHandler(deps Deps) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		sql, ok := request.GetArguments()["sql"].(string)
		if !ok || sql == "" {
			return mcp.NewToolResultError("sql is required"), nil
		}
		return tableResult(deps.Audit, "query", func() (domain.Table, error) {
			return deps.AdHoc.Execute(ctx, sql)
		})
	}
}

// tableResult runs one catalog operation, records it in the audit trail, and
// renders the table as a JSON tool result. Failures become tool errors, never
// protocol errors.
func tableResult(audit port.AuditLogger, operation string, fetch func() (domain.Table, error)) (*mcp.CallToolResult, error) {
	start := time.Now()
	tbl, err := fetch()

	audit.Log(port.AuditEntry{
		Actor:       "system",
		Surface:     "mcp",
		Operation:   operation,
		DurationMs:  int(time.Since(start).Milliseconds()),
		RowCount:    tbl.RowCount(),
		FailureKind: string(domain.FailureKindOf(err)),
	})

	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("%s failed: %v", operation, err)), nil
	}

	data, err := json.Marshal(tbl)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal results: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// intArg reads a numeric tool argument; JSON numbers arrive as float64.
func intArg(request mcp.CallToolRequest, name string, def int) int {
	v, ok := request.GetArguments()[name].(float64)
	if !ok || v < 0 {
		return def
	}
	return int(v)
}
