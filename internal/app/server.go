package app

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/server"

	"github.com/logicmart/analytics/internal/core/port"
	"github.com/logicmart/analytics/internal/core/service"
)

const serverName = "logicmart-analytics"

// Deps bundles the surfaces the MCP tools reach into.
type Deps struct {
	Manager   port.ManagerAnalytics
	Sales     port.SalesAnalytics
	Inventory port.InventoryAnalytics
	Explorer  port.SchemaExplorer
	AdHoc     *service.AdHocService
	Audit     port.AuditLogger
}

// NewServer creates an MCPServer exposing the analytics catalog, the schema
// explorer, and the guarded ad-hoc query tool.
func NewServer(version string, deps Deps, logger *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer(
		serverName,
		version,
		server.WithHooks(toolCallHooks(logger)),
		server.WithToolCapabilities(true),
	)

	RegisterTools(s, deps)

	return s
}
