package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// sqlLogLimit caps how much of an ad-hoc statement lands in the log line.
const sqlLogLimit = 120

// toolCallHooks logs every tool call with timing and a short argument
// summary. Audit trail entries are written by the handlers themselves, where
// row counts are known.
func toolCallHooks(logger *slog.Logger) *server.Hooks {
	hooks := &server.Hooks{}
	var starts sync.Map

	hooks.AddBeforeCallTool(func(ctx context.Context, id any, req *mcp.CallToolRequest) {
		starts.Store(id, time.Now())
	})

	hooks.AddAfterCallTool(func(ctx context.Context, id any, req *mcp.CallToolRequest, result *mcp.CallToolResult) {
		duration := sinceStart(&starts, id)
		level := slog.LevelInfo
		isErr := false

		if result != nil && result.IsError {
			level = slog.LevelError
			isErr = true
		}

		logger.LogAttrs(ctx, level, "tool call",
			slog.String("rpc.method", "tools/call"),
			slog.String("mcp.tool", req.Params.Name),
			slog.String("mcp.args", argSummary(req)),
			slog.Duration("duration", duration),
			slog.Bool("error", isErr),
		)
	})

	hooks.AddOnError(func(ctx context.Context, id any, method mcp.MCPMethod, message any, err error) {
		duration := sinceStart(&starts, id)
		if req, ok := message.(*mcp.CallToolRequest); ok {
			logger.LogAttrs(ctx, slog.LevelError, "tool call",
				slog.String("rpc.method", "tools/call"),
				slog.String("mcp.tool", req.Params.Name),
				slog.Duration("duration", duration),
				slog.Bool("error", true),
				slog.String("error.message", err.Error()),
			)
		}
	})

	return hooks
}

// argSummary condenses the request arguments into one loggable string: the
// ad-hoc SQL (truncated), a table name, or the window parameters.
func argSummary(req *mcp.CallToolRequest) string {
	args := req.GetArguments()
	if args == nil {
		return ""
	}
	if sql, ok := args["sql"].(string); ok {
		if len(sql) > sqlLogLimit {
			sql = sql[:sqlLogLimit] + "..."
		}
		return sql
	}
	if tn, ok := args["table_name"].(string); ok {
		return tn
	}
	parts := make([]string, 0, 2)
	for _, key := range []string{"limit", "days"} {
		if v, ok := args[key].(float64); ok {
			parts = append(parts, fmt.Sprintf("%s=%d", key, int(v)))
		}
	}
	return strings.Join(parts, " ")
}

func sinceStart(starts *sync.Map, id any) time.Duration {
	if v, ok := starts.LoadAndDelete(id); ok {
		return time.Since(v.(time.Time))
	}
	return 0
}
