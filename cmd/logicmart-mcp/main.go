package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"github.com/logicmart/analytics/internal/adapter/audit"
	"github.com/logicmart/analytics/internal/adapter/postgres"
	"github.com/logicmart/analytics/internal/adapter/store"
	"github.com/logicmart/analytics/internal/app"
	"github.com/logicmart/analytics/internal/config"
	"github.com/logicmart/analytics/internal/core/domain"
	"github.com/logicmart/analytics/internal/core/service"
)

var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Stdout carries the MCP protocol; logs go to stderr.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	policy := postgres.RetryPolicy{MaxAttempts: cfg.RetryAttempts, Backoff: cfg.RetryBackoff}
	conns, err := postgres.NewConnManager(postgres.ConnConfig{
		URL:               cfg.DatabaseURL,
		ConnectTimeout:    cfg.ConnectTimeout,
		KeepaliveIdle:     cfg.KeepaliveIdle,
		KeepaliveInterval: cfg.KeepaliveInterval,
		KeepaliveCount:    cfg.KeepaliveCount,
	}, policy, logger)
	if err != nil {
		return fmt.Errorf("building connection manager: %w", err)
	}
	defer conns.Close(context.Background())

	executor := postgres.NewExecutor(conns, policy, logger)
	shared := service.NewSharedQueries(executor)

	auditLogger := audit.NewBatchLogger(store.NewAuditRepository(executor), logger)
	defer auditLogger.Close()

	adhoc := service.NewAdHocService(domain.NewQueryValidator(), shared, cfg.MaxRows, cfg.QueryTimeout, logger)

	mcpServer := app.NewServer(version, app.Deps{
		Manager:   postgres.NewManagerAnalytics(shared),
		Sales:     postgres.NewSalesAnalytics(shared),
		Inventory: postgres.NewInventoryAnalytics(shared),
		Explorer:  postgres.NewSchemaExplorer(shared),
		AdHoc:     adhoc,
		Audit:     auditLogger,
	}, logger)

	return server.ServeStdio(mcpServer)
}
