package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/logicmart/analytics/internal/adapter/audit"
	"github.com/logicmart/analytics/internal/adapter/httpserver"
	"github.com/logicmart/analytics/internal/adapter/postgres"
	"github.com/logicmart/analytics/internal/adapter/report"
	"github.com/logicmart/analytics/internal/adapter/store"
	"github.com/logicmart/analytics/internal/config"
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

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	logger.Info("starting logicmart-server",
		slog.String("version", version),
		slog.String("log_level", cfg.LogLevel.String()),
		slog.String("listen_addr", cfg.ListenAddr),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	if err := store.Migrate(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("database migrations applied")

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

	// Catalog adapters read through the deduplicating layer; the user store
	// and audit trail write through the raw executor.
	shared := service.NewSharedQueries(executor)
	manager := postgres.NewManagerAnalytics(shared)
	sales := postgres.NewSalesAnalytics(shared)
	inventory := postgres.NewInventoryAnalytics(shared)
	explorer := postgres.NewSchemaExplorer(shared)

	users := store.NewUserStore(executor)
	auditRepo := store.NewAuditRepository(executor)

	auditLogger := audit.NewBatchLogger(auditRepo, logger)
	defer auditLogger.Close()

	authSvc := service.NewAuthService(users, cfg.SessionTTL, logger)
	defer authSvc.Close()

	charts := report.NewChartRenderer()

	srv := httpserver.New(httpserver.Config{
		ListenAddr:         cfg.ListenAddr,
		CORSOrigin:         cfg.CORSOrigin,
		ReadHeaderTimeout:  cfg.ReadHeaderTimeout,
		IdleTimeout:        cfg.IdleTimeout,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
	}, httpserver.Deps{
		Auth:      authSvc,
		Manager:   manager,
		Sales:     sales,
		Inventory: inventory,
		Explorer:  explorer,
		Reports:   service.NewReportService(manager, sales, inventory, logger),
		XLSX:      report.NewXLSXWriter(),
		PDF:       report.NewPDFWriter(charts, logger),
		Audit:     auditLogger,
		AuditLog:  auditRepo,
	}, logger)

	// Second signal after shutdown begins = hard exit.
	go func() {
		<-ctx.Done()
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
		sig := <-sigCh
		logger.Warn("forced shutdown", slog.String("signal", sig.String()))
		os.Exit(1)
	}()

	g, ctx := errgroup.WithContext(ctx)

	// Component: HTTP server.
	g.Go(func() error {
		return srv.ListenAndServe()
	})

	// Shutdown trigger: when ctx is cancelled (signal or component failure),
	// gracefully stop the HTTP server.
	g.Go(func() error {
		<-ctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("shutdown complete")
	return nil
}
