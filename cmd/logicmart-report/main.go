package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/logicmart/analytics/internal/adapter/audit"
	"github.com/logicmart/analytics/internal/adapter/postgres"
	"github.com/logicmart/analytics/internal/adapter/report"
	"github.com/logicmart/analytics/internal/adapter/store"
	"github.com/logicmart/analytics/internal/config"
	"github.com/logicmart/analytics/internal/core/domain"
	"github.com/logicmart/analytics/internal/core/port"
	"github.com/logicmart/analytics/internal/core/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var (
		audienceFlag = flag.String("audience", "manager", "report audience: manager, sales, or inventory")
		formatFlag   = flag.String("format", "xlsx", "output format: xlsx or pdf")
		outFlag      = flag.String("output", "", "output path (default <audience>_report_<timestamp>.<format>)")
	)
	flag.Parse()

	audience, ok := map[string]domain.Role{
		"manager":   domain.RoleManager,
		"sales":     domain.RoleSales,
		"inventory": domain.RoleRestocker,
	}[*audienceFlag]
	if !ok {
		return fmt.Errorf("unknown audience %q: want manager, sales, or inventory", *audienceFlag)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

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

	auditLogger := audit.NewBatchLogger(store.NewAuditRepository(executor), logger)
	defer auditLogger.Close()

	reports := service.NewReportService(
		postgres.NewManagerAnalytics(executor),
		postgres.NewSalesAnalytics(executor),
		postgres.NewInventoryAnalytics(executor),
		logger,
	)

	var writer port.ReportWriter
	switch *formatFlag {
	case "xlsx":
		writer = report.NewXLSXWriter()
	case "pdf":
		writer = report.NewPDFWriter(report.NewChartRenderer(), logger)
	default:
		return fmt.Errorf("unknown format %q: want xlsx or pdf", *formatFlag)
	}

	start := time.Now()
	rep, err := reports.Assemble(context.Background(), audience)
	if err != nil {
		return err
	}

	rows := 0
	for _, section := range rep.Sections {
		rows += section.Data.RowCount()
	}
	auditLogger.Log(port.AuditEntry{
		Actor:      "system",
		Surface:    "report",
		Operation:  *audienceFlag + "_report",
		DurationMs: int(time.Since(start).Milliseconds()),
		RowCount:   rows,
	})

	outPath := *outFlag
	if outPath == "" {
		outPath = fmt.Sprintf("%s_report_%s.%s", *audienceFlag, rep.GeneratedAt.Format("20060102_150405"), *formatFlag)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", outPath, err)
	}
	if err := writer.Write(rep, f); err != nil {
		_ = f.Close()
		return fmt.Errorf("rendering report: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", outPath, err)
	}

	logger.Info("report written",
		slog.String("audience", *audienceFlag),
		slog.String("format", *formatFlag),
		slog.String("path", outPath),
		slog.Int("sections", len(rep.Sections)),
	)
	fmt.Println(outPath)
	return nil
}
