package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alrazi/medstock/internal/app"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping store provisioning")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	core, err := app.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("open store", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := core.Close(); err != nil {
			logger.Warn("close store", slog.Any("error", err))
		}
	}()

	if cfg.SeedDemoItems {
		items, err := loadDemoItems(cfg.SeedDemoFile)
		if err != nil {
			logger.Error("load demo items", slog.Any("error", err))
			os.Exit(1)
		}
		if err := seedDemoItems(ctx, core, items, logger); err != nil {
			logger.Error("seed demo items", slog.Any("error", err))
			os.Exit(1)
		}
	}

	if err := logSummary(ctx, core, logger); err != nil {
		logger.Error("summarise stock", slog.Any("error", err))
		os.Exit(1)
	}
}

func logSummary(ctx context.Context, core *app.Core, logger *slog.Logger) error {
	stats, err := core.Dashboard(ctx)
	if err != nil {
		return err
	}
	logger.Info("store ready",
		slog.Int("items", stats.TotalItems),
		slog.Int("low_stock", stats.LowStockCount),
		slog.Int("inbound_today", stats.TodayInbound),
		slog.Int("outbound_today", stats.TodayOutbound))
	for _, item := range stats.LowStockItems {
		logger.Warn("low stock",
			slog.String("code", item.Code),
			slog.String("name", item.Name),
			slog.Int("quantity", item.CurrentQuantity))
	}
	return nil
}
