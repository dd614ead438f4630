package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"reportbot/internal/config"
	"reportbot/internal/repository/postgres"
	"reportbot/internal/scheduler"
	"reportbot/internal/server/handlers"
	"reportbot/internal/server/router"
	botsvc "reportbot/internal/service/bot"
	"reportbot/internal/service/notify"
	reportsvc "reportbot/internal/service/reports"
	"reportbot/internal/service/storage"
	telegramclient "reportbot/pkg/clients/telegram"
	"reportbot/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	db, err := postgres.NewConnection(cfg.DB.DSN())
	if err != nil {
		baseLogger.Fatal("failed to connect to postgres", zap.Error(err))
	}
	if err := postgres.Migrate(db); err != nil {
		baseLogger.Fatal("failed to migrate schema", zap.Error(err))
	}

	shiftReports := postgres.NewShiftReports(db)
	inventoryItems := postgres.NewInventoryItems(db)
	dailyInventories := postgres.NewDailyInventories(db, inventoryItems)
	goodsReports := postgres.NewGoodsReports(db)
	writeoffTransfers := postgres.NewWriteoffTransfers(db)

	files, err := storage.NewFileService(cfg.Uploads.Dir)
	if err != nil {
		baseLogger.Fatal("failed to init file storage", zap.Error(err))
	}

	tgClient := telegramclient.NewClient(cfg.Telegram.BotToken)
	dispatcher := notify.NewDispatcher(cfg.Telegram, tgClient, baseLogger.Named("notify.dispatcher"))

	worker := notify.NewWorker(
		dispatcher,
		shiftReports,
		dailyInventories,
		goodsReports,
		writeoffTransfers,
		files.AbsolutePath,
		128, 2,
		baseLogger.Named("notify.worker"),
	)
	worker.Start()
	defer worker.Stop()

	reportService := reportsvc.NewService(
		shiftReports,
		dailyInventories,
		inventoryItems,
		goodsReports,
		writeoffTransfers,
		files,
		worker,
		dispatcher,
		baseLogger.Named("svc.reports"),
	)

	botService := botsvc.NewService(tgClient, cfg.Telegram.MiniAppURL, baseLogger.Named("svc.bot"))

	if dispatcher.Enabled() && cfg.Telegram.WebhookURL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := tgClient.SetWebhook(ctx, cfg.Telegram.WebhookURL); err != nil {
			baseLogger.Warn("webhook registration failed", zap.Error(err))
		} else {
			baseLogger.Info("webhook registered", zap.String("url", cfg.Telegram.WebhookURL))
		}
		cancel()
	}

	engine := router.New(router.Handlers{
		ShiftReports:      handlers.NewShiftReportHandler(reportService, shiftReports, baseLogger.Named("handlers.shift_reports")),
		DailyInventories:  handlers.NewDailyInventoryHandler(reportService, dailyInventories, baseLogger.Named("handlers.daily_inventory")),
		GoodsReports:      handlers.NewGoodsReportHandler(reportService, goodsReports, baseLogger.Named("handlers.goods_reports")),
		WriteoffTransfers: handlers.NewWriteoffTransferHandler(reportService, writeoffTransfers, baseLogger.Named("handlers.writeoff_transfers")),
		InventoryItems:    handlers.NewInventoryItemHandler(inventoryItems, baseLogger.Named("handlers.inventory_items")),
		TelegramWebhook:   handlers.NewTelegramWebhookHandler(botService, tgClient, baseLogger.Named("handlers.telegram")),
	}, cfg.Uploads.Dir, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Janitor, files, shiftReports, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
