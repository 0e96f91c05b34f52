package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/paletar/paletar/internal/app"
	"github.com/paletar/paletar/internal/notify"
	"github.com/paletar/paletar/internal/platform/db"
	"github.com/paletar/paletar/internal/stock"
	"github.com/paletar/paletar/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := asynqClient.Close(); err != nil {
			logger.Warn("asynq close", slog.Any("error", err))
		}
	}()

	// The scan re-enqueues critical-stock mail through the same queue the
	// HTTP server uses.
	sink := notify.NewQueueSink(asynqClient, logger)
	stockService := stock.NewService(stock.NewRepository(pool), notify.NopSink{}, logger)

	mailHandler := jobs.NewMailHandler(jobs.MailConfig{
		Host:       cfg.SMTPHost,
		Port:       cfg.SMTPPort,
		From:       cfg.SMTPFrom,
		Recipients: cfg.MailRecipients,
	}, logger)
	scanHandler := jobs.NewStockScanHandler(stockService, sink, logger)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: notify.TaskMailSend, Handler: mailHandler},
			{Type: jobs.TaskStockScan, Handler: scanHandler},
		},
		Cron: []jobs.CronRegistration{
			{Spec: cfg.StockScanSchedule, Task: jobs.NewStockScanTask(), Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
