package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/paletar/paletar/internal/app"
	"github.com/paletar/paletar/internal/auth"
	"github.com/paletar/paletar/internal/catalog"
	"github.com/paletar/paletar/internal/dashboard"
	"github.com/paletar/paletar/internal/distributors"
	"github.com/paletar/paletar/internal/notify"
	"github.com/paletar/paletar/internal/orders"
	"github.com/paletar/paletar/internal/platform/cache"
	"github.com/paletar/paletar/internal/platform/db"
	"github.com/paletar/paletar/internal/rbac"
	"github.com/paletar/paletar/internal/shared"
	"github.com/paletar/paletar/internal/stock"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	sessionManager := shared.NewSessionManager(redisClient, "paletar_session", cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	auditLogger := shared.NewAuditLogger(pool)
	guard := rbac.Middleware{Logger: logger}

	asynqClient := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := asynqClient.Close(); err != nil {
			logger.Warn("asynq close", slog.Any("error", err))
		}
	}()
	sink := notify.NewQueueSink(asynqClient, logger)

	authService := auth.NewService(auth.NewRepository(pool))
	authHandler := auth.NewHandler(logger, authService, sessionManager)

	catalogService := catalog.NewService(catalog.NewRepository(pool), auditLogger, logger)
	catalogHandler := catalog.NewHandler(logger, catalogService, guard)

	distributorService := distributors.NewService(distributors.NewRepository(pool))
	distributorHandler := distributors.NewHandler(logger, distributorService, guard)

	stockService := stock.NewService(stock.NewRepository(pool), sink, logger)
	stockHandler := stock.NewHandler(logger, stockService, guard)

	orderService := orders.NewService(
		orders.NewRepository(pool),
		distributorService,
		catalogService,
		sink,
		stockService,
		auditLogger,
		logger,
	)
	orderHandler := orders.NewHandler(logger, orderService, guard, shared.NewIdempotencyStore(pool))

	dashboardService := dashboard.NewService(dashboard.NewRepository(pool), redisClient, logger)
	dashboardHandler := dashboard.NewHandler(logger, dashboardService, guard)

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		SessionManager:     sessionManager,
		AuthHandler:        authHandler,
		CatalogHandler:     catalogHandler,
		DistributorHandler: distributorHandler,
		OrderHandler:       orderHandler,
		StockHandler:       stockHandler,
		DashboardHandler:   dashboardHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
