package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/solmak-erp/solmak-erp/internal/app"
	"github.com/solmak-erp/solmak-erp/internal/finance"
	"github.com/solmak-erp/solmak-erp/internal/hr"
	"github.com/solmak-erp/solmak-erp/internal/inventory"
	"github.com/solmak-erp/solmak-erp/internal/legal"
	"github.com/solmak-erp/solmak-erp/internal/platform/cache"
	"github.com/solmak-erp/solmak-erp/internal/platform/db"
	"github.com/solmak-erp/solmak-erp/internal/tenants"
	"github.com/solmak-erp/solmak-erp/jobs"
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

	inTx := func(ctx context.Context, fn func(ctx context.Context) error) error {
		return db.InTx(ctx, pool, fn)
	}

	tenantRepo := tenants.NewRepository(pool)

	financeService := finance.NewService(finance.NewRepository(pool), logger)
	hrService := hr.NewService(hr.NewRepository(pool), financeService, inTx, logger)
	legalService := legal.NewService(legal.NewRepository(pool), logger)
	inventoryService := inventory.NewService(inventory.NewRepository(pool), logger)

	payrollJob := jobs.NewPayrollGenerateJob(hrService, tenantRepo, redisClient, logger, nil)
	expiryJob := jobs.NewLegalExpiryJob(legalService, logger)
	lowStockJob := jobs.NewInventoryLowStockJob(inventoryService, tenantRepo, logger)

	payrollTask, err := jobs.NewPayrollGenerateTask("")
	if err != nil {
		logger.Error("build payroll task", slog.Any("error", err))
		os.Exit(1)
	}
	expiryTask, err := jobs.NewLegalExpiryTask()
	if err != nil {
		logger.Error("build legal expiry task", slog.Any("error", err))
		os.Exit(1)
	}
	lowStockTask, err := jobs.NewInventoryLowStockTask()
	if err != nil {
		logger.Error("build low stock task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskPayrollGenerate, Handler: payrollJob.Handle},
			{Type: jobs.TaskLegalExpiry, Handler: expiryJob.Handle},
			{Type: jobs.TaskInventoryLowStock, Handler: lowStockJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "0 3 1 * *", Task: payrollTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "30 1 * * *", Task: expiryTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "0 2 * * *", Task: lowStockTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
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
