package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/solmak-erp/solmak-erp/internal/accounts"
	"github.com/solmak-erp/solmak-erp/internal/app"
	"github.com/solmak-erp/solmak-erp/internal/approvals"
	"github.com/solmak-erp/solmak-erp/internal/assistant"
	"github.com/solmak-erp/solmak-erp/internal/auth"
	"github.com/solmak-erp/solmak-erp/internal/finance"
	"github.com/solmak-erp/solmak-erp/internal/hr"
	"github.com/solmak-erp/solmak-erp/internal/inventory"
	"github.com/solmak-erp/solmak-erp/internal/legal"
	"github.com/solmak-erp/solmak-erp/internal/observability"
	"github.com/solmak-erp/solmak-erp/internal/office"
	"github.com/solmak-erp/solmak-erp/internal/platform/cache"
	"github.com/solmak-erp/solmak-erp/internal/platform/db"
	"github.com/solmak-erp/solmak-erp/internal/procurement"
	"github.com/solmak-erp/solmak-erp/internal/reports"
	"github.com/solmak-erp/solmak-erp/internal/sales"
	"github.com/solmak-erp/solmak-erp/internal/shared"
	"github.com/solmak-erp/solmak-erp/internal/suppliers"
	"github.com/solmak-erp/solmak-erp/internal/tenants"
	"github.com/solmak-erp/solmak-erp/internal/users"
)

const sessionCookieName = "solmak_session"

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

	sessionManager := shared.NewSessionManager(redisClient, sessionCookieName, cfg.SessionSecret, cfg.SessionTTL, cfg.IsProduction())
	auditLogger := shared.NewAuditLogger(pool)
	inTx := func(ctx context.Context, fn func(ctx context.Context) error) error {
		return db.InTx(ctx, pool, fn)
	}

	tenantRepo := tenants.NewRepository(pool)
	tenantService := tenants.NewService(tenantRepo)

	userRepo := users.NewRepository(pool)
	userService := users.NewService(userRepo)
	userMiddleware := users.Middleware{Service: userService, Logger: logger}

	authService := auth.NewService(userService, auth.NewRepository(pool))

	financeRepo := finance.NewRepository(pool)
	financeService := finance.NewService(financeRepo, logger)

	inventoryRepo := inventory.NewRepository(pool)
	inventoryService := inventory.NewService(inventoryRepo, logger)

	supplierRepo := suppliers.NewRepository(pool)
	supplierService := suppliers.NewService(supplierRepo, logger)

	salesRepo := sales.NewRepository(pool)
	salesService := sales.NewService(salesRepo, inventoryRepo, financeService, inTx, logger)

	procurementRepo := procurement.NewRepository(pool)
	procurementService := procurement.NewService(procurementRepo, inventoryRepo, supplierRepo, inTx, logger)

	hrRepo := hr.NewRepository(pool)
	hrService := hr.NewService(hrRepo, financeService, inTx, logger)

	officeRepo := office.NewRepository(pool)
	officeService := office.NewService(officeRepo, logger)

	legalRepo := legal.NewRepository(pool)
	legalService := legal.NewService(legalRepo, logger)

	accountRepo := accounts.NewRepository(pool)
	accountService := accounts.NewService(accountRepo, logger)

	approvalService := approvals.NewService(financeRepo, inventoryRepo, supplierRepo, auditLogger, logger)

	reportService := reports.NewService(financeRepo, salesRepo, redisClient, cfg.ReportCacheTTL, logger)

	generator := assistant.NewHTTPGenerator(cfg.AssistantURL, cfg.AssistantAPIKey, cfg.AssistantTimeout)
	assistantService := assistant.NewService(generator, logger)

	metrics := observability.NewMetrics()

	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		SessionManager: sessionManager,
		UserMiddleware: userMiddleware,
		Metrics:        metrics,

		AuthHandler:        auth.NewHandler(logger, authService, sessionManager),
		TenantsHandler:     tenants.NewHandler(logger, tenantService),
		UsersHandler:       users.NewHandler(logger, userService),
		FinanceHandler:     finance.NewHandler(logger, financeService),
		InventoryHandler:   inventory.NewHandler(logger, inventoryService),
		SuppliersHandler:   suppliers.NewHandler(logger, supplierService),
		SalesHandler:       sales.NewHandler(logger, salesService),
		ProcurementHandler: procurement.NewHandler(logger, procurementService),
		HRHandler:          hr.NewHandler(logger, hrService),
		OfficeHandler:      office.NewHandler(logger, officeService),
		LegalHandler:       legal.NewHandler(logger, legalService),
		AccountsHandler:    accounts.NewHandler(logger, accountService),
		ApprovalsHandler:   approvals.NewHandler(logger, approvalService),
		ReportsHandler:     reports.NewHandler(logger, reportService),
		AssistantHandler:   assistant.NewHandler(logger, assistantService),
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
