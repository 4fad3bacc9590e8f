// Package main is the entry point for the posledger API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"posledger/internal/config"
	"posledger/internal/domain/attendance"
	"posledger/internal/domain/auth"
	"posledger/internal/domain/catalogs/employee"
	"posledger/internal/domain/catalogs/stockitem"
	"posledger/internal/domain/catalogs/supplier"
	"posledger/internal/domain/documents/bill"
	"posledger/internal/domain/reports"
	v1 "posledger/internal/infrastructure/http/v1"
	"posledger/internal/infrastructure/http/v1/middleware"
	"posledger/internal/infrastructure/storage/postgres"
	"posledger/internal/infrastructure/storage/postgres/attendance_repo"
	"posledger/internal/infrastructure/storage/postgres/auth_repo"
	"posledger/internal/infrastructure/storage/postgres/catalog_repo"
	"posledger/internal/infrastructure/storage/postgres/document_repo"
	"posledger/internal/infrastructure/storage/postgres/report_repo"
	"posledger/pkg/logger"
	"posledger/pkg/numerator"
)

const idempotencyCleanupInterval = time.Hour

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.IsDevelopment(),
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Infow("starting posledger server", "env", cfg.AppEnv)

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(cfg.DatabaseURL)
	poolCfg.MaxConns = cfg.DBMaxConns
	poolCfg.MinConns = cfg.DBMinConns
	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	if err := postgres.Migrate(ctx, pool); err != nil {
		log.Fatalw("failed to apply schema", "error", err)
	}

	txOpts := postgres.DefaultTxOptions()
	txOpts.StatementTimeout = cfg.DBStatementLimit
	txManager := postgres.NewTxManager(pool, txOpts)

	// --- Supporting services ---
	numbers := numerator.NewFromContext(func(ctx context.Context) numerator.Querier {
		return txManager.GetQuerier(ctx)
	})

	auditService, err := postgres.NewAuditService(txManager, cfg.AuditCompressThreshold)
	if err != nil {
		log.Fatalw("failed to create audit service", "error", err)
	}

	metrics := middleware.NewMetrics()

	jwtConfig := auth.DefaultJWTConfig(cfg.JWTSecret)
	jwtConfig.AccessTokenTTL = cfg.JWTTTL
	jwtService := auth.NewJWTService(jwtConfig)

	// --- Domain services ---
	stockService := stockitem.NewService(catalog_repo.NewStockItemRepo(txManager), txManager)
	supplierService := supplier.NewService(catalog_repo.NewSupplierRepo(txManager), txManager)
	employeeService := employee.NewService(catalog_repo.NewEmployeeRepo(txManager), txManager)

	billEngine := bill.NewEngine(
		document_repo.NewBillRepo(txManager),
		stockService,
		supplierService,
		numbers,
		txManager,
		bill.Config{AllowNegativeStock: cfg.BillAllowNegativeStock},
		bill.WithAudit(auditService),
		bill.WithObserver(metrics),
	)

	services := v1.Services{
		Auth:       auth.NewService(auth_repo.NewUserRepo(txManager), txManager, jwtService),
		StockItems: stockService,
		Suppliers:  supplierService,
		Employees:  employeeService,
		Bills:      billEngine,
		Attendance: attendance.NewService(attendance_repo.NewAttendanceRepo(txManager), employeeService, txManager),
		Reports:    reports.NewService(report_repo.NewReportRepo(txManager), stockService, billEngine),
	}

	routerCfg := v1.RouterConfig{
		Logger:       log,
		JWTValidator: jwtService,
		Services:     services,
		DB:           pool,
		Metrics:      metrics,
		Production:   cfg.IsProduction(),
	}
	if cfg.IdempotencyEnabled {
		store := postgres.NewIdempotencyStore(txManager, cfg.IdempotencyTTL)
		routerCfg.Idempotency = store
		go cleanupIdempotency(ctx, store, log)
	}

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      v1.NewRouter(routerCfg),
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
		IdleTimeout:  cfg.AppIdleTimeout,
	}

	go func() {
		log.Infow("server starting", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}
	log.Info("server stopped")
}

func cleanupIdempotency(ctx context.Context, store *postgres.IdempotencyStore, log *logger.Logger) {
	ticker := time.NewTicker(idempotencyCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.CleanupExpired(ctx)
			if err != nil {
				log.Warnw("idempotency cleanup failed", "error", err)
				continue
			}
			if n > 0 {
				log.Debugw("idempotency keys expired", "count", n)
			}
		}
	}
}
