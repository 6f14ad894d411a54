package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/bank-ledger/internal/api/http"
	"github.com/spec-kit/bank-ledger/internal/api/http/handlers"
	"github.com/spec-kit/bank-ledger/internal/auth"
	"github.com/spec-kit/bank-ledger/internal/config"
	"github.com/spec-kit/bank-ledger/internal/events"
	"github.com/spec-kit/bank-ledger/internal/observability"
	"github.com/spec-kit/bank-ledger/internal/repository"
	"github.com/spec-kit/bank-ledger/internal/service"
	"github.com/spec-kit/bank-ledger/internal/worker"
)

func main() {
	hashPassword := flag.String("hash-password", "", "print a bcrypt hash for AUTH_OPERATOR_PASSWORD_HASH and exit")
	flag.Parse()

	if *hashPassword != "" {
		hashed, err := auth.HashPassword(*hashPassword, 0)
		if err != nil {
			log.Fatalf("failed to hash password: %v", err)
		}
		fmt.Println(hashed)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	// The API has no explicit save command, so every mutation is persisted.
	cfg.Ledger.Autosave = true

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, closeStore, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open ledger store", zap.Error(err))
	}
	defer closeStore()

	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(service.NewAuditService(dispatcher, logger, cfg.Audit))

	ledgerService := service.NewLedgerService(cfg.Ledger, service.LedgerDependencies{
		Store:      store,
		Dispatcher: dispatcher,
		Metrics:    metrics,
		Logger:     logger,
	})
	if err := ledgerService.Load(ctx); err != nil {
		logger.Fatal("failed to load ledger", zap.Error(err))
	}

	authService := service.NewAuthService(cfg.Auth)
	if cfg.Auth.OperatorPasswordHash == "" {
		logger.Warn("AUTH_OPERATOR_PASSWORD_HASH is empty; token issuing is disabled")
	}
	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager())

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	limiter := httptransport.NewClientLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout(), limiter)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, map[string]handlers.Pinger{"ledger_store": ledgerService}),
		Auth:           handlers.NewAuthHandler(authService),
		Ledger:         handlers.NewLedgerHandler(ledgerService),
		AuthMiddleware: authMiddleware,
		Metrics:        metrics,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()

	saveCtx, saveCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer saveCancel()
	if err := ledgerService.Save(saveCtx); err != nil {
		logger.Error("final save failed", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
