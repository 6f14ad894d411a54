package main

import (
	"context"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/spec-kit/bank-ledger/internal/cli"
	"github.com/spec-kit/bank-ledger/internal/config"
	"github.com/spec-kit/bank-ledger/internal/events"
	"github.com/spec-kit/bank-ledger/internal/observability"
	"github.com/spec-kit/bank-ledger/internal/repository"
	"github.com/spec-kit/bank-ledger/internal/service"
	"github.com/spec-kit/bank-ledger/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx := context.Background()

	store, closeStore, err := repository.Open(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open ledger store", zap.Error(err))
	}
	defer closeStore()
	if fs, ok := store.(*repository.FileStore); ok {
		logger.Info("using ledger file", zap.String("path", fs.Path()))
	}

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(service.NewAuditService(dispatcher, logger, cfg.Audit))

	ledgerService := service.NewLedgerService(cfg.Ledger, service.LedgerDependencies{
		Store:      store,
		Dispatcher: dispatcher,
		Metrics:    observability.NewMetrics(),
		Logger:     logger,
	})
	if err := ledgerService.Load(ctx); err != nil {
		logger.Fatal("failed to load ledger", zap.Error(err))
	}

	console := cli.NewConsole(ledgerService, os.Stdin, os.Stdout, logger)
	if err := console.Run(ctx); err != nil {
		logger.Error("ledger session ended with error", zap.Error(err))
		closeStore()
		logger.Sync() //nolint:errcheck
		os.Exit(1)
	}
}
