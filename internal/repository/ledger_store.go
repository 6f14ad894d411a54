package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/bank-ledger/internal/config"
	"github.com/spec-kit/bank-ledger/internal/domain"
	"github.com/spec-kit/bank-ledger/internal/persistence"
)

// LedgerStore loads and saves the whole ledger document. Load never fails on
// a missing or malformed document; it returns the empty state instead.
type LedgerStore interface {
	Load(ctx context.Context) (domain.State, error)
	Save(ctx context.Context, state domain.State) error
	Ping(ctx context.Context) error
}

// Open builds the store selected by cfg.Ledger.Store together with the
// connections it needs. The returned func releases them.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (LedgerStore, func(), error) {
	noop := func() {}

	switch cfg.Ledger.Store {
	case config.StoreFile, "":
		return NewFileStore(cfg.Ledger.DataFile, logger), noop, nil

	case config.StoreRedis:
		client, err := persistence.OpenRedis(ctx, cfg.Redis, cfg.App.Name, logger)
		if err != nil {
			return nil, noop, err
		}
		return NewRedisStore(client, cfg.Ledger.RedisKey, logger), func() { _ = client.Close() }, nil

	case config.StorePostgres:
		pool, err := persistence.OpenPostgres(ctx, cfg.Postgres, cfg.App.Name, logger)
		if err != nil {
			return nil, noop, err
		}
		return NewPostgresStore(pool, cfg.Ledger.DocumentName, logger), pool.Close, nil

	default:
		return nil, noop, fmt.Errorf("unknown ledger store %q", cfg.Ledger.Store)
	}
}

// decodeOrEmpty applies the malformed-document policy shared by all stores.
func decodeOrEmpty(data []byte, logger *zap.Logger, source string) domain.State {
	state, err := DecodeDocument(data)
	if err != nil {
		logger.Warn("malformed ledger document; starting empty",
			zap.String("source", source), zap.Error(err))
		return domain.EmptyState()
	}
	return state
}
