package persistence

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/bank-ledger/internal/config"
)

// OpenRedis connects the client holding the ledger document. The ledger
// cannot start without its store, so an unreachable server is an error.
func OpenRedis(ctx context.Context, cfg config.RedisConfig, appName string, logger *zap.Logger) (*redis.Client, error) {
	client := redis.NewClient(redisOptions(cfg, appName))

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}
	logger.Info("connected to redis", zap.String("addr", cfg.Addr), zap.Int("db", cfg.DB))
	return client, nil
}

func redisOptions(cfg config.RedisConfig, appName string) *redis.Options {
	return &redis.Options{
		Addr:       cfg.Addr,
		Password:   cfg.Password,
		DB:         cfg.DB,
		ClientName: appName,
	}
}
