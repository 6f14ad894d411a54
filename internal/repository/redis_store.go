package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/bank-ledger/internal/domain"
)

// RedisStore keeps the ledger document as a single string value.
type RedisStore struct {
	client *redis.Client
	key    string
	logger *zap.Logger
}

// NewRedisStore returns a store bound to key.
func NewRedisStore(client *redis.Client, key string, logger *zap.Logger) *RedisStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisStore{client: client, key: key, logger: logger}
}

// Load fetches the document; a missing key yields the empty state.
func (s *RedisStore) Load(ctx context.Context) (domain.State, error) {
	if s.client == nil {
		return domain.State{}, errors.New("redis client not configured")
	}
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		s.logger.Info("no ledger document in redis; starting empty", zap.String("key", s.key))
		return domain.EmptyState(), nil
	}
	if err != nil {
		return domain.State{}, fmt.Errorf("redis get %s: %w", s.key, err)
	}
	return decodeOrEmpty(data, s.logger, "redis:"+s.key), nil
}

// Save overwrites the document.
func (s *RedisStore) Save(ctx context.Context, state domain.State) error {
	if s.client == nil {
		return errors.New("redis client not configured")
	}
	data, err := EncodeDocument(state)
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", s.key, err)
	}
	return nil
}

// Ping verifies Redis connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	if s.client == nil {
		return errors.New("redis client not configured")
	}
	return s.client.Ping(ctx).Err()
}
