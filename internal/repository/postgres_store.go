package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/spec-kit/bank-ledger/internal/domain"
)

// PostgresStore keeps the ledger document in one jsonb row of ledger_documents.
type PostgresStore struct {
	pool   *pgxpool.Pool
	name   string
	logger *zap.Logger
}

// NewPostgresStore returns a store for the document called name.
func NewPostgresStore(pool *pgxpool.Pool, name string, logger *zap.Logger) *PostgresStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PostgresStore{pool: pool, name: name, logger: logger}
}

// Load fetches the document row; a missing row yields the empty state.
func (s *PostgresStore) Load(ctx context.Context) (domain.State, error) {
	if s.pool == nil {
		return domain.State{}, errors.New("postgres pool not configured")
	}
	const query = `SELECT body FROM ledger_documents WHERE name=$1`

	var body []byte
	err := s.pool.QueryRow(ctx, query, s.name).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		s.logger.Info("no ledger document in postgres; starting empty", zap.String("name", s.name))
		return domain.EmptyState(), nil
	}
	if err != nil {
		return domain.State{}, fmt.Errorf("load ledger document %s: %w", s.name, err)
	}
	return decodeOrEmpty(body, s.logger, "postgres:"+s.name), nil
}

// Save upserts the document row.
func (s *PostgresStore) Save(ctx context.Context, state domain.State) error {
	if s.pool == nil {
		return errors.New("postgres pool not configured")
	}
	data, err := EncodeDocument(state)
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}

	const query = `
        INSERT INTO ledger_documents (name, body, updated_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (name) DO UPDATE SET body=EXCLUDED.body, updated_at=NOW()`

	if _, err := s.pool.Exec(ctx, query, s.name, string(data)); err != nil {
		return fmt.Errorf("save ledger document %s: %w", s.name, err)
	}
	return nil
}

// Ping verifies database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	if s.pool == nil {
		return errors.New("postgres pool not configured")
	}
	return s.pool.Ping(ctx)
}
