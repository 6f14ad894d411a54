package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/bank-ledger/internal/config"
	"github.com/spec-kit/bank-ledger/internal/domain"
	"github.com/spec-kit/bank-ledger/internal/persistence"
)

func TestOpenFileStore(t *testing.T) {
	cfg := &config.Config{Ledger: config.LedgerConfig{Store: config.StoreFile, DataFile: filepath.Join(t.TempDir(), "d.json")}}
	store, closeFn, err := Open(context.Background(), cfg, zap.NewNop())
	if err != nil {
		t.Fatalf("Open err=%v", err)
	}
	defer closeFn()
	if _, ok := store.(*FileStore); !ok {
		t.Fatalf("store=%T want *FileStore", store)
	}
}

func TestOpenPostgresRequiresDSN(t *testing.T) {
	cfg := &config.Config{Ledger: config.LedgerConfig{Store: config.StorePostgres}}
	if _, _, err := Open(context.Background(), cfg, zap.NewNop()); !errors.Is(err, persistence.ErrPostgresDSNMissing) {
		t.Fatalf("err=%v want ErrPostgresDSNMissing", err)
	}
}

func TestOpenUnknownStore(t *testing.T) {
	cfg := &config.Config{Ledger: config.LedgerConfig{Store: "tape"}}
	if _, _, err := Open(context.Background(), cfg, zap.NewNop()); err == nil {
		t.Fatal("expected error for unknown store")
	}
}

func TestUnconfiguredRemoteStores(t *testing.T) {
	ctx := context.Background()
	stores := map[string]LedgerStore{
		"redis":    NewRedisStore(nil, "k", nil),
		"postgres": NewPostgresStore(nil, "default", nil),
	}
	for name, s := range stores {
		if _, err := s.Load(ctx); err == nil {
			t.Errorf("%s: Load without connection should fail", name)
		}
		if err := s.Save(ctx, domain.EmptyState()); err == nil {
			t.Errorf("%s: Save without connection should fail", name)
		}
		if err := s.Ping(ctx); err == nil {
			t.Errorf("%s: Ping without connection should fail", name)
		}
	}
}

func TestDecodeOrEmptyOnMalformedRemoteDocument(t *testing.T) {
	for _, body := range []string{"", "not json", `{"numero_saques": -1}`} {
		state := decodeOrEmpty([]byte(body), zap.NewNop(), "redis:ledger")
		if !state.Balance.IsZero() || len(state.Statement) != 0 || len(state.Accounts) != 0 {
			t.Fatalf("body %q decoded to %+v", body, state)
		}
	}
}
