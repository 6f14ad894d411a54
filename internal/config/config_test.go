package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err=%v", err)
	}
	if cfg.Ledger.BranchCode != "0001" || cfg.Ledger.MaxWithdrawals != 3 {
		t.Fatalf("ledger defaults=%+v", cfg.Ledger)
	}
	if cfg.Ledger.WithdrawalLimit.String() != "500" {
		t.Fatalf("limit=%s want 500", cfg.Ledger.WithdrawalLimit)
	}
	if cfg.Ledger.Store != StoreFile || cfg.Ledger.DataFile != "dados_bancarios.json" {
		t.Fatalf("store=%q file=%q", cfg.Ledger.Store, cfg.Ledger.DataFile)
	}
	if cfg.App.Addr() != "0.0.0.0:8080" {
		t.Fatalf("addr=%s", cfg.App.Addr())
	}
	if cfg.App.RequestTimeout() != 30*time.Second {
		t.Fatalf("timeout=%s", cfg.App.RequestTimeout())
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("LEDGER_WITHDRAWAL_LIMIT", "250.50")
	t.Setenv("LEDGER_MAX_WITHDRAWALS", "5")
	t.Setenv("LEDGER_STORE", "Redis")
	t.Setenv("LEDGER_DATA_FILE", "/tmp/ledger.json")
	t.Setenv("LEDGER_AUTOSAVE", "true")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load err=%v", err)
	}
	if cfg.Ledger.WithdrawalLimit.String() != "250.5" || cfg.Ledger.MaxWithdrawals != 5 {
		t.Fatalf("ledger=%+v", cfg.Ledger)
	}
	if cfg.Ledger.Store != StoreRedis || !cfg.Ledger.Autosave || cfg.Ledger.DataFile != "/tmp/ledger.json" {
		t.Fatalf("ledger=%+v", cfg.Ledger)
	}
	if cfg.App.RequestTimeout() != 0 {
		t.Fatalf("timeout=%s want 0", cfg.App.RequestTimeout())
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"LEDGER_WITHDRAWAL_LIMIT": "lots",
		"LEDGER_STORE":            "s3",
		"REDIS_DB":                "one",
		"API_RATE_LIMIT_RPS":      "fast",
	}
	for key, val := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, val)
			if _, err := Load(); err == nil {
				t.Fatalf("%s=%s should fail", key, val)
			}
		})
	}
}

func TestLoadRejectsNegativeLimit(t *testing.T) {
	t.Setenv("LEDGER_WITHDRAWAL_LIMIT", "-1")
	if _, err := Load(); err == nil {
		t.Fatal("negative limit accepted")
	}
}
