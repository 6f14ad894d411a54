package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

// Store backends for the ledger document.
const (
	StoreFile     = "file"
	StoreRedis    = "redis"
	StorePostgres = "postgres"
)

// Config aggregates runtime configuration for the ledger programs.
type Config struct {
	App       AppConfig
	Ledger    LedgerConfig
	Postgres  PostgresConfig
	Redis     RedisConfig
	Logger    LoggerConfig
	Auth      AuthConfig
	Audit     AuditConfig
	RateLimit RateLimitConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// LedgerConfig holds the business rules and where the ledger is stored.
type LedgerConfig struct {
	BranchCode      string
	WithdrawalLimit decimal.Decimal
	MaxWithdrawals  int
	Store           string
	DataFile        string
	RedisKey        string
	DocumentName    string
	Autosave        bool
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level   string
	Output  string
	Service string
}

// AuthConfig defines authentication parameters for the HTTP API.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	OperatorPasswordHash  string
}

// AuditConfig holds stub audit sink endpoints.
type AuditConfig struct {
	WebhookURL string
}

// RateLimitConfig bounds requests per client on the HTTP API.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	limit, err := decimal.NewFromString(getEnv("LEDGER_WITHDRAWAL_LIMIT", "500.00"))
	if err != nil {
		return nil, fmt.Errorf("invalid LEDGER_WITHDRAWAL_LIMIT: %w", err)
	}
	if limit.IsNegative() {
		return nil, fmt.Errorf("invalid LEDGER_WITHDRAWAL_LIMIT: must not be negative")
	}

	store := strings.ToLower(getEnv("LEDGER_STORE", StoreFile))
	switch store {
	case StoreFile, StoreRedis, StorePostgres:
	default:
		return nil, fmt.Errorf("invalid LEDGER_STORE %q: want file, redis or postgres", store)
	}

	rps, err := strconv.ParseFloat(getEnv("API_RATE_LIMIT_RPS", "20"), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid API_RATE_LIMIT_RPS: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "bank-ledger"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Ledger: LedgerConfig{
			BranchCode:      getEnv("LEDGER_BRANCH_CODE", "0001"),
			WithdrawalLimit: limit,
			MaxWithdrawals:  getEnvAsInt("LEDGER_MAX_WITHDRAWALS", 3),
			Store:           store,
			DataFile:        getEnv("LEDGER_DATA_FILE", "dados_bancarios.json"),
			RedisKey:        getEnv("LEDGER_REDIS_KEY", "bank-ledger:document"),
			DocumentName:    getEnv("LEDGER_DOCUMENT_NAME", "default"),
			Autosave:        getEnvAsBool("LEDGER_AUTOSAVE", false),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level:   getEnv("LOG_LEVEL", "info"),
			Output:  getEnv("LOG_OUTPUT", "stderr"),
			Service: getEnv("APP_NAME", "bank-ledger"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			OperatorPasswordHash:  os.Getenv("AUTH_OPERATOR_PASSWORD_HASH"),
		},
		Audit: AuditConfig{
			WebhookURL: getEnv("AUDIT_WEBHOOK_URL", ""),
		},
		RateLimit: RateLimitConfig{
			RPS:   rps,
			Burst: getEnvAsInt("API_RATE_LIMIT_BURST", 40),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
