package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bank-ledger/internal/api/http/handlers"
	"github.com/spec-kit/bank-ledger/internal/auth"
	"github.com/spec-kit/bank-ledger/internal/observability"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Ledger         *handlers.LedgerHandler
	AuthMiddleware *auth.AuthMiddleware
	Metrics        *observability.Metrics
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	if cfg.Metrics != nil {
		app.Get("/metrics", cfg.Metrics.Handler())
	}

	app.Post("/auth/token", cfg.Auth.Token)

	v1 := app.Group("/v1", cfg.AuthMiddleware.Handle, auth.RequireOperator())
	v1.Post("/deposits", cfg.Ledger.Deposit)
	v1.Post("/withdrawals", cfg.Ledger.Withdraw)
	v1.Get("/statement", cfg.Ledger.Statement)

	v1.Post("/users", cfg.Ledger.CreateUser)
	v1.Get("/users", cfg.Ledger.ListUsers)

	v1.Post("/accounts", cfg.Ledger.OpenAccount)
	v1.Get("/accounts", cfg.Ledger.ListAccounts)
	v1.Post("/accounts/:number/close", cfg.Ledger.CloseAccount)
}
