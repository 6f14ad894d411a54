package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/spec-kit/bank-ledger/internal/api/http/handlers"
	"github.com/spec-kit/bank-ledger/internal/auth"
	"github.com/spec-kit/bank-ledger/internal/config"
	"github.com/spec-kit/bank-ledger/internal/observability"
	"github.com/spec-kit/bank-ledger/internal/service"
)

const testPassword = "s3cret-operator"

func newTestApp(t *testing.T, limiter *ClientLimiter) *fiber.App {
	t.Helper()

	hash, err := auth.HashPassword(testPassword, 4)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	authService := service.NewAuthService(config.AuthConfig{
		JWTSecret:             "test-secret",
		AccessTokenTTLMinutes: 5,
		OperatorPasswordHash:  hash,
	})

	fixed := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	metrics := observability.NewMetrics()
	ledgerService := service.NewLedgerService(config.LedgerConfig{
		BranchCode:      "0001",
		WithdrawalLimit: decimal.NewFromInt(500),
		MaxWithdrawals:  3,
	}, service.LedgerDependencies{
		Metrics: metrics,
		Clock:   func() time.Time { return fixed },
	})

	app := fiber.New()
	logger := zap.NewNop()
	RegisterMiddlewares(app, logger, metrics, time.Second, limiter)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("bank-ledger", "test", map[string]handlers.Pinger{"ledger_store": ledgerService}),
		Auth:           handlers.NewAuthHandler(authService),
		Ledger:         handlers.NewLedgerHandler(ledgerService),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager()),
		Metrics:        metrics,
	})
	return app
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func doRequest(t *testing.T, app *fiber.App, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 && raw[0] == '{' {
		if err := json.Unmarshal(raw, &env); err != nil {
			t.Fatalf("decode %s: %v", raw, err)
		}
	}
	return resp.StatusCode, env
}

func login(t *testing.T, app *fiber.App) string {
	t.Helper()
	status, env := doRequest(t, app, http.MethodPost, "/auth/token", "", map[string]string{"password": testPassword})
	if status != http.StatusOK {
		t.Fatalf("login status=%d err=%+v", status, env.Error)
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &out); err != nil || out.Token == "" {
		t.Fatalf("token payload=%s err=%v", env.Data, err)
	}
	return out.Token
}

func TestHealthAndMetricsAreOpen(t *testing.T) {
	app := newTestApp(t, nil)
	if status, _ := doRequest(t, app, http.MethodGet, "/health/live", "", nil); status != http.StatusOK {
		t.Fatalf("live status=%d", status)
	}
	if status, _ := doRequest(t, app, http.MethodGet, "/health/ready", "", nil); status != http.StatusOK {
		t.Fatalf("ready status=%d", status)
	}
	if status, _ := doRequest(t, app, http.MethodGet, "/metrics", "", nil); status != http.StatusOK {
		t.Fatalf("metrics status=%d", status)
	}
}

func TestAuthRequired(t *testing.T) {
	app := newTestApp(t, nil)

	status, env := doRequest(t, app, http.MethodGet, "/v1/statement", "", nil)
	if status != http.StatusUnauthorized || env.Error.Code != "UNAUTHORIZED" {
		t.Fatalf("status=%d code=%s", status, env.Error.Code)
	}

	status, _ = doRequest(t, app, http.MethodPost, "/auth/token", "", map[string]string{"password": "wrong"})
	if status != http.StatusUnauthorized {
		t.Fatalf("bad password status=%d", status)
	}

	status, _ = doRequest(t, app, http.MethodGet, "/v1/statement", "not-a-jwt", nil)
	if status != http.StatusUnauthorized {
		t.Fatalf("bad token status=%d", status)
	}
}

func TestMovementsAndStatement(t *testing.T) {
	app := newTestApp(t, nil)
	token := login(t, app)

	status, env := doRequest(t, app, http.MethodPost, "/v1/deposits", token, map[string]any{"amount": 100})
	if status != http.StatusCreated {
		t.Fatalf("deposit status=%d err=%+v", status, env.Error)
	}
	var mv struct {
		Balance string `json:"balance"`
		Entry   string `json:"entry"`
	}
	_ = json.Unmarshal(env.Data, &mv)
	if mv.Balance != "100.00" || mv.Entry != "01/03/2024 09:30:00 - Deposit: R$ 100,00" {
		t.Fatalf("deposit payload=%+v", mv)
	}

	status, env = doRequest(t, app, http.MethodPost, "/v1/deposits", token, map[string]any{"amount": "-5"})
	if status != http.StatusBadRequest || env.Error.Code != "INVALID_AMOUNT" {
		t.Fatalf("negative deposit status=%d code=%s", status, env.Error.Code)
	}

	for _, raw := range []string{"1e9999999", "12.345"} {
		status, env = doRequest(t, app, http.MethodPost, "/v1/deposits", token, map[string]any{"amount": json.RawMessage(raw)})
		if status != http.StatusBadRequest || env.Error.Code != "INVALID_AMOUNT" {
			t.Fatalf("deposit %s status=%d code=%s", raw, status, env.Error.Code)
		}
	}

	status, env = doRequest(t, app, http.MethodPost, "/v1/withdrawals", token, map[string]any{"amount": "150"})
	if status != http.StatusUnprocessableEntity || env.Error.Code != "INSUFFICIENT_FUNDS" {
		t.Fatalf("overdraw status=%d code=%s", status, env.Error.Code)
	}

	status, env = doRequest(t, app, http.MethodPost, "/v1/withdrawals", token, map[string]any{"amount": "40"})
	if status != http.StatusCreated {
		t.Fatalf("withdraw status=%d err=%+v", status, env.Error)
	}
	var wd struct {
		Balance   string `json:"balance"`
		Remaining *int   `json:"remaining_withdrawals"`
	}
	_ = json.Unmarshal(env.Data, &wd)
	if wd.Balance != "60.00" || wd.Remaining == nil || *wd.Remaining != 2 {
		t.Fatalf("withdraw payload=%s", env.Data)
	}

	status, env = doRequest(t, app, http.MethodGet, "/v1/statement", token, nil)
	if status != http.StatusOK {
		t.Fatalf("statement status=%d", status)
	}
	var st struct {
		Entries []string `json:"entries"`
		Text    string   `json:"text"`
	}
	_ = json.Unmarshal(env.Data, &st)
	if len(st.Entries) != 2 {
		t.Fatalf("entries=%v", st.Entries)
	}
	want := "01/03/2024 09:30:00 - Deposit: R$ 100,00\n01/03/2024 09:30:00 - Withdrawal: R$ 40,00\n\nBalance: R$ 60,00\n"
	if st.Text != want {
		t.Fatalf("text=%q want %q", st.Text, want)
	}
}

func TestUsersAndAccounts(t *testing.T) {
	app := newTestApp(t, nil)
	token := login(t, app)

	user := map[string]string{
		"full_name":   "Maria Silva",
		"birth_date":  "01-01-1990",
		"national_id": "12345678901",
		"address":     "Rua A, 1 - Centro - Recife/PE",
	}

	bad := map[string]string{"full_name": "X", "national_id": "123"}
	if status, env := doRequest(t, app, http.MethodPost, "/v1/users", token, bad); status != http.StatusBadRequest || env.Error.Code != "INVALID_NATIONAL_ID" {
		t.Fatalf("bad id status=%d code=%s", status, env.Error.Code)
	}
	if status, env := doRequest(t, app, http.MethodPost, "/v1/users", token, user); status != http.StatusCreated {
		t.Fatalf("create status=%d err=%+v", status, env.Error)
	}
	if status, env := doRequest(t, app, http.MethodPost, "/v1/users", token, user); status != http.StatusConflict || env.Error.Code != "DUPLICATE_USER" {
		t.Fatalf("duplicate status=%d code=%s", status, env.Error.Code)
	}

	if status, env := doRequest(t, app, http.MethodPost, "/v1/accounts", token, map[string]string{"national_id": "99999999999"}); status != http.StatusNotFound || env.Error.Code != "USER_NOT_FOUND" {
		t.Fatalf("unknown owner status=%d code=%s", status, env.Error.Code)
	}
	status, env := doRequest(t, app, http.MethodPost, "/v1/accounts", token, map[string]string{"national_id": "12345678901"})
	if status != http.StatusCreated {
		t.Fatalf("open status=%d err=%+v", status, env.Error)
	}
	var acc struct {
		BranchCode string `json:"branch_code"`
		Number     string `json:"number"`
		Status     string `json:"status"`
	}
	_ = json.Unmarshal(env.Data, &acc)
	if acc.BranchCode != "0001" || acc.Number != "0001" || acc.Status != "Active" {
		t.Fatalf("account=%+v", acc)
	}

	if status, env := doRequest(t, app, http.MethodPost, "/v1/accounts/1/close", token, map[string]bool{"confirm": false}); status != http.StatusConflict || env.Error.Code != "CANCELLED_BY_USER" {
		t.Fatalf("unconfirmed close status=%d code=%s", status, env.Error.Code)
	}
	if status, env := doRequest(t, app, http.MethodPost, "/v1/accounts/1/close", token, map[string]bool{"confirm": true}); status != http.StatusOK {
		t.Fatalf("close status=%d err=%+v", status, env.Error)
	}
	if status, env := doRequest(t, app, http.MethodPost, "/v1/accounts/0001/close", token, map[string]bool{"confirm": true}); status != http.StatusNotFound || env.Error.Code != "ACCOUNT_NOT_FOUND_OR_INACTIVE" {
		t.Fatalf("reclose status=%d code=%s", status, env.Error.Code)
	}

	_, env = doRequest(t, app, http.MethodGet, "/v1/accounts", token, nil)
	var active []json.RawMessage
	_ = json.Unmarshal(env.Data, &active)
	if len(active) != 0 {
		t.Fatalf("closed account still listed: %s", env.Data)
	}
}

func TestUnknownRouteUsesErrorEnvelope(t *testing.T) {
	app := newTestApp(t, nil)
	status, env := doRequest(t, app, http.MethodGet, "/nope", "", nil)
	if status != http.StatusNotFound || env.Error.Code != "NOT_FOUND" {
		t.Fatalf("status=%d code=%s", status, env.Error.Code)
	}
}

func TestRateLimiterRejectsBurst(t *testing.T) {
	app := newTestApp(t, NewClientLimiter(0.001, 1))
	if status, _ := doRequest(t, app, http.MethodGet, "/health/live", "", nil); status != http.StatusOK {
		t.Fatalf("first status=%d", status)
	}
	status, env := doRequest(t, app, http.MethodGet, "/health/live", "", nil)
	if status != http.StatusTooManyRequests || env.Error.Code != "RATE_LIMITED" {
		t.Fatalf("second status=%d code=%s", status, env.Error.Code)
	}
}

func TestClientLimiterDisabled(t *testing.T) {
	if NewClientLimiter(0, 10) != nil {
		t.Fatal("zero rps should disable limiting")
	}
	var l *ClientLimiter
	if !l.Allow("1.2.3.4") {
		t.Fatal("nil limiter must allow")
	}
}
