package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bank-ledger/internal/api/dto"
	"github.com/spec-kit/bank-ledger/internal/domain"
	"github.com/spec-kit/bank-ledger/internal/ledger"
	"github.com/spec-kit/bank-ledger/internal/service"
	apperrors "github.com/spec-kit/bank-ledger/pkg/util/errorutil"
)

// LedgerHandler exposes ledger operations.
type LedgerHandler struct {
	service *service.LedgerService
}

// NewLedgerHandler constructs handler.
func NewLedgerHandler(ledgerService *service.LedgerService) *LedgerHandler {
	return &LedgerHandler{service: ledgerService}
}

// Deposit POST /v1/deposits.
func (h *LedgerHandler) Deposit(c *fiber.Ctx) error {
	var req dto.AmountRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	amount, res := ledger.ParseAmount(req.Amount.String())
	if !res.Succeeded() {
		return res.Err()
	}

	receipt, err := h.service.Deposit(c.UserContext(), amount)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": dto.NewMovementResponse(receipt.Balance, receipt.Entry),
	})
}

// Withdraw POST /v1/withdrawals.
func (h *LedgerHandler) Withdraw(c *fiber.Ctx) error {
	var req dto.AmountRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	amount, res := ledger.ParseAmount(req.Amount.String())
	if !res.Succeeded() {
		return res.Err()
	}

	receipt, err := h.service.Withdraw(c.UserContext(), amount)
	if err != nil {
		return err
	}
	resp := dto.NewMovementResponse(receipt.Balance, receipt.Entry)
	resp.RemainingWithdrawals = &receipt.Remaining
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": resp})
}

// Statement GET /v1/statement.
func (h *LedgerHandler) Statement(c *fiber.Ctx) error {
	view := h.service.Statement()
	entries := []string(view.Entries)
	if entries == nil {
		entries = []string{}
	}
	return c.JSON(fiber.Map{"data": dto.StatementResponse{
		Balance:          view.Balance.StringFixed(2),
		BalanceFormatted: ledger.FormatMoney(view.Balance),
		Entries:          entries,
		Text:             view.Text,
	}})
}

// CreateUser POST /v1/users.
func (h *LedgerHandler) CreateUser(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	user, err := h.service.CreateUser(c.UserContext(), domain.User{
		FullName:   req.FullName,
		BirthDate:  req.BirthDate,
		NationalID: req.NationalID,
		Address:    req.Address,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// ListUsers GET /v1/users.
func (h *LedgerHandler) ListUsers(c *fiber.Ctx) error {
	users := h.service.Users()
	items := make([]dto.UserResponse, 0, len(users))
	for _, u := range users {
		items = append(items, dto.NewUserResponse(u))
	}
	return c.JSON(fiber.Map{"data": items})
}

// OpenAccount POST /v1/accounts.
func (h *LedgerHandler) OpenAccount(c *fiber.Ctx) error {
	var req dto.OpenAccountRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	acc, err := h.service.OpenAccount(c.UserContext(), req.NationalID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewAccountResponse(acc)})
}

// ListAccounts GET /v1/accounts.
func (h *LedgerHandler) ListAccounts(c *fiber.Ctx) error {
	accounts := h.service.ActiveAccounts()
	items := make([]dto.AccountResponse, 0, len(accounts))
	for _, a := range accounts {
		items = append(items, dto.NewAccountResponse(a))
	}
	return c.JSON(fiber.Map{"data": items})
}

// CloseAccount POST /v1/accounts/:number/close.
func (h *LedgerHandler) CloseAccount(c *fiber.Ctx) error {
	var req dto.CloseAccountRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
	}

	number := ledger.NormalizeAccountNumber(c.Params("number"))
	if err := h.service.CloseAccount(c.UserContext(), number, req.Confirm); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"number": number, "status": "Closed"}})
}
