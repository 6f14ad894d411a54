package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bank-ledger/internal/api/dto"
	"github.com/spec-kit/bank-ledger/internal/service"
	apperrors "github.com/spec-kit/bank-ledger/pkg/util/errorutil"
)

// AuthHandler exposes the operator token endpoint.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Token handles POST /auth/token.
func (h *AuthHandler) Token(c *fiber.Ctx) error {
	var req dto.TokenRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Password == "" {
		return apperrors.NewValidationError("password required", nil)
	}

	token, err := h.auth.LoginOperator(c.UserContext(), req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			return apperrors.NewUnauthorized(err.Error())
		}
		return apperrors.NewInternalError(err)
	}

	return c.JSON(fiber.Map{"data": dto.AuthResponse{Token: token.Value, ExpiresAt: token.ExpiresAt}})
}
