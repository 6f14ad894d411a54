package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/bank-ledger/internal/domain"
	apperrors "github.com/spec-kit/bank-ledger/pkg/util/errorutil"
)

// RequireOperator ensures the caller holds an operator token.
func RequireOperator() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if principal.SubjectType != domain.SubjectTypeOperator {
			return apperrors.NewForbidden("operator role required")
		}
		return c.Next()
	}
}
