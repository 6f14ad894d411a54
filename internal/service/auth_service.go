package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spec-kit/bank-ledger/internal/auth"
	"github.com/spec-kit/bank-ledger/internal/config"
	"github.com/spec-kit/bank-ledger/internal/domain"
)

// ErrInvalidCredentials is returned for any failed operator login.
var ErrInvalidCredentials = errors.New("invalid credentials")

// OperatorSubjectID is the token subject issued to the ledger operator.
const OperatorSubjectID = "operator"

// AuthService issues API tokens to the ledger operator.
type AuthService struct {
	tokens       *auth.TokenManager
	passwordHash string
}

// NewAuthService constructs the service.
func NewAuthService(cfg config.AuthConfig) *AuthService {
	return &AuthService{
		tokens:       auth.NewTokenManager(cfg.JWTSecret, cfg.AccessTokenTTLMinutes),
		passwordHash: strings.TrimSpace(cfg.OperatorPasswordHash),
	}
}

// TokenManager exposes token manager for middleware.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

// LoginOperator checks password against the configured bcrypt hash and
// issues a bearer token. Login is disabled when no hash is configured.
func (s *AuthService) LoginOperator(ctx context.Context, password string) (domain.Token, error) {
	if s.passwordHash == "" || password == "" {
		return domain.Token{}, ErrInvalidCredentials
	}
	if err := auth.ComparePassword(s.passwordHash, password); err != nil {
		return domain.Token{}, ErrInvalidCredentials
	}
	value, exp, err := s.tokens.GenerateToken(OperatorSubjectID, domain.SubjectTypeOperator)
	if err != nil {
		return domain.Token{}, fmt.Errorf("issue operator token: %w", err)
	}
	return domain.Token{
		Value:     value,
		SubjectID: OperatorSubjectID,
		Subject:   domain.SubjectTypeOperator,
		ExpiresAt: exp,
	}, nil
}
