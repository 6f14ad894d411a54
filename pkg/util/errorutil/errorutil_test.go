package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/spec-kit/bank-ledger/internal/domain"
)

func TestToDomainErrorMapsOutcomes(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{domain.Fail(domain.OutcomeInvalidAmount).Err(), http.StatusBadRequest, "INVALID_AMOUNT"},
		{domain.Fail(domain.OutcomeInsufficientFunds).Err(), http.StatusUnprocessableEntity, "INSUFFICIENT_FUNDS"},
		{domain.Fail(domain.OutcomeDuplicateUser).Err(), http.StatusConflict, "DUPLICATE_USER"},
		{domain.Fail(domain.OutcomeUserNotFound).Err(), http.StatusNotFound, "USER_NOT_FOUND"},
		{fmt.Errorf("close: %w", domain.Fail(domain.OutcomeAccountNotFoundOrInactive).Err()), http.StatusNotFound, "ACCOUNT_NOT_FOUND_OR_INACTIVE"},
	}
	for _, tc := range tests {
		got := ToDomainError(tc.err)
		if got.HTTPStatus != tc.status || got.Code != tc.code {
			t.Errorf("err=%v -> %d %s, want %d %s", tc.err, got.HTTPStatus, got.Code, tc.status, tc.code)
		}
	}
}

func TestToDomainErrorPassThroughAndInternal(t *testing.T) {
	if ToDomainError(nil) != nil {
		t.Fatal("nil should map to nil")
	}

	unauthorized := NewUnauthorized("nope")
	if got := ToDomainError(fmt.Errorf("wrap: %w", unauthorized)); got.HTTPStatus != http.StatusUnauthorized {
		t.Fatalf("status=%d", got.HTTPStatus)
	}

	raw := errors.New("disk full")
	got := ToDomainError(raw)
	if got.HTTPStatus != http.StatusInternalServerError || !errors.Is(got, raw) {
		t.Fatalf("internal mapping=%+v", got)
	}
	if got.Message != "internal server error" {
		t.Fatalf("internal details leaked: %q", got.Message)
	}
}
