package errorutil

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/spec-kit/bank-ledger/internal/domain"
)

// DomainError standardizes application errors.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError("VALIDATION_FAILED", message, http.StatusBadRequest, details)
}

func NewUnauthorized(message string) error {
	return NewDomainError("UNAUTHORIZED", message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError("FORBIDDEN", message, http.StatusForbidden, nil)
}

func NewTooManyRequests(message string) error {
	return NewDomainError("RATE_LIMITED", message, http.StatusTooManyRequests, nil)
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

var outcomeStatus = map[domain.OutcomeCode]int{
	domain.OutcomeInvalidAmount:                http.StatusBadRequest,
	domain.OutcomeInvalidNationalID:            http.StatusBadRequest,
	domain.OutcomeInvalidName:                  http.StatusBadRequest,
	domain.OutcomeInsufficientFunds:            http.StatusUnprocessableEntity,
	domain.OutcomeExceedsPerTransactionLimit:   http.StatusUnprocessableEntity,
	domain.OutcomeDailyWithdrawalCountExceeded: http.StatusUnprocessableEntity,
	domain.OutcomeDuplicateUser:                http.StatusConflict,
	domain.OutcomeCancelledByUser:              http.StatusConflict,
	domain.OutcomeUserNotFound:                 http.StatusNotFound,
	domain.OutcomeAccountNotFoundOrInactive:    http.StatusNotFound,
}

// FromOutcome converts a ledger outcome into a DomainError.
func FromOutcome(outcome *domain.OutcomeError) *DomainError {
	status, ok := outcomeStatus[outcome.Code]
	if !ok {
		status = http.StatusBadRequest
	}
	return &DomainError{
		Code:       string(outcome.Code),
		Message:    outcome.Error(),
		HTTPStatus: status,
		Err:        outcome,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	var outcome *domain.OutcomeError
	if errors.As(err, &outcome) {
		return FromOutcome(outcome)
	}
	return &DomainError{
		Code:       "INTERNAL_ERROR",
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}
