package domain

// OutcomeCode enumerates the results of a ledger operation.
type OutcomeCode string

const (
	OutcomeOK                           OutcomeCode = "OK"
	OutcomeInvalidAmount                OutcomeCode = "INVALID_AMOUNT"
	OutcomeInsufficientFunds            OutcomeCode = "INSUFFICIENT_FUNDS"
	OutcomeExceedsPerTransactionLimit   OutcomeCode = "EXCEEDS_PER_TRANSACTION_LIMIT"
	OutcomeDailyWithdrawalCountExceeded OutcomeCode = "DAILY_WITHDRAWAL_COUNT_EXCEEDED"
	OutcomeInvalidNationalID            OutcomeCode = "INVALID_NATIONAL_ID"
	OutcomeDuplicateUser                OutcomeCode = "DUPLICATE_USER"
	OutcomeInvalidName                  OutcomeCode = "INVALID_NAME"
	OutcomeUserNotFound                 OutcomeCode = "USER_NOT_FOUND"
	OutcomeAccountNotFoundOrInactive    OutcomeCode = "ACCOUNT_NOT_FOUND_OR_INACTIVE"
	OutcomeCancelledByUser              OutcomeCode = "CANCELLED_BY_USER"
)

var defaultMessages = map[OutcomeCode]string{
	OutcomeOK:                           "operation completed",
	OutcomeInvalidAmount:                "the amount informed is invalid",
	OutcomeInsufficientFunds:            "insufficient balance",
	OutcomeExceedsPerTransactionLimit:   "amount exceeds the per-withdrawal limit",
	OutcomeDailyWithdrawalCountExceeded: "maximum number of daily withdrawals reached",
	OutcomeInvalidNationalID:            "national id must contain exactly 11 digits",
	OutcomeDuplicateUser:                "a user with this national id already exists",
	OutcomeInvalidName:                  "full name must not be empty",
	OutcomeUserNotFound:                 "user not found",
	OutcomeAccountNotFoundOrInactive:    "account not found or already closed",
	OutcomeCancelledByUser:              "operation cancelled",
}

// Result is the outcome of a ledger operation. Failures are ordinary values.
type Result struct {
	Code    OutcomeCode
	Message string
}

// OK is the successful result.
func OK() Result {
	return Result{Code: OutcomeOK, Message: defaultMessages[OutcomeOK]}
}

// Fail builds a failed result with the default message for code.
func Fail(code OutcomeCode) Result {
	return Result{Code: code, Message: defaultMessages[code]}
}

// Failf builds a failed result with a custom message.
func Failf(code OutcomeCode, message string) Result {
	return Result{Code: code, Message: message}
}

// Succeeded reports whether the operation applied.
func (r Result) Succeeded() bool {
	return r.Code == OutcomeOK
}

// Err adapts a failed result to an error; it returns nil on success.
func (r Result) Err() error {
	if r.Succeeded() {
		return nil
	}
	return &OutcomeError{Code: r.Code, Message: r.Message}
}

// OutcomeError carries a failed Result through error-returning APIs.
type OutcomeError struct {
	Code    OutcomeCode
	Message string
}

func (e *OutcomeError) Error() string {
	if e.Message == "" {
		return string(e.Code)
	}
	return e.Message
}

// Is matches any OutcomeError with the same code.
func (e *OutcomeError) Is(target error) bool {
	t, ok := target.(*OutcomeError)
	return ok && t.Code == e.Code
}

var (
	ErrInvalidAmount                = &OutcomeError{Code: OutcomeInvalidAmount}
	ErrInsufficientFunds            = &OutcomeError{Code: OutcomeInsufficientFunds}
	ErrExceedsPerTransactionLimit   = &OutcomeError{Code: OutcomeExceedsPerTransactionLimit}
	ErrDailyWithdrawalCountExceeded = &OutcomeError{Code: OutcomeDailyWithdrawalCountExceeded}
	ErrInvalidNationalID            = &OutcomeError{Code: OutcomeInvalidNationalID}
	ErrDuplicateUser                = &OutcomeError{Code: OutcomeDuplicateUser}
	ErrInvalidName                  = &OutcomeError{Code: OutcomeInvalidName}
	ErrUserNotFound                 = &OutcomeError{Code: OutcomeUserNotFound}
	ErrAccountNotFoundOrInactive    = &OutcomeError{Code: OutcomeAccountNotFoundOrInactive}
	ErrCancelledByUser              = &OutcomeError{Code: OutcomeCancelledByUser}
)
