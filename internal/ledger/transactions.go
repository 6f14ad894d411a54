package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/bank-ledger/internal/domain"
)

// TimestampLayout is dd/mm/yyyy HH:MM:SS.
const TimestampLayout = "02/01/2006 15:04:05"

// NoMovementsMessage is rendered in place of an empty statement.
const NoMovementsMessage = "No movements were made."

const (
	depositLabel    = "Deposit"
	withdrawalLabel = "Withdrawal"
)

// Deposit credits amount to balance and appends one statement entry stamped
// with at. Non-positive amounts leave both inputs untouched.
func Deposit(balance, amount decimal.Decimal, log domain.Statement, at time.Time) (decimal.Decimal, domain.Statement, domain.Result) {
	if !amount.IsPositive() {
		return balance, log, domain.Fail(domain.OutcomeInvalidAmount)
	}
	return balance.Add(amount), appendEntry(log, at, depositLabel, amount), domain.OK()
}

// WithdrawRequest carries everything a withdrawal is checked against.
type WithdrawRequest struct {
	Balance          decimal.Decimal
	Amount           decimal.Decimal
	Statement        domain.Statement
	Limit            decimal.Decimal
	WithdrawalsSoFar int
	MaxWithdrawals   int
	At               time.Time
}

// WithdrawResult is the ledger after a withdrawal attempt.
type WithdrawResult struct {
	Balance          decimal.Decimal
	Statement        domain.Statement
	WithdrawalsSoFar int
}

// Withdraw debits req.Amount. Checks run in a fixed order and the first
// failing one is reported: balance, per-withdrawal limit, daily count, then
// amount sign.
func Withdraw(req WithdrawRequest) (WithdrawResult, domain.Result) {
	unchanged := WithdrawResult{
		Balance:          req.Balance,
		Statement:        req.Statement,
		WithdrawalsSoFar: req.WithdrawalsSoFar,
	}

	switch {
	case req.Amount.GreaterThan(req.Balance):
		return unchanged, domain.Fail(domain.OutcomeInsufficientFunds)
	case req.Amount.GreaterThan(req.Limit):
		return unchanged, domain.Failf(domain.OutcomeExceedsPerTransactionLimit,
			fmt.Sprintf("the withdrawal amount exceeds the limit of %s", FormatMoney(req.Limit)))
	case req.WithdrawalsSoFar >= req.MaxWithdrawals:
		return unchanged, domain.Failf(domain.OutcomeDailyWithdrawalCountExceeded,
			fmt.Sprintf("maximum number of %d withdrawals exceeded", req.MaxWithdrawals))
	case req.Amount.IsPositive():
		return WithdrawResult{
			Balance:          req.Balance.Sub(req.Amount),
			Statement:        appendEntry(req.Statement, req.At, withdrawalLabel, req.Amount),
			WithdrawalsSoFar: req.WithdrawalsSoFar + 1,
		}, domain.OK()
	default:
		return unchanged, domain.Fail(domain.OutcomeInvalidAmount)
	}
}

// RenderStatement formats the movements followed by the current balance.
func RenderStatement(balance decimal.Decimal, log domain.Statement) string {
	var b strings.Builder
	if len(log) == 0 {
		b.WriteString(NoMovementsMessage)
		b.WriteByte('\n')
	}
	for _, line := range log {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	fmt.Fprintf(&b, "\nBalance: %s\n", FormatMoney(balance))
	return b.String()
}

// FormatEntry renders one statement line.
func FormatEntry(at time.Time, label string, amount decimal.Decimal) string {
	return fmt.Sprintf("%s - %s: %s", at.Format(TimestampLayout), label, FormatMoney(amount))
}

func appendEntry(log domain.Statement, at time.Time, label string, amount decimal.Decimal) domain.Statement {
	out := make(domain.Statement, len(log), len(log)+1)
	copy(out, log)
	return append(out, FormatEntry(at, label, amount))
}
