package dto

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/bank-ledger/internal/domain"
	"github.com/spec-kit/bank-ledger/internal/ledger"
)

// AmountRequest carries a deposit or withdrawal amount. Both JSON numbers
// and numeric strings are accepted.
type AmountRequest struct {
	Amount json.Number `json:"amount"`
}

// MovementResponse describes an applied deposit or withdrawal.
type MovementResponse struct {
	Balance              string `json:"balance"`
	BalanceFormatted     string `json:"balance_formatted"`
	Entry                string `json:"entry"`
	RemainingWithdrawals *int   `json:"remaining_withdrawals,omitempty"`
}

// StatementResponse is the statement view.
type StatementResponse struct {
	Balance          string   `json:"balance"`
	BalanceFormatted string   `json:"balance_formatted"`
	Entries          []string `json:"entries"`
	Text             string   `json:"text"`
}

// CreateUserRequest payload for user registration.
type CreateUserRequest struct {
	FullName   string `json:"full_name"`
	BirthDate  string `json:"birth_date"`
	NationalID string `json:"national_id"`
	Address    string `json:"address"`
}

// UserResponse is a registered account holder.
type UserResponse struct {
	FullName   string `json:"full_name"`
	BirthDate  string `json:"birth_date"`
	NationalID string `json:"national_id"`
	Address    string `json:"address"`
}

// OpenAccountRequest payload for opening an account.
type OpenAccountRequest struct {
	NationalID string `json:"national_id"`
}

// CloseAccountRequest payload for closing an account.
type CloseAccountRequest struct {
	Confirm bool `json:"confirm"`
}

// AccountResponse is an account summary.
type AccountResponse struct {
	BranchCode string `json:"branch_code"`
	Number     string `json:"number"`
	Holder     string `json:"holder"`
	NationalID string `json:"national_id"`
	Status     string `json:"status"`
}

// NewMovementResponse builds a movement response.
func NewMovementResponse(balance decimal.Decimal, entry string) MovementResponse {
	return MovementResponse{
		Balance:          balance.StringFixed(2),
		BalanceFormatted: ledger.FormatMoney(balance),
		Entry:            entry,
	}
}

// NewUserResponse maps a domain user.
func NewUserResponse(u domain.User) UserResponse {
	return UserResponse{
		FullName:   u.FullName,
		BirthDate:  u.BirthDate,
		NationalID: u.NationalID,
		Address:    u.Address,
	}
}

// NewAccountResponse maps a domain account.
func NewAccountResponse(a domain.Account) AccountResponse {
	return AccountResponse{
		BranchCode: a.BranchCode,
		Number:     a.Number,
		Holder:     a.Owner.FullName,
		NationalID: a.Owner.NationalID,
		Status:     a.StatusLabel(),
	}
}
