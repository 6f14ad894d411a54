package events

import (
	"time"
)

// EventType enumerates supported ledger event identifiers.
type EventType string

const (
	EventDepositMade        EventType = "deposit_made"
	EventWithdrawalMade     EventType = "withdrawal_made"
	EventWithdrawalRejected EventType = "withdrawal_rejected"
	EventUserCreated        EventType = "user_created"
	EventAccountOpened      EventType = "account_opened"
	EventAccountClosed      EventType = "account_closed"
)

// AllEventTypes lists every event the ledger publishes.
var AllEventTypes = []EventType{
	EventDepositMade,
	EventWithdrawalMade,
	EventWithdrawalRejected,
	EventUserCreated,
	EventAccountOpened,
	EventAccountClosed,
}

// Event represents a domain event emitted by the ledger service.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Subject   string      `json:"subject,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// MovementPayload describes a balance change.
type MovementPayload struct {
	Amount           string `json:"amount"`
	Balance          string `json:"balance"`
	WithdrawalsToday int    `json:"withdrawals_today,omitempty"`
}

// WithdrawalRejectedPayload describes a refused withdrawal.
type WithdrawalRejectedPayload struct {
	Amount string `json:"amount"`
	Reason string `json:"reason"`
}

// UserCreatedPayload payload.
type UserCreatedPayload struct {
	NationalID string `json:"national_id"`
	FullName   string `json:"full_name"`
}

// AccountPayload payload for account lifecycle events.
type AccountPayload struct {
	BranchCode string `json:"branch_code"`
	Number     string `json:"number"`
	NationalID string `json:"national_id"`
}
