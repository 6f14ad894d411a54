package domain

import "github.com/shopspring/decimal"

// Statement is the ordered, append-only list of rendered movements.
type Statement []string

// State is the whole ledger: one balance, its movements and the registry of
// users and accounts. A single caller owns it and sequences all mutations.
type State struct {
	Balance          decimal.Decimal
	Statement        Statement
	WithdrawalsToday int
	Users            []User
	Accounts         []Account
}

// EmptyState returns the state used when nothing has been persisted yet.
func EmptyState() State {
	return State{
		Balance:   decimal.Zero,
		Statement: Statement{},
		Users:     []User{},
		Accounts:  []Account{},
	}
}

// Clone returns a copy that shares no slices with s.
func (s State) Clone() State {
	out := s
	out.Statement = append(Statement{}, s.Statement...)
	out.Users = append([]User{}, s.Users...)
	out.Accounts = append([]Account{}, s.Accounts...)
	return out
}
