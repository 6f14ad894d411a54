package service

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/spec-kit/bank-ledger/internal/config"
	"github.com/spec-kit/bank-ledger/internal/domain"
	"github.com/spec-kit/bank-ledger/internal/events"
	"github.com/spec-kit/bank-ledger/internal/ledger"
	"github.com/spec-kit/bank-ledger/internal/observability"
	"github.com/spec-kit/bank-ledger/internal/repository"
)

// Operation names used for metrics and logs.
const (
	OpDeposit      = "deposit"
	OpWithdraw     = "withdraw"
	OpCreateUser   = "create_user"
	OpOpenAccount  = "open_account"
	OpCloseAccount = "close_account"
)

// LedgerService owns the single ledger state and serializes every mutation
// on it. Business rules live in package ledger; this type sequences them,
// persists and reports.
type LedgerService struct {
	mu         sync.Mutex
	state      domain.State
	nextNumber int

	cfg        config.LedgerConfig
	store      repository.LedgerStore
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

// LedgerDependencies bundles collaborators for the ledger service.
type LedgerDependencies struct {
	Store      repository.LedgerStore
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
	Clock      func() time.Time
}

// DepositReceipt describes an applied deposit.
type DepositReceipt struct {
	Balance decimal.Decimal
	Entry   string
}

// WithdrawalReceipt describes an applied withdrawal.
type WithdrawalReceipt struct {
	Balance   decimal.Decimal
	Entry     string
	Remaining int
}

// StatementView is the statement data behind RenderStatement.
type StatementView struct {
	Balance decimal.Decimal
	Entries domain.Statement
	Text    string
}

// NewLedgerService constructs the service with an empty ledger. Call Load to
// read persisted state.
func NewLedgerService(cfg config.LedgerConfig, deps LedgerDependencies) *LedgerService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	return &LedgerService{
		state:      domain.EmptyState(),
		nextNumber: 1,
		cfg:        cfg,
		store:      deps.Store,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
		now:        clock,
	}
}

// Load replaces the in-memory ledger with the persisted one.
func (s *LedgerService) Load(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	state, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.nextNumber = ledger.NextAccountNumber(state.Accounts)
	s.logger.Info("ledger loaded",
		zap.String("balance", state.Balance.String()),
		zap.Int("users", len(state.Users)),
		zap.Int("accounts", len(state.Accounts)),
		zap.Int("next_account", s.nextNumber))
	return nil
}

// Save writes the whole ledger to the store.
func (s *LedgerService) Save(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(ctx)
}

// Deposit credits amount to the ledger balance.
func (s *LedgerService) Deposit(ctx context.Context, amount decimal.Decimal) (DepositReceipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	balance, log, res := ledger.Deposit(s.state.Balance, amount, s.state.Statement, s.now())
	s.record(OpDeposit, res)
	if !res.Succeeded() {
		return DepositReceipt{}, res.Err()
	}

	s.state.Balance, s.state.Statement = balance, log
	receipt := DepositReceipt{Balance: balance, Entry: log[len(log)-1]}
	s.logger.Info("deposit applied", zap.String("amount", amount.String()), zap.String("balance", balance.String()))
	s.publish(ctx, events.EventDepositMade, "ledger", events.MovementPayload{
		Amount:  amount.String(),
		Balance: balance.String(),
	})
	return receipt, s.autosaveLocked(ctx)
}

// Withdraw debits amount under the configured limits.
func (s *LedgerService) Withdraw(ctx context.Context, amount decimal.Decimal) (WithdrawalReceipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out, res := ledger.Withdraw(ledger.WithdrawRequest{
		Balance:          s.state.Balance,
		Amount:           amount,
		Statement:        s.state.Statement,
		Limit:            s.cfg.WithdrawalLimit,
		WithdrawalsSoFar: s.state.WithdrawalsToday,
		MaxWithdrawals:   s.cfg.MaxWithdrawals,
		At:               s.now(),
	})
	s.record(OpWithdraw, res)
	if !res.Succeeded() {
		s.publish(ctx, events.EventWithdrawalRejected, "ledger", events.WithdrawalRejectedPayload{
			Amount: amount.String(),
			Reason: string(res.Code),
		})
		return WithdrawalReceipt{}, res.Err()
	}

	s.state.Balance = out.Balance
	s.state.Statement = out.Statement
	s.state.WithdrawalsToday = out.WithdrawalsSoFar
	receipt := WithdrawalReceipt{
		Balance:   out.Balance,
		Entry:     out.Statement[len(out.Statement)-1],
		Remaining: s.remainingLocked(),
	}
	s.logger.Info("withdrawal applied",
		zap.String("amount", amount.String()),
		zap.String("balance", out.Balance.String()),
		zap.Int("withdrawals_today", out.WithdrawalsSoFar))
	s.publish(ctx, events.EventWithdrawalMade, "ledger", events.MovementPayload{
		Amount:           amount.String(),
		Balance:          out.Balance.String(),
		WithdrawalsToday: out.WithdrawalsSoFar,
	})
	return receipt, s.autosaveLocked(ctx)
}

// Statement returns the rendered statement and the data behind it.
func (s *LedgerService) Statement() StatementView {
	s.mu.Lock()
	defer s.mu.Unlock()
	entries := append(domain.Statement{}, s.state.Statement...)
	return StatementView{
		Balance: s.state.Balance,
		Entries: entries,
		Text:    ledger.RenderStatement(s.state.Balance, entries),
	}
}

// RemainingWithdrawals is how many withdrawals are still allowed.
func (s *LedgerService) RemainingWithdrawals() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remainingLocked()
}

// WithdrawalLimit is the per-withdrawal ceiling.
func (s *LedgerService) WithdrawalLimit() decimal.Decimal {
	return s.cfg.WithdrawalLimit
}

// CreateUser registers a new account holder.
func (s *LedgerService) CreateUser(ctx context.Context, candidate domain.User) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	users, res := ledger.CreateUser(s.state.Users, candidate)
	s.record(OpCreateUser, res)
	if !res.Succeeded() {
		return domain.User{}, res.Err()
	}

	s.state.Users = users
	created := users[len(users)-1]
	s.logger.Info("user created", zap.String("national_id", created.NationalID))
	s.publish(ctx, events.EventUserCreated, created.NationalID, events.UserCreatedPayload{
		NationalID: created.NationalID,
		FullName:   created.FullName,
	})
	return created, s.autosaveLocked(ctx)
}

// HasUser reports whether nationalID is registered.
func (s *LedgerService) HasUser(nationalID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := ledger.FindUser(s.state.Users, nationalID)
	return ok
}

// Users returns registered users in insertion order.
func (s *LedgerService) Users() []domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.User{}, s.state.Users...)
}

// OpenAccount opens the next sequential account for the user.
func (s *LedgerService) OpenAccount(ctx context.Context, nationalID string) (domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, res := ledger.CreateAccount(s.cfg.BranchCode, s.nextNumber, s.state.Users, nationalID)
	s.record(OpOpenAccount, res)
	if !res.Succeeded() {
		return domain.Account{}, res.Err()
	}

	s.state.Accounts = append(s.state.Accounts, *acc)
	s.nextNumber++
	s.logger.Info("account opened",
		zap.String("branch", acc.BranchCode),
		zap.String("account", acc.Number),
		zap.String("national_id", acc.Owner.NationalID))
	s.publish(ctx, events.EventAccountOpened, acc.Number, events.AccountPayload{
		BranchCode: acc.BranchCode,
		Number:     acc.Number,
		NationalID: acc.Owner.NationalID,
	})
	return *acc, s.autosaveLocked(ctx)
}

// CloseAccount deactivates an active account once confirmed.
func (s *LedgerService) CloseAccount(ctx context.Context, number string, confirmed bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts, res := ledger.CloseAccount(s.state.Accounts, number, confirmed)
	s.record(OpCloseAccount, res)
	if !res.Succeeded() {
		return res.Err()
	}

	s.state.Accounts = accounts
	normalized := ledger.NormalizeAccountNumber(number)
	s.logger.Info("account closed", zap.String("account", normalized))
	s.publish(ctx, events.EventAccountClosed, normalized, events.AccountPayload{
		BranchCode: s.cfg.BranchCode,
		Number:     normalized,
	})
	return s.autosaveLocked(ctx)
}

// ActiveAccounts lists active accounts in creation order.
func (s *LedgerService) ActiveAccounts() []domain.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Collect(ledger.ListActiveAccounts(s.state.Accounts))
}

// AccountCount counts accounts including closed ones.
func (s *LedgerService) AccountCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.state.Accounts)
}

// Snapshot returns a copy of the whole ledger.
func (s *LedgerService) Snapshot() domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// Ping checks the backing store.
func (s *LedgerService) Ping(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	return s.store.Ping(ctx)
}

func (s *LedgerService) remainingLocked() int {
	remaining := s.cfg.MaxWithdrawals - s.state.WithdrawalsToday
	if remaining < 0 {
		return 0
	}
	return remaining
}

func (s *LedgerService) saveLocked(ctx context.Context) error {
	if s.store == nil {
		return nil
	}
	if err := s.store.Save(ctx, s.state.Clone()); err != nil {
		s.logger.Error("ledger save failed", zap.Error(err))
		return fmt.Errorf("save ledger: %w", err)
	}
	return nil
}

func (s *LedgerService) autosaveLocked(ctx context.Context) error {
	if !s.cfg.Autosave {
		return nil
	}
	return s.saveLocked(ctx)
}

func (s *LedgerService) record(operation string, res domain.Result) {
	s.metrics.RecordOperation(operation, string(res.Code))
	if !res.Succeeded() {
		s.logger.Debug("operation refused",
			zap.String("operation", operation),
			zap.String("outcome", string(res.Code)),
			zap.String("reason", res.Message))
	}
}

func (s *LedgerService) publish(ctx context.Context, eventType events.EventType, subject string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Subject:   subject,
		Timestamp: s.now(),
		Payload:   payload,
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event", string(eventType)), zap.Error(err))
	}
}
