package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/bank-ledger/internal/domain"
	"github.com/spec-kit/bank-ledger/internal/ledger"
	"github.com/spec-kit/bank-ledger/internal/service"
)

const menuText = `
================ MENU ================
[d]	Deposit
[s]	Withdraw
[e]	Statement
[nc]	New account
[lc]	List accounts
[ec]	Close account
[nu]	New user
[q]	Quit
=> `

const (
	invalidOperationMessage = "Invalid operation, please select the desired operation again."
	invalidAmountMessage    = "Invalid amount! Enter a positive numeric value."
	noAccountsMessage       = "No accounts registered."
	separator               = "=========================================="
)

// outcomeMessages holds console wording per outcome. Limit and count refusals
// are absent so their messages keep the configured values.
var outcomeMessages = map[domain.OutcomeCode]string{
	domain.OutcomeInvalidAmount:             "The amount informed is invalid.",
	domain.OutcomeInsufficientFunds:         "You do not have enough balance.",
	domain.OutcomeInvalidNationalID:         "Invalid national id! It must contain 11 digits.",
	domain.OutcomeDuplicateUser:             "A user with this national id already exists!",
	domain.OutcomeInvalidName:               "Name must not be empty!",
	domain.OutcomeUserNotFound:              "User not found, account creation ended!",
	domain.OutcomeAccountNotFoundOrInactive: "Account not found or already closed!",
	domain.OutcomeCancelledByUser:           "Account closing cancelled.",
}

// Console drives the ledger from a line-oriented terminal.
type Console struct {
	ledger *service.LedgerService
	in     *bufio.Scanner
	out    io.Writer
	logger *zap.Logger
}

// NewConsole builds a console reading commands from in and writing to out.
func NewConsole(ledgerService *service.LedgerService, in io.Reader, out io.Writer, logger *zap.Logger) *Console {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Console{
		ledger: ledgerService,
		in:     bufio.NewScanner(in),
		out:    out,
		logger: logger.Named("cli"),
	}
}

// Run serves the menu until the operator quits or input ends. The ledger is
// saved on the way out either way.
func (c *Console) Run(ctx context.Context) error {
	for {
		option, err := c.prompt(menuText)
		if err != nil {
			return c.finish(ctx, err)
		}

		switch strings.ToLower(option) {
		case "d":
			err = c.deposit(ctx)
		case "s":
			err = c.withdraw(ctx)
		case "e":
			c.statement()
		case "nu":
			err = c.createUser(ctx)
		case "nc":
			err = c.openAccount(ctx)
		case "lc":
			c.listAccounts()
		case "ec":
			err = c.closeAccount(ctx)
		case "q":
			return c.finish(ctx, nil)
		default:
			c.failure(invalidOperationMessage)
		}
		if err != nil {
			return c.finish(ctx, err)
		}
	}
}

func (c *Console) finish(ctx context.Context, cause error) error {
	if cause != nil && !errors.Is(cause, io.EOF) {
		return cause
	}
	if err := c.ledger.Save(ctx); err != nil {
		c.failure("Could not save the ledger data.")
		return err
	}
	c.success("Thank you for using our system!")
	return nil
}

func (c *Console) deposit(ctx context.Context) error {
	raw, err := c.prompt("Enter the deposit amount: ")
	if err != nil {
		return err
	}
	amount, res := ledger.ParseAmount(raw)
	if !res.Succeeded() {
		c.failure(invalidAmountMessage)
		return nil
	}
	if _, err := c.ledger.Deposit(ctx, amount); err != nil {
		return c.report(err)
	}
	c.success("Deposit completed successfully!")
	return nil
}

func (c *Console) withdraw(ctx context.Context) error {
	raw, err := c.prompt(fmt.Sprintf("Enter the withdrawal amount (limit %s): ", ledger.FormatMoney(c.ledger.WithdrawalLimit())))
	if err != nil {
		return err
	}
	amount, res := ledger.ParseAmount(raw)
	if !res.Succeeded() {
		c.failure(invalidAmountMessage)
		return nil
	}
	receipt, err := c.ledger.Withdraw(ctx, amount)
	if err != nil {
		return c.report(err)
	}
	c.success("Withdrawal completed successfully!")
	fmt.Fprintf(c.out, "Withdrawals remaining today: %d\n", receipt.Remaining)
	return nil
}

func (c *Console) statement() {
	view := c.ledger.Statement()
	fmt.Fprintln(c.out, "\n================ STATEMENT ================")
	fmt.Fprint(c.out, view.Text)
	fmt.Fprintln(c.out, separator)
}

func (c *Console) createUser(ctx context.Context) error {
	nationalID, err := c.prompt("Enter the national id (numbers only): ")
	if err != nil {
		return err
	}
	if !ledger.ValidNationalID(nationalID) {
		return c.report(domain.ErrInvalidNationalID)
	}
	if c.ledger.HasUser(nationalID) {
		return c.report(domain.ErrDuplicateUser)
	}

	name, err := c.prompt("Enter the full name: ")
	if err != nil {
		return err
	}
	if name == "" {
		return c.report(domain.ErrInvalidName)
	}
	birthDate, err := c.prompt("Enter the birth date (dd-mm-yyyy): ")
	if err != nil {
		return err
	}
	address, err := c.prompt("Enter the address (street, number - district - city/state): ")
	if err != nil {
		return err
	}

	if _, err := c.ledger.CreateUser(ctx, domain.User{
		FullName:   name,
		BirthDate:  birthDate,
		NationalID: nationalID,
		Address:    address,
	}); err != nil {
		return c.report(err)
	}
	c.success("User created successfully!")
	return nil
}

func (c *Console) openAccount(ctx context.Context) error {
	nationalID, err := c.prompt("Enter the user's national id: ")
	if err != nil {
		return err
	}
	if !ledger.ValidNationalID(nationalID) {
		return c.report(domain.ErrInvalidNationalID)
	}
	acc, err := c.ledger.OpenAccount(ctx, nationalID)
	if err != nil {
		return c.report(err)
	}
	c.success(fmt.Sprintf("Account %s created successfully!", acc.Number))
	return nil
}

func (c *Console) listAccounts() {
	if c.ledger.AccountCount() == 0 {
		c.failure(noAccountsMessage)
		return
	}
	for _, acc := range c.ledger.ActiveAccounts() {
		fmt.Fprintln(c.out, strings.Repeat("=", 100))
		fmt.Fprintf(c.out, "Branch:\t%s\nAccount:\t%s\nHolder:\t%s\nStatus:\t%s\n",
			acc.BranchCode, acc.Number, acc.Owner.FullName, acc.StatusLabel())
	}
}

func (c *Console) closeAccount(ctx context.Context) error {
	if c.ledger.AccountCount() == 0 {
		c.failure(noAccountsMessage)
		return nil
	}
	raw, err := c.prompt("Enter the number of the account to close: ")
	if err != nil {
		return err
	}
	number := ledger.NormalizeAccountNumber(raw)
	if !c.hasActiveAccount(number) {
		return c.report(domain.ErrAccountNotFoundOrInactive)
	}

	answer, err := c.prompt(fmt.Sprintf("Are you sure you want to close account %s? (y/n): ", number))
	if err != nil {
		return err
	}
	confirmed := strings.EqualFold(answer, "y")
	if err := c.ledger.CloseAccount(ctx, number, confirmed); err != nil {
		return c.report(err)
	}
	c.success("Account closed successfully!")
	return nil
}

func (c *Console) hasActiveAccount(number string) bool {
	for _, acc := range c.ledger.ActiveAccounts() {
		if acc.Number == number {
			return true
		}
	}
	return false
}

// report prints a refused operation. Infrastructure errors are returned.
func (c *Console) report(err error) error {
	var outcome *domain.OutcomeError
	if !errors.As(err, &outcome) {
		c.logger.Error("operation failed", zap.Error(err))
		return err
	}
	msg, ok := outcomeMessages[outcome.Code]
	if !ok {
		msg = capitalize(outcome.Error()) + "."
	}
	c.failure("Operation failed! " + msg)
	return nil
}

func (c *Console) prompt(label string) (string, error) {
	fmt.Fprint(c.out, label)
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", err
		}
		fmt.Fprintln(c.out)
		return "", io.EOF
	}
	return strings.TrimSpace(c.in.Text()), nil
}

func (c *Console) success(msg string) {
	fmt.Fprintf(c.out, "\n=== %s ===\n", msg)
}

func (c *Console) failure(msg string) {
	fmt.Fprintf(c.out, "\n@@@ %s @@@\n", msg)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
