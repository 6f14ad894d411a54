package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/spec-kit/bank-ledger/internal/config"
	"github.com/spec-kit/bank-ledger/internal/repository"
	"github.com/spec-kit/bank-ledger/internal/service"
)

func newLedger(t *testing.T, path string) *service.LedgerService {
	t.Helper()
	fixed := time.Date(2024, 5, 10, 14, 0, 0, 0, time.Local)
	svc := service.NewLedgerService(config.LedgerConfig{
		BranchCode:      "0001",
		WithdrawalLimit: decimal.NewFromInt(500),
		MaxWithdrawals:  3,
	}, service.LedgerDependencies{
		Store: repository.NewFileStore(path, nil),
		Clock: func() time.Time { return fixed },
	})
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return svc
}

func runSession(t *testing.T, svc *service.LedgerService, lines ...string) string {
	t.Helper()
	var out bytes.Buffer
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	if err := NewConsole(svc, in, &out, nil).Run(context.Background()); err != nil {
		t.Fatalf("Run err=%v\noutput:\n%s", err, out.String())
	}
	return out.String()
}

func TestConsoleMovements(t *testing.T) {
	svc := newLedger(t, filepath.Join(t.TempDir(), "ledger.json"))
	out := runSession(t, svc,
		"d", "1500,50",
		"d", "abc",
		"s", "600",
		"s", "2000",
		"s", "100",
		"e",
		"q",
	)

	for _, want := range []string{
		"=== Deposit completed successfully! ===",
		"Enter the withdrawal amount (limit R$ 500,00): ",
		"@@@ Invalid amount! Enter a positive numeric value. @@@",
		"@@@ Operation failed! The withdrawal amount exceeds the limit of R$ 500,00. @@@",
		"@@@ Operation failed! You do not have enough balance. @@@",
		"=== Withdrawal completed successfully! ===",
		"Withdrawals remaining today: 2",
		"10/05/2024 14:00:00 - Deposit: R$ 1.500,50",
		"10/05/2024 14:00:00 - Withdrawal: R$ 100,00",
		"Balance: R$ 1.400,50",
		"=== Thank you for using our system! ===",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}

func TestConsoleDailyWithdrawalCap(t *testing.T) {
	svc := newLedger(t, filepath.Join(t.TempDir(), "ledger.json"))
	out := runSession(t, svc, "d", "100", "s", "1", "s", "1", "s", "1", "s", "1", "q")
	if !strings.Contains(out, "Withdrawals remaining today: 0") {
		t.Fatalf("missing remaining count:\n%s", out)
	}
	if !strings.Contains(out, "Operation failed! Maximum number of 3 withdrawals exceeded.") {
		t.Fatalf("missing cap message:\n%s", out)
	}
}

func TestConsoleUsersAndAccounts(t *testing.T) {
	svc := newLedger(t, filepath.Join(t.TempDir(), "ledger.json"))
	out := runSession(t, svc,
		"lc",
		"nu", "123",
		"nu", "12345678901", "Ana Souza", "02-03-1991", "Rua B, 2 - Boa Vista - Recife/PE",
		"nu", "12345678901",
		"nu", "10987654321", "",
		"nc", "99999999999",
		"nc", "12345678901",
		"nc", "12345678901",
		"lc",
		"ec", "7",
		"ec", "1", "n",
		"ec", "1", "y",
		"q",
	)

	for _, want := range []string{
		"@@@ No accounts registered. @@@",
		"Invalid national id! It must contain 11 digits.",
		"=== User created successfully! ===",
		"A user with this national id already exists!",
		"Name must not be empty!",
		"User not found, account creation ended!",
		"=== Account 0001 created successfully! ===",
		"=== Account 0002 created successfully! ===",
		"Holder:\tAna Souza",
		"Account not found or already closed!",
		"Are you sure you want to close account 0001? (y/n): ",
		"Account closing cancelled.",
		"=== Account closed successfully! ===",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}

	active := svc.ActiveAccounts()
	if len(active) != 1 || active[0].Number != "0002" {
		t.Fatalf("active=%+v", active)
	}
	if svc.AccountCount() != 2 {
		t.Fatalf("closed account dropped: count=%d", svc.AccountCount())
	}
}

func TestConsoleAllAccountsClosed(t *testing.T) {
	svc := newLedger(t, filepath.Join(t.TempDir(), "ledger.json"))
	out := runSession(t, svc,
		"nu", "12345678901", "Ana Souza", "02-03-1991", "Rua B, 2 - Boa Vista - Recife/PE",
		"nc", "12345678901",
		"ec", "1", "y",
		"lc",
		"ec", "1",
		"q",
	)

	if strings.Contains(out, noAccountsMessage) {
		t.Fatalf("closed accounts still count as registered:\n%s", out)
	}
	if strings.Contains(out, "Holder:\tAna Souza") {
		t.Fatalf("closed account listed:\n%s", out)
	}
	if !strings.Contains(out, "Account not found or already closed!") {
		t.Fatalf("missing not-found message:\n%s", out)
	}
}

func TestConsoleInvalidOperation(t *testing.T) {
	svc := newLedger(t, filepath.Join(t.TempDir(), "ledger.json"))
	out := runSession(t, svc, "x", " Q ")
	if !strings.Contains(out, "@@@ Invalid operation, please select the desired operation again. @@@") {
		t.Fatalf("missing invalid operation message:\n%s", out)
	}
	if strings.Count(out, "================ MENU ================") != 2 {
		t.Fatalf("menu should be shown again:\n%s", out)
	}
}

func TestConsoleSavesOnQuitAndEOF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")

	runSession(t, newLedger(t, path), "d", "250", "q")
	reloaded := newLedger(t, path)
	if got := reloaded.Statement().Balance; !got.Equal(decimal.NewFromInt(250)) {
		t.Fatalf("balance after quit=%s", got)
	}

	var out bytes.Buffer
	in := strings.NewReader("d\n50\n")
	if err := NewConsole(reloaded, in, &out, nil).Run(context.Background()); err != nil {
		t.Fatalf("Run err=%v", err)
	}
	again := newLedger(t, path)
	if got := again.Statement().Balance; !got.Equal(decimal.NewFromInt(300)) {
		t.Fatalf("balance after EOF=%s", got)
	}
	if len(again.Statement().Entries) != 2 {
		t.Fatalf("entries=%v", again.Statement().Entries)
	}
}
