package ledger

import (
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/spec-kit/bank-ledger/internal/domain"
)

const (
	nationalIDLength    = 11
	accountNumberDigits = 4
)

// ValidNationalID reports whether id is exactly 11 ASCII digits.
func ValidNationalID(id string) bool {
	if len(id) != nationalIDLength {
		return false
	}
	for i := 0; i < len(id); i++ {
		if id[i] < '0' || id[i] > '9' {
			return false
		}
	}
	return true
}

// FindUser returns the user registered under nationalID.
func FindUser(users []domain.User, nationalID string) (domain.User, bool) {
	for _, u := range users {
		if u.NationalID == nationalID {
			return u, true
		}
	}
	return domain.User{}, false
}

// CreateUser registers candidate after trimming its fields. Checks run in
// order: national id format, uniqueness, then name.
func CreateUser(users []domain.User, candidate domain.User) ([]domain.User, domain.Result) {
	candidate = domain.User{
		FullName:   strings.TrimSpace(candidate.FullName),
		BirthDate:  strings.TrimSpace(candidate.BirthDate),
		NationalID: strings.TrimSpace(candidate.NationalID),
		Address:    strings.TrimSpace(candidate.Address),
	}

	if !ValidNationalID(candidate.NationalID) {
		return users, domain.Fail(domain.OutcomeInvalidNationalID)
	}
	if _, exists := FindUser(users, candidate.NationalID); exists {
		return users, domain.Fail(domain.OutcomeDuplicateUser)
	}
	if candidate.FullName == "" {
		return users, domain.Fail(domain.OutcomeInvalidName)
	}

	out := make([]domain.User, len(users), len(users)+1)
	copy(out, users)
	return append(out, candidate), domain.OK()
}

// FormatAccountNumber zero-pads n to four digits.
func FormatAccountNumber(n int) string {
	return fmt.Sprintf("%0*d", accountNumberDigits, n)
}

// NormalizeAccountNumber left-pads user input with zeros to four characters.
func NormalizeAccountNumber(raw string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) >= accountNumberDigits {
		return raw
	}
	return strings.Repeat("0", accountNumberDigits-len(raw)) + raw
}

// NextAccountNumber is one past the highest number in use, or 1.
func NextAccountNumber(accounts []domain.Account) int {
	highest := 0
	for _, a := range accounts {
		n, err := strconv.Atoi(a.Number)
		if err != nil {
			continue
		}
		if n > highest {
			highest = n
		}
	}
	return highest + 1
}

// CreateAccount opens account number next at branchCode for the user
// registered under nationalID.
func CreateAccount(branchCode string, next int, users []domain.User, nationalID string) (*domain.Account, domain.Result) {
	nationalID = strings.TrimSpace(nationalID)
	if !ValidNationalID(nationalID) {
		return nil, domain.Fail(domain.OutcomeInvalidNationalID)
	}
	owner, ok := FindUser(users, nationalID)
	if !ok {
		return nil, domain.Fail(domain.OutcomeUserNotFound)
	}
	return &domain.Account{
		BranchCode: branchCode,
		Number:     FormatAccountNumber(next),
		Owner:      owner,
		Active:     true,
	}, domain.OK()
}

// CloseAccount deactivates the active account with the given number once the
// caller confirmed. accounts is never modified in place.
func CloseAccount(accounts []domain.Account, number string, confirmed bool) ([]domain.Account, domain.Result) {
	number = NormalizeAccountNumber(number)
	idx := -1
	for i, a := range accounts {
		if a.Number == number && a.Active {
			idx = i
			break
		}
	}
	if idx < 0 {
		return accounts, domain.Fail(domain.OutcomeAccountNotFoundOrInactive)
	}
	if !confirmed {
		return accounts, domain.Fail(domain.OutcomeCancelledByUser)
	}

	out := make([]domain.Account, len(accounts))
	copy(out, accounts)
	out[idx].Active = false
	return out, domain.OK()
}

// ListActiveAccounts yields active accounts in creation order. The sequence
// can be ranged over any number of times.
func ListActiveAccounts(accounts []domain.Account) iter.Seq[domain.Account] {
	return func(yield func(domain.Account) bool) {
		for _, a := range accounts {
			if !a.Active {
				continue
			}
			if !yield(a) {
				return
			}
		}
	}
}
