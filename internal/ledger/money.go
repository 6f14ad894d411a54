package ledger

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/spec-kit/bank-ledger/internal/domain"
)

// CurrencyPrefix is printed before every monetary amount.
const CurrencyPrefix = "R$"

// amountPattern bounds accepted input to 15 integer digits and two decimals.
var amountPattern = regexp.MustCompile(`^\d{1,15}([.,]\d{1,2})?$`)

// groupSep and decimalSep are taken from the locale once.
var groupSep, decimalSep = localeSeparators(language.BrazilianPortuguese)

func localeSeparators(tag language.Tag) (string, string) {
	// pt-BR renders "1.000,5"; separators sit at rune offsets 1 and 5.
	sample := []rune(message.NewPrinter(tag).Sprintf("%.1f", 1000.5))
	if len(sample) != 7 {
		return ".", ","
	}
	return string(sample[1]), string(sample[5])
}

// FormatMoney renders amount as "R$ 1.234,56". Digits come from the decimal
// itself, so amounts beyond float64 precision keep their cents.
func FormatMoney(amount decimal.Decimal) string {
	fixed := amount.StringFixed(2)
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign, fixed = "-", fixed[1:]
	}
	intPart, frac, _ := strings.Cut(fixed, ".")
	return CurrencyPrefix + " " + sign + groupDigits(intPart) + decimalSep + frac
}

func groupDigits(digits string) string {
	head := len(digits) % 3
	if head == 0 {
		head = 3
	}
	var b strings.Builder
	b.WriteString(digits[:head])
	for i := head; i < len(digits); i += 3 {
		b.WriteString(groupSep)
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// ParseAmount converts user input into a positive amount. Both "10,50" and
// "10.50" are accepted; signs, exponents and thousand separators are not.
func ParseAmount(raw string) (decimal.Decimal, domain.Result) {
	raw = strings.TrimSpace(raw)
	if !amountPattern.MatchString(raw) {
		return decimal.Zero, domain.Fail(domain.OutcomeInvalidAmount)
	}
	amount, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", "."))
	if err != nil {
		return decimal.Zero, domain.Fail(domain.OutcomeInvalidAmount)
	}
	if !amount.IsPositive() {
		return decimal.Zero, domain.Fail(domain.OutcomeInvalidAmount)
	}
	return amount, domain.OK()
}
