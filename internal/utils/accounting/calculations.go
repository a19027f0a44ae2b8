package accounting

import (
	"fmt"
	"time"

	"github.com/SscSPs/mfrs_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// NetAmount is the line's contribution to its account: debit minus credit.
func NetAmount(line domain.JournalEntryLine) decimal.Decimal {
	return line.DebitAmount.Sub(line.CreditAmount)
}

// IncludedAt reports whether a line counts towards a balance taken at asOf.
// A nil cutoff includes every line; the cutoff itself is inclusive.
func IncludedAt(line domain.JournalEntryLine, asOf *time.Time) bool {
	return asOf == nil || !line.CreatedAt.After(*asOf)
}

// SumNet adds up the net amount of every line created at or before asOf.
func SumNet(lines []domain.JournalEntryLine, asOf *time.Time) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		if IncludedAt(line, asOf) {
			total = total.Add(NetAmount(line))
		}
	}
	return total
}

// NetByAccount groups the net amount of every line created at or before asOf by account ID.
func NetByAccount(lines []domain.JournalEntryLine, asOf *time.Time) map[string]decimal.Decimal {
	balances := make(map[string]decimal.Decimal)
	for _, line := range lines {
		if !IncludedAt(line, asOf) {
			continue
		}
		balances[line.AccountID] = balances[line.AccountID].Add(NetAmount(line))
	}
	return balances
}

// NaturalBalance flips a debit-minus-credit net so it reads positive on the
// account type's normal side.
//
//	ASSET/EXPENSE             -> debit normal, returned as-is
//	LIABILITY/EQUITY/REVENUE  -> credit normal, negated
func NaturalBalance(net decimal.Decimal, accountType domain.AccountType) (decimal.Decimal, error) {
	switch accountType {
	case domain.Asset, domain.Expense:
		return net, nil
	case domain.Liability, domain.Equity, domain.Revenue:
		return net.Neg(), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown account type '%s'", accountType)
	}
}
