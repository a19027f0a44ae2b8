package domain

import "github.com/shopspring/decimal"

// ValidationResult is the outcome of validating a journal entry.
// ConfidenceScore is the owning entity's current compliance score.
type ValidationResult struct {
	Valid           bool     `json:"valid"`
	Errors          []string `json:"errors"`
	ConfidenceScore int      `json:"confidenceScore"`
}

// TrialBalance maps account ID to net balance (debits minus credits).
// The grand total is not asserted to be zero.
type TrialBalance map[string]decimal.Decimal

// Total sums every account's net balance.
func (tb TrialBalance) Total() decimal.Decimal {
	total := decimal.Zero
	for _, v := range tb {
		total = total.Add(v)
	}
	return total
}
