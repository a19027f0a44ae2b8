package dto

import (
	"time"

	"github.com/SscSPs/mfrs_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AsOfParams is the optional cutoff accepted by balance queries (YYYY-MM-DD or RFC3339).
type AsOfParams struct {
	AsOf string `form:"asOf"`
}

// TrialBalanceResponse lists per-account net balances. Total is reported, never asserted.
type TrialBalanceResponse struct {
	AsOf     *time.Time                 `json:"asOf,omitempty"`
	Balances map[string]decimal.Decimal `json:"balances"`
	Total    decimal.Decimal            `json:"total"`
}

// ToTrialBalanceResponse converts a domain.TrialBalance.
func ToTrialBalanceResponse(tb domain.TrialBalance, asOf *time.Time) TrialBalanceResponse {
	return TrialBalanceResponse{
		AsOf:     asOf,
		Balances: tb,
		Total:    tb.Total(),
	}
}

// ValidationResultResponse mirrors domain.ValidationResult.
type ValidationResultResponse struct {
	Valid           bool     `json:"valid"`
	Errors          []string `json:"errors"`
	ConfidenceScore int      `json:"confidenceScore"`
}

// ToValidationResultResponse converts a domain.ValidationResult.
func ToValidationResultResponse(r *domain.ValidationResult) ValidationResultResponse {
	errs := r.Errors
	if errs == nil {
		errs = []string{}
	}
	return ValidationResultResponse{Valid: r.Valid, Errors: errs, ConfidenceScore: r.ConfidenceScore}
}
