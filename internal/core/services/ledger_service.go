package services

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/mfrs_ledger_app/internal/apperrors"
	"github.com/SscSPs/mfrs_ledger_app/internal/core/domain"
	"github.com/SscSPs/mfrs_ledger_app/internal/utils/accounting"
)

// Balances are computed by scanning stored lines on every call; nothing is materialised.

// GetAccountBalance returns debits minus credits over the account's lines created at or before asOf.
func (s *journalService) GetAccountBalance(ctx context.Context, tenantID, accountID string, asOf *time.Time) (decimal.Decimal, error) {
	if _, err := s.accountRepo.FindAccountByID(ctx, tenantID, accountID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to look up account for balance", slog.String("account_id", accountID))
		}
		return decimal.Zero, err
	}

	lines, err := s.journalRepo.ListLines(ctx, tenantID, accountID)
	if err != nil {
		s.LogError(ctx, err, "Failed to get account balance", slog.String("account_id", accountID))
		return decimal.Zero, err
	}
	return accounting.SumNet(lines, asOf), nil
}

// GetTrialBalance groups net balances by account. The grand total is returned as found.
func (s *journalService) GetTrialBalance(ctx context.Context, tenantID string, asOf *time.Time) (domain.TrialBalance, error) {
	lines, err := s.journalRepo.ListLines(ctx, tenantID, "")
	if err != nil {
		s.LogError(ctx, err, "Failed to get trial balance")
		return nil, err
	}

	tb := domain.TrialBalance(accounting.NetByAccount(lines, asOf))
	if total := tb.Total(); !total.IsZero() {
		s.LogWarn(ctx, "Trial balance does not net to zero", slog.String("total", total.String()))
	}
	return tb, nil
}
