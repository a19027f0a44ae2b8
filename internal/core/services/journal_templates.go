package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/shopspring/decimal"

	"github.com/SscSPs/mfrs_ledger_app/internal/apperrors"
	"github.com/SscSPs/mfrs_ledger_app/internal/core/domain"
	portssvc "github.com/SscSPs/mfrs_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/mfrs_ledger_app/internal/dto"
)

const (
	templateCurrency            = "MYR"
	templateOriginatingModule   = "journal_templates"
	templateSubscriptionUpgrade = "subscription_upgrade"
)

// journalTemplate is a canned two-line entry: one debit line and one credit line of equal amount.
type journalTemplate struct {
	txnType     domain.TransactionType
	debitLabel  string
	creditLabel string
}

var journalTemplates = map[string]journalTemplate{
	"sale":                           {domain.TxnSale, "Sale to customer", "Revenue from sale"},
	"payment":                        {domain.TxnPayment, "Payment received", "Payment from customer"},
	"monthly_saas_revenue":           {domain.TxnSale, "Monthly SaaS subscription", "SaaS subscription revenue"},
	"deferred_revenue_recognition":   {domain.TxnAdjustment, "Deferred revenue recognition", "Revenue recognized"},
	"prorated_subscription_billing":  {domain.TxnSale, "Prorated subscription billing", "Prorated subscription revenue"},
	templateSubscriptionUpgrade:      {domain.TxnSale, "Subscription upgrade", "Upgrade revenue"},
	"subscription_cancellation":      {domain.TxnAdjustment, "Subscription cancellation", "Refund to customer"},
	"annual_subscription_prepayment": {domain.TxnReceipt, "Annual prepayment received", "Deferred revenue"},
	"purchase":                       {domain.TxnPurchase, "Purchase expense", "Purchase from supplier"},
	"bank_transfer":                  {domain.TxnTransfer, "Transfer to", "Transfer from"},
}

// journalTemplateService builds template entries through the regular journal operations.
type journalTemplateService struct {
	BaseService
	journal portssvc.JournalWriterSvc
}

// NewJournalTemplateService creates a template service on top of the journal writer.
func NewJournalTemplateService(journal portssvc.JournalWriterSvc) portssvc.JournalTemplateSvc {
	return &journalTemplateService{journal: journal}
}

var _ portssvc.JournalTemplateSvc = (*journalTemplateService)(nil)

// TemplateNames lists the supported templates in sorted order.
func (s *journalTemplateService) TemplateNames() []string {
	names := make([]string, 0, len(journalTemplates))
	for name := range journalTemplates {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// CreateFromTemplate opens a draft entry and adds the template's debit and credit lines.
func (s *journalTemplateService) CreateFromTemplate(ctx context.Context, tenantID, template string, req dto.TemplateEntryRequest, userID string) (*domain.JournalEntry, error) {
	tpl, ok := journalTemplates[template]
	if !ok {
		return nil, fmt.Errorf("%w: unknown journal template %q", apperrors.ErrNotFound, template)
	}

	amount := req.Amount
	if template == templateSubscriptionUpgrade {
		if req.PreviousAmount == nil {
			return nil, apperrors.InvalidArgument("previousAmount is required for subscription upgrades")
		}
		amount = req.Amount.Sub(*req.PreviousAmount)
	}
	if !amount.IsPositive() {
		return nil, apperrors.InvalidArgument("template amount must be positive")
	}
	if req.DebitAccountID == req.CreditAccountID {
		return nil, apperrors.InvalidArgument("debit and credit accounts must differ")
	}

	module := req.OriginatingModule
	if module == "" {
		module = templateOriginatingModule
	}

	entry, err := s.journal.CreateJournalEntry(ctx, tenantID, dto.CreateJournalEntryRequest{
		Reference:         req.Reference,
		Description:       req.Description,
		TransactionType:   tpl.txnType,
		EntityID:          req.EntityID,
		OriginatingModule: module,
		BaseCurrency:      templateCurrency,
	}, userID)
	if err != nil {
		return nil, err
	}

	fxRate := decimal.NewFromInt(1)
	lines := []dto.AddLineRequest{
		{
			AccountID:    req.DebitAccountID,
			DebitAmount:  amount,
			CreditAmount: decimal.Zero,
			Description:  fmt.Sprintf("%s - %s", tpl.debitLabel, entry.Description),
			CurrencyCode: templateCurrency,
			FXRate:       &fxRate,
		},
		{
			AccountID:    req.CreditAccountID,
			DebitAmount:  decimal.Zero,
			CreditAmount: amount,
			Description:  fmt.Sprintf("%s - %s", tpl.creditLabel, entry.Description),
			CurrencyCode: templateCurrency,
			FXRate:       &fxRate,
		},
	}
	for _, line := range lines {
		entry, err = s.journal.AddLineToJournalEntry(ctx, tenantID, entry.JournalEntryID, line, userID)
		if err != nil {
			s.LogError(ctx, err, "Failed to add template line", slog.String("template", template))
			return nil, err
		}
	}

	s.LogInfo(ctx, "Journal entry created from template",
		slog.String("template", template),
		slog.String("entry_id", entry.JournalEntryID))
	return entry, nil
}
