package services

import (
	"context"
	"time"

	"github.com/SscSPs/mfrs_ledger_app/internal/core/domain"
	"github.com/SscSPs/mfrs_ledger_app/internal/dto"
	"github.com/shopspring/decimal"
)

// JournalReaderSvc defines read operations for journal entry data
type JournalReaderSvc interface {
	GetJournalEntry(ctx context.Context, tenantID, entryID string) (*domain.JournalEntry, error)
	ListJournalEntries(ctx context.Context, tenantID string, params dto.ListJournalEntriesParams) ([]domain.JournalEntry, *string, error)
	ListAuditTrail(ctx context.Context, tenantID, entryID string) ([]domain.AuditLog, error)
}

// JournalWriterSvc defines write operations for journal entry data
type JournalWriterSvc interface {
	// CreateJournalEntry opens a draft entry with no lines.
	CreateJournalEntry(ctx context.Context, tenantID string, req dto.CreateJournalEntryRequest, userID string) (*domain.JournalEntry, error)

	// AddLineToJournalEntry appends one line to a mutable entry.
	AddLineToJournalEntry(ctx context.Context, tenantID, entryID string, req dto.AddLineRequest, userID string) (*domain.JournalEntry, error)
}

// JournalValidatorSvc defines journal entry validation
type JournalValidatorSvc interface {
	// ValidateJournalEntry runs every check and accumulates all failures.
	ValidateJournalEntry(ctx context.Context, entry domain.JournalEntry) (*domain.ValidationResult, error)

	// ValidateJournalEntryByID loads the entry and validates it.
	ValidateJournalEntryByID(ctx context.Context, tenantID, entryID string) (*domain.ValidationResult, error)
}

// JournalWorkflowSvc defines the status transitions of a journal entry
type JournalWorkflowSvc interface {
	SubmitForApproval(ctx context.Context, tenantID, entryID, userID, comment string) (*domain.JournalEntry, error)
	ReviewJournalEntry(ctx context.Context, tenantID, entryID, userID string, approve bool, comment string) (*domain.JournalEntry, error)
	PostJournalEntry(ctx context.Context, tenantID, entryID, userID string) (*domain.JournalEntry, error)
	FinalizeJournalEntry(ctx context.Context, tenantID, entryID, userID string) (*domain.JournalEntry, error)

	// CloneAndSupersede replaces a finalized entry with an editable copy.
	CloneAndSupersede(ctx context.Context, tenantID, entryID, newReference, userID string) (*domain.JournalEntry, error)
}

// LedgerBalanceSvc defines balance queries computed from stored lines
type LedgerBalanceSvc interface {
	GetAccountBalance(ctx context.Context, tenantID, accountID string, asOf *time.Time) (decimal.Decimal, error)
	GetTrialBalance(ctx context.Context, tenantID string, asOf *time.Time) (domain.TrialBalance, error)
}

// JournalSvcFacade combines all journal-related service interfaces
type JournalSvcFacade interface {
	JournalReaderSvc
	JournalWriterSvc
	JournalValidatorSvc
	JournalWorkflowSvc
	LedgerBalanceSvc
}

// JournalTemplateSvc builds canned two-line entries.
type JournalTemplateSvc interface {
	TemplateNames() []string
	CreateFromTemplate(ctx context.Context, tenantID, template string, req dto.TemplateEntryRequest, userID string) (*domain.JournalEntry, error)
}
