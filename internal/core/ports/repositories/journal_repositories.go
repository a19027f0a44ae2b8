package repositories

import (
	"context"

	"github.com/SscSPs/mfrs_ledger_app/internal/core/domain"
)

// JournalEntryReader defines read operations for journal entry data
type JournalEntryReader interface {
	// FindJournalEntryByID retrieves an entry together with its lines.
	FindJournalEntryByID(ctx context.Context, tenantID, entryID string) (*domain.JournalEntry, error)

	// ListJournalEntries retrieves a page of entries (without lines) using token-based pagination.
	// It returns the entries, a token for the next page, and an error.
	ListJournalEntries(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error)
}

// JournalLineReader defines read operations over journal entry lines
type JournalLineReader interface {
	// ListLines returns every line for the tenant, or only the account's lines when accountID is non-empty.
	ListLines(ctx context.Context, tenantID, accountID string) ([]domain.JournalEntryLine, error)
}

// JournalEntryWriter defines write operations for journal entry data.
// Every method that changes an existing entry takes the version the caller
// read and fails with apperrors.ErrConflict when it no longer matches.
type JournalEntryWriter interface {
	// CreateJournalEntry persists a new entry header (and any lines it already carries).
	CreateJournalEntry(ctx context.Context, entry domain.JournalEntry) error

	// AddLine appends a line and bumps the entry version.
	AddLine(ctx context.Context, line domain.JournalEntryLine, expectedVersion int) error

	// UpdateJournalEntry writes the mutable header fields and bumps the version.
	UpdateJournalEntry(ctx context.Context, entry domain.JournalEntry, expectedVersion int) error

	// PostJournalEntry writes the posted header and the audit record in one database transaction.
	PostJournalEntry(ctx context.Context, entry domain.JournalEntry, expectedVersion int, audit domain.AuditLog) error

	// SupersedeJournalEntry inserts the replacement entry with its lines, links the
	// original to it and records the audit event, all in one database transaction.
	SupersedeJournalEntry(ctx context.Context, original domain.JournalEntry, expectedVersion int, replacement domain.JournalEntry, audit domain.AuditLog) error
}

// JournalRepositoryFacade combines all journal-related repository interfaces
type JournalRepositoryFacade interface {
	JournalEntryReader
	JournalLineReader
	JournalEntryWriter
}

// JournalRepositoryWithTx extends JournalRepositoryFacade with transaction capabilities
type JournalRepositoryWithTx interface {
	JournalRepositoryFacade
	TransactionManager
}
