package pgsql

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SscSPs/mfrs_ledger_app/internal/apperrors"
	"github.com/SscSPs/mfrs_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/mfrs_ledger_app/internal/core/ports/repositories"
	"github.com/SscSPs/mfrs_ledger_app/internal/models"
	"github.com/SscSPs/mfrs_ledger_app/internal/utils/mapping"
	"github.com/SscSPs/mfrs_ledger_app/internal/utils/pagination"
)

const entryColumns = `journal_entry_id, tenant_id, entry_date, reference, description, transaction_type, status,
	is_posted, posted_at, finalized, superseded_by, superseded_by_id, version, base_currency,
	user_id, entity_id, originating_module, approver_comments,
	created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `line_id, journal_entry_id, tenant_id, account_id, debit_amount, credit_amount,
	description, reference, currency_code, fx_rate, created_at, created_by, last_updated_at, last_updated_by`

type PgxJournalRepository struct {
	BaseRepository
}

// newPgxJournalRepository creates a new repository for journal entries and their lines.
func newPgxJournalRepository(pool *pgxpool.Pool) portsrepo.JournalRepositoryWithTx {
	return &PgxJournalRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryWithTx
var _ portsrepo.JournalRepositoryWithTx = (*PgxJournalRepository)(nil)

func scanEntry(row pgx.Row) (models.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.JournalEntryID,
		&m.TenantID,
		&m.EntryDate,
		&m.Reference,
		&m.Description,
		&m.TransactionType,
		&m.Status,
		&m.IsPosted,
		&m.PostedAt,
		&m.Finalized,
		&m.SupersededBy,
		&m.SupersededByID,
		&m.Version,
		&m.BaseCurrency,
		&m.UserID,
		&m.EntityID,
		&m.OriginatingModule,
		&m.ApproverComments,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func scanLine(row pgx.Row) (models.JournalEntryLine, error) {
	var m models.JournalEntryLine
	err := row.Scan(
		&m.LineID,
		&m.JournalEntryID,
		&m.TenantID,
		&m.AccountID,
		&m.DebitAmount,
		&m.CreditAmount,
		&m.Description,
		&m.Reference,
		&m.CurrencyCode,
		&m.FXRate,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

func collectLines(rows pgx.Rows) ([]models.JournalEntryLine, error) {
	defer rows.Close()
	lines := []models.JournalEntryLine{}
	for rows.Next() {
		m, err := scanLine(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan journal entry line", err)
		}
		lines = append(lines, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating journal entry lines", err)
	}
	return lines, nil
}

// FindJournalEntryByID retrieves an entry and its lines in insertion order.
func (r *PgxJournalRepository) FindJournalEntryByID(ctx context.Context, tenantID, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE tenant_id = $1 AND journal_entry_id = $2;`

	m, err := scanEntry(r.Pool.QueryRow(ctx, query, tenantID, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find journal entry by ID "+entryID, err)
	}

	rows, err := r.Pool.Query(ctx,
		`SELECT `+lineColumns+` FROM journal_entry_lines WHERE tenant_id = $1 AND journal_entry_id = $2 ORDER BY created_at, line_id;`,
		tenantID, entryID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query lines for journal entry "+entryID, err)
	}
	lines, err := collectLines(rows)
	if err != nil {
		return nil, err
	}

	entry := mapping.ToDomainJournalEntry(m, lines)
	return &entry, nil
}

// ListJournalEntries retrieves a page of entry headers, newest first, using token-based pagination.
func (r *PgxJournalRepository) ListJournalEntries(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// Fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE tenant_id = $1`
	args := []any{tenantID}

	if nextToken != nil && *nextToken != "" {
		lastDate, lastCreatedAt, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.InvalidArgument("invalid nextToken")
		}
		query += ` AND (entry_date, created_at) < ($2, $3)`
		args = append(args, lastDate, lastCreatedAt)
	}
	query += ` ORDER BY entry_date DESC, created_at DESC LIMIT $` + strconv.Itoa(len(args)+1) + `;`
	args = append(args, fetchLimit)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query journal entries for tenant "+tenantID, err)
	}
	defer rows.Close()

	ms := make([]models.JournalEntry, 0, fetchLimit)
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan journal entry row for tenant "+tenantID, err)
		}
		ms = append(ms, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating journal entry rows for tenant "+tenantID, err)
	}

	var nextTokenVal *string
	if len(ms) > limit {
		// The token points to the last item included in this page.
		last := ms[limit-1]
		token := pagination.EncodeToken(last.EntryDate, last.CreatedAt)
		nextTokenVal = &token
		ms = ms[:limit]
	}

	entries := make([]domain.JournalEntry, len(ms))
	for i, m := range ms {
		entries[i] = mapping.ToDomainJournalEntry(m, nil)
	}
	return entries, nextTokenVal, nil
}

// ListLines returns the tenant's lines, or one account's lines when accountID is set.
func (r *PgxJournalRepository) ListLines(ctx context.Context, tenantID, accountID string) ([]domain.JournalEntryLine, error) {
	query := `SELECT ` + lineColumns + ` FROM journal_entry_lines WHERE tenant_id = $1`
	args := []any{tenantID}
	if accountID != "" {
		query += ` AND account_id = $2`
		args = append(args, accountID)
	}
	query += ` ORDER BY created_at, line_id;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query journal entry lines", err)
	}
	lines, err := collectLines(rows)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainJournalEntryLineSlice(lines), nil
}

// CreateJournalEntry inserts the header and any lines it carries in one transaction.
func (r *PgxJournalRepository) CreateJournalEntry(ctx context.Context, entry domain.JournalEntry) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return insertEntryWithLines(ctx, tx, entry)
	})
}

// AddLine bumps the entry version and inserts the line in one transaction.
func (r *PgxJournalRepository) AddLine(ctx context.Context, line domain.JournalEntryLine, expectedVersion int) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		query := `
			UPDATE journal_entries
			SET version = version + 1, last_updated_at = $4, last_updated_by = $5
			WHERE tenant_id = $1 AND journal_entry_id = $2 AND version = $3;
		`
		tag, err := tx.Exec(ctx, query, line.TenantID, line.JournalEntryID, expectedVersion, line.CreatedAt, line.CreatedBy)
		if err != nil {
			return apperrors.NewAppError(500, "failed to bump version of journal entry "+line.JournalEntryID, err)
		}
		if tag.RowsAffected() == 0 {
			return r.versionMismatch(ctx, tx, line.TenantID, line.JournalEntryID)
		}

		batch := &pgx.Batch{}
		queueLineInsert(batch, line)
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return mapWriteError(err, "journal entry line "+line.LineID)
		}
		return nil
	})
}

// UpdateJournalEntry writes the mutable header fields when the stored version still matches.
func (r *PgxJournalRepository) UpdateJournalEntry(ctx context.Context, entry domain.JournalEntry, expectedVersion int) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return r.updateEntry(ctx, tx, entry, expectedVersion)
	})
}

// PostJournalEntry writes the posted header and its audit record together.
func (r *PgxJournalRepository) PostJournalEntry(ctx context.Context, entry domain.JournalEntry, expectedVersion int, audit domain.AuditLog) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		if err := r.updateEntry(ctx, tx, entry, expectedVersion); err != nil {
			return err
		}
		return insertAuditLog(ctx, tx, audit)
	})
}

// SupersedeJournalEntry links the original to its replacement, inserts the replacement and records the audit event.
func (r *PgxJournalRepository) SupersedeJournalEntry(ctx context.Context, original domain.JournalEntry, expectedVersion int, replacement domain.JournalEntry, audit domain.AuditLog) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		if err := insertEntryWithLines(ctx, tx, replacement); err != nil {
			return err
		}
		if err := r.updateEntry(ctx, tx, original, expectedVersion); err != nil {
			return err
		}
		return insertAuditLog(ctx, tx, audit)
	})
}

func (r *PgxJournalRepository) updateEntry(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry, expectedVersion int) error {
	m := mapping.ToModelJournalEntry(entry)
	query := `
		UPDATE journal_entries
		SET status = $4,
		    is_posted = $5,
		    posted_at = $6,
		    finalized = $7,
		    superseded_by = $8,
		    superseded_by_id = $9,
		    approver_comments = $10,
		    last_updated_at = $11,
		    last_updated_by = $12,
		    version = version + 1
		WHERE tenant_id = $1 AND journal_entry_id = $2 AND version = $3;
	`
	tag, err := tx.Exec(ctx, query,
		m.TenantID,
		m.JournalEntryID,
		expectedVersion,
		m.Status,
		m.IsPosted,
		m.PostedAt,
		m.Finalized,
		m.SupersededBy,
		m.SupersededByID,
		m.ApproverComments,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update journal entry "+m.JournalEntryID, err)
	}
	if tag.RowsAffected() == 0 {
		return r.versionMismatch(ctx, tx, m.TenantID, m.JournalEntryID)
	}
	return nil
}

// versionMismatch distinguishes a missing entry from a stale version after a guarded update touched no rows.
func (r *PgxJournalRepository) versionMismatch(ctx context.Context, tx pgx.Tx, tenantID, entryID string) error {
	var current int
	err := tx.QueryRow(ctx,
		`SELECT version FROM journal_entries WHERE tenant_id = $1 AND journal_entry_id = $2;`,
		tenantID, entryID).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return apperrors.NewAppError(500, "failed to read version of journal entry "+entryID, err)
	}
	return apperrors.ErrConflict
}

func insertEntryWithLines(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry) error {
	m := mapping.ToModelJournalEntry(entry)
	query := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22);
	`
	_, err := tx.Exec(ctx, query,
		m.JournalEntryID,
		m.TenantID,
		m.EntryDate,
		m.Reference,
		m.Description,
		m.TransactionType,
		m.Status,
		m.IsPosted,
		m.PostedAt,
		m.Finalized,
		m.SupersededBy,
		m.SupersededByID,
		m.Version,
		m.BaseCurrency,
		m.UserID,
		m.EntityID,
		m.OriginatingModule,
		m.ApproverComments,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return mapWriteError(err, "journal entry "+m.JournalEntryID)
	}

	if len(entry.Lines) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, line := range entry.Lines {
		queueLineInsert(batch, line)
	}
	// Close reports the first failing statement in the batch.
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return mapWriteError(err, "lines for journal entry "+m.JournalEntryID)
	}
	return nil
}

func queueLineInsert(batch *pgx.Batch, line domain.JournalEntryLine) {
	m := mapping.ToModelJournalEntryLine(line)
	batch.Queue(`
		INSERT INTO journal_entry_lines (`+lineColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14);`,
		m.LineID,
		m.JournalEntryID,
		m.TenantID,
		m.AccountID,
		m.DebitAmount,
		m.CreditAmount,
		m.Description,
		m.Reference,
		m.CurrencyCode,
		m.FXRate,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
}
