package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// WorkflowStatus is the stored approval state of an entry.
type WorkflowStatus string

// ApprovalComment is stored inside the approver_comments jsonb column.
type ApprovalComment struct {
	CommentID string    `json:"commentID"`
	UserID    string    `json:"userID"`
	Comment   string    `json:"comment"`
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// JournalEntry represents a journal_entries row. Lines are loaded separately.
type JournalEntry struct {
	JournalEntryID    string            `db:"journal_entry_id"`
	TenantID          string            `db:"tenant_id"`
	EntryDate         time.Time         `db:"entry_date"`
	Reference         string            `db:"reference"`
	Description       string            `db:"description"`
	TransactionType   string            `db:"transaction_type"`
	Status            WorkflowStatus    `db:"status"`
	IsPosted          bool              `db:"is_posted"`
	PostedAt          *time.Time        `db:"posted_at"`
	Finalized         bool              `db:"finalized"`
	SupersededBy      *string           `db:"superseded_by"`
	SupersededByID    *string           `db:"superseded_by_id"`
	Version           int               `db:"version"`
	BaseCurrency      string            `db:"base_currency"`
	UserID            string            `db:"user_id"`
	EntityID          string            `db:"entity_id"`
	OriginatingModule string            `db:"originating_module"`
	ApproverComments  []ApprovalComment `db:"approver_comments"` // jsonb
	AuditFields
}

// JournalEntryLine represents a journal_entry_lines row.
type JournalEntryLine struct {
	LineID         string          `db:"line_id"`
	JournalEntryID string          `db:"journal_entry_id"`
	TenantID       string          `db:"tenant_id"`
	AccountID      string          `db:"account_id"`
	DebitAmount    decimal.Decimal `db:"debit_amount"`
	CreditAmount   decimal.Decimal `db:"credit_amount"`
	Description    string          `db:"description"`
	Reference      string          `db:"reference"`
	CurrencyCode   string          `db:"currency_code"`
	FXRate         decimal.Decimal `db:"fx_rate"`
	AuditFields
}
