package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// WorkflowStatus indicates where a journal entry sits in the approval workflow.
type WorkflowStatus string

const (
	StatusDraft           WorkflowStatus = "draft"
	StatusPendingApproval WorkflowStatus = "pending_approval"
	StatusApproved        WorkflowStatus = "approved"
	StatusRejected        WorkflowStatus = "rejected"
	StatusPosted          WorkflowStatus = "posted"
)

// workflowTransitions lists the allowed next states for each status.
// posted and rejected are terminal; corrections go through supersede.
var workflowTransitions = map[WorkflowStatus][]WorkflowStatus{
	StatusDraft:           {StatusPendingApproval, StatusPosted},
	StatusPendingApproval: {StatusApproved, StatusRejected},
	StatusApproved:        {StatusPosted},
}

// CanTransitionTo reports whether moving from s to next is a legal workflow step.
func (s WorkflowStatus) CanTransitionTo(next WorkflowStatus) bool {
	for _, allowed := range workflowTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transition is possible from s.
func (s WorkflowStatus) IsTerminal() bool {
	return len(workflowTransitions[s]) == 0
}

// TransactionType classifies the business event a journal entry records.
type TransactionType string

const (
	TxnSale       TransactionType = "sale"
	TxnPurchase   TransactionType = "purchase"
	TxnPayment    TransactionType = "payment"
	TxnReceipt    TransactionType = "receipt"
	TxnTransfer   TransactionType = "transfer"
	TxnAdjustment TransactionType = "adjustment"
)

// ApprovalComment records a reviewer action on an entry.
type ApprovalComment struct {
	CommentID string         `json:"commentID"`
	UserID    string         `json:"userID"`
	Comment   string         `json:"comment"`
	Status    WorkflowStatus `json:"status"`
	Timestamp time.Time      `json:"timestamp"`
}

// JournalEntryLine is one debit and/or credit against a single account.
// Exactly one side is expected to be non-zero, but that is not enforced here.
type JournalEntryLine struct {
	LineID         string          `json:"lineID"`
	JournalEntryID string          `json:"journalEntryID"`
	TenantID       string          `json:"tenantID"`
	AccountID      string          `json:"accountID"`
	DebitAmount    decimal.Decimal `json:"debitAmount"`
	CreditAmount   decimal.Decimal `json:"creditAmount"`
	Description    string          `json:"description"`
	Reference      string          `json:"reference"`
	CurrencyCode   string          `json:"currencyCode"`
	FXRate         decimal.Decimal `json:"fxRate"`
	AuditFields
}

// JournalEntry is a single double-entry transaction with its lines.
type JournalEntry struct {
	JournalEntryID    string             `json:"journalEntryID"`
	TenantID          string             `json:"tenantID"`
	EntryDate         time.Time          `json:"entryDate"`
	Reference         string             `json:"reference"`
	Description       string             `json:"description"`
	TransactionType   TransactionType    `json:"transactionType,omitempty"`
	Status            WorkflowStatus     `json:"status"`
	IsPosted          bool               `json:"isPosted"`
	PostedAt          *time.Time         `json:"postedAt,omitempty"`
	Finalized         bool               `json:"finalized"`
	SupersededBy      *string            `json:"supersededBy,omitempty"`   // reference of the replacing entry, for display
	SupersededByID    *string            `json:"supersededByID,omitempty"` // identifier of the replacing entry
	Version           int                `json:"version"`
	BaseCurrency      string             `json:"baseCurrency"`
	UserID            string             `json:"userID"`
	EntityID          string             `json:"entityID"`
	OriginatingModule string             `json:"originatingModule"`
	ApproverComments  []ApprovalComment  `json:"approverComments,omitempty"`
	Lines             []JournalEntryLine `json:"lines"`
	AuditFields
}

// TotalDebits sums the debit side of every line.
func (e *JournalEntry) TotalDebits() decimal.Decimal {
	total := decimal.Zero
	for _, l := range e.Lines {
		total = total.Add(l.DebitAmount)
	}
	return total
}

// TotalCredits sums the credit side of every line.
func (e *JournalEntry) TotalCredits() decimal.Decimal {
	total := decimal.Zero
	for _, l := range e.Lines {
		total = total.Add(l.CreditAmount)
	}
	return total
}

// IsBalanced reports whether |debits - credits| <= tolerance.
func (e *JournalEntry) IsBalanced(tolerance decimal.Decimal) bool {
	return e.TotalDebits().Sub(e.TotalCredits()).Abs().LessThanOrEqual(tolerance)
}

// HasRequiredText reports whether both reference and description are non-blank.
func (e *JournalEntry) HasRequiredText() bool {
	return strings.TrimSpace(e.Reference) != "" && strings.TrimSpace(e.Description) != ""
}

// HasRequiredMetadata reports whether user, entity and originating module are all set.
func (e *JournalEntry) HasRequiredMetadata() bool {
	return e.UserID != "" && e.EntityID != "" && e.OriginatingModule != ""
}
