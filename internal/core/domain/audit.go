package domain

import "time"

// Audit event names written to the audit log.
const (
	AuditJournalEntryCreated    = "journal_entry_created"
	AuditJournalLineAdded       = "journal_line_added"
	AuditJournalEntrySubmitted  = "journal_entry_submitted"
	AuditJournalEntryReviewed   = "journal_entry_reviewed"
	AuditJournalEntryPosted     = "journal_entry_posted"
	AuditJournalEntryFinalized  = "journal_entry_finalized"
	AuditJournalEntrySuperseded = "journal_entry_superseded"
	AuditAccountCreated         = "account_created"
	AuditAccountDeactivated     = "account_deactivated"
	AuditDisclosureApproved     = "disclosure_approved"
)

// AuditLog is an append-only record of something that happened to an entity.
type AuditLog struct {
	AuditLogID string         `json:"auditLogID"`
	TenantID   string         `json:"tenantID"`
	EventType  string         `json:"eventType"`
	EntityID   string         `json:"entityID"`
	UserID     string         `json:"userID"`
	Payload    map[string]any `json:"payload"`
	CreatedAt  time.Time      `json:"createdAt"`
}
