package models

import "time"

// AuditLog represents an append-only audit_logs row.
type AuditLog struct {
	AuditLogID string         `db:"audit_log_id"`
	TenantID   string         `db:"tenant_id"`
	EventType  string         `db:"event_type"`
	EntityID   string         `db:"entity_id"`
	UserID     string         `db:"user_id"`
	Payload    map[string]any `db:"payload"` // jsonb
	CreatedAt  time.Time      `db:"created_at"`
}
