package repositories

import (
	"context"

	"github.com/SscSPs/mfrs_ledger_app/internal/core/domain"
)

// AuditLogWriter appends audit records.
type AuditLogWriter interface {
	AppendAuditLog(ctx context.Context, log domain.AuditLog) error
}

// AuditLogReader lists the audit trail of one entity, oldest first.
type AuditLogReader interface {
	ListAuditLogs(ctx context.Context, tenantID, entityID string) ([]domain.AuditLog, error)
}

// AuditRepositoryFacade combines audit read and write operations
type AuditRepositoryFacade interface {
	AuditLogWriter
	AuditLogReader
}
