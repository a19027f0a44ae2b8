package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SscSPs/mfrs_ledger_app/internal/apperrors"
	"github.com/SscSPs/mfrs_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/mfrs_ledger_app/internal/core/ports/repositories"
	"github.com/SscSPs/mfrs_ledger_app/internal/models"
	"github.com/SscSPs/mfrs_ledger_app/internal/utils/mapping"
)

type PgxAuditRepository struct {
	BaseRepository
}

// newPgxAuditRepository creates a new repository for the append-only audit log.
func newPgxAuditRepository(pool *pgxpool.Pool) portsrepo.AuditRepositoryFacade {
	return &PgxAuditRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AuditRepositoryFacade = (*PgxAuditRepository)(nil)

// insertAuditLog writes one audit record through q, which may be a transaction.
func insertAuditLog(ctx context.Context, q querier, log domain.AuditLog) error {
	m := mapping.ToModelAuditLog(log)
	query := `
		INSERT INTO audit_logs (audit_log_id, tenant_id, event_type, entity_id, user_id, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	if _, err := q.Exec(ctx, query,
		m.AuditLogID,
		m.TenantID,
		m.EventType,
		m.EntityID,
		m.UserID,
		m.Payload,
		m.CreatedAt,
	); err != nil {
		return mapWriteError(err, "audit log "+m.EventType)
	}
	return nil
}

// AppendAuditLog writes one audit record outside any transaction.
func (r *PgxAuditRepository) AppendAuditLog(ctx context.Context, log domain.AuditLog) error {
	return insertAuditLog(ctx, r.Pool, log)
}

// ListAuditLogs returns the entity's trail oldest first.
func (r *PgxAuditRepository) ListAuditLogs(ctx context.Context, tenantID, entityID string) ([]domain.AuditLog, error) {
	query := `
		SELECT audit_log_id, tenant_id, event_type, entity_id, user_id, payload, created_at
		FROM audit_logs
		WHERE tenant_id = $1 AND entity_id = $2
		ORDER BY created_at, audit_log_id;
	`
	rows, err := r.Pool.Query(ctx, query, tenantID, entityID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query audit logs for "+entityID, err)
	}
	defer rows.Close()

	logs := []domain.AuditLog{}
	for rows.Next() {
		var m models.AuditLog
		if err := rows.Scan(&m.AuditLogID, &m.TenantID, &m.EventType, &m.EntityID, &m.UserID, &m.Payload, &m.CreatedAt); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan audit log row", err)
		}
		logs = append(logs, mapping.ToDomainAuditLog(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating audit log rows", err)
	}
	return logs, nil
}
