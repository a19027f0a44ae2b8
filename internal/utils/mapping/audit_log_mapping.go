package mapping

import (
	"github.com/SscSPs/mfrs_ledger_app/internal/core/domain"
	"github.com/SscSPs/mfrs_ledger_app/internal/models"
)

// ToModelAuditLog converts a domain AuditLog to a model AuditLog
func ToModelAuditLog(d domain.AuditLog) models.AuditLog {
	payload := d.Payload
	if payload == nil {
		payload = map[string]any{}
	}
	return models.AuditLog{
		AuditLogID: d.AuditLogID,
		TenantID:   d.TenantID,
		EventType:  d.EventType,
		EntityID:   d.EntityID,
		UserID:     d.UserID,
		Payload:    payload,
		CreatedAt:  d.CreatedAt,
	}
}

// ToDomainAuditLog converts a model AuditLog to a domain AuditLog
func ToDomainAuditLog(m models.AuditLog) domain.AuditLog {
	return domain.AuditLog{
		AuditLogID: m.AuditLogID,
		TenantID:   m.TenantID,
		EventType:  m.EventType,
		EntityID:   m.EntityID,
		UserID:     m.UserID,
		Payload:    m.Payload,
		CreatedAt:  m.CreatedAt,
	}
}
