package mapping

import (
	"github.com/SscSPs/mfrs_ledger_app/internal/core/domain"
	"github.com/SscSPs/mfrs_ledger_app/internal/models"
)

// ToModelJournalEntry converts a domain JournalEntry header to a model JournalEntry.
// Lines are mapped separately with ToModelJournalEntryLine.
func ToModelJournalEntry(d domain.JournalEntry) models.JournalEntry {
	comments := make([]models.ApprovalComment, len(d.ApproverComments))
	for i, c := range d.ApproverComments {
		comments[i] = models.ApprovalComment{
			CommentID: c.CommentID,
			UserID:    c.UserID,
			Comment:   c.Comment,
			Status:    string(c.Status),
			Timestamp: c.Timestamp,
		}
	}
	return models.JournalEntry{
		JournalEntryID:    d.JournalEntryID,
		TenantID:          d.TenantID,
		EntryDate:         d.EntryDate,
		Reference:         d.Reference,
		Description:       d.Description,
		TransactionType:   string(d.TransactionType),
		Status:            models.WorkflowStatus(d.Status),
		IsPosted:          d.IsPosted,
		PostedAt:          d.PostedAt,
		Finalized:         d.Finalized,
		SupersededBy:      d.SupersededBy,
		SupersededByID:    d.SupersededByID,
		Version:           d.Version,
		BaseCurrency:      d.BaseCurrency,
		UserID:            d.UserID,
		EntityID:          d.EntityID,
		OriginatingModule: d.OriginatingModule,
		ApproverComments:  comments,
		AuditFields:       models.AuditFields(d.AuditFields),
	}
}

// ToDomainJournalEntry converts a model JournalEntry to a domain JournalEntry with the given lines.
func ToDomainJournalEntry(m models.JournalEntry, lines []models.JournalEntryLine) domain.JournalEntry {
	comments := make([]domain.ApprovalComment, len(m.ApproverComments))
	for i, c := range m.ApproverComments {
		comments[i] = domain.ApprovalComment{
			CommentID: c.CommentID,
			UserID:    c.UserID,
			Comment:   c.Comment,
			Status:    domain.WorkflowStatus(c.Status),
			Timestamp: c.Timestamp,
		}
	}
	return domain.JournalEntry{
		JournalEntryID:    m.JournalEntryID,
		TenantID:          m.TenantID,
		EntryDate:         m.EntryDate,
		Reference:         m.Reference,
		Description:       m.Description,
		TransactionType:   domain.TransactionType(m.TransactionType),
		Status:            domain.WorkflowStatus(m.Status),
		IsPosted:          m.IsPosted,
		PostedAt:          m.PostedAt,
		Finalized:         m.Finalized,
		SupersededBy:      m.SupersededBy,
		SupersededByID:    m.SupersededByID,
		Version:           m.Version,
		BaseCurrency:      m.BaseCurrency,
		UserID:            m.UserID,
		EntityID:          m.EntityID,
		OriginatingModule: m.OriginatingModule,
		ApproverComments:  comments,
		Lines:             ToDomainJournalEntryLineSlice(lines),
		AuditFields:       domain.AuditFields(m.AuditFields),
	}
}

// ToModelJournalEntryLine converts a domain line to a model line
func ToModelJournalEntryLine(d domain.JournalEntryLine) models.JournalEntryLine {
	return models.JournalEntryLine{
		LineID:         d.LineID,
		JournalEntryID: d.JournalEntryID,
		TenantID:       d.TenantID,
		AccountID:      d.AccountID,
		DebitAmount:    d.DebitAmount,
		CreditAmount:   d.CreditAmount,
		Description:    d.Description,
		Reference:      d.Reference,
		CurrencyCode:   d.CurrencyCode,
		FXRate:         d.FXRate,
		AuditFields:    models.AuditFields(d.AuditFields),
	}
}

// ToDomainJournalEntryLine converts a model line to a domain line
func ToDomainJournalEntryLine(m models.JournalEntryLine) domain.JournalEntryLine {
	return domain.JournalEntryLine{
		LineID:         m.LineID,
		JournalEntryID: m.JournalEntryID,
		TenantID:       m.TenantID,
		AccountID:      m.AccountID,
		DebitAmount:    m.DebitAmount,
		CreditAmount:   m.CreditAmount,
		Description:    m.Description,
		Reference:      m.Reference,
		CurrencyCode:   m.CurrencyCode,
		FXRate:         m.FXRate,
		AuditFields:    domain.AuditFields(m.AuditFields),
	}
}

// ToDomainJournalEntryLineSlice converts a slice of model lines; nil becomes an empty slice.
func ToDomainJournalEntryLineSlice(ms []models.JournalEntryLine) []domain.JournalEntryLine {
	ds := make([]domain.JournalEntryLine, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainJournalEntryLine(m)
	}
	return ds
}
