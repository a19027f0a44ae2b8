package dto

import (
	"time"

	"github.com/SscSPs/mfrs_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateJournalEntryRequest defines the data needed to open a draft entry.
// Reference and description are checked by the service so blank values are
// reported as invalid arguments rather than binding errors.
type CreateJournalEntryRequest struct {
	Reference         string                 `json:"reference"`
	Description       string                 `json:"description"`
	EntryDate         *time.Time             `json:"entryDate"`
	TransactionType   domain.TransactionType `json:"transactionType" binding:"omitempty,oneof=sale purchase payment receipt transfer adjustment"`
	EntityID          string                 `json:"entityID"`
	OriginatingModule string                 `json:"originatingModule"`
	BaseCurrency      string                 `json:"baseCurrency" binding:"omitempty,uppercase,len=3"`
}

// AddLineRequest defines one debit/credit line to append to an entry.
type AddLineRequest struct {
	AccountID    string           `json:"accountID" binding:"required"`
	DebitAmount  decimal.Decimal  `json:"debitAmount"`
	CreditAmount decimal.Decimal  `json:"creditAmount"`
	Description  string           `json:"description"`
	Reference    string           `json:"reference"`
	CurrencyCode string           `json:"currencyCode" binding:"omitempty,uppercase,len=3"`
	FXRate       *decimal.Decimal `json:"fxRate"`
}

// WorkflowCommentRequest carries an optional comment for submit/finalize actions.
type WorkflowCommentRequest struct {
	Comment string `json:"comment"`
}

// ReviewJournalEntryRequest records an approver's decision.
type ReviewJournalEntryRequest struct {
	Approve *bool  `json:"approve" binding:"required"`
	Comment string `json:"comment"`
}

// SupersedeJournalEntryRequest names the reference of the replacement entry.
type SupersedeJournalEntryRequest struct {
	NewReference string `json:"newReference" binding:"required,notblank"`
}

// ListJournalEntriesParams holds token pagination query parameters.
type ListJournalEntriesParams struct {
	Limit     int     `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// JournalLineResponse defines the data returned for a journal entry line.
type JournalLineResponse struct {
	LineID       string          `json:"lineID"`
	AccountID    string          `json:"accountID"`
	DebitAmount  decimal.Decimal `json:"debitAmount"`
	CreditAmount decimal.Decimal `json:"creditAmount"`
	Description  string          `json:"description,omitempty"`
	Reference    string          `json:"reference,omitempty"`
	CurrencyCode string          `json:"currencyCode"`
	FXRate       decimal.Decimal `json:"fxRate"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// JournalEntryResponse defines the data returned for a journal entry.
type JournalEntryResponse struct {
	JournalEntryID    string                   `json:"journalEntryID"`
	EntryDate         time.Time                `json:"entryDate"`
	Reference         string                   `json:"reference"`
	Description       string                   `json:"description"`
	TransactionType   domain.TransactionType   `json:"transactionType,omitempty"`
	Status            domain.WorkflowStatus    `json:"status"`
	IsPosted          bool                     `json:"isPosted"`
	PostedAt          *time.Time               `json:"postedAt,omitempty"`
	Finalized         bool                     `json:"finalized"`
	SupersededBy      *string                  `json:"supersededBy,omitempty"`
	SupersededByID    *string                  `json:"supersededByID,omitempty"`
	Version           int                      `json:"version"`
	BaseCurrency      string                   `json:"baseCurrency"`
	EntityID          string                   `json:"entityID"`
	OriginatingModule string                   `json:"originatingModule"`
	ApproverComments  []domain.ApprovalComment `json:"approverComments,omitempty"`
	TotalDebits       decimal.Decimal          `json:"totalDebits"`
	TotalCredits      decimal.Decimal          `json:"totalCredits"`
	Lines             []JournalLineResponse    `json:"lines"`
	CreatedAt         time.Time                `json:"createdAt"`
	CreatedBy         string                   `json:"createdBy"`
}

// ListJournalEntriesResponse is one page of entries.
type ListJournalEntriesResponse struct {
	Entries   []JournalEntryResponse `json:"entries"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// ToJournalEntryResponse converts a domain.JournalEntry to JournalEntryResponse DTO.
func ToJournalEntryResponse(e *domain.JournalEntry) JournalEntryResponse {
	lines := make([]JournalLineResponse, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = JournalLineResponse{
			LineID:       l.LineID,
			AccountID:    l.AccountID,
			DebitAmount:  l.DebitAmount,
			CreditAmount: l.CreditAmount,
			Description:  l.Description,
			Reference:    l.Reference,
			CurrencyCode: l.CurrencyCode,
			FXRate:       l.FXRate,
			CreatedAt:    l.CreatedAt,
		}
	}
	return JournalEntryResponse{
		JournalEntryID:    e.JournalEntryID,
		EntryDate:         e.EntryDate,
		Reference:         e.Reference,
		Description:       e.Description,
		TransactionType:   e.TransactionType,
		Status:            e.Status,
		IsPosted:          e.IsPosted,
		PostedAt:          e.PostedAt,
		Finalized:         e.Finalized,
		SupersededBy:      e.SupersededBy,
		SupersededByID:    e.SupersededByID,
		Version:           e.Version,
		BaseCurrency:      e.BaseCurrency,
		EntityID:          e.EntityID,
		OriginatingModule: e.OriginatingModule,
		ApproverComments:  e.ApproverComments,
		TotalDebits:       e.TotalDebits(),
		TotalCredits:      e.TotalCredits(),
		Lines:             lines,
		CreatedAt:         e.CreatedAt,
		CreatedBy:         e.CreatedBy,
	}
}

// ToListJournalEntriesResponse converts a page of entries.
func ToListJournalEntriesResponse(entries []domain.JournalEntry, nextToken *string) ListJournalEntriesResponse {
	list := make([]JournalEntryResponse, len(entries))
	for i := range entries {
		list[i] = ToJournalEntryResponse(&entries[i])
	}
	return ListJournalEntriesResponse{Entries: list, NextToken: nextToken}
}

// TemplateEntryRequest drives the canned two-line entry templates.
// For subscription upgrades Amount is the new price and PreviousAmount the old one.
type TemplateEntryRequest struct {
	Reference         string           `json:"reference"`
	Description       string           `json:"description"`
	DebitAccountID    string           `json:"debitAccountID" binding:"required"`
	CreditAccountID   string           `json:"creditAccountID" binding:"required"`
	Amount            decimal.Decimal  `json:"amount"`
	PreviousAmount    *decimal.Decimal `json:"previousAmount"`
	EntityID          string           `json:"entityID"`
	OriginatingModule string           `json:"originatingModule"`
}

// AuditTrailResponse lists the audit records of one entry, oldest first.
type AuditTrailResponse struct {
	Events []domain.AuditLog `json:"events"`
}

// TemplateNamesResponse lists the available entry templates.
type TemplateNamesResponse struct {
	Templates []string `json:"templates"`
}
