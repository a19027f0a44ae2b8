package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/SscSPs/mfrs_ledger_app/internal/apperrors"
	"github.com/SscSPs/mfrs_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/mfrs_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/mfrs_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/mfrs_ledger_app/internal/dto"
	"github.com/SscSPs/mfrs_ledger_app/internal/platform/metrics"
)

const (
	defaultBaseCurrency       = "MYR"
	defaultMinConfidenceScore = 70
	defaultListLimit          = 20
)

// Reasons reported by ValidateJournalEntry.
const (
	msgRequiredText     = "Reference and description are required"
	msgRequiredMetadata = "Missing required metadata"
	msgEntryFinalized   = "Entry is finalized and cannot be edited"
	msgUnbalanced       = "Debits and credits must balance"
)

var defaultBalanceTolerance = decimal.NewFromFloat(0.01)

// journalService validates, posts and supersedes journal entries.
type journalService struct {
	BaseService
	journalRepo   portsrepo.JournalRepositoryWithTx
	accountRepo   portsrepo.AccountReader
	auditRepo     portsrepo.AuditRepositoryFacade
	compliance    portssvc.ComplianceValidatorSvc
	tolerance     decimal.Decimal
	minConfidence int
}

// JournalServiceOption is a functional option for configuring the journal service
type JournalServiceOption func(*journalService)

// WithJournalMetrics records posting and validation counters.
func WithJournalMetrics(m *metrics.Metrics) JournalServiceOption {
	return func(s *journalService) {
		s.Metrics = m
	}
}

// WithJournalAuditLog writes and reads the entry audit trail.
func WithJournalAuditLog(repo portsrepo.AuditRepositoryFacade) JournalServiceOption {
	return func(s *journalService) {
		s.auditRepo = repo
	}
}

// WithBalanceTolerance sets the largest debit/credit difference still considered balanced.
func WithBalanceTolerance(tolerance decimal.Decimal) JournalServiceOption {
	return func(s *journalService) {
		s.tolerance = tolerance
	}
}

// WithMinConfidenceScore sets the entity compliance score below which validation fails.
func WithMinConfidenceScore(score int) JournalServiceOption {
	return func(s *journalService) {
		s.minConfidence = score
	}
}

// WithJournalClock overrides the time source.
func WithJournalClock(now func() time.Time) JournalServiceOption {
	return func(s *journalService) {
		s.now = now
	}
}

// NewJournalService creates a new JournalService.
func NewJournalService(
	journalRepo portsrepo.JournalRepositoryWithTx,
	accountRepo portsrepo.AccountReader,
	compliance portssvc.ComplianceValidatorSvc,
	options ...JournalServiceOption,
) portssvc.JournalSvcFacade {
	svc := &journalService{
		journalRepo:   journalRepo,
		accountRepo:   accountRepo,
		compliance:    compliance,
		tolerance:     defaultBalanceTolerance,
		minConfidence: defaultMinConfidenceScore,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

// Ensure journalService implements the portssvc.JournalSvcFacade interface
var _ portssvc.JournalSvcFacade = (*journalService)(nil)

// CreateJournalEntry opens an empty draft entry at version 1.
func (s *journalService) CreateJournalEntry(ctx context.Context, tenantID string, req dto.CreateJournalEntryRequest, userID string) (*domain.JournalEntry, error) {
	reference := strings.TrimSpace(req.Reference)
	description := strings.TrimSpace(req.Description)
	if reference == "" || description == "" {
		return nil, apperrors.InvalidArgument(msgRequiredText)
	}

	now := s.Now()
	entryDate := now
	if req.EntryDate != nil {
		entryDate = *req.EntryDate
	}
	baseCurrency := req.BaseCurrency
	if baseCurrency == "" {
		baseCurrency = defaultBaseCurrency
	}

	entry := domain.JournalEntry{
		JournalEntryID:    uuid.NewString(),
		TenantID:          tenantID,
		EntryDate:         entryDate,
		Reference:         reference,
		Description:       description,
		TransactionType:   req.TransactionType,
		Status:            domain.StatusDraft,
		Version:           1,
		BaseCurrency:      baseCurrency,
		UserID:            userID,
		EntityID:          req.EntityID,
		OriginatingModule: req.OriginatingModule,
		Lines:             []domain.JournalEntryLine{},
		AuditFields:       domain.NewAuditFields(userID, now),
	}

	if err := s.journalRepo.CreateJournalEntry(ctx, entry); err != nil {
		s.LogError(ctx, err, "Failed to save journal entry", slog.String("reference", reference))
		return nil, fmt.Errorf("failed to create journal entry: %w", err)
	}

	s.appendAudit(ctx, tenantID, domain.AuditJournalEntryCreated, entry.JournalEntryID, userID, map[string]any{
		"entry_id":  entry.JournalEntryID,
		"user_id":   userID,
		"reference": reference,
	})
	s.LogInfo(ctx, "Journal entry created", slog.String("entry_id", entry.JournalEntryID))
	return &entry, nil
}

func (s *journalService) GetJournalEntry(ctx context.Context, tenantID, entryID string) (*domain.JournalEntry, error) {
	entry, err := s.journalRepo.FindJournalEntryByID(ctx, tenantID, entryID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find journal entry", slog.String("entry_id", entryID))
		}
		return nil, err
	}
	return entry, nil
}

func (s *journalService) ListJournalEntries(ctx context.Context, tenantID string, params dto.ListJournalEntriesParams) ([]domain.JournalEntry, *string, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	entries, next, err := s.journalRepo.ListJournalEntries(ctx, tenantID, limit, params.NextToken)
	if err != nil {
		s.LogError(ctx, err, "Failed to list journal entries")
		return nil, nil, err
	}
	return entries, next, nil
}

func (s *journalService) ListAuditTrail(ctx context.Context, tenantID, entryID string) ([]domain.AuditLog, error) {
	if _, err := s.GetJournalEntry(ctx, tenantID, entryID); err != nil {
		return nil, err
	}
	if s.auditRepo == nil {
		return []domain.AuditLog{}, nil
	}
	logs, err := s.auditRepo.ListAuditLogs(ctx, tenantID, entryID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list audit trail", slog.String("entry_id", entryID))
		return nil, err
	}
	return logs, nil
}

// AddLineToJournalEntry appends a line. It does not check that only one side is non-zero.
func (s *journalService) AddLineToJournalEntry(ctx context.Context, tenantID, entryID string, req dto.AddLineRequest, userID string) (*domain.JournalEntry, error) {
	entry, err := s.GetJournalEntry(ctx, tenantID, entryID)
	if err != nil {
		return nil, err
	}
	if err := ensureEditable(entry); err != nil {
		return nil, err
	}
	if req.DebitAmount.IsNegative() || req.CreditAmount.IsNegative() {
		return nil, apperrors.InvalidArgument("line amounts cannot be negative")
	}

	account, err := s.accountRepo.FindAccountByID(ctx, tenantID, req.AccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.InvalidArgument(fmt.Sprintf("account %s not found", req.AccountID))
		}
		s.LogError(ctx, err, "Failed to look up line account", slog.String("account_id", req.AccountID))
		return nil, err
	}
	if !account.IsActive {
		return nil, apperrors.InvalidArgument(fmt.Sprintf("account %s is inactive", req.AccountID))
	}

	currency := req.CurrencyCode
	if currency == "" {
		currency = entry.BaseCurrency
	}
	fxRate := decimal.NewFromInt(1)
	if req.FXRate != nil {
		if !req.FXRate.IsPositive() {
			return nil, apperrors.InvalidArgument("fx rate must be positive")
		}
		fxRate = *req.FXRate
	}

	now := s.Now()
	line := domain.JournalEntryLine{
		LineID:         uuid.NewString(),
		JournalEntryID: entry.JournalEntryID,
		TenantID:       tenantID,
		AccountID:      req.AccountID,
		DebitAmount:    req.DebitAmount,
		CreditAmount:   req.CreditAmount,
		Description:    req.Description,
		Reference:      req.Reference,
		CurrencyCode:   currency,
		FXRate:         fxRate,
		AuditFields:    domain.NewAuditFields(userID, now),
	}

	if err := s.journalRepo.AddLine(ctx, line, entry.Version); err != nil {
		s.LogError(ctx, err, "Failed to add journal entry line", slog.String("entry_id", entryID))
		return nil, err
	}
	entry.Lines = append(entry.Lines, line)
	entry.Version++
	entry.Touch(userID, now)

	s.appendAudit(ctx, tenantID, domain.AuditJournalLineAdded, entryID, userID, map[string]any{
		"entry_id":   entryID,
		"line_id":    line.LineID,
		"account_id": line.AccountID,
	})
	return entry, nil
}

// ValidateJournalEntry runs every check in order and collects all failures.
func (s *journalService) ValidateJournalEntry(ctx context.Context, entry domain.JournalEntry) (*domain.ValidationResult, error) {
	var reasons []string

	if !entry.HasRequiredText() {
		reasons = append(reasons, msgRequiredText)
	}
	if !entry.HasRequiredMetadata() {
		reasons = append(reasons, msgRequiredMetadata)
	}
	if entry.Finalized {
		reasons = append(reasons, msgEntryFinalized)
	}
	if !entry.IsBalanced(s.tolerance) {
		reasons = append(reasons, msgUnbalanced)
	}

	txn, err := s.complianceView(ctx, entry)
	if err != nil {
		return nil, err
	}
	violations, err := s.compliance.ValidateTransaction(ctx, txn)
	if err != nil {
		s.LogError(ctx, err, "Compliance validation failed", slog.String("entry_id", entry.JournalEntryID))
		return nil, err
	}
	for _, v := range violations {
		reasons = append(reasons, fmt.Sprintf("MFRS Violation [%s][%s]: %s", v.Standard, v.ComplianceLevel, v.Message))
	}

	score, err := s.compliance.EntityComplianceScore(ctx, entry.TenantID, entry.EntityID)
	if err != nil {
		return nil, err
	}
	if score < s.minConfidence {
		reasons = append(reasons, fmt.Sprintf("Compliance confidence score is low (%d%%) - review required", score))
	}

	result := &domain.ValidationResult{
		Valid:           len(reasons) == 0,
		Errors:          reasons,
		ConfidenceScore: score,
	}
	if !result.Valid {
		s.Metrics.ValidationFailed("validate")
		s.LogDebug(ctx, "Journal entry failed validation",
			slog.String("entry_id", entry.JournalEntryID),
			slog.Int("errors", len(reasons)))
	}
	return result, nil
}

func (s *journalService) ValidateJournalEntryByID(ctx context.Context, tenantID, entryID string) (*domain.ValidationResult, error) {
	entry, err := s.GetJournalEntry(ctx, tenantID, entryID)
	if err != nil {
		return nil, err
	}
	return s.ValidateJournalEntry(ctx, *entry)
}

// complianceView summarises an entry for the rule evaluator. Accounts are keyed by
// account code with the entry's net movement on each.
func (s *journalService) complianceView(ctx context.Context, entry domain.JournalEntry) (domain.ComplianceTransaction, error) {
	ids := make([]string, 0, len(entry.Lines))
	seen := make(map[string]bool, len(entry.Lines))
	for _, l := range entry.Lines {
		if !seen[l.AccountID] {
			seen[l.AccountID] = true
			ids = append(ids, l.AccountID)
		}
	}

	accounts := map[string]domain.Account{}
	if len(ids) > 0 {
		found, err := s.accountRepo.FindAccountsByIDs(ctx, entry.TenantID, ids)
		if err != nil {
			s.LogError(ctx, err, "Failed to load accounts for compliance check", slog.String("entry_id", entry.JournalEntryID))
			return domain.ComplianceTransaction{}, err
		}
		accounts = found
	}

	balances := make(map[string]decimal.Decimal, len(ids))
	for _, l := range entry.Lines {
		key := l.AccountID
		if acc, ok := accounts[l.AccountID]; ok {
			key = acc.Code
		}
		balances[key] = balances[key].Add(l.DebitAmount.Sub(l.CreditAmount))
	}

	return domain.ComplianceTransaction{
		TransactionID: entry.JournalEntryID,
		TenantID:      entry.TenantID,
		Type:          cashFlowActivity(entry.TransactionType),
		Amount:        entry.TotalDebits(),
		Accounts:      balances,
		Date:          entry.EntryDate,
		Reference:     entry.Reference,
		Description:   entry.Description,
		Attributes: map[string]any{
			"transaction_type":   string(entry.TransactionType),
			"entity_id":          entry.EntityID,
			"originating_module": entry.OriginatingModule,
			"total_credits":      entry.TotalCredits(),
		},
	}, nil
}

// cashFlowActivity classifies a journal transaction type for cash flow rules.
func cashFlowActivity(t domain.TransactionType) string {
	if t == domain.TxnTransfer {
		return "financing"
	}
	return "operating"
}

// SubmitForApproval moves a draft entry to pending_approval.
func (s *journalService) SubmitForApproval(ctx context.Context, tenantID, entryID, userID, comment string) (*domain.JournalEntry, error) {
	return s.transition(ctx, tenantID, entryID, userID, domain.StatusPendingApproval, comment, domain.AuditJournalEntrySubmitted)
}

// ReviewJournalEntry approves or rejects a pending entry.
func (s *journalService) ReviewJournalEntry(ctx context.Context, tenantID, entryID, userID string, approve bool, comment string) (*domain.JournalEntry, error) {
	next := domain.StatusRejected
	if approve {
		next = domain.StatusApproved
	}
	return s.transition(ctx, tenantID, entryID, userID, next, comment, domain.AuditJournalEntryReviewed)
}

func (s *journalService) transition(ctx context.Context, tenantID, entryID, userID string, next domain.WorkflowStatus, comment, event string) (*domain.JournalEntry, error) {
	entry, err := s.GetJournalEntry(ctx, tenantID, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Finalized {
		return nil, apperrors.PreconditionFailed(msgEntryFinalized)
	}
	if !entry.Status.CanTransitionTo(next) {
		return nil, apperrors.PreconditionFailed(fmt.Sprintf("cannot move entry from %s to %s", entry.Status, next))
	}

	now := s.Now()
	expected := entry.Version
	previous := entry.Status
	entry.Status = next
	entry.ApproverComments = append(entry.ApproverComments, domain.ApprovalComment{
		CommentID: uuid.NewString(),
		UserID:    userID,
		Comment:   comment,
		Status:    next,
		Timestamp: now,
	})
	entry.Touch(userID, now)

	if err := s.journalRepo.UpdateJournalEntry(ctx, *entry, expected); err != nil {
		s.LogError(ctx, err, "Failed to update journal entry status",
			slog.String("entry_id", entryID),
			slog.String("status", string(next)))
		return nil, err
	}
	entry.Version = expected + 1

	s.appendAudit(ctx, tenantID, event, entryID, userID, map[string]any{
		"entry_id": entryID,
		"user_id":  userID,
		"from":     string(previous),
		"to":       string(next),
	})
	s.LogInfo(ctx, "Journal entry status changed",
		slog.String("entry_id", entryID),
		slog.String("from", string(previous)),
		slog.String("to", string(next)))
	return entry, nil
}

// PostJournalEntry re-validates the entry and posts it together with its audit record.
func (s *journalService) PostJournalEntry(ctx context.Context, tenantID, entryID, userID string) (*domain.JournalEntry, error) {
	entry, err := s.GetJournalEntry(ctx, tenantID, entryID)
	if err != nil {
		return nil, err
	}

	result, err := s.ValidateJournalEntry(ctx, *entry)
	if err != nil {
		return nil, err
	}
	if !result.Valid {
		s.Metrics.ValidationFailed("post")
		return nil, apperrors.NewValidationFailed(result.Errors)
	}
	if !entry.Status.CanTransitionTo(domain.StatusPosted) {
		return nil, apperrors.PreconditionFailed(fmt.Sprintf("entry in status %s cannot be posted", entry.Status))
	}

	now := s.Now()
	expected := entry.Version
	entry.IsPosted = true
	entry.PostedAt = &now
	entry.Status = domain.StatusPosted
	entry.Touch(userID, now)

	audit := domain.AuditLog{
		AuditLogID: uuid.NewString(),
		TenantID:   tenantID,
		EventType:  domain.AuditJournalEntryPosted,
		EntityID:   entryID,
		UserID:     userID,
		Payload: map[string]any{
			"entry_id":  entryID,
			"user_id":   userID,
			"reference": entry.Reference,
		},
		CreatedAt: now,
	}
	if err := s.journalRepo.PostJournalEntry(ctx, *entry, expected, audit); err != nil {
		s.LogError(ctx, err, "Failed to post journal entry", slog.String("entry_id", entryID))
		return nil, err
	}
	entry.Version = expected + 1

	s.Metrics.EntryPosted()
	s.LogInfo(ctx, "Journal entry posted", slog.String("entry_id", entryID), slog.String("user_id", userID))
	return entry, nil
}

// FinalizeJournalEntry locks the entry against any further edit.
func (s *journalService) FinalizeJournalEntry(ctx context.Context, tenantID, entryID, userID string) (*domain.JournalEntry, error) {
	entry, err := s.GetJournalEntry(ctx, tenantID, entryID)
	if err != nil {
		return nil, err
	}
	if entry.Finalized {
		return nil, apperrors.PreconditionFailed("Entry is already finalized")
	}

	now := s.Now()
	expected := entry.Version
	entry.Finalized = true
	entry.Touch(userID, now)

	if err := s.journalRepo.UpdateJournalEntry(ctx, *entry, expected); err != nil {
		s.LogError(ctx, err, "Failed to finalize journal entry", slog.String("entry_id", entryID))
		return nil, err
	}
	entry.Version = expected + 1

	s.appendAudit(ctx, tenantID, domain.AuditJournalEntryFinalized, entryID, userID, map[string]any{
		"entry_id": entryID,
		"user_id":  userID,
	})
	s.LogInfo(ctx, "Journal entry finalized", slog.String("entry_id", entryID))
	return entry, nil
}

// CloneAndSupersede copies a finalized entry into a new draft and links the original to it.
func (s *journalService) CloneAndSupersede(ctx context.Context, tenantID, entryID, newReference, userID string) (*domain.JournalEntry, error) {
	newReference = strings.TrimSpace(newReference)
	if newReference == "" {
		return nil, apperrors.InvalidArgument("new reference is required")
	}

	original, err := s.GetJournalEntry(ctx, tenantID, entryID)
	if err != nil {
		return nil, err
	}
	if !original.Finalized {
		return nil, apperrors.PreconditionFailed("Only finalized entries can be superseded")
	}
	if original.SupersededByID != nil {
		return nil, apperrors.PreconditionFailed(fmt.Sprintf("Entry has already been superseded by %s", *original.SupersededByID))
	}

	now := s.Now()
	replacement := domain.JournalEntry{
		JournalEntryID:    uuid.NewString(),
		TenantID:          tenantID,
		EntryDate:         now,
		Reference:         newReference,
		Description:       original.Description,
		TransactionType:   original.TransactionType,
		Status:            domain.StatusDraft,
		Version:           1,
		BaseCurrency:      original.BaseCurrency,
		UserID:            userID,
		EntityID:          original.EntityID,
		OriginatingModule: original.OriginatingModule,
		AuditFields:       domain.NewAuditFields(userID, now),
	}
	replacement.Lines = make([]domain.JournalEntryLine, len(original.Lines))
	for i, l := range original.Lines {
		replacement.Lines[i] = domain.JournalEntryLine{
			LineID:         uuid.NewString(),
			JournalEntryID: replacement.JournalEntryID,
			TenantID:       tenantID,
			AccountID:      l.AccountID,
			DebitAmount:    l.DebitAmount,
			CreditAmount:   l.CreditAmount,
			Description:    l.Description,
			Reference:      l.Reference,
			CurrencyCode:   l.CurrencyCode,
			FXRate:         l.FXRate,
			AuditFields:    domain.NewAuditFields(userID, now),
		}
	}

	expected := original.Version
	original.SupersededBy = &replacement.Reference
	original.SupersededByID = &replacement.JournalEntryID
	original.Touch(userID, now)

	audit := domain.AuditLog{
		AuditLogID: uuid.NewString(),
		TenantID:   tenantID,
		EventType:  domain.AuditJournalEntrySuperseded,
		EntityID:   entryID,
		UserID:     userID,
		Payload: map[string]any{
			"entry_id":       entryID,
			"replacement_id": replacement.JournalEntryID,
			"new_reference":  newReference,
			"user_id":        userID,
		},
		CreatedAt: now,
	}
	if err := s.journalRepo.SupersedeJournalEntry(ctx, *original, expected, replacement, audit); err != nil {
		s.LogError(ctx, err, "Failed to supersede journal entry", slog.String("entry_id", entryID))
		return nil, err
	}

	s.LogInfo(ctx, "Journal entry superseded",
		slog.String("entry_id", entryID),
		slog.String("replacement_id", replacement.JournalEntryID))
	return &replacement, nil
}

// ensureEditable allows line changes only on unfinalized drafts.
func ensureEditable(entry *domain.JournalEntry) error {
	if entry.Finalized {
		return apperrors.PreconditionFailed(msgEntryFinalized)
	}
	if entry.Status != domain.StatusDraft {
		return apperrors.PreconditionFailed(fmt.Sprintf("Entry is %s and cannot be edited", entry.Status))
	}
	return nil
}

// appendAudit writes an audit record best-effort; failures are logged and counted.
func (s *journalService) appendAudit(ctx context.Context, tenantID, event, entityID, userID string, payload map[string]any) {
	if s.auditRepo == nil {
		return
	}
	err := s.auditRepo.AppendAuditLog(ctx, domain.AuditLog{
		AuditLogID: uuid.NewString(),
		TenantID:   tenantID,
		EventType:  event,
		EntityID:   entityID,
		UserID:     userID,
		Payload:    payload,
		CreatedAt:  s.Now(),
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to write audit log", slog.String("event_type", event))
		s.Metrics.BestEffortWriteFailed("audit")
	}
}
