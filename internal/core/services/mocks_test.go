package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"

	"github.com/SscSPs/mfrs_ledger_app/internal/core/domain"
	portsrepo "github.com/SscSPs/mfrs_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/mfrs_ledger_app/internal/core/ports/services"
)

// --- Mock AccountRepository ---
type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, tenantID, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, tenantID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCode(ctx context.Context, tenantID, code string) (*domain.Account, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountsByIDs(ctx context.Context, tenantID string, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, tenantID, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context, tenantID string, includeInactive bool) ([]domain.Account, error) {
	args := m.Called(ctx, tenantID, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) DeactivateAccount(ctx context.Context, tenantID, accountID, userID string, now time.Time) error {
	args := m.Called(ctx, tenantID, accountID, userID, now)
	return args.Error(0)
}

// --- Mock JournalRepository ---
type MockJournalRepository struct {
	mock.Mock
}

var _ portsrepo.JournalRepositoryWithTx = (*MockJournalRepository)(nil)

func (m *MockJournalRepository) FindJournalEntryByID(ctx context.Context, tenantID, entryID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, tenantID, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalRepository) ListJournalEntries(ctx context.Context, tenantID string, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, tenantID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var returnedNextToken *string
	if args.Get(1) != nil {
		tokenVal := args.Get(1).(string)
		returnedNextToken = &tokenVal
	}
	return args.Get(0).([]domain.JournalEntry), returnedNextToken, args.Error(2)
}

func (m *MockJournalRepository) ListLines(ctx context.Context, tenantID, accountID string) ([]domain.JournalEntryLine, error) {
	args := m.Called(ctx, tenantID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.JournalEntryLine), args.Error(1)
}

func (m *MockJournalRepository) CreateJournalEntry(ctx context.Context, entry domain.JournalEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockJournalRepository) AddLine(ctx context.Context, line domain.JournalEntryLine, expectedVersion int) error {
	args := m.Called(ctx, line, expectedVersion)
	return args.Error(0)
}

func (m *MockJournalRepository) UpdateJournalEntry(ctx context.Context, entry domain.JournalEntry, expectedVersion int) error {
	args := m.Called(ctx, entry, expectedVersion)
	return args.Error(0)
}

func (m *MockJournalRepository) PostJournalEntry(ctx context.Context, entry domain.JournalEntry, expectedVersion int, audit domain.AuditLog) error {
	args := m.Called(ctx, entry, expectedVersion, audit)
	return args.Error(0)
}

func (m *MockJournalRepository) SupersedeJournalEntry(ctx context.Context, original domain.JournalEntry, expectedVersion int, replacement domain.JournalEntry, audit domain.AuditLog) error {
	args := m.Called(ctx, original, expectedVersion, replacement, audit)
	return args.Error(0)
}

func (m *MockJournalRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(pgx.Tx), args.Error(1)
}

func (m *MockJournalRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	return m.Called(ctx, tx).Error(0)
}

func (m *MockJournalRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	return m.Called(ctx, tx).Error(0)
}

// --- Mock AuditRepository ---
type MockAuditRepository struct {
	mock.Mock
}

var _ portsrepo.AuditRepositoryFacade = (*MockAuditRepository)(nil)

func (m *MockAuditRepository) AppendAuditLog(ctx context.Context, log domain.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *MockAuditRepository) ListAuditLogs(ctx context.Context, tenantID, entityID string) ([]domain.AuditLog, error) {
	args := m.Called(ctx, tenantID, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditLog), args.Error(1)
}

// --- Mock ComplianceRepository ---
type MockComplianceRepository struct {
	mock.Mock
}

var _ portsrepo.ComplianceRepositoryFacade = (*MockComplianceRepository)(nil)

func (m *MockComplianceRepository) ListRules(ctx context.Context, includeInactive bool) ([]domain.MFRSRule, error) {
	args := m.Called(ctx, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MFRSRule), args.Error(1)
}

func (m *MockComplianceRepository) FindRuleByID(ctx context.Context, ruleID string) (*domain.MFRSRule, error) {
	args := m.Called(ctx, ruleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MFRSRule), args.Error(1)
}

func (m *MockComplianceRepository) CountRules(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockComplianceRepository) SaveRule(ctx context.Context, rule domain.MFRSRule) error {
	return m.Called(ctx, rule).Error(0)
}

func (m *MockComplianceRepository) UpdateRule(ctx context.Context, rule domain.MFRSRule) error {
	return m.Called(ctx, rule).Error(0)
}

func (m *MockComplianceRepository) DeactivateRule(ctx context.Context, ruleID string, now time.Time) error {
	return m.Called(ctx, ruleID, now).Error(0)
}

func (m *MockComplianceRepository) ListRequirements(ctx context.Context, mandatoryOnly bool) ([]domain.DisclosureRequirement, error) {
	args := m.Called(ctx, mandatoryOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DisclosureRequirement), args.Error(1)
}

func (m *MockComplianceRepository) CountRequirements(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockComplianceRepository) SaveRequirement(ctx context.Context, req domain.DisclosureRequirement) error {
	return m.Called(ctx, req).Error(0)
}

func (m *MockComplianceRepository) SaveViolation(ctx context.Context, v domain.ValidationViolation) error {
	return m.Called(ctx, v).Error(0)
}

func (m *MockComplianceRepository) ListViolations(ctx context.Context, filter domain.ViolationFilter) ([]domain.ValidationViolation, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ValidationViolation), args.Error(1)
}

func (m *MockComplianceRepository) SaveDisclosure(ctx context.Context, d domain.GeneratedDisclosure) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockComplianceRepository) FindDisclosureByID(ctx context.Context, tenantID, disclosureID string) (*domain.GeneratedDisclosure, error) {
	args := m.Called(ctx, tenantID, disclosureID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GeneratedDisclosure), args.Error(1)
}

func (m *MockComplianceRepository) ListDisclosures(ctx context.Context, filter domain.DisclosureFilter) ([]domain.GeneratedDisclosure, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GeneratedDisclosure), args.Error(1)
}

func (m *MockComplianceRepository) ApproveDisclosure(ctx context.Context, tenantID, disclosureID, userID string, now time.Time) error {
	return m.Called(ctx, tenantID, disclosureID, userID, now).Error(0)
}

func (m *MockComplianceRepository) SaveReport(ctx context.Context, report domain.ComplianceReport) error {
	return m.Called(ctx, report).Error(0)
}

func (m *MockComplianceRepository) FindLatestReport(ctx context.Context, tenantID, entityID string) (*domain.ComplianceReport, error) {
	args := m.Called(ctx, tenantID, entityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ComplianceReport), args.Error(1)
}

// --- Mock ComplianceValidator (as used by the journal service) ---
type MockComplianceValidator struct {
	mock.Mock
}

var _ portssvc.ComplianceValidatorSvc = (*MockComplianceValidator)(nil)

func (m *MockComplianceValidator) ValidateTransaction(ctx context.Context, txn domain.ComplianceTransaction) ([]domain.ValidationViolation, error) {
	args := m.Called(ctx, txn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ValidationViolation), args.Error(1)
}

func (m *MockComplianceValidator) EntityComplianceScore(ctx context.Context, tenantID, entityID string) (int, error) {
	args := m.Called(ctx, tenantID, entityID)
	return args.Int(0), args.Error(1)
}
