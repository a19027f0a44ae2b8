package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/mfrs_ledger_app/internal/core/domain"
	portssvc "github.com/SscSPs/mfrs_ledger_app/internal/core/ports/services"
	"github.com/SscSPs/mfrs_ledger_app/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) CreateAccount(ctx context.Context, tenantID string, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, tenantID, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, tenantID, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, tenantID, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, tenantID string, includeInactive bool) ([]domain.Account, error) {
	args := m.Called(ctx, tenantID, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) DeactivateAccount(ctx context.Context, tenantID, accountID, userID string) error {
	args := m.Called(ctx, tenantID, accountID, userID)
	return args.Error(0)
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

// --- Mock JournalService ---
type MockJournalService struct {
	mock.Mock
}

func (m *MockJournalService) entry(args mock.Arguments) (*domain.JournalEntry, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

func (m *MockJournalService) GetJournalEntry(ctx context.Context, tenantID, entryID string) (*domain.JournalEntry, error) {
	return m.entry(m.Called(ctx, tenantID, entryID))
}

func (m *MockJournalService) ListJournalEntries(ctx context.Context, tenantID string, params dto.ListJournalEntriesParams) ([]domain.JournalEntry, *string, error) {
	args := m.Called(ctx, tenantID, params)
	var entries []domain.JournalEntry
	if args.Get(0) != nil {
		entries = args.Get(0).([]domain.JournalEntry)
	}
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	return entries, next, args.Error(2)
}

func (m *MockJournalService) ListAuditTrail(ctx context.Context, tenantID, entryID string) ([]domain.AuditLog, error) {
	args := m.Called(ctx, tenantID, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AuditLog), args.Error(1)
}

func (m *MockJournalService) CreateJournalEntry(ctx context.Context, tenantID string, req dto.CreateJournalEntryRequest, userID string) (*domain.JournalEntry, error) {
	return m.entry(m.Called(ctx, tenantID, req, userID))
}

func (m *MockJournalService) AddLineToJournalEntry(ctx context.Context, tenantID, entryID string, req dto.AddLineRequest, userID string) (*domain.JournalEntry, error) {
	return m.entry(m.Called(ctx, tenantID, entryID, req, userID))
}

func (m *MockJournalService) ValidateJournalEntry(ctx context.Context, entry domain.JournalEntry) (*domain.ValidationResult, error) {
	args := m.Called(ctx, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ValidationResult), args.Error(1)
}

func (m *MockJournalService) ValidateJournalEntryByID(ctx context.Context, tenantID, entryID string) (*domain.ValidationResult, error) {
	args := m.Called(ctx, tenantID, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ValidationResult), args.Error(1)
}

func (m *MockJournalService) SubmitForApproval(ctx context.Context, tenantID, entryID, userID, comment string) (*domain.JournalEntry, error) {
	return m.entry(m.Called(ctx, tenantID, entryID, userID, comment))
}

func (m *MockJournalService) ReviewJournalEntry(ctx context.Context, tenantID, entryID, userID string, approve bool, comment string) (*domain.JournalEntry, error) {
	return m.entry(m.Called(ctx, tenantID, entryID, userID, approve, comment))
}

func (m *MockJournalService) PostJournalEntry(ctx context.Context, tenantID, entryID, userID string) (*domain.JournalEntry, error) {
	return m.entry(m.Called(ctx, tenantID, entryID, userID))
}

func (m *MockJournalService) FinalizeJournalEntry(ctx context.Context, tenantID, entryID, userID string) (*domain.JournalEntry, error) {
	return m.entry(m.Called(ctx, tenantID, entryID, userID))
}

func (m *MockJournalService) CloneAndSupersede(ctx context.Context, tenantID, entryID, newReference, userID string) (*domain.JournalEntry, error) {
	return m.entry(m.Called(ctx, tenantID, entryID, newReference, userID))
}

func (m *MockJournalService) GetAccountBalance(ctx context.Context, tenantID, accountID string, asOf *time.Time) (decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, accountID, asOf)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockJournalService) GetTrialBalance(ctx context.Context, tenantID string, asOf *time.Time) (domain.TrialBalance, error) {
	args := m.Called(ctx, tenantID, asOf)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(domain.TrialBalance), args.Error(1)
}

var _ portssvc.JournalSvcFacade = (*MockJournalService)(nil)

// --- Mock TemplateService ---
type MockTemplateService struct {
	mock.Mock
}

func (m *MockTemplateService) TemplateNames() []string {
	args := m.Called()
	return args.Get(0).([]string)
}

func (m *MockTemplateService) CreateFromTemplate(ctx context.Context, tenantID, template string, req dto.TemplateEntryRequest, userID string) (*domain.JournalEntry, error) {
	args := m.Called(ctx, tenantID, template, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.JournalEntry), args.Error(1)
}

var _ portssvc.JournalTemplateSvc = (*MockTemplateService)(nil)

// --- Mock ComplianceService ---
type MockComplianceService struct {
	mock.Mock
}

func (m *MockComplianceService) ValidateTransaction(ctx context.Context, txn domain.ComplianceTransaction) ([]domain.ValidationViolation, error) {
	args := m.Called(ctx, txn)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ValidationViolation), args.Error(1)
}

func (m *MockComplianceService) EntityComplianceScore(ctx context.Context, tenantID, entityID string) (int, error) {
	args := m.Called(ctx, tenantID, entityID)
	return args.Int(0), args.Error(1)
}

func (m *MockComplianceService) GenerateDisclosures(ctx context.Context, data domain.FinancialData) ([]domain.GeneratedDisclosure, error) {
	args := m.Called(ctx, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GeneratedDisclosure), args.Error(1)
}

func (m *MockComplianceService) ApproveDisclosure(ctx context.Context, tenantID, disclosureID, userID string) (*domain.GeneratedDisclosure, error) {
	args := m.Called(ctx, tenantID, disclosureID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GeneratedDisclosure), args.Error(1)
}

func (m *MockComplianceService) GetDisclosures(ctx context.Context, filter domain.DisclosureFilter) ([]domain.GeneratedDisclosure, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GeneratedDisclosure), args.Error(1)
}

func (m *MockComplianceService) CalculateComplianceScore(violations []domain.ValidationViolation, disclosures []domain.GeneratedDisclosure) int {
	args := m.Called(violations, disclosures)
	return args.Int(0)
}

func (m *MockComplianceService) GetViolations(ctx context.Context, filter domain.ViolationFilter) ([]domain.ValidationViolation, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ValidationViolation), args.Error(1)
}

func (m *MockComplianceService) GetComplianceReport(ctx context.Context, tenantID string, startDate, endDate *time.Time) (*domain.ComplianceReport, error) {
	args := m.Called(ctx, tenantID, startDate, endDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ComplianceReport), args.Error(1)
}

func (m *MockComplianceService) SnapshotComplianceReport(ctx context.Context, tenantID, entityID string, startDate, endDate *time.Time) (*domain.ComplianceReport, error) {
	args := m.Called(ctx, tenantID, entityID, startDate, endDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ComplianceReport), args.Error(1)
}

func (m *MockComplianceService) AddRule(ctx context.Context, req dto.CreateRuleRequest) (*domain.MFRSRule, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MFRSRule), args.Error(1)
}

func (m *MockComplianceService) UpdateRule(ctx context.Context, ruleID string, req dto.UpdateRuleRequest) (*domain.MFRSRule, error) {
	args := m.Called(ctx, ruleID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MFRSRule), args.Error(1)
}

func (m *MockComplianceService) DeactivateRule(ctx context.Context, ruleID string) error {
	return m.Called(ctx, ruleID).Error(0)
}

func (m *MockComplianceService) ListRules(ctx context.Context, includeInactive bool) ([]domain.MFRSRule, error) {
	args := m.Called(ctx, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MFRSRule), args.Error(1)
}

func (m *MockComplianceService) AddDisclosureRequirement(ctx context.Context, req dto.CreateDisclosureRequirementRequest) (*domain.DisclosureRequirement, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DisclosureRequirement), args.Error(1)
}

func (m *MockComplianceService) ListDisclosureRequirements(ctx context.Context) ([]domain.DisclosureRequirement, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.DisclosureRequirement), args.Error(1)
}

func (m *MockComplianceService) SeedDefaults(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

var _ portssvc.ComplianceSvcFacade = (*MockComplianceService)(nil)
