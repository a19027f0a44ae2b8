package services

import (
	"context"
	"time"

	"github.com/SscSPs/mfrs_ledger_app/internal/core/domain"
	"github.com/SscSPs/mfrs_ledger_app/internal/dto"
)

// ComplianceValidatorSvc evaluates transactions and reports entity scores.
// It is the slice of the compliance service the ledger depends on.
type ComplianceValidatorSvc interface {
	// ValidateTransaction evaluates every active rule and returns the violations found.
	ValidateTransaction(ctx context.Context, txn domain.ComplianceTransaction) ([]domain.ValidationViolation, error)

	// EntityComplianceScore returns the latest snapshot score for the entity or the configured default.
	EntityComplianceScore(ctx context.Context, tenantID, entityID string) (int, error)
}

// ComplianceDisclosureSvc generates and manages disclosures
type ComplianceDisclosureSvc interface {
	GenerateDisclosures(ctx context.Context, data domain.FinancialData) ([]domain.GeneratedDisclosure, error)
	ApproveDisclosure(ctx context.Context, tenantID, disclosureID, userID string) (*domain.GeneratedDisclosure, error)
	GetDisclosures(ctx context.Context, filter domain.DisclosureFilter) ([]domain.GeneratedDisclosure, error)
}

// ComplianceReportingSvc aggregates violations and disclosures
type ComplianceReportingSvc interface {
	CalculateComplianceScore(violations []domain.ValidationViolation, disclosures []domain.GeneratedDisclosure) int
	GetViolations(ctx context.Context, filter domain.ViolationFilter) ([]domain.ValidationViolation, error)
	GetComplianceReport(ctx context.Context, tenantID string, startDate, endDate *time.Time) (*domain.ComplianceReport, error)
	SnapshotComplianceReport(ctx context.Context, tenantID, entityID string, startDate, endDate *time.Time) (*domain.ComplianceReport, error)
}

// ComplianceRuleAdminSvc manages the rule and requirement catalogue
type ComplianceRuleAdminSvc interface {
	AddRule(ctx context.Context, req dto.CreateRuleRequest) (*domain.MFRSRule, error)
	UpdateRule(ctx context.Context, ruleID string, req dto.UpdateRuleRequest) (*domain.MFRSRule, error)
	DeactivateRule(ctx context.Context, ruleID string) error
	ListRules(ctx context.Context, includeInactive bool) ([]domain.MFRSRule, error)
	AddDisclosureRequirement(ctx context.Context, req dto.CreateDisclosureRequirementRequest) (*domain.DisclosureRequirement, error)
	ListDisclosureRequirements(ctx context.Context) ([]domain.DisclosureRequirement, error)

	// SeedDefaults loads the built-in catalogue when no rules exist yet.
	SeedDefaults(ctx context.Context) error
}

// ComplianceSvcFacade combines all compliance-related service interfaces
type ComplianceSvcFacade interface {
	ComplianceValidatorSvc
	ComplianceDisclosureSvc
	ComplianceReportingSvc
	ComplianceRuleAdminSvc
}
