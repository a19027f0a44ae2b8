package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/mfrs_ledger_app/internal/core/domain"
)

// RuleReader defines read operations for MFRS rules
type RuleReader interface {
	// ListRules returns rules ordered by rule code; inactive ones only when requested.
	ListRules(ctx context.Context, includeInactive bool) ([]domain.MFRSRule, error)

	// FindRuleByID retrieves one rule.
	FindRuleByID(ctx context.Context, ruleID string) (*domain.MFRSRule, error)

	// CountRules counts every rule, active or not.
	CountRules(ctx context.Context) (int, error)
}

// RuleWriter defines write operations for MFRS rules
type RuleWriter interface {
	SaveRule(ctx context.Context, rule domain.MFRSRule) error
	UpdateRule(ctx context.Context, rule domain.MFRSRule) error
	DeactivateRule(ctx context.Context, ruleID string, now time.Time) error
}

// DisclosureRequirementRepository defines operations over disclosure requirements
type DisclosureRequirementRepository interface {
	// ListRequirements returns requirements ordered by code, optionally only mandatory ones.
	ListRequirements(ctx context.Context, mandatoryOnly bool) ([]domain.DisclosureRequirement, error)
	CountRequirements(ctx context.Context) (int, error)
	SaveRequirement(ctx context.Context, req domain.DisclosureRequirement) error
}

// ViolationRepository stores and queries write-once violation records
type ViolationRepository interface {
	SaveViolation(ctx context.Context, v domain.ValidationViolation) error
	ListViolations(ctx context.Context, filter domain.ViolationFilter) ([]domain.ValidationViolation, error)
}

// DisclosureRepository stores and queries generated disclosures
type DisclosureRepository interface {
	SaveDisclosure(ctx context.Context, d domain.GeneratedDisclosure) error
	FindDisclosureByID(ctx context.Context, tenantID, disclosureID string) (*domain.GeneratedDisclosure, error)
	ListDisclosures(ctx context.Context, filter domain.DisclosureFilter) ([]domain.GeneratedDisclosure, error)
	ApproveDisclosure(ctx context.Context, tenantID, disclosureID, userID string, now time.Time) error
}

// ComplianceReportRepository stores report snapshots
type ComplianceReportRepository interface {
	SaveReport(ctx context.Context, report domain.ComplianceReport) error

	// FindLatestReport returns the most recent snapshot for the entity or apperrors.ErrNotFound.
	FindLatestReport(ctx context.Context, tenantID, entityID string) (*domain.ComplianceReport, error)
}

// ComplianceRepositoryFacade combines all compliance-related repository interfaces
type ComplianceRepositoryFacade interface {
	RuleReader
	RuleWriter
	DisclosureRequirementRepository
	ViolationRepository
	DisclosureRepository
	ComplianceReportRepository
}
