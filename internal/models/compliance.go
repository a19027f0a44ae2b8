package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MFRSRule represents an mfrs_rules row. Logic is stored as jsonb.
type MFRSRule struct {
	RuleID          string          `db:"rule_id"`
	Standard        string          `db:"standard"`
	RuleCode        string          `db:"rule_code"`
	Title           string          `db:"title"`
	Description     string          `db:"description"`
	ComplianceLevel string          `db:"compliance_level"`
	Logic           ValidationLogic `db:"validation_logic"`
	Parameters      map[string]any  `db:"parameters"`
	EffectiveDate   time.Time       `db:"effective_date"`
	IsActive        bool            `db:"is_active"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
}

// ValidationLogic is the jsonb shape of a rule's logic.
type ValidationLogic struct {
	Type             string           `json:"type"`
	AccountCode      string           `json:"account_code,omitempty"`
	Condition        string           `json:"condition,omitempty"`
	Threshold        *decimal.Decimal `json:"threshold,omitempty"`
	TransactionTypes []string         `json:"transaction_types,omitempty"`
	AmountField      string           `json:"amount_field,omitempty"`
	RelationshipType string           `json:"relationship_type,omitempty"`
	CustomExpression string           `json:"custom_expression,omitempty"`
}

// DisclosureRequirement represents a disclosure_requirements row.
type DisclosureRequirement struct {
	RequirementID      string         `db:"requirement_id"`
	Standard           string         `db:"standard"`
	RequirementCode    string         `db:"requirement_code"`
	Title              string         `db:"title"`
	Description        string         `db:"description"`
	DisclosureType     string         `db:"disclosure_type"`
	Template           string         `db:"template"`
	RequiredConditions map[string]any `db:"required_conditions"`
	IsMandatory        bool           `db:"is_mandatory"`
	EffectiveDate      time.Time      `db:"effective_date"`
	CreatedAt          time.Time      `db:"created_at"`
}

// ValidationViolation represents a validation_violations row.
type ValidationViolation struct {
	ViolationID         string          `db:"violation_id"`
	TenantID            string          `db:"tenant_id"`
	RuleID              string          `db:"rule_id"`
	RuleTitle           string          `db:"rule_title"`
	Standard            string          `db:"standard"`
	ComplianceLevel     string          `db:"compliance_level"`
	Message             string          `db:"message"`
	Details             map[string]any  `db:"details"`
	TransactionID       *string         `db:"transaction_id"`
	AccountID           *string         `db:"account_id"`
	Amount              decimal.Decimal `db:"amount"`
	SuggestedCorrection string          `db:"suggested_correction"`
	CreatedAt           time.Time       `db:"created_at"`
}

// GeneratedDisclosure represents a generated_disclosures row.
type GeneratedDisclosure struct {
	DisclosureID    string     `db:"disclosure_id"`
	RequirementID   string     `db:"requirement_id"`
	Standard        string     `db:"standard"`
	Title           string     `db:"title"`
	Content         string     `db:"content"`
	DisclosureType  string     `db:"disclosure_type"`
	FinancialPeriod string     `db:"financial_period"`
	TenantID        string     `db:"tenant_id"`
	GeneratedAt     time.Time  `db:"generated_at"`
	IsApproved      bool       `db:"is_approved"`
	ApprovedBy      *string    `db:"approved_by"`
	ApprovedAt      *time.Time `db:"approved_at"`
}

// ComplianceReport represents a compliance_reports snapshot row. Breakdown
// maps and recommendations are stored as jsonb.
type ComplianceReport struct {
	ReportID              string         `db:"report_id"`
	TenantID              string         `db:"tenant_id"`
	EntityID              string         `db:"entity_id"`
	StartDate             *time.Time     `db:"start_date"`
	EndDate               *time.Time     `db:"end_date"`
	ComplianceScore       int            `db:"compliance_score"`
	TotalViolations       int            `db:"total_violations"`
	CriticalViolations    int            `db:"critical_violations"`
	HighViolations        int            `db:"high_violations"`
	MediumViolations      int            `db:"medium_violations"`
	LowViolations         int            `db:"low_violations"`
	TotalDisclosures      int            `db:"total_disclosures"`
	ApprovedDisclosures   int            `db:"approved_disclosures"`
	PendingDisclosures    int            `db:"pending_disclosures"`
	ViolationsByStandard  map[string]int `db:"violations_by_standard"`
	DisclosuresByStandard map[string]int `db:"disclosures_by_standard"`
	Recommendations       []string       `db:"recommendations"`
	GeneratedAt           time.Time      `db:"generated_at"`
}
