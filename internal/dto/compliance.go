package dto

import (
	"time"

	"github.com/SscSPs/mfrs_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ValidateTransactionRequest is a business event to run through the active MFRS rules.
type ValidateTransactionRequest struct {
	TransactionID string                     `json:"transactionID" binding:"required"`
	Type          string                     `json:"type"`
	Amount        decimal.Decimal            `json:"amount"`
	Accounts      map[string]decimal.Decimal `json:"accounts"`
	Date          *time.Time                 `json:"date"`
	Reference     string                     `json:"reference"`
	Description   string                     `json:"description"`
	Attributes    map[string]any             `json:"attributes"`
}

// ToComplianceTransaction converts the request for a tenant.
func (r ValidateTransactionRequest) ToComplianceTransaction(tenantID string) domain.ComplianceTransaction {
	date := time.Now().UTC()
	if r.Date != nil {
		date = *r.Date
	}
	return domain.ComplianceTransaction{
		TransactionID: r.TransactionID,
		TenantID:      tenantID,
		Type:          r.Type,
		Amount:        r.Amount,
		Accounts:      r.Accounts,
		Date:          date,
		Reference:     r.Reference,
		Description:   r.Description,
		Attributes:    r.Attributes,
	}
}

// ValidateTransactionResponse lists the violations found and the score they imply.
type ValidateTransactionResponse struct {
	Violations      []domain.ValidationViolation `json:"violations"`
	ComplianceScore int                          `json:"complianceScore"`
}

// GenerateDisclosuresRequest is a period snapshot of financial data.
type GenerateDisclosuresRequest struct {
	Period       string                     `json:"period" binding:"required,notblank"`
	Currency     string                     `json:"currency" binding:"omitempty,uppercase,len=3"`
	Accounts     map[string]decimal.Decimal `json:"accounts"`
	Transactions []map[string]any           `json:"transactions"`
	Fields       map[string]any             `json:"fields"`
}

// ToFinancialData converts the request for a tenant.
func (r GenerateDisclosuresRequest) ToFinancialData(tenantID string) domain.FinancialData {
	return domain.FinancialData{
		TenantID:     tenantID,
		Period:       r.Period,
		Currency:     r.Currency,
		Accounts:     r.Accounts,
		Transactions: r.Transactions,
		Fields:       r.Fields,
	}
}

// DisclosuresResponse wraps a list of generated disclosures.
type DisclosuresResponse struct {
	Disclosures []domain.GeneratedDisclosure `json:"disclosures"`
}

// ViolationsResponse wraps a list of violations.
type ViolationsResponse struct {
	Violations []domain.ValidationViolation `json:"violations"`
}

// DateRangeParams are optional YYYY-MM-DD or RFC3339 bounds.
type DateRangeParams struct {
	StartDate string `form:"startDate"`
	EndDate   string `form:"endDate"`
}

// ViolationQueryParams filter the violation listing.
type ViolationQueryParams struct {
	DateRangeParams
	Standard string `form:"standard"`
	Level    string `form:"level" binding:"omitempty,oneof=CRITICAL HIGH MEDIUM LOW INFO"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=500"`
}

// DisclosureQueryParams filter the disclosure listing.
type DisclosureQueryParams struct {
	DateRangeParams
	Standard       string `form:"standard"`
	DisclosureType string `form:"type" binding:"omitempty,oneof=note statement annex"`
	Period         string `form:"period"`
	Approved       *bool  `form:"approved"`
	Limit          int    `form:"limit" binding:"omitempty,min=1,max=500"`
}

// SnapshotReportRequest names the entity a report snapshot is stored for.
type SnapshotReportRequest struct {
	EntityID string `json:"entityID" binding:"required,notblank"`
	DateRangeParams
}

// ValidationLogicRequest is the wire form of domain.ValidationLogic.
type ValidationLogicRequest struct {
	Type             string           `json:"type" binding:"required,mfrs_logic"`
	AccountCode      string           `json:"account_code"`
	Condition        string           `json:"condition"`
	Threshold        *decimal.Decimal `json:"threshold"`
	TransactionTypes []string         `json:"transaction_types"`
	AmountField      string           `json:"amount_field"`
	RelationshipType string           `json:"relationship_type"`
	CustomExpression string           `json:"custom_expression"`
}

// ToDomain converts to domain.ValidationLogic.
func (r ValidationLogicRequest) ToDomain() domain.ValidationLogic {
	return domain.ValidationLogic{
		Type:             domain.LogicType(r.Type),
		AccountCode:      r.AccountCode,
		Condition:        r.Condition,
		Threshold:        r.Threshold,
		TransactionTypes: r.TransactionTypes,
		AmountField:      r.AmountField,
		RelationshipType: r.RelationshipType,
		CustomExpression: r.CustomExpression,
	}
}

// CreateRuleRequest defines a new MFRS rule.
type CreateRuleRequest struct {
	Standard        string                 `json:"standard" binding:"required,notblank"`
	RuleCode        string                 `json:"ruleCode" binding:"required,notblank"`
	Title           string                 `json:"title" binding:"required,notblank"`
	Description     string                 `json:"description"`
	ComplianceLevel string                 `json:"complianceLevel" binding:"required,oneof=CRITICAL HIGH MEDIUM LOW INFO"`
	Logic           ValidationLogicRequest `json:"validationLogic" binding:"required"`
	Parameters      map[string]any         `json:"parameters"`
	EffectiveDate   *time.Time             `json:"effectiveDate"`
}

// UpdateRuleRequest changes an existing rule. Nil fields are left untouched.
type UpdateRuleRequest struct {
	Title           *string                 `json:"title"`
	Description     *string                 `json:"description"`
	ComplianceLevel *string                 `json:"complianceLevel" binding:"omitempty,oneof=CRITICAL HIGH MEDIUM LOW INFO"`
	Logic           *ValidationLogicRequest `json:"validationLogic"`
	Parameters      map[string]any          `json:"parameters"`
	EffectiveDate   *time.Time              `json:"effectiveDate"`
	IsActive        *bool                   `json:"isActive"`
}

// ListRulesParams controls the rule listing.
type ListRulesParams struct {
	IncludeInactive bool `form:"includeInactive"`
}

// RulesResponse wraps a list of rules.
type RulesResponse struct {
	Rules []domain.MFRSRule `json:"rules"`
}

// CreateDisclosureRequirementRequest defines a new disclosure requirement.
type CreateDisclosureRequirementRequest struct {
	Standard           string         `json:"standard" binding:"required,notblank"`
	RequirementCode    string         `json:"requirementCode" binding:"required,notblank"`
	Title              string         `json:"title" binding:"required,notblank"`
	Description        string         `json:"description"`
	DisclosureType     string         `json:"disclosureType" binding:"required,oneof=note statement annex"`
	Template           string         `json:"template" binding:"required,notblank"`
	RequiredConditions map[string]any `json:"requiredConditions"`
	IsMandatory        bool           `json:"isMandatory"`
	EffectiveDate      *time.Time     `json:"effectiveDate"`
}

// DisclosureRequirementsResponse wraps a list of requirements.
type DisclosureRequirementsResponse struct {
	Requirements []domain.DisclosureRequirement `json:"requirements"`
}
