package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MFRSStandard names a Malaysian Financial Reporting Standard.
type MFRSStandard string

const (
	MFRS101  MFRSStandard = "MFRS 101 - Presentation of Financial Statements"
	MFRS107  MFRSStandard = "MFRS 107 - Statement of Cash Flows"
	MFRS108  MFRSStandard = "MFRS 108 - Accounting Policies, Changes in Accounting Estimates and Errors"
	MFRS109  MFRSStandard = "MFRS 109 - Financial Instruments"
	MFRS110  MFRSStandard = "MFRS 110 - Consolidated Financial Statements"
	MFRS112  MFRSStandard = "MFRS 112 - Income Taxes"
	MFRS113  MFRSStandard = "MFRS 113 - Fair Value Measurement"
	MFRS115  MFRSStandard = "MFRS 115 - Revenue from Contracts with Customers"
	MFRS116  MFRSStandard = "MFRS 116 - Leases"
	MFRS117  MFRSStandard = "MFRS 117 - Insurance Contracts"
	MFRS119  MFRSStandard = "MFRS 119 - Employee Benefits"
	MFRS120  MFRSStandard = "MFRS 120 - Accounting for Government Grants and Disclosure of Government Assistance"
	MFRS121  MFRSStandard = "MFRS 121 - The Effects of Changes in Foreign Exchange Rates"
	MFRS123  MFRSStandard = "MFRS 123 - Borrowing Costs"
	MFRS124  MFRSStandard = "MFRS 124 - Related Party Disclosures"
	MFRS128  MFRSStandard = "MFRS 128 - Investments in Associates and Joint Ventures"
	MFRS132  MFRSStandard = "MFRS 132 - Financial Instruments: Presentation"
	MFRS133  MFRSStandard = "MFRS 133 - Earnings Per Share"
	MFRS134  MFRSStandard = "MFRS 134 - Interim Financial Reporting"
	MFRS136  MFRSStandard = "MFRS 136 - Impairment of Assets"
	MFRS137  MFRSStandard = "MFRS 137 - Provisions, Contingent Liabilities and Contingent Assets"
	MFRS138  MFRSStandard = "MFRS 138 - Intangible Assets"
	MFRS140  MFRSStandard = "MFRS 140 - Investment Property"
	MFRS141  MFRSStandard = "MFRS 141 - Agriculture"
	MFRS1000 MFRSStandard = "MFRS 1000 - Framework for the Preparation and Presentation of Financial Statements"
)

// ComplianceLevel is the severity attached to a rule.
type ComplianceLevel string

const (
	LevelCritical ComplianceLevel = "CRITICAL"
	LevelHigh     ComplianceLevel = "HIGH"
	LevelMedium   ComplianceLevel = "MEDIUM"
	LevelLow      ComplianceLevel = "LOW"
	LevelInfo     ComplianceLevel = "INFO"
)

// Penalty is the number of points a violation at this level removes from the score.
func (l ComplianceLevel) Penalty() int {
	switch l {
	case LevelCritical:
		return 10
	case LevelHigh:
		return 5
	case LevelMedium:
		return 2
	case LevelLow:
		return 1
	default:
		return 0
	}
}

// RuleOutcome is the result of evaluating one rule.
type RuleOutcome string

const (
	OutcomePass    RuleOutcome = "PASS"
	OutcomeFail    RuleOutcome = "FAIL"
	OutcomeWarning RuleOutcome = "WARNING"
	OutcomeInfo    RuleOutcome = "INFO"
)

// LogicType tags the shape of a ValidationLogic.
type LogicType string

const (
	LogicAccountBalance      LogicType = "account_balance"
	LogicTransactionType     LogicType = "transaction_type"
	LogicAmountThreshold     LogicType = "amount_threshold"
	LogicAccountRelationship LogicType = "account_relationship"
	LogicCustom              LogicType = "custom_logic"
)

// IsValid reports whether t is one of the five supported shapes.
func (t LogicType) IsValid() bool {
	switch t {
	case LogicAccountBalance, LogicTransactionType, LogicAmountThreshold, LogicAccountRelationship, LogicCustom:
		return true
	}
	return false
}

// Comparison conditions used by account_balance and amount_threshold rules.
const (
	CondGreaterThan = "greater_than"
	CondLessThan    = "less_than"
	CondEquals      = "equals"
	CondNotEquals   = "not_equals"
)

// ValidationLogic describes how a rule is evaluated. Only the fields relevant to Type are read.
type ValidationLogic struct {
	Type             LogicType        `json:"type"`
	AccountCode      string           `json:"account_code,omitempty"`
	Condition        string           `json:"condition,omitempty"`
	Threshold        *decimal.Decimal `json:"threshold,omitempty"`
	TransactionTypes []string         `json:"transaction_types,omitempty"`
	AmountField      string           `json:"amount_field,omitempty"`
	RelationshipType string           `json:"relationship_type,omitempty"`
	CustomExpression string           `json:"custom_expression,omitempty"`
}

// ThresholdOrZero returns the configured threshold, defaulting to zero.
func (v ValidationLogic) ThresholdOrZero() decimal.Decimal {
	if v.Threshold == nil {
		return decimal.Zero
	}
	return *v.Threshold
}

// MFRSRule is a validation predicate tied to one standard and severity.
// Rules are deactivated, never deleted.
type MFRSRule struct {
	RuleID          string          `json:"ruleID"`
	Standard        MFRSStandard    `json:"standard"`
	RuleCode        string          `json:"ruleCode"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	ComplianceLevel ComplianceLevel `json:"complianceLevel"`
	Logic           ValidationLogic `json:"validationLogic"`
	Parameters      map[string]any  `json:"parameters"`
	EffectiveDate   time.Time       `json:"effectiveDate"`
	IsActive        bool            `json:"isActive"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// RuleEvaluation is the outcome of applying one rule to one transaction.
type RuleEvaluation struct {
	Outcome RuleOutcome    `json:"outcome"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// IsViolation reports whether the outcome should produce a violation record.
func (r RuleEvaluation) IsViolation() bool {
	return r.Outcome == OutcomeFail || r.Outcome == OutcomeWarning
}

// ValidationViolation is a write-once record of a failed rule.
// Persisted is false when the record could not be stored.
type ValidationViolation struct {
	ViolationID         string          `json:"violationID"`
	TenantID            string          `json:"tenantID"`
	RuleID              string          `json:"ruleID"`
	RuleTitle           string          `json:"ruleTitle"`
	Standard            MFRSStandard    `json:"standard"`
	ComplianceLevel     ComplianceLevel `json:"complianceLevel"`
	Message             string          `json:"message"`
	Details             map[string]any  `json:"details,omitempty"`
	TransactionID       string          `json:"transactionID,omitempty"`
	AccountID           *string         `json:"accountID,omitempty"`
	Amount              decimal.Decimal `json:"amount"`
	SuggestedCorrection string          `json:"suggestedCorrection,omitempty"`
	CreatedAt           time.Time       `json:"createdAt"`
	Persisted           bool            `json:"persisted"`
}

// DisclosureType is where a generated disclosure appears in the financial statements.
type DisclosureType string

const (
	DisclosureNote      DisclosureType = "note"
	DisclosureStatement DisclosureType = "statement"
	DisclosureAnnex     DisclosureType = "annex"
)

// DisclosureRequirement is a templated disclosure with the conditions under which it applies.
type DisclosureRequirement struct {
	RequirementID      string         `json:"requirementID"`
	Standard           MFRSStandard   `json:"standard"`
	RequirementCode    string         `json:"requirementCode"`
	Title              string         `json:"title"`
	Description        string         `json:"description"`
	DisclosureType     DisclosureType `json:"disclosureType"`
	Template           string         `json:"template"`
	RequiredConditions map[string]any `json:"requiredConditions"`
	IsMandatory        bool           `json:"isMandatory"`
	EffectiveDate      time.Time      `json:"effectiveDate"`
	CreatedAt          time.Time      `json:"createdAt"`
}

// GeneratedDisclosure is a requirement rendered against one financial-data snapshot.
type GeneratedDisclosure struct {
	DisclosureID    string         `json:"disclosureID"`
	RequirementID   string         `json:"requirementID"`
	Standard        MFRSStandard   `json:"standard"`
	Title           string         `json:"title"`
	Content         string         `json:"content"`
	DisclosureType  DisclosureType `json:"disclosureType"`
	FinancialPeriod string         `json:"financialPeriod"`
	TenantID        string         `json:"tenantID"`
	GeneratedAt     time.Time      `json:"generatedAt"`
	IsApproved      bool           `json:"isApproved"`
	ApprovedBy      *string        `json:"approvedBy,omitempty"`
	ApprovedAt      *time.Time     `json:"approvedAt,omitempty"`
	Persisted       bool           `json:"persisted"`
}

// ComplianceReport aggregates violations and disclosures for a tenant and date range.
type ComplianceReport struct {
	ReportID              string         `json:"reportID,omitempty"`
	TenantID              string         `json:"tenantID"`
	EntityID              string         `json:"entityID,omitempty"`
	StartDate             *time.Time     `json:"startDate,omitempty"`
	EndDate               *time.Time     `json:"endDate,omitempty"`
	ComplianceScore       int            `json:"complianceScore"`
	TotalViolations       int            `json:"totalViolations"`
	CriticalViolations    int            `json:"criticalViolations"`
	HighViolations        int            `json:"highViolations"`
	MediumViolations      int            `json:"mediumViolations"`
	LowViolations         int            `json:"lowViolations"`
	TotalDisclosures      int            `json:"totalDisclosures"`
	ApprovedDisclosures   int            `json:"approvedDisclosures"`
	PendingDisclosures    int            `json:"pendingDisclosures"`
	ViolationsByStandard  map[string]int `json:"violationsByStandard"`
	DisclosuresByStandard map[string]int `json:"disclosuresByStandard"`
	Recommendations       []string       `json:"recommendations"`
	GeneratedAt           time.Time      `json:"generatedAt"`
}

// ComplianceTransaction is the view of a business event the rule evaluator works on.
// Accounts is keyed by account code.
type ComplianceTransaction struct {
	TransactionID string                     `json:"id"`
	TenantID      string                     `json:"tenantID"`
	Type          string                     `json:"type"`
	Amount        decimal.Decimal            `json:"amount"`
	Accounts      map[string]decimal.Decimal `json:"accounts"`
	Date          time.Time                  `json:"date"`
	Reference     string                     `json:"reference"`
	Description   string                     `json:"description"`
	Attributes    map[string]any             `json:"attributes,omitempty"`
}

// FinancialData is a period snapshot used to decide and render disclosures.
// Fields carries any extra named values templates may reference.
type FinancialData struct {
	TenantID     string                     `json:"tenantID"`
	Period       string                     `json:"period"`
	Currency     string                     `json:"currency"`
	Accounts     map[string]decimal.Decimal `json:"accounts"`
	Transactions []map[string]any           `json:"transactions,omitempty"`
	Fields       map[string]any             `json:"fields,omitempty"`
}

// Field resolves a named value from the snapshot, checking the built-in
// fields before Fields.
func (f FinancialData) Field(name string) (any, bool) {
	switch name {
	case "tenant_id":
		return f.TenantID, true
	case "period":
		return f.Period, true
	case "currency":
		return f.Currency, true
	}
	v, ok := f.Fields[name]
	return v, ok
}

// ViolationFilter narrows a violation query. Zero values are ignored.
type ViolationFilter struct {
	TenantID        string
	Standard        MFRSStandard
	ComplianceLevel ComplianceLevel
	StartDate       *time.Time
	EndDate         *time.Time
	Limit           int
}

// DisclosureFilter narrows a disclosure query. Zero values are ignored.
type DisclosureFilter struct {
	TenantID        string
	Standard        MFRSStandard
	DisclosureType  DisclosureType
	FinancialPeriod string
	IsApproved      *bool
	StartDate       *time.Time
	EndDate         *time.Time
	Limit           int
}
