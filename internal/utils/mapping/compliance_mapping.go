package mapping

import (
	"github.com/SscSPs/mfrs_ledger_app/internal/core/domain"
	"github.com/SscSPs/mfrs_ledger_app/internal/models"
)

// ToModelValidationLogic converts rule logic to its jsonb shape
func ToModelValidationLogic(d domain.ValidationLogic) models.ValidationLogic {
	return models.ValidationLogic{
		Type:             string(d.Type),
		AccountCode:      d.AccountCode,
		Condition:        d.Condition,
		Threshold:        d.Threshold,
		TransactionTypes: d.TransactionTypes,
		AmountField:      d.AmountField,
		RelationshipType: d.RelationshipType,
		CustomExpression: d.CustomExpression,
	}
}

// ToDomainValidationLogic converts stored rule logic back to the domain shape
func ToDomainValidationLogic(m models.ValidationLogic) domain.ValidationLogic {
	return domain.ValidationLogic{
		Type:             domain.LogicType(m.Type),
		AccountCode:      m.AccountCode,
		Condition:        m.Condition,
		Threshold:        m.Threshold,
		TransactionTypes: m.TransactionTypes,
		AmountField:      m.AmountField,
		RelationshipType: m.RelationshipType,
		CustomExpression: m.CustomExpression,
	}
}

// ToModelMFRSRule converts a domain rule to a model rule
func ToModelMFRSRule(d domain.MFRSRule) models.MFRSRule {
	params := d.Parameters
	if params == nil {
		params = map[string]any{}
	}
	return models.MFRSRule{
		RuleID:          d.RuleID,
		Standard:        string(d.Standard),
		RuleCode:        d.RuleCode,
		Title:           d.Title,
		Description:     d.Description,
		ComplianceLevel: string(d.ComplianceLevel),
		Logic:           ToModelValidationLogic(d.Logic),
		Parameters:      params,
		EffectiveDate:   d.EffectiveDate,
		IsActive:        d.IsActive,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
	}
}

// ToDomainMFRSRule converts a model rule to a domain rule
func ToDomainMFRSRule(m models.MFRSRule) domain.MFRSRule {
	return domain.MFRSRule{
		RuleID:          m.RuleID,
		Standard:        domain.MFRSStandard(m.Standard),
		RuleCode:        m.RuleCode,
		Title:           m.Title,
		Description:     m.Description,
		ComplianceLevel: domain.ComplianceLevel(m.ComplianceLevel),
		Logic:           ToDomainValidationLogic(m.Logic),
		Parameters:      m.Parameters,
		EffectiveDate:   m.EffectiveDate,
		IsActive:        m.IsActive,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

// ToModelDisclosureRequirement converts a domain requirement to a model requirement
func ToModelDisclosureRequirement(d domain.DisclosureRequirement) models.DisclosureRequirement {
	conditions := d.RequiredConditions
	if conditions == nil {
		conditions = map[string]any{}
	}
	return models.DisclosureRequirement{
		RequirementID:      d.RequirementID,
		Standard:           string(d.Standard),
		RequirementCode:    d.RequirementCode,
		Title:              d.Title,
		Description:        d.Description,
		DisclosureType:     string(d.DisclosureType),
		Template:           d.Template,
		RequiredConditions: conditions,
		IsMandatory:        d.IsMandatory,
		EffectiveDate:      d.EffectiveDate,
		CreatedAt:          d.CreatedAt,
	}
}

// ToDomainDisclosureRequirement converts a model requirement to a domain requirement
func ToDomainDisclosureRequirement(m models.DisclosureRequirement) domain.DisclosureRequirement {
	return domain.DisclosureRequirement{
		RequirementID:      m.RequirementID,
		Standard:           domain.MFRSStandard(m.Standard),
		RequirementCode:    m.RequirementCode,
		Title:              m.Title,
		Description:        m.Description,
		DisclosureType:     domain.DisclosureType(m.DisclosureType),
		Template:           m.Template,
		RequiredConditions: m.RequiredConditions,
		IsMandatory:        m.IsMandatory,
		EffectiveDate:      m.EffectiveDate,
		CreatedAt:          m.CreatedAt,
	}
}

// ToModelViolation converts a domain violation to a model violation
func ToModelViolation(d domain.ValidationViolation) models.ValidationViolation {
	var txnID *string
	if d.TransactionID != "" {
		txnID = &d.TransactionID
	}
	details := d.Details
	if details == nil {
		details = map[string]any{}
	}
	return models.ValidationViolation{
		ViolationID:         d.ViolationID,
		TenantID:            d.TenantID,
		RuleID:              d.RuleID,
		RuleTitle:           d.RuleTitle,
		Standard:            string(d.Standard),
		ComplianceLevel:     string(d.ComplianceLevel),
		Message:             d.Message,
		Details:             details,
		TransactionID:       txnID,
		AccountID:           d.AccountID,
		Amount:              d.Amount,
		SuggestedCorrection: d.SuggestedCorrection,
		CreatedAt:           d.CreatedAt,
	}
}

// ToDomainViolation converts a stored violation; stored records are always Persisted.
func ToDomainViolation(m models.ValidationViolation) domain.ValidationViolation {
	v := domain.ValidationViolation{
		ViolationID:         m.ViolationID,
		TenantID:            m.TenantID,
		RuleID:              m.RuleID,
		RuleTitle:           m.RuleTitle,
		Standard:            domain.MFRSStandard(m.Standard),
		ComplianceLevel:     domain.ComplianceLevel(m.ComplianceLevel),
		Message:             m.Message,
		Details:             m.Details,
		AccountID:           m.AccountID,
		Amount:              m.Amount,
		SuggestedCorrection: m.SuggestedCorrection,
		CreatedAt:           m.CreatedAt,
		Persisted:           true,
	}
	if m.TransactionID != nil {
		v.TransactionID = *m.TransactionID
	}
	return v
}

// ToModelDisclosure converts a domain disclosure to a model disclosure
func ToModelDisclosure(d domain.GeneratedDisclosure) models.GeneratedDisclosure {
	return models.GeneratedDisclosure{
		DisclosureID:    d.DisclosureID,
		RequirementID:   d.RequirementID,
		Standard:        string(d.Standard),
		Title:           d.Title,
		Content:         d.Content,
		DisclosureType:  string(d.DisclosureType),
		FinancialPeriod: d.FinancialPeriod,
		TenantID:        d.TenantID,
		GeneratedAt:     d.GeneratedAt,
		IsApproved:      d.IsApproved,
		ApprovedBy:      d.ApprovedBy,
		ApprovedAt:      d.ApprovedAt,
	}
}

// ToDomainDisclosure converts a stored disclosure; stored records are always Persisted.
func ToDomainDisclosure(m models.GeneratedDisclosure) domain.GeneratedDisclosure {
	return domain.GeneratedDisclosure{
		DisclosureID:    m.DisclosureID,
		RequirementID:   m.RequirementID,
		Standard:        domain.MFRSStandard(m.Standard),
		Title:           m.Title,
		Content:         m.Content,
		DisclosureType:  domain.DisclosureType(m.DisclosureType),
		FinancialPeriod: m.FinancialPeriod,
		TenantID:        m.TenantID,
		GeneratedAt:     m.GeneratedAt,
		IsApproved:      m.IsApproved,
		ApprovedBy:      m.ApprovedBy,
		ApprovedAt:      m.ApprovedAt,
		Persisted:       true,
	}
}

// ToModelComplianceReport converts a report snapshot to its stored form
func ToModelComplianceReport(d domain.ComplianceReport) models.ComplianceReport {
	recommendations := d.Recommendations
	if recommendations == nil {
		recommendations = []string{}
	}
	return models.ComplianceReport{
		ReportID:              d.ReportID,
		TenantID:              d.TenantID,
		EntityID:              d.EntityID,
		StartDate:             d.StartDate,
		EndDate:               d.EndDate,
		ComplianceScore:       d.ComplianceScore,
		TotalViolations:       d.TotalViolations,
		CriticalViolations:    d.CriticalViolations,
		HighViolations:        d.HighViolations,
		MediumViolations:      d.MediumViolations,
		LowViolations:         d.LowViolations,
		TotalDisclosures:      d.TotalDisclosures,
		ApprovedDisclosures:   d.ApprovedDisclosures,
		PendingDisclosures:    d.PendingDisclosures,
		ViolationsByStandard:  countsOrEmpty(d.ViolationsByStandard),
		DisclosuresByStandard: countsOrEmpty(d.DisclosuresByStandard),
		Recommendations:       recommendations,
		GeneratedAt:           d.GeneratedAt,
	}
}

// ToDomainComplianceReport converts a stored snapshot back to the domain report
func ToDomainComplianceReport(m models.ComplianceReport) domain.ComplianceReport {
	return domain.ComplianceReport{
		ReportID:              m.ReportID,
		TenantID:              m.TenantID,
		EntityID:              m.EntityID,
		StartDate:             m.StartDate,
		EndDate:               m.EndDate,
		ComplianceScore:       m.ComplianceScore,
		TotalViolations:       m.TotalViolations,
		CriticalViolations:    m.CriticalViolations,
		HighViolations:        m.HighViolations,
		MediumViolations:      m.MediumViolations,
		LowViolations:         m.LowViolations,
		TotalDisclosures:      m.TotalDisclosures,
		ApprovedDisclosures:   m.ApprovedDisclosures,
		PendingDisclosures:    m.PendingDisclosures,
		ViolationsByStandard:  m.ViolationsByStandard,
		DisclosuresByStandard: m.DisclosuresByStandard,
		Recommendations:       m.Recommendations,
		GeneratedAt:           m.GeneratedAt,
	}
}

func countsOrEmpty(m map[string]int) map[string]int {
	if m == nil {
		return map[string]int{}
	}
	return m
}
