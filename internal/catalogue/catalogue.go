// Package catalogue loads MFRS rule and disclosure requirement definitions from YAML.
package catalogue

import (
	_ "embed"
	"fmt"
	"time"

	"github.com/SscSPs/mfrs_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed default_catalogue.yaml
var defaultCatalogue []byte

// standardsByKey maps the short keys used in catalogue files to full standard names.
var standardsByKey = map[string]domain.MFRSStandard{
	"MFRS101":  domain.MFRS101,
	"MFRS107":  domain.MFRS107,
	"MFRS108":  domain.MFRS108,
	"MFRS109":  domain.MFRS109,
	"MFRS110":  domain.MFRS110,
	"MFRS112":  domain.MFRS112,
	"MFRS113":  domain.MFRS113,
	"MFRS115":  domain.MFRS115,
	"MFRS116":  domain.MFRS116,
	"MFRS117":  domain.MFRS117,
	"MFRS119":  domain.MFRS119,
	"MFRS120":  domain.MFRS120,
	"MFRS121":  domain.MFRS121,
	"MFRS123":  domain.MFRS123,
	"MFRS124":  domain.MFRS124,
	"MFRS128":  domain.MFRS128,
	"MFRS132":  domain.MFRS132,
	"MFRS133":  domain.MFRS133,
	"MFRS134":  domain.MFRS134,
	"MFRS136":  domain.MFRS136,
	"MFRS137":  domain.MFRS137,
	"MFRS138":  domain.MFRS138,
	"MFRS140":  domain.MFRS140,
	"MFRS141":  domain.MFRS141,
	"MFRS1000": domain.MFRS1000,
}

// ResolveStandard accepts either a short key ("MFRS101") or a full standard name.
func ResolveStandard(s string) (domain.MFRSStandard, bool) {
	if std, ok := standardsByKey[s]; ok {
		return std, true
	}
	for _, std := range standardsByKey {
		if string(std) == s {
			return std, true
		}
	}
	return "", false
}

type logicDoc struct {
	Type             string   `yaml:"type"`
	AccountCode      string   `yaml:"account_code"`
	Condition        string   `yaml:"condition"`
	Threshold        *string  `yaml:"threshold"`
	TransactionTypes []string `yaml:"transaction_types"`
	AmountField      string   `yaml:"amount_field"`
	RelationshipType string   `yaml:"relationship_type"`
	CustomExpression string   `yaml:"custom_expression"`
}

type ruleDoc struct {
	ID              string         `yaml:"id"`
	Standard        string         `yaml:"standard"`
	RuleCode        string         `yaml:"rule_code"`
	Title           string         `yaml:"title"`
	Description     string         `yaml:"description"`
	ComplianceLevel string         `yaml:"compliance_level"`
	Logic           logicDoc       `yaml:"validation_logic"`
	Parameters      map[string]any `yaml:"parameters"`
}

type requirementDoc struct {
	ID                 string         `yaml:"id"`
	Standard           string         `yaml:"standard"`
	RequirementCode    string         `yaml:"requirement_code"`
	Title              string         `yaml:"title"`
	Description        string         `yaml:"description"`
	DisclosureType     string         `yaml:"disclosure_type"`
	Template           string         `yaml:"template"`
	RequiredConditions map[string]any `yaml:"required_conditions"`
	IsMandatory        bool           `yaml:"is_mandatory"`
}

type document struct {
	Rules                  []ruleDoc        `yaml:"rules"`
	DisclosureRequirements []requirementDoc `yaml:"disclosure_requirements"`
}

// Catalogue is a parsed set of rules and disclosure requirements.
type Catalogue struct {
	Rules                  []domain.MFRSRule
	DisclosureRequirements []domain.DisclosureRequirement
}

// Default returns the embedded built-in catalogue stamped with now.
func Default(now time.Time) (*Catalogue, error) {
	return Parse(defaultCatalogue, now)
}

// Parse decodes a catalogue document. All rules are active and effective from now.
func Parse(data []byte, now time.Time) (*Catalogue, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse catalogue: %w", err)
	}

	cat := &Catalogue{}
	for i, r := range doc.Rules {
		rule, err := r.toDomain(now)
		if err != nil {
			return nil, fmt.Errorf("rule %d (%s): %w", i, r.ID, err)
		}
		cat.Rules = append(cat.Rules, rule)
	}
	for i, d := range doc.DisclosureRequirements {
		req, err := d.toDomain(now)
		if err != nil {
			return nil, fmt.Errorf("disclosure requirement %d (%s): %w", i, d.ID, err)
		}
		cat.DisclosureRequirements = append(cat.DisclosureRequirements, req)
	}
	return cat, nil
}

func (r ruleDoc) toDomain(now time.Time) (domain.MFRSRule, error) {
	if r.ID == "" || r.RuleCode == "" {
		return domain.MFRSRule{}, fmt.Errorf("id and rule_code are required")
	}
	std, ok := ResolveStandard(r.Standard)
	if !ok {
		return domain.MFRSRule{}, fmt.Errorf("unknown standard %q", r.Standard)
	}
	logicType := domain.LogicType(r.Logic.Type)
	if !logicType.IsValid() {
		return domain.MFRSRule{}, fmt.Errorf("unknown validation logic type %q", r.Logic.Type)
	}

	logic := domain.ValidationLogic{
		Type:             logicType,
		AccountCode:      r.Logic.AccountCode,
		Condition:        r.Logic.Condition,
		TransactionTypes: r.Logic.TransactionTypes,
		AmountField:      r.Logic.AmountField,
		RelationshipType: r.Logic.RelationshipType,
		CustomExpression: r.Logic.CustomExpression,
	}
	if r.Logic.Threshold != nil {
		threshold, err := decimal.NewFromString(*r.Logic.Threshold)
		if err != nil {
			return domain.MFRSRule{}, fmt.Errorf("invalid threshold %q: %w", *r.Logic.Threshold, err)
		}
		logic.Threshold = &threshold
	}

	params := r.Parameters
	if params == nil {
		params = map[string]any{}
	}

	return domain.MFRSRule{
		RuleID:          r.ID,
		Standard:        std,
		RuleCode:        r.RuleCode,
		Title:           r.Title,
		Description:     r.Description,
		ComplianceLevel: domain.ComplianceLevel(r.ComplianceLevel),
		Logic:           logic,
		Parameters:      params,
		EffectiveDate:   now,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}

func (d requirementDoc) toDomain(now time.Time) (domain.DisclosureRequirement, error) {
	if d.ID == "" || d.RequirementCode == "" {
		return domain.DisclosureRequirement{}, fmt.Errorf("id and requirement_code are required")
	}
	std, ok := ResolveStandard(d.Standard)
	if !ok {
		return domain.DisclosureRequirement{}, fmt.Errorf("unknown standard %q", d.Standard)
	}
	conditions := d.RequiredConditions
	if conditions == nil {
		conditions = map[string]any{}
	}
	return domain.DisclosureRequirement{
		RequirementID:      d.ID,
		Standard:           std,
		RequirementCode:    d.RequirementCode,
		Title:              d.Title,
		Description:        d.Description,
		DisclosureType:     domain.DisclosureType(d.DisclosureType),
		Template:           d.Template,
		RequiredConditions: conditions,
		IsMandatory:        d.IsMandatory,
		EffectiveDate:      now,
		CreatedAt:          now,
	}, nil
}
