package catalogue_test

import (
	"testing"
	"time"

	"github.com/SscSPs/mfrs_ledger_app/internal/catalogue"
	"github.com/SscSPs/mfrs_ledger_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalogue(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	cat, err := catalogue.Default(now)
	require.NoError(t, err)

	require.Len(t, cat.Rules, 3)
	require.Len(t, cat.DisclosureRequirements, 2)

	balance := cat.Rules[0]
	assert.Equal(t, "rule_001", balance.RuleID)
	assert.Equal(t, domain.MFRS101, balance.Standard)
	assert.Equal(t, domain.LevelCritical, balance.ComplianceLevel)
	assert.Equal(t, domain.LogicAccountBalance, balance.Logic.Type)
	assert.Equal(t, "current_assets", balance.Logic.AccountCode)
	require.NotNil(t, balance.Logic.Threshold)
	assert.True(t, balance.Logic.Threshold.IsZero())
	assert.True(t, balance.IsActive)
	assert.Equal(t, now, balance.EffectiveDate)

	assert.Equal(t, []string{"operating", "investing", "financing"}, cat.Rules[1].Logic.TransactionTypes)
	assert.Equal(t, "financial_instrument_classification", cat.Rules[2].Logic.CustomExpression)

	policies := cat.DisclosureRequirements[0]
	assert.Equal(t, "The entity applies the following significant accounting policies: {{policies}}", policies.Template)
	assert.Equal(t, map[string]any{"is_mandatory": true}, policies.RequiredConditions)
	assert.Equal(t, domain.DisclosureNote, policies.DisclosureType)
	assert.Equal(t, domain.MFRS107, cat.DisclosureRequirements[1].Standard)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		msg  string
	}{
		{
			name: "unknown standard",
			doc:  "rules:\n  - id: r1\n    rule_code: X\n    standard: MFRS999\n    validation_logic: {type: custom_logic}\n",
			msg:  "unknown standard",
		},
		{
			name: "unknown logic type",
			doc:  "rules:\n  - id: r1\n    rule_code: X\n    standard: MFRS101\n    validation_logic: {type: regex}\n",
			msg:  "unknown validation logic type",
		},
		{
			name: "bad threshold",
			doc:  "rules:\n  - id: r1\n    rule_code: X\n    standard: MFRS101\n    validation_logic: {type: amount_threshold, threshold: lots}\n",
			msg:  "invalid threshold",
		},
		{
			name: "missing id",
			doc:  "disclosure_requirements:\n  - requirement_code: D\n    standard: MFRS101\n",
			msg:  "id and requirement_code are required",
		},
		{
			name: "malformed yaml",
			doc:  "rules: [",
			msg:  "failed to parse catalogue",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := catalogue.Parse([]byte(tt.doc), time.Now())
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestResolveStandard(t *testing.T) {
	std, ok := catalogue.ResolveStandard("MFRS115")
	assert.True(t, ok)
	assert.Equal(t, domain.MFRS115, std)

	std, ok = catalogue.ResolveStandard(string(domain.MFRS109))
	assert.True(t, ok)
	assert.Equal(t, domain.MFRS109, std)

	_, ok = catalogue.ResolveStandard("IFRS 9")
	assert.False(t, ok)
}
