package services_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/SscSPs/mfrs_ledger_app/internal/core/domain"
	"github.com/SscSPs/mfrs_ledger_app/internal/core/services"
)

func TestDisclosureApplies(t *testing.T) {
	withCash := domain.FinancialData{
		Period:   "2025-Q1",
		Currency: "MYR",
		Accounts: map[string]decimal.Decimal{"cash_equivalents": decimal.NewFromInt(1200)},
		Fields:   map[string]any{"segments": float64(3), "listed": true},
	}
	noCash := domain.FinancialData{Period: "2025-Q1"}

	req := func(conditions map[string]any) domain.DisclosureRequirement {
		return domain.DisclosureRequirement{RequiredConditions: conditions}
	}

	tests := []struct {
		name       string
		conditions map[string]any
		data       domain.FinancialData
		want       bool
	}{
		{"no conditions", nil, noCash, true},
		{"mandatory true", map[string]any{"is_mandatory": true}, noCash, true},
		{"mandatory false", map[string]any{"is_mandatory": false}, noCash, false},
		{"has cash and wants cash", map[string]any{"has_cash_equivalents": true}, withCash, true},
		{"no cash but wants cash", map[string]any{"has_cash_equivalents": true}, noCash, false},
		{"no cash and wants none", map[string]any{"has_cash_equivalents": false}, noCash, true},
		{"field equals", map[string]any{"currency": "MYR"}, withCash, true},
		{"numeric field equals across kinds", map[string]any{"segments": 3}, withCash, true},
		{"field differs", map[string]any{"currency": "USD"}, withCash, false},
		{"missing field", map[string]any{"auditor": "KPMG"}, withCash, false},
		{"every condition must hold", map[string]any{"is_mandatory": true, "has_cash_equivalents": true}, noCash, false},
		{"all conditions hold", map[string]any{"is_mandatory": true, "has_cash_equivalents": true, "listed": true}, withCash, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, services.DisclosureApplies(req(tt.conditions), tt.data))
		})
	}
}

func TestRenderDisclosureTemplate(t *testing.T) {
	data := domain.FinancialData{
		Period: "FY2025",
		Fields: map[string]any{
			"policies":    "accrual basis, historical cost",
			"composition": "",
		},
	}

	assert.Equal(t,
		"The entity applies the following significant accounting policies: accrual basis, historical cost",
		services.RenderDisclosureTemplate("The entity applies the following significant accounting policies: {{policies}}", data))

	assert.Equal(t, "Period FY2025", services.RenderDisclosureTemplate("Period {{period}}", data))
	assert.Equal(t, "Cash and cash equivalents comprise: {{composition}}",
		services.RenderDisclosureTemplate("Cash and cash equivalents comprise: {{composition}}", data))
	assert.Equal(t, "Unknown {{auditor}} and {{ spaced }}",
		services.RenderDisclosureTemplate("Unknown {{auditor}} and {{ spaced }}", data))
}
