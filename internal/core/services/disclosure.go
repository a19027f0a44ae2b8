package services

import (
	"fmt"
	"regexp"
	"slices"

	"github.com/SscSPs/mfrs_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

var templateToken = regexp.MustCompile(`\{\{(\w+)\}\}`)

// cashEquivalentsAccount is the account code consulted by the has_cash_equivalents condition.
const cashEquivalentsAccount = "cash_equivalents"

// DisclosureApplies reports whether every required condition of req holds for data.
// Conditions are checked in key order so the result never depends on map iteration.
func DisclosureApplies(req domain.DisclosureRequirement, data domain.FinancialData) bool {
	keys := make([]string, 0, len(req.RequiredConditions))
	for k := range req.RequiredConditions {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, key := range keys {
		if !conditionHolds(key, req.RequiredConditions[key], data) {
			return false
		}
	}
	return true
}

func conditionHolds(key string, want any, data domain.FinancialData) bool {
	switch key {
	case "is_mandatory":
		b, ok := want.(bool)
		return ok && b
	case "has_cash_equivalents":
		b, ok := want.(bool)
		if !ok {
			return false
		}
		cash, present := data.Accounts[cashEquivalentsAccount]
		hasCash := present && cash.IsPositive()
		return hasCash == b
	default:
		got, ok := data.Field(key)
		if !ok {
			return false
		}
		return valuesEqual(got, want)
	}
}

// valuesEqual compares decoded JSON/YAML scalars, treating all numeric kinds alike.
func valuesEqual(a, b any) bool {
	da, aNum := toDecimal(a)
	db, bNum := toDecimal(b)
	if aNum && bNum {
		return da.Equal(db)
	}
	if aNum != bNum {
		return false
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

func toDecimal(v any) (decimal.Decimal, bool) {
	switch n := v.(type) {
	case decimal.Decimal:
		return n, true
	case float64:
		return decimal.NewFromFloat(n), true
	case float32:
		return decimal.NewFromFloat32(n), true
	case int:
		return decimal.NewFromInt(int64(n)), true
	case int64:
		return decimal.NewFromInt(n), true
	case int32:
		return decimal.NewFromInt32(n), true
	case uint64:
		return decimal.NewFromUint64(n), true
	}
	return decimal.Zero, false
}

// RenderDisclosureTemplate substitutes {{token}} with the same-named value from data.
// Tokens with no value, or an empty one, are left as written.
func RenderDisclosureTemplate(template string, data domain.FinancialData) string {
	return templateToken.ReplaceAllStringFunc(template, func(match string) string {
		name := templateToken.FindStringSubmatch(match)[1]
		v, ok := data.Field(name)
		if !ok || v == nil {
			return match
		}
		s := fmt.Sprint(v)
		if s == "" {
			return match
		}
		return s
	})
}
