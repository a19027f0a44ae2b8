package services

import (
	"fmt"
	"slices"
	"strings"

	"github.com/SscSPs/mfrs_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

// customChecks are the named checks a custom_logic rule may dispatch to.
var customChecks = map[string]func(domain.ComplianceTransaction) domain.RuleEvaluation{
	"financial_instrument_classification": func(domain.ComplianceTransaction) domain.RuleEvaluation {
		return pass("Financial instrument classification validated")
	},
}

func pass(msg string) domain.RuleEvaluation {
	return domain.RuleEvaluation{Outcome: domain.OutcomePass, Message: msg}
}

func fail(msg string) domain.RuleEvaluation {
	return domain.RuleEvaluation{Outcome: domain.OutcomeFail, Message: msg}
}

func info(msg string) domain.RuleEvaluation {
	return domain.RuleEvaluation{Outcome: domain.OutcomeInfo, Message: msg}
}

// EvaluateRule applies a single rule to a transaction. It has no side effects.
func EvaluateRule(rule domain.MFRSRule, txn domain.ComplianceTransaction) domain.RuleEvaluation {
	logic := rule.Logic
	switch logic.Type {
	case domain.LogicAccountBalance:
		return evaluateAccountBalance(logic, txn)
	case domain.LogicTransactionType:
		return evaluateTransactionType(logic, txn)
	case domain.LogicAmountThreshold:
		return evaluateAmountThreshold(logic, txn)
	case domain.LogicAccountRelationship:
		return pass("Account relationship validation passed")
	case domain.LogicCustom:
		return evaluateCustom(logic, txn)
	default:
		return fail(fmt.Sprintf("Unknown rule type: %s", logic.Type))
	}
}

func evaluateAccountBalance(logic domain.ValidationLogic, txn domain.ComplianceTransaction) domain.RuleEvaluation {
	balance, ok := txn.Accounts[logic.AccountCode]
	if !ok {
		return info(fmt.Sprintf("Account %s not found in transaction", logic.AccountCode))
	}

	threshold := logic.ThresholdOrZero()
	switch logic.Condition {
	case domain.CondGreaterThan:
		if balance.GreaterThan(threshold) {
			return pass("Account balance validation passed")
		}
		return fail(fmt.Sprintf("Account %s balance %s is not greater than %s", logic.AccountCode, balance, threshold))
	case domain.CondLessThan:
		if balance.LessThan(threshold) {
			return pass("Account balance validation passed")
		}
		return fail(fmt.Sprintf("Account %s balance %s is not less than %s", logic.AccountCode, balance, threshold))
	case domain.CondEquals:
		if balance.Equal(threshold) {
			return pass("Account balance validation passed")
		}
		return fail(fmt.Sprintf("Account %s balance %s does not equal %s", logic.AccountCode, balance, threshold))
	case domain.CondNotEquals:
		if !balance.Equal(threshold) {
			return pass("Account balance validation passed")
		}
		return fail(fmt.Sprintf("Account %s balance %s equals %s", logic.AccountCode, balance, threshold))
	default:
		return fail(fmt.Sprintf("Unknown condition: %s", logic.Condition))
	}
}

func evaluateTransactionType(logic domain.ValidationLogic, txn domain.ComplianceTransaction) domain.RuleEvaluation {
	if len(logic.TransactionTypes) == 0 {
		return info("No transaction types specified")
	}
	if slices.Contains(logic.TransactionTypes, txn.Type) {
		return pass("Transaction type validation passed")
	}
	return fail(fmt.Sprintf("Transaction type %s is not allowed. Allowed types: %s",
		txn.Type, strings.Join(logic.TransactionTypes, ", ")))
}

func evaluateAmountThreshold(logic domain.ValidationLogic, txn domain.ComplianceTransaction) domain.RuleEvaluation {
	amount := txn.Amount
	if logic.AmountField != "" {
		if v, ok := numericAttribute(txn.Attributes, logic.AmountField); ok {
			amount = v
		}
	}

	condition := logic.Condition
	if condition == "" {
		condition = domain.CondGreaterThan
	}

	threshold := logic.ThresholdOrZero()
	switch condition {
	case domain.CondGreaterThan:
		if amount.GreaterThan(threshold) {
			return pass("Amount threshold validation passed")
		}
		return fail(fmt.Sprintf("Amount %s is not greater than threshold %s", amount, threshold))
	case domain.CondLessThan:
		if amount.LessThan(threshold) {
			return pass("Amount threshold validation passed")
		}
		return fail(fmt.Sprintf("Amount %s is not less than threshold %s", amount, threshold))
	default:
		return fail(fmt.Sprintf("Unknown condition: %s", condition))
	}
}

func evaluateCustom(logic domain.ValidationLogic, txn domain.ComplianceTransaction) domain.RuleEvaluation {
	if logic.CustomExpression == "" {
		return fail("No custom expression provided")
	}
	check, ok := customChecks[logic.CustomExpression]
	if !ok {
		return fail(fmt.Sprintf("Unknown custom expression: %s", logic.CustomExpression))
	}
	return check(txn)
}

// numericAttribute reads a number from a JSON-decoded attribute map.
func numericAttribute(attrs map[string]any, key string) (decimal.Decimal, bool) {
	raw, ok := attrs[key]
	if !ok || raw == nil {
		return decimal.Zero, false
	}
	switch v := raw.(type) {
	case decimal.Decimal:
		return v, true
	case float64:
		return decimal.NewFromFloat(v), true
	case float32:
		return decimal.NewFromFloat32(v), true
	case int:
		return decimal.NewFromInt(int64(v)), true
	case int64:
		return decimal.NewFromInt(v), true
	case string:
		d, err := decimal.NewFromString(v)
		if err != nil {
			return decimal.Zero, false
		}
		return d, true
	}
	return decimal.Zero, false
}

// SuggestedCorrection returns the remediation hint attached to a violation of rule.
func SuggestedCorrection(rule domain.MFRSRule) string {
	logic := rule.Logic
	switch logic.Type {
	case domain.LogicAccountBalance:
		return fmt.Sprintf("Review account %s balance and ensure it meets the %s %s requirement.",
			logic.AccountCode, logic.Condition, logic.ThresholdOrZero())
	case domain.LogicTransactionType:
		return fmt.Sprintf("Change transaction type to one of: %s", strings.Join(logic.TransactionTypes, ", "))
	case domain.LogicAmountThreshold:
		return fmt.Sprintf("Review amount and ensure it meets the %s %s requirement.",
			logic.Condition, logic.ThresholdOrZero())
	default:
		return "Review transaction for compliance with MFRS standards."
	}
}
