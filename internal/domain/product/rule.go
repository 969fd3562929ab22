package product

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Knetic/govaluate"
)

// Variables available to seller auto-reject rules.
const (
	RuleVarOfferedPrice = "offered_price"
	RuleVarQuantity     = "quantity"
	RuleVarListPrice    = "list_price"
	RuleVarStock        = "stock"
	RuleVarDiscountPct  = "discount_pct"
	RuleVarTotal        = "total"
)

var ruleVars = map[string]struct{}{
	RuleVarOfferedPrice: {},
	RuleVarQuantity:     {},
	RuleVarListPrice:    {},
	RuleVarStock:        {},
	RuleVarDiscountPct:  {},
	RuleVarTotal:        {},
}

// RuleInput is the offer an auto-reject rule is evaluated against.
type RuleInput struct {
	OfferedPrice int64
	Quantity     int
	ListPrice    int64
	Stock        int
}

func (in RuleInput) params() map[string]interface{} {
	discount := 0.0
	if in.ListPrice > 0 {
		discount = float64(in.ListPrice-in.OfferedPrice) * 100 / float64(in.ListPrice)
	}
	return map[string]interface{}{
		RuleVarOfferedPrice: float64(in.OfferedPrice),
		RuleVarQuantity:     float64(in.Quantity),
		RuleVarListPrice:    float64(in.ListPrice),
		RuleVarStock:        float64(in.Stock),
		RuleVarDiscountPct:  discount,
		RuleVarTotal:        float64(in.OfferedPrice) * float64(in.Quantity),
	}
}

// EvaluateRule reports whether the auto-reject rule matches the offer. An
// empty rule never matches.
func EvaluateRule(rule string, in RuleInput) (bool, error) {
	rule = strings.TrimSpace(rule)
	if rule == "" {
		return false, nil
	}
	expr, err := govaluate.NewEvaluableExpression(rule)
	if err != nil {
		return false, err
	}
	result, err := expr.Evaluate(in.params())
	if err != nil {
		return false, err
	}
	switch v := result.(type) {
	case bool:
		return v, nil
	default:
		return false, errors.New("rule did not evaluate to boolean")
	}
}

// ValidateRule checks that rule parses, only references known variables and
// yields a boolean.
func ValidateRule(rule string) error {
	rule = strings.TrimSpace(rule)
	if rule == "" {
		return nil
	}
	if len(rule) > 500 {
		return errors.New("rule must be at most 500 characters")
	}
	expr, err := govaluate.NewEvaluableExpression(rule)
	if err != nil {
		return fmt.Errorf("invalid rule: %w", err)
	}
	for _, v := range expr.Vars() {
		if _, ok := ruleVars[v]; !ok {
			return fmt.Errorf("unknown rule variable %q", v)
		}
	}
	if _, err := EvaluateRule(rule, RuleInput{OfferedPrice: 1, Quantity: 1, ListPrice: 1, Stock: 1}); err != nil {
		return fmt.Errorf("invalid rule: %w", err)
	}
	return nil
}
