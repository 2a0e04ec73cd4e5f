package pricing

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/repairshop-backend/pkg/enums"
)

var hundred = decimal.NewFromInt(100)

// Condition is the single qualifying condition of a discount rule.
type Condition interface {
	Kind() enums.DiscountCondition
	holds(repairCount int, subtotal decimal.Decimal) bool
}

// MinRepairs qualifies when at least Count repair lines are selected.
type MinRepairs struct {
	Count int
}

func (MinRepairs) Kind() enums.DiscountCondition { return enums.DiscountConditionMinRepairs }

func (m MinRepairs) holds(repairCount int, _ decimal.Decimal) bool {
	return repairCount >= m.Count
}

// MinSubtotal qualifies when the subtotal reaches Amount.
type MinSubtotal struct {
	Amount decimal.Decimal
}

func (MinSubtotal) Kind() enums.DiscountCondition { return enums.DiscountConditionMinSubtotal }

func (m MinSubtotal) holds(_ int, subtotal decimal.Decimal) bool {
	return subtotal.GreaterThanOrEqual(m.Amount)
}

// Rule is an evaluable discount rule.
type Rule struct {
	ID              string
	Name            string
	Description     string
	Type            enums.DiscountType
	Value           decimal.Decimal
	Condition       Condition
	SpecificRepairs []string
	Active          bool
}

// AppliedDiscount is the discount granted by the winning rule.
type AppliedDiscount struct {
	RuleID   string
	RuleName string
	Amount   decimal.Decimal
}

// Qualifies reports whether the rule applies to the selection. Every id in
// SpecificRepairs must be among the selected repairs.
func (r Rule) Qualifies(lines []Line, subtotal decimal.Decimal) bool {
	if !r.Active || r.Condition == nil {
		return false
	}
	if !r.Condition.holds(len(lines), subtotal) {
		return false
	}
	if len(r.SpecificRepairs) == 0 {
		return true
	}
	selected := make(map[string]struct{}, len(lines))
	for _, line := range lines {
		selected[line.RepairID.String()] = struct{}{}
	}
	for _, id := range r.SpecificRepairs {
		if _, ok := selected[strings.ToLower(strings.TrimSpace(id))]; !ok {
			return false
		}
	}
	return true
}

// Amount computes the discount for subtotal, clamped to [0, subtotal].
func (r Rule) Amount(subtotal decimal.Decimal) decimal.Decimal {
	var amount decimal.Decimal
	switch r.Type {
	case enums.DiscountTypeFixed:
		amount = r.Value
	case enums.DiscountTypePercentage:
		amount = subtotal.Mul(r.Value).Div(hundred)
	default:
		return decimal.Zero
	}
	if amount.IsNegative() {
		return decimal.Zero
	}
	if amount.GreaterThan(subtotal) {
		amount = subtotal
	}
	return amount.Round(2)
}

// EvaluateDiscount returns the first qualifying active rule in stored order,
// or nil when none applies. Rules never stack.
func EvaluateDiscount(rules []Rule, lines []Line, subtotal decimal.Decimal) *AppliedDiscount {
	for _, rule := range rules {
		if !rule.Qualifies(lines, subtotal) {
			continue
		}
		return &AppliedDiscount{
			RuleID:   rule.ID,
			RuleName: rule.Name,
			Amount:   rule.Amount(subtotal),
		}
	}
	return nil
}
