package settings

import (
	"fmt"
	"strings"

	"github.com/angelmondragon/repairshop-backend/internal/pricing"
	"github.com/angelmondragon/repairshop-backend/pkg/db/models"
	"github.com/angelmondragon/repairshop-backend/pkg/enums"
)

// migrateRule upgrades a stored rule to the explicit single-condition form.
// A rule with no condition or no threshold becomes minRepairs, defaulting to
// 1. The returned warning is non-empty whenever a default was applied.
// evaluable is false only for an unknown condition.
func migrateRule(stored models.StoredDiscountRule) (rule models.StoredDiscountRule, warning string, evaluable bool) {
	rule = stored
	if rule.Condition == nil {
		cond := enums.DiscountConditionMinRepairs
		rule.Condition = &cond
		if rule.MinRepairs == nil {
			one := 1
			rule.MinRepairs = &one
		}
		rule.MinSubtotal = nil
		warning = fmt.Sprintf("discount rule missing condition; defaulted to minRepairs %d", *rule.MinRepairs)
	}

	switch *rule.Condition {
	case enums.DiscountConditionMinRepairs:
		rule.MinSubtotal = nil
		if rule.MinRepairs == nil {
			one := 1
			rule.MinRepairs = &one
			warning = "discount rule missing minRepairs; defaulted to 1"
		}
		return rule, warning, true
	case enums.DiscountConditionMinSubtotal:
		if rule.MinSubtotal == nil {
			cond := enums.DiscountConditionMinRepairs
			one := 1
			rule.Condition, rule.MinRepairs = &cond, &one
			return rule, "discount rule missing minSubtotal; defaulted to minRepairs 1", true
		}
		rule.MinRepairs = nil
		return rule, warning, true
	default:
		return rule, fmt.Sprintf("discount rule has unknown condition %q; rule skipped", *rule.Condition), false
	}
}

// toPricingRule converts a migrated rule into its evaluable form.
func toPricingRule(rule models.StoredDiscountRule) pricing.Rule {
	out := pricing.Rule{
		ID:          rule.ID,
		Name:        rule.Name,
		Description: rule.Description,
		Type:        rule.Type,
		Value:       rule.Value,
		Active:      rule.Active,
	}
	for _, id := range rule.SpecificRepairs {
		out.SpecificRepairs = append(out.SpecificRepairs, strings.ToLower(strings.TrimSpace(id)))
	}
	switch *rule.Condition {
	case enums.DiscountConditionMinSubtotal:
		out.Condition = pricing.MinSubtotal{Amount: *rule.MinSubtotal}
	default:
		out.Condition = pricing.MinRepairs{Count: *rule.MinRepairs}
	}
	return out
}
