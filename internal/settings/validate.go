package settings

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/repairshop-backend/internal/availability"
	"github.com/angelmondragon/repairshop-backend/pkg/db/models"
	"github.com/angelmondragon/repairshop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/repairshop-backend/pkg/errors"
)

var (
	hundred   = decimal.NewFromInt(100)
	clockTime = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

// normalize validates an update and returns the row to persist. Every
// problem is reported in one validation error keyed by field path.
func normalize(input UpdateInput) (*models.ShopSettings, error) {
	details := map[string]string{}

	rules := normalizeRules(input.DiscountRules, details)
	slots := normalizeSlots(input.TimeSlots, details)
	days := normalizeDays(input.OperatingDays, details)
	dates := normalizeDates(input.ClosedDates, details)

	if len(details) > 0 {
		return nil, pkgerrors.Invalid("invalid settings", details)
	}

	return &models.ShopSettings{
		ID:            models.ShopSettingsID,
		TaxPercentage: clampTax(input.TaxPercentage),
		DiscountRules: rules,
		TimeSlots:     slots,
		OperatingDays: days,
		ClosedDates:   dates,
	}, nil
}

func clampTax(value decimal.Decimal) decimal.Decimal {
	if value.IsNegative() {
		return decimal.Zero
	}
	if value.GreaterThan(hundred) {
		return hundred
	}
	return value.Round(2)
}

func normalizeRules(rules []models.StoredDiscountRule, details map[string]string) []models.StoredDiscountRule {
	out := make([]models.StoredDiscountRule, 0, len(rules))
	seen := map[string]struct{}{}

	for i, rule := range rules {
		field := fmt.Sprintf("discountRules[%d]", i)

		rule.ID = strings.TrimSpace(rule.ID)
		if rule.ID == "" {
			rule.ID = uuid.NewString()
		}
		if _, dup := seen[rule.ID]; dup {
			details[field+".id"] = "duplicate rule id"
		}
		seen[rule.ID] = struct{}{}

		rule.Name = strings.TrimSpace(rule.Name)
		if rule.Name == "" {
			details[field+".name"] = "name is required"
		}
		if !rule.Type.IsValid() {
			details[field+".type"] = "type must be percentage or fixed"
		}
		if rule.Value.IsNegative() {
			details[field+".value"] = "value must be zero or greater"
		} else if rule.Type == enums.DiscountTypePercentage && rule.Value.GreaterThan(hundred) {
			details[field+".value"] = "percentage cannot exceed 100"
		}

		if msg := checkCondition(&rule); msg != "" {
			details[field+".condition"] = msg
		}

		ids := make([]string, 0, len(rule.SpecificRepairs))
		for j, raw := range rule.SpecificRepairs {
			parsed, err := uuid.Parse(strings.TrimSpace(raw))
			if err != nil {
				details[fmt.Sprintf("%s.specificRepairs[%d]", field, j)] = "must be a repair id"
				continue
			}
			ids = append(ids, parsed.String())
		}
		rule.SpecificRepairs = ids

		out = append(out, rule)
	}
	return out
}

// checkCondition enforces exactly one condition with a usable threshold.
func checkCondition(rule *models.StoredDiscountRule) string {
	if rule.Condition == nil {
		return "condition is required"
	}
	switch *rule.Condition {
	case enums.DiscountConditionMinRepairs:
		if rule.MinSubtotal != nil {
			return "minRepairs rules cannot set minSubtotal"
		}
		if rule.MinRepairs == nil || *rule.MinRepairs < 1 {
			return "minRepairs must be at least 1"
		}
	case enums.DiscountConditionMinSubtotal:
		if rule.MinRepairs != nil {
			return "minSubtotal rules cannot set minRepairs"
		}
		if rule.MinSubtotal == nil || rule.MinSubtotal.IsNegative() {
			return "minSubtotal must be zero or greater"
		}
		rounded := rule.MinSubtotal.Round(2)
		rule.MinSubtotal = &rounded
	default:
		return "condition must be minRepairs or minSubtotal"
	}
	return ""
}

func normalizeSlots(slots []models.TimeSlot, details map[string]string) []models.TimeSlot {
	out := make([]models.TimeSlot, 0, len(slots))
	seen := map[string]struct{}{}

	for i, slot := range slots {
		field := fmt.Sprintf("timeSlots[%d]", i)

		slot.ID = strings.TrimSpace(slot.ID)
		if slot.ID == "" {
			slot.ID = uuid.NewString()
		}
		if _, dup := seen[slot.ID]; dup {
			details[field+".id"] = "duplicate slot id"
		}
		seen[slot.ID] = struct{}{}

		slot.Label = strings.TrimSpace(slot.Label)
		if slot.Label == "" {
			details[field+".label"] = "label is required"
		}

		startOK := clockTime.MatchString(slot.StartTime)
		endOK := clockTime.MatchString(slot.EndTime)
		if !startOK {
			details[field+".startTime"] = "startTime must be HH:MM"
		}
		if !endOK {
			details[field+".endTime"] = "endTime must be HH:MM"
		}
		// zero-padded HH:MM compares lexically
		if startOK && endOK && slot.StartTime >= slot.EndTime {
			details[field+".endTime"] = "endTime must be after startTime"
		}

		out = append(out, slot)
	}
	return out
}

func normalizeDays(days []int, details map[string]string) []int {
	set := map[int]struct{}{}
	for i, day := range days {
		if day < int(time.Sunday) || day > int(time.Saturday) {
			details[fmt.Sprintf("operatingDays[%d]", i)] = "day must be between 0 (Sunday) and 6 (Saturday)"
			continue
		}
		set[day] = struct{}{}
	}
	out := make([]int, 0, len(set))
	for day := range set {
		out = append(out, day)
	}
	sort.Ints(out)
	return out
}

func normalizeDates(dates []string, details map[string]string) []string {
	set := map[string]struct{}{}
	for i, raw := range dates {
		day, err := time.Parse(availability.DateLayout, strings.TrimSpace(raw))
		if err != nil {
			details[fmt.Sprintf("closedDates[%d]", i)] = "date must be formatted YYYY-MM-DD"
			continue
		}
		set[day.Format(availability.DateLayout)] = struct{}{}
	}
	out := make([]string, 0, len(set))
	for day := range set {
		out = append(out, day)
	}
	sort.Strings(out)
	return out
}
