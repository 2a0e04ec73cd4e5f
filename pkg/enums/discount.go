package enums

import "fmt"

// DiscountType selects how a discount rule value is applied.
type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

var validDiscountTypes = []DiscountType{
	DiscountTypePercentage,
	DiscountTypeFixed,
}

// String implements fmt.Stringer.
func (d DiscountType) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DiscountType.
func (d DiscountType) IsValid() bool {
	for _, candidate := range validDiscountTypes {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDiscountType converts raw input into a DiscountType.
func ParseDiscountType(value string) (DiscountType, error) {
	for _, candidate := range validDiscountTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid discount type %q", value)
}

// DiscountCondition names the qualifying condition stored on a rule.
type DiscountCondition string

const (
	DiscountConditionMinRepairs  DiscountCondition = "minRepairs"
	DiscountConditionMinSubtotal DiscountCondition = "minSubtotal"
)

var validDiscountConditions = []DiscountCondition{
	DiscountConditionMinRepairs,
	DiscountConditionMinSubtotal,
}

// String implements fmt.Stringer.
func (d DiscountCondition) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DiscountCondition.
func (d DiscountCondition) IsValid() bool {
	for _, candidate := range validDiscountConditions {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDiscountCondition converts raw input into a DiscountCondition.
func ParseDiscountCondition(value string) (DiscountCondition, error) {
	for _, candidate := range validDiscountConditions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid discount condition %q", value)
}
