package enums

import "fmt"

// ServiceMethod describes how the device reaches the shop.
type ServiceMethod string

const (
	ServiceMethodLocation ServiceMethod = "location"
	ServiceMethodPickup   ServiceMethod = "pickup"
)

var validServiceMethods = []ServiceMethod{
	ServiceMethodLocation,
	ServiceMethodPickup,
}

// String implements fmt.Stringer.
func (m ServiceMethod) String() string {
	return string(m)
}

// IsValid reports whether the value is a known ServiceMethod.
func (m ServiceMethod) IsValid() bool {
	for _, candidate := range validServiceMethods {
		if candidate == m {
			return true
		}
	}
	return false
}

// ParseServiceMethod converts raw input into a ServiceMethod.
func ParseServiceMethod(value string) (ServiceMethod, error) {
	for _, candidate := range validServiceMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid service method %q", value)
}
