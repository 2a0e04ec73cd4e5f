package types

import (
	"fmt"
	"strings"
)

// ShippingAddress is where a pickup-service device is collected and returned.
type ShippingAddress struct {
	Line1      string  `json:"line1" validate:"required"`
	Line2      *string `json:"line2,omitempty"`
	City       string  `json:"city" validate:"required"`
	State      string  `json:"state" validate:"required"`
	PostalCode string  `json:"postalCode" validate:"required"`
	Country    string  `json:"country,omitempty"`
}

// Normalize trims whitespace and applies the default country.
func (a ShippingAddress) Normalize() ShippingAddress {
	a.Line1 = strings.TrimSpace(a.Line1)
	a.City = strings.TrimSpace(a.City)
	a.State = strings.TrimSpace(a.State)
	a.PostalCode = strings.TrimSpace(a.PostalCode)
	a.Country = strings.TrimSpace(a.Country)
	if a.Country == "" {
		a.Country = "US"
	}
	if a.Line2 != nil {
		line2 := strings.TrimSpace(*a.Line2)
		if line2 == "" {
			a.Line2 = nil
		} else {
			a.Line2 = &line2
		}
	}
	return a
}

// Validate reports the first missing required field.
func (a ShippingAddress) Validate() error {
	switch {
	case strings.TrimSpace(a.Line1) == "":
		return fmt.Errorf("address: missing line1")
	case strings.TrimSpace(a.City) == "":
		return fmt.Errorf("address: missing city")
	case strings.TrimSpace(a.State) == "":
		return fmt.Errorf("address: missing state")
	case strings.TrimSpace(a.PostalCode) == "":
		return fmt.Errorf("address: missing postalCode")
	}
	return nil
}
