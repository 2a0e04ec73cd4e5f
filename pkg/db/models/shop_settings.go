package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"

	"github.com/angelmondragon/repairshop-backend/pkg/enums"
)

// ShopSettingsID is the primary key of the singleton settings row.
const ShopSettingsID = 1

// StoredDiscountRule is the persisted JSON shape of a discount rule. Legacy
// rows may lack a condition; the settings service normalises them on load.
type StoredDiscountRule struct {
	ID              string                   `json:"id"`
	Name            string                   `json:"name"`
	Description     string                   `json:"description,omitempty"`
	Type            enums.DiscountType       `json:"type"`
	Value           decimal.Decimal          `json:"value"`
	Condition       *enums.DiscountCondition `json:"condition,omitempty"`
	MinRepairs      *int                     `json:"minRepairs,omitempty"`
	MinSubtotal     *decimal.Decimal         `json:"minSubtotal,omitempty"`
	SpecificRepairs []string                 `json:"specificRepairs,omitempty"`
	Active          bool                     `json:"active"`
}

// TimeSlot is a bookable window on an open day.
type TimeSlot struct {
	ID        string `json:"id"`
	Label     string `json:"label"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	Active    bool   `json:"active"`
}

// ShopSettings holds tax, discount and scheduling configuration.
type ShopSettings struct {
	ID            int                                     `gorm:"column:id;primaryKey;autoIncrement:false"`
	TaxPercentage decimal.Decimal                         `gorm:"column:tax_percentage;type:numeric(5,2);not null;default:0"`
	DiscountRules datatypes.JSONSlice[StoredDiscountRule] `gorm:"column:discount_rules;type:jsonb"`
	TimeSlots     datatypes.JSONSlice[TimeSlot]           `gorm:"column:time_slots;type:jsonb"`
	OperatingDays datatypes.JSONSlice[int]                `gorm:"column:operating_days;type:jsonb"`
	ClosedDates   datatypes.JSONSlice[string]             `gorm:"column:closed_dates;type:jsonb"`
	CreatedAt     time.Time                               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time                               `gorm:"column:updated_at;autoUpdateTime"`
}

func (ShopSettings) TableName() string {
	return "shop_settings"
}
