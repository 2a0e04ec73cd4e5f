package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/angelmondragon/repairshop-backend/pkg/enums"
)

// QualityOption is a catalog-level part tier expressed as a multiplier.
type QualityOption struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description,omitempty"`
	Duration        string          `json:"duration,omitempty"`
	PriceMultiplier decimal.Decimal `json:"priceMultiplier"`
}

// RepairItem is the catalog definition of a repair. Its base price only seeds
// model-level pricing; quotes never read it directly.
type RepairItem struct {
	ID                uuid.UUID                             `gorm:"column:id;type:uuid;primaryKey"`
	Name              string                                `gorm:"column:name;not null"`
	Description       *string                               `gorm:"column:description"`
	Icon              *string                               `gorm:"column:icon"`
	DeviceTypes       datatypes.JSONSlice[enums.DeviceType] `gorm:"column:device_types;type:jsonb"`
	BasePrice         decimal.Decimal                       `gorm:"column:base_price;type:numeric(10,2);not null;default:0"`
	Duration          string                                `gorm:"column:duration;not null;default:''"`
	HasQualityOptions bool                                  `gorm:"column:has_quality_options;not null;default:false"`
	QualityOptions    datatypes.JSONSlice[QualityOption]    `gorm:"column:quality_options;type:jsonb"`
	CreatedAt         time.Time                             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time                             `gorm:"column:updated_at;autoUpdateTime"`
}

func (r *RepairItem) BeforeCreate(*gorm.DB) error {
	ensureID(&r.ID)
	return nil
}
