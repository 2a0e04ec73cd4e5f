package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/angelmondragon/repairshop-backend/pkg/enums"
)

// Color is a finish a device model ships in.
type Color struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Hex  string `json:"hex"`
}

// QualityPrice is a resolved absolute price for one part tier on a model.
type QualityPrice struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Duration    string          `json:"duration,omitempty"`
	Price       decimal.Decimal `json:"price"`
}

// DeviceModel is a concrete device, e.g. "iPhone 15".
type DeviceModel struct {
	ID         uuid.UUID                   `gorm:"column:id;type:uuid;primaryKey"`
	Name       string                      `gorm:"column:name;not null"`
	BrandID    uuid.UUID                   `gorm:"column:brand_id;type:uuid;not null;index"`
	DeviceType enums.DeviceType            `gorm:"column:device_type;type:varchar(32);not null"`
	Image      *string                     `gorm:"column:image"`
	Variants   datatypes.JSONSlice[string] `gorm:"column:variants;type:jsonb"`
	Colors     datatypes.JSONSlice[Color]  `gorm:"column:colors;type:jsonb"`
	Repairs    []ModelRepair               `gorm:"foreignKey:ModelID"`
	CreatedAt  time.Time                   `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time                   `gorm:"column:updated_at;autoUpdateTime"`
}

func (m *DeviceModel) BeforeCreate(*gorm.DB) error {
	ensureID(&m.ID)
	return nil
}

// ModelRepair is the model-specific pricing of a catalog repair. RepairID is
// nil once the catalog item it pointed at has been deleted.
type ModelRepair struct {
	ID            uuid.UUID                         `gorm:"column:id;type:uuid;primaryKey"`
	ModelID       uuid.UUID                         `gorm:"column:model_id;type:uuid;not null;uniqueIndex:idx_model_repairs_model_repair"`
	RepairID      *uuid.UUID                        `gorm:"column:repair_id;type:uuid;uniqueIndex:idx_model_repairs_model_repair"`
	BasePrice     decimal.Decimal                   `gorm:"column:base_price;type:numeric(10,2);not null"`
	QualityPrices datatypes.JSONSlice[QualityPrice] `gorm:"column:quality_prices;type:jsonb"`
	CreatedAt     time.Time                         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time                         `gorm:"column:updated_at;autoUpdateTime"`
}

func (r *ModelRepair) BeforeCreate(*gorm.DB) error {
	ensureID(&r.ID)
	return nil
}
