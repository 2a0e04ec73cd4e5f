package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/angelmondragon/repairshop-backend/pkg/enums"
)

// Brand is a device manufacturer offered in the storefront.
type Brand struct {
	ID          uuid.UUID                             `gorm:"column:id;type:uuid;primaryKey"`
	Name        string                                `gorm:"column:name;not null"`
	Active      bool                                  `gorm:"column:active;not null;default:true"`
	DeviceTypes datatypes.JSONSlice[enums.DeviceType] `gorm:"column:device_types;type:jsonb"`
	CreatedAt   time.Time                             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time                             `gorm:"column:updated_at;autoUpdateTime"`
}

func (b *Brand) BeforeCreate(*gorm.DB) error {
	ensureID(&b.ID)
	return nil
}
