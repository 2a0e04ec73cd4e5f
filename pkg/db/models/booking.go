package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/angelmondragon/repairshop-backend/pkg/enums"
	"github.com/angelmondragon/repairshop-backend/pkg/types"
)

const (
	// BookingActiveSlotIndex guards a date and slot against double booking.
	BookingActiveSlotIndex = "idx_bookings_active_slot"
	// BookingReferenceIndex keeps human-readable references unique.
	BookingReferenceIndex = "idx_bookings_reference"
)

// Booking is a priced repair request. Device and repair details are
// snapshots taken at submission time.
type Booking struct {
	ID           uuid.UUID          `gorm:"column:id;type:uuid;primaryKey"`
	Reference    string             `gorm:"column:reference;type:varchar(32);not null;uniqueIndex:idx_bookings_reference"`
	FirstName    string             `gorm:"column:first_name;not null"`
	LastName     string             `gorm:"column:last_name;not null"`
	Email        string             `gorm:"column:email;not null"`
	Phone        string             `gorm:"column:phone;not null"`
	CustomerType enums.CustomerType `gorm:"column:customer_type;type:varchar(32);not null;default:'individual'"`

	BrandID    *uuid.UUID       `gorm:"column:brand_id;type:uuid"`
	BrandName  string           `gorm:"column:brand_name;not null;default:''"`
	ModelID    *uuid.UUID       `gorm:"column:model_id;type:uuid"`
	ModelName  string           `gorm:"column:model_name;not null;default:''"`
	ColorID    *string          `gorm:"column:color_id"`
	ColorName  *string          `gorm:"column:color_name"`
	DeviceType enums.DeviceType `gorm:"column:device_type;type:varchar(32)"`

	ServiceMethod        enums.ServiceMethod                        `gorm:"column:service_method;type:varchar(16);not null"`
	BookingDate          *string                                    `gorm:"column:booking_date;type:varchar(10);uniqueIndex:idx_bookings_active_slot,where:status <> 'cancelled'"`
	BookingTimeSlotID    *string                                    `gorm:"column:booking_time_slot_id;type:varchar(64);uniqueIndex:idx_bookings_active_slot"`
	BookingTimeSlotLabel *string                                    `gorm:"column:booking_time_slot_label"`
	ShippingAddress      datatypes.JSONType[*types.ShippingAddress] `gorm:"column:shipping_address;type:jsonb"`

	Subtotal         decimal.Decimal `gorm:"column:subtotal;type:numeric(10,2);not null"`
	Discount         decimal.Decimal `gorm:"column:discount;type:numeric(10,2);not null;default:0"`
	DiscountRuleName *string         `gorm:"column:discount_rule_name"`
	Tax              decimal.Decimal `gorm:"column:tax;type:numeric(10,2);not null;default:0"`
	TaxPercentage    decimal.Decimal `gorm:"column:tax_percentage;type:numeric(5,2);not null;default:0"`
	Total            decimal.Decimal `gorm:"column:total;type:numeric(10,2);not null"`

	Notes     *string             `gorm:"column:notes"`
	Status    enums.BookingStatus `gorm:"column:status;type:varchar(16);not null;default:'pending';index"`
	Repairs   []BookingRepair     `gorm:"foreignKey:BookingID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

func (b *Booking) BeforeCreate(*gorm.DB) error {
	ensureID(&b.ID)
	return nil
}

// BookingRepair is one priced repair line of a booking.
type BookingRepair struct {
	ID              uuid.UUID       `gorm:"column:id;type:uuid;primaryKey"`
	BookingID       uuid.UUID       `gorm:"column:booking_id;type:uuid;not null;index"`
	Position        int             `gorm:"column:position;not null;default:0"`
	RepairID        uuid.UUID       `gorm:"column:repair_id;type:uuid;not null"`
	RepairName      string          `gorm:"column:repair_name;not null"`
	Price           decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	Duration        string          `gorm:"column:duration;not null;default:''"`
	PartQualityID   *string         `gorm:"column:part_quality_id"`
	PartQualityName *string         `gorm:"column:part_quality_name"`
}

func (r *BookingRepair) BeforeCreate(*gorm.DB) error {
	ensureID(&r.ID)
	return nil
}
