package bookings

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/repairshop-backend/internal/pricing"
	"github.com/angelmondragon/repairshop-backend/pkg/db/models"
	"github.com/angelmondragon/repairshop-backend/pkg/enums"
	"github.com/angelmondragon/repairshop-backend/pkg/types"
)

// CreateInput is a booking submission after transport decoding.
type CreateInput struct {
	Kind             enums.NotificationKind
	FirstName        string
	LastName         string
	Email            string
	Phone            string
	CustomerType     string
	ModelID          uuid.UUID
	ColorID          string
	ServiceMethod    string
	BookingDate      string
	BookingTimeSlot  string
	ShippingAddress  *types.ShippingAddress
	Repairs          []RepairInput
	Pricing          *pricing.Claimed
	Notes            string
	SendConfirmation *bool
}

// RepairInput references a repair by id, falling back to its name.
type RepairInput struct {
	RepairID      string
	RepairName    string
	PartQualityID string
}

// ListInput filters the admin booking list.
type ListInput struct {
	Status string
	Date   string
	Limit  int
	Cursor string
}

// BookingDTO is the API view of a booking.
type BookingDTO struct {
	ID              uuid.UUID              `json:"id"`
	Reference       string                 `json:"reference"`
	FirstName       string                 `json:"firstName"`
	LastName        string                 `json:"lastName"`
	Email           string                 `json:"email"`
	Phone           string                 `json:"phone"`
	CustomerType    enums.CustomerType     `json:"customerType"`
	BrandID         *uuid.UUID             `json:"brandId,omitempty"`
	BrandName       string                 `json:"brandName"`
	ModelID         *uuid.UUID             `json:"modelId,omitempty"`
	ModelName       string                 `json:"modelName"`
	ColorID         *string                `json:"colorId,omitempty"`
	ColorName       *string                `json:"colorName,omitempty"`
	DeviceType      enums.DeviceType       `json:"deviceType,omitempty"`
	ServiceMethod   enums.ServiceMethod    `json:"serviceMethod"`
	BookingDate     *string                `json:"bookingDate,omitempty"`
	BookingTimeSlot *TimeSlotDTO           `json:"bookingTimeSlot,omitempty"`
	ShippingAddress *types.ShippingAddress `json:"shippingAddress,omitempty"`
	Repairs         []RepairLineDTO        `json:"repairs"`
	Pricing         PricingDTO             `json:"pricing"`
	Notes           *string                `json:"notes,omitempty"`
	Status          enums.BookingStatus    `json:"status"`
	CreatedAt       time.Time              `json:"createdAt"`
	UpdatedAt       time.Time              `json:"updatedAt"`
}

// TimeSlotDTO is the booked slot id with its label at booking time.
type TimeSlotDTO struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

// RepairLineDTO is one priced repair of a booking.
type RepairLineDTO struct {
	RepairID    uuid.UUID       `json:"repairId"`
	RepairName  string          `json:"repairName"`
	Price       decimal.Decimal `json:"price"`
	Duration    string          `json:"duration,omitempty"`
	PartQuality *PartQualityDTO `json:"partQuality,omitempty"`
}

// PartQualityDTO names the part tier chosen for a repair.
type PartQualityDTO struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PricingDTO is the price snapshot stored with a booking.
type PricingDTO struct {
	Subtotal         decimal.Decimal `json:"subtotal"`
	Discount         decimal.Decimal `json:"discount"`
	DiscountRuleName *string         `json:"discountRuleName,omitempty"`
	Tax              decimal.Decimal `json:"tax"`
	TaxPercentage    decimal.Decimal `json:"taxPercentage"`
	Total            decimal.Decimal `json:"total"`
}

// ToDTO maps a stored booking to its API shape.
func ToDTO(b models.Booking) BookingDTO {
	dto := BookingDTO{
		ID:              b.ID,
		Reference:       b.Reference,
		FirstName:       b.FirstName,
		LastName:        b.LastName,
		Email:           b.Email,
		Phone:           b.Phone,
		CustomerType:    b.CustomerType,
		BrandID:         b.BrandID,
		BrandName:       b.BrandName,
		ModelID:         b.ModelID,
		ModelName:       b.ModelName,
		ColorID:         b.ColorID,
		ColorName:       b.ColorName,
		DeviceType:      b.DeviceType,
		ServiceMethod:   b.ServiceMethod,
		BookingDate:     b.BookingDate,
		ShippingAddress: b.ShippingAddress.Data(),
		Repairs:         make([]RepairLineDTO, 0, len(b.Repairs)),
		Pricing: PricingDTO{
			Subtotal:         b.Subtotal,
			Discount:         b.Discount,
			DiscountRuleName: b.DiscountRuleName,
			Tax:              b.Tax,
			TaxPercentage:    b.TaxPercentage,
			Total:            b.Total,
		},
		Notes:     b.Notes,
		Status:    b.Status,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
	if b.BookingTimeSlotID != nil {
		slot := &TimeSlotDTO{ID: *b.BookingTimeSlotID}
		if b.BookingTimeSlotLabel != nil {
			slot.Label = *b.BookingTimeSlotLabel
		}
		dto.BookingTimeSlot = slot
	}
	for _, line := range b.Repairs {
		out := RepairLineDTO{
			RepairID:   line.RepairID,
			RepairName: line.RepairName,
			Price:      line.Price,
			Duration:   line.Duration,
		}
		if line.PartQualityID != nil {
			quality := &PartQualityDTO{ID: *line.PartQualityID}
			if line.PartQualityName != nil {
				quality.Name = *line.PartQualityName
			}
			out.PartQuality = quality
		}
		dto.Repairs = append(dto.Repairs, out)
	}
	return dto
}
