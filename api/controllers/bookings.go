package controllers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/repairshop-backend/api/responses"
	"github.com/angelmondragon/repairshop-backend/api/validators"
	"github.com/angelmondragon/repairshop-backend/internal/availability"
	"github.com/angelmondragon/repairshop-backend/internal/bookings"
	"github.com/angelmondragon/repairshop-backend/internal/pricing"
	"github.com/angelmondragon/repairshop-backend/pkg/db/models"
	"github.com/angelmondragon/repairshop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/repairshop-backend/pkg/errors"
	"github.com/angelmondragon/repairshop-backend/pkg/logger"
	"github.com/angelmondragon/repairshop-backend/pkg/types"
)

const maxNotesLength = 2000

// bookingRequest is the storefront submission. Device names and line prices
// sent by the client are accepted but ignored; the server snapshots them from
// the catalog.
type bookingRequest struct {
	FirstName        string                 `json:"firstName" validate:"required"`
	LastName         string                 `json:"lastName" validate:"required"`
	Email            string                 `json:"email" validate:"required,email"`
	Phone            string                 `json:"phone" validate:"required"`
	CustomerType     string                 `json:"customerType" validate:"omitempty,oneof=individual business"`
	BrandID          idRef                  `json:"brandId"`
	BrandName        string                 `json:"brandName"`
	ModelID          idRef                  `json:"modelId" validate:"required"`
	ModelName        string                 `json:"modelName"`
	ColorID          idRef                  `json:"colorId"`
	ColorName        string                 `json:"colorName"`
	DeviceType       string                 `json:"deviceType"`
	ServiceMethod    string                 `json:"serviceMethod" validate:"required,oneof=location pickup"`
	BookingDate      string                 `json:"bookingDate" validate:"omitempty,datetime=2006-01-02"`
	BookingTimeSlot  idRef                  `json:"bookingTimeSlot"`
	ShippingAddress  *types.ShippingAddress `json:"shippingAddress" validate:"omitempty"`
	Repairs          []bookingRepairRequest `json:"repairs" validate:"required,min=1,dive"`
	Pricing          *pricingClaim          `json:"pricing"`
	Notes            string                 `json:"notes"`
	SendConfirmation *bool                  `json:"sendConfirmation"`
}

type bookingRepairRequest struct {
	RepairID      idRef            `json:"repairId"`
	RepairName    string           `json:"repairName"`
	PartQualityID idRef            `json:"partQualityId"`
	PartQuality   idRef            `json:"partQuality"`
	Price         *decimal.Decimal `json:"price"`
	Duration      string           `json:"duration"`
}

func (r bookingRepairRequest) qualityID() string {
	if r.PartQualityID != "" {
		return r.PartQualityID.String()
	}
	return r.PartQuality.String()
}

type pricingClaim struct {
	Subtotal         decimal.Decimal `json:"subtotal"`
	Discount         decimal.Decimal `json:"discount"`
	DiscountRuleName *string         `json:"discountRuleName"`
	Tax              decimal.Decimal `json:"tax"`
	TaxPercentage    decimal.Decimal `json:"taxPercentage"`
	Total            decimal.Decimal `json:"total"`
}

func (r bookingRequest) toInput(kind enums.NotificationKind) (bookings.CreateInput, error) {
	modelID, err := uuid.Parse(r.ModelID.String())
	if err != nil {
		return bookings.CreateInput{}, pkgerrors.Validation("modelId", "must be a valid uuid")
	}

	input := bookings.CreateInput{
		Kind:             kind,
		FirstName:        r.FirstName,
		LastName:         r.LastName,
		Email:            r.Email,
		Phone:            r.Phone,
		CustomerType:     r.CustomerType,
		ModelID:          modelID,
		ColorID:          r.ColorID.String(),
		ServiceMethod:    r.ServiceMethod,
		BookingDate:      r.BookingDate,
		BookingTimeSlot:  r.BookingTimeSlot.String(),
		ShippingAddress:  r.ShippingAddress,
		Notes:            validators.SanitizeString(r.Notes, maxNotesLength),
		SendConfirmation: r.SendConfirmation,
		Repairs:          make([]bookings.RepairInput, 0, len(r.Repairs)),
	}
	for _, repair := range r.Repairs {
		input.Repairs = append(input.Repairs, bookings.RepairInput{
			RepairID:      repair.RepairID.String(),
			RepairName:    repair.RepairName,
			PartQualityID: repair.qualityID(),
		})
	}
	if r.Pricing != nil {
		input.Pricing = &pricing.Claimed{
			Subtotal: r.Pricing.Subtotal,
			Discount: r.Pricing.Discount,
			Tax:      r.Pricing.Tax,
			Total:    r.Pricing.Total,
		}
	}
	return input, nil
}

// BookingSubmit creates a booking. The storefront posts to both /bookings and
// /quote; kind selects the confirmation each sends.
func BookingSubmit(svc bookings.Service, kind enums.NotificationKind, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "booking service unavailable"))
			return
		}

		var payload bookingRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput(kind)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		booking, err := svc.Create(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, booking)
	}
}

type slotStatusResponse struct {
	models.TimeSlot
	IsAvailable bool `json:"isAvailable"`
	IsBooked    bool `json:"isBooked"`
}

type availabilityResponse struct {
	Date           string               `json:"date"`
	AvailableSlots []string             `json:"availableSlots"`
	BookedSlots    []string             `json:"bookedSlots"`
	TimeSlots      []models.TimeSlot    `json:"timeSlots,omitempty"`
	AllSlots       []slotStatusResponse `json:"allSlots,omitempty"`
	Message        string               `json:"message,omitempty"`
}

func toAvailabilityResponse(day *availability.Day) availabilityResponse {
	resp := availabilityResponse{
		Date:           day.Date,
		AvailableSlots: day.AvailableSlots,
		BookedSlots:    day.BookedSlots,
		Message:        day.Message,
	}
	if resp.AvailableSlots == nil {
		resp.AvailableSlots = []string{}
	}
	if resp.BookedSlots == nil {
		resp.BookedSlots = []string{}
	}
	if !day.Open {
		return resp
	}
	resp.TimeSlots = day.TimeSlots
	resp.AllSlots = make([]slotStatusResponse, 0, len(day.AllSlots))
	for _, slot := range day.AllSlots {
		resp.AllSlots = append(resp.AllSlots, slotStatusResponse{
			TimeSlot:    slot.TimeSlot,
			IsAvailable: slot.IsAvailable,
			IsBooked:    slot.IsBooked,
		})
	}
	return resp
}

// BookingAvailability reports the open and booked slots for ?date=YYYY-MM-DD.
func BookingAvailability(svc availability.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "availability service unavailable"))
			return
		}

		date := validators.QueryString(r, "date")
		if date == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Validation("date", "date query parameter is required"))
			return
		}

		day, err := svc.ForDate(r.Context(), date)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, toAvailabilityResponse(day))
	}
}
