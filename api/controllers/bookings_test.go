package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/angelmondragon/repairshop-backend/internal/availability"
	"github.com/angelmondragon/repairshop-backend/internal/bookings"
	"github.com/angelmondragon/repairshop-backend/pkg/db/models"
	"github.com/angelmondragon/repairshop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/repairshop-backend/pkg/errors"
)

func detailKeys(apiErr map[string]any) map[string]bool {
	keys := map[string]bool{}
	for k := range apiErr {
		keys[k] = true
	}
	return keys
}

func TestBookingSubmitMapsRequest(t *testing.T) {
	modelID := uuid.New()
	repairID := uuid.New()
	svc := &stubBookingService{created: &bookings.BookingDTO{ID: uuid.New(), Reference: "BK-123456"}}
	handler := BookingSubmit(svc, enums.NotificationKindQuoteConfirmation, nil)

	body := map[string]any{
		"firstName":       "Ada",
		"lastName":        "Lovelace",
		"email":           "ada@example.com",
		"phone":           "+15555550100",
		"modelId":         map[string]string{"_id": modelID.String()},
		"serviceMethod":   "location",
		"bookingDate":     "2025-06-02",
		"bookingTimeSlot": map[string]string{"id": "slot-0900"},
		"repairs": []map[string]any{
			{"repairId": repairID.String(), "partQuality": map[string]string{"id": "oem"}, "price": "1"},
		},
		"pricing": map[string]string{"subtotal": "189", "discount": "0", "tax": "16.07", "total": "205.07"},
		"notes":   "  cracked corner  ",
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, jsonRequest(t, http.MethodPost, "/api/v1/quote", body))

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	var got bookings.BookingDTO
	decodeData(t, rec, &got)
	if got.Reference != "BK-123456" {
		t.Fatalf("unexpected reference %q", got.Reference)
	}

	in := svc.input
	if in == nil {
		t.Fatal("service not called")
	}
	if in.Kind != enums.NotificationKindQuoteConfirmation {
		t.Fatalf("expected quote kind got %s", in.Kind)
	}
	if in.ModelID != modelID || in.BookingTimeSlot != "slot-0900" {
		t.Fatalf("references not unwrapped: %+v", in)
	}
	if len(in.Repairs) != 1 || in.Repairs[0].RepairID != repairID.String() || in.Repairs[0].PartQualityID != "oem" {
		t.Fatalf("unexpected repairs %+v", in.Repairs)
	}
	if in.Pricing == nil || in.Pricing.Total.String() != "205.07" {
		t.Fatalf("pricing claim not passed: %+v", in.Pricing)
	}
	if in.Notes != "cracked corner" {
		t.Fatalf("notes not sanitized: %q", in.Notes)
	}
}

func TestBookingSubmitValidation(t *testing.T) {
	cases := []struct {
		name string
		body any
		key  string
	}{
		{
			name: "missing email",
			body: map[string]any{"firstName": "a", "lastName": "b", "phone": "1", "modelId": uuid.NewString(), "serviceMethod": "pickup", "repairs": []map[string]string{{"repairId": uuid.NewString()}}},
			key:  "email",
		},
		{
			name: "bad service method",
			body: map[string]any{"firstName": "a", "lastName": "b", "email": "a@b.co", "phone": "1", "modelId": uuid.NewString(), "serviceMethod": "mail", "repairs": []map[string]string{{"repairId": uuid.NewString()}}},
			key:  "serviceMethod",
		},
		{
			name: "no repairs",
			body: map[string]any{"firstName": "a", "lastName": "b", "email": "a@b.co", "phone": "1", "modelId": uuid.NewString(), "serviceMethod": "pickup", "repairs": []string{}},
			key:  "repairs",
		},
		{
			name: "model not uuid",
			body: map[string]any{"firstName": "a", "lastName": "b", "email": "a@b.co", "phone": "1", "modelId": "iphone", "serviceMethod": "pickup", "repairs": []map[string]string{{"repairId": uuid.NewString()}}},
			key:  "modelId",
		},
		{
			name: "malformed json",
			body: `{"firstName":`,
			key:  "body",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubBookingService{}
			rec := httptest.NewRecorder()
			BookingSubmit(svc, enums.NotificationKindBookingConfirmation, nil).ServeHTTP(rec, jsonRequest(t, http.MethodPost, "/api/v1/bookings", tc.body))

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400 got %d", rec.Code)
			}
			apiErr := decodeError(t, rec)
			if apiErr.Code != string(pkgerrors.CodeValidation) {
				t.Fatalf("expected validation code got %s", apiErr.Code)
			}
			details, _ := apiErr.Details.(map[string]any)
			if !detailKeys(details)[tc.key] {
				t.Fatalf("expected detail %q in %v", tc.key, apiErr.Details)
			}
			if svc.input != nil {
				t.Fatal("service should not be called")
			}
		})
	}
}

func TestBookingSubmitConflict(t *testing.T) {
	svc := &stubBookingService{err: pkgerrors.New(pkgerrors.CodeConflict, "time slot is already booked")}
	body := map[string]any{
		"firstName": "a", "lastName": "b", "email": "a@b.co", "phone": "1",
		"modelId": uuid.NewString(), "serviceMethod": "location", "bookingDate": "2025-06-02",
		"bookingTimeSlot": "slot-0900", "repairs": []map[string]string{{"repairId": uuid.NewString()}},
	}
	rec := httptest.NewRecorder()
	BookingSubmit(svc, enums.NotificationKindBookingConfirmation, nil).ServeHTTP(rec, jsonRequest(t, http.MethodPost, "/api/v1/bookings", body))

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", rec.Code)
	}
	if msg := decodeError(t, rec).Message; msg != "time slot is already booked" {
		t.Fatalf("unexpected message %q", msg)
	}
}

func TestBookingAvailability(t *testing.T) {
	svc := &stubAvailability{day: &availability.Day{
		Date:           "2025-06-02",
		Open:           true,
		AvailableSlots: []string{"slot-1000"},
		BookedSlots:    []string{"slot-0900"},
		TimeSlots:      []models.TimeSlot{{ID: "slot-0900", Active: true}, {ID: "slot-1000", Active: true}},
		AllSlots: []availability.SlotStatus{
			{TimeSlot: models.TimeSlot{ID: "slot-0900", Active: true}, IsBooked: true},
			{TimeSlot: models.TimeSlot{ID: "slot-1000", Active: true}, IsAvailable: true},
		},
	}}
	rec := httptest.NewRecorder()
	BookingAvailability(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/bookings?date=2025-06-02", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.date != "2025-06-02" {
		t.Fatalf("date not forwarded: %q", svc.date)
	}
	var got struct {
		AvailableSlots []string `json:"availableSlots"`
		AllSlots       []struct {
			ID          string `json:"id"`
			IsAvailable bool   `json:"isAvailable"`
			IsBooked    bool   `json:"isBooked"`
		} `json:"allSlots"`
	}
	decodeData(t, rec, &got)
	if len(got.AllSlots) != 2 || !got.AllSlots[0].IsBooked || !got.AllSlots[1].IsAvailable {
		t.Fatalf("unexpected slots %+v", got.AllSlots)
	}
}

func TestBookingAvailabilityClosedDay(t *testing.T) {
	svc := &stubAvailability{day: &availability.Day{Date: "2025-06-08", Message: "The shop is closed on this day"}}
	rec := httptest.NewRecorder()
	BookingAvailability(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/bookings?date=2025-06-08", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var got map[string]any
	decodeData(t, rec, &got)
	if slots, ok := got["availableSlots"].([]any); !ok || len(slots) != 0 {
		t.Fatalf("expected empty availableSlots got %v", got["availableSlots"])
	}
	if _, ok := got["allSlots"]; ok {
		t.Fatal("closed day should omit allSlots")
	}
	if got["message"] != "The shop is closed on this day" {
		t.Fatalf("unexpected message %v", got["message"])
	}
}

func TestBookingAvailabilityRequiresDate(t *testing.T) {
	svc := &stubAvailability{}
	rec := httptest.NewRecorder()
	BookingAvailability(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
	if svc.date != "" {
		t.Fatal("service should not be called")
	}
}
