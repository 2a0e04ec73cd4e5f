package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelmondragon/repairshop-backend/api/responses"
	"github.com/angelmondragon/repairshop-backend/internal/availability"
	"github.com/angelmondragon/repairshop-backend/internal/bookings"
	"github.com/angelmondragon/repairshop-backend/internal/catalog"
	"github.com/angelmondragon/repairshop-backend/internal/pricing"
	"github.com/angelmondragon/repairshop-backend/internal/settings"
	"github.com/angelmondragon/repairshop-backend/pkg/pagination"
)

type stubBookingService struct {
	created *bookings.BookingDTO
	page    *pagination.Page[bookings.BookingDTO]
	err     error
	input   *bookings.CreateInput
	list    *bookings.ListInput
	status  string
	deleted uuid.UUID
}

func (s *stubBookingService) Create(_ context.Context, input bookings.CreateInput) (*bookings.BookingDTO, error) {
	s.input = &input
	return s.created, s.err
}

func (s *stubBookingService) List(_ context.Context, input bookings.ListInput) (*pagination.Page[bookings.BookingDTO], error) {
	s.list = &input
	return s.page, s.err
}

func (s *stubBookingService) Get(_ context.Context, _ uuid.UUID) (*bookings.BookingDTO, error) {
	return s.created, s.err
}

func (s *stubBookingService) UpdateStatus(_ context.Context, _ uuid.UUID, status string) (*bookings.BookingDTO, error) {
	s.status = status
	return s.created, s.err
}

func (s *stubBookingService) Delete(_ context.Context, id uuid.UUID) error {
	s.deleted = id
	return s.err
}

type stubAvailability struct {
	day  *availability.Day
	err  error
	date string
}

func (s *stubAvailability) ForDate(_ context.Context, date string) (*availability.Day, error) {
	s.date = date
	return s.day, s.err
}

type stubPricing struct {
	breakdown *pricing.Breakdown
	err       error
	input     *pricing.PreviewInput
}

func (s *stubPricing) Preview(_ context.Context, input pricing.PreviewInput) (*pricing.Breakdown, error) {
	s.input = &input
	return s.breakdown, s.err
}

type stubCatalogService struct {
	brands []catalog.BrandDTO
	models []catalog.ModelSummaryDTO
	model  *catalog.ModelDTO
	err    error
	attach *catalog.AttachRepairInput
}

func (s *stubCatalogService) ListBrands(context.Context) ([]catalog.BrandDTO, error) {
	return s.brands, s.err
}

func (s *stubCatalogService) ListModelsByBrand(context.Context, uuid.UUID) ([]catalog.ModelSummaryDTO, error) {
	return s.models, s.err
}

func (s *stubCatalogService) GetModel(context.Context, uuid.UUID) (*catalog.ModelDTO, error) {
	return s.model, s.err
}

func (s *stubCatalogService) LoadPricingCatalog(context.Context, uuid.UUID) (pricing.Catalog, error) {
	return pricing.Catalog{}, s.err
}

func (s *stubCatalogService) AttachRepair(_ context.Context, _ uuid.UUID, input catalog.AttachRepairInput) (*catalog.ModelDTO, error) {
	s.attach = &input
	return s.model, s.err
}

type stubSettingsService struct {
	current *settings.Settings
	err     error
	update  *settings.UpdateInput
}

func (s *stubSettingsService) Get(context.Context) (*settings.Settings, error) {
	return s.current, s.err
}

func (s *stubSettingsService) Update(_ context.Context, input settings.UpdateInput) (*settings.Settings, error) {
	s.update = &input
	return s.current, s.err
}

func (s *stubSettingsService) PricingTerms(context.Context) (pricing.Terms, error) {
	return pricing.Terms{}, s.err
}

func (s *stubSettingsService) Schedule(context.Context) (availability.Schedule, error) {
	return availability.Schedule{}, s.err
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func withURLParams(req *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) responses.ErrorBody {
	t.Helper()
	var envelope responses.ErrorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	return envelope.Error
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dest any) {
	t.Helper()
	envelope := struct {
		Data any `json:"data"`
	}{Data: dest}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode success envelope: %v", err)
	}
}
