package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/angelmondragon/repairshop-backend/internal/bookings"
	"github.com/angelmondragon/repairshop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/repairshop-backend/pkg/errors"
	"github.com/angelmondragon/repairshop-backend/pkg/pagination"
)

func TestAdminBookingListForwardsFilters(t *testing.T) {
	svc := &stubBookingService{page: &pagination.Page[bookings.BookingDTO]{
		Items:      []bookings.BookingDTO{{Reference: "BK-000001"}},
		NextCursor: "next",
	}}
	rec := httptest.NewRecorder()
	AdminBookingList(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/v1/bookings?status=pending&date=2025-06-02&limit=10&cursor=abc", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	want := bookings.ListInput{Status: "pending", Date: "2025-06-02", Limit: 10, Cursor: "abc"}
	if svc.list == nil || *svc.list != want {
		t.Fatalf("expected %+v got %+v", want, svc.list)
	}
}

func TestAdminBookingListLimitBounds(t *testing.T) {
	for _, raw := range []string{"0", "101", "ten"} {
		svc := &stubBookingService{}
		rec := httptest.NewRecorder()
		AdminBookingList(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/v1/bookings?limit="+raw, nil))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("limit %s: expected 400 got %d", raw, rec.Code)
		}
		if svc.list != nil {
			t.Fatalf("limit %s: service should not be called", raw)
		}
	}
}

func TestAdminBookingStatus(t *testing.T) {
	id := uuid.New()
	svc := &stubBookingService{created: &bookings.BookingDTO{ID: id, Status: enums.BookingStatusConfirmed}}
	req := withURLParams(jsonRequest(t, http.MethodPatch, "/", map[string]string{"status": "confirmed"}), map[string]string{"bookingId": id.String()})
	rec := httptest.NewRecorder()
	AdminBookingStatus(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	if svc.status != "confirmed" {
		t.Fatalf("status not forwarded: %q", svc.status)
	}
}

func TestAdminBookingStatusTransitionRejected(t *testing.T) {
	id := uuid.New()
	svc := &stubBookingService{err: pkgerrors.New(pkgerrors.CodeStateConflict, "cannot move a completed booking to pending")}
	req := withURLParams(jsonRequest(t, http.MethodPatch, "/", map[string]string{"status": "pending"}), map[string]string{"bookingId": id.String()})
	rec := httptest.NewRecorder()
	AdminBookingStatus(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", rec.Code)
	}
}

func TestAdminBookingStatusRequiresBody(t *testing.T) {
	id := uuid.New()
	svc := &stubBookingService{}
	req := withURLParams(jsonRequest(t, http.MethodPatch, "/", map[string]string{}), map[string]string{"bookingId": id.String()})
	rec := httptest.NewRecorder()
	AdminBookingStatus(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestAdminBookingDetailAndDelete(t *testing.T) {
	id := uuid.New()
	svc := &stubBookingService{created: &bookings.BookingDTO{ID: id, Reference: "BK-000001"}}

	rec := httptest.NewRecorder()
	AdminBookingDetail(svc, nil).ServeHTTP(rec, withURLParams(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"bookingId": id.String()}))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	AdminBookingDelete(svc, nil).ServeHTTP(rec, withURLParams(httptest.NewRequest(http.MethodDelete, "/", nil), map[string]string{"bookingId": id.String()}))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 got %d", rec.Code)
	}
	if svc.deleted != id {
		t.Fatalf("expected delete of %s got %s", id, svc.deleted)
	}

	rec = httptest.NewRecorder()
	AdminBookingDelete(svc, nil).ServeHTTP(rec, withURLParams(httptest.NewRequest(http.MethodDelete, "/", nil), map[string]string{"bookingId": "nope"}))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}
