package controllers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/angelmondragon/repairshop-backend/internal/catalog"
	"github.com/angelmondragon/repairshop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/repairshop-backend/pkg/errors"
)

func TestCatalogBrands(t *testing.T) {
	svc := &stubCatalogService{brands: []catalog.BrandDTO{{ID: uuid.New(), Name: "Apple", Active: true, DeviceTypes: []enums.DeviceType{enums.DeviceTypeSmartphone}}}}
	rec := httptest.NewRecorder()
	CatalogBrands(svc, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/brands", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", rec.Code)
	}
	var got []catalog.BrandDTO
	decodeData(t, rec, &got)
	if len(got) != 1 || got[0].Name != "Apple" {
		t.Fatalf("unexpected brands %+v", got)
	}
}

func TestCatalogBrandModelsRejectsBadID(t *testing.T) {
	req := withURLParams(httptest.NewRequest(http.MethodGet, "/api/v1/catalog/brands/x/models", nil), map[string]string{"brandId": "x"})
	rec := httptest.NewRecorder()
	CatalogBrandModels(&stubCatalogService{}, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}

func TestCatalogModelNotFound(t *testing.T) {
	id := uuid.NewString()
	req := withURLParams(httptest.NewRequest(http.MethodGet, "/api/v1/catalog/models/"+id, nil), map[string]string{"modelId": id})
	rec := httptest.NewRecorder()
	CatalogModel(&stubCatalogService{err: pkgerrors.New(pkgerrors.CodeNotFound, "model not found")}, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", rec.Code)
	}
}

func TestAdminAttachRepair(t *testing.T) {
	modelID := uuid.New()
	repairID := uuid.New()
	svc := &stubCatalogService{model: &catalog.ModelDTO{ModelSummaryDTO: catalog.ModelSummaryDTO{ID: modelID, Name: "iPhone 15"}}}
	req := jsonRequest(t, http.MethodPost, "/api/admin/v1/catalog/models/"+modelID.String()+"/repairs", map[string]any{
		"repairId":  map[string]string{"_id": repairID.String()},
		"basePrice": "149.99",
	})
	req = withURLParams(req, map[string]string{"modelId": modelID.String()})
	rec := httptest.NewRecorder()
	AdminAttachRepair(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.attach == nil || svc.attach.RepairID != repairID {
		t.Fatalf("repair not forwarded: %+v", svc.attach)
	}
	if svc.attach.BasePrice == nil || svc.attach.BasePrice.String() != "149.99" {
		t.Fatalf("base price not forwarded: %+v", svc.attach.BasePrice)
	}
}

func TestAdminAttachRepairDuplicate(t *testing.T) {
	modelID := uuid.New()
	svc := &stubCatalogService{err: pkgerrors.New(pkgerrors.CodeConflict, "repair already attached")}
	req := jsonRequest(t, http.MethodPost, "/", map[string]any{"repairId": uuid.NewString()})
	req = withURLParams(req, map[string]string{"modelId": modelID.String()})
	rec := httptest.NewRecorder()
	AdminAttachRepair(svc, nil).ServeHTTP(rec, req)

	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d", rec.Code)
	}
	if svc.attach.BasePrice != nil {
		t.Fatal("expected nil base price")
	}
}
