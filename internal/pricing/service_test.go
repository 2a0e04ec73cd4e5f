package pricing

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/repairshop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/repairshop-backend/pkg/errors"
	"github.com/angelmondragon/repairshop-backend/pkg/metrics"
)

type stubCatalogLoader struct {
	catalog Catalog
	err     error
	calls   int
}

func (s *stubCatalogLoader) LoadPricingCatalog(ctx context.Context, modelID uuid.UUID) (Catalog, error) {
	s.calls++
	return s.catalog, s.err
}

type stubTermsLoader struct {
	terms Terms
	err   error
}

func (s stubTermsLoader) PricingTerms(ctx context.Context) (Terms, error) {
	return s.terms, s.err
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	if _, err := NewService(nil, stubTermsLoader{}, nil); err == nil {
		t.Fatal("expected error without catalog loader")
	}
	if _, err := NewService(&stubCatalogLoader{}, nil, nil); err == nil {
		t.Fatal("expected error without terms loader")
	}
}

func TestPreviewPricesSelection(t *testing.T) {
	loader := &stubCatalogLoader{catalog: iphone15Catalog()}
	terms := stubTermsLoader{terms: Terms{
		TaxPercentage: dec("8.5"),
		Rules: []Rule{{Name: "Two", Type: enums.DiscountTypePercentage, Value: dec("10"), Condition: MinRepairs{Count: 2}, Active: true}},
	}}
	svc, err := NewService(loader, terms, metrics.NewBookingMetrics(prometheus.NewRegistry()))
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	breakdown, err := svc.Preview(context.Background(), PreviewInput{
		ModelID:    uuid.New(),
		Selections: []Selection{{RepairID: screenID}, {RepairID: batteryID}},
	})
	if err != nil {
		t.Fatalf("preview: %v", err)
	}
	if !breakdown.Total.Equal(dec("195.30")) {
		t.Fatalf("expected total 195.30 got %s", breakdown.Total)
	}
	if loader.calls != 1 {
		t.Fatalf("expected one catalog load, got %d", loader.calls)
	}
}

func TestPreviewRejectsUnpricedRepair(t *testing.T) {
	svc, err := NewService(&stubCatalogLoader{catalog: iphone15Catalog()}, stubTermsLoader{}, nil)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	_, err = svc.Preview(context.Background(), PreviewInput{Selections: []Selection{{RepairID: cameraID}}})
	if !pkgerrors.IsCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestPreviewPropagatesLoaderErrors(t *testing.T) {
	notFound := pkgerrors.New(pkgerrors.CodeNotFound, "device model not found")
	svc, _ := NewService(&stubCatalogLoader{err: notFound}, stubTermsLoader{}, nil)
	if _, err := svc.Preview(context.Background(), PreviewInput{}); !errors.Is(err, notFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	boom := errors.New("settings down")
	svc, _ = NewService(&stubCatalogLoader{catalog: iphone15Catalog()}, stubTermsLoader{err: boom}, nil)
	if _, err := svc.Preview(context.Background(), PreviewInput{Selections: []Selection{{RepairID: screenID}}}); !errors.Is(err, boom) {
		t.Fatalf("expected settings error, got %v", err)
	}
}
