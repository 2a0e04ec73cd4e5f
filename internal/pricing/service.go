package pricing

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/angelmondragon/repairshop-backend/pkg/metrics"
)

type catalogLoader interface {
	LoadPricingCatalog(ctx context.Context, modelID uuid.UUID) (Catalog, error)
}

type termsLoader interface {
	PricingTerms(ctx context.Context) (Terms, error)
}

// Service computes quote previews without persisting anything.
type Service interface {
	Preview(ctx context.Context, input PreviewInput) (*Breakdown, error)
}

// PreviewInput identifies the device and the repairs to price.
type PreviewInput struct {
	ModelID    uuid.UUID
	Selections []Selection
}

type service struct {
	catalog catalogLoader
	terms   termsLoader
	metrics *metrics.BookingMetrics
}

// NewService builds a pricing service from the catalog and settings loaders.
func NewService(catalog catalogLoader, terms termsLoader, m *metrics.BookingMetrics) (Service, error) {
	if catalog == nil {
		return nil, fmt.Errorf("catalog loader required")
	}
	if terms == nil {
		return nil, fmt.Errorf("terms loader required")
	}
	return &service{catalog: catalog, terms: terms, metrics: m}, nil
}

func (s *service) Preview(ctx context.Context, input PreviewInput) (*Breakdown, error) {
	catalog, err := s.catalog.LoadPricingCatalog(ctx, input.ModelID)
	if err != nil {
		s.metrics.IncQuote(metrics.QuoteOutcomeRejected)
		return nil, err
	}
	terms, err := s.terms.PricingTerms(ctx)
	if err != nil {
		return nil, err
	}
	breakdown, err := Quote(catalog, input.Selections, terms)
	if err != nil {
		s.metrics.IncQuote(metrics.QuoteOutcomeRejected)
		return nil, err
	}
	s.metrics.IncQuote(metrics.QuoteOutcomePriced)
	return breakdown, nil
}
