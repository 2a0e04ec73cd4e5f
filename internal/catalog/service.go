package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/repairshop-backend/internal/pricing"
	"github.com/angelmondragon/repairshop-backend/pkg/db"
	"github.com/angelmondragon/repairshop-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/repairshop-backend/pkg/errors"
	"github.com/angelmondragon/repairshop-backend/pkg/logger"
)

const modelRepairIndex = "idx_model_repairs_model_repair"

// Service exposes the read-only catalog plus the admin attach operation.
type Service interface {
	ListBrands(ctx context.Context) ([]BrandDTO, error)
	ListModelsByBrand(ctx context.Context, brandID uuid.UUID) ([]ModelSummaryDTO, error)
	GetModel(ctx context.Context, modelID uuid.UUID) (*ModelDTO, error)
	LoadPricingCatalog(ctx context.Context, modelID uuid.UUID) (pricing.Catalog, error)
	AttachRepair(ctx context.Context, modelID uuid.UUID, input AttachRepairInput) (*ModelDTO, error)
}

// AttachRepairInput links a catalog repair to a model. A nil BasePrice uses
// the catalog item's base price.
type AttachRepairInput struct {
	RepairID  uuid.UUID
	BasePrice *decimal.Decimal
}

type service struct {
	repo Repository
	logg *logger.Logger
}

// NewService builds the catalog service.
func NewService(repo Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) ListBrands(ctx context.Context) ([]BrandDTO, error) {
	brands, err := s.repo.ListBrands(ctx, true)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list brands")
	}
	out := make([]BrandDTO, 0, len(brands))
	for _, b := range brands {
		out = append(out, toBrandDTO(b))
	}
	return out, nil
}

func (s *service) ListModelsByBrand(ctx context.Context, brandID uuid.UUID) ([]ModelSummaryDTO, error) {
	if _, err := s.repo.GetBrand(ctx, brandID); err != nil {
		return nil, wrapRead(err, "load brand")
	}
	rows, err := s.repo.ListModelsByBrand(ctx, brandID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list models")
	}
	out := make([]ModelSummaryDTO, 0, len(rows))
	for _, m := range rows {
		out = append(out, toModelSummaryDTO(m))
	}
	return out, nil
}

func (s *service) GetModel(ctx context.Context, modelID uuid.UUID) (*ModelDTO, error) {
	catalog, err := s.LoadPricingCatalog(ctx, modelID)
	if err != nil {
		return nil, err
	}
	dto := toModelDTO(*catalog.Model, catalog.Repairs)
	return &dto, nil
}

// LoadPricingCatalog returns the model with the catalog items its repairs
// reference. Items that no longer exist are absent from the map.
func (s *service) LoadPricingCatalog(ctx context.Context, modelID uuid.UUID) (pricing.Catalog, error) {
	model, err := s.repo.GetModel(ctx, modelID)
	if err != nil {
		return pricing.Catalog{}, wrapRead(err, "load device model")
	}

	brand, err := s.repo.GetBrand(ctx, model.BrandID)
	if err != nil {
		return pricing.Catalog{}, wrapRead(err, "load brand")
	}

	ids := make([]uuid.UUID, 0, len(model.Repairs))
	for _, mr := range model.Repairs {
		if mr.RepairID != nil {
			ids = append(ids, *mr.RepairID)
		}
	}
	items, err := s.repo.ListRepairItems(ctx, ids)
	if err != nil {
		return pricing.Catalog{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load repair items")
	}

	byID := make(map[uuid.UUID]models.RepairItem, len(items))
	for _, item := range items {
		byID[item.ID] = item
	}
	return pricing.Catalog{Model: model, BrandName: brand.Name, Repairs: byID}, nil
}

// AttachRepair seeds the model's quality prices from the catalog multipliers.
// They are stored as absolute prices and not recomputed afterwards.
func (s *service) AttachRepair(ctx context.Context, modelID uuid.UUID, input AttachRepairInput) (*ModelDTO, error) {
	if input.RepairID == uuid.Nil {
		return nil, pkgerrors.Validation("repairId", "repairId is required")
	}
	if input.BasePrice != nil && input.BasePrice.IsNegative() {
		return nil, pkgerrors.Validation("basePrice", "basePrice must be zero or greater")
	}

	if _, err := s.repo.GetModel(ctx, modelID); err != nil {
		return nil, wrapRead(err, "load device model")
	}
	item, err := s.repo.GetRepairItem(ctx, input.RepairID)
	if err != nil {
		return nil, wrapRead(err, "load repair")
	}

	exists, err := s.repo.ModelRepairExists(ctx, modelID, item.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check model repair")
	}
	if exists {
		return nil, attachConflict()
	}

	base := item.BasePrice
	if input.BasePrice != nil {
		base = *input.BasePrice
	}
	repairID := item.ID
	row := &models.ModelRepair{
		ModelID:       modelID,
		RepairID:      &repairID,
		BasePrice:     base.Round(2),
		QualityPrices: SeedQualityPrices(base, *item),
	}
	if err := s.repo.CreateModelRepair(ctx, row); err != nil {
		if db.IsUniqueViolation(err, modelRepairIndex, "model_repairs.model_id") {
			return nil, attachConflict()
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "attach repair")
	}

	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"model_id":  modelID.String(),
		"repair_id": item.ID.String(),
	}), "repair attached to model")

	return s.GetModel(ctx, modelID)
}

// SeedQualityPrices turns catalog multipliers into absolute tier prices.
func SeedQualityPrices(base decimal.Decimal, item models.RepairItem) []models.QualityPrice {
	if !item.HasQualityOptions {
		return []models.QualityPrice{}
	}
	out := make([]models.QualityPrice, 0, len(item.QualityOptions))
	for _, opt := range item.QualityOptions {
		out = append(out, models.QualityPrice{
			ID:          opt.ID,
			Name:        opt.Name,
			Description: opt.Description,
			Duration:    opt.Duration,
			Price:       base.Mul(opt.PriceMultiplier).Round(2),
		})
	}
	return out
}

func attachConflict() error {
	return pkgerrors.New(pkgerrors.CodeConflict, "repair already attached to model").
		WithDetails(map[string]string{"repairId": "repair already attached to model"})
}

func wrapRead(err error, message string) error {
	if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, message)
}
