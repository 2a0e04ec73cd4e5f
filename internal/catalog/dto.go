package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/repairshop-backend/pkg/db/models"
	"github.com/angelmondragon/repairshop-backend/pkg/enums"
)

// BrandDTO is the storefront view of a brand.
type BrandDTO struct {
	ID          uuid.UUID          `json:"id"`
	Name        string             `json:"name"`
	Active      bool               `json:"active"`
	DeviceTypes []enums.DeviceType `json:"deviceTypes"`
}

// ModelSummaryDTO is a model as listed under its brand.
type ModelSummaryDTO struct {
	ID         uuid.UUID        `json:"id"`
	Name       string           `json:"name"`
	BrandID    uuid.UUID        `json:"brandId"`
	DeviceType enums.DeviceType `json:"deviceType"`
	Image      *string          `json:"image,omitempty"`
}

// ModelDTO is the full model with the repairs it can be quoted for.
type ModelDTO struct {
	ModelSummaryDTO
	Variants []string         `json:"variants"`
	Colors   []models.Color   `json:"colors"`
	Repairs  []ModelRepairDTO `json:"repairs"`
}

// ModelRepairDTO joins model pricing with catalog metadata.
type ModelRepairDTO struct {
	RepairID          uuid.UUID             `json:"repairId"`
	Name              string                `json:"name"`
	Description       *string               `json:"description,omitempty"`
	Icon              *string               `json:"icon,omitempty"`
	Duration          string                `json:"duration"`
	BasePrice         decimal.Decimal       `json:"basePrice"`
	HasQualityOptions bool                  `json:"hasQualityOptions"`
	QualityPrices     []models.QualityPrice `json:"qualityPrices"`
}

func toBrandDTO(b models.Brand) BrandDTO {
	types := []enums.DeviceType(b.DeviceTypes)
	if types == nil {
		types = []enums.DeviceType{}
	}
	return BrandDTO{ID: b.ID, Name: b.Name, Active: b.Active, DeviceTypes: types}
}

func toModelSummaryDTO(m models.DeviceModel) ModelSummaryDTO {
	return ModelSummaryDTO{
		ID:         m.ID,
		Name:       m.Name,
		BrandID:    m.BrandID,
		DeviceType: m.DeviceType,
		Image:      m.Image,
	}
}

// toModelDTO drops model repairs that no longer reference a catalog item.
func toModelDTO(m models.DeviceModel, items map[uuid.UUID]models.RepairItem) ModelDTO {
	dto := ModelDTO{
		ModelSummaryDTO: toModelSummaryDTO(m),
		Variants:        append([]string{}, m.Variants...),
		Colors:          append([]models.Color{}, m.Colors...),
		Repairs:         make([]ModelRepairDTO, 0, len(m.Repairs)),
	}
	for _, mr := range m.Repairs {
		if mr.RepairID == nil {
			continue
		}
		item, ok := items[*mr.RepairID]
		if !ok {
			continue
		}
		dto.Repairs = append(dto.Repairs, ModelRepairDTO{
			RepairID:          item.ID,
			Name:              item.Name,
			Description:       item.Description,
			Icon:              item.Icon,
			Duration:          item.Duration,
			BasePrice:         mr.BasePrice.Round(2),
			HasQualityOptions: len(mr.QualityPrices) > 0,
			QualityPrices:     append([]models.QualityPrice{}, mr.QualityPrices...),
		})
	}
	return dto
}
