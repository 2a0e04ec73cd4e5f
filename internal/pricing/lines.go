package pricing

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/repairshop-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/repairshop-backend/pkg/errors"
)

// Selection is one repair the customer picked, optionally with a part tier.
type Selection struct {
	RepairID      uuid.UUID
	QualityTierID string
}

// Line is a priced repair selection.
type Line struct {
	RepairID        uuid.UUID
	Name            string
	Duration        string
	UnitPrice       decimal.Decimal
	QualityTierID   string
	QualityTierName string
}

// Catalog is the pricing view of one device model: its own repair prices and
// the catalog items that supply repair metadata.
type Catalog struct {
	Model     *models.DeviceModel
	BrandName string
	Repairs   map[uuid.UUID]models.RepairItem
}

// LineResult is the outcome of resolving one selection against the catalog.
type LineResult struct {
	Line  Line
	Found bool
}

// Resolve prices a single selection. Prices come only from the model's own
// repairs; a missing, orphaned or catalog-deleted repair is not found.
func (c Catalog) Resolve(sel Selection) LineResult {
	if c.Model == nil {
		return LineResult{}
	}
	modelRepair, ok := c.modelRepair(sel.RepairID)
	if !ok {
		return LineResult{}
	}
	item, ok := c.Repairs[sel.RepairID]
	if !ok {
		return LineResult{}
	}

	line := Line{
		RepairID:  sel.RepairID,
		Name:      item.Name,
		Duration:  item.Duration,
		UnitPrice: modelRepair.BasePrice.Round(2),
	}
	if sel.QualityTierID == "" {
		return LineResult{Line: line, Found: true}
	}
	for _, tier := range modelRepair.QualityPrices {
		if tier.ID != sel.QualityTierID {
			continue
		}
		line.UnitPrice = tier.Price.Round(2)
		line.QualityTierID = tier.ID
		line.QualityTierName = tier.Name
		if tier.Duration != "" {
			line.Duration = tier.Duration
		}
		break
	}
	return LineResult{Line: line, Found: true}
}

// RepairByName finds a repair the model prices by its catalog name,
// ignoring case and surrounding space.
func (c Catalog) RepairByName(name string) (uuid.UUID, bool) {
	name = strings.TrimSpace(name)
	if c.Model == nil || name == "" {
		return uuid.Nil, false
	}
	for _, candidate := range c.Model.Repairs {
		if candidate.RepairID == nil {
			continue
		}
		item, ok := c.Repairs[*candidate.RepairID]
		if ok && strings.EqualFold(strings.TrimSpace(item.Name), name) {
			return item.ID, true
		}
	}
	return uuid.Nil, false
}

func (c Catalog) modelRepair(repairID uuid.UUID) (models.ModelRepair, bool) {
	for _, candidate := range c.Model.Repairs {
		if candidate.RepairID != nil && *candidate.RepairID == repairID {
			return candidate, true
		}
	}
	return models.ModelRepair{}, false
}

// PriceLines resolves every selection and fails closed: any selection the
// model does not price is reported as a validation error.
func (c Catalog) PriceLines(selections []Selection) ([]Line, error) {
	if len(selections) == 0 {
		return nil, pkgerrors.Validation("repairs", "at least one repair is required")
	}

	lines := make([]Line, 0, len(selections))
	details := map[string]string{}
	seen := make(map[uuid.UUID]struct{}, len(selections))
	for i, sel := range selections {
		field := fmt.Sprintf("repairs[%d]", i)
		if _, dup := seen[sel.RepairID]; dup {
			details[field] = fmt.Sprintf("repair %s selected more than once", sel.RepairID)
			continue
		}
		seen[sel.RepairID] = struct{}{}

		result := c.Resolve(sel)
		if !result.Found {
			details[field] = fmt.Sprintf("repair %s is not priced for this model", sel.RepairID)
			continue
		}
		lines = append(lines, result.Line)
	}
	if len(details) > 0 {
		return nil, pkgerrors.Invalid("one or more repairs cannot be priced", details)
	}
	return lines, nil
}

// Subtotal sums the unit prices of lines.
func Subtotal(lines []Line) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.UnitPrice)
	}
	return total.Round(2)
}
