package catalog

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/angelmondragon/repairshop-backend/pkg/db/models"
	"github.com/angelmondragon/repairshop-backend/pkg/enums"
)

// SeedDevData loads a small demo catalog into an empty database. It returns
// false when brands already exist.
func SeedDevData(ctx context.Context, conn *gorm.DB) (bool, error) {
	var count int64
	if err := conn.WithContext(ctx).Model(&models.Brand{}).Count(&count).Error; err != nil {
		return false, fmt.Errorf("count brands: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	err := conn.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		apple := models.Brand{
			Name:        "Apple",
			Active:      true,
			DeviceTypes: []enums.DeviceType{enums.DeviceTypeSmartphone, enums.DeviceTypeTablet, enums.DeviceTypeLaptop},
		}
		samsung := models.Brand{
			Name:        "Samsung",
			Active:      true,
			DeviceTypes: []enums.DeviceType{enums.DeviceTypeSmartphone, enums.DeviceTypeTablet},
		}
		if err := tx.Create(&[]*models.Brand{&apple, &samsung}).Error; err != nil {
			return fmt.Errorf("seed brands: %w", err)
		}

		screen := models.RepairItem{
			Name:              "Screen Replacement",
			DeviceTypes:       []enums.DeviceType{enums.DeviceTypeSmartphone, enums.DeviceTypeTablet},
			BasePrice:         decimal.NewFromInt(135),
			Duration:          "60 min",
			HasQualityOptions: true,
			QualityOptions: []models.QualityOption{
				{ID: "aftermarket", Name: "Aftermarket", Description: "Compatible panel", PriceMultiplier: decimal.NewFromInt(1)},
				{ID: "oem", Name: "OEM", Description: "Original manufacturer panel", Duration: "90 min", PriceMultiplier: decimal.RequireFromString("1.4")},
			},
		}
		battery := models.RepairItem{
			Name:        "Battery Replacement",
			DeviceTypes: []enums.DeviceType{enums.DeviceTypeSmartphone, enums.DeviceTypeTablet, enums.DeviceTypeLaptop},
			BasePrice:   decimal.NewFromInt(65),
			Duration:    "30 min",
		}
		if err := tx.Create(&[]*models.RepairItem{&screen, &battery}).Error; err != nil {
			return fmt.Errorf("seed repair items: %w", err)
		}

		phones := []models.DeviceModel{
			{
				Name:       "iPhone 15",
				BrandID:    apple.ID,
				DeviceType: enums.DeviceTypeSmartphone,
				Variants:   []string{"128GB", "256GB", "512GB"},
				Colors:     []models.Color{{ID: "black", Name: "Black", Hex: "#1f2020"}, {ID: "pink", Name: "Pink", Hex: "#e3c8ca"}},
			},
			{
				Name:       "Galaxy S24",
				BrandID:    samsung.ID,
				DeviceType: enums.DeviceTypeSmartphone,
				Variants:   []string{"128GB", "256GB"},
				Colors:     []models.Color{{ID: "onyx", Name: "Onyx Black", Hex: "#2b2b2b"}},
			},
		}
		if err := tx.Create(&phones).Error; err != nil {
			return fmt.Errorf("seed device models: %w", err)
		}

		var repairs []models.ModelRepair
		for _, phone := range phones {
			for _, item := range []models.RepairItem{screen, battery} {
				repairID := item.ID
				repairs = append(repairs, models.ModelRepair{
					ModelID:       phone.ID,
					RepairID:      &repairID,
					BasePrice:     item.BasePrice,
					QualityPrices: SeedQualityPrices(item.BasePrice, item),
				})
			}
		}
		if err := tx.Create(&repairs).Error; err != nil {
			return fmt.Errorf("seed model repairs: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
