package settings

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/repairshop-backend/pkg/db/models"
)

const (
	defaultOpenHour  = 9
	defaultCloseHour = 17
)

// Defaults returns the settings a new shop starts with: no tax, no rules,
// open Monday to Saturday with hourly slots from 09:00 to 17:00.
func Defaults() *models.ShopSettings {
	slots := make([]models.TimeSlot, 0, defaultCloseHour-defaultOpenHour)
	for hour := defaultOpenHour; hour < defaultCloseHour; hour++ {
		slots = append(slots, models.TimeSlot{
			ID:        fmt.Sprintf("slot-%02d00", hour),
			Label:     fmt.Sprintf("%s - %s", clockLabel(hour), clockLabel(hour+1)),
			StartTime: fmt.Sprintf("%02d:00", hour),
			EndTime:   fmt.Sprintf("%02d:00", hour+1),
			Active:    true,
		})
	}
	return &models.ShopSettings{
		ID:            models.ShopSettingsID,
		TaxPercentage: decimal.Zero,
		DiscountRules: []models.StoredDiscountRule{},
		TimeSlots:     slots,
		OperatingDays: []int{1, 2, 3, 4, 5, 6},
		ClosedDates:   []string{},
	}
}

func clockLabel(hour int) string {
	suffix := "AM"
	if hour >= 12 {
		suffix = "PM"
	}
	display := hour % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d:00 %s", display, suffix)
}
