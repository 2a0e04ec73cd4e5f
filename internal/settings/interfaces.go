package settings

import (
	"context"

	"gorm.io/gorm"

	"github.com/angelmondragon/repairshop-backend/pkg/db/models"
)

// Repository persists the singleton settings row.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Get(ctx context.Context) (*models.ShopSettings, error)
	EnsureDefaults(ctx context.Context, defaults *models.ShopSettings) error
	Save(ctx context.Context, settings *models.ShopSettings) error
}
