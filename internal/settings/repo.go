package settings

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/angelmondragon/repairshop-backend/internal/repo"
	"github.com/angelmondragon/repairshop-backend/pkg/db/models"
)

type repository struct {
	repo.Base
}

// NewRepository builds a settings repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{Base: r.Base.WithTx(tx)}
}

func (r *repository) Get(ctx context.Context) (*models.ShopSettings, error) {
	var row models.ShopSettings
	if err := r.DB(ctx).Where("id = ?", models.ShopSettingsID).First(&row).Error; err != nil {
		return nil, repo.NotFound(err, "settings not found")
	}
	return &row, nil
}

// EnsureDefaults inserts defaults unless a settings row already exists.
func (r *repository) EnsureDefaults(ctx context.Context, defaults *models.ShopSettings) error {
	defaults.ID = models.ShopSettingsID
	return r.DB(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(defaults).Error
}

// Save overwrites the settings row. Last write wins.
func (r *repository) Save(ctx context.Context, settings *models.ShopSettings) error {
	settings.ID = models.ShopSettingsID
	return r.DB(ctx).Save(settings).Error
}
