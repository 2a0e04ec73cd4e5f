package catalog

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/repairshop-backend/internal/repo"
	"github.com/angelmondragon/repairshop-backend/pkg/db/models"
)

// Repository reads the device catalog and records model repair pricing.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListBrands(ctx context.Context, activeOnly bool) ([]models.Brand, error)
	GetBrand(ctx context.Context, id uuid.UUID) (*models.Brand, error)
	ListModelsByBrand(ctx context.Context, brandID uuid.UUID) ([]models.DeviceModel, error)
	GetModel(ctx context.Context, id uuid.UUID) (*models.DeviceModel, error)
	GetRepairItem(ctx context.Context, id uuid.UUID) (*models.RepairItem, error)
	ListRepairItems(ctx context.Context, ids []uuid.UUID) ([]models.RepairItem, error)
	CreateModelRepair(ctx context.Context, repair *models.ModelRepair) error
	ModelRepairExists(ctx context.Context, modelID, repairID uuid.UUID) (bool, error)
}

type repository struct {
	repo.Base
}

// NewRepository builds a catalog repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{Base: r.Base.WithTx(tx)}
}

func (r *repository) ListBrands(ctx context.Context, activeOnly bool) ([]models.Brand, error) {
	var brands []models.Brand
	q := r.DB(ctx).Order("name ASC")
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	if err := q.Find(&brands).Error; err != nil {
		return nil, err
	}
	return brands, nil
}

func (r *repository) GetBrand(ctx context.Context, id uuid.UUID) (*models.Brand, error) {
	var brand models.Brand
	if err := r.DB(ctx).First(&brand, "id = ?", id).Error; err != nil {
		return nil, repo.NotFound(err, "brand not found")
	}
	return &brand, nil
}

// ListModelsByBrand returns models of an existing brand. Models whose brand
// row is gone never match the join.
func (r *repository) ListModelsByBrand(ctx context.Context, brandID uuid.UUID) ([]models.DeviceModel, error) {
	var rows []models.DeviceModel
	err := r.DB(ctx).
		Select("device_models.*").
		Joins("JOIN brands ON brands.id = device_models.brand_id").
		Where("device_models.brand_id = ?", brandID).
		Order("device_models.name ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// GetModel loads a model and its repair pricing, provided its brand exists.
func (r *repository) GetModel(ctx context.Context, id uuid.UUID) (*models.DeviceModel, error) {
	var model models.DeviceModel
	err := r.DB(ctx).
		Select("device_models.*").
		Joins("JOIN brands ON brands.id = device_models.brand_id").
		Preload("Repairs", func(db *gorm.DB) *gorm.DB {
			return db.Order("model_repairs.created_at ASC")
		}).
		Where("device_models.id = ?", id).
		First(&model).Error
	if err != nil {
		return nil, repo.NotFound(err, "device model not found")
	}
	return &model, nil
}

func (r *repository) GetRepairItem(ctx context.Context, id uuid.UUID) (*models.RepairItem, error) {
	var item models.RepairItem
	if err := r.DB(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, repo.NotFound(err, "repair not found")
	}
	return &item, nil
}

func (r *repository) ListRepairItems(ctx context.Context, ids []uuid.UUID) ([]models.RepairItem, error) {
	if len(ids) == 0 {
		return []models.RepairItem{}, nil
	}
	var items []models.RepairItem
	if err := r.DB(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) CreateModelRepair(ctx context.Context, repair *models.ModelRepair) error {
	return r.DB(ctx).Create(repair).Error
}

func (r *repository) ModelRepairExists(ctx context.Context, modelID, repairID uuid.UUID) (bool, error) {
	var count int64
	err := r.DB(ctx).
		Model(&models.ModelRepair{}).
		Where("model_id = ? AND repair_id = ?", modelID, repairID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
