package bookings

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/repairshop-backend/internal/availability"
	"github.com/angelmondragon/repairshop-backend/internal/repo"
	"github.com/angelmondragon/repairshop-backend/pkg/db/models"
	"github.com/angelmondragon/repairshop-backend/pkg/enums"
	"github.com/angelmondragon/repairshop-backend/pkg/pagination"
)

type repository struct {
	repo.Base
}

// NewRepository builds a booking repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{Base: repo.NewBase(db)}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{Base: r.Base.WithTx(tx)}
}

// Create inserts the booking and its repair lines in one statement batch.
func (r *repository) Create(ctx context.Context, booking *models.Booking) error {
	return r.DB(ctx).Create(booking).Error
}

func activeSlot(db *gorm.DB, date, slotID string) *gorm.DB {
	return db.Model(&models.Booking{}).
		Where("booking_date = ? AND booking_time_slot_id = ?", date, slotID).
		Where("service_method = ?", enums.ServiceMethodLocation).
		Where("status <> ?", enums.BookingStatusCancelled)
}

func (r *repository) SlotTaken(ctx context.Context, date, slotID string) (bool, error) {
	var count int64
	if err := activeSlot(r.DB(ctx), date, slotID).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) ReferenceExists(ctx context.Context, reference string) (bool, error) {
	var count int64
	err := r.DB(ctx).Model(&models.Booking{}).Where("reference = ?", reference).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// BookedSlots lists the slots held by non-cancelled location bookings on date.
func (r *repository) BookedSlots(ctx context.Context, date string) ([]availability.BookedSlot, error) {
	var rows []struct {
		SlotID string
		Label  *string
	}
	err := r.DB(ctx).Model(&models.Booking{}).
		Select("booking_time_slot_id AS slot_id, booking_time_slot_label AS label").
		Where("booking_date = ? AND booking_time_slot_id IS NOT NULL", date).
		Where("service_method = ?", enums.ServiceMethodLocation).
		Where("status <> ?", enums.BookingStatusCancelled).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]availability.BookedSlot, 0, len(rows))
	for _, row := range rows {
		slot := availability.BookedSlot{SlotID: row.SlotID}
		if row.Label != nil {
			slot.Label = *row.Label
		}
		out = append(out, slot)
	}
	return out, nil
}

func withRepairs(db *gorm.DB) *gorm.DB {
	return db.Preload("Repairs", func(db *gorm.DB) *gorm.DB {
		return db.Order("booking_repairs.position ASC")
	})
}

// List returns up to Limit+1 bookings newest first so callers can detect a
// following page.
func (r *repository) List(ctx context.Context, params listParams) ([]models.Booking, error) {
	query := withRepairs(r.DB(ctx)).Model(&models.Booking{})
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.Date != nil {
		query = query.Where("booking_date = ?", *params.Date)
	}
	if params.Cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", params.Cursor.CreatedAt, params.Cursor.ID)
	}

	var rows []models.Booking
	err := query.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	if err := withRepairs(r.DB(ctx)).First(&booking, "id = ?", id).Error; err != nil {
		return nil, repo.NotFound(err, "booking not found")
	}
	return &booking, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.BookingStatus) error {
	result := r.DB(ctx).Model(&models.Booking{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repo.NotFound(gorm.ErrRecordNotFound, "booking not found")
	}
	return nil
}

// Delete removes the booking and its repair lines.
func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.DB(ctx)
	if err := db.Where("booking_id = ?", id).Delete(&models.BookingRepair{}).Error; err != nil {
		return err
	}
	result := db.Where("id = ?", id).Delete(&models.Booking{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return repo.NotFound(gorm.ErrRecordNotFound, "booking not found")
	}
	return nil
}
