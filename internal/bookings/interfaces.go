package bookings

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/angelmondragon/repairshop-backend/internal/availability"
	"github.com/angelmondragon/repairshop-backend/internal/notifications"
	"github.com/angelmondragon/repairshop-backend/internal/pricing"
	"github.com/angelmondragon/repairshop-backend/pkg/db/models"
	"github.com/angelmondragon/repairshop-backend/pkg/enums"
	"github.com/angelmondragon/repairshop-backend/pkg/pagination"
)

// Repository persists bookings and their repair lines.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, booking *models.Booking) error
	SlotTaken(ctx context.Context, date, slotID string) (bool, error)
	ReferenceExists(ctx context.Context, reference string) (bool, error)
	BookedSlots(ctx context.Context, date string) ([]availability.BookedSlot, error)
	List(ctx context.Context, params listParams) ([]models.Booking, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.BookingStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type listParams struct {
	Limit  int
	Cursor *pagination.Cursor
	Status *enums.BookingStatus
	Date   *string
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type catalogLoader interface {
	LoadPricingCatalog(ctx context.Context, modelID uuid.UUID) (pricing.Catalog, error)
}

type termsLoader interface {
	PricingTerms(ctx context.Context) (pricing.Terms, error)
}

type scheduleLoader interface {
	Schedule(ctx context.Context) (availability.Schedule, error)
}

type notifier interface {
	Notify(ctx context.Context, msg notifications.Message) error
}

// SlotHolder takes a short-lived lock on a date and slot ahead of the
// database write. Implemented by pkg/redis.
type SlotHolder interface {
	AcquireSlotHold(ctx context.Context, date, slotID, owner string, ttl time.Duration) (bool, error)
	ReleaseSlotHold(ctx context.Context, date, slotID, owner string) error
}
