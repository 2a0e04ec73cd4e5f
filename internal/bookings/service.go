package bookings

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/angelmondragon/repairshop-backend/internal/availability"
	"github.com/angelmondragon/repairshop-backend/internal/notifications"
	"github.com/angelmondragon/repairshop-backend/internal/pricing"
	"github.com/angelmondragon/repairshop-backend/pkg/db"
	"github.com/angelmondragon/repairshop-backend/pkg/db/models"
	"github.com/angelmondragon/repairshop-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/repairshop-backend/pkg/errors"
	"github.com/angelmondragon/repairshop-backend/pkg/logger"
	"github.com/angelmondragon/repairshop-backend/pkg/metrics"
	"github.com/angelmondragon/repairshop-backend/pkg/pagination"
	"github.com/angelmondragon/repairshop-backend/pkg/types"
)

var (
	slotConstraint      = []string{models.BookingActiveSlotIndex, "bookings.booking_time_slot_id"}
	referenceConstraint = []string{models.BookingReferenceIndex, "bookings.reference"}
)

// Service is the single booking writer plus the admin booking operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*BookingDTO, error)
	List(ctx context.Context, input ListInput) (*pagination.Page[BookingDTO], error)
	Get(ctx context.Context, id uuid.UUID) (*BookingDTO, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*BookingDTO, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Options tunes the booking writer.
type Options struct {
	ReferencePrefix  string
	ReferenceRetries int
	SlotHoldTTL      time.Duration
	NotifyTimeout    time.Duration
	Location         *time.Location
}

// Dependencies groups the collaborators of the booking writer. SlotHolder,
// Notifier and Metrics are optional.
type Dependencies struct {
	Repo       Repository
	Tx         txRunner
	Catalog    catalogLoader
	Terms      termsLoader
	Schedule   scheduleLoader
	SlotHolder SlotHolder
	Notifier   notifier
	Metrics    *metrics.BookingMetrics
	Logger     *logger.Logger
}

type service struct {
	repo       Repository
	tx         txRunner
	catalog    catalogLoader
	terms      termsLoader
	schedule   scheduleLoader
	holder     SlotHolder
	notifier   notifier
	metrics    *metrics.BookingMetrics
	logg       *logger.Logger
	opts       Options
	references ReferenceGenerator
	now        func() time.Time
	spawn      func(func())
}

// NewService builds the booking writer.
func NewService(deps Dependencies, opts Options) (Service, error) {
	if deps.Repo == nil {
		return nil, fmt.Errorf("bookings repository required")
	}
	if deps.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if deps.Catalog == nil {
		return nil, fmt.Errorf("catalog loader required")
	}
	if deps.Terms == nil {
		return nil, fmt.Errorf("pricing terms loader required")
	}
	if deps.Schedule == nil {
		return nil, fmt.Errorf("schedule loader required")
	}
	if deps.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if opts.ReferencePrefix == "" {
		opts.ReferencePrefix = "BK-"
	}
	if opts.ReferenceRetries <= 0 {
		opts.ReferenceRetries = 5
	}
	if opts.SlotHoldTTL <= 0 {
		opts.SlotHoldTTL = 15 * time.Second
	}
	if opts.NotifyTimeout <= 0 {
		opts.NotifyTimeout = 10 * time.Second
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &service{
		repo:       deps.Repo,
		tx:         deps.Tx,
		catalog:    deps.Catalog,
		terms:      deps.Terms,
		schedule:   deps.Schedule,
		holder:     deps.SlotHolder,
		notifier:   deps.Notifier,
		metrics:    deps.Metrics,
		logg:       deps.Logger,
		opts:       opts,
		references: NewReferenceGenerator(opts.ReferencePrefix),
		now:        time.Now,
		spawn:      func(f func()) { go f() },
	}, nil
}

// Create validates, prices and persists a booking exactly once. Slot
// conflicts surface as CodeConflict.
func (s *service) Create(ctx context.Context, input CreateInput) (*BookingDTO, error) {
	booking, err := s.prepare(ctx, input)
	if err != nil {
		return nil, err
	}

	release, err := s.holdSlot(ctx, booking)
	if err != nil {
		return nil, err
	}
	if release != nil {
		defer release()
	}

	if err := s.persist(ctx, booking); err != nil {
		return nil, err
	}

	s.metrics.IncCreated(booking.ServiceMethod.String())
	ctx = s.logg.WithBookingRef(ctx, booking.Reference)
	s.logg.Info(s.logg.WithField(ctx, "service_method", booking.ServiceMethod.String()), "booking created")

	if input.SendConfirmation == nil || *input.SendConfirmation {
		kind := input.Kind
		if !kind.IsValid() {
			kind = enums.NotificationKindBookingConfirmation
		}
		s.notify(ctx, booking, kind)
	}

	dto := ToDTO(*booking)
	return &dto, nil
}

// prepare runs every validation and recomputes pricing. Nothing is written.
func (s *service) prepare(ctx context.Context, input CreateInput) (*models.Booking, error) {
	details := map[string]string{}

	firstName := required(details, "firstName", input.FirstName)
	lastName := required(details, "lastName", input.LastName)
	email := required(details, "email", input.Email)
	phone := required(details, "phone", input.Phone)

	customerType := enums.CustomerTypeIndividual
	if raw := strings.TrimSpace(input.CustomerType); raw != "" {
		parsed, err := enums.ParseCustomerType(raw)
		if err != nil {
			details["customerType"] = "customerType must be individual or business"
		}
		customerType = parsed
	}

	method, err := enums.ParseServiceMethod(strings.TrimSpace(input.ServiceMethod))
	if err != nil {
		details["serviceMethod"] = "serviceMethod must be location or pickup"
	}
	if input.ModelID == uuid.Nil {
		details["modelId"] = "modelId is required"
	}
	if len(input.Repairs) == 0 {
		details["repairs"] = "at least one repair is required"
	}
	if len(details) > 0 {
		return nil, invalid(details)
	}

	var (
		catalog  pricing.Catalog
		terms    pricing.Terms
		schedule availability.Schedule
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		catalog, err = s.catalog.LoadPricingCatalog(gctx, input.ModelID)
		return err
	})
	g.Go(func() error {
		var err error
		terms, err = s.terms.PricingTerms(gctx)
		return err
	})
	if method == enums.ServiceMethodLocation {
		g.Go(func() error {
			var err error
			schedule, err = s.schedule.Schedule(gctx)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
			return nil, pkgerrors.Validation("modelId", "device model not found")
		}
		return nil, err
	}

	booking := &models.Booking{
		FirstName:     firstName,
		LastName:      lastName,
		Email:         strings.ToLower(email),
		Phone:         phone,
		CustomerType:  customerType,
		ServiceMethod: method,
		Status:        enums.BookingStatusPending,
	}

	switch method {
	case enums.ServiceMethodLocation:
		s.applySlot(details, booking, schedule, input)
	case enums.ServiceMethodPickup:
		applyAddress(details, booking, input.ShippingAddress)
	}

	applyDevice(details, booking, catalog, input.ColorID)

	selections := resolveRepairs(details, catalog, input.Repairs)
	if len(details) > 0 {
		return nil, invalid(details)
	}
	lines, err := catalog.PriceLines(selections)
	if err != nil {
		return nil, err
	}

	breakdown := pricing.Finalize(lines, terms)
	if input.Pricing != nil {
		if err := breakdown.Verify(*input.Pricing); err != nil {
			return nil, err
		}
	}
	applyPricing(booking, breakdown)

	if notes := strings.TrimSpace(input.Notes); notes != "" {
		booking.Notes = &notes
	}
	return booking, nil
}

func (s *service) applySlot(details map[string]string, booking *models.Booking, schedule availability.Schedule, input CreateInput) {
	date := strings.TrimSpace(input.BookingDate)
	slotID := strings.TrimSpace(input.BookingTimeSlot)
	if date == "" {
		details["bookingDate"] = "bookingDate is required for location service"
	}
	if slotID == "" {
		details["bookingTimeSlot"] = "bookingTimeSlot is required for location service"
	}
	if date == "" || slotID == "" {
		return
	}

	day, err := availability.ParseDate(date)
	if err != nil {
		details["bookingDate"] = "bookingDate must be formatted YYYY-MM-DD"
		return
	}
	slot, err := schedule.BookableSlot(day, availability.Today(s.now(), s.opts.Location), slotID)
	if err != nil {
		mergeDetails(details, err)
		return
	}

	normalized := day.Format(availability.DateLayout)
	booking.BookingDate = &normalized
	booking.BookingTimeSlotID = &slot.ID
	booking.BookingTimeSlotLabel = &slot.Label
}

func applyAddress(details map[string]string, booking *models.Booking, address *types.ShippingAddress) {
	if address == nil {
		details["shippingAddress"] = "shippingAddress is required for pickup service"
		return
	}
	normalized := address.Normalize()
	if err := normalized.Validate(); err != nil {
		details["shippingAddress"] = err.Error()
		return
	}
	booking.ShippingAddress = datatypes.NewJSONType(&normalized)
}

func applyDevice(details map[string]string, booking *models.Booking, catalog pricing.Catalog, colorID string) {
	model := catalog.Model
	modelID := model.ID
	brandID := model.BrandID
	booking.ModelID = &modelID
	booking.ModelName = model.Name
	booking.BrandID = &brandID
	booking.BrandName = catalog.BrandName
	booking.DeviceType = model.DeviceType

	colorID = strings.TrimSpace(colorID)
	if colorID == "" {
		return
	}
	for _, color := range model.Colors {
		if color.ID == colorID {
			id, name := color.ID, color.Name
			booking.ColorID = &id
			booking.ColorName = &name
			return
		}
	}
	details["colorId"] = "color is not offered for this model"
}

// resolveRepairs matches each reference by id, then by catalog name.
func resolveRepairs(details map[string]string, catalog pricing.Catalog, refs []RepairInput) []pricing.Selection {
	selections := make([]pricing.Selection, 0, len(refs))
	for i, ref := range refs {
		id, ok := resolveRepair(catalog, ref)
		if !ok {
			details[fmt.Sprintf("repairs[%d]", i)] = "repair is not offered for this model"
			continue
		}
		selections = append(selections, pricing.Selection{
			RepairID:      id,
			QualityTierID: strings.TrimSpace(ref.PartQualityID),
		})
	}
	return selections
}

func resolveRepair(catalog pricing.Catalog, ref RepairInput) (uuid.UUID, bool) {
	if id, err := uuid.Parse(strings.TrimSpace(ref.RepairID)); err == nil {
		if _, ok := catalog.Repairs[id]; ok {
			return id, true
		}
	}
	return catalog.RepairByName(ref.RepairName)
}

func applyPricing(booking *models.Booking, breakdown *pricing.Breakdown) {
	booking.Subtotal = breakdown.Subtotal
	booking.Discount = breakdown.Discount
	booking.Tax = breakdown.Tax
	booking.TaxPercentage = breakdown.TaxPercentage
	booking.Total = breakdown.Total
	if breakdown.DiscountRuleName != "" {
		name := breakdown.DiscountRuleName
		booking.DiscountRuleName = &name
	}

	booking.Repairs = make([]models.BookingRepair, 0, len(breakdown.Lines))
	for i, line := range breakdown.Lines {
		repair := models.BookingRepair{
			Position:   i,
			RepairID:   line.RepairID,
			RepairName: line.Name,
			Price:      line.UnitPrice,
			Duration:   line.Duration,
		}
		if line.QualityTierID != "" {
			id, name := line.QualityTierID, line.QualityTierName
			repair.PartQualityID = &id
			repair.PartQualityName = &name
		}
		booking.Repairs = append(booking.Repairs, repair)
	}
}

// holdSlot takes the optional Redis hold. Redis errors degrade to the
// database guard alone.
func (s *service) holdSlot(ctx context.Context, booking *models.Booking) (func(), error) {
	if s.holder == nil || booking.BookingDate == nil || booking.BookingTimeSlotID == nil {
		return nil, nil
	}
	date, slotID, owner := *booking.BookingDate, *booking.BookingTimeSlotID, uuid.NewString()

	acquired, err := s.holder.AcquireSlotHold(ctx, date, slotID, owner, s.opts.SlotHoldTTL)
	if err != nil {
		s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "slot hold unavailable")
		return nil, nil
	}
	if !acquired {
		s.metrics.IncConflict()
		return nil, slotConflict()
	}
	return func() {
		if err := s.holder.ReleaseSlotHold(context.WithoutCancel(ctx), date, slotID, owner); err != nil {
			s.logg.Warn(s.logg.WithField(ctx, "error", err.Error()), "slot hold release failed")
		}
	}, nil
}

// persist allocates a reference and writes the booking. The slot is checked
// again inside the transaction and the partial unique index catches any
// remaining race.
func (s *service) persist(ctx context.Context, booking *models.Booking) error {
	for attempt := 0; attempt < s.opts.ReferenceRetries; attempt++ {
		reference, err := s.references()
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate booking reference")
		}
		exists, err := s.repo.ReferenceExists(ctx, reference)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check booking reference")
		}
		if exists {
			continue
		}

		booking.Reference = reference
		err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
			txRepo := s.repo.WithTx(tx)
			if booking.BookingDate != nil && booking.BookingTimeSlotID != nil {
				taken, err := txRepo.SlotTaken(ctx, *booking.BookingDate, *booking.BookingTimeSlotID)
				if err != nil {
					return err
				}
				if taken {
					return slotConflict()
				}
			}
			return txRepo.Create(ctx, booking)
		})

		switch {
		case err == nil:
			return nil
		case pkgerrors.IsCode(err, pkgerrors.CodeConflict):
			s.metrics.IncConflict()
			return err
		case db.IsUniqueViolation(err, referenceConstraint...):
			resetIdentity(booking)
			continue
		case db.IsUniqueViolation(err, slotConstraint...):
			s.metrics.IncConflict()
			return slotConflict()
		default:
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create booking")
		}
	}
	return pkgerrors.New(pkgerrors.CodeInternal, "could not allocate a unique booking reference")
}

func resetIdentity(booking *models.Booking) {
	booking.ID = uuid.Nil
	for i := range booking.Repairs {
		booking.Repairs[i].ID = uuid.Nil
		booking.Repairs[i].BookingID = uuid.Nil
	}
}

// notify dispatches the confirmation off the request path with its own
// deadline.
func (s *service) notify(ctx context.Context, booking *models.Booking, kind enums.NotificationKind) {
	if s.notifier == nil {
		return
	}
	msg := notifications.Message{
		Kind:          kind,
		Reference:     booking.Reference,
		FirstName:     booking.FirstName,
		LastName:      booking.LastName,
		Email:         booking.Email,
		Phone:         booking.Phone,
		ServiceMethod: booking.ServiceMethod,
		Total:         booking.Total,
	}
	if booking.BookingDate != nil {
		msg.BookingDate = *booking.BookingDate
	}
	if booking.BookingTimeSlotLabel != nil {
		msg.SlotLabel = *booking.BookingTimeSlotLabel
	}

	detached := context.WithoutCancel(ctx)
	s.spawn(func() {
		nctx, cancel := context.WithTimeout(detached, s.opts.NotifyTimeout)
		defer cancel()
		if err := s.notifier.Notify(nctx, msg); err != nil {
			s.logg.Warn(s.logg.WithField(nctx, "error", err.Error()), "booking confirmation not fully delivered")
		}
	})
}

func (s *service) List(ctx context.Context, input ListInput) (*pagination.Page[BookingDTO], error) {
	params := listParams{Limit: input.Limit}

	if raw := strings.TrimSpace(input.Status); raw != "" {
		status, err := enums.ParseBookingStatus(raw)
		if err != nil {
			return nil, pkgerrors.Validation("status", err.Error())
		}
		params.Status = &status
	}
	if raw := strings.TrimSpace(input.Date); raw != "" {
		day, err := availability.ParseDate(raw)
		if err != nil {
			return nil, err
		}
		date := day.Format(availability.DateLayout)
		params.Date = &date
	}
	cursor, err := pagination.ParseCursor(input.Cursor)
	if err != nil {
		return nil, pkgerrors.Validation("cursor", "invalid cursor")
	}
	params.Cursor = cursor

	rows, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list bookings")
	}

	page := pagination.BuildPage(rows, input.Limit, func(b models.Booking) pagination.Cursor {
		return pagination.Cursor{CreatedAt: b.CreatedAt, ID: b.ID}
	})
	out := &pagination.Page[BookingDTO]{
		Items:      make([]BookingDTO, 0, len(page.Items)),
		NextCursor: page.NextCursor,
	}
	for _, b := range page.Items {
		out.Items = append(out.Items, ToDTO(b))
	}
	return out, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*BookingDTO, error) {
	booking, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, wrapRepo(err, "load booking")
	}
	dto := ToDTO(*booking)
	return &dto, nil
}

// UpdateStatus applies an admin status change. Repeating the current status
// is a no-op.
func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, raw string) (*BookingDTO, error) {
	next, err := enums.ParseBookingStatus(strings.TrimSpace(raw))
	if err != nil {
		return nil, pkgerrors.Validation("status", err.Error())
	}

	var updated *models.Booking
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		current, err := txRepo.Get(ctx, id)
		if err != nil {
			return err
		}
		if current.Status == next {
			updated = current
			return nil
		}
		if !canTransition(current.Status, next) {
			return transitionError(current.Status, next)
		}
		if err := txRepo.UpdateStatus(ctx, id, next); err != nil {
			return err
		}
		current.Status = next
		updated = current
		return nil
	})
	if err != nil {
		return nil, wrapRepo(err, "update booking status")
	}

	s.logg.Info(s.logg.WithFields(s.logg.WithBookingRef(ctx, updated.Reference), map[string]any{
		"status": next.String(),
	}), "booking status updated")

	dto := ToDTO(*updated)
	return &dto, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		return s.repo.WithTx(tx).Delete(ctx, id)
	})
	if err != nil {
		return wrapRepo(err, "delete booking")
	}
	s.logg.Info(s.logg.WithField(ctx, "booking_id", id.String()), "booking deleted")
	return nil
}

func required(details map[string]string, field, value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		details[field] = field + " is required"
	}
	return value
}

func mergeDetails(details map[string]string, err error) {
	if fields := pkgerrors.FieldDetails(err); fields != nil {
		for k, v := range fields {
			details[k] = v
		}
		return
	}
	if typed := pkgerrors.As(err); typed != nil {
		details["booking"] = typed.Message()
		return
	}
	details["booking"] = err.Error()
}

func invalid(details map[string]string) error {
	return pkgerrors.Invalid("invalid booking", details)
}

func slotConflict() error {
	return pkgerrors.New(pkgerrors.CodeConflict, "time slot is already booked").
		WithDetails(map[string]string{"bookingTimeSlot": "time slot is already booked"})
}

func wrapRepo(err error, message string) error {
	if pkgerrors.As(err) != nil {
		return err
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, message)
}
