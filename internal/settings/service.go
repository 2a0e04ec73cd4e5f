package settings

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/repairshop-backend/internal/availability"
	"github.com/angelmondragon/repairshop-backend/internal/pricing"
	"github.com/angelmondragon/repairshop-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/repairshop-backend/pkg/errors"
	"github.com/angelmondragon/repairshop-backend/pkg/logger"
)

// Settings is the admin view of the shop configuration.
type Settings struct {
	TaxPercentage decimal.Decimal             `json:"taxPercentage"`
	DiscountRules []models.StoredDiscountRule `json:"discountRules"`
	TimeSlots     []models.TimeSlot           `json:"timeSlots"`
	OperatingDays []int                       `json:"operatingDays"`
	ClosedDates   []string                    `json:"closedDates"`
	UpdatedAt     time.Time                   `json:"updatedAt"`
}

// UpdateInput replaces the whole settings document.
type UpdateInput struct {
	TaxPercentage decimal.Decimal             `json:"taxPercentage"`
	DiscountRules []models.StoredDiscountRule `json:"discountRules"`
	TimeSlots     []models.TimeSlot           `json:"timeSlots"`
	OperatingDays []int                       `json:"operatingDays"`
	ClosedDates   []string                    `json:"closedDates"`
}

// Service reads and writes the singleton settings document.
type Service interface {
	Get(ctx context.Context) (*Settings, error)
	Update(ctx context.Context, input UpdateInput) (*Settings, error)
	PricingTerms(ctx context.Context) (pricing.Terms, error)
	Schedule(ctx context.Context) (availability.Schedule, error)
}

type service struct {
	repo     Repository
	logg     *logger.Logger
	defaults func() *models.ShopSettings
}

// NewService builds the settings service.
func NewService(repo Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("settings repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg, defaults: Defaults}, nil
}

func (s *service) Get(ctx context.Context) (*Settings, error) {
	row, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	rules := make([]models.StoredDiscountRule, 0, len(row.DiscountRules))
	for _, stored := range row.DiscountRules {
		migrated, _ := s.migrate(ctx, stored)
		rules = append(rules, migrated)
	}
	view := toSettings(row)
	view.DiscountRules = rules
	return view, nil
}

// Update validates and stores the document. Concurrent writers are not
// coordinated; the last write wins.
func (s *service) Update(ctx context.Context, input UpdateInput) (*Settings, error) {
	row, err := normalize(input)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save settings")
	}
	s.logg.Info(s.logg.WithField(ctx, "discount_rules", len(row.DiscountRules)), "settings updated")
	return toSettings(row), nil
}

// PricingTerms returns the tax rate and the evaluable discount rules.
func (s *service) PricingTerms(ctx context.Context) (pricing.Terms, error) {
	row, err := s.load(ctx)
	if err != nil {
		return pricing.Terms{}, err
	}
	terms := pricing.Terms{TaxPercentage: clampTax(row.TaxPercentage)}
	for _, stored := range row.DiscountRules {
		migrated, ok := s.migrate(ctx, stored)
		if !ok {
			continue
		}
		terms.Rules = append(terms.Rules, toPricingRule(migrated))
	}
	return terms, nil
}

func (s *service) Schedule(ctx context.Context) (availability.Schedule, error) {
	row, err := s.load(ctx)
	if err != nil {
		return availability.Schedule{}, err
	}
	return availability.Schedule{
		OperatingDays: append([]int(nil), row.OperatingDays...),
		ClosedDates:   append([]string(nil), row.ClosedDates...),
		TimeSlots:     append([]models.TimeSlot(nil), row.TimeSlots...),
	}, nil
}

// load returns the settings row, creating it with defaults when absent.
func (s *service) load(ctx context.Context) (*models.ShopSettings, error) {
	row, err := s.repo.Get(ctx)
	if err == nil {
		return row, nil
	}
	if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load settings")
	}

	if err := s.repo.EnsureDefaults(ctx, s.defaults()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create default settings")
	}
	s.logg.Info(ctx, "default settings created")

	row, err = s.repo.Get(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load settings")
	}
	return row, nil
}

func (s *service) migrate(ctx context.Context, stored models.StoredDiscountRule) (models.StoredDiscountRule, bool) {
	rule, warning, ok := migrateRule(stored)
	if warning != "" {
		s.logg.Warn(s.logg.WithFields(ctx, map[string]any{
			"rule_id":   rule.ID,
			"rule_name": rule.Name,
		}), warning)
	}
	return rule, ok
}

func toSettings(row *models.ShopSettings) *Settings {
	return &Settings{
		TaxPercentage: row.TaxPercentage,
		DiscountRules: nonNil(row.DiscountRules),
		TimeSlots:     nonNil(row.TimeSlots),
		OperatingDays: nonNil(row.OperatingDays),
		ClosedDates:   nonNil(row.ClosedDates),
		UpdatedAt:     row.UpdatedAt,
	}
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
