package availability

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

type scheduleLoader interface {
	Schedule(ctx context.Context) (Schedule, error)
}

type bookedSlotLister interface {
	BookedSlots(ctx context.Context, date string) ([]BookedSlot, error)
}

// Service answers availability queries for a calendar day.
type Service interface {
	ForDate(ctx context.Context, date string) (*Day, error)
}

type service struct {
	schedules scheduleLoader
	bookings  bookedSlotLister
	location  *time.Location
	now       func() time.Time
}

// NewService builds an availability service. Dates are interpreted in loc.
func NewService(schedules scheduleLoader, bookings bookedSlotLister, loc *time.Location) (Service, error) {
	if schedules == nil {
		return nil, fmt.Errorf("schedule loader required")
	}
	if bookings == nil {
		return nil, fmt.Errorf("booked slot lister required")
	}
	if loc == nil {
		loc = time.UTC
	}
	return &service{
		schedules: schedules,
		bookings:  bookings,
		location:  loc,
		now:       time.Now,
	}, nil
}

func (s *service) ForDate(ctx context.Context, date string) (*Day, error) {
	day, err := ParseDate(date)
	if err != nil {
		return nil, err
	}

	var (
		schedule Schedule
		booked   []BookedSlot
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		schedule, err = s.schedules.Schedule(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		booked, err = s.bookings.BookedSlots(gctx, day.Format(DateLayout))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := Evaluate(day, Today(s.now(), s.location), schedule, booked)
	return &result, nil
}

// Today returns the current calendar day in loc as a UTC midnight.
func Today(now time.Time, loc *time.Location) time.Time {
	y, m, d := now.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
