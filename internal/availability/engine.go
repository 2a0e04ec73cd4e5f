package availability

import (
	"fmt"
	"sort"
	"time"

	"github.com/angelmondragon/repairshop-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/repairshop-backend/pkg/errors"
)

// DateLayout is the calendar-day format used on the wire and in storage.
const DateLayout = "2006-01-02"

// Schedule is the scheduling part of the shop settings.
type Schedule struct {
	OperatingDays []int
	ClosedDates   []string
	TimeSlots     []models.TimeSlot
}

// BookedSlot is a non-cancelled location booking occupying a slot.
type BookedSlot struct {
	SlotID string
	Label  string
}

// SlotStatus is an active slot annotated for one day.
type SlotStatus struct {
	models.TimeSlot
	IsAvailable bool
	IsBooked    bool
}

// Day is the availability of every active slot on a date.
type Day struct {
	Date           string
	Open           bool
	Message        string
	AvailableSlots []string
	BookedSlots    []string
	TimeSlots      []models.TimeSlot
	AllSlots       []SlotStatus
}

// ParseDate parses a YYYY-MM-DD calendar day.
func ParseDate(raw string) (time.Time, error) {
	day, err := time.Parse(DateLayout, raw)
	if err != nil {
		return time.Time{}, pkgerrors.Validation("date", "date must be formatted YYYY-MM-DD")
	}
	return day, nil
}

// ActiveSlots returns the active slots ordered by start time.
func (s Schedule) ActiveSlots() []models.TimeSlot {
	active := make([]models.TimeSlot, 0, len(s.TimeSlots))
	for _, slot := range s.TimeSlots {
		if slot.Active {
			active = append(active, slot)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].StartTime < active[j].StartTime
	})
	return active
}

// ClosedReason explains why day is not bookable, or returns "" when it is.
// Closed dates take precedence over operating days.
func (s Schedule) ClosedReason(day, today time.Time) string {
	date := day.Format(DateLayout)
	if !today.IsZero() && day.Before(truncateDay(today)) {
		return fmt.Sprintf("%s is in the past", date)
	}
	for _, closed := range s.ClosedDates {
		if closed == date {
			return fmt.Sprintf("The shop is closed on %s", date)
		}
	}
	weekday := int(day.Weekday())
	for _, open := range s.OperatingDays {
		if open == weekday {
			return ""
		}
	}
	return fmt.Sprintf("The shop is closed on %ss", day.Weekday())
}

// Evaluate computes availability for day. It is pure: the same schedule and
// bookings always produce the same result.
func Evaluate(day, today time.Time, schedule Schedule, booked []BookedSlot) Day {
	result := Day{
		Date:           day.Format(DateLayout),
		AvailableSlots: []string{},
		BookedSlots:    []string{},
	}
	if reason := schedule.ClosedReason(day, today); reason != "" {
		result.Message = reason
		return result
	}

	taken := make(map[string]struct{}, len(booked))
	for _, b := range booked {
		taken[b.SlotID] = struct{}{}
	}

	result.Open = true
	result.TimeSlots = schedule.ActiveSlots()
	result.AllSlots = make([]SlotStatus, 0, len(result.TimeSlots))
	for _, slot := range result.TimeSlots {
		_, isBooked := taken[slot.ID]
		result.AllSlots = append(result.AllSlots, SlotStatus{
			TimeSlot:    slot,
			IsAvailable: !isBooked,
			IsBooked:    isBooked,
		})
		if isBooked {
			result.BookedSlots = append(result.BookedSlots, slot.Label)
		} else {
			result.AvailableSlots = append(result.AvailableSlots, slot.Label)
		}
	}
	return result
}

// BookableSlot checks that slotID is an active slot on an open day and
// returns it.
func (s Schedule) BookableSlot(day, today time.Time, slotID string) (models.TimeSlot, error) {
	if reason := s.ClosedReason(day, today); reason != "" {
		return models.TimeSlot{}, pkgerrors.Validation("bookingDate", reason)
	}
	for _, slot := range s.ActiveSlots() {
		if slot.ID == slotID {
			return slot, nil
		}
	}
	return models.TimeSlot{}, pkgerrors.Validation("bookingTimeSlot", "time slot is not offered")
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
