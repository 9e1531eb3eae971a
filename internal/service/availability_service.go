package service

import (
	"time"

	"github.com/consultium-ai/demo-booking-service/internal/domain"
)

// AvailabilityService computes which dates and time slots are selectable.
// All methods are pure with respect to the injected clock; the same inputs
// always produce the same outputs.
type AvailabilityService struct {
	rule domain.AvailabilityRule
	now  func() time.Time
}

// NewAvailabilityService constructs the service. A nil clock falls back to
// time.Now.
func NewAvailabilityService(rule domain.AvailabilityRule, now func() time.Time) *AvailabilityService {
	if now == nil {
		now = time.Now
	}
	return &AvailabilityService{rule: rule, now: now}
}

// Rule returns the configured availability rule.
func (s *AvailabilityService) Rule() domain.AvailabilityRule {
	return s.rule
}

// Today returns the reference calendar day.
func (s *AvailabilityService) Today() domain.CalendarDate {
	return domain.DateOf(s.now())
}

// IsPastDate reports whether date falls strictly before the reference day.
// Time of day is ignored: today stays selectable until midnight.
func (s *AvailabilityService) IsPastDate(date domain.CalendarDate) bool {
	return date.Before(s.Today())
}

// IsClosedDay reports whether the date's weekday has no bookable window.
func (s *AvailabilityService) IsClosedDay(date domain.CalendarDate) bool {
	_, open := s.rule.WindowFor(date.Weekday())
	return !open
}

// IsSelectableDate reports whether a visitor may pick the date.
func (s *AvailabilityService) IsSelectableDate(date domain.CalendarDate) bool {
	return !s.IsPastDate(date) && !s.IsClosedDay(date)
}

// TimeSlots enumerates every bookable slot of the date's window in ascending
// order, end exclusive. Closed days yield an empty slice.
func (s *AvailabilityService) TimeSlots(date domain.CalendarDate) []domain.TimeSlot {
	window, open := s.rule.WindowFor(date.Weekday())
	if !open {
		return nil
	}
	var slots []domain.TimeSlot
	for minutes := window.StartHour * 60; minutes < window.EndHour*60; minutes += s.rule.SlotMinutes {
		slots = append(slots, domain.TimeSlot{Hour: minutes / 60, Minute: minutes % 60})
	}
	return slots
}

// IsSlotAvailable reports whether slot belongs to the date's generated set.
func (s *AvailabilityService) IsSlotAvailable(date domain.CalendarDate, slot domain.TimeSlot) bool {
	for _, candidate := range s.TimeSlots(date) {
		if candidate == slot {
			return true
		}
	}
	return false
}

// CanNavigateToPreviousMonth reports whether the displayed month may step
// back. Navigation stops at the reference month: everything earlier is
// unselectable anyway.
func (s *AvailabilityService) CanNavigateToPreviousMonth(year int, month time.Month) bool {
	today := s.Today()
	if year != today.Year {
		return year > today.Year
	}
	return month > today.Month
}

// MonthGrid builds the rendering hints for one displayed month. LeadingBlanks
// is the number of empty cells before day 1 in a Monday-first week row.
type MonthGrid struct {
	Year          int
	Month         time.Month
	LeadingBlanks int
	Cells         []domain.CalendarCell
	CanGoPrevious bool
}

// Grid computes the month grid, marking the optional selected date.
func (s *AvailabilityService) Grid(year int, month time.Month, selected *domain.CalendarDate) MonthGrid {
	today := s.Today()
	grid := MonthGrid{
		Year:          year,
		Month:         month,
		LeadingBlanks: domain.FirstWeekdayOfMonth(year, month),
		CanGoPrevious: s.CanNavigateToPreviousMonth(year, month),
	}

	days := domain.DaysInMonth(year, month)
	grid.Cells = make([]domain.CalendarCell, 0, days)
	for day := 1; day <= days; day++ {
		date := domain.CalendarDate{Year: year, Month: month, Day: day}
		cell := domain.CalendarCell{Day: day, Today: date.Equal(today)}
		switch {
		case selected != nil && date.Equal(*selected):
			cell.State = domain.CellSelected
		case s.IsSelectableDate(date):
			cell.State = domain.CellSelectable
		default:
			cell.State = domain.CellPastOrClosed
		}
		grid.Cells = append(grid.Cells, cell)
	}
	return grid
}
