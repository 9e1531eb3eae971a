package domain

import (
	"fmt"
	"time"
)

// CalendarDate is a plain calendar day without time-of-day or zone.
type CalendarDate struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Day   int        `json:"day"`
}

// DateOf truncates an instant to its calendar day.
func DateOf(t time.Time) CalendarDate {
	return CalendarDate{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// Valid reports whether the date resolves to a real Gregorian day.
func (d CalendarDate) Valid() bool {
	if d.Month < time.January || d.Month > time.December {
		return false
	}
	return d.Day >= 1 && d.Day <= DaysInMonth(d.Year, d.Month)
}

// Time returns the date at midnight in the given location.
func (d CalendarDate) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// Weekday returns the Monday-indexed weekday (Monday=0 .. Sunday=6).
func (d CalendarDate) Weekday() int {
	wd := d.Time(time.UTC).Weekday()
	if wd == time.Sunday {
		return 6
	}
	return int(wd) - 1
}

// Before reports whether d falls strictly before other.
func (d CalendarDate) Before(other CalendarDate) bool {
	if d.Year != other.Year {
		return d.Year < other.Year
	}
	if d.Month != other.Month {
		return d.Month < other.Month
	}
	return d.Day < other.Day
}

// Equal reports whether both values name the same calendar day.
func (d CalendarDate) Equal(other CalendarDate) bool {
	return d.Year == other.Year && d.Month == other.Month && d.Day == other.Day
}

// String renders the ISO form, e.g. "2026-09-15".
func (d CalendarDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

var dutchWeekdays = [7]string{"maandag", "dinsdag", "woensdag", "donderdag", "vrijdag", "zaterdag", "zondag"}

var dutchMonths = [12]string{
	"januari", "februari", "maart", "april", "mei", "juni",
	"juli", "augustus", "september", "oktober", "november", "december",
}

// FormatDutch renders the date as shown to visitors,
// e.g. "dinsdag 15 september 2026".
func (d CalendarDate) FormatDutch() string {
	return fmt.Sprintf("%s %d %s %d", dutchWeekdays[d.Weekday()], d.Day, dutchMonths[d.Month-1], d.Year)
}

// DutchMonthName returns the lowercase Dutch month name.
func DutchMonthName(month time.Month) string {
	return dutchMonths[month-1]
}

// DaysInMonth returns the Gregorian day count for a month, leap years included.
func DaysInMonth(year int, month time.Month) int {
	// Day zero of the following month.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstWeekdayOfMonth returns the Monday-indexed weekday of day 1.
func FirstWeekdayOfMonth(year int, month time.Month) int {
	return CalendarDate{Year: year, Month: month, Day: 1}.Weekday()
}

// PreviousMonth steps one month back, wrapping January into the prior December.
func PreviousMonth(year int, month time.Month) (int, time.Month) {
	if month == time.January {
		return year - 1, time.December
	}
	return year, month - 1
}

// NextMonth steps one month forward, wrapping December into the next January.
func NextMonth(year int, month time.Month) (int, time.Month) {
	if month == time.December {
		return year + 1, time.January
	}
	return year, month + 1
}

// TimeSlot is a bookable time of day, paired with a CalendarDate by callers.
type TimeSlot struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

// String renders the 24h wall-clock form, e.g. "15:30".
func (t TimeSlot) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// ParseTimeSlot parses the "15:30" wall-clock form.
func ParseTimeSlot(s string) (TimeSlot, error) {
	var slot TimeSlot
	if _, err := fmt.Sscanf(s, "%d:%d", &slot.Hour, &slot.Minute); err != nil {
		return TimeSlot{}, fmt.Errorf("invalid time slot %q", s)
	}
	if slot.Hour < 0 || slot.Hour > 23 || slot.Minute < 0 || slot.Minute > 59 {
		return TimeSlot{}, fmt.Errorf("invalid time slot %q", s)
	}
	return slot, nil
}

// WeekdayWindow is a bookable window on one weekday. Hours are wall-clock,
// end exclusive.
type WeekdayWindow struct {
	StartHour int
	EndHour   int
}

// AvailabilityRule configures which weekdays are open and how windows are cut
// into slots. Weekdays absent from Windows are closed.
type AvailabilityRule struct {
	Windows     map[int]WeekdayWindow
	SlotMinutes int
}

// DefaultAvailabilityRule is the standard demo schedule: Monday through
// Thursday 12:00-18:00, Friday 15:00-18:00, weekends closed, half-hour
// slots.
func DefaultAvailabilityRule() AvailabilityRule {
	return AvailabilityRule{
		Windows: map[int]WeekdayWindow{
			0: {StartHour: 12, EndHour: 18},
			1: {StartHour: 12, EndHour: 18},
			2: {StartHour: 12, EndHour: 18},
			3: {StartHour: 12, EndHour: 18},
			4: {StartHour: 15, EndHour: 18},
		},
		SlotMinutes: 30,
	}
}

// WindowFor returns the window for a Monday-indexed weekday, if any.
func (r AvailabilityRule) WindowFor(weekday int) (WeekdayWindow, bool) {
	w, ok := r.Windows[weekday]
	return w, ok
}

// Validate checks the rule invariants: every window starts before it ends and
// the granularity divides every window into whole slots.
func (r AvailabilityRule) Validate() error {
	if r.SlotMinutes <= 0 {
		return fmt.Errorf("slot granularity must be positive, got %d", r.SlotMinutes)
	}
	for weekday, w := range r.Windows {
		if weekday < 0 || weekday > 6 {
			return fmt.Errorf("invalid weekday index %d", weekday)
		}
		if w.StartHour < 0 || w.EndHour > 24 || w.StartHour >= w.EndHour {
			return fmt.Errorf("invalid window %02d:00-%02d:00 on weekday %d", w.StartHour, w.EndHour, weekday)
		}
		if ((w.EndHour-w.StartHour)*60)%r.SlotMinutes != 0 {
			return fmt.Errorf("granularity %dm does not divide window %02d:00-%02d:00 evenly", r.SlotMinutes, w.StartHour, w.EndHour)
		}
	}
	return nil
}

// CellState classifies a calendar cell for rendering.
type CellState string

const (
	CellSelectable   CellState = "SELECTABLE"
	CellSelected     CellState = "SELECTED"
	CellPastOrClosed CellState = "PAST_OR_CLOSED"
)

// CalendarCell is the rendering hint for one day of a month grid.
type CalendarCell struct {
	Day   int
	State CellState
	Today bool
}
