package domain

import (
	"testing"
	"time"
)

func TestDaysInMonth(t *testing.T) {
	tests := []struct {
		name  string
		year  int
		month time.Month
		want  int
	}{
		{"january", 2026, time.January, 31},
		{"april", 2026, time.April, 30},
		{"february common year", 2023, time.February, 28},
		{"february leap year", 2024, time.February, 29},
		{"february century non-leap", 1900, time.February, 28},
		{"february century leap", 2000, time.February, 29},
		{"december", 2026, time.December, 31},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysInMonth(tt.year, tt.month); got != tt.want {
				t.Fatalf("DaysInMonth(%d, %v) = %d, want %d", tt.year, tt.month, got, tt.want)
			}
		})
	}
}

func TestDaysInMonthMatchesStdlib(t *testing.T) {
	for year := 1900; year <= 2100; year++ {
		for month := time.January; month <= time.December; month++ {
			want := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1).Day()
			if got := DaysInMonth(year, month); got != want {
				t.Fatalf("DaysInMonth(%d, %v) = %d, want %d", year, month, got, want)
			}
		}
	}
}

func TestWeekdayMondayIndexed(t *testing.T) {
	tests := []struct {
		date CalendarDate
		want int
	}{
		{CalendarDate{2024, time.January, 1}, 0},  // Monday
		{CalendarDate{2026, time.September, 15}, 1}, // Tuesday
		{CalendarDate{2026, time.March, 13}, 4},   // Friday
		{CalendarDate{2026, time.March, 15}, 6},   // Sunday
		{CalendarDate{1900, time.February, 1}, 3}, // Thursday
	}
	for _, tt := range tests {
		if got := tt.date.Weekday(); got != tt.want {
			t.Errorf("%s Weekday() = %d, want %d", tt.date, got, tt.want)
		}
	}
}

func TestFirstWeekdayOfMonth(t *testing.T) {
	if got := FirstWeekdayOfMonth(2026, time.September); got != 1 {
		t.Errorf("September 2026 starts on weekday %d, want 1 (Tuesday)", got)
	}
	if got := FirstWeekdayOfMonth(2026, time.March); got != 6 {
		t.Errorf("March 2026 starts on weekday %d, want 6 (Sunday)", got)
	}
	if got := FirstWeekdayOfMonth(2024, time.January); got != 0 {
		t.Errorf("January 2024 starts on weekday %d, want 0 (Monday)", got)
	}
}

func TestMonthNavigationWrapsYear(t *testing.T) {
	year, month := PreviousMonth(2026, time.January)
	if year != 2025 || month != time.December {
		t.Errorf("PreviousMonth(2026, January) = %d %v", year, month)
	}
	year, month = NextMonth(2026, time.December)
	if year != 2027 || month != time.January {
		t.Errorf("NextMonth(2026, December) = %d %v", year, month)
	}
	year, month = NextMonth(2026, time.May)
	if year != 2026 || month != time.June {
		t.Errorf("NextMonth(2026, May) = %d %v", year, month)
	}
}

func TestCalendarDateBefore(t *testing.T) {
	a := CalendarDate{2026, time.March, 10}
	for _, earlier := range []CalendarDate{
		{2025, time.December, 31},
		{2026, time.February, 28},
		{2026, time.March, 9},
	} {
		if !earlier.Before(a) {
			t.Errorf("%s should be before %s", earlier, a)
		}
		if a.Before(earlier) {
			t.Errorf("%s should not be before %s", a, earlier)
		}
	}
	if a.Before(a) {
		t.Error("a date is not before itself")
	}
}

func TestCalendarDateValid(t *testing.T) {
	if !(CalendarDate{2024, time.February, 29}).Valid() {
		t.Error("2024-02-29 should be valid")
	}
	if (CalendarDate{2023, time.February, 29}).Valid() {
		t.Error("2023-02-29 should be invalid")
	}
	if (CalendarDate{2026, 0, 10}).Valid() {
		t.Error("month 0 should be invalid")
	}
	if (CalendarDate{2026, time.April, 31}).Valid() {
		t.Error("2026-04-31 should be invalid")
	}
}

func TestFormatDutch(t *testing.T) {
	d := CalendarDate{2026, time.September, 15}
	if got := d.FormatDutch(); got != "dinsdag 15 september 2026" {
		t.Errorf("FormatDutch() = %q", got)
	}
}

func TestParseTimeSlot(t *testing.T) {
	slot, err := ParseTimeSlot("15:30")
	if err != nil {
		t.Fatalf("ParseTimeSlot: %v", err)
	}
	if slot.Hour != 15 || slot.Minute != 30 {
		t.Errorf("ParseTimeSlot = %+v", slot)
	}
	if slot.String() != "15:30" {
		t.Errorf("String() = %q", slot.String())
	}
	for _, bad := range []string{"", "25:00", "12:75", "noon"} {
		if _, err := ParseTimeSlot(bad); err == nil {
			t.Errorf("ParseTimeSlot(%q) should fail", bad)
		}
	}
}

func TestAvailabilityRuleValidate(t *testing.T) {
	if err := DefaultAvailabilityRule().Validate(); err != nil {
		t.Fatalf("default rule should validate: %v", err)
	}

	bad := AvailabilityRule{Windows: map[int]WeekdayWindow{0: {StartHour: 18, EndHour: 12}}, SlotMinutes: 30}
	if err := bad.Validate(); err == nil {
		t.Error("window with start >= end should fail validation")
	}

	bad = AvailabilityRule{Windows: map[int]WeekdayWindow{0: {StartHour: 12, EndHour: 18}}, SlotMinutes: 0}
	if err := bad.Validate(); err == nil {
		t.Error("zero granularity should fail validation")
	}

	bad = AvailabilityRule{Windows: map[int]WeekdayWindow{0: {StartHour: 12, EndHour: 13}}, SlotMinutes: 45}
	if err := bad.Validate(); err == nil {
		t.Error("granularity not dividing the window should fail validation")
	}
}
