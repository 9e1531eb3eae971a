package dto

import (
	"github.com/consultium-ai/demo-booking-service/internal/domain"
	"github.com/consultium-ai/demo-booking-service/internal/service"
)

// CalendarCellResponse is one day cell in the month grid.
type CalendarCellResponse struct {
	Day   int    `json:"day"`
	State string `json:"state"`
	Today bool   `json:"today"`
}

// CalendarMonthResponse is the rendered month grid, Monday first.
type CalendarMonthResponse struct {
	Year          int                    `json:"year"`
	Month         int                    `json:"month"`
	MonthName     string                 `json:"month_name"`
	LeadingBlanks int                    `json:"leading_blanks"`
	CanGoPrevious bool                   `json:"can_go_previous"`
	Cells         []CalendarCellResponse `json:"cells"`
}

// SlotListResponse lists the bookable times for one date.
type SlotListResponse struct {
	Date  string   `json:"date"`
	Slots []string `json:"slots"`
}

// FromMonthGrid maps a grid to its response shape.
func FromMonthGrid(grid service.MonthGrid) CalendarMonthResponse {
	cells := make([]CalendarCellResponse, 0, len(grid.Cells))
	for _, cell := range grid.Cells {
		cells = append(cells, CalendarCellResponse{
			Day:   cell.Day,
			State: string(cell.State),
			Today: cell.Today,
		})
	}
	return CalendarMonthResponse{
		Year:          grid.Year,
		Month:         int(grid.Month),
		MonthName:     domain.DutchMonthName(grid.Month),
		LeadingBlanks: grid.LeadingBlanks,
		CanGoPrevious: grid.CanGoPrevious,
		Cells:         cells,
	}
}

// FromSlots maps generated slots to their response shape.
func FromSlots(date domain.CalendarDate, slots []domain.TimeSlot) SlotListResponse {
	out := make([]string, 0, len(slots))
	for _, slot := range slots {
		out = append(out, slot.String())
	}
	return SlotListResponse{Date: date.String(), Slots: out}
}
