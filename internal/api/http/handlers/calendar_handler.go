package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/consultium-ai/demo-booking-service/internal/api/dto"
	"github.com/consultium-ai/demo-booking-service/internal/domain"
	"github.com/consultium-ai/demo-booking-service/internal/service"
	apperrors "github.com/consultium-ai/demo-booking-service/pkg/util"
)

// CalendarHandler serves the month grid and slot listings.
type CalendarHandler struct {
	availability *service.AvailabilityService
}

// NewCalendarHandler constructs handler.
func NewCalendarHandler(availability *service.AvailabilityService) *CalendarHandler {
	return &CalendarHandler{availability: availability}
}

// GetMonth GET /calendar. Defaults to the current month; an optional
// selected date marks its cell.
func (h *CalendarHandler) GetMonth(c *fiber.Ctx) error {
	today := h.availability.Today()
	year := c.QueryInt("year", today.Year)
	month := c.QueryInt("month", int(today.Month))
	if month < 1 || month > 12 || year < 1 {
		return apperrors.NewValidationError("year and month out of range", fiber.Map{"year": year, "month": month})
	}

	var selected *domain.CalendarDate
	if raw := c.Query("selected"); raw != "" {
		date, err := parseISODate(raw)
		if err != nil {
			return apperrors.NewValidationError("selected must be YYYY-MM-DD", fiber.Map{"selected": raw})
		}
		selected = &date
	}

	grid := h.availability.Grid(year, time.Month(month), selected)
	return c.JSON(fiber.Map{"data": dto.FromMonthGrid(grid)})
}

// GetSlots GET /calendar/slots?date=YYYY-MM-DD.
func (h *CalendarHandler) GetSlots(c *fiber.Ctx) error {
	raw := c.Query("date")
	if raw == "" {
		return apperrors.NewValidationError("date required", nil)
	}
	date, err := parseISODate(raw)
	if err != nil {
		return apperrors.NewValidationError("date must be YYYY-MM-DD", fiber.Map{"date": raw})
	}
	slots := h.availability.TimeSlots(date)
	return c.JSON(fiber.Map{"data": dto.FromSlots(date, slots)})
}

func parseISODate(raw string) (domain.CalendarDate, error) {
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return domain.CalendarDate{}, err
	}
	return domain.DateOf(t), nil
}
