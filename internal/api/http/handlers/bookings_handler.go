package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/consultium-ai/demo-booking-service/internal/api/dto"
	"github.com/consultium-ai/demo-booking-service/internal/domain"
	"github.com/consultium-ai/demo-booking-service/internal/service"
	apperrors "github.com/consultium-ai/demo-booking-service/pkg/util"
)

// BookingsHandler manages wizard session endpoints.
type BookingsHandler struct {
	wizard *service.WizardService
}

// NewBookingsHandler constructs handler.
func NewBookingsHandler(wizard *service.WizardService) *BookingsHandler {
	return &BookingsHandler{wizard: wizard}
}

// StartSession POST /bookings/sessions.
func (h *BookingsHandler) StartSession(c *fiber.Ctx) error {
	draft, err := h.wizard.StartSession(c.Context())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.FromDraft(draft, "")})
}

// GetSession GET /bookings/sessions/:id.
func (h *BookingsHandler) GetSession(c *fiber.Ctx) error {
	draft, err := h.wizard.GetSession(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromDraft(draft, "")})
}

// AbandonSession DELETE /bookings/sessions/:id.
func (h *BookingsHandler) AbandonSession(c *fiber.Ctx) error {
	if err := h.wizard.AbandonSession(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SelectDate POST /bookings/sessions/:id/date.
func (h *BookingsHandler) SelectDate(c *fiber.Ctx) error {
	var req dto.SelectDateRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Month < 1 || req.Month > 12 {
		return apperrors.NewValidationError("month out of range", fiber.Map{"month": req.Month})
	}
	date := domain.CalendarDate{Year: req.Year, Month: time.Month(req.Month), Day: req.Day}
	draft, err := h.wizard.SelectDate(c.Context(), c.Params("id"), date)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromDraft(draft, "")})
}

// SelectTime POST /bookings/sessions/:id/time.
func (h *BookingsHandler) SelectTime(c *fiber.Ctx) error {
	var req dto.SelectTimeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	slot, err := domain.ParseTimeSlot(req.Time)
	if err != nil {
		return apperrors.NewValidationError("time must be HH:MM", fiber.Map{"time": req.Time})
	}
	draft, err := h.wizard.SelectTime(c.Context(), c.Params("id"), slot)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromDraft(draft, "")})
}

// GoBack POST /bookings/sessions/:id/back.
func (h *BookingsHandler) GoBack(c *fiber.Ctx) error {
	draft, err := h.wizard.GoBack(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromDraft(draft, "")})
}

// UpdateContact PATCH /bookings/sessions/:id/contact.
func (h *BookingsHandler) UpdateContact(c *fiber.Ctx) error {
	var req dto.UpdateContactRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	draft, err := h.wizard.UpdateContact(c.Context(), c.Params("id"), service.ContactUpdate{
		Name:         req.Name,
		Organization: req.Organization,
		Email:        req.Email,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromDraft(draft, "")})
}

// Submit POST /bookings/sessions/:id/submit. Delivery failure is not an
// HTTP error: the snapshot comes back in the FAILURE step with a banner so
// the visitor can retry or use the out-of-band contact route.
func (h *BookingsHandler) Submit(c *fiber.Ctx) error {
	outcome, err := h.wizard.Submit(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.FromDraft(outcome.Draft, outcome.Banner)})
}
