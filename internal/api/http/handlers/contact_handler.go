package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/consultium-ai/demo-booking-service/internal/api/dto"
	"github.com/consultium-ai/demo-booking-service/internal/service"
	apperrors "github.com/consultium-ai/demo-booking-service/pkg/util"
)

// ContactHandler serves the public contact form endpoint.
type ContactHandler struct {
	contact *service.ContactService
}

// NewContactHandler constructs handler.
func NewContactHandler(contact *service.ContactService) *ContactHandler {
	return &ContactHandler{contact: contact}
}

// Submit POST /contact.
func (h *ContactHandler) Submit(c *fiber.Ctx) error {
	var req dto.ContactFormRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := h.contact.Submit(c.Context(), service.ContactMessage{
		Name:         req.Name,
		Email:        req.Email,
		Organization: req.Organization,
		Message:      req.Message,
	}); err != nil {
		return err
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"data": dto.ContactFormResponse{Status: "sent"}})
}
