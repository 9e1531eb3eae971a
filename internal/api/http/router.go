package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/consultium-ai/demo-booking-service/internal/api/http/handlers"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health   *handlers.HealthHandler
	Calendar *handlers.CalendarHandler
	Bookings *handlers.BookingsHandler
	Contact  *handlers.ContactHandler
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Get("/calendar", cfg.Calendar.GetMonth)
	app.Get("/calendar/slots", cfg.Calendar.GetSlots)

	sessions := app.Group("/bookings/sessions")
	sessions.Post("", cfg.Bookings.StartSession)
	sessions.Get("/:id", cfg.Bookings.GetSession)
	sessions.Delete("/:id", cfg.Bookings.AbandonSession)
	sessions.Post("/:id/date", cfg.Bookings.SelectDate)
	sessions.Post("/:id/time", cfg.Bookings.SelectTime)
	sessions.Post("/:id/back", cfg.Bookings.GoBack)
	sessions.Patch("/:id/contact", cfg.Bookings.UpdateContact)
	sessions.Post("/:id/submit", cfg.Bookings.Submit)

	app.Post("/contact", cfg.Contact.Submit)
}
