package events

import (
	"time"

	"github.com/consultium-ai/demo-booking-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventBookingConfirmed  EventType = "booking_confirmed"
	EventContactSubmitted  EventType = "contact_submitted"
	EventDeliveryFallback  EventType = "delivery_fallback"
	EventDeliveryExhausted EventType = "delivery_exhausted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// BookingConfirmedPayload payload.
type BookingConfirmedPayload struct {
	Reference    string              `json:"reference"`
	Date         domain.CalendarDate `json:"date"`
	Time         domain.TimeSlot     `json:"time"`
	Organization string              `json:"organization"`
}

// ContactSubmittedPayload payload.
type ContactSubmittedPayload struct {
	Email        string `json:"email"`
	PilotRequest bool   `json:"pilot_request"`
}

// DeliveryFallbackPayload marks a delivery that succeeded only after the
// preferred channel failed, a sign of template configuration drift.
type DeliveryFallbackPayload struct {
	Role           domain.RecipientRole   `json:"role"`
	Channel        domain.DeliveryChannel `json:"channel"`
	ChannelIndex   int                    `json:"channel_index"`
	UsedLastResort bool                   `json:"used_last_resort"`
	FailedChannels int                    `json:"failed_channels"`
}

// DeliveryExhaustedPayload payload.
type DeliveryExhaustedPayload struct {
	Role          domain.RecipientRole `json:"role"`
	Recipient     string               `json:"recipient"`
	ChannelsTried int                  `json:"channels_tried"`
	LastErrorText string               `json:"last_error_text"`
}
