package service

import (
	"context"
	"net/mail"
	"strings"

	"go.uber.org/zap"

	"github.com/consultium-ai/demo-booking-service/internal/events"
	apperrors "github.com/consultium-ai/demo-booking-service/pkg/util"
)

// ContactMessage is a general enquiry from the public contact form. An empty
// Message marks a pilot-programme interest submission.
type ContactMessage struct {
	Name         string
	Email        string
	Organization string
	Message      string
}

// ContactService forwards contact-form enquiries to the practice owner
// through the same fallback dispatcher the booking flow uses.
type ContactService struct {
	dispatcher NotificationDispatcher
	composer   *MessageComposer
	eventBus   events.Dispatcher
	logger     *zap.Logger
}

// NewContactService constructs the service.
func NewContactService(dispatcher NotificationDispatcher, composer *MessageComposer, eventBus events.Dispatcher, logger *zap.Logger) *ContactService {
	return &ContactService{
		dispatcher: dispatcher,
		composer:   composer,
		eventBus:   eventBus,
		logger:     logger,
	}
}

// Submit validates and delivers one enquiry. Unlike bookings there is no
// session to retain: a failed delivery surfaces immediately so the form can
// show the fallback contact details.
func (s *ContactService) Submit(ctx context.Context, msg ContactMessage) error {
	msg.Name = strings.TrimSpace(msg.Name)
	msg.Email = strings.TrimSpace(msg.Email)
	msg.Organization = strings.TrimSpace(msg.Organization)
	msg.Message = strings.TrimSpace(msg.Message)

	details := map[string]any{}
	if msg.Name == "" {
		details["name"] = "required"
	}
	if msg.Email == "" {
		details["email"] = "required"
	} else if _, err := mail.ParseAddress(msg.Email); err != nil {
		details["email"] = "invalid"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("contact form incomplete", details)
	}

	req := s.composer.ComposeContactNotification(msg.Name, msg.Email, msg.Organization, msg.Message)
	if err := s.dispatcher.Dispatch(ctx, req); err != nil {
		s.logger.Warn("contact form delivery failed",
			zap.String("email", msg.Email),
			zap.Error(err))
		return apperrors.NewDeliveryFailed(err)
	}

	if s.eventBus != nil {
		_ = s.eventBus.Publish(ctx, events.NewEvent(events.EventContactSubmitted, events.ContactSubmittedPayload{
			Email:        msg.Email,
			PilotRequest: msg.Message == "",
		}))
	}
	return nil
}
