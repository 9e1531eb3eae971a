package service

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/consultium-ai/demo-booking-service/internal/domain"
	"github.com/consultium-ai/demo-booking-service/internal/events"
	"github.com/consultium-ai/demo-booking-service/internal/observability"
	"github.com/consultium-ai/demo-booking-service/internal/repository"
	apperrors "github.com/consultium-ai/demo-booking-service/pkg/util"
)

// WizardService coordinates the three-step booking flow. Each transition is
// computed as a pure function over the draft value and then persisted, so
// the step rules are testable without Redis or HTTP.
type WizardService struct {
	availability *AvailabilityService
	dispatcher   NotificationDispatcher
	drafts       repository.DraftRepository
	composer     *MessageComposer
	eventBus     events.Dispatcher
	metrics      *observability.Metrics
	logger       *zap.Logger
	now          func() time.Time
}

// WizardDependencies bundles collaborators for the wizard service.
type WizardDependencies struct {
	Availability *AvailabilityService
	Dispatcher   NotificationDispatcher
	DraftRepo    repository.DraftRepository
	Composer     *MessageComposer
	Events       events.Dispatcher
	Metrics      *observability.Metrics
	Logger       *zap.Logger
	Now          func() time.Time
}

// ContactUpdate carries partial contact-field changes; nil fields are left
// untouched.
type ContactUpdate struct {
	Name         *string
	Organization *string
	Email        *string
}

// SubmitOutcome reports the terminal state of a submission together with the
// visitor-facing banner text.
type SubmitOutcome struct {
	Draft  *domain.BookingDraft
	Banner string
}

// NewWizardService constructs the service.
func NewWizardService(deps WizardDependencies) *WizardService {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &WizardService{
		availability: deps.Availability,
		dispatcher:   deps.Dispatcher,
		drafts:       deps.DraftRepo,
		composer:     deps.Composer,
		eventBus:     deps.Events,
		metrics:      deps.Metrics,
		logger:       deps.Logger,
		now:          now,
	}
}

// Availability exposes the engine for read-only calendar queries.
func (s *WizardService) Availability() *AvailabilityService {
	return s.availability
}

// StartSession creates a fresh draft at the date-selection step.
func (s *WizardService) StartSession(ctx context.Context) (*domain.BookingDraft, error) {
	draft := &domain.BookingDraft{
		SessionID: uuid.NewString(),
		Step:      domain.StepDateSelection,
		CreatedAt: s.now().UTC(),
		UpdatedAt: s.now().UTC(),
	}
	if err := s.drafts.Save(ctx, draft); err != nil {
		return nil, err
	}
	return draft, nil
}

// GetSession loads the current draft snapshot.
func (s *WizardService) GetSession(ctx context.Context, sessionID string) (*domain.BookingDraft, error) {
	return s.drafts.Get(ctx, sessionID)
}

// AbandonSession discards a draft with no side effects.
func (s *WizardService) AbandonSession(ctx context.Context, sessionID string) error {
	return s.drafts.Delete(ctx, sessionID)
}

// SelectDate picks a date, clearing any previously chosen time. Valid from
// the date and time steps; re-selecting from the time step restarts the time
// choice.
func (s *WizardService) SelectDate(ctx context.Context, sessionID string, date domain.CalendarDate) (*domain.BookingDraft, error) {
	return s.transition(ctx, sessionID, func(draft domain.BookingDraft) (domain.BookingDraft, error) {
		return applySelectDate(draft, date, s.availability)
	})
}

// SelectTime picks a slot from the generated set for the selected date.
func (s *WizardService) SelectTime(ctx context.Context, sessionID string, slot domain.TimeSlot) (*domain.BookingDraft, error) {
	return s.transition(ctx, sessionID, func(draft domain.BookingDraft) (domain.BookingDraft, error) {
		return applySelectTime(draft, slot, s.availability)
	})
}

// GoBack steps back one wizard step without discarding selections.
func (s *WizardService) GoBack(ctx context.Context, sessionID string) (*domain.BookingDraft, error) {
	return s.transition(ctx, sessionID, applyGoBack)
}

// UpdateContact mutates contact fields; only valid on the details step.
func (s *WizardService) UpdateContact(ctx context.Context, sessionID string, update ContactUpdate) (*domain.BookingDraft, error) {
	return s.transition(ctx, sessionID, func(draft domain.BookingDraft) (domain.BookingDraft, error) {
		return applyContactUpdate(draft, update)
	})
}

// Submit validates the draft, derives both notifications and dispatches
// them. The owner notification is the authoritative delivery: its outcome
// alone decides SUCCESS versus FAILURE, while the submitter confirmation is
// best effort. FAILURE keeps the draft intact so the visitor can retry.
func (s *WizardService) Submit(ctx context.Context, sessionID string) (*SubmitOutcome, error) {
	draft, err := s.drafts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	// Re-entrant submits while a dispatch is in flight are ignored.
	if draft.Step == domain.StepSubmitting {
		return &SubmitOutcome{Draft: draft}, nil
	}
	if draft.Step != domain.StepContactDetails && draft.Step != domain.StepFailure {
		return nil, apperrors.NewInvalidSelection("booking is not ready for submission", map[string]any{"step": draft.Step})
	}
	if err := validateContact(draft.Contact); err != nil {
		return nil, err
	}

	submitting := *draft
	submitting.Step = domain.StepSubmitting
	submitting.UpdatedAt = s.now().UTC()
	if err := s.drafts.Save(ctx, &submitting); err != nil {
		return nil, err
	}

	booking := domain.Booking{
		Reference: uuid.NewString(),
		Date:      *draft.SelectedDate,
		Time:      *draft.SelectedTime,
		Contact:   draft.Contact,
	}
	ownerReq, submitterReq := s.composer.ComposeBookingNotifications(booking)

	if err := s.dispatcher.Dispatch(ctx, ownerReq); err != nil {
		failed := submitting
		failed.Step = domain.StepFailure
		failed.UpdatedAt = s.now().UTC()
		if saveErr := s.drafts.Save(ctx, &failed); saveErr != nil {
			s.logger.Error("failed to persist failed draft", zap.Error(saveErr))
		}
		s.logger.Warn("booking submission failed",
			zap.String("session_id", sessionID),
			zap.Error(err))
		return &SubmitOutcome{Draft: &failed, Banner: s.composer.FailureBanner()}, nil
	}

	// Best effort: a lost confirmation does not invalidate the booking.
	if err := s.dispatcher.Dispatch(ctx, submitterReq); err != nil {
		s.logger.Warn("submitter confirmation failed after owner delivery",
			zap.String("session_id", sessionID),
			zap.String("email", draft.Contact.Email),
			zap.Error(err))
	}

	succeeded := submitting
	succeeded.Step = domain.StepSuccess
	succeeded.Reference = booking.Reference
	succeeded.UpdatedAt = s.now().UTC()

	// The draft is consumed: a new session is needed for another booking.
	if err := s.drafts.Delete(ctx, sessionID); err != nil {
		s.logger.Warn("failed to delete consumed draft", zap.Error(err))
	}

	s.metrics.RecordBookingAccepted()
	if s.eventBus != nil {
		_ = s.eventBus.Publish(ctx, events.NewEvent(events.EventBookingConfirmed, events.BookingConfirmedPayload{
			Reference:    booking.Reference,
			Date:         booking.Date,
			Time:         booking.Time,
			Organization: booking.Contact.Organization,
		}))
	}
	return &SubmitOutcome{Draft: &succeeded, Banner: s.composer.SuccessBanner()}, nil
}

func (s *WizardService) transition(ctx context.Context, sessionID string, apply func(domain.BookingDraft) (domain.BookingDraft, error)) (*domain.BookingDraft, error) {
	draft, err := s.drafts.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	next, err := apply(*draft)
	if err != nil {
		return nil, err
	}
	next.UpdatedAt = s.now().UTC()
	if err := s.drafts.Save(ctx, &next); err != nil {
		return nil, err
	}
	return &next, nil
}

func applySelectDate(draft domain.BookingDraft, date domain.CalendarDate, availability *AvailabilityService) (domain.BookingDraft, error) {
	if draft.Step != domain.StepDateSelection && draft.Step != domain.StepTimeSelection {
		return domain.BookingDraft{}, apperrors.NewInvalidSelection("date can only be chosen in the first step", map[string]any{"step": draft.Step})
	}
	if !date.Valid() || !availability.IsSelectableDate(date) {
		return domain.BookingDraft{}, apperrors.NewInvalidSelection("date is not selectable", map[string]any{"date": date.String()})
	}
	next := draft
	next.SelectedDate = &date
	// Changing the date invalidates a previously chosen hour.
	next.SelectedTime = nil
	next.Step = domain.StepTimeSelection
	return next, nil
}

func applySelectTime(draft domain.BookingDraft, slot domain.TimeSlot, availability *AvailabilityService) (domain.BookingDraft, error) {
	if draft.Step != domain.StepTimeSelection {
		return domain.BookingDraft{}, apperrors.NewInvalidSelection("time can only be chosen after a date", map[string]any{"step": draft.Step})
	}
	if draft.SelectedDate == nil || !availability.IsSlotAvailable(*draft.SelectedDate, slot) {
		return domain.BookingDraft{}, apperrors.NewInvalidSelection("time slot is not available", map[string]any{"time": slot.String()})
	}
	next := draft
	next.SelectedTime = &slot
	next.Step = domain.StepContactDetails
	return next, nil
}

func applyGoBack(draft domain.BookingDraft) (domain.BookingDraft, error) {
	next := draft
	switch draft.Step {
	case domain.StepTimeSelection:
		// Selections survive going back; only forward re-selection clears
		// downstream state.
		next.Step = domain.StepDateSelection
	case domain.StepContactDetails:
		next.Step = domain.StepTimeSelection
	case domain.StepDateSelection:
		// Already at the initial step: no-op.
	default:
		return domain.BookingDraft{}, apperrors.NewInvalidSelection("cannot go back from this step", map[string]any{"step": draft.Step})
	}
	return next, nil
}

func applyContactUpdate(draft domain.BookingDraft, update ContactUpdate) (domain.BookingDraft, error) {
	if draft.Step != domain.StepContactDetails && draft.Step != domain.StepFailure {
		return domain.BookingDraft{}, apperrors.NewInvalidSelection("contact details come after date and time", map[string]any{"step": draft.Step})
	}
	next := draft
	if update.Name != nil {
		next.Contact.Name = strings.TrimSpace(*update.Name)
	}
	if update.Organization != nil {
		next.Contact.Organization = strings.TrimSpace(*update.Organization)
	}
	if update.Email != nil {
		next.Contact.Email = strings.TrimSpace(*update.Email)
	}
	return next, nil
}

func validateContact(contact domain.Contact) error {
	details := map[string]any{}
	if contact.Organization == "" {
		details["organization"] = "required"
	}
	if contact.Email == "" {
		details["email"] = "required"
	} else if _, err := mail.ParseAddress(contact.Email); err != nil {
		details["email"] = "invalid"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("contact details incomplete", details)
	}
	return nil
}
