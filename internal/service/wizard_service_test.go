package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/consultium-ai/demo-booking-service/internal/domain"
	"github.com/consultium-ai/demo-booking-service/internal/observability"
	apperrors "github.com/consultium-ai/demo-booking-service/pkg/util"
)

// memDraftRepo is an in-memory DraftRepository for wizard tests.
type memDraftRepo struct {
	mu     sync.Mutex
	drafts map[string]domain.BookingDraft
}

func newMemDraftRepo() *memDraftRepo {
	return &memDraftRepo{drafts: make(map[string]domain.BookingDraft)}
}

func (r *memDraftRepo) Save(ctx context.Context, draft *domain.BookingDraft) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.drafts[draft.SessionID] = *draft
	return nil
}

func (r *memDraftRepo) Get(ctx context.Context, sessionID string) (*domain.BookingDraft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	draft, ok := r.drafts[sessionID]
	if !ok {
		return nil, apperrors.NewNotFound("booking session", map[string]any{"session_id": sessionID})
	}
	copied := draft
	return &copied, nil
}

func (r *memDraftRepo) Delete(ctx context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.drafts, sessionID)
	return nil
}

// roleDispatcher fails dispatches per recipient role and records requests.
type roleDispatcher struct {
	mu       sync.Mutex
	failFor  map[domain.RecipientRole]bool
	requests []domain.NotificationRequest
}

func (d *roleDispatcher) Dispatch(ctx context.Context, req domain.NotificationRequest) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.requests = append(d.requests, req)
	if d.failFor[req.Role] {
		return ErrAllChannelsFailed
	}
	return nil
}

func newWizardFixture(dispatcher *roleDispatcher) (*WizardService, *memDraftRepo, *capturedEvents) {
	repo := newMemDraftRepo()
	captured := &capturedEvents{}
	svc := NewWizardService(WizardDependencies{
		Availability: newTestAvailability(),
		Dispatcher:   dispatcher,
		DraftRepo:    repo,
		Composer:     NewMessageComposer("info@consultiumai.com", "Consultium AI", "info@consultiumai.com"),
		Events:       captured,
		Metrics:      observability.NewMetrics(),
		Logger:       zap.NewNop(),
		Now:          fixedClock(),
	})
	return svc, repo, captured
}

func stringPtr(s string) *string { return &s }

// Clock is pinned to Tuesday 2026-03-10, so these are all selectable.
var (
	openTuesday = domain.CalendarDate{Year: 2026, Month: 3, Day: 24}
	openFriday  = domain.CalendarDate{Year: 2026, Month: 3, Day: 27}
)

func TestStartSession(t *testing.T) {
	svc, repo, _ := newWizardFixture(&roleDispatcher{})

	draft, err := svc.StartSession(context.Background())
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if draft.SessionID == "" {
		t.Fatal("expected a session id")
	}
	if draft.Step != domain.StepDateSelection {
		t.Fatalf("step = %s, want %s", draft.Step, domain.StepDateSelection)
	}
	if _, err := repo.Get(context.Background(), draft.SessionID); err != nil {
		t.Fatalf("draft not persisted: %v", err)
	}
}

func TestSelectDateAdvancesToTimeSelection(t *testing.T) {
	svc, _, _ := newWizardFixture(&roleDispatcher{})
	draft, _ := svc.StartSession(context.Background())

	next, err := svc.SelectDate(context.Background(), draft.SessionID, openTuesday)
	if err != nil {
		t.Fatalf("SelectDate: %v", err)
	}
	if next.Step != domain.StepTimeSelection {
		t.Fatalf("step = %s, want %s", next.Step, domain.StepTimeSelection)
	}
	if next.SelectedDate == nil || !next.SelectedDate.Equal(openTuesday) {
		t.Fatalf("selected date = %v, want %v", next.SelectedDate, openTuesday)
	}
}

func TestSelectDateRejectsClosedAndPastDays(t *testing.T) {
	svc, _, _ := newWizardFixture(&roleDispatcher{})
	draft, _ := svc.StartSession(context.Background())

	cases := []struct {
		name string
		date domain.CalendarDate
	}{
		{"sunday", domain.CalendarDate{Year: 2026, Month: 3, Day: 15}},
		{"saturday", domain.CalendarDate{Year: 2026, Month: 3, Day: 14}},
		{"yesterday", domain.CalendarDate{Year: 2026, Month: 3, Day: 9}},
		{"nonexistent", domain.CalendarDate{Year: 2026, Month: 2, Day: 30}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.SelectDate(context.Background(), draft.SessionID, tc.date)
			var domainErr *apperrors.DomainError
			if !errors.As(err, &domainErr) || domainErr.Code != "INVALID_SELECTION" {
				t.Fatalf("err = %v, want INVALID_SELECTION", err)
			}
		})
	}
}

func TestReselectingDateClearsTime(t *testing.T) {
	svc, _, _ := newWizardFixture(&roleDispatcher{})
	draft, _ := svc.StartSession(context.Background())

	if _, err := svc.SelectDate(context.Background(), draft.SessionID, openTuesday); err != nil {
		t.Fatalf("SelectDate: %v", err)
	}
	if _, err := svc.SelectTime(context.Background(), draft.SessionID, domain.TimeSlot{Hour: 14}); err != nil {
		t.Fatalf("SelectTime: %v", err)
	}

	next, err := svc.SelectDate(context.Background(), draft.SessionID, openFriday)
	if err != nil {
		t.Fatalf("re-select date: %v", err)
	}
	if next.Step != domain.StepTimeSelection {
		t.Fatalf("step = %s, want %s", next.Step, domain.StepTimeSelection)
	}
	if next.SelectedTime != nil {
		t.Fatalf("selected time should be cleared, got %v", next.SelectedTime)
	}
	if !next.SelectedDate.Equal(openFriday) {
		t.Fatalf("selected date = %v, want %v", next.SelectedDate, openFriday)
	}
}

func TestSelectTimeGuards(t *testing.T) {
	svc, _, _ := newWizardFixture(&roleDispatcher{})
	draft, _ := svc.StartSession(context.Background())

	// No date chosen yet.
	if _, err := svc.SelectTime(context.Background(), draft.SessionID, domain.TimeSlot{Hour: 14}); err == nil {
		t.Fatal("expected error when selecting time before a date")
	}

	if _, err := svc.SelectDate(context.Background(), draft.SessionID, openTuesday); err != nil {
		t.Fatalf("SelectDate: %v", err)
	}

	// Off-grid and out-of-window slots are rejected.
	for _, slot := range []domain.TimeSlot{{Hour: 14, Minute: 15}, {Hour: 11, Minute: 30}, {Hour: 18}} {
		if _, err := svc.SelectTime(context.Background(), draft.SessionID, slot); err == nil {
			t.Fatalf("slot %s should be rejected", slot)
		}
	}

	next, err := svc.SelectTime(context.Background(), draft.SessionID, domain.TimeSlot{Hour: 14})
	if err != nil {
		t.Fatalf("SelectTime: %v", err)
	}
	if next.Step != domain.StepContactDetails {
		t.Fatalf("step = %s, want %s", next.Step, domain.StepContactDetails)
	}
}

func TestGoBackPreservesSelections(t *testing.T) {
	svc, _, _ := newWizardFixture(&roleDispatcher{})
	draft, _ := svc.StartSession(context.Background())
	svcMust := func(d *domain.BookingDraft, err error) *domain.BookingDraft {
		t.Helper()
		if err != nil {
			t.Fatalf("transition: %v", err)
		}
		return d
	}

	svcMust(svc.SelectDate(context.Background(), draft.SessionID, openTuesday))
	svcMust(svc.SelectTime(context.Background(), draft.SessionID, domain.TimeSlot{Hour: 14}))

	back := svcMust(svc.GoBack(context.Background(), draft.SessionID))
	if back.Step != domain.StepTimeSelection {
		t.Fatalf("step = %s, want %s", back.Step, domain.StepTimeSelection)
	}
	if back.SelectedTime == nil || back.SelectedTime.Hour != 14 {
		t.Fatalf("selected time lost going back: %v", back.SelectedTime)
	}

	back = svcMust(svc.GoBack(context.Background(), draft.SessionID))
	if back.Step != domain.StepDateSelection {
		t.Fatalf("step = %s, want %s", back.Step, domain.StepDateSelection)
	}
	if back.SelectedDate == nil || !back.SelectedDate.Equal(openTuesday) {
		t.Fatalf("selected date lost going back: %v", back.SelectedDate)
	}

	// At the first step going back is a no-op.
	back = svcMust(svc.GoBack(context.Background(), draft.SessionID))
	if back.Step != domain.StepDateSelection {
		t.Fatalf("step = %s, want %s", back.Step, domain.StepDateSelection)
	}
}

func TestUpdateContactRequiresDetailsStep(t *testing.T) {
	svc, _, _ := newWizardFixture(&roleDispatcher{})
	draft, _ := svc.StartSession(context.Background())

	_, err := svc.UpdateContact(context.Background(), draft.SessionID, ContactUpdate{Email: stringPtr("a@b.nl")})
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "INVALID_SELECTION" {
		t.Fatalf("err = %v, want INVALID_SELECTION", err)
	}
}

func TestSubmitValidatesContact(t *testing.T) {
	svc, repo, _ := newWizardFixture(&roleDispatcher{})
	draft := seedContactStep(t, svc)

	if _, err := svc.UpdateContact(context.Background(), draft.SessionID, ContactUpdate{
		Name:  stringPtr("Jan Jansen"),
		Email: stringPtr("jan@delinde.nl"),
	}); err != nil {
		t.Fatalf("UpdateContact: %v", err)
	}

	// Organization is required.
	_, err := svc.Submit(context.Background(), draft.SessionID)
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "VALIDATION_FAILED" {
		t.Fatalf("err = %v, want VALIDATION_FAILED", err)
	}
	if domainErr.Details["organization"] != "required" {
		t.Fatalf("details = %v, want organization required", domainErr.Details)
	}

	// A failed validation leaves the draft where it was, fields intact.
	stored, err := repo.Get(context.Background(), draft.SessionID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.Step != domain.StepContactDetails {
		t.Fatalf("step = %s, want %s", stored.Step, domain.StepContactDetails)
	}
	if stored.Contact.Name != "Jan Jansen" || stored.Contact.Email != "jan@delinde.nl" {
		t.Fatalf("contact fields lost: %+v", stored.Contact)
	}

	// Malformed e-mail addresses are rejected too.
	if _, err := svc.UpdateContact(context.Background(), draft.SessionID, ContactUpdate{
		Organization: stringPtr("Huisartsenpraktijk De Linde"),
		Email:        stringPtr("not-an-address"),
	}); err != nil {
		t.Fatalf("UpdateContact: %v", err)
	}
	_, err = svc.Submit(context.Background(), draft.SessionID)
	if !errors.As(err, &domainErr) || domainErr.Details["email"] != "invalid" {
		t.Fatalf("err = %v, want invalid email detail", err)
	}
}

func TestSubmitSucceedsWhenOwnerDeliveryLands(t *testing.T) {
	// The visitor confirmation failing entirely must not fail the booking.
	dispatcher := &roleDispatcher{failFor: map[domain.RecipientRole]bool{domain.RecipientSubmitter: true}}
	svc, repo, captured := newWizardFixture(dispatcher)
	draft := seedContactStep(t, svc)

	if _, err := svc.UpdateContact(context.Background(), draft.SessionID, ContactUpdate{
		Name:         stringPtr("Jan Jansen"),
		Organization: stringPtr("Huisartsenpraktijk De Linde"),
		Email:        stringPtr("jan@delinde.nl"),
	}); err != nil {
		t.Fatalf("UpdateContact: %v", err)
	}

	outcome, err := svc.Submit(context.Background(), draft.SessionID)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if outcome.Draft.Step != domain.StepSuccess {
		t.Fatalf("step = %s, want %s", outcome.Draft.Step, domain.StepSuccess)
	}
	if outcome.Draft.Reference == "" {
		t.Fatal("expected a booking reference")
	}
	if outcome.Banner == "" {
		t.Fatal("expected a success banner")
	}

	if len(dispatcher.requests) != 2 {
		t.Fatalf("dispatched %d notifications, want 2", len(dispatcher.requests))
	}
	if dispatcher.requests[0].Role != domain.RecipientOwner {
		t.Fatalf("first dispatch role = %s, want %s", dispatcher.requests[0].Role, domain.RecipientOwner)
	}
	if dispatcher.requests[1].Role != domain.RecipientSubmitter {
		t.Fatalf("second dispatch role = %s, want %s", dispatcher.requests[1].Role, domain.RecipientSubmitter)
	}

	// The draft is consumed on success.
	if _, err := repo.Get(context.Background(), draft.SessionID); err == nil {
		t.Fatal("draft should be deleted after a successful submit")
	}

	found := false
	for _, event := range captured.events {
		if event.Type == "booking_confirmed" {
			found = true
		}
	}
	if !found {
		t.Fatal("expected a booking_confirmed event")
	}
}

func TestSubmitOwnerFailureRetainsDraftForRetry(t *testing.T) {
	dispatcher := &roleDispatcher{failFor: map[domain.RecipientRole]bool{domain.RecipientOwner: true}}
	svc, repo, _ := newWizardFixture(dispatcher)
	draft := seedContactStep(t, svc)

	if _, err := svc.UpdateContact(context.Background(), draft.SessionID, ContactUpdate{
		Organization: stringPtr("Huisartsenpraktijk De Linde"),
		Email:        stringPtr("jan@delinde.nl"),
	}); err != nil {
		t.Fatalf("UpdateContact: %v", err)
	}

	outcome, err := svc.Submit(context.Background(), draft.SessionID)
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if outcome.Draft.Step != domain.StepFailure {
		t.Fatalf("step = %s, want %s", outcome.Draft.Step, domain.StepFailure)
	}
	if outcome.Banner == "" {
		t.Fatal("expected a failure banner with contact alternatives")
	}

	stored, err := repo.Get(context.Background(), draft.SessionID)
	if err != nil {
		t.Fatalf("draft should survive a failed submit: %v", err)
	}
	if stored.Step != domain.StepFailure {
		t.Fatalf("stored step = %s, want %s", stored.Step, domain.StepFailure)
	}
	if stored.SelectedDate == nil || stored.SelectedTime == nil {
		t.Fatal("selections should survive a failed submit")
	}

	// Once delivery is possible again, retrying from FAILURE succeeds.
	dispatcher.mu.Lock()
	dispatcher.failFor = nil
	dispatcher.mu.Unlock()

	outcome, err = svc.Submit(context.Background(), draft.SessionID)
	if err != nil {
		t.Fatalf("retry Submit: %v", err)
	}
	if outcome.Draft.Step != domain.StepSuccess {
		t.Fatalf("retry step = %s, want %s", outcome.Draft.Step, domain.StepSuccess)
	}
}

func TestSubmitWhileSubmittingIsIgnored(t *testing.T) {
	dispatcher := &roleDispatcher{}
	svc, repo, _ := newWizardFixture(dispatcher)

	date := openTuesday
	slot := domain.TimeSlot{Hour: 14}
	inFlight := &domain.BookingDraft{
		SessionID:    "in-flight",
		Step:         domain.StepSubmitting,
		SelectedDate: &date,
		SelectedTime: &slot,
		Contact: domain.Contact{
			Organization: "Huisartsenpraktijk De Linde",
			Email:        "jan@delinde.nl",
		},
	}
	if err := repo.Save(context.Background(), inFlight); err != nil {
		t.Fatalf("Save: %v", err)
	}

	outcome, err := svc.Submit(context.Background(), "in-flight")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if outcome.Draft.Step != domain.StepSubmitting {
		t.Fatalf("step = %s, want %s", outcome.Draft.Step, domain.StepSubmitting)
	}
	if len(dispatcher.requests) != 0 {
		t.Fatalf("dispatched %d notifications, want 0", len(dispatcher.requests))
	}
}

func seedContactStep(t *testing.T, svc *WizardService) *domain.BookingDraft {
	t.Helper()
	draft, err := svc.StartSession(context.Background())
	if err != nil {
		t.Fatalf("StartSession: %v", err)
	}
	if _, err := svc.SelectDate(context.Background(), draft.SessionID, openTuesday); err != nil {
		t.Fatalf("SelectDate: %v", err)
	}
	if _, err := svc.SelectTime(context.Background(), draft.SessionID, domain.TimeSlot{Hour: 14}); err != nil {
		t.Fatalf("SelectTime: %v", err)
	}
	return draft
}
