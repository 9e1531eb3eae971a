package domain

import "time"

// WizardStep enumerates booking wizard states.
type WizardStep string

const (
	StepDateSelection  WizardStep = "DATE_SELECTION"
	StepTimeSelection  WizardStep = "TIME_SELECTION"
	StepContactDetails WizardStep = "CONTACT_DETAILS"
	StepSubmitting     WizardStep = "SUBMITTING"
	StepSuccess        WizardStep = "SUCCESS"
	StepFailure        WizardStep = "FAILURE"
)

// Contact holds the details entered in the final wizard step. Name is
// optional; Organization and Email are required before submission.
type Contact struct {
	Name         string `json:"name"`
	Organization string `json:"organization"`
	Email        string `json:"email"`
}

// DisplayName returns the name to address the submitter by, falling back to
// the organization when no personal name was entered.
func (c Contact) DisplayName() string {
	if c.Name != "" {
		return c.Name
	}
	return c.Organization
}

// BookingDraft is the in-progress selection owned by one wizard session.
// Invariants: SelectedTime is nil unless SelectedDate is set, and Step cannot
// reach CONTACT_DETAILS unless both are set.
type BookingDraft struct {
	SessionID    string        `json:"session_id"`
	Step         WizardStep    `json:"step"`
	SelectedDate *CalendarDate `json:"selected_date,omitempty"`
	SelectedTime *TimeSlot     `json:"selected_time,omitempty"`
	Contact      Contact       `json:"contact"`
	Reference    string        `json:"reference,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// Booking is a confirmed appointment derived from a completed draft. It is
// handed to notification delivery and never persisted.
type Booking struct {
	Reference string
	Date      CalendarDate
	Time      TimeSlot
	Contact   Contact
}
