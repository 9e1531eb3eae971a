package dto

import (
	"time"

	"github.com/consultium-ai/demo-booking-service/internal/domain"
)

// SelectDateRequest payload.
type SelectDateRequest struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

// SelectTimeRequest payload; Time uses the "15:04" form.
type SelectTimeRequest struct {
	Time string `json:"time"`
}

// UpdateContactRequest carries partial contact changes; omitted fields stay
// untouched.
type UpdateContactRequest struct {
	Name         *string `json:"name"`
	Organization *string `json:"organization"`
	Email        *string `json:"email"`
}

// ContactResponse mirrors the stored contact fields.
type ContactResponse struct {
	Name         string `json:"name"`
	Organization string `json:"organization"`
	Email        string `json:"email"`
}

// SessionResponse is the wizard snapshot returned after every transition.
type SessionResponse struct {
	SessionID    string          `json:"session_id"`
	Step         string          `json:"step"`
	SelectedDate *string         `json:"selected_date"`
	SelectedTime *string         `json:"selected_time"`
	Contact      ContactResponse `json:"contact"`
	Reference    string          `json:"reference,omitempty"`
	Banner       string          `json:"banner,omitempty"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// FromDraft maps a draft to its response shape.
func FromDraft(draft *domain.BookingDraft, banner string) SessionResponse {
	resp := SessionResponse{
		SessionID: draft.SessionID,
		Step:      string(draft.Step),
		Contact: ContactResponse{
			Name:         draft.Contact.Name,
			Organization: draft.Contact.Organization,
			Email:        draft.Contact.Email,
		},
		Reference: draft.Reference,
		Banner:    banner,
		UpdatedAt: draft.UpdatedAt,
	}
	if draft.SelectedDate != nil {
		s := draft.SelectedDate.String()
		resp.SelectedDate = &s
	}
	if draft.SelectedTime != nil {
		s := draft.SelectedTime.String()
		resp.SelectedTime = &s
	}
	return resp
}
