package dto

// ContactFormRequest payload. An empty message marks pilot-programme
// interest.
type ContactFormRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Organization string `json:"organization"`
	Message      string `json:"message"`
}

// ContactFormResponse acknowledgement.
type ContactFormResponse struct {
	Status string `json:"status"`
}
