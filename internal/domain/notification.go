package domain

import "time"

// RecipientRole distinguishes the two notifications sent per booking.
type RecipientRole string

const (
	RecipientOwner     RecipientRole = "OWNER"
	RecipientSubmitter RecipientRole = "SUBMITTER"
)

// NotificationRequest is an immutable delivery order produced once a draft is
// submitted. Two are derived from each confirmed booking.
type NotificationRequest struct {
	Role             RecipientRole
	RecipientName    string
	RecipientAddress string
	ReplyTo          string
	Subject          string
	Body             string
}

// DeliveryChannel identifies one mail template on the external relay. The
// dispatcher tries channels in configured priority order.
type DeliveryChannel string

// DeliveryAttempt records the outcome of one channel attempt for the audit
// trail.
type DeliveryAttempt struct {
	ID           string
	Role         RecipientRole
	Recipient    string
	Channel      DeliveryChannel
	ChannelIndex int
	LastResort   bool
	Success      bool
	ErrorText    string
	AttemptedAt  time.Time
}
