package service

import (
	"fmt"

	"github.com/consultium-ai/demo-booking-service/internal/domain"
)

// MessageComposer builds the Dutch-facing notification texts for bookings
// and contact submissions.
type MessageComposer struct {
	ownerEmail      string
	ownerName       string
	fallbackContact string
}

// NewMessageComposer constructs the composer.
func NewMessageComposer(ownerEmail, ownerName, fallbackContact string) *MessageComposer {
	return &MessageComposer{
		ownerEmail:      ownerEmail,
		ownerName:       ownerName,
		fallbackContact: fallbackContact,
	}
}

// ComposeBookingNotifications derives the owner notification and the
// submitter confirmation from one confirmed booking.
func (c *MessageComposer) ComposeBookingNotifications(booking domain.Booking) (owner, submitter domain.NotificationRequest) {
	date := booking.Date.FormatDutch()
	slot := booking.Time.String()
	name := booking.Contact.Name
	if name == "" {
		name = "-"
	}

	owner = domain.NotificationRequest{
		Role:             domain.RecipientOwner,
		RecipientName:    c.ownerName,
		RecipientAddress: c.ownerEmail,
		ReplyTo:          booking.Contact.Email,
		Subject:          fmt.Sprintf("Demo Aanvraag - %s om %s", date, slot),
		Body: fmt.Sprintf("NIEUWE DEMO AANVRAAG\n\n"+
			"Datum: %s\n"+
			"Tijd: %s\n\n"+
			"Naam: %s\n"+
			"Praktijk: %s\n"+
			"Email: %s\n\n"+
			"Referentie: %s\n"+
			"Deze afspraak is bevestigd. Neem contact op met de praktijk voor verdere details.",
			date, slot, name, booking.Contact.Organization, booking.Contact.Email, booking.Reference),
	}

	submitter = domain.NotificationRequest{
		Role:             domain.RecipientSubmitter,
		RecipientName:    booking.Contact.DisplayName(),
		RecipientAddress: booking.Contact.Email,
		ReplyTo:          c.ownerEmail,
		Subject:          fmt.Sprintf("Bevestiging: Demo gepland op %s", date),
		Body: fmt.Sprintf("Beste %s,\n\n"+
			"Uw demo is bevestigd!\n\n"+
			"Datum: %s\n"+
			"Tijd: %s\n"+
			"Praktijk: %s\n\n"+
			"Wat kunt u verwachten:\n"+
			"- We komen bij u langs met een tablet\n"+
			"- U ontvangt een testlink met een demo-omgeving\n"+
			"- We hebben een script klaar met een 'dummy' patient\n"+
			"- U ervaart zelf hoe Consultium AI werkt\n\n"+
			"Mocht u vragen hebben of de afspraak willen wijzigen, neem dan contact op via %s.\n\n"+
			"Met vriendelijke groet,\n%s",
			booking.Contact.DisplayName(), date, slot, booking.Contact.Organization, c.fallbackContact, c.ownerName),
	}
	return owner, submitter
}

// ComposeContactNotification builds the owner notification for a contact
// form submission. An empty message becomes a pilot-interest request with a
// pre-filled body.
func (c *MessageComposer) ComposeContactNotification(name, email, organization, message string) domain.NotificationRequest {
	subject := "Nieuw bericht via contactformulier"
	if message == "" {
		subject = "Pilot-deelname"
		org := organization
		if org == "" {
			org = "-"
		}
		message = fmt.Sprintf("Ik wil graag deelnemen aan de pilot.\nHuisartspraktijk: %s", org)
	}
	return domain.NotificationRequest{
		Role:             domain.RecipientOwner,
		RecipientName:    c.ownerName,
		RecipientAddress: c.ownerEmail,
		ReplyTo:          email,
		Subject:          subject,
		Body:             fmt.Sprintf("Naam: %s\nEmail: %s\n\n%s", name, email, message),
	}
}

// FailureBanner is the visitor-facing message when every delivery channel
// failed. It must stay distinct from field validation messages and always
// offer the out-of-band contact route.
func (c *MessageComposer) FailureBanner() string {
	return fmt.Sprintf("Er ging iets mis. Probeer het opnieuw of neem contact op via %s", c.fallbackContact)
}

// SuccessBanner is the visitor-facing confirmation message.
func (c *MessageComposer) SuccessBanner() string {
	return "Demo succesvol ingepland! U ontvangt een bevestigingsmail. Wij komen bij u langs op de geplande datum."
}
