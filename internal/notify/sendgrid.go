package notify

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/consultium-ai/demo-booking-service/internal/domain"
)

// SendGridConfig holds configuration for SendGrid.
type SendGridConfig struct {
	APIKey    string
	FromEmail string
	FromName  string
}

// SendGridTransport sends notifications via the SendGrid API. The delivery
// channel maps to a SendGrid dynamic template id.
type SendGridTransport struct {
	client *sendgrid.Client
	cfg    SendGridConfig
	logger *zap.Logger
}

// NewSendGridTransport creates a SendGrid transport. Returns nil when no API
// key is configured.
func NewSendGridTransport(cfg SendGridConfig, logger *zap.Logger) *SendGridTransport {
	if cfg.APIKey == "" {
		return nil
	}
	if cfg.FromName == "" {
		cfg.FromName = "Consultium AI"
	}
	return &SendGridTransport{
		client: sendgrid.NewSendClient(cfg.APIKey),
		cfg:    cfg,
		logger: logger,
	}
}

// Send delivers one notification through the template named by channel.
func (t *SendGridTransport) Send(ctx context.Context, channel domain.DeliveryChannel, req domain.NotificationRequest) error {
	message := mail.NewV3Mail()
	message.SetFrom(mail.NewEmail(t.cfg.FromName, t.cfg.FromEmail))
	message.SetTemplateID(string(channel))

	personalization := mail.NewPersonalization()
	personalization.AddTos(mail.NewEmail(req.RecipientName, req.RecipientAddress))
	personalization.SetDynamicTemplateData("name", req.RecipientName)
	personalization.SetDynamicTemplateData("email", req.ReplyTo)
	personalization.SetDynamicTemplateData("subject", req.Subject)
	personalization.SetDynamicTemplateData("message", req.Body)
	message.AddPersonalizations(personalization)

	if req.ReplyTo != "" {
		message.SetReplyTo(mail.NewEmail(req.RecipientName, req.ReplyTo))
	}

	response, err := t.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid: send via %s: %w", channel, err)
	}
	if response.StatusCode >= 400 {
		t.logger.Debug("sendgrid rejected template",
			zap.String("template_id", string(channel)),
			zap.Int("status", response.StatusCode),
			zap.String("body", response.Body))
		return fmt.Errorf("sendgrid: template %s returned status %d", channel, response.StatusCode)
	}

	t.logger.Info("notification sent via sendgrid",
		zap.String("template_id", string(channel)),
		zap.String("to", req.RecipientAddress),
		zap.String("subject", req.Subject))
	return nil
}

var _ Transport = (*SendGridTransport)(nil)
