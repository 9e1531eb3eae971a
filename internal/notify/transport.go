package notify

import (
	"context"

	"go.uber.org/zap"

	"github.com/consultium-ai/demo-booking-service/internal/domain"
)

// Transport delivers one notification through one named channel of the
// external mail relay. Implementations can be swapped (EmailJS, SendGrid,
// stub) without changing the dispatcher.
type Transport interface {
	Send(ctx context.Context, channel domain.DeliveryChannel, req domain.NotificationRequest) error
}

// StubTransport logs instead of sending. Used in development and when no
// relay is configured.
type StubTransport struct {
	logger *zap.Logger
}

// NewStubTransport creates a transport that only logs.
func NewStubTransport(logger *zap.Logger) *StubTransport {
	return &StubTransport{logger: logger}
}

// Send logs the notification but does not deliver it.
func (t *StubTransport) Send(ctx context.Context, channel domain.DeliveryChannel, req domain.NotificationRequest) error {
	t.logger.Info("stub transport: would send notification",
		zap.String("channel", string(channel)),
		zap.String("role", string(req.Role)),
		zap.String("to", req.RecipientAddress),
		zap.String("subject", req.Subject))
	return nil
}

var _ Transport = (*StubTransport)(nil)
