package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/consultium-ai/demo-booking-service/internal/config"
	"github.com/consultium-ai/demo-booking-service/internal/events"
	"github.com/consultium-ai/demo-booking-service/internal/repository"
)

// DeliveryMonitor watches delivery events for signs of template
// configuration drift on the mail relay. Repeated fallbacks mean the
// preferred template was deleted or renamed and the channel list should be
// updated.
type DeliveryMonitor struct {
	dispatcher events.Dispatcher
	auditLog   repository.DeliveryLogRepository
	logger     *zap.Logger
	cfg        config.NotifyConfig
}

// NewDeliveryMonitor creates the monitor.
func NewDeliveryMonitor(dispatcher events.Dispatcher, auditLog repository.DeliveryLogRepository, logger *zap.Logger, cfg config.NotifyConfig) *DeliveryMonitor {
	return &DeliveryMonitor{
		dispatcher: dispatcher,
		auditLog:   auditLog,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (m *DeliveryMonitor) RegisterHandlers() {
	if m.dispatcher == nil {
		return
	}
	m.dispatcher.Subscribe(events.EventDeliveryFallback, m.handleDeliveryFallback)
	m.dispatcher.Subscribe(events.EventDeliveryExhausted, m.handleDeliveryExhausted)
	m.dispatcher.Subscribe(events.EventBookingConfirmed, m.handleBookingConfirmed)
}

func (m *DeliveryMonitor) handleDeliveryFallback(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.DeliveryFallbackPayload)
	if !ok {
		return nil
	}
	m.logger.Warn("DeliveryFallback",
		zap.String("role", string(payload.Role)),
		zap.String("channel", string(payload.Channel)),
		zap.Int("channel_index", payload.ChannelIndex),
		zap.Bool("used_last_resort", payload.UsedLastResort),
		zap.Int64("recent_fallbacks", m.recentFallbacks(ctx)))
	m.sendWebhookAlertStub(ctx, event)
	return nil
}

func (m *DeliveryMonitor) handleDeliveryExhausted(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.DeliveryExhaustedPayload)
	if !ok {
		return nil
	}
	m.logger.Error("DeliveryExhausted",
		zap.String("role", string(payload.Role)),
		zap.String("recipient", payload.Recipient),
		zap.Int("channels_tried", payload.ChannelsTried),
		zap.String("last_error", payload.LastErrorText))
	m.sendWebhookAlertStub(ctx, event)
	return nil
}

func (m *DeliveryMonitor) handleBookingConfirmed(ctx context.Context, event events.Event) error {
	m.logger.Info("BookingConfirmed", zap.Any("payload", event.Payload))
	return nil
}

// recentFallbacks reads the audit trail for context in the alert log line.
func (m *DeliveryMonitor) recentFallbacks(ctx context.Context) int64 {
	if m.auditLog == nil {
		return 0
	}
	count, err := m.auditLog.CountRecentFallbacks(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		m.logger.Debug("recent fallback count unavailable", zap.Error(err))
		return 0
	}
	return count
}

func (m *DeliveryMonitor) sendWebhookAlertStub(ctx context.Context, event events.Event) {
	if strings.TrimSpace(m.cfg.AlertWebhookURL) == "" {
		return
	}
	m.logger.Debug("sendWebhookAlertStub",
		zap.String("url", m.cfg.AlertWebhookURL),
		zap.String("event_type", string(event.Type)))
}
