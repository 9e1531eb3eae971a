package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/consultium-ai/demo-booking-service/internal/domain"
	"github.com/consultium-ai/demo-booking-service/internal/events"
	"github.com/consultium-ai/demo-booking-service/internal/notify"
	"github.com/consultium-ai/demo-booking-service/internal/observability"
	"github.com/consultium-ai/demo-booking-service/internal/repository"
)

// ErrAllChannelsFailed signals that every configured channel, including the
// last resort, rejected a notification.
var ErrAllChannelsFailed = errors.New("all delivery channels failed")

// NotificationDispatcher delivers a notification through the channel chain.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, req domain.NotificationRequest) error
}

// DispatchService tries each configured channel in priority order against a
// single transport, masking relay template misconfiguration from callers.
// The relay may have any subset of the candidate templates provisioned;
// delivery succeeds as long as one of them works.
type DispatchService struct {
	transport      notify.Transport
	channels       []domain.DeliveryChannel
	lastResort     domain.DeliveryChannel
	attemptTimeout time.Duration
	dispatcher     events.Dispatcher
	metrics        *observability.Metrics
	auditLog       repository.DeliveryLogRepository
	logger         *zap.Logger
}

// DispatchDependencies bundles collaborators for the dispatch service.
type DispatchDependencies struct {
	Transport      notify.Transport
	Channels       []domain.DeliveryChannel
	LastResort     domain.DeliveryChannel
	AttemptTimeout time.Duration
	Events         events.Dispatcher
	Metrics        *observability.Metrics
	AuditLog       repository.DeliveryLogRepository
	Logger         *zap.Logger
}

// NewDispatchService constructs the service.
func NewDispatchService(deps DispatchDependencies) *DispatchService {
	return &DispatchService{
		transport:      deps.Transport,
		channels:       deps.Channels,
		lastResort:     deps.LastResort,
		attemptTimeout: deps.AttemptTimeout,
		dispatcher:     deps.Events,
		metrics:        deps.Metrics,
		auditLog:       deps.AuditLog,
		logger:         deps.Logger,
	}
}

// Dispatch tries each channel strictly in order, stopping at the first
// success. When the whole list fails, the last-resort channel is tried
// exactly once. Attempts never run concurrently: the relay is rate limited
// and racing attempts could deliver duplicates.
func (s *DispatchService) Dispatch(ctx context.Context, req domain.NotificationRequest) error {
	var lastErr error

	for index, channel := range s.channels {
		err := s.attempt(ctx, channel, index, false, req)
		if err == nil {
			s.reportSuccess(ctx, req, channel, index, false)
			return nil
		}
		lastErr = err
	}

	if s.lastResort != "" {
		err := s.attempt(ctx, s.lastResort, len(s.channels), true, req)
		if err == nil {
			s.reportSuccess(ctx, req, s.lastResort, len(s.channels), true)
			return nil
		}
		lastErr = err
	}

	s.metrics.RecordDispatchExhausted()
	s.logger.Error("notification delivery exhausted every channel",
		zap.String("role", string(req.Role)),
		zap.String("recipient", req.RecipientAddress),
		zap.Error(lastErr))
	s.publish(ctx, events.EventDeliveryExhausted, events.DeliveryExhaustedPayload{
		Role:          req.Role,
		Recipient:     req.RecipientAddress,
		ChannelsTried: s.channelsTried(),
		LastErrorText: errText(lastErr),
	})
	return ErrAllChannelsFailed
}

// attempt runs one channel try under the bounded per-channel timeout and
// records its outcome.
func (s *DispatchService) attempt(ctx context.Context, channel domain.DeliveryChannel, index int, lastResort bool, req domain.NotificationRequest) error {
	attemptCtx := ctx
	if s.attemptTimeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, s.attemptTimeout)
		defer cancel()
	}

	err := s.transport.Send(attemptCtx, channel, req)
	s.metrics.RecordDispatchAttempt(string(channel), err == nil)
	s.record(ctx, &domain.DeliveryAttempt{
		ID:           uuid.NewString(),
		Role:         req.Role,
		Recipient:    req.RecipientAddress,
		Channel:      channel,
		ChannelIndex: index,
		LastResort:   lastResort,
		Success:      err == nil,
		ErrorText:    errText(err),
		AttemptedAt:  time.Now().UTC(),
	})
	return err
}

func (s *DispatchService) reportSuccess(ctx context.Context, req domain.NotificationRequest, channel domain.DeliveryChannel, index int, lastResort bool) {
	if index == 0 && !lastResort {
		return
	}
	// Needing a fallback channel means the preferred templates are missing
	// on the relay: configuration drift worth surfacing.
	s.metrics.RecordDispatchFallback()
	s.logger.Warn("notification delivered via fallback channel",
		zap.String("role", string(req.Role)),
		zap.String("channel", string(channel)),
		zap.Int("channel_index", index),
		zap.Bool("last_resort", lastResort))
	s.publish(ctx, events.EventDeliveryFallback, events.DeliveryFallbackPayload{
		Role:           req.Role,
		Channel:        channel,
		ChannelIndex:   index,
		UsedLastResort: lastResort,
		FailedChannels: index,
	})
}

func (s *DispatchService) record(ctx context.Context, attempt *domain.DeliveryAttempt) {
	if s.auditLog == nil {
		return
	}
	if err := s.auditLog.Record(ctx, attempt); err != nil {
		s.logger.Warn("failed to record delivery attempt", zap.Error(err))
	}
}

func (s *DispatchService) publish(ctx context.Context, eventType events.EventType, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.NewEvent(eventType, payload))
}

func (s *DispatchService) channelsTried() int {
	tried := len(s.channels)
	if s.lastResort != "" {
		tried++
	}
	return tried
}

func errText(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

var _ NotificationDispatcher = (*DispatchService)(nil)
