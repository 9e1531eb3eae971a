package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/consultium-ai/demo-booking-service/internal/domain"
	apperrors "github.com/consultium-ai/demo-booking-service/pkg/util"
)

const draftKeyPrefix = "booking:draft:"

// DraftRepository stores in-progress wizard drafts. Drafts expire with the
// session TTL; confirmed bookings are never stored.
type DraftRepository interface {
	Save(ctx context.Context, draft *domain.BookingDraft) error
	Get(ctx context.Context, sessionID string) (*domain.BookingDraft, error)
	Delete(ctx context.Context, sessionID string) error
}

type redisDraftRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewDraftRepository instantiates a Redis-backed draft store.
func NewDraftRepository(client *redis.Client, ttl time.Duration) DraftRepository {
	return &redisDraftRepository{client: client, ttl: ttl}
}

func (r *redisDraftRepository) Save(ctx context.Context, draft *domain.BookingDraft) error {
	payload, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	return r.client.Set(ctx, draftKey(draft.SessionID), payload, r.ttl).Err()
}

func (r *redisDraftRepository) Get(ctx context.Context, sessionID string) (*domain.BookingDraft, error) {
	payload, err := r.client.Get(ctx, draftKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, apperrors.NewNotFound("booking session", map[string]any{"session_id": sessionID})
	}
	if err != nil {
		return nil, err
	}
	var draft domain.BookingDraft
	if err := json.Unmarshal(payload, &draft); err != nil {
		return nil, fmt.Errorf("unmarshal draft: %w", err)
	}
	return &draft, nil
}

func (r *redisDraftRepository) Delete(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, draftKey(sessionID)).Err()
}

func draftKey(sessionID string) string {
	return draftKeyPrefix + sessionID
}
