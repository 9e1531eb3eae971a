package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/consultium-ai/demo-booking-service/internal/domain"
)

// DeliveryLogRepository records channel attempt outcomes so template
// configuration drift can be investigated after the fact.
type DeliveryLogRepository interface {
	Record(ctx context.Context, attempt *domain.DeliveryAttempt) error
	CountRecentFallbacks(ctx context.Context, since time.Time) (int64, error)
}

type deliveryLogRepository struct {
	pool *pgxpool.Pool
}

// NewDeliveryLogRepository instantiates repository. With a nil pool every
// operation is a no-op; the audit trail is optional.
func NewDeliveryLogRepository(pool *pgxpool.Pool) DeliveryLogRepository {
	return &deliveryLogRepository{pool: pool}
}

func (r *deliveryLogRepository) Record(ctx context.Context, attempt *domain.DeliveryAttempt) error {
	if r.pool == nil {
		return nil
	}
	const query = `
        INSERT INTO delivery_attempts (id, recipient_role, recipient, channel, channel_index, last_resort, success, error_text, attempted_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`
	_, err := r.pool.Exec(ctx, query,
		attempt.ID,
		attempt.Role,
		attempt.Recipient,
		attempt.Channel,
		attempt.ChannelIndex,
		attempt.LastResort,
		attempt.Success,
		attempt.ErrorText,
		attempt.AttemptedAt,
	)
	return err
}

func (r *deliveryLogRepository) CountRecentFallbacks(ctx context.Context, since time.Time) (int64, error) {
	if r.pool == nil {
		return 0, nil
	}
	const query = `
        SELECT COUNT(*) FROM delivery_attempts
        WHERE success AND (channel_index > 0 OR last_resort) AND attempted_at >= $1`
	var count int64
	err := r.pool.QueryRow(ctx, query, since).Scan(&count)
	return count, err
}
