package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/lending-service/internal/domain"
)

// ReputationRepository encapsulates reputation snapshot persistence.
// The score calculator only reads it; writes come from the reputation
// subsystem's service.
type ReputationRepository interface {
	Upsert(ctx context.Context, rep *domain.Reputation) error
	GetByUserID(ctx context.Context, userID string) (*domain.Reputation, error)
}

type reputationRepository struct {
	pool *pgxpool.Pool
}

// NewReputationRepository instantiates repository.
func NewReputationRepository(pool *pgxpool.Pool) ReputationRepository {
	return &reputationRepository{pool: pool}
}

func (r *reputationRepository) Upsert(ctx context.Context, rep *domain.Reputation) error {
	const query = `
        INSERT INTO reputations (user_id, reputation_score, trend, last_updated)
        VALUES ($1, $2, $3, NOW())
        ON CONFLICT (user_id) DO UPDATE
        SET reputation_score=EXCLUDED.reputation_score, trend=EXCLUDED.trend, last_updated=NOW()
        RETURNING last_updated`
	return r.pool.QueryRow(ctx, query,
		rep.UserID,
		rep.ReputationScore,
		rep.Trend,
	).Scan(&rep.LastUpdated)
}

func (r *reputationRepository) GetByUserID(ctx context.Context, userID string) (*domain.Reputation, error) {
	const query = `
        SELECT user_id, reputation_score, trend, last_updated
        FROM reputations WHERE user_id=$1`

	var rep domain.Reputation
	if err := r.pool.QueryRow(ctx, query, userID).Scan(
		&rep.UserID,
		&rep.ReputationScore,
		&rep.Trend,
		&rep.LastUpdated,
	); err != nil {
		return nil, err
	}
	return &rep, nil
}
