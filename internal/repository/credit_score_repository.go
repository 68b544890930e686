package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/lending-service/internal/domain"
)

// CreditScoreRepository stores the derived one-per-user score. Only the
// score calculator writes through it; credit_scores is the single write
// target and reputations stay read-only input.
type CreditScoreRepository interface {
	Upsert(ctx context.Context, userID string, score int) error
	Get(ctx context.Context, userID string) (*domain.CreditScore, error)
}

type creditScoreRepository struct {
	pool *pgxpool.Pool
}

// NewCreditScoreRepository instantiates repository.
func NewCreditScoreRepository(pool *pgxpool.Pool) CreditScoreRepository {
	return &creditScoreRepository{pool: pool}
}

// Upsert creates the record on first computation and overwrites the
// score and last_updated thereafter. Unique on user_id.
func (r *creditScoreRepository) Upsert(ctx context.Context, userID string, score int) error {
	const query = `
        INSERT INTO credit_scores (user_id, score, last_updated)
        VALUES ($1, $2, NOW())
        ON CONFLICT (user_id) DO UPDATE
        SET score=EXCLUDED.score, last_updated=NOW()`
	_, err := r.pool.Exec(ctx, query, userID, score)
	return err
}

// Get returns the stored score; pgx.ErrNoRows when never computed.
func (r *creditScoreRepository) Get(ctx context.Context, userID string) (*domain.CreditScore, error) {
	const query = `
        SELECT user_id, score, last_updated
        FROM credit_scores WHERE user_id=$1`

	var record domain.CreditScore
	if err := r.pool.QueryRow(ctx, query, userID).Scan(
		&record.UserID,
		&record.Score,
		&record.LastUpdated,
	); err != nil {
		return nil, err
	}
	return &record, nil
}
