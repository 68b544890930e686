package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/lending-service/internal/domain"
)

// PaymentRepository encapsulates payment persistence.
type PaymentRepository interface {
	Create(ctx context.Context, payment *domain.Payment) error
	UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus) error
	GetByID(ctx context.Context, id string) (*domain.Payment, error)
	ListByLoan(ctx context.Context, loanID string) ([]domain.Payment, error)
}

type paymentRepository struct {
	pool *pgxpool.Pool
}

// NewPaymentRepository instantiates repository.
func NewPaymentRepository(pool *pgxpool.Pool) PaymentRepository {
	return &paymentRepository{pool: pool}
}

func (r *paymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	const query = `
        INSERT INTO payments (loan_id, user_id, amount, status, paid_at)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id`
	return r.pool.QueryRow(ctx, query,
		payment.LoanID,
		payment.UserID,
		payment.Amount,
		payment.Status,
		payment.PaidAt,
	).Scan(&payment.ID)
}

func (r *paymentRepository) UpdateStatus(ctx context.Context, id string, status domain.PaymentStatus) error {
	const query = `UPDATE payments SET status=$1 WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *paymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	const query = `
        SELECT id, loan_id, user_id, amount, status, paid_at
        FROM payments WHERE id=$1`

	var payment domain.Payment
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&payment.ID,
		&payment.LoanID,
		&payment.UserID,
		&payment.Amount,
		&payment.Status,
		&payment.PaidAt,
	); err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) ListByLoan(ctx context.Context, loanID string) ([]domain.Payment, error) {
	const query = `
        SELECT id, loan_id, user_id, amount, status, paid_at
        FROM payments WHERE loan_id=$1 ORDER BY paid_at`

	rows, err := r.pool.Query(ctx, query, loanID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		var payment domain.Payment
		if err := rows.Scan(
			&payment.ID,
			&payment.LoanID,
			&payment.UserID,
			&payment.Amount,
			&payment.Status,
			&payment.PaidAt,
		); err != nil {
			return nil, err
		}
		payments = append(payments, payment)
	}
	return payments, rows.Err()
}
