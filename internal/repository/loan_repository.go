package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/lending-service/internal/domain"
)

// LoanRepository encapsulates loan persistence.
type LoanRepository interface {
	Create(ctx context.Context, loan *domain.Loan) error
	Update(ctx context.Context, loan *domain.Loan) error
	GetByID(ctx context.Context, id string) (*domain.Loan, error)
	ListByUserWithPayments(ctx context.Context, userID string) ([]domain.Loan, error)
}

type loanRepository struct {
	pool *pgxpool.Pool
}

// NewLoanRepository instantiates repository.
func NewLoanRepository(pool *pgxpool.Pool) LoanRepository {
	return &loanRepository{pool: pool}
}

func (r *loanRepository) Create(ctx context.Context, loan *domain.Loan) error {
	const query = `
        INSERT INTO loans (user_id, amount, status)
        VALUES ($1, $2, $3)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		loan.UserID,
		loan.Amount,
		loan.Status,
	).Scan(&loan.ID, &loan.CreatedAt, &loan.UpdatedAt)
}

func (r *loanRepository) Update(ctx context.Context, loan *domain.Loan) error {
	const query = `
        UPDATE loans SET amount=$1, status=$2, updated_at=NOW()
        WHERE id=$3`
	cmd, err := r.pool.Exec(ctx, query,
		loan.Amount,
		loan.Status,
		loan.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *loanRepository) GetByID(ctx context.Context, id string) (*domain.Loan, error) {
	const query = `
        SELECT id, user_id, amount, status, created_at, updated_at
        FROM loans WHERE id=$1`

	var loan domain.Loan
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&loan.ID,
		&loan.UserID,
		&loan.Amount,
		&loan.Status,
		&loan.CreatedAt,
		&loan.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &loan, nil
}

// ListByUserWithPayments loads the user's loans with payments attached,
// the aggregate the score calculator reads.
func (r *loanRepository) ListByUserWithPayments(ctx context.Context, userID string) ([]domain.Loan, error) {
	const loansQuery = `
        SELECT id, user_id, amount, status, created_at, updated_at
        FROM loans WHERE user_id=$1 ORDER BY created_at`

	rows, err := r.pool.Query(ctx, loansQuery, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var loans []domain.Loan
	index := make(map[string]int)
	for rows.Next() {
		var loan domain.Loan
		if err := rows.Scan(
			&loan.ID,
			&loan.UserID,
			&loan.Amount,
			&loan.Status,
			&loan.CreatedAt,
			&loan.UpdatedAt,
		); err != nil {
			return nil, err
		}
		index[loan.ID] = len(loans)
		loans = append(loans, loan)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(loans) == 0 {
		return loans, nil
	}

	const paymentsQuery = `
        SELECT p.id, p.loan_id, p.user_id, p.amount, p.status, p.paid_at
        FROM payments p
        JOIN loans l ON l.id = p.loan_id
        WHERE l.user_id=$1 ORDER BY p.paid_at`

	payRows, err := r.pool.Query(ctx, paymentsQuery, userID)
	if err != nil {
		return nil, err
	}
	defer payRows.Close()

	for payRows.Next() {
		var payment domain.Payment
		if err := payRows.Scan(
			&payment.ID,
			&payment.LoanID,
			&payment.UserID,
			&payment.Amount,
			&payment.Status,
			&payment.PaidAt,
		); err != nil {
			return nil, err
		}
		if i, ok := index[payment.LoanID]; ok {
			loans[i].Payments = append(loans[i].Payments, payment)
		}
	}
	return loans, payRows.Err()
}
