package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/lending-service/internal/domain"
	"github.com/spec-kit/lending-service/internal/events"
	"github.com/spec-kit/lending-service/internal/repository"
	apperrors "github.com/spec-kit/lending-service/pkg/util/errorutil"
)

// LoanService is the mutation pathway for loans. Every committed write
// is published on the dispatcher so score and audit triggers observe it.
type LoanService struct {
	loans      repository.LoanRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewLoanService constructs the service.
func NewLoanService(loans repository.LoanRepository, dispatcher events.Dispatcher, logger *zap.Logger) *LoanService {
	return &LoanService{loans: loans, dispatcher: dispatcher, logger: logger}
}

// LoanCreateInput describes a loan origination payload.
type LoanCreateInput struct {
	UserID string
	Amount float64
	Status domain.LoanStatus
}

// CreateLoan originates a loan for a user.
func (s *LoanService) CreateLoan(ctx context.Context, input LoanCreateInput) (*domain.Loan, error) {
	if input.Amount < 0 {
		return nil, apperrors.NewValidationError("amount must be non-negative", nil)
	}
	if input.Status == "" {
		input.Status = domain.LoanStatusPending
	}

	loan := &domain.Loan{
		UserID: input.UserID,
		Amount: input.Amount,
		Status: input.Status,
	}
	if err := s.loans.Create(ctx, loan); err != nil {
		return nil, err
	}

	s.publish(ctx, events.ActionCreate, events.MutationArgs{
		Data: map[string]any{
			"userId": loan.UserID,
			"amount": loan.Amount,
			"status": string(loan.Status),
		},
	})
	return loan, nil
}

// UpdateLoanStatus transitions a loan's lifecycle status. The update is
// scoped to the owning user, so the filter clause carries the user id.
func (s *LoanService) UpdateLoanStatus(ctx context.Context, loanID string, status domain.LoanStatus) (*domain.Loan, error) {
	loan, err := s.loans.GetByID(ctx, loanID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	loan.Status = status
	if err := s.loans.Update(ctx, loan); err != nil {
		return nil, err
	}

	s.publish(ctx, events.ActionUpdate, events.MutationArgs{
		Data: map[string]any{
			"status": string(status),
		},
		Where: map[string]any{
			"id":     loan.ID,
			"userId": loan.UserID,
		},
	})
	return loan, nil
}

func (s *LoanService) publish(ctx context.Context, action events.ActionKind, args events.MutationArgs) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, events.EntityChanged(events.EntityLoan, action, args)); err != nil {
		s.logger.Warn("failed to publish loan change", zap.Error(err))
	}
}
