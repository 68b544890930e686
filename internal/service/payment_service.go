package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/lending-service/internal/domain"
	"github.com/spec-kit/lending-service/internal/events"
	"github.com/spec-kit/lending-service/internal/repository"
	apperrors "github.com/spec-kit/lending-service/pkg/util/errorutil"
)

// PaymentService is the mutation pathway for payments. Payment
// processors key some writes to the loan alone; those mutations carry no
// user id and score triggers skip them.
type PaymentService struct {
	payments   repository.PaymentRepository
	loans      repository.LoanRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewPaymentService constructs the service.
func NewPaymentService(payments repository.PaymentRepository, loans repository.LoanRepository, dispatcher events.Dispatcher, logger *zap.Logger) *PaymentService {
	return &PaymentService{payments: payments, loans: loans, dispatcher: dispatcher, logger: logger}
}

// PaymentRecordInput describes a settled payment payload.
type PaymentRecordInput struct {
	LoanID string
	UserID *string
	Amount float64
	Status domain.PaymentStatus
	PaidAt *time.Time
}

// RecordPayment stores a settled payment against a loan.
func (s *PaymentService) RecordPayment(ctx context.Context, input PaymentRecordInput) (*domain.Payment, error) {
	if input.Amount < 0 {
		return nil, apperrors.NewValidationError("amount must be non-negative", nil)
	}
	if _, err := s.loans.GetByID(ctx, input.LoanID); err != nil {
		return nil, apperrors.MapError(err)
	}

	paidAt := time.Now()
	if input.PaidAt != nil {
		paidAt = *input.PaidAt
	}
	status := input.Status
	if status == "" {
		status = domain.PaymentStatusOnTime
	}

	payment := &domain.Payment{
		LoanID: input.LoanID,
		UserID: input.UserID,
		Amount: input.Amount,
		Status: status,
		PaidAt: paidAt,
	}
	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, err
	}

	data := map[string]any{
		"loanId": payment.LoanID,
		"amount": payment.Amount,
		"status": string(payment.Status),
	}
	if payment.UserID != nil {
		data["userId"] = *payment.UserID
	}
	s.publish(ctx, events.ActionCreate, events.MutationArgs{Data: data})
	return payment, nil
}

// UpdatePaymentStatus reclassifies a payment (e.g. on_time to late). The
// mutation is keyed to the payment id alone, so no score trigger fires.
func (s *PaymentService) UpdatePaymentStatus(ctx context.Context, paymentID string, status domain.PaymentStatus) (*domain.Payment, error) {
	if err := s.payments.UpdateStatus(ctx, paymentID, status); err != nil {
		return nil, apperrors.MapError(err)
	}
	payment, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.ActionUpdate, events.MutationArgs{
		Data: map[string]any{
			"status": string(status),
		},
		Where: map[string]any{
			"id": paymentID,
		},
	})
	return payment, nil
}

func (s *PaymentService) publish(ctx context.Context, action events.ActionKind, args events.MutationArgs) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, events.EntityChanged(events.EntityPayment, action, args)); err != nil {
		s.logger.Warn("failed to publish payment change", zap.Error(err))
	}
}
