package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/lending-service/internal/domain"
	"github.com/spec-kit/lending-service/internal/events"
)

func TestTrigger_PaymentWithUserIDRecalculatesOnce(t *testing.T) {
	users, loans, reps, scores := &UserRepoMock{}, &LoanRepoMock{}, &ReputationRepoMock{}, &CreditScoreRepoMock{}
	stubAggregate(users, loans, reps, "u1", nil, nil)
	scores.On("Upsert", mock.Anything, "u1", 300).Return(nil).Once()

	svc := newScoreService(users, loans, reps, scores)
	dispatcher := events.NewInMemoryDispatcher()
	svc.RegisterTriggers(dispatcher)

	event := events.EntityChanged(events.EntityPayment, events.ActionCreate, events.MutationArgs{
		Data: map[string]any{"userId": "u1", "loanId": "l1", "status": "on_time"},
	})
	require.NoError(t, dispatcher.Publish(context.Background(), event))

	scores.AssertExpectations(t)
	users.AssertNumberOfCalls(t, "GetByID", 1)
}

func TestTrigger_NoExtractableUserIDSkips(t *testing.T) {
	users, loans, reps, scores := &UserRepoMock{}, &LoanRepoMock{}, &ReputationRepoMock{}, &CreditScoreRepoMock{}

	svc := newScoreService(users, loans, reps, scores)
	dispatcher := events.NewInMemoryDispatcher()
	svc.RegisterTriggers(dispatcher)

	event := events.EntityChanged(events.EntityPayment, events.ActionUpdate, events.MutationArgs{
		Data:  map[string]any{"status": "late"},
		Where: map[string]any{"id": "p1"},
	})
	require.NoError(t, dispatcher.Publish(context.Background(), event))

	users.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	scores.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
}

func TestTrigger_UserIDFromWhereClause(t *testing.T) {
	users, loans, reps, scores := &UserRepoMock{}, &LoanRepoMock{}, &ReputationRepoMock{}, &CreditScoreRepoMock{}
	stubAggregate(users, loans, reps, "u2", nil, nil)
	scores.On("Upsert", mock.Anything, "u2", 300).Return(nil).Once()

	svc := newScoreService(users, loans, reps, scores)
	dispatcher := events.NewInMemoryDispatcher()
	svc.RegisterTriggers(dispatcher)

	event := events.EntityChanged(events.EntityLoan, events.ActionUpdate, events.MutationArgs{
		Data:  map[string]any{"status": "completed"},
		Where: map[string]any{"id": "l1", "userId": "u2"},
	})
	require.NoError(t, dispatcher.Publish(context.Background(), event))

	scores.AssertExpectations(t)
}

func TestTrigger_RecalculationFailureDoesNotPropagate(t *testing.T) {
	users, loans, reps, scores := &UserRepoMock{}, &LoanRepoMock{}, &ReputationRepoMock{}, &CreditScoreRepoMock{}
	users.On("GetByID", mock.Anything, "ghost").Return(nil, pgx.ErrNoRows)

	svc := newScoreService(users, loans, reps, scores)
	dispatcher := events.NewInMemoryDispatcher()
	svc.RegisterTriggers(dispatcher)

	event := events.EntityChanged(events.EntityReputation, events.ActionUpdate, events.MutationArgs{
		Data: map[string]any{"userId": "ghost", "reputationScore": 50.0},
	})
	// the mutating caller must never see the recalculation failure
	require.NoError(t, dispatcher.Publish(context.Background(), event))
}

func TestTrigger_DoubleRegistrationDoesNotDoubleFire(t *testing.T) {
	users, loans, reps, scores := &UserRepoMock{}, &LoanRepoMock{}, &ReputationRepoMock{}, &CreditScoreRepoMock{}
	stubAggregate(users, loans, reps, "u1", nil, nil)
	scores.On("Upsert", mock.Anything, "u1", 300).Return(nil)

	svc := newScoreService(users, loans, reps, scores)
	dispatcher := events.NewInMemoryDispatcher()
	svc.RegisterTriggers(dispatcher)
	svc.RegisterTriggers(dispatcher)

	event := events.EntityChanged(events.EntityLoan, events.ActionCreate, events.MutationArgs{
		Data: map[string]any{"userId": "u1", "amount": 100.0},
	})
	require.NoError(t, dispatcher.Publish(context.Background(), event))

	scores.AssertNumberOfCalls(t, "Upsert", 1)
}

func TestTrigger_FiresThroughLoanService(t *testing.T) {
	users, loans, reps, scores := &UserRepoMock{}, &LoanRepoMock{}, &ReputationRepoMock{}, &CreditScoreRepoMock{}
	loanSet := []domain.Loan{{ID: "l1", UserID: "u1", Amount: 500, Status: domain.LoanStatusPending}}
	stubAggregate(users, loans, reps, "u1", loanSet, nil)
	loans.On("Create", mock.Anything, mock.Anything).Return(nil)
	scores.On("Upsert", mock.Anything, "u1", 300).Return(nil).Once()

	svc := newScoreService(users, loans, reps, scores)
	dispatcher := events.NewInMemoryDispatcher()
	svc.RegisterTriggers(dispatcher)

	loanService := NewLoanService(loans, dispatcher, newNopLogger())
	_, err := loanService.CreateLoan(context.Background(), LoanCreateInput{UserID: "u1", Amount: 500})
	require.NoError(t, err)

	scores.AssertExpectations(t)
}

func TestTrigger_WriteErrorSuppressesEvent(t *testing.T) {
	users, loans, reps, scores := &UserRepoMock{}, &LoanRepoMock{}, &ReputationRepoMock{}, &CreditScoreRepoMock{}
	loans.On("Create", mock.Anything, mock.Anything).Return(errors.New("connection reset"))

	svc := newScoreService(users, loans, reps, scores)
	dispatcher := events.NewInMemoryDispatcher()
	svc.RegisterTriggers(dispatcher)

	loanService := NewLoanService(loans, dispatcher, newNopLogger())
	_, err := loanService.CreateLoan(context.Background(), LoanCreateInput{UserID: "u1", Amount: 500})
	require.Error(t, err)

	scores.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
}
