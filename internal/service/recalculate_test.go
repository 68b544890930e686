package service

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRecalculateAll_RunsOncePerUser(t *testing.T) {
	users, loans, reps, scores := &UserRepoMock{}, &LoanRepoMock{}, &ReputationRepoMock{}, &CreditScoreRepoMock{}
	ids := []string{"u1", "u2", "u3"}
	users.On("ListIDs", mock.Anything).Return(ids, nil)
	for _, id := range ids {
		stubAggregate(users, loans, reps, id, nil, nil)
		scores.On("Upsert", mock.Anything, id, 300).Return(nil).Once()
	}

	svc := newScoreService(users, loans, reps, scores)
	report, err := svc.RecalculateAll(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 3, report.Succeeded)
	assert.Zero(t, report.Failed)
	scores.AssertExpectations(t)
}

func TestRecalculateAll_IsolatesPerUserFailures(t *testing.T) {
	users, loans, reps, scores := &UserRepoMock{}, &LoanRepoMock{}, &ReputationRepoMock{}, &CreditScoreRepoMock{}
	users.On("ListIDs", mock.Anything).Return([]string{"u1", "ghost", "u3"}, nil)
	stubAggregate(users, loans, reps, "u1", nil, nil)
	users.On("GetByID", mock.Anything, "ghost").Return(nil, pgx.ErrNoRows)
	stubAggregate(users, loans, reps, "u3", nil, nil)
	scores.On("Upsert", mock.Anything, "u1", 300).Return(nil).Once()
	scores.On("Upsert", mock.Anything, "u3", 300).Return(nil).Once()

	svc := newScoreService(users, loans, reps, scores)
	report, err := svc.RecalculateAll(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 2, report.Succeeded)
	assert.Equal(t, 1, report.Failed)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "ghost", report.Failures[0].UserID)
	scores.AssertExpectations(t)
}

func TestRecalculateAll_ListingFailureAborts(t *testing.T) {
	users, loans, reps, scores := &UserRepoMock{}, &LoanRepoMock{}, &ReputationRepoMock{}, &CreditScoreRepoMock{}
	users.On("ListIDs", mock.Anything).Return(nil, errors.New("connection refused"))

	svc := newScoreService(users, loans, reps, scores)
	_, err := svc.RecalculateAll(context.Background())

	require.Error(t, err)
	scores.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
}
