package service

import (
	"context"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/lending-service/internal/config"
	"github.com/spec-kit/lending-service/internal/domain"
	apperrors "github.com/spec-kit/lending-service/pkg/util/errorutil"
)

func newUserService(users *UserRepoMock, store *CacheMock) *UserService {
	cfg := config.NotificationConfig{
		EmailFrom:              "noreply@example.com",
		VerificationBaseURL:    "http://localhost:8080",
		VerificationTTLMinutes: 60,
	}
	notifications := NewNotificationService(newNopLogger(), cfg)
	return NewUserService(users, notifications, store, cfg, newNopLogger())
}

func strPtr(s string) *string     { return &s }
func floatPtr(f float64) *float64 { return &f }

func TestUpdateProfile_PartialUpdate(t *testing.T) {
	users, store := &UserRepoMock{}, &CacheMock{}
	existing := &domain.User{ID: "u1", Name: "Ana", Email: "ana@example.com", EmailVerified: true, MonthlyIncome: 2500}
	users.On("GetByID", mock.Anything, "u1").Return(existing, nil)
	users.On("Update", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Name == "Ana Maria" && u.Email == "ana@example.com" && u.EmailVerified && u.MonthlyIncome == 3200
	})).Return(nil)

	svc := newUserService(users, store)
	user, err := svc.UpdateProfile(context.Background(), "u1", UpdateProfileInput{
		Name:          strPtr("Ana Maria"),
		MonthlyIncome: floatPtr(3200),
	})

	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", user.Name)
	assert.True(t, user.EmailVerified)
	assert.Empty(t, user.PasswordHash)
	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateProfile_EmailChangeResetsVerification(t *testing.T) {
	users, store := &UserRepoMock{}, &CacheMock{}
	existing := &domain.User{ID: "u1", Name: "Ana", Email: "ana@example.com", EmailVerified: true}
	users.On("GetByID", mock.Anything, "u1").Return(existing, nil)
	users.On("Update", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.Email == "new@example.com" && !u.EmailVerified
	})).Return(nil)
	store.On("Set", mock.Anything, mock.MatchedBy(func(key string) bool {
		return strings.HasPrefix(key, "email_verification:")
	}), "u1", mock.Anything).Return(nil)

	svc := newUserService(users, store)
	user, err := svc.UpdateProfile(context.Background(), "u1", UpdateProfileInput{
		Email: strPtr("new@example.com"),
	})

	require.NoError(t, err)
	assert.False(t, user.EmailVerified)
	store.AssertExpectations(t)
}

func TestUpdateProfile_SameEmailKeepsVerification(t *testing.T) {
	users, store := &UserRepoMock{}, &CacheMock{}
	existing := &domain.User{ID: "u1", Name: "Ana", Email: "ana@example.com", EmailVerified: true}
	users.On("GetByID", mock.Anything, "u1").Return(existing, nil)
	users.On("Update", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.EmailVerified
	})).Return(nil)

	svc := newUserService(users, store)
	user, err := svc.UpdateProfile(context.Background(), "u1", UpdateProfileInput{
		Email: strPtr("ana@example.com"),
	})

	require.NoError(t, err)
	assert.True(t, user.EmailVerified)
	store.AssertNotCalled(t, "Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateProfile_UserNotFound(t *testing.T) {
	users, store := &UserRepoMock{}, &CacheMock{}
	users.On("GetByID", mock.Anything, "ghost").Return(nil, pgx.ErrNoRows)

	svc := newUserService(users, store)
	_, err := svc.UpdateProfile(context.Background(), "ghost", UpdateProfileInput{Name: strPtr("X")})

	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestUpdateProfile_RejectsNegativeIncome(t *testing.T) {
	users, store := &UserRepoMock{}, &CacheMock{}
	users.On("GetByID", mock.Anything, "u1").Return(&domain.User{ID: "u1"}, nil)

	svc := newUserService(users, store)
	_, err := svc.UpdateProfile(context.Background(), "u1", UpdateProfileInput{MonthlyIncome: floatPtr(-1)})

	require.Error(t, err)
	users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestVerifyEmail_ConfirmsPendingChange(t *testing.T) {
	users, store := &UserRepoMock{}, &CacheMock{}
	store.On("Get", mock.Anything, "email_verification:tok", mock.Anything).
		Run(func(args mock.Arguments) {
			*(args.Get(2).(*string)) = "u1"
		}).
		Return(true, nil)
	users.On("GetByID", mock.Anything, "u1").Return(&domain.User{ID: "u1", Email: "new@example.com"}, nil)
	users.On("Update", mock.Anything, mock.MatchedBy(func(u *domain.User) bool {
		return u.EmailVerified
	})).Return(nil)
	store.On("Invalidate", mock.Anything, "email_verification:tok").Return(nil)

	svc := newUserService(users, store)
	user, err := svc.VerifyEmail(context.Background(), "tok")

	require.NoError(t, err)
	assert.True(t, user.EmailVerified)
	store.AssertExpectations(t)
}

func TestVerifyEmail_ExpiredToken(t *testing.T) {
	users, store := &UserRepoMock{}, &CacheMock{}
	store.On("Get", mock.Anything, "email_verification:stale", mock.Anything).Return(false, nil)

	svc := newUserService(users, store)
	_, err := svc.VerifyEmail(context.Background(), "stale")

	require.Error(t, err)
	users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
