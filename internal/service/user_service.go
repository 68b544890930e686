package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/lending-service/internal/cache"
	"github.com/spec-kit/lending-service/internal/config"
	"github.com/spec-kit/lending-service/internal/domain"
	"github.com/spec-kit/lending-service/internal/repository"
	apperrors "github.com/spec-kit/lending-service/pkg/util/errorutil"
)

// UserService coordinates profile workflows.
type UserService struct {
	users         repository.UserRepository
	notifications *NotificationService
	store         cache.Store
	cfg           config.NotificationConfig
	logger        *zap.Logger
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository, notifications *NotificationService, store cache.Store, cfg config.NotificationConfig, logger *zap.Logger) *UserService {
	return &UserService{
		users:         users,
		notifications: notifications,
		store:         store,
		cfg:           cfg,
		logger:        logger,
	}
}

// UpdateProfileInput carries the optional profile fields; nil leaves a
// field unchanged.
type UpdateProfileInput struct {
	Name          *string
	Email         *string
	MonthlyIncome *float64
}

// UpdateProfile applies a partial profile update. Changing the email
// resets verification and dispatches a verification message whose token
// is held in the cache until confirmed or expired.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUserNotFound(userID)
		}
		return nil, err
	}

	emailChanged := input.Email != nil && *input.Email != user.Email

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.MonthlyIncome != nil {
		if *input.MonthlyIncome < 0 {
			return nil, apperrors.NewValidationError("monthly income must be non-negative", nil)
		}
		user.MonthlyIncome = *input.MonthlyIncome
	}
	if emailChanged {
		user.Email = *input.Email
		user.EmailVerified = false
	}

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	if emailChanged {
		if err := s.sendEmailVerification(ctx, user); err != nil {
			return nil, err
		}
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *UserService) sendEmailVerification(ctx context.Context, user *domain.User) error {
	token := uuid.NewString()
	if err := s.store.Set(ctx, verificationKey(token), user.ID, s.cfg.VerificationTTL()); err != nil {
		return err
	}

	link := fmt.Sprintf("%s/verify-email?token=%s", s.cfg.VerificationBaseURL, token)
	return s.notifications.SendVerificationEmail(ctx, user.Email, user.Name, link)
}

// VerifyEmail confirms a pending email change given the emailed token.
func (s *UserService) VerifyEmail(ctx context.Context, token string) (*domain.User, error) {
	var userID string
	found, err := s.store.Get(ctx, verificationKey(token), &userID)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, apperrors.NewValidationError("invalid or expired verification token", nil)
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUserNotFound(userID)
		}
		return nil, err
	}

	user.EmailVerified = true
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	if err := s.store.Invalidate(ctx, verificationKey(token)); err != nil {
		s.logger.Warn("failed to invalidate verification token", zap.Error(err))
	}

	user.PasswordHash = ""
	return user, nil
}

// GetProfile returns the sanitized user.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUserNotFound(userID)
		}
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func verificationKey(token string) string {
	return "email_verification:" + token
}
