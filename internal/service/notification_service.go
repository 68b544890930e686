package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/lending-service/internal/config"
)

// NotificationService handles outbound email delivery. Delivery itself
// is an external collaborator; this service logs the dispatch.
type NotificationService struct {
	logger *zap.Logger
	cfg    config.NotificationConfig
}

// NewNotificationService creates the service.
func NewNotificationService(logger *zap.Logger, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{logger: logger, cfg: cfg}
}

// SendVerificationEmail dispatches an email-change verification message.
func (n *NotificationService) SendVerificationEmail(ctx context.Context, email, name, link string) error {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" {
		n.logger.Warn("email sender not configured; dropping verification email",
			zap.String("to", email))
		return nil
	}
	n.logger.Info("verification email dispatched",
		zap.String("from", n.cfg.EmailFrom),
		zap.String("to", email),
		zap.String("name", name),
		zap.String("link", link))
	return nil
}
