package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/lending-service/internal/domain"
	"github.com/spec-kit/lending-service/internal/events"
	"github.com/spec-kit/lending-service/internal/repository"
	apperrors "github.com/spec-kit/lending-service/pkg/util/errorutil"
)

// ReputationService is the mutation pathway for reputation snapshots.
type ReputationService struct {
	reputations repository.ReputationRepository
	dispatcher  events.Dispatcher
	logger      *zap.Logger
}

// NewReputationService constructs the service.
func NewReputationService(reputations repository.ReputationRepository, dispatcher events.Dispatcher, logger *zap.Logger) *ReputationService {
	return &ReputationService{reputations: reputations, dispatcher: dispatcher, logger: logger}
}

// ReputationInput describes a reputation snapshot payload.
type ReputationInput struct {
	UserID          string
	ReputationScore float64
	Trend           domain.ReputationTrend
}

// UpsertReputation stores the user's current reputation snapshot.
func (s *ReputationService) UpsertReputation(ctx context.Context, input ReputationInput) (*domain.Reputation, error) {
	if input.ReputationScore < 0 || input.ReputationScore > 100 {
		return nil, apperrors.NewValidationError("reputation score must be within 0-100", nil)
	}
	if input.Trend == "" {
		input.Trend = domain.TrendStable
	}

	rep := &domain.Reputation{
		UserID:          input.UserID,
		ReputationScore: input.ReputationScore,
		Trend:           input.Trend,
	}
	if err := s.reputations.Upsert(ctx, rep); err != nil {
		return nil, err
	}

	if s.dispatcher != nil {
		event := events.EntityChanged(events.EntityReputation, events.ActionUpdate, events.MutationArgs{
			Data: map[string]any{
				"userId":          rep.UserID,
				"reputationScore": rep.ReputationScore,
				"trend":           string(rep.Trend),
			},
		})
		if err := s.dispatcher.Publish(ctx, event); err != nil {
			s.logger.Warn("failed to publish reputation change", zap.Error(err))
		}
	}
	return rep, nil
}
