package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/lending-service/internal/events"
)

// RegisterTriggers subscribes the score service to entity-change events
// so every committed create/update on a loan, payment, or reputation
// recomputes the affected user's score. Guarded against double
// registration, which would double-fire recalculation per mutation.
func (s *CreditScoreService) RegisterTriggers(dispatcher events.Dispatcher) {
	if dispatcher == nil {
		return
	}
	s.registerOnce.Do(func() {
		dispatcher.Subscribe(events.EventLoanChanged, s.handleEntityChanged)
		dispatcher.Subscribe(events.EventPaymentChanged, s.handleEntityChanged)
		dispatcher.Subscribe(events.EventReputationChanged, s.handleEntityChanged)
		s.logger.Info("credit score triggers registered")
	})
}

// handleEntityChanged runs after the triggering write has committed. A
// mutation without an extractable user id is skipped silently; a failed
// recalculation is logged and never propagated to the mutating caller.
func (s *CreditScoreService) handleEntityChanged(ctx context.Context, event events.Event) error {
	if event.Action != events.ActionCreate && event.Action != events.ActionUpdate {
		return nil
	}

	userID, ok := event.Args.UserID()
	if !ok {
		s.logger.Debug("no user id in mutation, skipping recalculation",
			zap.String("entity", string(event.Entity)),
			zap.String("action", string(event.Action)))
		return nil
	}

	_, err := s.Calculate(ctx, userID)
	s.metrics.RecordRecalculation("trigger", err != nil)
	if err != nil {
		s.logger.Warn("triggered recalculation failed",
			zap.String("user_id", userID),
			zap.String("entity", string(event.Entity)),
			zap.Error(err))
	}
	return nil
}
