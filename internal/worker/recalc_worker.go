package worker

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/lending-service/internal/events"
	"github.com/spec-kit/lending-service/internal/service"
)

// StartScoreTriggers attaches the reactive score and audit triggers to
// the mutation pipeline. Safe to call once at startup; the services
// guard against double registration themselves.
func StartScoreTriggers(dispatcher events.Dispatcher, scores *service.CreditScoreService, audit *service.AuditTrigger) {
	if scores != nil {
		scores.RegisterTriggers(dispatcher)
	}
	if audit != nil {
		audit.Register(dispatcher)
	}
}

// StartPeriodicRecalculation runs bulk recalculation on a fixed interval
// until ctx is cancelled. A zero interval disables the job.
func StartPeriodicRecalculation(ctx context.Context, scores *service.CreditScoreService, interval time.Duration, logger *zap.Logger) {
	if scores == nil || interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				report, err := scores.RecalculateAll(ctx)
				if err != nil {
					logger.Error("scheduled bulk recalculation failed", zap.Error(err))
					continue
				}
				logger.Info("scheduled bulk recalculation completed",
					zap.Int("total", report.Total),
					zap.Int("failed", report.Failed))
			}
		}
	}()
}
