package service

import (
	"context"

	"go.uber.org/zap"
)

// RecalcFailure records a single user whose recomputation failed.
type RecalcFailure struct {
	UserID string `json:"user_id"`
	Reason string `json:"reason"`
}

// RecalcReport summarizes a bulk recalculation run.
type RecalcReport struct {
	Total     int             `json:"total"`
	Succeeded int             `json:"succeeded"`
	Failed    int             `json:"failed"`
	Failures  []RecalcFailure `json:"failures,omitempty"`
}

// RecalculateAll recomputes every user's score, strictly sequentially.
// One user's failure is recorded in the report and does not abort the
// rest of the batch; the error return covers only the id listing itself.
func (s *CreditScoreService) RecalculateAll(ctx context.Context) (RecalcReport, error) {
	ids, err := s.users.ListIDs(ctx)
	if err != nil {
		return RecalcReport{}, err
	}

	report := RecalcReport{Total: len(ids)}
	for _, userID := range ids {
		if _, err := s.Calculate(ctx, userID); err != nil {
			report.Failed++
			report.Failures = append(report.Failures, RecalcFailure{
				UserID: userID,
				Reason: err.Error(),
			})
			s.metrics.RecordRecalculation("bulk", true)
			s.logger.Warn("bulk recalculation failed for user",
				zap.String("user_id", userID),
				zap.Error(err))
			continue
		}
		report.Succeeded++
		s.metrics.RecordRecalculation("bulk", false)
	}

	s.logger.Info("bulk recalculation finished",
		zap.Int("total", report.Total),
		zap.Int("succeeded", report.Succeeded),
		zap.Int("failed", report.Failed))
	return report, nil
}
