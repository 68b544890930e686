package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/lending-service/internal/cache"
	"github.com/spec-kit/lending-service/internal/domain"
	"github.com/spec-kit/lending-service/internal/observability"
	"github.com/spec-kit/lending-service/internal/repository"
	apperrors "github.com/spec-kit/lending-service/pkg/util/errorutil"
)

// Scoring weights. Each category weight is scaled by 5, so the maxima sum
// to 500 on top of the 300 base: 175 + 150 + 100 + 75.
const (
	baseScore           = domain.CreditScoreMin
	repaymentHistoryMax = 35 * 5
	onTimeRateMax       = 30 * 5
	reputationMax       = 20 * 5
	amountCompletionMax = 15 * 5
)

// CreditScoreService owns score computation and the reactive triggers
// that keep scores current as loans, payments, and reputations change.
type CreditScoreService struct {
	users        repository.UserRepository
	loans        repository.LoanRepository
	reputations  repository.ReputationRepository
	scores       repository.CreditScoreRepository
	store        cache.Store
	cacheTTL     time.Duration
	metrics      *observability.Metrics
	logger       *zap.Logger
	registerOnce sync.Once
}

// CreditScoreDependencies bundles collaborators for the score service.
type CreditScoreDependencies struct {
	UserRepo        repository.UserRepository
	LoanRepo        repository.LoanRepository
	ReputationRepo  repository.ReputationRepository
	CreditScoreRepo repository.CreditScoreRepository
	Cache           cache.Store
	CacheTTL        time.Duration
	Metrics         *observability.Metrics
	Logger          *zap.Logger
}

// NewCreditScoreService constructs the service.
func NewCreditScoreService(deps CreditScoreDependencies) *CreditScoreService {
	return &CreditScoreService{
		users:       deps.UserRepo,
		loans:       deps.LoanRepo,
		reputations: deps.ReputationRepo,
		scores:      deps.CreditScoreRepo,
		store:       deps.Cache,
		cacheTTL:    deps.CacheTTL,
		metrics:     deps.Metrics,
		logger:      deps.Logger,
	}
}

// Calculate recomputes and stores the credit score for one user.
//
// The score starts at the 300 base and accumulates four weighted terms:
// completed-loan ratio, on-time payment rate, reputation score, and the
// completed share of total loan amount. The result is rounded, clamped to
// [300, 850], and upserted so exactly one record exists per user.
func (s *CreditScoreService) Calculate(ctx context.Context, userID string) (int, error) {
	if _, err := s.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, apperrors.NewUserNotFound(userID)
		}
		return 0, err
	}

	loans, err := s.loans.ListByUserWithPayments(ctx, userID)
	if err != nil {
		return 0, err
	}

	reputation, err := s.reputations.GetByUserID(ctx, userID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return 0, err
	}

	score := computeScore(loans, reputation)

	if err := s.scores.Upsert(ctx, userID, score); err != nil {
		return 0, err
	}
	s.cacheScore(ctx, userID, score)

	s.logger.Info("credit score updated",
		zap.String("user_id", userID),
		zap.Int("score", score))
	return score, nil
}

func computeScore(loans []domain.Loan, reputation *domain.Reputation) int {
	score := float64(baseScore)

	// Loan repayment history (35%)
	totalLoans := len(loans)
	completedLoans := 0
	for _, loan := range loans {
		if loan.Completed() {
			completedLoans++
		}
	}
	if totalLoans > 0 {
		score += float64(completedLoans) / float64(totalLoans) * repaymentHistoryMax
	}

	// On-time vs late payments (30%)
	totalPayments := 0
	latePayments := 0
	for _, loan := range loans {
		for _, payment := range loan.Payments {
			totalPayments++
			if payment.Late() {
				latePayments++
			}
		}
	}
	if totalPayments > 0 {
		onTimeRate := float64(totalPayments-latePayments) / float64(totalPayments)
		score += onTimeRate * onTimeRateMax
	}

	// Reputation trend (20%)
	if reputation != nil {
		score += reputation.ReputationScore / 100 * reputationMax
	}

	// Loan amount & completion (15%)
	var totalAmount, completedAmount float64
	for _, loan := range loans {
		totalAmount += loan.Amount
		if loan.Completed() {
			completedAmount += loan.Amount
		}
	}
	if totalAmount > 0 {
		score += completedAmount / totalAmount * amountCompletionMax
	}

	clamped := math.Min(domain.CreditScoreMax, math.Max(domain.CreditScoreMin, math.Round(score)))
	return int(clamped)
}

// GetScore returns the stored score for a user, serving from cache when
// possible. pgx.ErrNoRows maps to NOT_FOUND when never computed.
func (s *CreditScoreService) GetScore(ctx context.Context, userID string) (*domain.CreditScore, error) {
	var cached domain.CreditScore
	if found, err := s.store.Get(ctx, scoreCacheKey(userID), &cached); err == nil && found {
		return &cached, nil
	}

	record, err := s.scores.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("credit score", map[string]any{"user_id": userID})
		}
		return nil, err
	}
	if err := s.store.Set(ctx, scoreCacheKey(userID), record, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache credit score", zap.String("user_id", userID), zap.Error(err))
	}
	return record, nil
}

func (s *CreditScoreService) cacheScore(ctx context.Context, userID string, score int) {
	record := domain.CreditScore{UserID: userID, Score: score, LastUpdated: time.Now()}
	if err := s.store.Set(ctx, scoreCacheKey(userID), record, s.cacheTTL); err != nil {
		s.logger.Warn("failed to cache credit score", zap.String("user_id", userID), zap.Error(err))
	}
}

func scoreCacheKey(userID string) string {
	return fmt.Sprintf("credit_score:%s", userID)
}
