package domain

import "time"

// Credit score bounds. Scores are clamped into this range after weighting.
const (
	CreditScoreMin = 300
	CreditScoreMax = 850
)

// CreditScore is the derived one-per-user record owned by the score
// calculator. Nothing else writes it.
type CreditScore struct {
	UserID      string
	Score       int
	LastUpdated time.Time
}
