package domain

import "time"

// ReputationTrend describes the direction a reputation score is moving.
type ReputationTrend string

const (
	TrendImproving ReputationTrend = "improving"
	TrendStable    ReputationTrend = "stable"
	TrendDeclining ReputationTrend = "declining"
)

// Reputation is the per-user standing snapshot maintained by the
// reputation subsystem. Score domain is 0-100.
type Reputation struct {
	UserID          string
	ReputationScore float64
	Trend           ReputationTrend
	LastUpdated     time.Time
}
