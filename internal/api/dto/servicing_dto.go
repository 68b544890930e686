package dto

import "time"

// LoanCreateRequest payload for loan origination.
type LoanCreateRequest struct {
	UserID string  `json:"user_id"`
	Amount float64 `json:"amount"`
	Status string  `json:"status,omitempty"`
}

// LoanStatusUpdateRequest payload for loan lifecycle transitions.
type LoanStatusUpdateRequest struct {
	Status string `json:"status"`
}

// PaymentRecordRequest payload for settled payments. UserID is optional;
// processors keying by loan alone omit it.
type PaymentRecordRequest struct {
	LoanID string     `json:"loan_id"`
	UserID *string    `json:"user_id,omitempty"`
	Amount float64    `json:"amount"`
	Status string     `json:"status,omitempty"`
	PaidAt *time.Time `json:"paid_at,omitempty"`
}

// PaymentStatusUpdateRequest payload for payment reclassification.
type PaymentStatusUpdateRequest struct {
	Status string `json:"status"`
}

// ReputationUpsertRequest payload for reputation snapshots.
type ReputationUpsertRequest struct {
	UserID          string  `json:"user_id"`
	ReputationScore float64 `json:"reputation_score"`
	Trend           string  `json:"trend,omitempty"`
}

// CreditScoreResponse is the stored derived score.
type CreditScoreResponse struct {
	UserID      string    `json:"user_id"`
	Score       int       `json:"score"`
	LastUpdated time.Time `json:"last_updated"`
}
