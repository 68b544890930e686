package domain

import "time"

// PaymentStatus enumerates settlement outcomes for a scheduled payment.
type PaymentStatus string

const (
	PaymentStatusOnTime PaymentStatus = "on_time"
	PaymentStatusLate   PaymentStatus = "late"
	PaymentStatusMissed PaymentStatus = "missed"
)

// Payment belongs to exactly one loan. UserID is optional: payment
// processors sometimes key writes to the loan alone.
type Payment struct {
	ID     string
	LoanID string
	UserID *string
	Amount float64
	Status PaymentStatus
	PaidAt time.Time
}

// Late reports whether the payment counts against the on-time rate.
func (p Payment) Late() bool {
	return p.Status == PaymentStatusLate
}
