package domain

import "time"

// LoanStatus enumerates lifecycle states for loans.
type LoanStatus string

const (
	LoanStatusPending   LoanStatus = "pending"
	LoanStatusActive    LoanStatus = "active"
	LoanStatusCompleted LoanStatus = "completed"
	LoanStatusDefaulted LoanStatus = "defaulted"
)

// Loan is the aggregate for money lent to a single user.
// Payments is populated only by the aggregate-loading queries.
type Loan struct {
	ID        string
	UserID    string
	Amount    float64
	Status    LoanStatus
	Payments  []Payment
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Completed reports whether the loan counts toward repayment-history terms.
func (l Loan) Completed() bool {
	return l.Status == LoanStatusCompleted
}
