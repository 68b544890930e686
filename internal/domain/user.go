package domain

import "time"

// UserRole separates borrowers from back-office operators.
type UserRole string

const (
	RoleBorrower UserRole = "BORROWER"
	RoleAdmin    UserRole = "ADMIN"
)

// User is the domain model for platform account holders.
type User struct {
	ID            string
	Name          string
	Email         string
	EmailVerified bool
	PasswordHash  string
	MonthlyIncome float64
	Role          UserRole
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
