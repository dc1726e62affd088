package domain

import (
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UserRole represents the role of a user account
type UserRole string

const (
	RoleUser  UserRole = "USER"
	RoleAdmin UserRole = "ADMIN"
)

// phoneNumberPattern matches a 10-digit Indian mobile number
var phoneNumberPattern = regexp.MustCompile(`^[6-9]\d{9}$`)

// User represents a user account in the domain layer.
// Balance is the spendable cash figure and is mutated only through the
// wallet service; it must never go negative after a committed operation.
type User struct {
	ID           uuid.UUID
	PhoneNumber  string
	Name         string
	PasswordHash string
	Role         UserRole
	Balance      decimal.Decimal
	CreatedAt    time.Time
}

// Validate ensures the user adheres to domain rules
func (u *User) Validate() error {
	if !phoneNumberPattern.MatchString(u.PhoneNumber) {
		return errors.New("phone number must be a valid 10-digit mobile number")
	}

	if u.PasswordHash == "" {
		return errors.New("password hash cannot be empty")
	}

	if u.Role != RoleUser && u.Role != RoleAdmin {
		return errors.New("role must be USER or ADMIN")
	}

	if u.Balance.IsNegative() {
		return errors.New("balance cannot be negative")
	}

	return nil
}
