package domain

import "errors"

// Sentinel errors returned by services and repositories.
// Adapters map these to transport-level error codes.
var (
	// ErrInvalidAmount is returned when an amount is zero, negative or unparseable.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInsufficientFunds is returned when the cash balance cannot cover the operation.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInsufficientInvestmentFunds is returned when a withdrawal exceeds
	// an investment's current value.
	ErrInsufficientInvestmentFunds = errors.New("insufficient investment funds")

	// ErrNotFound is returned when a record is missing or owned by another user.
	ErrNotFound = errors.New("record not found")

	// ErrAlreadyExists is returned when a unique constraint would be violated,
	// e.g. registering an already-registered phone number.
	ErrAlreadyExists = errors.New("record already exists")

	// ErrInvalidCredentials is returned on a failed login attempt.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrVersionConflict is returned by repositories when a conditional update
	// loses an optimistic concurrency check (stale version or balance).
	ErrVersionConflict = errors.New("version conflict")

	// ErrTransactionFailed is returned when an atomic write did not commit.
	// The operation left no partial state behind and may be retried.
	ErrTransactionFailed = errors.New("transaction failed")
)
