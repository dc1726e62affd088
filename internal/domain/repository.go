package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// UserRepository defines the interface for user persistence operations
type UserRepository interface {
	// GetByID retrieves a user by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)

	// GetByPhoneNumber retrieves a user by phone number
	GetByPhoneNumber(ctx context.Context, phoneNumber string) (*User, error)

	// Create creates a new user. Returns ErrAlreadyExists if the phone
	// number is already registered.
	Create(ctx context.Context, user *User) error

	// UpdateBalance sets the user's balance conditionally on the balance
	// that was read. Returns ErrVersionConflict when the stored balance no
	// longer matches expectedBalance (a concurrent operation won).
	UpdateBalance(ctx context.Context, userID uuid.UUID, newBalance, expectedBalance decimal.Decimal) error
}

// InvestmentRepository defines the interface for investment persistence operations
type InvestmentRepository interface {
	// GetByID retrieves an investment by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*Investment, error)

	// ListByUser retrieves all investments of a user, newest first
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Investment, error)

	// ListActive retrieves all active investments across users, for the
	// accrual scheduler
	ListActive(ctx context.Context) ([]*Investment, error)

	// Create creates a new investment
	Create(ctx context.Context, investment *Investment) error

	// Update persists a modified investment using the version as an
	// optimistic concurrency check. On success the investment's Version is
	// incremented; on a stale version it returns ErrVersionConflict.
	Update(ctx context.Context, investment *Investment) error
}

// LedgerRepository defines the interface for ledger persistence operations.
// The ledger is append-only; entries are never updated or deleted.
type LedgerRepository interface {
	// Append creates a new ledger entry
	Append(ctx context.Context, entry *LedgerEntry) error

	// ListByUser retrieves a paginated list of the user's entries, newest first
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*LedgerEntry, error)

	// CountByUser returns the total number of the user's entries
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
}

// PlanRepository defines the interface for plan catalog persistence
type PlanRepository interface {
	// GetByCode retrieves a plan by its code
	GetByCode(ctx context.Context, code string) (*Plan, error)

	// List retrieves all plans ordered by code
	List(ctx context.Context) ([]*Plan, error)

	// Create creates a new plan
	Create(ctx context.Context, plan *Plan) error
}

// LessonRepository defines the interface for lesson and progress persistence
type LessonRepository interface {
	// GetByID retrieves a lesson by its ID
	GetByID(ctx context.Context, id uuid.UUID) (*Lesson, error)

	// List retrieves all lessons in display order
	List(ctx context.Context) ([]*Lesson, error)

	// Create creates a new lesson
	Create(ctx context.Context, lesson *Lesson) error

	// ListProgress retrieves the user's progress records
	ListProgress(ctx context.Context, userID uuid.UUID) ([]*LessonProgress, error)

	// UpsertProgress records completion state for one lesson, overwriting
	// any previous record for the same user and lesson
	UpsertProgress(ctx context.Context, progress *LessonProgress) error
}

// UnitOfWork runs a function with all repository operations inside one
// atomic write scope: either every write commits or none do.
type UnitOfWork interface {
	// WithinTx invokes fn with a context that routes repository calls
	// through a single transaction. Returning an error from fn rolls the
	// transaction back and returns that error unchanged.
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Clock abstracts the current time so services can be tested against
// fixed instants
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock backed by time.Now
type SystemClock struct{}

// Now returns the current time
func (SystemClock) Now() time.Time { return time.Now() }
