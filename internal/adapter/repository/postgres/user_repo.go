package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rahulpatwa/paisavest-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// uniqueViolation is the PostgreSQL error code for a unique constraint breach
const uniqueViolation = "23505"

// userRepository implements domain.UserRepository
type userRepository struct {
	db *DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB) domain.UserRepository {
	return &userRepository{db: db}
}

// GetByID retrieves a user by its ID
func (r *userRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `
		SELECT id, phone_number, name, password_hash, role, balance, created_at
		FROM users
		WHERE id = $1
	`

	return r.scanUser(r.db.conn(ctx).QueryRowContext(ctx, query, id))
}

// GetByPhoneNumber retrieves a user by phone number
func (r *userRepository) GetByPhoneNumber(ctx context.Context, phoneNumber string) (*domain.User, error) {
	query := `
		SELECT id, phone_number, name, password_hash, role, balance, created_at
		FROM users
		WHERE phone_number = $1
	`

	return r.scanUser(r.db.conn(ctx).QueryRowContext(ctx, query, phoneNumber))
}

// Create creates a new user
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, phone_number, name, password_hash, role, balance, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.conn(ctx).ExecContext(ctx, query,
		user.ID,
		user.PhoneNumber,
		user.Name,
		user.PasswordHash,
		string(user.Role),
		user.Balance.String(),
		user.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// UpdateBalance sets the balance only if the stored balance still matches
// the value the caller read, so two concurrent operations cannot both
// apply against the same starting balance
func (r *userRepository) UpdateBalance(ctx context.Context, userID uuid.UUID, newBalance, expectedBalance decimal.Decimal) error {
	query := `
		UPDATE users
		SET balance = $1
		WHERE id = $2 AND balance = $3
	`

	result, err := r.db.conn(ctx).ExecContext(ctx, query,
		newBalance.String(),
		userID,
		expectedBalance.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update balance: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrVersionConflict
	}

	return nil
}

func (r *userRepository) scanUser(row *sql.Row) (*domain.User, error) {
	var user domain.User
	var role string
	var balanceStr string

	err := row.Scan(
		&user.ID,
		&user.PhoneNumber,
		&user.Name,
		&user.PasswordHash,
		&role,
		&balanceStr,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	user.Role = domain.UserRole(role)

	balance, err := decimal.NewFromString(balanceStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse balance: %w", err)
	}
	user.Balance = balance

	return &user, nil
}
