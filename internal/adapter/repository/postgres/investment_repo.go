package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rahulpatwa/paisavest-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// investmentRepository implements domain.InvestmentRepository
type investmentRepository struct {
	db *DB
}

// NewInvestmentRepository creates a new investment repository
func NewInvestmentRepository(db *DB) domain.InvestmentRepository {
	return &investmentRepository{db: db}
}

const investmentColumns = `id, user_id, plan_code, principal, current_value, annual_rate_percent, lock_in_months, opened_at, last_accrual_at, status, version`

// GetByID retrieves an investment by its ID
func (r *investmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Investment, error) {
	query := `SELECT ` + investmentColumns + ` FROM investments WHERE id = $1`

	investment, err := scanInvestment(r.db.conn(ctx).QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get investment by ID: %w", err)
	}

	return investment, nil
}

// ListByUser retrieves all investments of a user, newest first
func (r *investmentRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Investment, error) {
	query := `SELECT ` + investmentColumns + ` FROM investments WHERE user_id = $1 ORDER BY opened_at DESC`

	rows, err := r.db.conn(ctx).QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list investments: %w", err)
	}
	defer rows.Close()

	return collectInvestments(rows)
}

// ListActive retrieves all active investments across users
func (r *investmentRepository) ListActive(ctx context.Context) ([]*domain.Investment, error) {
	query := `SELECT ` + investmentColumns + ` FROM investments WHERE status = $1 ORDER BY opened_at`

	rows, err := r.db.conn(ctx).QueryContext(ctx, query, string(domain.InvestmentStatusActive))
	if err != nil {
		return nil, fmt.Errorf("failed to list active investments: %w", err)
	}
	defer rows.Close()

	return collectInvestments(rows)
}

// Create creates a new investment
func (r *investmentRepository) Create(ctx context.Context, investment *domain.Investment) error {
	query := `
		INSERT INTO investments (` + investmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.conn(ctx).ExecContext(ctx, query,
		investment.ID,
		investment.UserID,
		investment.PlanCode,
		investment.Principal.String(),
		investment.CurrentValue.String(),
		investment.AnnualRatePercent.String(),
		investment.LockInMonths,
		investment.OpenedAt,
		investment.LastAccrualAt,
		string(investment.Status),
		investment.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to create investment: %w", err)
	}

	return nil
}

// Update persists a modified investment, guarded by the version column.
// A stale version updates zero rows and reports ErrVersionConflict.
func (r *investmentRepository) Update(ctx context.Context, investment *domain.Investment) error {
	query := `
		UPDATE investments
		SET principal = $1, current_value = $2, last_accrual_at = $3, status = $4, version = version + 1
		WHERE id = $5 AND version = $6
	`

	result, err := r.db.conn(ctx).ExecContext(ctx, query,
		investment.Principal.String(),
		investment.CurrentValue.String(),
		investment.LastAccrualAt,
		string(investment.Status),
		investment.ID,
		investment.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update investment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if rows == 0 {
		return domain.ErrVersionConflict
	}

	investment.Version++
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvestment(row rowScanner) (*domain.Investment, error) {
	var investment domain.Investment
	var status string
	var principalStr, currentValueStr, rateStr string

	err := row.Scan(
		&investment.ID,
		&investment.UserID,
		&investment.PlanCode,
		&principalStr,
		&currentValueStr,
		&rateStr,
		&investment.LockInMonths,
		&investment.OpenedAt,
		&investment.LastAccrualAt,
		&status,
		&investment.Version,
	)
	if err != nil {
		return nil, err
	}

	investment.Status = domain.InvestmentStatus(status)

	if investment.Principal, err = decimal.NewFromString(principalStr); err != nil {
		return nil, fmt.Errorf("failed to parse principal: %w", err)
	}
	if investment.CurrentValue, err = decimal.NewFromString(currentValueStr); err != nil {
		return nil, fmt.Errorf("failed to parse current_value: %w", err)
	}
	if investment.AnnualRatePercent, err = decimal.NewFromString(rateStr); err != nil {
		return nil, fmt.Errorf("failed to parse annual_rate_percent: %w", err)
	}

	return &investment, nil
}

func collectInvestments(rows *sql.Rows) ([]*domain.Investment, error) {
	var investments []*domain.Investment
	for rows.Next() {
		investment, err := scanInvestment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan investment: %w", err)
		}
		investments = append(investments, investment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate investments: %w", err)
	}
	return investments, nil
}
