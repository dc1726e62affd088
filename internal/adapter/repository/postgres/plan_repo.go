package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"github.com/rahulpatwa/paisavest-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// planRepository implements domain.PlanRepository
type planRepository struct {
	db *DB
}

// NewPlanRepository creates a new plan repository
func NewPlanRepository(db *DB) domain.PlanRepository {
	return &planRepository{db: db}
}

const planColumns = `id, code, name, description, annual_rate_percent, min_amount, max_amount, lock_in_months, risk, tax_benefit`

// GetByCode retrieves a plan by its code
func (r *planRepository) GetByCode(ctx context.Context, code string) (*domain.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE code = $1`

	plan, err := scanPlan(r.db.conn(ctx).QueryRowContext(ctx, query, code))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get plan by code: %w", err)
	}

	return plan, nil
}

// List retrieves all plans ordered by code
func (r *planRepository) List(ctx context.Context) ([]*domain.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans ORDER BY code`

	rows, err := r.db.conn(ctx).QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	defer rows.Close()

	var plans []*domain.Plan
	for rows.Next() {
		plan, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		plans = append(plans, plan)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate plans: %w", err)
	}

	return plans, nil
}

// Create creates a new plan
func (r *planRepository) Create(ctx context.Context, plan *domain.Plan) error {
	query := `
		INSERT INTO plans (` + planColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.db.conn(ctx).ExecContext(ctx, query,
		plan.ID,
		plan.Code,
		plan.Name,
		plan.Description,
		plan.AnnualRatePercent.String(),
		plan.MinAmount.String(),
		plan.MaxAmount.String(),
		plan.LockInMonths,
		string(plan.Risk),
		plan.TaxBenefit,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
			return domain.ErrAlreadyExists
		}
		return fmt.Errorf("failed to create plan: %w", err)
	}

	return nil
}

func scanPlan(row rowScanner) (*domain.Plan, error) {
	var plan domain.Plan
	var risk string
	var rateStr, minStr, maxStr string

	err := row.Scan(
		&plan.ID,
		&plan.Code,
		&plan.Name,
		&plan.Description,
		&rateStr,
		&minStr,
		&maxStr,
		&plan.LockInMonths,
		&risk,
		&plan.TaxBenefit,
	)
	if err != nil {
		return nil, err
	}

	plan.Risk = domain.RiskLevel(risk)

	if plan.AnnualRatePercent, err = decimal.NewFromString(rateStr); err != nil {
		return nil, fmt.Errorf("failed to parse annual_rate_percent: %w", err)
	}
	if plan.MinAmount, err = decimal.NewFromString(minStr); err != nil {
		return nil, fmt.Errorf("failed to parse min_amount: %w", err)
	}
	if plan.MaxAmount, err = decimal.NewFromString(maxStr); err != nil {
		return nil, fmt.Errorf("failed to parse max_amount: %w", err)
	}

	return &plan, nil
}
