package domain

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RiskLevel is an advisory classification shown to the user
type RiskLevel string

const (
	RiskVeryLow RiskLevel = "VERY_LOW"
	RiskLow     RiskLevel = "LOW"
	RiskMedium  RiskLevel = "MEDIUM"
)

// Plan is a fixed-return investment instrument offered in the catalog.
// The annual rate is fixed onto the investment at creation; later plan
// changes never affect existing investments.
type Plan struct {
	ID                uuid.UUID
	Code              string
	Name              string
	Description       string
	AnnualRatePercent decimal.Decimal
	MinAmount         decimal.Decimal
	MaxAmount         decimal.Decimal
	LockInMonths      int
	Risk              RiskLevel
	TaxBenefit        bool
}

// Validate ensures the plan adheres to domain rules
func (p *Plan) Validate() error {
	if p.Code == "" {
		return errors.New("plan code cannot be empty")
	}

	if p.Name == "" {
		return errors.New("plan name cannot be empty")
	}

	if p.AnnualRatePercent.IsNegative() {
		return errors.New("annual rate cannot be negative")
	}

	if !p.MinAmount.IsPositive() {
		return errors.New("minimum amount must be positive")
	}

	if p.MaxAmount.LessThan(p.MinAmount) {
		return errors.New("maximum amount cannot be below minimum amount")
	}

	if p.LockInMonths < 0 {
		return errors.New("lock-in months cannot be negative")
	}

	return nil
}

// Accepts reports whether the amount is within the plan's bounds
func (p *Plan) Accepts(amount decimal.Decimal) bool {
	return amount.GreaterThanOrEqual(p.MinAmount) && amount.LessThanOrEqual(p.MaxAmount)
}
