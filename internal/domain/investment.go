package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvestmentStatus represents the lifecycle state of an investment
type InvestmentStatus string

const (
	InvestmentStatusActive InvestmentStatus = "ACTIVE"
	InvestmentStatusClosed InvestmentStatus = "CLOSED"
)

// Investment represents one fixed-return investment held by a user.
//
// Principal is the remaining invested amount excluding accrued interest.
// CurrentValue includes interest realized by accrual; it only ever
// decreases through a withdrawal. LastAccrualAt marks the point up to
// which interest has been credited, so accrual is incremental and never
// re-applies interest that was already realized.
//
// Version is the optimistic concurrency token: every committed update
// increments it, and a stale update fails with ErrVersionConflict.
type Investment struct {
	ID                uuid.UUID
	UserID            uuid.UUID
	PlanCode          string // empty for a custom-rate investment
	Principal         decimal.Decimal
	CurrentValue      decimal.Decimal
	AnnualRatePercent decimal.Decimal
	LockInMonths      int
	OpenedAt          time.Time
	LastAccrualAt     time.Time
	Status            InvestmentStatus
	Version           int64
}

// NewInvestment creates an active investment with principal and current
// value both equal to the invested amount.
func NewInvestment(userID uuid.UUID, planCode string, amount, annualRatePercent decimal.Decimal, lockInMonths int, openedAt time.Time) *Investment {
	return &Investment{
		ID:                uuid.New(),
		UserID:            userID,
		PlanCode:          planCode,
		Principal:         amount,
		CurrentValue:      amount,
		AnnualRatePercent: annualRatePercent,
		LockInMonths:      lockInMonths,
		OpenedAt:          openedAt,
		LastAccrualAt:     openedAt,
		Status:            InvestmentStatusActive,
	}
}

// Validate ensures the investment adheres to domain rules
func (i *Investment) Validate() error {
	if i.UserID == uuid.Nil {
		return errors.New("investment must belong to a user")
	}

	if i.Principal.IsNegative() {
		return errors.New("principal cannot be negative")
	}

	if i.CurrentValue.IsNegative() {
		return errors.New("current value cannot be negative")
	}

	if i.AnnualRatePercent.IsNegative() {
		return errors.New("annual rate cannot be negative")
	}

	if i.LockInMonths < 0 {
		return errors.New("lock-in months cannot be negative")
	}

	if i.Status != InvestmentStatusActive && i.Status != InvestmentStatusClosed {
		return errors.New("status must be ACTIVE or CLOSED")
	}

	if i.LastAccrualAt.Before(i.OpenedAt) {
		return errors.New("last accrual cannot predate opening")
	}

	return nil
}

// IsActive reports whether the investment can still accrue or be withdrawn from
func (i *Investment) IsActive() bool {
	return i.Status == InvestmentStatusActive
}
