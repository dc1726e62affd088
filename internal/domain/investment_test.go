package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNewInvestment_StartsActiveWithEqualPrincipalAndValue(t *testing.T) {
	userID := uuid.New()
	opened := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	investment := NewInvestment(userID, "PPF", decimal.NewFromInt(500), decimal.RequireFromString("7.1"), 180, opened)

	assert.Equal(t, userID, investment.UserID)
	assert.True(t, investment.Principal.Equal(investment.CurrentValue))
	assert.Equal(t, InvestmentStatusActive, investment.Status)
	assert.Equal(t, opened, investment.LastAccrualAt)
	assert.Equal(t, int64(0), investment.Version)
	assert.True(t, investment.IsActive())
}

func TestInvestment_Validate(t *testing.T) {
	opened := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	valid := func() *Investment {
		return NewInvestment(uuid.New(), "FD", decimal.NewFromInt(1000), decimal.RequireFromString("6.5"), 12, opened)
	}

	tests := []struct {
		name    string
		mutate  func(*Investment)
		wantErr bool
		errMsg  string
	}{
		{
			name:    "Valid investment should pass",
			mutate:  func(*Investment) {},
			wantErr: false,
		},
		{
			name:    "Missing user should fail",
			mutate:  func(i *Investment) { i.UserID = uuid.Nil },
			wantErr: true,
			errMsg:  "investment must belong to a user",
		},
		{
			name:    "Negative principal should fail",
			mutate:  func(i *Investment) { i.Principal = decimal.NewFromInt(-1) },
			wantErr: true,
			errMsg:  "principal cannot be negative",
		},
		{
			name:    "Negative current value should fail",
			mutate:  func(i *Investment) { i.CurrentValue = decimal.NewFromInt(-1) },
			wantErr: true,
			errMsg:  "current value cannot be negative",
		},
		{
			name:    "Negative rate should fail",
			mutate:  func(i *Investment) { i.AnnualRatePercent = decimal.NewFromInt(-1) },
			wantErr: true,
			errMsg:  "annual rate cannot be negative",
		},
		{
			name:    "Unknown status should fail",
			mutate:  func(i *Investment) { i.Status = InvestmentStatus("PAUSED") },
			wantErr: true,
			errMsg:  "status must be ACTIVE or CLOSED",
		},
		{
			name:    "Accrual timestamp before opening should fail",
			mutate:  func(i *Investment) { i.LastAccrualAt = opened.Add(-time.Hour) },
			wantErr: true,
			errMsg:  "last accrual cannot predate opening",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			investment := valid()
			tt.mutate(investment)

			err := investment.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
