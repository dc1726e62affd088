package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestLedgerEntry_Validate(t *testing.T) {
	userID := uuid.New()
	investmentID := uuid.New()
	now := time.Now()

	tests := []struct {
		name    string
		entry   *LedgerEntry
		wantErr bool
		errMsg  string
	}{
		{
			name:    "Deposit with positive amount should pass",
			entry:   NewDepositEntry(userID, decimal.NewFromInt(100), now),
			wantErr: false,
		},
		{
			name: "Deposit with negative amount should fail",
			entry: &LedgerEntry{
				ID:        uuid.New(),
				UserID:    userID,
				Kind:      EntryKindDeposit,
				Amount:    decimal.NewFromInt(-100),
				Status:    EntryStatusCompleted,
				CreatedAt: now,
			},
			wantErr: true,
			errMsg:  "deposit amount must be positive",
		},
		{
			name: "Deposit referencing an investment should fail",
			entry: &LedgerEntry{
				ID:           uuid.New(),
				UserID:       userID,
				Kind:         EntryKindDeposit,
				Amount:       decimal.NewFromInt(100),
				InvestmentID: &investmentID,
				Status:       EntryStatusCompleted,
				CreatedAt:    now,
			},
			wantErr: true,
			errMsg:  "deposit cannot reference an investment",
		},
		{
			name:    "Withdrawal constructor produces a negative amount",
			entry:   NewWithdrawalEntry(userID, decimal.NewFromInt(50), now),
			wantErr: false,
		},
		{
			name: "Withdrawal with positive amount should fail",
			entry: &LedgerEntry{
				ID:        uuid.New(),
				UserID:    userID,
				Kind:      EntryKindWithdrawal,
				Amount:    decimal.NewFromInt(50),
				Status:    EntryStatusCompleted,
				CreatedAt: now,
			},
			wantErr: true,
			errMsg:  "withdrawal amount must be negative",
		},
		{
			name:    "Investment debit constructor should pass",
			entry:   NewInvestmentDebitEntry(userID, investmentID, decimal.NewFromInt(500), "Investment", now),
			wantErr: false,
		},
		{
			name: "Investment debit without investment reference should fail",
			entry: &LedgerEntry{
				ID:        uuid.New(),
				UserID:    userID,
				Kind:      EntryKindInvestmentDebit,
				Amount:    decimal.NewFromInt(-500),
				Status:    EntryStatusCompleted,
				CreatedAt: now,
			},
			wantErr: true,
			errMsg:  "investment debit must reference an investment",
		},
		{
			name:    "Investment credit constructor should pass",
			entry:   NewInvestmentCreditEntry(userID, investmentID, decimal.NewFromInt(500), now),
			wantErr: false,
		},
		{
			name:    "Interest constructor should pass",
			entry:   NewInterestEntry(userID, investmentID, decimal.RequireFromString("35.50"), now),
			wantErr: false,
		},
		{
			name: "Interest without investment reference should fail",
			entry: &LedgerEntry{
				ID:        uuid.New(),
				UserID:    userID,
				Kind:      EntryKindInterest,
				Amount:    decimal.NewFromInt(10),
				Status:    EntryStatusCompleted,
				CreatedAt: now,
			},
			wantErr: true,
			errMsg:  "interest must reference an investment",
		},
		{
			name: "Zero amount should fail",
			entry: &LedgerEntry{
				ID:        uuid.New(),
				UserID:    userID,
				Kind:      EntryKindDeposit,
				Amount:    decimal.Zero,
				Status:    EntryStatusCompleted,
				CreatedAt: now,
			},
			wantErr: true,
			errMsg:  "entry amount cannot be zero",
		},
		{
			name: "Missing user should fail",
			entry: &LedgerEntry{
				ID:        uuid.New(),
				Kind:      EntryKindDeposit,
				Amount:    decimal.NewFromInt(100),
				Status:    EntryStatusCompleted,
				CreatedAt: now,
			},
			wantErr: true,
			errMsg:  "ledger entry must belong to a user",
		},
		{
			name: "Unknown kind should fail",
			entry: &LedgerEntry{
				ID:        uuid.New(),
				UserID:    userID,
				Kind:      EntryKind("REFUND"),
				Amount:    decimal.NewFromInt(100),
				Status:    EntryStatusCompleted,
				CreatedAt: now,
			},
			wantErr: true,
			errMsg:  "unknown entry kind",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate()
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

func TestEntryKind_MovesCash(t *testing.T) {
	assert.True(t, EntryKindDeposit.MovesCash())
	assert.True(t, EntryKindWithdrawal.MovesCash())
	assert.True(t, EntryKindInvestmentDebit.MovesCash())
	assert.True(t, EntryKindInvestmentCredit.MovesCash())
	assert.False(t, EntryKindInterest.MovesCash())
}

func TestCashBalance_SumsOnlyCashMovingCompletedEntries(t *testing.T) {
	userID := uuid.New()
	investmentID := uuid.New()
	now := time.Now()

	failed := NewDepositEntry(userID, decimal.NewFromInt(999), now)
	failed.Status = EntryStatusFailed

	entries := []*LedgerEntry{
		NewDepositEntry(userID, decimal.NewFromInt(1000), now),
		NewInvestmentDebitEntry(userID, investmentID, decimal.NewFromInt(500), "Investment", now),
		NewInterestEntry(userID, investmentID, decimal.RequireFromString("35.50"), now),
		NewInvestmentCreditEntry(userID, investmentID, decimal.RequireFromString("535.50"), now),
		failed,
	}

	assert.Equal(t, "1035.50", CashBalance(entries).StringFixed(2))
}
