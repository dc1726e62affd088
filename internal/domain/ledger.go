package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryKind represents the type of a ledger entry.
// Each kind carries a fixed sign and a fixed requirement on the
// investment reference, enforced by Validate.
type EntryKind string

const (
	EntryKindDeposit          EntryKind = "DEPOSIT"
	EntryKindWithdrawal       EntryKind = "WITHDRAWAL"
	EntryKindInvestmentDebit  EntryKind = "INVESTMENT_DEBIT"
	EntryKindInvestmentCredit EntryKind = "INVESTMENT_CREDIT"
	EntryKindInterest         EntryKind = "INTEREST"
)

// MovesCash reports whether entries of this kind change the spendable
// cash balance. Interest accrues inside an investment's current value
// and reaches cash only through an investment credit.
func (k EntryKind) MovesCash() bool {
	switch k {
	case EntryKindDeposit, EntryKindWithdrawal, EntryKindInvestmentDebit, EntryKindInvestmentCredit:
		return true
	default:
		return false
	}
}

// EntryStatus represents the outcome recorded on a ledger entry
type EntryStatus string

const (
	EntryStatusCompleted EntryStatus = "COMPLETED"
	EntryStatusFailed    EntryStatus = "FAILED"
)

// LedgerEntry is the immutable record of one balance- or investment-value-
// affecting event. Entries are append-only: corrections are compensating
// entries, never updates.
//
// Amount is signed: positive for money flowing into the balance (or, for
// interest, into the investment), negative for money flowing out.
type LedgerEntry struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Kind         EntryKind
	Amount       decimal.Decimal
	InvestmentID *uuid.UUID
	Description  string
	Status       EntryStatus
	CreatedAt    time.Time
}

// NewDepositEntry records cash added to the balance
func NewDepositEntry(userID uuid.UUID, amount decimal.Decimal, at time.Time) *LedgerEntry {
	return newEntry(userID, EntryKindDeposit, amount, nil, "Cash deposit", at)
}

// NewWithdrawalEntry records cash removed from the balance
func NewWithdrawalEntry(userID uuid.UUID, amount decimal.Decimal, at time.Time) *LedgerEntry {
	return newEntry(userID, EntryKindWithdrawal, amount.Neg(), nil, "Cash withdrawal", at)
}

// NewInvestmentDebitEntry records cash moved from the balance into an investment
func NewInvestmentDebitEntry(userID, investmentID uuid.UUID, amount decimal.Decimal, description string, at time.Time) *LedgerEntry {
	return newEntry(userID, EntryKindInvestmentDebit, amount.Neg(), &investmentID, description, at)
}

// NewInvestmentCreditEntry records cash returned from an investment to the balance
func NewInvestmentCreditEntry(userID, investmentID uuid.UUID, amount decimal.Decimal, at time.Time) *LedgerEntry {
	return newEntry(userID, EntryKindInvestmentCredit, amount, &investmentID, "Investment withdrawal", at)
}

// NewInterestEntry records interest realized inside an investment.
// It does not move the cash balance.
func NewInterestEntry(userID, investmentID uuid.UUID, amount decimal.Decimal, at time.Time) *LedgerEntry {
	return newEntry(userID, EntryKindInterest, amount, &investmentID, "Interest accrued", at)
}

func newEntry(userID uuid.UUID, kind EntryKind, amount decimal.Decimal, investmentID *uuid.UUID, description string, at time.Time) *LedgerEntry {
	return &LedgerEntry{
		ID:           uuid.New(),
		UserID:       userID,
		Kind:         kind,
		Amount:       amount,
		InvestmentID: investmentID,
		Description:  description,
		Status:       EntryStatusCompleted,
		CreatedAt:    at,
	}
}

// Validate ensures the entry adheres to domain rules: the sign of the
// amount and the presence of the investment reference are both fixed by
// the entry kind.
func (e *LedgerEntry) Validate() error {
	if e.UserID == uuid.Nil {
		return errors.New("ledger entry must belong to a user")
	}

	if e.Status != EntryStatusCompleted && e.Status != EntryStatusFailed {
		return errors.New("entry status must be COMPLETED or FAILED")
	}

	if e.Amount.IsZero() {
		return errors.New("entry amount cannot be zero")
	}

	switch e.Kind {
	case EntryKindDeposit:
		if !e.Amount.IsPositive() {
			return errors.New("deposit amount must be positive")
		}
		if e.InvestmentID != nil {
			return errors.New("deposit cannot reference an investment")
		}
	case EntryKindWithdrawal:
		if !e.Amount.IsNegative() {
			return errors.New("withdrawal amount must be negative")
		}
		if e.InvestmentID != nil {
			return errors.New("withdrawal cannot reference an investment")
		}
	case EntryKindInvestmentDebit:
		if !e.Amount.IsNegative() {
			return errors.New("investment debit amount must be negative")
		}
		if e.InvestmentID == nil {
			return errors.New("investment debit must reference an investment")
		}
	case EntryKindInvestmentCredit:
		if !e.Amount.IsPositive() {
			return errors.New("investment credit amount must be positive")
		}
		if e.InvestmentID == nil {
			return errors.New("investment credit must reference an investment")
		}
	case EntryKindInterest:
		if !e.Amount.IsPositive() {
			return errors.New("interest amount must be positive")
		}
		if e.InvestmentID == nil {
			return errors.New("interest must reference an investment")
		}
	default:
		return errors.New("unknown entry kind")
	}

	return nil
}

// CashBalance returns the signed sum of the cash-moving completed entries.
// After any committed sequence of wallet operations this equals the
// user's balance exactly.
func CashBalance(entries []*LedgerEntry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		if e.Status != EntryStatusCompleted {
			continue
		}
		if !e.Kind.MovesCash() {
			continue
		}
		total = total.Add(e.Amount)
	}
	return total
}
