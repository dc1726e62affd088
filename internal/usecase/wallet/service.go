package wallet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rahulpatwa/paisavest-backend/internal/domain"
	"github.com/rahulpatwa/paisavest-backend/internal/usecase/accrual"
	"github.com/shopspring/decimal"
)

// WalletService is the single entry point for every operation that
// changes a cash balance, an investment, or appends to the ledger.
// Each public operation validates before any write and performs all of
// its writes inside one unit of work, so a failure can never leave the
// ledger inconsistent with the balance.
type WalletService struct {
	UserRepo       domain.UserRepository
	InvestmentRepo domain.InvestmentRepository
	LedgerRepo     domain.LedgerRepository
	PlanRepo       domain.PlanRepository
	UoW            domain.UnitOfWork
	Clock          domain.Clock
}

// NewWalletService creates a new WalletService instance
func NewWalletService(
	userRepo domain.UserRepository,
	investmentRepo domain.InvestmentRepository,
	ledgerRepo domain.LedgerRepository,
	planRepo domain.PlanRepository,
	uow domain.UnitOfWork,
	clock domain.Clock,
) *WalletService {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &WalletService{
		UserRepo:       userRepo,
		InvestmentRepo: investmentRepo,
		LedgerRepo:     ledgerRepo,
		PlanRepo:       planRepo,
		UoW:            uow,
		Clock:          clock,
	}
}

// CashResult is the outcome of a deposit or cash withdrawal
type CashResult struct {
	Entry      *domain.LedgerEntry
	NewBalance decimal.Decimal
}

// InvestResult is the outcome of opening an investment
type InvestResult struct {
	Investment *domain.Investment
	Entry      *domain.LedgerEntry
	NewBalance decimal.Decimal
}

// InvestmentWithdrawalResult is the outcome of withdrawing from an investment
type InvestmentWithdrawalResult struct {
	Investment *domain.Investment
	Entry      *domain.LedgerEntry
	NewBalance decimal.Decimal
}

// AccrualResult is the outcome of an accrual tick.
// Entry is nil when the interest delta did not reach the threshold.
type AccrualResult struct {
	Investment *domain.Investment
	Entry      *domain.LedgerEntry
}

// InvestInput represents the input for opening an investment.
// When PlanCode is set, the plan resolves the rate and lock-in and its
// amount bounds are enforced; otherwise the explicit rate and lock-in
// apply.
type InvestInput struct {
	Amount            decimal.Decimal
	PlanCode          string
	AnnualRatePercent decimal.Decimal
	LockInMonths      int
}

// Deposit increases the user's cash balance and appends a deposit entry
func (s *WalletService) Deposit(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*CashResult, error) {
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	var result *CashResult
	err := s.atomically(ctx, func(ctx context.Context) error {
		user, err := s.UserRepo.GetByID(ctx, userID)
		if err != nil {
			return err
		}

		newBalance := user.Balance.Add(amount)
		if err := s.UserRepo.UpdateBalance(ctx, userID, newBalance, user.Balance); err != nil {
			return err
		}

		entry := domain.NewDepositEntry(userID, amount, s.Clock.Now())
		if err := s.LedgerRepo.Append(ctx, entry); err != nil {
			return err
		}

		result = &CashResult{Entry: entry, NewBalance: newBalance}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// WithdrawCash decreases the user's cash balance and appends a withdrawal entry
func (s *WalletService) WithdrawCash(ctx context.Context, userID uuid.UUID, amount decimal.Decimal) (*CashResult, error) {
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	var result *CashResult
	err := s.atomically(ctx, func(ctx context.Context) error {
		user, err := s.UserRepo.GetByID(ctx, userID)
		if err != nil {
			return err
		}

		if user.Balance.LessThan(amount) {
			return domain.ErrInsufficientFunds
		}

		newBalance := user.Balance.Sub(amount)
		if err := s.UserRepo.UpdateBalance(ctx, userID, newBalance, user.Balance); err != nil {
			return err
		}

		entry := domain.NewWithdrawalEntry(userID, amount, s.Clock.Now())
		if err := s.LedgerRepo.Append(ctx, entry); err != nil {
			return err
		}

		result = &CashResult{Entry: entry, NewBalance: newBalance}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// Invest moves cash from the balance into a new active investment.
// Atomically: the balance decreases by the amount, an investment record
// opens with principal = current value = amount, and an investment-debit
// entry referencing the record is appended.
func (s *WalletService) Invest(ctx context.Context, userID uuid.UUID, input InvestInput) (*InvestResult, error) {
	if !input.Amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	rate := input.AnnualRatePercent
	lockInMonths := input.LockInMonths
	description := "Investment"

	var result *InvestResult
	err := s.atomically(ctx, func(ctx context.Context) error {
		if input.PlanCode != "" {
			plan, err := s.PlanRepo.GetByCode(ctx, input.PlanCode)
			if err != nil {
				return err
			}
			if !plan.Accepts(input.Amount) {
				return domain.ErrInvalidAmount
			}
			rate = plan.AnnualRatePercent
			lockInMonths = plan.LockInMonths
			description = fmt.Sprintf("Investment in %s", plan.Name)
		}

		if rate.IsNegative() {
			return domain.ErrInvalidAmount
		}

		user, err := s.UserRepo.GetByID(ctx, userID)
		if err != nil {
			return err
		}

		if user.Balance.LessThan(input.Amount) {
			return domain.ErrInsufficientFunds
		}

		now := s.Clock.Now()
		investment := domain.NewInvestment(userID, input.PlanCode, input.Amount, rate, lockInMonths, now)
		if err := investment.Validate(); err != nil {
			return fmt.Errorf("invalid investment: %w", err)
		}

		newBalance := user.Balance.Sub(input.Amount)
		if err := s.UserRepo.UpdateBalance(ctx, userID, newBalance, user.Balance); err != nil {
			return err
		}

		if err := s.InvestmentRepo.Create(ctx, investment); err != nil {
			return err
		}

		entry := domain.NewInvestmentDebitEntry(userID, investment.ID, input.Amount, description, now)
		if err := s.LedgerRepo.Append(ctx, entry); err != nil {
			return err
		}

		result = &InvestResult{Investment: investment, Entry: entry, NewBalance: newBalance}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// WithdrawFromInvestment returns value from an investment to the cash
// balance. Accrual is applied first so the user withdraws against the
// up-to-date value. Principal and current value are each reduced by the
// amount (the current value already contains prior interest); when the
// remaining value reaches zero the investment closes.
func (s *WalletService) WithdrawFromInvestment(ctx context.Context, userID, investmentID uuid.UUID, amount decimal.Decimal) (*InvestmentWithdrawalResult, error) {
	if !amount.IsPositive() {
		return nil, domain.ErrInvalidAmount
	}

	var result *InvestmentWithdrawalResult
	err := s.atomically(ctx, func(ctx context.Context) error {
		investment, err := s.InvestmentRepo.GetByID(ctx, investmentID)
		if err != nil {
			return err
		}

		// Ownership is part of the lookup: another user's investment is
		// indistinguishable from a missing one.
		if investment.UserID != userID {
			return domain.ErrNotFound
		}

		now := s.Clock.Now()

		// Realize pending interest before checking the withdrawal amount
		var interestEntry *domain.LedgerEntry
		if investment.IsActive() {
			accrued := accrual.Accrue(investment, now)
			if accrued.Realized() {
				investment.CurrentValue = accrued.NewValue
				investment.LastAccrualAt = accrued.AccruedAt
				interestEntry = domain.NewInterestEntry(userID, investment.ID, accrued.InterestDelta, now)
			}
		}

		if amount.GreaterThan(investment.CurrentValue) {
			return domain.ErrInsufficientInvestmentFunds
		}

		investment.CurrentValue = investment.CurrentValue.Sub(amount)
		investment.Principal = decimal.Max(decimal.Zero, investment.Principal.Sub(amount))
		if investment.CurrentValue.Round(2).IsZero() {
			investment.CurrentValue = decimal.Zero
			investment.Status = domain.InvestmentStatusClosed
		}

		user, err := s.UserRepo.GetByID(ctx, userID)
		if err != nil {
			return err
		}

		newBalance := user.Balance.Add(amount)
		if err := s.UserRepo.UpdateBalance(ctx, userID, newBalance, user.Balance); err != nil {
			return err
		}

		if err := s.InvestmentRepo.Update(ctx, investment); err != nil {
			return err
		}

		if interestEntry != nil {
			if err := s.LedgerRepo.Append(ctx, interestEntry); err != nil {
				return err
			}
		}

		entry := domain.NewInvestmentCreditEntry(userID, investment.ID, amount, now)
		if err := s.LedgerRepo.Append(ctx, entry); err != nil {
			return err
		}

		result = &InvestmentWithdrawalResult{Investment: investment, Entry: entry, NewBalance: newBalance}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// TickAccrual realizes pending interest on one investment as of the given
// instant. When the delta reaches the threshold it atomically updates the
// record and appends an interest entry; the cash balance never changes.
// Ticking twice at the same instant is a no-op the second time, and a
// tick on a closed investment does nothing.
func (s *WalletService) TickAccrual(ctx context.Context, investmentID uuid.UUID, asOf time.Time) (*AccrualResult, error) {
	var result *AccrualResult
	err := s.atomically(ctx, func(ctx context.Context) error {
		investment, err := s.InvestmentRepo.GetByID(ctx, investmentID)
		if err != nil {
			return err
		}

		if !investment.IsActive() {
			result = &AccrualResult{Investment: investment}
			return nil
		}

		accrued := accrual.Accrue(investment, asOf)
		if !accrued.Realized() {
			result = &AccrualResult{Investment: investment}
			return nil
		}

		investment.CurrentValue = accrued.NewValue
		investment.LastAccrualAt = accrued.AccruedAt
		if err := s.InvestmentRepo.Update(ctx, investment); err != nil {
			return err
		}

		entry := domain.NewInterestEntry(investment.UserID, investment.ID, accrued.InterestDelta, asOf)
		if err := s.LedgerRepo.Append(ctx, entry); err != nil {
			return err
		}

		result = &AccrualResult{Investment: investment, Entry: entry}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// atomically runs fn inside the unit of work and normalizes failures:
// domain errors raised by validation pass through untouched, while
// infrastructure failures (including lost optimistic concurrency checks)
// surface as the retryable ErrTransactionFailed.
func (s *WalletService) atomically(ctx context.Context, fn func(ctx context.Context) error) error {
	err := s.UoW.WithinTx(ctx, fn)
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrInsufficientInvestmentFunds),
		errors.Is(err, domain.ErrNotFound):
		return err
	case errors.Is(err, domain.ErrVersionConflict):
		return fmt.Errorf("%w: concurrent update, retry", domain.ErrTransactionFailed)
	default:
		return fmt.Errorf("%w: %v", domain.ErrTransactionFailed, err)
	}
}
