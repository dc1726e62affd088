package wallet

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rahulpatwa/paisavest-backend/internal/adapter/repository/memory"
	"github.com/rahulpatwa/paisavest-backend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock returns a fixed, manually advanced instant
type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

type walletFixture struct {
	store   *memory.Store
	ledger  *memory.LedgerRepo
	service *WalletService
	clock   *fakeClock
	userID  uuid.UUID
}

func newWalletFixture(t *testing.T, openingBalance string) *walletFixture {
	t.Helper()

	store := memory.NewStore()
	clock := &fakeClock{now: time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)}
	ledger := memory.NewLedgerRepo(store)

	service := NewWalletService(
		memory.NewUserRepo(store),
		memory.NewInvestmentRepo(store),
		ledger,
		memory.NewPlanRepo(store),
		store,
		clock,
	)

	user := &domain.User{
		ID:           uuid.New(),
		PhoneNumber:  "9876543210",
		Name:         "Asha",
		PasswordHash: "x",
		Role:         domain.RoleUser,
		Balance:      decimal.Zero,
	}
	require.NoError(t, service.UserRepo.Create(context.Background(), user))

	// fund through the service so the opening balance is backed by a
	// deposit entry, keeping the balance ⇄ ledger invariant intact
	opening := decimal.RequireFromString(openingBalance)
	if opening.IsPositive() {
		_, err := service.Deposit(context.Background(), user.ID, opening)
		require.NoError(t, err)
	}

	return &walletFixture{store: store, ledger: ledger, service: service, clock: clock, userID: user.ID}
}

// balanceMatchesLedger asserts the balance ⇄ ledger invariant:
// balance == signed sum of the cash-moving entries
func (f *walletFixture) balanceMatchesLedger(t *testing.T) {
	t.Helper()

	ctx := context.Background()
	user, err := f.service.UserRepo.GetByID(ctx, f.userID)
	require.NoError(t, err)

	entries, err := f.ledger.ListByUser(ctx, f.userID, 0, 0)
	require.NoError(t, err)

	assert.True(t, user.Balance.Equal(domain.CashBalance(entries)),
		"balance %s diverged from ledger sum %s", user.Balance, domain.CashBalance(entries))
}

func TestDeposit_CreatesEntryAndIncreasesBalance(t *testing.T) {
	f := newWalletFixture(t, "0")
	ctx := context.Background()

	result, err := f.service.Deposit(ctx, f.userID, decimal.NewFromInt(1000))

	require.NoError(t, err)
	assert.Equal(t, "1000", result.NewBalance.String())
	assert.Equal(t, domain.EntryKindDeposit, result.Entry.Kind)
	assert.Equal(t, "1000", result.Entry.Amount.String())
	f.balanceMatchesLedger(t)
}

func TestDeposit_RejectsNonPositiveAmount(t *testing.T) {
	f := newWalletFixture(t, "100")
	ctx := context.Background()

	for _, amount := range []int64{0, -50} {
		_, err := f.service.Deposit(ctx, f.userID, decimal.NewFromInt(amount))
		assert.ErrorIs(t, err, domain.ErrInvalidAmount)
	}

	// only the opening deposit is on the ledger
	entries, err := f.ledger.ListByUser(ctx, f.userID, 0, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWithdrawCash_InsufficientFundsLeavesNoTrace(t *testing.T) {
	f := newWalletFixture(t, "1035.50")
	ctx := context.Background()

	_, err := f.service.WithdrawCash(ctx, f.userID, decimal.NewFromInt(2000))

	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)

	user, err := f.service.UserRepo.GetByID(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, "1035.5", user.Balance.String())

	// no withdrawal entry joined the opening deposit
	entries, err := f.ledger.ListByUser(ctx, f.userID, 0, 0)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, domain.EntryKindDeposit, entries[0].Kind)
}

func TestWithdrawCash_AppendsNegativeEntry(t *testing.T) {
	f := newWalletFixture(t, "500")
	ctx := context.Background()

	result, err := f.service.WithdrawCash(ctx, f.userID, decimal.NewFromInt(200))

	require.NoError(t, err)
	assert.Equal(t, "300", result.NewBalance.String())
	assert.Equal(t, "-200", result.Entry.Amount.String())
	f.balanceMatchesLedger(t)
}

func TestInvest_OpensRecordAndDebitsBalance(t *testing.T) {
	f := newWalletFixture(t, "1000")
	ctx := context.Background()

	result, err := f.service.Invest(ctx, f.userID, InvestInput{
		Amount:            decimal.NewFromInt(500),
		AnnualRatePercent: decimal.RequireFromString("7.1"),
	})

	require.NoError(t, err)
	assert.Equal(t, "500", result.NewBalance.String())
	assert.Equal(t, domain.InvestmentStatusActive, result.Investment.Status)
	assert.Equal(t, "500", result.Investment.Principal.String())
	assert.Equal(t, "500", result.Investment.CurrentValue.String())
	assert.Equal(t, domain.EntryKindInvestmentDebit, result.Entry.Kind)
	assert.Equal(t, "-500", result.Entry.Amount.String())
	require.NotNil(t, result.Entry.InvestmentID)
	assert.Equal(t, result.Investment.ID, *result.Entry.InvestmentID)
	f.balanceMatchesLedger(t)
}

func TestInvest_RejectsNegativeAmount(t *testing.T) {
	f := newWalletFixture(t, "1000")
	ctx := context.Background()

	_, err := f.service.Invest(ctx, f.userID, InvestInput{
		Amount:            decimal.NewFromInt(-10),
		AnnualRatePercent: decimal.RequireFromString("7.1"),
	})

	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	user, err := f.service.UserRepo.GetByID(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, "1000", user.Balance.String())
}

func TestInvest_EnforcesPlanBounds(t *testing.T) {
	f := newWalletFixture(t, "10000")
	ctx := context.Background()

	plan := &domain.Plan{
		ID:                uuid.New(),
		Code:              "PPF",
		Name:              "Public Provident Fund",
		AnnualRatePercent: decimal.RequireFromString("7.1"),
		MinAmount:         decimal.NewFromInt(500),
		MaxAmount:         decimal.NewFromInt(150000),
		LockInMonths:      180,
		Risk:              domain.RiskVeryLow,
	}
	require.NoError(t, memory.NewPlanRepo(f.store).Create(ctx, plan))

	_, err := f.service.Invest(ctx, f.userID, InvestInput{
		Amount:   decimal.NewFromInt(100), // below plan minimum
		PlanCode: "PPF",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidAmount)

	result, err := f.service.Invest(ctx, f.userID, InvestInput{
		Amount:   decimal.NewFromInt(1000),
		PlanCode: "PPF",
	})
	require.NoError(t, err)
	assert.Equal(t, "7.1", result.Investment.AnnualRatePercent.String())
	assert.Equal(t, 180, result.Investment.LockInMonths)
}

func TestTickAccrual_RealizesInterestWithoutMovingCash(t *testing.T) {
	f := newWalletFixture(t, "1000")
	ctx := context.Background()

	invested, err := f.service.Invest(ctx, f.userID, InvestInput{
		Amount:            decimal.NewFromInt(500),
		AnnualRatePercent: decimal.RequireFromString("7.1"),
	})
	require.NoError(t, err)

	asOf := f.clock.now.AddDate(1, 0, 0)
	result, err := f.service.TickAccrual(ctx, invested.Investment.ID, asOf)

	require.NoError(t, err)
	require.NotNil(t, result.Entry)
	assert.Equal(t, "535.50", result.Investment.CurrentValue.StringFixed(2))
	assert.Equal(t, "35.50", result.Entry.Amount.StringFixed(2))
	assert.Equal(t, domain.EntryKindInterest, result.Entry.Kind)

	// interest does not touch the spendable balance
	user, err := f.service.UserRepo.GetByID(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, "500", user.Balance.String())
	f.balanceMatchesLedger(t)
}

func TestTickAccrual_SecondTickAtSameInstantIsNoOp(t *testing.T) {
	f := newWalletFixture(t, "1000")
	ctx := context.Background()

	invested, err := f.service.Invest(ctx, f.userID, InvestInput{
		Amount:            decimal.NewFromInt(500),
		AnnualRatePercent: decimal.RequireFromString("7.1"),
	})
	require.NoError(t, err)

	asOf := f.clock.now.AddDate(1, 0, 0)
	first, err := f.service.TickAccrual(ctx, invested.Investment.ID, asOf)
	require.NoError(t, err)
	require.NotNil(t, first.Entry)

	second, err := f.service.TickAccrual(ctx, invested.Investment.ID, asOf)
	require.NoError(t, err)
	assert.Nil(t, second.Entry)
	assert.True(t, second.Investment.CurrentValue.Equal(first.Investment.CurrentValue))

	count, err := f.ledger.CountByUser(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, 3, count) // opening deposit + investment debit + one interest entry
}

func TestWithdrawFromInvestment_FullWithdrawalClosesRecord(t *testing.T) {
	f := newWalletFixture(t, "1000")
	ctx := context.Background()

	invested, err := f.service.Invest(ctx, f.userID, InvestInput{
		Amount:            decimal.NewFromInt(500),
		AnnualRatePercent: decimal.RequireFromString("7.1"),
	})
	require.NoError(t, err)

	// one year later the investment is worth 535.50
	f.clock.now = f.clock.now.AddDate(1, 0, 0)

	result, err := f.service.WithdrawFromInvestment(ctx, f.userID, invested.Investment.ID, decimal.RequireFromString("535.50"))

	require.NoError(t, err)
	assert.Equal(t, domain.InvestmentStatusClosed, result.Investment.Status)
	assert.True(t, result.Investment.CurrentValue.IsZero())
	assert.Equal(t, "1035.50", result.NewBalance.StringFixed(2))
	assert.Equal(t, "535.50", result.Entry.Amount.StringFixed(2))
	assert.Equal(t, domain.EntryKindInvestmentCredit, result.Entry.Kind)
	f.balanceMatchesLedger(t)
}

func TestWithdrawFromInvestment_PartialWithdrawalStaysActive(t *testing.T) {
	f := newWalletFixture(t, "1000")
	ctx := context.Background()

	invested, err := f.service.Invest(ctx, f.userID, InvestInput{
		Amount:            decimal.NewFromInt(500),
		AnnualRatePercent: decimal.RequireFromString("7.1"),
	})
	require.NoError(t, err)

	result, err := f.service.WithdrawFromInvestment(ctx, f.userID, invested.Investment.ID, decimal.NewFromInt(200))

	require.NoError(t, err)
	assert.Equal(t, domain.InvestmentStatusActive, result.Investment.Status)
	assert.Equal(t, "300", result.Investment.CurrentValue.String())
	assert.Equal(t, "300", result.Investment.Principal.String())
	assert.Equal(t, "700", result.NewBalance.String())
	f.balanceMatchesLedger(t)
}

func TestWithdrawFromInvestment_RejectsOverdraw(t *testing.T) {
	f := newWalletFixture(t, "1000")
	ctx := context.Background()

	invested, err := f.service.Invest(ctx, f.userID, InvestInput{
		Amount:            decimal.NewFromInt(500),
		AnnualRatePercent: decimal.RequireFromString("7.1"),
	})
	require.NoError(t, err)

	_, err = f.service.WithdrawFromInvestment(ctx, f.userID, invested.Investment.ID, decimal.NewFromInt(600))

	assert.ErrorIs(t, err, domain.ErrInsufficientInvestmentFunds)
	f.balanceMatchesLedger(t)
}

func TestWithdrawFromInvestment_WrongOwnerLooksMissing(t *testing.T) {
	f := newWalletFixture(t, "1000")
	ctx := context.Background()

	invested, err := f.service.Invest(ctx, f.userID, InvestInput{
		Amount:            decimal.NewFromInt(500),
		AnnualRatePercent: decimal.RequireFromString("7.1"),
	})
	require.NoError(t, err)

	stranger := &domain.User{
		ID:           uuid.New(),
		PhoneNumber:  "9123456780",
		PasswordHash: "x",
		Role:         domain.RoleUser,
		Balance:      decimal.Zero,
	}
	require.NoError(t, f.service.UserRepo.Create(ctx, stranger))

	_, err = f.service.WithdrawFromInvestment(ctx, stranger.ID, invested.Investment.ID, decimal.NewFromInt(100))

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeposit_LedgerFailureRollsBackBalance(t *testing.T) {
	f := newWalletFixture(t, "0")
	ctx := context.Background()

	f.store.FailNextLedgerAppend(errors.New("disk full"))

	_, err := f.service.Deposit(ctx, f.userID, decimal.NewFromInt(1000))

	assert.ErrorIs(t, err, domain.ErrTransactionFailed)

	// the balance update before the failed append must not be visible
	user, err := f.service.UserRepo.GetByID(ctx, f.userID)
	require.NoError(t, err)
	assert.True(t, user.Balance.IsZero())

	entries, err := f.ledger.ListByUser(ctx, f.userID, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWithdrawFromInvestment_LedgerFailureRollsBackEverything(t *testing.T) {
	f := newWalletFixture(t, "1000")
	ctx := context.Background()

	invested, err := f.service.Invest(ctx, f.userID, InvestInput{
		Amount:            decimal.NewFromInt(500),
		AnnualRatePercent: decimal.RequireFromString("7.1"),
	})
	require.NoError(t, err)

	f.store.FailNextLedgerAppend(errors.New("connection reset"))

	_, err = f.service.WithdrawFromInvestment(ctx, f.userID, invested.Investment.ID, decimal.NewFromInt(500))
	assert.ErrorIs(t, err, domain.ErrTransactionFailed)

	investment, err := f.service.InvestmentRepo.GetByID(ctx, invested.Investment.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.InvestmentStatusActive, investment.Status)
	assert.Equal(t, "500", investment.CurrentValue.String())

	user, err := f.service.UserRepo.GetByID(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, "500", user.Balance.String())
	f.balanceMatchesLedger(t)
}

func TestWallet_InvariantHoldsAcrossOperationSequence(t *testing.T) {
	f := newWalletFixture(t, "0")
	ctx := context.Background()

	_, err := f.service.Deposit(ctx, f.userID, decimal.NewFromInt(2500))
	require.NoError(t, err)
	f.balanceMatchesLedger(t)

	invested, err := f.service.Invest(ctx, f.userID, InvestInput{
		Amount:            decimal.NewFromInt(1500),
		AnnualRatePercent: decimal.RequireFromString("8.2"),
	})
	require.NoError(t, err)
	f.balanceMatchesLedger(t)

	_, err = f.service.WithdrawCash(ctx, f.userID, decimal.NewFromInt(400))
	require.NoError(t, err)
	f.balanceMatchesLedger(t)

	f.clock.now = f.clock.now.AddDate(0, 7, 0)
	_, err = f.service.TickAccrual(ctx, invested.Investment.ID, f.clock.now)
	require.NoError(t, err)
	f.balanceMatchesLedger(t)

	_, err = f.service.WithdrawFromInvestment(ctx, f.userID, invested.Investment.ID, decimal.NewFromInt(300))
	require.NoError(t, err)
	f.balanceMatchesLedger(t)

	// balance never went negative along the way
	user, err := f.service.UserRepo.GetByID(ctx, f.userID)
	require.NoError(t, err)
	assert.False(t, user.Balance.IsNegative())
}

func TestStaleVersion_LosesConflictAndRollsBack(t *testing.T) {
	f := newWalletFixture(t, "1000")
	ctx := context.Background()

	invested, err := f.service.Invest(ctx, f.userID, InvestInput{
		Amount:            decimal.NewFromInt(500),
		AnnualRatePercent: decimal.RequireFromString("7.1"),
	})
	require.NoError(t, err)

	// two writers read the same record; the first commits and bumps the version
	loserRead, err := f.service.InvestmentRepo.GetByID(ctx, invested.Investment.ID)
	require.NoError(t, err)

	winner, err := f.service.InvestmentRepo.GetByID(ctx, invested.Investment.ID)
	require.NoError(t, err)
	winner.CurrentValue = decimal.NewFromInt(400)
	winner.Principal = decimal.NewFromInt(400)
	require.NoError(t, f.service.InvestmentRepo.Update(ctx, winner))

	// the second writer's update carries the stale version and loses
	stale := *loserRead
	stale.CurrentValue = decimal.NewFromInt(450)
	assert.ErrorIs(t, f.service.InvestmentRepo.Update(ctx, &stale), domain.ErrVersionConflict)

	// same check on the conditional balance update
	err = f.service.UserRepo.UpdateBalance(ctx, f.userID, decimal.NewFromInt(1), decimal.NewFromInt(99999))
	assert.ErrorIs(t, err, domain.ErrVersionConflict)

	// inside the unit of work a lost version check surfaces as the
	// retryable transaction failure, and writes made before it roll back
	staleAgain := *loserRead
	staleAgain.CurrentValue = decimal.NewFromInt(450)
	err = f.service.atomically(ctx, func(ctx context.Context) error {
		user, err := f.service.UserRepo.GetByID(ctx, f.userID)
		if err != nil {
			return err
		}
		if err := f.service.UserRepo.UpdateBalance(ctx, f.userID, user.Balance.Add(decimal.NewFromInt(50)), user.Balance); err != nil {
			return err
		}
		return f.service.InvestmentRepo.Update(ctx, &staleAgain)
	})
	assert.ErrorIs(t, err, domain.ErrTransactionFailed)

	user, err := f.service.UserRepo.GetByID(ctx, f.userID)
	require.NoError(t, err)
	assert.Equal(t, "500", user.Balance.String())

	record, err := f.service.InvestmentRepo.GetByID(ctx, invested.Investment.ID)
	require.NoError(t, err)
	assert.Equal(t, "400", record.CurrentValue.String())
	assert.Equal(t, winner.Version, record.Version)
	f.balanceMatchesLedger(t)
}
