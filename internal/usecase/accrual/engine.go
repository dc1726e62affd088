package accrual

import (
	"time"

	"github.com/rahulpatwa/paisavest-backend/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	daysPerYear = 365

	// powPrecision is the number of significant digits kept when raising
	// the growth factor to a fractional exponent
	powPrecision = 16
)

var (
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)

	// MinInterestDelta is the smallest interest amount worth realizing.
	// Deltas at or below this threshold are left to compound into a later
	// accrual instead of producing near-zero ledger entries.
	MinInterestDelta = decimal.RequireFromString("0.01")
)

// ProjectedValue computes the compound-growth value of a principal after
// elapsedDays at the given annual rate:
//
//	value = principal * (1 + annualRatePercent/100) ^ (elapsedDays / 365)
//
// The result is rounded to 2 decimal places, half up. Non-positive
// elapsed time or a non-positive rate returns the principal unchanged;
// negative elapsed time never produces negative interest.
func ProjectedValue(principal, annualRatePercent, elapsedDays decimal.Decimal) decimal.Decimal {
	if !elapsedDays.IsPositive() || !annualRatePercent.IsPositive() {
		return principal
	}

	base := one.Add(annualRatePercent.Div(hundred))
	years := elapsedDays.Div(decimal.NewFromInt(daysPerYear))

	factor, err := base.PowWithPrecision(years, powPrecision)
	if err != nil {
		// base is always > 1 here, so Pow cannot fail on valid input
		return principal
	}

	return principal.Mul(factor).Round(2)
}

// Result is the commit-ready outcome of one accrual computation.
// InterestDelta is zero when nothing was realized, in which case NewValue
// and AccruedAt echo the investment's stored state.
type Result struct {
	NewValue      decimal.Decimal
	InterestDelta decimal.Decimal
	AccruedAt     time.Time
}

// Realized reports whether the accrual produced interest worth committing
func (r Result) Realized() bool {
	return r.InterestDelta.IsPositive()
}

// Accrue computes the interest an investment has earned since its last
// accrual, without mutating anything. Elapsed time is measured from
// LastAccrualAt, not from opening, so repeated calls compound correctly
// and never re-apply interest that was already credited.
//
// When the delta does not exceed MinInterestDelta the result carries the
// stored value and timestamp unchanged; the untouched timestamp lets
// short intervals aggregate until the threshold is met.
func Accrue(investment *domain.Investment, asOf time.Time) Result {
	unchanged := Result{
		NewValue:      investment.CurrentValue,
		InterestDelta: decimal.Zero,
		AccruedAt:     investment.LastAccrualAt,
	}

	elapsed := asOf.Sub(investment.LastAccrualAt)
	if elapsed <= 0 {
		return unchanged
	}

	elapsedDays := decimal.NewFromFloat(elapsed.Hours() / 24)
	newValue := ProjectedValue(investment.CurrentValue, investment.AnnualRatePercent, elapsedDays)

	delta := newValue.Sub(investment.CurrentValue)
	if delta.LessThanOrEqual(MinInterestDelta) {
		return unchanged
	}

	return Result{
		NewValue:      newValue,
		InterestDelta: delta,
		AccruedAt:     asOf,
	}
}
