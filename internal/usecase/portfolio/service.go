package portfolio

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rahulpatwa/paisavest-backend/internal/domain"
	"github.com/rahulpatwa/paisavest-backend/internal/usecase/accrual"
	"github.com/shopspring/decimal"
)

// Summary is the read-only rollup over a user's investments
type Summary struct {
	TotalInvested     decimal.Decimal
	TotalCurrentValue decimal.Decimal
	TotalGain         decimal.Decimal
	GainPercent       decimal.Decimal
	Count             int
}

// Summarize computes the rollup for a set of investments.
// Pure: no repository access, no mutation. GainPercent is zero when
// nothing was invested (defined edge case, not an error).
func Summarize(investments []*domain.Investment) Summary {
	totalInvested := decimal.Zero
	totalCurrentValue := decimal.Zero

	for _, investment := range investments {
		totalInvested = totalInvested.Add(investment.Principal)
		totalCurrentValue = totalCurrentValue.Add(investment.CurrentValue)
	}

	totalGain := totalCurrentValue.Sub(totalInvested)

	gainPercent := decimal.Zero
	if totalInvested.IsPositive() {
		gainPercent = totalGain.Div(totalInvested).Mul(decimal.NewFromInt(100)).Round(2)
	}

	return Summary{
		TotalInvested:     totalInvested,
		TotalCurrentValue: totalCurrentValue,
		TotalGain:         totalGain,
		GainPercent:       gainPercent,
		Count:             len(investments),
	}
}

// PortfolioService handles portfolio rollup queries
type PortfolioService struct {
	InvestmentRepo domain.InvestmentRepository
	Clock          domain.Clock
}

// NewPortfolioService creates a new PortfolioService instance
func NewPortfolioService(investmentRepo domain.InvestmentRepository, clock domain.Clock) *PortfolioService {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &PortfolioService{
		InvestmentRepo: investmentRepo,
		Clock:          clock,
	}
}

// Summary recomputes the rollup from the user's current investment set.
// Active records are valued as of now via the accrual projection without
// mutating anything; realized accrual is left to the scheduler.
func (s *PortfolioService) Summary(ctx context.Context, userID uuid.UUID) (Summary, error) {
	investments, err := s.InvestmentRepo.ListByUser(ctx, userID)
	if err != nil {
		return Summary{}, fmt.Errorf("failed to list investments: %w", err)
	}

	return Summarize(s.valuedAsOf(investments, s.Clock.Now())), nil
}

// Investments returns the user's investments with active records valued
// as of now, for display
func (s *PortfolioService) Investments(ctx context.Context, userID uuid.UUID) ([]*domain.Investment, error) {
	investments, err := s.InvestmentRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list investments: %w", err)
	}

	return s.valuedAsOf(investments, s.Clock.Now()), nil
}

// valuedAsOf returns copies of the investments with pending interest
// projected onto active records
func (s *PortfolioService) valuedAsOf(investments []*domain.Investment, asOf time.Time) []*domain.Investment {
	valued := make([]*domain.Investment, 0, len(investments))
	for _, investment := range investments {
		inv := *investment
		if inv.IsActive() {
			inv.CurrentValue = accrual.Accrue(&inv, asOf).NewValue
		}
		valued = append(valued, &inv)
	}
	return valued
}
