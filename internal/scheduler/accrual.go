// Package scheduler drives periodic interest accrual across all active
// investments, replacing ad hoc client-side timers with one server-side
// job using real elapsed time.
package scheduler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rahulpatwa/paisavest-backend/internal/domain"
	"github.com/rahulpatwa/paisavest-backend/internal/logger"
	"github.com/rahulpatwa/paisavest-backend/internal/usecase/wallet"
	"golang.org/x/sync/errgroup"
)

// AccrualTicker is the slice of the wallet service the runner needs
type AccrualTicker interface {
	TickAccrual(ctx context.Context, investmentID uuid.UUID, asOf time.Time) (*wallet.AccrualResult, error)
}

// AccrualRunner periodically realizes interest on every active investment
type AccrualRunner struct {
	InvestmentRepo domain.InvestmentRepository
	Wallet         AccrualTicker
	Clock          domain.Clock

	// Interval between sweeps; shorten it in demo or test configs, the
	// elapsed-time arithmetic is unaffected
	Interval time.Duration

	// MaxConcurrent bounds the number of in-flight ticks per sweep
	MaxConcurrent int
}

// NewAccrualRunner creates a new AccrualRunner instance
func NewAccrualRunner(investmentRepo domain.InvestmentRepository, ticker AccrualTicker, clock domain.Clock, interval time.Duration, maxConcurrent int) *AccrualRunner {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	if interval <= 0 {
		interval = time.Hour
	}
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}
	return &AccrualRunner{
		InvestmentRepo: investmentRepo,
		Wallet:         ticker,
		Clock:          clock,
		Interval:       interval,
		MaxConcurrent:  maxConcurrent,
	}
}

// Run sweeps on the configured cadence until the context is cancelled
func (r *AccrualRunner) Run(ctx context.Context) {
	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.RunOnce(ctx, r.Clock.Now()); err != nil {
				logger.Error("accrual sweep failed", err, nil)
			}
		}
	}
}

// RunOnce ticks every active investment as of the given instant.
// Per-investment failures are logged and skipped so one bad record never
// starves the rest; only listing failures abort the sweep.
func (r *AccrualRunner) RunOnce(ctx context.Context, asOf time.Time) error {
	investments, err := r.InvestmentRepo.ListActive(ctx)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.MaxConcurrent)

	for _, investment := range investments {
		id := investment.ID
		g.Go(func() error {
			if _, err := r.Wallet.TickAccrual(ctx, id, asOf); err != nil {
				logger.Error("accrual tick failed", err, logger.Fields{
					"investment_id": id.String(),
				})
			}
			return nil
		})
	}

	return g.Wait()
}
