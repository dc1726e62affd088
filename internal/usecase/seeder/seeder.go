package seeder

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/rahulpatwa/paisavest-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// Fixed UUIDs for catalog records so re-seeding is idempotent across restarts
var (
	PLAN_POST_OFFICE = uuid.MustParse("00000000-0000-0000-0000-000000000101")
	PLAN_PPF         = uuid.MustParse("00000000-0000-0000-0000-000000000102")
	PLAN_SSY         = uuid.MustParse("00000000-0000-0000-0000-000000000103")
	PLAN_FD          = uuid.MustParse("00000000-0000-0000-0000-000000000104")
	PLAN_NSC         = uuid.MustParse("00000000-0000-0000-0000-000000000105")

	LESSON_SAVINGS   = uuid.MustParse("00000000-0000-0000-0000-000000000201")
	LESSON_COMPOUND  = uuid.MustParse("00000000-0000-0000-0000-000000000202")
	LESSON_RISK      = uuid.MustParse("00000000-0000-0000-0000-000000000203")
	LESSON_TAX       = uuid.MustParse("00000000-0000-0000-0000-000000000204")
	LESSON_EMERGENCY = uuid.MustParse("00000000-0000-0000-0000-000000000205")
)

// CatalogSeeder ensures the plan and lesson catalogs exist at startup
type CatalogSeeder struct {
	PlanRepo   domain.PlanRepository
	LessonRepo domain.LessonRepository
}

// NewCatalogSeeder creates a new CatalogSeeder instance
func NewCatalogSeeder(planRepo domain.PlanRepository, lessonRepo domain.LessonRepository) *CatalogSeeder {
	return &CatalogSeeder{
		PlanRepo:   planRepo,
		LessonRepo: lessonRepo,
	}
}

// Seed creates every missing catalog record. Existing records are left
// untouched so operator edits survive restarts.
func (s *CatalogSeeder) Seed(ctx context.Context) error {
	for _, plan := range defaultPlans() {
		_, err := s.PlanRepo.GetByCode(ctx, plan.Code)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		if err := s.PlanRepo.Create(ctx, plan); err != nil {
			return err
		}
	}

	for _, lesson := range defaultLessons() {
		_, err := s.LessonRepo.GetByID(ctx, lesson.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		if err := s.LessonRepo.Create(ctx, lesson); err != nil {
			return err
		}
	}

	return nil
}

func defaultPlans() []*domain.Plan {
	return []*domain.Plan{
		{
			ID:                PLAN_POST_OFFICE,
			Code:              "POSA",
			Name:              "Post Office Savings Account",
			Description:       "Government backed, very safe. Withdraw anytime.",
			AnnualRatePercent: decimal.RequireFromString("4.0"),
			MinAmount:         decimal.NewFromInt(10),
			MaxAmount:         decimal.NewFromInt(100000),
			LockInMonths:      0,
			Risk:              domain.RiskVeryLow,
			TaxBenefit:        false,
		},
		{
			ID:                PLAN_PPF,
			Code:              "PPF",
			Name:              "Public Provident Fund",
			Description:       "Long-term savings with tax benefits. Very safe.",
			AnnualRatePercent: decimal.RequireFromString("7.1"),
			MinAmount:         decimal.NewFromInt(500),
			MaxAmount:         decimal.NewFromInt(150000),
			LockInMonths:      180,
			Risk:              domain.RiskVeryLow,
			TaxBenefit:        true,
		},
		{
			ID:                PLAN_SSY,
			Code:              "SSY",
			Name:              "Sukanya Samriddhi Yojana",
			Description:       "For girl child education and marriage. Government scheme.",
			AnnualRatePercent: decimal.RequireFromString("8.2"),
			MinAmount:         decimal.NewFromInt(250),
			MaxAmount:         decimal.NewFromInt(150000),
			LockInMonths:      252,
			Risk:              domain.RiskVeryLow,
			TaxBenefit:        true,
		},
		{
			ID:                PLAN_FD,
			Code:              "FD",
			Name:              "Bank Fixed Deposit",
			Description:       "Guaranteed returns. Money locked for a fixed period.",
			AnnualRatePercent: decimal.RequireFromString("6.5"),
			MinAmount:         decimal.NewFromInt(1000),
			MaxAmount:         decimal.NewFromInt(1000000),
			LockInMonths:      12,
			Risk:              domain.RiskLow,
			TaxBenefit:        false,
		},
		{
			ID:                PLAN_NSC,
			Code:              "NSC",
			Name:              "National Savings Certificate",
			Description:       "Government savings bond with tax benefits.",
			AnnualRatePercent: decimal.RequireFromString("7.7"),
			MinAmount:         decimal.NewFromInt(1000),
			MaxAmount:         decimal.NewFromInt(100000),
			LockInMonths:      60,
			Risk:              domain.RiskVeryLow,
			TaxBenefit:        true,
		},
	}
}

func defaultLessons() []*domain.Lesson {
	return []*domain.Lesson{
		{ID: LESSON_SAVINGS, Title: "Why small savings matter", Summary: "Saving a little every week builds a habit and a cushion.", Category: "basics", Order: 1},
		{ID: LESSON_COMPOUND, Title: "The power of compounding", Summary: "Interest earns interest: time matters more than amount.", Category: "basics", Order: 2},
		{ID: LESSON_RISK, Title: "Understanding risk", Summary: "Higher returns come with higher chances of loss.", Category: "basics", Order: 3},
		{ID: LESSON_TAX, Title: "Tax-saving instruments", Summary: "Some schemes reduce taxable income while you save.", Category: "tax", Order: 4},
		{ID: LESSON_EMERGENCY, Title: "Build an emergency fund first", Summary: "Keep three to six months of expenses accessible before locking money away.", Category: "planning", Order: 5},
	}
}
