package seeder

import (
	"context"
	"testing"

	"github.com/rahulpatwa/paisavest-backend/internal/adapter/repository/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeed_CreatesFullCatalog(t *testing.T) {
	store := memory.NewStore()
	planRepo := memory.NewPlanRepo(store)
	lessonRepo := memory.NewLessonRepo(store)
	ctx := context.Background()

	require.NoError(t, NewCatalogSeeder(planRepo, lessonRepo).Seed(ctx))

	plans, err := planRepo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, plans, 5)

	lessons, err := lessonRepo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, lessons, 5)
}

func TestSeed_SecondRunCreatesNothing(t *testing.T) {
	store := memory.NewStore()
	planRepo := memory.NewPlanRepo(store)
	lessonRepo := memory.NewLessonRepo(store)
	ctx := context.Background()
	seeder := NewCatalogSeeder(planRepo, lessonRepo)

	require.NoError(t, seeder.Seed(ctx))
	require.NoError(t, seeder.Seed(ctx))

	plans, err := planRepo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, plans, 5)

	lessons, err := lessonRepo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, lessons, 5)

	ppf, err := planRepo.GetByCode(ctx, "PPF")
	require.NoError(t, err)
	assert.True(t, ppf.AnnualRatePercent.Equal(decimal.RequireFromString("7.1")))
	assert.Equal(t, 180, ppf.LockInMonths)
}
