package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SandaruRF/rooftop-solar-roi-advisor-expert-system/internal/model"
)

func testRecommendation(location string, category model.Category) model.Recommendation {
	return model.Recommendation{
		Category: category,
		Profile: model.SiteProfile{
			MonthlyConsumptionKWh: 300,
			Location:              location,
			RoofType:              model.RoofTile,
			BudgetLKR:             500000,
		},
		Sizing: &model.SizingResult{IdealKW: 2.6, FinalKW: 2.5, LimitingFactor: model.LimitBudget},
		Cost:   &model.CostBreakdown{InstalledCostLKR: 500000, PerKWCost: 200000, RoofMultiplier: 1.0},
		Energy: &model.EnergyResult{AnnualGenerationKWh: 4033.25, AnnualSavingsLKR: 86065.5, PaybackYears: 5.8, Feasible: true},
		Trace:  []string{"step one", "step two"},
	}
}

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "solar.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestSQLiteCreateAndGet(t *testing.T) {
	t.Parallel()
	s := newTestSQLite(t)
	ctx := context.Background()

	created, err := s.CreateEvaluation(ctx, testRecommendation("colombo", model.CategoryGood))
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := s.GetEvaluation(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, model.CategoryGood, got.Category)
	assert.Equal(t, "colombo", got.Profile.Location)
	require.NotNil(t, got.Recommendation.Sizing)
	assert.Equal(t, 2.5, got.Recommendation.Sizing.FinalKW)
	assert.Equal(t, []string{"step one", "step two"}, got.Recommendation.Trace)
}

func TestSQLiteGetMissing(t *testing.T) {
	t.Parallel()
	s := newTestSQLite(t)

	_, err := s.GetEvaluation(context.Background(), "no-such-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSQLiteListFilters(t *testing.T) {
	t.Parallel()
	s := newTestSQLite(t)
	ctx := context.Background()

	_, err := s.CreateEvaluation(ctx, testRecommendation("colombo", model.CategoryGood))
	require.NoError(t, err)
	_, err = s.CreateEvaluation(ctx, testRecommendation("kandy", model.CategoryExcellent))
	require.NoError(t, err)
	_, err = s.CreateEvaluation(ctx, testRecommendation("colombo", model.CategoryExcellent))
	require.NoError(t, err)

	all, err := s.ListEvaluations(ctx, EvaluationFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	excellent, err := s.ListEvaluations(ctx, EvaluationFilter{Category: model.CategoryExcellent})
	require.NoError(t, err)
	assert.Len(t, excellent, 2)

	colombo, err := s.ListEvaluations(ctx, EvaluationFilter{Location: "colombo"})
	require.NoError(t, err)
	assert.Len(t, colombo, 2)

	limited, err := s.ListEvaluations(ctx, EvaluationFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSQLiteListOffsetWithoutLimit(t *testing.T) {
	t.Parallel()
	s := newTestSQLite(t)
	ctx := context.Background()

	for _, loc := range []string{"colombo", "kandy", "galle"} {
		_, err := s.CreateEvaluation(ctx, testRecommendation(loc, model.CategoryGood))
		require.NoError(t, err)
	}

	rest, err := s.ListEvaluations(ctx, EvaluationFilter{Offset: 1})
	require.NoError(t, err)
	assert.Len(t, rest, 2)

	past, err := s.ListEvaluations(ctx, EvaluationFilter{Offset: 3})
	require.NoError(t, err)
	assert.Empty(t, past)

	page, err := s.ListEvaluations(ctx, EvaluationFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, page, 1)
}
