package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SandaruRF/rooftop-solar-roi-advisor-expert-system/internal/model"
)

func TestEvaluateBudgetLimitedHousehold(t *testing.T) {
	t.Parallel()
	eng := New(testKB())

	// 550 kWh/month in colombo with a 500k budget: ideal 4.77 kW, budget
	// caps the system at 2.5 kW generating ~4,033 kWh/year (~61% of the
	// 6,600 kWh annual consumption), paying back in ~4.3 years.
	rec, err := eng.Evaluate(testProfile(550, 500000))
	require.NoError(t, err)

	require.NotNil(t, rec.Sizing)
	assert.InDelta(t, 4.77, rec.Sizing.IdealKW, 1e-9)
	assert.InDelta(t, 2.5, rec.Sizing.FinalKW, 1e-9)
	assert.Equal(t, model.LimitBudget, rec.Sizing.LimitingFactor)

	require.NotNil(t, rec.Cost)
	assert.InDelta(t, 500000, rec.Cost.InstalledCostLKR, 1e-6)

	require.NotNil(t, rec.Energy)
	assert.InDelta(t, 4033.25, rec.Energy.AnnualGenerationKWh, 0.01)
	assert.InDelta(t, 0.611, rec.Energy.CoverageFraction, 0.001)
	assert.InDelta(t, 4.3, rec.Energy.PaybackYears, 1e-9)
	assert.Equal(t, model.CategoryExcellent, rec.Category)

	require.NotNil(t, rec.Confidence)
	assert.Equal(t, model.ConfidenceHigh, rec.Confidence.Level)
	assert.InDelta(t, 0.1527, rec.Confidence.CombinedUncertainty, 0.001)

	// A budget-limited outcome proposes the unconstrained system.
	require.NotEmpty(t, rec.Alternatives)
	assert.InDelta(t, 4.77, rec.Alternatives[0].ProjectedKW, 1e-9)
	assert.Greater(t, rec.Alternatives[0].ProjectedPaybackYears, 0.0)
}

func TestEvaluateModestHousehold(t *testing.T) {
	t.Parallel()
	eng := New(testKB())

	rec, err := eng.Evaluate(testProfile(300, 500000))
	require.NoError(t, err)

	require.NotNil(t, rec.Sizing)
	assert.InDelta(t, 2.5, rec.Sizing.FinalKW, 1e-9)
	require.NotNil(t, rec.Cost)
	assert.InDelta(t, 500000, rec.Cost.InstalledCostLKR, 1e-6)
	require.NotNil(t, rec.Energy)
	assert.InDelta(t, 5.8, rec.Energy.PaybackYears, 1e-9)
	assert.Equal(t, model.CategoryGood, rec.Category)
}

func TestEvaluateInfeasibleBudget(t *testing.T) {
	t.Parallel()
	eng := New(testKB())

	// Budget below the minimum viable installation: terminal infeasible,
	// with cost and energy left undefined rather than zeroed.
	rec, err := eng.Evaluate(testProfile(500, 100000))
	require.NoError(t, err)

	assert.Equal(t, model.CategoryInfeasible, rec.Category)
	assert.False(t, rec.Feasible())
	assert.Nil(t, rec.Sizing)
	assert.Nil(t, rec.Cost)
	assert.Nil(t, rec.Energy)
	assert.Nil(t, rec.Confidence)
	assert.NotEmpty(t, rec.Trace)
	assert.NotEmpty(t, rec.Warnings)
}

func TestEvaluateRoofLimitedAlternative(t *testing.T) {
	t.Parallel()
	eng := New(testKB())

	p := testProfile(500, 2000000)
	p.RoofAreaSqft = fptr(150)
	rec, err := eng.Evaluate(p)
	require.NoError(t, err)

	require.NotNil(t, rec.Sizing)
	assert.Equal(t, model.LimitRoof, rec.Sizing.LimitingFactor)
	assert.InDelta(t, 2.25, rec.Sizing.FinalKW, 1e-9)

	// Roof-limited outcomes propose a phased second installation covering
	// the residual capacity.
	require.NotEmpty(t, rec.Alternatives)
	assert.InDelta(t, rec.Sizing.IdealKW-rec.Sizing.FinalKW, rec.Alternatives[0].ProjectedKW, 1e-9)
}

func TestEvaluateIdempotent(t *testing.T) {
	t.Parallel()
	eng := New(testKB())

	p := testProfile(550, 500000)
	p.RoofAreaSqft = fptr(400)

	first, err := eng.Evaluate(p)
	require.NoError(t, err)
	second, err := eng.Evaluate(p)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestEvaluateTraceMirrorsDerivationOrder(t *testing.T) {
	t.Parallel()
	eng := New(testKB())

	rec, err := eng.Evaluate(testProfile(550, 500000))
	require.NoError(t, err)

	require.GreaterOrEqual(t, len(rec.Trace), 7)
	assert.Contains(t, rec.Trace[0], "colombo")
	assert.Contains(t, rec.Trace[1], "ideal system")
	assert.Contains(t, rec.Trace[len(rec.Trace)-1], "Final recommendation")
}

func TestEvaluateValidation(t *testing.T) {
	t.Parallel()
	eng := New(testKB())

	tests := []struct {
		name   string
		mutate func(*model.SiteProfile)
	}{
		{"zero consumption", func(p *model.SiteProfile) { p.MonthlyConsumptionKWh = 0 }},
		{"negative budget", func(p *model.SiteProfile) { p.BudgetLKR = -1 }},
		{"zero roof area", func(p *model.SiteProfile) { p.RoofAreaSqft = fptr(0) }},
		{"unknown roof type", func(p *model.SiteProfile) { p.RoofType = "thatch" }},
		{"unknown location", func(p *model.SiteProfile) { p.Location = "atlantis" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p := testProfile(300, 500000)
			tt.mutate(&p)
			_, err := eng.Evaluate(p)
			require.Error(t, err)
			assert.True(t, IsValidation(err), "expected a validation error, got %v", err)
		})
	}
}

func TestEvaluateUnknownLocationErrorType(t *testing.T) {
	t.Parallel()
	eng := New(testKB())

	p := testProfile(300, 500000)
	p.Location = "atlantis"
	_, err := eng.Evaluate(p)

	var unknownLoc *UnknownLocationError
	require.ErrorAs(t, err, &unknownLoc)
	assert.Equal(t, "atlantis", unknownLoc.Location)
}

func TestEvaluateSavingsBelowMaintenance(t *testing.T) {
	t.Parallel()

	// Crank maintenance high enough that savings go negative: the result is
	// category infeasible with the energy figures still reported.
	k := testKB()
	k.Savings.AnnualMaintenanceRate = 0.5
	eng := New(k)

	rec, err := eng.Evaluate(testProfile(300, 500000))
	require.NoError(t, err)

	assert.Equal(t, model.CategoryInfeasible, rec.Category)
	require.NotNil(t, rec.Energy)
	assert.False(t, rec.Energy.Feasible)
	assert.Zero(t, rec.Energy.PaybackYears)
	assert.Equal(t, model.ConfidenceLow, rec.Confidence.Level)
}
