package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/SandaruRF/rooftop-solar-roi-advisor-expert-system/internal/model"
)

func feasibleRecommendation() *model.Recommendation {
	budgetKW := 2.5
	return &model.Recommendation{
		Category: model.CategoryExcellent,
		Profile: model.SiteProfile{
			MonthlyConsumptionKWh: 550,
			Location:              "colombo",
			RoofType:              model.RoofTile,
			BudgetLKR:             500000,
		},
		Sizing: &model.SizingResult{
			IdealKW:         4.77,
			BudgetLimitedKW: &budgetKW,
			FinalKW:         2.5,
			LimitingFactor:  model.LimitBudget,
			NumPanels:       6,
			RequiredSqft:    180,
		},
		Cost: &model.CostBreakdown{InstalledCostLKR: 500000, PerKWCost: 200000, RoofMultiplier: 1.0},
		Energy: &model.EnergyResult{
			AnnualGenerationKWh: 4033.25,
			AnnualSavingsLKR:    117047.38,
			CoverageFraction:    0.611,
			PaybackYears:        4.3,
			Feasible:            true,
		},
		Confidence: &model.ConfidenceResult{
			CombinedUncertainty:     0.15,
			PaybackUncertaintyYears: 0.7,
			Level:                   model.ConfidenceHigh,
		},
		Warnings: []string{"Budget limits the system to 2.50 kW of the ideal 4.77 kW."},
		Alternatives: []model.Alternative{
			{Description: "Increase budget to LKR 954,000.00 for the full 4.77 kW system.", ProjectedKW: 4.77},
		},
		Trace: []string{"step one", "step two"},
	}
}

func TestRenderFeasible(t *testing.T) {
	t.Parallel()
	out := Render(feasibleRecommendation(), false)

	assert.Contains(t, out, "EXCELLENT")
	assert.Contains(t, out, "Site: colombo, tile roof, 550 kWh/month, budget LKR 500,000.00")
	assert.Contains(t, out, "Recommended system:  2.50 kW (6 panels)")
	assert.Contains(t, out, "Installed cost:      LKR 500,000.00")
	assert.Contains(t, out, "Limiting factor:     budget (ideal size 4.77 kW)")
	assert.Contains(t, out, "Annual generation:   4,033 kWh")
	assert.Contains(t, out, "Consumption covered: 61.1%")
	assert.Contains(t, out, "Payback period:      4.3 years (±0.7)")
	assert.Contains(t, out, "Confidence:          HIGH")
	assert.Contains(t, out, "Warnings:")
	assert.Contains(t, out, "Alternatives:")
	assert.NotContains(t, out, "Reasoning:")
}

func TestRenderVerboseIncludesTrace(t *testing.T) {
	t.Parallel()
	out := Render(feasibleRecommendation(), true)

	assert.Contains(t, out, "Reasoning:")
	assert.Contains(t, out, "1. step one")
	assert.Contains(t, out, "2. step two")
}

func TestRenderInfeasible(t *testing.T) {
	t.Parallel()
	rec := &model.Recommendation{
		Category: model.CategoryInfeasible,
		Profile: model.SiteProfile{
			MonthlyConsumptionKWh: 300,
			Location:              "colombo",
			RoofType:              model.RoofTile,
			BudgetLKR:             100000,
		},
		Warnings: []string{"Budget LKR 100,000.00 is below the minimum viable installation cost."},
		Trace:    []string{"budget below minimum"},
	}
	out := Render(rec, false)

	assert.Contains(t, out, "INFEASIBLE")
	assert.Contains(t, out, "Not feasible")
	assert.Contains(t, out, "Warnings:")
	assert.Contains(t, out, "Reasoning:", "infeasible reports always explain themselves")
	assert.NotContains(t, out, "Recommended system")
}

func TestRenderSavingsBelowMaintenance(t *testing.T) {
	t.Parallel()
	rec := feasibleRecommendation()
	rec.Category = model.CategoryInfeasible
	rec.Energy.AnnualSavingsLKR = 1500
	rec.Energy.Feasible = false
	rec.Energy.PaybackYears = 0
	rec.Confidence = &model.ConfidenceResult{Level: model.ConfidenceLow}
	out := Render(rec, false)

	assert.Contains(t, out, "INFEASIBLE")
	assert.Contains(t, out, "Recommended system:  2.50 kW (6 panels)")
	assert.Contains(t, out, "Annual generation:   4,033 kWh")
	assert.Contains(t, out, "Annual savings:      LKR 1,500.00")
	assert.Contains(t, out, "Payback period:      not reached (savings below maintenance)")
	assert.Contains(t, out, "Confidence:          LOW")
	assert.NotContains(t, out, "Reasoning:")

	verbose := Render(rec, true)
	assert.Contains(t, verbose, "Reasoning:")
}

func TestRenderNoPaybackLine(t *testing.T) {
	t.Parallel()
	rec := feasibleRecommendation()
	rec.Category = model.CategoryMarginal
	rec.Energy.Feasible = false
	rec.Energy.PaybackYears = 0
	out := Render(rec, false)

	assert.Contains(t, out, "not reached")
}
