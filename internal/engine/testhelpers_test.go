package engine

import (
	"github.com/SandaruRF/rooftop-solar-roi-advisor-expert-system/internal/kb"
	"github.com/SandaruRF/rooftop-solar-roi-advisor-expert-system/internal/model"
)

func fptr(v float64) *float64 { return &v }

// testKB mirrors the shipped knowledge.yaml defaults.
func testKB() *kb.KnowledgeBase {
	return &kb.KnowledgeBase{
		Regions: map[string]kb.Region{
			"colombo":    {SunHours: 5.2, Uncertainty: 0.3},
			"galle":      {SunHours: 5.0, Uncertainty: 0.3},
			"kandy":      {SunHours: 4.5, Uncertainty: 0.4},
			"hambantota": {SunHours: 5.8, Uncertainty: 0.2},
		},
		Tariffs: kb.TariffTable{
			Brackets: []kb.Bracket{
				{MaxUnits: fptr(60), Rate: 10},
				{MaxUnits: fptr(120), Rate: 20},
				{MaxUnits: fptr(180), Rate: 30},
				{MaxUnits: fptr(240), Rate: 40},
				{MaxUnits: nil, Rate: 45},
			},
			FixedCharge:       632.50,
			TariffUncertainty: 0.10,
		},
		Costs: kb.CostTable{
			CostPerKW:       200000,
			FixedCost:       0,
			CostUncertainty: 0.10,
			RoofMultipliers: map[string]float64{
				"tile": 1.00, "asbestos": 0.95, "concrete": 1.10, "other": 1.05,
			},
		},
		Panels: kb.PanelCatalog{
			Standard: kb.PanelSpec{Wattage: 450, AreaSqft: 25.0},
		},
		Sizing: kb.SizingRules{
			SystemEfficiency: 0.85,
			MinSystemKW:      1.0,
			MaxSystemKW:      10.0,
			OversizingFactor: 1.15,
			SpaceBuffer:      1.2,
			BudgetStepKW:     0.1,
		},
		Savings: kb.SavingsRules{
			SelfConsumptionRate:   0.70,
			AnnualMaintenanceRate: 0.02,
		},
		Thresholds: kb.PaybackThresholds{
			ExcellentPayback:     5.0,
			GoodPayback:          7.0,
			MaxAcceptablePayback: 12.0,
			MinBudgetLKR:         200000,
		},
		Confidence: kb.ConfidenceBands{HighBelow: 0.20, MediumBelow: 0.35},
	}
}

func testProfile(monthlyKWh, budget float64) model.SiteProfile {
	return model.SiteProfile{
		MonthlyConsumptionKWh: monthlyKWh,
		Location:              "colombo",
		RoofType:              model.RoofTile,
		BudgetLKR:             budget,
	}
}
