package engine

import (
	"github.com/SandaruRF/rooftop-solar-roi-advisor-expert-system/internal/kb"
	"github.com/SandaruRF/rooftop-solar-roi-advisor-expert-system/internal/model"
)

// computeCost derives the installed cost for a system size and roof type:
// kW x cost_per_kW x roof_multiplier + fixed_cost. An unrecognized roof
// type in the multiplier table surfaces as a configuration error.
func computeCost(systemKW float64, roofType model.RoofType, k *kb.KnowledgeBase) (*model.CostBreakdown, error) {
	mult, err := k.RoofMultiplier(string(roofType))
	if err != nil {
		return nil, err
	}
	return &model.CostBreakdown{
		InstalledCostLKR: round2(systemKW*k.Costs.CostPerKW*mult + k.Costs.FixedCost),
		PerKWCost:        k.Costs.CostPerKW,
		FixedCost:        k.Costs.FixedCost,
		RoofMultiplier:   mult,
	}, nil
}
