package engine

import (
	"github.com/SandaruRF/rooftop-solar-roi-advisor-expert-system/internal/kb"
	"github.com/SandaruRF/rooftop-solar-roi-advisor-expert-system/internal/model"
)

// computeEnergy derives annual generation, savings, and payback for the
// final system size.
//
// Savings are the tariff differential, not a flat rate multiplication: the
// bill is computed at the original consumption and again at the consumption
// net of self-consumed solar, and the difference is annualized. Under a
// progressive schedule a kWh avoided from the top bracket is worth more
// than one avoided from the bottom, which a blended-rate shortcut would
// miss.
func computeEnergy(finalKW float64, cost *model.CostBreakdown, p model.SiteProfile, irr model.SiteIrradiance, k *kb.KnowledgeBase, rec *recorder) *model.EnergyResult {
	generation := round2(finalKW * irr.SunHoursPerDay * k.Sizing.SystemEfficiency * 365)

	originalBill, _ := ComputeTariff(p.MonthlyConsumptionKWh, k.Tariffs)
	netted := p.MonthlyConsumptionKWh - k.Savings.SelfConsumptionRate*generation/12
	if netted < 0 {
		netted = 0
	}
	nettedBill, _ := ComputeTariff(netted, k.Tariffs)

	maintenance := round2(k.Savings.AnnualMaintenanceRate * cost.InstalledCostLKR)
	savings := round2(12*(originalBill-nettedBill) - maintenance)
	coverage := generation / (p.MonthlyConsumptionKWh * 12)

	res := &model.EnergyResult{
		AnnualGenerationKWh:  generation,
		AnnualSavingsLKR:     savings,
		AnnualMaintenanceLKR: maintenance,
		CoverageFraction:     coverage,
	}

	rec.step("Expected annual generation %s, covering %s of annual consumption.",
		model.FormatKWh(generation), model.FormatPercent(coverage))

	if savings <= 0 {
		rec.step("Net annual savings %s do not cover maintenance of %s; a positive payback period cannot be computed.",
			model.FormatLKR(savings), model.FormatLKR(maintenance))
		rec.warn("Annual savings are insufficient to justify the investment.")
		return res
	}

	res.Feasible = true
	res.PaybackYears = round1(cost.InstalledCostLKR / savings)
	rec.step("Net annual savings %s after %s maintenance; payback period %.1f years.",
		model.FormatLKR(savings), model.FormatLKR(maintenance), res.PaybackYears)
	return res
}
