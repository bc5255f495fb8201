package engine

import (
	"math"

	"github.com/SandaruRF/rooftop-solar-roi-advisor-expert-system/internal/kb"
	"github.com/SandaruRF/rooftop-solar-roi-advisor-expert-system/internal/model"
)

// estimateConfidence combines the three fractional uncertainty sources
// (irradiance, tariff volatility, cost volatility) in quadrature and scales
// the payback period into a confidence band. The quadrature sum assumes the
// sources are independent; that is a deliberate simplification, not a
// measured correlation model.
func estimateConfidence(payback float64, irr model.SiteIrradiance, k *kb.KnowledgeBase, rec *recorder) *model.ConfidenceResult {
	sunFrac := irr.UncertaintyHours / irr.SunHoursPerDay
	combined := math.Sqrt(sunFrac*sunFrac +
		k.Tariffs.TariffUncertainty*k.Tariffs.TariffUncertainty +
		k.Costs.CostUncertainty*k.Costs.CostUncertainty)

	level := model.ConfidenceLow
	switch {
	case combined < k.Confidence.HighBelow:
		level = model.ConfidenceHigh
	case combined < k.Confidence.MediumBelow:
		level = model.ConfidenceMedium
	}

	res := &model.ConfidenceResult{
		CombinedUncertainty:     combined,
		PaybackUncertaintyYears: round1(payback * combined),
		Level:                   level,
	}
	rec.step("Confidence %s: combined uncertainty %s puts the payback estimate at %.1f ± %.1f years.",
		level, model.FormatPercent(combined), payback, res.PaybackUncertaintyYears)
	return res
}
