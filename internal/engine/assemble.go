package engine

import (
	"fmt"

	"github.com/SandaruRF/rooftop-solar-roi-advisor-expert-system/internal/model"
)

// assemble classifies the completed derivation chain into a recommendation
// category, quantifies any binding constraints, and attaches alternatives
// built from constraint-free re-runs of the whole pipeline.
func (e *Engine) assemble(p model.SiteProfile, irr *model.SiteIrradiance, sizing *model.SizingResult, cost *model.CostBreakdown, energy *model.EnergyResult, confidence *model.ConfidenceResult, opts evalOptions, rec *recorder) (*model.Recommendation, error) {
	category := e.categorize(energy)

	if sizing.LimitingFactor != model.LimitNone {
		rec.warn("The %s constraint reduced the system from the ideal %.2f kW to %.2f kW (-%.2f kW).",
			sizing.LimitingFactor, sizing.IdealKW, sizing.FinalKW, round2(sizing.IdealKW-sizing.FinalKW))
	}

	var alternatives []model.Alternative
	if !opts.noAlternatives {
		alternatives = e.buildAlternatives(p, sizing)
	}

	rec.step("Final recommendation: %s.", category)

	return &model.Recommendation{
		Category:     category,
		Profile:      p,
		Irradiance:   irr,
		Sizing:       sizing,
		Cost:         cost,
		Energy:       energy,
		Confidence:   confidence,
		Warnings:     rec.warnings,
		Alternatives: alternatives,
		Trace:        rec.trace,
	}, nil
}

// assembleInfeasible produces the terminal infeasible recommendation. Cost,
// energy, and confidence stay nil: not computed is distinct from zero.
func (e *Engine) assembleInfeasible(p model.SiteProfile, irr *model.SiteIrradiance, rec *recorder) *model.Recommendation {
	rec.step("Final recommendation: %s. Consider increasing the budget or reducing consumption first.", model.CategoryInfeasible)
	return &model.Recommendation{
		Category:   model.CategoryInfeasible,
		Profile:    p,
		Irradiance: irr,
		Warnings:   rec.warnings,
		Trace:      rec.trace,
	}
}

// categorize maps the payback period onto the ordered thresholds from the
// knowledge base. Savings that never cover maintenance are infeasible.
func (e *Engine) categorize(energy *model.EnergyResult) model.Category {
	if !energy.Feasible {
		return model.CategoryInfeasible
	}
	t := e.kb.Thresholds
	switch {
	case energy.PaybackYears <= t.ExcellentPayback:
		return model.CategoryExcellent
	case energy.PaybackYears <= t.GoodPayback:
		return model.CategoryGood
	case energy.PaybackYears <= t.MaxAcceptablePayback:
		return model.CategoryFair
	}
	return model.CategoryMarginal
}

// buildAlternatives proposes ways around a binding constraint, each costed
// by a full re-run of the pipeline with that constraint removed.
func (e *Engine) buildAlternatives(p model.SiteProfile, sizing *model.SizingResult) []model.Alternative {
	var alts []model.Alternative

	if sizing.LimitingFactor == model.LimitBudget || sizing.LimitingFactor == model.LimitBoth {
		if alt := e.rerunAlternative(p, evalOptions{ignoreBudget: true, noAlternatives: true}); alt != nil {
			full := alt.Sizing.FinalKW
			if full > sizing.FinalKW {
				alts = append(alts, model.Alternative{
					Description: "With financing beyond the current budget, the full " +
						formatKW(full) + " system would cost " + model.FormatLKR(alt.Cost.InstalledCostLKR) +
						" and pay back in " + formatYears(alt.Energy.PaybackYears) + ".",
					ProjectedKW:           full,
					ProjectedPaybackYears: alt.Energy.PaybackYears,
				})
			}
		}
	}

	if sizing.LimitingFactor == model.LimitRoof || sizing.LimitingFactor == model.LimitBoth {
		if alt := e.rerunAlternative(p, evalOptions{ignoreRoof: true, noAlternatives: true}); alt != nil {
			residual := round2(alt.Sizing.FinalKW - sizing.FinalKW)
			if residual > 0 {
				alts = append(alts, model.Alternative{
					Description: "A phased second installation adding " + formatKW(residual) +
						" (higher-efficiency panels or an additional roof face) would reach the ideal capacity, " +
						"with the combined system paying back in " + formatYears(alt.Energy.PaybackYears) + ".",
					ProjectedKW:           residual,
					ProjectedPaybackYears: alt.Energy.PaybackYears,
				})
			}
		}
	}

	return alts
}

// rerunAlternative evaluates the profile with a constraint removed and
// returns the result only when it is feasible and fully derived.
func (e *Engine) rerunAlternative(p model.SiteProfile, opts evalOptions) *model.Recommendation {
	alt, err := e.evaluate(p, opts)
	if err != nil || !alt.Feasible() || alt.Sizing == nil || alt.Energy == nil || !alt.Energy.Feasible {
		return nil
	}
	return alt
}

func formatKW(kw float64) string {
	return fmt.Sprintf("%.2f kW", kw)
}

func formatYears(years float64) string {
	return fmt.Sprintf("%.1f years", years)
}
