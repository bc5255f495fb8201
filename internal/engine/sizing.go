package engine

import (
	"math"

	"github.com/SandaruRF/rooftop-solar-roi-advisor-expert-system/internal/kb"
	"github.com/SandaruRF/rooftop-solar-roi-advisor-expert-system/internal/model"
)

// kwTieTolerance is the spacing within which the roof and budget bounds are
// considered numerically equal, reporting the limiting factor as both.
const kwTieTolerance = 0.05

func round1(v float64) float64 { return math.Round(v*10) / 10 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }

// floorStep floors v to the given granularity, e.g. 2.37 at step 0.1 -> 2.3.
func floorStep(v, step float64) float64 {
	return math.Floor(v/step+1e-9) * step
}

// panelsFor returns the panel count covering systemKW.
func panelsFor(systemKW float64, panel kb.PanelSpec) int {
	return int(math.Ceil(systemKW * 1000 / panel.Wattage))
}

// footprintSqft returns the roof space for n panels including the layout
// buffer for spacing and access.
func footprintSqft(n int, panel kb.PanelSpec, buffer float64) float64 {
	return round1(float64(n) * panel.AreaSqft * buffer)
}

// resolveSizing derives the ideal system size and reconciles the roof and
// budget constraints into one final size. It returns a nil result with
// infeasible=true when no viable system fits the constraints; that outcome
// is terminal and carries only the trace and warnings recorded so far.
func resolveSizing(p model.SiteProfile, irr model.SiteIrradiance, k *kb.KnowledgeBase, opts evalOptions, rec *recorder) (res *model.SizingResult, infeasible bool, err error) {
	sz := k.Sizing
	panel := k.Panels.Standard

	// Ideal size from consumption and irradiance, clamped to buildable
	// bounds before any cost or constraint check.
	dailyKWh := p.MonthlyConsumptionKWh / 30
	ideal := round2(dailyKWh / (irr.SunHoursPerDay * sz.SystemEfficiency) * sz.OversizingFactor)
	if ideal < sz.MinSystemKW {
		rec.warn("Calculated system size %.2f kW is below the minimum %.2f kW; using the minimum recommended size.", ideal, sz.MinSystemKW)
		ideal = sz.MinSystemKW
	} else if ideal > sz.MaxSystemKW {
		rec.warn("Calculated system size %.2f kW exceeds the maximum residential size %.2f kW; consider a commercial installation.", ideal, sz.MaxSystemKW)
		ideal = sz.MaxSystemKW
	}
	idealPanels := panelsFor(ideal, panel)
	idealSqft := footprintSqft(idealPanels, panel, sz.SpaceBuffer)
	rec.step("Monthly consumption of %g kWh requires an ideal system of %.2f kW (%d panels, ~%.1f sq.ft.).",
		p.MonthlyConsumptionKWh, ideal, idealPanels, idealSqft)

	// Roof constraint, only when an area was supplied. The rounded footprint
	// can report a hairline deficit that the panel capacity still absorbs;
	// the roof binds only when it caps capacity below the ideal size.
	var roofKW *float64
	if p.RoofAreaSqft != nil && !opts.ignoreRoof {
		available := *p.RoofAreaSqft
		maxPanels := int(math.Floor(available / (panel.AreaSqft * sz.SpaceBuffer)))
		v := round2(float64(maxPanels) * panel.Wattage / 1000)
		if idealSqft > available && v < ideal {
			roofKW = &v
			rec.step("Roof constraint: available %.1f sq.ft. fits at most %d panels (%.2f kW).", available, maxPanels, v)
			rec.warn("Available roof space (%.1f sq.ft.) is insufficient for the ideal system; at most %.2f kW fits.", available, v)
		} else {
			rec.step("Roof space of %.1f sq.ft. is sufficient for the ideal system.", available)
		}
	}

	// Budget constraint. Budgets below the configured minimum cannot fund
	// any viable installation.
	var budgetKW *float64
	if !opts.ignoreBudget {
		if p.BudgetLKR < k.Thresholds.MinBudgetLKR {
			rec.step("Budget %s is below the minimum viable budget %s; no installation is feasible.",
				model.FormatLKR(p.BudgetLKR), model.FormatLKR(k.Thresholds.MinBudgetLKR))
			rec.warn("Budget %s is insufficient for a viable solar installation. Minimum recommended budget: %s.",
				model.FormatLKR(p.BudgetLKR), model.FormatLKR(k.Thresholds.MinBudgetLKR))
			return nil, true, nil
		}

		idealCost, err := computeCost(ideal, p.RoofType, k)
		if err != nil {
			return nil, false, err
		}
		rec.step("Estimated installation cost for the ideal %.2f kW system: %s (%s roof, x%.2f).",
			ideal, model.FormatLKR(idealCost.InstalledCostLKR), p.RoofType, idealCost.RoofMultiplier)

		if idealCost.InstalledCostLKR > p.BudgetLKR {
			affordable := (p.BudgetLKR - idealCost.FixedCost) / (idealCost.PerKWCost * idealCost.RoofMultiplier)
			v := floorStep(affordable, sz.BudgetStepKW)
			budgetKW = &v
			rec.step("Budget constraint: %s affords at most %.2f kW.", model.FormatLKR(p.BudgetLKR), v)
			rec.warn("Budget %s does not cover the ideal system (%s); at most %.2f kW is affordable.",
				model.FormatLKR(p.BudgetLKR), model.FormatLKR(idealCost.InstalledCostLKR), v)
		} else {
			rec.step("Budget %s covers the ideal system.", model.FormatLKR(p.BudgetLKR))
		}
	}

	// Reconciliation: the final size is the strictest of the bounds present,
	// capped at the configured maximum. Below the minimum viable size the
	// outcome is infeasible, never a degenerate system.
	final := ideal
	if roofKW != nil && *roofKW < final {
		final = *roofKW
	}
	if budgetKW != nil && *budgetKW < final {
		final = *budgetKW
	}
	if final > sz.MaxSystemKW {
		final = sz.MaxSystemKW
	}
	if final < sz.MinSystemKW {
		rec.step("Strictest constraint allows only %.2f kW, below the minimum viable size %.2f kW; no installation is feasible.", final, sz.MinSystemKW)
		rec.warn("Constraints limit the system to %.2f kW, below the minimum viable size of %.2f kW.", final, sz.MinSystemKW)
		return nil, true, nil
	}

	limiting := limitingFactor(ideal, roofKW, budgetKW)
	finalPanels := panelsFor(final, panel)
	finalSqft := footprintSqft(finalPanels, panel, sz.SpaceBuffer)

	switch limiting {
	case model.LimitNone:
		rec.step("No constraints bind; recommending the ideal %.2f kW system (%d panels).", final, finalPanels)
	case model.LimitBoth:
		rec.step("Roof space and budget are equally limiting; recommending %.2f kW (%d panels).", final, finalPanels)
	default:
		rec.step("Final system limited by %s: %.2f kW (%d panels, ~%.1f sq.ft.), reduced from the ideal %.2f kW.",
			limiting, final, finalPanels, finalSqft, ideal)
	}

	return &model.SizingResult{
		IdealKW:         ideal,
		RoofLimitedKW:   roofKW,
		BudgetLimitedKW: budgetKW,
		FinalKW:         final,
		LimitingFactor:  limiting,
		NumPanels:       finalPanels,
		RequiredSqft:    finalSqft,
	}, false, nil
}

// limitingFactor tags which bounds were binding. When both roof and budget
// bind, a numeric tie within tolerance reports both; otherwise the stricter
// bound's label wins.
func limitingFactor(ideal float64, roofKW, budgetKW *float64) model.LimitingFactor {
	roofBinds := roofKW != nil && *roofKW < ideal
	budgetBinds := budgetKW != nil && *budgetKW < ideal

	switch {
	case roofBinds && budgetBinds:
		if math.Abs(*roofKW-*budgetKW) <= kwTieTolerance {
			return model.LimitBoth
		}
		if *roofKW < *budgetKW {
			return model.LimitRoof
		}
		return model.LimitBudget
	case roofBinds:
		return model.LimitRoof
	case budgetBinds:
		return model.LimitBudget
	}
	return model.LimitNone
}
