// Package engine implements the solar recommendation pipeline: an ordered
// chain of pure derivations over a submitted site profile and the read-only
// knowledge base. Each stage consumes only facts already derived by its
// predecessors, so the whole evaluation is deterministic and safe to run
// concurrently without locking.
package engine

import (
	"github.com/SandaruRF/rooftop-solar-roi-advisor-expert-system/internal/kb"
	"github.com/SandaruRF/rooftop-solar-roi-advisor-expert-system/internal/model"
)

// Engine evaluates site profiles against one published knowledge base. It
// holds no mutable state; a single Engine may serve concurrent evaluations.
type Engine struct {
	kb *kb.KnowledgeBase
}

// New creates an Engine over the given knowledge base.
func New(k *kb.KnowledgeBase) *Engine {
	return &Engine{kb: k}
}

// evalOptions control constraint-free re-runs used to build alternatives.
type evalOptions struct {
	ignoreRoof     bool
	ignoreBudget   bool
	noAlternatives bool
}

// Evaluate runs the full pipeline for one profile: validation, sizing and
// constraint reconciliation, cost, generation and savings, confidence, and
// category assembly. An infeasible outcome is a valid terminal state, not
// an error; errors are reserved for bad input and broken configuration.
func (e *Engine) Evaluate(p model.SiteProfile) (*model.Recommendation, error) {
	return e.evaluate(p, evalOptions{})
}

func (e *Engine) evaluate(p model.SiteProfile, opts evalOptions) (*model.Recommendation, error) {
	if err := e.validate(p); err != nil {
		return nil, err
	}

	rec := &recorder{}

	region, _ := e.kb.Region(p.Location)
	irr := model.SiteIrradiance{
		SunHoursPerDay:   region.SunHours,
		UncertaintyHours: region.Uncertainty,
	}
	rec.step("Resolved location %q: average sun hours %.1f h/day (±%.1f h uncertainty).",
		p.Location, irr.SunHoursPerDay, irr.UncertaintyHours)

	sizing, infeasible, err := resolveSizing(p, irr, e.kb, opts, rec)
	if err != nil {
		return nil, err
	}
	if infeasible {
		return e.assembleInfeasible(p, &irr, rec), nil
	}

	cost, err := computeCost(sizing.FinalKW, p.RoofType, e.kb)
	if err != nil {
		return nil, err
	}
	rec.step("Installation cost for the final %.2f kW system: %s.",
		sizing.FinalKW, model.FormatLKR(cost.InstalledCostLKR))

	energy := computeEnergy(sizing.FinalKW, cost, p, irr, e.kb, rec)

	var confidence *model.ConfidenceResult
	if energy.Feasible {
		confidence = estimateConfidence(energy.PaybackYears, irr, e.kb, rec)
	} else {
		confidence = &model.ConfidenceResult{Level: model.ConfidenceLow}
		rec.step("Confidence low: no payback period could be computed.")
	}

	return e.assemble(p, &irr, sizing, cost, energy, confidence, opts, rec)
}

// validate enforces the input contract regardless of caller diligence.
func (e *Engine) validate(p model.SiteProfile) error {
	if p.MonthlyConsumptionKWh <= 0 {
		return &ValidationError{Field: "monthly_consumption_kwh", Msg: "must be positive"}
	}
	if p.BudgetLKR < 0 {
		return &ValidationError{Field: "budget_lkr", Msg: "must be non-negative"}
	}
	if p.RoofAreaSqft != nil && *p.RoofAreaSqft <= 0 {
		return &ValidationError{Field: "roof_area_sqft", Msg: "must be positive when provided"}
	}
	if _, ok := model.ParseRoofType(string(p.RoofType)); !ok {
		return &UnknownRoofTypeError{RoofType: string(p.RoofType)}
	}
	if _, ok := e.kb.Region(p.Location); !ok {
		return &UnknownLocationError{Location: p.Location}
	}
	return nil
}
