package model

// LimitingFactor records which external constraint determined the final
// system size below the physically ideal size.
type LimitingFactor string

const (
	LimitNone   LimitingFactor = "none"
	LimitRoof   LimitingFactor = "roof"
	LimitBudget LimitingFactor = "budget"
	LimitBoth   LimitingFactor = "both"
)

// SizingResult is the outcome of constraint reconciliation. FinalKW is
// min(IdealKW, RoofLimitedKW, BudgetLimitedKW) over the bounds present,
// capped at the configured maximum.
type SizingResult struct {
	IdealKW         float64        `json:"ideal_kw"`
	RoofLimitedKW   *float64       `json:"roof_limited_kw,omitempty"`
	BudgetLimitedKW *float64       `json:"budget_limited_kw,omitempty"`
	FinalKW         float64        `json:"final_kw"`
	LimitingFactor  LimitingFactor `json:"limiting_factor"`
	NumPanels       int            `json:"num_panels"`
	RequiredSqft    float64        `json:"required_sqft"`
}

// CostBreakdown is the installed cost derived from the final size and roof
// type: FinalKW x PerKWCost x RoofMultiplier + FixedCost.
type CostBreakdown struct {
	InstalledCostLKR float64 `json:"installed_cost_lkr"`
	PerKWCost        float64 `json:"per_kw_cost"`
	FixedCost        float64 `json:"fixed_cost"`
	RoofMultiplier   float64 `json:"roof_multiplier"`
}

// EnergyResult holds annual generation, savings, and payback. PaybackYears
// is 0 and Feasible false when savings do not cover maintenance.
type EnergyResult struct {
	AnnualGenerationKWh  float64 `json:"annual_generation_kwh"`
	AnnualSavingsLKR     float64 `json:"annual_savings_lkr"`
	AnnualMaintenanceLKR float64 `json:"annual_maintenance_lkr"`
	CoverageFraction     float64 `json:"coverage_fraction"`
	PaybackYears         float64 `json:"payback_years"`
	Feasible             bool    `json:"feasible"`
}

// ConfidenceLevel is the discrete confidence classification.
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

// ConfidenceResult combines the independent uncertainty sources into a
// payback confidence band.
type ConfidenceResult struct {
	CombinedUncertainty     float64         `json:"combined_uncertainty_fraction"`
	PaybackUncertaintyYears float64         `json:"payback_uncertainty_years"`
	Level                   ConfidenceLevel `json:"level"`
}

// Category is the final recommendation classification.
type Category string

const (
	CategoryExcellent  Category = "excellent"
	CategoryGood       Category = "good"
	CategoryFair       Category = "fair"
	CategoryMarginal   Category = "marginal"
	CategoryInfeasible Category = "infeasible"
)

// Alternative proposes a different system when a constraint bound the
// recommended one. ProjectedPaybackYears is 0 when not computable.
type Alternative struct {
	Description           string  `json:"description"`
	ProjectedKW           float64 `json:"projected_kw"`
	ProjectedPaybackYears float64 `json:"projected_payback_years,omitempty"`
}

// Recommendation is the full evaluation output. For an infeasible outcome
// Sizing, Cost, Energy, and Confidence stay nil: not computed is distinct
// from zero. The reasoning trace is always populated and mirrors the
// derivation order exactly.
type Recommendation struct {
	Category     Category          `json:"category"`
	Profile      SiteProfile       `json:"profile"`
	Irradiance   *SiteIrradiance   `json:"irradiance,omitempty"`
	Sizing       *SizingResult     `json:"sizing,omitempty"`
	Cost         *CostBreakdown    `json:"cost,omitempty"`
	Energy       *EnergyResult     `json:"energy,omitempty"`
	Confidence   *ConfidenceResult `json:"confidence,omitempty"`
	Warnings     []string          `json:"warnings,omitempty"`
	Alternatives []Alternative     `json:"alternatives,omitempty"`
	Trace        []string          `json:"reasoning_trace"`
}

// Feasible reports whether the evaluation produced a buildable system.
func (r *Recommendation) Feasible() bool {
	return r.Category != CategoryInfeasible
}
