// Package kb loads and validates the knowledge base that drives the
// recommendation engine: regional irradiance, the progressive tariff
// schedule, cost constants, panel specs, and decision thresholds.
package kb

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Region holds irradiance data for one location.
type Region struct {
	SunHours    float64 `yaml:"sun_hours" mapstructure:"sun_hours"`
	Uncertainty float64 `yaml:"uncertainty" mapstructure:"uncertainty"`
}

// Bracket is one tier of the progressive tariff. MaxUnits is the upper
// bound on cumulative monthly kWh; nil marks the final unbounded tier.
type Bracket struct {
	MaxUnits *float64 `yaml:"max_units" mapstructure:"max_units"`
	Rate     float64  `yaml:"rate" mapstructure:"rate"`
}

// TariffTable is the ordered bracket schedule plus the fixed monthly charge.
type TariffTable struct {
	Brackets          []Bracket `yaml:"brackets" mapstructure:"brackets"`
	FixedCharge       float64   `yaml:"fixed_charge" mapstructure:"fixed_charge"`
	TariffUncertainty float64   `yaml:"tariff_uncertainty" mapstructure:"tariff_uncertainty"`
}

// CostTable holds installation cost constants.
type CostTable struct {
	CostPerKW       float64            `yaml:"cost_per_kw" mapstructure:"cost_per_kw"`
	FixedCost       float64            `yaml:"fixed_cost" mapstructure:"fixed_cost"`
	CostUncertainty float64            `yaml:"cost_uncertainty" mapstructure:"cost_uncertainty"`
	RoofMultipliers map[string]float64 `yaml:"roof_multipliers" mapstructure:"roof_multipliers"`
}

// PanelSpec describes the standard panel used for sizing.
type PanelSpec struct {
	Wattage  float64 `yaml:"wattage" mapstructure:"wattage"`
	AreaSqft float64 `yaml:"area_sqft" mapstructure:"area_sqft"`
}

// PanelCatalog holds the available panel specs.
type PanelCatalog struct {
	Standard PanelSpec `yaml:"standard" mapstructure:"standard"`
}

// SizingRules holds the sizing constants and bounds.
type SizingRules struct {
	SystemEfficiency float64 `yaml:"system_efficiency" mapstructure:"system_efficiency"`
	MinSystemKW      float64 `yaml:"min_system_kw" mapstructure:"min_system_kw"`
	MaxSystemKW      float64 `yaml:"max_system_kw" mapstructure:"max_system_kw"`
	OversizingFactor float64 `yaml:"oversizing_factor" mapstructure:"oversizing_factor"`
	SpaceBuffer      float64 `yaml:"space_buffer" mapstructure:"space_buffer"`
	BudgetStepKW     float64 `yaml:"budget_step_kw" mapstructure:"budget_step_kw"`
}

// SavingsRules holds the savings model constants.
type SavingsRules struct {
	SelfConsumptionRate   float64 `yaml:"self_consumption_rate" mapstructure:"self_consumption_rate"`
	AnnualMaintenanceRate float64 `yaml:"annual_maintenance_rate" mapstructure:"annual_maintenance_rate"`
}

// PaybackThresholds classifies payback periods into recommendation
// categories. Ordered: Excellent < Good < MaxAcceptable.
type PaybackThresholds struct {
	ExcellentPayback     float64 `yaml:"excellent_payback" mapstructure:"excellent_payback"`
	GoodPayback          float64 `yaml:"good_payback" mapstructure:"good_payback"`
	MaxAcceptablePayback float64 `yaml:"max_acceptable_payback" mapstructure:"max_acceptable_payback"`
	MinBudgetLKR         float64 `yaml:"min_budget_lkr" mapstructure:"min_budget_lkr"`
}

// ConfidenceBands maps combined fractional uncertainty to a discrete level.
type ConfidenceBands struct {
	HighBelow   float64 `yaml:"high_below" mapstructure:"high_below"`
	MediumBelow float64 `yaml:"medium_below" mapstructure:"medium_below"`
}

// KnowledgeBase is the full lookup table consumed by the engine. It is
// loaded once and treated as immutable for its whole lifetime; hot reload
// goes through Handle, never through field mutation.
type KnowledgeBase struct {
	Regions    map[string]Region `yaml:"regions" mapstructure:"regions"`
	Tariffs    TariffTable       `yaml:"tariffs" mapstructure:"tariffs"`
	Costs      CostTable         `yaml:"costs" mapstructure:"costs"`
	Panels     PanelCatalog      `yaml:"panels" mapstructure:"panels"`
	Sizing     SizingRules       `yaml:"sizing" mapstructure:"sizing"`
	Savings    SavingsRules      `yaml:"savings" mapstructure:"savings"`
	Thresholds PaybackThresholds `yaml:"thresholds" mapstructure:"thresholds"`
	Confidence ConfidenceBands   `yaml:"confidence" mapstructure:"confidence"`
}

// ConfigurationError reports every missing or invalid knowledge-base field
// found during validation. It is fatal to startup: the engine never
// substitutes defaults for missing knowledge.
type ConfigurationError struct {
	Problems []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("knowledge base invalid: %s", strings.Join(e.Problems, "; "))
}

// Load reads and validates a knowledge base from a YAML file.
func Load(path string) (*KnowledgeBase, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "kb: read %s", path)
	}
	return Parse(data)
}

// Parse unmarshals and validates a knowledge base from YAML bytes.
func Parse(data []byte) (*KnowledgeBase, error) {
	var k KnowledgeBase
	if err := yaml.Unmarshal(data, &k); err != nil {
		return nil, eris.Wrap(err, "kb: unmarshal")
	}
	if err := k.Validate(); err != nil {
		return nil, err
	}
	return &k, nil
}

// Validate checks the shape invariants the engine depends on. It collects
// every problem rather than stopping at the first, so an operator can fix
// the file in one pass.
func (k *KnowledgeBase) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if len(k.Regions) == 0 {
		add("regions: table is empty")
	}
	for name, r := range k.Regions {
		if r.SunHours <= 0 {
			add("regions.%s.sun_hours: must be positive, got %g", name, r.SunHours)
		}
		if r.Uncertainty < 0 {
			add("regions.%s.uncertainty: must be non-negative, got %g", name, r.Uncertainty)
		}
	}

	if len(k.Tariffs.Brackets) == 0 {
		add("tariffs.brackets: table is empty")
	} else {
		prev := 0.0
		for i, b := range k.Tariffs.Brackets {
			last := i == len(k.Tariffs.Brackets)-1
			if last {
				if b.MaxUnits != nil {
					add("tariffs.brackets[%d]: final bracket must be unbounded", i)
				}
			} else {
				if b.MaxUnits == nil {
					add("tariffs.brackets[%d]: only the final bracket may be unbounded", i)
				} else if *b.MaxUnits <= prev {
					add("tariffs.brackets[%d].max_units: %g does not exceed previous bound %g", i, *b.MaxUnits, prev)
				} else {
					prev = *b.MaxUnits
				}
			}
			if b.Rate < 0 {
				add("tariffs.brackets[%d].rate: must be non-negative, got %g", i, b.Rate)
			}
		}
	}
	if k.Tariffs.FixedCharge < 0 {
		add("tariffs.fixed_charge: must be non-negative, got %g", k.Tariffs.FixedCharge)
	}
	if k.Tariffs.TariffUncertainty < 0 {
		add("tariffs.tariff_uncertainty: must be non-negative, got %g", k.Tariffs.TariffUncertainty)
	}

	if k.Costs.CostPerKW <= 0 {
		add("costs.cost_per_kw: must be positive, got %g", k.Costs.CostPerKW)
	}
	if k.Costs.FixedCost < 0 {
		add("costs.fixed_cost: must be non-negative, got %g", k.Costs.FixedCost)
	}
	if k.Costs.CostUncertainty < 0 {
		add("costs.cost_uncertainty: must be non-negative, got %g", k.Costs.CostUncertainty)
	}
	if len(k.Costs.RoofMultipliers) == 0 {
		add("costs.roof_multipliers: table is empty")
	}
	for roof, m := range k.Costs.RoofMultipliers {
		if m <= 0 {
			add("costs.roof_multipliers.%s: must be positive, got %g", roof, m)
		}
	}

	if k.Panels.Standard.Wattage <= 0 {
		add("panels.standard.wattage: must be positive, got %g", k.Panels.Standard.Wattage)
	}
	if k.Panels.Standard.AreaSqft <= 0 {
		add("panels.standard.area_sqft: must be positive, got %g", k.Panels.Standard.AreaSqft)
	}

	if k.Sizing.SystemEfficiency <= 0 || k.Sizing.SystemEfficiency > 1 {
		add("sizing.system_efficiency: must be in (0, 1], got %g", k.Sizing.SystemEfficiency)
	}
	if k.Sizing.MinSystemKW <= 0 {
		add("sizing.min_system_kw: must be positive, got %g", k.Sizing.MinSystemKW)
	}
	if k.Sizing.MaxSystemKW <= k.Sizing.MinSystemKW {
		add("sizing.max_system_kw: %g does not exceed min_system_kw %g", k.Sizing.MaxSystemKW, k.Sizing.MinSystemKW)
	}
	if k.Sizing.OversizingFactor < 1 {
		add("sizing.oversizing_factor: must be >= 1, got %g", k.Sizing.OversizingFactor)
	}
	if k.Sizing.SpaceBuffer < 1 {
		add("sizing.space_buffer: must be >= 1, got %g", k.Sizing.SpaceBuffer)
	}
	if k.Sizing.BudgetStepKW <= 0 {
		add("sizing.budget_step_kw: must be positive, got %g", k.Sizing.BudgetStepKW)
	}

	if k.Savings.SelfConsumptionRate <= 0 || k.Savings.SelfConsumptionRate > 1 {
		add("savings.self_consumption_rate: must be in (0, 1], got %g", k.Savings.SelfConsumptionRate)
	}
	if k.Savings.AnnualMaintenanceRate < 0 {
		add("savings.annual_maintenance_rate: must be non-negative, got %g", k.Savings.AnnualMaintenanceRate)
	}

	t := k.Thresholds
	if t.ExcellentPayback <= 0 {
		add("thresholds.excellent_payback: must be positive, got %g", t.ExcellentPayback)
	}
	if t.GoodPayback <= t.ExcellentPayback {
		add("thresholds.good_payback: %g does not exceed excellent_payback %g", t.GoodPayback, t.ExcellentPayback)
	}
	if t.MaxAcceptablePayback <= t.GoodPayback {
		add("thresholds.max_acceptable_payback: %g does not exceed good_payback %g", t.MaxAcceptablePayback, t.GoodPayback)
	}
	if t.MinBudgetLKR < 0 {
		add("thresholds.min_budget_lkr: must be non-negative, got %g", t.MinBudgetLKR)
	}

	if k.Confidence.HighBelow <= 0 {
		add("confidence.high_below: must be positive, got %g", k.Confidence.HighBelow)
	}
	if k.Confidence.MediumBelow <= k.Confidence.HighBelow {
		add("confidence.medium_below: %g does not exceed high_below %g", k.Confidence.MediumBelow, k.Confidence.HighBelow)
	}

	if len(problems) > 0 {
		sort.Strings(problems)
		return &ConfigurationError{Problems: problems}
	}
	return nil
}

// Region looks up irradiance data by location name, case-insensitively.
func (k *KnowledgeBase) Region(location string) (Region, bool) {
	r, ok := k.Regions[strings.ToLower(strings.TrimSpace(location))]
	return r, ok
}

// RoofMultiplier returns the cost multiplier for a roof type. A roof type
// recognized by the caller but missing from the table is a configuration
// error, never a silent default.
func (k *KnowledgeBase) RoofMultiplier(roofType string) (float64, error) {
	m, ok := k.Costs.RoofMultipliers[strings.ToLower(roofType)]
	if !ok {
		return 0, &ConfigurationError{Problems: []string{
			fmt.Sprintf("costs.roof_multipliers.%s: no multiplier configured", strings.ToLower(roofType)),
		}}
	}
	return m, nil
}

// Locations returns the known location names, sorted.
func (k *KnowledgeBase) Locations() []string {
	names := make([]string, 0, len(k.Regions))
	for name := range k.Regions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
