// Package model defines the entities flowing through an evaluation: the
// submitted site profile and the derived results. Every entity is built
// once and never mutated afterwards.
package model

import "strings"

// RoofType is the roof material, which scales installation cost.
type RoofType string

const (
	RoofTile     RoofType = "tile"
	RoofAsbestos RoofType = "asbestos"
	RoofConcrete RoofType = "concrete"
	RoofOther    RoofType = "other"
)

// ParseRoofType normalizes a roof type string. The second return reports
// whether the value is one of the recognized materials.
func ParseRoofType(s string) (RoofType, bool) {
	switch RoofType(strings.ToLower(strings.TrimSpace(s))) {
	case RoofTile:
		return RoofTile, true
	case RoofAsbestos:
		return RoofAsbestos, true
	case RoofConcrete:
		return RoofConcrete, true
	case RoofOther:
		return RoofOther, true
	}
	return "", false
}

// SiteProfile is the caller-supplied input for one evaluation. Immutable
// once submitted.
type SiteProfile struct {
	MonthlyConsumptionKWh float64  `json:"monthly_consumption_kwh"`
	Location              string   `json:"location"`
	RoofType              RoofType `json:"roof_type"`
	BudgetLKR             float64  `json:"budget_lkr"`
	// RoofAreaSqft is optional; nil means the roof constraint is not checked.
	RoofAreaSqft *float64 `json:"roof_area_sqft,omitempty"`
}

// SiteIrradiance is the resolved irradiance data for the profile's location.
type SiteIrradiance struct {
	SunHoursPerDay   float64 `json:"sun_hours_per_day"`
	UncertaintyHours float64 `json:"uncertainty_hours"`
}
