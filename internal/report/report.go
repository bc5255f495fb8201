// Package report renders a recommendation as a plain-text summary for
// terminal output.
package report

import (
	"fmt"
	"strings"

	"github.com/SandaruRF/rooftop-solar-roi-advisor-expert-system/internal/model"
)

// categoryHeadline maps each category to its one-line verdict.
var categoryHeadline = map[model.Category]string{
	model.CategoryExcellent:  "Excellent investment. Strong returns expected.",
	model.CategoryGood:       "Good investment. Solid long-term savings.",
	model.CategoryFair:       "Fair investment. Worthwhile but slower returns.",
	model.CategoryMarginal:   "Marginal investment. Consider waiting for better conditions.",
	model.CategoryInfeasible: "Not feasible under the given constraints.",
}

// Render formats a recommendation as a multi-line text report. Pass verbose
// to append the full reasoning trace.
func Render(rec *model.Recommendation, verbose bool) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Solar ROI Recommendation: %s\n", strings.ToUpper(string(rec.Category)))
	fmt.Fprintf(&b, "%s\n", categoryHeadline[rec.Category])
	b.WriteString(divider)

	fmt.Fprintf(&b, "Site: %s, %s roof, %s/month, budget %s\n",
		rec.Profile.Location,
		rec.Profile.RoofType,
		model.FormatKWh(rec.Profile.MonthlyConsumptionKWh),
		model.FormatLKR(rec.Profile.BudgetLKR))

	// A payback that is never reached still carries computed sizing and
	// energy figures; render every section the engine populated.
	if rec.Sizing != nil && rec.Cost != nil {
		b.WriteString(divider)
		fmt.Fprintf(&b, "Recommended system:  %.2f kW (%d panels)\n",
			rec.Sizing.FinalKW, rec.Sizing.NumPanels)
		fmt.Fprintf(&b, "Roof space needed:   %.1f sqft\n", rec.Sizing.RequiredSqft)
		fmt.Fprintf(&b, "Installed cost:      %s\n", model.FormatLKR(rec.Cost.InstalledCostLKR))
		if rec.Sizing.LimitingFactor != model.LimitNone {
			fmt.Fprintf(&b, "Limiting factor:     %s (ideal size %.2f kW)\n",
				rec.Sizing.LimitingFactor, rec.Sizing.IdealKW)
		}
	}

	if rec.Energy != nil {
		b.WriteString(divider)
		fmt.Fprintf(&b, "Annual generation:   %s\n", model.FormatKWh(rec.Energy.AnnualGenerationKWh))
		fmt.Fprintf(&b, "Consumption covered: %s\n", model.FormatPercent(rec.Energy.CoverageFraction))
		fmt.Fprintf(&b, "Annual savings:      %s\n", model.FormatLKR(rec.Energy.AnnualSavingsLKR))
		if rec.Energy.Feasible {
			payback := fmt.Sprintf("%.1f years", rec.Energy.PaybackYears)
			if rec.Confidence != nil && rec.Confidence.PaybackUncertaintyYears > 0 {
				payback += fmt.Sprintf(" (±%.1f)", rec.Confidence.PaybackUncertaintyYears)
			}
			fmt.Fprintf(&b, "Payback period:      %s\n", payback)
		} else {
			b.WriteString("Payback period:      not reached (savings below maintenance)\n")
		}
		if rec.Confidence != nil {
			fmt.Fprintf(&b, "Confidence:          %s\n", strings.ToUpper(string(rec.Confidence.Level)))
		}
	}

	renderWarnings(&b, rec.Warnings)
	renderAlternatives(&b, rec.Alternatives)
	if verbose || rec.Energy == nil {
		renderTrace(&b, rec.Trace)
	}
	return b.String()
}

const divider = "----------------------------------------\n"

func renderWarnings(b *strings.Builder, warnings []string) {
	if len(warnings) == 0 {
		return
	}
	b.WriteString(divider)
	b.WriteString("Warnings:\n")
	for _, w := range warnings {
		fmt.Fprintf(b, "  - %s\n", w)
	}
}

func renderAlternatives(b *strings.Builder, alts []model.Alternative) {
	if len(alts) == 0 {
		return
	}
	b.WriteString(divider)
	b.WriteString("Alternatives:\n")
	for _, a := range alts {
		fmt.Fprintf(b, "  - %s\n", a.Description)
	}
}

func renderTrace(b *strings.Builder, trace []string) {
	if len(trace) == 0 {
		return
	}
	b.WriteString(divider)
	b.WriteString("Reasoning:\n")
	for i, step := range trace {
		fmt.Fprintf(b, "  %2d. %s\n", i+1, step)
	}
}
