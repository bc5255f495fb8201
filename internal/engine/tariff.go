package engine

import "github.com/SandaruRF/rooftop-solar-roi-advisor-expert-system/internal/kb"

// ComputeTariff walks the ordered progressive bracket table and returns the
// total monthly bill and the blended per-kWh rate for the given consumption.
// Only the kWh within each tier's range are billed at that tier's rate; the
// fixed monthly charge is added once. At zero consumption the blended rate
// is defined as the fixed charge alone, so callers never divide by zero.
//
// No intermediate rounding: the savings model evaluates this at both the
// original and the netted consumption and needs the exact differential.
func ComputeTariff(monthlyKWh float64, t kb.TariffTable) (totalLKR, blendedRate float64) {
	remaining := monthlyKWh
	prevBound := 0.0
	total := 0.0

	for _, b := range t.Brackets {
		if b.MaxUnits == nil {
			total += remaining * b.Rate
			break
		}
		width := *b.MaxUnits - prevBound
		units := min(remaining, width)
		total += units * b.Rate
		remaining -= units
		prevBound = *b.MaxUnits
		if remaining <= 0 {
			break
		}
	}

	total += t.FixedCharge

	if monthlyKWh <= 0 {
		return total, t.FixedCharge
	}
	return total, total / monthlyKWh
}
