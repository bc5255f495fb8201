package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/SandaruRF/rooftop-solar-roi-advisor-expert-system/internal/kb"
	"github.com/SandaruRF/rooftop-solar-roi-advisor-expert-system/internal/model"
)

func TestEstimateConfidenceQuadrature(t *testing.T) {
	t.Parallel()
	k := testKB()

	irr := model.SiteIrradiance{SunHoursPerDay: 5.2, UncertaintyHours: 0.3}
	res := estimateConfidence(4.3, irr, k, &recorder{})

	// Independent fractional uncertainties combine in quadrature. The
	// independence assumption is a stated simplification of the model.
	sunFrac := 0.3 / 5.2
	want := math.Sqrt(sunFrac*sunFrac + 0.1*0.1 + 0.1*0.1)
	assert.InDelta(t, want, res.CombinedUncertainty, 1e-12)
	assert.Equal(t, model.ConfidenceHigh, res.Level)
	assert.InDelta(t, round1(4.3*want), res.PaybackUncertaintyYears, 1e-12)
}

func TestEstimateConfidenceLevels(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		sunHours    float64
		uncertainty float64
		tariffUnc   float64
		costUnc     float64
		want        model.ConfidenceLevel
	}{
		{"stable conditions", 5.2, 0.3, 0.10, 0.10, model.ConfidenceHigh},
		{"volatile tariffs", 5.2, 0.3, 0.25, 0.15, model.ConfidenceMedium},
		{"everything uncertain", 4.0, 1.2, 0.20, 0.20, model.ConfidenceLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			k := testKB()
			k.Tariffs.TariffUncertainty = tt.tariffUnc
			k.Costs.CostUncertainty = tt.costUnc
			irr := model.SiteIrradiance{SunHoursPerDay: tt.sunHours, UncertaintyHours: tt.uncertainty}
			res := estimateConfidence(6.0, irr, k, &recorder{})
			assert.Equal(t, tt.want, res.Level)
		})
	}
}

func TestConfidenceBandsFromKB(t *testing.T) {
	t.Parallel()

	// Thresholds come from the knowledge base, not constants: tightening
	// the high band demotes the same uncertainty to medium.
	k := testKB()
	k.Confidence = kb.ConfidenceBands{HighBelow: 0.10, MediumBelow: 0.35}
	irr := model.SiteIrradiance{SunHoursPerDay: 5.2, UncertaintyHours: 0.3}
	res := estimateConfidence(4.3, irr, k, &recorder{})
	assert.Equal(t, model.ConfidenceMedium, res.Level)
}
