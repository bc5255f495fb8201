package profileio

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/SandaruRF/rooftop-solar-roi-advisor-expert-system/internal/model"
)

const sampleCSV = `monthly_kwh,location,roof_type,budget_lkr,roof_area_sqft
550,colombo,tile,500000,
300,Kandy,concrete,350000,200
120,galle,asbestos,250000,
`

func TestReadCSV(t *testing.T) {
	t.Parallel()
	profiles, err := ReadCSV(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, profiles, 3)

	assert.Equal(t, 550.0, profiles[0].MonthlyConsumptionKWh)
	assert.Equal(t, "colombo", profiles[0].Location)
	assert.Equal(t, model.RoofTile, profiles[0].RoofType)
	assert.Equal(t, 500000.0, profiles[0].BudgetLKR)
	assert.Nil(t, profiles[0].RoofAreaSqft)

	assert.Equal(t, "Kandy", profiles[1].Location)
	assert.Equal(t, model.RoofConcrete, profiles[1].RoofType)
	require.NotNil(t, profiles[1].RoofAreaSqft)
	assert.Equal(t, 200.0, *profiles[1].RoofAreaSqft)
}

func TestReadCSVColumnOrderIndependent(t *testing.T) {
	t.Parallel()
	in := "budget_lkr,roof_type,location,monthly_kwh\n400000,tile,colombo,250\n"
	profiles, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	assert.Equal(t, 250.0, profiles[0].MonthlyConsumptionKWh)
	assert.Equal(t, 400000.0, profiles[0].BudgetLKR)
}

func TestReadCSVMissingColumns(t *testing.T) {
	t.Parallel()
	in := "monthly_kwh,location\n550,colombo\n"
	_, err := ReadCSV(strings.NewReader(in))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "roof_type")
	assert.Contains(t, err.Error(), "budget_lkr")
}

func TestReadCSVRowErrorsNameTheRow(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			"bad number",
			"monthly_kwh,location,roof_type,budget_lkr\nabc,colombo,tile,500000\n",
			"row 2",
		},
		{
			"bad roof type",
			"monthly_kwh,location,roof_type,budget_lkr\n550,colombo,thatch,500000\n",
			`unknown roof_type "thatch"`,
		},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := ReadCSV(strings.NewReader(tc.in))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestReadCSVSkipsBlankRows(t *testing.T) {
	t.Parallel()
	in := "monthly_kwh,location,roof_type,budget_lkr\n550,colombo,tile,500000\n,,,\n"
	profiles, err := ReadCSV(strings.NewReader(in))
	require.NoError(t, err)
	assert.Len(t, profiles, 1)
}

func TestReadCSVEmptyInput(t *testing.T) {
	t.Parallel()
	_, err := ReadCSV(strings.NewReader(""))
	require.Error(t, err)

	_, err = ReadCSV(strings.NewReader("monthly_kwh,location,roof_type,budget_lkr\n"))
	require.Error(t, err)
}

func createTestXLSX(t *testing.T, rows [][]string) string {
	t.Helper()
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("profiles")
	require.NoError(t, err)
	for _, rowData := range rows {
		row := sheet.AddRow()
		for _, cellData := range rowData {
			row.AddCell().SetString(cellData)
		}
	}
	path := filepath.Join(t.TempDir(), "profiles.xlsx")
	require.NoError(t, f.Save(path))
	return path
}

func TestReadXLSX(t *testing.T) {
	t.Parallel()
	path := createTestXLSX(t, [][]string{
		{"monthly_kwh", "location", "roof_type", "budget_lkr", "roof_area_sqft"},
		{"550", "colombo", "tile", "500000"},
		{"300", "kandy", "other", "350000", "180"},
	})

	profiles, err := ReadXLSX(path)
	require.NoError(t, err)
	require.Len(t, profiles, 2)
	assert.Equal(t, model.RoofOther, profiles[1].RoofType)
	require.NotNil(t, profiles[1].RoofAreaSqft)
	assert.Equal(t, 180.0, *profiles[1].RoofAreaSqft)
	// Trailing empty cells dropped by the sheet are tolerated.
	assert.Nil(t, profiles[0].RoofAreaSqft)
}

func TestReadFileDispatch(t *testing.T) {
	t.Parallel()
	_, err := ReadFile("profiles.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
}

func TestWriteSummaryCSV(t *testing.T) {
	t.Parallel()
	budgetKW := 2.5
	recs := []*model.Recommendation{
		{
			Category: model.CategoryExcellent,
			Profile: model.SiteProfile{
				MonthlyConsumptionKWh: 550,
				Location:              "colombo",
				RoofType:              model.RoofTile,
				BudgetLKR:             500000,
			},
			Sizing:     &model.SizingResult{FinalKW: 2.5, BudgetLimitedKW: &budgetKW, NumPanels: 6},
			Cost:       &model.CostBreakdown{InstalledCostLKR: 500000},
			Energy:     &model.EnergyResult{AnnualSavingsLKR: 117047.38, PaybackYears: 4.3, Feasible: true},
			Confidence: &model.ConfidenceResult{Level: model.ConfidenceHigh},
		},
		{
			Category: model.CategoryInfeasible,
			Profile: model.SiteProfile{
				MonthlyConsumptionKWh: 200,
				Location:              "galle",
				RoofType:              model.RoofTile,
				BudgetLKR:             100000,
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteSummaryCSV(&buf, recs))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "payback_years")
	assert.Contains(t, lines[1], "colombo,550,tile,500000,excellent,2.5,6,500000,117047.38,4.3,high")
	assert.Contains(t, lines[2], "galle,200,tile,100000,infeasible,,,,,,")
}
