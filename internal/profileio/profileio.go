// Package profileio reads site profiles from CSV and XLSX files for batch
// evaluation, and writes result summaries back out as CSV.
package profileio

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/SandaruRF/rooftop-solar-roi-advisor-expert-system/internal/model"
)

// Column names recognized in the input header, case-insensitive.
// roof_area_sqft is optional; the rest are required.
const (
	colMonthlyKWh = "monthly_kwh"
	colLocation   = "location"
	colRoofType   = "roof_type"
	colBudget     = "budget_lkr"
	colRoofArea   = "roof_area_sqft"
)

// ReadFile reads profiles from path, dispatching on the file extension.
func ReadFile(path string) ([]model.SiteProfile, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrapf(err, "profileio: open %s", path)
		}
		defer f.Close()
		return ReadCSV(f)
	case ".xlsx":
		return ReadXLSX(path)
	default:
		return nil, eris.Errorf("profileio: unsupported file type %q (want .csv or .xlsx)", filepath.Ext(path))
	}
}

// ReadCSV reads profiles from CSV data with a header row.
func ReadCSV(r io.Reader) ([]model.SiteProfile, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1 // short rows are handled per-cell
	records, err := cr.ReadAll()
	if err != nil {
		return nil, eris.Wrap(err, "profileio: read csv")
	}
	return parseRows(records)
}

// ReadXLSX reads profiles from the first sheet of an XLSX file with a
// header row.
func ReadXLSX(path string) ([]model.SiteProfile, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "profileio: open %s", path)
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("profileio: %s has no sheets", path)
	}

	var records [][]string
	for _, row := range f.Sheets[0].Rows {
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		records = append(records, cells)
	}
	return parseRows(records)
}

func parseRows(records [][]string) ([]model.SiteProfile, error) {
	if len(records) == 0 {
		return nil, eris.New("profileio: input is empty")
	}

	cols, err := parseHeader(records[0])
	if err != nil {
		return nil, err
	}

	profiles := make([]model.SiteProfile, 0, len(records)-1)
	for i, rec := range records[1:] {
		rowNum := i + 2 // 1-based, counting the header
		if isBlankRow(rec) {
			continue
		}

		p, err := parseRow(rec, cols, rowNum)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	if len(profiles) == 0 {
		return nil, eris.New("profileio: no profile rows after the header")
	}
	return profiles, nil
}

// columnIndex maps recognized columns to their position; -1 means absent.
type columnIndex struct {
	monthlyKWh int
	location   int
	roofType   int
	budget     int
	roofArea   int
}

func parseHeader(header []string) (columnIndex, error) {
	cols := columnIndex{monthlyKWh: -1, location: -1, roofType: -1, budget: -1, roofArea: -1}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case colMonthlyKWh:
			cols.monthlyKWh = i
		case colLocation:
			cols.location = i
		case colRoofType:
			cols.roofType = i
		case colBudget:
			cols.budget = i
		case colRoofArea:
			cols.roofArea = i
		}
	}

	var missing []string
	for _, c := range []struct {
		name string
		idx  int
	}{
		{colMonthlyKWh, cols.monthlyKWh},
		{colLocation, cols.location},
		{colRoofType, cols.roofType},
		{colBudget, cols.budget},
	} {
		if c.idx < 0 {
			missing = append(missing, c.name)
		}
	}
	if len(missing) > 0 {
		return cols, eris.Errorf("profileio: header missing required columns: %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

func parseRow(rec []string, cols columnIndex, rowNum int) (model.SiteProfile, error) {
	var p model.SiteProfile

	monthly, err := parseFloat(rec, cols.monthlyKWh, colMonthlyKWh, rowNum)
	if err != nil {
		return p, err
	}
	budget, err := parseFloat(rec, cols.budget, colBudget, rowNum)
	if err != nil {
		return p, err
	}

	roofRaw := cell(rec, cols.roofType)
	roof, ok := model.ParseRoofType(roofRaw)
	if !ok {
		return p, eris.Errorf("profileio: row %d: unknown roof_type %q", rowNum, roofRaw)
	}

	p = model.SiteProfile{
		MonthlyConsumptionKWh: monthly,
		Location:              strings.TrimSpace(cell(rec, cols.location)),
		RoofType:              roof,
		BudgetLKR:             budget,
	}

	if cols.roofArea >= 0 && strings.TrimSpace(cell(rec, cols.roofArea)) != "" {
		area, err := parseFloat(rec, cols.roofArea, colRoofArea, rowNum)
		if err != nil {
			return p, err
		}
		p.RoofAreaSqft = &area
	}
	return p, nil
}

func parseFloat(rec []string, idx int, col string, rowNum int) (float64, error) {
	raw := strings.TrimSpace(cell(rec, idx))
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, eris.Errorf("profileio: row %d: %s: invalid number %q", rowNum, col, raw)
	}
	return v, nil
}

// cell tolerates short rows; XLSX rows drop trailing empty cells.
func cell(rec []string, idx int) string {
	if idx < 0 || idx >= len(rec) {
		return ""
	}
	return rec[idx]
}

func isBlankRow(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// WriteSummaryCSV writes one line per recommendation with the headline
// figures. Infeasible rows leave the numeric columns empty.
func WriteSummaryCSV(w io.Writer, recs []*model.Recommendation) error {
	cw := csv.NewWriter(w)
	header := []string{
		"location", "monthly_kwh", "roof_type", "budget_lkr",
		"category", "final_kw", "num_panels", "installed_cost_lkr",
		"annual_savings_lkr", "payback_years", "confidence",
	}
	if err := cw.Write(header); err != nil {
		return eris.Wrap(err, "profileio: write csv header")
	}

	for _, rec := range recs {
		row := []string{
			rec.Profile.Location,
			formatFloat(rec.Profile.MonthlyConsumptionKWh),
			string(rec.Profile.RoofType),
			formatFloat(rec.Profile.BudgetLKR),
			string(rec.Category),
			"", "", "", "", "", "",
		}
		if rec.Sizing != nil {
			row[5] = formatFloat(rec.Sizing.FinalKW)
			row[6] = strconv.Itoa(rec.Sizing.NumPanels)
		}
		if rec.Cost != nil {
			row[7] = formatFloat(rec.Cost.InstalledCostLKR)
		}
		if rec.Energy != nil {
			row[8] = formatFloat(rec.Energy.AnnualSavingsLKR)
			if rec.Energy.Feasible {
				row[9] = formatFloat(rec.Energy.PaybackYears)
			}
		}
		if rec.Confidence != nil {
			row[10] = string(rec.Confidence.Level)
		}
		if err := cw.Write(row); err != nil {
			return eris.Wrap(err, "profileio: write csv row")
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "profileio: flush csv")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
