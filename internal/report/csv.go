package report

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"math"
	"strings"

	"taxcalc/internal/core"
)

// CSVHeader is the first row of every CSV export.
var CSVHeader = []string{"FINANCIAL REPORT", "Yearly", "Monthly", "Weekly", "Pctge"}

// CSV renders the view as a header row plus one row per line:
// name, yearly, monthly, weekly, fraction. Numbers use their shortest exact
// form so ParseCSV restores them bit for bit.
func CSV(v View) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(CSVHeader); err != nil {
		return "", fmt.Errorf("write csv header: %w", err)
	}
	for _, l := range v.Lines {
		for _, n := range []float64{l.Yearly, l.Monthly, l.Weekly, l.Fraction} {
			if math.IsNaN(n) || math.IsInf(n, 0) {
				return "", fmt.Errorf("%w: line %q holds a non-finite amount", core.ErrInvalidArgument, l.Name)
			}
		}
		row := []string{
			l.Name,
			core.FormatAmount(l.Yearly),
			core.FormatAmount(l.Monthly),
			core.FormatAmount(l.Weekly),
			core.FormatAmount(l.Fraction),
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("write csv row %q: %w", l.Name, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("flush csv: %w", err)
	}
	return buf.String(), nil
}

// ParseCSV reads a CSV export back into lines. Kinds are restored from line
// positions and BiWeekly is rederived from Yearly.
func ParseCSV(text string) ([]Line, error) {
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = len(CSVHeader)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: read csv: %v", core.ErrConfigParse, err)
	}
	if len(records) == 0 || strings.Join(records[0], ",") != strings.Join(CSVHeader, ",") {
		return nil, fmt.Errorf("%w: missing csv header", core.ErrConfigParse)
	}

	rows := records[1:]
	lines := make([]Line, 0, len(rows))
	for i, rec := range rows {
		var nums [4]float64
		for j := range nums {
			v, err := core.ParseNumber(rec[j+1])
			if err != nil {
				return nil, fmt.Errorf("%w: row %d column %d: %v", core.ErrConfigParse, i+2, j+2, err)
			}
			nums[j] = v
		}
		lines = append(lines, Line{
			Name:     rec[0],
			Kind:     kindAt(i, len(rows)),
			Yearly:   nums[0],
			Monthly:  nums[1],
			BiWeekly: nums[0] / 26,
			Weekly:   nums[2],
			Fraction: nums[3],
		})
	}
	return lines, nil
}

