// Package statefile encodes a full calculator state as the line-positional
// config file:
//
//	1  TaxCalc Config @ <saved at>
//	2  salary,incomeTax,USC,PRSI,totalTax,netSalary
//	3  married,hasChild,partnerIncome
//	4  USC thresholds (4 values)
//	5  USC rates (5 values)
//	6  selfEmployed,age,medicalCard
//	7  expense labels (16 values)
//	8  expense values (16 values)
//
// Decode is all or nothing: any malformed or missing field fails the whole
// file with core.ErrConfigParse.
package statefile

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"taxcalc/internal/core"
	"taxcalc/internal/ledger"
	"taxcalc/internal/tax"
)

const (
	lineCount   = 8
	titlePrefix = "TaxCalc Config @ "
)

// Snapshot is everything the config file holds.
type Snapshot struct {
	Profile tax.Profile
	Result  tax.Result
	Slots   [ledger.Capacity]ledger.Record
	SavedAt time.Time
}

// Empty reports whether there is nothing worth saving: no salary and no
// expenses.
func (s Snapshot) Empty() bool {
	if s.Profile.GrossYearlySalary > 0 {
		return false
	}
	for _, r := range s.Slots {
		if !r.IsBlank() {
			return false
		}
	}
	return true
}

// Encode renders s. Labels may not contain commas or line breaks since the
// format has no quoting. Anything Decode would reject is refused here, so a
// written file always loads back.
func Encode(s Snapshot) (string, error) {
	labels := make([]string, 0, ledger.Capacity)
	values := make([]string, 0, ledger.Capacity)
	for i, r := range s.Slots {
		if strings.ContainsAny(r.Label, ",\r\n") {
			return "", fmt.Errorf("%w: label of slot %d contains a comma or line break", core.ErrInvalidArgument, i+1)
		}
		if err := core.ValidateAmount(fmt.Sprintf("value of slot %d", i+1), r.YearlyValue); err != nil {
			return "", err
		}
		labels = append(labels, r.Label)
		values = append(values, core.FormatAmount(r.YearlyValue))
	}
	if err := s.Profile.Validate(); err != nil {
		return "", err
	}

	res := s.Result
	// A state that was never computed still gets a loadable rate table.
	if res.USC == (tax.USCConfig{}) {
		res.USC = tax.DefaultUSC()
	}
	if err := res.USC.Validate(); err != nil {
		return "", err
	}
	for _, v := range []float64{res.IncomeTax, res.UniversalSocialCharge, res.SocialInsurance, res.TotalTax, res.NetSalary} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return "", fmt.Errorf("%w: tax result holds a non-finite amount", core.ErrInvalidArgument)
		}
	}
	lines := []string{
		titlePrefix + s.SavedAt.Format(time.RFC3339),
		joinAmounts(s.Profile.GrossYearlySalary, res.IncomeTax, res.UniversalSocialCharge,
			res.SocialInsurance, res.TotalTax, res.NetSalary),
		strings.Join([]string{
			formatBool(s.Profile.IsMarried),
			formatBool(s.Profile.HasChild),
			core.FormatAmount(s.Profile.PartnerYearlyIncome),
		}, ","),
		joinAmounts(res.USC.Thresholds[:]...),
		joinAmounts(res.USC.Rates[:]...),
		strings.Join([]string{
			formatBool(s.Profile.IsSelfEmployed),
			strconv.Itoa(s.Profile.Age),
			formatBool(s.Profile.HasMedicalCard),
		}, ","),
		strings.Join(labels, ","),
		strings.Join(values, ","),
	}
	return strings.Join(lines, "\n") + "\n", nil
}

// Decode parses text produced by Encode. The saved-at line is a comment; an
// unreadable timestamp leaves SavedAt zero.
func Decode(text string) (Snapshot, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	if len(lines) < lineCount {
		return Snapshot{}, parseErr(len(lines)+1, "missing line (want %d lines, got %d)", lineCount, len(lines))
	}
	if len(lines) > lineCount {
		return Snapshot{}, parseErr(lineCount+1, "unexpected line (want %d lines, got %d)", lineCount, len(lines))
	}

	var s Snapshot
	if stamp, ok := strings.CutPrefix(lines[0], titlePrefix); ok {
		if t, err := time.Parse(time.RFC3339, strings.TrimSpace(stamp)); err == nil {
			s.SavedAt = t
		}
	}

	amounts, err := parseFloats(lines[1], 6)
	if err != nil {
		return Snapshot{}, parseErr(2, "%v", err)
	}
	s.Profile.GrossYearlySalary = amounts[0]
	s.Result = tax.Result{
		GrossYearlySalary:     amounts[0],
		IncomeTax:             amounts[1],
		UniversalSocialCharge: amounts[2],
		SocialInsurance:       amounts[3],
		TotalTax:              amounts[4],
		NetSalary:             amounts[5],
	}

	fields, err := splitN(lines[2], 3)
	if err != nil {
		return Snapshot{}, parseErr(3, "%v", err)
	}
	if s.Profile.IsMarried, err = parseBool(fields[0]); err != nil {
		return Snapshot{}, parseErr(3, "married: %v", err)
	}
	if s.Profile.HasChild, err = parseBool(fields[1]); err != nil {
		return Snapshot{}, parseErr(3, "has child: %v", err)
	}
	if s.Profile.PartnerYearlyIncome, err = core.ParseNumber(fields[2]); err != nil {
		return Snapshot{}, parseErr(3, "partner income: %v", err)
	}

	thresholds, err := parseFloats(lines[3], 4)
	if err != nil {
		return Snapshot{}, parseErr(4, "%v", err)
	}
	rates, err := parseFloats(lines[4], 5)
	if err != nil {
		return Snapshot{}, parseErr(5, "%v", err)
	}
	copy(s.Result.USC.Thresholds[:], thresholds)
	copy(s.Result.USC.Rates[:], rates)
	if err := s.Result.USC.Validate(); err != nil {
		return Snapshot{}, parseErr(4, "%v", err)
	}

	if fields, err = splitN(lines[5], 3); err != nil {
		return Snapshot{}, parseErr(6, "%v", err)
	}
	if s.Profile.IsSelfEmployed, err = parseBool(fields[0]); err != nil {
		return Snapshot{}, parseErr(6, "self employed: %v", err)
	}
	if s.Profile.Age, err = strconv.Atoi(strings.TrimSpace(fields[1])); err != nil {
		return Snapshot{}, parseErr(6, "age: %v", err)
	}
	if s.Profile.HasMedicalCard, err = parseBool(fields[2]); err != nil {
		return Snapshot{}, parseErr(6, "medical card: %v", err)
	}
	if err := s.Profile.Validate(); err != nil {
		return Snapshot{}, parseErr(6, "%v", err)
	}

	labels, err := splitN(lines[6], ledger.Capacity)
	if err != nil {
		return Snapshot{}, parseErr(7, "%v", err)
	}
	values, err := splitN(lines[7], ledger.Capacity)
	if err != nil {
		return Snapshot{}, parseErr(8, "%v", err)
	}
	for i := range s.Slots {
		v, err := core.ParseAmount(values[i])
		if err != nil {
			return Snapshot{}, parseErr(8, "slot %d: %v", i+1, err)
		}
		s.Slots[i] = ledger.Record{Label: labels[i], YearlyValue: v}
	}

	s.Result.BandThreshold = tax.BandThreshold(s.Profile)
	s.Result.PRSIRate = core.SafeDiv(s.Result.SocialInsurance, s.Result.GrossYearlySalary)
	return s, nil
}

func parseErr(line int, format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", core.ErrConfigParse, line, fmt.Sprintf(format, args...))
}

func splitN(line string, n int) ([]string, error) {
	fields := strings.Split(line, ",")
	if len(fields) != n {
		return nil, fmt.Errorf("want %d fields, got %d", n, len(fields))
	}
	return fields, nil
}

func parseFloats(line string, n int) ([]float64, error) {
	fields, err := splitN(line, n)
	if err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for i, f := range fields {
		if out[i], err = core.ParseNumber(f); err != nil {
			return nil, fmt.Errorf("field %d: %w", i+1, err)
		}
	}
	return out, nil
}


func formatBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

func parseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}
	return false, fmt.Errorf("%q is not True or False", s)
}

func joinAmounts(vs ...float64) string {
	parts := make([]string, len(vs))
	for i, v := range vs {
		parts[i] = core.FormatAmount(v)
	}
	return strings.Join(parts, ",")
}
