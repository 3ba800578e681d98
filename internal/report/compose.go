// Package report derives the periodic and percentage view of a tax result
// and an expense ledger, and serializes it as CSV, a bordered text table or
// JSON. Serializers only format; every number comes from Compose.
package report

import (
	"time"

	"github.com/google/uuid"

	"taxcalc/internal/core"
	"taxcalc/internal/ledger"
	"taxcalc/internal/tax"
)

// LineKind drives how a line is rendered in the text table.
type LineKind string

const (
	KindHeader LineKind = "header"
	KindItem   LineKind = "item"
	KindTotal  LineKind = "total"
)

const (
	NameGrossSalary    = "Gross salary"
	NameIncomeTax      = "Income Tax"
	NameUSC            = "USC"
	NamePRSI           = "PRSI"
	NameTotalTaxes     = "Total taxes"
	NameNetSalary      = "Net Salary"
	NameTotalExpenses  = "Total Expenses"
	NameOverallBalance = "Overall balance"
)

// LineCount is the number of lines in every view: six salary lines, one per
// ledger slot, the expense total and the overall balance.
const LineCount = 6 + ledger.Capacity + 2

// Line is one report row. Fraction is the share of the gross salary.
type Line struct {
	Name     string   `json:"name"`
	Kind     LineKind `json:"kind"`
	Yearly   float64  `json:"yearly"`
	Monthly  float64  `json:"monthly"`
	BiWeekly float64  `json:"bi_weekly"`
	Weekly   float64  `json:"weekly"`
	Fraction float64  `json:"fraction"`
}

// View is a generated report. It is never mutated after Compose.
type View struct {
	ID             string    `json:"id"`
	GeneratedAt    time.Time `json:"generated_at"`
	Salary         float64   `json:"gross_yearly_salary"`
	ExpenseTotal   float64   `json:"expense_total"`
	OverallBalance float64   `json:"overall_balance"`
	Lines          []Line    `json:"lines"`
}

// NewLine derives the periodic amounts and salary share of a yearly value.
func NewLine(name string, kind LineKind, yearly, salary float64) Line {
	return Line{
		Name:     name,
		Kind:     kind,
		Yearly:   yearly,
		Monthly:  yearly / 12,
		BiWeekly: yearly / 26,
		Weekly:   yearly / 52,
		Fraction: core.SafeDiv(yearly, salary),
	}
}

// Compose builds the view of result and l. Every ledger slot yields a line,
// blank slots included, so line positions are stable.
func Compose(result tax.Result, l *ledger.Ledger, salary float64, generatedAt time.Time) View {
	expenseTotal := l.Total()
	balance := result.NetSalary - expenseTotal

	lines := make([]Line, 0, LineCount)
	lines = append(lines,
		NewLine(NameGrossSalary, KindHeader, salary, salary),
		NewLine(NameIncomeTax, KindItem, result.IncomeTax, salary),
		NewLine(NameUSC, KindItem, result.UniversalSocialCharge, salary),
		NewLine(NamePRSI, KindItem, result.SocialInsurance, salary),
		NewLine(NameTotalTaxes, KindTotal, result.TotalTax, salary),
		NewLine(NameNetSalary, KindHeader, result.NetSalary, salary),
	)
	for _, r := range l.Slots() {
		lines = append(lines, NewLine(r.Label, KindItem, r.YearlyValue, salary))
	}
	lines = append(lines,
		NewLine(NameTotalExpenses, KindTotal, expenseTotal, salary),
		NewLine(NameOverallBalance, KindHeader, balance, salary),
	)

	return View{
		ID:             uuid.NewString(),
		GeneratedAt:    generatedAt,
		Salary:         salary,
		ExpenseTotal:   expenseTotal,
		OverallBalance: balance,
		Lines:          lines,
	}
}

// kindAt returns the kind of the i-th line in a view of n lines.
func kindAt(i, n int) LineKind {
	switch {
	case i == 0 || i == 5 || i == n-1:
		return KindHeader
	case i == 4 || i == n-2:
		return KindTotal
	default:
		return KindItem
	}
}
