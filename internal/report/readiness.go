package report

import (
	"errors"
	"fmt"
	"strings"
)

var ErrNotReady = errors.New("not enough information for a report")

// Readiness is the checklist shown before a report can be generated: a
// computed salary and at least one expense.
type Readiness struct {
	Salary   bool
	Expenses bool
}

func CheckReadiness(hasSalary bool, expenseCount int) Readiness {
	return Readiness{Salary: hasSalary, Expenses: expenseCount > 0}
}

func (r Readiness) Ready() bool {
	return r.Salary && r.Expenses
}

// Err returns nil when ready, otherwise ErrNotReady naming what is missing.
func (r Readiness) Err() error {
	if r.Ready() {
		return nil
	}
	var missing []string
	if !r.Salary {
		missing = append(missing, "salary")
	}
	if !r.Expenses {
		missing = append(missing, "expenses")
	}
	return fmt.Errorf("%w: missing %s", ErrNotReady, strings.Join(missing, " and "))
}
