package tax

import (
	"fmt"

	"taxcalc/internal/core"
)

type (
	IncomeTaxModifier string
	USCModifier       string
)

const (
	NoIncomeTaxModifier IncomeTaxModifier = "none"
	MarriedOneIncome    IncomeTaxModifier = "married-one-income"
	MarriedTwoIncomes   IncomeTaxModifier = "married-two-incomes"
	LoneParent          IncomeTaxModifier = "lone-parent"

	NoUSCModifier   USCModifier = "none"
	SelfEmployedUSC USCModifier = "self-employed"
	ReducedUSC      USCModifier = "reduced"
)

// Modifiers explains which of the profile's facts moved a band or a rate.
type Modifiers struct {
	IncomeTax IncomeTaxModifier
	// Cutoff is the band threshold; CutoffRaise is how far it sits above SingleBase.
	Cutoff      float64
	CutoffRaise float64

	USC         USCModifier
	Over70      bool
	MedicalCard bool
}

// DescribeModifiers uses the same gates as Compute.
func DescribeModifiers(p Profile) Modifiers {
	m := Modifiers{
		Cutoff:      BandThreshold(p),
		IncomeTax:   NoIncomeTaxModifier,
		USC:         NoUSCModifier,
		Over70:      p.Age >= ReducedUSCAge,
		MedicalCard: p.HasMedicalCard,
	}
	m.CutoffRaise = m.Cutoff - SingleBase

	switch {
	case p.IsMarried && p.PartnerYearlyIncome > 0:
		m.IncomeTax = MarriedTwoIncomes
	case p.IsMarried:
		m.IncomeTax = MarriedOneIncome
	case p.HasChild:
		m.IncomeTax = LoneParent
	}

	switch {
	case p.GrossYearlySalary > SelfEmployedUSCThreshold && p.IsSelfEmployed:
		m.USC = SelfEmployedUSC
	case reducedUSCApplies(p):
		m.USC = ReducedUSC
	}
	return m
}

// Lines renders the modifiers as two human-readable sentences: income tax
// first, then USC.
func (m Modifiers) Lines() []string {
	var it string
	switch m.IncomeTax {
	case MarriedOneIncome:
		it = "Married, one income"
	case MarriedTwoIncomes:
		it = "Married, two incomes"
	case LoneParent:
		it = "Lone parent"
	default:
		it = fmt.Sprintf("No modifiers, default cutoff @ %s", core.FormatCurrency0(SingleBase))
	}
	if m.IncomeTax != NoIncomeTaxModifier {
		it = fmt.Sprintf("%s: cutoff point up by %s to %s", it, core.FormatCurrency0(m.CutoffRaise), core.FormatCurrency0(m.Cutoff))
	}

	var usc string
	switch m.USC {
	case SelfEmployedUSC:
		usc = fmt.Sprintf("Self-employment over %s: rate @ 11%% for all income > %s",
			core.FormatCurrency0(SelfEmployedUSCThreshold), core.FormatCurrency0(SelfEmployedUSCThreshold))
	case ReducedUSC:
		who := "Under 70"
		if m.Over70 {
			who = "Over 70"
		}
		if m.MedicalCard {
			who += " with medical card"
		}
		usc = fmt.Sprintf("%s: rate @ 2%% for all income above %s", who, core.FormatCurrency0(DefaultUSC().Thresholds[0]))
	default:
		usc = "No modifiers, default USC rates"
	}

	return []string{"Income tax: " + it, "USC: " + usc}
}
