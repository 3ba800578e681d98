// Package tax computes Irish income tax, Universal Social Charge and PRSI for
// a single person's declared circumstances.
//
// Everything here is a pure function of its arguments: no I/O, no clock
// reads, no shared mutable rate tables. The effective date is always passed
// in so the PRSI rate switch can be exercised deterministically.
package tax

import (
	"fmt"

	"taxcalc/internal/core"
)

const (
	MinAge = 0
	MaxAge = 122
)

// Profile holds the facts a computation depends on. All amounts are yearly.
type Profile struct {
	GrossYearlySalary float64 `yaml:"gross_yearly_salary" json:"gross_yearly_salary"`
	IsMarried         bool    `yaml:"married" json:"married"`
	// HasChild is the lone-parent flag; it only matters when not married.
	HasChild bool `yaml:"has_child" json:"has_child"`
	// PartnerYearlyIncome only matters when married.
	PartnerYearlyIncome float64 `yaml:"partner_yearly_income" json:"partner_yearly_income"`
	Age                 int     `yaml:"age" json:"age"`
	IsSelfEmployed      bool    `yaml:"self_employed" json:"self_employed"`
	HasMedicalCard      bool    `yaml:"medical_card" json:"medical_card"`
}

func (p Profile) Validate() error {
	if err := core.ValidateAmount("gross yearly salary", p.GrossYearlySalary); err != nil {
		return err
	}
	if err := core.ValidateAmount("partner yearly income", p.PartnerYearlyIncome); err != nil {
		return err
	}
	if p.Age < MinAge || p.Age > MaxAge {
		return fmt.Errorf("%w: age must be between %d and %d, got %d", core.ErrInvalidArgument, MinAge, MaxAge, p.Age)
	}
	return nil
}

// Result is the outcome of one computation. All amounts are yearly.
type Result struct {
	GrossYearlySalary     float64
	IncomeTax             float64
	UniversalSocialCharge float64
	SocialInsurance       float64
	TotalTax              float64
	NetSalary             float64

	// BandThreshold is the income-tax cutoff that applied.
	BandThreshold float64
	// PRSIRate is the rate selected by the effective date, even when the
	// weekly exemption zeroed the charge.
	PRSIRate float64
	// USC is the effective table after profile modifiers.
	USC USCConfig
}
