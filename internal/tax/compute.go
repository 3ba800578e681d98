package tax

import (
	"fmt"
	"time"
)

const (
	SingleBase     = 44000
	LoneParentBase = 48000
	MarriedBase    = 53000
	// PartnerCap limits how much a partner's income can raise the married band.
	PartnerCap = 35000

	StandardRate = 0.20
	HigherRate   = 0.40

	// PRSIWeeklyThreshold is the weekly gross at or below which no PRSI is due.
	PRSIWeeklyThreshold = 352
	PRSIRateBefore      = 0.042
	PRSIRateAfter       = 0.0435
)

// PRSISwitchDate returns the day the higher PRSI rate starts, in loc.
func PRSISwitchDate(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(2026, time.October, 1, 0, 0, 0, 0, loc)
}

// Compute calculates every tax component for p on effectiveDate. usc is the
// base rate table; the profile's modifiers are applied to a copy of it.
func Compute(p Profile, usc USCConfig, effectiveDate time.Time) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, err
	}
	if err := usc.Validate(); err != nil {
		return Result{}, fmt.Errorf("usc table: %w", err)
	}

	salary := p.GrossYearlySalary
	band := BandThreshold(p)
	effective := usc.ForProfile(p)
	prsi, rate := PRSI(salary, effectiveDate)

	r := Result{
		GrossYearlySalary:     salary,
		IncomeTax:             IncomeTax(salary, band),
		UniversalSocialCharge: USC(salary, effective),
		SocialInsurance:       prsi,
		BandThreshold:         band,
		PRSIRate:              rate,
		USC:                   effective,
	}
	r.TotalTax = r.IncomeTax + r.UniversalSocialCharge + r.SocialInsurance
	r.NetSalary = salary - r.TotalTax
	return r, nil
}

// ComputeDefault is Compute with the standard USC table.
func ComputeDefault(p Profile, effectiveDate time.Time) (Result, error) {
	return Compute(p, DefaultUSC(), effectiveDate)
}

// BandThreshold returns the income taxed at the standard rate.
func BandThreshold(p Profile) float64 {
	switch {
	case p.IsMarried:
		return MarriedBase + min(p.PartnerYearlyIncome, PartnerCap)
	case p.HasChild:
		return LoneParentBase
	default:
		return SingleBase
	}
}

// IncomeTax charges StandardRate up to band and HigherRate above it.
func IncomeTax(salary, band float64) float64 {
	return min(salary, band)*StandardRate + max(0, salary-band)*HigherRate
}

// PRSIRate returns the rate in force on date.
func PRSIRate(date time.Time) float64 {
	if date.Before(PRSISwitchDate(date.Location())) {
		return PRSIRateBefore
	}
	return PRSIRateAfter
}

// PRSI returns the charge and the rate in force on date. Weekly gross at or
// below PRSIWeeklyThreshold pays nothing.
func PRSI(salary float64, date time.Time) (amount, rate float64) {
	rate = PRSIRate(date)
	if salary/52 <= PRSIWeeklyThreshold {
		return 0, rate
	}
	return salary * rate, rate
}
