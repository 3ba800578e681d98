package tax

import (
	"fmt"

	"taxcalc/internal/core"
)

const (
	// USCExemptionLimit is the income at or below which no USC is due.
	USCExemptionLimit = 13000

	// SelfEmployedUSCThreshold is the income above which self-employed
	// people pay the higher top rate.
	SelfEmployedUSCThreshold = 100000
	SelfEmployedUSCRate      = 0.11

	// ReducedUSCCeiling is the income at or below which people over
	// ReducedUSCAge or with a medical card pay ReducedUSCRate from the third
	// band up.
	ReducedUSCCeiling = 60000
	ReducedUSCAge     = 70
	ReducedUSCRate    = 0.02
)

// USCConfig is a USC rate table: four ascending thresholds and five rates,
// one per band plus the rate above the highest threshold. Arrays keep the
// value semantics, so a copy can be modified without touching the source.
type USCConfig struct {
	Thresholds [4]float64
	Rates      [5]float64
}

// DefaultUSC returns the standard table.
func DefaultUSC() USCConfig {
	return USCConfig{
		Thresholds: [4]float64{12012, 28700, 70044, 100000},
		Rates:      [5]float64{0.005, 0.02, 0.03, 0.08, 0.08},
	}
}

func (c USCConfig) Validate() error {
	prev := 0.0
	for i, t := range c.Thresholds {
		if t <= prev {
			return fmt.Errorf("%w: USC threshold %d (%s) must be greater than %s", core.ErrInvalidArgument, i+1, core.FormatAmount(t), core.FormatAmount(prev))
		}
		prev = t
	}
	for i, r := range c.Rates {
		if r < 0 || r > 1 {
			return fmt.Errorf("%w: USC rate %d (%s) must be between 0 and 1", core.ErrInvalidArgument, i+1, core.FormatAmount(r))
		}
	}
	return nil
}

// ForProfile returns a copy of c with the profile's modifiers applied.
//
// Self-employment above SelfEmployedUSCThreshold raises the top rate. Failing
// that, an income at or below ReducedUSCCeiling with age or medical card
// eligibility drops the third band up to ReducedUSCRate. Incomes between the
// two limits never get either modifier.
func (c USCConfig) ForProfile(p Profile) USCConfig {
	out := c
	switch {
	case p.GrossYearlySalary > SelfEmployedUSCThreshold && p.IsSelfEmployed:
		out.Rates[4] = SelfEmployedUSCRate
	case reducedUSCApplies(p):
		out.Rates[2] = ReducedUSCRate
		out.Rates[3] = ReducedUSCRate
		out.Rates[4] = ReducedUSCRate
	}
	return out
}

func reducedUSCApplies(p Profile) bool {
	return p.GrossYearlySalary <= ReducedUSCCeiling && (p.Age >= ReducedUSCAge || p.HasMedicalCard)
}

// USC walks the bands of cfg up to salary. Incomes at or below
// USCExemptionLimit pay nothing.
func USC(salary float64, cfg USCConfig) float64 {
	if salary <= USCExemptionLimit {
		return 0
	}
	var total, prev float64
	for i, threshold := range cfg.Thresholds {
		if salary <= prev {
			break
		}
		width := min(threshold, salary) - prev
		total += width * cfg.Rates[i]
		prev = threshold
	}
	last := cfg.Thresholds[len(cfg.Thresholds)-1]
	if salary > last {
		total += (salary - last) * cfg.Rates[len(cfg.Rates)-1]
	}
	return total
}
