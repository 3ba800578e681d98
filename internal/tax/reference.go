package tax

import "time"

// Band is one row of the published rate sheet. Upper is zero for an open-ended
// top band.
type Band struct {
	Name  string
	Lower float64
	Upper float64
	Rate  float64
}

// RateSheet is the reference view of every rate Compute uses on a given date.
type RateSheet struct {
	EffectiveDate time.Time

	IncomeTaxCutoffs []Band // one row per household type, Upper is the cutoff
	StandardRate     float64
	HigherRate       float64
	PartnerCap       float64

	USCBands          []Band
	USCExemptionLimit float64
	ReducedUSCRate    float64
	ReducedUSCCeiling float64
	SelfEmployedRate  float64

	PRSIWeeklyThreshold float64
	PRSIRate            float64
	PRSINextRate        float64
	PRSISwitch          time.Time
}

// Reference builds the rate sheet in force on date.
func Reference(date time.Time) RateSheet {
	usc := DefaultUSC()
	bands := make([]Band, 0, len(usc.Rates))
	var prev float64
	for i, t := range usc.Thresholds {
		bands = append(bands, Band{Name: uscBandName(i), Lower: prev, Upper: t, Rate: usc.Rates[i]})
		prev = t
	}
	bands = append(bands, Band{Name: uscBandName(len(usc.Thresholds)), Lower: prev, Rate: usc.Rates[len(usc.Rates)-1]})

	sheet := RateSheet{
		EffectiveDate: date,
		IncomeTaxCutoffs: []Band{
			{Name: "Single", Upper: SingleBase, Rate: StandardRate},
			{Name: "Lone parent", Upper: LoneParentBase, Rate: StandardRate},
			{Name: "Married, one income", Upper: MarriedBase, Rate: StandardRate},
			{Name: "Married, two incomes", Upper: MarriedBase + PartnerCap, Rate: StandardRate},
		},
		StandardRate:        StandardRate,
		HigherRate:          HigherRate,
		PartnerCap:          PartnerCap,
		USCBands:            bands,
		USCExemptionLimit:   USCExemptionLimit,
		ReducedUSCRate:      ReducedUSCRate,
		ReducedUSCCeiling:   ReducedUSCCeiling,
		SelfEmployedRate:    SelfEmployedUSCRate,
		PRSIWeeklyThreshold: PRSIWeeklyThreshold,
		PRSIRate:            PRSIRate(date),
		PRSISwitch:          PRSISwitchDate(date.Location()),
	}
	if sheet.PRSIRate == PRSIRateBefore {
		sheet.PRSINextRate = PRSIRateAfter
	}
	return sheet
}

func uscBandName(i int) string {
	names := [...]string{"First band", "Second band", "Third band", "Fourth band", "Balance"}
	return names[i]
}
