package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"taxcalc/internal/core"
	"taxcalc/internal/tax"
)

func newBandsCmd(a *app) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:   "bands",
		Short: "Show the tax bands and rates in force",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			when, err := a.parseDate(date)
			if err != nil {
				return err
			}
			sheet := tax.Reference(when)
			w := cmd.OutOrStdout()

			fmt.Fprintf(w, "Rates in force on %s\n\n", when.Format(dateLayout))

			fmt.Fprintf(w, "Income tax: %s up to the cutoff, %s above it\n",
				core.FormatPercent(sheet.StandardRate), core.FormatPercent(sheet.HigherRate))
			cutoffs := make([][]string, 0, len(sheet.IncomeTaxCutoffs))
			for _, b := range sheet.IncomeTaxCutoffs {
				cutoffs = append(cutoffs, []string{b.Name, core.FormatCurrency0(b.Upper)})
			}
			fmt.Fprintln(w, renderTable([]string{"Household", "Cutoff"}, cutoffs))
			fmt.Fprintf(w, "Married, two incomes: the cutoff rises by the partner's income, up to %s\n\n",
				core.FormatCurrency0(sheet.PartnerCap))

			fmt.Fprintf(w, "USC: nothing due at or below %s\n", core.FormatCurrency0(sheet.USCExemptionLimit))
			usc := make([][]string, 0, len(sheet.USCBands))
			for _, b := range sheet.USCBands {
				upper := "and above"
				if b.Upper > 0 {
					upper = core.FormatCurrency0(b.Upper)
				}
				usc = append(usc, []string{b.Name, core.FormatCurrency0(b.Lower), upper, core.FormatPercent(b.Rate)})
			}
			fmt.Fprintln(w, renderTable([]string{"Band", "From", "To", "Rate"}, usc))
			fmt.Fprintf(w, "Over 70 or medical card, income up to %s: %s from the third band up\n",
				core.FormatCurrency0(sheet.ReducedUSCCeiling), core.FormatPercent(sheet.ReducedUSCRate))
			fmt.Fprintf(w, "Self-employed, income above %s: %s on the balance\n\n",
				core.FormatCurrency0(tax.SelfEmployedUSCThreshold), core.FormatPercent(sheet.SelfEmployedRate))

			fmt.Fprintf(w, "PRSI: %s when weekly income is above %s\n",
				core.FormatPercent(sheet.PRSIRate), core.FormatCurrency0(sheet.PRSIWeeklyThreshold))
			if sheet.PRSINextRate > 0 {
				fmt.Fprintf(w, "PRSI rises to %s from %s\n",
					core.FormatPercent(sheet.PRSINextRate), sheet.PRSISwitch.Format(dateLayout))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&date, "date", "", "effective date, YYYY-MM-DD (default today)")
	return cmd
}
