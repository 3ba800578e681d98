package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"taxcalc/internal/core"
	"taxcalc/internal/report"
	"taxcalc/internal/tax"
)

func newComputeCmd(a *app) *cobra.Command {
	var (
		salary, frequency, partner string
		married, child             bool
		selfEmployed, medicalCard  bool
		age                        int
		profilePath, date          string
	)

	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute income tax, USC and PRSI",
		Long: `Compute income tax, Universal Social Charge and PRSI for a salary and
store the result as the current profile.

The profile comes either from flags or from a YAML file:

  gross_yearly_salary: 50000
  married: false
  has_child: false
  partner_yearly_income: 0
  age: 30
  self_employed: false
  medical_card: false

Example:
  taxcalc compute --salary 4200 --frequency monthly --age 34
  taxcalc compute --profile me.yaml --date 2026-10-01`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var p tax.Profile
			switch {
			case profilePath != "":
				loaded, err := loadProfile(profilePath)
				if err != nil {
					return err
				}
				p = loaded
			case cmd.Flags().Changed("salary"):
				built, err := profileFromFlags(salary, frequency, partner, age, married, child, selfEmployed, medicalCard)
				if err != nil {
					return err
				}
				p = built
			default:
				return fmt.Errorf("%w: either --salary or --profile is required", core.ErrInvalidArgument)
			}

			when, err := a.parseDate(date)
			if err != nil {
				return err
			}
			if err := a.loadState(ctx); err != nil {
				return err
			}
			r, err := a.env.Session.Recompute(ctx, p, when)
			if err != nil {
				return err
			}

			printResult(cmd.OutOrStdout(), p, r, when)
			return a.syncState(ctx)
		},
	}

	f := cmd.Flags()
	f.StringVar(&salary, "salary", "", "gross salary, per --frequency")
	f.StringVar(&frequency, "frequency", string(core.Yearly), "salary frequency: yearly, monthly, bi-weekly or weekly")
	f.BoolVar(&married, "married", false, "married or in a civil partnership")
	f.BoolVar(&child, "child", false, "lone parent (ignored when married)")
	f.StringVar(&partner, "partner-income", "0", "partner's gross yearly income (married only)")
	f.IntVar(&age, "age", 0, "age in years")
	f.BoolVar(&selfEmployed, "self-employed", false, "self-employed")
	f.BoolVar(&medicalCard, "medical-card", false, "holds a full medical card")
	f.StringVar(&profilePath, "profile", "", "YAML profile file")
	f.StringVar(&date, "date", "", "effective date, YYYY-MM-DD (default today)")
	cmd.MarkFlagsMutuallyExclusive("profile", "salary")

	return cmd
}

func profileFromFlags(salary, frequency, partner string, age int, married, child, selfEmployed, medicalCard bool) (tax.Profile, error) {
	amount, err := core.ParseAmount(salary)
	if err != nil {
		return tax.Profile{}, fmt.Errorf("salary: %w", err)
	}
	freq, err := core.ParseFrequency(frequency)
	if err != nil {
		return tax.Profile{}, err
	}
	yearly, err := freq.ToYearly(amount)
	if err != nil {
		return tax.Profile{}, err
	}
	partnerIncome, err := core.ParseAmount(partner)
	if err != nil {
		return tax.Profile{}, fmt.Errorf("partner income: %w", err)
	}

	return tax.Profile{
		GrossYearlySalary:   yearly,
		IsMarried:           married,
		HasChild:            child,
		PartnerYearlyIncome: partnerIncome,
		Age:                 age,
		IsSelfEmployed:      selfEmployed,
		HasMedicalCard:      medicalCard,
	}, nil
}

// loadProfile reads a YAML profile, rejecting unknown keys.
func loadProfile(path string) (tax.Profile, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return tax.Profile{}, fmt.Errorf("%w: %s", core.ErrFileNotFound, path)
	}
	if err != nil {
		return tax.Profile{}, fmt.Errorf("open profile: %w", err)
	}
	defer f.Close()

	var p tax.Profile
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		return tax.Profile{}, fmt.Errorf("%w: %s: %v", core.ErrConfigParse, path, err)
	}
	if err := p.Validate(); err != nil {
		return tax.Profile{}, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

func printResult(w io.Writer, p tax.Profile, r tax.Result, when time.Time) {
	salary := r.GrossYearlySalary
	lines := []report.Line{
		report.NewLine(report.NameGrossSalary, report.KindHeader, salary, salary),
		report.NewLine(report.NameIncomeTax, report.KindItem, r.IncomeTax, salary),
		report.NewLine(report.NameUSC, report.KindItem, r.UniversalSocialCharge, salary),
		report.NewLine(report.NamePRSI, report.KindItem, r.SocialInsurance, salary),
		report.NewLine(report.NameTotalTaxes, report.KindTotal, r.TotalTax, salary),
		report.NewLine(report.NameNetSalary, report.KindHeader, r.NetSalary, salary),
	}

	rows := make([][]string, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, []string{
			l.Name,
			core.FormatCurrency(l.Yearly),
			core.FormatCurrency(l.Monthly),
			core.FormatCurrency(l.Weekly),
			core.FormatPercent(l.Fraction),
		})
	}

	fmt.Fprintln(w, renderTable([]string{"", "Yearly", "Monthly", "Weekly", "Pctge"}, rows))
	for _, m := range tax.DescribeModifiers(p).Lines() {
		fmt.Fprintln(w, m)
	}
	fmt.Fprintf(w, "PRSI: %s rate on %s\n", core.FormatPercent(r.PRSIRate), when.Format(dateLayout))
}
