package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"taxcalc/internal/core"
	"taxcalc/internal/ledger"
)

func newExpensesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "expenses",
		Aliases: []string{"exp"},
		Short:   "Manage the recurring expense list",
		Long: `Manage up to 16 recurring expenses. Amounts are entered per frequency
and stored as yearly values. Indexes are the 1-based positions shown by
"expenses list".`,
	}

	cmd.AddCommand(
		newExpensesListCmd(a),
		newExpensesAddCmd(a),
		newExpensesEditCmd(a),
		newExpensesDeleteCmd(a),
		newExpensesWipeCmd(a),
		newExpensesImportCmd(a),
	)
	return cmd
}

func newExpensesListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List expenses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.loadState(cmd.Context()); err != nil {
				return err
			}
			l := a.env.Session.Ledger()
			w := cmd.OutOrStdout()
			if l.Count() == 0 {
				fmt.Fprintln(w, "No expenses recorded.")
				return nil
			}

			rows := make([][]string, 0, l.Count()+1)
			for i, r := range l.Entries() {
				share, err := l.Share(i + 1)
				if err != nil {
					return err
				}
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					r.Label,
					core.FormatCurrency(r.YearlyValue),
					core.FormatCurrency(r.YearlyValue / 12),
					core.FormatCurrency(r.YearlyValue / 52),
					core.FormatPercent(share),
				})
			}
			total := l.Total()
			rows = append(rows, []string{"", "Total", core.FormatCurrency(total),
				core.FormatCurrency(total / 12), core.FormatCurrency(total / 52), ""})

			fmt.Fprintln(w, renderTable([]string{"#", "Label", "Yearly", "Monthly", "Weekly", "Share"}, rows))
			fmt.Fprintf(w, "%d of %d slots used\n", l.Count(), ledger.Capacity)
			return nil
		},
	}
}

func newExpensesAddCmd(a *app) *cobra.Command {
	var label, amount, frequency string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an expense",
		Example: `  taxcalc expenses add --label Rent --amount 1200 --frequency monthly
  taxcalc expenses add --label "Car insurance" --amount 640`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := checkLabel(label); err != nil {
				return err
			}
			value, freq, err := parseAmountFlags(amount, frequency)
			if err != nil {
				return err
			}
			if err := a.loadState(ctx); err != nil {
				return err
			}
			index, err := a.env.Session.AddExpense(ctx, label, value, freq)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %q at #%d\n", label, index)
			return a.syncState(ctx)
		},
	}

	cmd.Flags().StringVar(&label, "label", "", "expense label")
	cmd.Flags().StringVar(&amount, "amount", "", "amount per --frequency")
	cmd.Flags().StringVar(&frequency, "frequency", string(core.Yearly), "yearly, monthly, bi-weekly or weekly")
	_ = cmd.MarkFlagRequired("amount")
	return cmd
}

func newExpensesEditCmd(a *app) *cobra.Command {
	var label, amount, frequency string

	cmd := &cobra.Command{
		Use:   "edit <index>",
		Short: "Change an expense; flags left out keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("frequency") && !cmd.Flags().Changed("amount") {
				return fmt.Errorf("%w: --frequency applies to --amount, which is missing", core.ErrInvalidArgument)
			}
			if err := a.loadState(ctx); err != nil {
				return err
			}
			current, err := a.env.Session.Ledger().Get(index)
			if err != nil {
				return err
			}

			newLabel := current.Label
			if cmd.Flags().Changed("label") {
				if err := checkLabel(label); err != nil {
					return err
				}
				newLabel = label
			}
			value, freq := current.YearlyValue, core.Yearly
			if cmd.Flags().Changed("amount") {
				if value, freq, err = parseAmountFlags(amount, frequency); err != nil {
					return err
				}
			}

			if err := a.env.Session.EditExpense(ctx, index, newLabel, value, freq); err != nil {
				return fmt.Errorf("item was not updated: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated #%d\n", index)
			return a.syncState(ctx)
		},
	}

	cmd.Flags().StringVar(&label, "label", "", "new label")
	cmd.Flags().StringVar(&amount, "amount", "", "new amount per --frequency")
	cmd.Flags().StringVar(&frequency, "frequency", string(core.Yearly), "yearly, monthly, bi-weekly or weekly")
	return cmd
}

func newExpensesDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <index>",
		Aliases: []string{"rm"},
		Short:   "Delete an expense",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			index, err := parseIndex(args[0])
			if err != nil {
				return err
			}
			if err := a.loadState(ctx); err != nil {
				return err
			}
			rec, err := a.env.Session.DeleteExpense(ctx, index)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %q (%s a year)\n", rec.Label, core.FormatCurrency(rec.YearlyValue))
			return a.syncState(ctx)
		},
	}
}

func newExpensesWipeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "wipe",
		Short: "Delete every expense",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.loadState(ctx); err != nil {
				return err
			}
			n := a.env.Session.WipeExpenses(ctx)
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d expenses\n", n)
			return a.syncState(ctx)
		},
	}
}

func newExpensesImportCmd(a *app) *cobra.Command {
	var path, mode string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import expenses from a label,yearlyValue file",
		Long: `Import expenses from a text file with one "label,yearlyValue" line per
expense. Lines that do not parse are skipped.

Modes:
  overwrite  replace every expense; line N goes to slot N
  append     fill the free slots after the existing expenses`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			m, err := ledger.ParseImportMode(mode)
			if err != nil {
				return err
			}
			lines, err := readLines(path)
			if err != nil {
				return err
			}
			if err := a.loadState(ctx); err != nil {
				return err
			}
			n, err := a.env.Session.ImportExpenses(ctx, lines, m)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d expenses (%s)\n", n, m)
			return a.syncState(ctx)
		},
	}

	cmd.Flags().StringVar(&path, "file", "", "file to import")
	cmd.Flags().StringVar(&mode, "mode", string(ledger.Overwrite), "overwrite or append")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func parseAmountFlags(amount, frequency string) (float64, core.Frequency, error) {
	value, err := core.ParseAmount(amount)
	if err != nil {
		return 0, "", fmt.Errorf("amount: %w", err)
	}
	freq, err := core.ParseFrequency(frequency)
	if err != nil {
		return 0, "", err
	}
	return value, freq, nil
}

// checkLabel rejects characters the state file cannot hold.
func checkLabel(label string) error {
	if strings.ContainsAny(label, ",\r\n") {
		return fmt.Errorf("%w: label %q may not contain commas or line breaks", core.ErrInvalidArgument, label)
	}
	return nil
}

func parseIndex(s string) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: index %q is not a number", core.ErrInvalidArgument, s)
	}
	return i, nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", core.ErrFileNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return lines, nil
}
