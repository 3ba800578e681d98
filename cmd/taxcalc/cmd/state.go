package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"taxcalc/internal/core"
	"taxcalc/internal/ledger"
	"taxcalc/internal/report"
	"taxcalc/internal/session"
	"taxcalc/internal/store"
)

func newStateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Move the saved state to and from a config file",
		Long: `Export or import the whole state (profile, tax result, USC table and
expenses) as a plain-text config file, independent of the configured store.`,
	}
	cmd.AddCommand(newStateStatusCmd(a), newStateExportCmd(a), newStateImportCmd(a))
	return cmd
}

func newStateStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show what the configured store holds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Backend: %s\n", a.env.Config.StateBackend)

			sum, err := a.env.Store.Summary(cmd.Context())
			if errors.Is(err, core.ErrFileNotFound) {
				fmt.Fprintln(w, "Nothing saved yet.")
				return nil
			}
			if err != nil {
				return err
			}

			rows := [][]string{
				{"Saved at", sum.SavedAt.Local().Format(report.TimestampLayout)},
				{"Gross salary", core.FormatCurrency(sum.GrossSalary)},
				{"Net salary", core.FormatCurrency(sum.NetSalary)},
				{"Expenses", fmt.Sprintf("%d of %d", sum.ExpenseCount, ledger.Capacity)},
				{"Expense total", core.FormatCurrency(sum.ExpenseTotal)},
			}
			if sum.Version > 0 {
				rows = append(rows, []string{"Saves", strconv.FormatInt(sum.Version, 10)})
			}
			fmt.Fprintln(w, renderTable([]string{"State", ""}, rows))
			return nil
		},
	}
}

func newStateExportCmd(a *app) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the current state to a config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := a.loadState(ctx); err != nil {
				return err
			}
			snap := a.env.Session.Snapshot(a.now())
			if snap.Empty() {
				return session.ErrNothingToSave
			}
			if err := store.NewFileStore(path).Save(ctx, snap); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration exported to %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&path, "file", "config.txt", "config file to write")
	return cmd
}

func newStateImportCmd(a *app) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Replace the current state with a config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			snap, err := store.NewFileStore(path).Load(ctx)
			if err != nil {
				return err
			}
			a.env.Session.Restore(snap)
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration imported from %s\n", path)
			return a.syncState(ctx)
		},
	}

	cmd.Flags().StringVar(&path, "file", "config.txt", "config file to read")
	return cmd
}
