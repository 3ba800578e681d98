// Package cmd provides the taxcalc CLI commands.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"taxcalc/internal/cli"
	"taxcalc/internal/core"
)

const dateLayout = "2006-01-02"

// app carries global flags and the bootstrapped environment through a
// single invocation.
type app struct {
	envFile string
	debug   bool
	now     func() time.Time
	env     *cli.Environment
}

// Execute runs the CLI with the process arguments.
func Execute() error {
	ctx, stop := cli.SignalContext(context.Background())
	defer stop()

	err := Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

// Run executes one command line and releases the state store afterwards.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	a := &app{now: time.Now}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if a.env != nil {
		if cerr := a.env.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close state store: %w", cerr)
		}
	}
	return err
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "taxcalc",
		Short: "Irish take-home pay calculator and expense planner",
		Long: `taxcalc computes income tax, Universal Social Charge and PRSI for a
yearly salary, keeps a list of up to 16 recurring expenses, and reports
what is left on a yearly, monthly and weekly basis.

State is kept between runs in the configured store (TAXCALC_STATE_BACKEND).

Example:
  taxcalc compute --salary 50000 --age 30
  taxcalc expenses add --label Rent --amount 1200 --frequency monthly
  taxcalc report show
  taxcalc report export --all --out ./reports`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			env, err := cli.Bootstrap(cmd.Context(), a.envFile, a.debug)
			if err != nil {
				return err
			}
			a.env = env
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.envFile, "env-file", "", "env file to load (default is .env)")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newComputeCmd(a),
		newExpensesCmd(a),
		newReportCmd(a),
		newBandsCmd(a),
		newStateCmd(a),
	)
	return root
}

// loadState restores the saved state. Having nothing saved yet is fine.
func (a *app) loadState(ctx context.Context) error {
	err := a.env.Session.LoadState(ctx)
	if err != nil && !errors.Is(err, core.ErrFileNotFound) {
		return err
	}
	return nil
}

func (a *app) syncState(ctx context.Context) error {
	return a.env.Session.SyncState(ctx, a.now())
}

// parseDate reads a YYYY-MM-DD flag in local time, defaulting to now.
func (a *app) parseDate(s string) (time.Time, error) {
	if s == "" {
		return a.now(), nil
	}
	t, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must look like %s", core.ErrInvalidArgument, s, dateLayout)
	}
	return t, nil
}
