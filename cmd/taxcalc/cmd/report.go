package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"taxcalc/internal/log"
	"taxcalc/internal/report"
)

var reportFormats = []string{"txt", "csv", "json"}

func newReportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Show or export the financial report",
		Long: `The report needs a computed salary and at least one expense. It lists
gross salary, each tax, net salary, every expense slot and the overall
balance, yearly, monthly and weekly, with each line's share of the gross
salary.`,
	}
	cmd.AddCommand(newReportStatusCmd(a), newReportShowCmd(a), newReportExportCmd(a))
	return cmd
}

func newReportStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show what is still missing before a report can be made",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.loadState(cmd.Context()); err != nil {
				return err
			}
			r := a.env.Session.Readiness()
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "[%s] salary computed\n", check(r.Salary))
			fmt.Fprintf(w, "[%s] at least one expense\n", check(r.Expenses))
			return nil
		},
	}
}

func check(ok bool) string {
	if ok {
		return "x"
	}
	return " "
}

func newReportShowCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if err := checkFormat(format); err != nil {
				return err
			}
			if err := a.loadState(ctx); err != nil {
				return err
			}
			v, err := a.env.Session.Report(ctx, a.now())
			if err != nil {
				return err
			}
			data, err := render(v, format)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	cmd.Flags().StringVar(&format, "format", "txt", "txt, csv or json")
	return cmd
}

func newReportExportCmd(a *app) *cobra.Command {
	var format, out string
	var all bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the report to report.<format> files",
		Example: `  taxcalc report export --format csv
  taxcalc report export --all --out ./reports`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			formats := []string{format}
			if all {
				formats = reportFormats
			} else if err := checkFormat(format); err != nil {
				return err
			}
			if out == "" {
				out = a.env.Config.ExportDir
			}
			if err := os.MkdirAll(out, 0o755); err != nil {
				return fmt.Errorf("create export directory: %w", err)
			}

			if err := a.loadState(ctx); err != nil {
				return err
			}
			v, err := a.env.Session.Report(ctx, a.now())
			if err != nil {
				return err
			}

			logger := a.env.Logger.WithComponent(log.ComponentReport).WithOperation(log.OpExport)
			paths := make([]string, len(formats))
			g, _ := errgroup.WithContext(ctx)
			for i, f := range formats {
				i, f := i, f
				g.Go(func() error {
					data, err := render(v, f)
					if err != nil {
						return err
					}
					path := filepath.Join(out, "report."+f)
					if err := os.WriteFile(path, data, 0o644); err != nil {
						return fmt.Errorf("write %s: %w", path, err)
					}
					logger.InfoContext(ctx, "Report written",
						log.FieldFormat, f, log.FieldPath, path, log.FieldReportID, v.ID)
					paths[i] = path
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			for _, p := range paths {
				fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", p)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "csv", "txt, csv or json")
	cmd.Flags().BoolVar(&all, "all", false, "write every format")
	cmd.Flags().StringVar(&out, "out", "", "output directory (default TAXCALC_EXPORT_DIR)")
	return cmd
}

func checkFormat(format string) error {
	if !slices.Contains(reportFormats, format) {
		return fmt.Errorf("unknown format %q: must be one of %s", format, strings.Join(reportFormats, ", "))
	}
	return nil
}

func render(v report.View, format string) ([]byte, error) {
	switch format {
	case "txt":
		return []byte(report.Table(v)), nil
	case "csv":
		s, err := report.CSV(v)
		return []byte(s), err
	case "json":
		data, err := report.JSON(v)
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
	return nil, checkFormat(format)
}
