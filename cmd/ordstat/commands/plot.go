package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/ordstat/pkg/ordstat"
	"github.com/Sumatoshi-tech/ordstat/pkg/report"
)

const (
	flagFrom     = "from"
	flagTo       = "to"
	flagStep     = "step"
	flagOut      = "out"
	defaultFrom  = 1
	defaultTo    = 1000
	plotFileMode = 0o600
)

type plotFlags struct {
	k     int
	p, c  float64
	bound string
	rng   report.Range
	out   string
}

func newPlotCommand(state *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot {tolerance|percentile}",
		Short: "Render coverage versus sample size as an HTML chart",
	}

	cmd.AddCommand(
		newPlotFamilyCommand(state, "tolerance", "Tolerance coverage curve for fixed k and p",
			func(f plotFlags) (report.Curve, error) {
				bound, err := ordstat.ParseToleranceBound(f.bound)
				if err != nil {
					return report.Curve{}, err
				}

				return report.ToleranceCurve(f.k, f.p, f.c, bound, f.rng)
			}),
		newPlotFamilyCommand(state, "percentile", "Percentile coverage curve for fixed k and P",
			func(f plotFlags) (report.Curve, error) {
				bound, err := ordstat.ParsePercentileBound(f.bound)
				if err != nil {
					return report.Curve{}, err
				}

				return report.PercentileCurve(f.k, f.p, f.c, bound, f.rng)
			}),
	)

	return cmd
}

func newPlotFamilyCommand(
	state *app, use, short string, build func(plotFlags) (report.Curve, error),
) *cobra.Command {
	var flags plotFlags

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed(flagC) {
				flags.c = state.cfg.Solver.Confidence
			}

			curve, err := build(flags)
			if err != nil {
				return err
			}

			if flags.out == stdioPath {
				return report.RenderCurve(cmd.OutOrStdout(), curve)
			}

			err = writeCurveFile(flags.out, curve)
			if err != nil {
				return err
			}

			state.logger.InfoContext(cmd.Context(), "wrote coverage curve", "path", flags.out, "points", len(curve.Points))

			return nil
		},
	}

	fs := cmd.Flags()
	fs.IntVar(&flags.k, flagK, 1, "order statistic offset")
	fs.Float64Var(&flags.p, flagP, 0.9, "population proportion (tolerance) or percentile (percentile)")
	fs.Float64Var(&flags.c, flagC, 0, "target confidence drawn as a reference line (default solver.confidence)")
	fs.StringVar(&flags.bound, flagBound, "2-sided", "interval bound")
	fs.IntVar(&flags.rng.From, flagFrom, defaultFrom, "first sample size")
	fs.IntVar(&flags.rng.To, flagTo, defaultTo, "last sample size")
	fs.IntVar(&flags.rng.Step, flagStep, 1, "sample size step")
	fs.StringVar(&flags.out, flagOut, stdioPath, `output HTML file ("-" for stdout)`)

	return cmd
}

func writeCurveFile(path string, curve report.Curve) (err error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, plotFileMode)
	if err != nil {
		return fmt.Errorf("create plot file: %w", err)
	}

	defer func() {
		closeErr := file.Close()
		if err == nil && closeErr != nil {
			err = fmt.Errorf("close plot file: %w", closeErr)
		}
	}()

	return report.RenderCurve(file, curve)
}
