package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/ordstat/pkg/solve"
)

// Solver flag names.
const (
	flagN     = "n"
	flagK     = "k"
	flagP     = "p"
	flagC     = "c"
	flagNMax  = "nmax"
	flagPTol  = "ptol"
	flagBound = "bound"
)

// solveFlags holds the raw values of the solver flags shared by the
// tolerance and percentile subcommands.
type solveFlags struct {
	n, k       int
	p, c, ptol float64
	nmax       int
	bound      string
}

// targetSpec describes one solve target: its required flags and help text.
type targetSpec struct {
	target   solve.Target
	short    string
	required []string
}

var toleranceTargets = []targetSpec{
	{solve.TargetN, "Minimum sample size for coverage p at confidence c", []string{flagK, flagP}},
	{solve.TargetP, "Largest proportion bounded at confidence c", []string{flagN, flagK}},
	{solve.TargetK, "Widest-inward order statistic reaching confidence c", []string{flagN, flagP}},
	{solve.TargetC, "Confidence of the k-th order statistics", []string{flagN, flagK, flagP}},
}

var percentileTargets = []targetSpec{
	{solve.TargetN, "Largest sample size for which offset k reaches confidence c", []string{flagK, flagP}},
	{solve.TargetK, "Tightest rank offset reaching confidence c", []string{flagN, flagP}},
	{solve.TargetC, "Confidence of the rank pair k outside the percentile", []string{flagN, flagK, flagP}},
}

func newToleranceCommand(state *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tolerance {n|p|k|c}",
		Short: "Solve distribution-free tolerance intervals",
		Long: `Solve a tolerance interval bounded by the k-th lowest and k-th highest of n
sorted samples (only the k-th highest when --bound 1-sided). The interval
contains at least a fraction p of the population with confidence c.
--c defaults to solver.confidence from the config.`,
	}

	for _, spec := range toleranceTargets {
		cmd.AddCommand(newTargetCommand(state, solve.FamilyTolerance, spec, true))
	}

	return cmd
}

func newPercentileCommand(state *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "percentile {n|k|c}",
		Short: "Solve distribution-free confidence intervals for a percentile",
		Long: `Solve a confidence interval for the population P-th percentile (--p) bounded
by the order statistics k ranks outside the percentile rank P*(n+1).
--bound is 2-sided, 1-sided lower or 1-sided upper. --c defaults to
solver.confidence from the config.`,
	}

	for _, spec := range percentileTargets {
		cmd.AddCommand(newTargetCommand(state, solve.FamilyPercentile, spec, false))
	}

	return cmd
}

func newTargetCommand(state *app, family solve.Family, spec targetSpec, withPTol bool) *cobra.Command {
	var flags solveFlags

	cmd := &cobra.Command{
		Use:   string(spec.target),
		Short: spec.short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			missing := missingFlags(cmd, spec.required)
			if len(missing) > 0 {
				return fmt.Errorf("%w: %s needs --%s", ErrMissingFlag, spec.target, strings.Join(missing, ", --"))
			}

			c := flags.c
			if !cmd.Flags().Changed(flagC) {
				c = state.cfg.Solver.Confidence
			}

			req := solve.Request{
				Family: family,
				Solve:  spec.target,
				N:      flags.n,
				K:      flags.k,
				P:      flags.p,
				C:      c,
				NMax:   flags.nmax,
				PTol:   flags.ptol,
				Bound:  flags.bound,
			}

			resp, err := solve.Run(req, state.defaults())
			if err != nil {
				return err
			}

			return state.render(cmd, []solve.Response{resp})
		},
	}

	fs := cmd.Flags()
	fs.IntVar(&flags.n, flagN, 0, "sample size")
	fs.IntVar(&flags.k, flagK, 0, "order statistic offset")
	fs.Float64Var(&flags.p, flagP, 0, "population proportion (tolerance) or percentile (percentile)")
	fs.Float64Var(&flags.c, flagC, 0, "confidence level")
	fs.IntVar(&flags.nmax, flagNMax, 0, "sample size search ceiling (default solver.nmax)")
	fs.StringVar(&flags.bound, flagBound, "2-sided", "interval bound")

	if withPTol {
		fs.Float64Var(&flags.ptol, flagPTol, 0, "proportion bisection tolerance (default solver.ptol)")
	}

	return cmd
}

func missingFlags(cmd *cobra.Command, names []string) []string {
	var missing []string

	for _, name := range names {
		if !cmd.Flags().Changed(name) {
			missing = append(missing, name)
		}
	}

	return missing
}
