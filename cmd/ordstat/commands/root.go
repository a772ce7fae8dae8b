// Package commands implements CLI command handlers for ordstat.
package commands

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/ordstat/pkg/config"
	"github.com/Sumatoshi-tech/ordstat/pkg/observability"
	"github.com/Sumatoshi-tech/ordstat/pkg/ordstat"
	"github.com/Sumatoshi-tech/ordstat/pkg/report"
	"github.com/Sumatoshi-tech/ordstat/pkg/solve"
	"github.com/Sumatoshi-tech/ordstat/pkg/version"
)

// Persistent flag names.
const (
	flagConfig  = "config"
	flagOutput  = "output"
	flagVerbose = "verbose"
	flagQuiet   = "quiet"
	flagNoColor = "no-color"
)

var (
	// ErrMissingFlag is returned when a solve target needs a flag that was not set.
	ErrMissingFlag = errors.New("missing required flag")
	// ErrConflictingFlags is returned for --verbose together with --quiet.
	ErrConflictingFlags = errors.New("--verbose and --quiet are mutually exclusive")
	// ErrBatchFailed is returned after rendering a batch in which some requests failed.
	ErrBatchFailed = errors.New("batch had failed requests")
)

// app carries the state every subcommand reads after the root pre-run.
type app struct {
	configPath string
	output     string
	verbose    bool
	quiet      bool
	noColor    bool

	cfg    *config.Config
	logger *slog.Logger
}

// NewRootCommand builds the ordstat command tree.
func NewRootCommand() *cobra.Command {
	state := &app{}

	rootCmd := &cobra.Command{
		Use:   "ordstat",
		Short: "Distribution-free tolerance and percentile intervals from order statistics",
		Long: `ordstat sizes and evaluates nonparametric intervals built from sorted samples.

Commands:
  tolerance   Solve tolerance intervals for n, p, k or c
  percentile  Solve percentile confidence intervals for n, k or c
  sigma       Convert between sigma multiples and probabilities
  bounds      Compute interval values from a sample file
  batch       Evaluate a JSON or YAML batch of requests
  plot        Render a coverage curve as HTML
  mcp         Start the MCP server on stdio
  serve       Start the HTTP API`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return state.init(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&state.configPath, flagConfig, "", "config file (default .ordstat.yaml in . or $HOME)")
	flags.StringVarP(&state.output, flagOutput, "o", "", "output format: table, json or yaml (default from config)")
	flags.BoolVarP(&state.verbose, flagVerbose, "v", false, "verbose output")
	flags.BoolVarP(&state.quiet, flagQuiet, "q", false, "suppress warnings")
	flags.BoolVar(&state.noColor, flagNoColor, false, "disable colored output")

	rootCmd.AddCommand(
		newToleranceCommand(state),
		newPercentileCommand(state),
		newSigmaCommand(state),
		newBoundsCommand(state),
		newBatchCommand(state),
		newPlotCommand(state),
		newMCPCommand(state),
		newServeCommand(state),
		newVersionCommand(),
	)

	return rootCmd
}

func (a *app) init(cmd *cobra.Command) error {
	if a.verbose && a.quiet {
		return ErrConflictingFlags
	}

	cfg, err := config.LoadConfig(a.configPath)
	if err != nil {
		return err
	}

	if a.output != "" {
		cfg.Output.Format = a.output
	}

	switch cfg.Output.Format {
	case report.FormatTable, report.FormatJSON, report.FormatYAML:
	default:
		return fmt.Errorf("%w: %q", report.ErrUnknownFormat, cfg.Output.Format)
	}

	if a.noColor {
		cfg.Output.Color = false
	}

	a.cfg = cfg

	obsCfg, err := a.observabilityConfig(observability.ModeCLI)
	if err != nil {
		return err
	}

	a.logger = observability.NewLogger(obsCfg, cmd.ErrOrStderr())

	return nil
}

// observabilityConfig maps the loaded config and verbosity flags onto an
// observability config for the given mode.
func (a *app) observabilityConfig(mode observability.AppMode) (observability.Config, error) {
	level, err := observability.ParseLevel(a.cfg.Logging.Level)
	if err != nil {
		return observability.Config{}, err
	}

	switch {
	case a.verbose:
		level = slog.LevelDebug
	case a.quiet:
		level = slog.LevelError
	}

	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Mode = mode
	obsCfg.OTLPEndpoint = a.cfg.Telemetry.OTLPEndpoint
	obsCfg.OTLPInsecure = a.cfg.Telemetry.OTLPInsecure
	obsCfg.LogLevel = level
	obsCfg.LogJSON = a.cfg.Logging.JSON

	return obsCfg, nil
}

func (a *app) defaults() solve.Defaults {
	return solve.Defaults{NMax: a.cfg.Solver.NMax, PTol: a.cfg.Solver.PTol}
}

func (a *app) reportOptions() report.Options {
	return report.Options{Color: a.cfg.Output.Color}
}

// render writes responses in the configured format and warns about every
// infeasible one.
func (a *app) render(cmd *cobra.Command, responses []solve.Response) error {
	err := report.WriteResponses(cmd.OutOrStdout(), a.cfg.Output.Format, responses, a.reportOptions())
	if err != nil {
		return err
	}

	for _, resp := range responses {
		if resp.Error == "" && !resp.Feasible {
			a.warnInfeasible(cmd, resp.Diagnostic)
		}
	}

	return nil
}

// warnInfeasible logs the diagnostic and prints it as a colored warning line.
func (a *app) warnInfeasible(cmd *cobra.Command, diag *ordstat.Diagnostic) {
	a.logger.WarnContext(cmd.Context(), "infeasible", "diagnostic", diag.String())

	if a.quiet {
		return
	}

	warn := color.New(color.FgYellow)
	if !a.cfg.Output.Color {
		warn.DisableColor()
	}

	writeWarning(cmd.ErrOrStderr(), warn, diag.String())
}

func writeWarning(w io.Writer, c *color.Color, msg string) {
	_, printErr := c.Fprintf(w, "warning: %s\n", msg)
	if printErr != nil {
		slog.Default().Debug("write warning", "error", printErr)
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version.String())

			return err
		},
	}
}
