package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/ordstat/pkg/ordstat"
	"github.com/Sumatoshi-tech/ordstat/pkg/report"
	"github.com/Sumatoshi-tech/ordstat/pkg/solve"
)

const (
	flagFamily = "family"
	stdioPath  = "-"
)

// ErrInvalidSample is returned for a sample file entry that is not a number.
var ErrInvalidSample = errors.New("invalid sample")

func newBoundsCommand(state *app) *cobra.Command {
	var (
		family string
		k      int
		p      float64
		bound  string
	)

	cmd := &cobra.Command{
		Use:   "bounds <file>",
		Short: "Compute interval values from a sample file",
		Long: `Read samples separated by newlines, commas or whitespace from a file (or "-"
for stdin) and print the order statistics bounding the requested interval,
together with the confidence they carry.

For --family tolerance, --p is the covered population proportion. For
--family percentile, --p is the percentile.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			missing := missingFlags(cmd, []string{flagK, flagP})
			if len(missing) > 0 {
				return fmt.Errorf("%w: bounds needs --%s", ErrMissingFlag, strings.Join(missing, ", --"))
			}

			samples, err := readSamples(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			result, err := computeInterval(solve.Family(family), samples, k, p, bound)
			if err != nil {
				return err
			}

			return report.WriteInterval(cmd.OutOrStdout(), state.cfg.Output.Format, result)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&family, flagFamily, string(solve.FamilyTolerance), "tolerance or percentile")
	fs.IntVar(&k, flagK, 0, "order statistic offset")
	fs.Float64Var(&p, flagP, 0, "population proportion (tolerance) or percentile (percentile)")
	fs.StringVar(&bound, flagBound, "2-sided", "interval bound")

	return cmd
}

func computeInterval(family solve.Family, samples []float64, k int, p float64, boundName string) (report.IntervalResult, error) {
	result := report.IntervalResult{Family: string(family), N: len(samples), K: k, P: p}

	switch family {
	case solve.FamilyTolerance:
		bound, err := ordstat.ParseToleranceBound(boundName)
		if err != nil {
			return result, err
		}

		result.Bound = bound.String()

		result.Interval, err = ordstat.ToleranceInterval(samples, k, bound)
		if err != nil {
			return result, err
		}

		result.Confidence, err = ordstat.ToleranceConfidence(len(samples), k, p, bound)

		return result, err
	case solve.FamilyPercentile:
		bound, err := ordstat.ParsePercentileBound(boundName)
		if err != nil {
			return result, err
		}

		result.Bound = bound.String()

		result.Interval, err = ordstat.PercentileInterval(samples, p, k, bound)
		if err != nil {
			return result, err
		}

		result.Confidence, err = ordstat.PercentileConfidence(len(samples), k, p, bound)

		return result, err
	default:
		return result, fmt.Errorf("%w: %q (want tolerance or percentile)", solve.ErrUnknownFamily, family)
	}
}

// readSamples parses the sample file at path, or stdin for "-".
func readSamples(stdin io.Reader, path string) ([]float64, error) {
	src := stdin

	if path != stdioPath {
		file, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open samples: %w", err)
		}
		defer file.Close()

		src = file
	}

	raw, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("read samples: %w", err)
	}

	return parseSamples(string(raw))
}

func parseSamples(text string) ([]float64, error) {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	})

	samples := make([]float64, 0, len(fields))

	for idx, field := range fields {
		value, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return nil, fmt.Errorf("%w %d: %q", ErrInvalidSample, idx+1, field)
		}

		samples = append(samples, value)
	}

	return samples, nil
}
