package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/ordstat/pkg/solve"
)

const flagWorkers = "workers"

func newBatchCommand(state *app) *cobra.Command {
	var (
		workers int
		format  string
	)

	cmd := &cobra.Command{
		Use:   "batch <file>",
		Short: "Evaluate a JSON or YAML batch of solver requests",
		Long: `Evaluate every request in a batch file of the form {"requests": [...]}
concurrently and print the results in input order. The file is validated
against the batch JSON Schema first; .yaml and .yml files are read as YAML,
anything else as JSON. Use "-" with --format to read stdin.

Requests that fail are reported alongside the others and make the command
exit non-zero once every result has been printed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed(flagWorkers) {
				workers = state.cfg.Batch.Workers
			}

			if format == "" {
				format = solve.FormatForPath(args[0])
			}

			reqs, err := decodeBatchFile(cmd.InOrStdin(), args[0], format)
			if err != nil {
				return err
			}

			state.logger.DebugContext(cmd.Context(), "running batch", "batch.size", len(reqs), "batch.workers", workers)

			responses, err := solve.RunBatch(cmd.Context(), reqs, state.defaults(), workers)
			if err != nil {
				return err
			}

			err = state.render(cmd, responses)
			if err != nil {
				return err
			}

			failed := 0

			for _, resp := range responses {
				if resp.Error != "" {
					failed++
				}
			}

			if failed > 0 {
				return fmt.Errorf("%w: %d of %d", ErrBatchFailed, failed, len(responses))
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&workers, flagWorkers, 0, "concurrent workers (default batch.workers)")
	cmd.Flags().StringVar(&format, "format", "", "batch format: json or yaml (default from the file extension)")

	return cmd
}

func decodeBatchFile(stdin io.Reader, path, format string) ([]solve.Request, error) {
	if path == stdioPath {
		return solve.DecodeBatch(stdin, format)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open batch: %w", err)
	}
	defer file.Close()

	return solve.DecodeBatch(file, format)
}
