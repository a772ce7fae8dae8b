package commands

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/ordstat/pkg/solve"
)

// ErrInvalidNumber is returned for a positional argument that is not a number.
var ErrInvalidNumber = errors.New("invalid number")

func newSigmaCommand(state *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sigma",
		Short: "Convert between sigma multiples and normal probabilities",
	}

	cmd.AddCommand(
		newSigmaConversion(state, "to-sigma <p>", "Sigma multiple covering probability p", solve.TargetSigma),
		newSigmaConversion(state, "to-pct <sigma>", "Probability covered by a sigma multiple", solve.TargetPct),
	)

	return cmd
}

func newSigmaConversion(state *app, use, short string, target solve.Target) *cobra.Command {
	var bound string

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			value, parseErr := strconv.ParseFloat(args[0], 64)
			if parseErr != nil {
				return fmt.Errorf("%w: %q", ErrInvalidNumber, args[0])
			}

			req := solve.Request{Family: solve.FamilySigma, Solve: target, Bound: bound}
			if target == solve.TargetSigma {
				req.P = value
			} else {
				req.Sigma = value
			}

			resp, err := solve.Run(req, state.defaults())
			if err != nil {
				return err
			}

			return state.render(cmd, []solve.Response{resp})
		},
	}

	cmd.Flags().StringVar(&bound, flagBound, "2-sided", "2-sided or 1-sided")

	return cmd
}
