package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/ordstat/pkg/mcp"
	"github.com/Sumatoshi-tech/ordstat/pkg/observability"
)

func newMCPCommand(state *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for AI agent integration",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

The MCP server exposes the solvers as tools that AI agents can discover and
invoke:
  - ordstat_tolerance: tolerance intervals (solve n, p, k or c)
  - ordstat_percentile: percentile confidence intervals (solve n, k or c)
  - ordstat_sigma: sigma and probability conversions

Logs are written to stderr as JSON; stdout carries the protocol.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			obsCfg, err := state.observabilityConfig(observability.ModeMCP)
			if err != nil {
				return err
			}

			obsCfg.LogJSON = true

			providers, err := observability.InitWithWriter(obsCfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			defer func() {
				shutdownErr := providers.Shutdown(context.Background())
				if shutdownErr != nil {
					providers.Logger.Warn("observability shutdown failed", "error", shutdownErr)
				}
			}()

			red, err := observability.NewREDMetrics(providers.Meter)
			if err != nil {
				return err
			}

			solves, err := observability.NewSolveMetrics(providers.Meter)
			if err != nil {
				return err
			}

			srv := mcp.NewServer(mcp.ServerDeps{
				Logger:   providers.Logger,
				Metrics:  red,
				Solves:   solves,
				Tracer:   providers.Tracer,
				Defaults: state.defaults(),
			})

			return srv.Run(cmd.Context())
		},
	}
}
