package commands

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/ordstat/pkg/observability"
	"github.com/Sumatoshi-tech/ordstat/pkg/server"
	"github.com/Sumatoshi-tech/ordstat/pkg/version"
)

const (
	flagHost = "host"
	flagPort = "port"
)

func newServeCommand(state *app) *cobra.Command {
	return buildServeCommand(state, nil)
}

// buildServeCommand sends the bound address on ready, when non-nil, once the
// API listens.
func buildServeCommand(state *app, ready chan<- string) *cobra.Command {
	var (
		host string
		port int
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the JSON HTTP API",
		Long: `Serve the solvers over HTTP:
  POST /v1/solve   one request, as in a batch file entry
  POST /v1/batch   a batch file body {"requests": [...]}
  GET  /healthz    liveness
  GET  /metrics    Prometheus scrape`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			serverCfg := state.cfg.Server
			if cmd.Flags().Changed(flagHost) {
				serverCfg.Host = host
			}

			if cmd.Flags().Changed(flagPort) {
				serverCfg.Port = port
			}

			maxBody, err := serverCfg.MaxBodyBytes()
			if err != nil {
				return err
			}

			obsCfg, err := state.observabilityConfig(observability.ModeServe)
			if err != nil {
				return err
			}

			providers, err := observability.InitWithWriter(obsCfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			promHandler, promProvider, err := observability.PrometheusHandler()
			if err != nil {
				return errors.Join(err, providers.Shutdown(context.Background()))
			}

			defer func() {
				shutdownErr := errors.Join(
					promProvider.Shutdown(context.Background()),
					providers.Shutdown(context.Background()),
				)
				if shutdownErr != nil {
					providers.Logger.Warn("observability shutdown failed", "error", shutdownErr)
				}
			}()

			meter := promProvider.Meter("ordstat")

			red, err := observability.NewREDMetrics(meter)
			if err != nil {
				return err
			}

			solves, err := observability.NewSolveMetrics(meter)
			if err != nil {
				return err
			}

			handler := server.NewHandler(server.Deps{
				Logger:         providers.Logger,
				Tracer:         providers.Tracer,
				Metrics:        red,
				Solves:         solves,
				MetricsHandler: promHandler,
				Defaults:       state.defaults(),
				Workers:        state.cfg.Batch.Workers,
				MaxBodyBytes:   maxBody,
				RateLimit:      serverCfg.RateLimit,
				RateBurst:      serverCfg.RateBurst,
				Version:        version.Version,
			})

			return server.Run(cmd.Context(), server.Options{
				Addr:         serverCfg.Addr(),
				ReadTimeout:  serverCfg.ReadTimeout,
				WriteTimeout: serverCfg.WriteTimeout,
			}, handler, providers.Logger, ready)
		},
	}

	cmd.Flags().StringVar(&host, flagHost, "", "listen host (default server.host)")
	cmd.Flags().IntVar(&port, flagPort, 0, "listen port (default server.port)")

	return cmd
}
