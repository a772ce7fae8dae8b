// Package server exposes the solvers as a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/ordstat/pkg/observability"
	"github.com/Sumatoshi-tech/ordstat/pkg/solve"
)

// Route patterns.
const (
	RouteSolve   = "POST /v1/solve"
	RouteBatch   = "POST /v1/batch"
	RouteHealth  = "GET /healthz"
	RouteMetrics = "GET /metrics"
)

// defaultMaxBodyBytes caps request bodies when Deps.MaxBodyBytes is unset.
const defaultMaxBodyBytes = 1 << 20

// shutdownTimeout bounds graceful shutdown after the run context ends.
const shutdownTimeout = 5 * time.Second

// Deps holds injectable dependencies for the HTTP API.
// Zero-value fields use production defaults.
type Deps struct {
	// Logger is an optional structured logger. Nil uses slog default.
	Logger *slog.Logger

	// Tracer creates one server span per request. Nil disables tracing.
	Tracer trace.Tracer

	// Metrics is an optional RED metrics recorder.
	Metrics *observability.REDMetrics

	// Solves is an optional solver outcome counter.
	Solves *observability.SolveMetrics

	// MetricsHandler serves GET /metrics. Nil leaves the route unregistered.
	MetricsHandler http.Handler

	// Defaults fills nmax and ptol when a request omits them.
	// The zero value uses [solve.StandardDefaults].
	Defaults solve.Defaults

	// Workers bounds batch concurrency. Values below 1 mean one worker.
	Workers int

	// MaxBodyBytes caps request bodies. Zero means 1 MiB.
	MaxBodyBytes int64

	// RateLimit caps solve and batch requests per second across all
	// clients. Zero disables limiting. RateBurst below 1 defaults to the
	// rate rounded up.
	RateLimit float64
	RateBurst int

	// Version is reported by GET /healthz.
	Version string
}

// Options configures the listening server.
type Options struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// NewHandler builds the API mux wrapped in the request ID, tracing and
// metrics middleware. Only the solver routes are rate limited.
func NewHandler(deps Deps) http.Handler {
	api := newAPI(deps)
	limiter := newLimiter(deps.RateLimit, deps.RateBurst)

	mux := http.NewServeMux()
	mux.HandleFunc(RouteSolve, api.limited(limiter, api.handleSolve))
	mux.HandleFunc(RouteBatch, api.limited(limiter, api.handleBatch))
	mux.Handle(RouteHealth, observability.HealthHandler(deps.Version))

	if deps.MetricsHandler != nil {
		mux.Handle(RouteMetrics, deps.MetricsHandler)
	}

	tracer := deps.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("")
	}

	return withRequestID(observability.HTTPMiddleware(tracer, deps.Metrics, mux))
}

// Run listens on opts.Addr and serves handler until ctx is canceled, then
// shuts down gracefully. ready, when non-nil, receives the bound address.
func Run(ctx context.Context, opts Options, handler http.Handler, logger *slog.Logger, ready chan<- string) error {
	var lc net.ListenConfig

	listener, err := lc.Listen(ctx, "tcp", opts.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", opts.Addr, err)
	}

	srv := &http.Server{
		Handler:      handler,
		ReadTimeout:  opts.ReadTimeout,
		WriteTimeout: opts.WriteTimeout,
	}

	serveErr := make(chan error, 1)

	go func() {
		serveErr <- srv.Serve(listener)
	}()

	logger.InfoContext(ctx, "ordstat API listening", "addr", listener.Addr().String())

	if ready != nil {
		ready <- listener.Addr().String()
	}

	select {
	case err = <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	err = srv.Shutdown(shutdownCtx)
	if err != nil {
		return fmt.Errorf("shutdown server: %w", err)
	}

	return nil
}
