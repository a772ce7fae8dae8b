package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	metricRequestsTotal    = "ordstat.requests.total"
	metricRequestDuration  = "ordstat.request.duration.seconds"
	metricErrorsTotal      = "ordstat.errors.total"
	metricInflightRequests = "ordstat.inflight.requests"

	metricSolvesTotal = "ordstat.solves.total"
	metricBatchSize   = "ordstat.batch.size"

	attrOp      = "op"
	attrStatus  = "status"
	attrFamily  = "family"
	attrSolve   = "solve"
	attrOutcome = "outcome"

	// StatusOK marks a request that completed without error.
	StatusOK = "ok"
	// StatusError marks a request that failed.
	StatusError = "error"
)

// Solve outcomes recorded by [SolveMetrics].
const (
	OutcomeFeasible   = "feasible"
	OutcomeInfeasible = "infeasible"
	OutcomeError      = "error"
)

// durationBucketBoundaries spans 100µs single solves to multi-second batches.
var durationBucketBoundaries = []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10}

var batchSizeBoundaries = []float64{1, 10, 100, 1000, 10000}

// REDMetrics holds the OTel instruments for Rate, Error, Duration metrics.
type REDMetrics struct {
	requestsTotal    metric.Int64Counter
	requestDuration  metric.Float64Histogram
	errorsTotal      metric.Int64Counter
	inflightRequests metric.Int64UpDownCounter
}

// NewREDMetrics creates RED metric instruments from the given meter.
func NewREDMetrics(mt metric.Meter) (*REDMetrics, error) {
	reqTotal, err := mt.Int64Counter(metricRequestsTotal,
		metric.WithDescription("Total number of requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRequestsTotal, err)
	}

	reqDuration, err := mt.Float64Histogram(metricRequestDuration,
		metric.WithDescription("Request duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricRequestDuration, err)
	}

	errTotal, err := mt.Int64Counter(metricErrorsTotal,
		metric.WithDescription("Total number of errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricErrorsTotal, err)
	}

	inflight, err := mt.Int64UpDownCounter(metricInflightRequests,
		metric.WithDescription("Number of in-flight requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricInflightRequests, err)
	}

	return &REDMetrics{
		requestsTotal:    reqTotal,
		requestDuration:  reqDuration,
		errorsTotal:      errTotal,
		inflightRequests: inflight,
	}, nil
}

// RecordRequest records a completed request with its operation, status, and duration.
func (rm *REDMetrics) RecordRequest(ctx context.Context, op, status string, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String(attrOp, op),
		attribute.String(attrStatus, status),
	)

	rm.requestsTotal.Add(ctx, 1, attrs)
	rm.requestDuration.Record(ctx, duration.Seconds(), attrs)

	if status == StatusError {
		rm.errorsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String(attrOp, op)))
	}
}

// TrackInflight increments the in-flight gauge and returns a function to decrement it.
func (rm *REDMetrics) TrackInflight(ctx context.Context, op string) func() {
	attrs := metric.WithAttributes(attribute.String(attrOp, op))
	rm.inflightRequests.Add(ctx, 1, attrs)

	return func() {
		rm.inflightRequests.Add(ctx, -1, attrs)
	}
}

// SolveMetrics counts solver outcomes per family and solved-for quantity.
type SolveMetrics struct {
	solvesTotal metric.Int64Counter
	batchSize   metric.Int64Histogram
}

// NewSolveMetrics creates solver metric instruments from the given meter.
func NewSolveMetrics(mt metric.Meter) (*SolveMetrics, error) {
	solves, err := mt.Int64Counter(metricSolvesTotal,
		metric.WithDescription("Solver evaluations by outcome"),
		metric.WithUnit("{solve}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricSolvesTotal, err)
	}

	batch, err := mt.Int64Histogram(metricBatchSize,
		metric.WithDescription("Requests per batch"),
		metric.WithUnit("{request}"),
		metric.WithExplicitBucketBoundaries(batchSizeBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricBatchSize, err)
	}

	return &SolveMetrics{solvesTotal: solves, batchSize: batch}, nil
}

// RecordSolve counts one solver evaluation.
func (sm *SolveMetrics) RecordSolve(ctx context.Context, family, solve, outcome string) {
	sm.solvesTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String(attrFamily, family),
		attribute.String(attrSolve, solve),
		attribute.String(attrOutcome, outcome),
	))
}

// RecordBatch records the size of one batch.
func (sm *SolveMetrics) RecordBatch(ctx context.Context, size int) {
	sm.batchSize.Record(ctx, int64(size))
}

// OutcomeOf classifies a solver result for [SolveMetrics.RecordSolve].
func OutcomeOf(feasible bool, err error) string {
	switch {
	case err != nil:
		return OutcomeError
	case feasible:
		return OutcomeFeasible
	default:
		return OutcomeInfeasible
	}
}
