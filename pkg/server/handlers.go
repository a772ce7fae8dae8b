package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Sumatoshi-tech/ordstat/pkg/observability"
	"github.com/Sumatoshi-tech/ordstat/pkg/ordstat"
	"github.com/Sumatoshi-tech/ordstat/pkg/solve"
)

var errRateLimited = errors.New("rate limit exceeded")

// ErrorResponse is the body of every non-200 reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// BatchResponse is the body of a successful POST /v1/batch.
type BatchResponse struct {
	Responses  []solve.Response `json:"responses"`
	Infeasible int              `json:"infeasible"`
	Failed     int              `json:"failed"`
}

type api struct {
	logger   *slog.Logger
	solves   *observability.SolveMetrics
	defaults solve.Defaults
	workers  int
	maxBody  int64
}

func newAPI(deps Deps) *api {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	defaults := deps.Defaults
	if defaults == (solve.Defaults{}) {
		defaults = solve.StandardDefaults
	}

	maxBody := deps.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}

	return &api{logger: logger, solves: deps.Solves, defaults: defaults, workers: deps.Workers, maxBody: maxBody}
}

func (a *api) handleSolve(rw http.ResponseWriter, hr *http.Request) {
	ctx := hr.Context()

	var req solve.Request

	dec := json.NewDecoder(http.MaxBytesReader(rw, hr.Body, a.maxBody))
	dec.DisallowUnknownFields()

	decodeErr := dec.Decode(&req)
	if decodeErr != nil {
		a.writeError(ctx, rw, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", decodeErr))

		return
	}

	resp, err := solve.Run(req, a.defaults)
	a.record(ctx, req, resp.Feasible, err)

	if err != nil {
		a.writeError(ctx, rw, statusFor(err), err)

		return
	}

	if !resp.Feasible {
		a.logger.WarnContext(ctx, "infeasible", "request_id", RequestID(ctx), "diagnostic", resp.Diagnostic.String())
	}

	a.writeJSON(ctx, rw, http.StatusOK, resp)
}

func (a *api) handleBatch(rw http.ResponseWriter, hr *http.Request) {
	ctx := hr.Context()

	reqs, err := solve.DecodeBatch(http.MaxBytesReader(rw, hr.Body, a.maxBody), solve.FormatJSON)
	if err != nil {
		a.writeError(ctx, rw, http.StatusBadRequest, err)

		return
	}

	responses, err := solve.RunBatch(ctx, reqs, a.defaults, a.workers)
	if err != nil {
		a.writeError(ctx, rw, http.StatusServiceUnavailable, err)

		return
	}

	if a.solves != nil {
		a.solves.RecordBatch(ctx, len(reqs))
	}

	body := BatchResponse{Responses: responses}

	for _, resp := range responses {
		var respErr error
		if resp.Error != "" {
			respErr = errors.New(resp.Error)
			body.Failed++
		} else if !resp.Feasible {
			body.Infeasible++
		}

		a.record(ctx, resp.Request, resp.Feasible, respErr)
	}

	a.writeJSON(ctx, rw, http.StatusOK, body)
}

func (a *api) record(ctx context.Context, req solve.Request, feasible bool, err error) {
	if a.solves == nil {
		return
	}

	a.solves.RecordSolve(ctx, string(req.Family), string(req.Solve), observability.OutcomeOf(feasible, err))
}

// statusFor maps solver errors to HTTP status codes: non-convergence is a
// server fault, everything else is the caller's input.
func statusFor(err error) int {
	if errors.Is(err, ordstat.ErrNoConvergence) {
		return http.StatusInternalServerError
	}

	return http.StatusBadRequest
}

func (a *api) writeError(ctx context.Context, rw http.ResponseWriter, status int, err error) {
	a.logger.DebugContext(ctx, "request rejected", "status", status, "request_id", RequestID(ctx), "error", err)
	a.writeJSON(ctx, rw, status, ErrorResponse{Error: err.Error()})
}

// writeJSON encodes the given value as JSON and writes it to the response writer.
func (a *api) writeJSON(ctx context.Context, rw http.ResponseWriter, status int, value any) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)

	encodeErr := json.NewEncoder(rw).Encode(value)
	if encodeErr != nil {
		a.logger.ErrorContext(ctx, "failed to encode JSON response", "error", encodeErr)
	}
}
