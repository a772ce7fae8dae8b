package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Sumatoshi-tech/ordstat/pkg/observability"
	"github.com/Sumatoshi-tech/ordstat/pkg/solve"
)

// Tool name constants.
const (
	ToolNameTolerance  = "ordstat_tolerance"
	ToolNamePercentile = "ordstat_percentile"
	ToolNameSigma      = "ordstat_sigma"
)

// Input types (auto-generate JSON schemas via struct tags).

// ToleranceInput is the input schema for the ordstat_tolerance tool.
type ToleranceInput struct {
	Solve string  `json:"solve"           jsonschema:"quantity to solve for: n, p, k or c"`
	N     int     `json:"n,omitempty"     jsonschema:"sample size"`
	K     int     `json:"k,omitempty"     jsonschema:"order statistic offset from each end"`
	P     float64 `json:"p,omitempty"     jsonschema:"population proportion the interval covers"`
	C     float64 `json:"c,omitempty"     jsonschema:"confidence level"`
	NMax  int     `json:"nmax,omitempty"  jsonschema:"sample size search ceiling (default from config)"`
	PTol  float64 `json:"ptol,omitempty"  jsonschema:"proportion bisection tolerance (default from config)"`
	Bound string  `json:"bound,omitempty" jsonschema:"2-sided or 1-sided"`
}

// PercentileInput is the input schema for the ordstat_percentile tool.
type PercentileInput struct {
	Solve string  `json:"solve"           jsonschema:"quantity to solve for: n, k or c"`
	N     int     `json:"n,omitempty"     jsonschema:"sample size"`
	K     int     `json:"k,omitempty"     jsonschema:"rank offset from the percentile rank"`
	P     float64 `json:"p,omitempty"     jsonschema:"percentile as a fraction (0.5 is the median)"`
	C     float64 `json:"c,omitempty"     jsonschema:"confidence level"`
	NMax  int     `json:"nmax,omitempty"  jsonschema:"sample size search ceiling (default from config)"`
	Bound string  `json:"bound,omitempty" jsonschema:"2-sided, 1-sided lower or 1-sided upper"`
}

// SigmaInput is the input schema for the ordstat_sigma tool.
type SigmaInput struct {
	Solve string  `json:"solve"           jsonschema:"sigma (probability to sigma) or pct (sigma to probability)"`
	P     float64 `json:"p,omitempty"     jsonschema:"probability to convert"`
	Sigma float64 `json:"sigma,omitempty" jsonschema:"sigma multiple to convert"`
	Bound string  `json:"bound,omitempty" jsonschema:"2-sided or 1-sided"`
}

// Output type (used as structured output for generic AddTool).

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

func (s *Server) handleTolerance(
	ctx context.Context, _ *mcpsdk.CallToolRequest, in ToleranceInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return s.run(ctx, solve.Request{
		Family: solve.FamilyTolerance, Solve: solve.Target(in.Solve),
		N: in.N, K: in.K, P: in.P, C: in.C, NMax: in.NMax, PTol: in.PTol, Bound: in.Bound,
	})
}

func (s *Server) handlePercentile(
	ctx context.Context, _ *mcpsdk.CallToolRequest, in PercentileInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return s.run(ctx, solve.Request{
		Family: solve.FamilyPercentile, Solve: solve.Target(in.Solve),
		N: in.N, K: in.K, P: in.P, C: in.C, NMax: in.NMax, Bound: in.Bound,
	})
}

func (s *Server) handleSigma(
	ctx context.Context, _ *mcpsdk.CallToolRequest, in SigmaInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return s.run(ctx, solve.Request{
		Family: solve.FamilySigma, Solve: solve.Target(in.Solve),
		P: in.P, Sigma: in.Sigma, Bound: in.Bound,
	})
}

// run evaluates req. Invalid requests become error results; infeasible ones
// are ordinary results carrying the diagnostic.
func (s *Server) run(ctx context.Context, req solve.Request) (*mcpsdk.CallToolResult, ToolOutput, error) {
	resp, err := solve.Run(req, s.defaults)

	if s.solves != nil {
		s.solves.RecordSolve(ctx, string(req.Family), string(req.Solve), observability.OutcomeOf(resp.Feasible, err))
	}

	if err != nil {
		return errorResult(err)
	}

	if !resp.Feasible {
		s.logger.WarnContext(ctx, "infeasible", "diagnostic", resp.Diagnostic.String())
	}

	return jsonResult(resp)
}

// Result helpers.

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: value}, nil
}
