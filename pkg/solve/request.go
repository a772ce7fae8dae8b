// Package solve dispatches solver requests by name to pkg/ordstat. It is the
// shared layer behind batch files, the MCP tools, and the HTTP API.
package solve

import (
	"errors"
	"fmt"

	"github.com/Sumatoshi-tech/ordstat/pkg/levenshtein"
	"github.com/Sumatoshi-tech/ordstat/pkg/ordstat"
)

// Sentinel dispatch errors. Engine input errors wrap [ordstat.ErrInvalidInput].
var (
	ErrUnknownFamily = errors.New("unknown family")
	ErrUnknownSolve  = errors.New("unknown solve target")
)

// Family names the interval family a request belongs to.
type Family string

// Families.
const (
	FamilyTolerance  Family = "tolerance"
	FamilyPercentile Family = "percentile"
	FamilySigma      Family = "sigma"
)

// Target names the quantity a request solves for.
type Target string

// Solve targets. Tolerance accepts n, p, k, c; percentile accepts n, k, c;
// sigma accepts sigma and pct.
const (
	TargetN     Target = "n"
	TargetP     Target = "p"
	TargetK     Target = "k"
	TargetC     Target = "c"
	TargetSigma Target = "sigma"
	TargetPct   Target = "pct"
)

// Request is one solver invocation. P is the population proportion for the
// tolerance family, the percentile for the percentile family, and the
// probability for sigma conversions. Zero NMax and PTol take the [Defaults].
type Request struct {
	Family Family  `json:"family"          yaml:"family"`
	Solve  Target  `json:"solve"           yaml:"solve"`
	N      int     `json:"n,omitempty"     yaml:"n,omitempty"`
	K      int     `json:"k,omitempty"     yaml:"k,omitempty"`
	P      float64 `json:"p,omitempty"     yaml:"p,omitempty"`
	C      float64 `json:"c,omitempty"     yaml:"c,omitempty"`
	Sigma  float64 `json:"sigma,omitempty" yaml:"sigma,omitempty"`
	NMax   int     `json:"nmax,omitempty"  yaml:"nmax,omitempty"`
	PTol   float64 `json:"ptol,omitempty"  yaml:"ptol,omitempty"`
	Bound  string  `json:"bound,omitempty" yaml:"bound,omitempty"`
}

// Response is the outcome of a [Request]. Value is meaningful only when
// Feasible is true. Error is set only by [RunBatch], for requests that failed.
type Response struct {
	Request    Request             `json:"request"              yaml:"request"`
	Value      float64             `json:"value"                yaml:"value"`
	Feasible   bool                `json:"feasible"             yaml:"feasible"`
	Diagnostic *ordstat.Diagnostic `json:"diagnostic,omitempty" yaml:"diagnostic,omitempty"`
	Error      string              `json:"error,omitempty"      yaml:"error,omitempty"`
}

// Defaults fills request fields left at zero.
type Defaults struct {
	NMax int
	PTol float64
}

// StandardDefaults are the engine's own search limits.
var StandardDefaults = Defaults{NMax: ordstat.DefaultMaxSampleSize, PTol: ordstat.DefaultPTol}

// Run evaluates req after filling zero NMax and PTol from defaults.
// Invalid input and non-convergence are returned as errors; an infeasible
// request is a Response with Feasible false and a Diagnostic.
func Run(req Request, defaults Defaults) (Response, error) {
	if req.NMax == 0 {
		req.NMax = defaults.NMax
	}

	if req.PTol == 0 {
		req.PTol = defaults.PTol
	}

	var (
		resp Response
		err  error
	)

	switch req.Family {
	case FamilyTolerance:
		resp, err = runTolerance(req)
	case FamilyPercentile:
		resp, err = runPercentile(req)
	case FamilySigma:
		resp, err = runSigma(req)
	default:
		return Response{}, fmt.Errorf("%w: %q (want tolerance, percentile or sigma)%s", ErrUnknownFamily, req.Family,
			levenshtein.Hint(string(req.Family), string(FamilyTolerance), string(FamilyPercentile), string(FamilySigma)))
	}

	if err != nil {
		return Response{}, err
	}

	resp.Request = req

	return resp, nil
}

func runTolerance(req Request) (Response, error) {
	bound, err := ordstat.ParseToleranceBound(boundOrDefault(req.Bound))
	if err != nil {
		return Response{}, err
	}

	switch req.Solve {
	case TargetN:
		return fromInt(ordstat.ToleranceSampleSize(req.K, req.P, req.C, req.NMax, bound))
	case TargetP:
		return fromFloat(ordstat.ToleranceProportion(req.N, req.K, req.C, req.PTol, bound))
	case TargetK:
		return fromInt(ordstat.ToleranceOffset(req.N, req.P, req.C, bound))
	case TargetC:
		return fromValue(ordstat.ToleranceConfidence(req.N, req.K, req.P, bound))
	default:
		return Response{}, unknownTarget(req)
	}
}

func runPercentile(req Request) (Response, error) {
	bound, err := ordstat.ParsePercentileBound(boundOrDefault(req.Bound))
	if err != nil {
		return Response{}, err
	}

	switch req.Solve {
	case TargetN:
		return fromInt(ordstat.PercentileSampleSize(req.K, req.P, req.C, req.NMax, bound))
	case TargetK:
		return fromInt(ordstat.PercentileOffset(req.N, req.P, req.C, bound))
	case TargetC:
		return fromValue(ordstat.PercentileConfidence(req.N, req.K, req.P, bound))
	default:
		return Response{}, unknownTarget(req)
	}
}

func runSigma(req Request) (Response, error) {
	bound, err := ordstat.ParseSigmaBound(boundOrDefault(req.Bound))
	if err != nil {
		return Response{}, err
	}

	switch req.Solve {
	case TargetSigma:
		return fromValue(ordstat.PctToSigma(req.P, bound))
	case TargetPct:
		return fromValue(ordstat.SigmaToPct(req.Sigma, bound))
	default:
		return Response{}, unknownTarget(req)
	}
}

func boundOrDefault(bound string) string {
	if bound == "" {
		return "2-sided"
	}

	return bound
}

func unknownTarget(req Request) error {
	return fmt.Errorf("%w: %q for family %s", ErrUnknownSolve, req.Solve, req.Family)
}

func fromInt(sol ordstat.Solution[int], err error) (Response, error) {
	if err != nil {
		return Response{}, err
	}

	return Response{Value: float64(sol.Value), Feasible: sol.Feasible, Diagnostic: sol.Diagnostic}, nil
}

func fromFloat(sol ordstat.Solution[float64], err error) (Response, error) {
	if err != nil {
		return Response{}, err
	}

	return Response{Value: sol.Value, Feasible: sol.Feasible, Diagnostic: sol.Diagnostic}, nil
}

func fromValue(v float64, err error) (Response, error) {
	if err != nil {
		return Response{}, err
	}

	return Response{Value: v, Feasible: true}, nil
}
