package ordstat

import (
	"fmt"
	"math"
)

// Operation names used in diagnostics.
const (
	opPercentileSampleSize = "percentile sample size"
	opPercentileOffset     = "percentile order statistic"
)

// PercentileRanks returns the 1-based rank pair (l, u) that sits k ranks
// outside the P-th percentile rank of n sorted samples. Two-sided pairs widen
// both ways from (iPl, iPu); one-sided pairs run to rank 0 or n+1, which
// stand for -Inf and +Inf.
//
// The pair is not range-checked; callers decide whether an out-of-range
// pair is an input error or an infeasible candidate.
func PercentileRanks(n int, P float64, k int, bound PercentileBound) (l, u int, err error) {
	idx := PercentileIndex(n, P)

	switch bound {
	case PercentileTwoSided:
		return idx.Lower - k, idx.Upper + k, nil
	case PercentileOneSidedUpper:
		return 0, idx.Upper + k, nil
	case PercentileOneSidedLower:
		return idx.Lower - k, n + 1, nil
	default:
		return 0, 0, bound.check()
	}
}

func ranksInRange(n, l, u int) bool {
	return l >= 0 && u <= n+1
}

// PercentileConfidence returns the confidence that the order statistics k
// ranks outside the P-th percentile rank of n samples bound the population
// P-th percentile. Rank pairs that fall outside [0, n+1] are an input error.
//
// For example, PercentileConfidence(1000, 11, 0.95, PercentileOneSidedUpper)
// is about 0.9566: the 962nd of 1000 sorted samples exceeds the 95th
// percentile with 95.66% confidence.
func PercentileConfidence(n, k int, P float64, bound PercentileBound) (float64, error) {
	err := validate(checkSampleSize(n), checkOffset(k), checkProportion("P", P), bound.check())
	if err != nil {
		return 0, err
	}

	l, u, err := PercentileRanks(n, P, k, bound)
	if err != nil {
		return 0, err
	}

	if !ranksInRange(n, l, u) {
		return 0, fmt.Errorf("%w: l=%d or u=%d outside the valid ranks [0, %d] (iP=%g, k=%d)",
			ErrInvalidInput, l, u, n+1, P*float64(n+1), k)
	}

	return PercentileCoverage(n, l, u, P)
}

func percentileCoverageAt(n, k int, P float64, bound PercentileBound) (float64, error) {
	l, u, err := PercentileRanks(n, P, k, bound)
	if err != nil {
		return 0, err
	}

	return PercentileCoverage(n, l, u, P)
}

// PercentileOffset returns the tightest order statistic for the P-th
// percentile of n samples: the smallest k whose rank pair reaches confidence
// c. The bracket is [1, kmax] where kmax keeps the pair inside [0, n+1];
// when even kmax falls short the solution is infeasible.
func PercentileOffset(n int, P, c float64, bound PercentileBound) (Solution[int], error) {
	err := validate(checkSampleSize(n), checkProportion("P", P), checkConfidence(c), bound.check())
	if err != nil {
		return Solution[int]{}, err
	}

	idx := PercentileIndex(n, P)

	var kmax int

	switch bound {
	case PercentileTwoSided:
		kmax = min(idx.Lower, n+1-idx.Upper)
	case PercentileOneSidedUpper:
		kmax = n + 1 - idx.Upper
	case PercentileOneSidedLower:
		kmax = idx.Lower
	}

	diag := func(constraint string) *Diagnostic {
		return &Diagnostic{
			Op: opPercentileOffset,
			Params: []Param{
				intParam("n", n), floatParam("P", P), floatParam("c", c), boundParam(bound),
			},
			Constraint: constraint,
			Remedy:     "increase n or loosen c",
		}
	}

	if kmax < 1 {
		return infeasible[int](diag(
			"no order statistic lies beyond the percentile rank (kmax=" + itoa(kmax) + ")",
		)), nil
	}

	feasible := func(k int) (bool, error) {
		cov, covErr := percentileCoverageAt(n, k, P, bound)

		return cov >= c, covErr
	}

	widest, err := percentileCoverageAt(n, kmax, P, bound)
	if err != nil {
		return Solution[int]{}, err
	}

	if widest < c {
		return infeasible[int](diag(
			"coverage at kmax=" + itoa(kmax) + " is " + ftoa(widest) + " < c, n is too small at any order statistic",
		)), nil
	}

	ok, err := feasible(1)
	if err != nil {
		return Solution[int]{}, err
	}

	if ok {
		return solved(1), nil
	}

	k, err := firstTrue(1, kmax, feasible)
	if err != nil {
		return Solution[int]{}, err
	}

	return solved(k), nil
}

// PercentileSampleSize returns the sample size at which the order statistics
// k ranks outside the P-th percentile rank bound the population P-th
// percentile with confidence c.
//
// Coverage at a fixed k shrinks as n grows, because the percentile rank
// moves away from the extremes while the bracket stays k wide. The search
// starts at nmin = ceil(max(k/P-1, k/(1-P)-1)), the first n where the
// bracket fits inside the sample, and bisects up to nmax for the largest n
// that still reaches c. The percentile rank is re-derived at every
// candidate. If coverage at nmin already falls short, or nmax < nmin, the
// solution is infeasible.
//
// For example, PercentileSampleSize(10, 0.50, 0.95, DefaultMaxSampleSize,
// PercentileTwoSided) is 108.
func PercentileSampleSize(k int, P, c float64, nmax int, bound PercentileBound) (Solution[int], error) {
	err := validate(checkOffset(k), checkProportion("P", P), checkConfidence(c),
		checkMaxSampleSize(nmax), bound.check())
	if err != nil {
		return Solution[int]{}, err
	}

	nmin := nmax + 1

	nminF := math.Ceil(math.Max(float64(k)/P-1, float64(k)/(1-P)-1))
	if nminF <= float64(nmax) {
		nmin = max(1, int(nminF))
	}

	// Floating-point rounding in P*(n+1) can leave the bracket one rank
	// outside the sample at the analytic nmin.
	for i := 0; i < MaxSteps && nmin <= nmax; i++ {
		l, u, rankErr := PercentileRanks(nmin, P, k, bound)
		if rankErr != nil {
			return Solution[int]{}, rankErr
		}

		if ranksInRange(nmin, l, u) {
			break
		}

		nmin++
	}

	diag := func(constraint, remedy string) *Diagnostic {
		return &Diagnostic{
			Op: opPercentileSampleSize,
			Params: []Param{
				intParam("k", k), floatParam("P", P), floatParam("c", c),
				intParam("nmin", nmin), intParam("nmax", nmax), boundParam(bound),
			},
			Constraint: constraint,
			Remedy:     remedy,
		}
	}

	if nmax < nmin {
		return infeasible[int](diag(
			"nmax is below the smallest sample size that fits the bracket",
			"increase nmax or lower k",
		)), nil
	}

	feasible := func(n int) (bool, error) {
		cov, covErr := percentileCoverageAt(n, k, P, bound)

		return cov >= c, covErr
	}

	first, err := percentileCoverageAt(nmin, k, P, bound)
	if err != nil {
		return Solution[int]{}, err
	}

	if first < c {
		return infeasible[int](diag(
			"coverage at n=nmin is "+ftoa(first)+" < c",
			"raise k or loosen c",
		)), nil
	}

	ok, err := feasible(nmax)
	if err != nil {
		return Solution[int]{}, err
	}

	if ok {
		return solved(nmax), nil
	}

	n, err := lastTrue(nmin, nmax, feasible)
	if err != nil {
		return Solution[int]{}, err
	}

	return solved(n), nil
}
