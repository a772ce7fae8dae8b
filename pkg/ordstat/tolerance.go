package ordstat

// DefaultPTol is the default bisection tolerance for [ToleranceProportion].
const DefaultPTol = 1e-9

// DefaultMaxSampleSize is the default search ceiling for the sample-size solvers.
const DefaultMaxSampleSize = 10_000_000

// Operation names used in diagnostics.
const (
	opToleranceSampleSize = "tolerance sample size"
	opToleranceProportion = "tolerance proportion"
	opToleranceOffset     = "tolerance order statistic"
)

// ToleranceRanks returns the 1-based rank pair (l, u) of the order statistics
// k in from each end of n samples. One-sided intervals have no lower rank (l=0).
func ToleranceRanks(n, k int, bound ToleranceBound) (l, u int, err error) {
	err = bound.check()
	if err != nil {
		return 0, 0, err
	}

	if bound == ToleranceTwoSided {
		l = k
	}

	return l, n + 1 - k, nil
}

func toleranceCoverageAt(n, k int, p float64, bound ToleranceBound) (float64, error) {
	l, u, err := ToleranceRanks(n, k, bound)
	if err != nil {
		return 0, err
	}

	return ToleranceCoverage(n, l, u, p)
}

// ToleranceConfidence returns the confidence that the order statistics k in
// from each end of n samples (or from the top only, one-sided) enclose at
// least a fraction p of the population.
func ToleranceConfidence(n, k int, p float64, bound ToleranceBound) (float64, error) {
	err := validate(checkSampleSize(n), checkOffset(k), checkProportion("p", p), bound.check())
	if err != nil {
		return 0, err
	}

	return toleranceCoverageAt(n, k, p, bound)
}

// ToleranceSampleSize returns the minimum n for which the k-th order
// statistic from each end bounds a fraction p of the population with
// confidence c. The search is capped at nmax; if n=nmax still falls short
// the solution is infeasible.
//
// For example, ToleranceSampleSize(2, 0.99, 0.90, DefaultMaxSampleSize,
// ToleranceTwoSided) is 667: sorted(x)[1] and sorted(x)[665] bracket 99% of
// the population with 90% confidence.
func ToleranceSampleSize(k int, p, c float64, nmax int, bound ToleranceBound) (Solution[int], error) {
	err := validate(checkOffset(k), checkProportion("p", p), checkConfidence(c),
		checkMaxSampleSize(nmax), bound.check())
	if err != nil {
		return Solution[int]{}, err
	}

	diag := func(constraint, remedy string) *Diagnostic {
		return &Diagnostic{
			Op: opToleranceSampleSize,
			Params: []Param{
				intParam("k", k), floatParam("p", p), floatParam("c", c),
				intParam("nmax", nmax), boundParam(bound),
			},
			Constraint: constraint,
			Remedy:     remedy,
		}
	}

	// Smallest n with a well-formed rank pair.
	nmin := k
	if bound == ToleranceTwoSided {
		nmin = 2*k - 1
	}

	if nmax < nmin {
		return infeasible[int](diag(
			"nmax is below the smallest sample size with a valid rank pair ("+itoa(nmin)+")",
			"increase nmax or lower k",
		)), nil
	}

	feasible := func(n int) (bool, error) {
		cov, covErr := toleranceCoverageAt(n, k, p, bound)

		return cov >= c, covErr
	}

	top, err := toleranceCoverageAt(nmax, k, p, bound)
	if err != nil {
		return Solution[int]{}, err
	}

	if top < c {
		return infeasible[int](diag(
			"coverage at n=nmax is "+ftoa(top)+" < c",
			"increase nmax or loosen p or c",
		)), nil
	}

	ok, err := feasible(nmin)
	if err != nil {
		return Solution[int]{}, err
	}

	if ok {
		return solved(nmin), nil
	}

	n, err := firstTrue(nmin, nmax, feasible)
	if err != nil {
		return Solution[int]{}, err
	}

	return solved(n), nil
}

// ToleranceProportion returns the largest population fraction p that the
// order statistics k in from each end of n samples bound with confidence c,
// resolved to within ptol.
func ToleranceProportion(n, k int, c, ptol float64, bound ToleranceBound) (Solution[float64], error) {
	err := validate(checkSampleSize(n), checkOffset(k), checkConfidence(c),
		checkTolerance(ptol), bound.check())
	if err != nil {
		return Solution[float64]{}, err
	}

	l, u, err := ToleranceRanks(n, k, bound)
	if err != nil {
		return Solution[float64]{}, err
	}

	err = checkRanks(n, l, u)
	if err != nil {
		return Solution[float64]{}, err
	}

	diag := func(constraint, remedy string) *Diagnostic {
		return &Diagnostic{
			Op: opToleranceProportion,
			Params: []Param{
				intParam("n", n), intParam("k", k), floatParam("c", c),
				floatParam("ptol", ptol), boundParam(bound),
			},
			Constraint: constraint,
			Remedy:     remedy,
		}
	}

	if u-l-1 < 0 {
		return infeasible[float64](diag(
			"ranks l="+itoa(l)+" and u="+itoa(u)+" enclose no samples",
			"lower k or increase n",
		)), nil
	}

	p, err := lastTrueFloat(0, 1, ptol, func(p float64) (bool, error) {
		cov, covErr := ToleranceCoverage(n, l, u, p)

		return cov >= c, covErr
	})
	if err != nil {
		return Solution[float64]{}, err
	}

	if p <= 0 {
		return infeasible[float64](diag(
			"no p above ptol reaches c",
			"loosen c, lower k, or increase n",
		)), nil
	}

	return solved(p), nil
}

// ToleranceOffset returns the largest k (the tightest order statistics) in
// [1, ceil(n/2)] that still bound a fraction p of the population with
// confidence c. If even k=1 falls short, n is too small and the solution is
// infeasible.
func ToleranceOffset(n int, p, c float64, bound ToleranceBound) (Solution[int], error) {
	err := validate(checkSampleSize(n), checkProportion("p", p), checkConfidence(c), bound.check())
	if err != nil {
		return Solution[int]{}, err
	}

	feasible := func(k int) (bool, error) {
		cov, covErr := toleranceCoverageAt(n, k, p, bound)

		return cov >= c, covErr
	}

	kmax := (n + 1) / 2

	widest, err := toleranceCoverageAt(n, 1, p, bound)
	if err != nil {
		return Solution[int]{}, err
	}

	if widest < c {
		return infeasible[int](&Diagnostic{
			Op: opToleranceOffset,
			Params: []Param{
				intParam("n", n), floatParam("p", p), floatParam("c", c), boundParam(bound),
			},
			Constraint: "coverage at k=1 is " + ftoa(widest) + " < c, n is too small at any order statistic",
			Remedy:     "increase n or loosen p or c",
		}), nil
	}

	ok, err := feasible(kmax)
	if err != nil {
		return Solution[int]{}, err
	}

	if ok {
		return solved(kmax), nil
	}

	k, err := lastTrue(1, kmax, feasible)
	if err != nil {
		return Solution[int]{}, err
	}

	return solved(k), nil
}
