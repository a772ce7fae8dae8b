package ordstat

import "fmt"

// MaxSteps caps every bisection. An integer bracket of width 2^63 closes in
// 63 steps, so reaching the cap signals a broken predicate or tolerance.
const MaxSteps = 1000

type intPredicate func(x int) (bool, error)

type floatPredicate func(x float64) (bool, error)

// midpoint returns lo + ceil((hi-lo)/2).
func midpoint(lo, hi int) int {
	return lo + (hi-lo+1)/2
}

// firstTrue returns the smallest x in (lo, hi] for which ok holds.
// The caller guarantees !ok(lo) and ok(hi).
func firstTrue(lo, hi int, ok intPredicate) (int, error) {
	for range MaxSteps {
		if hi-lo <= 1 {
			return hi, nil
		}

		mid := midpoint(lo, hi)

		pass, err := ok(mid)
		if err != nil {
			return 0, err
		}

		if pass {
			hi = mid
		} else {
			lo = mid
		}
	}

	return 0, fmt.Errorf("%w: bracket [%d, %d] still open after %d steps", ErrNoConvergence, lo, hi, MaxSteps)
}

// lastTrue returns the largest x in [lo, hi) for which ok holds.
// The caller guarantees ok(lo) and !ok(hi).
func lastTrue(lo, hi int, ok intPredicate) (int, error) {
	for range MaxSteps {
		if hi-lo <= 1 {
			return lo, nil
		}

		mid := midpoint(lo, hi)

		pass, err := ok(mid)
		if err != nil {
			return 0, err
		}

		if pass {
			lo = mid
		} else {
			hi = mid
		}
	}

	return 0, fmt.Errorf("%w: bracket [%d, %d] still open after %d steps", ErrNoConvergence, lo, hi, MaxSteps)
}

// lastTrueFloat narrows [lo, hi] until its half-width is at most tol and
// returns the side on which ok held. Neither endpoint is evaluated.
func lastTrueFloat(lo, hi, tol float64, ok floatPredicate) (float64, error) {
	for range MaxSteps {
		step := (hi - lo) / 2
		if step <= tol {
			return lo, nil
		}

		mid := lo + step

		pass, err := ok(mid)
		if err != nil {
			return 0, err
		}

		if pass {
			lo = mid
		} else {
			hi = mid
		}
	}

	return 0, fmt.Errorf("%w: bracket [%g, %g] wider than tol=%g after %d steps", ErrNoConvergence, lo, hi, tol, MaxSteps)
}
