package ordstat

import "fmt"

// validate returns the first non-nil check result. Checks are built by the
// check* helpers below so every entry point reports the same wording.
func validate(checks ...error) error {
	for _, err := range checks {
		if err != nil {
			return err
		}
	}

	return nil
}

func checkSampleSize(n int) error {
	if n < 1 {
		return fmt.Errorf("%w: n=%d must be >= 1", ErrInvalidInput, n)
	}

	return nil
}

// checkRanks validates a 1-based rank pair against n: 0 <= l <= u <= n+1.
func checkRanks(n, l, u int) error {
	if l < 0 {
		return fmt.Errorf("%w: l=%d must be >= 0", ErrInvalidInput, l)
	}

	if u > n+1 {
		return fmt.Errorf("%w: u=%d must be <= n+1=%d", ErrInvalidInput, u, n+1)
	}

	if u < l {
		return fmt.Errorf("%w: u=%d must be >= l=%d", ErrInvalidInput, u, l)
	}

	return nil
}

func checkProportion(name string, p float64) error {
	if !(p > 0 && p < 1) {
		return fmt.Errorf("%w: %s=%g must be in the range 0 < %s < 1", ErrInvalidInput, name, p, name)
	}

	return nil
}

func checkOffset(k int) error {
	if k < 1 {
		return fmt.Errorf("%w: k=%d must be >= 1", ErrInvalidInput, k)
	}

	return nil
}

func checkConfidence(c float64) error {
	if !(c > 0 && c < 1) {
		return fmt.Errorf("%w: c=%g must be in the range 0 < c < 1", ErrInvalidInput, c)
	}

	return nil
}

func checkMaxSampleSize(nmax int) error {
	if nmax < 1 {
		return fmt.Errorf("%w: nmax=%d must be >= 1", ErrInvalidInput, nmax)
	}

	return nil
}

func checkTolerance(ptol float64) error {
	if !(ptol > 0 && ptol < 1) {
		return fmt.Errorf("%w: ptol=%g must be in the range 0 < ptol < 1", ErrInvalidInput, ptol)
	}

	return nil
}
