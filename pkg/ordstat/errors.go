package ordstat

import "errors"

// Sentinel errors. Infeasible requests are not errors; see [Solution].
var (
	// ErrInvalidInput indicates a parameter outside its declared domain.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoConvergence indicates a bisection ran out of steps before the
	// bracket closed, meaning the search range is too large to resolve.
	ErrNoConvergence = errors.New("bisection did not converge")
)
