package ordstat

import (
	"fmt"
	"strings"

	"github.com/Sumatoshi-tech/ordstat/pkg/levenshtein"
)

// Canonical bound names accepted by the Parse functions and produced by String.
const (
	nameTwoSided      = "2-sided"
	nameOneSided      = "1-sided"
	nameOneSidedLower = "1-sided lower"
	nameOneSidedUpper = "1-sided upper"
)

// ToleranceBound selects the tolerance-interval family variant.
type ToleranceBound int

// Tolerance-interval bound types.
const (
	// ToleranceTwoSided bounds the population between the k-th lowest and k-th highest samples.
	ToleranceTwoSided ToleranceBound = iota
	// ToleranceOneSided bounds the population below the k-th highest sample.
	ToleranceOneSided
)

// String returns the canonical name of the bound.
func (b ToleranceBound) String() string {
	switch b {
	case ToleranceTwoSided:
		return nameTwoSided
	case ToleranceOneSided:
		return nameOneSided
	default:
		return fmt.Sprintf("ToleranceBound(%d)", int(b))
	}
}

func (b ToleranceBound) check() error {
	switch b {
	case ToleranceTwoSided, ToleranceOneSided:
		return nil
	default:
		return fmt.Errorf("%w: unknown tolerance bound %d", ErrInvalidInput, int(b))
	}
}

// ParseToleranceBound parses a tolerance bound name ("2-sided", "1-sided").
func ParseToleranceBound(name string) (ToleranceBound, error) {
	switch normalizeBoundName(name) {
	case nameTwoSided, "two-sided":
		return ToleranceTwoSided, nil
	case nameOneSided, "one-sided":
		return ToleranceOneSided, nil
	default:
		return 0, fmt.Errorf("%w: unknown tolerance bound %q%s", ErrInvalidInput, name,
			levenshtein.Hint(normalizeBoundName(name), nameTwoSided, nameOneSided))
	}
}

// PercentileBound selects the percentile-interval family variant.
type PercentileBound int

// Percentile-interval bound types.
const (
	// PercentileTwoSided brackets the percentile from both sides.
	PercentileTwoSided PercentileBound = iota
	// PercentileOneSidedLower bounds the percentile from below only.
	PercentileOneSidedLower
	// PercentileOneSidedUpper bounds the percentile from above only.
	PercentileOneSidedUpper
)

// String returns the canonical name of the bound.
func (b PercentileBound) String() string {
	switch b {
	case PercentileTwoSided:
		return nameTwoSided
	case PercentileOneSidedLower:
		return nameOneSidedLower
	case PercentileOneSidedUpper:
		return nameOneSidedUpper
	default:
		return fmt.Sprintf("PercentileBound(%d)", int(b))
	}
}

func (b PercentileBound) check() error {
	switch b {
	case PercentileTwoSided, PercentileOneSidedLower, PercentileOneSidedUpper:
		return nil
	default:
		return fmt.Errorf("%w: unknown percentile bound %d", ErrInvalidInput, int(b))
	}
}

// ParsePercentileBound parses a percentile bound name
// ("2-sided", "1-sided lower", "1-sided upper").
func ParsePercentileBound(name string) (PercentileBound, error) {
	switch normalizeBoundName(name) {
	case nameTwoSided, "two-sided":
		return PercentileTwoSided, nil
	case nameOneSidedLower, "one-sided lower", "lower":
		return PercentileOneSidedLower, nil
	case nameOneSidedUpper, "one-sided upper", "upper":
		return PercentileOneSidedUpper, nil
	default:
		return 0, fmt.Errorf("%w: unknown percentile bound %q%s", ErrInvalidInput, name,
			levenshtein.Hint(normalizeBoundName(name), nameTwoSided, nameOneSidedLower, nameOneSidedUpper))
	}
}

// SigmaBound selects how a probability maps onto a normal sigma multiple.
type SigmaBound int

// Sigma conversion bound types.
const (
	// SigmaTwoSided maps p to the symmetric range (-sigma, +sigma).
	SigmaTwoSided SigmaBound = iota
	// SigmaOneSided maps p to the lower tail below sigma.
	SigmaOneSided
)

// String returns the canonical name of the bound.
func (b SigmaBound) String() string {
	switch b {
	case SigmaTwoSided:
		return nameTwoSided
	case SigmaOneSided:
		return nameOneSided
	default:
		return fmt.Sprintf("SigmaBound(%d)", int(b))
	}
}

// ParseSigmaBound parses a sigma bound name ("2-sided", "1-sided").
func ParseSigmaBound(name string) (SigmaBound, error) {
	switch normalizeBoundName(name) {
	case nameTwoSided, "two-sided":
		return SigmaTwoSided, nil
	case nameOneSided, "one-sided":
		return SigmaOneSided, nil
	default:
		return 0, fmt.Errorf("%w: unknown sigma bound %q%s", ErrInvalidInput, name,
			levenshtein.Hint(normalizeBoundName(name), nameTwoSided, nameOneSided))
	}
}

// normalizeBoundName lowercases and collapses "_" and repeated spaces so that
// "1-sided_upper" and "1-Sided  Upper" both match "1-sided upper".
func normalizeBoundName(name string) string {
	name = strings.ToLower(strings.ReplaceAll(name, "_", " "))

	return strings.Join(strings.Fields(name), " ")
}
