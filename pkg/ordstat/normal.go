package ordstat

import (
	"fmt"

	"github.com/aclements/go-moremath/stats"
)

// PctToSigma converts a probability to a standard-normal sigma multiple.
//
// Two-sided: the sigma for which (-sigma, +sigma) covers p of the normal
// distribution. For p < 0.5 the result is the negative lower-tail quantile
// Φ⁻¹(p/2). One-sided: Φ⁻¹(p).
func PctToSigma(p float64, bound SigmaBound) (float64, error) {
	err := checkProportion("p", p)
	if err != nil {
		return 0, err
	}

	switch bound {
	case SigmaTwoSided:
		if p >= 0.5 {
			return stats.StdNormal.InvCDF(1 - (1-p)/2), nil
		}

		return stats.StdNormal.InvCDF(p / 2), nil
	case SigmaOneSided:
		return stats.StdNormal.InvCDF(p), nil
	default:
		return 0, fmt.Errorf("%w: unknown sigma bound %d", ErrInvalidInput, int(bound))
	}
}

// SigmaToPct is the inverse of [PctToSigma]. Sigma is unconstrained.
func SigmaToPct(sig float64, bound SigmaBound) (float64, error) {
	switch bound {
	case SigmaTwoSided:
		return 1 - 2*(1-stats.StdNormal.CDF(sig)), nil
	case SigmaOneSided:
		return stats.StdNormal.CDF(sig), nil
	default:
		return 0, fmt.Errorf("%w: unknown sigma bound %d", ErrInvalidInput, int(bound))
	}
}
