package ordstat

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// binomCDF returns P(X <= x) for X ~ Binomial(n, p). Negative x yields 0.
func binomCDF(x, n int, p float64) float64 {
	return distuv.Binomial{N: float64(n), P: p}.CDF(float64(x))
}

// PercentileCoverage is the probability that the order statistics at 1-based
// ranks l and u of n continuous samples bracket the population p-th
// percentile (Hahn & Meeker, ch. 5.2):
//
//	BinomCDF(u-1; n, p) - BinomCDF(l-1; n, p)
//
// Rank 0 stands for -Inf and rank n+1 for +Inf.
func PercentileCoverage(n, l, u int, p float64) (float64, error) {
	err := validate(checkSampleSize(n), checkRanks(n, l, u), checkProportion("p", p))
	if err != nil {
		return 0, err
	}

	return binomCDF(u-1, n, p) - binomCDF(l-1, n, p), nil
}

// ToleranceCoverage is the confidence that the order statistics at 1-based
// ranks l and u of n continuous samples enclose at least a fraction p of
// the population (Hahn & Meeker, ch. 5.3):
//
//	BinomCDF(u-l-1; n, p)
func ToleranceCoverage(n, l, u int, p float64) (float64, error) {
	err := validate(checkSampleSize(n), checkRanks(n, l, u), checkProportion("p", p))
	if err != nil {
		return 0, err
	}

	return binomCDF(u-l-1, n, p), nil
}

// Index holds the 1-based rank of a percentile within n sorted samples.
type Index struct {
	// Lower is floor(P*(n+1)).
	Lower int
	// Nearest is P*(n+1) rounded half to even.
	Nearest int
	// Upper is ceil(P*(n+1)).
	Upper int
}

// PercentileIndex returns the ranks surrounding the P-th percentile of n
// sorted samples. Lower == Upper when P*(n+1) is an integer.
func PercentileIndex(n int, P float64) Index {
	iP := P * float64(n+1)

	return Index{
		Lower:   int(math.Floor(iP)),
		Nearest: int(math.RoundToEven(iP)),
		Upper:   int(math.Ceil(iP)),
	}
}
