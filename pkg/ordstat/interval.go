package ordstat

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"

	"github.com/aclements/go-moremath/stats"
)

// Interval is a pair of order statistics drawn from a concrete sample.
// Rank 0 maps to -Inf and rank n+1 to +Inf.
type Interval struct {
	Lower     float64 `json:"lower"      yaml:"lower"`
	Upper     float64 `json:"upper"      yaml:"upper"`
	LowerRank int     `json:"lower_rank" yaml:"lower_rank"`
	UpperRank int     `json:"upper_rank" yaml:"upper_rank"`
}

// MarshalJSON encodes infinite ends as null, which JSON cannot represent.
func (iv Interval) MarshalJSON() ([]byte, error) {
	type wire struct {
		Lower     *float64 `json:"lower"`
		Upper     *float64 `json:"upper"`
		LowerRank int      `json:"lower_rank"`
		UpperRank int      `json:"upper_rank"`
	}

	return json.Marshal(wire{
		Lower:     finite(iv.Lower),
		Upper:     finite(iv.Upper),
		LowerRank: iv.LowerRank,
		UpperRank: iv.UpperRank,
	})
}

func finite(x float64) *float64 {
	if math.IsInf(x, 0) {
		return nil
	}

	return &x
}

// ToleranceInterval returns the order statistics k in from each end of
// samples (from the top only, one-sided). The samples slice is not modified.
func ToleranceInterval(samples []float64, k int, bound ToleranceBound) (Interval, error) {
	n := len(samples)

	err := validate(checkSampleSize(n), checkOffset(k), bound.check(), checkSamples(samples))
	if err != nil {
		return Interval{}, err
	}

	l, u, err := ToleranceRanks(n, k, bound)
	if err != nil {
		return Interval{}, err
	}

	err = checkRanks(n, l, u)
	if err != nil {
		return Interval{}, err
	}

	return intervalAt(sortedSample(samples), l, u), nil
}

// PercentileInterval returns the order statistics k ranks outside the P-th
// percentile rank of samples. The samples slice is not modified.
func PercentileInterval(samples []float64, P float64, k int, bound PercentileBound) (Interval, error) {
	n := len(samples)

	err := validate(checkSampleSize(n), checkOffset(k), checkProportion("P", P),
		bound.check(), checkSamples(samples))
	if err != nil {
		return Interval{}, err
	}

	l, u, err := PercentileRanks(n, P, k, bound)
	if err != nil {
		return Interval{}, err
	}

	if !ranksInRange(n, l, u) {
		return Interval{}, fmt.Errorf("%w: l=%d or u=%d outside the valid ranks [0, %d] for k=%d",
			ErrInvalidInput, l, u, n+1, k)
	}

	return intervalAt(sortedSample(samples), l, u), nil
}

func checkSamples(samples []float64) error {
	for i, x := range samples {
		if math.IsNaN(x) {
			return fmt.Errorf("%w: sample %d is NaN", ErrInvalidInput, i)
		}
	}

	return nil
}

func sortedSample(samples []float64) []float64 {
	sample := stats.Sample{Xs: slices.Clone(samples)}

	return sample.Sort().Xs
}

func intervalAt(sorted []float64, l, u int) Interval {
	return Interval{
		Lower:     rankValue(sorted, l),
		Upper:     rankValue(sorted, u),
		LowerRank: l,
		UpperRank: u,
	}
}

func rankValue(sorted []float64, rank int) float64 {
	switch {
	case rank <= 0:
		return math.Inf(-1)
	case rank > len(sorted):
		return math.Inf(1)
	default:
		return sorted[rank-1]
	}
}
