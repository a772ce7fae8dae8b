package ordstat_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/ordstat/pkg/ordstat"
)

func TestToleranceInterval(t *testing.T) {
	t.Parallel()

	samples := []float64{5, 1, 4, 2, 3}

	tests := []struct {
		name      string
		k         int
		bound     ordstat.ToleranceBound
		wantLower float64
		wantUpper float64
	}{
		{name: "two_sided_extremes", k: 1, bound: ordstat.ToleranceTwoSided, wantLower: 1, wantUpper: 5},
		{name: "two_sided_inner", k: 2, bound: ordstat.ToleranceTwoSided, wantLower: 2, wantUpper: 4},
		{name: "one_sided", k: 2, bound: ordstat.ToleranceOneSided, wantLower: math.Inf(-1), wantUpper: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			iv, err := ordstat.ToleranceInterval(samples, tt.k, tt.bound)
			require.NoError(t, err)
			assert.Equal(t, tt.wantLower, iv.Lower)
			assert.Equal(t, tt.wantUpper, iv.Upper)
		})
	}

	assert.Equal(t, []float64{5, 1, 4, 2, 3}, samples, "input must not be reordered")
}

func TestToleranceInterval_Invalid(t *testing.T) {
	t.Parallel()

	_, err := ordstat.ToleranceInterval([]float64{1, 2, 3}, 3, ordstat.ToleranceTwoSided)
	require.ErrorIs(t, err, ordstat.ErrInvalidInput)

	_, err = ordstat.ToleranceInterval(nil, 1, ordstat.ToleranceTwoSided)
	require.ErrorIs(t, err, ordstat.ErrInvalidInput)

	_, err = ordstat.ToleranceInterval([]float64{1, math.NaN()}, 1, ordstat.ToleranceTwoSided)
	require.ErrorIs(t, err, ordstat.ErrInvalidInput)
	assert.Contains(t, err.Error(), "sample 1")
}

func TestPercentileInterval(t *testing.T) {
	t.Parallel()

	samples := []float64{9, 3, 7, 1, 5, 8, 2, 6, 4}

	t.Run("two_sided_median", func(t *testing.T) {
		t.Parallel()

		iv, err := ordstat.PercentileInterval(samples, 0.5, 1, ordstat.PercentileTwoSided)
		require.NoError(t, err)
		assert.Equal(t, ordstat.Interval{Lower: 4, Upper: 6, LowerRank: 4, UpperRank: 6}, iv)
	})

	t.Run("upper_reaches_beyond_sample", func(t *testing.T) {
		t.Parallel()

		iv, err := ordstat.PercentileInterval(samples, 0.5, 5, ordstat.PercentileOneSidedUpper)
		require.NoError(t, err)
		assert.True(t, math.IsInf(iv.Lower, -1))
		assert.True(t, math.IsInf(iv.Upper, 1))
		assert.Equal(t, 10, iv.UpperRank)
	})

	t.Run("outside_sample", func(t *testing.T) {
		t.Parallel()

		_, err := ordstat.PercentileInterval(samples, 0.5, 6, ordstat.PercentileOneSidedUpper)
		require.ErrorIs(t, err, ordstat.ErrInvalidInput)
	})
}

func TestInterval_MarshalJSON(t *testing.T) {
	t.Parallel()

	iv := ordstat.Interval{Lower: math.Inf(-1), Upper: 4.5, LowerRank: 0, UpperRank: 7}

	data, err := json.Marshal(iv)
	require.NoError(t, err)
	assert.JSONEq(t, `{"lower":null,"upper":4.5,"lower_rank":0,"upper_rank":7}`, string(data))
}
