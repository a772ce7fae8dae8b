package ordstat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/ordstat/pkg/ordstat"
)

func TestPercentileRanks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		n, k  int
		P     float64
		bound ordstat.PercentileBound
		wantL int
		wantU int
	}{
		{name: "two_sided_median", n: 100, k: 10, P: 0.5, bound: ordstat.PercentileTwoSided, wantL: 40, wantU: 61},
		{name: "upper_95th", n: 1000, k: 11, P: 0.95, bound: ordstat.PercentileOneSidedUpper, wantL: 0, wantU: 962},
		{name: "lower_5th", n: 1000, k: 11, P: 0.05, bound: ordstat.PercentileOneSidedLower, wantL: 39, wantU: 1001},
		{name: "out_of_range_is_not_checked", n: 10, k: 5, P: 0.05, bound: ordstat.PercentileOneSidedLower, wantL: -5, wantU: 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			l, u, err := ordstat.PercentileRanks(tt.n, tt.P, tt.k, tt.bound)
			require.NoError(t, err)
			assert.Equal(t, tt.wantL, l)
			assert.Equal(t, tt.wantU, u)
		})
	}
}

func TestPercentileConfidence(t *testing.T) {
	t.Parallel()

	t.Run("upper_literal_scenario", func(t *testing.T) {
		t.Parallel()

		c, err := ordstat.PercentileConfidence(1000, 11, 0.95, ordstat.PercentileOneSidedUpper)
		require.NoError(t, err)
		assert.InDelta(t, 0.9566, c, 1e-4)
	})

	t.Run("lower_mirrors_upper", func(t *testing.T) {
		t.Parallel()

		upper, err := ordstat.PercentileConfidence(1000, 11, 0.95, ordstat.PercentileOneSidedUpper)
		require.NoError(t, err)

		lower, err := ordstat.PercentileConfidence(1000, 11, 0.05, ordstat.PercentileOneSidedLower)
		require.NoError(t, err)

		assert.InDelta(t, upper, lower, 1e-9)
	})

	t.Run("out_of_range_ranks", func(t *testing.T) {
		t.Parallel()

		_, err := ordstat.PercentileConfidence(10, 5, 0.05, ordstat.PercentileOneSidedLower)
		require.ErrorIs(t, err, ordstat.ErrInvalidInput)
		assert.Contains(t, err.Error(), "l=-5")
	})
}

func TestPercentileOffset(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		n        int
		P, c     float64
		bound    ordstat.PercentileBound
		expected int
	}{
		{name: "two_sided_median", n: 100, P: 0.5, c: 0.95, bound: ordstat.PercentileTwoSided, expected: 10},
		{name: "upper_90th", n: 100, P: 0.9, c: 0.95, bound: ordstat.PercentileOneSidedUpper, expected: 5},
		{name: "lower_10th", n: 100, P: 0.1, c: 0.95, bound: ordstat.PercentileOneSidedLower, expected: 5},
		{name: "upper_95th_of_1000", n: 1000, P: 0.95, c: 0.95, bound: ordstat.PercentileOneSidedUpper, expected: 11},
		{name: "two_sided_strict", n: 1000, P: 0.5, c: 0.99, bound: ordstat.PercentileTwoSided, expected: 41},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sol, err := ordstat.PercentileOffset(tt.n, tt.P, tt.c, tt.bound)
			require.NoError(t, err)
			require.True(t, sol.Feasible)
			assert.Equal(t, tt.expected, sol.Value)

			got, err := ordstat.PercentileConfidence(tt.n, sol.Value, tt.P, tt.bound)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, got, tt.c)

			if sol.Value > 1 {
				tighter, confErr := ordstat.PercentileConfidence(tt.n, sol.Value-1, tt.P, tt.bound)
				require.NoError(t, confErr)
				assert.Less(t, tighter, tt.c)
			}
		})
	}
}

func TestPercentileOffset_Infeasible(t *testing.T) {
	t.Parallel()

	t.Run("no_rank_below_percentile", func(t *testing.T) {
		t.Parallel()

		sol, err := ordstat.PercentileOffset(10, 0.05, 0.999, ordstat.PercentileOneSidedLower)
		require.NoError(t, err)
		assert.False(t, sol.Feasible)
		require.NotNil(t, sol.Diagnostic)
		assert.Contains(t, sol.Diagnostic.Constraint, "kmax=0")
		assert.Contains(t, sol.Diagnostic.String(), "bound=1-sided lower")
	})

	t.Run("widest_pair_short", func(t *testing.T) {
		t.Parallel()

		sol, err := ordstat.PercentileOffset(10, 0.3, 0.999, ordstat.PercentileTwoSided)
		require.NoError(t, err)
		assert.False(t, sol.Feasible)
		require.NotNil(t, sol.Diagnostic)
		assert.Contains(t, sol.Diagnostic.Remedy, "increase n")
	})
}

func TestPercentileSampleSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		k        int
		P, c     float64
		bound    ordstat.PercentileBound
		expected int
	}{
		{name: "two_sided_median", k: 10, P: 0.5, c: 0.95, bound: ordstat.PercentileTwoSided, expected: 108},
		{name: "upper_95th", k: 11, P: 0.95, c: 0.9566, bound: ordstat.PercentileOneSidedUpper, expected: 1018},
		{name: "lower_5th", k: 11, P: 0.05, c: 0.9566, bound: ordstat.PercentileOneSidedLower, expected: 1018},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sol, err := ordstat.PercentileSampleSize(tt.k, tt.P, tt.c, ordstat.DefaultMaxSampleSize, tt.bound)
			require.NoError(t, err)
			require.True(t, sol.Feasible)
			assert.Equal(t, tt.expected, sol.Value)

			got, err := ordstat.PercentileConfidence(sol.Value, tt.k, tt.P, tt.bound)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, got, tt.c)
		})
	}
}

func TestPercentileSampleSize_NmaxFeasible(t *testing.T) {
	t.Parallel()

	// The bracket covers the median of 30 samples comfortably, so the ceiling itself qualifies.
	sol, err := ordstat.PercentileSampleSize(10, 0.5, 0.95, 30, ordstat.PercentileTwoSided)
	require.NoError(t, err)
	require.True(t, sol.Feasible)
	assert.Equal(t, 30, sol.Value)
}

func TestPercentileSampleSize_Infeasible(t *testing.T) {
	t.Parallel()

	t.Run("coverage_short_at_nmin", func(t *testing.T) {
		t.Parallel()

		sol, err := ordstat.PercentileSampleSize(1, 0.9, 0.95, 1000, ordstat.PercentileTwoSided)
		require.NoError(t, err)
		assert.False(t, sol.Feasible)
		require.NotNil(t, sol.Diagnostic)
		assert.Contains(t, sol.Diagnostic.String(), "nmin=10")
		assert.Contains(t, sol.Diagnostic.Remedy, "raise k")
	})

	t.Run("nmax_below_nmin", func(t *testing.T) {
		t.Parallel()

		sol, err := ordstat.PercentileSampleSize(10, 0.01, 0.9, 100, ordstat.PercentileTwoSided)
		require.NoError(t, err)
		assert.False(t, sol.Feasible)
		require.NotNil(t, sol.Diagnostic)
		assert.Contains(t, sol.Diagnostic.Remedy, "increase nmax")
	})

	t.Run("tiny_percentile_does_not_overflow", func(t *testing.T) {
		t.Parallel()

		sol, err := ordstat.PercentileSampleSize(5, 1e-300, 0.9, ordstat.DefaultMaxSampleSize, ordstat.PercentileOneSidedLower)
		require.NoError(t, err)
		assert.False(t, sol.Feasible)
	})
}

func TestPercentileSolvers_InvalidInput(t *testing.T) {
	t.Parallel()

	two := ordstat.PercentileTwoSided
	nmax := ordstat.DefaultMaxSampleSize

	tests := []struct {
		name string
		call func() error
	}{
		{name: "n_P0", call: func() error { _, err := ordstat.PercentileSampleSize(1, 0, 0.9, nmax, two); return err }},
		{name: "n_P1", call: func() error { _, err := ordstat.PercentileSampleSize(1, 1, 0.9, nmax, two); return err }},
		{name: "n_c0", call: func() error { _, err := ordstat.PercentileSampleSize(1, 0.5, 0, nmax, two); return err }},
		{name: "n_c1", call: func() error { _, err := ordstat.PercentileSampleSize(1, 0.5, 1, nmax, two); return err }},
		{name: "n_k0", call: func() error { _, err := ordstat.PercentileSampleSize(0, 0.5, 0.9, nmax, two); return err }},
		{name: "n_nmax0", call: func() error { _, err := ordstat.PercentileSampleSize(1, 0.5, 0.9, 0, two); return err }},
		{name: "k_n0", call: func() error { _, err := ordstat.PercentileOffset(0, 0.5, 0.9, two); return err }},
		{name: "k_P0", call: func() error { _, err := ordstat.PercentileOffset(10, 0, 0.9, two); return err }},
		{name: "k_c1", call: func() error { _, err := ordstat.PercentileOffset(10, 0.5, 1, two); return err }},
		{name: "c_n0", call: func() error { _, err := ordstat.PercentileConfidence(0, 1, 0.5, two); return err }},
		{name: "c_k0", call: func() error { _, err := ordstat.PercentileConfidence(10, 0, 0.5, two); return err }},
		{name: "c_P1", call: func() error { _, err := ordstat.PercentileConfidence(10, 1, 1, two); return err }},
		{name: "unknown_bound", call: func() error {
			_, err := ordstat.PercentileOffset(10, 0.5, 0.5, ordstat.PercentileBound(7))
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			require.ErrorIs(t, tt.call(), ordstat.ErrInvalidInput)
		})
	}
}
