package quota_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/papermatch/internal/quota"
)

func TestResolveGlobalOnly(t *testing.T) {
	r, err := quota.Resolve(3, 2, 1, 2, 3, nil, nil)
	require.NoError(t, err)
	require.Equal(t, []int{1, 1, 1}, r.Minimum)
	require.Equal(t, []int{2, 2, 2}, r.Maximum)
	require.Equal(t, []int{3, 3}, r.Demand)
}

func TestResolveCustomMaxClampsMinimum(t *testing.T) {
	r, err := quota.Resolve(2, 2, 2, 5, 2, map[int]int{0: 1}, nil)
	require.NoError(t, err)
	// Reviewer 0's override (1) is below the global minimum (2), so
	// minimum[0] is lowered to match rather than left infeasible.
	require.Equal(t, 1, r.Maximum[0])
	require.Equal(t, 1, r.Minimum[0])
	require.Equal(t, 5, r.Maximum[1])
	require.Equal(t, 2, r.Minimum[1])
}

func TestResolveCustomMaxClampsAboveGlobal(t *testing.T) {
	r, err := quota.Resolve(1, 1, 0, 3, 1, map[int]int{0: 10}, nil)
	require.NoError(t, err)
	require.Equal(t, 3, r.Maximum[0], "override above global maximum is clamped down")
}

func TestResolveCustomMaxNegativeClampsToZero(t *testing.T) {
	r, err := quota.Resolve(1, 1, 0, 3, 0, map[int]int{0: -5}, nil)
	require.NoError(t, err)
	require.Equal(t, 0, r.Maximum[0])
}

func TestResolveCustomDemand(t *testing.T) {
	r, err := quota.Resolve(5, 2, 0, 5, 1, nil, map[int]int{1: 3})
	require.NoError(t, err)
	require.Equal(t, []int{1, 3}, r.Demand)
}

func TestResolveSupplyDemandMismatch(t *testing.T) {
	_, err := quota.Resolve(1, 3, 0, 1, 1, nil, nil)
	var mismatch *quota.ErrSupplyDemandMismatch
	require.ErrorAs(t, err, &mismatch)
	require.Equal(t, 0, mismatch.SumMinimum)
	require.Equal(t, 3, mismatch.SumDemand)
	require.Equal(t, 1, mismatch.SumMaximum)
}
