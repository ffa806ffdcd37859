package lp_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/papermatch/internal/lp"
)

// TestRelaxConvergesToColumnDemand checks that a simple two-by-two relaxation
// with no forbidden/fixed pairs drives every column's free mass to exactly
// its demand target, the hard constraint Relax always enforces.
func TestRelaxConvergesToColumnDemand(t *testing.T) {
	p := lp.Problem{
		Score:            [][]float64{{1, 0.5}, {0.5, 1}},
		Forbidden:        [][]bool{{false, false}, {false, false}},
		Fixed:            [][]*float64{{nil, nil}, {nil, nil}},
		Minimum:          []int{0, 0},
		Maximum:          []int{2, 2},
		Demand:           []int{1, 1},
		ProbabilityLimit: 1,
	}
	f, err := lp.Relax(p)
	require.NoError(t, err)

	for c := 0; c < 2; c++ {
		sum := f.At(0, c) + f.At(1, c)
		require.InDelta(t, 1.0, sum, 1e-4)
	}
}

// TestRelaxRespectsProbabilityLimit checks that no free entry ever exceeds
// the configured ceiling, even when an unconstrained scaling pass would
// otherwise push a dominant pair toward 1.
func TestRelaxRespectsProbabilityLimit(t *testing.T) {
	p := lp.Problem{
		Score:            [][]float64{{10, 0}, {0, 0}},
		Forbidden:        [][]bool{{false, false}, {false, false}},
		Fixed:            [][]*float64{{nil, nil}, {nil, nil}},
		Minimum:          []int{0, 0},
		Maximum:          []int{1, 1},
		Demand:           []int{1, 0},
		ProbabilityLimit: 0.5,
	}
	f, err := lp.Relax(p)
	require.True(t, err == nil || err == lp.ErrNotConverged)
	require.LessOrEqual(t, f.At(0, 0), 0.5+1e-9)
}

// TestDependentRoundPreservesColumnSums checks that rounding a fractional
// matrix never changes any column's total, since paper demand is always
// integral and must be hit exactly.
func TestDependentRoundPreservesColumnSums(t *testing.T) {
	p := lp.Problem{
		Score:            [][]float64{{1, 1}, {1, 1}, {1, 1}},
		Forbidden:        [][]bool{{false, false}, {false, false}, {false, false}},
		Fixed:            [][]*float64{{nil, nil}, {nil, nil}, {nil, nil}},
		Minimum:          []int{0, 0, 0},
		Maximum:          []int{2, 2, 2},
		Demand:           []int{2, 1},
		ProbabilityLimit: 1,
	}
	f, err := lp.Relax(p)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(42))
	rounded := lp.DependentRound(f, rng)

	require.Equal(t, 2, countCol(rounded, 0))
	require.Equal(t, 1, countCol(rounded, 1))
}

func countCol(rounded [][]bool, c int) int {
	n := 0
	for _, row := range rounded {
		if row[c] {
			n++
		}
	}
	return n
}
