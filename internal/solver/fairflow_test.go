package solver_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/papermatch/internal/matrix"
	"github.com/katalvlaran/papermatch/internal/solver"
)

func TestFairFlowProducesFeasibleAssignment(t *testing.T) {
	// Four papers, two reviewers; reviewer 0 is the much stronger match for
	// the first two papers and reviewer 1 for the last two. FairFlow's
	// makespan refinement should land on a feasible assignment satisfying
	// every paper's demand.
	prob := buildProblem(t,
		[][]float64{
			{9, 9, 1, 1},
			{1, 1, 8, 8},
		},
		[]int{0, 0}, []int{2, 2}, []int{1, 1, 1, 1})

	s, err := solver.New(solver.Config{Variant: solver.FairFlow}, prob)
	require.NoError(t, err)
	assignment, err := s.Solve()
	require.NoError(t, err)

	for p := 0; p < 4; p++ {
		require.Equal(t, 1, assignment.PaperLoad(p))
	}
	require.LessOrEqual(t, assignment.ReviewerLoad(0), 2)
	require.LessOrEqual(t, assignment.ReviewerLoad(1), 2)
}

func TestFairFlowFallsBackToMinCostFlowWhenAffinityIsAllZero(t *testing.T) {
	prob := buildProblem(t,
		[][]float64{
			{0, 0},
			{0, 0},
		},
		[]int{0, 0}, []int{1, 1}, []int{1, 1})

	s, err := solver.New(solver.Config{Variant: solver.FairFlow}, prob)
	require.NoError(t, err)
	assignment, err := s.Solve()
	require.NoError(t, err)

	require.Equal(t, 1, assignment.PaperLoad(0))
	require.Equal(t, 1, assignment.PaperLoad(1))
}

func TestFairFlowHonorsLockedPair(t *testing.T) {
	prob := buildProblem(t,
		[][]float64{
			{9, 1},
			{1, 8},
		},
		[]int{0, 0}, []int{1, 1}, []int{1, 1})
	require.NoError(t, prob.Constraint.Set(1, 0, matrix.Forced))

	s, err := solver.New(solver.Config{Variant: solver.FairFlow}, prob)
	require.NoError(t, err)
	assignment, err := s.Solve()
	require.NoError(t, err)

	require.True(t, assignment.At(1, 0))
}
