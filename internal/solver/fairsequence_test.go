package solver_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/papermatch/internal/matrix"
	"github.com/katalvlaran/papermatch/internal/solver"
)

func TestFairSequenceAssignsWithinCapacity(t *testing.T) {
	prob := buildProblem(t,
		[][]float64{
			{5, 4},
			{3, 6},
		},
		[]int{0, 0}, []int{1, 1}, []int{1, 1})

	s, err := solver.New(solver.Config{Variant: solver.FairSequence}, prob)
	require.NoError(t, err)
	assignment, err := s.Solve()
	require.NoError(t, err)

	require.Equal(t, 1, assignment.PaperLoad(0))
	require.Equal(t, 1, assignment.PaperLoad(1))
	require.LessOrEqual(t, assignment.ReviewerLoad(0), 1)
	require.LessOrEqual(t, assignment.ReviewerLoad(1), 1)
}

func TestFairSequenceHonorsLockedPair(t *testing.T) {
	prob := buildProblem(t,
		[][]float64{
			{5, 1},
			{0, 4},
		},
		[]int{0, 0}, []int{1, 1}, []int{1, 1})
	require.NoError(t, prob.Constraint.Set(1, 0, matrix.Forced))
	require.NoError(t, prob.Constraint.Set(0, 0, matrix.Forbidden))

	s, err := solver.New(solver.Config{Variant: solver.FairSequence}, prob)
	require.NoError(t, err)
	assignment, err := s.Solve()
	require.NoError(t, err)

	require.True(t, assignment.At(1, 0))
}

func TestFairSequenceInfeasibleDemandReturnsNoSolution(t *testing.T) {
	// Reviewer 1 is forbidden from both papers, so reviewer 0's single slot
	// of capacity can't cover both papers' demand even though the aggregate
	// Σmaximum/Σdemand check (which ignores per-pair reachability) passes.
	prob := buildProblem(t,
		[][]float64{
			{5, 4},
			{9, 9},
		},
		[]int{0, 0}, []int{1, 1}, []int{1, 1})
	require.NoError(t, prob.Constraint.Set(1, 0, matrix.Forbidden))
	require.NoError(t, prob.Constraint.Set(1, 1, matrix.Forbidden))

	s, err := solver.New(solver.Config{Variant: solver.FairSequence}, prob)
	require.NoError(t, err)
	_, err = s.Solve()
	var noSol *solver.NoSolutionError
	require.ErrorAs(t, err, &noSol)
}
