package solver_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/papermatch/internal/matrix"
	"github.com/katalvlaran/papermatch/internal/solver"
)

// buildProblem constructs a dense solver.Problem from an affinity grid, with
// uniform per-reviewer [minimum,maximum] and per-paper demand.
func buildProblem(t *testing.T, affinity [][]float64, minimum, maximum []int, demand []int) solver.Problem {
	t.Helper()
	nr, np := len(affinity), len(affinity[0])
	agg, err := matrix.NewCost(nr, np)
	require.NoError(t, err)
	cost, err := matrix.NewCost(nr, np)
	require.NoError(t, err)
	for r := 0; r < nr; r++ {
		for p := 0; p < np; p++ {
			require.NoError(t, agg.Set(r, p, affinity[r][p]))
			require.NoError(t, cost.Set(r, p, -affinity[r][p]))
		}
	}
	constraint, err := matrix.NewConstraint(nr, np)
	require.NoError(t, err)

	return solver.Problem{
		Aggregate:      agg,
		Cost:           cost,
		Constraint:     constraint,
		Minimum:        minimum,
		Maximum:        maximum,
		Demand:         demand,
		AllowZeroScore: true,
	}
}

func TestNewUnknownVariantIsConfigurationError(t *testing.T) {
	prob := buildProblem(t, [][]float64{{1, 1}, {1, 1}}, []int{0, 0}, []int{2, 2}, []int{1, 1})
	_, err := solver.New(solver.Config{Variant: "Bogus"}, prob)
	var cfgErr *solver.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

func TestNewRandomizedRejectsBadProbabilityLimit(t *testing.T) {
	prob := buildProblem(t, [][]float64{{1, 1}, {1, 1}}, []int{0, 0}, []int{2, 2}, []int{1, 1})
	_, err := solver.New(solver.Config{Variant: solver.Randomized, ProbabilityLimit: 0}, prob)
	var cfgErr *solver.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)

	_, err = solver.New(solver.Config{Variant: solver.Randomized, ProbabilityLimit: 1.5}, prob)
	require.ErrorAs(t, err, &cfgErr)
}

func TestNewRejectsSupplyDemandMismatch(t *testing.T) {
	// One reviewer can take at most 1 paper, but 2 papers each need 1.
	prob := buildProblem(t, [][]float64{{1, 1}}, []int{0}, []int{1}, []int{1, 1})
	_, err := solver.New(solver.Config{Variant: solver.MinMax}, prob)
	var cfgErr *solver.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}

func TestNewRejectsMinimumAboveMaximum(t *testing.T) {
	prob := buildProblem(t, [][]float64{{1, 1}, {1, 1}}, []int{3, 0}, []int{2, 2}, []int{1, 1})
	_, err := solver.New(solver.Config{Variant: solver.MinMax}, prob)
	var cfgErr *solver.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
}
