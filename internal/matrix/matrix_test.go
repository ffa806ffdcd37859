package matrix_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/papermatch/internal/matrix"
)

func TestCostAtSetAdd(t *testing.T) {
	c, err := matrix.NewCost(2, 3)
	require.NoError(t, err)
	require.Equal(t, 2, c.Rows())
	require.Equal(t, 3, c.Cols())

	require.NoError(t, c.Set(1, 2, 4.5))
	require.Equal(t, 4.5, c.At(1, 2))

	require.NoError(t, c.Add(1, 2, 0.5))
	require.Equal(t, 5.0, c.At(1, 2))

	require.Equal(t, 0.0, c.At(0, 0))
}

func TestCostOutOfBounds(t *testing.T) {
	c, err := matrix.NewCost(2, 2)
	require.NoError(t, err)

	require.ErrorIs(t, c.Set(5, 0, 1), matrix.ErrIndexOutOfBounds)
	// At() degrades to zero rather than panicking on bad indices.
	require.Equal(t, 0.0, c.At(-1, 0))
}

func TestNewCostInvalidDimensions(t *testing.T) {
	_, err := matrix.NewCost(0, 3)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
	_, err = matrix.NewCost(3, -1)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
}

func TestConstraintDefaultsFree(t *testing.T) {
	c, err := matrix.NewConstraint(3, 3)
	require.NoError(t, err)
	require.Equal(t, matrix.Free, c.At(0, 0))

	require.NoError(t, c.Set(1, 1, matrix.Forbidden))
	require.Equal(t, matrix.Forbidden, c.At(1, 1))

	require.NoError(t, c.Set(2, 2, matrix.Forced))
	require.Equal(t, matrix.Forced, c.At(2, 2))
}

func TestAssignmentLoads(t *testing.T) {
	a, err := matrix.NewAssignment(2, 3)
	require.NoError(t, err)

	require.NoError(t, a.Set(0, 0, true))
	require.NoError(t, a.Set(0, 1, true))
	require.NoError(t, a.Set(1, 1, true))

	require.Equal(t, 2, a.ReviewerLoad(0))
	require.Equal(t, 1, a.ReviewerLoad(1))
	require.Equal(t, 1, a.PaperLoad(0))
	require.Equal(t, 2, a.PaperLoad(1))
	require.Equal(t, 0, a.PaperLoad(2))

	require.True(t, a.At(0, 0))
	require.False(t, a.At(1, 0))
}
