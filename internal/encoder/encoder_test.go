package encoder_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/papermatch/internal/encoder"
	"github.com/katalvlaran/papermatch/internal/matrix"
	"github.com/katalvlaran/papermatch/internal/model"
	"github.com/katalvlaran/papermatch/internal/signal"
)

func baseInput() encoder.Input {
	return encoder.Input{
		Reviewers: []model.Reviewer{{ID: "r1"}, {ID: "r2"}},
		Papers:    []model.Paper{{ID: "p1"}, {ID: "p2"}},
		Signals: []signal.Spec{
			{Name: "bid", Weight: 2, HasDefault: true, Default: 0},
			{Name: "affinity", Weight: 1},
		},
		ScoreEdges: map[string][]signal.Edge{
			"bid": {
				{Paper: "p1", Reviewer: "r1", Weight: 1},
			},
			"affinity": {
				{Paper: "p1", Reviewer: "r1", Weight: 0.5},
				{Paper: "p2", Reviewer: "r2", Weight: 0.25},
			},
		},
		AllowZeroScore: true,
	}
}

func TestEncodeAggregateIsWeightedSum(t *testing.T) {
	enc, err := encoder.Encode(baseInput(), nil)
	require.NoError(t, err)

	r1, p1 := enc.ReviewerIndex["r1"], enc.PaperIndex["p1"]
	// bid: 1*2=2, affinity: 0.5*1=0.5 => 2.5
	require.InDelta(t, 2.5, enc.Aggregate.At(r1, p1), 1e-9)
	require.InDelta(t, -2.5, enc.Cost.At(r1, p1), 1e-9)

	r2, p2 := enc.ReviewerIndex["r2"], enc.PaperIndex["p2"]
	// bid default (0)*2=0, affinity 0.25*1=0.25 => 0.25
	require.InDelta(t, 0.25, enc.Aggregate.At(r2, p2), 1e-9)
}

func TestEncodeUnknownReviewerErrors(t *testing.T) {
	in := baseInput()
	in.Conflicts = []encoder.Pair{{Paper: "p1", Reviewer: "ghost"}}
	_, err := encoder.Encode(in, nil)
	var unknown *encoder.UnknownEntityError
	require.ErrorAs(t, err, &unknown)
	require.Equal(t, "reviewer", unknown.Kind)
}

func TestEncodeLockWinsOverConflictAndWarns(t *testing.T) {
	in := baseInput()
	in.Conflicts = []encoder.Pair{{Paper: "p1", Reviewer: "r1"}}
	in.Locks = []encoder.Pair{{Paper: "p1", Reviewer: "r1"}}

	var warned bool
	enc, err := encoder.Encode(in, func(format string, args ...any) { warned = true })
	require.NoError(t, err)
	require.True(t, warned)

	r1, p1 := enc.ReviewerIndex["r1"], enc.PaperIndex["p1"]
	require.Equal(t, matrix.Forced, enc.Constraint.At(r1, p1))
}

func TestEncodeZeroScoreVetoedWhenDisallowed(t *testing.T) {
	in := baseInput()
	in.AllowZeroScore = false
	in.Signals = nil // no signals at all => every pair defaults to zero, unknown

	enc, err := encoder.Encode(in, nil)
	require.NoError(t, err)
	for r := 0; r < len(in.Reviewers); r++ {
		for p := 0; p < len(in.Papers); p++ {
			require.Equal(t, matrix.Forbidden, enc.Constraint.At(r, p))
		}
	}
}

func TestDecodeSortsAssignedAndAlternatesByScore(t *testing.T) {
	enc, err := encoder.Encode(baseInput(), nil)
	require.NoError(t, err)

	s, err := matrix.NewAssignment(2, 2)
	require.NoError(t, err)
	r1, p1 := enc.ReviewerIndex["r1"], enc.PaperIndex["p1"]
	require.NoError(t, s.Set(r1, p1, true))

	results := encoder.Decode(enc, s, 5)
	require.Len(t, results, 2)

	var paperOne model.PaperResult
	for _, r := range results {
		if r.Paper == "p1" {
			paperOne = r
		}
	}
	require.Len(t, paperOne.Assigned, 1)
	require.Equal(t, "r1", paperOne.Assigned[0].Reviewer)
}
