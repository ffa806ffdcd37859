// Package encoder builds the dense cost and constraint matrices every
// solver consumes, and decodes a solved assignment matrix back into
// per-paper results.
//
// Grounded on original_source/tests/test_encoder_unit.py (aggregate score
// as a weighted sum over signals with per-signal defaults, constraint
// precedence: conflicts and vetoes set -1, locks set +1 and win over a
// prior -1, and an optional extra veto for zero-affinity pairs) and
// lvlath/matrix/builder.go's builder-style construction API.
package encoder

import (
	"fmt"
	"sort"

	"github.com/katalvlaran/papermatch/internal/matrix"
	"github.com/katalvlaran/papermatch/internal/model"
	"github.com/katalvlaran/papermatch/internal/signal"
)

// Warnf is the minimal logging hook Encode uses to surface the
// lock-over-veto precedence diagnostic called out in spec.md §9. The method
// value of a *logrus.Logger's Warnf fits this type; callers that don't care
// may pass nil.
type Warnf func(format string, args ...any)

// Pair names a (paper, reviewer) pair by ID for override edges.
type Pair struct {
	Paper    string
	Reviewer string
}

// Input collects everything Encode needs: the ordered reviewer/paper
// universe, one signal.Spec plus edge list per score source, conflict/veto/
// lock overrides, and the zero-score policy.
type Input struct {
	Reviewers []model.Reviewer
	Papers    []model.Paper

	Signals    []signal.Spec
	ScoreEdges map[string][]signal.Edge // keyed by signal.Spec.Name

	Conflicts []Pair
	Vetoes    []Pair
	Locks     []Pair

	AllowZeroScore bool
}

// Encoded holds the immutable matrices built from an Input, plus the index
// maps Decode and every solver need to translate between IDs and indices.
type Encoded struct {
	Reviewers []model.Reviewer
	Papers    []model.Paper

	ReviewerIndex map[string]int
	PaperIndex    map[string]int

	// Aggregate[r][p] is the raw weighted affinity sum (higher is better).
	Aggregate *matrix.Cost
	// Cost[r][p] = -Aggregate[r][p]; what every solver minimizes.
	Cost       *matrix.Cost
	Constraint *matrix.Constraint
}

// TranslationError reports that an edge's label could not be resolved
// through its signal's translation map.
type TranslationError struct {
	Signal, Paper, Reviewer, Label string
	ValidKeys                      []string
}

func (e *TranslationError) Error() string {
	return fmt.Sprintf("encoder: signal %q edge (%s,%s): unknown label %q (valid: %v)",
		e.Signal, e.Paper, e.Reviewer, e.Label, e.ValidKeys)
}

// TypeError reports that an edge carried a non-numeric, non-translatable value.
type TypeError struct {
	Signal, Paper, Reviewer, Value string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("encoder: signal %q edge (%s,%s): non-numeric value %q",
		e.Signal, e.Paper, e.Reviewer, e.Value)
}

// UnknownEntityError reports an override edge naming a reviewer or paper
// that is not in the input universe.
type UnknownEntityError struct {
	Kind, ID string // Kind is "reviewer" or "paper"
}

func (e *UnknownEntityError) Error() string {
	return fmt.Sprintf("encoder: unknown %s %q referenced by an override edge", e.Kind, e.ID)
}

// Encode builds the Aggregate/Cost/Constraint matrices from in.
//
// warn, if non-nil, receives one call per (paper, reviewer) pair that
// carries both a veto/conflict input and a lock input (lock wins; spec.md
// §9 asks this to be surfaced as a diagnostic since the behavior is
// otherwise undocumented).
func Encode(in Input, warn Warnf) (*Encoded, error) {
	reviewerIndex := make(map[string]int, len(in.Reviewers))
	for i, r := range in.Reviewers {
		reviewerIndex[r.ID] = i
	}
	paperIndex := make(map[string]int, len(in.Papers))
	for i, p := range in.Papers {
		paperIndex[p.ID] = i
	}

	nr, np := len(in.Reviewers), len(in.Papers)
	aggregate, err := matrix.NewCost(nr, np)
	if err != nil {
		return nil, err
	}

	// present[r][p] tracks whether any signal supplied a real edge for the
	// pair, so AllowZeroScore=false can tell "known zero" from "default".
	present := make([][]bool, nr)
	for r := range present {
		present[r] = make([]bool, np)
	}

	for _, spec := range in.Signals {
		def := spec.DefaultValue() * spec.Weight
		for r := 0; r < nr; r++ {
			for p := 0; p < np; p++ {
				if err := aggregate.Add(r, p, def); err != nil {
					return nil, err
				}
			}
		}
		for _, e := range in.ScoreEdges[spec.Name] {
			ri, ok := reviewerIndex[e.Reviewer]
			if !ok {
				return nil, &UnknownEntityError{Kind: "reviewer", ID: e.Reviewer}
			}
			pi, ok := paperIndex[e.Paper]
			if !ok {
				return nil, &UnknownEntityError{Kind: "paper", ID: e.Paper}
			}
			value, rerr := spec.Resolve(e)
			if rerr != nil {
				switch te := rerr.(type) {
				case *signal.ErrUnknownLabel:
					return nil, &TranslationError{Signal: spec.Name, Paper: e.Paper, Reviewer: e.Reviewer, Label: te.Label, ValidKeys: te.ValidKeys}
				case *signal.ErrNonNumeric:
					return nil, &TypeError{Signal: spec.Name, Paper: e.Paper, Reviewer: e.Reviewer, Value: te.Value}
				default:
					return nil, rerr
				}
			}
			// Remove the default contribution and replace it with the real
			// edge value, both weighted identically.
			if err := aggregate.Add(ri, pi, (value-spec.DefaultValue())*spec.Weight); err != nil {
				return nil, err
			}
			present[ri][pi] = true
		}
	}

	constraint, err := matrix.NewConstraint(nr, np)
	if err != nil {
		return nil, err
	}

	markPair := func(pairs []Pair, value matrix.Value) error {
		for _, pr := range pairs {
			ri, ok := reviewerIndex[pr.Reviewer]
			if !ok {
				return &UnknownEntityError{Kind: "reviewer", ID: pr.Reviewer}
			}
			pi, ok := paperIndex[pr.Paper]
			if !ok {
				return &UnknownEntityError{Kind: "paper", ID: pr.Paper}
			}
			if value == matrix.Forced && constraint.At(ri, pi) == matrix.Forbidden && warn != nil {
				warn("encoder: pair (paper=%s, reviewer=%s) has both a conflict/veto and a lock; lock wins", pr.Paper, pr.Reviewer)
			}
			if err := constraint.Set(ri, pi, value); err != nil {
				return err
			}
		}
		return nil
	}

	if err := markPair(in.Conflicts, matrix.Forbidden); err != nil {
		return nil, err
	}
	if err := markPair(in.Vetoes, matrix.Forbidden); err != nil {
		return nil, err
	}
	if err := markPair(in.Locks, matrix.Forced); err != nil {
		return nil, err
	}

	if !in.AllowZeroScore {
		for r := 0; r < nr; r++ {
			for p := 0; p < np; p++ {
				if !present[r][p] && aggregate.At(r, p) == 0 && constraint.At(r, p) != matrix.Forced {
					if err := constraint.Set(r, p, matrix.Forbidden); err != nil {
						return nil, err
					}
				}
			}
		}
	}

	cost, err := matrix.NewCost(nr, np)
	if err != nil {
		return nil, err
	}
	for r := 0; r < nr; r++ {
		for p := 0; p < np; p++ {
			if err := cost.Set(r, p, -aggregate.At(r, p)); err != nil {
				return nil, err
			}
		}
	}

	return &Encoded{
		Reviewers:     in.Reviewers,
		Papers:        in.Papers,
		ReviewerIndex: reviewerIndex,
		PaperIndex:    paperIndex,
		Aggregate:     aggregate,
		Cost:          cost,
		Constraint:    constraint,
	}, nil
}

// Decode reads a solved assignment matrix and produces one PaperResult per
// paper: its assigned reviewers (sorted by aggregate score, descending) and
// up to alternateCount ranked alternates among unassigned, unconflicted
// reviewers.
func Decode(enc *Encoded, s *matrix.Assignment, alternateCount int) []model.PaperResult {
	results := make([]model.PaperResult, len(enc.Papers))

	for p, paper := range enc.Papers {
		var assigned, candidates []model.Scored
		for r, reviewer := range enc.Reviewers {
			score := enc.Aggregate.At(r, p)
			if s.At(r, p) {
				assigned = append(assigned, model.Scored{Reviewer: reviewer.ID, Score: score})
			} else if enc.Constraint.At(r, p) != matrix.Forbidden {
				candidates = append(candidates, model.Scored{Reviewer: reviewer.ID, Score: score})
			}
		}
		sort.SliceStable(assigned, func(i, j int) bool { return assigned[i].Score > assigned[j].Score })
		sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].Score > candidates[j].Score })
		if alternateCount >= 0 && len(candidates) > alternateCount {
			candidates = candidates[:alternateCount]
		}
		results[p] = model.PaperResult{Paper: paper.ID, Assigned: assigned, Alternates: candidates}
	}

	return results
}
