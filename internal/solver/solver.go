// Package solver implements the four assignment algorithms named by
// spec.md §4.3-§4.6: MinMax (single-shot min-cost flow), FairFlow (makespan
// refinement), FairSequence (envy-free picking sequence), and Randomized
// (LP relaxation + dependent rounding).
//
// Every solver consumes the same Problem shape and returns a populated
// matrix.Assignment or a typed error (NoSolutionError for infeasibility,
// InternalError for a violated solver invariant).
package solver

import (
	"context"
	"errors"
	"fmt"
	"math/rand"

	"github.com/katalvlaran/papermatch/internal/matrix"
)

// Variant names one of the four closed solver algorithms. Unlike the
// Python original's importlib-based dynamic dispatch (original_source/matcher/match.py
// get_solver), this is a closed set resolved by New; unknown names are a
// ConfigurationError, never a runtime import failure.
type Variant string

const (
	MinMax       Variant = "MinMax"
	FairFlow     Variant = "FairFlow"
	FairSequence Variant = "FairSequence"
	Randomized   Variant = "Randomized"
)

// ConfigurationError reports a problem with solver configuration detected
// before any solving begins (spec.md §7's "Configuration error" category).
type ConfigurationError struct{ Reason string }

func (e *ConfigurationError) Error() string { return "solver: configuration error: " + e.Reason }

// NoSolutionError reports that the solver could not find a feasible or
// optimal assignment (spec.md §7's "Infeasibility" category, surfaced by
// the orchestrator as status NoSolution).
type NoSolutionError struct{ Reason string }

func (e *NoSolutionError) Error() string { return "solver: no solution: " + e.Reason }

// InternalError reports a violated solver invariant (spec.md §7's "Solver
// internal error" category, e.g. FairFlow's G3 group growing across an
// iteration). This is always a bug, never caller input.
type InternalError struct{ Reason string }

func (e *InternalError) Error() string { return "solver: internal error: " + e.Reason }

// ErrCanceled is returned when the cancellation probe (Problem.Ctx) fires
// between major solve phases.
var ErrCanceled = errors.New("solver: canceled")

// Problem is the input every solver variant consumes: the matrices the
// encoder built plus the quotas the quota resolver computed.
type Problem struct {
	Ctx context.Context

	// Aggregate[r][p] is the raw weighted affinity (encoder.Encoded.Aggregate).
	Aggregate *matrix.Cost
	// Cost[r][p] = -Aggregate[r][p]; what MinMax/FairFlow minimize.
	Cost       *matrix.Cost
	Constraint *matrix.Constraint

	Minimum []int // per reviewer
	Maximum []int // per reviewer
	Demand  []int // per paper

	AllowZeroScore bool
}

// NumReviewers returns the reviewer count.
func (p Problem) NumReviewers() int { return len(p.Minimum) }

// NumPapers returns the paper count.
func (p Problem) NumPapers() int { return len(p.Demand) }

func (p Problem) ctx() context.Context {
	if p.Ctx != nil {
		return p.Ctx
	}
	return context.Background()
}

func (p Problem) canceled() bool {
	select {
	case <-p.ctx().Done():
		return true
	default:
		return false
	}
}

// Config selects a solver variant and its variant-specific parameters.
type Config struct {
	Variant Variant

	// ProbabilityLimit bounds the per-pair marginal probability for
	// Randomized (spec.md §6's randomized_probability_limits), in (0, 1].
	ProbabilityLimit float64

	// Rand, if non-nil, is used by Randomized's dependent rounding instead
	// of a fresh math/rand source, for reproducible tests.
	Rand *rand.Rand
}

// Solver produces a binary assignment matrix satisfying Problem's hard
// constraints while optimizing (or fairly approximating) its objective.
type Solver interface {
	Solve() (*matrix.Assignment, error)
}

// New builds the Solver named by cfg.Variant.
func New(cfg Config, prob Problem) (Solver, error) {
	if err := validate(prob); err != nil {
		return nil, err
	}
	switch cfg.Variant {
	case MinMax:
		return &minMaxSolver{prob: prob}, nil
	case FairFlow:
		return &fairFlowSolver{prob: prob}, nil
	case FairSequence:
		return &fairSequenceSolver{prob: prob}, nil
	case Randomized:
		if cfg.ProbabilityLimit <= 0 || cfg.ProbabilityLimit > 1 {
			return nil, &ConfigurationError{Reason: fmt.Sprintf("randomized probability limit must be in (0,1], got %v", cfg.ProbabilityLimit)}
		}
		rng := cfg.Rand
		if rng == nil {
			rng = rand.New(rand.NewSource(1))
		}
		return &randomizedSolver{prob: prob, pMax: cfg.ProbabilityLimit, rng: rng}, nil
	default:
		return nil, &ConfigurationError{Reason: fmt.Sprintf("unknown solver variant %q", cfg.Variant)}
	}
}

func validate(p Problem) error {
	nr, np := p.NumReviewers(), p.NumPapers()
	if nr == 0 || np == 0 {
		return &ConfigurationError{Reason: "empty reviewer or paper universe"}
	}
	if p.Cost == nil || p.Aggregate == nil || p.Constraint == nil {
		return &ConfigurationError{Reason: "nil matrix in problem"}
	}
	if len(p.Maximum) != nr {
		return &ConfigurationError{Reason: "minimum/maximum length mismatch"}
	}
	sumMin, sumMax, sumDemand := 0, 0, 0
	for r := 0; r < nr; r++ {
		if p.Minimum[r] > p.Maximum[r] {
			return &ConfigurationError{Reason: fmt.Sprintf("reviewer %d: minimum %d exceeds maximum %d", r, p.Minimum[r], p.Maximum[r])}
		}
		sumMin += p.Minimum[r]
		sumMax += p.Maximum[r]
	}
	for p2 := 0; p2 < np; p2++ {
		sumDemand += p.Demand[p2]
	}
	if sumMin > sumDemand || sumDemand > sumMax {
		return &ConfigurationError{Reason: fmt.Sprintf("supply/demand mismatch: Σminimum=%d Σdemand=%d Σmaximum=%d", sumMin, sumDemand, sumMax)}
	}
	return nil
}
