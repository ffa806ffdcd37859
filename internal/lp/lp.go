// Package lp relaxes the assignment problem to a fractional matching via
// Sinkhorn-style iterative proportional scaling, and rounds the result to
// an integral assignment with a dependent rounding scheme that preserves
// column marginals exactly and row marginals in expectation.
//
// No repository in the retrieval pack ships an LP/simplex primitive, so
// this substitutes gonum.org/v1/gonum/mat (already pulled in by the wider
// pack for dense linear algebra) driving the same exponential-weight
// scaling used by optimal-transport solvers, bounded per iteration by a
// row capacity range instead of an exact row target.
package lp

import (
	"context"
	"errors"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ErrNotConverged is returned when the scaling loop exhausts its iteration
// budget without every row settling within its bounds to Epsilon. Only row
// errors are measured: a column whose free entries are held down by
// ProbabilityLimit can end short of its demand without this error.
var ErrNotConverged = errors.New("lp: sinkhorn scaling did not converge")

// Problem is the fractional relaxation input.
type Problem struct {
	Ctx context.Context

	// Score[r][p] is maximized; higher is better.
	Score [][]float64
	// Forbidden[r][p] forces F[r][p] = 0.
	Forbidden [][]bool
	// Fixed[r][p], when non-nil, forces F[r][p] to the given value (used
	// for locked pairs, fixed at 1).
	Fixed [][]*float64

	Minimum, Maximum []int // per reviewer, row bounds
	Demand           []int // per paper, exact column targets

	// ProbabilityLimit bounds every free F[r][p] from above.
	ProbabilityLimit float64

	MaxIterations int
	Epsilon       float64
}

// Relax returns the fractional matrix F satisfying Problem's bounds as
// closely as iterative proportional scaling can achieve within
// MaxIterations. Columns (paper demand) are treated as hard equality
// targets; rows (reviewer load) are soft bounds nudged toward the
// [Minimum, Maximum] range each pass.
func Relax(p Problem) (*mat.Dense, error) {
	nr, np := len(p.Score), 0
	if nr > 0 {
		np = len(p.Score[0])
	}
	if p.MaxIterations <= 0 {
		p.MaxIterations = 200
	}
	if p.Epsilon <= 0 {
		p.Epsilon = 1e-6
	}
	pMax := p.ProbabilityLimit
	if pMax <= 0 || pMax > 1 {
		pMax = 1
	}

	f := mat.NewDense(nr, np, nil)
	fixedMask := make([][]bool, nr)
	for r := 0; r < nr; r++ {
		fixedMask[r] = make([]bool, np)
		for c := 0; c < np; c++ {
			switch {
			case p.Forbidden[r][c]:
				f.Set(r, c, 0)
				fixedMask[r][c] = true
			case p.Fixed[r][c] != nil:
				f.Set(r, c, *p.Fixed[r][c])
				fixedMask[r][c] = true
			default:
				f.Set(r, c, math.Exp(p.Score[r][c]))
			}
		}
	}

	ctx := p.Ctx
	if ctx == nil {
		ctx = context.Background()
	}

	for iter := 0; iter < p.MaxIterations; iter++ {
		if iter%16 == 0 {
			select {
			case <-ctx.Done():
				return f, ctx.Err()
			default:
			}
		}

		maxErr := 0.0

		// Column pass: scale each paper's free mass to hit demand[c] exactly.
		for c := 0; c < np; c++ {
			fixedSum, freeSum := 0.0, 0.0
			for r := 0; r < nr; r++ {
				if fixedMask[r][c] {
					fixedSum += f.At(r, c)
				} else {
					freeSum += f.At(r, c)
				}
			}
			target := float64(p.Demand[c]) - fixedSum
			if target < 0 {
				target = 0
			}
			if freeSum > p.Epsilon {
				scale := target / freeSum
				for r := 0; r < nr; r++ {
					if !fixedMask[r][c] {
						f.Set(r, c, math.Min(f.At(r, c)*scale, pMax))
					}
				}
			}
		}

		// Row pass: nudge each reviewer's free mass toward [minimum, maximum].
		for r := 0; r < nr; r++ {
			fixedSum, freeSum := 0.0, 0.0
			for c := 0; c < np; c++ {
				if fixedMask[r][c] {
					fixedSum += f.At(r, c)
				} else {
					freeSum += f.At(r, c)
				}
			}
			lo := float64(p.Minimum[r]) - fixedSum
			hi := float64(p.Maximum[r]) - fixedSum
			if lo < 0 {
				lo = 0
			}
			if hi < 0 {
				hi = 0
			}
			var target float64
			switch {
			case freeSum < lo:
				target = lo
			case freeSum > hi:
				target = hi
			default:
				target = freeSum
			}
			if diff := math.Abs(freeSum - target); diff > maxErr {
				maxErr = diff
			}
			if freeSum > p.Epsilon && target != freeSum {
				scale := target / freeSum
				for c := 0; c < np; c++ {
					if !fixedMask[r][c] {
						f.Set(r, c, math.Min(f.At(r, c)*scale, pMax))
					}
				}
			}
		}

		if maxErr < p.Epsilon {
			return f, nil
		}
	}

	return f, ErrNotConverged
}
