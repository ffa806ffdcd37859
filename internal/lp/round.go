package lp

import (
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// DependentRound rounds a fractional matrix to {0,1} one column at a time:
// within each column, repeatedly pick two non-integral entries and nudge
// them oppositely (one up, one down) by the smaller of their distances to
// 0/1, choosing the direction with probability proportional to the other
// entry's value. This is the classical pairwise dependent-rounding step
// (Gandhi, Khuller, Parthasarathy); applied per column it preserves each
// column's sum exactly (demand is always integral) while leaving every
// entry's marginal probability of rounding to 1 equal to its fractional
// value.
func DependentRound(f *mat.Dense, rng *rand.Rand) [][]bool {
	nr, np := f.Dims()
	result := make([][]bool, nr)
	for r := range result {
		result[r] = make([]bool, np)
	}

	const eps = 1e-9
	col := make([]float64, nr)
	for c := 0; c < np; c++ {
		for r := 0; r < nr; r++ {
			col[r] = f.At(r, c)
		}

		pending := make([]int, 0, nr)
		for r, v := range col {
			switch {
			case v >= 1-eps:
				result[r][c] = true
			case v <= eps:
				// stays false
			default:
				pending = append(pending, r)
			}
		}

		for len(pending) > 1 {
			i, j := pending[0], pending[1]
			xi, xj := col[i], col[j]
			// Round one of the pair to an integer, preserving xi+xj.
			sum := xi + xj
			var loI, hiI, loJ, hiJ float64
			if sum <= 1+eps {
				loI, hiI = 0, sum
				loJ, hiJ = sum, 0 // xj moves opposite of xi
			} else {
				loI, hiI = sum-1, 1
				loJ, hiJ = 1, sum-1
			}
			// Probability of rounding i up to hiI is chosen so E[new xi] = xi.
			var probUp float64
			if hiI != loI {
				probUp = (xi - loI) / (hiI - loI)
			}
			if rng.Float64() < probUp {
				col[i], col[j] = hiI, hiJ
			} else {
				col[i], col[j] = loI, loJ
			}

			pending = pending[2:]
			for _, r := range []int{i, j} {
				switch {
				case col[r] >= 1-eps:
					result[r][c] = true
				case col[r] <= eps:
				default:
					pending = append(pending, r)
				}
			}
		}
		if len(pending) == 1 {
			r := pending[0]
			if rng.Float64() < col[r] {
				result[r][c] = true
			}
		}
	}

	return result
}
